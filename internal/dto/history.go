package dto

import (
	"time"

	"github.com/kite-oss/task-schedule-api/internal/models"
)

// HistoryEntryDTO represents a single history entry in API responses
type HistoryEntryDTO struct {
	ID            uint64               `json:"id"`
	TaskID        uint64               `json:"task_id"`
	Action        string               `json:"action"`
	Changes       map[string]ChangeDTO `json:"changes"`
	UpdatedFields []string             `json:"updated_fields"`
	Comment       string               `json:"comment,omitempty"`
	PerformedBy   *UserDTO             `json:"performed_by"`
	Timestamp     time.Time            `json:"timestamp"`
}

// ChangeDTO is an old/new value pair for a single field
type ChangeDTO struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ActivityDTO is a compact history entry for the dashboard activity feed
type ActivityDTO struct {
	ID          uint64    `json:"id"`
	TaskID      uint64    `json:"task_id"`
	TaskTitle   string    `json:"task_title"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// CommentDTO represents a follow-up comment in API responses
type CommentDTO struct {
	ID              uint64    `json:"id"`
	TaskID          uint64    `json:"task_id"`
	TaskTitle       string    `json:"task_title"`
	Comment         string    `json:"comment"`
	PerformedBy     string    `json:"performed_by"`
	PerformedByRole string    `json:"performed_by_role"`
	Timestamp       time.Time `json:"timestamp"`
}

func performerLabel(u *models.User) string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// ToHistoryEntryDTO converts a TaskHistory model to HistoryEntryDTO.
// includeComments controls whether the follow-up comment is exposed.
func ToHistoryEntryDTO(entry models.TaskHistory, includeComments bool) HistoryEntryDTO {
	changes := make(map[string]ChangeDTO, len(entry.Details.Changes))
	for field, change := range entry.Details.Changes {
		changes[field] = ChangeDTO{Old: change.Old, New: change.New}
	}

	dto := HistoryEntryDTO{
		ID:            entry.ID,
		TaskID:        entry.TaskID,
		Action:        entry.Action,
		Changes:       changes,
		UpdatedFields: entry.Details.UpdatedFields,
		Timestamp:     entry.Timestamp,
	}
	if dto.UpdatedFields == nil {
		dto.UpdatedFields = []string{}
	}
	if includeComments {
		dto.Comment = entry.CommentText()
	}
	if entry.PerformedBy != nil {
		u := ToUserDTO(*entry.PerformedBy)
		dto.PerformedBy = &u
	}
	return dto
}

// ToActivityDTO converts a TaskHistory model to a dashboard activity entry
func ToActivityDTO(entry models.TaskHistory) ActivityDTO {
	return ActivityDTO{
		ID:          entry.ID,
		TaskID:      entry.TaskID,
		TaskTitle:   entry.Task.Title,
		Action:      entry.Action,
		PerformedBy: performerLabel(entry.PerformedBy),
		Timestamp:   entry.Timestamp,
	}
}

// ToActivityDTOs converts a slice of history entries
func ToActivityDTOs(entries []models.TaskHistory) []ActivityDTO {
	out := make([]ActivityDTO, len(entries))
	for i, e := range entries {
		out[i] = ToActivityDTO(e)
	}
	return out
}

// ToCommentDTO converts a comment-bearing history entry to CommentDTO
func ToCommentDTO(entry models.TaskHistory) CommentDTO {
	dto := CommentDTO{
		ID:          entry.ID,
		TaskID:      entry.TaskID,
		TaskTitle:   entry.Task.Title,
		Comment:     entry.CommentText(),
		PerformedBy: performerLabel(entry.PerformedBy),
		Timestamp:   entry.Timestamp,
	}
	if entry.PerformedBy != nil {
		dto.PerformedByRole = string(entry.PerformedBy.Role)
	}
	return dto
}

// ToCommentDTOs converts a slice of comment-bearing history entries
func ToCommentDTOs(entries []models.TaskHistory) []CommentDTO {
	out := make([]CommentDTO, len(entries))
	for i, e := range entries {
		out[i] = ToCommentDTO(e)
	}
	return out
}
