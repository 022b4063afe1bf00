package dto

import (
	"time"

	"github.com/kite-oss/task-schedule-api/internal/models"
)

// TaskAssignmentDTO represents a task assignment in API responses. The
// department is the snapshot captured at assignment time, which can differ
// from the assignee's current profile.
type TaskAssignmentDTO struct {
	User       UserDTO `json:"user"`
	Department string  `json:"department"`
}

// TaskAttachmentDTO represents an attachment in API responses
type TaskAttachmentDTO struct {
	ID       uint64 `json:"id"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
}

// TaskListItemDTO represents a task in list responses
type TaskListItemDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	CompletedAt *time.Time          `json:"completed_at"`
	CreatedBy   string              `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	Assignments []TaskAssignmentDTO `json:"assignments"`
}

// TaskDetailDTO represents a single task with history and attachments
type TaskDetailDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	CompletedAt *time.Time          `json:"completed_at"`
	CreatedBy   string              `json:"created_by"`
	Reminder1   *time.Time          `json:"reminder1"`
	Reminder2   *time.Time          `json:"reminder2"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Assignments []TaskAssignmentDTO `json:"assignments"`
	History     []HistoryEntryDTO   `json:"history"`
	Attachments []TaskAttachmentDTO `json:"attachments"`
}

// creatorLabel prefers the resolved creator's email and falls back to the
// legacy raw address.
func creatorLabel(task models.Task) string {
	if task.CreatedBy != nil {
		return task.CreatedBy.Email
	}
	return task.CreatedByEmail
}

func toAssignmentDTOs(assignments []models.TaskAssignment) []TaskAssignmentDTO {
	out := make([]TaskAssignmentDTO, len(assignments))
	for i, a := range assignments {
		out[i] = TaskAssignmentDTO{
			User:       ToUserDTO(a.User),
			Department: a.Department,
		}
	}
	return out
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	return TaskListItemDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		CompletedAt: task.CompletedAt,
		CreatedBy:   creatorLabel(task),
		CreatedAt:   task.CreatedAt,
		Assignments: toAssignmentDTOs(task.Assignments),
	}
}

// ToTaskListItemDTOs converts a slice of tasks
func ToTaskListItemDTOs(tasks []models.Task) []TaskListItemDTO {
	out := make([]TaskListItemDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskListItemDTO(t)
	}
	return out
}

// ToTaskDetailDTO converts a Task model with relations to TaskDetailDTO.
// includeComments controls whether history entries keep their follow-up
// comments; HOD views must not see them.
func ToTaskDetailDTO(task models.Task, includeComments bool) TaskDetailDTO {
	history := make([]HistoryEntryDTO, len(task.History))
	for i, h := range task.History {
		history[i] = ToHistoryEntryDTO(h, includeComments)
	}

	attachments := make([]TaskAttachmentDTO, len(task.Attachments))
	for i, a := range task.Attachments {
		attachments[i] = TaskAttachmentDTO{
			ID:       a.ID,
			FileName: a.FileName,
			FilePath: a.FilePath,
		}
	}

	return TaskDetailDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		CompletedAt: task.CompletedAt,
		CreatedBy:   creatorLabel(task),
		Reminder1:   task.Reminder1,
		Reminder2:   task.Reminder2,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Assignments: toAssignmentDTOs(task.Assignments),
		History:     history,
		Attachments: attachments,
	}
}
