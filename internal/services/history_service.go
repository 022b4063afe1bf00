package services

import (
	"errors"
	"fmt"

	"github.com/kite-oss/task-schedule-api/internal/constants"
	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/policy"
	"github.com/kite-oss/task-schedule-api/internal/repository"
	"gorm.io/gorm"
)

// ErrCommentsForbidden is returned when a HOD asks for follow-up comments;
// the denial is an organizational decision, not a missing capability.
var ErrCommentsForbidden = errors.New("HODs do not have access to follow-up comments")

// HistoryService serves role-filtered views over the history ledger.
type HistoryService struct {
	historyRepo repository.HistoryRepository
	taskRepo    repository.TaskRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(historyRepo repository.HistoryRepository, taskRepo repository.TaskRepository) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		taskRepo:    taskRepo,
	}
}

// RecentActivity holds the activity feed: latest ledger entries for tasks
// the actor can see, plus the latest follow-up comments where the role is
// allowed them.
type RecentActivity struct {
	Entries  []models.TaskHistory
	Comments []models.TaskHistory
}

// Recent returns the activity feed for the actor. HOD receives entries for
// department tasks but an empty comment feed.
func (s *HistoryService) Recent(actor models.User) (RecentActivity, error) {
	entries, err := s.historyRepo.Recent(taskScopeFor(actor), constants.RecentActivityLimit)
	if err != nil {
		return RecentActivity{}, fmt.Errorf("failed to fetch history: %w", err)
	}

	feed := RecentActivity{Entries: entries, Comments: []models.TaskHistory{}}

	commentScope := commentScopeFor(actor)
	if commentScope != (repository.TaskScope{}) {
		comments, _, err := s.historyRepo.CommentEntries(commentScope, 0, constants.RecentCommentLimit)
		if err != nil {
			return RecentActivity{}, fmt.Errorf("failed to fetch comments: %w", err)
		}
		feed.Comments = comments
	}

	return feed, nil
}

// TaskComments returns the follow-up comments on one task, gated by the
// viewComments policy.
func (s *HistoryService) TaskComments(taskID uint64, actor models.User) ([]models.TaskHistory, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanPerform(actor, *task, policy.OpViewComments) {
		if actor.Role == models.RoleHOD {
			return nil, ErrCommentsForbidden
		}
		return nil, ErrPermissionDenied
	}

	entries, err := s.historyRepo.TaskCommentEntries(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return entries, nil
}

// AllComments returns the paginated comment feed for the actor's scope.
// HOD always gets an empty page.
func (s *HistoryService) AllComments(actor models.User, offset, limit int) ([]models.TaskHistory, int64, error) {
	scope := commentScopeFor(actor)
	if scope == (repository.TaskScope{}) {
		return []models.TaskHistory{}, 0, nil
	}

	entries, total, err := s.historyRepo.CommentEntries(scope, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return entries, total, nil
}
