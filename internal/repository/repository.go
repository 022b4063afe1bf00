package repository

import (
	"github.com/kite-oss/task-schedule-api/internal/models"
)

// TaskScope restricts queries to the slice of tasks a role may see:
// admin/staff see everything, HOD sees tasks with an assignment snapshot in
// their department, faculty sees tasks assigned to them. A zero scope
// matches nothing.
type TaskScope struct {
	All        bool
	Department string
	AssigneeID *uint64
}

// TaskStats holds the dashboard counters over a scope.
type TaskStats struct {
	Total     int64 `json:"total_task"`
	Completed int64 `json:"completed_task"`
	Ongoing   int64 `json:"ongoing_task"`
}

// TaskRepository defines the interface for task data access. The history
// ledger's write side lives here too: entries are derived from task store
// writes and must commit in the same transaction.
type TaskRepository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction; fn's writes commit together or not at all.
	Transaction(fn func(tx TaskRepository) error) error

	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks visible in the scope, newest first
	List(scope TaskScope) ([]models.Task, error)

	// Save persists all fields of a task
	Save(task *models.Task) error

	// UpdateStatus rewrites only the status column
	UpdateStatus(id uint64, status models.TaskStatus) error

	// Delete removes a task, cascading assignments, history and attachments
	Delete(id uint64) error

	// ReplaceAssignments deletes every assignment for the task and inserts
	// the given set
	ReplaceAssignments(taskID uint64, assignments []models.TaskAssignment) error

	// CreateAssignments inserts assignments for a task
	CreateAssignments(assignments []models.TaskAssignment) error

	// CreateHistory appends an entry to the history ledger
	CreateHistory(entry *models.TaskHistory) error

	// Stats returns the dashboard counters for the scope
	Stats(scope TaskScope) (TaskStats, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users ordered by role then department
	List() ([]models.User, error)

	// Save persists all fields of a user
	Save(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error
}

// HistoryRepository is the read side of the history ledger.
type HistoryRepository interface {
	// Recent returns the latest entries for tasks in the scope
	Recent(scope TaskScope, limit int) ([]models.TaskHistory, error)

	// CommentEntries returns entries carrying a follow-up comment for tasks
	// in the scope, newest first, with the total count for pagination
	CommentEntries(scope TaskScope, offset, limit int) ([]models.TaskHistory, int64, error)

	// TaskCommentEntries returns comment-carrying entries for one task
	TaskCommentEntries(taskID uint64) ([]models.TaskHistory, error)
}
