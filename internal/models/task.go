package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusOverdue   TaskStatus = "overdue"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusOverdue:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	DueDate     *time.Time   `gorm:"index" json:"due_date"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Status      TaskStatus   `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	// CompletedAt is non-nil iff Status is completed.
	CompletedAt *time.Time `json:"completed_at"`
	// CreatedByID references the creator when the account is resolved.
	// CreatedByEmail keeps the raw address for legacy/imported rows whose
	// creator never had an account. CreatedByMatches is the only place
	// the two are compared against a user.
	CreatedByID    *uint64    `gorm:"index" json:"created_by_id"`
	CreatedByEmail string     `gorm:"type:varchar(255)" json:"created_by_email,omitempty"`
	Reminder1      *time.Time `json:"reminder1"`
	Reminder2      *time.Time `json:"reminder2"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	CreatedBy   *User            `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
	History     []TaskHistory    `gorm:"foreignKey:TaskID" json:"history,omitempty"`
	Attachments []TaskAttachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

// CreatedByMatches reports whether u is the task's creator. A resolved
// creator reference wins; legacy rows fall back to a case-insensitive
// email comparison.
func (t Task) CreatedByMatches(u User) bool {
	if t.CreatedByID != nil {
		return *t.CreatedByID == u.ID
	}
	return t.CreatedByEmail != "" && strings.EqualFold(t.CreatedByEmail, u.Email)
}

// IsAssignedTo reports whether the user holds an assignment on the task.
// Assignments must be loaded.
func (t Task) IsAssignedTo(userID uint64) bool {
	for _, a := range t.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// HasDepartmentAssignment reports whether any assignment carries the given
// department snapshot. Assignments must be loaded.
func (t Task) HasDepartmentAssignment(dept string) bool {
	for _, a := range t.Assignments {
		if a.Department == dept {
			return true
		}
	}
	return false
}

// RefreshStatus rewrites a pending task to overdue once its due date is
// strictly in the past. Returns true when the stored status changed.
// Idempotent: it never touches CompletedAt or any other field.
func (t *Task) RefreshStatus(now time.Time) bool {
	if t.Status == TaskStatusPending && t.DueDate != nil && t.DueDate.Before(now) {
		t.Status = TaskStatusOverdue
		return true
	}
	return false
}
