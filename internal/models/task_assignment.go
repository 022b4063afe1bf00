package models

import "time"

// TaskAssignment joins a task to an assignee. The composite primary key is
// the storage-level uniqueness constraint for the (task, assignee) pair.
// Department is a snapshot of the assignee's profile department at
// assignment time, not a live join: it stays authoritative even if the
// profile changes later.
type TaskAssignment struct {
	TaskID     uint64    `gorm:"primarykey" json:"task_id"`
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	Department string    `gorm:"type:varchar(50);not null;index" json:"department"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
