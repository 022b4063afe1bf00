package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const HistoryActionUpdated = "updated"

// FieldChange records the before/after pair for one changed field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// HistoryDetails is the structured payload of a history entry. It is
// stored as a JSON column.
type HistoryDetails struct {
	Changes       map[string]FieldChange `json:"changes"`
	UpdatedFields []string               `json:"updated_fields"`
	FollowComment string                 `json:"follow_comment,omitempty"`
}

func (d HistoryDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *HistoryDetails) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = HistoryDetails{}
		return nil
	default:
		return fmt.Errorf("unsupported history details type %T", value)
	}
}

// TaskHistory is an append-only ledger entry for task mutations and
// follow-up comments. Entries are never updated or deleted outside the
// cascade that removes a task. Comment mirrors Details.FollowComment for
// simpler querying; readers must accept either.
type TaskHistory struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	TaskID        uint64         `gorm:"not null;index" json:"task_id"`
	Action        string         `gorm:"type:varchar(20);not null" json:"action"`
	PerformedByID *uint64        `json:"performed_by_id"`
	Details       HistoryDetails `gorm:"type:json" json:"details"`
	Comment       *string        `gorm:"type:text" json:"comment"`
	Timestamp     time.Time      `gorm:"autoCreateTime;index" json:"timestamp"`

	// Relations
	Task        Task  `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	PerformedBy *User `gorm:"foreignKey:PerformedByID" json:"performed_by,omitempty"`
}

// CommentText returns the follow-up comment carried by the entry, checking
// the structured payload first and the denormalized column second.
func (h TaskHistory) CommentText() string {
	if h.Details.FollowComment != "" {
		return h.Details.FollowComment
	}
	if h.Comment != nil {
		return *h.Comment
	}
	return ""
}
