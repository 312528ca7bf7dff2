package models

import "time"

type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// ActionLog is an append-only audit record written alongside every task
// mutation. Entries are never updated or deleted.
type ActionLog struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	ActionType  ActionType `gorm:"type:varchar(10);not null" json:"action_type"`
	TaskID      uint64     `json:"task_id"`
	UserID      uint64     `gorm:"not null" json:"user_id"`
	ProjectID   uint64     `gorm:"not null;index" json:"project_id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
