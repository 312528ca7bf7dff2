package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// ValidStatus reports whether s is one of the three board columns.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// ValidPriority reports whether p is a known priority level.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null;index:idx_tasks_project_title,unique" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'Todo'" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	AssigneeID   *uint64      `json:"assigned_to"`
	CreatorID    uint64       `gorm:"not null" json:"creator_id"`
	ProjectID    uint64       `gorm:"not null;index:idx_tasks_project_title,unique" json:"project_id"`
	GithubLink   string       `gorm:"type:varchar(512)" json:"github_link"`
	YoutubeLink  string       `gorm:"type:varchar(512)" json:"youtube_link"`
	DatabaseLink string       `gorm:"type:varchar(512)" json:"database_link"`
	Deadline     *time.Time   `json:"deadline"`
	Reminder     *time.Time   `json:"reminder"`
	Notified     bool         `gorm:"not null;default:false" json:"notified"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator  User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// AuthorizedFor reports whether the user is the task's creator or its
// current assignee.
func (t *Task) AuthorizedFor(userID uint64) bool {
	if t.CreatorID == userID {
		return true
	}
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
