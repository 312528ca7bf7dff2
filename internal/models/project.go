package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	CreatorID uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator User            `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// IsMember reports whether the user appears in the preloaded member list.
func (p *Project) IsMember(userID uint64) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is an admin member. The creator is
// always seeded as an admin when the project is created.
func (p *Project) IsAdmin(userID uint64) bool {
	for _, m := range p.Members {
		if m.UserID == userID && m.Admin {
			return true
		}
	}
	return false
}
