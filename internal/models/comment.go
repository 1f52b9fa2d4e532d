package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a user comment on a post. Comments are soft-deleted: the
// is_deleted flag is set and the row retained.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"not null;size:36;index" json:"post_id"`
	UserID    string    `gorm:"not null;size:36;index" json:"user_id"`
	Content   string    `gorm:"not null" json:"content"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
