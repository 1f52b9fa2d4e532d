package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User identifies a comment author. There is no signup or authentication
// flow in this service; user rows are provisioned externally and referenced
// by ID in comment requests.
type User struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
