// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a published "Fatherhood is..." card: user text plus the generated
// illustration. Posts are never hard-deleted; only counters and the
// publication flag mutate after creation.
type Post struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	Text       string  `gorm:"not null" json:"text"`
	AuthorName *string `gorm:"size:100" json:"author_name"`
	ImageURL   string  `gorm:"not null" json:"image_url"`
	PreviewURL string  `json:"preview_url,omitempty"`
	LikesCount int     `gorm:"not null;default:0" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int       `gorm:"->;-:migration" json:"comments_count"`
	IsPublished   bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID so IDs are portable across Postgres and the
// sqlite test driver.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
