// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post categories understood by the client.
const (
	CategoryGeneral   = "general"
	CategoryEquipment = "equipment"
	CategoryVideo     = "video"
)

// Post is a community post. Likes, CommentsCount and ReportCount are
// denormalized counters; the like-relation and comment sets are the source
// of truth, and the counters move only through atomic increments.
type Post struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"not null;index" json:"category"`
	Subcategory string `gorm:"index" json:"subcategory"`

	// Equipment posts only.
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`

	// Media lives in external blob storage; only URLs are kept here.
	ImageURL     string `json:"imageUrl,omitempty"`
	VideoURL     string `json:"videoUrl,omitempty"`
	VideoFileURL string `json:"videoFileUrl,omitempty"`

	AuthorID    string `gorm:"not null;index" json:"authorId"`
	AuthorName  string `json:"authorName"`
	AuthorPhoto string `json:"authorPhoto,omitempty"`

	Likes         int `gorm:"not null;default:0" json:"likes"`
	CommentsCount int `gorm:"not null;default:0" json:"commentsCount"`
	ReportCount   int `gorm:"not null;default:0" json:"reportCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the server-side opaque key.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
