package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a comment on a post. A nil ParentID marks a top-level comment;
// a non-nil ParentID references another comment in the same post (validated
// at creation time only). RepliesCount is meaningful only for top-level
// comments but defaults to zero everywhere.
type Comment struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	PostID   string  `gorm:"not null;index" json:"postId"`
	ParentID *string `gorm:"index" json:"parentId"`
	Content  string  `gorm:"type:text;not null" json:"content"`

	UserID    string `gorm:"not null;index" json:"userId"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto,omitempty"`

	RepliesCount int `gorm:"not null;default:0" json:"repliesCount"`
	Likes        int `gorm:"not null;default:0" json:"likes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the server-side opaque key.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsReply reports whether the comment has a parent.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != ""
}
