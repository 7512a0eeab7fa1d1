package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types produced by fan-out.
const (
	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationLike    = "like"
	NotificationReport  = "report"
	NotificationSystem  = "system"
)

// Notification is created as a side effect of another actor's action and
// mutated only by the recipient (mark read / delete).
type Notification struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"not null;index" json:"userId"`
	Type   string `gorm:"not null" json:"type"`

	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`

	FromUserID    string `json:"fromUserId,omitempty"`
	FromUserName  string `json:"fromUserName,omitempty"`
	FromUserPhoto string `json:"fromUserPhoto,omitempty"`

	Read   bool       `gorm:"not null;default:false;index" json:"read"`
	ReadAt *time.Time `json:"readAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns the server-side opaque key.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
