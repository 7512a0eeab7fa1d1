package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Block records one user hiding another. At most one block exists per
// (blocker, blocked) pair.
type Block struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	BlockerID     string    `gorm:"not null;uniqueIndex:idx_blocker_blocked" json:"blockerId"`
	BlockedUserID string    `gorm:"not null;uniqueIndex:idx_blocker_blocked" json:"blockedUserId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BeforeCreate assigns the server-side opaque key.
func (b *Block) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
