package models

import "time"

// PostLike is the per-(post, user) membership record that is the source of
// truth for post like state. The composite primary key makes a duplicate
// insert collide, which is what arbitrates concurrent toggles.
type PostLike struct {
	PostID    string    `gorm:"primaryKey" json:"postId"`
	UserID    string    `gorm:"primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentLike is the like relation for comments, keyed the same way.
type CommentLike struct {
	CommentID string    `gorm:"primaryKey" json:"commentId"`
	UserID    string    `gorm:"primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
