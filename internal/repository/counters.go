package repository

import (
	"gorm.io/gorm"

	"holyguitars/internal/models"
)

// counterMutator is the only place denormalized counters are written. Every
// counter change flows through it so the floor-at-zero rule holds everywhere.
type counterMutator interface {
	addPostLikes(tx *gorm.DB, postID string, delta int) error
	addPostComments(tx *gorm.DB, postID string, delta int) error
	addCommentLikes(tx *gorm.DB, commentID string, delta int) error
	addCommentReplies(tx *gorm.DB, commentID string, delta int) error
}

type gormCounters struct{}

// floorExpr builds an atomic increment that never drives the column below zero.
// CASE is used instead of GREATEST so the expression runs on both PostgreSQL
// and the SQLite test databases.
func floorExpr(column string, delta int) interface{} {
	return gorm.Expr(
		"CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END",
		delta, delta,
	)
}

func (gormCounters) addPostLikes(tx *gorm.DB, postID string, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("likes", floorExpr("likes", delta)).Error
}

func (gormCounters) addPostComments(tx *gorm.DB, postID string, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comments_count", floorExpr("comments_count", delta)).Error
}

func (gormCounters) addCommentLikes(tx *gorm.DB, commentID string, delta int) error {
	return tx.Model(&models.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("likes", floorExpr("likes", delta)).Error
}

func (gormCounters) addCommentReplies(tx *gorm.DB, commentID string, delta int) error {
	return tx.Model(&models.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("replies_count", floorExpr("replies_count", delta)).Error
}
