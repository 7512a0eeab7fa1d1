package repository

import (
	"context"

	"holyguitars/internal/cache"
	"holyguitars/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository toggles like relations and keeps the like counters in step.
// The composite primary key on the relation rows is the arbiter under
// concurrency: a counter only moves when the insert or delete actually
// changed a row.
type LikeRepository interface {
	TogglePostLike(ctx context.Context, postID, userID string) (bool, error)
	ToggleCommentLike(ctx context.Context, commentID, userID string) (bool, error)
	IsPostLiked(ctx context.Context, postID, userID string) (bool, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error)
	LikedCommentIDs(ctx context.Context, userID string, commentIDs []string) ([]string, error)
}

type likeRepository struct {
	db       *gorm.DB
	counters counterMutator
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, counters: gormCounters{}}
}

// TogglePostLike flips the caller's like on a post and returns the resulting
// state. The insert uses ON CONFLICT DO NOTHING so two racing toggles for the
// same pair collide on the primary key instead of double counting; the
// counter moves only for the call whose row actually changed.
func (r *likeRepository) TogglePostLike(ctx context.Context, postID, userID string) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostLike{PostID: postID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = true
			return r.counters.addPostLikes(tx, postID, 1)
		}

		res = tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		liked = false
		if res.RowsAffected > 0 {
			return r.counters.addPostLikes(tx, postID, -1)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	cache.InvalidatePost(ctx, postID)
	return liked, nil
}

// ToggleCommentLike is the comment counterpart of TogglePostLike.
func (r *likeRepository) ToggleCommentLike(ctx context.Context, commentID, userID string) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommentLike{CommentID: commentID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = true
			return r.counters.addCommentLikes(tx, commentID, 1)
		}

		res = tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		liked = false
		if res.RowsAffected > 0 {
			return r.counters.addCommentLikes(tx, commentID, -1)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (r *likeRepository) IsPostLiked(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) LikedPostIDs(ctx context.Context, userID string, postIDs []string) ([]string, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var liked []string
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error
	return liked, err
}

func (r *likeRepository) LikedCommentIDs(ctx context.Context, userID string, commentIDs []string) ([]string, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var liked []string
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &liked).Error
	return liked, err
}
