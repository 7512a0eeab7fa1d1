package repository

import (
	"context"

	"holyguitars/internal/cache"
	"holyguitars/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations.
// Create and Delete also maintain the denormalized comment counters on the
// parent post and parent comment, inside one transaction per call.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID string) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, comment *models.Comment) error
	Count(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db       *gorm.DB
	counters counterMutator
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, counters: gormCounters{}}
}

// Create inserts the comment and bumps the post's comment counter, plus the
// parent's reply counter when the comment is a reply. All three writes commit
// or roll back together, so a reader never observes the row without the
// counters or vice versa.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := r.counters.addPostComments(tx, comment.PostID, 1); err != nil {
			return err
		}
		if comment.IsReply() {
			if err := r.counters.addCommentReplies(tx, *comment.ParentID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns the post's top level comments, newest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// ListReplies returns the replies of a comment, oldest first.
func (r *commentRepository) ListReplies(ctx context.Context, parentID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// Delete removes the comment and restores the counters it contributed to.
// A top level comment takes its replies with it: the post's comment counter
// drops by the number of replies plus one, in the same batch that deletes
// the rows. A reply only decrements the post counter and the parent's reply
// counter.
func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if comment.IsReply() {
			if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Comment{}, "id = ?", comment.ID).Error; err != nil {
				return err
			}
			if err := r.counters.addPostComments(tx, comment.PostID, -1); err != nil {
				return err
			}
			return r.counters.addCommentReplies(tx, *comment.ParentID, -1)
		}

		var replyIDs []string
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", comment.ID).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		victims := append(replyIDs, comment.ID)
		if err := tx.Where("comment_id IN ?", victims).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", victims).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return r.counters.addPostComments(tx, comment.PostID, -len(victims))
	})
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}
