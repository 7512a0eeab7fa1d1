package repository

import (
	"context"

	"holyguitars/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository defines the interface for user block operations.
type BlockRepository interface {
	Create(ctx context.Context, block *models.Block) error
	Delete(ctx context.Context, blockerID, blockedUserID string) error
	IsBlocked(ctx context.Context, blockerID, blockedUserID string) (bool, error)
	BlockedIDs(ctx context.Context, blockerID string) ([]string, error)
}

type blockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new BlockRepository
func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

// Create records the block. Blocking someone twice is a no-op.
func (r *blockRepository) Create(ctx context.Context, block *models.Block) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(block).Error
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedUserID string) error {
	return r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_user_id = ?", blockerID, blockedUserID).
		Delete(&models.Block{}).Error
}

func (r *blockRepository) IsBlocked(ctx context.Context, blockerID, blockedUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_user_id = ?", blockerID, blockedUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *blockRepository) BlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_user_id", &ids).Error
	return ids, err
}
