package repository

import (
	"context"
	"strings"

	"holyguitars/internal/models"

	"gorm.io/gorm"
)

// SearchRepository runs substring matching over posts. It scans with LIKE
// rather than delegating to a search engine; the corpus is small enough
// that a linear match keeps results exact and the stack simple.
type SearchRepository interface {
	SearchPosts(ctx context.Context, query, category string, limit, offset int) ([]*models.Post, int64, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)
}

type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

// SearchPosts matches the query case-insensitively against title,
// description, brand and model. LOWER(...) LIKE keeps the comparison
// portable between PostgreSQL and the SQLite test databases.
func (r *searchRepository) SearchPosts(ctx context.Context, query, category string, limit, offset int) ([]*models.Post, int64, error) {
	like := "%" + strings.ToLower(query) + "%"

	base := r.db.WithContext(ctx).Model(&models.Post{}).
		Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(model) LIKE ?",
			like, like, like, like,
		)
	if category != "" {
		base = base.Where("category = ?", category)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := base.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// SearchUsers matches the query case-insensitively against display names.
// Emails are never part of the match.
func (r *searchRepository) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	like := "%" + strings.ToLower(query) + "%"

	var users []*models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(display_name) LIKE ?", like).
		Order("display_name ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
