package repository

import (
	"context"
	"time"

	"holyguitars/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateReport is returned when a reporter has already filed a report
// against the same target.
var ErrDuplicateReport = gorm.ErrDuplicatedKey

// ReportRepository defines the interface for report data operations.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Report, int64, error)
	UpdateStatus(ctx context.Context, id, status, action, reviewerUID string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	DeleteByTarget(ctx context.Context, targetType, targetID string) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create inserts the report. The unique (reporter, target) index arbitrates
// duplicates: an insert that conflicts affects zero rows and is reported as
// ErrDuplicateReport.
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(report)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateReport
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Report, int64, error) {
	var reports []*models.Report
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id, status, action, reviewerUID string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"action":      action,
			"reviewed_by": reviewerUID,
			"reviewed_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reportRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	base := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	err := base.Count(&count).Error
	return count, err
}

func (r *reportRepository) DeleteByTarget(ctx context.Context, targetType, targetID string) error {
	return r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&models.Report{}).Error
}
