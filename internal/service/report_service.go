package service

import (
	"context"
	"errors"

	"holyguitars/internal/models"
	"holyguitars/internal/repository"
)

const maxReportDescriptionLen = 1000

type ReportService struct {
	reportRepo  repository.ReportRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	blockRepo   repository.BlockRepository
}

type CreateReportInput struct {
	ReporterID   string
	ReporterName string
	TargetType   string
	TargetID     string
	Reason       string
	Description  string
}

type BlockInput struct {
	BlockerID     string
	BlockedUserID string
}

func NewReportService(
	reportRepo repository.ReportRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	blockRepo repository.BlockRepository,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		blockRepo:   blockRepo,
	}
}

// CreateReport files a report against a post, comment or user. A reporter
// gets one report per target; a second attempt is rejected as a conflict.
// Post reports also bump the post's report counter so heavily reported
// posts surface in the admin dashboard.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if !models.ValidReportReason(in.TargetType, in.Reason) {
		return nil, models.NewValidationError("Invalid report reason")
	}
	if len(in.Description) > maxReportDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 1000 characters)")
	}

	report := &models.Report{
		TargetType:   in.TargetType,
		TargetID:     in.TargetID,
		ReporterID:   in.ReporterID,
		ReporterName: in.ReporterName,
		Reason:       in.Reason,
		Description:  in.Description,
		Status:       models.ReportStatusPending,
	}

	switch in.TargetType {
	case models.ReportTargetPost:
		post, err := s.postRepo.GetByID(ctx, in.TargetID)
		if err != nil {
			return nil, notFound(err, "Post", in.TargetID)
		}
		report.PostID = post.ID
		report.TargetAuthorID = post.AuthorID
	case models.ReportTargetComment:
		comment, err := s.commentRepo.GetByID(ctx, in.TargetID)
		if err != nil {
			return nil, notFound(err, "Comment", in.TargetID)
		}
		report.PostID = comment.PostID
		report.TargetAuthorID = comment.UserID
	case models.ReportTargetUser:
		user, err := s.userRepo.GetByUID(ctx, in.TargetID)
		if err != nil {
			return nil, notFound(err, "User", in.TargetID)
		}
		report.TargetAuthorID = user.UID
	}

	if report.TargetAuthorID == in.ReporterID {
		return nil, models.NewValidationError("You cannot report your own content")
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		if errors.Is(err, repository.ErrDuplicateReport) {
			return nil, models.NewConflictError("You have already reported this content")
		}
		return nil, err
	}

	if in.TargetType == models.ReportTargetPost {
		if err := s.postRepo.IncrementReportCount(ctx, in.TargetID); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// BlockUser hides another user's content from the blocker. Blocking twice
// is a no-op.
func (s *ReportService) BlockUser(ctx context.Context, in BlockInput) error {
	if in.BlockerID == in.BlockedUserID {
		return models.NewValidationError("You cannot block yourself")
	}
	if _, err := s.userRepo.GetByUID(ctx, in.BlockedUserID); err != nil {
		return notFound(err, "User", in.BlockedUserID)
	}
	return s.blockRepo.Create(ctx, &models.Block{
		BlockerID:     in.BlockerID,
		BlockedUserID: in.BlockedUserID,
	})
}

func (s *ReportService) UnblockUser(ctx context.Context, in BlockInput) error {
	return s.blockRepo.Delete(ctx, in.BlockerID, in.BlockedUserID)
}

func (s *ReportService) BlockedUserIDs(ctx context.Context, blockerID string) ([]string, error) {
	return s.blockRepo.BlockedIDs(ctx, blockerID)
}
