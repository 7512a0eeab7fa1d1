package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"holyguitars/internal/middleware"
	"holyguitars/internal/models"
	"holyguitars/internal/repository"
)

// ModerationService backs the admin dashboard. Every operation resolves the
// actor's capability set once and checks the specific capability it needs.
type ModerationService struct {
	userRepo      repository.UserRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	reportRepo    repository.ReportRepository
	notifications *NotificationService
}

// Stats is the admin dashboard summary. The week fields count records
// created in the trailing seven days.
type Stats struct {
	Users          int64 `json:"users"`
	Posts          int64 `json:"posts"`
	Comments       int64 `json:"comments"`
	PendingReports int64 `json:"pendingReports"`
	NewUsersWeek   int64 `json:"newUsersWeek"`
	NewPostsWeek   int64 `json:"newPostsWeek"`
}

type UpdateRoleInput struct {
	ActorID   string
	TargetUID string
	Role      string
}

type BanInput struct {
	ActorID   string
	TargetUID string
	Reason    string
}

type ReviewReportInput struct {
	ActorID  string
	ReportID string
	Status   string
	Action   string
}

// UserPage is a paginated user listing.
type UserPage struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
}

// ReportPage is a paginated report listing.
type ReportPage struct {
	Reports []*models.Report `json:"reports"`
	Total   int64            `json:"total"`
}

func NewModerationService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reportRepo repository.ReportRepository,
	notifications *NotificationService,
) *ModerationService {
	return &ModerationService{
		userRepo:      userRepo,
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		reportRepo:    reportRepo,
		notifications: notifications,
	}
}

func (s *ModerationService) requireCapability(ctx context.Context, actorID string, check func(models.Capabilities) bool) error {
	caps, _, err := capabilitiesOf(ctx, s.userRepo, actorID)
	if err != nil {
		return err
	}
	if !check(caps) {
		return models.NewForbiddenError("Insufficient permissions")
	}
	return nil
}

func (s *ModerationService) GetStats(ctx context.Context, actorID string) (*Stats, error) {
	if err := s.requireCapability(ctx, actorID, func(c models.Capabilities) bool { return c.CanModerate }); err != nil {
		return nil, err
	}

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.reportRepo.CountByStatus(ctx, models.ReportStatusPending)
	if err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	newUsers, err := s.userRepo.CountSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	newPosts, err := s.postRepo.CountSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Users:          users,
		Posts:          posts,
		Comments:       comments,
		PendingReports: pending,
		NewUsersWeek:   newUsers,
		NewPostsWeek:   newPosts,
	}, nil
}

func (s *ModerationService) ListUsers(ctx context.Context, actorID string, limit, offset int) (*UserPage, error) {
	if err := s.requireCapability(ctx, actorID, func(c models.Capabilities) bool { return c.CanModerate }); err != nil {
		return nil, err
	}
	users, total, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total}, nil
}

// UpdateRole changes a user's role. Actors cannot change their own role, so
// the last admin cannot lock everyone out by accident.
func (s *ModerationService) UpdateRole(ctx context.Context, in UpdateRoleInput) error {
	if err := s.requireCapability(ctx, in.ActorID, func(c models.Capabilities) bool { return c.CanAssignRoles }); err != nil {
		return err
	}
	if !models.ValidRole(in.Role) {
		return models.NewValidationError("Unknown role")
	}
	if in.ActorID == in.TargetUID {
		return models.NewValidationError("You cannot change your own role")
	}
	if err := s.userRepo.UpdateRole(ctx, in.TargetUID, in.Role); err != nil {
		return notFound(err, "User", in.TargetUID)
	}
	return nil
}

func (s *ModerationService) BanUser(ctx context.Context, in BanInput) error {
	if err := s.requireCapability(ctx, in.ActorID, func(c models.Capabilities) bool { return c.CanModerate }); err != nil {
		return err
	}
	if in.ActorID == in.TargetUID {
		return models.NewValidationError("You cannot ban yourself")
	}

	target, err := s.userRepo.GetByUID(ctx, in.TargetUID)
	if err != nil {
		return notFound(err, "User", in.TargetUID)
	}
	if models.CapabilitiesFor(target.Role).CanAssignRoles {
		return models.NewForbiddenError("Admins cannot be banned")
	}

	if err := s.userRepo.SetBanned(ctx, in.TargetUID, true, in.Reason); err != nil {
		return err
	}

	s.notifySystem(ctx, in.TargetUID, "Account suspended",
		fmt.Sprintf("Your account has been suspended. Reason: %s", in.Reason))
	return nil
}

func (s *ModerationService) UnbanUser(ctx context.Context, actorID, targetUID string) error {
	if err := s.requireCapability(ctx, actorID, func(c models.Capabilities) bool { return c.CanModerate }); err != nil {
		return err
	}
	if err := s.userRepo.SetBanned(ctx, targetUID, false, ""); err != nil {
		return notFound(err, "User", targetUID)
	}
	s.notifySystem(ctx, targetUID, "Account restored", "Your account has been restored.")
	return nil
}

func (s *ModerationService) DeleteUser(ctx context.Context, actorID, targetUID string) error {
	if err := s.requireCapability(ctx, actorID, func(c models.Capabilities) bool { return c.CanDeleteUsers }); err != nil {
		return err
	}
	if actorID == targetUID {
		return models.NewValidationError("You cannot delete your own account here")
	}
	if _, err := s.userRepo.GetByUID(ctx, targetUID); err != nil {
		return notFound(err, "User", targetUID)
	}
	return s.userRepo.Delete(ctx, targetUID)
}

func (s *ModerationService) ListReports(ctx context.Context, actorID, status string, limit, offset int) (*ReportPage, error) {
	if err := s.requireCapability(ctx, actorID, func(c models.Capabilities) bool { return c.CanModerate }); err != nil {
		return nil, err
	}
	if status != "" && !models.ValidReportStatus(status) {
		return nil, models.NewValidationError("Unknown report status")
	}
	reports, total, err := s.reportRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ReportPage{Reports: reports, Total: total}, nil
}

func (s *ModerationService) ListReportedPosts(ctx context.Context, actorID string, limit, offset int) (*PostPage, error) {
	if err := s.requireCapability(ctx, actorID, func(c models.Capabilities) bool { return c.CanModerate }); err != nil {
		return nil, err
	}
	posts, total, err := s.postRepo.ListReported(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

// ReviewReport moves a report through its status machine and records the
// action taken. The reporter is told when their report reaches a terminal
// status.
func (s *ModerationService) ReviewReport(ctx context.Context, in ReviewReportInput) error {
	if err := s.requireCapability(ctx, in.ActorID, func(c models.Capabilities) bool { return c.CanModerate }); err != nil {
		return err
	}
	if !models.ValidReportStatus(in.Status) {
		return models.NewValidationError("Unknown report status")
	}

	report, err := s.reportRepo.GetByID(ctx, in.ReportID)
	if err != nil {
		return notFound(err, "Report", in.ReportID)
	}

	if err := s.reportRepo.UpdateStatus(ctx, in.ReportID, in.Status, in.Action, in.ActorID); err != nil {
		return notFound(err, "Report", in.ReportID)
	}

	switch in.Status {
	case models.ReportStatusResolved:
		s.notifySystem(ctx, report.ReporterID, "Report resolved",
			"Your report has been reviewed and action has been taken.")
	case models.ReportStatusDismissed:
		s.notifySystem(ctx, report.ReporterID, "Report reviewed",
			"Your report has been reviewed and no action was necessary.")
	}
	return nil
}

func (s *ModerationService) notifySystem(ctx context.Context, uid, title, message string) {
	if s.notifications == nil {
		return
	}
	err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:  uid,
		Type:    models.NotificationSystem,
		Title:   title,
		Message: message,
	})
	if err != nil {
		middleware.Logger.Warn("system notification failed",
			slog.String("user_id", uid),
			slog.String("error", err.Error()))
	}
}
