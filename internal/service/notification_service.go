package service

import (
	"context"
	"log/slog"

	"holyguitars/internal/middleware"
	"holyguitars/internal/models"
	"holyguitars/internal/repository"
)

// Publisher pushes a freshly created notification to the recipient's live
// connections. A nil Publisher is valid and means no realtime delivery.
type Publisher interface {
	PublishUser(ctx context.Context, userID string, payload any) error
}

type NotificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
}

type CreateNotificationInput struct {
	UserID        string
	Type          string
	Title         string
	Message       string
	Link          string
	FromUserID    string
	FromUserName  string
	FromUserPhoto string
}

func NewNotificationService(repo repository.NotificationRepository, publisher Publisher) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher}
}

// Create persists the notification and pushes it to the recipient's live
// connections. Self-notifications are dropped silently so callers do not
// have to special case the actor acting on their own content.
func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) error {
	if in.UserID == "" || in.UserID == in.FromUserID {
		return nil
	}

	n := &models.Notification{
		UserID:        in.UserID,
		Type:          in.Type,
		Title:         in.Title,
		Message:       in.Message,
		Link:          in.Link,
		FromUserID:    in.FromUserID,
		FromUserName:  in.FromUserName,
		FromUserPhoto: in.FromUserPhoto,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	middleware.NotificationsCreated.WithLabelValues(in.Type).Inc()

	if s.publisher != nil {
		if err := s.publisher.PublishUser(ctx, in.UserID, n); err != nil {
			middleware.Logger.Warn("notification publish failed",
				slog.String("user_id", in.UserID),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int, unreadOnly bool) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset, unreadOnly)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead marks a single notification read. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Notification", id)
	}
	if n.UserID != userID {
		return models.NewForbiddenError("You can only update your own notifications")
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Notification", id)
	}
	if n.UserID != userID {
		return models.NewForbiddenError("You can only delete your own notifications")
	}
	return s.repo.Delete(ctx, id)
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) error {
	return s.repo.DeleteAllForUser(ctx, userID)
}
