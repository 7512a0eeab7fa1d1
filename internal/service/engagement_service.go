package service

import (
	"context"
	"fmt"
	"log/slog"

	"holyguitars/internal/middleware"
	"holyguitars/internal/models"
	"holyguitars/internal/repository"
)

// EngagementService owns the like toggles. The relation row is the source of
// truth; the repository only moves a counter when the row actually changed.
type EngagementService struct {
	likeRepo      repository.LikeRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	notifications *NotificationService
}

type ToggleLikeInput struct {
	UserID    string
	UserName  string
	UserPhoto string
	TargetID  string
}

// ToggleResult reports the like state after the toggle.
type ToggleResult struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}

func NewEngagementService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	notifications *NotificationService,
) *EngagementService {
	return &EngagementService{
		likeRepo:      likeRepo,
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		notifications: notifications,
	}
}

func (s *EngagementService) TogglePostLike(ctx context.Context, in ToggleLikeInput) (*ToggleResult, error) {
	post, err := s.postRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, notFound(err, "Post", in.TargetID)
	}

	liked, err := s.likeRepo.TogglePostLike(ctx, in.TargetID, in.UserID)
	if err != nil {
		return nil, err
	}

	if liked {
		s.notifyLike(ctx, post.AuthorID, in, fmt.Sprintf("%s liked your post \"%s\"", in.UserName, post.Title), fmt.Sprintf("/post/%s", post.ID))
		return &ToggleResult{Liked: true, Message: "Post liked"}, nil
	}
	return &ToggleResult{Liked: false, Message: "Post unliked"}, nil
}

func (s *EngagementService) ToggleCommentLike(ctx context.Context, in ToggleLikeInput) (*ToggleResult, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, notFound(err, "Comment", in.TargetID)
	}

	liked, err := s.likeRepo.ToggleCommentLike(ctx, in.TargetID, in.UserID)
	if err != nil {
		return nil, err
	}

	if liked {
		s.notifyLike(ctx, comment.UserID, in, fmt.Sprintf("%s liked your comment", in.UserName), fmt.Sprintf("/post/%s", comment.PostID))
		return &ToggleResult{Liked: true, Message: "Comment liked"}, nil
	}
	return &ToggleResult{Liked: false, Message: "Comment unliked"}, nil
}

// notifyLike fires only on the liked transition, never on unlike.
func (s *EngagementService) notifyLike(ctx context.Context, recipient string, in ToggleLikeInput, message, link string) {
	if s.notifications == nil {
		return
	}
	err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:        recipient,
		Type:          models.NotificationLike,
		Title:         "New like",
		Message:       message,
		Link:          link,
		FromUserID:    in.UserID,
		FromUserName:  in.UserName,
		FromUserPhoto: in.UserPhoto,
	})
	if err != nil {
		middleware.Logger.Warn("like notification failed",
			slog.String("target_id", in.TargetID),
			slog.String("error", err.Error()))
	}
}
