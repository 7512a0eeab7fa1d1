package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"holyguitars/internal/middleware"
	"holyguitars/internal/models"
	"holyguitars/internal/repository"
)

const maxCommentLen = 2000

// validCommentContent trims surrounding whitespace and enforces the length
// bounds. The trimmed form is what gets stored.
func validCommentContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return "", models.NewValidationError("Comment too long (max 2000 characters)")
	}
	return content, nil
}

type CommentService struct {
	commentRepo   repository.CommentRepository
	postRepo      repository.PostRepository
	notifications *NotificationService
}

type CreateCommentInput struct {
	UserID    string
	UserName  string
	UserPhoto string
	PostID    string
	ParentID  string
	Content   string
}

type UpdateCommentInput struct {
	UserID    string
	CommentID string
	Content   string
}

type DeleteCommentInput struct {
	UserID    string
	CommentID string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notifications *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		postRepo:      postRepo,
		notifications: notifications,
	}
}

// CreateComment adds a comment or reply. Replies nest one level: the parent
// must be a top-level comment on the same post. The row insert and both
// counter bumps land in one transaction inside the repository.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content, err := validCommentContent(in.Content)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, notFound(err, "Post", in.PostID)
	}

	comment := &models.Comment{
		PostID:    in.PostID,
		Content:   content,
		UserID:    in.UserID,
		UserName:  in.UserName,
		UserPhoto: in.UserPhoto,
	}

	var parent *models.Comment
	if in.ParentID != "" {
		parent, err = s.commentRepo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, notFound(err, "Comment", in.ParentID)
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		if parent.IsReply() {
			return nil, models.NewValidationError("Cannot reply to a reply")
		}
		comment.ParentID = &in.ParentID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.fanOut(ctx, comment, post, parent)
	return comment, nil
}

// fanOut notifies the post author on a new comment and the parent comment's
// author on a new reply. Failures are logged, never surfaced: the comment
// write already committed.
func (s *CommentService) fanOut(ctx context.Context, comment *models.Comment, post *models.Post, parent *models.Comment) {
	if s.notifications == nil {
		return
	}
	link := fmt.Sprintf("/post/%s", post.ID)

	var err error
	if parent != nil {
		err = s.notifications.Create(ctx, CreateNotificationInput{
			UserID:        parent.UserID,
			Type:          models.NotificationReply,
			Title:         "New reply",
			Message:       fmt.Sprintf("%s replied to your comment on \"%s\"", comment.UserName, post.Title),
			Link:          link,
			FromUserID:    comment.UserID,
			FromUserName:  comment.UserName,
			FromUserPhoto: comment.UserPhoto,
		})
	} else {
		err = s.notifications.Create(ctx, CreateNotificationInput{
			UserID:        post.AuthorID,
			Type:          models.NotificationComment,
			Title:         "New comment",
			Message:       fmt.Sprintf("%s commented on \"%s\"", comment.UserName, post.Title),
			Link:          link,
			FromUserID:    comment.UserID,
			FromUserName:  comment.UserName,
			FromUserPhoto: comment.UserPhoto,
		})
	}
	if err != nil {
		middleware.Logger.Warn("comment notification failed",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()))
	}
}

func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, notFound(err, "Post", postID)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) ListReplies(ctx context.Context, commentID string) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, notFound(err, "Comment", commentID)
	}
	return s.commentRepo.ListReplies(ctx, commentID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, notFound(err, "Comment", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}
	content, err := validCommentContent(in.Content)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Author-only; privileged cleanup goes
// through post deletion instead. Deleting a top-level comment takes its
// replies with it.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return notFound(err, "Comment", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, comment)
}
