package server

import (
	"holyguitars/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest is the body for creating a comment or reply.
type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parentId"`
}

// UpdateCommentRequest is the body for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	user := currentUser(c)
	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:    user.UID,
		UserName:  user.DisplayName,
		UserPhoto: user.PhotoURL,
		PostID:    c.Params("id"),
		ParentID:  req.ParentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// GetReplies handles GET /api/comments/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	replies, err := s.commentService.ListReplies(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"replies": replies})
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	var req UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: c.Params("id"),
		Content:   req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: c.Params("id"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	user := currentUser(c)
	result, err := s.engagementService.ToggleCommentLike(c.Context(), service.ToggleLikeInput{
		UserID:    user.UID,
		UserName:  user.DisplayName,
		UserPhoto: user.PhotoURL,
		TargetID:  c.Params("id"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
