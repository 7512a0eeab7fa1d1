package server

import (
	"holyguitars/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the body for creating a post.
type CreatePostRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	ImageURL     string `json:"imageUrl"`
	VideoURL     string `json:"videoUrl"`
	VideoFileURL string `json:"videoFileUrl"`
}

// UpdatePostRequest is the body for editing a post. Pointer fields tell
// absent keys apart from explicit empty strings, so an edit only touches
// the fields the client sent.
type UpdatePostRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Subcategory  *string `json:"subcategory"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	ImageURL     *string `json:"imageUrl"`
	VideoURL     *string `json:"videoUrl"`
	VideoFileURL *string `json:"videoFileUrl"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	user := currentUser(c)
	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:     user.UID,
		AuthorName:   user.DisplayName,
		AuthorPhoto:  user.PhotoURL,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Subcategory:  req.Subcategory,
		Brand:        req.Brand,
		Model:        req.Model,
		ImageURL:     req.ImageURL,
		VideoURL:     req.VideoURL,
		VideoFileURL: req.VideoFileURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	page, err := s.postService.ListPosts(c.Context(), c.Query("category"), c.Query("subcategory"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:uid/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.ListByAuthor(c.Context(), c.Params("uid"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetLikedPosts handles POST /api/posts/liked. The body carries the post IDs
// currently on the client's screen; the response says which the caller likes.
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	var req struct {
		PostIDs []string `json:"postIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	liked, err := s.postService.LikedPostIDs(c.Context(), currentUserID(c), req.PostIDs)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"likedPostIds": liked})
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:       currentUserID(c),
		PostID:       c.Params("id"),
		Title:        req.Title,
		Description:  req.Description,
		Subcategory:  req.Subcategory,
		Brand:        req.Brand,
		Model:        req.Model,
		ImageURL:     req.ImageURL,
		VideoURL:     req.VideoURL,
		VideoFileURL: req.VideoFileURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	user := currentUser(c)
	result, err := s.engagementService.TogglePostLike(c.Context(), service.ToggleLikeInput{
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
