package server

import (
	"holyguitars/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchPosts handles GET /api/posts/search
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	page, err := s.searchService.SearchPosts(c.Context(), service.SearchInput{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// Search handles GET /api/search
func (s *Server) Search(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	result, err := s.searchService.Search(c.Context(), service.SearchInput{
		Query:    c.Query("q"),
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetTrendingPosts handles GET /api/posts/trending
func (s *Server) GetTrendingPosts(c *fiber.Ctx) error {
	posts, err := s.searchService.Trending(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
