package server

import (
	"holyguitars/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateRoleRequest is the body for changing a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// BanRequest is the body for banning a user.
type BanRequest struct {
	Reason string `json:"reason"`
}

// ReviewReportRequest is the body for moderating a report.
type ReviewReportRequest struct {
	Status string `json:"status"`
	Action string `json:"action"`
}

// GetAdminStats handles GET /api/admin/stats
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.GetStats(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetAdminUsers handles GET /api/admin/users
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	page, err := s.moderationService.ListUsers(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// UpdateUserRole handles PUT /api/admin/users/:uid/role
func (s *Server) UpdateUserRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	err := s.moderationService.UpdateRole(c.Context(), service.UpdateRoleInput{
		ActorID:   currentUserID(c),
		TargetUID: c.Params("uid"),
		Role:      req.Role,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated"})
}

// BanUser handles POST /api/admin/users/:uid/ban
func (s *Server) BanUser(c *fiber.Ctx) error {
	var req BanRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	err := s.moderationService.BanUser(c.Context(), service.BanInput{
		ActorID:   currentUserID(c),
		TargetUID: c.Params("uid"),
		Reason:    req.Reason,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User banned"})
}

// UnbanUser handles POST /api/admin/users/:uid/unban
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	if err := s.moderationService.UnbanUser(c.Context(), currentUserID(c), c.Params("uid")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unbanned"})
}

// DeleteUser handles DELETE /api/admin/users/:uid
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.moderationService.DeleteUser(c.Context(), currentUserID(c), c.Params("uid")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// GetReportedPosts handles GET /api/admin/posts/reported
func (s *Server) GetReportedPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	page, err := s.moderationService.ListReportedPosts(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetAdminReports handles GET /api/admin/reports
func (s *Server) GetAdminReports(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	page, err := s.moderationService.ListReports(c.Context(), currentUserID(c), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// ReviewReport handles PUT /api/admin/reports/:id
func (s *Server) ReviewReport(c *fiber.Ctx) error {
	var req ReviewReportRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	err := s.moderationService.ReviewReport(c.Context(), service.ReviewReportInput{
		ActorID:  currentUserID(c),
		ReportID: c.Params("id"),
		Status:   req.Status,
		Action:   req.Action,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Report updated"})
}
