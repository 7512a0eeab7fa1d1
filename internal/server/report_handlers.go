package server

import (
	"holyguitars/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReportRequest is the body for filing a report.
type CreateReportRequest struct {
	TargetType  string `json:"targetType"`
	TargetID    string `json:"targetId"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// CreateReport handles POST /api/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, errInvalidBody)
	}

	user := currentUser(c)
	report, err := s.reportService.CreateReport(c.Context(), service.CreateReportInput{
		ReporterID:   user.UID,
		ReporterName: user.DisplayName,
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		Reason:       req.Reason,
		Description:  req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Report submitted",
		"report":  report,
	})
}

// BlockUser handles POST /api/blocks/:uid
func (s *Server) BlockUser(c *fiber.Ctx) error {
	err := s.reportService.BlockUser(c.Context(), service.BlockInput{
		BlockerID:     currentUserID(c),
		BlockedUserID: c.Params("uid"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User blocked"})
}

// UnblockUser handles DELETE /api/blocks/:uid
func (s *Server) UnblockUser(c *fiber.Ctx) error {
	err := s.reportService.UnblockUser(c.Context(), service.BlockInput{
		BlockerID:     currentUserID(c),
		BlockedUserID: c.Params("uid"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unblocked"})
}

// GetBlockedUsers handles GET /api/blocks
func (s *Server) GetBlockedUsers(c *fiber.Ctx) error {
	ids, err := s.reportService.BlockedUserIDs(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(fiber.Map{"blockedUserIds": ids})
}
