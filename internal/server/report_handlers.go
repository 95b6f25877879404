package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

type fileReportRequest struct {
	EntryID   uint   `json:"entry_id"`
	CommentID uint   `json:"comment_id"`
	Reason    string `json:"reason"`
}

// ReportEntry handles POST /api/reports
func (s *Server) ReportEntry(c *fiber.Ctx) error {
	var req fileReportRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.EntryID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("entry_id is required"))
	}
	ident := s.identify(c)

	result, err := s.reportService.ReportEntry(c.Context(), service.FileReportInput{
		TargetID:   req.EntryID,
		Reason:     req.Reason,
		Identifier: ident,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// ReportComment handles POST /api/comment-reports
func (s *Server) ReportComment(c *fiber.Ctx) error {
	var req fileReportRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CommentID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("comment_id is required"))
	}
	ident := s.identify(c)

	result, err := s.reportService.ReportComment(c.Context(), service.FileReportInput{
		TargetID:   req.CommentID,
		Reason:     req.Reason,
		Identifier: ident,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
