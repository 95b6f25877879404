package server

import (
	"encoding/json"

	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

type submitEntryRequest struct {
	Content string   `json:"content"`
	Tags    string   `json:"tags"`
	Images  []string `json:"images"`
	Video   string   `json:"video"`
}

// browserInfo captures opaque submitter metadata for the admin surface.
func browserInfo(c *fiber.Ctx) string {
	info := map[string]string{
		"user_agent":      c.Get("User-Agent"),
		"accept_language": c.Get("Accept-Language"),
		"referer":         c.Get("Referer"),
	}
	data, err := json.Marshal(info)
	if err != nil {
		return ""
	}
	return string(data)
}

// SubmitEntry handles POST /api/entries
func (s *Server) SubmitEntry(c *fiber.Ctx) error {
	var req submitEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if len(req.Images) > service.MaxImagesPerEntry {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Too many images (max 3)"))
	}
	s.identify(c)

	view, err := s.entryService.SubmitEntry(c.Context(), service.SubmitEntryInput{
		Content:     req.Content,
		Tags:        req.Tags,
		Images:      req.Images,
		Video:       req.Video,
		BrowserInfo: browserInfo(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetEntries handles GET /api/entries
func (s *Server) GetEntries(c *fiber.Ctx) error {
	page := parsePagination(c)

	views, err := s.entryService.ListEntries(c.Context(), service.ListEntriesInput{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// RecordView handles POST /api/entries/:id/view
func (s *Server) RecordView(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.entryService.RecordView(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
