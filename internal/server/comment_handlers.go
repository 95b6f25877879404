package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	EntryID uint   `json:"entry_id"`
	Content string `json:"content"`
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.EntryID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("entry_id is required"))
	}
	ident := s.identify(c)

	view, err := s.commentService.AddComment(c.Context(), service.AddCommentInput{
		EntryID:    req.EntryID,
		Content:    req.Content,
		Identifier: ident,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetComments handles GET /api/entries/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	views, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}
