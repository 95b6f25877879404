package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

type castVoteRequest struct {
	EntryID   uint   `json:"entry_id"`
	CommentID uint   `json:"comment_id"`
	Direction string `json:"direction"`
}

// CastEntryVote handles POST /api/votes
func (s *Server) CastEntryVote(c *fiber.Ctx) error {
	var req castVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.EntryID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("entry_id is required"))
	}
	ident := s.identify(c)

	tally, changed, err := s.voteService.CastEntryVote(c.Context(), service.CastVoteInput{
		TargetID:   req.EntryID,
		Direction:  req.Direction,
		Identifier: ident,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(voteResponse(tally, changed))
}

// voteResponse shapes the tally payload. A repeat vote in the same
// direction is a successful no-op and says so.
func voteResponse(tally *models.Tally, changed bool) fiber.Map {
	resp := fiber.Map{
		"upvotes":   tally.Upvotes,
		"downvotes": tally.Downvotes,
	}
	if !changed {
		resp["message"] = "Already voted"
	}
	return resp
}

// CastCommentVote handles POST /api/comment-votes
func (s *Server) CastCommentVote(c *fiber.Ctx) error {
	var req castVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CommentID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("comment_id is required"))
	}
	ident := s.identify(c)

	tally, changed, err := s.voteService.CastCommentVote(c.Context(), service.CastVoteInput{
		TargetID:   req.CommentID,
		Direction:  req.Direction,
		Identifier: ident,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(voteResponse(tally, changed))
}
