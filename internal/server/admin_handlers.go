package server

import (
	"encoding/json"

	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

type adminLoginRequest struct {
	Passkey string `json:"passkey"`
}

type adjustVotesRequest struct {
	UpvoteChange   int `json:"upvote_change"`
	DownvoteChange int `json:"downvote_change"`
}

// AdminLogin handles POST /api/admin/sessions
func (s *Server) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.adminService.Login(c.Context(), req.Passkey)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
}

// AdminLogout handles DELETE /api/admin/sessions
func (s *Server) AdminLogout(c *fiber.Ctx) error {
	jti, _ := c.Locals("sessionID").(string)
	if err := s.adminService.Logout(c.Context(), jti); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// AdminDashboard handles GET /api/admin/dashboard
func (s *Server) AdminDashboard(c *fiber.Ctx) error {
	dashboard, err := s.adminService.Dashboard(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(dashboard)
}

// SoftDeleteEntry handles DELETE /api/admin/entries/:id
func (s *Server) SoftDeleteEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.SoftDelete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// RestoreEntry handles POST /api/admin/entries/:id/restore
func (s *Server) RestoreEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.Restore(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "restored"})
}

// PurgeEntry handles DELETE /api/admin/entries/:id/permanent
func (s *Server) PurgeEntry(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.Purge(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "purged"})
}

// TogglePin handles POST /api/admin/entries/:id/pin
func (s *Server) TogglePin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pinned, err := s.adminService.TogglePin(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"is_pinned": pinned})
}

// AdjustVotes handles POST /api/admin/entries/:id/adjust-votes
func (s *Server) AdjustVotes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req adjustVotesRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	view, err := s.adminService.AdjustVotes(c.Context(), id, req.UpvoteChange, req.DownvoteChange)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// BrowserInfo handles GET /api/admin/entries/:id/browser-info
func (s *Server) BrowserInfo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	info, err := s.adminService.BrowserInfo(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	// The stored blob is JSON written at submit time; surface it as an
	// object, or empty when absent or unparsable.
	parsed := map[string]interface{}{}
	if info != "" {
		if err := json.Unmarshal([]byte(info), &parsed); err != nil {
			parsed = map[string]interface{}{}
		}
	}
	return c.JSON(fiber.Map{"browser_info": parsed})
}
