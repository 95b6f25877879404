package server

import (
	"context"
	"errors"
	"strings"

	"murmur/internal/identity"
	"murmur/internal/middleware"
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination extracts limit and offset query parameters. Clamping to
// the configured maximum happens in the service layer.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// identify resolves the caller's deduplication identifier from cookie,
// forwarded header, and remote address, and puts it in locals and the
// request context for logging.
func (s *Server) identify(c *fiber.Ctx) models.Identifier {
	ident := identity.Resolve(c.Cookies(identity.CookieName), c.Get("X-Forwarded-For"), c.IP())
	c.Locals("identifier", ident.Value)
	ctx := context.WithValue(c.UserContext(), middleware.IdentifierKey, ident.Value)
	c.SetUserContext(ctx)
	return ident
}

// bearerToken pulls the token out of the Authorization header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// respondServiceError maps service-layer error codes to HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case models.CodeNotFound:
		status = fiber.StatusNotFound
	case models.CodeValidation:
		status = fiber.StatusBadRequest
	case models.CodeLocked:
		status = fiber.StatusGone
	case models.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	}
	return models.RespondWithError(c, status, appErr)
}
