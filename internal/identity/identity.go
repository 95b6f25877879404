// Package identity derives the stable per-visitor identifier used to
// deduplicate votes and reports. It is a pure function of request
// metadata and keeps no state.
package identity

import (
	"strings"

	"murmur/internal/models"
)

// CookieName is the client cookie carrying a self-assigned visitor ID.
const CookieName = "user_id"

// fallbackAddr is used when neither headers nor the connection expose an address.
const fallbackAddr = "0.0.0.0"

// Resolve returns the deduplication identifier for a request.
// Precedence: the user_id cookie, then the first element of the
// X-Forwarded-For header, then the direct remote address. It always
// produces a value.
func Resolve(cookie, forwardedFor, remoteAddr string) models.Identifier {
	if cookie != "" {
		return models.Identifier{Type: models.IdentifierCookie, Value: cookie}
	}

	if forwardedFor != "" {
		first := forwardedFor
		if i := strings.Index(forwardedFor, ","); i >= 0 {
			first = forwardedFor[:i]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return models.Identifier{Type: models.IdentifierIP, Value: ip}
		}
	}

	if remoteAddr != "" {
		return models.Identifier{Type: models.IdentifierIP, Value: remoteAddr}
	}
	return models.Identifier{Type: models.IdentifierIP, Value: fallbackAddr}
}
