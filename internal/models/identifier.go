package models

// IdentifierType tags how an anonymous visitor was identified.
type IdentifierType string

const (
	IdentifierCookie IdentifierType = "cookie"
	IdentifierIP     IdentifierType = "ip"
)

// Identifier is the deduplication key for votes and reports: a tagged
// (cookie|ip, value) pair. Two identifiers are equal only when both the
// tag and the value match. It is never used for authentication.
type Identifier struct {
	Type  IdentifierType `json:"type"`
	Value string         `json:"value"`
}
