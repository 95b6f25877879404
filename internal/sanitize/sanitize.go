// Package sanitize strips script blocks and inline event-handler
// attributes from free-text input before it is persisted.
//
// This is a best-effort denylist, not an HTML parser. It is only
// suitable for plain-text display contexts; callers must not rely on it
// for anything richer.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptRe    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	onHandlerRe = regexp.MustCompile(`(?i)on\w+="?[^"\s>]+"?`)
)

// Clean removes script blocks and on<event>=... attributes and trims
// surrounding whitespace. Empty or absent input normalizes to "".
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = scriptRe.ReplaceAllString(text, "")
	text = onHandlerRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
