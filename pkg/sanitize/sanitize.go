// Package sanitize strips markup from user supplied free text before it is
// persisted and later rendered by clients.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Text removes every HTML element while keeping the readable content.
type Text struct {
	policy *bluemonday.Policy
}

// NewText returns a sanitizer backed by bluemonday's strict policy.
func NewText() *Text {
	return &Text{policy: bluemonday.StrictPolicy()}
}

// maxPasses bounds how many layers of entity encoding Clean peels off.
const maxPasses = 8

// Clean returns the input with tags removed and surrounding space trimmed.
// bluemonday escapes entities on output and the value is stored as plain
// text, so it is unescaped again. Unescaping can surface markup that was
// entity encoded in the input, so sanitize and unescape repeat until the
// text stops changing. Input that never settles keeps its escaped form.
func (t *Text) Clean(raw string) string {
	if raw == "" {
		return ""
	}
	current := raw
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(t.policy.Sanitize(current))
		if next == current {
			return strings.TrimSpace(next)
		}
		current = next
	}
	return strings.TrimSpace(t.policy.Sanitize(current))
}
