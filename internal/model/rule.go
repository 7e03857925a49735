package model

import (
	"strings"
	"time"
)

// Rule maps a user-defined text fragment to a category. Rules are evaluated
// in ascending priority order; the first whose MatchText is contained in the
// candidate text wins. Matching is case-insensitive.
type Rule struct {
	CreatedAt  time.Time
	ID         string
	MatchText  string
	CategoryID string
	Priority   int
}

// Matches reports whether the rule's match text is contained in candidate.
func (r Rule) Matches(candidate string) bool {
	if strings.TrimSpace(r.MatchText) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(r.MatchText))
}
