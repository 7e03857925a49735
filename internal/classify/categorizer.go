package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rupeeledger/rupeeledger/internal/model"
)

// RuleSource provides the user-defined categorization rules in evaluation
// order (ascending priority, oldest first on ties).
type RuleSource interface {
	GetRules(ctx context.Context) ([]model.Rule, error)
}

// Input carries the candidate texts for one categorization attempt.
// Blank or whitespace-only fields are treated as absent.
type Input struct {
	MerchantName string
	UPIID        string
	Sender       string
	RawText      string
}

// Categorizer resolves a category by consulting user rules first and the
// static keyword table second. It is read-only and safe for concurrent use.
type Categorizer struct {
	rules    RuleSource
	keywords *KeywordClassifier
}

// NewCategorizer creates a categorizer over the given rule source.
func NewCategorizer(rules RuleSource) *Categorizer {
	return &Categorizer{
		rules:    rules,
		keywords: NewKeywordClassifier(),
	}
}

// Categorize returns the category ID for the input, or "" when no category
// can be detected. No match is a normal result, never an error.
//
// Candidate texts are tried in fixed priority order: UPI ID (a stable
// merchant handle), then merchant name, then sender. Any rule match beats
// any keyword match; candidate order is only a tie-break within rules.
func (c *Categorizer) Categorize(ctx context.Context, in Input) string {
	candidates := candidateTexts(in)

	if rules, err := c.rules.GetRules(ctx); err != nil {
		// Rules are an enhancement over the keyword fallback; a failed
		// fetch degrades rather than surfacing an error to the caller.
		slog.Warn("rule lookup failed, falling back to keywords", "error", err)
	} else {
		for _, candidate := range candidates {
			for _, rule := range rules {
				if rule.Matches(candidate) {
					return rule.CategoryID
				}
			}
		}
	}

	if text := firstPresent(in.MerchantName, in.Sender); text != "" {
		return c.keywords.Classify(text)
	}
	return ""
}

func candidateTexts(in Input) []string {
	var candidates []string
	for _, text := range []string{in.UPIID, in.MerchantName, in.Sender} {
		if strings.TrimSpace(text) != "" {
			candidates = append(candidates, text)
		}
	}
	return candidates
}

func firstPresent(texts ...string) string {
	for _, text := range texts {
		if strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}
