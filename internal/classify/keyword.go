// Package classify resolves a spending category for raw transaction text
// using a priority cascade of user-defined rules and fallback keyword
// heuristics. All matching is pure string containment; no state is mutated.
package classify

import (
	"strings"

	"github.com/rupeeledger/rupeeledger/internal/model"
)

// keywordGroup ties a set of literal substrings to a category.
type keywordGroup struct {
	categoryID string
	keywords   []string
}

// KeywordClassifier is the static fallback used when no user rule matches.
// Groups are evaluated in fixed order and the first match wins, even if a
// later group's keywords also appear in the text.
type KeywordClassifier struct {
	groups []keywordGroup
}

// NewKeywordClassifier builds the fixed keyword table pointing at the seeded
// default categories.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		groups: []keywordGroup{
			{
				categoryID: model.DefaultCategoryID(model.DefaultCategoryFood),
				keywords:   []string{"swiggy", "zomato", "restaurant", "cafe", "food", "pizza", "dominos"},
			},
			{
				categoryID: model.DefaultCategoryID(model.DefaultCategoryShopping),
				keywords:   []string{"amazon", "flipkart", "myntra", "ajio", "mall", "store"},
			},
			{
				categoryID: model.DefaultCategoryID(model.DefaultCategoryTransport),
				keywords:   []string{"uber", "ola", "rapido", "metro", "irctc", "petrol", "fuel"},
			},
			{
				categoryID: model.DefaultCategoryID(model.DefaultCategoryBills),
				keywords:   []string{"electricity", "recharge", "bill", "dth", "broadband", "postpaid"},
			},
			{
				categoryID: model.DefaultCategoryID(model.DefaultCategoryEntertainment),
				keywords:   []string{"netflix", "spotify", "hotstar", "bookmyshow", "movie", "game"},
			},
			{
				categoryID: model.DefaultCategoryID(model.DefaultCategoryGroceries),
				keywords:   []string{"bigbasket", "blinkit", "zepto", "grofers", "grocery", "mart"},
			},
		},
	}
}

// Classify returns the category ID for the first keyword group that matches
// the text, or "" when nothing matches. Matching is case-insensitive
// substring containment.
func (k *KeywordClassifier) Classify(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return ""
	}

	for _, group := range k.groups {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.categoryID
			}
		}
	}
	return ""
}
