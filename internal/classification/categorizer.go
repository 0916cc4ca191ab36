// Package classification resolves a transaction's category and type from
// explicit columns or description keywords.
package classification

import (
	"strings"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// Rule maps description keywords to a category.
type Rule struct {
	Keywords []string
	Category model.Category
}

// Categorizer applies an ordered rule table. It is safe for concurrent use.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer creates a categorizer over rules. Keywords are matched
// case-insensitively as substrings.
func NewCategorizer(rules []Rule) *Categorizer {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = strings.ToLower(k)
		}
		normalized[i] = Rule{Category: r.Category, Keywords: kw}
	}
	return &Categorizer{rules: normalized}
}

var defaultCategorizer = NewCategorizer(DefaultRules())

// Resolve uses the default rule table.
func Resolve(categoryCell, typeCell, description string) (model.Category, model.TransactionType) {
	return defaultCategorizer.Resolve(categoryCell, typeCell, description)
}

// Resolve determines category then type. An exact category label beats the
// keyword table; an income-like type cell overrides any non-income category.
func (c *Categorizer) Resolve(categoryCell, typeCell, description string) (model.Category, model.TransactionType) {
	category, ok := model.ParseCategory(categoryCell)
	if !ok {
		category = c.matchDescription(description)
	}

	if category == model.CategoryIncome {
		return category, model.TypeIncome
	}
	if IsIncomeMarker(typeCell) {
		return model.CategoryIncome, model.TypeIncome
	}
	return category, model.TypeExpense
}

// Categorize resolves a category from the description alone.
func (c *Categorizer) Categorize(description string) model.Category {
	return c.matchDescription(description)
}

func (c *Categorizer) matchDescription(description string) model.Category {
	lower := strings.ToLower(description)
	if lower == "" {
		return model.CategoryMisc
	}
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return model.CategoryMisc
}

// IsIncomeMarker reports whether a type cell marks the row as income.
func IsIncomeMarker(typeCell string) bool {
	_, ok := incomeTypeMarkers[strings.ToLower(strings.TrimSpace(typeCell))]
	return ok
}
