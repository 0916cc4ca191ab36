package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of spending and income categories.
type Category uint8

// The zero value is not a valid category.
const (
	CategoryUnknown Category = iota
	CategoryHousing
	CategoryFood
	CategoryTransport
	CategoryUtilities
	CategoryEntertainment
	CategoryShopping
	CategoryHealth
	CategoryIncome
	CategoryInvestment
	CategoryMisc
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryHousing,
	CategoryFood,
	CategoryTransport,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealth,
	CategoryIncome,
	CategoryInvestment,
	CategoryMisc,
}

// Label returns the canonical human-readable label.
func (c Category) Label() string {
	switch c {
	case CategoryHousing:
		return "Housing"
	case CategoryFood:
		return "Food & Dining"
	case CategoryTransport:
		return "Transportation"
	case CategoryUtilities:
		return "Utilities"
	case CategoryEntertainment:
		return "Entertainment"
	case CategoryShopping:
		return "Shopping"
	case CategoryHealth:
		return "Health"
	case CategoryIncome:
		return "Income"
	case CategoryInvestment:
		return "Investment"
	case CategoryMisc:
		return "Miscellaneous"
	case CategoryUnknown:
		return ""
	}
	return ""
}

func (c Category) String() string {
	if l := c.Label(); l != "" {
		return l
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c >= CategoryHousing && c <= CategoryMisc
}

// IsNeed reports whether the category counts toward the "needs" bucket of
// the 50/30/20 split.
func (c Category) IsNeed() bool {
	switch c {
	case CategoryHousing, CategoryUtilities, CategoryFood, CategoryTransport, CategoryHealth:
		return true
	case CategoryUnknown, CategoryEntertainment, CategoryShopping, CategoryIncome, CategoryInvestment, CategoryMisc:
		return false
	}
	return false
}

// IsWant reports whether the category counts toward the "wants" bucket.
func (c Category) IsWant() bool {
	switch c {
	case CategoryEntertainment, CategoryShopping, CategoryMisc:
		return true
	case CategoryUnknown, CategoryHousing, CategoryUtilities, CategoryFood, CategoryTransport, CategoryHealth, CategoryIncome, CategoryInvestment:
		return false
	}
	return false
}

// ParseCategory matches a label case-insensitively against the canonical labels.
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return CategoryUnknown, false
	}
	for _, c := range Categories {
		if strings.EqualFold(c.Label(), label) {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// MarshalJSON encodes the category as its label.
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid category %d", uint8(c))
	}
	return json.Marshal(c.Label())
}

// UnmarshalJSON decodes a category label.
func (c *Category) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, ok := ParseCategory(label)
	if !ok {
		return fmt.Errorf("unknown category %q", label)
	}
	*c = parsed
	return nil
}
