package classification

import "github.com/Veraticus/finance-mentor/internal/model"

// DefaultRules returns the description keyword table. Order matters: the
// first rule with any matching keyword wins.
func DefaultRules() []Rule {
	return []Rule{
		{Category: model.CategoryFood, Keywords: []string{"grocery", "food", "mart"}},
		{Category: model.CategoryHousing, Keywords: []string{"rent", "mortgage"}},
		{Category: model.CategoryIncome, Keywords: []string{"salary", "payroll", "deposit"}},
		{Category: model.CategoryTransport, Keywords: []string{"uber", "lyft", "gas", "fuel"}},
		{Category: model.CategoryUtilities, Keywords: []string{"electric", "water", "internet"}},
		{Category: model.CategoryEntertainment, Keywords: []string{"netflix", "movie", "cinema"}},
		{Category: model.CategoryHealth, Keywords: []string{"pharmacy", "doctor"}},
		{Category: model.CategoryShopping, Keywords: []string{"amazon", "store"}},
	}
}

// incomeTypeMarkers are type-column values that force a row to income.
var incomeTypeMarkers = map[string]struct{}{
	"income": {},
	"credit": {},
	"cr":     {},
}
