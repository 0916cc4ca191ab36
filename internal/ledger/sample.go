package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// Sample data shape.
const (
	SampleSalary       = 3200.0
	SampleRent         = 1500.0
	sampleExpenseDraws = 50
	sampleWindowDays   = 60
)

var salaryDaysAgo = []int{0, 14, 28, 42, 56}

// RandSource supplies uniform values in [0, 1).
type RandSource interface {
	Float64() float64
}

// SampleTransactions generates roughly sixty days of plausible history: a
// bi-weekly salary plus random expenses, newest first. Rent only lands on
// days that are a multiple of thirty days back, so most rent draws are
// dropped.
func SampleTransactions(now time.Time, r RandSource, newID func() string) []model.Transaction {
	today := model.TruncateDay(now)
	txns := make([]model.Transaction, 0, len(salaryDaysAgo)+sampleExpenseDraws)

	for _, daysAgo := range salaryDaysAgo {
		txns = append(txns, model.Transaction{
			ID:          newID(),
			Date:        today.AddDate(0, 0, -daysAgo),
			Amount:      SampleSalary,
			Type:        model.TypeIncome,
			Category:    model.CategoryIncome,
			Description: "Bi-weekly Salary",
		})
	}

	// Every category except the last is eligible; Income is redirected to Food.
	eligible := model.Categories[:len(model.Categories)-1]
	for range sampleExpenseDraws {
		daysAgo := int(r.Float64() * sampleWindowDays)
		category := eligible[pickIndex(r.Float64(), len(eligible))]
		if category == model.CategoryIncome {
			category = model.CategoryFood
		}
		amount := r.Float64()*100 + 10
		if category == model.CategoryHousing {
			if daysAgo%30 != 0 {
				continue
			}
			amount = SampleRent
		}

		txns = append(txns, model.Transaction{
			ID:          newID(),
			Date:        today.AddDate(0, 0, -daysAgo),
			Amount:      math.Round(amount*100) / 100,
			Type:        model.TypeExpense,
			Category:    category,
			Description: category.Label() + " purchase",
		})
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
	return txns
}

func pickIndex(v float64, n int) int {
	i := int(v * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
