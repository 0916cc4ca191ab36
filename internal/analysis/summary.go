package analysis

import (
	"sort"

	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultStartingBalance is the opening balance assumed for net worth.
const DefaultStartingBalance = 15000.0

// Summarize recomputes the financial summary from scratch.
func Summarize(txns []model.Transaction, startingBalance float64) model.FinancialSummary {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txns {
		amt := decimal.NewFromFloat(t.Amount)
		switch t.Type {
		case model.TypeIncome:
			income = income.Add(amt)
		case model.TypeExpense:
			expenses = expenses.Add(amt)
		}
	}

	summary := model.FinancialSummary{
		TotalIncome:   income.InexactFloat64(),
		TotalExpenses: expenses.InexactFloat64(),
		NetWorth:      decimal.NewFromFloat(startingBalance).Add(income).Sub(expenses).InexactFloat64(),
	}
	if !income.IsZero() {
		summary.SavingsRate = income.Sub(expenses).Div(income).InexactFloat64()
	}
	return summary
}

// CategoryTotal is the summed expense amount for one category.
type CategoryTotal struct {
	Category model.Category
	Amount   float64
	Count    int
}

// ExpenseTotals sums expenses per category in first-encountered order.
func ExpenseTotals(txns []model.Transaction) []CategoryTotal {
	index := make(map[model.Category]int)
	var totals []CategoryTotal
	for _, t := range txns {
		if t.Type != model.TypeExpense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(totals)
			index[t.Category] = i
			totals = append(totals, CategoryTotal{Category: t.Category})
		}
		totals[i].Amount += t.Amount
		totals[i].Count++
	}
	return totals
}

// TopCategories returns up to n totals by descending amount. Ties keep
// first-encountered order. n <= 0 returns every category.
func TopCategories(totals []CategoryTotal, n int) []CategoryTotal {
	sorted := make([]CategoryTotal, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Expenses returns only expense transactions.
func Expenses(txns []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Type == model.TypeExpense {
			out = append(out, t)
		}
	}
	return out
}

// dominantShare returns the largest category and its share of expenses.
// ok is false when there are no expenses.
func dominantShare(txns []model.Transaction) (CategoryTotal, float64, bool) {
	totals := ExpenseTotals(txns)
	var sum float64
	for _, ct := range totals {
		sum += ct.Amount
	}
	if sum <= 0 {
		return CategoryTotal{}, 0, false
	}
	top := TopCategories(totals, 1)[0]
	return top, top.Amount / sum, true
}
