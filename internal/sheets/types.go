package sheets

import (
	"context"
	"sort"
	"time"

	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/service"
	"github.com/shopspring/decimal"
)

// ReportWriter publishes a finance report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// CategoryRow is one line of the category breakdown.
type CategoryRow struct {
	Category model.Category
	Amount   decimal.Decimal
	Count    int
}

// Report is everything the spreadsheet shows.
type Report struct {
	GeneratedAt  time.Time
	DateRange    service.DateRange
	Health       model.HealthScore
	Categories   []CategoryRow
	Budgets      []model.BudgetStatus
	Transactions []model.Transaction
	Summary      model.FinancialSummary
}

// BuildReport assembles a report from one snapshot of derived values.
// Transactions are listed newest first; categories by descending spend.
func BuildReport(txns []model.Transaction, summary model.FinancialSummary, health model.HealthScore, budgets []model.BudgetStatus, now time.Time) Report {
	byCategory := make(map[model.Category]service.CategorySummary)
	var dr service.DateRange
	for i, t := range txns {
		if i == 0 || t.Date.Before(dr.Start) {
			dr.Start = t.Date
		}
		if i == 0 || t.Date.After(dr.End) {
			dr.End = t.Date
		}
		if t.Type != model.TypeExpense {
			continue
		}
		cs := byCategory[t.Category]
		cs.Count++
		cs.Amount += t.Amount
		byCategory[t.Category] = cs
	}

	categories := make([]CategoryRow, 0, len(byCategory))
	for _, c := range model.Categories {
		if cs, ok := byCategory[c]; ok {
			categories = append(categories, CategoryRow{
				Category: c,
				Amount:   decimal.NewFromFloat(cs.Amount).Round(2),
				Count:    cs.Count,
			})
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Amount.GreaterThan(categories[j].Amount)
	})

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	return Report{
		GeneratedAt:  now,
		DateRange:    dr,
		Summary:      summary,
		Health:       health,
		Categories:   categories,
		Budgets:      budgets,
		Transactions: sorted,
	}
}
