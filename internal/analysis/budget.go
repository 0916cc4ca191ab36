package analysis

import (
	"fmt"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// The 50/30/20 rule.
const (
	NeedsShare   = 0.50
	WantsShare   = 0.30
	SavingsShare = 0.20
)

// Split is an allocation across needs, wants and savings.
type Split struct {
	Needs   float64
	Wants   float64
	Savings float64
}

// TargetSplit applies the 50/30/20 rule to income.
func TargetSplit(income float64) Split {
	return Split{
		Needs:   income * NeedsShare,
		Wants:   income * WantsShare,
		Savings: income * SavingsShare,
	}
}

// ActualSplit measures how expenses and leftover income fall into the buckets.
func ActualSplit(summary model.FinancialSummary, txns []model.Transaction) Split {
	var s Split
	for _, t := range txns {
		if t.Type != model.TypeExpense {
			continue
		}
		switch {
		case t.Category.IsNeed():
			s.Needs += t.Amount
		case t.Category.IsWant():
			s.Wants += t.Amount
		}
	}
	s.Savings = summary.TotalIncome - summary.TotalExpenses
	return s
}

// BudgetRecommendations compares spending with the 50/30/20 targets.
func BudgetRecommendations(summary model.FinancialSummary, txns []model.Transaction) []string {
	var recs []string
	actual := ActualSplit(summary, txns)

	if summary.TotalIncome > 0 {
		needsPct := actual.Needs / summary.TotalIncome * 100
		wantsPct := actual.Wants / summary.TotalIncome * 100
		if needsPct > NeedsShare*100 {
			recs = append(recs, fmt.Sprintf("Your essential expenses are %.0f%% of income. Try to keep them under 50%%.", needsPct))
		}
		if wantsPct > WantsShare*100 {
			recs = append(recs, fmt.Sprintf("Discretionary spending is %.0f%% of income. Consider reducing to 30%% or less.", wantsPct))
		}
	}

	if summary.SavingsRate < TargetSavingsRate {
		gap := TargetSplit(summary.TotalIncome).Savings - actual.Savings
		recs = append(recs, fmt.Sprintf("To reach 20%% savings rate, try to save an additional $%.2f per month.", gap))
	}
	return recs
}
