package analysis

import (
	"time"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// SpendingTrends summarizes expense patterns relative to a reference date.
type SpendingTrends struct {
	LargestExpense    *model.Transaction
	LargestIncome     *model.Transaction
	TopCategories     []CategoryTotal
	ThisMonthExpenses float64
	LastMonthExpenses float64
	// MonthlyChange is the percent change from last month; zero when last
	// month had no expenses.
	MonthlyChange  float64
	AverageExpense float64
	AverageIncome  float64
	NetBalance     float64
}

// Trends computes month-over-month and per-transaction statistics.
func Trends(txns []model.Transaction, now time.Time) SpendingTrends {
	var tr SpendingTrends
	thisYear, thisMonth, _ := now.Date()
	lastMonthRef := time.Date(thisYear, thisMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	lastYear, lastMonth, _ := lastMonthRef.Date()

	var incomeTotal, expenseTotal float64
	var incomeCount, expenseCount int

	for i := range txns {
		t := txns[i]
		switch t.Type {
		case model.TypeIncome:
			incomeTotal += t.Amount
			incomeCount++
			if tr.LargestIncome == nil || t.Amount > tr.LargestIncome.Amount {
				tr.LargestIncome = &txns[i]
			}
		case model.TypeExpense:
			expenseTotal += t.Amount
			expenseCount++
			if tr.LargestExpense == nil || t.Amount > tr.LargestExpense.Amount {
				tr.LargestExpense = &txns[i]
			}
			y, m, _ := t.Date.Date()
			switch {
			case y == thisYear && m == thisMonth:
				tr.ThisMonthExpenses += t.Amount
			case y == lastYear && m == lastMonth:
				tr.LastMonthExpenses += t.Amount
			}
		}
	}

	if tr.LastMonthExpenses > 0 {
		tr.MonthlyChange = (tr.ThisMonthExpenses - tr.LastMonthExpenses) / tr.LastMonthExpenses * 100
	}
	if expenseCount > 0 {
		tr.AverageExpense = expenseTotal / float64(expenseCount)
	}
	if incomeCount > 0 {
		tr.AverageIncome = incomeTotal / float64(incomeCount)
	}
	tr.NetBalance = incomeTotal - expenseTotal
	tr.TopCategories = TopCategories(ExpenseTotals(txns), 5)
	return tr
}
