package ledger

import (
	"testing"

	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleTransactions(t *testing.T) {
	r := &testutil.FixedRand{Values: []float64{0.13, 0.52, 0.77, 0.31, 0.05, 0.49, 0.91, 0.66, 0.24}}
	txns := SampleTransactions(fixedClock(), r, testutil.SequentialIDs("sample"))

	var salaries int
	for i, txn := range txns {
		require.NoError(t, txn.Validate())
		assert.False(t, txn.Date.After(today))
		assert.False(t, txn.Date.Before(today.AddDate(0, 0, -sampleWindowDays)))
		if i > 0 {
			assert.False(t, txn.Date.After(txns[i-1].Date), "newest first")
		}

		switch txn.Type {
		case model.TypeIncome:
			salaries++
			assert.Equal(t, SampleSalary, txn.Amount)
		case model.TypeExpense:
			assert.NotEqual(t, model.CategoryIncome, txn.Category)
			assert.NotEqual(t, model.CategoryMisc, txn.Category)
			assert.Equal(t, txn.Category.Label()+" purchase", txn.Description)
			if txn.Category == model.CategoryHousing {
				assert.Equal(t, SampleRent, txn.Amount)
			} else {
				assert.GreaterOrEqual(t, txn.Amount, 10.0)
				assert.Less(t, txn.Amount, 110.0)
			}
		}
	}
	assert.Equal(t, len(salaryDaysAgo), salaries)
}

func TestSampleTransactions_RentOnlyOnMonthBoundary(t *testing.T) {
	// daysAgo 0.5*60 = 30 and category index 0 (Housing) keep the rent;
	// daysAgo 0.2*60 = 12 drops it.
	kept := SampleTransactions(fixedClock(), &testutil.FixedRand{Values: []float64{0.5, 0.0, 0.5}}, testutil.SequentialIDs("a"))
	assert.Len(t, kept, len(salaryDaysAgo)+sampleExpenseDraws)
	for _, txn := range kept {
		if txn.Type == model.TypeExpense {
			assert.Equal(t, model.CategoryHousing, txn.Category)
			assert.Equal(t, today.AddDate(0, 0, -30), txn.Date)
		}
	}

	dropped := SampleTransactions(fixedClock(), &testutil.FixedRand{Values: []float64{0.2, 0.0, 0.5}}, testutil.SequentialIDs("b"))
	assert.Len(t, dropped, len(salaryDaysAgo))
}

func TestSampleTransactions_IncomeDrawBecomesFood(t *testing.T) {
	incomeIndex := float64(7) / 9
	txns := SampleTransactions(fixedClock(), &testutil.FixedRand{Values: []float64{0.1, incomeIndex + 0.01, 0.5}}, testutil.SequentialIDs("c"))
	for _, txn := range txns {
		if txn.Type == model.TypeExpense {
			assert.Equal(t, model.CategoryFood, txn.Category)
			assert.Equal(t, 60.0, txn.Amount)
		}
	}
}
