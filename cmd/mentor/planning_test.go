package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name     string
		category string
		limit    string
		period   string
		want     model.Budget
		wantErr  bool
	}{
		{
			name:     "monthly",
			category: "food & dining",
			limit:    "400",
			period:   "monthly",
			want:     model.Budget{Category: model.CategoryFood, Limit: 400, Period: model.PeriodMonthly},
		},
		{
			name:     "weekly with dollar sign",
			category: "Entertainment",
			limit:    "$25.50",
			period:   "Weekly",
			want:     model.Budget{Category: model.CategoryEntertainment, Limit: 25.5, Period: model.PeriodWeekly},
		},
		{name: "unknown category", category: "Pets", limit: "10", period: "monthly", wantErr: true},
		{name: "zero limit", category: "Housing", limit: "0", period: "monthly", wantErr: true},
		{name: "not a number", category: "Housing", limit: "lots", period: "monthly", wantErr: true},
		{name: "unknown period", category: "Housing", limit: "10", period: "daily", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBudget(tt.category, tt.limit, tt.period)
			if tt.wantErr {
				var userErr *common.UserError
				assert.ErrorAs(t, err, &userErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderBudgets(t *testing.T) {
	a, _ := newTestApp(t, seedTransactions())
	ctx := context.Background()

	assert.Contains(t, renderBudgets(nil), "No budgets yet")

	_, err := a.ledger.SaveBudget(ctx, model.Budget{Category: model.CategoryFood, Limit: 100, Period: model.PeriodMonthly})
	require.NoError(t, err)
	_, err = a.ledger.SaveBudget(ctx, model.Budget{Category: model.CategoryTransport, Limit: 90, Period: model.PeriodMonthly})
	require.NoError(t, err)

	text := renderBudgets(a.ledger.Derive(nil).Budgets)
	assert.Contains(t, text, "120% over")
	assert.Contains(t, text, "50%")
	assert.Contains(t, text, "$120.00")
}

func TestSaveBudget_RejectsIncome(t *testing.T) {
	a, _ := newTestApp(t, nil)

	_, err := a.ledger.SaveBudget(context.Background(), model.Budget{Category: model.CategoryIncome, Limit: 10, Period: model.PeriodMonthly})

	assert.ErrorIs(t, err, common.ErrInvalidCategory)
}

func TestParseGoal(t *testing.T) {
	g, err := parseGoal(" Emergency fund ", "10000", "2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, "Emergency fund", g.Name)
	assert.InDelta(t, 10000, g.TargetAmount, 1e-9)
	require.NotNil(t, g.Deadline)
	assert.Equal(t, testutil.Day(2025, 12, 31), *g.Deadline)

	g, err = parseGoal("Trip", "1500", "")
	require.NoError(t, err)
	assert.Nil(t, g.Deadline)

	_, err = parseGoal("Trip", "1500", "next year")
	assert.ErrorIs(t, err, common.ErrInvalidDate)

	_, err = parseGoal("Trip", "-1", "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)
}

func TestRenderGoals(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx := context.Background()

	assert.Contains(t, renderGoals(nil), "No savings goals yet")

	g, err := a.ledger.SaveGoal(ctx, model.SavingsGoal{Name: "Vacation", TargetAmount: 2000})
	require.NoError(t, err)
	_, err = a.ledger.AddFunds(ctx, g.ID, 500)
	require.NoError(t, err)

	text := renderGoals(a.ledger.Snapshot().Goals)
	assert.Contains(t, text, "Vacation")
	assert.Contains(t, text, "$500.00")
	assert.Contains(t, text, "25%")
	assert.Contains(t, text, g.ID)
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pct    float64
		filled int
	}{
		{pct: 0, filled: 0},
		{pct: 50, filled: 5},
		{pct: 100, filled: 10},
		{pct: 150, filled: 10},
	}
	for _, tt := range tests {
		bar := progressBar(tt.pct, 10)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "pct %v", tt.pct)
		assert.Equal(t, 10-tt.filled, strings.Count(bar, "░"), "pct %v", tt.pct)
	}
}

func TestParseRecurring(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		typ         string
		category    string
		frequency   string
		start       string
		wantCat     model.Category
		wantStart   time.Time
		wantErrType error
		wantErr     bool
	}{
		{name: "expense defaults", typ: "expense", frequency: "monthly", wantCat: model.CategoryMisc, wantStart: testutil.Day(2024, 6, 15)},
		{name: "explicit category and start", typ: "expense", category: "Housing", frequency: "monthly", start: "2024-01-01", wantCat: model.CategoryHousing, wantStart: testutil.Day(2024, 1, 1)},
		{name: "income forces category", typ: "income", category: "Housing", frequency: "weekly", wantCat: model.CategoryIncome, wantStart: testutil.Day(2024, 6, 15)},
		{name: "bad frequency", typ: "expense", frequency: "hourly", wantErr: true},
		{name: "bad start", typ: "expense", frequency: "daily", start: "soon", wantErr: true, wantErrType: common.ErrInvalidDate},
		{name: "bad category", typ: "expense", category: "Pets", frequency: "daily", wantErr: true, wantErrType: common.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parseRecurring("Rent", "1500", tt.typ, tt.category, tt.frequency, tt.start, now)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrType != nil {
					assert.ErrorIs(t, err, tt.wantErrType)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCat, r.Category)
			assert.Equal(t, tt.wantStart, r.StartDate)
			assert.InDelta(t, 1500, r.Amount, 1e-9)
		})
	}
}

func TestRunRecurring(t *testing.T) {
	a, out := newTestApp(t, nil)
	ctx := context.Background()

	due, err := a.ledger.SaveRecurring(ctx, model.RecurringTransaction{
		Description: "Gym",
		Amount:      40,
		Type:        model.TypeExpense,
		Category:    model.CategoryHealth,
		Frequency:   model.FrequencyMonthly,
		StartDate:   testutil.Day(2024, 6, 15),
	})
	require.NoError(t, err)
	_, err = a.ledger.SaveRecurring(ctx, model.RecurringTransaction{
		Description: "Insurance",
		Amount:      90,
		Type:        model.TypeExpense,
		Category:    model.CategoryMisc,
		Frequency:   model.FrequencyYearly,
		StartDate:   testutil.Day(2024, 9, 1),
	})
	require.NoError(t, err)

	require.NoError(t, runRecurring(ctx, a, nil))
	assert.Contains(t, out.String(), "Recorded 1 due transactions")
	assert.Len(t, a.ledger.Snapshot().Transactions, 1)

	out.Reset()
	require.NoError(t, runRecurring(ctx, a, nil))
	assert.Contains(t, out.String(), "Nothing is due.")

	out.Reset()
	require.NoError(t, runRecurring(ctx, a, []string{due.ID}))
	assert.Contains(t, out.String(), "Recorded Gym")
	assert.Len(t, a.ledger.Snapshot().Transactions, 2)

	err = runRecurring(ctx, a, []string{"missing"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRenderRecurring(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx := context.Background()

	assert.Contains(t, renderRecurring(nil), "No recurring transactions yet")

	r, err := a.ledger.SaveRecurring(ctx, model.RecurringTransaction{
		Description: "Salary",
		Amount:      3200,
		Type:        model.TypeIncome,
		Frequency:   model.FrequencyWeekly,
		StartDate:   testutil.Day(2024, 6, 1),
	})
	require.NoError(t, err)

	text := renderRecurring(a.ledger.Snapshot().Recurring)
	assert.Contains(t, text, "+$3200.00")
	assert.Contains(t, text, "2024-06-15")
	assert.Contains(t, text, "active")

	_, err = a.ledger.ToggleRecurring(ctx, r.ID)
	require.NoError(t, err)
	assert.Contains(t, renderRecurring(a.ledger.Snapshot().Recurring), "paused")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "12.5", want: 12.5},
		{in: " $40 ", want: 40},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "12abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, common.ErrInvalidAmount, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9)
	}
}
