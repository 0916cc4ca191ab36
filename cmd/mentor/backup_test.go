package main

import (
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReset(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		yes       bool
		wantReset bool
	}{
		{name: "confirmed", input: "y\n", wantReset: true},
		{name: "declined", input: "n\n"},
		{name: "no answer", input: ""},
		{name: "flag skips prompt", yes: true, wantReset: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, out := newTestApp(t, seedTransactions())
			ctx := context.Background()
			_, err := a.ledger.SaveBudget(ctx, model.Budget{Category: model.CategoryFood, Limit: 50, Period: model.PeriodWeekly})
			require.NoError(t, err)

			require.NoError(t, runReset(ctx, a, strings.NewReader(tt.input), tt.yes))

			if tt.wantReset {
				assert.Empty(t, a.ledger.Snapshot().Budgets)
				assert.Contains(t, out.String(), "Ledger reset to sample data")
			} else {
				assert.Len(t, a.ledger.Snapshot().Budgets, 1)
				assert.Contains(t, out.String(), "Nothing changed.")
			}
			assert.Len(t, a.ledger.Snapshot().Transactions, 4)
		})
	}
}
