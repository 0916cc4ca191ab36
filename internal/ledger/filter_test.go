package ledger

import (
	"testing"

	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Apply(t *testing.T) {
	txns := testutil.NewTransactions(testutil.Day(2024, 6, 14)).
		Income(3200, "Bi-weekly Salary").
		Expense(model.CategoryFood, 45, "Grocery Mart").
		On(testutil.Day(2024, 5, 1)).
		Expense(model.CategoryTransport, 30, "Uber ride").
		Expense(model.CategoryFood, 120, "Dinner party").
		Build()

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{name: "no criteria", filter: Filter{}, wantIDs: []string{"txn-001", "txn-002", "txn-003", "txn-004"}},
		{name: "search description", filter: Filter{Search: "GROCERY"}, wantIDs: []string{"txn-002"}},
		{name: "search category label", filter: Filter{Search: "dining"}, wantIDs: []string{"txn-002", "txn-004"}},
		{name: "type", filter: Filter{Type: model.TypeIncome}, wantIDs: []string{"txn-001"}},
		{name: "category", filter: Filter{Category: model.CategoryTransport}, wantIDs: []string{"txn-003"}},
		{name: "last 7 days", filter: Filter{Days: 7}, wantIDs: []string{"txn-001", "txn-002"}},
		{name: "amount range", filter: Filter{MinAmount: 40, MaxAmount: 200}, wantIDs: []string{"txn-002", "txn-004"}},
		{name: "combined", filter: Filter{Category: model.CategoryFood, Days: 30}, wantIDs: []string{"txn-002"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(txns, fixedClock())
			ids := make([]string, 0, len(got))
			for _, txn := range got {
				ids = append(ids, txn.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.name != "no criteria", tt.filter.Active())
		})
	}
}
