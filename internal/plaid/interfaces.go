package plaid

import (
	"context"
	"time"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// TransactionFetcher defines the contract for fetching transaction data.
// This interface allows for easy mocking in tests and swapping data sources.
type TransactionFetcher interface {
	GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
	GetAccounts(ctx context.Context) ([]string, error)
}

// FetchRecent pulls the trailing days of transactions ending today.
func FetchRecent(ctx context.Context, f TransactionFetcher, days int, now time.Time) ([]model.Transaction, error) {
	if days <= 0 {
		days = 30
	}
	end := model.TruncateDay(now)
	return f.GetTransactions(ctx, end.AddDate(0, 0, -days), end)
}
