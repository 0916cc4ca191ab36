package plaid

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// MockClient is an in-memory TransactionFetcher. By default it serves
// Accounts and the Transactions dated inside the requested window; the Fn
// hooks override that, and Err fails every call.
type MockClient struct {
	GetTransactionsFn func(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
	GetAccountsFn     func(ctx context.Context) ([]string, error)
	Err               error

	Accounts     []string
	Transactions []model.Transaction

	GetTransactionsCalls []GetTransactionsCall
	GetAccountsCalls     int

	mu sync.Mutex
}

// GetTransactionsCall records the window of one GetTransactions call.
type GetTransactionsCall struct {
	StartDate time.Time
	EndDate   time.Time
}

// NewMockClient returns a fake with one linked account and no transactions.
func NewMockClient() *MockClient {
	return &MockClient{Accounts: []string{"mock-checking"}}
}

// GetTransactions returns the stored transactions dated within
// [startDate, endDate].
func (m *MockClient) GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error) {
	m.mu.Lock()
	m.GetTransactionsCalls = append(m.GetTransactionsCalls, GetTransactionsCall{StartDate: startDate, EndDate: endDate})
	fn, err := m.GetTransactionsFn, m.Err
	stored := m.Transactions
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx, startDate, endDate)
	}

	var out []model.Transaction
	for _, t := range stored {
		if !t.Date.Before(startDate) && !t.Date.After(endDate) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetAccounts returns the linked account IDs.
func (m *MockClient) GetAccounts(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	m.GetAccountsCalls++
	fn, err := m.GetAccountsFn, m.Err
	accounts := append([]string(nil), m.Accounts...)
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if fn != nil {
		return fn(ctx)
	}
	return accounts, nil
}

// Reset clears recorded calls.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTransactionsCalls = nil
	m.GetAccountsCalls = 0
}

var _ TransactionFetcher = (*MockClient)(nil)
