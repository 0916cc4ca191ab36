package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/forecast"
	"github.com/Veraticus/finance-mentor/internal/importer"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/service"
	"github.com/Veraticus/finance-mentor/internal/storage"
	"github.com/Veraticus/finance-mentor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = testutil.Day(2024, 6, 15)

func fixedClock() time.Time { return today.Add(10 * time.Hour) }

func newTestLedger(t *testing.T, seed []model.Transaction) (*Ledger, *storage.Repository) {
	t.Helper()
	repo := storage.NewRepository(storage.NewMemoryStore(), storage.Defaults{
		Transactions: func() []model.Transaction { return seed },
	}, nil)
	l, err := Open(context.Background(), repo,
		WithClock(fixedClock),
		WithIDGenerator(testutil.SequentialIDs("id")))
	require.NoError(t, err)
	return l, repo
}

func TestOpen_LoadsDefaults(t *testing.T) {
	seed := testutil.NewTransactions(today).Income(3200, "Salary").Build()
	l, _ := newTestLedger(t, seed)

	s := l.Snapshot()
	assert.Equal(t, seed, s.Transactions)
	assert.Empty(t, s.Budgets)
	assert.Empty(t, s.Goals)
	assert.Empty(t, s.Recurring)
}

func TestAdd_PrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	seed := testutil.NewTransactions(today).Income(3200, "Salary").Build()
	l, repo := newTestLedger(t, seed)
	before := l.Snapshot()

	txn := model.Transaction{ID: "new", Date: today, Amount: 12, Type: model.TypeExpense, Category: model.CategoryFood, Description: "Lunch"}
	require.NoError(t, l.Add(ctx, txn))

	after := l.Snapshot()
	require.Len(t, after.Transactions, 2)
	assert.Equal(t, txn, after.Transactions[0])
	assert.Len(t, before.Transactions, 1, "earlier snapshot is untouched")

	persisted, err := repo.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, after.Transactions, persisted)

	assert.ErrorIs(t, l.Add(ctx, txn), common.ErrDuplicateEntry)
	assert.Error(t, l.Add(ctx, model.Transaction{ID: "bad", Date: today, Amount: 0, Type: model.TypeExpense, Category: model.CategoryFood}))
}

func TestAddManual(t *testing.T) {
	l, _ := newTestLedger(t, nil)

	txn, err := l.AddManual(context.Background(), importer.ManualEntry{
		Type:        model.TypeIncome,
		Category:    "Shopping",
		Description: "Bonus",
		Amount:      500,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryIncome, txn.Category)
	assert.Equal(t, today, txn.Date)
	assert.Equal(t, []model.Transaction{txn}, l.Snapshot().Transactions)

	_, err = l.AddManual(context.Background(), importer.ManualEntry{Amount: -5})
	assert.ErrorIs(t, err, common.ErrInvalidAmount)
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	seed := testutil.NewTransactions(today).Income(3200, "Salary").Build()
	l, _ := newTestLedger(t, seed)

	raw := "Date,Description,Amount\n2024-06-01,Grocery Mart,-45.00\n2024-06-02,Monthly Rent,1500\nnot-a-date,Bad,1\n"
	result, err := l.ImportCSV(ctx, raw)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 2)
	assert.Len(t, result.Skipped, 1)

	txns := l.Snapshot().Transactions
	require.Len(t, txns, 3)
	assert.Equal(t, model.CategoryFood, txns[0].Category)
	assert.Equal(t, 45.0, txns[0].Amount)
	assert.Equal(t, model.CategoryHousing, txns[1].Category)
	assert.Equal(t, "Salary", txns[2].Description)

	_, err = l.ImportCSV(ctx, "Date,Amount\n")
	assert.ErrorIs(t, err, common.ErrMalformedInput)
	assert.Len(t, l.Snapshot().Transactions, 3, "failed import applies nothing")
}

func TestImport_SkipsKnownIDs(t *testing.T) {
	ctx := context.Background()
	seed := testutil.NewTransactions(today).Income(3200, "Salary").Build()
	l, _ := newTestLedger(t, seed)

	batch := append(seed[:1:1], model.Transaction{ID: "ofx-1", Date: today, Amount: 9.99, Type: model.TypeExpense, Category: model.CategoryEntertainment, Description: "Netflix"})
	added, err := l.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, l.Snapshot().Transactions, 2)

	added, err = l.Import(ctx, batch)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	seed := testutil.NewTransactions(today).Income(3200, "Salary").Expense(model.CategoryFood, 10, "Snack").Build()
	l, _ := newTestLedger(t, seed)

	require.NoError(t, l.Delete(ctx, "txn-001"))
	require.Len(t, l.Snapshot().Transactions, 1)
	assert.Equal(t, "txn-002", l.Snapshot().Transactions[0].ID)

	assert.ErrorIs(t, l.Delete(ctx, "txn-001"), common.ErrNotFound)
}

type failingStore struct {
	service.KeyValueStore
	fail bool
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.KeyValueStore.Set(ctx, key, value)
}

func TestUpdate_PersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{KeyValueStore: storage.NewMemoryStore()}
	repo := storage.NewRepository(store, storage.Defaults{}, nil)
	l, err := Open(ctx, repo, WithClock(fixedClock))
	require.NoError(t, err)

	store.fail = true
	err = l.Add(ctx, model.Transaction{ID: "x", Date: today, Amount: 1, Type: model.TypeExpense, Category: model.CategoryMisc})
	require.Error(t, err)
	assert.Empty(t, l.Snapshot().Transactions)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	seed := testutil.NewTransactions(today).Income(3200, "Salary").Build()
	l, _ := newTestLedger(t, seed)

	require.NoError(t, l.Add(ctx, model.Transaction{ID: "x", Date: today, Amount: 1, Type: model.TypeExpense, Category: model.CategoryMisc}))
	_, err := l.SaveBudget(ctx, model.Budget{Category: model.CategoryFood, Limit: 100, Period: model.PeriodMonthly})
	require.NoError(t, err)

	require.NoError(t, l.Reset(ctx))
	s := l.Snapshot()
	assert.Equal(t, seed, s.Transactions)
	assert.Empty(t, s.Budgets)
}

func TestConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.AddManual(ctx, importer.ManualEntry{Amount: float64(i + 1), Category: "Shopping"})
			assert.NoError(t, err)
			_ = l.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Snapshot().Transactions, 20)
}

func TestDerive(t *testing.T) {
	seed := testutil.NewTransactions(today).
		Income(1000, "Pay").
		Expense(model.CategoryHousing, 950, "Rent").
		Build()
	l, _ := newTestLedger(t, seed)

	cfg := forecast.DefaultConfig()
	cfg.Today = today
	cfg.Rand = &testutil.FixedRand{Values: []float64{0.5}}
	engine, err := forecast.NewEngine(cfg)
	require.NoError(t, err)

	v := l.Derive(engine)
	assert.Equal(t, 1000.0, v.Summary.TotalIncome)
	assert.Equal(t, 950.0, v.Summary.TotalExpenses)
	assert.Equal(t, 15050.0, v.Summary.NetWorth)
	assert.LessOrEqual(t, v.Health.Score, 70)
	assert.Len(t, v.Forecast, 61)
	assert.Equal(t, seed, v.Transactions)

	assert.Nil(t, l.Derive(nil).Forecast)
}
