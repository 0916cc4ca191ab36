package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/service"
)

// Keys under which each collection is persisted.
const (
	KeyTransactions = "transactions"
	KeyBudgets      = "budgets"
	KeySavingsGoals = "savingsGoals"
	KeyRecurring    = "recurringTransactions"
)

// Defaults supplies the replacement for a missing or corrupt transaction
// array. Budgets, goals and recurring definitions reset to empty.
type Defaults struct {
	Transactions func() []model.Transaction
}

// Repository reads and writes the collections as JSON arrays.
type Repository struct {
	store    service.KeyValueStore
	logger   *slog.Logger
	defaults Defaults
}

// NewRepository creates a repository over store.
func NewRepository(store service.KeyValueStore, defaults Defaults, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, defaults: defaults, logger: logger}
}

// LoadTransactions reads the transaction array, reinitializing it from the
// defaults when missing or corrupt.
func (r *Repository) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	fallback := r.defaults.Transactions
	if fallback == nil {
		fallback = func() []model.Transaction { return []model.Transaction{} }
	}
	return load(ctx, r, KeyTransactions, fallback)
}

// SaveTransactions rewrites the transaction array.
func (r *Repository) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	return save(ctx, r.store, KeyTransactions, txns)
}

// LoadBudgets reads the budget array.
func (r *Repository) LoadBudgets(ctx context.Context) ([]model.Budget, error) {
	return load(ctx, r, KeyBudgets, func() []model.Budget { return []model.Budget{} })
}

// SaveBudgets rewrites the budget array.
func (r *Repository) SaveBudgets(ctx context.Context, budgets []model.Budget) error {
	return save(ctx, r.store, KeyBudgets, budgets)
}

// LoadGoals reads the savings goal array.
func (r *Repository) LoadGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	return load(ctx, r, KeySavingsGoals, func() []model.SavingsGoal { return []model.SavingsGoal{} })
}

// SaveGoals rewrites the savings goal array.
func (r *Repository) SaveGoals(ctx context.Context, goals []model.SavingsGoal) error {
	return save(ctx, r.store, KeySavingsGoals, goals)
}

// LoadRecurring reads the recurring definition array.
func (r *Repository) LoadRecurring(ctx context.Context) ([]model.RecurringTransaction, error) {
	return load(ctx, r, KeyRecurring, func() []model.RecurringTransaction { return []model.RecurringTransaction{} })
}

// SaveRecurring rewrites the recurring definition array.
func (r *Repository) SaveRecurring(ctx context.Context, recurring []model.RecurringTransaction) error {
	return save(ctx, r.store, KeyRecurring, recurring)
}

// Reset clears every collection.
func (r *Repository) Reset(ctx context.Context) error {
	return r.store.Clear(ctx)
}

type validatable interface {
	Validate() error
}

func load[T validatable](ctx context.Context, r *Repository, key string, fallback func() []T) ([]T, error) {
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	if found {
		items, decodeErr := decode[T](raw)
		if decodeErr == nil {
			return items, nil
		}
		r.logger.Warn("discarding corrupt persisted state",
			"key", key,
			"error", decodeErr)
	}

	items := fallback()
	if err := save(ctx, r.store, key, items); err != nil {
		return nil, err
	}
	return items, nil
}

func decode[T validatable](raw string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: not an array", common.ErrDatabaseCorrupted)
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", common.ErrDatabaseCorrupted, i, err)
		}
	}
	return items, nil
}

func save[T any](ctx context.Context, store service.KeyValueStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
