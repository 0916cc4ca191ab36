// Package ledger owns the in-memory financial state and its persistence.
// Readers take an immutable snapshot; writers build a replacement state,
// persist it, and swap it in atomically.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/finance-mentor/internal/analysis"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/forecast"
	"github.com/Veraticus/finance-mentor/internal/importer"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/storage"
	"github.com/google/uuid"
)

// State is one consistent view of every collection. Treat it as read-only.
type State struct {
	Transactions []model.Transaction
	Budgets      []model.Budget
	Goals        []model.SavingsGoal
	Recurring    []model.RecurringTransaction
}

func (s *State) clone() *State {
	return &State{
		Transactions: slices.Clone(s.Transactions),
		Budgets:      slices.Clone(s.Budgets),
		Goals:        slices.Clone(s.Goals),
		Recurring:    slices.Clone(s.Recurring),
	}
}

// Ledger serializes writers and publishes states atomically.
type Ledger struct {
	state           atomic.Pointer[State]
	repo            *storage.Repository
	normalizer      *importer.Normalizer
	logger          *slog.Logger
	now             func() time.Time
	newID           func() string
	mu              sync.Mutex
	startingBalance float64
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the current time.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides uuid-based identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// WithNormalizer sets the normalizer used for CSV and manual imports.
func WithNormalizer(n *importer.Normalizer) Option {
	return func(l *Ledger) { l.normalizer = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithStartingBalance sets the opening balance used for net worth.
func WithStartingBalance(balance float64) Option {
	return func(l *Ledger) { l.startingBalance = balance }
}

// Open loads every collection from repo.
func Open(ctx context.Context, repo *storage.Repository, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		repo:            repo,
		logger:          common.Component("ledger"),
		now:             time.Now,
		newID:           uuid.NewString,
		startingBalance: analysis.DefaultStartingBalance,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.normalizer == nil {
		l.normalizer = importer.NewNormalizer(importer.WithIDGenerator(l.newID), importer.WithLogger(l.logger))
	}

	s := &State{}
	var err error
	if s.Transactions, err = repo.LoadTransactions(ctx); err != nil {
		return nil, err
	}
	if s.Budgets, err = repo.LoadBudgets(ctx); err != nil {
		return nil, err
	}
	if s.Goals, err = repo.LoadGoals(ctx); err != nil {
		return nil, err
	}
	if s.Recurring, err = repo.LoadRecurring(ctx); err != nil {
		return nil, err
	}
	l.state.Store(s)

	l.logger.Debug("ledger loaded",
		"transactions", len(s.Transactions),
		"budgets", len(s.Budgets),
		"goals", len(s.Goals),
		"recurring", len(s.Recurring))
	return l, nil
}

// Snapshot returns the current state. Callers must not modify it.
func (l *Ledger) Snapshot() *State {
	return l.state.Load()
}

// Today returns the ledger's current calendar date.
func (l *Ledger) Today() time.Time {
	return model.TruncateDay(l.now())
}

// StartingBalance is the opening balance net worth is measured from.
func (l *Ledger) StartingBalance() float64 {
	return l.startingBalance
}

// update applies fn to a copy of the current state, persists it with save,
// and publishes it. On any error the published state is unchanged.
func (l *Ledger) update(ctx context.Context, fn func(*State) error, save func(context.Context, *State) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.state.Load().clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := save(ctx, next); err != nil {
		return err
	}
	l.state.Store(next)
	return nil
}

func (l *Ledger) saveTransactions(ctx context.Context, s *State) error {
	return l.repo.SaveTransactions(ctx, s.Transactions)
}

// Add prepends a validated transaction.
func (l *Ledger) Add(ctx context.Context, txn model.Transaction) error {
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}
	return l.update(ctx, func(s *State) error {
		if slices.ContainsFunc(s.Transactions, func(t model.Transaction) bool { return t.ID == txn.ID }) {
			return fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, txn.ID)
		}
		s.Transactions = slices.Insert(s.Transactions, 0, txn)
		return nil
	}, l.saveTransactions)
}

// AddManual builds a transaction from a manual entry and prepends it.
func (l *Ledger) AddManual(ctx context.Context, entry importer.ManualEntry) (model.Transaction, error) {
	if entry.Date == "" {
		entry.Date = l.Today().Format(model.DateLayout)
	}
	var txn model.Transaction
	err := l.update(ctx, func(s *State) error {
		var err error
		txn, err = l.normalizer.NewManualTransaction(entry, s.Transactions)
		if err != nil {
			return err
		}
		s.Transactions = slices.Insert(s.Transactions, 0, txn)
		return nil
	}, l.saveTransactions)
	if err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

// ImportCSV normalizes raw delimited text and prepends the accepted rows.
func (l *Ledger) ImportCSV(ctx context.Context, raw string) (importer.Result, error) {
	var result importer.Result
	err := l.update(ctx, func(s *State) error {
		var err error
		result, err = l.normalizer.Normalize(raw, s.Transactions)
		if err != nil {
			return err
		}
		s.Transactions = append(slices.Clone(result.Transactions), s.Transactions...)
		return nil
	}, l.saveTransactions)
	if err != nil {
		return importer.Result{}, err
	}

	l.logger.Info("imported transactions",
		"accepted", len(result.Transactions),
		"skipped", len(result.Skipped))
	return result, nil
}

// Import prepends already-normalized transactions, skipping ids that exist.
// It returns the number added.
func (l *Ledger) Import(ctx context.Context, txns []model.Transaction) (int, error) {
	added := 0
	err := l.update(ctx, func(s *State) error {
		seen := make(map[string]bool, len(s.Transactions))
		for _, t := range s.Transactions {
			seen[t.ID] = true
		}
		batch := make([]model.Transaction, 0, len(txns))
		for _, t := range txns {
			if seen[t.ID] {
				continue
			}
			if err := t.Validate(); err != nil {
				return fmt.Errorf("invalid imported transaction: %w", err)
			}
			seen[t.ID] = true
			batch = append(batch, t)
		}
		added = len(batch)
		s.Transactions = append(batch, s.Transactions...)
		return nil
	}, l.saveTransactions)
	return added, err
}

// Delete removes the transaction with id.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	return l.update(ctx, func(s *State) error {
		i := slices.IndexFunc(s.Transactions, func(t model.Transaction) bool { return t.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
		}
		s.Transactions = slices.Delete(s.Transactions, i, i+1)
		return nil
	}, l.saveTransactions)
}

// Reset clears persisted state and reloads the defaults.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset storage: %w", err)
	}
	txns, err := l.repo.LoadTransactions(ctx)
	if err != nil {
		return err
	}
	l.state.Store(&State{
		Transactions: txns,
		Budgets:      []model.Budget{},
		Goals:        []model.SavingsGoal{},
		Recurring:    []model.RecurringTransaction{},
	})
	return nil
}

// Views are every derived value computed from a single snapshot.
type Views struct {
	Forecast     []model.ForecastPoint
	Health       model.HealthScore
	Trends       analysis.SpendingTrends
	Budgets      []model.BudgetStatus
	Transactions []model.Transaction
	Summary      model.FinancialSummary
}

// Derive computes the views from the current snapshot. A nil engine skips
// the forecast.
func (l *Ledger) Derive(engine *forecast.Engine) Views {
	s := l.Snapshot()
	now := l.now()
	summary := analysis.Summarize(s.Transactions, l.startingBalance)

	v := Views{
		Transactions: s.Transactions,
		Summary:      summary,
		Health:       analysis.Score(summary, s.Transactions),
		Trends:       analysis.Trends(s.Transactions, now),
		Budgets:      BudgetStatuses(s.Budgets, s.Transactions, now),
	}
	if engine != nil {
		v.Forecast = engine.Project(s.Transactions)
	}
	return v
}
