package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
)

// BudgetWindowStart is the earliest date counted against a budget: the
// first of the current month, or seven days ago for weekly budgets.
func BudgetWindowStart(period model.BudgetPeriod, now time.Time) time.Time {
	today := model.TruncateDay(now)
	if period == model.PeriodWeekly {
		return today.AddDate(0, 0, -7)
	}
	return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// BudgetStatusFor measures spending in the budget's category and window.
func BudgetStatusFor(b model.Budget, txns []model.Transaction, now time.Time) model.BudgetStatus {
	start := BudgetWindowStart(b.Period, now)
	var spent float64
	for _, t := range txns {
		if t.Type == model.TypeExpense && t.Category == b.Category && !t.Date.Before(start) {
			spent += t.Amount
		}
	}
	status := model.BudgetStatus{Budget: b, Spent: spent, OverBudget: spent > b.Limit}
	if b.Limit > 0 {
		status.Percentage = spent / b.Limit * 100
	}
	return status
}

// BudgetStatuses measures every budget in order.
func BudgetStatuses(budgets []model.Budget, txns []model.Transaction, now time.Time) []model.BudgetStatus {
	out := make([]model.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetStatusFor(b, txns, now))
	}
	return out
}

func (l *Ledger) saveBudgets(ctx context.Context, s *State) error {
	return l.repo.SaveBudgets(ctx, s.Budgets)
}

func (l *Ledger) saveGoals(ctx context.Context, s *State) error {
	return l.repo.SaveGoals(ctx, s.Goals)
}

func (l *Ledger) saveRecurring(ctx context.Context, s *State) error {
	return l.repo.SaveRecurring(ctx, s.Recurring)
}

func (l *Ledger) saveRecurringAndTransactions(ctx context.Context, s *State) error {
	if err := l.repo.SaveTransactions(ctx, s.Transactions); err != nil {
		return err
	}
	return l.repo.SaveRecurring(ctx, s.Recurring)
}

// indexByID finds the element whose id matches.
func indexByID[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(item T) bool { return idOf(item) == id })
}

func budgetID(b model.Budget) string                  { return b.ID }
func goalID(g model.SavingsGoal) string               { return g.ID }
func recurringID(r model.RecurringTransaction) string { return r.ID }

// SaveBudget adds a budget, or replaces the one with the same id.
// An empty id is assigned.
func (l *Ledger) SaveBudget(ctx context.Context, b model.Budget) (model.Budget, error) {
	if b.Category == model.CategoryIncome {
		return model.Budget{}, fmt.Errorf("%w: cannot budget income", common.ErrInvalidCategory)
	}
	if err := b.Validate(); err != nil {
		return model.Budget{}, err
	}
	if b.ID == "" {
		b.ID = l.newID()
	}
	err := l.update(ctx, func(s *State) error {
		if i := indexByID(s.Budgets, b.ID, budgetID); i >= 0 {
			s.Budgets[i] = b
		} else {
			s.Budgets = append(s.Budgets, b)
		}
		return nil
	}, l.saveBudgets)
	return b, err
}

// DeleteBudget removes the budget with id.
func (l *Ledger) DeleteBudget(ctx context.Context, id string) error {
	return l.update(ctx, func(s *State) error {
		i := indexByID(s.Budgets, id, budgetID)
		if i < 0 {
			return fmt.Errorf("%w: budget %s", common.ErrNotFound, id)
		}
		s.Budgets = slices.Delete(s.Budgets, i, i+1)
		return nil
	}, l.saveBudgets)
}

// SaveGoal adds a savings goal, or replaces the one with the same id.
func (l *Ledger) SaveGoal(ctx context.Context, g model.SavingsGoal) (model.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return model.SavingsGoal{}, err
	}
	if g.ID == "" {
		g.ID = l.newID()
	}
	err := l.update(ctx, func(s *State) error {
		if i := indexByID(s.Goals, g.ID, goalID); i >= 0 {
			s.Goals[i] = g
		} else {
			s.Goals = append(s.Goals, g)
		}
		return nil
	}, l.saveGoals)
	return g, err
}

// DeleteGoal removes the goal with id.
func (l *Ledger) DeleteGoal(ctx context.Context, id string) error {
	return l.update(ctx, func(s *State) error {
		i := indexByID(s.Goals, id, goalID)
		if i < 0 {
			return fmt.Errorf("%w: goal %s", common.ErrNotFound, id)
		}
		s.Goals = slices.Delete(s.Goals, i, i+1)
		return nil
	}, l.saveGoals)
}

// AddFunds increases a goal's current amount.
func (l *Ledger) AddFunds(ctx context.Context, id string, amount float64) (model.SavingsGoal, error) {
	if amount <= 0 {
		return model.SavingsGoal{}, fmt.Errorf("%w: must be greater than zero", common.ErrInvalidAmount)
	}
	var updated model.SavingsGoal
	err := l.update(ctx, func(s *State) error {
		i := indexByID(s.Goals, id, goalID)
		if i < 0 {
			return fmt.Errorf("%w: goal %s", common.ErrNotFound, id)
		}
		s.Goals[i].CurrentAmount += amount
		updated = s.Goals[i]
		return nil
	}, l.saveGoals)
	return updated, err
}

// NextOccurrence advances from by freq until it is on or after today.
func NextOccurrence(from time.Time, freq model.Frequency, now time.Time) time.Time {
	today := model.TruncateDay(now)
	next := model.TruncateDay(from)
	if !freq.Valid() {
		return next
	}
	for next.Before(today) {
		next = freq.Advance(next)
	}
	return next
}

// SaveRecurring adds a recurring definition, or replaces the one with the
// same id. NextDate is recomputed from StartDate.
func (l *Ledger) SaveRecurring(ctx context.Context, r model.RecurringTransaction) (model.RecurringTransaction, error) {
	if r.Type == model.TypeIncome {
		r.Category = model.CategoryIncome
	} else if r.Category == model.CategoryIncome {
		r.Type = model.TypeIncome
	}
	if err := r.Validate(); err != nil {
		return model.RecurringTransaction{}, err
	}
	if r.ID == "" {
		r.ID = l.newID()
	}
	r.StartDate = model.TruncateDay(r.StartDate)
	r.NextDate = NextOccurrence(r.StartDate, r.Frequency, l.now())

	err := l.update(ctx, func(s *State) error {
		if i := indexByID(s.Recurring, r.ID, recurringID); i >= 0 {
			r.IsActive = s.Recurring[i].IsActive
			s.Recurring[i] = r
		} else {
			r.IsActive = true
			s.Recurring = append(s.Recurring, r)
		}
		return nil
	}, l.saveRecurring)
	return r, err
}

// DeleteRecurring removes the definition with id.
func (l *Ledger) DeleteRecurring(ctx context.Context, id string) error {
	return l.update(ctx, func(s *State) error {
		i := indexByID(s.Recurring, id, recurringID)
		if i < 0 {
			return fmt.Errorf("%w: recurring %s", common.ErrNotFound, id)
		}
		s.Recurring = slices.Delete(s.Recurring, i, i+1)
		return nil
	}, l.saveRecurring)
}

// ToggleRecurring flips a definition between active and paused.
func (l *Ledger) ToggleRecurring(ctx context.Context, id string) (model.RecurringTransaction, error) {
	var updated model.RecurringTransaction
	err := l.update(ctx, func(s *State) error {
		i := indexByID(s.Recurring, id, recurringID)
		if i < 0 {
			return fmt.Errorf("%w: recurring %s", common.ErrNotFound, id)
		}
		s.Recurring[i].IsActive = !s.Recurring[i].IsActive
		updated = s.Recurring[i]
		return nil
	}, l.saveRecurring)
	return updated, err
}

// ExecuteRecurring materializes one occurrence dated today and advances the
// definition's NextDate past it.
func (l *Ledger) ExecuteRecurring(ctx context.Context, id string) (model.Transaction, error) {
	var txn model.Transaction
	err := l.update(ctx, func(s *State) error {
		i := indexByID(s.Recurring, id, recurringID)
		if i < 0 {
			return fmt.Errorf("%w: recurring %s", common.ErrNotFound, id)
		}
		var err error
		txn, err = l.materialize(s, i)
		return err
	}, l.saveRecurringAndTransactions)
	return txn, err
}

// ProcessDue executes every active definition whose NextDate is today or
// earlier, once each.
func (l *Ledger) ProcessDue(ctx context.Context) ([]model.Transaction, error) {
	var created []model.Transaction
	today := l.Today()
	err := l.update(ctx, func(s *State) error {
		created = created[:0]
		for i, r := range s.Recurring {
			if r.IsActive && !r.NextDate.After(today) {
				txn, err := l.materialize(s, i)
				if err != nil {
					return err
				}
				created = append(created, txn)
			}
		}
		return nil
	}, l.saveRecurringAndTransactions)
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		l.logger.Info("processed recurring transactions", "count", len(created))
	}
	return created, nil
}

// materialize records one occurrence of s.Recurring[i]. A definition that
// would produce an invalid transaction leaves s untouched.
func (l *Ledger) materialize(s *State, i int) (model.Transaction, error) {
	r := s.Recurring[i]
	today := l.Today()
	txn := model.Transaction{
		ID:          l.newID(),
		Date:        today,
		Amount:      r.Amount,
		Type:        r.Type,
		Category:    r.Category,
		Description: r.Description + " (Recurring)",
	}
	if err := txn.Validate(); err != nil {
		return model.Transaction{}, fmt.Errorf("recurring %s: %w", r.ID, err)
	}
	s.Transactions = slices.Insert(s.Transactions, 0, txn)

	next := NextOccurrence(r.Frequency.Advance(r.NextDate), r.Frequency, today)
	if !next.After(today) {
		next = r.Frequency.Advance(next)
	}
	s.Recurring[i].NextDate = next
	return txn, nil
}
