package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// BudgetPeriod is the window a budget limit applies to.
type BudgetPeriod string

// Supported budget periods.
const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodWeekly  BudgetPeriod = "weekly"
)

// Budget caps spending in one category per period.
type Budget struct {
	ID       string       `json:"id"`
	Period   BudgetPeriod `json:"period"`
	Limit    float64      `json:"limit"`
	Category Category     `json:"category"`
}

// Validate checks that the budget is usable.
func (b Budget) Validate() error {
	if b.Limit <= 0 {
		return fmt.Errorf("budget limit must be positive")
	}
	if b.Period != PeriodMonthly && b.Period != PeriodWeekly {
		return fmt.Errorf("invalid budget period %q", b.Period)
	}
	if !b.Category.Valid() {
		return fmt.Errorf("invalid budget category")
	}
	return nil
}

// BudgetStatus reports spending against a budget.
type BudgetStatus struct {
	Budget     Budget
	Spent      float64
	Percentage float64
	OverBudget bool
}

// SavingsGoal tracks progress toward a target amount.
type SavingsGoal struct {
	Deadline      *time.Time
	ID            string
	Name          string
	Color         string
	TargetAmount  float64
	CurrentAmount float64
}

// Progress returns completion as a percentage capped at 100.
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount * 100
	if p > 100 {
		return 100
	}
	return p
}

// Validate checks that the goal is usable.
func (g SavingsGoal) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("goal name is required")
	}
	if g.TargetAmount <= 0 {
		return fmt.Errorf("goal target must be positive")
	}
	if g.CurrentAmount < 0 {
		return fmt.Errorf("goal current amount cannot be negative")
	}
	return nil
}

type savingsGoalJSON struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline,omitempty"`
	Color         string  `json:"color,omitempty"`
}

// MarshalJSON writes the deadline as a calendar date.
func (g SavingsGoal) MarshalJSON() ([]byte, error) {
	aux := savingsGoalJSON{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Color:         g.Color,
	}
	if g.Deadline != nil {
		aux.Deadline = g.Deadline.Format(DateLayout)
	}
	return json.Marshal(aux)
}

// UnmarshalJSON reads a goal written by MarshalJSON.
func (g *SavingsGoal) UnmarshalJSON(data []byte) error {
	var aux savingsGoalJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*g = SavingsGoal{
		ID:            aux.ID,
		Name:          aux.Name,
		TargetAmount:  aux.TargetAmount,
		CurrentAmount: aux.CurrentAmount,
		Color:         aux.Color,
	}
	if aux.Deadline != "" {
		d, err := time.Parse(DateLayout, aux.Deadline)
		if err != nil {
			return fmt.Errorf("invalid goal deadline %q: %w", aux.Deadline, err)
		}
		g.Deadline = &d
	}
	return nil
}

// Frequency is how often a recurring transaction repeats.
type Frequency string

// Supported recurrence frequencies.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Advance returns d moved forward by one period.
func (f Frequency) Advance(d time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return d.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return d.AddDate(0, 1, 0)
	case FrequencyYearly:
		return d.AddDate(1, 0, 0)
	}
	return d
}

// RecurringTransaction is a template that materializes transactions on a schedule.
type RecurringTransaction struct {
	StartDate   time.Time
	NextDate    time.Time
	ID          string
	Description string
	Type        TransactionType
	Frequency   Frequency
	Amount      float64
	Category    Category
	IsActive    bool
}

// Validate checks the definition invariants.
func (r RecurringTransaction) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("recurring amount must be positive")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("invalid recurring type %q", r.Type)
	}
	if !r.Frequency.Valid() {
		return fmt.Errorf("invalid frequency %q", r.Frequency)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("invalid recurring category")
	}
	if (r.Category == CategoryIncome) != (r.Type == TypeIncome) {
		return fmt.Errorf("recurring category %s inconsistent with type %s", r.Category, r.Type)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("recurring start date is required")
	}
	return nil
}

type recurringJSON struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Frequency   Frequency       `json:"frequency"`
	StartDate   string          `json:"startDate"`
	NextDate    string          `json:"nextDate"`
	IsActive    bool            `json:"isActive"`
}

// MarshalJSON writes dates as calendar dates.
func (r RecurringTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(recurringJSON{
		ID:          r.ID,
		Type:        r.Type,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Frequency:   r.Frequency,
		StartDate:   r.StartDate.Format(DateLayout),
		NextDate:    r.NextDate.Format(DateLayout),
		IsActive:    r.IsActive,
	})
}

// UnmarshalJSON reads a definition written by MarshalJSON.
func (r *RecurringTransaction) UnmarshalJSON(data []byte) error {
	var aux recurringJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	start, err := time.Parse(DateLayout, aux.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", aux.StartDate, err)
	}
	next, err := time.Parse(DateLayout, aux.NextDate)
	if err != nil {
		return fmt.Errorf("invalid next date %q: %w", aux.NextDate, err)
	}
	*r = RecurringTransaction{
		ID:          aux.ID,
		Type:        aux.Type,
		Amount:      aux.Amount,
		Category:    aux.Category,
		Description: aux.Description,
		Frequency:   aux.Frequency,
		StartDate:   start,
		NextDate:    next,
		IsActive:    aux.IsActive,
	}
	return nil
}
