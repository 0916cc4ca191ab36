package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TransactionType is the direction of money movement.
type TransactionType string

const (
	// TypeIncome is money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense is money going out.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single dated, categorized money movement.
// Values are treated as immutable once created.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	Type        TransactionType
	Amount      float64
	Category    Category
}

// Signed returns the amount with income positive and expenses negative.
func (t Transaction) Signed() float64 {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return -t.Amount
}

// Validate checks the transaction invariants.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if t.Amount <= 0 {
		return fmt.Errorf("transaction %s: amount must be positive, got %v", t.ID, t.Amount)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %s: date is required", t.ID)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("transaction %s: invalid type %q", t.ID, t.Type)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("transaction %s: invalid category", t.ID)
	}
	if (t.Category == CategoryIncome) != (t.Type == TypeIncome) {
		return fmt.Errorf("transaction %s: category %s inconsistent with type %s", t.ID, t.Category, t.Type)
	}
	return nil
}

// TruncateDay strips the time-of-day, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type transactionJSON struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
}

// MarshalJSON encodes the transaction with an ISO calendar date.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Date:        t.Date.Format(DateLayout),
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
		Description: t.Description,
	})
}

// UnmarshalJSON decodes a transaction written by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var aux transactionJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, aux.Date)
	if err != nil {
		return fmt.Errorf("invalid transaction date %q: %w", aux.Date, err)
	}
	*t = Transaction{
		ID:          aux.ID,
		Date:        date,
		Amount:      aux.Amount,
		Type:        aux.Type,
		Category:    aux.Category,
		Description: aux.Description,
	}
	return nil
}
