package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// Day returns a UTC calendar date.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TransactionBuilder accumulates transactions with sequential ids.
//
//	txns := testutil.NewTransactions(testutil.Day(2024, 1, 1)).
//		Income(3200, "Salary").
//		Expense(model.CategoryHousing, 1500, "Rent").
//		Build()
type TransactionBuilder struct {
	date  time.Time
	txns  []model.Transaction
	seq   int
	daily bool
}

// NewTransactions starts a builder whose transactions are dated start.
func NewTransactions(start time.Time) *TransactionBuilder {
	return &TransactionBuilder{date: model.TruncateDay(start)}
}

// Daily makes each following transaction one day after the previous one.
func (b *TransactionBuilder) Daily() *TransactionBuilder {
	b.daily = true
	return b
}

// On sets the date for following transactions.
func (b *TransactionBuilder) On(date time.Time) *TransactionBuilder {
	b.date = model.TruncateDay(date)
	return b
}

// Income adds an income transaction.
func (b *TransactionBuilder) Income(amount float64, description string) *TransactionBuilder {
	return b.add(model.TypeIncome, model.CategoryIncome, amount, description)
}

// Expense adds an expense transaction.
func (b *TransactionBuilder) Expense(category model.Category, amount float64, description string) *TransactionBuilder {
	return b.add(model.TypeExpense, category, amount, description)
}

func (b *TransactionBuilder) add(typ model.TransactionType, cat model.Category, amount float64, description string) *TransactionBuilder {
	b.seq++
	b.txns = append(b.txns, model.Transaction{
		ID:          fmt.Sprintf("txn-%03d", b.seq),
		Date:        b.date,
		Amount:      amount,
		Type:        typ,
		Category:    cat,
		Description: description,
	})
	if b.daily {
		b.date = b.date.AddDate(0, 0, 1)
	}
	return b
}

// Build returns a copy of the accumulated transactions.
func (b *TransactionBuilder) Build() []model.Transaction {
	out := make([]model.Transaction, len(b.txns))
	copy(out, b.txns)
	return out
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// FixedRand is a deterministic random source returning values in order, cycling.
type FixedRand struct {
	Values []float64
	i      int
}

// Float64 returns the next configured value.
func (r *FixedRand) Float64() float64 {
	if len(r.Values) == 0 {
		return 0.5
	}
	v := r.Values[r.i%len(r.Values)]
	r.i++
	return v
}

// IntN returns the next value scaled to [0, n).
func (r *FixedRand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(r.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
