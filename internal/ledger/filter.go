package ledger

import (
	"strings"
	"time"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// Filter narrows a transaction list. Zero values disable a criterion.
type Filter struct {
	Search    string
	Type      model.TransactionType
	Category  model.Category
	Days      int
	MinAmount float64
	MaxAmount float64
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return f != Filter{}
}

// Apply returns the transactions matching every set criterion, preserving
// order. Days keeps transactions dated on or after now minus Days.
func (f Filter) Apply(txns []model.Transaction, now time.Time) []model.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var cutoff time.Time
	if f.Days > 0 {
		cutoff = model.TruncateDay(now).AddDate(0, 0, -f.Days)
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category.Label()), search) {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Category.Valid() && t.Category != f.Category {
			continue
		}
		if !cutoff.IsZero() && t.Date.Before(cutoff) {
			continue
		}
		if f.MinAmount > 0 && t.Amount < f.MinAmount {
			continue
		}
		if f.MaxAmount > 0 && t.Amount > f.MaxAmount {
			continue
		}
		out = append(out, t)
	}
	return out
}
