package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
)

// ManualEntry is a user-typed transaction before validation.
type ManualEntry struct {
	Date        string
	Type        model.TransactionType
	Category    string
	Description string
	Amount      float64
}

// NewManualTransaction validates an entry and assigns a fresh id. Income
// type forces the Income category and vice versa.
func (n *Normalizer) NewManualTransaction(entry ManualEntry, existing []model.Transaction) (model.Transaction, error) {
	if entry.Amount <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: must be greater than zero", common.ErrInvalidAmount)
	}

	var date time.Time
	if strings.TrimSpace(entry.Date) == "" {
		date = model.TruncateDay(time.Now())
	} else {
		d, err := ParseDate(entry.Date)
		if err != nil {
			return model.Transaction{}, err
		}
		date = d
	}

	txnType := entry.Type
	if txnType == "" {
		txnType = model.TypeExpense
	}
	if !txnType.Valid() {
		return model.Transaction{}, fmt.Errorf("invalid transaction type %q", entry.Type)
	}

	var category model.Category
	switch {
	case txnType == model.TypeIncome:
		category = model.CategoryIncome
	case strings.TrimSpace(entry.Category) == "":
		category = n.categorizer.Categorize(entry.Description)
	default:
		c, ok := model.ParseCategory(entry.Category)
		if !ok {
			return model.Transaction{}, fmt.Errorf("%w: %q", common.ErrInvalidCategory, entry.Category)
		}
		category = c
	}
	if category == model.CategoryIncome {
		txnType = model.TypeIncome
	}

	description := strings.TrimSpace(entry.Description)
	if description == "" {
		description = category.Label()
	}

	txn := model.Transaction{
		ID:          newIDSet(existing, n.newID).next(),
		Date:        date,
		Amount:      entry.Amount,
		Type:        txnType,
		Category:    category,
		Description: description,
	}
	return txn, txn.Validate()
}
