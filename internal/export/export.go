// Package export writes transaction sets as JSON or CSV and reads JSON
// exports back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
)

// RangeKind selects which transactions an export covers.
type RangeKind string

// Supported ranges.
const (
	RangeAll    RangeKind = "all"
	RangeMonth  RangeKind = "month"
	RangeYear   RangeKind = "year"
	RangeCustom RangeKind = "custom"
)

// Range is a date window. Start and End are only used for RangeCustom and
// are both inclusive.
type Range struct {
	Start time.Time
	End   time.Time
	Kind  RangeKind
}

// ParseRange builds a Range from user input. Custom ranges require both
// dates in YYYY-MM-DD form.
func ParseRange(kind, start, end string) (Range, error) {
	r := Range{Kind: RangeKind(strings.ToLower(strings.TrimSpace(kind)))}
	switch r.Kind {
	case "":
		r.Kind = RangeAll
	case RangeAll, RangeMonth, RangeYear:
	case RangeCustom:
		var err error
		if r.Start, err = time.Parse(model.DateLayout, start); err != nil {
			return Range{}, fmt.Errorf("%w: start %q", common.ErrInvalidDate, start)
		}
		if r.End, err = time.Parse(model.DateLayout, end); err != nil {
			return Range{}, fmt.Errorf("%w: end %q", common.ErrInvalidDate, end)
		}
		if r.End.Before(r.Start) {
			return Range{}, fmt.Errorf("%w: end before start", common.ErrInvalidDate)
		}
	default:
		return Range{}, fmt.Errorf("%w: unknown range %q", common.ErrInvalidConfig, kind)
	}
	return r, nil
}

// Select returns the transactions inside the range, preserving order.
// Month and year ranges start at the first day of the current month or year.
func (r Range) Select(txns []model.Transaction, now time.Time) []model.Transaction {
	today := model.TruncateDay(now)
	var from, to time.Time
	switch r.Kind {
	case RangeMonth:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	case RangeYear:
		from = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case RangeCustom:
		from, to = r.Start, r.End
	case RangeAll:
		return txns
	default:
		return txns
	}

	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Date.Before(from) {
			continue
		}
		if !to.IsZero() && t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CSVHeader is the first row of a CSV export.
var CSVHeader = []string{"Date", "Type", "Category", "Description", "Amount"}

// WriteCSV writes txns with a header row. Amounts use two decimals.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range txns {
		record := []string{
			t.Date.Format(model.DateLayout),
			string(t.Type),
			t.Category.Label(),
			t.Description,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes txns as an indented JSON array.
func WriteJSON(w io.Writer, txns []model.Transaction) error {
	if txns == nil {
		txns = []model.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}
	return nil
}

// ParseJSON reads an array written by WriteJSON. Every element must be a
// valid transaction.
func ParseJSON(r io.Reader) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := json.NewDecoder(r).Decode(&txns); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedInput, err)
	}
	for i, t := range txns {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", common.ErrMalformedInput, i, err)
		}
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	return txns, nil
}
