// Package importer turns raw delimited text and manual entries into
// validated transactions.
package importer

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/finance-mentor/internal/classification"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDescription is used when the input has no description column.
const DefaultDescription = "Imported Transaction"

// Skip reasons reported per rejected row.
const (
	ReasonTooFewCells = "too few cells"
	ReasonBadAmount   = "unparsable amount"
	ReasonZeroAmount  = "zero amount"
	ReasonBadDate     = "unparsable date"
)

// SkippedRow records a data row the normalizer rejected.
type SkippedRow struct {
	Reason string
	Line   int
}

// Result is the accepted batch plus the rows that were dropped.
type Result struct {
	Transactions []model.Transaction
	Skipped      []SkippedRow
}

// Normalizer parses delimited text. The zero value is not usable; call NewNormalizer.
type Normalizer struct {
	categorizer *classification.Categorizer
	newID       func() string
	logger      *slog.Logger
	delimiter   rune
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDelimiter sets the field delimiter. The default is a comma.
func WithDelimiter(d rune) Option {
	return func(n *Normalizer) {
		n.delimiter = d
	}
}

// WithIDGenerator replaces the id source.
func WithIDGenerator(fn func() string) Option {
	return func(n *Normalizer) {
		n.newID = fn
	}
}

// WithCategorizer replaces the default keyword table.
func WithCategorizer(c *classification.Categorizer) Option {
	return func(n *Normalizer) {
		n.categorizer = c
	}
}

// WithLogger sets the logger used for per-row diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = l
	}
}

// NewNormalizer creates a normalizer with the given options.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		delimiter:   ',',
		newID:       uuid.NewString,
		categorizer: classification.NewCategorizer(classification.DefaultRules()),
		logger:      common.Component("normalizer"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type columns struct {
	date        int
	amount      int
	description int
	txnType     int
	category    int
}

// Normalize parses raw text into a fresh batch. The batch is never merged
// with existing; existing is only consulted so new ids do not collide.
func (n *Normalizer) Normalize(raw string, existing []model.Transaction) (Result, error) {
	lines := splitLines(raw)
	if len(lines) < 2 {
		return Result{}, common.ErrMalformedInput
	}

	header := n.splitRow(lines[0].text)
	cols := detectColumns(header)
	if cols.date < 0 || cols.amount < 0 {
		return Result{}, fmt.Errorf("%w: header %q", common.ErrMissingRequiredColumns, lines[0].text)
	}

	ids := newIDSet(existing, n.newID)
	minCells := max(cols.date, cols.amount) + 1

	var result Result
	for _, line := range lines[1:] {
		cells := n.splitRow(line.text)
		if len(cells) < minCells {
			result.skip(n.logger, line.number, ReasonTooFewCells)
			continue
		}

		amount, reason := parseAmount(cells[cols.amount])
		if reason != "" {
			result.skip(n.logger, line.number, reason)
			continue
		}

		date, err := ParseDate(cells[cols.date])
		if err != nil {
			result.skip(n.logger, line.number, ReasonBadDate)
			continue
		}

		description := DefaultDescription
		if cell, ok := cellAt(cells, cols.description); ok {
			description = cell
		}
		typeCell, _ := cellAt(cells, cols.txnType)
		categoryCell, _ := cellAt(cells, cols.category)

		category, txnType := n.categorizer.Resolve(categoryCell, typeCell, description)

		result.Transactions = append(result.Transactions, model.Transaction{
			ID:          ids.next(),
			Date:        date,
			Amount:      amount,
			Type:        txnType,
			Category:    category,
			Description: description,
		})
	}

	if len(result.Transactions) == 0 {
		return result, fmt.Errorf("%w: %d rows skipped", common.ErrNoValidRows, len(result.Skipped))
	}

	n.logger.Debug("normalized input",
		"accepted", len(result.Transactions),
		"skipped", len(result.Skipped))

	return result, nil
}

func (r *Result) skip(logger *slog.Logger, line int, reason string) {
	r.Skipped = append(r.Skipped, SkippedRow{Line: line, Reason: reason})
	logger.Debug("skipping row", "line", line, "reason", reason)
}

type rawLine struct {
	text   string
	number int
}

// splitLines drops blank lines but keeps 1-based source line numbers.
func splitLines(raw string) []rawLine {
	var out []rawLine
	for i, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(strings.TrimSuffix(l, "\r"))
		if l == "" {
			continue
		}
		out = append(out, rawLine{text: l, number: i + 1})
	}
	return out
}

// splitRow splits on the delimiter honoring quoted fields, then strips
// quote characters and whitespace from every cell.
func (n *Normalizer) splitRow(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = n.delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	cells, err := r.Read()
	if err != nil {
		cells = strings.Split(line, string(n.delimiter))
	}
	for i, c := range cells {
		cells[i] = strings.TrimSpace(strings.ReplaceAll(c, `"`, ""))
	}
	return cells
}

// detectColumns resolves column roles by substring; the first matching
// header wins for each role.
func detectColumns(header []string) columns {
	cols := columns{date: -1, amount: -1, description: -1, txnType: -1, category: -1}
	for i, h := range header {
		h = strings.ToLower(h)
		if cols.date < 0 && strings.Contains(h, "date") {
			cols.date = i
		}
		if cols.amount < 0 && strings.Contains(h, "amount") {
			cols.amount = i
		}
		if cols.description < 0 && (strings.Contains(h, "desc") || strings.Contains(h, "narr")) {
			cols.description = i
		}
		if cols.txnType < 0 && (strings.Contains(h, "type") || strings.Contains(h, "cr/dr")) {
			cols.txnType = i
		}
		if cols.category < 0 && strings.Contains(h, "cat") {
			cols.category = i
		}
	}
	return cols
}

func cellAt(cells []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(cells) {
		return "", false
	}
	return cells[idx], true
}

// amountPrefix is the longest leading number, so "1234.56-" reads as 1234.56
// and "1.2.3" as 1.2.
var amountPrefix = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)

// parseAmount keeps digits, dots and minus signs, reads the leading number,
// and returns its absolute value. A non-empty reason means the row must be
// skipped.
func parseAmount(cell string) (float64, string) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, cell)

	number := strings.TrimSuffix(amountPrefix.FindString(cleaned), ".")
	if number == "" || number == "-" {
		return 0, ReasonBadAmount
	}
	d, err := decimal.NewFromString(number)
	if err != nil {
		return 0, ReasonBadAmount
	}
	if d.IsZero() {
		return 0, ReasonZeroAmount
	}
	return d.Abs().InexactFloat64(), ""
}

var dateLayouts = []string{
	model.DateLayout,
	"2006/01/02",
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"01/02/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate accepts the common statement date layouts and returns the
// calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, s)
}

type idSet struct {
	seen  map[string]struct{}
	newID func() string
}

func newIDSet(existing []model.Transaction, gen func() string) *idSet {
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[t.ID] = struct{}{}
	}
	return &idSet{seen: seen, newID: gen}
}

// next returns an id unused by existing transactions and the current batch.
func (s *idSet) next() string {
	for {
		id := s.newID()
		if _, dup := s.seen[id]; dup {
			continue
		}
		s.seen[id] = struct{}{}
		return id
	}
}
