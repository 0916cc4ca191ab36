package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = testutil.Day(2024, 6, 15)

func fixture() []model.Transaction {
	return testutil.NewTransactions(testutil.Day(2024, 6, 10)).
		Income(3200, "Bi-weekly Salary").
		On(testutil.Day(2024, 3, 2)).
		Expense(model.CategoryFood, 45.5, `Grocery "Mart", downtown`).
		On(testutil.Day(2023, 12, 31)).
		Expense(model.CategoryHousing, 1500, "Rent").
		Build()
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fixture()))
	assert.Contains(t, buf.String(), `"date": "2024-06-10"`)
	assert.Contains(t, buf.String(), `"category": "Housing"`)

	got, err := ParseJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, fixture(), got)
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestParseJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "nope"},
		{name: "object", raw: `{"id":"a"}`},
		{name: "bad category", raw: `[{"id":"a","date":"2024-01-01","amount":1,"type":"expense","category":"Rent","description":""}]`},
		{name: "zero amount", raw: `[{"id":"a","date":"2024-01-01","amount":0,"type":"expense","category":"Housing","description":""}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON(strings.NewReader(tt.raw))
			assert.ErrorIs(t, err, common.ErrMalformedInput)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixture()))

	want := "Date,Type,Category,Description,Amount\n" +
		"2024-06-10,income,Income,Bi-weekly Salary,3200.00\n" +
		"2024-03-02,expense,Food & Dining,\"Grocery \"\"Mart\"\", downtown\",45.50\n" +
		"2023-12-31,expense,Housing,Rent,1500.00\n"
	assert.Equal(t, want, buf.String())
}

func TestRange(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		start, end string
		wantIDs    []string
		wantErr    bool
	}{
		{name: "default all", kind: "", wantIDs: []string{"txn-001", "txn-002", "txn-003"}},
		{name: "month", kind: "month", wantIDs: []string{"txn-001"}},
		{name: "year", kind: "YEAR", wantIDs: []string{"txn-001", "txn-002"}},
		{name: "custom inclusive", kind: "custom", start: "2023-12-31", end: "2024-03-02", wantIDs: []string{"txn-002", "txn-003"}},
		{name: "custom missing end", kind: "custom", start: "2024-01-01", wantErr: true},
		{name: "custom reversed", kind: "custom", start: "2024-03-01", end: "2024-01-01", wantErr: true},
		{name: "unknown", kind: "week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.kind, tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var ids []string
			for _, txn := range r.Select(fixture(), now) {
				ids = append(ids, txn.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
