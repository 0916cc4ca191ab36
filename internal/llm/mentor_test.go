package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	responses []string
	errs      []error
	received  [][]Message
	mu        sync.Mutex
}

func (c *scriptedClient) Chat(_ context.Context, messages []Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := len(c.received)
	c.received = append(c.received, messages)
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return c.responses[len(c.responses)-1], nil
}

func testMentor(client Client) *Mentor {
	return NewMentor(client, Config{RetryDelay: time.Millisecond, RateLimit: 6000}, nil)
}

func sampleFinances() (model.FinancialSummary, []model.Transaction) {
	txns := testutil.NewTransactions(testutil.Day(2024, 5, 1)).Daily().
		Income(3200, "Salary").
		Expense(model.CategoryHousing, 1500, "Rent").
		Expense(model.CategoryFood, 80, "Groceries").
		Expense(model.CategoryTransport, 40, "Uber").
		Expense(model.CategoryEntertainment, 15.99, "Netflix").
		Expense(model.CategoryShopping, 60, "Amazon").
		Build()
	return model.FinancialSummary{TotalIncome: 3200, TotalExpenses: 1695.99, NetWorth: 16504.01, SavingsRate: 0.47}, txns
}

func TestMentor_Reply(t *testing.T) {
	client := &scriptedClient{responses: []string{"  Nice progress!  "}}
	summary, txns := sampleFinances()

	history := []Message{
		{Role: RoleSystem, Content: "ignored"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}
	text, err := testMentor(client).Reply(context.Background(), history, "how am I doing?", summary, txns)
	require.NoError(t, err)
	assert.Equal(t, "Nice progress!", text)

	require.Len(t, client.received, 1)
	sent := client.received[0]
	require.Len(t, sent, 4)
	assert.Equal(t, RoleSystem, sent[0].Role)
	assert.Contains(t, sent[0].Content, "Finny")
	assert.Contains(t, sent[0].Content, "Net Worth: $16504.01")
	assert.Contains(t, sent[0].Content, "Savings Rate: 47.0%")
	assert.Contains(t, sent[0].Content, `"description":"Amazon"`)
	assert.NotContains(t, sent[0].Content, `"description":"Salary"`, "only the five most recent are sent")
	assert.Equal(t, Message{Role: RoleUser, Content: "how am I doing?"}, sent[3])
}

func TestMentor_RetriesTransientErrors(t *testing.T) {
	client := &scriptedClient{
		errs:      []error{errors.New("connection reset"), nil},
		responses: []string{"", "Recovered"},
	}
	summary, txns := sampleFinances()

	text, err := testMentor(client).Reply(context.Background(), nil, "hi", summary, txns)
	require.NoError(t, err)
	assert.Equal(t, "Recovered", text)
	assert.Len(t, client.received, 2)
}

func TestMentor_PermanentErrorIsRemoteUnavailable(t *testing.T) {
	client := &scriptedClient{errs: []error{common.Permanent(errors.New("401"))}, responses: []string{""}}
	summary, txns := sampleFinances()

	_, err := testMentor(client).Reply(context.Background(), nil, "hi", summary, txns)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
	assert.Len(t, client.received, 1)
}

func TestMentor_BlankReply(t *testing.T) {
	client := &scriptedClient{responses: []string{"   "}}
	summary, txns := sampleFinances()
	_, err := testMentor(client).Reply(context.Background(), nil, "hi", summary, txns)
	assert.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestMentor_HealthScoreCaches(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"score":85,"status":"Excellent","insights":["a","b","c"]}`}}
	summary, txns := sampleFinances()
	m := testMentor(client)

	first, err := m.HealthScore(context.Background(), summary, txns)
	require.NoError(t, err)
	second, err := m.HealthScore(context.Background(), summary, txns)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 85, first.Score)
	assert.Len(t, client.received, 1)

	prompt := client.received[0][1].Content
	assert.True(t, strings.Contains(prompt, "Housing ($1500.00)"), prompt)
	assert.Equal(t, healthSystemPrompt, client.received[0][0].Content)
}

func TestMentor_HealthScoreMalformed(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"score":"high"}`}}
	summary, txns := sampleFinances()

	_, err := testMentor(client).HealthScore(context.Background(), summary, txns)
	assert.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestMentor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &scriptedClient{responses: []string{"never"}}
	summary, txns := sampleFinances()

	m := NewMentor(client, Config{RateLimit: 1}, nil)
	_, err := m.Reply(ctx, nil, "hi", summary, txns)
	assert.Error(t, err)
	assert.Empty(t, client.received)
}
