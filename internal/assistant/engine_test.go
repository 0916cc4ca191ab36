package assistant

import (
	"strings"
	"testing"

	"github.com/Veraticus/finance-mentor/internal/analysis"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  Intent
	}{
		{query: "hey, give me some saving tips", want: IntentGreeting},
		{query: "Hello there", want: IntentGreeting},
		{query: "  hi", want: IntentGreeting},
		{query: "Good morning! How am I doing?", want: IntentGreeting},
		{query: "THANK YOU", want: IntentThanks},
		{query: "I appreciate the spending breakdown", want: IntentThanks},
		{query: "What did I spend on food?", want: IntentSpending},
		{query: "How can I save more?", want: IntentSavings},
		{query: "help me plan a budget", want: IntentBudget},
		{query: "what's my health score", want: IntentHealth},
		{query: "set a goal", want: IntentGoals},
		{query: "any tips?", want: IntentAdvice},
		{query: "review my month", want: IntentAnalysis},
		{query: "how do I compare", want: IntentComparison},
		{query: "so, hi", want: IntentGeneral},
		{query: "", want: IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestClassify_OrderIndependent(t *testing.T) {
	queries := []string{"any tips?", "hey, give me some saving tips", "review my month", "THANK YOU"}
	first := make([]Intent, len(queries))
	for i, q := range queries {
		first[i] = Classify(q)
	}
	for i := len(queries) - 1; i >= 0; i-- {
		assert.Equal(t, first[i], Classify(queries[i]))
	}
}

func balancedSet() ([]model.Transaction, model.FinancialSummary) {
	txns := testutil.NewTransactions(testutil.Day(2024, 3, 1)).
		Income(4000, "Salary").
		Expense(model.CategoryHousing, 1500, "Rent").
		Expense(model.CategoryFood, 300, "Groceries").
		Expense(model.CategoryEntertainment, 200, "Movies").
		Build()
	return txns, analysis.Summarize(txns, analysis.DefaultStartingBalance)
}

func fixedEngine() *Engine {
	return NewEngine(WithRand(&testutil.FixedRand{Values: []float64{0}}))
}

func TestRespond_Greeting(t *testing.T) {
	txns, summary := balancedSet()

	got := fixedEngine().Respond("hey, give me some saving tips", summary, txns)
	assert.Equal(t, greetings[0], got)

	e := NewEngine(WithRand(&testutil.FixedRand{Values: []float64{0.99}}))
	assert.Equal(t, greetings[len(greetings)-1], e.Respond("hello", summary, txns))
}

func TestRespond_Thanks(t *testing.T) {
	got := fixedEngine().Respond("thanks!", model.FinancialSummary{}, nil)
	assert.Contains(t, thanks, got)
}

func TestRespond_Spending(t *testing.T) {
	txns, summary := balancedSet()

	got := fixedEngine().Respond("where did my money go? what did I spend", summary, txns)
	assert.True(t, strings.HasPrefix(got, spendingIntros[0]))
	assert.Contains(t, got, "You've spent **$2000.00** this month. Not bad!")
	assert.Contains(t, got, "🥇 **Housing**: $1500.00 (75.0%)")
	assert.Contains(t, got, "🥈 **Food & Dining**: $300.00 (15.0%)")
	assert.Contains(t, got, "🥉 **Entertainment**: $200.00 (10.0%)")
	assert.Contains(t, got, "💡 **My Take:** Your Housing spending is 75% of total expenses.")
}

func TestRespond_SpendingHeavy(t *testing.T) {
	txns := testutil.NewTransactions(testutil.Day(2024, 3, 1)).
		Income(1000, "Salary").
		Expense(model.CategoryShopping, 300, "Store").
		Expense(model.CategoryFood, 300, "Food").
		Expense(model.CategoryEntertainment, 300, "Concert").
		Build()
	summary := analysis.Summarize(txns, 0)

	got := fixedEngine().Respond("expenses?", summary, txns)
	assert.Contains(t, got, "That's quite a bit")
	assert.NotContains(t, got, "My Take")
}

func TestRespond_SavingsTiers(t *testing.T) {
	tests := []struct {
		name    string
		summary model.FinancialSummary
		want    []string
	}{
		{
			name:    "on target",
			summary: model.FinancialSummary{TotalIncome: 4000, TotalExpenses: 2000, SavingsRate: 0.5},
			want:    []string{"Wow! 🌟 You're crushing it with a **50.0%** savings rate!", "**$2000.00** going into your savings"},
		},
		{
			name:    "getting there",
			summary: model.FinancialSummary{TotalIncome: 1000, TotalExpenses: 850, SavingsRate: 0.15},
			want:    []string{"Nice work! 👏 You're saving **15.0%**", "save an extra **$50.00** monthly"},
		},
		{
			name:    "low",
			summary: model.FinancialSummary{TotalIncome: 1000, TotalExpenses: 950, SavingsRate: 0.05},
			want:    []string{"Hey, let's talk savings! 💰", "saving **5.0%** (about **$50.00**/month)", "find **$150.00** more per month"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fixedEngine().Respond("how do I save", tt.summary, nil)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestRespond_Budget(t *testing.T) {
	txns, summary := balancedSet()
	got := fixedEngine().Respond("budget please", summary, txns)
	assert.Contains(t, got, "🎯 **Budget Recommendations**")
	assert.Contains(t, got, "✅ Your budget looks well-balanced!")

	txns = testutil.NewTransactions(testutil.Day(2024, 3, 1)).
		Income(1000, "Salary").
		Expense(model.CategoryHousing, 900, "Rent").
		Build()
	summary = analysis.Summarize(txns, 0)
	got = fixedEngine().Respond("budget please", summary, txns)
	assert.Contains(t, got, "**Your Budget Analysis:**")
	assert.Contains(t, got, "1. Your essential expenses are 90% of income.")
	assert.Contains(t, got, "2. To reach 20% savings rate, try to save an additional $100.00 per month.")
}

func TestRespond_HealthMatchesScorer(t *testing.T) {
	txns, summary := balancedSet()
	got := fixedEngine().Respond("what's my health score", summary, txns)

	score := analysis.Score(summary, txns)
	assert.Equal(t, 80, score.Score)
	assert.Contains(t, got, "Health Score: **80/100**")
	assert.Contains(t, got, "✅ **Excellent!**")
	assert.Contains(t, got, "1. High concentration in one category")
}

func TestRespond_Analysis(t *testing.T) {
	txns, summary := balancedSet()
	got := fixedEngine().Respond("review everything", summary, txns)

	assert.Contains(t, got, "• Income: $4000.00")
	assert.Contains(t, got, "• Expenses: $2000.00")
	assert.Contains(t, got, "• Net: $2000.00")
	assert.Contains(t, got, "• Savings Rate: 50.0%")
	for i, insight := range analysis.Insights(summary, txns) {
		assert.Contains(t, got, insight, "insight %d", i)
	}
}

func TestRespond_Comparison(t *testing.T) {
	txns, summary := balancedSet()
	got := fixedEngine().Respond("how do I compare", summary, txns)
	assert.Contains(t, got, "✅ **Needs**: $1800.00 (45%) vs target $2000.00")
	assert.Contains(t, got, "✅ **Savings**: $2000.00 (50%) vs target $800.00")
	assert.Contains(t, got, "beating the rule")

	got = fixedEngine().Respond("compare", model.FinancialSummary{}, nil)
	assert.Contains(t, got, "I need some income")
}

func TestRespond_Tips(t *testing.T) {
	for _, q := range []string{"any tips?", "set a goal", "tell me something"} {
		t.Run(q, func(t *testing.T) {
			got := fixedEngine().Respond(q, model.FinancialSummary{}, nil)
			require.True(t, strings.HasPrefix(got, "💡 **Financial Tips & Advice**"))

			var picked []string
			for _, tip := range Tips {
				if strings.Contains(got, tip) {
					picked = append(picked, tip)
				}
			}
			assert.Len(t, picked, 3)
		})
	}
}

func TestRespond_TipsReproducible(t *testing.T) {
	a := NewEngine(WithRand(&testutil.FixedRand{Values: []float64{0.3, 0.7, 0.1}})).Respond("tips", model.FinancialSummary{}, nil)
	b := NewEngine(WithRand(&testutil.FixedRand{Values: []float64{0.3, 0.7, 0.1}})).Respond("tips", model.FinancialSummary{}, nil)
	assert.Equal(t, a, b)
}

func TestRespond_DoesNotMutateTips(t *testing.T) {
	tips := []string{"a", "b", "c", "d"}
	e := NewEngine(WithTips(tips), WithRand(&testutil.FixedRand{Values: []float64{0}}))
	e.Respond("tips", model.FinancialSummary{}, nil)
	assert.Equal(t, []string{"a", "b", "c", "d"}, tips)
}

func TestAnswer_ReportsIntent(t *testing.T) {
	intent, text := fixedEngine().Answer("thanks", model.FinancialSummary{}, nil)
	assert.Equal(t, IntentThanks, intent)
	assert.Equal(t, thanks[0], text)
}
