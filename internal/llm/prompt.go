package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/finance-mentor/internal/analysis"
	"github.com/Veraticus/finance-mentor/internal/model"
)

const recentTransactionCount = 5

// SystemPrompt sets up the mentor persona.
const SystemPrompt = `You are 'Finny', an empathetic, knowledgeable, and practical financial mentor.
Your goal is to help users improve their financial health through actionable advice.

Guidelines:
1. **Tone**: Friendly, encouraging, but professional. Avoid being judgmental.
2. **Format**: Use bullet points for lists. Use bold text for emphasis. Keep paragraphs short.
3. **Content**:
   - Analyze the user's specific data (income, expenses, net worth).
   - Provide specific, actionable steps (e.g., "Try to reduce dining out by 10%").
   - Explain financial concepts simply (e.g., "The 50/30/20 rule...").
   - If data is missing, ask clarifying questions.
4. **Safety**: Do not provide specific investment advice (e.g., "Buy stock X"). Instead, explain general principles (e.g., "Diversification reduces risk").

Context:
The user has provided their recent transactions and a financial summary. Use this to personalize your responses.`

const healthSystemPrompt = "You are a financial analyst JSON generator."

// contextMessage describes the user's finances for the system turn.
func contextMessage(summary model.FinancialSummary, txns []model.Transaction) string {
	recent, err := json.Marshal(mostRecent(txns, recentTransactionCount))
	if err != nil {
		recent = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("Current User Context:\n")
	fmt.Fprintf(&b, "- Net Worth: $%.2f\n", summary.NetWorth)
	fmt.Fprintf(&b, "- Income: $%.2f\n", summary.TotalIncome)
	fmt.Fprintf(&b, "- Expenses: $%.2f\n", summary.TotalExpenses)
	fmt.Fprintf(&b, "- Savings Rate: %.1f%%\n", summary.SavingsRate*100)
	fmt.Fprintf(&b, "- Recent Transactions (Last %d): %s", recentTransactionCount, recent)
	return b.String()
}

// chatMessages assembles system context, prior turns and the new query.
func chatMessages(history []Message, query string, summary model.FinancialSummary, txns []model.Transaction) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role:    RoleSystem,
		Content: SystemPrompt + "\n\nSystem Context: " + contextMessage(summary, txns),
	})
	for _, m := range history {
		if m.Role == RoleSystem {
			continue
		}
		messages = append(messages, m)
	}
	return append(messages, Message{Role: RoleUser, Content: query})
}

// healthPrompt requests a structured health score.
func healthPrompt(summary model.FinancialSummary, txns []model.Transaction) string {
	var cats []string
	for _, ct := range analysis.TopCategories(analysis.ExpenseTotals(txns), 5) {
		cats = append(cats, fmt.Sprintf("%s ($%.2f)", ct.Category.Label(), ct.Amount))
	}
	if len(cats) == 0 {
		cats = append(cats, "none")
	}

	return fmt.Sprintf(`Analyze this financial data and return a JSON object.

Data:
- Income: $%.2f
- Expenses: $%.2f
- Net Worth: $%.2f
- Savings Rate: %.1f%%
- Top Expense Categories: %s

Required JSON Structure:
{
  "score": number (0-100 integer),
  "status": string ("Critical", "Fair", "Good", "Excellent"),
  "insights": string[] (array of exactly 3 short, actionable insights)
}

IMPORTANT: Return ONLY the raw JSON string. Do not use markdown code blocks.`,
		summary.TotalIncome, summary.TotalExpenses, summary.NetWorth, summary.SavingsRate*100, strings.Join(cats, ", "))
}

// mostRecent returns up to n transactions, newest first, without reordering txns.
func mostRecent(txns []model.Transaction, n int) []model.Transaction {
	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
