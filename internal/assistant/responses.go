package assistant

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finance-mentor/internal/analysis"
	"github.com/Veraticus/finance-mentor/internal/model"
)

// Welcome opens every chat session.
const Welcome = "Hi! I'm Finny, your personal finance mentor. 👋\n\n" +
	"I can help you with:\n" +
	"• Analyzing your spending patterns\n" +
	"• Budget recommendations\n" +
	"• Saving tips and strategies\n" +
	"• Financial goal planning\n\n" +
	"What would you like to know about your finances?"

// OfflineNote marks an answer produced without the remote model.
const OfflineNote = "💡 Offline answer: the remote mentor was unavailable."

var greetings = []string{
	"Hey there! 👋 Ready to talk about your finances?",
	"Hello! 😊 How can I help you manage your money today?",
	"Hi! Great to see you! What financial questions do you have?",
	"Hey! 💰 Let's make your money work smarter together!",
}

var thanks = []string{
	"You're very welcome! 😊 Happy to help anytime!",
	"My pleasure! That's what I'm here for! 💪",
	"Glad I could help! Feel free to ask anything else! ✨",
	"Anytime! Your financial success is my mission! 🎯",
}

var spendingIntros = []string{
	"Let me break down your spending for you! 📊",
	"Here's what I found about your expenses! 💸",
	"Alright, let's dive into where your money's going! 🔍",
	"I've analyzed your spending patterns - here's the scoop! 📈",
}

var medals = []string{"🥇", "🥈", "🥉"}

// Tips is the default advice list.
var Tips = []string{
	"Set up automatic transfers to savings on payday",
	"Track every expense for 30 days to identify spending patterns",
	"Use the 24-hour rule for non-essential purchases over $50",
	"Build an emergency fund covering 3-6 months of expenses",
	"Review and cancel unused subscriptions",
	"Meal prep to reduce food expenses",
	"Use cashback credit cards for regular purchases (pay in full)",
	"Negotiate bills like insurance and internet annually",
	"Invest in index funds for long-term growth",
	"Set specific, measurable financial goals",
}

const tipCount = 3

func greetingResponse(e *Engine, _ model.FinancialSummary, _ []model.Transaction) string {
	return e.pick(greetings)
}

func thanksResponse(e *Engine, _ model.FinancialSummary, _ []model.Transaction) string {
	return e.pick(thanks)
}

func spendingResponse(e *Engine, summary model.FinancialSummary, txns []model.Transaction) string {
	var b strings.Builder
	b.WriteString(e.pick(spendingIntros))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "You've spent **$%.2f** this month. ", summary.TotalExpenses)
	if summary.TotalExpenses > summary.TotalIncome*0.8 {
		b.WriteString("That's quite a bit - let's see where it's going! 🤔\n\n")
	} else {
		b.WriteString("Not bad! Let's see the breakdown. 👍\n\n")
	}

	b.WriteString("**Your Top 3 Spending Categories:**\n\n")
	for i, ct := range analysis.TopCategories(analysis.ExpenseTotals(txns), len(medals)) {
		fmt.Fprintf(&b, "%s **%s**: $%.2f (%.1f%%)\n", medals[i], ct.Category.Label(), ct.Amount, percentOf(ct.Amount, summary.TotalExpenses))
	}

	if insight, ok := analysis.ConcentrationInsight(txns); ok {
		fmt.Fprintf(&b, "\n💡 **My Take:** %s", insight)
	}
	b.WriteString("\n\n*Want to dig deeper? Just ask me about any specific category!* 😊")
	return b.String()
}

func savingsResponse(_ *Engine, summary model.FinancialSummary, _ []model.Transaction) string {
	var b strings.Builder
	rate := summary.SavingsRate * 100
	monthly := summary.TotalIncome - summary.TotalExpenses
	gap := analysis.TargetSplit(summary.TotalIncome).Savings - monthly

	switch {
	case summary.SavingsRate >= analysis.TargetSavingsRate:
		fmt.Fprintf(&b, "Wow! 🌟 You're crushing it with a **%.1f%%** savings rate!\n\n", rate)
		fmt.Fprintf(&b, "That's **$%.2f** going into your savings each month. You're way ahead of the game! 💪\n\n", monthly)
		b.WriteString("Most financial experts recommend 20%, and you're already there (or beyond!). Here's what you could do:\n\n")
		b.WriteString("• 🎯 Set up automatic investments\n")
		b.WriteString("• 🏠 Start a down payment fund\n")
		b.WriteString("• 🚀 Max out your retirement accounts\n")
		b.WriteString("• 💎 Build wealth through index funds\n\n")
		b.WriteString("Keep up this amazing momentum! 🎉")
	case summary.SavingsRate >= analysis.LowSavingsRate:
		fmt.Fprintf(&b, "Nice work! 👏 You're saving **%.1f%%** of your income.\n\n", rate)
		fmt.Fprintf(&b, "That's **$%.2f** per month - not bad at all! But we can do even better. 💪\n\n", monthly)
		fmt.Fprintf(&b, "To hit the sweet spot of 20%%, you'd need to save an extra **$%.2f** monthly.\n\n", gap)
		b.WriteString("**Quick wins to get there:**\n")
		b.WriteString("• ☕ Cut one subscription you barely use\n")
		b.WriteString("• 🍔 Cook at home 2 more times per week\n")
		b.WriteString("• 💡 Negotiate your bills (internet, insurance)\n")
		b.WriteString("• 🎁 Sell stuff you don't need\n\n")
		b.WriteString("Small changes = big results! You've got this! 🚀")
	default:
		b.WriteString("Hey, let's talk savings! 💰\n\n")
		fmt.Fprintf(&b, "Right now you're saving **%.1f%%** (about **$%.2f**/month).\n\n", rate, monthly)
		b.WriteString("I know it's tough, but let's work on getting that number up! The goal is 20% - here's why it matters:\n\n")
		b.WriteString("• 🛡️ Emergency fund for peace of mind\n")
		b.WriteString("• 🏖️ Freedom to take opportunities\n")
		b.WriteString("• 🎯 Retire comfortably someday\n")
		b.WriteString("• 💪 Financial independence\n\n")
		fmt.Fprintf(&b, "To get to 20%%, we need to find **$%.2f** more per month.\n\n", gap)
		b.WriteString("**Let's start small:**\n")
		b.WriteString("1. Track every expense for a week\n")
		b.WriteString("2. Find your biggest \"money leak\"\n")
		b.WriteString("3. Cut it by 50% (not 100% - be realistic!)\n")
		b.WriteString("4. Automate that savings\n\n")
		b.WriteString("You can do this! I believe in you! 💪✨")
	}
	return b.String()
}

func budgetResponse(_ *Engine, summary model.FinancialSummary, txns []model.Transaction) string {
	var b strings.Builder
	b.WriteString("🎯 **Budget Recommendations**\n\n")
	b.WriteString("Based on the 50/30/20 rule:\n")
	b.WriteString("• 50% for needs (housing, food, utilities)\n")
	b.WriteString("• 30% for wants (entertainment, shopping)\n")
	b.WriteString("• 20% for savings and debt\n\n")

	recs := analysis.BudgetRecommendations(summary, txns)
	if len(recs) == 0 {
		b.WriteString("✅ Your budget looks well-balanced! Keep up the good work.")
		return b.String()
	}
	b.WriteString("**Your Budget Analysis:**\n")
	writeNumbered(&b, recs)
	return b.String()
}

func healthResponse(_ *Engine, summary model.FinancialSummary, txns []model.Transaction) string {
	score := analysis.Score(summary, txns)

	var b strings.Builder
	b.WriteString("🏥 **Financial Health Check**\n\n")
	fmt.Fprintf(&b, "Health Score: **%d/100**\n\n", score.Score)

	switch score.Status {
	case model.StatusExcellent:
		b.WriteString("✅ **Excellent!** Your finances are in great shape.\n\n")
	case model.StatusGood:
		b.WriteString("👍 **Good!** You're doing well, with room for improvement.\n\n")
	case model.StatusFair:
		b.WriteString("⚠️ **Fair.** Some areas need attention.\n\n")
	case model.StatusCritical:
		b.WriteString("🚨 **Needs Improvement.** Let's work on your finances.\n\n")
	}

	if issues := analysis.Issues(summary, txns); len(issues) > 0 {
		b.WriteString("**Areas to Address:**\n")
		writeNumbered(&b, issues)
	}
	return b.String()
}

func analysisResponse(_ *Engine, summary model.FinancialSummary, txns []model.Transaction) string {
	var b strings.Builder
	b.WriteString("📈 **Complete Financial Analysis**\n\n")
	b.WriteString("**Overview:**\n")
	fmt.Fprintf(&b, "• Income: $%.2f\n", summary.TotalIncome)
	fmt.Fprintf(&b, "• Expenses: $%.2f\n", summary.TotalExpenses)
	fmt.Fprintf(&b, "• Net: $%.2f\n", summary.TotalIncome-summary.TotalExpenses)
	fmt.Fprintf(&b, "• Savings Rate: %.1f%%\n\n", summary.SavingsRate*100)

	b.WriteString("**Key Insights:**\n")
	writeNumbered(&b, analysis.Insights(summary, txns))
	return b.String()
}

func comparisonResponse(_ *Engine, summary model.FinancialSummary, txns []model.Transaction) string {
	if summary.TotalIncome <= 0 {
		return "⚖️ I need some income to compare against. Add your paychecks and I'll show how you stack up against the 50/30/20 rule!"
	}

	target := analysis.TargetSplit(summary.TotalIncome)
	actual := analysis.ActualSplit(summary, txns)

	var b strings.Builder
	b.WriteString("⚖️ **You vs. the 50/30/20 Rule**\n\n")
	writeComparison(&b, "Needs", actual.Needs, target.Needs, summary.TotalIncome, false)
	writeComparison(&b, "Wants", actual.Wants, target.Wants, summary.TotalIncome, false)
	writeComparison(&b, "Savings", actual.Savings, target.Savings, summary.TotalIncome, true)

	b.WriteString("\n")
	switch {
	case actual.Needs <= target.Needs && actual.Wants <= target.Wants && actual.Savings >= target.Savings:
		b.WriteString("🎉 You're beating the rule across the board!")
	case actual.Savings >= target.Savings:
		b.WriteString("👍 Your savings are on target. Trim the category that's over to free up even more.")
	default:
		b.WriteString("💪 Closing the savings gap is the biggest win available. Start with the bucket that's furthest over.")
	}
	return b.String()
}

func writeComparison(b *strings.Builder, label string, actual, target, income float64, higherIsBetter bool) {
	mark := "✅"
	if (higherIsBetter && actual < target) || (!higherIsBetter && actual > target) {
		mark = "⚠️"
	}
	fmt.Fprintf(b, "%s **%s**: $%.2f (%.0f%%) vs target $%.2f\n", mark, label, actual, percentOf(actual, income), target)
}

func tipsResponse(e *Engine, _ model.FinancialSummary, _ []model.Transaction) string {
	tips := e.shuffled(e.tips)
	if len(tips) > tipCount {
		tips = tips[:tipCount]
	}

	var b strings.Builder
	b.WriteString("💡 **Financial Tips & Advice**\n\n")
	b.WriteString("Here are some personalized recommendations:\n\n")
	writeNumbered(&b, tips)
	b.WriteString("\n✨ **Remember:** Small consistent changes lead to big results over time!")
	return b.String()
}

func writeNumbered(b *strings.Builder, lines []string) {
	for i, line := range lines {
		fmt.Fprintf(b, "%d. %s\n", i+1, line)
	}
}

func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
