package analysis

import (
	"fmt"
	"math"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// Scoring thresholds.
const (
	ConcentrationThreshold = 0.40
	LowSavingsRate         = 0.10
	TargetSavingsRate      = 0.20
	anomalySigma           = 2.0
	maxInsights            = 3
)

// DefaultInsights are returned when no generator has anything to say.
var DefaultInsights = []string{
	"Your finances look balanced. Keep up the good work!",
	"Consider setting up automatic savings transfers.",
	"Review your budget monthly to stay on track.",
}

// ConcentrationInsight fires when one category exceeds 40% of expenses.
func ConcentrationInsight(txns []model.Transaction) (string, bool) {
	top, share, ok := dominantShare(txns)
	if !ok || share <= ConcentrationThreshold {
		return "", false
	}
	return fmt.Sprintf("Your %s spending is %.0f%% of total expenses. Consider setting a budget limit for this category.",
		top.Category.Label(), share*100), true
}

// SavingsInsight always fires, phrased by savings tier.
func SavingsInsight(summary model.FinancialSummary) string {
	pct := summary.SavingsRate * 100
	switch {
	case summary.SavingsRate < LowSavingsRate:
		return fmt.Sprintf("Your savings rate is %.1f%%. Financial experts recommend saving at least 20%% of your income. Try to reduce discretionary spending.", pct)
	case summary.SavingsRate < TargetSavingsRate:
		return fmt.Sprintf("You're saving %.1f%% of your income. Great start! Aim for 20%% to build a strong financial foundation.", pct)
	default:
		return fmt.Sprintf("Excellent! You're saving %.1f%% of your income. You're on track for strong financial health.", pct)
	}
}

// Anomaly returns the largest expense above mean + 2 population standard deviations.
func Anomaly(txns []model.Transaction) (model.Transaction, bool) {
	expenses := Expenses(txns)
	if len(expenses) == 0 {
		return model.Transaction{}, false
	}

	var sum float64
	for _, t := range expenses {
		sum += t.Amount
	}
	mean := sum / float64(len(expenses))

	var sq float64
	for _, t := range expenses {
		d := t.Amount - mean
		sq += d * d
	}
	threshold := mean + anomalySigma*math.Sqrt(sq/float64(len(expenses)))

	var largest model.Transaction
	found := false
	for _, t := range expenses {
		if t.Amount > threshold && (!found || t.Amount > largest.Amount) {
			largest = t
			found = true
		}
	}
	return largest, found
}

// AnomalyInsight names the single largest outlier expense.
func AnomalyInsight(txns []model.Transaction) (string, bool) {
	t, ok := Anomaly(txns)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("Detected an unusual expense: $%.2f for %s. Make sure this was intentional.", t.Amount, t.Description), true
}

// Insights runs every generator in order and caps the result at three.
func Insights(summary model.FinancialSummary, txns []model.Transaction) []string {
	var out []string
	if msg, ok := ConcentrationInsight(txns); ok {
		out = append(out, msg)
	}
	out = append(out, SavingsInsight(summary))
	if msg, ok := AnomalyInsight(txns); ok {
		out = append(out, msg)
	}
	return capInsights(out)
}

func capInsights(generated []string) []string {
	if len(generated) == 0 {
		defaults := make([]string, len(DefaultInsights))
		copy(defaults, DefaultInsights)
		return defaults
	}
	if len(generated) > maxInsights {
		generated = generated[:maxInsights]
	}
	return generated
}
