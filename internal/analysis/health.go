package analysis

import "github.com/Veraticus/finance-mentor/internal/model"

// Score penalties.
const (
	lowSavingsPenalty    = 30
	belowTargetPenalty   = 15
	concentrationPenalty = 20
	maxScore             = 100
	minScore             = 0
)

// Score derives the health score from a summary and its transactions.
func Score(summary model.FinancialSummary, txns []model.Transaction) model.HealthScore {
	score := maxScore

	switch {
	case summary.SavingsRate < LowSavingsRate:
		score -= lowSavingsPenalty
	case summary.SavingsRate < TargetSavingsRate:
		score -= belowTargetPenalty
	}

	if summary.TotalExpenses > 0 {
		if _, share, ok := dominantShare(txns); ok && share > ConcentrationThreshold {
			score -= concentrationPenalty
		}
	}

	score = min(max(score, minScore), maxScore)

	return model.HealthScore{
		Score:    score,
		Status:   model.StatusForScore(score),
		Insights: Insights(summary, txns),
	}
}

// Issues lists the penalties that applied, for display alongside the score.
func Issues(summary model.FinancialSummary, txns []model.Transaction) []string {
	var issues []string
	switch {
	case summary.SavingsRate < LowSavingsRate:
		issues = append(issues, "Low savings rate")
	case summary.SavingsRate < TargetSavingsRate:
		issues = append(issues, "Below recommended savings rate")
	}
	if _, ok := ConcentrationInsight(txns); ok {
		issues = append(issues, "High concentration in one category")
	}
	if _, ok := Anomaly(txns); ok {
		issues = append(issues, "Unusual transactions detected")
	}
	return issues
}
