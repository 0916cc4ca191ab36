package model

import "time"

// FinancialSummary is derived from a transaction set and never persisted.
type FinancialSummary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetWorth      float64 `json:"netWorth"`
	// SavingsRate is a fraction; zero when there is no income.
	SavingsRate float64 `json:"savingsRate"`
}

// ForecastPoint is one calendar day of the cash-flow series. Actual is set
// only in the trailing window, the bounds only in the forward window.
type ForecastPoint struct {
	Date       time.Time `json:"date"`
	Actual     *float64  `json:"actual,omitempty"`
	UpperBound *float64  `json:"upperBound,omitempty"`
	LowerBound *float64  `json:"lowerBound,omitempty"`
	Projected  float64   `json:"projected"`
}

// IsForward reports whether the point belongs to the projected window.
func (p ForecastPoint) IsForward() bool {
	return p.Actual == nil
}

// HealthStatus is the tier a health score falls into.
type HealthStatus string

// Health tiers from best to worst.
const (
	StatusExcellent HealthStatus = "Excellent"
	StatusGood      HealthStatus = "Good"
	StatusFair      HealthStatus = "Fair"
	StatusCritical  HealthStatus = "Critical"
)

// DisplayLabel is the user-facing wording for the tier.
func (s HealthStatus) DisplayLabel() string {
	if s == StatusCritical {
		return "Needs Work"
	}
	return string(s)
}

// StatusForScore maps a clamped score to its tier.
func StatusForScore(score int) HealthStatus {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	case score >= 40:
		return StatusFair
	default:
		return StatusCritical
	}
}

// HealthScore is the composite financial health result.
type HealthScore struct {
	Status   HealthStatus `json:"status"`
	Insights []string     `json:"insights"`
	Score    int          `json:"score"`
	// Degraded is set when a remote analysis was requested but the local
	// computation answered instead.
	Degraded bool `json:"degraded,omitempty"`
}
