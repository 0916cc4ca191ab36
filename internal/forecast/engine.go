// Package forecast projects a daily cash-flow series from a transaction set.
package forecast

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// RandSource supplies uniform values in [0, 1).
type RandSource interface {
	Float64() float64
}

// Config controls the shape of the projection.
type Config struct {
	// Today anchors the series; zero means the current date.
	Today time.Time
	// Rand drives the daily spend perturbation; nil means an unseeded source.
	Rand               RandSource
	StartingBalance    float64
	PaydayAmount       float64
	AvgDailySpend      float64
	NoiseFraction      float64
	TrailingDays       int
	ForwardDays        int
	PaydayIntervalDays int
}

// DefaultConfig returns the standard 30-day trailing and forward window.
func DefaultConfig() Config {
	return Config{
		StartingBalance:    15000,
		TrailingDays:       30,
		ForwardDays:        30,
		PaydayIntervalDays: 14,
		PaydayAmount:       3200,
		AvgDailySpend:      120,
		NoiseFraction:      0.25,
	}
}

// Validate rejects configurations that cannot produce a series.
func (c Config) Validate() error {
	if c.TrailingDays < 0 || c.ForwardDays < 0 {
		return fmt.Errorf("forecast windows cannot be negative")
	}
	if c.PaydayIntervalDays < 0 {
		return fmt.Errorf("payday interval cannot be negative")
	}
	if c.NoiseFraction < 0 || c.NoiseFraction > 1 {
		return fmt.Errorf("noise fraction must be within [0, 1]")
	}
	return nil
}

// Seeded returns a deterministic source for seed.
func Seeded(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Engine produces forecast series. It holds no state between calls beyond
// its configuration and random source.
type Engine struct {
	rand RandSource
	now  func() time.Time
	cfg  Config
}

// NewEngine creates an engine for cfg.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := cfg.Rand
	if r == nil {
		r = globalRand{}
	}
	return &Engine{cfg: cfg, rand: r, now: time.Now}, nil
}

// Project computes trailing actuals then the forward projection. The input
// is not modified.
func (e *Engine) Project(txns []model.Transaction) []model.ForecastPoint {
	today := e.cfg.Today
	if today.IsZero() {
		today = e.now()
	}
	today = model.TruncateDay(today)

	points := make([]model.ForecastPoint, 0, e.cfg.TrailingDays+1+e.cfg.ForwardDays)

	balance := e.trailing(txns, today, &points)
	e.forward(balance, today, &points)

	return points
}

// Project is a convenience wrapper around a one-off engine.
func Project(txns []model.Transaction, cfg Config) ([]model.ForecastPoint, error) {
	e, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return e.Project(txns), nil
}

func (e *Engine) trailing(txns []model.Transaction, today time.Time, points *[]model.ForecastPoint) float64 {
	start := today.AddDate(0, 0, -e.cfg.TrailingDays)

	daily := make(map[time.Time]float64)
	balance := e.cfg.StartingBalance
	for _, t := range txns {
		day := model.TruncateDay(t.Date)
		if day.Before(start) {
			balance += t.Signed()
			continue
		}
		daily[day] += t.Signed()
	}

	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		balance += daily[d]
		actual := balance
		*points = append(*points, model.ForecastPoint{
			Date:      d,
			Actual:    &actual,
			Projected: balance,
		})
	}
	return balance
}

func (e *Engine) forward(balance float64, today time.Time, points *[]model.ForecastPoint) {
	spread := e.cfg.NoiseFraction * e.cfg.AvgDailySpend
	for i := 1; i <= e.cfg.ForwardDays; i++ {
		if e.cfg.PaydayIntervalDays > 0 && i%e.cfg.PaydayIntervalDays == 0 {
			balance += e.cfg.PaydayAmount
		}
		balance -= e.cfg.AvgDailySpend + (e.rand.Float64()*2-1)*spread

		upper := balance * 1.1
		lower := balance * 0.9
		*points = append(*points, model.ForecastPoint{
			Date:       today.AddDate(0, 0, i),
			Projected:  balance,
			UpperBound: &upper,
			LowerBound: &lower,
		})
	}
}

// Stats summarizes a projected series.
type Stats struct {
	LowestDate    time.Time
	LastActual    float64
	EndBalance    float64
	LowestBalance float64
}

// Summarize reports the last actual balance, the final projection and the
// lowest projected point.
func Summarize(points []model.ForecastPoint) Stats {
	var s Stats
	if len(points) == 0 {
		return s
	}
	s.LowestBalance = points[0].Projected
	s.LowestDate = points[0].Date
	for _, p := range points {
		if p.Actual != nil {
			s.LastActual = *p.Actual
		}
		if p.Projected < s.LowestBalance {
			s.LowestBalance = p.Projected
			s.LowestDate = p.Date
		}
	}
	s.EndBalance = points[len(points)-1].Projected
	return s
}
