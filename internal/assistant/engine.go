// Package assistant answers free-text finance questions from a transaction
// set, locally or through a remote model with local fallback.
package assistant

import (
	"log/slog"
	"math/rand/v2"

	"github.com/Veraticus/finance-mentor/internal/model"
)

// RandSource picks template variants and tip order.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// formatter renders the answer for one intent.
type formatter func(e *Engine, summary model.FinancialSummary, txns []model.Transaction) string

// Engine renders templated answers. It keeps no state between calls.
type Engine struct {
	rand     RandSource
	logger   *slog.Logger
	dispatch map[Intent]formatter
	tips     []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random source used for template choice.
func WithRand(r RandSource) Option {
	return func(e *Engine) {
		e.rand = r
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithTips replaces the advice list.
func WithTips(tips []string) Option {
	return func(e *Engine) {
		e.tips = tips
	}
}

// NewEngine creates an engine with the default templates.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rand:   globalRand{},
		logger: slog.Default(),
		tips:   Tips,
		dispatch: map[Intent]formatter{
			IntentGreeting:   greetingResponse,
			IntentThanks:     thanksResponse,
			IntentSpending:   spendingResponse,
			IntentSavings:    savingsResponse,
			IntentBudget:     budgetResponse,
			IntentHealth:     healthResponse,
			IntentAnalysis:   analysisResponse,
			IntentComparison: comparisonResponse,
			IntentGoals:      tipsResponse,
			IntentAdvice:     tipsResponse,
			IntentGeneral:    tipsResponse,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond classifies the query and renders the matching answer.
func (e *Engine) Respond(query string, summary model.FinancialSummary, txns []model.Transaction) string {
	_, text := e.Answer(query, summary, txns)
	return text
}

// Answer is Respond that also reports the classified intent.
func (e *Engine) Answer(query string, summary model.FinancialSummary, txns []model.Transaction) (Intent, string) {
	intent := Classify(query)
	render, ok := e.dispatch[intent]
	if !ok {
		render = tipsResponse
	}
	e.logger.Debug("answering locally", "intent", intent, "transactions", len(txns))
	return intent, render(e, summary, txns)
}

func (e *Engine) pick(options []string) string {
	return options[e.rand.IntN(len(options))]
}

// shuffled returns a permuted copy of items.
func (e *Engine) shuffled(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := e.rand.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
