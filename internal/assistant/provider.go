package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/finance-mentor/internal/analysis"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/llm"
	"github.com/Veraticus/finance-mentor/internal/model"
)

// DefaultRemoteTimeout bounds a single remote attempt.
const DefaultRemoteTimeout = 15 * time.Second

// Remote is a model-backed analyst.
type Remote interface {
	Reply(ctx context.Context, history []llm.Message, query string, summary model.FinancialSummary, txns []model.Transaction) (string, error)
	HealthScore(ctx context.Context, summary model.FinancialSummary, txns []model.Transaction) (model.HealthScore, error)
}

// Request is the input to an analysis.
type Request struct {
	Query        string
	History      []llm.Message
	Transactions []model.Transaction
	Summary      model.FinancialSummary
}

// AnalysisProvider produces a T remotely when possible and always has a
// local answer.
type AnalysisProvider[T any] interface {
	TryRemote(ctx context.Context, req Request) (T, error)
	LocalFallback(req Request) T
}

// Resolve attempts the remote path within timeout and falls back to the
// local path on any failure. The returned value is always complete; the
// error reports why the remote attempt was not used.
func Resolve[T any](ctx context.Context, p AnalysisProvider[T], req Request, timeout time.Duration) (T, error) {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	remoteCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := p.TryRemote(remoteCtx, req)
	if err == nil {
		return result, nil
	}
	return p.LocalFallback(req), err
}

// ChatProvider answers free-text questions.
type ChatProvider struct {
	Remote Remote
	Engine *Engine
}

// TryRemote asks the remote model.
func (p ChatProvider) TryRemote(ctx context.Context, req Request) (string, error) {
	if p.Remote == nil {
		return "", common.ErrRemoteUnavailable
	}
	text, err := p.Remote.Reply(ctx, req.History, req.Query, req.Summary, req.Transactions)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty reply: %w", common.ErrMalformedResponse)
	}
	return text, nil
}

// LocalFallback renders the templated answer.
func (p ChatProvider) LocalFallback(req Request) string {
	return p.Engine.Respond(req.Query, req.Summary, req.Transactions)
}

// HealthProvider scores financial health.
type HealthProvider struct {
	Remote Remote
}

// TryRemote asks the remote model and validates its result.
func (p HealthProvider) TryRemote(ctx context.Context, req Request) (model.HealthScore, error) {
	if p.Remote == nil {
		return model.HealthScore{}, common.ErrRemoteUnavailable
	}
	score, err := p.Remote.HealthScore(ctx, req.Summary, req.Transactions)
	if err != nil {
		return model.HealthScore{}, err
	}
	if err := validateRemoteScore(score); err != nil {
		return model.HealthScore{}, err
	}
	return score, nil
}

// LocalFallback computes the deterministic score.
func (p HealthProvider) LocalFallback(req Request) model.HealthScore {
	return analysis.Score(req.Summary, req.Transactions)
}

func validateRemoteScore(s model.HealthScore) error {
	if s.Score < 0 || s.Score > 100 {
		return fmt.Errorf("score %d out of range: %w", s.Score, common.ErrMalformedResponse)
	}
	switch s.Status {
	case model.StatusExcellent, model.StatusGood, model.StatusFair, model.StatusCritical:
	default:
		return fmt.Errorf("unknown status %q: %w", s.Status, common.ErrMalformedResponse)
	}
	if len(s.Insights) != 3 {
		return fmt.Errorf("expected 3 insights, got %d: %w", len(s.Insights), common.ErrMalformedResponse)
	}
	return nil
}

// Reply is an answer to a chat query.
type Reply struct {
	Text   string
	Intent Intent
	// Degraded is set when the local engine answered in place of the remote model.
	Degraded bool
}

// Advisor is the entry point used by the CLI and TUI.
type Advisor struct {
	logger  *slog.Logger
	chat    ChatProvider
	health  HealthProvider
	timeout time.Duration
}

// NewAdvisor wires an engine and an optional remote. A nil remote keeps
// every answer local.
func NewAdvisor(engine *Engine, remote Remote, timeout time.Duration, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{
		chat:    ChatProvider{Remote: remote, Engine: engine},
		health:  HealthProvider{Remote: remote},
		timeout: timeout,
		logger:  logger,
	}
}

// Ask answers a query.
func (a *Advisor) Ask(ctx context.Context, req Request) Reply {
	text, err := Resolve(ctx, a.chat, req, a.timeout)
	reply := Reply{Text: text, Intent: Classify(req.Query), Degraded: err != nil}
	if err != nil {
		a.logger.Debug("remote reply unavailable, answered locally", "error", err, "intent", reply.Intent)
	}
	return reply
}

// Health scores the summary and transactions.
func (a *Advisor) Health(ctx context.Context, summary model.FinancialSummary, txns []model.Transaction) model.HealthScore {
	score, err := Resolve(ctx, a.health, Request{Summary: summary, Transactions: txns}, a.timeout)
	if err != nil {
		a.logger.Debug("remote health score unavailable, scored locally", "error", err)
		score.Degraded = true
	}
	return score
}
