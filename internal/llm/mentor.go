package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/service"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Mentor answers chat queries and scores financial health through a Client.
type Mentor struct {
	client    Client
	cache     *cache.Cache
	limiter   *rate.Limiter
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewMentor wraps client with caching, rate limiting and retries.
func NewMentor(client Client, cfg Config, logger *slog.Logger) *Mentor {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		Op:           "llm " + cfg.Provider,
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	perMinute := cfg.RateLimit
	if perMinute <= 0 {
		perMinute = 60
	}

	return &Mentor{
		client:    client,
		cache:     cache.New(ttl, 2*ttl),
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), min(perMinute, 5)),
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Reply answers query in the context of the user's finances.
func (m *Mentor) Reply(ctx context.Context, history []Message, query string, summary model.FinancialSummary, txns []model.Transaction) (string, error) {
	text, err := m.send(ctx, chatMessages(history, query, summary, txns))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty reply: %w", common.ErrMalformedResponse)
	}
	return text, nil
}

// HealthScore asks the model for a structured score. Results are cached by
// the figures they were computed from.
func (m *Mentor) HealthScore(ctx context.Context, summary model.FinancialSummary, txns []model.Transaction) (model.HealthScore, error) {
	prompt := healthPrompt(summary, txns)
	if cached, found := m.cache.Get(prompt); found {
		m.logger.Debug("cache hit for health score")
		return cached.(model.HealthScore), nil
	}

	text, err := m.send(ctx, []Message{
		{Role: RoleSystem, Content: healthSystemPrompt},
		{Role: RoleUser, Content: prompt},
	})
	if err != nil {
		return model.HealthScore{}, err
	}

	score, err := parseHealthScore(text)
	if err != nil {
		m.logger.Warn("discarding malformed health score", "error", err)
		return model.HealthScore{}, err
	}

	m.cache.Set(prompt, score, cache.DefaultExpiration)
	m.logger.Info("health score analyzed", "score", score.Score, "status", score.Status)
	return score, nil
}

func (m *Mentor) send(ctx context.Context, messages []Message) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter canceled: %w", err)
	}

	var text string
	err := common.WithRetry(ctx, func() error {
		var err error
		text, err = m.client.Chat(ctx, messages)
		return err
	}, m.retryOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	return text, nil
}
