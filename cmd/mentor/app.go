package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Veraticus/finance-mentor/internal/analysis"
	"github.com/Veraticus/finance-mentor/internal/assistant"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/config"
	"github.com/Veraticus/finance-mentor/internal/forecast"
	"github.com/Veraticus/finance-mentor/internal/ledger"
	"github.com/Veraticus/finance-mentor/internal/llm"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/storage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is what every command works against.
type app struct {
	ledger *ledger.Ledger
	store  *storage.SQLiteStore
	logger *slog.Logger
	out    io.Writer
}

// openApp opens the configured database and loads the ledger. A fresh or
// corrupt database is seeded with sample transactions.
func openApp(ctx context.Context, out io.Writer) (*app, error) {
	path := config.StoragePath()
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open ledger at %s", path), err)
	}

	logger := slog.Default()
	repo := storage.NewRepository(store, storage.Defaults{
		Transactions: func() []model.Transaction {
			seed := uint64(time.Now().UnixNano())
			return ledger.SampleTransactions(time.Now(), rand.New(rand.NewPCG(seed, seed>>1)), uuid.NewString)
		},
	}, logger.With("component", "storage"))

	l, err := ledger.Open(ctx, repo,
		ledger.WithLogger(logger.With("component", "ledger")),
		ledger.WithStartingBalance(config.StartingBalance(analysis.DefaultStartingBalance)),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &app{ledger: l, store: store, logger: logger, out: out}, nil
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// withApp opens the ledger for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			slog.Warn("failed to close ledger", "error", cerr)
		}
	}()
	return fn(ctx, a)
}

// forecastEngine builds the projection engine from forecast.* settings,
// using the ledger's opening balance unless one is configured.
func (a *app) forecastEngine() (*forecast.Engine, error) {
	cfg, err := config.LoadForecastConfig()
	if err != nil {
		return nil, err
	}
	if !viper.IsSet("forecast.starting_balance") {
		cfg.StartingBalance = a.ledger.StartingBalance()
	}
	cfg.Today = a.ledger.Today()
	return forecast.NewEngine(cfg)
}

// advisor wires the local engine with the remote mentor when configured.
func (a *app) advisor() *assistant.Advisor {
	engine := assistant.NewEngine(assistant.WithLogger(a.logger.With("component", "assistant")))

	var remote assistant.Remote
	cfg, err := config.LoadLLMConfig()
	switch {
	case err == nil:
		client, cerr := llm.NewClient(cfg)
		if cerr != nil {
			a.logger.Warn("remote mentor disabled", "error", cerr)
			break
		}
		remote = llm.NewMentor(client, cfg, a.logger.With("component", "llm"))
	case errors.Is(err, common.ErrMissingConfig):
		a.logger.Debug("no remote mentor configured, answering locally")
	default:
		a.logger.Warn("remote mentor disabled", "error", err)
	}

	return assistant.NewAdvisor(engine, remote, config.LLMTimeout(), a.logger.With("component", "advisor"))
}

// source feeds the chat with the latest snapshot.
func (a *app) source() (model.FinancialSummary, []model.Transaction) {
	s := a.ledger.Snapshot()
	return analysis.Summarize(s.Transactions, a.ledger.StartingBalance()), s.Transactions
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(s string) {
	_, _ = fmt.Fprintln(a.out, s)
}
