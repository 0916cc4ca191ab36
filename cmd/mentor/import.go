package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/finance-mentor/internal/cli"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/config"
	"github.com/Veraticus/finance-mentor/internal/export"
	"github.com/Veraticus/finance-mentor/internal/importer"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/ofx"
	"github.com/Veraticus/finance-mentor/internal/plaid"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from files or your bank",
	}
	cmd.AddCommand(importCSVCmd())
	cmd.AddCommand(importJSONCmd())
	cmd.AddCommand(importOFXCmd())
	cmd.AddCommand(importPlaidCmd())
	return cmd
}

func importCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv <file>",
		Short: "Import a bank CSV export",
		Long: `Import a delimited bank export. The header must name a date and an
amount column; description, category and type columns are optional.
Rows that cannot be parsed are skipped and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return common.NewUserError("could not read "+args[0], err)
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runImportCSV(ctx, a, string(raw))
			})
		},
	}
}

func runImportCSV(ctx context.Context, a *app, raw string) error {
	result, err := a.ledger.ImportCSV(ctx, raw)
	if err != nil {
		return common.NewUserError("import failed", err)
	}
	a.println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", len(result.Transactions))))
	reportSkipped(a, result.Skipped)
	return nil
}

func reportSkipped(a *app, skipped []importer.SkippedRow) {
	if len(skipped) == 0 {
		return
	}
	a.println(cli.FormatWarning(fmt.Sprintf("Skipped %d rows", len(skipped))))
	for _, s := range skipped {
		a.println(cli.SubtleStyle.Render(fmt.Sprintf("  line %d: %s", s.Line, s.Reason)))
	}
}

func importJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json <file>",
		Short: "Restore transactions from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return common.NewUserError("could not read "+args[0], err)
			}
			defer func() { _ = f.Close() }()

			txns, err := export.ParseJSON(f)
			if err != nil {
				return common.NewUserError("not a transaction export", err)
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runImportBatch(ctx, a, txns, "JSON export")
			})
		},
	}
}

// runImportBatch adds pre-built transactions, skipping ids already present.
func runImportBatch(ctx context.Context, a *app, txns []model.Transaction, source string) error {
	added, err := a.ledger.Import(ctx, txns)
	if err != nil {
		return common.NewUserError("import failed", err)
	}
	a.println(cli.FormatSuccess(fmt.Sprintf("Imported %d new transactions from %s", added, source)))
	if dup := len(txns) - added; dup > 0 {
		a.println(cli.FormatInfo(fmt.Sprintf("%d already in the ledger", dup)))
	}
	return nil
}

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ofx <file-or-dir>...",
		Short: "Import OFX/QFX files exported from your bank",
		Long: `Import financial transactions from OFX or QFX (Quicken) files.

Examples:
  # Import single file
  mentor import ofx ~/Downloads/checking_jan_2024.qfx

  # Import every OFX/QFX file in a directory
  mentor import ofx ~/Downloads/statements`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectOFXFiles(args)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runImportOFX(ctx, a, files)
			})
		},
	}
}

// collectOFXFiles expands directories and globs into a file list.
func collectOFXFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			found, ferr := ofx.FindFiles(arg)
			if ferr != nil {
				return nil, ferr
			}
			files = append(files, found...)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, common.NewUserError("no OFX or QFX files found", nil)
	}
	return files, nil
}

func runImportOFX(ctx context.Context, a *app, files []string) error {
	progress := cli.NewProgress(a.out, len(files), "Parsing statements...")
	txns, err := ofx.NewParser().ParseFiles(ctx, files, func(string) { progress.Step() })
	if err != nil {
		return common.NewUserError("could not parse statements", err)
	}
	progress.Finish()
	return runImportBatch(ctx, a, txns, fmt.Sprintf("%d statement files", len(files)))
}

func importPlaidCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "plaid",
		Short: "Pull recent transactions from Plaid",
		Long: `Pull recent transactions for a linked account through Plaid.

Requires plaid.client_id, plaid.secret and plaid.access_token in the config
file, or PLAID_CLIENT_ID, PLAID_SECRET and PLAID_ACCESS_TOKEN.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadPlaidConfig()
			if err != nil {
				return common.NewUserError("Plaid is not configured", err)
			}
			client, err := plaid.NewClient(cfg)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runImportPlaid(ctx, a, client, days)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "how many days back to fetch")
	return cmd
}

func runImportPlaid(ctx context.Context, a *app, fetcher plaid.TransactionFetcher, days int) error {
	accounts, err := fetcher.GetAccounts(ctx)
	if err != nil {
		return common.NewUserError("could not reach Plaid", err)
	}
	a.println(cli.FormatInfo(fmt.Sprintf("Fetching %d days from %d linked accounts", days, len(accounts))))

	txns, err := plaid.FetchRecent(ctx, fetcher, days, a.ledger.Today())
	if err != nil {
		return common.NewUserError("could not fetch transactions from Plaid", err)
	}
	return runImportBatch(ctx, a, txns, "Plaid")
}
