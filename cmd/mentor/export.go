package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/finance-mentor/internal/cli"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/config"
	"github.com/Veraticus/finance-mentor/internal/export"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/sheets"
	"github.com/spf13/cobra"
)

type rangeFlags struct {
	kind  string
	start string
	end   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "range", "all", "all, month, year or custom")
	cmd.Flags().StringVar(&f.start, "from", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "to", "", "custom range end (YYYY-MM-DD)")
}

func (f *rangeFlags) parse() (export.Range, error) {
	r, err := export.ParseRange(f.kind, f.start, f.end)
	if err != nil {
		return export.Range{}, common.NewUserError("invalid date range", err)
	}
	return r, nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions",
	}
	cmd.AddCommand(exportFileCmd("json", "Export transactions as a JSON array", export.WriteJSON))
	cmd.AddCommand(exportFileCmd("csv", "Export transactions as CSV", export.WriteCSV))
	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportFileCmd(format, short string, write func(io.Writer, []model.Transaction) error) *cobra.Command {
	var rf rangeFlags
	var output string
	cmd := &cobra.Command{
		Use:   format,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := rf.parse()
			if err != nil {
				return err
			}
			return withApp(cmd, func(_ context.Context, a *app) error {
				return runExportFile(a, r, output, write)
			})
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func runExportFile(a *app, r export.Range, output string, write func(io.Writer, []model.Transaction) error) error {
	txns := r.Select(a.ledger.Snapshot().Transactions, a.ledger.Today())
	if output == "" {
		return write(a.out, txns)
	}

	f, err := os.Create(output)
	if err != nil {
		return common.NewUserError("could not create "+output, err)
	}
	if err := write(f, txns); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", output, err)
	}
	a.println(cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", len(txns), output)))
	return nil
}

func exportSheetsCmd() *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Publish a report to Google Sheets",
		Long: `Publish a summary, category breakdown, budget status and transaction
detail to a Google Sheets spreadsheet.

Configure either a service account (sheets.service_account_path) or an
OAuth client with a refresh token (sheets.client_id, sheets.client_secret,
sheets.refresh_token). Without sheets.spreadsheet_id a new spreadsheet is
created.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := rf.parse()
			if err != nil {
				return err
			}
			cfg, err := config.LoadSheetsConfig()
			if err != nil {
				return common.NewUserError("Google Sheets is not configured", err)
			}
			writer, err := sheets.NewWriter(cmd.Context(), *cfg, common.Component("sheets"))
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runExportSheets(ctx, a, writer, r)
			})
		},
	}
	rf.register(cmd)
	return cmd
}

func runExportSheets(ctx context.Context, a *app, writer sheets.ReportWriter, r export.Range) error {
	views := a.ledger.Derive(nil)
	txns := r.Select(views.Transactions, a.ledger.Today())
	report := sheets.BuildReport(txns, views.Summary, views.Health, views.Budgets, a.ledger.Today())
	if err := writer.Write(ctx, report); err != nil {
		return common.NewUserError("could not publish the report", err)
	}
	a.println(cli.FormatSuccess(fmt.Sprintf("Published %d transactions to Google Sheets", len(txns))))
	return nil
}
