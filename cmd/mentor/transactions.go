package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/finance-mentor/internal/cli"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/importer"
	"github.com/Veraticus/finance-mentor/internal/ledger"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var entry importer.ManualEntry
	var typ string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction by hand",
		Example: `  mentor add --amount 42.50 --category "Food & Dining" --description "Farmers market"
  mentor add --type income --amount 3200 --description "Salary" --date 2024-06-14`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseType(typ)
			if err != nil {
				return err
			}
			entry.Type = t
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runAdd(ctx, a, entry)
			})
		},
	}
	cmd.Flags().Float64Var(&entry.Amount, "amount", 0, "amount, always positive")
	cmd.Flags().StringVar(&typ, "type", "expense", "expense or income")
	cmd.Flags().StringVar(&entry.Category, "category", "", "category label (income forces Income)")
	cmd.Flags().StringVar(&entry.Description, "description", "", "what the transaction was")
	cmd.Flags().StringVar(&entry.Date, "date", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runAdd(ctx context.Context, a *app, entry importer.ManualEntry) error {
	txn, err := a.ledger.AddManual(ctx, entry)
	if err != nil {
		return common.NewUserError("could not add transaction", err)
	}
	a.println(cli.FormatSuccess(fmt.Sprintf("Added %s %s on %s (%s)",
		txn.Category.Label(), cli.FormatMoney(txn.Amount), txn.Date.Format(model.DateLayout), txn.ID)))
	return nil
}

type listOptions struct {
	search   string
	typ      string
	category string
	days     int
	min      float64
	max      float64
	limit    int
}

func listCmd() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := opts.filter()
			if err != nil {
				return err
			}
			return withApp(cmd, func(_ context.Context, a *app) error {
				runList(a, filter, opts.limit)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "match description or category")
	cmd.Flags().StringVar(&opts.typ, "type", "", "expense or income")
	cmd.Flags().StringVar(&opts.category, "category", "", "category label")
	cmd.Flags().IntVar(&opts.days, "days", 0, "only the last N days (7, 30, 90...)")
	cmd.Flags().Float64Var(&opts.min, "min", 0, "minimum amount")
	cmd.Flags().Float64Var(&opts.max, "max", 0, "maximum amount")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 50, "rows to show, 0 for all")
	return cmd
}

func (o listOptions) filter() (ledger.Filter, error) {
	f := ledger.Filter{
		Search:    o.search,
		Days:      o.days,
		MinAmount: o.min,
		MaxAmount: o.max,
	}
	if o.typ != "" {
		t, err := parseType(o.typ)
		if err != nil {
			return ledger.Filter{}, err
		}
		f.Type = t
	}
	if o.category != "" {
		c, err := parseCategory(o.category)
		if err != nil {
			return ledger.Filter{}, err
		}
		f.Category = c
	}
	if f.Days < 0 || f.MinAmount < 0 || f.MaxAmount < 0 {
		return ledger.Filter{}, common.NewUserError("filters cannot be negative", nil)
	}
	return f, nil
}

func runList(a *app, filter ledger.Filter, limit int) {
	txns := filter.Apply(a.ledger.Snapshot().Transactions, a.ledger.Today())
	if len(txns) == 0 {
		a.println(cli.FormatInfo("No transactions match."))
		return
	}
	shown := txns
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	a.println(renderTransactions(shown))
	if len(shown) < len(txns) {
		a.println(cli.SubtleStyle.Render(fmt.Sprintf("showing %d of %d", len(shown), len(txns))))
	}
}

func renderTransactions(txns []model.Transaction) string {
	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, []string{
			t.Date.Format(model.DateLayout),
			t.Description,
			t.Category.Label(),
			cli.FormatSigned(t),
			cli.SubtleStyle.Render(t.ID),
		})
	}
	return cli.RenderTable([]string{"Date", "Description", "Category", "Amount", "ID"}, rows)
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete transactions by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runDelete(ctx, a, args)
			})
		},
	}
}

func runDelete(ctx context.Context, a *app, ids []string) error {
	for _, id := range ids {
		if err := a.ledger.Delete(ctx, id); err != nil {
			return common.NewUserError("could not delete "+id, err)
		}
		a.println(cli.FormatSuccess("Deleted " + id))
	}
	return nil
}

func parseType(s string) (model.TransactionType, error) {
	t := model.TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", common.NewUserError(fmt.Sprintf("unknown type %q, use expense or income", s), nil)
	}
	return t, nil
}

func parseCategory(s string) (model.Category, error) {
	c, ok := model.ParseCategory(s)
	if !ok {
		labels := make([]string, 0, len(model.Categories))
		for _, c := range model.Categories {
			labels = append(labels, c.Label())
		}
		return model.CategoryUnknown, common.NewUserError(fmt.Sprintf("unknown category %q, use one of: %s", s, strings.Join(labels, ", ")), common.ErrInvalidCategory)
	}
	return c, nil
}
