package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/finance-mentor/internal/analysis"
	"github.com/Veraticus/finance-mentor/internal/assistant"
	"github.com/Veraticus/finance-mentor/internal/cli"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/forecast"
	"github.com/Veraticus/finance-mentor/internal/ledger"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/Veraticus/finance-mentor/internal/tui"
	"github.com/Veraticus/finance-mentor/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals, spending trends and budget recommendations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				a.println(renderSummary(a.ledger.Derive(nil)))
				return nil
			})
		},
	}
}

func renderSummary(v ledger.Views) string {
	var b strings.Builder
	s := v.Summary
	b.WriteString(cli.FormatTitle("Financial Summary"))
	b.WriteString("\n")
	b.WriteString(cli.RenderTable([]string{"", ""}, [][]string{
		{"Total income", cli.FormatMoney(s.TotalIncome)},
		{"Total expenses", cli.FormatMoney(s.TotalExpenses)},
		{"Net worth", cli.FormatMoney(s.NetWorth)},
		{"Savings rate", fmt.Sprintf("%.1f%%", s.SavingsRate*100)},
	}))

	tr := v.Trends
	b.WriteString("\n\n")
	b.WriteString(cli.BoldStyle.Render(cli.ChartIcon + " Spending trends"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "This month %s, last month %s", cli.FormatMoney(tr.ThisMonthExpenses), cli.FormatMoney(tr.LastMonthExpenses))
	if tr.LastMonthExpenses > 0 {
		fmt.Fprintf(&b, " (%+.1f%%)", tr.MonthlyChange)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Average expense %s, average income %s\n", cli.FormatMoney(tr.AverageExpense), cli.FormatMoney(tr.AverageIncome))
	if tr.LargestExpense != nil {
		fmt.Fprintf(&b, "Largest expense: %s %s\n", tr.LargestExpense.Description, cli.FormatMoney(tr.LargestExpense.Amount))
	}
	for i, c := range tr.TopCategories {
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1, c.Category.Label(), cli.FormatMoney(c.Amount))
	}

	if recs := analysis.BudgetRecommendations(s, v.Transactions); len(recs) > 0 {
		b.WriteString("\n")
		b.WriteString(cli.BoldStyle.Render("Recommendations"))
		for _, r := range recs {
			b.WriteString("\n• " + r)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func forecastCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project your balance forward",
		Long: `Replay the trailing window of transactions into daily balances and
project forward with a bi-weekly payday and noisy daily spending.
Set forecast.seed for a reproducible projection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				engine, err := a.forecastEngine()
				if err != nil {
					return common.NewUserError("invalid forecast settings", err)
				}
				a.println(renderForecast(engine.Project(a.ledger.Snapshot().Transactions), all))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "daily", false, "print every day instead of weekly samples")
	return cmd
}

func renderForecast(points []model.ForecastPoint, daily bool) string {
	stats := forecast.Summarize(points)
	rows := make([][]string, 0, len(points))
	for i, p := range points {
		if !daily && i%7 != 0 && i != len(points)-1 {
			continue
		}
		actual, band := "", ""
		if p.Actual != nil {
			actual = cli.FormatMoney(*p.Actual)
		}
		if p.LowerBound != nil && p.UpperBound != nil {
			band = fmt.Sprintf("%s to %s", cli.FormatMoney(*p.LowerBound), cli.FormatMoney(*p.UpperBound))
		}
		rows = append(rows, []string{p.Date.Format(model.DateLayout), actual, cli.FormatMoney(p.Projected), band})
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle("Balance Forecast"))
	b.WriteString("\n")
	b.WriteString(cli.RenderTable([]string{"Date", "Actual", "Projected", "Range"}, rows))
	fmt.Fprintf(&b, "\n\nToday %s, in %d days %s, lowest %s on %s",
		cli.FormatMoney(stats.LastActual),
		forwardDays(points),
		cli.FormatMoney(stats.EndBalance),
		cli.FormatMoney(stats.LowestBalance),
		stats.LowestDate.Format(model.DateLayout))
	return b.String()
}

func forwardDays(points []model.ForecastPoint) int {
	n := 0
	for _, p := range points {
		if p.IsForward() {
			n++
		}
	}
	return n
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Score your financial health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				summary, txns := a.source()
				a.println(renderHealth(a.advisor().Health(ctx, summary, txns)))
				return nil
			})
		},
	}
}

func renderHealth(h model.HealthScore) string {
	var b strings.Builder
	b.WriteString(cli.FormatTitle("Financial Health"))
	b.WriteString("\n")
	b.WriteString(cli.HealthStyle(h.Status).Render(fmt.Sprintf("%d/100 %s", h.Score, h.Status.DisplayLabel())))
	for _, insight := range h.Insights {
		b.WriteString("\n• " + insight)
	}
	if h.Degraded {
		b.WriteString("\n")
		b.WriteString(cli.SubtleStyle.Render(assistant.OfflineNote))
	}
	return b.String()
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask Finny a question about your finances",
		Example: `  mentor ask "where is my money going?"
  mentor ask "give me some saving tips"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runAsk(ctx, a, a.advisor(), strings.Join(args, " "))
			})
		},
	}
}

func runAsk(ctx context.Context, a *app, advisor tui.Asker, query string) error {
	summary, txns := a.source()
	reply := advisor.Ask(ctx, assistant.Request{Query: query, Summary: summary, Transactions: txns})
	a.println(reply.Text)
	if reply.Degraded {
		a.println(cli.SubtleStyle.Render(assistant.OfflineNote))
	}
	return nil
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with Finny interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return tui.Run(ctx, a.advisor(), a.source,
					tui.WithTheme(themes.ByName(viper.GetString("ui.theme"))))
			})
		},
	}
}
