package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/finance-mentor/internal/cli"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/model"
	"github.com/spf13/cobra"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage spending limits per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				a.println(renderBudgets(a.ledger.Derive(nil).Budgets))
				return nil
			})
		},
	}

	var period string
	var id string
	set := &cobra.Command{
		Use:     "set <category> <limit>",
		Short:   "Create or update a budget",
		Example: `  mentor budgets set "Food & Dining" 400 --period monthly`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseBudget(args[0], args[1], period)
			if err != nil {
				return err
			}
			b.ID = id
			return withApp(cmd, func(ctx context.Context, a *app) error {
				saved, err := a.ledger.SaveBudget(ctx, b)
				if err != nil {
					return common.NewUserError("could not save budget", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("%s budget of %s per %s saved (%s)",
					saved.Category.Label(), cli.FormatMoney(saved.Limit), periodNoun(saved.Period), saved.ID)))
				return nil
			})
		},
	}
	set.Flags().StringVar(&period, "period", string(model.PeriodMonthly), "monthly or weekly")
	set.Flags().StringVar(&id, "id", "", "id of the budget to replace")

	cmd.AddCommand(set)
	cmd.AddCommand(deleteByIDCmd("budget", func(ctx context.Context, a *app, id string) error {
		return a.ledger.DeleteBudget(ctx, id)
	}))
	return cmd
}

func parseBudget(category, limit, period string) (model.Budget, error) {
	c, err := parseCategory(category)
	if err != nil {
		return model.Budget{}, err
	}
	amount, err := parseAmount(limit)
	if err != nil {
		return model.Budget{}, err
	}
	p := model.BudgetPeriod(strings.ToLower(period))
	if p != model.PeriodMonthly && p != model.PeriodWeekly {
		return model.Budget{}, common.NewUserError(fmt.Sprintf("unknown period %q, use monthly or weekly", period), nil)
	}
	return model.Budget{Category: c, Limit: amount, Period: p}, nil
}

func periodNoun(p model.BudgetPeriod) string {
	if p == model.PeriodWeekly {
		return "week"
	}
	return "month"
}

func renderBudgets(statuses []model.BudgetStatus) string {
	if len(statuses) == 0 {
		return cli.FormatInfo("No budgets yet. Add one with: mentor budgets set <category> <limit>")
	}
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		used := fmt.Sprintf("%.0f%%", s.Percentage)
		if s.OverBudget {
			used = cli.ErrorStyle.Render(used + " over")
		} else if s.Percentage >= 80 {
			used = cli.WarningStyle.Render(used)
		}
		rows = append(rows, []string{
			s.Budget.Category.Label(),
			string(s.Budget.Period),
			cli.FormatMoney(s.Spent),
			cli.FormatMoney(s.Budget.Limit),
			used,
			cli.SubtleStyle.Render(s.Budget.ID),
		})
	}
	return cli.RenderTable([]string{"Category", "Period", "Spent", "Limit", "Used", "ID"}, rows)
}

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Track savings goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				a.println(renderGoals(a.ledger.Snapshot().Goals))
				return nil
			})
		},
	}

	var deadline, color string
	var current float64
	add := &cobra.Command{
		Use:     "add <name> <target>",
		Short:   "Create a savings goal",
		Example: `  mentor goals add "Emergency fund" 10000 --deadline 2025-12-31`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseGoal(args[0], args[1], deadline)
			if err != nil {
				return err
			}
			g.CurrentAmount = current
			g.Color = color
			return withApp(cmd, func(ctx context.Context, a *app) error {
				saved, err := a.ledger.SaveGoal(ctx, g)
				if err != nil {
					return common.NewUserError("could not save goal", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("Goal %q created (%s)", saved.Name, saved.ID)))
				return nil
			})
		},
	}
	add.Flags().StringVar(&deadline, "deadline", "", "target date (YYYY-MM-DD)")
	add.Flags().StringVar(&color, "color", "", "display color")
	add.Flags().Float64Var(&current, "current", 0, "amount already saved")

	fund := &cobra.Command{
		Use:   "fund <id> <amount>",
		Short: "Add money to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				g, err := a.ledger.AddFunds(ctx, args[0], amount)
				if err != nil {
					return common.NewUserError("could not add funds", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("%s: %s of %s (%.0f%%)",
					g.Name, cli.FormatMoney(g.CurrentAmount), cli.FormatMoney(g.TargetAmount), g.Progress())))
				return nil
			})
		},
	}

	cmd.AddCommand(add, fund)
	cmd.AddCommand(deleteByIDCmd("goal", func(ctx context.Context, a *app, id string) error {
		return a.ledger.DeleteGoal(ctx, id)
	}))
	return cmd
}

func parseGoal(name, target, deadline string) (model.SavingsGoal, error) {
	amount, err := parseAmount(target)
	if err != nil {
		return model.SavingsGoal{}, err
	}
	g := model.SavingsGoal{Name: strings.TrimSpace(name), TargetAmount: amount}
	if deadline != "" {
		d, err := time.Parse(model.DateLayout, deadline)
		if err != nil {
			return model.SavingsGoal{}, common.NewUserError("deadline must be YYYY-MM-DD", common.ErrInvalidDate)
		}
		g.Deadline = &d
	}
	return g, nil
}

func renderGoals(goals []model.SavingsGoal) string {
	if len(goals) == 0 {
		return cli.FormatInfo("No savings goals yet. Add one with: mentor goals add <name> <target>")
	}
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		deadline := ""
		if g.Deadline != nil {
			deadline = g.Deadline.Format(model.DateLayout)
		}
		rows = append(rows, []string{
			cli.TargetIcon + " " + g.Name,
			cli.FormatMoney(g.CurrentAmount),
			cli.FormatMoney(g.TargetAmount),
			progressBar(g.Progress(), 20),
			deadline,
			cli.SubtleStyle.Render(g.ID),
		})
	}
	return cli.RenderTable([]string{"Goal", "Saved", "Target", "Progress", "Deadline", "ID"}, rows)
}

// progressBar draws pct (0-100) as a fixed-width text bar.
func progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return cli.SuccessStyle.Render(strings.Repeat("█", filled)) +
		cli.SubtleStyle.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %.0f%%", pct)
}

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				a.println(renderRecurring(a.ledger.Snapshot().Recurring))
				return nil
			})
		},
	}

	var typ, category, frequency, start string
	add := &cobra.Command{
		Use:     "add <description> <amount>",
		Short:   "Define a recurring transaction",
		Example: `  mentor recurring add "Rent" 1500 --category Housing --frequency monthly --start 2024-01-01`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRecurring(args[0], args[1], typ, category, frequency, start, time.Now())
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				saved, err := a.ledger.SaveRecurring(ctx, r)
				if err != nil {
					return common.NewUserError("could not save recurring transaction", err)
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("%s %s %s, next on %s (%s)",
					saved.Description, cli.FormatMoney(saved.Amount), saved.Frequency,
					saved.NextDate.Format(model.DateLayout), saved.ID)))
				return nil
			})
		},
	}
	add.Flags().StringVar(&typ, "type", "expense", "expense or income")
	add.Flags().StringVar(&category, "category", "", "category label (income forces Income)")
	add.Flags().StringVar(&frequency, "frequency", string(model.FrequencyMonthly), "daily, weekly, monthly or yearly")
	add.Flags().StringVar(&start, "start", "", "first occurrence (YYYY-MM-DD, default today)")

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Pause or resume a recurring transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				r, err := a.ledger.ToggleRecurring(ctx, args[0])
				if err != nil {
					return common.NewUserError("could not toggle", err)
				}
				state := "paused"
				if r.IsActive {
					state = "active"
				}
				a.println(cli.FormatSuccess(fmt.Sprintf("%s is now %s", r.Description, state)))
				return nil
			})
		},
	}

	run := &cobra.Command{
		Use:   "run [id]",
		Short: "Record one occurrence now, or every due occurrence without an id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runRecurring(ctx, a, args)
			})
		},
	}

	cmd.AddCommand(add, toggle, run)
	cmd.AddCommand(deleteByIDCmd("recurring transaction", func(ctx context.Context, a *app, id string) error {
		return a.ledger.DeleteRecurring(ctx, id)
	}))
	return cmd
}

func parseRecurring(description, amount, typ, category, frequency, start string, now time.Time) (model.RecurringTransaction, error) {
	value, err := parseAmount(amount)
	if err != nil {
		return model.RecurringTransaction{}, err
	}
	t, err := parseType(typ)
	if err != nil {
		return model.RecurringTransaction{}, err
	}
	r := model.RecurringTransaction{
		Description: strings.TrimSpace(description),
		Amount:      value,
		Type:        t,
		Frequency:   model.Frequency(strings.ToLower(frequency)),
		StartDate:   model.TruncateDay(now),
	}
	if !r.Frequency.Valid() {
		return model.RecurringTransaction{}, common.NewUserError(fmt.Sprintf("unknown frequency %q", frequency), nil)
	}
	switch {
	case t == model.TypeIncome:
		r.Category = model.CategoryIncome
	case category == "":
		r.Category = model.CategoryMisc
	default:
		if r.Category, err = parseCategory(category); err != nil {
			return model.RecurringTransaction{}, err
		}
	}
	if start != "" {
		if r.StartDate, err = time.Parse(model.DateLayout, start); err != nil {
			return model.RecurringTransaction{}, common.NewUserError("start must be YYYY-MM-DD", common.ErrInvalidDate)
		}
	}
	return r, nil
}

func runRecurring(ctx context.Context, a *app, args []string) error {
	if len(args) == 1 {
		txn, err := a.ledger.ExecuteRecurring(ctx, args[0])
		if err != nil {
			return common.NewUserError("could not run recurring transaction", err)
		}
		a.println(cli.FormatSuccess("Recorded " + txn.Description))
		return nil
	}

	created, err := a.ledger.ProcessDue(ctx)
	if err != nil {
		return common.NewUserError("could not process recurring transactions", err)
	}
	if len(created) == 0 {
		a.println(cli.FormatInfo("Nothing is due."))
		return nil
	}
	a.println(cli.FormatSuccess(fmt.Sprintf("Recorded %d due transactions", len(created))))
	a.println(renderTransactions(created))
	return nil
}

func renderRecurring(items []model.RecurringTransaction) string {
	if len(items) == 0 {
		return cli.FormatInfo("No recurring transactions yet. Add one with: mentor recurring add <description> <amount>")
	}
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		status := cli.SuccessStyle.Render("active")
		if !r.IsActive {
			status = cli.SubtleStyle.Render("paused")
		}
		amount := model.Transaction{Type: r.Type, Amount: r.Amount}
		rows = append(rows, []string{
			cli.RepeatIcon + " " + r.Description,
			cli.FormatSigned(amount),
			r.Category.Label(),
			string(r.Frequency),
			r.NextDate.Format(model.DateLayout),
			status,
			cli.SubtleStyle.Render(r.ID),
		})
	}
	return cli.RenderTable([]string{"Description", "Amount", "Category", "Frequency", "Next", "Status", "ID"}, rows)
}

// deleteByIDCmd builds a "delete <id>" subcommand for a planning collection.
func deleteByIDCmd(noun string, del func(ctx context.Context, a *app, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := del(ctx, a, args[0]); err != nil {
					return common.NewUserError("could not delete "+noun, err)
				}
				a.println(cli.FormatSuccess("Deleted " + args[0]))
				return nil
			})
		},
	}
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(s), "$"), 64)
	if err != nil || v <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("amount %q must be a positive number", s), common.ErrInvalidAmount)
	}
	return v, nil
}
