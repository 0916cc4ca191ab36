package main

import (
	"context"
	"io"

	"github.com/Veraticus/finance-mentor/internal/cli"
	"github.com/Veraticus/finance-mentor/internal/common"
	"github.com/Veraticus/finance-mentor/internal/config"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <dest>",
		Short: "Copy the ledger database to a new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := config.ExpandPath(args[0])
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.store.Backup(ctx, dest); err != nil {
					return common.NewUserError("backup failed", err)
				}
				a.println(cli.FormatSuccess("Backed up to " + dest))
				return nil
			})
		},
	}
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every transaction, budget, goal and recurring entry",
		Long: `Reset clears the ledger and reloads the sample dataset.
Run "mentor backup" first if you want to keep anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runReset(ctx, a, cmd.InOrStdin(), yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runReset(ctx context.Context, a *app, in io.Reader, yes bool) error {
	if !yes {
		ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(in), a.out, "Delete all ledger data?")
		if err != nil {
			return err
		}
		if !ok {
			a.println(cli.FormatInfo("Nothing changed."))
			return nil
		}
	}
	if err := a.ledger.Reset(ctx); err != nil {
		return common.NewUserError("reset failed", err)
	}
	a.println(cli.FormatSuccess("Ledger reset to sample data"))
	return nil
}
