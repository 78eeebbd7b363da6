package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	"expensetracker/internal/fixtures"
	"expensetracker/internal/log"
)

func loginCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Start a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" {
				return errors.New("email is required")
			}
			return withSession(cmd.Context(), func(s *cli.Session) error {
				s.Tracker.SetUser(cmd.Context(), core.User{Email: email, Name: strings.TrimSpace(name)})
				fmt.Println(cli.FormatSuccess("Logged in as " + email))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func logoutCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session and erase all data",
		Long: `logout clears the user together with every expense and budget.
Pass --keep-data to only end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				if keep {
					s.Tracker.EndSession(cmd.Context())
					fmt.Println(cli.FormatSuccess("Session ended, data kept"))
					return nil
				}
				if err := requireLogin(s); err != nil {
					return err
				}
				s.Tracker.ClearUser(cmd.Context())
				fmt.Println(cli.FormatSuccess("Logged out, data cleared"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keep, "keep-data", false, "keep expenses and budgets")
	return cmd
}

func resetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase every expense and budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("reset erases all data, pass --yes to confirm")
			}
			return withSession(cmd.Context(), func(s *cli.Session) error {
				if err := requireLogin(s); err != nil {
					return err
				}
				s.Tracker.Reset(cmd.Context())
				fmt.Println(cli.FormatSuccess("All data erased"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample budgets and expenses",
		Long: `seed sets the sample category budgets and total budget. Sample
expenses for this month and the previous one are only added when no
expenses exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				res := fixtures.Load(cmd.Context(), s.Tracker, time.Now())
				logger.Info("Sample data loaded",
					log.FieldCount, res.ExpensesLoaded,
					"total_budget", res.TotalBudget.String())
				if res.ExpensesLoaded == 0 {
					fmt.Println(cli.FormatWarning("Expenses already present, only budgets were set"))
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Loaded %d expenses, total budget %s",
					res.ExpensesLoaded, core.FormatAmount(res.TotalBudget))))
				return nil
			})
		},
	}
}
