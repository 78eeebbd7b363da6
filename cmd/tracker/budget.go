package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show or change budgets",
	}

	cmd.AddCommand(showBudgetsCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(setTotalBudgetCmd())
	return cmd
}

func showBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show category budgets and the total budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				snap := s.Tracker.Snapshot()

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				printHeader(w, "CATEGORY", "BUDGET")
				for _, c := range core.Categories {
					fmt.Fprintf(w, "%s\t%s\n", c.Label(), core.FormatAmount(snap.CategoryBudgets.Get(c)))
				}
				fmt.Fprintf(w, "%s\t%s\n", cli.SubtleStyle.Render("Sum"), core.FormatAmount(snap.CategoryBudgets.Sum()))
				fmt.Fprintf(w, "%s\t%s\n", cli.TitleStyle.Render("Total"), core.FormatAmount(snap.TotalBudget))
				return w.Flush()
			})
		},
	}
}

func setBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set the budget for one category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				if err := requireLogin(s); err != nil {
					return err
				}
				c, err := core.ParseCategory(args[0])
				if err != nil {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("category %q is not recognized", c)))
				}
				coerced := s.Tracker.SetCategoryBudget(cmd.Context(), c, args[1])
				warnCoerced(coerced)
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s budget set to %s", c.Label(), core.FormatAmount(coerced.Value))))
				return nil
			})
		},
	}
}

func setTotalBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total <amount>",
		Short: "Set the total budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				if err := requireLogin(s); err != nil {
					return err
				}
				coerced := s.Tracker.SetTotalBudget(cmd.Context(), args[0])
				warnCoerced(coerced)
				fmt.Println(cli.FormatSuccess("Total budget set to " + core.FormatAmount(coerced.Value)))
				return nil
			})
		},
	}
}
