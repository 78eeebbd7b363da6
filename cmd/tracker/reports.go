package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show spending against budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				sum := s.Tracker.Summary()

				fmt.Println(cli.TitleStyle.Render("Overview"))
				fmt.Printf("Total budget:   %s\n", core.FormatAmount(sum.TotalBudget))
				fmt.Printf("Total expenses: %s\n", core.FormatAmount(sum.TotalExpenses))
				remaining := core.FormatAmount(sum.Remaining)
				if sum.Remaining.IsNegative() {
					remaining = cli.ErrorStyle.Render(remaining)
				}
				fmt.Printf("Remaining:      %s\n\n", remaining)

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				printHeader(w, "CATEGORY", "SPENT", "BUDGET", "USED", "")
				for _, u := range s.Tracker.BudgetUsage() {
					style := cli.StatusStyle(u.Status)
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						u.Category.Label(),
						core.FormatAmount(u.Spent),
						core.FormatAmount(u.Budget),
						style.Render(u.Percent.StringFixed(1)+"%"),
						style.Render(cli.UsageBar(u.Percent, 20)))
				}
				return w.Flush()
			})
		},
	}
}

func trendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Show monthly spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				trend := s.Tracker.Trend()
				if len(trend.Months) == 0 {
					fmt.Println(cli.SubtleStyle.Render("No expenses yet."))
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
				printHeader(w, append([]string{"CATEGORY"}, trend.Months...)...)
				for _, c := range core.Categories {
					cells := []string{c.Label()}
					for _, v := range trend.Series[c] {
						cells = append(cells, core.FormatAmount(v))
					}
					fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
				}
				totals := []string{"Total"}
				for _, m := range s.Tracker.MonthlyOverviews() {
					totals = append(totals, core.FormatAmount(m.Total))
				}
				fmt.Fprintln(w, strings.Join(totals, "\t")+"\t")
				return w.Flush()
			})
		},
	}
}

func printHeader(w io.Writer, cells ...string) {
	styled := make([]string, len(cells))
	for i, c := range cells {
		styled[i] = cli.HeaderStyle.Render(c)
	}
	fmt.Fprintln(w, strings.Join(styled, "\t")+"\t")
}
