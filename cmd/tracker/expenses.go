package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
)

func addCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <title> <amount>",
		Short: "Record an expense dated now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				if err := requireLogin(s); err != nil {
					return err
				}
				c, err := core.ParseCategory(category)
				if err != nil {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("category %q is not recognized, it will not count toward totals", c)))
				}

				e, coerced, err := s.Tracker.AddExpense(cmd.Context(), core.Draft{Title: args[0], Amount: args[1], Category: c})
				if err != nil {
					return err
				}
				warnCoerced(coerced)
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added #%d %s %s (%s)", e.ID, e.Title, core.FormatAmount(e.Amount), e.Category.Label())))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(core.Other), "expense category")
	return cmd
}

func updateCmd() *cobra.Command {
	var title, amount, category string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an expense; its date becomes now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}

			var patch core.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("amount") {
				patch.Amount = &amount
			}
			if cmd.Flags().Changed("category") {
				c, _ := core.ParseCategory(category)
				patch.Category = &c
			}
			if err := patch.Validate(); err != nil {
				return err
			}

			return withSession(cmd.Context(), func(s *cli.Session) error {
				if err := requireLogin(s); err != nil {
					return err
				}
				e, found, err := s.Tracker.UpdateExpense(cmd.Context(), id, patch)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("expense %d not found", id)
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated #%d %s %s (%s)", e.ID, e.Title, core.FormatAmount(e.Amount), e.Category.Label())))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}
			return withSession(cmd.Context(), func(s *cli.Session) error {
				if err := requireLogin(s); err != nil {
					return err
				}
				if s.Tracker.DeleteExpense(cmd.Context(), id) == 0 {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("No expense with id %d", id)))
					return nil
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted #%d", id)))
				return nil
			})
		},
	}
}

func listCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				expenses := s.Tracker.ExpensesByRecency()
				if category != "" {
					want, _ := core.ParseCategory(category)
					filtered := expenses[:0]
					for _, e := range expenses {
						if e.Category == want {
							filtered = append(filtered, e)
						}
					}
					expenses = filtered
				}
				if len(expenses) == 0 {
					fmt.Println(cli.SubtleStyle.Render("No expenses yet. Use 'tracker add' to record one."))
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				printHeader(w, "ID", "DATE", "CATEGORY", "AMOUNT", "TITLE")
				for _, e := range expenses {
					label := e.Category.Label()
					if !e.Category.IsKnown() {
						label = cli.SubtleStyle.Render(string(e.Category) + " (unknown)")
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
						e.ID, e.Date.Local().Format("2006-01-02 15:04"), label, core.FormatAmount(e.Amount), e.Title)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	return cmd
}

func warnCoerced(c core.Coerced) {
	switch {
	case c.Invalid:
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%q is not a number, stored as 0", c.Input)))
	case c.Clamped:
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%q is negative, stored as 0", c.Input)))
	}
}
