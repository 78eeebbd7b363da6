package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	"expensetracker/internal/log"
)

var (
	version = "dev"

	appConfig *config.Config
	logger    *log.Logger

	rootCmd = &cobra.Command{
		Use:   "tracker",
		Short: "Personal expense tracker",
		Long: `tracker records expenses against per-category budgets and reports
spending by category and by month. Run "tracker serve" for the local JSON
API or use the subcommands directly.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: initApp,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(budgetCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(trendCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(watchCmd())
}

func main() {
	ctx, cancel := cli.SignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func initApp(_ *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	l, err := cli.SetupLogger(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	appConfig, logger = cfg, l
	return nil
}

// withSession opens the configured tracker for the duration of fn.
func withSession(ctx context.Context, fn func(*cli.Session) error) error {
	s, err := cli.OpenTracker(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			logger.Warn("Failed to close backend", log.FieldError, cerr)
		}
	}()
	return fn(s)
}

func requireLogin(s *cli.Session) error {
	if !s.Tracker.IsAuthenticated() {
		return fmt.Errorf("not logged in, run 'tracker login' first")
	}
	return nil
}
