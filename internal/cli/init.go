// Package cli holds the start-up steps shared by every tracker command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	"expensetracker/internal/log"
	"expensetracker/internal/tracker"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg and installs it as
// the slog default. Logs go to out, stderr when nil.
func SetupLogger(cfg *config.Config, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stderr
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    strings.ToLower(cfg.LogFormat),
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger, nil
}

// Session is an initialized tracker together with the backend it
// persists to. Close drains pending change notifications and then
// releases the backend.
type Session struct {
	Tracker *tracker.Store
	Backend *backend.Result
	Report  tracker.LoadReport
}

func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.Tracker.Close()
	return s.Backend.Close()
}

// OpenTracker creates the configured backend and hydrates a tracker from
// it. Extra options are applied after the backend's own.
func OpenTracker(ctx context.Context, cfg *config.Config, logger *log.Logger, opts ...tracker.Option) (*Session, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}

	all := append([]tracker.Option{tracker.WithLogger(logger)}, res.TrackerOptions()...)
	all = append(all, opts...)
	t := tracker.New(res.Store, all...)

	report := t.Initialize(ctx)
	if report.Reset {
		logger.WarnContext(ctx, "Stored state discarded, starting from defaults",
			log.FieldOperation, log.OpInitialize, log.FieldError, report.Err)
	}
	logger.DebugContext(ctx, "Tracker initialized",
		"loaded", report.Loaded, "missing", report.Missing, "backfilled", report.Backfilled)

	return &Session{Tracker: t, Backend: res, Report: report}, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// GracefulShutdown waits for ctx to end, then runs shutdown with a fresh
// context bounded by timeout.
func GracefulShutdown(ctx context.Context, logger *log.Logger, timeout time.Duration, shutdown func(context.Context) error) error {
	<-ctx.Done()
	logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := shutdown(shutdownCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("Shutdown timeout reached", "timeout", timeout)
	}
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}
