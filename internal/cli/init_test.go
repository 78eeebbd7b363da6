package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:            "8081",
		DataBackend:     "sqlite",
		SQLiteDBPath:    filepath.Join(t.TempDir(), "tracker.db"),
		LogLevel:        "info",
		LogFormat:       "text",
		CacheTTL:        time.Minute,
		CacheSize:       8,
		ShutdownTimeout: time.Second,
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogFormat = "JSON"
	var buf bytes.Buffer

	logger, err := SetupLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}
	logger.Info("hello")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	cfg.LogLevel = "loud"
	if _, err := SetupLogger(cfg, &buf); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestOpenTrackerPersistsAcrossSessions(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := OpenTracker(ctx, cfg, log.Discard())
	if err != nil {
		t.Fatalf("OpenTracker() error = %v", err)
	}
	if _, _, err := first.Tracker.AddExpense(ctx, core.Draft{Title: "Lunch", Amount: "12.5", Category: core.Food}); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := OpenTracker(ctx, cfg, log.Discard())
	if err != nil {
		t.Fatalf("OpenTracker() error = %v", err)
	}
	defer second.Close()

	snap := second.Tracker.Snapshot()
	if len(snap.Expenses) != 1 || snap.Expenses[0].Title != "Lunch" {
		t.Fatalf("expected persisted expense, got %+v", snap.Expenses)
	}
	if second.Report.Reset {
		t.Errorf("unexpected reset: %v", second.Report.Err)
	}
}

func TestOpenTrackerRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataBackend = "sheets"
	if _, err := OpenTracker(context.Background(), cfg, log.Discard()); err == nil {
		t.Fatal("expected error")
	}
}

func TestGracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := GracefulShutdown(ctx, log.Discard(), time.Second, func(sctx context.Context) error {
		called = true
		if _, ok := sctx.Deadline(); !ok {
			t.Error("shutdown context should carry a deadline")
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("GracefulShutdown() = %v, called = %v", err, called)
	}

	boom := errors.New("boom")
	err = GracefulShutdown(ctx, log.Discard(), time.Second, func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("GracefulShutdown() = %v, want wrapped boom", err)
	}
}

func TestUsageBar(t *testing.T) {
	tests := []struct {
		percent string
		want    string
	}{
		{"0", "░░░░░░░░░░"},
		{"45", "████░░░░░░"},
		{"100", "██████████"},
		{"250", "██████████"},
		{"-10", "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := UsageBar(decimal.RequireFromString(tt.percent), 10); got != tt.want {
			t.Errorf("UsageBar(%s) = %q, want %q", tt.percent, got, tt.want)
		}
	}
	if UsageBar(decimal.NewFromInt(50), 0) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestStatusStyle(t *testing.T) {
	if StatusStyle(core.StatusOverBudget).GetForeground() != ErrorColor {
		t.Error("over budget should render as an error")
	}
	if StatusStyle(core.StatusGood).GetForeground() != SuccessColor {
		t.Error("good should render as success")
	}
}
