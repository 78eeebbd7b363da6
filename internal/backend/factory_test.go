package backend

import (
	"context"
	"path/filepath"
	"testing"

	"expensetracker/internal/config"
	"expensetracker/internal/kv"
	"expensetracker/internal/kv/memory"
	"expensetracker/internal/storage"
)

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, MemoryQuota: 10})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if _, ok := res.Store.(*memory.Store); !ok {
			t.Fatalf("expected memory store, got %T", res.Store)
		}
		if err := res.Store.Set(ctx, kv.KeyTotalBudget, "this value is too long"); err == nil {
			t.Errorf("expected quota to apply")
		}
		if res.AMQP != nil || res.TrackerOptions() != nil {
			t.Errorf("expected no notifier")
		}
		if err := res.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracker.db")
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		defer res.Close()
		if _, ok := res.Store.(*storage.SQLiteStore); !ok {
			t.Fatalf("expected sqlite store, got %T", res.Store)
		}
		if err := res.Store.Set(ctx, kv.KeyTotalBudget, "2000"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := f.CreateBackend(ctx, Config{Type: "sheets"}); err == nil {
			t.Error("expected error for unknown backend")
		}
		if _, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend}); err == nil {
			t.Error("expected error for missing sqlite path")
		}
	})
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sqlite"}); err == nil {
		t.Error("expected error for sqlite without a path")
	}

	mem, err := FromAppConfig(&config.Config{DataBackend: "Memory", SQLiteDBPath: "/tmp/x.db", MemoryQuota: 1024})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if mem.Type != MemoryBackend || mem.MemoryQuota != 1024 {
		t.Errorf("unexpected memory config: %+v", mem)
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "/tmp/x.db",
		AMQPExchange: "tracker",
		AMQPQueue:    "snapshot_changes",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" || cfg.AMQPQueue != "snapshot_changes" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"negative quota", Config{Type: MemoryBackend, MemoryQuota: -1}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://localhost/", AMQPExchange: "x"}, true},
		{"unknown", Config{Type: "nope"}, true},
		{"sqlite with amqp", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", AMQPURL: "amqp://localhost/", AMQPExchange: "x", AMQPQueue: "q"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTypeNames(t *testing.T) {
	got := TypeNames()
	if len(got) != 2 || got[0] != "sqlite" || got[1] != "memory" {
		t.Errorf("TypeNames() = %v", got)
	}
	for _, bt := range Types() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
}
