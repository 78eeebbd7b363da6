package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "tracker.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, ok, err := s.Get(ctx, "expenses"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "expenses", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "expenses", `[{"id":1}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "expenses")
	if err != nil || !ok || v != `[{"id":1}]` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", v, ok, err)
	}
	if _, ok, err := s.UpdatedAt(ctx, "expenses"); !ok || err != nil {
		t.Fatalf("expected updated_at, got ok=%v err=%v", ok, err)
	}
	if err := s.Remove(ctx, "expenses"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "expenses"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)
	if err := s.Set(ctx, "totalBudget", "2000"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	v, ok, err := reopened.Get(ctx, "totalBudget")
	if err != nil || !ok || v != "2000" {
		t.Fatalf("unexpected value after reopen: %q ok=%v err=%v", v, ok, err)
	}
}

func TestLastWrite(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, ok, err := s.LastWrite(ctx); ok || err != nil {
		t.Fatalf("expected no writes yet, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "expenses", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "unrelated", `x`); err != nil {
		t.Fatalf("set: %v", err)
	}
	at, ok, err := s.LastWrite(ctx)
	if err != nil || !ok {
		t.Fatalf("LastWrite() ok=%v err=%v", ok, err)
	}
	want, _, _ := s.UpdatedAt(ctx, "expenses")
	if !at.Equal(want) {
		t.Fatalf("LastWrite() = %v, want %v", at, want)
	}
}

func TestSchemaVersion(t *testing.T) {
	_, path := newTestStore(t)
	version, dirty, err := SchemaVersion(path)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 1 || dirty {
		t.Fatalf("expected clean version 1, got %d dirty=%v", version, dirty)
	}
}

func TestStoreSchemaVersion(t *testing.T) {
	s, _ := newTestStore(t)
	version, dirty, err := s.SchemaVersion()
	if err != nil || version != 1 || dirty {
		t.Fatalf("SchemaVersion() = %d, %v, %v", version, dirty, err)
	}
}
