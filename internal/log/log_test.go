package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("%q expected %v, got %v (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf}).WithComponent(ComponentTracker)
	l.Info("hello", FieldKey, "expenses")
	out := buf.String()
	if !strings.Contains(out, `"component":"tracker"`) || !strings.Contains(out, `"key":"expenses"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
	if strings.Count(out, `"component"`) != 1 {
		t.Fatalf("component logged more than once: %s", out)
	}
}

func TestMiddlewareRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "text", Output: &buf})

	var seen string
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		FromContext(r.Context()).InfoContext(r.Context(), "inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen == "" || rr.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rr.Header().Get(RequestIDHeader))
	}
	if !strings.Contains(buf.String(), "status_code=418") || !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("expected warn completion line, got %s", buf.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != "fixed-id" {
		t.Fatalf("expected incoming request id kept, got %q", seen)
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}
