package log

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func bufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf, ComponentStore)
	logger.Info("loaded", FieldKey, "tasks")

	out := buf.String()
	if !strings.Contains(out, "component=store") || !strings.Contains(out, "key=tasks") {
		t.Errorf("log line = %q", out)
	}

	buf.Reset()
	logger.WithComponent(ComponentLookup).Warn("slow")
	if !strings.Contains(buf.String(), "component=lookup") {
		t.Errorf("WithComponent log line = %q", buf.String())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithEntity("task", 42).WithError(errors.New("boom")).WithError(nil)
	if f[FieldEntity] != "task" || f[FieldEntityID] != int64(42) || f[FieldError] != "boom" {
		t.Errorf("fields = %v", f)
	}
	if _, ok := NewFields().WithEntity("task", 0)[FieldEntityID]; ok {
		t.Error("zero id should be omitted")
	}
	if got := len(f.ToSlice()); got != 6 {
		t.Errorf("ToSlice() len = %d, want 6", got)
	}
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf, ComponentHTTP)

	var seen *Logger
	h := Middleware(logger, func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = FromContext(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state?x=1", nil))

	if seen == nil || seen.Component() != ComponentHTTP {
		t.Fatalf("handler did not receive the request logger")
	}
	out := buf.String()
	for _, want := range []string{"request_id=req-1", "status_code=418", "level=WARN", "path=/api/state"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
