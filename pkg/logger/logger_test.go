package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestErrorRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &buf})

	logg.Error(context.Background(), "cart fetch failed", errors.New("invalid ecom token abc"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	msg, _ := entry["error"].(string)
	if strings.Contains(msg, "token") {
		t.Fatalf("expected redacted error, got %q", msg)
	}
	if !strings.Contains(msg, "[REDACTED]") {
		t.Fatalf("expected redaction marker, got %q", msg)
	}
}

func TestWithFieldsAreCarriedByContext(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithWebsite(context.Background(), "ramilevy")
	ctx = logg.WithOperation(ctx, "search_products")
	logg.Info(ctx, "adapter.call")

	out := buf.String()
	if !strings.Contains(out, `"website":"ramilevy"`) || !strings.Contains(out, `"operation":"search_products"`) {
		t.Fatalf("expected context fields in output, got %s", out)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logg *Logger
	ctx := logg.WithField(context.Background(), "k", "v")
	logg.Info(ctx, "ignored")
	logg.Error(ctx, "ignored", errors.New("boom"))
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatalf("expected debug level")
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatalf("expected info fallback")
	}
}
