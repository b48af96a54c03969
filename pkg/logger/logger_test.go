package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Re-init is allowed and replaces the global.
	if err := Init(); err != nil {
		t.Fatalf("failed to re-initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after re-initialization")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "test message", String("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "test message") {
		t.Fatalf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "k=v") {
		t.Fatalf("log output missing field: %q", out)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf), WithLevel(slog.LevelWarn)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "suppressed")
	Get().Warn(ctx, "emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info record emitted at warn level: %q", out)
	}
	if !strings.Contains(out, "emitted") {
		t.Fatalf("warn record missing: %q", out)
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("SetLevelString: %v", err)
	}
	Get().Debug(ctx, "now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatal("debug record missing after level change")
	}

	if err := SetLevelString("bogus"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "test message")
}
