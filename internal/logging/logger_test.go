package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "info", "json"))
	logger.Info("hello", "k", "v")

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json handler output = %q, want JSON object", buf.String())
	}

	buf.Reset()
	logger = slog.New(NewHandler(&buf, "warn", "text"))
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}
}

func TestFromContext_OperationID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(NewHandler(&buf, "info", "text")))
	defer slog.SetDefault(prev)

	ctx := WithOperation(context.Background(), "abc-123")
	if got := OperationID(ctx); got != "abc-123" {
		t.Fatalf("OperationID() = %q, want %q", got, "abc-123")
	}

	WithFields(ctx, "file", "inventory.csv").Info("import started")
	out := buf.String()
	if !strings.Contains(out, "op_id=abc-123") {
		t.Errorf("log output %q missing op_id", out)
	}
	if !strings.Contains(out, "file=inventory.csv") {
		t.Errorf("log output %q missing file field", out)
	}
}

func TestOperationID_Empty(t *testing.T) {
	if got := OperationID(context.Background()); got != "" {
		t.Errorf("OperationID() = %q, want empty", got)
	}
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "app.log")
	w := Setup(Options{Level: "info", Format: "text", File: path, MaxSizeMB: 1, MaxBackups: 1})
	slog.Info("written to file")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q, want record", string(data))
	}
}
