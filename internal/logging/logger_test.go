package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"betarank/internal/config"
	"betarank/internal/logging"
)

func TestNewFromConfigWritesToWriter(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("below configured level")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "below configured level") {
		t.Fatalf("expected info line filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"kept"`) {
		t.Fatalf("expected JSON warn line, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour when writing to a buffer: %q", out)
	}
}

func TestNewFromConfigDefaultsToStderr(t *testing.T) {
	logger, err := logging.NewFromConfig(nil, nil)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "harvest").Info("fetched movies", logging.Int("count", 42), logging.String("order", "popularity"))
	logger.Debug("hidden debug line")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{"INFO", "[harvest]", "fetched movies", "count=42", "order=popularity"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "hidden debug line") {
		t.Fatalf("expected debug line to be filtered at info level, got %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no colour codes when colour disabled, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerCarriesContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithKind(logging.WithRunID(context.Background(), "run-1"), "shows")
	logging.WithContext(ctx, logger).Warn("item dropped", logging.Int64("id", 7))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log line %q: %v", content, err)
	}
	if entry["level"] != "warn" {
		t.Fatalf("expected lower-case level, got %v", entry["level"])
	}
	if entry["run_id"] != "run-1" || entry["kind"] != "shows" {
		t.Fatalf("expected context fields, got %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "detail lookup failed", "item_unavailable", logging.String("title", "Heat"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if entry["event_type"] != "item_unavailable" {
		t.Fatalf("expected event_type, got %v", entry)
	}
	if entry["impact"] == nil {
		t.Fatalf("expected default impact, got %v", entry)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected nop logger to be disabled at every level")
	}
	logging.NewComponentLogger(nil, "x").Info("ignored")
}
