package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "autograde.log")

	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogPhase("/tmp/ada_lovelace.c", "compile", "diagnostics", 2)
	Logger().Debugw("hidden at info level")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, `"submission":"ada_lovelace.c"`) {
		t.Fatalf("expected submission base name, got: %s", content)
	}
	if !strings.Contains(content, `"phase":"compile"`) || !strings.Contains(content, `"diagnostics":2`) {
		t.Fatalf("expected phase fields, got: %s", content)
	}
	if strings.Contains(content, "hidden at info level") {
		t.Fatalf("debug entry should be filtered, got: %s", content)
	}
}

func TestInitDebugLevelWritesDebugEntries(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	if err := Init(logPath, true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Logger().Debugw("debug entry", "key", "value")
	if err := Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "debug entry") {
		t.Fatalf("expected debug entry, got: %s", data)
	}
}

func TestInitDiscard(t *testing.T) {
	if err := Init("", false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("discard")
	if err := Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

func TestSubmissionLabelDefaults(t *testing.T) {
	if got := submissionLabel("  "); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
	if got := submissionLabel("dir/x_y.c"); got != "x_y.c" {
		t.Fatalf("expected base name, got %q", got)
	}
}
