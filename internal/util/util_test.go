// internal/util/util_test.go
package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesParentsAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.csv")
	if err := WriteFile(path, []byte("first run, longer content")); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected file overwritten, got %q", data)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("héllo", 10); got != "héllo" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := TruncateRunes("héllo world", 5); got != "héllo…" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("\n  \n  ada.c:3: error: x  \nmore"); got != "ada.c:3: error: x" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := FirstLine(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestBoolToInt(t *testing.T) {
	if BoolToInt(true) != 1 || BoolToInt(false) != 0 {
		t.Fatal("unexpected BoolToInt result")
	}
}
