package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEventAppendsTimestampedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline_log.txt")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer l.Close()

	if err := l.Event("Starting stage %d/%d: %s", 1, 4, "exploration"); err != nil {
		t.Fatalf("Event failed: %v", err)
	}
	if err := l.Event("Pipeline complete: all %d stages succeeded", 4); err != nil {
		t.Fatalf("Event failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "[") {
			t.Errorf("line %d missing timestamp prefix: %q", i, line)
		}
	}
	if !strings.HasSuffix(lines[0], "Starting stage 1/4: exploration") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
}

func TestReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline_log.txt")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := l.Event("first run"); err != nil {
		t.Fatalf("Event failed: %v", err)
	}
	l.Close()

	// Reopening never truncates or reorders earlier content.
	l2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if err := l2.Event("second run"); err != nil {
		t.Fatalf("Event failed: %v", err)
	}
	l2.Close()

	b, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after reopen, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "first run") || !strings.Contains(lines[1], "second run") {
		t.Errorf("lines out of order: %v", lines)
	}
}
