// Package runlog maintains the pipeline's lifecycle log artifact: a plain
// text file with one human-readable line per event (stage start, stage
// failure, pipeline completion). The file is strictly append-only; re-runs
// add lines after whatever a previous run wrote, never truncating.
package runlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Log is a single-writer handle on the append-only log file.
type Log struct {
	path string
	mu   sync.Mutex
	f    *os.File
}

// Open opens (creating if needed) the log file for appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	return &Log{path: path, f: f}, nil
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Event appends one timestamped line to the log.
func (l *Log) Event(format string, args ...any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf(format, args...)
	if _, err := fmt.Fprintf(l.f, "[%s] %s\n", stamp, line); err != nil {
		return fmt.Errorf("failed to append to run log: %w", err)
	}
	return nil
}

// Close closes the log file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
