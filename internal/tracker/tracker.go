// Package tracker persists run bookkeeping next to the pipeline: a
// run_state.json snapshot of the in-flight run, a lock that keeps two
// runs from mutating the same log and notebook artifacts, and cumulative
// run metrics. None of this is resume state; nbpipe always re-executes
// every stage.
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Writer knows the fixed paths of every tracker artifact in a directory.
type Writer struct {
	Dir          string
	RunStatePath string
	LockPath     string
	MetricsPath  string
}

// NewWriter creates a tracker writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		Dir:          dir,
		RunStatePath: filepath.Join(dir, "run_state.json"),
		LockPath:     filepath.Join(dir, ".nbpipe_lock"),
		MetricsPath:  filepath.Join(dir, "run_metrics.json"),
	}
}

// WriteRunState atomically replaces run_state.json.
func (w *Writer) WriteRunState(s RunState) error {
	return writeJSONAtomic(w.RunStatePath, s)
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
