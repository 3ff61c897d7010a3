package tracker

import (
	"encoding/json"
	"os"
	"time"
)

// RunMetrics accumulates across runs in the same directory.
type RunMetrics struct {
	StartedAt      time.Time  `json:"started_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	TotalRuns      int        `json:"total_runs"`
	TotalStagesRun int        `json:"total_stages_run"`
	LastRunID      string     `json:"last_run_id,omitempty"`
	LastExitCode   int        `json:"last_exit_code"`
}

// LoadMetrics reads run_metrics.json. Missing or corrupted files yield
// (nil, nil).
func (w *Writer) LoadMetrics() (*RunMetrics, error) {
	b, err := os.ReadFile(w.MetricsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var m RunMetrics
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, nil
	}
	return &m, nil
}

// SaveMetrics writes run_metrics.json atomically.
func (w *Writer) SaveMetrics(m *RunMetrics) error {
	return writeJSONAtomic(w.MetricsPath, m)
}

// LoadOrInitMetrics loads metrics, initializing a fresh record when none
// exists, and stamps the new run.
func (w *Writer) LoadOrInitMetrics(runID string) (*RunMetrics, error) {
	m, err := w.LoadMetrics()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if m == nil {
		m = &RunMetrics{StartedAt: now}
	}
	if m.StartedAt.IsZero() {
		m.StartedAt = now
	}
	m.UpdatedAt = now
	m.TotalRuns++
	m.LastRunID = runID
	if err := w.SaveMetrics(m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddStagesRun records how many stages a run invoked.
func (w *Writer) AddStagesRun(runID string, n int) {
	m, err := w.LoadMetrics()
	if err != nil || m == nil {
		return
	}
	m.TotalStagesRun += n
	m.UpdatedAt = time.Now()
	m.LastRunID = runID
	_ = w.SaveMetrics(m)
}

// RecordExit stamps the run's final exit code and completion time.
func (w *Writer) RecordExit(runID string, code int) {
	m, err := w.LoadMetrics()
	if err != nil || m == nil {
		return
	}
	now := time.Now()
	m.CompletedAt = &now
	m.UpdatedAt = now
	m.LastRunID = runID
	m.LastExitCode = code
	_ = w.SaveMetrics(m)
}
