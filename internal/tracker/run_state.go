package tracker

import (
	"encoding/json"
	"os"
	"time"
)

// RunState is a snapshot of the in-flight (or last) run, written
// atomically so an operator can inspect a hung or crashed run. It is
// never read back to resume: a new run starts from stage one regardless.
type RunState struct {
	RunID          string    `json:"run_id"`
	PID            int       `json:"pid"`
	Pipeline       string    `json:"pipeline"`
	StartedAt      time.Time `json:"started_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CurrentStage   string    `json:"current_stage,omitempty"`
	StagePosition  int       `json:"stage_position,omitempty"`
	StagesTotal    int       `json:"stages_total"`
	LastSuccessful string    `json:"last_successful_stage,omitempty"`
	Status         string    `json:"status"`
	LastError      string    `json:"last_error,omitempty"`
}

// LoadRunState reads run_state.json if present. A missing or corrupted
// file yields (nil, nil); it is advisory data only.
func (w *Writer) LoadRunState() (*RunState, error) {
	b, err := os.ReadFile(w.RunStatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s RunState
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, nil
	}
	return &s, nil
}
