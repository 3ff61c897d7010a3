// Package pipeline executes an ordered list of notebook stages with
// fail-fast semantics. The runner never decides the process exit code
// itself: it returns a typed StageError and leaves the exit translation
// to the CLI layer.
package pipeline

import (
	"context"
	"time"

	"github.com/nbpipe/nbpipe/internal/executor"
	"github.com/nbpipe/nbpipe/internal/logger"
	"github.com/nbpipe/nbpipe/internal/runlog"
)

// Status represents the runner's position in its state machine.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusRunning    Status = "RUNNING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

// State holds the current run state. Transitions only move forward through
// stage positions; Succeeded and Failed are terminal.
type State struct {
	Status       Status
	CurrentStage int // 1-based position; 0 before the first stage starts
	StartTime    time.Time
}

// StageObserver receives callbacks around stage execution. Used by the CLI
// for the terminal display and run-state tracking; nil callbacks are fine.
type StageObserver struct {
	OnStageStart func(stage Stage, total int)
	OnStageDone  func(stage Stage, total int, duration time.Duration, err error)
}

// Runner executes a fixed stage sequence exactly once per Run call. There
// is no retry, no resume, and no skip logic: a failure at stage i stops
// the run, and a later Run re-executes every stage from the beginning.
type Runner struct {
	stages   []Stage
	exec     executor.Executor
	log      *runlog.Log
	logger   logger.Logger
	observer StageObserver
	state    State
}

// NewRunner creates a runner over the given stages. The run log is passed
// in explicitly; the runner owns no global file handles.
func NewRunner(stages []Stage, exec executor.Executor, log *runlog.Log, diag logger.Logger) *Runner {
	if diag == nil {
		diag = logger.NewNoopLogger()
	}
	return &Runner{
		stages: stages,
		exec:   exec,
		log:    log,
		logger: diag,
		state:  State{Status: StatusNotStarted},
	}
}

// SetObserver attaches per-stage callbacks.
func (r *Runner) SetObserver(obs StageObserver) {
	r.observer = obs
}

// State returns the current run state.
func (r *Runner) State() State {
	return r.state
}

// Stages returns the immutable stage list.
func (r *Runner) Stages() []Stage {
	return r.stages
}

// Run executes every stage in order. It returns nil when all stages
// succeed, a *StageError when a stage's collaborator fails, or the
// context's error when the run is cancelled between stages.
//
// Lifecycle lines are appended to the run log: one "starting" line per
// stage reached, a failure line for the failing stage, and a completion
// line only when every stage succeeded.
func (r *Runner) Run(ctx context.Context) error {
	total := len(r.stages)
	r.state = State{Status: StatusRunning, StartTime: time.Now()}

	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			r.state.Status = StatusFailed
			return err
		}

		r.state.CurrentStage = stage.Position

		if err := r.log.Event("Starting stage %d/%d: %s (%s)",
			stage.Position, total, stage.Name, stage.Notebook); err != nil {
			r.state.Status = StatusFailed
			return err
		}
		if r.observer.OnStageStart != nil {
			r.observer.OnStageStart(stage, total)
		}
		r.logger.Debug("Executing stage",
			logger.F("stage", stage.Name),
			logger.F("position", stage.Position),
			logger.F("notebook", stage.Notebook),
		)

		start := time.Now()
		execErr := r.exec.Execute(ctx, stage.Notebook)
		duration := time.Since(start)

		if r.observer.OnStageDone != nil {
			r.observer.OnStageDone(stage, total, duration, execErr)
		}

		if execErr != nil {
			r.state.Status = StatusFailed
			// Failure is fatal to the whole run: no later stage is
			// invoked and no completion line is written.
			_ = r.log.Event("Stage %s failed (exit code %d): %v",
				stage.Name, stage.FailureCode, execErr)
			r.logger.Error("Stage failed",
				logger.F("stage", stage.Name),
				logger.F("position", stage.Position),
				logger.F("duration", duration),
				logger.F("error", execErr),
			)
			return &StageError{Stage: stage, Err: execErr}
		}

		r.logger.Debug("Stage complete",
			logger.F("stage", stage.Name),
			logger.F("duration", duration),
		)
	}

	r.state.Status = StatusSucceeded
	if err := r.log.Event("Pipeline complete: all %d stages succeeded", total); err != nil {
		return err
	}
	r.logger.Info("Pipeline complete",
		logger.F("stages", total),
		logger.F("duration", time.Since(r.state.StartTime)),
	)
	return nil
}
