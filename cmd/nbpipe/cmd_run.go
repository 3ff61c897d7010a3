package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nbpipe/nbpipe/internal/config"
	"github.com/nbpipe/nbpipe/internal/executor"
	"github.com/nbpipe/nbpipe/internal/logger"
	"github.com/nbpipe/nbpipe/internal/pipeline"
	"github.com/nbpipe/nbpipe/internal/runlog"
	"github.com/nbpipe/nbpipe/internal/status"
	"github.com/nbpipe/nbpipe/internal/tracker"
	"github.com/nbpipe/nbpipe/internal/watch"
)

const (
	exitOK       = 0
	exitError    = 1
	exitLockHeld = 2
)

func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configFile := fs.String("config", "nbpipe.yaml", "Path to pipeline config (built-in default pipeline if absent)")
	logLevel := fs.String("log-level", "info", "Diagnostic log level: debug, info, warn, error")
	dryRun := fs.Bool("dry-run", false, "Log lifecycle events without executing any notebook")
	watchMode := fs.Bool("watch", false, "Re-run the pipeline when a notebook source changes")
	fs.Parse(args)

	diag := logger.NewStderr(logger.ParseLevel(*logLevel))

	loader := config.NewLoader()
	cfg, err := loader.LoadOrDefault(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	if errs := config.Validate(cfg); errs.HasErrors() {
		fmt.Fprintln(os.Stderr, errs.Error())
		return exitError
	}

	stages, err := pipeline.StagesFromConfig(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}

	var exec executor.Executor = executor.NewNbconvert(cfg.Executor)
	if *dryRun {
		exec = executor.DryRun{}
	}

	trk := tracker.NewWriter(".")
	runID := tracker.NewRunID()
	releaseLock, err := trk.AcquireLock(runID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, tracker.ErrLockHeld) {
			return exitLockHeld
		}
		return exitError
	}
	defer func() { _ = releaseLock() }()
	_, _ = trk.LoadOrInitMetrics(runID)

	rlog, err := runlog.Open(cfg.GetLogPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	defer rlog.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	runner := pipeline.NewRunner(stages, exec, rlog, diag)
	disp := status.New()
	wireTracking(runner, trk, disp, cfg, runID)

	code := runPipeline(ctx, runner, disp)
	if *watchMode {
		return watchLoop(ctx, runner, trk, disp, stages, runID, diag)
	}
	trk.RecordExit(runID, code)
	return code
}

// wireTracking attaches the terminal display and run_state.json writer to
// the runner's stage callbacks.
func wireTracking(runner *pipeline.Runner, trk *tracker.Writer, disp *status.Writer, cfg *config.Config, runID string) {
	startedAt := time.Now()
	lastSuccessful := ""
	total := len(runner.Stages())

	writeState := func(stage pipeline.Stage, st string, lastErr error) {
		rs := tracker.RunState{
			RunID:          runID,
			PID:            os.Getpid(),
			Pipeline:       cfg.Name,
			StartedAt:      startedAt,
			UpdatedAt:      time.Now(),
			CurrentStage:   stage.Name,
			StagePosition:  stage.Position,
			StagesTotal:    total,
			LastSuccessful: lastSuccessful,
			Status:         st,
		}
		if lastErr != nil {
			rs.LastError = lastErr.Error()
		}
		_ = trk.WriteRunState(rs)
	}

	runner.SetObserver(pipeline.StageObserver{
		OnStageStart: func(stage pipeline.Stage, total int) {
			disp.Stage(stage.Position, total, stage.Name)
			writeState(stage, "running", nil)
		},
		OnStageDone: func(stage pipeline.Stage, total int, _ time.Duration, err error) {
			trk.AddStagesRun(runID, 1)
			if err != nil {
				writeState(stage, "failed", err)
				return
			}
			lastSuccessful = stage.Name
			writeState(stage, "running", nil)
		},
	})
}

// runPipeline runs once and translates the typed result into the process
// exit code. This is the only place that decision is made.
func runPipeline(ctx context.Context, runner *pipeline.Runner, disp *status.Writer) int {
	err := runner.Run(ctx)
	total := len(runner.Stages())

	var stageErr *pipeline.StageError
	switch {
	case err == nil:
		disp.Complete(total)
		return exitOK
	case errors.As(err, &stageErr):
		disp.Error(stageErr.Stage.Position, total, stageErr.Stage.Name, stageErr.Err)
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", stageErr)
		return stageErr.ExitCode()
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Pipeline interrupted")
		return exitError
	default:
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		return exitError
	}
}

// watchLoop re-runs the pipeline whenever a notebook source changes. Every
// run re-executes all stages from the beginning; watch mode exits only on
// interrupt.
func watchLoop(ctx context.Context, runner *pipeline.Runner, trk *tracker.Writer, disp *status.Writer, stages []pipeline.Stage, runID string, diag logger.Logger) int {
	paths := make([]string, 0, len(stages))
	for _, s := range stages {
		paths = append(paths, s.Notebook)
	}

	watcher, err := watch.New(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	if err := watcher.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	defer watcher.Stop()

	disp.Waiting(len(stages))
	for {
		select {
		case <-ctx.Done():
			trk.RecordExit(runID, exitOK)
			return exitOK
		case ev, ok := <-watcher.Events():
			if !ok {
				return exitOK
			}
			if ev.Err != nil {
				diag.Warn("Watcher error", logger.F("error", ev.Err))
				continue
			}
			diag.Info("Notebook changed, re-running pipeline", logger.F("notebook", ev.Path))
			runPipeline(ctx, runner, disp)
			if ctx.Err() == nil {
				disp.Waiting(len(stages))
			}
		}
	}
}
