package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nbpipe/nbpipe/internal/executor"
	"github.com/nbpipe/nbpipe/internal/logger"
	"github.com/nbpipe/nbpipe/internal/pipeline"
	"github.com/nbpipe/nbpipe/internal/runlog"
	"github.com/nbpipe/nbpipe/internal/status"
)

type stubExecutor struct {
	failOn string
}

func (s stubExecutor) Execute(ctx context.Context, notebook string) error {
	if s.failOn != "" && notebook == s.failOn {
		return errors.New("exit status 1")
	}
	return ctx.Err()
}

func newTestRunner(t *testing.T, exec executor.Executor) *pipeline.Runner {
	t.Helper()
	rlog, err := runlog.Open(filepath.Join(t.TempDir(), "pipeline_log.txt"))
	if err != nil {
		t.Fatalf("failed to open run log: %v", err)
	}
	t.Cleanup(func() { rlog.Close() })

	stages := []pipeline.Stage{
		{Name: "exploration", Notebook: "01.ipynb", Position: 1, FailureCode: 4},
		{Name: "missing-data", Notebook: "02.ipynb", Position: 2, FailureCode: 5},
		{Name: "transformation", Notebook: "03.ipynb", Position: 3, FailureCode: 6},
		{Name: "aggregation", Notebook: "04.ipynb", Position: 4, FailureCode: 7},
	}
	return pipeline.NewRunner(stages, exec, rlog, logger.NewNoopLogger())
}

func TestRunPipelineExitCodes(t *testing.T) {
	cases := []struct {
		name   string
		failOn string
		want   int
	}{
		{"all succeed", "", exitOK},
		{"stage 1 fails", "01.ipynb", 4},
		{"stage 2 fails", "02.ipynb", 5},
		{"stage 3 fails", "03.ipynb", 6},
		{"stage 4 fails", "04.ipynb", 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := newTestRunner(t, stubExecutor{failOn: tc.failOn})
			disp := status.NewWithWriter(&bytes.Buffer{})

			got := runPipeline(context.Background(), runner, disp)
			if got != tc.want {
				t.Errorf("expected exit code %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRunPipelineInterrupted(t *testing.T) {
	runner := newTestRunner(t, stubExecutor{})
	disp := status.NewWithWriter(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := runPipeline(ctx, runner, disp); got != exitError {
		t.Errorf("expected exit code %d on interrupt, got %d", exitError, got)
	}
}
