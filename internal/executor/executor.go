// Package executor wraps the external notebook-execution collaborator. The
// analytical content of a notebook and the execution engine itself are
// black boxes: all nbpipe sees is a command that succeeds or fails, with
// the side effect of overwriting the artifact with its own output.
package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/nbpipe/nbpipe/internal/config"
)

// Executor runs one notebook artifact in place.
type Executor interface {
	Execute(ctx context.Context, notebook string) error
}

// Nbconvert executes notebooks by shelling out to jupyter nbconvert (or a
// configured replacement command).
type Nbconvert struct {
	command string
	args    []string
	timeout time.Duration
}

// NewNbconvert builds an executor from config.
func NewNbconvert(cfg config.ExecutorConfig) *Nbconvert {
	return &Nbconvert{
		command: cfg.GetCommand(),
		args:    cfg.GetArgs(),
		timeout: cfg.GetTimeout(),
	}
}

// commandArgs returns the full argument list for executing a notebook.
func (e *Nbconvert) commandArgs(notebook string) []string {
	args := make([]string, 0, len(e.args)+1)
	args = append(args, e.args...)
	return append(args, notebook)
}

// Execute runs the notebook synchronously, blocking until the collaborator
// exits. A non-zero exit status is a stage failure. There is no retry here
// and, unless a timeout is configured, no deadline.
func (e *Nbconvert) Execute(ctx context.Context, notebook string) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := e.commandArgs(notebook)
	cmd := exec.CommandContext(ctx, e.command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w\nOutput: %s",
			e.command, strings.Join(args, " "), err, string(output))
	}
	return nil
}

// DryRun is an executor that invokes nothing. It exercises the full
// fail-fast and logging plumbing without touching any artifact.
type DryRun struct{}

func (DryRun) Execute(ctx context.Context, notebook string) error {
	return ctx.Err()
}
