package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/nbpipe/nbpipe/internal/config"
)

// Stage is one unit of work in the fixed sequence: a named notebook
// artifact executed in place by the external collaborator.
type Stage struct {
	Name     string
	Notebook string

	// Position is the 1-based ordinal of the stage. Order is significant:
	// stage i must complete successfully before stage i+1 begins.
	Position int

	// FailureCode is the process exit code reported when this stage
	// fails. The default mapping is positional: position + 3, giving
	// 4, 5, 6, 7 for a four-stage pipeline.
	FailureCode int
}

// defaultFailureCode preserves the positional exit-code mapping exactly.
func defaultFailureCode(position int) int {
	return position + 3
}

// StagesFromConfig builds the immutable stage list for a run. The list is
// defined once at process start; nothing creates, mutates, or reorders
// stages afterwards.
func StagesFromConfig(cfg *config.Config) ([]Stage, error) {
	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("pipeline %q has no stages", cfg.Name)
	}

	stages := make([]Stage, 0, len(cfg.Stages))
	for i, sc := range cfg.Stages {
		if sc.Name == "" {
			return nil, fmt.Errorf("stage %d has no name", i+1)
		}
		if sc.Notebook == "" {
			return nil, fmt.Errorf("stage %q has no notebook", sc.Name)
		}

		notebook := sc.Notebook
		if cfg.NotebookDir != "" && !filepath.IsAbs(notebook) {
			notebook = filepath.Join(cfg.NotebookDir, notebook)
		}

		code := sc.FailureCode
		if code == 0 {
			code = defaultFailureCode(i + 1)
		}

		stages = append(stages, Stage{
			Name:        sc.Name,
			Notebook:    notebook,
			Position:    i + 1,
			FailureCode: code,
		})
	}
	return stages, nil
}

// StageError reports the single kind of failure this pipeline knows about:
// a stage's collaborator exited non-zero. Variants are distinguished only
// by which stage produced them.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s) failed: %v", e.Stage.Position, e.Stage.Name, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode returns the failing stage's designated process exit code.
func (e *StageError) ExitCode() int {
	return e.Stage.FailureCode
}
