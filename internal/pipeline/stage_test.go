package pipeline

import (
	"errors"
	"testing"

	"github.com/nbpipe/nbpipe/internal/config"
)

func TestStagesFromConfigDefaults(t *testing.T) {
	cfg := config.Default()
	stages, err := StagesFromConfig(cfg)
	if err != nil {
		t.Fatalf("StagesFromConfig failed: %v", err)
	}
	if len(stages) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(stages))
	}

	// Positional failure codes 4,5,6,7 for stages 1..4, preserved exactly.
	wantCodes := []int{4, 5, 6, 7}
	wantNames := []string{"exploration", "missing-data", "transformation", "aggregation"}
	for i, s := range stages {
		if s.Position != i+1 {
			t.Errorf("stage %d: expected position %d, got %d", i, i+1, s.Position)
		}
		if s.FailureCode != wantCodes[i] {
			t.Errorf("stage %s: expected failure code %d, got %d", s.Name, wantCodes[i], s.FailureCode)
		}
		if s.Name != wantNames[i] {
			t.Errorf("stage %d: expected name %s, got %s", i, wantNames[i], s.Name)
		}
	}
}

func TestStagesFromConfigNotebookDir(t *testing.T) {
	cfg := &config.Config{
		Name:        "test",
		NotebookDir: "nb",
		Stages: []config.StageConfig{
			{Name: "a", Notebook: "a.ipynb"},
			{Name: "b", Notebook: "/abs/b.ipynb"},
		},
	}
	stages, err := StagesFromConfig(cfg)
	if err != nil {
		t.Fatalf("StagesFromConfig failed: %v", err)
	}
	if stages[0].Notebook != "nb/a.ipynb" {
		t.Errorf("expected notebook dir joined, got %s", stages[0].Notebook)
	}
	if stages[1].Notebook != "/abs/b.ipynb" {
		t.Errorf("expected absolute path untouched, got %s", stages[1].Notebook)
	}
}

func TestStagesFromConfigExplicitCode(t *testing.T) {
	cfg := &config.Config{
		Name: "test",
		Stages: []config.StageConfig{
			{Name: "a", Notebook: "a.ipynb", FailureCode: 42},
			{Name: "b", Notebook: "b.ipynb"},
		},
	}
	stages, err := StagesFromConfig(cfg)
	if err != nil {
		t.Fatalf("StagesFromConfig failed: %v", err)
	}
	if stages[0].FailureCode != 42 {
		t.Errorf("expected explicit code 42, got %d", stages[0].FailureCode)
	}
	if stages[1].FailureCode != 5 {
		t.Errorf("expected positional default 5, got %d", stages[1].FailureCode)
	}
}

func TestStagesFromConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  *config.Config
	}{
		{"no stages", &config.Config{Name: "empty"}},
		{"missing name", &config.Config{Name: "x", Stages: []config.StageConfig{{Notebook: "a.ipynb"}}}},
		{"missing notebook", &config.Config{Name: "x", Stages: []config.StageConfig{{Name: "a"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := StagesFromConfig(tc.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStageErrorUnwrap(t *testing.T) {
	inner := errors.New("exit status 1")
	err := &StageError{
		Stage: Stage{Name: "aggregation", Position: 4, FailureCode: 7},
		Err:   inner,
	}
	if !errors.Is(err, inner) {
		t.Error("expected StageError to unwrap to inner error")
	}
	if err.ExitCode() != 7 {
		t.Errorf("expected exit code 7, got %d", err.ExitCode())
	}
	msg := err.Error()
	if msg != "stage 4 (aggregation) failed: exit status 1" {
		t.Errorf("unexpected message: %q", msg)
	}
}
