package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nbpipe.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
name: trial-pipeline
notebook_dir: analysis
log_path: run.log
executor:
  command: papermill
  timeout: 30m
stages:
  - name: exploration
    notebook: 01_exploration.ipynb
  - name: aggregation
    notebook: 04_aggregation.ipynb
    failure_code: 9
`)

	cfg, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Name != "trial-pipeline" {
		t.Errorf("expected name trial-pipeline, got %q", cfg.Name)
	}
	if cfg.NotebookDir != "analysis" {
		t.Errorf("expected notebook_dir analysis, got %q", cfg.NotebookDir)
	}
	if len(cfg.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(cfg.Stages))
	}
	if cfg.Stages[1].FailureCode != 9 {
		t.Errorf("expected failure_code 9, got %d", cfg.Stages[1].FailureCode)
	}
	if cfg.Executor.GetCommand() != "papermill" {
		t.Errorf("expected executor command papermill, got %q", cfg.Executor.GetCommand())
	}
	if cfg.Executor.GetTimeout().Minutes() != 30 {
		t.Errorf("expected 30m timeout, got %v", cfg.Executor.GetTimeout())
	}
}

func TestLoadFileEnvExpansion(t *testing.T) {
	t.Setenv("NB_DIR", "custom-notebooks")
	path := writeConfig(t, `
name: env-pipeline
notebook_dir: ${NB_DIR}
log_path: ${NB_LOG:-pipeline_log.txt}
stages:
  - name: only
    notebook: only.ipynb
`)

	cfg, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.NotebookDir != "custom-notebooks" {
		t.Errorf("expected env var expanded, got %q", cfg.NotebookDir)
	}
	if cfg.LogPath != "pipeline_log.txt" {
		t.Errorf("expected default fallback, got %q", cfg.LogPath)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := writeConfig(t, "name: [unclosed")
	if _, err := NewLoader().LoadFile(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadOrDefault(t *testing.T) {
	// Missing file falls back to the built-in pipeline.
	cfg, err := NewLoader().LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Name != "clinical-trial-analysis" {
		t.Errorf("expected default pipeline, got %q", cfg.Name)
	}
	if len(cfg.Stages) != 4 {
		t.Errorf("expected 4 default stages, got %d", len(cfg.Stages))
	}

	// An existing but malformed file is an error, not silently defaulted.
	bad := writeConfig(t, "stages: [")
	if _, err := NewLoader().LoadOrDefault(bad); err == nil {
		t.Error("expected error for malformed existing config")
	}
}

func TestLoadAndValidate(t *testing.T) {
	bad := writeConfig(t, `
name: broken
stages:
  - name: a
    notebook: a.ipynb
  - name: a
    notebook: b.ipynb
`)
	if _, err := NewLoader().LoadAndValidate(bad); err == nil {
		t.Error("expected validation error for duplicate stage names")
	}
}
