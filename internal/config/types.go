package config

import "time"

// Config describes a notebook analysis pipeline loaded from YAML.
type Config struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	NotebookDir string         `yaml:"notebook_dir,omitempty"`
	LogPath     string         `yaml:"log_path,omitempty"`
	Executor    ExecutorConfig `yaml:"executor,omitempty"`
	Stages      []StageConfig  `yaml:"stages"`
}

// StageConfig defines a single stage of the pipeline.
type StageConfig struct {
	Name     string `yaml:"name"`
	Notebook string `yaml:"notebook"`

	// FailureCode is the process exit code reported when this stage fails.
	// Zero means "use the positional default": position + 3, so stages
	// 1..4 map to 4..7.
	FailureCode int `yaml:"failure_code,omitempty"`
}

// ExecutorConfig configures the external notebook-execution command.
type ExecutorConfig struct {
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`

	// Timeout bounds a single notebook execution (e.g. "30m").
	// Empty means no timeout: a hung notebook hangs the run.
	Timeout string `yaml:"timeout,omitempty"`
}

const (
	// DefaultLogPath is the append-only lifecycle log artifact.
	DefaultLogPath = "pipeline_log.txt"

	// DefaultCommand invokes jupyter to execute a notebook in place,
	// overwriting the artifact with its own output.
	DefaultCommand = "jupyter"
)

// DefaultArgs are the nbconvert arguments used when none are configured.
// The notebook path is appended as the final argument.
func DefaultArgs() []string {
	return []string{"nbconvert", "--to", "notebook", "--execute", "--inplace"}
}

// Default returns the built-in clinical-trial analysis pipeline. Running
// nbpipe with no config file executes exactly this sequence.
func Default() *Config {
	return &Config{
		Name:        "clinical-trial-analysis",
		Description: "exploration, missing-data, transformation, aggregation",
		NotebookDir: "notebooks",
		LogPath:     DefaultLogPath,
		Stages: []StageConfig{
			{Name: "exploration", Notebook: "01_exploration.ipynb"},
			{Name: "missing-data", Notebook: "02_missing_data.ipynb"},
			{Name: "transformation", Notebook: "03_transformation.ipynb"},
			{Name: "aggregation", Notebook: "04_aggregation.ipynb"},
		},
	}
}

// GetLogPath returns the configured log path or the default.
func (c *Config) GetLogPath() string {
	if c.LogPath == "" {
		return DefaultLogPath
	}
	return c.LogPath
}

// GetCommand returns the executor command or the default.
func (e ExecutorConfig) GetCommand() string {
	if e.Command == "" {
		return DefaultCommand
	}
	return e.Command
}

// GetArgs returns the executor arguments or the defaults.
func (e ExecutorConfig) GetArgs() []string {
	if len(e.Args) == 0 {
		return DefaultArgs()
	}
	return e.Args
}

// GetTimeout parses and returns the executor timeout. Zero means no timeout.
func (e ExecutorConfig) GetTimeout() time.Duration {
	if e.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0
	}
	return d
}
