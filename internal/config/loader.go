package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads pipeline configuration files.
type Loader struct{}

// NewLoader creates a config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile loads a pipeline config from a YAML file. Environment variables
// in the file are expanded before parsing (${VAR} and ${VAR:-default}).
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = ExpandEnvVarsBytes(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads the config at path, or returns the built-in default
// pipeline when path is empty or the file does not exist. An existing but
// malformed file is an error, never silently replaced by the default.
func (l *Loader) LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return l.LoadFile(path)
}

// LoadAndValidate loads a config file and validates it.
func (l *Loader) LoadAndValidate(path string) (*Config, error) {
	cfg, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); errs.HasErrors() {
		return nil, fmt.Errorf("config validation failed for %s:\n%w", path, errs)
	}
	return cfg, nil
}
