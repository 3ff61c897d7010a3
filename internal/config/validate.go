package config

import (
	"fmt"
	"strings"
)

// ValidationError holds details about a configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
	Context string
}

func (e ValidationError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Field, e.Message, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, "  - "+e.Error())
	}
	return fmt.Sprintf("validation failed with %d error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}

// HasErrors returns true if there are any validation errors.
func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// reservedExitCodes are taken by the runner itself and may not be assigned
// to a stage: 0 success, 1 usage/config/interrupt, 2 lock held.
var reservedExitCodes = map[int]bool{0: true, 1: true, 2: true}

// Validate checks a pipeline config and returns detailed validation errors.
func Validate(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	if cfg.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "pipeline name is required",
		})
	}

	if len(cfg.Stages) == 0 {
		errs = append(errs, ValidationError{
			Field:   "stages",
			Message: "at least one stage is required",
		})
	}

	seenNames := make(map[string]bool)
	seenCodes := make(map[int]int) // explicit failure code -> stage index

	for i, stage := range cfg.Stages {
		stageContext := fmt.Sprintf("stage[%d]", i)

		if stage.Name == "" {
			errs = append(errs, ValidationError{
				Field:   "name",
				Message: "stage name is required",
				Context: stageContext,
			})
		} else if seenNames[stage.Name] {
			errs = append(errs, ValidationError{
				Field:   "name",
				Message: fmt.Sprintf("duplicate stage name %q", stage.Name),
				Context: stageContext,
			})
		}
		seenNames[stage.Name] = true

		if stage.Notebook == "" {
			errs = append(errs, ValidationError{
				Field:   "notebook",
				Message: "notebook artifact is required",
				Context: stageContext,
			})
		}

		if stage.FailureCode != 0 {
			if stage.FailureCode < 0 || stage.FailureCode > 255 {
				errs = append(errs, ValidationError{
					Field:   "failure_code",
					Message: fmt.Sprintf("failure code %d must be between 1 and 255", stage.FailureCode),
					Context: stageContext,
				})
			} else if reservedExitCodes[stage.FailureCode] {
				errs = append(errs, ValidationError{
					Field:   "failure_code",
					Message: fmt.Sprintf("failure code %d is reserved by the runner", stage.FailureCode),
					Context: stageContext,
				})
			} else if prev, dup := seenCodes[stage.FailureCode]; dup {
				errs = append(errs, ValidationError{
					Field:   "failure_code",
					Message: fmt.Sprintf("failure code %d already used by stage[%d]", stage.FailureCode, prev),
					Context: stageContext,
				})
			}
			seenCodes[stage.FailureCode] = i
		}
	}

	if cfg.Executor.Timeout != "" && cfg.Executor.GetTimeout() == 0 {
		errs = append(errs, ValidationError{
			Field:   "executor.timeout",
			Message: fmt.Sprintf("invalid duration %q", cfg.Executor.Timeout),
		})
	}

	return errs
}
