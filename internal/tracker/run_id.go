package tracker

import "github.com/google/uuid"

// NewRunID returns a unique identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}
