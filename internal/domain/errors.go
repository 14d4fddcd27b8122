package domain

import (
	"errors"
	"fmt"
)

// Domain errors shared across the content, stage and engine packages.
var (
	ErrLevelNotFound = errors.New("level not found")
	ErrNoSubtypes    = errors.New("level has no subtypes configured")
	ErrNoStage       = errors.New("stage not resolved")
)

// StageConfigError reports a level whose configuration cannot produce a
// stage. It is fatal for that stage load but never for the process: the
// progression engine converts it into a visible error state.
type StageConfigError struct {
	Level string
	Err   error
}

func (e *StageConfigError) Error() string {
	return fmt.Sprintf("stage config for level %s: %v", e.Level, e.Err)
}

func (e *StageConfigError) Unwrap() error { return e.Err }

// NewStageConfigError wraps a configuration failure with its level context.
func NewStageConfigError(level string, err error) *StageConfigError {
	return &StageConfigError{Level: level, Err: err}
}
