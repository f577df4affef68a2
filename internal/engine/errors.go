package engine

import "errors"

// Structural failures. Any of these aborts the whole run.
var (
	ErrEmptyRoster         = errors.New("roster has no active people")
	ErrNoEffectivePeople   = errors.New("total effective people is zero")
	ErrMissingRotationTask = errors.New("no daily task for rotation")
	ErrInvalidConfig       = errors.New("invalid engine configuration")
	ErrNilInput            = errors.New("engine input cannot be nil")
)
