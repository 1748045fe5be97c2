package appraisal

import "errors"

var (
	// ErrZeroWeight is returned when no rule fired, so the weights cannot be normalized.
	ErrZeroWeight = errors.New("total emotion weight is zero")

	// ErrInvalidContext is returned for a context tag other than individual or social.
	ErrInvalidContext = errors.New("invalid appraisal context")

	// ErrInvalidEvent is returned when an event field is outside its range.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidPersonality is returned when a trait string cannot be parsed.
	ErrInvalidPersonality = errors.New("invalid personality")
)
