package emotions

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is the root of every state-contract violation.
	ErrInvalidState = errors.New("invalid emotion state")

	// ErrZeroStrength is returned when an angle is requested from a zero vector.
	ErrZeroStrength = fmt.Errorf("%w: zero-strength vector has no angle", ErrInvalidState)

	// ErrDecayActive is returned when starting a decay, or mutating the
	// emotion, while a decay task owns it.
	ErrDecayActive = fmt.Errorf("%w: decay already running", ErrInvalidState)

	// ErrNotDecaying is returned when stopping a decay that is not running.
	ErrNotDecaying = fmt.Errorf("%w: no decay running", ErrInvalidState)

	// ErrConfiguration is returned for taxonomy lookups outside the table.
	ErrConfiguration = errors.New("emotion taxonomy configuration error")

	// ErrInvalidSteps is returned when a step count is not positive.
	ErrInvalidSteps = errors.New("step count must be positive")

	// ErrUnknownLabel is returned when parsing a name that is not in the taxonomy.
	ErrUnknownLabel = errors.New("unknown emotion label")
)
