// Package emotions implements the valence/arousal emotion model used by the
// robot's affect layer.
//
// An emotion is a vector in the plane where X is valence (unpleasant to
// pleasant) and Y is arousal (calm to excited). Vectors convert between
// Cartesian and polar form, classify into one of fourteen named labels, and
// can be moved toward a target either in one interpolation step or by a
// background decay that applies a fixed delta on every tick.
package emotions

import "time"

// DecayState represents the lifecycle of an emotion's decay task.
type DecayState int

const (
	// StateIdle means no decay task is running.
	StateIdle DecayState = iota

	// StateDecaying means a decay task owns the emotion and mutates it on each tick.
	StateDecaying

	// StateStopping means StopDecay was called and the task has not exited yet.
	StateStopping
)

// String returns a human-readable state name.
func (s DecayState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDecaying:
		return "decaying"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Step describes one applied decay step.
type Step struct {
	// Index is the 1-based step number.
	Index int

	// Total is the number of steps the decay was started with.
	Total int

	// Vector is the emotion's value right after the step.
	Vector Vector
}

// StepCallback is called after every decay step, outside the emotion's lock.
// It runs on the decay goroutine and must not call StopDecay.
type StepCallback func(step Step)

// DecayOptions configures a decay task.
type DecayOptions struct {
	// Period is the time between steps (default: 1s).
	Period time.Duration

	// OnStep is called after each step. May be nil.
	OnStep StepCallback
}

// DefaultDecayOptions returns one step per second and no callback.
func DefaultDecayOptions() DecayOptions {
	return DecayOptions{
		Period: time.Second,
	}
}
