package emotions

import (
	"sync"
)

// Emotion is a mutable emotional state.
//
// Reads are safe at any time. While a decay task is active it is the only
// writer; Set refuses to run and StartDecay refuses to start a second task.
type Emotion struct {
	mu     sync.RWMutex
	v      Vector
	state  DecayState
	step   int
	total  int
	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates an idle emotion at v.
func New(v Vector) *Emotion {
	return &Emotion{v: v, state: StateIdle}
}

// NewCartesian creates an emotion from valence and arousal.
func NewCartesian(x, y float64) *Emotion {
	return New(FromCartesian(x, y))
}

// NewPolar creates an emotion from strength and an angle in degrees.
func NewPolar(strength, angleDeg float64) *Emotion {
	return New(FromPolar(strength, angleDeg))
}

// Vector returns a snapshot of the current value.
func (e *Emotion) Vector() Vector {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.v
}

// X returns the current valence.
func (e *Emotion) X() float64 {
	return e.Vector().X
}

// Y returns the current arousal.
func (e *Emotion) Y() float64 {
	return e.Vector().Y
}

// Strength returns the current magnitude.
func (e *Emotion) Strength() float64 {
	return e.Vector().Strength()
}

// Angle returns the current direction in degrees.
func (e *Emotion) Angle() (float64, error) {
	return e.Vector().Angle()
}

// Label classifies the current value.
func (e *Emotion) Label() (Label, error) {
	return e.Vector().Classify()
}

// Set replaces the current value. It fails with ErrDecayActive while a decay
// task owns the emotion.
func (e *Emotion) Set(v Vector) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return ErrDecayActive
	}
	e.v = v
	return nil
}

// StepToward returns a new emotion index/total of the way from the current
// value to target. The receiver is not modified.
func (e *Emotion) StepToward(target Vector, total, index int) (*Emotion, error) {
	if total <= 0 {
		return nil, ErrInvalidSteps
	}
	t := float64(index) / float64(total)
	return New(e.Vector().Lerp(target, t)), nil
}

// Add returns a new emotion at the component-wise sum.
func (e *Emotion) Add(o *Emotion) *Emotion {
	return New(e.Vector().Add(o.Vector()))
}

// Sub returns a new emotion at the component-wise difference.
func (e *Emotion) Sub(o *Emotion) *Emotion {
	return New(e.Vector().Sub(o.Vector()))
}

// State returns the decay state.
func (e *Emotion) State() DecayState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Progress returns the number of applied steps and the step total of the
// active or most recent decay.
func (e *Emotion) Progress() (step, total int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.step, e.total
}

func (e *Emotion) String() string {
	return e.Vector().String()
}
