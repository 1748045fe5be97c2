package emotions

import (
	"context"
	"time"
)

// StartDecay moves the emotion toward target in steps equal increments, one
// per second. The first increment is applied before it returns; the rest run
// in a goroutine.
func (e *Emotion) StartDecay(target Vector, steps int) error {
	return e.StartDecayWithOptions(target, steps, DefaultDecayOptions())
}

// StartDecayWithOptions starts a decay with a custom period and step callback.
//
// The per-step delta is fixed at start as (target - current) / steps. Step 1
// is applied under the same lock that marks the emotion as decaying, so a
// StopDecay issued right after a successful start always leaves the value
// strictly between start and target. Starting while another decay is active
// or stopping returns ErrDecayActive and leaves the running task untouched.
func (e *Emotion) StartDecayWithOptions(target Vector, steps int, opts DecayOptions) error {
	if steps <= 0 {
		return ErrInvalidSteps
	}
	if opts.Period <= 0 {
		opts.Period = DefaultDecayOptions().Period
	}

	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return ErrDecayActive
	}

	delta := target.Sub(e.v).Scale(1 / float64(steps))
	stop := make(chan struct{})
	done := make(chan struct{})
	e.state = StateDecaying
	e.total = steps
	e.stopCh = stop
	e.doneCh = done

	e.v = e.v.Add(delta)
	e.step = 1
	first := Step{Index: 1, Total: steps, Vector: e.v}
	e.mu.Unlock()

	go e.runDecay(delta, first, opts, stop, done)
	return nil
}

// runDecay reports the already applied first step, then applies delta once
// per period until the remaining steps are exhausted or stop is closed.
func (e *Emotion) runDecay(delta Vector, first Step, opts DecayOptions, stop <-chan struct{}, done chan<- struct{}) {
	defer func() {
		e.mu.Lock()
		e.state = StateIdle
		e.stopCh = nil
		e.doneCh = nil
		e.mu.Unlock()
		close(done)
	}()

	if opts.OnStep != nil {
		opts.OnStep(first)
	}

	ticker := time.NewTicker(opts.Period)
	defer ticker.Stop()

	for i := 2; i <= first.Total; i++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		e.mu.Lock()
		// A stop that raced with the tick wins.
		if e.state == StateStopping {
			e.mu.Unlock()
			return
		}
		e.v = e.v.Add(delta)
		e.step = i
		snapshot := e.v
		e.mu.Unlock()

		if opts.OnStep != nil {
			opts.OnStep(Step{Index: i, Total: first.Total, Vector: snapshot})
		}
	}
}

// StopDecay cancels the active decay and blocks until its goroutine has
// exited. No step is applied after it returns. Calling it while idle returns
// ErrNotDecaying.
func (e *Emotion) StopDecay() error {
	e.mu.Lock()
	if e.state != StateDecaying {
		e.mu.Unlock()
		return ErrNotDecaying
	}
	e.state = StateStopping
	close(e.stopCh)
	done := e.doneCh
	e.mu.Unlock()

	<-done
	return nil
}

// Wait blocks until the active decay finishes, either naturally or through
// StopDecay. It returns nil at once when no decay is active.
func (e *Emotion) Wait(ctx context.Context) error {
	e.mu.RLock()
	done := e.doneCh
	e.mu.RUnlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
