// Package affect gives a robot agent a persistent emotional state.
//
// An Agent owns one Emotion. Each stimulus is appraised against the agent's
// personality, and the current emotion then decays toward the appraised
// target over a fixed number of timed steps. Observers and an optional
// journal see every step.
package affect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-affect/internal/log"
	"github.com/teslashibe/go-affect/pkg/appraisal"
	"github.com/teslashibe/go-affect/pkg/emotions"
	"github.com/teslashibe/go-affect/pkg/journal"
)

// Recorder persists appraisals and decay steps. *journal.Journal implements it.
type Recorder interface {
	RecordAppraisal(ctx context.Context, a journal.Appraisal) error
	RecordStep(ctx context.Context, s journal.Step) error
}

// Observer receives a snapshot after every reaction and every decay step.
// It runs on the decay goroutine and must not block for long.
type Observer func(Snapshot)

// Snapshot is a read-only view of an agent's emotional state.
type Snapshot struct {
	Agent       string    `json:"agent"`
	AppraisalID string    `json:"appraisal_id,omitempty"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Strength    float64   `json:"strength"`
	Angle       float64   `json:"angle"`
	Label       string    `json:"label"`
	State       string    `json:"state"`
	Step        int       `json:"step"`
	Total       int       `json:"total"`
	Time        time.Time `json:"time"`
}

// Reaction describes what an agent did with one event.
type Reaction struct {
	EventID     string            `json:"event_id"`
	Agent       string            `json:"agent"`
	Context     appraisal.Context `json:"context"`
	Target      emotions.Vector   `json:"target"`
	TargetLabel emotions.Label    `json:"target_label"`
	Dominant    emotions.Label    `json:"dominant"`
	Weights     appraisal.Weights `json:"weights"`
	Steps       int               `json:"steps"`
}

// Agent is one robot's affective state.
type Agent struct {
	name        string
	personality appraisal.Personality
	emotion     *emotions.Emotion
	engine      *appraisal.Engine
	recorder    Recorder
	logger      *slog.Logger

	steps  int
	period time.Duration

	// mu serializes React and Calm so a retarget is stop-then-start.
	mu sync.Mutex

	obsMu       sync.RWMutex
	observers   []Observer
	appraisalID string
}

// Option configures an Agent.
type Option func(*Agent)

// WithEngine shares an appraisal engine between agents.
func WithEngine(e *appraisal.Engine) Option {
	return func(a *Agent) { a.engine = e }
}

// WithDecay sets the decay period and the number of steps per reaction.
func WithDecay(period time.Duration, steps int) Option {
	return func(a *Agent) {
		if period > 0 {
			a.period = period
		}
		if steps > 0 {
			a.steps = steps
		}
	}
}

// WithRecorder journals every appraisal and decay step.
func WithRecorder(r Recorder) Option {
	return func(a *Agent) { a.recorder = r }
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	return func(a *Agent) { a.observers = append(a.observers, o) }
}

// NewAgent creates an agent at the initial emotion. Defaults: a private
// engine, one step per second, ten steps per reaction.
func NewAgent(name string, p appraisal.Personality, initial emotions.Vector, opts ...Option) *Agent {
	a := &Agent{
		name:        name,
		personality: p,
		emotion:     emotions.New(initial),
		steps:       10,
		period:      emotions.DefaultDecayOptions().Period,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.engine == nil {
		a.engine = appraisal.NewEngine()
	}
	a.logger = log.With("agent", name, "personality", p.String())
	return a
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// Personality returns the agent's trait profile.
func (a *Agent) Personality() appraisal.Personality { return a.personality }

// Emotion returns the live emotion. Callers may read it and Wait on it.
func (a *Agent) Emotion() *emotions.Emotion { return a.emotion }

// Observe registers an observer.
func (a *Agent) Observe(o Observer) {
	a.obsMu.Lock()
	a.observers = append(a.observers, o)
	a.obsMu.Unlock()
}

// React appraises ev in context c and retargets the decay toward the result.
// An active decay is stopped first; the new one starts from wherever the old
// one left the emotion.
func (a *Agent) React(ctx context.Context, ev appraisal.Event, c appraisal.Context) (Reaction, error) {
	ev.EnsureID()

	res, err := a.engine.Appraise(ev, a.personality, c)
	if err != nil {
		return Reaction{}, fmt.Errorf("agent %s: %w", a.name, err)
	}

	label, err := res.Vector.Classify()
	if err != nil {
		// A perfectly balanced table projects onto the origin.
		a.logger.Warn("appraised target has no label", "event", ev.Name, "error", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.stopLocked(); err != nil {
		return Reaction{}, err
	}

	a.obsMu.Lock()
	a.appraisalID = ev.ID
	a.obsMu.Unlock()

	a.record(ctx, ev, c, res, label)

	appraisalID := ev.ID
	opts := emotions.DecayOptions{
		Period: a.period,
		OnStep: func(s emotions.Step) { a.onStep(appraisalID, s) },
	}
	if err := a.emotion.StartDecayWithOptions(res.Vector, a.steps, opts); err != nil {
		return Reaction{}, fmt.Errorf("agent %s: %w", a.name, err)
	}

	a.logger.Info("reacted",
		"event", ev.Name,
		"context", string(c),
		"target", string(label),
		"dominant", string(res.Weights.Dominant()),
		"steps", a.steps)

	a.notify(a.Snapshot())

	return Reaction{
		EventID:     ev.ID,
		Agent:       a.name,
		Context:     c,
		Target:      res.Vector,
		TargetLabel: label,
		Dominant:    res.Weights.Dominant(),
		Weights:     res.Weights,
		Steps:       a.steps,
	}, nil
}

// Calm stops the active decay, leaving the emotion where it is. It is a no-op
// when the agent is idle.
func (a *Agent) Calm() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopLocked()
}

// StopDecay stops the active decay and reports emotions.ErrNotDecaying when
// there is none.
func (a *Agent) StopDecay() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.emotion.StopDecay(); err != nil {
		return err
	}
	a.notify(a.Snapshot())
	return nil
}

// Close stops any decay. The agent can still be read afterwards.
func (a *Agent) Close() error {
	return a.Calm()
}

// Snapshot returns the current state.
func (a *Agent) Snapshot() Snapshot {
	a.obsMu.RLock()
	id := a.appraisalID
	a.obsMu.RUnlock()

	v := a.emotion.Vector()
	step, total := a.emotion.Progress()
	return newSnapshot(a.name, id, v, a.emotion.State(), step, total)
}

func (a *Agent) stopLocked() error {
	err := a.emotion.StopDecay()
	if err == nil || errors.Is(err, emotions.ErrNotDecaying) {
		return nil
	}
	return fmt.Errorf("agent %s: %w", a.name, err)
}

func (a *Agent) onStep(appraisalID string, s emotions.Step) {
	state := emotions.StateDecaying
	if s.Index == s.Total {
		state = emotions.StateIdle
	}
	snap := newSnapshot(a.name, appraisalID, s.Vector, state, s.Index, s.Total)

	if a.recorder != nil {
		err := a.recorder.RecordStep(context.Background(), journal.Step{
			AppraisalID: appraisalID,
			Agent:       a.name,
			Step:        s.Index,
			Total:       s.Total,
			X:           s.Vector.X,
			Y:           s.Vector.Y,
			Label:       snap.Label,
			CreatedAt:   snap.Time,
		})
		if err != nil {
			a.logger.Warn("failed to journal decay step", "step", s.Index, "error", err)
		}
	}

	a.logger.Debug("decay step", "step", s.Index, "total", s.Total, "label", snap.Label)
	a.notify(snap)
}

func (a *Agent) record(ctx context.Context, ev appraisal.Event, c appraisal.Context, res appraisal.Result, label emotions.Label) {
	if a.recorder == nil {
		return
	}

	weights := make(map[string]float64, len(res.Weights))
	for l, w := range res.Weights {
		weights[string(l)] = w
	}

	err := a.recorder.RecordAppraisal(ctx, journal.Appraisal{
		ID:          ev.ID,
		Agent:       a.name,
		Event:       ev.Name,
		Context:     string(c),
		Personality: a.personality.String(),
		X:           res.Vector.X,
		Y:           res.Vector.Y,
		Label:       string(label),
		Weights:     weights,
	})
	if err != nil {
		a.logger.Warn("failed to journal appraisal", "event", ev.Name, "error", err)
	}
}

func (a *Agent) notify(s Snapshot) {
	a.obsMu.RLock()
	observers := make([]Observer, len(a.observers))
	copy(observers, a.observers)
	a.obsMu.RUnlock()

	for _, o := range observers {
		o(s)
	}
}

func newSnapshot(agent, appraisalID string, v emotions.Vector, state emotions.DecayState, step, total int) Snapshot {
	s := Snapshot{
		Agent:       agent,
		AppraisalID: appraisalID,
		X:           v.X,
		Y:           v.Y,
		Strength:    v.Strength(),
		State:       state.String(),
		Step:        step,
		Total:       total,
		Time:        time.Now(),
	}
	// The origin has no direction and so no label.
	if v.IsZero() {
		return s
	}
	if angle, err := v.Angle(); err == nil {
		s.Angle = angle
	}
	if label, err := v.Classify(); err == nil {
		s.Label = string(label)
	}
	return s
}
