package appraisal

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/teslashibe/go-affect/internal/log"
	"github.com/teslashibe/go-affect/pkg/emotions"
)

// Result is the full outcome of one appraisal.
type Result struct {
	// Raw holds the accumulated weights before normalization.
	Raw Weights `json:"raw"`

	// Weights holds the normalized weights; they sum to 1.
	Weights Weights `json:"weights"`

	// Total is the sum of the raw weights.
	Total float64 `json:"total"`

	// Vector is the projected point in the valence/arousal plane.
	Vector emotions.Vector `json:"vector"`
}

// Emotion wraps the projected vector in a new idle Emotion.
func (r Result) Emotion() *emotions.Emotion {
	return emotions.New(r.Vector)
}

// Engine converts events into emotions.
//
// Every call starts from a zeroed weight table, so one Engine can serve many
// goroutines. The only shared state is the last result, kept for inspection.
type Engine struct {
	logger *slog.Logger

	mu   sync.RWMutex
	last Weights
}

// NewEngine creates an engine that logs through the process logger.
func NewEngine() *Engine {
	return &Engine{logger: log.With("component", "appraisal")}
}

// Run appraises an event and returns the resulting emotion.
func (en *Engine) Run(ev Event, p Personality, ctx Context) (*emotions.Emotion, error) {
	res, err := en.Appraise(ev, p, ctx)
	if err != nil {
		return nil, err
	}
	return res.Emotion(), nil
}

// Appraise runs perceive, apprise and regulate, then normalizes the weights and
// projects them through the label anchors.
func (en *Engine) Appraise(ev Event, p Personality, ctx Context) (Result, error) {
	if err := ctx.Validate(); err != nil {
		return Result{}, err
	}
	if err := ev.Validate(); err != nil {
		return Result{}, err
	}

	raw := newWeights()
	perceive(raw, ev)
	apprise(raw, ev, p, ctx)
	regulate(raw, ev)

	normalized, err := raw.Normalized()
	if err != nil {
		return Result{}, fmt.Errorf("appraise %q: %w", ev.Name, err)
	}

	res := Result{
		Raw:     raw,
		Weights: normalized,
		Total:   raw.Total(),
		Vector:  normalized.Project(),
	}

	en.mu.Lock()
	en.last = normalized.Clone()
	en.mu.Unlock()

	en.logger.Debug("appraised event",
		"event", ev.Name,
		"personality", p.String(),
		"context", string(ctx),
		"total", res.Total,
		"dominant", string(normalized.Dominant()),
		"x", res.Vector.X,
		"y", res.Vector.Y)

	return res, nil
}

// LastWeights returns the normalized weights of the most recent successful
// appraisal, or nil before the first one.
func (en *Engine) LastWeights() Weights {
	en.mu.RLock()
	defer en.mu.RUnlock()
	if en.last == nil {
		return nil
	}
	return en.last.Clone()
}
