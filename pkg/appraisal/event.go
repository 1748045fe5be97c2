// Package appraisal turns a stimulus and a personality into an emotion.
//
// An Engine scores the fourteen emotion labels in three passes: perception of
// the event itself, a personality-filtered reappraisal, and regulation by goal
// progress. The scores are normalized and projected through each label's anchor
// into a single valence/arousal vector.
package appraisal

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Context says whether the event happened alone or among others.
type Context string

const (
	ContextIndividual Context = "individual"
	ContextSocial     Context = "social"
)

// ParseContext validates a context tag.
func ParseContext(s string) (Context, error) {
	c := Context(strings.ToLower(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate reports ErrInvalidContext for anything but the two known tags.
func (c Context) Validate() error {
	switch c {
	case ContextIndividual, ContextSocial:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidContext, string(c))
	}
}

// EventObject is the thing or agent an event is about.
type EventObject struct {
	Name string `json:"name" yaml:"name"`

	// Living marks agents (people, other robots) as opposed to objects.
	Living bool `json:"living" yaml:"living"`

	// Familiarity in [-1, 1]: negative is strange, positive is well known.
	Familiarity float64 `json:"familiarity" yaml:"familiarity"`

	// Risk is the caller's risk estimate. For a living object with a known
	// personality it may be overridden, see EffectiveRisk.
	Risk bool `json:"risk" yaml:"risk"`

	AgentPersonality *Personality `json:"agent_personality,omitempty" yaml:"agent_personality,omitempty"`
}

// NewEventObject builds an object and stores its derived risk.
func NewEventObject(name string, living bool, familiarity float64, risk bool, agent *Personality) EventObject {
	o := EventObject{
		Name:             name,
		Living:           living,
		Familiarity:      familiarity,
		Risk:             risk,
		AgentPersonality: agent,
	}
	o.Risk = o.EffectiveRisk()
	return o
}

// EffectiveRisk derives risk from a living agent's personality: an outgoing,
// agreeable, stable agent is safe; a withdrawn, disagreeable, neurotic one is
// risky. Any other profile keeps the supplied Risk.
func (o EventObject) EffectiveRisk() bool {
	if !o.Living || o.AgentPersonality == nil {
		return o.Risk
	}
	p := o.AgentPersonality
	switch {
	case p.Extraversion && p.Agreeableness && !p.Neuroticism:
		return false
	case !p.Extraversion && !p.Agreeableness && p.Neuroticism:
		return true
	default:
		return o.Risk
	}
}

// Event is a snapshot of one stimulus.
type Event struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Importance in [-1, 1]; the sign says whether the event is wanted.
	Importance float64 `json:"importance" yaml:"importance"`

	// Condition is true when the event succeeded.
	Condition bool `json:"condition" yaml:"condition"`

	ResourceAvailable bool `json:"resource_available" yaml:"resource_available"`
	Suddenness        bool `json:"suddenness" yaml:"suddenness"`

	Object EventObject `json:"object" yaml:"object"`

	// TotalProgress toward the goal in [0, 1], nil when the event has no goal.
	TotalProgress *float64 `json:"total_progress,omitempty" yaml:"total_progress,omitempty"`

	// Contribution is how much the robot added to a shared task; zero means nothing.
	Contribution float64 `json:"contribution" yaml:"contribution"`
}

// Progress returns a pointer for Event.TotalProgress.
func Progress(p float64) *float64 {
	return &p
}

// EnsureID assigns a random ID when the event has none and returns it.
func (e *Event) EnsureID() string {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return e.ID
}

// Validate checks field ranges.
func (e Event) Validate() error {
	if math.IsNaN(e.Importance) || math.IsNaN(e.Object.Familiarity) || math.IsNaN(e.Contribution) {
		return fmt.Errorf("%w: NaN field", ErrInvalidEvent)
	}
	if e.Importance < -1 || e.Importance > 1 {
		return fmt.Errorf("%w: importance %v outside [-1, 1]", ErrInvalidEvent, e.Importance)
	}
	if f := e.Object.Familiarity; f < -1 || f > 1 {
		return fmt.Errorf("%w: familiarity %v outside [-1, 1]", ErrInvalidEvent, f)
	}
	if p := e.TotalProgress; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("%w: total progress %v outside [0, 1]", ErrInvalidEvent, *p)
	}
	return nil
}
