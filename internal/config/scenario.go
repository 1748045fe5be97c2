package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-affect/pkg/appraisal"
	"github.com/teslashibe/go-affect/pkg/emotions"
)

// ErrInvalidScenario is returned when a scenario file is structurally wrong.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a scripted run: one agent, its starting emotion and the events
// it reacts to in order.
type Scenario struct {
	Agent       string                `yaml:"agent"`
	Personality appraisal.Personality `yaml:"personality"`
	Initial     emotions.Vector       `yaml:"initial"`

	// Steps overrides the configured decay step count when positive.
	Steps int `yaml:"steps"`

	Events []ScenarioEvent `yaml:"events"`
}

// ScenarioEvent is an event together with the context it happens in.
type ScenarioEvent struct {
	Context         appraisal.Context `yaml:"context"`
	appraisal.Event `yaml:",inline"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the agent name and every event.
func (s *Scenario) Validate() error {
	if s.Agent == "" {
		return fmt.Errorf("%w: agent name is required", ErrInvalidScenario)
	}
	if len(s.Events) == 0 {
		return fmt.Errorf("%w: no events", ErrInvalidScenario)
	}
	for i := range s.Events {
		ev := &s.Events[i]
		if ev.Context == "" {
			ev.Context = appraisal.ContextIndividual
		}
		if err := ev.Context.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if err := ev.Event.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		ev.Object.Risk = ev.Object.EffectiveRisk()
	}
	return nil
}
