package appraisal

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Personality is a Big Five profile where each trait is either present or absent.
type Personality struct {
	Openness          bool `json:"openness" yaml:"openness"`
	Conscientiousness bool `json:"conscientiousness" yaml:"conscientiousness"`
	Extraversion      bool `json:"extraversion" yaml:"extraversion"`
	Agreeableness     bool `json:"agreeableness" yaml:"agreeableness"`
	Neuroticism       bool `json:"neuroticism" yaml:"neuroticism"`
}

const traitLetters = "ocean"

// String renders the profile as five letters, upper case for a present trait:
// "OCEAn" is everything but neuroticism.
func (p Personality) String() string {
	flags := [5]bool{p.Openness, p.Conscientiousness, p.Extraversion, p.Agreeableness, p.Neuroticism}
	var b strings.Builder
	for i, on := range flags {
		c := traitLetters[i]
		if on {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ParsePersonality reads the five-letter form produced by String.
func ParsePersonality(s string) (Personality, error) {
	if len(s) != len(traitLetters) {
		return Personality{}, fmt.Errorf("%w: %q must have 5 letters", ErrInvalidPersonality, s)
	}

	var flags [5]bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case traitLetters[i]:
		case traitLetters[i] - ('a' - 'A'):
			flags[i] = true
		default:
			return Personality{}, fmt.Errorf("%w: %q at position %d", ErrInvalidPersonality, c, i)
		}
	}

	return Personality{
		Openness:          flags[0],
		Conscientiousness: flags[1],
		Extraversion:      flags[2],
		Agreeableness:     flags[3],
		Neuroticism:       flags[4],
	}, nil
}

// UnmarshalYAML accepts either the five-letter form ("OCEAn") or a mapping of
// trait names to booleans.
func (p *Personality) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParsePersonality(node.Value)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	type traits Personality
	var t traits
	if err := node.Decode(&t); err != nil {
		return err
	}
	*p = Personality(t)
	return nil
}
