package appraisal

import (
	"math"

	"github.com/teslashibe/go-affect/pkg/emotions"
)

const (
	// unit scales importance, familiarity and progress into weights.
	unit = 10.0

	// bump is the fixed weight of a rule that has no magnitude of its own.
	bump = 5.0

	// traitMultiplier doubles rules for conscientiousness and neuroticism.
	traitMultiplier = 2.0

	// completionBonus is added to excited and pleasant when a goal is finished.
	completionBonus = 20.0
)

// perceive scores the event as it is, without personality.
func perceive(w Weights, ev Event) {
	imp := math.Abs(ev.Importance) * unit
	switch {
	case ev.Importance > 0:
		w.add(imp, emotions.Happy)
	case ev.Importance < 0:
		w.add(imp, emotions.Annoyed)
	}

	if !ev.Condition && !ev.ResourceAvailable {
		w.add(bump, emotions.Sad, emotions.Fear, emotions.Angry)
	}

	if ev.Suddenness {
		w.add(bump, emotions.Surprised)
	}

	fam := ev.Object.Familiarity
	famWeight := math.Abs(fam) * unit
	switch {
	case ev.Condition && fam > 0:
		w.add(famWeight, emotions.Satisfied)
	case ev.Condition && fam < 0:
		w.add(famWeight, emotions.Excited)
	case !ev.Condition && fam > 0:
		w.add(famWeight, emotions.Angry)
	case !ev.Condition && fam < 0:
		w.add(famWeight, emotions.Peaceful)
	}

	if ev.Object.EffectiveRisk() {
		if ev.Condition {
			w.add(bump, emotions.Excited, emotions.Happy)
		} else {
			w.add(bump, emotions.Desperate, emotions.Sad)
		}
	}
}

// apprise re-scores the event through the personality and the social context.
func apprise(w Weights, ev Event, p Personality, ctx Context) {
	imp := math.Abs(ev.Importance) * unit

	if ev.Object.EffectiveRisk() {
		if p.Neuroticism {
			w.add(bump, emotions.Fear, emotions.Angry)
		}
		if p.Openness {
			w.add(bump, emotions.Satisfied)
		}
	}

	if p.Conscientiousness && ev.Importance > 0 {
		if ev.Condition {
			w.add(traitMultiplier*imp, emotions.Satisfied)
		} else {
			w.add(traitMultiplier*imp, emotions.Sad)
		}
	}

	if p.Neuroticism {
		if !ev.Condition {
			w.add(traitMultiplier*imp, emotions.Fear)
		}
		if ev.Importance < 0 {
			w.add(imp, emotions.Annoyed)
		}
	}

	switch {
	case p.Openness && ev.Condition:
		w.add(imp, emotions.Excited)
	case !p.Openness && !ev.Condition:
		w.add(imp, emotions.Bored)
	}

	if p.Agreeableness {
		if ev.Condition {
			w.add(imp, emotions.Pleasant)
		} else {
			w.add(imp, emotions.Peaceful)
		}
	}

	switch ctx {
	case ContextSocial:
		if p.Extraversion {
			w.add(bump, emotions.Happy)
		} else {
			w.add(bump, emotions.Sad)
		}
		if ev.Contribution == 0 {
			if p.Neuroticism {
				w.add(bump, emotions.Angry, emotions.Fear)
			}
		} else {
			w.add(bump, emotions.Excited, emotions.Pleasant)
		}
		if p.Agreeableness {
			w.add(bump, emotions.Relaxed, emotions.Peaceful)
		}
	case ContextIndividual:
		if p.Extraversion {
			w.add(bump, emotions.Sad)
		} else {
			w.add(bump, emotions.Happy)
		}
	}
}

// regulate scores progress toward the event's goal.
func regulate(w Weights, ev Event) {
	if ev.TotalProgress == nil {
		return
	}
	progress := *ev.TotalProgress
	w.add(progress*unit, emotions.Happy)
	if progress == 1 {
		w.add(completionBonus, emotions.Excited, emotions.Pleasant)
	}
}
