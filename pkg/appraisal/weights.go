package appraisal

import (
	"github.com/teslashibe/go-affect/pkg/emotions"
)

// Weights holds a non-negative score per emotion label.
type Weights map[emotions.Label]float64

// newWeights returns a table with every label at zero.
func newWeights() Weights {
	w := make(Weights, len(emotions.Labels()))
	for _, l := range emotions.Labels() {
		w[l] = 0
	}
	return w
}

// add accumulates amount onto each label.
func (w Weights) add(amount float64, labels ...emotions.Label) {
	for _, l := range labels {
		w[l] += amount
	}
}

// Total sums all weights in label order.
func (w Weights) Total() float64 {
	var sum float64
	for _, l := range emotions.Labels() {
		sum += w[l]
	}
	return sum
}

// Normalized returns a copy where the weights sum to 1.
func (w Weights) Normalized() (Weights, error) {
	total := w.Total()
	if total == 0 {
		return nil, ErrZeroWeight
	}
	out := make(Weights, len(w))
	for l, v := range w {
		out[l] = v / total
	}
	return out, nil
}

// Project sums each label's anchor scaled by its weight.
func (w Weights) Project() emotions.Vector {
	var v emotions.Vector
	for _, l := range emotions.Labels() {
		anchor, _ := emotions.Anchor(l)
		v = v.Add(anchor.Scale(w[l]))
	}
	return v
}

// Dominant returns the label with the highest weight, first in label order on ties.
func (w Weights) Dominant() emotions.Label {
	var best emotions.Label
	max := -1.0
	for _, l := range emotions.Labels() {
		if w[l] > max {
			best, max = l, w[l]
		}
	}
	return best
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for l, v := range w {
		out[l] = v
	}
	return out
}
