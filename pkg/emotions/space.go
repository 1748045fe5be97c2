package emotions

import (
	"fmt"
	"math"
	"strings"
)

// Label names a discrete emotion region of the plane.
type Label string

const (
	Happy     Label = "happy"
	Excited   Label = "excited"
	Surprised Label = "surprised"
	Pleasant  Label = "pleasant"
	Fear      Label = "fear"
	Angry     Label = "angry"
	Annoyed   Label = "annoyed"
	Sad       Label = "sad"
	Desperate Label = "desperate"
	Bored     Label = "bored"
	Tired     Label = "tired"
	Relaxed   Label = "relaxed"
	Satisfied Label = "satisfied"
	Peaceful  Label = "peaceful"
)

const (
	// axisThreshold separates "near the axis" from "away from the axis" (√2/2).
	axisThreshold = math.Sqrt2 / 2

	// extremeArousal marks vectors pointing almost straight up or down.
	extremeArousal = 0.9

	quadrants  = 4
	subRegions = 4
)

// labels is the canonical iteration order.
var labels = [...]Label{
	Happy, Excited, Surprised, Pleasant,
	Fear, Angry, Annoyed,
	Sad, Desperate, Bored, Tired,
	Relaxed, Satisfied, Peaceful,
}

// taxonomy maps quadrant (row, 1-based) and sub-index (column) to a label.
// Column 0 holds the high-arousal-magnitude region, column 3 the weak region
// near the origin. Surprised spans both upper quadrants and tired both lower.
var taxonomy = [quadrants][subRegions]Label{
	{Surprised, Excited, Happy, Pleasant},
	{Surprised, Fear, Angry, Annoyed},
	{Tired, Bored, Desperate, Sad},
	{Tired, Relaxed, Satisfied, Peaceful},
}

// anchors are the fixed coordinates each label contributes when weighted
// emotions are projected back into the plane. Each anchor classifies to its
// own label.
var anchors = map[Label]Vector{
	Surprised: {X: 0.10, Y: 0.95},
	Excited:   {X: 0.55, Y: 0.80},
	Happy:     {X: 0.85, Y: 0.35},
	Pleasant:  {X: 0.50, Y: 0.30},
	Fear:      {X: -0.55, Y: 0.80},
	Angry:     {X: -0.85, Y: 0.35},
	Annoyed:   {X: -0.50, Y: 0.30},
	Tired:     {X: -0.10, Y: -0.95},
	Bored:     {X: -0.55, Y: -0.80},
	Desperate: {X: -0.85, Y: -0.35},
	Sad:       {X: -0.50, Y: -0.30},
	Relaxed:   {X: 0.55, Y: -0.80},
	Satisfied: {X: 0.85, Y: -0.35},
	Peaceful:  {X: 0.50, Y: -0.30},
}

// Labels returns the fourteen labels in canonical order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels[:])
	return out
}

// Lookup returns the label at a 1-based quadrant and a 0-based sub-index.
func Lookup(quadrant, sub int) (Label, error) {
	if quadrant < 1 || quadrant > quadrants {
		return "", fmt.Errorf("%w: quadrant %d", ErrConfiguration, quadrant)
	}
	if sub < 0 || sub >= subRegions {
		return "", fmt.Errorf("%w: sub-index %d", ErrConfiguration, sub)
	}
	return taxonomy[quadrant-1][sub], nil
}

// QuadrantLabels returns the four labels of a quadrant.
func QuadrantLabels(quadrant int) ([]Label, error) {
	if quadrant < 1 || quadrant > quadrants {
		return nil, fmt.Errorf("%w: quadrant %d", ErrConfiguration, quadrant)
	}
	row := taxonomy[quadrant-1]
	return row[:], nil
}

// Anchor returns the plane coordinate associated with a label.
func Anchor(l Label) (Vector, bool) {
	v, ok := anchors[l]
	return v, ok
}

// ParseLabel resolves a case-insensitive label name.
func ParseLabel(s string) (Label, error) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := anchors[l]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
	return l, nil
}

// Quadrant returns the 1-based quadrant for an angle in degrees: the smallest
// q with angle/90 <= q, so 0 and 90 both fall in quadrant 1.
func Quadrant(angleDeg float64) int {
	q := int(math.Ceil(normalizeDegrees(angleDeg) / 90))
	return clampInt(q, 1, quadrants)
}

// subIndex computes the column in the taxonomy row. The raw value can leave
// [0, 3] (a vector with |x| > √2/2 and |y| > 0.9 yields -1); it is clamped
// to the nearest column.
func subIndex(v Vector) int {
	xFlag, yFlag := 0, 0
	if math.Abs(v.X) <= axisThreshold {
		xFlag = 1
	}
	if math.Abs(v.Y) <= axisThreshold {
		yFlag = 1
	}
	if math.Abs(v.Y) > extremeArousal {
		xFlag--
	}
	if yFlag != 0 {
		yFlag++
	}
	return clampInt(xFlag+yFlag, 0, subRegions-1)
}

// Classify maps the vector to its label.
func (v Vector) Classify() (Label, error) {
	angle, err := v.Angle()
	if err != nil {
		return "", err
	}
	return Lookup(Quadrant(angle), subIndex(v))
}
