package emotions

import (
	"fmt"
	"math"
)

// Vector is a point in the valence/arousal plane.
//
// The Cartesian pair is the only stored representation; strength and angle
// are derived on every read so the two forms cannot disagree.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// FromCartesian builds a vector from valence and arousal.
func FromCartesian(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// FromPolar builds a vector from a strength and an angle in degrees.
// The angle is measured counter-clockwise from the positive valence axis.
func FromPolar(strength, angleDeg float64) Vector {
	rad := degToRad(normalizeDegrees(angleDeg))
	return Vector{
		X: strength * math.Cos(rad),
		Y: strength * math.Sin(rad),
	}
}

// Strength returns the vector's magnitude.
func (v Vector) Strength() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Angle returns the direction in degrees, in [0, 360).
//
// The angle is recovered from asin(y/strength) and corrected by the sign of x,
// which puts points on the negative valence axis at 180 and points on the
// negative arousal axis at 270.
func (v Vector) Angle() (float64, error) {
	s := v.Strength()
	if s == 0 {
		return 0, ErrZeroStrength
	}

	r := radToDeg(math.Asin(clamp(v.Y/s, -1, 1)))

	var angle float64
	switch {
	case r >= 0 && v.X >= 0:
		angle = r
	case r >= 0:
		angle = 180 - r
	case v.X >= 0:
		angle = 360 + r
	default:
		angle = 180 - r
	}

	if angle >= 360 {
		angle -= 360
	}
	return angle, nil
}

// Polar returns strength and angle together.
func (v Vector) Polar() (strength, angle float64, err error) {
	angle, err = v.Angle()
	if err != nil {
		return 0, 0, err
	}
	return v.Strength(), angle, nil
}

// Add returns the component-wise sum.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by k.
func (v Vector) Scale(k float64) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

// Lerp returns the point a fraction t of the way from v to target.
func (v Vector) Lerp(target Vector, t float64) Vector {
	return Vector{X: lerp(v.X, target.X, t), Y: lerp(v.Y, target.Y, t)}
}

// ApproxEqual reports whether both components differ by less than tol.
func (v Vector) ApproxEqual(o Vector, tol float64) bool {
	return math.Abs(v.X-o.X) < tol && math.Abs(v.Y-o.Y) < tol
}

// IsZero reports whether the vector has no strength.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vector) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}
