package emotions

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestFromPolar(t *testing.T) {
	tests := []struct {
		strength, angle float64
		wantX, wantY    float64
	}{
		{1, 0, 1, 0},
		{1, 90, 0, 1},
		{1, 180, -1, 0},
		{1, 270, 0, -1},
		{0.5, 45, 0.5 * math.Sqrt2 / 2, 0.5 * math.Sqrt2 / 2},
		{1, 450, 0, 1},
		{1, -90, 0, -1},
	}

	for _, tt := range tests {
		v := FromPolar(tt.strength, tt.angle)
		if math.Abs(v.X-tt.wantX) > 1e-12 || math.Abs(v.Y-tt.wantY) > 1e-12 {
			t.Errorf("FromPolar(%v, %v) = %v, want (%v, %v)", tt.strength, tt.angle, v, tt.wantX, tt.wantY)
		}
	}
}

func TestAngle_QuadrantCorrection(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"positive x axis", 1, 0, 0},
		{"positive y axis", 0, 1, 90},
		{"negative x axis", -1, 0, 180},
		{"negative y axis", 0, -1, 270},
		{"first quadrant", 1, 1, 45},
		{"second quadrant", -1, 1, 135},
		{"third quadrant", -1, -1, 225},
		{"fourth quadrant", 1, -1, 315},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromCartesian(tt.x, tt.y).Angle()
			if err != nil {
				t.Fatalf("Angle() error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Angle() = %v, want %v", got, tt.want)
			}
			if got < 0 || got >= 360 {
				t.Errorf("Angle() = %v, outside [0, 360)", got)
			}
		})
	}
}

func TestAngle_ZeroStrength(t *testing.T) {
	_, err := Vector{}.Angle()
	if !errors.Is(err, ErrZeroStrength) {
		t.Fatalf("expected ErrZeroStrength, got %v", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("ErrZeroStrength should wrap ErrInvalidState")
	}

	if _, _, err := (Vector{}).Polar(); err == nil {
		t.Error("expected Polar() to fail on zero vector")
	}
}

func TestRoundTrip(t *testing.T) {
	points := []Vector{
		{0.3, 0.4}, {-0.3, 0.4}, {-0.3, -0.4}, {0.3, -0.4},
		{1, 0}, {0, 1}, {-1, 0}, {0, -1},
		{0.001, -0.999}, {-0.7071, 0.7071}, {2.5, -1.5},
	}

	for _, p := range points {
		s, a, err := p.Polar()
		if err != nil {
			t.Fatalf("Polar(%v) error: %v", p, err)
		}
		back := FromPolar(s, a)
		if !back.ApproxEqual(p, 1e-9) {
			t.Errorf("round trip %v -> (%.4f, %.4f°) -> %v", p, s, a, back)
		}
	}
}

func TestAddSub(t *testing.T) {
	a := FromCartesian(0.2, 0.5)
	b := FromCartesian(-0.1, 0.25)

	sum := a.Add(b)
	if !floatEquals(sum.X, 0.1) || !floatEquals(sum.Y, 0.75) {
		t.Errorf("Add = %v, want (0.1, 0.75)", sum)
	}

	diff := a.Sub(b)
	if !floatEquals(diff.X, 0.3) || !floatEquals(diff.Y, 0.25) {
		t.Errorf("Sub = %v, want (0.3, 0.25)", diff)
	}

	if !floatEquals(diff.Strength(), math.Hypot(0.3, 0.25)) {
		t.Errorf("Sub strength = %v", diff.Strength())
	}

	if !a.Sub(a).IsZero() {
		t.Error("v - v should be zero")
	}
}

func TestLerp(t *testing.T) {
	a := FromCartesian(0, 0)
	b := FromCartesian(1, -1)

	mid := a.Lerp(b, 0.5)
	if !floatEquals(mid.X, 0.5) || !floatEquals(mid.Y, -0.5) {
		t.Errorf("Lerp(0.5) = %v", mid)
	}
}
