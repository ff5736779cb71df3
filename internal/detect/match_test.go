package detect

import (
	"math"
	"testing"
)

// verticalLight builds an upright light of the given length centered at
// (cx, cy).
func verticalLight(cx, cy, length float64, c Color) Light {
	return Light{
		Center: Point{X: cx, Y: cy},
		Top:    Point{X: cx, Y: cy - length/2},
		Bottom: Point{X: cx, Y: cy + length/2},
		Length: length,
		Width:  length * 0.1,
		Color:  c,
	}
}

// tiltedLight builds a light whose axis is rotated deg degrees from
// vertical.
func tiltedLight(cx, cy, length, deg float64, c Color) Light {
	rad := deg * math.Pi / 180
	ax := math.Sin(rad) * length / 2
	ay := math.Cos(rad) * length / 2
	return Light{
		Center:    Point{X: cx, Y: cy},
		Top:       Point{X: cx - ax, Y: cy - ay},
		Bottom:    Point{X: cx + ax, Y: cy + ay},
		Length:    length,
		Width:     length * 0.1,
		TiltAngle: deg,
		Color:     c,
	}
}

func TestMatchLightsSmallPair(t *testing.T) {
	d := testDetector()
	lights := []Light{
		verticalLight(80, 50, 40, Red),
		verticalLight(0, 50, 40, Red), // deliberately out of order
	}

	armors, meas := d.MatchLights(lights)
	if len(armors) != 1 {
		t.Fatalf("got %d armors, want 1", len(armors))
	}
	a := armors[0]
	if a.Type != Small {
		t.Errorf("type: got %v, want small", a.Type)
	}
	if a.Left.Center.X >= a.Right.Center.X {
		t.Errorf("left/right order violated: %.1f >= %.1f", a.Left.Center.X, a.Right.Center.X)
	}
	if a.Center.X != 40 || a.Center.Y != 50 {
		t.Errorf("center: got (%.1f, %.1f), want (40, 50)", a.Center.X, a.Center.Y)
	}
	if len(meas) != 1 || meas[0].Type != "small" {
		t.Errorf("measurements: got %+v", meas)
	}
}

func TestMatchLightsLargePair(t *testing.T) {
	d := testDetector()
	lights := []Light{
		verticalLight(0, 50, 40, Red),
		verticalLight(150, 50, 40, Red), // center distance 3.75
	}

	armors, _ := d.MatchLights(lights)
	if len(armors) != 1 || armors[0].Type != Large {
		t.Fatalf("got %+v, want one large armor", armors)
	}
}

func TestMatchLightsGapRegionRejected(t *testing.T) {
	d := testDetector()
	// Center distance 3.0 sits between the small window (<= 2.8) and
	// the large window (>= 3.2): matches neither class.
	lights := []Light{
		verticalLight(0, 50, 40, Red),
		verticalLight(120, 50, 40, Red),
	}

	armors, meas := d.MatchLights(lights)
	if len(armors) != 0 {
		t.Fatalf("gap-region pair must not match, got %d armors", len(armors))
	}
	if len(meas) != 1 || meas[0].Type != "invalid" {
		t.Errorf("measurements: got %+v", meas)
	}
}

func TestMatchLightsLengthRatioRejected(t *testing.T) {
	d := testDetector()
	lights := []Light{
		verticalLight(0, 50, 40, Red),
		verticalLight(60, 50, 20, Red), // ratio 0.5 < 0.6
	}

	armors, _ := d.MatchLights(lights)
	if len(armors) != 0 {
		t.Fatalf("got %d armors, want 0", len(armors))
	}
}

func TestMatchLightsAngleRejected(t *testing.T) {
	d := testDetector()
	lights := []Light{
		tiltedLight(0, 50, 40, 50, Red), // 50 degrees off the center-line perpendicular
		verticalLight(80, 50, 40, Red),
	}

	armors, _ := d.MatchLights(lights)
	if len(armors) != 0 {
		t.Fatalf("got %d armors, want 0", len(armors))
	}
}

func TestMatchLightsColorFiltered(t *testing.T) {
	d := testDetector()
	lights := []Light{
		verticalLight(0, 50, 40, Blue),
		verticalLight(80, 50, 40, Blue),
	}

	armors, _ := d.MatchLights(lights)
	if len(armors) != 0 {
		t.Fatalf("blue lights matched by a red detector: %d armors", len(armors))
	}

	d.Color = Blue
	armors, _ = d.MatchLights(lights)
	if len(armors) != 1 {
		t.Fatalf("got %d armors, want 1", len(armors))
	}
}

func TestMatchLightsNoReuse(t *testing.T) {
	d := testDetector()
	// Three collinear lights. The outer pair is rejected because it
	// contains the middle light; the two adjacent pairs share it, so at
	// most one armor can form.
	lights := []Light{
		verticalLight(0, 50, 40, Red),
		verticalLight(80, 50, 40, Red),
		verticalLight(160, 50, 40, Red),
	}

	armors, _ := d.MatchLights(lights)
	if len(armors) > len(lights)/2 {
		t.Fatalf("%d armors from %d lights violates the reuse bound", len(armors), len(lights))
	}
	if len(armors) != 1 {
		t.Fatalf("got %d armors, want 1", len(armors))
	}
	// Equal scores tie-break to the leftmost pair.
	if armors[0].Left.Center.X != 0 || armors[0].Right.Center.X != 80 {
		t.Errorf("got pair (%.0f, %.0f), want (0, 80)",
			armors[0].Left.Center.X, armors[0].Right.Center.X)
	}
}

func TestMatchLightsBestRatioWins(t *testing.T) {
	d := testDetector()
	// The middle light pairs with both neighbors; the right pairing has
	// the better length ratio and must win.
	lights := []Light{
		verticalLight(0, 50, 28, Red),  // ratio 0.7 with middle
		verticalLight(80, 50, 40, Red),
		verticalLight(160, 50, 38, Red), // ratio 0.95 with middle
	}

	armors, _ := d.MatchLights(lights)
	if len(armors) != 1 {
		t.Fatalf("got %d armors, want 1", len(armors))
	}
	if armors[0].Left.Center.X != 80 || armors[0].Right.Center.X != 160 {
		t.Errorf("got pair (%.0f, %.0f), want (80, 160)",
			armors[0].Left.Center.X, armors[0].Right.Center.X)
	}
}

func TestMatchLightsReflectionSymmetry(t *testing.T) {
	d := testDetector()
	lights := []Light{
		verticalLight(10, 50, 40, Red),
		verticalLight(90, 50, 36, Red),
	}
	mirrored := []Light{
		verticalLight(-10, 50, 40, Red),
		verticalLight(-90, 50, 36, Red),
	}

	armors, meas := d.MatchLights(lights)
	mirroredArmors, mirroredMeas := d.MatchLights(mirrored)
	if len(armors) != 1 || len(mirroredArmors) != 1 {
		t.Fatalf("got %d and %d armors, want 1 and 1", len(armors), len(mirroredArmors))
	}
	if armors[0].Type != mirroredArmors[0].Type {
		t.Errorf("type changed under reflection: %v vs %v", armors[0].Type, mirroredArmors[0].Type)
	}
	if math.Abs(meas[0].CenterDistance-mirroredMeas[0].CenterDistance) > 1e-9 {
		t.Errorf("center distance changed under reflection: %.6f vs %.6f",
			meas[0].CenterDistance, mirroredMeas[0].CenterDistance)
	}
}

func TestMatchLightsEmptyInput(t *testing.T) {
	d := testDetector()
	armors, meas := d.MatchLights(nil)
	if len(armors) != 0 || len(meas) != 0 {
		t.Errorf("got %d armors, %d measurements from no lights", len(armors), len(meas))
	}
}
