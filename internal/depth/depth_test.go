package depth

import (
	"errors"
	"math"
	"testing"
)

func filledMap(width, height int, v float32) *Map {
	m := NewMap(width, height)
	for i := range m.Data {
		m.Data[i] = v
	}
	return m
}

func TestPositionRoundTrip(t *testing.T) {
	p := NewProcessor(Intrinsics{Fx: 500, Fy: 500, Cx: 0, Cy: 0})
	m := filledMap(200, 10, 2.0)

	tests := []struct {
		name    string
		u, v    float64
		want    Position
	}{
		{"optical axis", 0, 0, Position{X: 0, Y: 0, Z: 2.0}},
		{"offset u", 100, 0, Position{X: 0.4, Y: 0, Z: 2.0}},
		{"offset v", 0, 5, Position{X: 0, Y: 0.02, Z: 2.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Position(m, tt.u, tt.v)
			if err != nil {
				t.Fatalf("Position failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPositionInvalidDepth(t *testing.T) {
	p := NewProcessor(Intrinsics{Fx: 500, Fy: 500})

	zero := filledMap(10, 10, 0)
	if _, err := p.Position(zero, 5, 5); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("zero depth: got %v, want ErrInvalidDepth", err)
	}

	nan := filledMap(10, 10, float32(math.NaN()))
	if _, err := p.Position(nan, 5, 5); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("NaN depth: got %v, want ErrInvalidDepth", err)
	}

	neg := filledMap(10, 10, -1)
	if _, err := p.Position(neg, 5, 5); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("negative depth: got %v, want ErrInvalidDepth", err)
	}

	valid := filledMap(10, 10, 1)
	if _, err := p.Position(valid, 50, 50); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("out of bounds: got %v, want ErrInvalidDepth", err)
	}
}

func TestPositionSmoothed(t *testing.T) {
	p := NewProcessor(Intrinsics{Fx: 500, Fy: 500})

	// Hole at the center, valid ring around it.
	m := filledMap(11, 11, 3.0)
	m.Set(5, 5, 0)

	if _, err := p.Position(m, 5, 5); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("exact sample should be invalid, got %v", err)
	}
	pos, err := p.PositionSmoothed(m, 5, 5, 1)
	if err != nil {
		t.Fatalf("PositionSmoothed failed: %v", err)
	}
	if math.Abs(pos.Z-3.0) > 1e-9 {
		t.Errorf("Z: got %.4f, want 3.0", pos.Z)
	}

	empty := NewMap(11, 11)
	if _, err := p.PositionSmoothed(empty, 5, 5, 2); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("all-invalid window: got %v, want ErrInvalidDepth", err)
	}
}

func TestDistanceToCenter(t *testing.T) {
	p := NewProcessor(Intrinsics{Fx: 500, Fy: 500, Cx: 50, Cy: 60})

	if d := p.DistanceToCenter(50, 60); d != 0 {
		t.Errorf("at the optical center: got %g, want 0", d)
	}
	if d := p.DistanceToCenter(53, 64); math.Abs(d-5) > 1e-9 {
		t.Errorf("3-4-5 offset: got %g, want 5", d)
	}
}

func TestMapAccess(t *testing.T) {
	m := NewMap(4, 3)
	m.Set(2, 1, 1.5)

	if v := m.At(2, 1); v != 1.5 {
		t.Errorf("At(2,1): got %g, want 1.5", v)
	}
	if v := m.At(-1, 0); !math.IsNaN(v) {
		t.Errorf("out-of-bounds read: got %g, want NaN", v)
	}
	m.Set(10, 10, 9) // must not panic
}

func TestIntrinsicsFromMatrix(t *testing.T) {
	k := [9]float64{500, 0, 320, 0, 480, 240, 0, 0, 1}
	intr := IntrinsicsFromMatrix(k)
	want := Intrinsics{Fx: 500, Fy: 480, Cx: 320, Cy: 240}
	if intr != want {
		t.Errorf("got %+v, want %+v", intr, want)
	}
}
