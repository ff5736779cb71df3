package warp

import (
	"math"
	"testing"
)

func TestQuadToQuadIdentity(t *testing.T) {
	square := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	tr := QuadToQuad(square, square)

	for _, p := range [][2]float64{{0, 0}, {1, 1}, {0.5, 0.5}, {0.25, 0.75}} {
		x, y := tr.Apply(p[0], p[1])
		if math.Abs(x-p[0]) > 1e-9 || math.Abs(y-p[1]) > 1e-9 {
			t.Errorf("identity moved (%g, %g) to (%g, %g)", p[0], p[1], x, y)
		}
	}
}

func TestQuadToQuadCorners(t *testing.T) {
	src := [4][2]float64{{0, 0}, {10, 0}, {10, 20}, {0, 20}}
	dst := [4][2]float64{{3, 1}, {12, 2}, {14, 25}, {1, 22}}
	tr := QuadToQuad(src, dst)

	for i := range src {
		x, y := tr.Apply(src[i][0], src[i][1])
		if math.Abs(x-dst[i][0]) > 1e-6 || math.Abs(y-dst[i][1]) > 1e-6 {
			t.Errorf("corner %d: got (%g, %g), want (%g, %g)", i, x, y, dst[i][0], dst[i][1])
		}
	}
}

func TestQuadToQuadAffineTranslation(t *testing.T) {
	src := [4][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	dst := [4][2]float64{{10, 5}, {14, 5}, {14, 9}, {10, 9}}
	tr := QuadToQuad(src, dst)

	x, y := tr.Apply(2, 2)
	if math.Abs(x-12) > 1e-9 || math.Abs(y-7) > 1e-9 {
		t.Errorf("center: got (%g, %g), want (12, 7)", x, y)
	}
}
