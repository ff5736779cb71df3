// Package depth back-projects 2D image points into camera-frame 3D
// positions using a co-registered depth map and fixed pinhole intrinsics.
package depth

import (
	"errors"
	"math"
)

// ErrInvalidDepth reports a missing, zero, negative or NaN depth sample.
// No position is fabricated; the caller decides whether to drop the
// detection or retry with a smoothed sample.
var ErrInvalidDepth = errors.New("depth: invalid depth sample")

// Map is a per-pixel range image, in metres, co-registered with the
// color frame.
type Map struct {
	Width  int
	Height int
	Data   []float32
}

// NewMap allocates a zero-filled depth map.
func NewMap(width, height int) *Map {
	return &Map{
		Width:  width,
		Height: height,
		Data:   make([]float32, width*height),
	}
}

// At returns the range at (x, y), or NaN outside the map.
func (m *Map) At(x, y int) float64 {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return math.NaN()
	}
	return float64(m.Data[y*m.Width+x])
}

// Set stores the range at (x, y). Out-of-bounds writes are ignored.
func (m *Map) Set(x, y int, v float32) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.Data[y*m.Width+x] = v
}

// Intrinsics are fixed pinhole camera parameters: focal lengths and
// optical-center offsets in pixels.
type Intrinsics struct {
	Fx float64 `json:"fx"`
	Fy float64 `json:"fy"`
	Cx float64 `json:"cx"`
	Cy float64 `json:"cy"`
}

// IntrinsicsFromMatrix extracts pinhole parameters from a row-major 3x3
// camera matrix.
func IntrinsicsFromMatrix(k [9]float64) Intrinsics {
	return Intrinsics{Fx: k[0], Fy: k[4], Cx: k[2], Cy: k[5]}
}

// Position is a 3D point in camera-frame coordinates, metres. Z points
// along the optical axis.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Processor converts image points plus depth samples into 3D positions.
// Construct once with the camera's intrinsics; safe for concurrent use.
type Processor struct {
	intr Intrinsics
}

// NewProcessor returns a Processor for the given intrinsics.
func NewProcessor(intr Intrinsics) *Processor {
	return &Processor{intr: intr}
}

// Position samples the depth map at the nearest pixel to (u, v) and
// back-projects through the pinhole model:
//
//	X = (u - cx) * d / fx
//	Y = (v - cy) * d / fy
//	Z = d
//
// An invalid sample (zero, negative, NaN, or out of bounds) returns
// ErrInvalidDepth.
func (p *Processor) Position(m *Map, u, v float64) (Position, error) {
	d := m.At(int(math.Round(u)), int(math.Round(v)))
	return p.project(u, v, d)
}

// PositionSmoothed back-projects using the mean of the valid samples in
// a (2*radius+1)-sized window around (u, v). With no valid sample in the
// window it returns ErrInvalidDepth. Intended as the fallback when the
// exact-pixel sample is invalid.
func (p *Processor) PositionSmoothed(m *Map, u, v float64, radius int) (Position, error) {
	cx := int(math.Round(u))
	cy := int(math.Round(v))

	var sum float64
	var count int
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := m.At(cx+dx, cy+dy)
			if d > 0 && !math.IsNaN(d) {
				sum += d
				count++
			}
		}
	}
	if count == 0 {
		return Position{}, ErrInvalidDepth
	}
	return p.project(u, v, sum/float64(count))
}

// DistanceToCenter returns the pixel distance from (u, v) to the optical
// center. A cheap saliency signal for target prioritization, not a 3D
// quantity.
func (p *Processor) DistanceToCenter(u, v float64) float64 {
	return math.Hypot(u-p.intr.Cx, v-p.intr.Cy)
}

func (p *Processor) project(u, v, d float64) (Position, error) {
	if d <= 0 || math.IsNaN(d) {
		return Position{}, ErrInvalidDepth
	}
	return Position{
		X: (u - p.intr.Cx) * d / p.intr.Fx,
		Y: (v - p.intr.Cy) * d / p.intr.Fy,
		Z: d,
	}, nil
}
