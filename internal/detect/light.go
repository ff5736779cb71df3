package detect

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"sort"
)

// Color identifies which team color a light belongs to.
type Color int

const (
	Red Color = iota
	Blue
)

// String returns the lowercase color name.
func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// MarshalJSON encodes the color as its lowercase name.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes "red" or "blue".
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "red":
		*c = Red
	case "blue":
		*c = Blue
	default:
		return fmt.Errorf("unknown color %q", s)
	}
	return nil
}

// ArmorType classifies the physical size of a matched armor plate.
type ArmorType int

const (
	Small ArmorType = iota
	Large
)

// String returns the lowercase type name.
func (t ArmorType) String() string {
	switch t {
	case Small:
		return "small"
	case Large:
		return "large"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// MarshalJSON encodes the armor type as its lowercase name.
func (t ArmorType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Point is a 2D coordinate in image space. Unlike image.Point it carries
// sub-pixel precision, which the rotated-rectangle fit and the perspective
// warp both need.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Light is a rotated rectangle fitted to one bright region, hypothesized
// to be one edge strip of an armor plate.
//
// Invariants: Length >= Width, and TiltAngle is the deviation of the long
// axis from vertical in degrees, normalized to [0, 90]. Top is the end of
// the long axis with the smaller Y (image coordinates grow downward).
type Light struct {
	Center Point `json:"center"`
	Top    Point `json:"top"`
	Bottom Point `json:"bottom"`

	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	TiltAngle float64 `json:"tilt_angle"`

	Color Color `json:"color"`
}

// axis returns the unit vector along the long axis, pointing from Top to
// Bottom. Degenerate lights (Length == 0) return the zero vector.
func (l Light) axis() Point {
	if l.Length == 0 {
		return Point{}
	}
	return Point{
		X: (l.Bottom.X - l.Top.X) / l.Length,
		Y: (l.Bottom.Y - l.Top.Y) / l.Length,
	}
}

// Armor is a matched light pair bounding a hypothesized armor plate.
//
// Left.Center.X < Right.Center.X always holds. NumberImage, Number and
// Confidence are filled in by package classify; until then Number is empty.
type Armor struct {
	Left  Light `json:"left"`
	Right Light `json:"right"`

	Center Point     `json:"center"`
	Type   ArmorType `json:"type"`

	NumberImage *image.Gray `json:"-"`
	Number      string      `json:"number"`
	Confidence  float64     `json:"confidence"`
}

// rotatedRect is a minimum-area oriented bounding rectangle: center,
// extent along the edge direction (w), extent along its normal (h), and
// the edge direction angle in radians.
type rotatedRect struct {
	center Point
	w, h   float64
	angle  float64
}

// newLight builds a Light from a fitted rectangle, orienting the long
// axis downward and normalizing the tilt angle to [0, 90] degrees.
func newLight(r rotatedRect, c Color) Light {
	length, width := r.w, r.h
	axisAngle := r.angle
	if width > length {
		length, width = width, length
		axisAngle += math.Pi / 2
	}

	ax := math.Cos(axisAngle)
	ay := math.Sin(axisAngle)
	if ay < 0 {
		ax, ay = -ax, -ay
	}

	half := length / 2
	top := Point{X: r.center.X - ax*half, Y: r.center.Y - ay*half}
	bottom := Point{X: r.center.X + ax*half, Y: r.center.Y + ay*half}

	return Light{
		Center:    r.center,
		Top:       top,
		Bottom:    bottom,
		Length:    length,
		Width:     width,
		TiltAngle: math.Atan2(math.Abs(ax), ay) * 180 / math.Pi,
		Color:     c,
	}
}

// minAreaRect fits the minimum-area rotated bounding rectangle to a point
// set using rotating calipers over the convex hull.
func minAreaRect(pts []image.Point) rotatedRect {
	hull := convexHull(pts)
	switch len(hull) {
	case 0:
		return rotatedRect{}
	case 1:
		return rotatedRect{center: hull[0]}
	}

	best := rotatedRect{}
	bestArea := math.Inf(1)

	for i := 0; i < len(hull); i++ {
		p := hull[i]
		q := hull[(i+1)%len(hull)]
		ex, ey := q.X-p.X, q.Y-p.Y
		norm := math.Hypot(ex, ey)
		if norm == 0 {
			continue
		}
		ex, ey = ex/norm, ey/norm

		minD, maxD := math.Inf(1), math.Inf(-1)
		minN, maxN := math.Inf(1), math.Inf(-1)
		for _, v := range hull {
			d := v.X*ex + v.Y*ey
			n := -v.X*ey + v.Y*ex
			minD = math.Min(minD, d)
			maxD = math.Max(maxD, d)
			minN = math.Min(minN, n)
			maxN = math.Max(maxN, n)
		}

		w := maxD - minD
		h := maxN - minN
		area := w * h
		if area < bestArea {
			bestArea = area
			midD := (minD + maxD) / 2
			midN := (minN + maxN) / 2
			best = rotatedRect{
				center: Point{
					X: ex*midD - ey*midN,
					Y: ey*midD + ex*midN,
				},
				w:     w,
				h:     h,
				angle: math.Atan2(ey, ex),
			}
		}
	}
	return best
}

// convexHull computes the convex hull of a pixel set with the Andrew
// monotone chain algorithm, returned in counter-clockwise order.
func convexHull(pts []image.Point) []Point {
	if len(pts) == 0 {
		return nil
	}

	sorted := make([]Point, len(pts))
	for i, p := range pts {
		sorted[i] = Point{X: float64(p.X), Y: float64(p.Y)}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	if len(sorted) == 1 {
		return sorted
	}

	cross := func(o, a, b Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
