package detect

import (
	"math"
	"sort"
)

// PairMeasurement records the geometry of one evaluated light pair.
// Type is "small" or "large" for accepted candidates and "invalid" for
// rejected ones. Reported for debug telemetry only.
type PairMeasurement struct {
	CenterX        float64 `json:"center_x"`
	LightRatio     float64 `json:"light_ratio"`
	CenterDistance float64 `json:"center_distance"`
	Angle          float64 `json:"angle"`
	Type           string  `json:"type"`
}

// pairCandidate is a geometrically valid pairing awaiting selection.
type pairCandidate struct {
	left, right int
	armor       Armor
	ratio       float64
	distanceDev float64
}

// MatchLights pairs target-color lights into candidate armors.
//
// Every unordered pair with no third light between them is checked against
// the length-ratio, center-distance and axis-alignment constraints. Each
// light joins at most one armor: valid candidates are ranked by length
// ratio (higher first), then by center-distance deviation from the middle
// of its size window (smaller first), then by leftmost position, and
// selected greedily. The returned measurements cover every evaluated pair.
func (d *Detector) MatchLights(lights []Light) ([]Armor, []PairMeasurement) {
	sorted := make([]Light, 0, len(lights))
	for _, l := range lights {
		if l.Color == d.Color {
			sorted = append(sorted, l)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Center.X < sorted[j].Center.X
	})

	var candidates []pairCandidate
	var measurements []PairMeasurement

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			left, right := sorted[i], sorted[j]
			if containsLight(sorted, left, right) {
				continue
			}

			m, cand, ok := d.checkPair(left, right)
			measurements = append(measurements, m)
			if ok {
				cand.left, cand.right = i, j
				candidates = append(candidates, cand)
			}
		}
	}

	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.ratio != cb.ratio {
			return ca.ratio > cb.ratio
		}
		if ca.distanceDev != cb.distanceDev {
			return ca.distanceDev < cb.distanceDev
		}
		return ca.armor.Left.Center.X < cb.armor.Left.Center.X
	})

	used := make([]bool, len(sorted))
	var armors []Armor
	for _, c := range candidates {
		if used[c.left] || used[c.right] {
			continue
		}
		used[c.left] = true
		used[c.right] = true
		armors = append(armors, c.armor)
	}
	return armors, measurements
}

// checkPair evaluates one left/right pair against the armor constraints
// and builds the candidate when all of them hold.
func (d *Detector) checkPair(left, right Light) (PairMeasurement, pairCandidate, bool) {
	avgLength := (left.Length + right.Length) / 2
	ratio := math.Min(left.Length, right.Length) / math.Max(left.Length, right.Length)

	centerDistance := 0.0
	if avgLength > 0 {
		centerDistance = left.Center.Dist(right.Center) / avgLength
	}

	angle := math.Max(
		axisDeviation(left, right.Center, left.Center),
		axisDeviation(right, right.Center, left.Center),
	)

	m := PairMeasurement{
		CenterX:        (left.Center.X + right.Center.X) / 2,
		LightRatio:     ratio,
		CenterDistance: centerDistance,
		Angle:          angle,
		Type:           "invalid",
	}

	if ratio < d.Armor.MinLightRatio || angle > d.Armor.MaxAngle {
		return m, pairCandidate{}, false
	}

	var (
		armorType ArmorType
		windowMid float64
	)
	switch {
	case centerDistance >= d.Armor.MinSmallCenterDistance &&
		centerDistance <= d.Armor.MaxSmallCenterDistance:
		armorType = Small
		windowMid = (d.Armor.MinSmallCenterDistance + d.Armor.MaxSmallCenterDistance) / 2
	case centerDistance >= d.Armor.MinLargeCenterDistance &&
		centerDistance <= d.Armor.MaxLargeCenterDistance:
		armorType = Large
		windowMid = (d.Armor.MinLargeCenterDistance + d.Armor.MaxLargeCenterDistance) / 2
	default:
		return m, pairCandidate{}, false
	}
	m.Type = armorType.String()

	armor := Armor{
		Left:  left,
		Right: right,
		Center: Point{
			X: (left.Center.X + right.Center.X) / 2,
			Y: (left.Center.Y + right.Center.Y) / 2,
		},
		Type: armorType,
	}
	cand := pairCandidate{
		armor:       armor,
		ratio:       ratio,
		distanceDev: math.Abs(centerDistance - windowMid),
	}
	return m, cand, true
}

// axisDeviation measures how far a light's long axis deviates, in
// degrees, from the perpendicular of the line joining the two centers.
// A well-formed armor has near-vertical lights over a near-horizontal
// center line, so the deviation is near zero.
func axisDeviation(l Light, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	norm := math.Hypot(dx, dy)
	if norm == 0 || l.Length == 0 {
		return 0
	}
	axis := l.axis()
	dot := math.Abs((dx*axis.X + dy*axis.Y) / norm)
	if dot > 1 {
		dot = 1
	}
	between := math.Acos(dot) * 180 / math.Pi
	return math.Abs(90 - between)
}

// containsLight reports whether any other light's center falls inside the
// bounding region spanned by the candidate pair, which would mean the
// pair straddles a third strip rather than bounding a plate.
func containsLight(lights []Light, left, right Light) bool {
	minX := math.Min(left.Top.X, left.Bottom.X)
	maxX := math.Max(right.Top.X, right.Bottom.X)
	minY := math.Min(math.Min(left.Top.Y, right.Top.Y), math.Min(left.Bottom.Y, right.Bottom.Y))
	maxY := math.Max(math.Max(left.Top.Y, right.Top.Y), math.Max(left.Bottom.Y, right.Bottom.Y))

	for _, l := range lights {
		if l.Center == left.Center || l.Center == right.Center {
			continue
		}
		inside := func(p Point) bool {
			return p.X > minX && p.X < maxX && p.Y > minY && p.Y < maxY
		}
		if inside(l.Top) || inside(l.Bottom) || inside(l.Center) {
			return true
		}
	}
	return false
}
