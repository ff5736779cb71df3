package detect

// LightParams bounds the per-region filter applied by ExtractLights.
type LightParams struct {
	// MinRatio and MaxRatio bound the fitted rectangle's width/length
	// ratio. A valid light strip is much taller than wide.
	MinRatio float64 `json:"min_ratio"`
	MaxRatio float64 `json:"max_ratio"`

	// MaxAngle is the maximum tilt from vertical, in degrees.
	MaxAngle float64 `json:"max_angle"`
}

// ArmorParams bounds the pairwise matching done by MatchLights.
type ArmorParams struct {
	// MinLightRatio is the minimum short/long ratio of the two light
	// lengths in a pair.
	MinLightRatio float64 `json:"min_light_ratio"`

	// Center distance windows, normalized by the average light length.
	// A distance falling in the gap between the small and large windows
	// matches neither size class.
	MinSmallCenterDistance float64 `json:"min_small_center_distance"`
	MaxSmallCenterDistance float64 `json:"max_small_center_distance"`
	MinLargeCenterDistance float64 `json:"min_large_center_distance"`
	MaxLargeCenterDistance float64 `json:"max_large_center_distance"`

	// MaxAngle is the maximum deviation, in degrees, of each light's
	// axis from the perpendicular of the line joining the two centers.
	MaxAngle float64 `json:"max_angle"`
}

// Detector holds one frame's worth of detection parameters. Callers build
// a fresh Detector from a configuration snapshot at the start of every
// frame; the struct itself is never shared or mutated mid-frame.
type Detector struct {
	// Color is the target team color. Lights of the other color are
	// still extracted and tagged but never paired.
	Color Color

	// MinBrightness is the binarization threshold on luminance, 0-255.
	MinBrightness int

	// BlurRadius enables a Gaussian denoise pass before binarization
	// when > 0. Zero disables it.
	BlurRadius float64

	Light LightParams
	Armor ArmorParams
}
