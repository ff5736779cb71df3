// Package config holds the pipeline's runtime parameters: defaults,
// boundary validation, JSON loading, and an atomically swapped store so
// a live-tuning channel can update parameters while frames are being
// processed.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rmvision/armor-detect/internal/detect"
)

// ClassifierParams tunes the numeral classification stage.
type ClassifierParams struct {
	// Threshold is the minimum confidence for a prediction to keep its
	// label; below it the label is downgraded to "unknown".
	Threshold float64 `json:"threshold"`
}

// Params is one coherent set of pipeline parameters. Values are
// validated when entering a Store; the pipeline itself trusts them.
type Params struct {
	DetectColor   detect.Color `json:"detect_color"`
	MinBrightness int          `json:"min_brightness"`
	BlurRadius    float64      `json:"blur_radius"`

	Light      detect.LightParams `json:"light"`
	Armor      detect.ArmorParams `json:"armor"`
	Classifier ClassifierParams   `json:"classifier"`
}

// Default returns the reference tuning.
func Default() Params {
	return Params{
		DetectColor:   detect.Red,
		MinBrightness: 160,
		BlurRadius:    0,
		Light: detect.LightParams{
			MinRatio: 0.1,
			MaxRatio: 0.55,
			MaxAngle: 40,
		},
		Armor: detect.ArmorParams{
			MinLightRatio:          0.6,
			MinSmallCenterDistance: 0.8,
			MaxSmallCenterDistance: 2.8,
			MinLargeCenterDistance: 3.2,
			MaxLargeCenterDistance: 4.3,
			MaxAngle:               35,
		},
		Classifier: ClassifierParams{Threshold: 0.7},
	}
}

// Validate rejects parameter sets the pipeline would misbehave on.
// Called at update time so a bad live-tuning write never reaches a frame.
func (p Params) Validate() error {
	if p.DetectColor != detect.Red && p.DetectColor != detect.Blue {
		return fmt.Errorf("detect_color %d is not red or blue", int(p.DetectColor))
	}
	if p.MinBrightness < 0 || p.MinBrightness > 255 {
		return fmt.Errorf("min_brightness %d outside [0, 255]", p.MinBrightness)
	}
	if p.BlurRadius < 0 {
		return fmt.Errorf("blur_radius %g is negative", p.BlurRadius)
	}
	if p.Light.MinRatio < 0 || p.Light.MaxRatio > 1 || p.Light.MinRatio > p.Light.MaxRatio {
		return fmt.Errorf("light ratio window [%g, %g] invalid", p.Light.MinRatio, p.Light.MaxRatio)
	}
	if p.Light.MaxAngle < 0 || p.Light.MaxAngle > 90 {
		return fmt.Errorf("light max_angle %g outside [0, 90]", p.Light.MaxAngle)
	}
	if p.Armor.MinLightRatio < 0 || p.Armor.MinLightRatio > 1 {
		return fmt.Errorf("armor min_light_ratio %g outside [0, 1]", p.Armor.MinLightRatio)
	}
	if p.Armor.MinSmallCenterDistance < 0 ||
		p.Armor.MinSmallCenterDistance > p.Armor.MaxSmallCenterDistance {
		return fmt.Errorf("small center distance window [%g, %g] invalid",
			p.Armor.MinSmallCenterDistance, p.Armor.MaxSmallCenterDistance)
	}
	if p.Armor.MinLargeCenterDistance > p.Armor.MaxLargeCenterDistance {
		return fmt.Errorf("large center distance window [%g, %g] invalid",
			p.Armor.MinLargeCenterDistance, p.Armor.MaxLargeCenterDistance)
	}
	if p.Armor.MaxSmallCenterDistance > p.Armor.MinLargeCenterDistance {
		return fmt.Errorf("small window ends at %g after large window starts at %g",
			p.Armor.MaxSmallCenterDistance, p.Armor.MinLargeCenterDistance)
	}
	if p.Armor.MaxAngle < 0 || p.Armor.MaxAngle > 90 {
		return fmt.Errorf("armor max_angle %g outside [0, 90]", p.Armor.MaxAngle)
	}
	if p.Classifier.Threshold < 0 || p.Classifier.Threshold > 1 {
		return fmt.Errorf("classifier threshold %g outside [0, 1]", p.Classifier.Threshold)
	}
	return nil
}

// Load reads a JSON parameter file layered over the defaults, so partial
// files only override what they mention.
func Load(path string) (Params, error) {
	p := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return Params{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return p, nil
}
