package pipeline

import (
	"image"
	"sort"
	"time"

	"github.com/rmvision/armor-detect/internal/classify"
	"github.com/rmvision/armor-detect/internal/config"
	"github.com/rmvision/armor-detect/internal/depth"
	"github.com/rmvision/armor-detect/internal/detect"
)

// smoothingRadius is the window used for the fallback depth sample when
// the exact-pixel sample is invalid.
const smoothingRadius = 2

// Detector runs the full per-frame detection pipeline. The configuration
// store may be swapped concurrently by a live-tuning channel; Detect
// reads exactly one snapshot per frame.
type Detector struct {
	store      *config.Store
	classifier classify.Classifier
	depth      *depth.Processor
}

// New assembles a pipeline. The depth processor may be nil when no depth
// camera is present; 3D positions are then omitted.
func New(store *config.Store, classifier classify.Classifier, dp *depth.Processor) *Detector {
	return &Detector{store: store, classifier: classifier, depth: dp}
}

// ArmorReport is one detected armor in a frame's result.
type ArmorReport struct {
	Center     detect.Point     `json:"center"`
	Type       detect.ArmorType `json:"type"`
	Number     string           `json:"number"`
	Confidence float64          `json:"confidence"`

	// Position is the camera-frame 3D position, present only when a
	// depth map was supplied and held a valid sample at the center.
	Position *depth.Position `json:"position,omitempty"`

	// DistanceToCenter is the pixel distance from the armor center to
	// the optical center, a saliency signal for target selection.
	DistanceToCenter float64 `json:"distance_to_center,omitempty"`
}

// Timings breaks down where a frame's processing time went.
type Timings struct {
	Extract  time.Duration `json:"extract"`
	Match    time.Duration `json:"match"`
	Classify time.Duration `json:"classify"`
	Depth    time.Duration `json:"depth"`
	Total    time.Duration `json:"total"`
}

// Debug is the per-frame telemetry side channel. It never influences
// detection; callers may discard it.
type Debug struct {
	LightCount int                       `json:"light_count"`
	ArmorCount int                       `json:"armor_count"`
	Lights     []detect.LightMeasurement `json:"lights"`
	Pairs      []detect.PairMeasurement  `json:"pairs"`
	Timings    Timings                   `json:"timings"`
}

// Result is everything one frame produces.
type Result struct {
	Armors []ArmorReport `json:"armors"`
	Debug  Debug         `json:"debug"`
}

// Detect processes a single frame. depthMap may be nil. The error is
// non-nil only for malformed input or a failing classifier backend;
// frames with nothing in them return an empty Result.
func (d *Detector) Detect(frame image.Image, depthMap *depth.Map) (*Result, error) {
	params := d.store.Load()
	det := detect.Detector{
		Color:         params.DetectColor,
		MinBrightness: params.MinBrightness,
		BlurRadius:    params.BlurRadius,
		Light:         params.Light,
		Armor:         params.Armor,
	}

	start := time.Now()

	lights, lightMeas, err := det.ExtractLights(frame)
	if err != nil {
		return nil, err
	}
	extractDone := time.Now()

	armors, pairMeas := det.MatchLights(lights)
	matchDone := time.Now()

	if len(armors) > 0 {
		classify.ExtractNumbers(frame, armors)
		armors, err = classify.Annotate(armors, d.classifier, params.Classifier.Threshold)
		if err != nil {
			return nil, err
		}
	}
	classifyDone := time.Now()

	reports := make([]ArmorReport, 0, len(armors))
	for _, a := range armors {
		report := ArmorReport{
			Center:     a.Center,
			Type:       a.Type,
			Number:     a.Number,
			Confidence: a.Confidence,
		}
		if d.depth != nil {
			report.DistanceToCenter = d.depth.DistanceToCenter(a.Center.X, a.Center.Y)
			if depthMap != nil {
				if pos, ok := d.position(depthMap, a.Center); ok {
					report.Position = &pos
				}
			}
		}
		reports = append(reports, report)
	}
	depthDone := time.Now()

	// Deterministic ordering for telemetry consumers.
	sort.Slice(lightMeas, func(i, j int) bool { return lightMeas[i].CenterX < lightMeas[j].CenterX })
	sort.Slice(pairMeas, func(i, j int) bool { return pairMeas[i].CenterX < pairMeas[j].CenterX })

	return &Result{
		Armors: reports,
		Debug: Debug{
			LightCount: len(lights),
			ArmorCount: len(armors),
			Lights:     lightMeas,
			Pairs:      pairMeas,
			Timings: Timings{
				Extract:  extractDone.Sub(start),
				Match:    matchDone.Sub(extractDone),
				Classify: classifyDone.Sub(matchDone),
				Depth:    depthDone.Sub(classifyDone),
				Total:    depthDone.Sub(start),
			},
		},
	}, nil
}

// position samples the depth map at the armor center, falling back to a
// neighborhood average. An invalid sample omits the position; the armor
// itself is still reported.
func (d *Detector) position(m *depth.Map, center detect.Point) (depth.Position, bool) {
	pos, err := d.depth.Position(m, center.X, center.Y)
	if err == nil {
		return pos, true
	}
	pos, err = d.depth.PositionSmoothed(m, center.X, center.Y, smoothingRadius)
	if err != nil {
		return depth.Position{}, false
	}
	return pos, true
}
