package classify

import (
	"fmt"
	"image"

	"github.com/rmvision/armor-detect/internal/detect"
)

// Reserved labels in the classifier's closed label set. Digits "0".."9"
// make up the rest.
const (
	// LabelNegative is the background class: the geometry matched but
	// the crop is not a numeral, so the armor is discarded.
	LabelNegative = "negative"

	// LabelUnknown replaces any prediction below the confidence
	// threshold. The armor is kept for the caller to filter.
	LabelUnknown = "unknown"
)

// Prediction is a single classification outcome.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier scores a normalized numeral crop. Implementations must be
// safe for sequential per-frame use; they are never called concurrently
// for the same frame.
type Classifier interface {
	Classify(img *image.Gray) (Prediction, error)
}

// Annotate classifies each armor's numeral crop and applies the
// confidence threshold, returning the surviving armors.
//
// Predictions at or above threshold keep their label. Below it the label
// is downgraded to LabelUnknown with the raw confidence preserved, and
// the armor is kept. Armors whose (above-threshold) label is
// LabelNegative are removed. Armors without a NumberImage are removed as
// well; extraction must run first.
func Annotate(armors []detect.Armor, c Classifier, threshold float64) ([]detect.Armor, error) {
	kept := armors[:0]
	for i := range armors {
		if armors[i].NumberImage == nil {
			continue
		}
		pred, err := c.Classify(armors[i].NumberImage)
		if err != nil {
			return nil, fmt.Errorf("classify armor at (%.1f, %.1f): %w",
				armors[i].Center.X, armors[i].Center.Y, err)
		}

		if pred.Confidence < threshold {
			armors[i].Number = LabelUnknown
			armors[i].Confidence = pred.Confidence
			kept = append(kept, armors[i])
			continue
		}
		if pred.Label == LabelNegative {
			continue
		}
		armors[i].Number = pred.Label
		armors[i].Confidence = pred.Confidence
		kept = append(kept, armors[i])
	}
	return kept, nil
}
