package classify

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Tesseract classifies numeral crops with the Tesseract OCR engine,
// restricted to single digits. It is a drop-in alternative to Linear for
// hosts without a trained model; Tesseract and its English training data
// must be installed on the system.
type Tesseract struct {
	// UpscaleFactor enlarges the crop before OCR; Tesseract performs
	// poorly on 20x28 inputs. Defaults to 4 when zero.
	UpscaleFactor int
}

// NewTesseract returns a Tesseract-backed classifier with defaults.
func NewTesseract() *Tesseract {
	return &Tesseract{UpscaleFactor: 4}
}

// Classify runs single-character OCR over the crop. A crop in which
// Tesseract finds no digit is reported as the background class.
func (t *Tesseract) Classify(img *image.Gray) (Prediction, error) {
	factor := t.UpscaleFactor
	if factor <= 0 {
		factor = 4
	}
	b := img.Bounds()
	scaled := imaging.Resize(img, b.Dx()*factor, b.Dy()*factor, imaging.Lanczos)

	// Tesseract needs a file path.
	tmp, err := os.CreateTemp("", "armor-number-*.png")
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, scaled); err != nil {
		tmp.Close()
		return Prediction{}, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmp.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetWhitelist("0123456789"); err != nil {
		return Prediction{}, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		return Prediction{}, fmt.Errorf("failed to set segmentation mode: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return Prediction{}, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return Prediction{}, fmt.Errorf("OCR failed: %w", err)
	}
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		return Prediction{
			Label:      box.Word[:1],
			Confidence: float64(box.Confidence) / 100,
		}, nil
	}
	return Prediction{Label: LabelNegative, Confidence: 1}, nil
}
