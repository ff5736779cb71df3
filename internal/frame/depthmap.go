package frame

import (
	"fmt"
	"image"
	"os"

	"github.com/rmvision/armor-detect/internal/depth"
)

// LoadDepthPNG reads a depth map stored as a grayscale PNG. Each pixel's
// 16-bit luminance is multiplied by scale to obtain metres; sensors that
// encode millimetres use scale = 0.001. Zero pixels stay zero and are
// treated as missing depth downstream.
func LoadDepthPNG(path string, scale float64) (*depth.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open depth map: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode depth map: %w", err)
	}

	bounds := img.Bounds()
	m := depth.NewMap(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, _, _, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			m.Set(x, y, float32(float64(r)*scale))
		}
	}
	return m, nil
}
