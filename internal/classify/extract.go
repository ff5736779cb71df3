package classify

import (
	"image"
	"image/color"
	"math"

	"github.com/rmvision/armor-detect/internal/detect"
	"github.com/rmvision/armor-detect/internal/warp"
)

// Warp geometry. The inter-light region is rectified so the lights sit at
// a fixed height inside a warpHeight-tall strip, then a centered
// roiWidth-wide window is cut out for the classifier.
const (
	warpHeight      = 28
	warpedLightLen  = 12
	smallArmorWidth = 32
	largeArmorWidth = 54
	roiWidth        = 20
	roiHeight       = warpHeight
)

// RoiWidth and RoiHeight are the dimensions of the numeral crop fed to a
// Classifier.
const (
	RoiWidth  = roiWidth
	RoiHeight = roiHeight
)

// ExtractNumbers fills each armor's NumberImage with a rectified,
// Otsu-binarized grayscale crop of the region between its lights.
//
// The source quadrilateral is the four light endpoints (left bottom, left
// top, right top, right bottom); the destination pins the lights to rows
// 7..19 of a 28-row strip, so the numeral lands in a stable position
// regardless of viewing angle.
func ExtractNumbers(frame image.Image, armors []detect.Armor) {
	topY := float64((warpHeight-warpedLightLen)/2 - 1)
	bottomY := topY + warpedLightLen

	for i := range armors {
		width := smallArmorWidth
		if armors[i].Type == detect.Large {
			width = largeArmorWidth
		}

		src := [4][2]float64{
			{armors[i].Left.Bottom.X, armors[i].Left.Bottom.Y},
			{armors[i].Left.Top.X, armors[i].Left.Top.Y},
			{armors[i].Right.Top.X, armors[i].Right.Top.Y},
			{armors[i].Right.Bottom.X, armors[i].Right.Bottom.Y},
		}
		dst := [4][2]float64{
			{0, bottomY},
			{0, topY},
			{float64(width - 1), topY},
			{float64(width - 1), bottomY},
		}

		t := warp.QuadToQuad(dst, src)
		strip := sampleStrip(frame, t, width)

		roi := image.NewGray(image.Rect(0, 0, roiWidth, roiHeight))
		x0 := (width - roiWidth) / 2
		for y := 0; y < roiHeight; y++ {
			for x := 0; x < roiWidth; x++ {
				roi.SetGray(x, y, strip.GrayAt(x+x0, y))
			}
		}

		binarizeOtsu(roi)
		armors[i].NumberImage = roi
	}
}

// sampleStrip renders the warped strip by mapping each destination pixel
// back into the frame and sampling the nearest source pixel's luminance.
func sampleStrip(frame image.Image, t *warp.Perspective, width int) *image.Gray {
	bounds := frame.Bounds()
	strip := image.NewGray(image.Rect(0, 0, width, warpHeight))

	for y := 0; y < warpHeight; y++ {
		for x := 0; x < width; x++ {
			sx, sy := t.Apply(float64(x), float64(y))
			px := clampInt(int(math.Round(sx)), bounds.Min.X, bounds.Max.X-1)
			py := clampInt(int(math.Round(sy)), bounds.Min.Y, bounds.Max.Y-1)
			r, g, b, _ := frame.At(px, py).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			strip.SetGray(x, y, grayOf(lum))
		}
	}
	return strip
}

// binarizeOtsu thresholds a grayscale crop in place at the level that
// maximizes between-class variance of its histogram.
func binarizeOtsu(img *image.Gray) {
	var hist [256]int
	total := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
			total++
		}
	}
	if total == 0 {
		return
	}

	var sum float64
	for v, n := range hist {
		sum += float64(v) * float64(n)
	}

	var sumBack, weightBack float64
	bestVar := -1.0
	threshold := 0
	for v := 0; v < 256; v++ {
		weightBack += float64(hist[v])
		if weightBack == 0 {
			continue
		}
		weightFore := float64(total) - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += float64(v) * float64(hist[v])
		meanBack := sumBack / weightBack
		meanFore := (sum - sumBack) / weightFore
		between := weightBack * weightFore * (meanBack - meanFore) * (meanBack - meanFore)
		if between > bestVar {
			bestVar = between
			threshold = v
		}
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if int(img.GrayAt(x, y).Y) > threshold {
				img.SetGray(x, y, grayOf(255))
			} else {
				img.SetGray(x, y, grayOf(0))
			}
		}
	}
}

func grayOf(v float64) color.Gray {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return color.Gray{Y: uint8(v)}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
