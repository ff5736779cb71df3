package detect

import (
	"errors"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidInput reports a frame the pipeline cannot process at all
// (nil or zero-dimension). Empty detection results are not errors.
var ErrInvalidInput = errors.New("detect: invalid input frame")

// minRegionPixels discards connected components too small to fit a
// meaningful rectangle.
const minRegionPixels = 5

// LightMeasurement records the geometry of one bright region, whether or
// not it passed the light filter. Reported for debug telemetry only.
type LightMeasurement struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Length  float64 `json:"length"`
	Width   float64 `json:"width"`
	Ratio   float64 `json:"ratio"`
	Angle   float64 `json:"angle"`
	Color   string  `json:"color"`
	IsLight bool    `json:"is_light"`
}

// Lab reference points used to tag a region red or blue by nearest
// perceptual distance to its mean color.
var (
	refRed  = colorful.Color{R: 1, G: 0, B: 0}
	refBlue = colorful.Color{R: 0, G: 0, B: 1}
)

// ExtractLights binarizes the frame by luminance, groups bright pixels
// into connected regions, fits a minimum-area rotated rectangle to each
// region and keeps the ones shaped like light strips.
//
// Lights of both colors are returned (tagged); filtering to the target
// color happens during matching. The returned measurements cover every
// region considered, including rejected ones.
func (d *Detector) ExtractLights(frame image.Image) ([]Light, []LightMeasurement, error) {
	if frame == nil {
		return nil, nil, ErrInvalidInput
	}
	bounds := frame.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, nil, ErrInvalidInput
	}

	if d.BlurRadius > 0 {
		frame = blur.Gaussian(frame, d.BlurRadius)
		bounds = frame.Bounds()
	}

	mask := binarize(frame, d.MinBrightness)
	regions := findRegions(mask, width, height)

	lights := make([]Light, 0, len(regions))
	measurements := make([]LightMeasurement, 0, len(regions))

	for _, region := range regions {
		rect := minAreaRect(region)
		color := dominantColor(frame, bounds, region)
		light := newLight(rect, color)

		ratio := 0.0
		if light.Length > 0 {
			ratio = light.Width / light.Length
		}
		ok := ratio >= d.Light.MinRatio && ratio <= d.Light.MaxRatio &&
			light.TiltAngle <= d.Light.MaxAngle

		measurements = append(measurements, LightMeasurement{
			CenterX: light.Center.X,
			CenterY: light.Center.Y,
			Length:  light.Length,
			Width:   light.Width,
			Ratio:   ratio,
			Angle:   light.TiltAngle,
			Color:   color.String(),
			IsLight: ok,
		})
		if ok {
			lights = append(lights, light)
		}
	}
	return lights, measurements, nil
}

// binarize thresholds the frame on ITU-R BT.601 luminance.
func binarize(frame image.Image, minBrightness int) [][]bool {
	bounds := frame.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	threshold := float64(minBrightness)

	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := frame.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			mask[y][x] = lum >= threshold
		}
	}
	return mask
}

// findRegions groups bright pixels into 8-connected components using an
// iterative flood fill, dropping components below minRegionPixels.
func findRegions(mask [][]bool, width, height int) [][]image.Point {
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var regions [][]image.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] || visited[y][x] {
				continue
			}
			region := floodFill(mask, visited, x, y, width, height)
			if len(region) >= minRegionPixels {
				regions = append(regions, region)
			}
		}
	}
	return regions
}

// floodFill collects one connected component with an explicit stack to
// avoid recursion depth limits on large regions.
func floodFill(mask, visited [][]bool, startX, startY, width, height int) []image.Point {
	var region []image.Point
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !mask[p.Y][p.X] {
			continue
		}
		visited[p.Y][p.X] = true
		region = append(region, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return region
}

// dominantColor tags a region red or blue by the Lab-space distance of
// its mean color to the team reference colors.
func dominantColor(frame image.Image, bounds image.Rectangle, region []image.Point) Color {
	var sumR, sumG, sumB float64
	for _, p := range region {
		r, g, b, _ := frame.At(p.X+bounds.Min.X, p.Y+bounds.Min.Y).RGBA()
		sumR += float64(r >> 8)
		sumG += float64(g >> 8)
		sumB += float64(b >> 8)
	}
	n := float64(len(region))
	mean := colorful.Color{
		R: sumR / n / 255,
		G: sumG / n / 255,
		B: sumB / n / 255,
	}
	if mean.DistanceLab(refRed) <= mean.DistanceLab(refBlue) {
		return Red
	}
	return Blue
}
