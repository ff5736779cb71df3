package frame

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestCacheLoad(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.SetRGBA(3, 3, color.RGBA{R: 255, A: 255})
	path := writePNG(t, img)

	cache := NewCache()
	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := first.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("bounds: got %v, want 8x8", b)
	}

	// Second load hits the cache even after the file disappears.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if second != first {
		t.Error("cache returned a different image")
	}

	cache.Evict(path)
	if _, err := cache.Load(path); err == nil {
		t.Error("expected error after eviction of a deleted file")
	}
}

func TestCacheLoadMissing(t *testing.T) {
	cache := NewCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDepthPNG(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 4, 2))
	img.SetGray16(1, 0, color.Gray16{Y: 2000})
	img.SetGray16(3, 1, color.Gray16{Y: 500})
	path := writePNG(t, img)

	m, err := LoadDepthPNG(path, 0.001) // millimetre encoding
	if err != nil {
		t.Fatalf("LoadDepthPNG failed: %v", err)
	}
	if m.Width != 4 || m.Height != 2 {
		t.Fatalf("got %dx%d, want 4x2", m.Width, m.Height)
	}
	if v := m.At(1, 0); math.Abs(v-2.0) > 1e-6 {
		t.Errorf("At(1,0): got %g, want 2.0", v)
	}
	if v := m.At(3, 1); math.Abs(v-0.5) > 1e-6 {
		t.Errorf("At(3,1): got %g, want 0.5", v)
	}
	if v := m.At(0, 0); v != 0 {
		t.Errorf("untouched pixel: got %g, want 0", v)
	}
}
