package render

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gridframe/pkg/raster"
)

func grayAt(t *testing.T, img image.Image, x, y int) uint16 {
	t.Helper()
	g, ok := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
	if !ok {
		t.Fatalf("Pixel (%d,%d) is not grayscale", x, y)
	}
	return g.Y
}

func TestChannelRescalesExtremes(t *testing.T) {
	r, err := raster.New(1, 3, []float64{-5, 0, 5})
	if err != nil {
		t.Fatalf("Failed to create raster: %v", err)
	}
	img, err := Channel(r, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := grayAt(t, img, 0, 0); got != 0 {
		t.Errorf("Minimum should render black, got %d", got)
	}
	if got := grayAt(t, img, 2, 0); got != 65535 {
		t.Errorf("Maximum should render white, got %d", got)
	}
	if got := grayAt(t, img, 1, 0); got < 32000 || got > 33500 {
		t.Errorf("Midpoint should render mid-gray, got %d", got)
	}
}

func TestChannelFlatAndNaN(t *testing.T) {
	flat, _ := raster.New(1, 2, []float64{7, 7})
	img, err := Channel(flat, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := grayAt(t, img, 0, 0); got < 32000 || got > 33500 {
		t.Errorf("Flat channel should render mid-gray, got %d", got)
	}

	withNaN, _ := raster.New(1, 3, []float64{math.NaN(), 1, 2})
	img, err = Channel(withNaN, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := grayAt(t, img, 0, 0); got != 0 {
		t.Errorf("NaN cell should render black, got %d", got)
	}

	allNaN, _ := raster.New(1, 2, []float64{math.NaN(), math.NaN()})
	if _, err := Channel(allNaN, 0); err == nil {
		t.Error("All-NaN channel accepted")
	}
}

func TestChannelValidation(t *testing.T) {
	if _, err := Channel(nil, 0); err == nil {
		t.Error("Nil raster accepted")
	}
	r, _ := raster.New(1, 1, []float64{1})
	if _, err := Channel(r, 3); err == nil {
		t.Error("Out-of-range channel accepted")
	}
}

func TestSaveChannelSequence(t *testing.T) {
	a, _ := raster.New(2, 2, []float64{1, 2, 3, 4})
	b, _ := raster.New(2, 2, []float64{4, 3, 2, 1})
	st, err := raster.Stack([]*raster.Raster{a, b})
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "channels")
	if err := SaveChannelSequence(st, dir, 0); err != nil {
		t.Fatalf("SaveChannelSequence failed: %v", err)
	}
	for _, name := range []string{"channel_00.jpg", "channel_01.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}
