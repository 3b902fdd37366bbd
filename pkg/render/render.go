// Package render exports raster channels as grayscale images. It is raw
// image export in storage orientation, not plotting: values are linearly
// rescaled over the channel's finite range and written as 16-bit grayscale.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"gridframe/pkg/raster"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 90

// Channel renders channel ch of the raster as a 16-bit grayscale image.
// The channel's finite minimum maps to black and its maximum to white; NaN
// cells render as black. A channel with no spread renders mid-gray.
func Channel(r *raster.Raster, ch int) (image.Image, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot render empty raster")
	}
	if ch < 0 || ch >= r.Channels() {
		return nil, fmt.Errorf("channel %d out of range for %d channels", ch, r.Channels())
	}
	min, max := r.ChannelMinMax(ch)
	if math.IsNaN(min) {
		return nil, fmt.Errorf("channel %d holds no finite values", ch)
	}

	m := r.ChannelMatrix(ch)
	return matrixImage(m, min, max), nil
}

// matrixImage maps a dense matrix to Gray16 with a linear rescale from
// [min, max] to the full intensity range.
func matrixImage(m *mat.Dense, min, max float64) *image.Gray16 {
	rows, cols := m.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))
	spread := max - min
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := m.At(y, x)
			var intensity float64
			switch {
			case math.IsNaN(v):
				intensity = 0
			case spread == 0:
				intensity = 0.5
			default:
				intensity = (v - min) / spread
			}
			value := uint16(math.Max(0, math.Min(65535, intensity*65535)))
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img
}

// SaveJPEG writes an image as a JPEG file.
func SaveJPEG(img image.Image, filename string, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: quality})
}

// SaveChannelSequence renders and saves every channel of the raster into
// outputDir, one JPEG per channel.
func SaveChannelSequence(r *raster.Raster, outputDir string, quality int) error {
	if r == nil {
		return fmt.Errorf("cannot render empty raster")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	for ch := 0; ch < r.Channels(); ch++ {
		img, err := Channel(r, ch)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("channel_%02d.jpg", ch))
		if err := SaveJPEG(img, filename, quality); err != nil {
			return err
		}
	}
	return nil
}
