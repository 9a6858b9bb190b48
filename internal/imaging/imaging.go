// Package imaging converts between PNG files and the pixel grids the
// generator works on. Pixels are 24-bit RGB; alpha is dropped on read and
// written fully opaque.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/wavecollapse/internal/grid"
)

// RGB is a 24-bit pixel. Equality is byte-exact.
type RGB struct {
	R, G, B uint8
}

// Hash packs the pixel bytes into a single word for pattern deduplication.
func (c RGB) Hash() uint64 {
	return uint64(c.R)<<16 | uint64(c.G)<<8 | uint64(c.B)
}

// HashRGB is the element hash passed to the overlapping model.
func HashRGB(c RGB) uint64 {
	return c.Hash()
}

// ReadPNG decodes the PNG at path into a pixel grid.
func ReadPNG(path string) (*grid.Grid2D[RGB], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imaging: failed to open %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("imaging: failed to decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	result := grid.NewGrid2D[RGB](bounds.Dy(), bounds.Dx())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			result.Set(y, x, RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
		}
	}
	return result, nil
}

// EncodePNG writes the pixel grid to w as PNG, fully opaque.
func EncodePNG(w io.Writer, pixels *grid.Grid2D[RGB]) error {
	img := image.NewRGBA(image.Rect(0, 0, pixels.Width, pixels.Height))
	for y := 0; y < pixels.Height; y++ {
		for x := 0; x < pixels.Width; x++ {
			p := pixels.Get(y, x)
			img.Set(x, y, color.RGBA{p.R, p.G, p.B, 255})
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imaging: failed to encode png: %w", err)
	}
	return nil
}

// WritePNG encodes the pixel grid as a PNG at path, creating parent
// directories as needed.
func WritePNG(path string, pixels *grid.Grid2D[RGB]) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imaging: failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imaging: failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := EncodePNG(file, pixels); err != nil {
		return fmt.Errorf("imaging: failed to write %s: %w", path, err)
	}
	return nil
}
