package imaging

import (
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/wavecollapse/internal/grid"
)

func TestWriteReadRoundTrip(t *testing.T) {
	pixels := grid.NewGrid2D[RGB](3, 2)
	pixels.Set(0, 0, RGB{255, 0, 0})
	pixels.Set(0, 1, RGB{0, 255, 0})
	pixels.Set(1, 0, RGB{0, 0, 255})
	pixels.Set(1, 1, RGB{10, 20, 30})
	pixels.Set(2, 0, RGB{255, 255, 255})
	pixels.Set(2, 1, RGB{})

	path := filepath.Join(t.TempDir(), "out", "roundtrip.png")
	if err := WritePNG(path, pixels); err != nil {
		t.Fatalf("WritePNG() failed: %v", err)
	}

	loaded, err := ReadPNG(path)
	if err != nil {
		t.Fatalf("ReadPNG() failed: %v", err)
	}
	if !loaded.Equal(pixels) {
		t.Errorf("round trip mismatch: got %v, want %v", loaded.Data, pixels.Data)
	}
}

func TestReadPNGMissingFile(t *testing.T) {
	if _, err := ReadPNG(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestHashDistinguishesChannels(t *testing.T) {
	a := RGB{R: 1}
	b := RGB{G: 1}
	c := RGB{B: 1}
	if a.Hash() == b.Hash() || b.Hash() == c.Hash() || a.Hash() == c.Hash() {
		t.Error("channel-distinct pixels must hash differently")
	}
	if a.Hash() != (RGB{R: 1}).Hash() {
		t.Error("equal pixels must hash equal")
	}
}
