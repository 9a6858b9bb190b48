package samples

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/wavecollapse/internal/grid"
	"github.com/lawnchairsociety/wavecollapse/internal/imaging"
	"github.com/lawnchairsociety/wavecollapse/internal/tiling"
)

// Tileset is a loaded data.xml plus its tile images, ready for the tiling
// model. Tile order matches the index space of Neighbors.
type Tileset struct {
	Tiles     []tiling.Tile[imaging.RGB]
	TileNames []string
	Neighbors []tiling.Neighbor
}

type xmlTileset struct {
	XMLName xml.Name `xml:"set"`
	Tiles   struct {
		Tile []xmlTile `xml:"tile"`
	} `xml:"tiles"`
	Neighbors struct {
		Neighbor []xmlNeighbor `xml:"neighbor"`
	} `xml:"neighbors"`
	Subsets struct {
		Subset []xmlSubset `xml:"subset"`
	} `xml:"subsets"`
}

type xmlTile struct {
	Name     string `xml:"name,attr"`
	Symmetry string `xml:"symmetry,attr"`
	Weight   string `xml:"weight,attr"`
}

type xmlNeighbor struct {
	Left  string `xml:"left,attr"`
	Right string `xml:"right,attr"`
}

type xmlSubset struct {
	Name  string `xml:"name,attr"`
	Tiles []struct {
		Name string `xml:"name,attr"`
	} `xml:"tile"`
}

// LoadTileset reads <dir>/data.xml and the tile images next to it. subset
// selects a named tile subset; when the name matches no <subset> element
// (or data.xml declares none), every tile is kept. Neighbor rules that
// reference tiles outside the subset are dropped, matching the catalog's
// subset semantics.
func LoadTileset(dir, subset string) (*Tileset, error) {
	path := filepath.Join(dir, "data.xml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("samples: failed to read %s: %w", path, err)
	}

	var raw xmlTileset
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("samples: failed to parse %s: %w", path, err)
	}

	keep := func(string) bool { return true }
	if names, ok := subsetNames(&raw, subset); ok {
		keep = func(name string) bool { return names[name] }
	}

	set := &Tileset{}
	tileIndex := make(map[string]int)
	for _, t := range raw.Tiles.Tile {
		if t.Name == "" {
			return nil, fmt.Errorf("samples: tile missing name attribute in %s", path)
		}
		if !keep(t.Name) {
			continue
		}
		symmetry, err := tiling.ParseSymmetry(attrOr(t.Symmetry, "X"))
		if err != nil {
			return nil, fmt.Errorf("samples: tile %s: %w", t.Name, err)
		}
		weight := 1.0
		if t.Weight != "" {
			weight, err = strconv.ParseFloat(t.Weight, 64)
			if err != nil {
				return nil, fmt.Errorf("samples: tile %s has invalid weight: %w", t.Name, err)
			}
		}

		tile, err := loadTileImages(dir, t.Name, symmetry, weight)
		if err != nil {
			return nil, err
		}
		tileIndex[t.Name] = len(set.Tiles)
		set.Tiles = append(set.Tiles, tile)
		set.TileNames = append(set.TileNames, t.Name)
	}

	for _, n := range raw.Neighbors.Neighbor {
		leftName, leftOrient, err := splitReference(n.Left)
		if err != nil {
			return nil, fmt.Errorf("samples: bad neighbor in %s: %w", path, err)
		}
		rightName, rightOrient, err := splitReference(n.Right)
		if err != nil {
			return nil, fmt.Errorf("samples: bad neighbor in %s: %w", path, err)
		}
		leftTile, okLeft := tileIndex[leftName]
		rightTile, okRight := tileIndex[rightName]
		if !okLeft || !okRight {
			// Rules outside the selected subset are silently dropped.
			continue
		}
		set.Neighbors = append(set.Neighbors, tiling.Neighbor{
			LeftTile:    leftTile,
			LeftOrient:  leftOrient,
			RightTile:   rightTile,
			RightOrient: rightOrient,
		})
	}

	if len(set.Tiles) == 0 {
		return nil, fmt.Errorf("samples: tileset %s selects no tiles", path)
	}
	return set, nil
}

// loadTileImages loads either a single base image (<name>.png) whose
// orientations are generated from the symmetry class, or one image per
// orientation (<name> 0.png, <name> 1.png, ...) for tiles drawn per
// orientation.
func loadTileImages(dir, name string, symmetry tiling.Symmetry, weight float64) (tiling.Tile[imaging.RGB], error) {
	base := filepath.Join(dir, name+".png")
	if _, err := os.Stat(base); err == nil {
		image, err := imaging.ReadPNG(base)
		if err != nil {
			return tiling.Tile[imaging.RGB]{}, err
		}
		return tiling.NewTile(image, symmetry, weight), nil
	}

	count := symmetry.OrientationCount()
	orientations := make([]*grid.Grid2D[imaging.RGB], 0, count)
	for k := 0; k < count; k++ {
		image, err := imaging.ReadPNG(filepath.Join(dir, fmt.Sprintf("%s %d.png", name, k)))
		if err != nil {
			return tiling.Tile[imaging.RGB]{}, fmt.Errorf("samples: tile %s orientation %d: %w", name, k, err)
		}
		orientations = append(orientations, image)
	}
	return tiling.NewTileOriented(orientations, symmetry, weight), nil
}

// splitReference parses a "tile orientation" reference; the orientation
// defaults to 0 when absent.
func splitReference(ref string) (string, int, error) {
	fields := strings.Fields(ref)
	switch len(fields) {
	case 1:
		return fields[0], 0, nil
	case 2:
		orient, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", 0, fmt.Errorf("invalid orientation in %q: %w", ref, err)
		}
		return fields[0], orient, nil
	default:
		return "", 0, fmt.Errorf("invalid tile reference %q", ref)
	}
}

// subsetNames resolves a named subset. An unmatched name reports ok=false
// and the caller keeps every tile; the default subset name rarely has an
// actual <subset> element behind it.
func subsetNames(raw *xmlTileset, subset string) (map[string]bool, bool) {
	for _, s := range raw.Subsets.Subset {
		if s.Name != subset {
			continue
		}
		names := make(map[string]bool, len(s.Tiles))
		for _, t := range s.Tiles {
			names[t.Name] = true
		}
		return names, true
	}
	return nil, false
}

func attrOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
