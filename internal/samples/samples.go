// Package samples loads the generator's XML configuration: the samples.xml
// catalog listing overlapping and simple-tiled jobs, and the per-tileset
// data.xml describing tiles, subsets, and neighbor rules. Errors are tagged
// values surfaced to the caller; the solver core never sees them.
package samples

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
)

// Overlapping is one <overlapping> entry from samples.xml.
type Overlapping struct {
	Name          string
	N             int
	Periodic      bool // periodic output
	PeriodicInput bool
	Ground        bool
	Symmetry      int
	Screenshots   int
	Width         int
	Height        int
}

// SimpleTiled is one <simpletiled> entry from samples.xml.
type SimpleTiled struct {
	Name        string
	Subset      string
	Periodic    bool
	Screenshots int
	Width       int
	Height      int
}

// Catalog is the parsed samples.xml.
type Catalog struct {
	Overlapping []Overlapping
	SimpleTiled []SimpleTiled
}

// xmlCatalog mirrors the document shape; attributes are read as strings so
// that absent ones can fall back to the documented defaults.
type xmlCatalog struct {
	XMLName     xml.Name         `xml:"samples"`
	Overlapping []xmlOverlapping `xml:"overlapping"`
	SimpleTiled []xmlSimpleTiled `xml:"simpletiled"`
}

type xmlOverlapping struct {
	Name          string `xml:"name,attr"`
	N             string `xml:"N,attr"`
	Periodic      string `xml:"periodic,attr"`
	PeriodicInput string `xml:"periodicInput,attr"`
	Ground        string `xml:"ground,attr"`
	Symmetry      string `xml:"symmetry,attr"`
	Screenshots   string `xml:"screenshots,attr"`
	Width         string `xml:"width,attr"`
	Height        string `xml:"height,attr"`
}

type xmlSimpleTiled struct {
	Name        string `xml:"name,attr"`
	Subset      string `xml:"subset,attr"`
	Periodic    string `xml:"periodic,attr"`
	Screenshots string `xml:"screenshots,attr"`
	Width       string `xml:"width,attr"`
	Height      string `xml:"height,attr"`
}

// LoadCatalog reads and validates samples.xml at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("samples: failed to read %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a samples.xml document and applies attribute defaults.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw xmlCatalog
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("samples: failed to parse catalog: %w", err)
	}

	catalog := &Catalog{}
	for _, o := range raw.Overlapping {
		if o.Name == "" {
			return nil, fmt.Errorf("samples: overlapping entry missing name attribute")
		}
		n, err := requireInt(o.Name, "N", o.N)
		if err != nil {
			return nil, err
		}
		entry := Overlapping{
			Name:          o.Name,
			N:             n,
			Periodic:      boolAttr(o.Periodic, false),
			PeriodicInput: boolAttr(o.PeriodicInput, true),
			Ground:        intAttr(o.Ground, 0) != 0,
			Symmetry:      intAttr(o.Symmetry, 8),
			Screenshots:   intAttr(o.Screenshots, 2),
			Width:         intAttr(o.Width, 48),
			Height:        intAttr(o.Height, 48),
		}
		catalog.Overlapping = append(catalog.Overlapping, entry)
	}
	for _, s := range raw.SimpleTiled {
		if s.Name == "" {
			return nil, fmt.Errorf("samples: simpletiled entry missing name attribute")
		}
		entry := SimpleTiled{
			Name:        s.Name,
			Subset:      strAttr(s.Subset, "tiles"),
			Periodic:    boolAttr(s.Periodic, false),
			Screenshots: intAttr(s.Screenshots, 2),
			Width:       intAttr(s.Width, 48),
			Height:      intAttr(s.Height, 48),
		}
		catalog.SimpleTiled = append(catalog.SimpleTiled, entry)
	}
	return catalog, nil
}

// boolAttr reads the catalog's True/False convention.
func boolAttr(value string, fallback bool) bool {
	switch value {
	case "":
		return fallback
	case "True", "true":
		return true
	default:
		return false
	}
}

func strAttr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func intAttr(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func requireInt(name, attr, value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("samples: %s missing required attribute %s", name, attr)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("samples: %s has invalid %s attribute: %w", name, attr, err)
	}
	return n, nil
}
