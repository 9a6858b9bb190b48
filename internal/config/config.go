// Package config loads the application-level YAML configuration shared by
// the command binaries: filesystem paths, generation retry policy, the
// preview server's listen settings, and the logging section.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/wavecollapse/internal/logger"
)

// AppConfig holds settings for the wfcgen and wfcserve binaries.
type AppConfig struct {
	Paths      PathsConfig      `yaml:"paths"`
	Generation GenerationConfig `yaml:"generation"`
	Server     ServerConfig     `yaml:"server"`
	Logging    logger.Config    `yaml:"logging"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	// Catalog is the samples.xml catalog path.
	Catalog string `yaml:"catalog"`

	// SamplesDir holds the input bitmaps and tileset directories.
	SamplesDir string `yaml:"samples_dir"`

	// OutputDir receives the generated PNGs.
	OutputDir string `yaml:"output_dir"`

	// RunDB is the sqlite run-ledger path. Empty disables the ledger.
	RunDB string `yaml:"run_db"`
}

// GenerationConfig holds retry policy for the solve loop.
type GenerationConfig struct {
	// Attempts is the number of fresh seeds tried per screenshot before
	// giving up on a contradiction-prone sample.
	Attempts int `yaml:"attempts"`

	// Screenshots is loaded from the config file but not read by the
	// binaries: the number of outputs per sample comes from the catalog
	// entry, whose parser defaults it to 2.
	Screenshots int `yaml:"screenshots"`
}

// ServerConfig holds preview-server settings.
type ServerConfig struct {
	// ListenAddr is the HTTP listen address for wfcserve.
	ListenAddr string `yaml:"listen_addr"`

	// AllowedOrigins lists origins allowed to open the websocket. Empty
	// enforces same-origin; "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultConfig returns the defaults used when no config file is present.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Paths: PathsConfig{
			Catalog:    "samples.xml",
			SamplesDir: "samples",
			OutputDir:  "results",
			RunDB:      "",
		},
		Generation: GenerationConfig{
			Attempts:    10,
			Screenshots: 2,
		},
		Server: ServerConfig{
			ListenAddr:     "127.0.0.1:8481",
			AllowedOrigins: []string{},
		},
		Logging: logger.DefaultConfig(),
	}
}

// LoadConfig loads the configuration from a YAML file, overlaying the
// defaults. A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// IsOriginAllowed checks whether origin may open a websocket connection.
func (c *ServerConfig) IsOriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
