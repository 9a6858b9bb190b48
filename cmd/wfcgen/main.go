// wfcgen runs every entry of a samples.xml catalog: it extracts patterns or
// loads tilesets, solves each sample with retry-on-contradiction, and writes
// the generated PNGs. Outcomes are logged and optionally recorded in a
// sqlite run ledger.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/lawnchairsociety/wavecollapse/internal/config"
	"github.com/lawnchairsociety/wavecollapse/internal/generate"
	"github.com/lawnchairsociety/wavecollapse/internal/imaging"
	"github.com/lawnchairsociety/wavecollapse/internal/logger"
	"github.com/lawnchairsociety/wavecollapse/internal/runstore"
	"github.com/lawnchairsociety/wavecollapse/internal/samples"
)

func main() {
	configPath := flag.String("config", "wfcgen.yaml", "Path to application config")
	catalogPath := flag.String("catalog", "", "Path to samples.xml (overrides config)")
	samplesDir := flag.String("samples", "", "Directory holding sample bitmaps and tilesets (overrides config)")
	outputDir := flag.String("out", "", "Directory receiving generated PNGs (overrides config)")
	runDB := flag.String("db", "", "Sqlite run-ledger path (overrides config; empty disables)")
	attempts := flag.Int("attempts", 0, "Seeds tried per screenshot before giving up (overrides config)")
	seed := flag.Int64("seed", 0, "Fixed base seed for reproducible batches (0 uses wall clock)")
	only := flag.String("only", "", "Generate only the sample with this name")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(cfg, *catalogPath, *samplesDir, *outputDir, *runDB, *attempts)

	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	catalog, err := samples.LoadCatalog(cfg.Paths.Catalog)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	var store *runstore.Store
	if cfg.Paths.RunDB != "" {
		store, err = runstore.Open(cfg.Paths.RunDB)
		if err != nil {
			logger.Error("failed to open run ledger", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	seeds := rand.New(rand.NewSource(baseSeed))

	start := time.Now()
	failures := 0
	for _, entry := range catalog.Overlapping {
		if *only != "" && entry.Name != *only {
			continue
		}
		if err := runOverlapping(cfg, entry, seeds, store); err != nil {
			logger.Error("sample failed", "sample", entry.Name, "error", err)
			failures++
		}
	}
	for _, entry := range catalog.SimpleTiled {
		if *only != "" && entry.Name != *only {
			continue
		}
		if err := runSimpleTiled(cfg, entry, seeds, store); err != nil {
			logger.Error("sample failed", "sample", entry.Name, "error", err)
			failures++
		}
	}

	logger.Info("all samples done", "elapsed", time.Since(start).Round(time.Millisecond), "failures", failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func applyOverrides(cfg *config.AppConfig, catalog, samplesDir, outputDir, runDB string, attempts int) {
	if catalog != "" {
		cfg.Paths.Catalog = catalog
	}
	if samplesDir != "" {
		cfg.Paths.SamplesDir = samplesDir
	}
	if outputDir != "" {
		cfg.Paths.OutputDir = outputDir
	}
	if runDB != "" {
		cfg.Paths.RunDB = runDB
	}
	if attempts > 0 {
		cfg.Generation.Attempts = attempts
	}
}

func runOverlapping(cfg *config.AppConfig, entry samples.Overlapping, seeds *rand.Rand, store *runstore.Store) error {
	logger.Info("sample started", "sample", entry.Name, "kind", "overlapping", "N", entry.N)

	input, err := imaging.ReadPNG(filepath.Join(cfg.Paths.SamplesDir, entry.Name+".png"))
	if err != nil {
		return err
	}

	for shot := 0; shot < entry.Screenshots; shot++ {
		outputPath := filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("%s%d.png", entry.Name, shot))
		observe := recordingObserver(store, entry.Name, "overlapping", outputPath)

		result, err := generate.Overlapping(entry, input, cfg.Generation.Attempts, nextSeed(seeds), observe)
		if err != nil {
			return err
		}
		if err := imaging.WritePNG(outputPath, result.Image); err != nil {
			return err
		}
		logger.Info("screenshot written", "sample", entry.Name, "path", outputPath,
			"seed", result.Seed, "attempts", result.Number, "took", result.Duration.Round(time.Millisecond))
	}
	return nil
}

func runSimpleTiled(cfg *config.AppConfig, entry samples.SimpleTiled, seeds *rand.Rand, store *runstore.Store) error {
	logger.Info("sample started", "sample", entry.Name, "kind", "simpletiled", "subset", entry.Subset)

	set, err := samples.LoadTileset(filepath.Join(cfg.Paths.SamplesDir, entry.Name), entry.Subset)
	if err != nil {
		return err
	}

	for shot := 0; shot < entry.Screenshots; shot++ {
		outputPath := filepath.Join(cfg.Paths.OutputDir, fmt.Sprintf("%s%d.png", entry.Name, shot))
		observe := recordingObserver(store, entry.Name, "simpletiled", outputPath)

		result, err := generate.SimpleTiled(entry, set, cfg.Generation.Attempts, nextSeed(seeds), observe)
		if err != nil {
			return err
		}
		if err := imaging.WritePNG(outputPath, result.Image); err != nil {
			return err
		}
		logger.Info("screenshot written", "sample", entry.Name, "path", outputPath,
			"seed", result.Seed, "attempts", result.Number, "took", result.Duration.Round(time.Millisecond))
	}
	return nil
}

func nextSeed(seeds *rand.Rand) func() uint64 {
	return func() uint64 {
		return uint64(seeds.Int63())
	}
}

// recordingObserver logs each attempt and, when a ledger is open, records it.
func recordingObserver(store *runstore.Store, sample, kind, outputPath string) func(generate.Attempt) {
	return func(a generate.Attempt) {
		if !a.Success {
			logger.Debug("attempt contradicted", "sample", sample, "seed", a.Seed, "attempt", a.Number)
		}
		if store == nil {
			return
		}
		path := ""
		if a.Success {
			path = outputPath
		}
		if _, err := store.Record(runstore.Run{
			Sample:     sample,
			Kind:       kind,
			Seed:       a.Seed,
			Attempt:    a.Number,
			Success:    a.Success,
			Duration:   a.Duration,
			OutputPath: path,
		}); err != nil {
			logger.Warning("failed to record run", "sample", sample, "error", err)
		}
	}
}
