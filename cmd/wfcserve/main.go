// wfcserve runs the websocket preview server: clients request a single
// catalog entry over /ws and receive the generated PNG back without
// re-running a whole batch.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/lawnchairsociety/wavecollapse/internal/config"
	"github.com/lawnchairsociety/wavecollapse/internal/logger"
	"github.com/lawnchairsociety/wavecollapse/internal/preview"
	"github.com/lawnchairsociety/wavecollapse/internal/samples"
)

func main() {
	configPath := flag.String("config", "wfcgen.yaml", "Path to application config")
	listenAddr := flag.String("listen", "", "Listen address (overrides config)")
	seed := flag.Int64("seed", 0, "Base seed for preview attempts (0 uses wall clock)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	catalog, err := samples.LoadCatalog(cfg.Paths.Catalog)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	baseSeed := *seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	server := preview.NewServer(cfg, catalog, baseSeed)
	mux := http.NewServeMux()
	mux.Handle("/ws", server.Handler())

	logger.Info("preview server listening", "addr", cfg.Server.ListenAddr,
		"overlapping", len(catalog.Overlapping), "simpletiled", len(catalog.SimpleTiled))
	if err := http.ListenAndServe(cfg.Server.ListenAddr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
