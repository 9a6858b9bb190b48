// Package preview implements the websocket preview server: a client sends a
// JSON generation request for one catalog entry and receives the PNG bytes
// back as a binary message, or a JSON error. Intended as a local tool for
// iterating on sample parameters without re-running whole batches.
package preview

import (
	"bytes"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/wavecollapse/internal/config"
	"github.com/lawnchairsociety/wavecollapse/internal/generate"
	"github.com/lawnchairsociety/wavecollapse/internal/imaging"
	"github.com/lawnchairsociety/wavecollapse/internal/logger"
	"github.com/lawnchairsociety/wavecollapse/internal/samples"
)

// Request is one generation request from a client.
type Request struct {
	// Kind is "overlapping" or "simpletiled".
	Kind string `json:"kind"`
	// Name selects the catalog entry.
	Name string `json:"name"`
	// Width and Height override the catalog output size when non-zero.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// Seed fixes the first attempt's seed; 0 draws a fresh one.
	Seed uint64 `json:"seed,omitempty"`
}

// Reply is the JSON sent before the binary PNG, or alone on error.
type Reply struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

// Server holds the catalog and serves preview generations.
type Server struct {
	cfg      *config.AppConfig
	catalog  *samples.Catalog
	upgrader websocket.Upgrader

	mu    sync.Mutex
	seeds *rand.Rand
}

// NewServer builds a preview server over a loaded catalog.
func NewServer(cfg *config.AppConfig, catalog *samples.Catalog, seed int64) *Server {
	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		seeds:   rand.New(rand.NewSource(seed)),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true // non-browser clients
			}
			if len(cfg.Server.AllowedOrigins) == 0 {
				// No configured origins: same-origin only.
				u, err := url.Parse(origin)
				return err == nil && strings.EqualFold(u.Host, r.Host)
			}
			return cfg.Server.IsOriginAllowed(origin)
		},
	}
	return s
}

// Handler returns the HTTP handler for the websocket endpoint.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleWS)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket closed", "remote", r.RemoteAddr, "error", err)
			}
			return
		}

		reply, pngBytes := s.serve(req)
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
		if pngBytes != nil {
			if err := conn.WriteMessage(websocket.BinaryMessage, pngBytes); err != nil {
				return
			}
		}
	}
}

// serve runs one request and returns the reply plus the encoded PNG on
// success. Requests are serialized; a preview server runs one solve at a
// time.
func (s *Server) serve(req Request) (Reply, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.generate(req)
	if err != nil {
		logger.Warning("preview generation failed", "kind", req.Kind, "name", req.Name, "error", err)
		return Reply{OK: false, Error: err.Error()}, nil
	}

	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, result.Image); err != nil {
		return Reply{OK: false, Error: err.Error()}, nil
	}
	logger.Info("preview generated", "kind", req.Kind, "name", req.Name,
		"seed", result.Seed, "attempts", result.Number)
	return Reply{OK: true, Seed: result.Seed, Attempts: result.Number}, buf.Bytes()
}

func (s *Server) generate(req Request) (*generate.Result, error) {
	seeds := s.seedSource(req.Seed)

	switch req.Kind {
	case "overlapping":
		entry, ok := s.findOverlapping(req.Name)
		if !ok {
			return nil, fmt.Errorf("preview: unknown overlapping sample %q", req.Name)
		}
		overrideSize(&entry.Height, &entry.Width, req.Height, req.Width)
		input, err := imaging.ReadPNG(filepath.Join(s.cfg.Paths.SamplesDir, entry.Name+".png"))
		if err != nil {
			return nil, err
		}
		return generate.Overlapping(entry, input, s.cfg.Generation.Attempts, seeds, nil)
	case "simpletiled":
		entry, ok := s.findSimpleTiled(req.Name)
		if !ok {
			return nil, fmt.Errorf("preview: unknown simpletiled sample %q", req.Name)
		}
		overrideSize(&entry.Height, &entry.Width, req.Height, req.Width)
		set, err := samples.LoadTileset(filepath.Join(s.cfg.Paths.SamplesDir, entry.Name), entry.Subset)
		if err != nil {
			return nil, err
		}
		return generate.SimpleTiled(entry, set, s.cfg.Generation.Attempts, seeds, nil)
	default:
		return nil, fmt.Errorf("preview: unknown kind %q", req.Kind)
	}
}

// seedSource uses the fixed seed for the first attempt and fresh seeds for
// retries, so a pinned seed still recovers from a contradiction.
func (s *Server) seedSource(fixed uint64) func() uint64 {
	first := true
	return func() uint64 {
		if fixed != 0 && first {
			first = false
			return fixed
		}
		return uint64(s.seeds.Int63())
	}
}

func (s *Server) findOverlapping(name string) (samples.Overlapping, bool) {
	for _, entry := range s.catalog.Overlapping {
		if entry.Name == name {
			return entry, true
		}
	}
	return samples.Overlapping{}, false
}

func (s *Server) findSimpleTiled(name string) (samples.SimpleTiled, bool) {
	for _, entry := range s.catalog.SimpleTiled {
		if entry.Name == name {
			return entry, true
		}
	}
	return samples.SimpleTiled{}, false
}

func overrideSize(height, width *int, reqHeight, reqWidth int) {
	if reqHeight > 0 {
		*height = reqHeight
	}
	if reqWidth > 0 {
		*width = reqWidth
	}
}
