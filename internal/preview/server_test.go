package preview

import (
	"bytes"
	"image/png"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/wavecollapse/internal/config"
	"github.com/lawnchairsociety/wavecollapse/internal/grid"
	"github.com/lawnchairsociety/wavecollapse/internal/imaging"
	"github.com/lawnchairsociety/wavecollapse/internal/samples"
)

// newTestServer writes a checkerboard sample to disk and serves a catalog
// with one overlapping entry over it.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	input := grid.NewGrid2D[imaging.RGB](2, 2)
	white := imaging.RGB{R: 255, G: 255, B: 255}
	input.Set(0, 1, white)
	input.Set(1, 0, white)
	if err := imaging.WritePNG(filepath.Join(dir, "checker.png"), input); err != nil {
		t.Fatalf("failed to write sample: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Paths.SamplesDir = dir
	catalog := &samples.Catalog{
		Overlapping: []samples.Overlapping{{
			Name: "checker", N: 2, Periodic: true, PeriodicInput: true,
			Symmetry: 1, Width: 8, Height: 8,
		}},
	}

	server := httptest.NewServer(NewServer(cfg, catalog, 1).Handler())
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPreviewGeneratesPNG(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(Request{Kind: "overlapping", Name: "checker", Seed: 42}); err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if !reply.OK {
		t.Fatalf("reply not ok: %s", reply.Error)
	}
	if reply.Seed != 42 {
		t.Errorf("seed = %d, want the pinned 42", reply.Seed)
	}

	messageType, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read image: %v", err)
	}
	if messageType != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", messageType)
	}

	decoded, err := png.Decode(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("payload is not a PNG: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 8 {
		t.Errorf("image size = %dx%d, want 8x8", bounds.Dx(), bounds.Dy())
	}
}

func TestPreviewSizeOverride(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(Request{Kind: "overlapping", Name: "checker", Width: 6, Height: 4}); err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if !reply.OK {
		t.Fatalf("reply not ok: %s", reply.Error)
	}

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read image: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("payload is not a PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 6 || decoded.Bounds().Dy() != 4 {
		t.Errorf("image size = %dx%d, want 6x4", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestPreviewUnknownSample(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(Request{Kind: "overlapping", Name: "nope"}); err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if reply.OK {
		t.Fatal("unknown sample should not succeed")
	}
	if !strings.Contains(reply.Error, "nope") {
		t.Errorf("error = %q, want mention of the sample name", reply.Error)
	}
}

func TestPreviewUnknownKind(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteJSON(Request{Kind: "volumetric", Name: "checker"}); err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	var reply Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if reply.OK {
		t.Fatal("unknown kind should not succeed")
	}
}
