package marquee

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"os"
	"sync"
	"time"

	// Register decoders so DecodeConfig can read intrinsic sizes of the
	// formats hosts commonly point the strip at.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"golang.org/x/sync/singleflight"

	"github.com/agiangrant/marquee/internal/debug"
)

// LoadState is the per-source load lifecycle.
type LoadState int

const (
	LoadPending LoadState = iota
	LoadLoaded
	LoadFailed
)

// String returns the state name for logs and tests.
func (s LoadState) String() string {
	switch s {
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "pending"
	}
}

// AssetLoader fetches raw image bytes for a source reference. The default
// loader resolves URLs over HTTP and everything else as a file path; tests
// inject synthetic loaders.
type AssetLoader interface {
	Load(source string) ([]byte, error)
}

// assetClient is a shared HTTP client for fetching images from URLs.
// A shared client enables connection pooling and reuse.
var assetClient = &http.Client{
	Timeout: 30 * time.Second,
}

// assetFlights de-duplicates concurrent fetches of the same source across
// all trackers, so two strips showing the same logo fetch it once.
var assetFlights singleflight.Group

// defaultLoader loads from HTTP(S) URLs or the local filesystem.
type defaultLoader struct{}

func (defaultLoader) Load(source string) ([]byte, error) {
	if isURL(source) {
		return fetchURL(source)
	}
	return os.ReadFile(source)
}

func isURL(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || (len(s) > 8 && s[:8] == "https://"))
}

func fetchURL(url string) ([]byte, error) {
	resp, err := assetClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// assetTracker waits for every distinct image source of a sequence to
// settle (loaded or failed) before geometry is measured. Readiness is
// monotonic: it flips false -> true exactly once per sequence generation
// and never reverts. Individual failures settle the source rather than
// escalate, so one broken URL never stalls the loop.
type assetTracker struct {
	mu sync.Mutex

	loader  AssetLoader
	sources []string
	states  map[string]LoadState
	sizes   map[string]image.Point

	started bool
	settled int
	ready   bool
	onReady func()
}

func newAssetTracker(sources []string, loader AssetLoader, onReady func()) *assetTracker {
	if loader == nil {
		loader = defaultLoader{}
	}
	states := make(map[string]LoadState, len(sources))
	for _, src := range sources {
		states[src] = LoadPending
	}
	return &assetTracker{
		loader:  loader,
		sources: sources,
		states:  states,
		sizes:   make(map[string]image.Point, len(sources)),
		onReady: onReady,
	}
}

// start begins one independent load attempt per distinct source. The
// attempts run concurrently with respect to each other; completion is
// aggregated by a settled counter reaching the total. An empty source set
// is ready immediately. start is one-shot.
func (t *assetTracker) start() {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true

	if len(t.sources) == 0 {
		t.ready = true
		onReady := t.onReady
		t.mu.Unlock()
		debug.Logf("assets: no sources, ready")
		if onReady != nil {
			onReady()
		}
		return
	}
	t.mu.Unlock()

	for _, src := range t.sources {
		go t.load(src)
	}
}

// load fetches and decodes one source, then settles it. Fire-and-forget;
// no retries.
func (t *assetTracker) load(source string) {
	data, err, _ := assetFlights.Do(source, func() (any, error) {
		return t.loader.Load(source)
	})
	if err != nil {
		debug.Logf("assets: %s failed: %v", source, err)
		t.settle(source, LoadFailed, image.Point{})
		return
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data.([]byte)))
	if err != nil {
		// Fetched but not decodable; the host renders it however it
		// renders a broken image.
		debug.Logf("assets: %s undecodable: %v", source, err)
		t.settle(source, LoadFailed, image.Point{})
		return
	}

	t.settle(source, LoadLoaded, image.Point{X: cfg.Width, Y: cfg.Height})
}

// settle records a completion. Failure counts toward readiness the same as
// success, so a broken image degrades only its own rendering.
func (t *assetTracker) settle(source string, state LoadState, size image.Point) {
	t.mu.Lock()
	if t.states[source] != LoadPending {
		// Already settled; duplicate completions must not double-count.
		t.mu.Unlock()
		return
	}
	t.states[source] = state
	if state == LoadLoaded {
		t.sizes[source] = size
	}
	t.settled++

	fire := false
	if t.settled == len(t.sources) && !t.ready {
		t.ready = true
		fire = true
	}
	onReady := t.onReady
	t.mu.Unlock()

	if fire {
		debug.Logf("assets: all %d settled, ready", len(t.sources))
		if onReady != nil {
			onReady()
		}
	}
}

// isReady reports aggregated readiness.
func (t *assetTracker) isReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready
}

// state returns the load state of one source.
func (t *assetTracker) state(source string) LoadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[source]
}

// naturalSize returns the decoded intrinsic size of a loaded source.
func (t *assetTracker) naturalSize(source string) (image.Point, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	size, ok := t.sizes[source]
	return size, ok
}
