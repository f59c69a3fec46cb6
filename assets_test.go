package marquee

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"
)

// mapLoader serves canned bytes or errors per source.
type mapLoader struct {
	data map[string][]byte
	errs map[string]error
}

func (l mapLoader) Load(source string) ([]byte, error) {
	if err, ok := l.errs[source]; ok {
		return nil, err
	}
	if data, ok := l.data[source]; ok {
		return data, nil
	}
	return nil, errors.New("not found")
}

// pngBytes encodes a small image so DecodeConfig has something real to
// read.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// waitReady blocks until the tracker signals readiness or the test times
// out.
func waitReady(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("tracker never became ready")
	}
}

func TestTrackerEmptySetReadyImmediately(t *testing.T) {
	fired := 0
	tracker := newAssetTracker(nil, mapLoader{}, func() { fired++ })

	tracker.start()
	if !tracker.isReady() {
		t.Error("empty source set must be ready immediately")
	}
	if fired != 1 {
		t.Errorf("onReady fired %d times, want 1", fired)
	}

	// start is one-shot; readiness never re-fires.
	tracker.start()
	if fired != 1 {
		t.Errorf("onReady fired %d times after restart, want 1", fired)
	}
}

func TestTrackerLoadsAndDecodes(t *testing.T) {
	loader := mapLoader{data: map[string][]byte{
		"ok.png": pngBytes(t, 120, 40),
	}}
	ready := make(chan struct{})
	tracker := newAssetTracker([]string{"ok.png"}, loader, func() { close(ready) })

	tracker.start()
	waitReady(t, ready)

	if tracker.state("ok.png") != LoadLoaded {
		t.Errorf("state = %v, want loaded", tracker.state("ok.png"))
	}
	size, ok := tracker.naturalSize("ok.png")
	if !ok || size.X != 120 || size.Y != 40 {
		t.Errorf("natural size = %v %v, want 120x40", size, ok)
	}
}

func TestTrackerFailureStillSettles(t *testing.T) {
	// One source 404s; readiness must still become true so a broken
	// image never stalls the loop.
	loader := mapLoader{
		data: map[string][]byte{"good.png": pngBytes(t, 10, 10)},
		errs: map[string]error{"missing.png": errors.New("HTTP 404: Not Found")},
	}
	ready := make(chan struct{})
	tracker := newAssetTracker([]string{"good.png", "missing.png"}, loader, func() { close(ready) })

	tracker.start()
	waitReady(t, ready)

	if tracker.state("missing.png") != LoadFailed {
		t.Errorf("state = %v, want failed", tracker.state("missing.png"))
	}
	if tracker.state("good.png") != LoadLoaded {
		t.Errorf("state = %v, want loaded", tracker.state("good.png"))
	}
	if !tracker.isReady() {
		t.Error("readiness must include failed sources")
	}
}

func TestTrackerUndecodableCountsAsFailed(t *testing.T) {
	loader := mapLoader{data: map[string][]byte{
		"not-an-image.bin": []byte("plain text, not image data"),
	}}
	ready := make(chan struct{})
	tracker := newAssetTracker([]string{"not-an-image.bin"}, loader, func() { close(ready) })

	tracker.start()
	waitReady(t, ready)

	if tracker.state("not-an-image.bin") != LoadFailed {
		t.Errorf("state = %v, want failed", tracker.state("not-an-image.bin"))
	}
}

func TestTrackerReadinessMonotonic(t *testing.T) {
	loader := mapLoader{data: map[string][]byte{
		"a.png": pngBytes(t, 5, 5),
	}}
	ready := make(chan struct{})
	fired := 0
	tracker := newAssetTracker([]string{"a.png"}, loader, func() {
		fired++
		close(ready)
	})

	tracker.start()
	waitReady(t, ready)

	// Duplicate settles must not re-fire readiness or double-count.
	tracker.settle("a.png", LoadFailed, image.Point{})
	if fired != 1 {
		t.Errorf("onReady fired %d times, want exactly 1", fired)
	}
	if tracker.state("a.png") != LoadLoaded {
		t.Error("a settled source must not change state")
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com/a.png", true},
		{"assets/logo.png", false},
		{"/abs/path.png", false},
		{"httpx://nope", false},
	}
	for _, tt := range tests {
		if got := isURL(tt.source); got != tt.want {
			t.Errorf("isURL(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}
