package marquee

import (
	"sync"
	"time"
)

// fakeHost is a synthetic rendering environment. Proximity and resize are
// fired by tests; timers and frame callbacks queue up and run when the test
// advances the host. Everything is synchronous and deterministic.
type fakeHost struct {
	mu sync.Mutex

	document bool
	attached bool
	snap     Snapshot

	proximityFns []func()
	resizeFns    []func()
	timers       []*fakeTimer
	frames       []func()

	observeCalls int
	marginSeen   float64
}

type fakeTimer struct {
	fn        func()
	cancelled bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{document: true}
}

func (h *fakeHost) HasDocument() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.document
}

func (h *fakeHost) ObserveProximity(marginPX float64, fn func()) CancelFunc {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observeCalls++
	h.marginSeen = marginPX
	h.proximityFns = append(h.proximityFns, fn)
	idx := len(h.proximityFns) - 1
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.proximityFns[idx] = nil
	}
}

func (h *fakeHost) OnResize(fn func()) CancelFunc {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resizeFns = append(h.resizeFns, fn)
	idx := len(h.resizeFns) - 1
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.resizeFns[idx] = nil
	}
}

func (h *fakeHost) Snapshot() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap, h.attached
}

func (h *fakeHost) After(d time.Duration, fn func()) CancelFunc {
	h.mu.Lock()
	defer h.mu.Unlock()
	t := &fakeTimer{fn: fn}
	h.timers = append(h.timers, t)
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		t.cancelled = true
	}
}

func (h *fakeHost) NextFrame(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, fn)
}

// setLayout attaches the strip with the given child geometry.
func (h *fakeHost) setLayout(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
	h.attached = true
}

// fireProximity delivers the proximity signal to all live subscriptions.
func (h *fakeHost) fireProximity() {
	h.mu.Lock()
	fns := append([]func(){}, h.proximityFns...)
	h.mu.Unlock()
	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}

// fireResize delivers a resize event.
func (h *fakeHost) fireResize() {
	h.mu.Lock()
	fns := append([]func(){}, h.resizeFns...)
	h.mu.Unlock()
	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}

// advance runs queued timers and frame callbacks until none remain.
// Bounded so a rescheduling loop cannot hang a test.
func (h *fakeHost) advance() {
	for i := 0; i < 100; i++ {
		h.mu.Lock()
		timers := h.timers
		frames := h.frames
		h.timers = nil
		h.frames = nil
		h.mu.Unlock()

		if len(timers) == 0 && len(frames) == 0 {
			return
		}
		for _, t := range timers {
			h.mu.Lock()
			cancelled := t.cancelled
			h.mu.Unlock()
			if !cancelled {
				t.fn()
			}
		}
		for _, fn := range frames {
			fn()
		}
	}
}

// stripRects builds child geometry for a doubled strip: copies * n items of
// the given width separated by gap, starting at x=0.
func stripRects(copies, n int, width, gap float64) []Rect {
	rects := make([]Rect, 0, copies*n)
	x := 0.0
	for i := 0; i < copies*n; i++ {
		rects = append(rects, Rect{X: x, Y: 0, Width: width, Height: 64})
		x += width + gap
	}
	return rects
}
