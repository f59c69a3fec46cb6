package marquee

import "time"

// CancelFunc releases a subscription or pending timer. Safe to call more
// than once.
type CancelFunc func()

// Rect is the rendered frame of one strip child, in pixels, relative to the
// strip's own coordinate space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Left returns the left edge of the rect.
func (r Rect) Left() float64 { return r.X }

// Right returns the right edge of the rect.
func (r Rect) Right() float64 { return r.X + r.Width }

// Snapshot captures the live geometry of the doubled strip at one instant.
// Children are ordered: first copy first, then the second copy.
type Snapshot struct {
	Children []Rect

	// GapPX is the computed inter-item gap read from the live layout.
	// GapKnown is false when the host cannot resolve a computed gap, in
	// which case measurement falls back to the configured gap.
	GapPX    float64
	GapKnown bool
}

// Host is the component's view of its rendering environment. The two event
// sources (proximity and resize) are plain callback registrations so the
// engine can be driven by synthetic events in tests; no real layout surface
// is required.
//
// All callbacks registered through a Host must be invoked sequentially;
// the component never expects concurrent delivery.
type Host interface {
	// HasDocument reports whether a real document/layout exists. Hosts
	// without one short-circuit the visibility gate: lazy gating only
	// matters where real layout and a viewport exist.
	HasDocument() bool

	// ObserveProximity installs a proximity subscription on the strip's
	// container. fn fires when the container intersects the viewport
	// expanded by marginPX on each side. The subscription is one-shot
	// from the component's perspective; it cancels after the first
	// signal.
	ObserveProximity(marginPX float64, fn func()) CancelFunc

	// OnResize registers fn for viewport resize events.
	OnResize(fn func()) CancelFunc

	// Snapshot measures the attached strip. ok is false while the strip
	// is not attached to a live layout.
	Snapshot() (snap Snapshot, ok bool)

	// After schedules fn after d. The returned cancel releases the timer
	// without firing it.
	After(d time.Duration, fn func()) CancelFunc

	// NextFrame schedules fn at the next paint opportunity. Used for the
	// final yield before the animation ready flag flips.
	NextFrame(fn func())
}

// headlessHost is the Host for environments without a document. The gate
// short-circuits to active, assets still load, and geometry never measures
// (the strip is never attached), so the content degrades to a static
// layout.
type headlessHost struct{}

// Headless returns a Host for non-visual environments (tests, prerendering,
// servers).
func Headless() Host {
	return headlessHost{}
}

func (headlessHost) HasDocument() bool { return false }

func (headlessHost) ObserveProximity(marginPX float64, fn func()) CancelFunc {
	return func() {}
}

func (headlessHost) OnResize(fn func()) CancelFunc {
	return func() {}
}

func (headlessHost) Snapshot() (Snapshot, bool) {
	return Snapshot{}, false
}

func (headlessHost) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

func (headlessHost) NextFrame(fn func()) {
	fn()
}
