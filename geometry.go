package marquee

import (
	"math"
	"sync"
	"time"

	"github.com/agiangrant/marquee/internal/debug"
)

const (
	// settleDelay lets image intrinsic sizes finish affecting layout
	// between children appearing and the measurement being taken.
	settleDelay = 100 * time.Millisecond

	// resizeDebounce delays re-measurement after a resize event so the
	// loop distance is derived from the settled layout.
	resizeDebounce = 100 * time.Millisecond

	// childPollInterval and maxChildPolls bound the wait for a render
	// pass that has not painted any children yet.
	childPollInterval = 50 * time.Millisecond
	maxChildPolls     = 20

	// fallbackGapPixels is used when neither the live computed gap nor
	// the configured gap resolves.
	fallbackGapPixels = 48.0
)

// MinPlausibleCycleDistance is the threshold below which a primary or
// secondary measurement is treated as taken before layout stabilized and
// the summed tertiary tier runs instead. The value is inherited behavior;
// its fitness for very narrow item sets is unverified, which is why it is
// a named constant rather than an inline literal.
const MinPlausibleCycleDistance = 100.0

// Parameters is the engine's published output: the exact width of one copy
// of the sequence including the trailing gap, and the proportional duration
// of one loop cycle. The render layer translates the strip from offset 0 to
// offset -CycleDistance over CycleDuration, repeating indefinitely; because
// the two buffer halves are pixel-identical, the restart is invisible.
type Parameters struct {
	CycleDistance float64 // pixels
	CycleDuration float64 // seconds
}

// measureFunc is one measurement tier: a pure function from a geometry
// snapshot to a candidate cycle distance. ok is false when the snapshot
// does not have enough structure for this tier.
type measureFunc func(snap Snapshot, itemCount int, gapPX float64) (float64, bool)

// measureDoubleCopy is the primary tier: with both copies rendered, the
// distance between the first child of each copy is exactly one period,
// including the real rendered gap.
func measureDoubleCopy(snap Snapshot, itemCount int, gapPX float64) (float64, bool) {
	if itemCount == 0 || len(snap.Children) < 2*itemCount {
		return 0, false
	}
	return snap.Children[itemCount].Left() - snap.Children[0].Left(), true
}

// measureSingleCopy is the secondary tier: one full copy's span plus the
// effective gap to where the next copy would begin. It applies only while
// the buffer holds at least one full copy but not yet two; with both copies
// rendered the primary tier is strictly better.
func measureSingleCopy(snap Snapshot, itemCount int, gapPX float64) (float64, bool) {
	if itemCount == 0 || len(snap.Children) < itemCount || len(snap.Children) >= 2*itemCount {
		return 0, false
	}
	first := snap.Children[0]
	last := snap.Children[itemCount-1]
	return last.Right() - first.Left() + gapPX, true
}

// measureSummed is the tertiary tier: each child's own rendered width plus
// the effective gap between them. Used when span-based measurements look
// like they were taken mid-layout.
func measureSummed(snap Snapshot, itemCount int, gapPX float64) (float64, bool) {
	if itemCount == 0 || len(snap.Children) < itemCount {
		return 0, false
	}
	var total float64
	for _, child := range snap.Children[:itemCount] {
		total += child.Width
	}
	total += gapPX * float64(itemCount-1)
	return total, true
}

// measureTiers is the ordered fallback chain.
var measureTiers = []measureFunc{measureDoubleCopy, measureSingleCopy, measureSummed}

// plausible reports whether a span measurement can be trusted.
func plausible(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= MinPlausibleCycleDistance
}

// resolveCycleDistance runs the tier chain against one snapshot and returns
// the rounded cycle distance, or ok=false when no tier produced a usable
// number. Rounding to whole pixels avoids sub-pixel jitter at the loop
// boundary.
func resolveCycleDistance(snap Snapshot, itemCount int, gapPX float64) (float64, bool) {
	for i, tier := range measureTiers {
		d, ok := tier(snap, itemCount, gapPX)
		if !ok {
			continue
		}
		// The summed tier is the last resort; span tiers whose result
		// looks pre-layout fall through to it.
		if i < len(measureTiers)-1 && !plausible(d) {
			debug.Logf("geometry: tier %d implausible (%.1fpx)", i, d)
			continue
		}
		d = math.Round(d)
		if d > 0 {
			debug.Logf("geometry: tier %d measured %.0fpx", i, d)
			return d, true
		}
	}
	return 0, false
}

// geometryEngine measures the rendered double-sequence once visibility and
// asset readiness permit, derives animation parameters, and re-derives them
// on every resize. It is the only writer of the published parameters and
// the animation ready flag.
type geometryEngine struct {
	mu sync.Mutex

	host      Host
	itemCount int

	durationSeconds float64
	speedMultiplier float64
	baseWidthPixels float64
	configuredGap   float64
	gapConfigured   bool

	params    Parameters
	hasParams bool
	animReady bool

	polls        int
	cancelTimer  CancelFunc
	cancelResize CancelFunc
	closed       bool

	// onParameters fires after each atomic publish; onReadyChange fires
	// when the animation ready flag flips either way.
	onParameters  func(Parameters)
	onReadyChange func(bool)
}

func newGeometryEngine(host Host, cfg Config, itemCount int) *geometryEngine {
	gap, gapOK := cfg.gapPixels()
	return &geometryEngine{
		host:            host,
		itemCount:       itemCount,
		durationSeconds: cfg.DurationSeconds,
		speedMultiplier: cfg.SpeedMultiplier,
		baseWidthPixels: cfg.BaseWidthPixels,
		configuredGap:   gap,
		gapConfigured:   gapOK,
	}
}

// start begins the first measurement run and subscribes to resize events.
// Preconditions (gate active, assets ready) are the caller's to enforce;
// the engine itself only checks that the buffer is attached.
func (e *geometryEngine) start() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.cancelResize = e.host.OnResize(e.handleResize)
	e.polls = 0
	e.mu.Unlock()

	e.pollChildren()
}

// pollChildren defers measurement until the attached buffer has measurable
// children. Bounded, non-blocking; exhausting the bound is a silent
// degrade, not a failure.
func (e *geometryEngine) pollChildren() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	snap, attached := e.host.Snapshot()
	if !attached || len(snap.Children) == 0 {
		e.polls++
		if e.polls > maxChildPolls {
			e.mu.Unlock()
			debug.Logf("geometry: no children after %d polls, staying static", maxChildPolls)
			return
		}
		e.cancelTimer = e.host.After(childPollInterval, e.pollChildren)
		e.mu.Unlock()
		return
	}

	// Children exist; give images one settle delay to finish affecting
	// layout before measuring.
	e.cancelTimer = e.host.After(settleDelay, e.measure)
	e.mu.Unlock()
}

// measure takes a fresh snapshot, runs the tier chain, and publishes the
// parameters atomically if the result is positive.
func (e *geometryEngine) measure() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.cancelTimer = nil

	snap, attached := e.host.Snapshot()
	if !attached {
		e.mu.Unlock()
		return
	}

	gapPX := e.effectiveGapLocked(snap)
	distance, ok := resolveCycleDistance(snap, e.itemCount, gapPX)
	if !ok {
		// All tiers failed; leave the content statically laid out.
		e.mu.Unlock()
		debug.Logf("geometry: no usable measurement, staying static")
		return
	}

	e.params = Parameters{
		CycleDistance: distance,
		CycleDuration: distance / e.baseWidthPixels * e.durationSeconds * e.speedMultiplier,
	}
	e.hasParams = true
	onParams := e.onParameters
	params := e.params
	e.mu.Unlock()

	if onParams != nil {
		onParams(params)
	}

	// One paint-boundary yield before the flag that gates the continuous
	// animation flips on.
	e.host.NextFrame(func() {
		e.setAnimReady(true)
	})
}

// effectiveGapLocked resolves the gap used by the fallback tiers: the live
// computed gap when the host knows it, else the configured gap, else the
// constant default.
func (e *geometryEngine) effectiveGapLocked(snap Snapshot) float64 {
	if snap.GapKnown {
		return snap.GapPX
	}
	if e.gapConfigured {
		return e.configuredGap
	}
	return fallbackGapPixels
}

// handleResize unmarks readiness and re-runs the full procedure after a
// short debounce. The loop distance always matches current layout at the
// cost of a brief pause during resize.
func (e *geometryEngine) handleResize() {
	e.setAnimReady(false)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if e.cancelTimer != nil {
		e.cancelTimer()
	}
	e.polls = 0
	e.cancelTimer = e.host.After(resizeDebounce, e.pollChildren)
	e.mu.Unlock()
}

func (e *geometryEngine) setAnimReady(ready bool) {
	e.mu.Lock()
	if e.closed || e.animReady == ready {
		e.mu.Unlock()
		return
	}
	e.animReady = ready
	onChange := e.onReadyChange
	e.mu.Unlock()

	debug.Logf("geometry: ready=%v", ready)
	if onChange != nil {
		onChange(ready)
	}
}

// parameters returns the last published parameters, if any. Distance and
// duration are always set together; a partial update is impossible.
func (e *geometryEngine) parameters() (Parameters, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params, e.hasParams
}

// ready reports whether the animation is cleared to run.
func (e *geometryEngine) ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.animReady
}

// close releases the resize listener and any pending timer so the engine
// never acts on a removed element.
func (e *geometryEngine) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.cancelTimer != nil {
		e.cancelTimer()
		e.cancelTimer = nil
	}
	if e.cancelResize != nil {
		e.cancelResize()
		e.cancelResize = nil
	}
}
