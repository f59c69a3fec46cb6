package marquee

import (
	"sync"
	"time"

	"github.com/agiangrant/marquee/internal/debug"
)

// gateState is the visibility gate's lifecycle state.
type gateState int

const (
	gateDormant gateState = iota
	gateArmed
	gateActive
)

// activateDelay separates the proximity signal from declaring the gate
// active, letting the proximity callback's own layout settle before heavier
// work (asset loads, measurement) starts.
const activateDelay = 100 * time.Millisecond

// visibilityGate decides when the component may begin loading and measuring
// real content. It transitions Dormant -> Armed -> Active; the Armed ->
// Active edge fires exactly once, on the first proximity signal, and then
// tears its subscription down.
type visibilityGate struct {
	mu sync.Mutex

	host     Host
	marginPX float64
	onActive func()

	state         gateState
	cancelObserve CancelFunc
	cancelTimer   CancelFunc
	closed        bool
}

func newVisibilityGate(host Host, marginPX float64, onActive func()) *visibilityGate {
	return &visibilityGate{
		host:     host,
		marginPX: marginPX,
		onActive: onActive,
	}
}

// arm starts the gate. With lazy gating disabled, or on a host without a
// document, it short-circuits straight to active: gating only matters where
// real layout and a viewport exist.
func (g *visibilityGate) arm(lazy bool) {
	g.mu.Lock()
	if g.closed || g.state != gateDormant {
		g.mu.Unlock()
		return
	}

	if !lazy || !g.host.HasDocument() {
		g.state = gateActive
		g.mu.Unlock()
		debug.Logf("gate: active (no lazy gating)")
		g.onActive()
		return
	}

	g.state = gateArmed
	g.cancelObserve = g.host.ObserveProximity(g.marginPX, g.proximityReached)
	g.mu.Unlock()
	debug.Logf("gate: armed (margin %.0fpx)", g.marginPX)
}

// proximityReached handles the one-shot proximity signal.
func (g *visibilityGate) proximityReached() {
	g.mu.Lock()
	if g.closed || g.state != gateArmed {
		g.mu.Unlock()
		return
	}

	if g.cancelObserve != nil {
		g.cancelObserve()
		g.cancelObserve = nil
	}

	g.cancelTimer = g.host.After(activateDelay, g.activate)
	g.mu.Unlock()
}

func (g *visibilityGate) activate() {
	g.mu.Lock()
	if g.closed || g.state == gateActive {
		g.mu.Unlock()
		return
	}
	g.state = gateActive
	g.cancelTimer = nil
	g.mu.Unlock()

	debug.Logf("gate: active")
	g.onActive()
}

// active reports whether the gate has been crossed.
func (g *visibilityGate) active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == gateActive
}

// close releases the subscription and any pending timer. No further
// transitions happen after close.
func (g *visibilityGate) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	if g.cancelObserve != nil {
		g.cancelObserve()
		g.cancelObserve = nil
	}
	if g.cancelTimer != nil {
		g.cancelTimer()
		g.cancelTimer = nil
	}
}
