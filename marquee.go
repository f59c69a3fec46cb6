package marquee

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/agiangrant/marquee/internal/debug"
)

// Marquee is the seamless-loop strip component. It validates the item
// sequence, renders it twice into a loop buffer, and runs the three gating
// stages strictly in order: visibility, then asset readiness, then geometry
// measurement. The measured animation parameters are exposed as a plain
// data contract for whatever render layer the host has.
type Marquee struct {
	mu sync.Mutex

	cfg    Config
	seq    Sequence
	buffer []Node

	// generation identifies one accepted sequence; readiness and
	// measurement state never carry over between generations.
	generation string

	host     Host
	attached bool
	closed   bool

	loader  AssetLoader
	gate    *visibilityGate
	tracker *assetTracker
	engine  *geometryEngine

	onParameters  func(Parameters)
	onReadyChange func(bool)
}

// New validates the configuration and returns an unattached Marquee.
// A sequence containing an item with neither image nor label is a
// configuration error: New fails before any rendering side effect.
func New(cfg Config) (*Marquee, error) {
	seq, err := NewSequence(cfg.Items)
	if err != nil {
		return nil, err
	}

	m := &Marquee{
		cfg:        cfg.normalized(),
		seq:        seq,
		buffer:     seq.buildBuffer(),
		generation: uuid.NewString(),
	}
	debug.Logf("marquee: generation %s, %d items", m.generation, seq.Len())
	return m, nil
}

// SetAssetLoader injects the loader used for image sources. Must be called
// before Attach. Nil restores the default HTTP/file loader.
func (m *Marquee) SetAssetLoader(loader AssetLoader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loader = loader
}

// OnParameters registers fn to fire after each atomic publish of animation
// parameters. Must be called before Attach.
func (m *Marquee) OnParameters(fn func(Parameters)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onParameters = fn
}

// OnReadyChange registers fn to fire when the animation ready flag flips.
// The render layer gates its continuous translation on this flag. Must be
// called before Attach.
func (m *Marquee) OnReadyChange(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReadyChange = fn
}

// Attach binds the component to a host and starts the visibility gate.
// The pipeline after that is event-driven: proximity -> asset loads ->
// measurement -> published parameters.
func (m *Marquee) Attach(host Host) error {
	if host == nil {
		return fmt.Errorf("marquee: nil host")
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("marquee: attach after close")
	}
	if m.attached {
		m.mu.Unlock()
		return fmt.Errorf("marquee: already attached")
	}
	m.host = host
	m.attached = true
	gate, lazy := m.wirePipelineLocked()
	m.mu.Unlock()

	// Arming may complete synchronously (no lazy gating, no document)
	// and the activation callback re-enters m.mu, so arm unlocked.
	gate.arm(lazy)
	return nil
}

// wirePipelineLocked builds the gate -> tracker -> engine chain for the
// current generation. The caller holds m.mu and arms the returned gate
// after releasing it.
func (m *Marquee) wirePipelineLocked() (*visibilityGate, bool) {
	gen := m.generation

	engine := newGeometryEngine(m.host, m.cfg, m.seq.Len())
	engine.onParameters = func(p Parameters) {
		m.mu.Lock()
		fn := m.onParameters
		stale := m.generation != gen
		m.mu.Unlock()
		if !stale && fn != nil {
			fn(p)
		}
	}
	engine.onReadyChange = func(ready bool) {
		m.mu.Lock()
		fn := m.onReadyChange
		stale := m.generation != gen
		m.mu.Unlock()
		if !stale && fn != nil {
			fn(ready)
		}
	}

	tracker := newAssetTracker(m.seq.imageSources(), m.loader, func() {
		m.mu.Lock()
		stale := m.generation != gen || m.closed
		m.mu.Unlock()
		if !stale {
			engine.start()
		}
	})

	gate := newVisibilityGate(m.host, m.cfg.proximityMarginPixels(), func() {
		m.mu.Lock()
		stale := m.generation != gen || m.closed
		m.mu.Unlock()
		if !stale {
			tracker.start()
		}
	})

	m.engine = engine
	m.tracker = tracker
	m.gate = gate

	return gate, !m.cfg.DisableLazyGating
}

// SetItems replaces the item sequence. An equal sequence (by value) is a
// no-op; a different one is re-validated and, when attached, re-measured
// under a fresh generation.
func (m *Marquee) SetItems(items []Item) error {
	seq, err := NewSequence(items)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("marquee: set items after close")
	}
	if m.seq.Equal(seq) {
		m.mu.Unlock()
		return nil
	}

	m.teardownPipelineLocked()
	m.seq = seq
	m.buffer = seq.buildBuffer()
	m.generation = uuid.NewString()
	debug.Logf("marquee: generation %s, %d items", m.generation, seq.Len())

	var gate *visibilityGate
	var lazy bool
	if m.attached {
		gate, lazy = m.wirePipelineLocked()
	}
	m.mu.Unlock()

	if gate != nil {
		gate.arm(lazy)
	}
	return nil
}

// teardownPipelineLocked releases the current generation's subscriptions
// and timers. Caller holds m.mu.
func (m *Marquee) teardownPipelineLocked() {
	if m.gate != nil {
		m.gate.close()
		m.gate = nil
	}
	if m.engine != nil {
		m.engine.close()
		m.engine = nil
	}
	m.tracker = nil
}

// RenderTree emits the doubled strip as a node tree. The host renders it
// with the same classes for both halves; structural identity of the halves
// is what makes the loop boundary invisible.
func (m *Marquee) RenderTree() Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	classes := fmt.Sprintf("gap-[%s]", m.cfg.Gap)
	return Strip(classes, m.buffer...)
}

// Items returns the accepted sequence.
func (m *Marquee) Items() Sequence {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}

// Generation returns the identity of the currently accepted sequence.
func (m *Marquee) Generation() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Activate reports a user interaction with a rendered node. bufferIndex is
// the position within the doubled buffer; the configured callback receives
// the position within one copy.
func (m *Marquee) Activate(bufferIndex int) {
	m.mu.Lock()
	n := m.seq.Len()
	fn := m.cfg.OnItemActivated
	if n == 0 || bufferIndex < 0 || bufferIndex >= 2*n || fn == nil {
		m.mu.Unlock()
		return
	}
	index := bufferIndex % n
	item := m.seq.Item(index)
	m.mu.Unlock()

	fn(item, index)
}

// Parameters returns the last atomically published animation parameters.
// ok is false until the first successful measurement of this generation.
func (m *Marquee) Parameters() (Parameters, bool) {
	m.mu.Lock()
	engine := m.engine
	m.mu.Unlock()
	if engine == nil {
		return Parameters{}, false
	}
	return engine.parameters()
}

// Ready reports whether the continuous loop animation is cleared to run.
func (m *Marquee) Ready() bool {
	m.mu.Lock()
	engine := m.engine
	m.mu.Unlock()
	if engine == nil {
		return false
	}
	return engine.ready()
}

// AssetsReady reports aggregated asset readiness for the current
// generation.
func (m *Marquee) AssetsReady() bool {
	m.mu.Lock()
	tracker := m.tracker
	m.mu.Unlock()
	if tracker == nil {
		return false
	}
	return tracker.isReady()
}

// AssetState returns the load state of one image source.
func (m *Marquee) AssetState(source string) LoadState {
	m.mu.Lock()
	tracker := m.tracker
	m.mu.Unlock()
	if tracker == nil {
		return LoadPending
	}
	return tracker.state(source)
}

// Close releases the proximity subscription, resize listener, and pending
// timers. Idempotent; the component never acts on a removed element after
// Close returns.
func (m *Marquee) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.teardownPipelineLocked()
}
