// Package anim drives continuous, indefinitely repeating translations from
// published marquee parameters. The geometry engine decides the distance
// and duration; this package only advances the offset tick by tick for
// render layers that have no declarative animation of their own.
package anim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/agiangrant/marquee"
)

// ID uniquely identifies an animation.
type ID uint64

var nextID atomic.Uint64

func newID() ID {
	return ID(nextID.Add(1))
}

// Animation is one active looping translation.
type Animation struct {
	id        ID
	startTime time.Time
	duration  time.Duration
	update    func(progress float64)
	cancelled atomic.Bool
}

// ID returns the animation's unique identifier.
func (a *Animation) ID() ID {
	return a.id
}

// Cancel stops the animation; it is removed on the next tick.
func (a *Animation) Cancel() {
	a.cancelled.Store(true)
}

// Registry manages active animations. The render layer calls Tick once per
// frame; animations loop forever until cancelled.
type Registry struct {
	mu         sync.Mutex
	animations map[ID]*Animation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		animations: make(map[ID]*Animation),
	}
}

// HasActive returns true if any animations are running.
func (r *Registry) HasActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.animations) > 0
}

// Tick advances all animations and removes cancelled ones. Returns true if
// any remain active.
func (r *Registry) Tick(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.animations {
		if a.cancelled.Load() {
			delete(r.animations, id)
			continue
		}

		elapsed := now.Sub(a.startTime)
		if elapsed >= a.duration {
			// Loop boundary: restart instantly at zero. Seamlessness
			// comes from the render buffer's identical halves, not
			// from anything this code does.
			cycles := elapsed / a.duration
			a.startTime = a.startTime.Add(cycles * a.duration)
			elapsed = now.Sub(a.startTime)
		}

		t := float64(elapsed) / float64(a.duration)
		if a.update != nil {
			a.update(t)
		}
	}

	return len(r.animations) > 0
}

func (r *Registry) add(a *Animation) {
	r.mu.Lock()
	r.animations[a.id] = a
	r.mu.Unlock()
}

// StartLoopTranslation begins the continuous strip translation for the
// given parameters: offset 0 to -CycleDistance over CycleDuration,
// restarting at 0 on each cycle boundary. apply receives the horizontal
// offset in pixels on every tick.
//
// Callers cancel the returned animation when the engine unmarks readiness
// (resize) and start a new one when fresh parameters arrive.
func StartLoopTranslation(r *Registry, p marquee.Parameters, apply func(offsetPX float64)) *Animation {
	a := &Animation{
		id:        newID(),
		startTime: time.Now(),
		duration:  time.Duration(p.CycleDuration * float64(time.Second)),
		update: func(progress float64) {
			apply(-p.CycleDistance * progress)
		},
	}
	if a.duration <= 0 {
		// Degenerate parameters never animate.
		a.cancelled.Store(true)
		return a
	}
	r.add(a)
	return a
}
