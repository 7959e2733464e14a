package bloom

import (
	"math/rand/v2"
	"time"
)

// PointerState is the latest pointer interaction waiting for the next frame.
// X and Y are normalized to the viewport, with Y increasing downward.
type PointerState struct {
	X, Y           float64
	Triggered      bool
	ColorSeed      Vec3
	ClearRequested bool
}

// PointerSource turns clicks, touches and clear actions into PointerState.
//
// Interactions arriving between two frames overwrite each other: the frame
// that calls Take sees only the most recent trigger, and a trigger is handed
// out by exactly one Take.
type PointerSource struct {
	state PointerState
	rng   *rand.Rand

	clearStart    time.Time
	clearObserved bool
}

// NewPointerSource creates a source whose color seeds are drawn from rng.
// The initial state is a pending trigger at InitialPointer so the first
// active frame stamps a flower.
func NewPointerSource(rng *rand.Rand) *PointerSource {
	p := &PointerSource{rng: rng, clearObserved: true}
	p.state = PointerState{
		X:         InitialPointer.X,
		Y:         InitialPointer.Y,
		Triggered: true,
		ColorSeed: p.randomSeed(),
	}
	return p
}

func (p *PointerSource) randomSeed() Vec3 {
	return Vec3{p.rng.Float64(), p.rng.Float64(), p.rng.Float64()}
}

// Trigger records a primary pointer interaction at page pixel (px, py) in a
// viewport of viewW x viewH pixels. A fresh color seed is drawn on every call.
// Calls with an empty viewport are ignored.
func (p *PointerSource) Trigger(px, py, viewW, viewH float64) {
	if viewW <= 0 || viewH <= 0 {
		return
	}
	p.state.X = clamp01(px / viewW)
	p.state.Y = clamp01(py / viewH)
	p.state.Triggered = true
	p.state.ColorSeed = p.randomSeed()
}

// Clear starts a clear pulse at now. The pulse lasts ClearPulse, and is held
// past that until at least one frame has observed it. A second Clear
// restarts the pulse.
func (p *PointerSource) Clear(now time.Time) {
	p.clearStart = now
	p.clearObserved = false
	p.state.ClearRequested = true
}

// ClearActive reports whether the clear pulse is on at now. It also keeps
// State().ClearRequested in step with the pulse.
func (p *PointerSource) ClearActive(now time.Time) bool {
	if !p.state.ClearRequested {
		return false
	}
	if !p.clearObserved || now.Sub(p.clearStart) < ClearPulse {
		return true
	}
	p.state.ClearRequested = false
	return false
}

// Take returns the pending state for the frame at now and consumes the
// trigger. The clear pulse is marked observed but stays on until it expires.
func (p *PointerSource) Take(now time.Time) PointerState {
	p.state.ClearRequested = p.ClearActive(now)
	s := p.state
	if s.ClearRequested {
		p.clearObserved = true
	}
	p.state.Triggered = false
	return s
}

// State returns the pending state without consuming it.
func (p *PointerSource) State() PointerState {
	return p.state
}
