// internal/orbit/orbit.go
//
// Cosmetic animation for the body field. A View is a read-only copy of body
// placement attributes; a Ticker advances elapsed time on a cancellable
// periodic task and emits position frames for the renderer. Neither type
// holds a reference to round state, so the animation path has no way to
// mutate game outcomes.

package orbit

import (
	"context"
	"math"
	"time"

	"github.com/mbalder/starheart/internal/game"
)

// DefaultInterval is the frame period used when none is configured.
const DefaultInterval = 50 * time.Millisecond

// Orbits are centered on the middle of the unit field.
const (
	centerX = 0.5
	centerY = 0.5
)

// Point is one body's rendered position.
type Point struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Frame is the positions of all viewed bodies at one instant.
type Frame struct {
	ElapsedMs int64   `json:"elapsedMs"`
	Positions []Point `json:"positions"`
}

// View is an immutable snapshot of body cosmetics taken at construction.
// Orbiting bodies get an initial phase spread around the circle so they do
// not start stacked on one axis.
type View struct {
	bodies []game.Body
	phase  map[string]float64
}

// NewView copies the given bodies into a read-only view.
func NewView(bodies []game.Body) *View {
	v := &View{
		bodies: make([]game.Body, len(bodies)),
		phase:  make(map[string]float64),
	}
	copy(v.bodies, bodies)

	orbiting := 0
	for _, b := range v.bodies {
		if b.Kind == game.KindOrbiting {
			orbiting++
		}
	}
	i := 0
	for _, b := range v.bodies {
		if b.Kind == game.KindOrbiting {
			v.phase[b.ID] = 2 * math.Pi * float64(i) / float64(orbiting)
			i++
		}
	}
	return v
}

// At computes every viewed body's position after the given elapsed time.
func (v *View) At(elapsed time.Duration) []Point {
	secs := elapsed.Seconds()
	out := make([]Point, 0, len(v.bodies))
	for _, b := range v.bodies {
		switch b.Kind {
		case game.KindOrbiting:
			angle := v.phase[b.ID] + b.OrbitSpeed*secs
			out = append(out, Point{
				ID: b.ID,
				X:  centerX + b.OrbitRadius*math.Cos(angle),
				Y:  centerY + b.OrbitRadius*math.Sin(angle),
			})
		default:
			out = append(out, Point{ID: b.ID, X: b.X, Y: b.Y})
		}
	}
	return out
}

// Ticker emits frames from a View on a fixed interval until its context is
// cancelled.
type Ticker struct {
	view     *View
	interval time.Duration
	frames   chan Frame
}

// NewTicker constructs a Ticker over the given view. A zero interval uses
// DefaultInterval.
func NewTicker(v *View, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{view: v, interval: interval, frames: make(chan Frame, 1)}
}

// Frames is the stream of emitted frames. It is closed when Run returns.
func (t *Ticker) Frames() <-chan Frame { return t.frames }

// Run produces frames until ctx is cancelled. A slow receiver drops frames
// rather than stalling the ticker; animation frames are disposable.
func (t *Ticker) Run(ctx context.Context) {
	defer close(t.frames)
	start := time.Now()
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tk.C:
			elapsed := now.Sub(start)
			f := Frame{ElapsedMs: elapsed.Milliseconds(), Positions: t.view.At(elapsed)}
			select {
			case t.frames <- f:
			default:
			}
		}
	}
}
