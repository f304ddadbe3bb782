package orbit

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mbalder/starheart/internal/game"
)

func viewBodies() []game.Body {
	return []game.Body{
		{ID: "sun", Kind: game.KindStationary, X: 0.5, Y: 0.5, Size: 0.08},
		{ID: "earth", Kind: game.KindOrbiting, OrbitRadius: 0.18, OrbitSpeed: 1, Size: 0.02},
		{ID: "mars", Kind: game.KindOrbiting, OrbitRadius: 0.22, OrbitSpeed: 0.8, Size: 0.016},
	}
}

func TestViewStationaryBodiesDoNotMove(t *testing.T) {
	v := NewView(viewBodies())
	for _, d := range []time.Duration{0, time.Second, time.Minute} {
		pts := v.At(d)
		if pts[0].ID != "sun" || pts[0].X != 0.5 || pts[0].Y != 0.5 {
			t.Fatalf("sun at %v: %+v, want fixed (0.5, 0.5)", d, pts[0])
		}
	}
}

func TestViewOrbitingBodiesStayOnOrbit(t *testing.T) {
	v := NewView(viewBodies())
	for _, d := range []time.Duration{0, 250 * time.Millisecond, 3 * time.Second} {
		for _, p := range v.At(d)[1:] {
			var radius float64
			switch p.ID {
			case "earth":
				radius = 0.18
			case "mars":
				radius = 0.22
			}
			dx, dy := p.X-0.5, p.Y-0.5
			if got := math.Hypot(dx, dy); math.Abs(got-radius) > 1e-9 {
				t.Fatalf("%s at %v: distance from center %f, want %f", p.ID, d, got, radius)
			}
		}
	}
}

func TestViewOrbitingBodiesAdvance(t *testing.T) {
	v := NewView(viewBodies())
	p0 := v.At(0)
	p1 := v.At(500 * time.Millisecond)
	if p0[1].X == p1[1].X && p0[1].Y == p1[1].Y {
		t.Fatal("earth did not move after half a second")
	}
}

func TestViewSpreadsInitialPhases(t *testing.T) {
	v := NewView(viewBodies())
	pts := v.At(0)
	if pts[1].X == pts[2].X && pts[1].Y == pts[2].Y {
		t.Fatal("orbiting bodies started stacked at the same angle")
	}
}

func TestViewCopiesBodies(t *testing.T) {
	bodies := viewBodies()
	v := NewView(bodies)
	bodies[0].X = 0.9
	if pts := v.At(0); pts[0].X != 0.5 {
		t.Fatal("view shares storage with caller's slice")
	}
}

func TestTickerEmitsAndStops(t *testing.T) {
	v := NewView(viewBodies())
	tk := NewTicker(v, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tk.Run(ctx)
		close(done)
	}()

	select {
	case f, ok := <-tk.Frames():
		if !ok {
			t.Fatal("frames channel closed before first frame")
		}
		if len(f.Positions) != 3 {
			t.Fatalf("frame has %d positions, want 3", len(f.Positions))
		}
	case <-time.After(time.Second):
		t.Fatal("no frame within 1s")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop after cancel")
	}
	// Channel is closed after Run returns.
	for range tk.Frames() {
	}
}
