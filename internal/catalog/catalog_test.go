package catalog

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/mbalder/starheart/internal/game"
)

func TestDefaultCatalog(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("embedded catalog failed to parse: %v", err)
	}
	if len(f.Bodies) != 9 {
		t.Fatalf("default catalog has %d bodies, want 9", len(f.Bodies))
	}
	if f.GuessBudget != 5 {
		t.Fatalf("default guess budget = %d, want 5", f.GuessBudget)
	}
	if f.Stars != 12 {
		t.Fatalf("default stars = %d, want 12", f.Stars)
	}
	if f.Bodies[0].ID != "sun" || game.Kind(f.Bodies[0].Kind) != game.KindStationary {
		t.Fatalf("first body = %+v, want stationary sun", f.Bodies[0])
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			"bad version",
			"version: 2\nbodies:\n  - {id: a, name: A, kind: stationary, size: 0.1}\n",
			"unsupported catalog version",
		},
		{
			"no bodies",
			"version: 1\nbodies: []\n",
			"no bodies",
		},
		{
			"duplicate ids",
			"version: 1\nbodies:\n" +
				"  - {id: a, name: A, kind: stationary, size: 0.1}\n" +
				"  - {id: a, name: B, kind: stationary, size: 0.1}\n",
			"duplicate body id",
		},
		{
			"unknown kind",
			"version: 1\nbodies:\n  - {id: a, name: A, kind: comet, size: 0.1}\n",
			"unknown kind",
		},
		{
			"orbiting without radius",
			"version: 1\nbodies:\n  - {id: a, name: A, kind: orbiting, size: 0.1}\n",
			"orbit_radius",
		},
		{
			"zero size",
			"version: 1\nbodies:\n  - {id: a, name: A, kind: stationary}\n",
			"size",
		},
		{
			"reserved star id prefix",
			"version: 1\nbodies:\n  - {id: star-1, name: A, kind: stationary, size: 0.1}\n",
			"reserved",
		},
		{
			"negative stars",
			"version: 1\nstars: -3\nbodies:\n  - {id: a, name: A, kind: stationary, size: 0.1}\n",
			"stars",
		},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.yaml))
		if err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: err = %v, want mention of %q", tc.name, err, tc.want)
		}
	}
}

func TestBuildAppendsStars(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	bodies, err := f.Build(20, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 29 {
		t.Fatalf("built %d bodies, want 9 catalog + 20 stars", len(bodies))
	}
	seen := map[string]struct{}{}
	for _, b := range bodies {
		if _, dup := seen[b.ID]; dup {
			t.Fatalf("duplicate body id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	for _, b := range bodies[9:] {
		if b.Kind != game.KindStationary {
			t.Fatalf("star %q has kind %q, want stationary", b.ID, b.Kind)
		}
		if b.X < 0 || b.X >= 1 || b.Y < 0 || b.Y >= 1 {
			t.Fatalf("star %q placed outside the unit field: (%f, %f)", b.ID, b.X, b.Y)
		}
	}
	// 17th+ star labels get a numeric suffix instead of colliding.
	if bodies[9+16].Name == bodies[9].Name {
		t.Fatalf("star label %q repeated without suffix", bodies[9+16].Name)
	}
}

func TestBuildWithoutStarsNeedsNoRand(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	bodies, err := f.Build(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 9 {
		t.Fatalf("built %d bodies, want 9", len(bodies))
	}
}

func TestBuildFeedsEngine(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(42))
	bodies, err := f.Build(f.Stars, rng)
	if err != nil {
		t.Fatal(err)
	}
	r, err := game.New(game.Config{Bodies: bodies, GuessBudget: f.GuessBudget}, rng)
	if err != nil {
		t.Fatalf("engine rejected built catalog: %v", err)
	}
	if len(r.Bodies) != 21 {
		t.Fatalf("round has %d bodies, want 21", len(r.Bodies))
	}
}
