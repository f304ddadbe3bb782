// internal/catalog/catalog.go
//
// Body catalog management for the round engine.
//
// Responsibilities:
//   - Load a versioned YAML catalog from a configured file or fall back to
//     the embedded default (9 named solar-system bodies).
//   - Validate entries (unique IDs, known kinds, sane cosmetic attributes).
//   - Build the per-round body list, appending a configurable number of
//     decorative stationary stars with randomized placement.
//
// Catalog file shape:
//
//	version: 1
//	guess_budget: 5
//	stars: 12
//	bodies:
//	  - id: earth
//	    name: Earth
//	    kind: orbiting     # or "stationary"
//	    orbit_radius: 0.18 # orbiting only
//	    orbit_speed: 1.0   # orbiting only
//	    x: 0.5             # stationary only
//	    y: 0.5             # stationary only
//	    size: 0.02
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mbalder/starheart/assets"
	"github.com/mbalder/starheart/internal/game"
)

// File is a parsed and validated catalog.
type File struct {
	Version     int     `yaml:"version"`
	GuessBudget int     `yaml:"guess_budget"`
	Stars       int     `yaml:"stars"`
	Bodies      []Entry `yaml:"bodies"`
}

// Entry is one catalog body. Cosmetic attributes are normalized to a unit
// field, matching game.Body.
type Entry struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Kind        string  `yaml:"kind"`
	OrbitRadius float64 `yaml:"orbit_radius"`
	OrbitSpeed  float64 `yaml:"orbit_speed"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Size        float64 `yaml:"size"`
}

// starIDPrefix namespaces generated star IDs; Parse rejects catalog bodies
// that use it, so stars can never collide with configured bodies.
const starIDPrefix = "star-"

// starNames are display labels for decorative stars, brightest first.
// When a round needs more stars than there are names, labels repeat with a
// numeric suffix.
var starNames = []string{
	"Sirius", "Canopus", "Arcturus", "Vega", "Capella", "Rigel",
	"Procyon", "Achernar", "Betelgeuse", "Altair", "Aldebaran", "Antares",
	"Spica", "Pollux", "Fomalhaut", "Deneb",
}

// Load reads and validates a catalog file from disk.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(b)
}

// Default returns the embedded default catalog.
func Default() (*File, error) {
	b, err := assets.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return Parse(b)
}

// Parse unmarshals and validates catalog YAML.
func Parse(b []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("unsupported catalog version: %d", f.Version)
	}
	if len(f.Bodies) == 0 {
		return nil, errors.New("catalog has no bodies")
	}
	seen := make(map[string]struct{}, len(f.Bodies))
	for i, e := range f.Bodies {
		if e.ID == "" {
			return nil, fmt.Errorf("body %d: missing id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("duplicate body id %q", e.ID)
		}
		if strings.HasPrefix(e.ID, starIDPrefix) {
			return nil, fmt.Errorf("body %q: the %q id prefix is reserved for generated stars", e.ID, starIDPrefix)
		}
		seen[e.ID] = struct{}{}
		if e.Size <= 0 {
			return nil, fmt.Errorf("body %q: size must be positive", e.ID)
		}
		switch game.Kind(e.Kind) {
		case game.KindOrbiting:
			if e.OrbitRadius <= 0 {
				return nil, fmt.Errorf("body %q: orbiting bodies need a positive orbit_radius", e.ID)
			}
		case game.KindStationary:
			// Fixed placement; zero values put the body at the field origin,
			// which is legal.
		default:
			return nil, fmt.Errorf("body %q: unknown kind %q", e.ID, e.Kind)
		}
	}
	if f.Stars < 0 {
		return nil, fmt.Errorf("stars must not be negative: %d", f.Stars)
	}
	return &f, nil
}

// Build assembles the guessable body list for one round: every catalog body
// in file order, followed by stars decorative stationary stars placed at
// random field positions. Star placement is re-rolled per round, so rng is
// required whenever stars > 0.
func (f *File) Build(stars int, rng game.Rand) ([]game.Body, error) {
	out := make([]game.Body, 0, len(f.Bodies)+stars)
	for _, e := range f.Bodies {
		out = append(out, game.Body{
			ID:          e.ID,
			Name:        e.Name,
			Kind:        game.Kind(e.Kind),
			OrbitRadius: e.OrbitRadius,
			OrbitSpeed:  e.OrbitSpeed,
			X:           e.X,
			Y:           e.Y,
			Size:        e.Size,
		})
	}
	if stars > 0 && rng == nil {
		return nil, errors.New("random source required for star placement")
	}
	for i := 0; i < stars; i++ {
		name := starNames[i%len(starNames)]
		if i >= len(starNames) {
			name = fmt.Sprintf("%s %d", name, i/len(starNames)+1)
		}
		out = append(out, game.Body{
			ID:   fmt.Sprintf("%s%d", starIDPrefix, i+1),
			Name: name,
			Kind: game.KindStationary,
			X:    rng.Float64(),
			Y:    rng.Float64(),
			Size: 0.008,
		})
	}
	return out, nil
}
