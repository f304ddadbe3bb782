// internal/game/types.go
//
// Core type definitions for the round engine.
// Defines:
//   - Kind: how a body is drawn (orbiting a center point or fixed in place).
//   - Status: coarse round state ("playing"/"won"/"lost").
//   - Body: one celestial object in play.
//   - Round: state for a single in-progress or finished round.

package game

// Kind classifies a body's placement model. Orbiting bodies carry an orbit
// radius and angular speed; stationary bodies carry a fixed position.
// Placement is cosmetic only and never affects guess outcomes.
type Kind string

const (
	KindOrbiting   Kind = "orbiting"
	KindStationary Kind = "stationary"
)

// Status represents the coarse state of a round.
// Possible values:
//   - "playing": guesses are still being accepted.
//   - "won":     the special body was found (terminal).
//   - "lost":    the guess budget ran out (terminal).
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Terminal reports whether s accepts no further guesses.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// Body is one celestial object in a round. Coordinates and radii are
// normalized to a unit field; the renderer scales them to its viewport.
type Body struct {
	ID          string  `json:"id"`   // Unique within the round, stable for its lifetime.
	Name        string  `json:"name"` // Display label, not logically significant.
	Kind        Kind    `json:"kind"`
	OrbitRadius float64 `json:"orbitRadius,omitempty"` // Orbiting only.
	OrbitSpeed  float64 `json:"orbitSpeed,omitempty"`  // Radians per second, orbiting only.
	X           float64 `json:"x,omitempty"`           // Stationary only.
	Y           float64 `json:"y,omitempty"`           // Stationary only.
	Size        float64 `json:"size,omitempty"`        // Display radius.
}

// Round holds the state of a single play session. The special body ID is
// unexported so it cannot leak into a serialized snapshot; tests and
// terminal-state reveals go through SpecialID.
type Round struct {
	ID               string // Random hex identifier.
	Bodies           []Body // Still-guessable bodies; shrinks on wrong guesses.
	RemainingGuesses int    // Wrong guesses left before the round is lost.
	Status           Status

	specialID string
}

// SpecialID reports the winning body's ID.
func (r *Round) SpecialID() string { return r.specialID }
