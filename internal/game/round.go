// internal/game/round.go
//
// Core engine for a single round of the hidden-heart game.
// Responsibilities:
//   - Create new rounds from a body catalog and a guess budget.
//   - Select the special (winning) body uniformly at random.
//   - Validate and apply guesses, tracking state transitions:
//     playing → won/lost.
//   - Replace finished rounds wholesale on reset.
//
// Notes:
//   - The body catalog is provided by the catalog package.
//   - The random source is injectable so tests can force outcomes.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand"
	"time"
)

// DefaultGuessBudget is the number of wrong guesses allowed per round when
// no budget is configured.
const DefaultGuessBudget = 5

var (
	// ErrEmptyCatalog is returned when a round is started with no bodies.
	// Selecting a special body from zero candidates is undefined, so the
	// configuration is rejected up front.
	ErrEmptyCatalog = errors.New("empty body catalog")

	// ErrRoundFinished is returned for guesses delivered after the round
	// reached a terminal state. The round is left untouched.
	ErrRoundFinished = errors.New("round finished")

	// ErrUnknownBody is returned for guesses naming a body that is not in
	// the current guessable set. The round is left untouched; the caller is
	// expected to log the contract violation.
	ErrUnknownBody = errors.New("unknown body")
)

// Rand is the source of randomness used for special-body selection and
// cosmetic placement. *math/rand.Rand satisfies it; tests substitute a
// fixed source to force deterministic rounds.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Config describes everything needed to build one round.
type Config struct {
	Bodies      []Body // Initial guessable set, in display order.
	GuessBudget int    // Wrong guesses allowed; defaults to DefaultGuessBudget when 0.
}

// New constructs a fresh round: copies the configured bodies, picks the
// special body uniformly at random over the full set, and restores the full
// guess budget. A nil rng falls back to a time-seeded source.
func New(cfg Config, rng Rand) (*Round, error) {
	if len(cfg.Bodies) == 0 {
		return nil, ErrEmptyCatalog
	}
	budget := cfg.GuessBudget
	if budget == 0 {
		budget = DefaultGuessBudget
	}
	if budget < 0 {
		return nil, fmt.Errorf("invalid guess budget: %d", budget)
	}
	seen := make(map[string]struct{}, len(cfg.Bodies))
	for _, b := range cfg.Bodies {
		if b.ID == "" {
			return nil, errors.New("body with empty id")
		}
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("duplicate body id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	if rng == nil {
		rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}

	bodies := make([]Body, len(cfg.Bodies))
	copy(bodies, cfg.Bodies)

	return &Round{
		ID:               randomID(),
		Bodies:           bodies,
		RemainingGuesses: budget,
		Status:           StatusPlaying,
		specialID:        bodies[rng.Intn(len(bodies))].ID,
	}, nil
}

// Guess applies one tap to the round, mutating its state.
// Returns the resulting status, or an error when the guess cannot be
// applied — in which case the round is guaranteed unchanged.
//
// State transitions:
//   - bodyID is the special body → won (terminal); bodies and the remaining
//     guess count are left as they were.
//   - Otherwise the body is removed and the guess count decremented; at
//     zero the round is lost, else it stays playing.
func (r *Round) Guess(bodyID string) (Status, error) {
	if r.Status.Terminal() {
		return r.Status, ErrRoundFinished
	}
	idx := -1
	for i := range r.Bodies {
		if r.Bodies[i].ID == bodyID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r.Status, ErrUnknownBody
	}

	if bodyID == r.specialID {
		r.Status = StatusWon
		return r.Status, nil
	}

	r.Bodies = append(r.Bodies[:idx], r.Bodies[idx+1:]...)
	r.RemainingGuesses--
	if r.RemainingGuesses <= 0 {
		r.Status = StatusLost
	}
	return r.Status, nil
}

// Reset builds a replacement round under the same ID: full body set, full
// guess budget, freshly randomized special body. Nothing from the old round
// is carried over; the value is replaced, never repaired in place.
func (r *Round) Reset(cfg Config, rng Rand) (*Round, error) {
	next, err := New(cfg, rng)
	if err != nil {
		return nil, err
	}
	next.ID = r.ID
	return next, nil
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
