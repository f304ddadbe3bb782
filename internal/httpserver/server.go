// internal/httpserver/server.go
//
// HTTP wiring for the hidden-heart game service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Round endpoints: POST /round/new, GET /round/{id},
//     POST /round/{id}/guess, POST /round/{id}/reset, GET /round/{id}/watch.
//   - Translating engine outcomes into renderer snapshots and modal text.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so a browser renderer on
//     another port can talk to the service during development.
//   - Contract violations from the renderer (taps on unknown bodies, taps
//     after a decision) are logged and answered with an unchanged snapshot,
//     never an error page; the engine guarantees they are no-ops.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/mbalder/starheart/internal/catalog"
	"github.com/mbalder/starheart/internal/game"
	"github.com/mbalder/starheart/internal/store"
)

// Modal copy pushed to the renderer on terminal rounds. Both actions map to
// POST /round/{id}/reset.
const (
	msgWon     = "Victory! You found the missing heart!"
	msgLost    = "You'll do better next time."
	actionWon  = "Play Again"
	actionLost = "Try Again"
)

// Options configures a Server.
type Options struct {
	Catalog     *catalog.File // required
	GuessBudget int           // 0 → catalog value, then engine default
	Stars       int           // decorative stars per round; -1 → catalog value
	Tick        time.Duration // watch-stream frame interval; 0 → orbit default
	Rand        game.Rand     // nil → time-seeded source
}

// Server bundles router, round store, and round-building configuration.
type Server struct {
	r     *chi.Mux
	store store.Store

	cat    *catalog.File
	budget int
	stars  int
	tick   time.Duration

	// mu serializes round mutations (and guards rng, which is not
	// concurrency-safe). Reads of round state take the read lock.
	mu  sync.RWMutex
	rng game.Rand
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	budget := opts.GuessBudget
	if budget == 0 {
		budget = opts.Catalog.GuessBudget
	}
	stars := opts.Stars
	if stars < 0 {
		stars = opts.Catalog.Stars
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		cat:    opts.Catalog,
		budget: budget,
		stars:  stars,
		tick:   opts.Tick,
		rng:    rng,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"starheart","endpoints":["/health","POST /round/new","GET /round/{id}","POST /round/{id}/guess","POST /round/{id}/reset","GET /round/{id}/watch"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// --- rounds ---
	s.r.Post("/round/new", s.handleNewRound)
	s.r.Route("/round/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetRound)
		r.Post("/guess", s.handleGuess)
		r.Post("/reset", s.handleReset)
		r.Get("/watch", s.handleWatch)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ rounds -------------------------------------

// roundRes is the public round snapshot. The special body ID is never part
// of it; the engine keeps that field unexported.
type roundRes struct {
	RoundID          string      `json:"roundId"`
	Status           game.Status `json:"status"`
	RemainingGuesses int         `json:"remainingGuesses"`
	Bodies           []game.Body `json:"bodies"`
	Message          string      `json:"message,omitempty"` // modal text on terminal rounds
	Action           string      `json:"action,omitempty"`  // modal button label
	Warning          string      `json:"warning,omitempty"` // contract violations, round unchanged
}

// snapshot renders a round for the renderer. Callers must hold at least the
// read lock.
func snapshot(r *game.Round) roundRes {
	res := roundRes{
		RoundID:          r.ID,
		Status:           r.Status,
		RemainingGuesses: r.RemainingGuesses,
		Bodies:           append([]game.Body{}, r.Bodies...),
	}
	switch r.Status {
	case game.StatusWon:
		res.Message, res.Action = msgWon, actionWon
	case game.StatusLost:
		res.Message, res.Action = msgLost, actionLost
	}
	return res
}

// roundConfig rolls a fresh body list (star placement is re-randomized per
// round). Callers must hold the write lock, which also guards rng.
func (s *Server) roundConfig() (game.Config, error) {
	bodies, err := s.cat.Build(s.stars, s.rng)
	if err != nil {
		return game.Config{}, err
	}
	return game.Config{Bodies: bodies, GuessBudget: s.budget}, nil
}

// handleNewRound creates a round and returns its first snapshot.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cfg, err := s.roundConfig()
	if err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Msg("build round config")
		http.Error(w, `{"error":"bad_catalog"}`, http.StatusInternalServerError)
		return
	}
	rd, err := game.New(cfg, s.rng)
	if err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Msg("new round")
		http.Error(w, `{"error":"bad_catalog"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(r.Context(), rd); err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Msg("save round")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	res := snapshot(rd)
	s.mu.Unlock()

	log.Info().Str("roundId", rd.ID).Int("bodies", len(res.Bodies)).Msg("round started")
	_ = json.NewEncoder(w).Encode(res)
}

// handleGetRound returns the current snapshot.
func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	s.mu.RLock()
	res := snapshot(rd)
	s.mu.RUnlock()
	_ = json.NewEncoder(w).Encode(res)
}

// guessReq is the payload for POST /round/{id}/guess.
type guessReq struct {
	BodyID string `json:"bodyId"`
}

// handleGuess applies one tap to a round. Engine refusals (unknown body,
// round already decided) come back as warnings on an unchanged snapshot so
// a late or buggy renderer never sees a crash.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	// Fetch under the write lock: a round loaded outside it could be
	// replaced by a concurrent reset, and mutating the stale value would
	// silently undo the replacement.
	s.mu.Lock()
	rd, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.mu.Unlock()
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	st, err := rd.Guess(req.BodyID)
	if err == nil {
		// Best effort: the memory store shares the pointer, but other
		// backends need the updated state written back.
		if serr := s.store.Save(r.Context(), rd); serr != nil {
			log.Warn().Err(serr).Str("roundId", rd.ID).Msg("save round after guess")
		}
	}
	res := snapshot(rd)
	s.mu.Unlock()

	switch {
	case errors.Is(err, game.ErrUnknownBody):
		log.Warn().Str("roundId", rd.ID).Str("bodyId", req.BodyID).Msg("guess for unknown body ignored")
		res.Warning = "unknown_body"
	case errors.Is(err, game.ErrRoundFinished):
		log.Warn().Str("roundId", rd.ID).Str("bodyId", req.BodyID).Msg("guess after decision ignored")
		res.Warning = "round_finished"
	case err != nil:
		log.Error().Err(err).Str("roundId", rd.ID).Msg("guess")
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	default:
		log.Info().Str("roundId", rd.ID).Str("bodyId", req.BodyID).Str("status", string(st)).Msg("guess applied")
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleReset replaces the round wholesale: full catalog, full budget,
// fresh special body, fresh star placement. The round ID survives so the
// renderer keeps its routing key.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	// Same locking discipline as handleGuess: fetch and replace atomically.
	s.mu.Lock()
	rd, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.mu.Unlock()
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	cfg, err := s.roundConfig()
	if err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Msg("build round config")
		http.Error(w, `{"error":"bad_catalog"}`, http.StatusInternalServerError)
		return
	}
	next, err := rd.Reset(cfg, s.rng)
	if err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Str("roundId", rd.ID).Msg("reset round")
		http.Error(w, `{"error":"reset_failed"}`, http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(r.Context(), next); err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Msg("save round")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	res := snapshot(next)
	s.mu.Unlock()

	log.Info().Str("roundId", next.ID).Msg("round reset")
	_ = json.NewEncoder(w).Encode(res)
}

// loadRound fetches the round named in the URL, answering 404 itself when
// it is missing.
func (s *Server) loadRound(w http.ResponseWriter, r *http.Request) (*game.Round, bool) {
	id := chi.URLParam(r, "id")
	rd, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return rd, true
}

// currentRound re-reads a round by ID for the watch stream; unlike
// loadRound it does not write a response.
func (s *Server) currentRound(ctx context.Context, id string) (*game.Round, error) {
	return s.store.Get(ctx, id)
}
