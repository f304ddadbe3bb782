// internal/httpserver/ws.go
//
// WebSocket stream for the renderer: GET /round/{id}/watch pushes orbit
// animation frames plus the coarse round state at a fixed interval. The
// stream is strictly one-way and read-only; taps still arrive over the
// POST /round/{id}/guess endpoint, so the animation path cannot mutate
// game state.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mbalder/starheart/internal/game"
	"github.com/mbalder/starheart/internal/orbit"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The watch stream is public and read-only.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// watchMsg is one frame on the watch stream.
type watchMsg struct {
	Type             string        `json:"type"` // always "frame"
	Status           game.Status   `json:"status"`
	RemainingGuesses int           `json:"remainingGuesses"`
	ElapsedMs        int64         `json:"elapsedMs"`
	Positions        []orbit.Point `json:"positions"`
}

// handleWatch upgrades the connection and streams animation frames until
// the client disconnects or the round disappears. The orbit view is built
// from the round's full body cosmetics at connect time; per frame, bodies
// no longer guessable are filtered out.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rd, err := s.currentRound(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("roundId", id).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	s.mu.RLock()
	view := orbit.NewView(rd.Bodies)
	s.mu.RUnlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := orbit.NewTicker(view, s.tick)
	go ticker.Run(ctx)

	// Reader goroutine - handles pongs and close messages
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return

		case f, ok := <-ticker.Frames():
			if !ok {
				return
			}
			cur, err := s.currentRound(ctx, id)
			if err != nil {
				return
			}
			s.mu.RLock()
			msg := watchMsg{
				Type:             "frame",
				Status:           cur.Status,
				RemainingGuesses: cur.RemainingGuesses,
				ElapsedMs:        f.ElapsedMs,
				Positions:        filterPositions(f.Positions, cur.Bodies),
			}
			s.mu.RUnlock()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("roundId", id).Msg("ws write failed")
				return
			}

		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// filterPositions keeps only positions for bodies still in the round.
func filterPositions(pts []orbit.Point, bodies []game.Body) []orbit.Point {
	alive := make(map[string]struct{}, len(bodies))
	for _, b := range bodies {
		alive[b.ID] = struct{}{}
	}
	out := make([]orbit.Point, 0, len(bodies))
	for _, p := range pts {
		if _, ok := alive[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}
