package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mbalder/starheart/internal/game"
	"github.com/mbalder/starheart/internal/store"
)

func TestWatchStreamsFrames(t *testing.T) {
	s := New(store.NewMemoryStore(), Options{
		Catalog: testCatalog(),
		Rand:    fixedRand{0},
		Tick:    5 * time.Millisecond,
	})
	_, created := do(t, s, http.MethodPost, "/round/new", nil)

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/round/" + created.RoundID + "/watch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg watchMsg
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if msg.Type != "frame" {
		t.Fatalf("message type = %q, want frame", msg.Type)
	}
	if msg.Status != game.StatusPlaying || msg.RemainingGuesses != 2 {
		t.Fatalf("frame state: status=%q remaining=%d, want playing/2", msg.Status, msg.RemainingGuesses)
	}
	if len(msg.Positions) != 3 {
		t.Fatalf("frame has %d positions, want 3", len(msg.Positions))
	}
}

func TestWatchDropsGuessedBodies(t *testing.T) {
	s := New(store.NewMemoryStore(), Options{
		Catalog: testCatalog(),
		Rand:    fixedRand{1}, // special = "b"
		Tick:    5 * time.Millisecond,
	})
	_, created := do(t, s, http.MethodPost, "/round/new", nil)
	do(t, s, http.MethodPost, "/round/"+created.RoundID+"/guess", guessReq{BodyID: "a"})

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/round/" + created.RoundID + "/watch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg watchMsg
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	for _, p := range msg.Positions {
		if p.ID == "a" {
			t.Fatal("guessed body still present in frame")
		}
	}
	if len(msg.Positions) != 2 {
		t.Fatalf("frame has %d positions, want 2", len(msg.Positions))
	}
}

func TestWatchMissingRound(t *testing.T) {
	s := testServer(t, fixedRand{0})
	rec, _ := do(t, s, http.MethodGet, "/round/nope/watch", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
