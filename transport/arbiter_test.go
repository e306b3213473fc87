package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pacbot/game"
)

var testUpgrader = websocket.Upgrader{}

func TestArbiterClientFeedsFramesIntoState(t *testing.T) {
	frame := game.New().Serialize()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.BinaryMessage, frame[:])
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(url, true)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	s := &game.GameState{}
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		client.Run(ctx.Done(), s)
		close(done)
	}()

	<-ctx.Done()
	<-done

	if s.CurrLives != 3 {
		t.Fatalf("CurrLives = %d, want 3 from a fresh frame", s.CurrLives)
	}
}

func TestArbiterClientDropsMalformedFrame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3})
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(url, true)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	s := game.New()
	wantLoc := s.PacmanLoc
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		client.Run(ctx.Done(), s)
		close(done)
	}()

	<-ctx.Done()
	<-done

	if s.PacmanLoc != wantLoc {
		t.Fatalf("malformed frame should not have been applied: PacmanLoc changed to %+v", s.PacmanLoc)
	}
}
