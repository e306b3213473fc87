package decision

import (
	"context"
	"testing"
	"time"

	"pacbot/distance"
	"pacbot/game"
	"pacbot/geo"
	"pacbot/planner"
)

func TestTickSkipsWhilePaused(t *testing.T) {
	s := game.New()
	s.GameMode = game.Paused
	l := NewLoop(planner.New(distance.Manhattan), 4)
	l.tick(s)
	if s.Locked() {
		t.Fatal("a paused tick should never leave the state locked")
	}
}

func TestTickSkipsWhileLocked(t *testing.T) {
	s := game.New()
	s.GameMode = game.Chase
	s.Lock()
	l := NewLoop(planner.New(distance.Manhattan), 4)
	l.tick(s)
	if s.OutboundLen() != 0 {
		t.Fatal("a tick observing an externally locked state should not act")
	}
}

func TestRunExitsOnDisconnect(t *testing.T) {
	s := game.New()
	s.GameMode = game.Chase
	s.PacmanLoc = geo.Location{Row: 1, Col: 1}
	s.SetConnected(false)

	l := NewLoop(planner.New(distance.Manhattan), 4)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := l.Run(ctx, s)
	if err != ErrDisconnected {
		t.Fatalf("Run() = %v, want ErrDisconnected", err)
	}
}

func TestRunExitsOnContextCancel(t *testing.T) {
	s := game.New()
	s.SetConnected(true)
	s.GameMode = game.Paused

	l := NewLoop(planner.New(distance.Manhattan), 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Run(ctx, s)
	if err == nil {
		t.Fatal("Run() should return a non-nil error on cancellation")
	}
}
