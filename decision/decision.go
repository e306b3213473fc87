// Package decision runs the decision loop: the cooperative task that,
// once per tick window, locks the game state, invokes the planner, and
// unlocks it again, carrying the planner's Context forward between calls
// (see planner.Context for which parts of it Act reads back).
package decision

import (
	"context"
	"errors"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"pacbot/game"
	"pacbot/planner"
)

// tickResolution is how often the loop wakes to check for work; the spec
// calls for roughly 5ms so the cooperative scheduler gets released often
// without busy-looping.
const tickResolution = 5 * time.Millisecond

// ErrDisconnected is returned when the arbiter connection has dropped, the
// one unrecoverable condition the loop does not absorb internally.
var ErrDisconnected = errors.New("decision: arbiter disconnected")

// Loop owns a Planner and the persisting Context it threads through every
// Act call.
type Loop struct {
	Planner        *planner.Planner
	PredictedDelay int

	ctx planner.Context
}

// NewLoop constructs a Loop around p, with an initial predicted per-step
// delay (typically the configured update period).
func NewLoop(p *planner.Planner, predictedDelay int) *Loop {
	return &Loop{Planner: p, PredictedDelay: predictedDelay}
}

// Run drives the loop until ctx is cancelled or the state reports
// disconnection. It never panics on a bad tick: a PausedMode or
// NoFrontier condition just means no action was emitted this tick, and
// the loop retries on the next one.
func (l *Loop) Run(ctx context.Context, s *game.GameState) error {
	ticks := channerics.NewTicker(ctx.Done(), tickResolution)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return ctx.Err()
			}
			if !s.Connected() {
				return ErrDisconnected
			}
			l.tick(s)
		}
	}
}

// tick runs exactly one pass of the decision loop's per-invocation rule:
// yield if paused, else lock, act, unlock.
func (l *Loop) tick(s *game.GameState) {
	if s.GameMode == game.Paused {
		return
	}
	if s.Locked() {
		return
	}

	s.Lock()
	defer s.Unlock()

	l.Planner.Act(s, l.PredictedDelay, &l.ctx)
}
