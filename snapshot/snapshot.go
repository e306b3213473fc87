// Package snapshot implements the cheap compress/restore pair the A*
// planner uses in place of cloning GameState's object graph: a Snapshot is
// just the 152-byte wire frame plus the four ghosts' planned directions,
// which Serialize/Update alone don't carry since plannedDirection has no
// slot on the wire.
package snapshot

import (
	"pacbot/game"
	"pacbot/maze"
)

// Snapshot is a value-typed compressed copy of a GameState, cheap to hold
// by value in an A* frontier node.
type Snapshot struct {
	bytes [game.FrameSize]byte
	plans [maze.NumGhosts]maze.Direction
}

// Compress captures s's current wire frame and ghost plans.
func Compress(s *game.GameState) Snapshot {
	var snap Snapshot
	snap.bytes = s.Serialize()
	for i := range s.Ghosts {
		snap.plans[i] = s.Ghosts[i].PlannedDirection
	}
	return snap
}

// Restore overwrites s from snap, bypassing the lock (it uses an override
// Update, so it works whether or not s is locked) and copying the ghost
// plans back since they don't round-trip through Serialize/Update.
func Restore(s *game.GameState, snap Snapshot) {
	_ = s.Update(snap.bytes[:], true)
	for i := range s.Ghosts {
		s.Ghosts[i].PlannedDirection = snap.plans[i]
	}
}
