// Package simulate implements the forward simulator: advancing a GameState
// by a fixed number of ticks, running the ghost predictor on update-period
// boundaries, and applying Pacman's own move, all deterministically.
package simulate

import (
	"pacbot/game"
	"pacbot/maze"
	"pacbot/predictor"
)

// SimulateAction advances s by numTicks ticks, moving Pacman in pacmanDir
// on the final tick. It returns false if, at any update-period boundary
// or after Pacman's own move, Pacman ends up on the same cell as a
// non-frightened ghost — an unsafe branch the caller (typically the A*
// planner) should discard.
//
// Determinism: called twice with an identical state and identical
// arguments, SimulateAction always produces an identical resulting state
// and an identical return value. Nothing here consults real time or
// randomness.
func SimulateAction(s *game.GameState, numTicks int, pacmanDir maze.Direction) bool {
	if !safetyCheck(s) {
		return false
	}

	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		if s.Ghosts[c].PlannedDirection == maze.None {
			predictor.Plan(s, c)
		}
	}

	for tick := 1; tick <= numTicks; tick++ {
		if !isUpdateBoundary(s.CurrTicks+uint16(tick), s.UpdatePeriod) {
			continue
		}

		for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
			ghost := &s.Ghosts[c]
			if ghost.Spawning {
				continue
			}
			ghost.Loc.Advance(ghost.PlannedDirection)
			ghost.DecrementFright()
		}

		if !safetyCheck(s) {
			return false
		}

		s.StepMode()
		predictor.PlanAll(s)
	}

	s.CurrTicks += uint16(numTicks)

	if pacmanDir == maze.None {
		return true
	}

	movePacman(s, pacmanDir)
	s.CollectFruit(s.PacmanLoc.Row, s.PacmanLoc.Col)
	s.CollectPellet(s.PacmanLoc.Row, s.PacmanLoc.Col)

	return safetyCheck(s)
}

// isUpdateBoundary reports whether tick t is a multiple of period.
func isUpdateBoundary(t uint16, period uint8) bool {
	if period == 0 {
		return false
	}
	return t%uint16(period) == 0
}

// movePacman advances Pacman one cell in dir; walls block the move.
// Location.Advance itself is wall-agnostic, so the check happens here.
func movePacman(s *game.GameState, dir maze.Direction) {
	dr, dc := maze.Delta(dir)
	nr, nc := s.PacmanLoc.Row+dr, s.PacmanLoc.Col+dc
	if maze.WallAt(nr, nc) {
		return
	}
	s.PacmanLoc.Advance(dir)
}

// safetyCheck reports whether Pacman's current cell is free of any
// non-frightened ghost. A frightened ghost sharing Pacman's cell is
// "eaten" and respawned instead of ending the rollout.
func safetyCheck(s *game.GameState) bool {
	safe := true
	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		ghost := &s.Ghosts[c]
		if ghost.Loc.Empty() || ghost.Spawning {
			continue
		}
		if !ghost.Loc.At(s.PacmanLoc.Row, s.PacmanLoc.Col) {
			continue
		}
		if ghost.IsFrightened() {
			ghost.Respawn()
			continue
		}
		safe = false
	}
	return safe
}

// DangerousGhostAt reports whether a given cell is currently occupied by a
// live, non-frightened ghost, without running a full tick.
func DangerousGhostAt(s *game.GameState, row, col int8) bool {
	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		ghost := s.Ghosts[c]
		if ghost.Spawning || ghost.IsFrightened() || ghost.Loc.Empty() {
			continue
		}
		if ghost.Loc.At(row, col) {
			return true
		}
	}
	return false
}
