// Package predictor chooses each ghost's next planned direction: the
// per-color chase/scatter target formulas, frightened inversion, and the
// reversal-forbidding direction enumeration every ghost obeys.
package predictor

import (
	"pacbot/game"
	"pacbot/maze"
)

// Target computes a ghost's current target cell given the game mode,
// color, and the one-step-ahead cells implied by Pacman's position and
// direction. Row/col are returned as plain ints since scatter targets and
// Cyan's construction can land outside [0,31)x[0,28).
func Target(s *game.GameState, color maze.GhostColor) (row, col int) {
	if s.GameMode == game.Scatter {
		corner := maze.ScatterCorner[color]
		return int(corner.Row), int(corner.Col)
	}
	return chaseTarget(s, color)
}

func chaseTarget(s *game.GameState, color maze.GhostColor) (row, col int) {
	pac := s.PacmanLoc
	pacRow, pacCol := int(pac.Row), int(pac.Col)
	pacDR, pacDC := int(pac.RowDir), int(pac.ColDir)

	switch color {
	case maze.Red:
		return pacRow, pacCol

	case maze.Pink:
		return pacRow + 4*pacDR, pacCol + 4*pacDC

	case maze.Cyan:
		redRow, redCol := int(s.Ghosts[maze.Red].Loc.Row), int(s.Ghosts[maze.Red].Loc.Col)
		return 2*(pacRow+2*pacDR) - redRow, 2*(pacCol+2*pacDC) - redCol

	case maze.Orange:
		orange := s.Ghosts[maze.Orange]
		dr, dc := pacRow-int(orange.Loc.Row), pacCol-int(orange.Loc.Col)
		if dr*dr+dc*dc > 64 {
			return pacRow, pacCol
		}
		corner := maze.ScatterCorner[maze.Orange]
		return int(corner.Row), int(corner.Col)

	default:
		return pacRow, pacCol
	}
}

// Plan fills in the ghost's PlannedDirection for the next update-period
// boundary. Spawning ghosts are skipped entirely: they're modeled as
// frozen during short lookahead, per the predictor's scope.
//
// Each candidate direction's one-step-ahead cell (loc + delta) is what
// gets wall-checked and compared to the target; reversal relative to the
// ghost's current direction is forbidden outright.
func Plan(s *game.GameState, color maze.GhostColor) {
	ghost := &s.Ghosts[color]
	if ghost.Spawning || ghost.Loc.Empty() {
		return
	}

	targetRow, targetCol := Target(s, color)
	frightened := ghost.IsFrightened()

	currentDir := ghost.Loc.Direction()
	forbidden := maze.Reverse(currentDir)

	best := maze.None
	bestDist := 0
	haveBest := false

	for d := maze.Up; d < maze.None; d++ {
		if d == forbidden {
			continue
		}
		dr, dc := maze.Delta(d)
		nr, nc := ghost.Loc.Row+dr, ghost.Loc.Col+dc
		if maze.WallAt(nr, nc) {
			continue
		}

		dRow := int(nr) - targetRow
		dCol := int(nc) - targetCol
		dist := dRow*dRow + dCol*dCol

		if !haveBest {
			best, bestDist, haveBest = d, dist, true
			continue
		}
		if frightened {
			if dist > bestDist {
				best, bestDist = d, dist
			}
		} else {
			if dist < bestDist {
				best, bestDist = d, dist
			}
		}
	}

	if haveBest {
		ghost.PlannedDirection = best
	}
}

// PlanAll re-plans every ghost, overwriting any direction already planned;
// the forward simulator calls it after each update-period boundary.
func PlanAll(s *game.GameState) {
	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		Plan(s, c)
	}
}
