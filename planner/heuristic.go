package planner

import (
	"pacbot/distance"
	"pacbot/game"
	"pacbot/maze"
)

// sentinelAttractor is the large-negative cost that pulls the search toward
// a node that has reached its goal: hCostExtend returns it the instant
// Pacman is already on the target cell, and expandOne uses it as the fCost
// of a child that has caught its victim, so that child is popped next.
const sentinelAttractor = -1_000_000

// ghostRiskConstant (K) scales the fCost multiplier's proximity penalty;
// K>>dist decays to zero a handful of cells out.
const ghostRiskConstant = 64

// fruitBiasRadius is how close (in cells from Pacman) fruit must be before
// the heuristic prefers it over a farther pellet target.
const fruitBiasRadius = 10

const infiniteDist = 1 << 30

// hCostExtend scores how far a node still has to go. A victim in play
// dominates the distance term entirely; otherwise the nearer of the
// pellet target and (if close enough) live fruit is used. The per-step
// cost is a flat 2 for the first few steps; once the buffer holds at least
// 4 steps it is the plan's average g-cost per step, which is never below 2
// since every step costs at least stepGCost.
func hCostExtend(s *game.GameState, metric distance.Metrics, gCost, bufLen int, targetRow, targetCol int8, hasVictim bool, victim maze.GhostColor) int {
	pac := s.PacmanLoc
	distTarget := metric.Dist(pac.Row, pac.Col, targetRow, targetCol)
	if distTarget == 0 {
		return sentinelAttractor
	}

	distScared := infiniteDist
	if hasVictim {
		v := s.Ghosts[victim]
		if !v.Spawning && !v.Loc.Empty() {
			distScared = metric.Dist(pac.Row, pac.Col, v.Loc.Row, v.Loc.Col)
		}
	}

	distFruit := infiniteDist
	if s.FruitSteps > 0 {
		distFruit = metric.Dist(pac.Row, pac.Col, s.FruitLoc.Row, s.FruitLoc.Col)
	}

	var dist int
	switch {
	case distScared < infiniteDist:
		dist = distScared
	case distFruit < distTarget && distFruit <= fruitBiasRadius:
		dist = distFruit
	default:
		dist = distTarget
	}

	gCostPerStep := 2
	if bufLen >= 4 {
		gCostPerStep = gCost / bufLen
	}
	return gCostPerStep * dist
}

// fCostMultiplier penalizes proximity to dangerous (non-spawning,
// non-frightened) ghosts, and, while no ghost anywhere is frightened,
// proximity to the lair for ghosts currently spawning there.
func fCostMultiplier(s *game.GameState, metric distance.Metrics) int {
	pac := s.PacmanLoc
	mult := 1
	anyFrightened := false

	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		if s.Ghosts[c].IsFrightened() {
			anyFrightened = true
			break
		}
	}

	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		g := s.Ghosts[c]
		if g.Spawning || g.IsFrightened() || g.Loc.Empty() {
			continue
		}
		d := metric.Dist(pac.Row, pac.Col, g.Loc.Row, g.Loc.Col)
		mult += ghostRiskConstant >> uint(clampShift(d))
	}

	if !anyFrightened {
		for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
			if !s.Ghosts[c].Spawning {
				continue
			}
			d := metric.Dist(pac.Row, pac.Col, maze.LairCell.Row, maze.LairCell.Col)
			mult += ghostRiskConstant >> uint(clampShift(d))
		}
	}

	return mult
}

// clampShift keeps the shift count within int width so a very large
// distance reliably shifts ghostRiskConstant down to zero rather than
// relying on Go's unlimited-shift-count semantics for readability.
func clampShift(d int) int {
	if d > 31 {
		return 31
	}
	return d
}
