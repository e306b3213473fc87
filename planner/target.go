package planner

import (
	"pacbot/distance"
	"pacbot/game"
	"pacbot/maze"
)

// pickTarget chooses the cell Pacman should head toward: the approach
// cell of a still-present super pellet while in Chase mode, or otherwise
// the nearest reachable ordinary pellet found by a BFS from Pacman (walls
// block; super pellets are never a BFS goal, per spec).
func pickTarget(s *game.GameState) (row, col int8) {
	if s.GameMode == game.Chase {
		for i, corner := range maze.SuperPelletCorners {
			if s.PelletAt(corner.Row, corner.Col) {
				approach := maze.SuperPelletApproach[i]
				return approach.Row, approach.Col
			}
		}
	}
	if r, c, ok := nearestPellet(s); ok {
		return r, c
	}
	// NoReachablePellet: keep Pacman's current cell as the target so the
	// planner still runs (for safety), per the error-handling policy.
	return s.PacmanLoc.Row, s.PacmanLoc.Col
}

// nearestPellet runs a BFS from Pacman's cell over walkable cells,
// returning the first ordinary (non-super) pellet found.
func nearestPellet(s *game.GameState) (row, col int8, ok bool) {
	type cell struct{ row, col int8 }

	start := cell{s.PacmanLoc.Row, s.PacmanLoc.Col}
	if maze.WallAt(start.row, start.col) {
		return 0, 0, false
	}

	visited := map[cell]bool{start: true}
	queue := []cell{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if s.PelletAt(cur.row, cur.col) && !s.SuperPelletAt(cur.row, cur.col) {
			return cur.row, cur.col, true
		}

		for d := maze.Up; d < maze.None; d++ {
			dr, dc := maze.Delta(d)
			next := cell{cur.row + dr, cur.col + dc}
			if maze.WallAt(next.row, next.col) || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return 0, 0, false
}

// scaryAdjacency is the fixed distance threshold a candidate victim must
// clear from every other dangerous ghost to not be rejected as "scary".
const scaryAdjacency = 2

// pickVictim chooses the closest frightened, non-spawning ghost by the
// active metric, unless it's "scary" — within scaryAdjacency of some
// other non-frightened, non-spawning ghost — in which case no victim is
// chosen at all.
func pickVictim(s *game.GameState, metric distance.Metrics) (color maze.GhostColor, ok bool) {
	best := -1
	var bestColor maze.GhostColor

	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		g := s.Ghosts[c]
		if g.Spawning || !g.IsFrightened() || g.Loc.Empty() {
			continue
		}
		d := metric.Dist(s.PacmanLoc.Row, s.PacmanLoc.Col, g.Loc.Row, g.Loc.Col)
		if best == -1 || d < best {
			best, bestColor = d, c
		}
	}
	if best == -1 {
		return 0, false
	}

	victimLoc := s.Ghosts[bestColor].Loc
	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		if c == bestColor {
			continue
		}
		g := s.Ghosts[c]
		if g.Spawning || g.IsFrightened() || g.Loc.Empty() {
			continue
		}
		if maze.WallAt(g.Loc.Row, g.Loc.Col) {
			continue
		}
		d := metric.Dist(victimLoc.Row, victimLoc.Col, g.Loc.Row, g.Loc.Col)
		if d <= scaryAdjacency {
			return 0, false
		}
	}

	return bestColor, true
}
