// Package planner implements the A* search over simulated rollouts that
// picks Pacman's next action: frontier management, target/victim
// selection, the heuristic and fCost multiplier, node expansion, and the
// termination/emission rules.
package planner

import (
	"pacbot/distance"
	"pacbot/game"
	"pacbot/maze"
	"pacbot/simulate"
	"pacbot/snapshot"
)

// Turn and evade penalty weights, per the expansion rule.
const (
	turnGCostWeight  = 2
	evadeGCostWeight = 5
	turnLagTicks     = 2

	stepGCost          = 2
	noProgressGCost    = 4
	victimBufLenFloor  = 4
	regularBufLenFloor = maxBufLen
)

// Context carries the planner's preferences across decision ticks: the
// ghost it's currently chasing (if any), which Act keeps while that ghost
// stays frightened, live and out of the lair, and the pellet cell chosen
// on the last call. Act records PelletTarget but recomputes the target on
// every call; it does not read the stored value back.
type Context struct {
	HasVictim    bool
	Victim       maze.GhostColor
	PelletTarget maze.Cell
}

// Planner runs A* against a chosen distance metric, captured once at
// construction and reused for every Act call (a function value field, not
// virtual dispatch, per the project's distance-metric dispatch design).
type Planner struct {
	metric distance.Metrics
}

// New builds a Planner using the given distance metric.
func New(metric distance.Metric) *Planner {
	return &Planner{metric: distance.Select(metric)}
}

// Act runs one A* search from s's current state and returns the next
// outbound action, if any. predictedDelay is the caller's current
// estimate of ticks per decision step, used as the base simulation length
// for each expansion. ctx is read and updated in place so the caller can
// pass it straight into the next Act call.
func (p *Planner) Act(s *game.GameState, predictedDelay int, ctx *Context) (game.Action, bool) {
	scratch := game.New()
	snapshot.Restore(scratch, snapshot.Compress(s))

	targetRow, targetCol := pickTarget(scratch)
	if victim, ok := pickVictim(scratch, p.metric); ok {
		ctx.HasVictim, ctx.Victim = true, victim
	} else if ctx.HasVictim {
		if v := scratch.Ghosts[ctx.Victim]; v.Spawning || !v.IsFrightened() || v.Loc.Empty() {
			ctx.HasVictim = false
		}
	}
	ctx.PelletTarget = maze.Cell{Row: targetRow, Col: targetCol}

	root := &node{
		snap:       snapshot.Compress(scratch),
		currentDir: scratch.PacmanLoc.Direction(),
		targetRow:  targetRow,
		targetCol:  targetCol,
		hasVictim:  ctx.HasVictim,
		victim:     ctx.Victim,
	}
	root.fCost = hCostExtend(scratch, p.metric, root.gCost, root.bufLen, targetRow, targetCol, root.hasVictim, root.victim) +
		root.gCost

	front := newFrontier()
	front.pushNode(root)

	var best *node
	for front.Len() > 0 {
		n := front.popNode()
		if best == nil || n.fCost < best.fCost {
			best = n
		}

		floor := regularBufLenFloor
		if n.hasVictim {
			floor = victimBufLenFloor
		}
		if n.bufLen >= floor {
			return emit(s, n), true
		}
		if n.victimCaught {
			return emit(s, n), true
		}
		if n.targetCaught && !n.hasVictim {
			return emit(s, n), true
		}

		p.expand(scratch, n, predictedDelay, front)
	}

	if best != nil && best.bufLen > 0 {
		return emit(s, best), true
	}
	return game.Action{}, false
}

// expand pushes up to five child nodes (four directions, plus None when
// no victim is being chased) onto front.
func (p *Planner) expand(scratch *game.GameState, n *node, predictedDelay int, front *frontier) {
	directions := []maze.Direction{maze.Up, maze.Left, maze.Down, maze.Right}
	if !n.hasVictim {
		directions = append(directions, maze.None)
	}

	for _, dir := range directions {
		child, ok := p.expandOne(scratch, n, dir, predictedDelay)
		if !ok {
			continue
		}
		front.pushNode(child)
	}
}

func (p *Planner) expandOne(scratch *game.GameState, n *node, dir maze.Direction, predictedDelay int) (*node, bool) {
	snapshot.Restore(scratch, n.snap)

	if dir != maze.None {
		dr, dc := maze.Delta(dir)
		if maze.WallAt(scratch.PacmanLoc.Row+dr, scratch.PacmanLoc.Col+dc) {
			return nil, false
		}
	}

	turning := dir != maze.None && dir != n.currentDir && n.currentDir != maze.None
	turnLag := 0
	if turning {
		turnLag = turnLagTicks
	}

	evading := false
	if n.hasVictim {
		v := scratch.Ghosts[n.victim]
		if !v.Loc.Empty() {
			before := p.metric.Dist(scratch.PacmanLoc.Row, scratch.PacmanLoc.Col, v.Loc.Row, v.Loc.Col)
			dr, dc := maze.Delta(dir)
			afterRow, afterCol := scratch.PacmanLoc.Row+dr, scratch.PacmanLoc.Col+dc
			after := p.metric.Dist(afterRow, afterCol, v.Loc.Row, v.Loc.Col)
			evading = after > before
		}
	}

	pelletsBefore := scratch.NumPellets()
	var victimWasLive bool
	if n.hasVictim {
		v := scratch.Ghosts[n.victim]
		victimWasLive = !v.Spawning && !v.Loc.Empty()
	}

	safe := simulate.SimulateAction(scratch, predictedDelay+turnLag, dir)
	if !safe {
		return nil, false
	}

	victimCaught := false
	if n.hasVictim && victimWasLive {
		v := scratch.Ghosts[n.victim]
		if v.Spawning || v.Loc.Empty() {
			victimCaught = true
		}
	}

	targetRow, targetCol := pickTarget(scratch)
	targetCaught := scratch.PacmanLoc.At(n.targetRow, n.targetCol)

	child := n.child()
	child.push(dir, predictedDelay+turnLag)
	child.snap = snapshot.Compress(scratch)
	child.currentDir = dir
	child.targetRow, child.targetCol = targetRow, targetCol
	child.victimCaught = victimCaught
	child.targetCaught = targetCaught

	hasVictim, victim := n.hasVictim, n.victim
	if victimCaught {
		hasVictim = false
	} else if v, ok := pickVictim(scratch, p.metric); ok {
		hasVictim, victim = true, v
	}
	child.hasVictim, child.victim = hasVictim, victim

	ateNothing := scratch.NumPellets() == pelletsBefore
	gDelta := stepGCost
	if ateNothing && !n.hasVictim {
		gDelta += noProgressGCost
	}
	if turning {
		gDelta += turnGCostWeight
	}
	if evading {
		gDelta += evadeGCostWeight
	}
	child.gCost = n.gCost + gDelta

	h := hCostExtend(scratch, p.metric, child.gCost, child.bufLen, targetRow, targetCol, child.hasVictim, child.victim)
	mult := fCostMultiplier(scratch, p.metric)
	child.fCost = (h + child.gCost) * mult
	if victimCaught {
		child.fCost = sentinelAttractor
	}

	return child, true
}

// emit coalesces n's direction buffer into a single action and enqueues
// it on s's outbound queue, using the node's first delay as the wait.
func emit(s *game.GameState, n *node) game.Action {
	if n.bufLen == 0 {
		a := game.Action{Direction: maze.None}
		s.Enqueue(a)
		return a
	}

	dir := n.dirs[0]
	distanceTraveled := uint8(1)
	for i := 1; i < n.bufLen && n.dirs[i] == dir; i++ {
		distanceTraveled++
	}

	a := game.Action{
		Direction: dir,
		Distance:  distanceTraveled,
		TargetRow: n.targetRow,
		TargetCol: n.targetCol,
		WaitTicks: uint8(n.delays[0]),
	}
	s.Enqueue(a)
	return a
}
