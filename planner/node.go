package planner

import (
	"container/heap"

	"pacbot/maze"
	"pacbot/snapshot"
)

// maxBufLen bounds a node's direction/delay buffer at the longest plan the
// termination rule will ever accept (bufLength >= 14).
const maxBufLen = 14

// node is one partial plan on the A* frontier: a restorable snapshot of
// the world at this point in the rollout, its cost accounting, the
// directions taken to get here, and the victim/target bookkeeping the
// termination rule consults.
type node struct {
	snap snapshot.Snapshot

	fCost int
	gCost int

	dirs   [maxBufLen]maze.Direction
	delays [maxBufLen]int
	bufLen int

	currentDir maze.Direction

	targetRow, targetCol int8

	hasVictim bool
	victim    maze.GhostColor

	victimCaught bool
	targetCaught bool
}

// child copies n's buffers into a new node one step deeper, ready for the
// caller to fill in the new step's direction/delay and recomputed costs.
func (n *node) child() *node {
	c := &node{
		snap:       n.snap,
		gCost:      n.gCost,
		bufLen:     n.bufLen,
		currentDir: n.currentDir,
	}
	c.dirs = n.dirs
	c.delays = n.delays
	return c
}

// push appends a direction/delay pair, growing the buffer by one step.
func (n *node) push(dir maze.Direction, delay int) {
	if n.bufLen < maxBufLen {
		n.dirs[n.bufLen] = dir
		n.delays[n.bufLen] = delay
		n.bufLen++
	}
}

// frontier is a min-heap of nodes ordered by fCost.
type frontier []*node

func (f frontier) Len() int            { return len(f) }
func (f frontier) Less(i, j int) bool  { return f[i].fCost < f[j].fCost }
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(*node)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(f)
	return f
}

func (f *frontier) pushNode(n *node) {
	heap.Push(f, n)
}

func (f *frontier) popNode() *node {
	return heap.Pop(f).(*node)
}
