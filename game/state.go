// Package game implements the bit-packed, serializable Pacbot game state:
// the maze-bound positions of Pacman and the four ghosts, the pellet and
// fruit bookkeeping, the mode-step state machine, and the fixed 152-byte
// wire layout the arbiter streams.
//
// GameState itself never decides anything — that's the predictor, the
// simulator, and the planner built on top of it. This package only knows
// how to hold, serialize, and locally update the world.
package game

import (
	"sync"

	"pacbot/geo"
	"pacbot/maze"
)

// Mode is the game's current scatter/chase/paused phase.
type Mode uint8

const (
	Paused Mode = iota
	Scatter
	Chase
)

func (m Mode) String() string {
	switch m {
	case Paused:
		return "Paused"
	case Scatter:
		return "Scatter"
	case Chase:
		return "Chase"
	default:
		return "Unknown"
	}
}

// Default mode-step durations, per the mode-step machine, counted in update
// periods (StepMode runs once per period): a Scatter phase expires into 180
// steps of Chase; a Chase phase expires into 60 steps of Scatter, unless too
// few pellets remain, in which case it locks to Chase.
const (
	chaseDuration   = 180
	scatterDuration = 60

	// pelletLockThreshold is the point at or below which the mode machine
	// stops alternating back into Scatter and stays in Chase.
	pelletLockThreshold = 20

	// Fruit spawns when numPellets crosses either threshold going downward.
	fruitThresholdHigh = 174
	fruitThresholdLow  = 74

	fruitLifeTicks = 30

	// DefaultUpdatePeriod is the number of ticks between state advances
	// before the arbiter has sent a real value.
	DefaultUpdatePeriod = 12

	// FrightSteps is how long a super pellet frightens every ghost for.
	FrightSteps = 40
)

// Ghost holds one ghost's position, fright timer, and planned next move.
type Ghost struct {
	Color            maze.GhostColor
	Loc              geo.Location
	FrightSteps      uint8
	Spawning         bool
	Eaten            bool
	PlannedDirection maze.Direction
}

// IsFrightened reports whether the ghost currently flees Pacman.
func (g *Ghost) IsFrightened() bool {
	return g.FrightSteps > 0
}

// DecrementFright counts down the fright timer by one update period, never
// going below zero.
func (g *Ghost) DecrementFright() {
	if g.FrightSteps > 0 {
		g.FrightSteps--
	}
}

// Reverse flips the ghost's planned direction to its opposite.
func (g *Ghost) Reverse() {
	g.PlannedDirection = maze.Reverse(g.PlannedDirection)
}

// Respawn sends the ghost to the sentinel location and marks it spawning,
// mirroring an eaten ghost heading back to the lair. The predictor skips
// spawning ghosts (see predictor.Plan), so a respawned ghost keeps its
// planned direction unchanged.
func (g *Ghost) Respawn() {
	g.Loc = geo.Sentinel()
	g.Spawning = true
	g.Eaten = true
	g.FrightSteps = 0
}

// auxByte packs Spawning (bit 7) and FrightSteps (bits 0-5) into one byte.
func (g *Ghost) auxByte() byte {
	aux := g.FrightSteps & 0x3F
	if g.Spawning {
		aux |= 0x80
	}
	return aux
}

func (g *Ghost) setAuxByte(aux byte) {
	g.Spawning = aux&0x80 != 0
	g.FrightSteps = aux & 0x3F
}

// Action is an outbound decision: move in Direction, travel Distance cells
// before the controller should look for a new command, toward
// (TargetRow, TargetCol), after WaitTicks of delay.
type Action struct {
	Direction maze.Direction
	Distance  uint8
	TargetRow int8
	TargetCol int8
	WaitTicks uint8
}

// outboundCapacity is the bounded outbound action queue's fixed capacity;
// on overflow the oldest entry is dropped.
const outboundCapacity = 6

// GameState aggregates the full Pacbot world: mode, score, ghosts, Pacman,
// fruit, and the pellet bitmap, plus the lock/connected flags and outbound
// action queue the decision loop and transport layer coordinate through.
//
// The struct is shared across the three cooperative goroutines (inbound
// arbiter receiver, decision loop, outbound dispatcher), so every field
// above mu is only ever touched while mu is held: the decision loop holds
// it for the duration of a planning pass (Lock/Unlock), and the receiver
// takes it for the duration of one Update call, skipping the frame outright
// rather than blocking if planning already owns it.
type GameState struct {
	CurrTicks    uint16
	UpdatePeriod uint8

	GameMode     Mode
	ModeSteps    uint16
	ModeDuration uint16

	CurrScore uint16
	CurrLevel uint8
	CurrLives uint8

	Ghosts [maze.NumGhosts]Ghost

	PacmanLoc     geo.Location
	FruitLoc      geo.Location
	FruitSteps    uint8
	FruitDuration uint8

	PelletArr [maze.Rows]uint32

	// mu guards every field above it. Lock/Unlock expose it directly to the
	// decision loop; Update takes it itself only when not overriding (via
	// TryLock, so a frame arriving mid-plan is dropped instead of blocking).
	mu sync.Mutex

	connMu    sync.Mutex
	connected bool

	// outbound is the bounded SPSC action queue: the decision loop sends,
	// the dispatcher receives. A channel, not a slice, so concurrent
	// Enqueue/Dequeue from the two goroutines can never race on a shared
	// slice header.
	outbound chan Action
}

// New constructs a default GameState: paused, three lives, Pacman and the
// fruit both absent (sentinel location), a full pellet layout, and every
// ghost at its spawn point with no plan yet chosen.
func New() *GameState {
	s := &GameState{
		UpdatePeriod: DefaultUpdatePeriod,
		GameMode:     Paused,
		CurrLives:    3,
		PacmanLoc:    geo.Sentinel(),
		FruitLoc:     geo.Sentinel(),
		outbound:     make(chan Action, outboundCapacity),
	}
	s.PelletArr = defaultPelletLayout()
	for c := maze.GhostColor(0); c < maze.NumGhosts; c++ {
		spawn := maze.GhostSpawn[c]
		s.Ghosts[c] = Ghost{
			Color:            c,
			Loc:              geo.Location{Row: spawn.Row, Col: spawn.Col},
			PlannedDirection: maze.None,
		}
	}
	return s
}

// Lock prevents the inbound receiver from overwriting state while the
// planner is reading it. Blocks until any in-flight Update finishes.
func (s *GameState) Lock() { s.mu.Lock() }

// Unlock releases the lock taken by Lock.
func (s *GameState) Unlock() { s.mu.Unlock() }

// Locked reports whether the state is currently locked against updates.
// It never blocks: a failed TryLock means something else holds the lock.
func (s *GameState) Locked() bool {
	if s.mu.TryLock() {
		s.mu.Unlock()
		return false
	}
	return true
}

// SetConnected records the arbiter connection's liveness.
func (s *GameState) SetConnected(connected bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.connected = connected
}

// Connected reports whether the arbiter connection is believed live.
func (s *GameState) Connected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.connected
}

// Enqueue appends an action to the bounded outbound queue, dropping the
// oldest entry first if the queue is already at capacity.
func (s *GameState) Enqueue(a Action) {
	for {
		select {
		case s.outbound <- a:
			return
		default:
			select {
			case <-s.outbound:
			default:
			}
		}
	}
}

// Dequeue pops the oldest outbound action, if any.
func (s *GameState) Dequeue() (Action, bool) {
	select {
	case a := <-s.outbound:
		return a, true
	default:
		return Action{}, false
	}
}

// OutboundLen reports how many actions are currently queued.
func (s *GameState) OutboundLen() int {
	return len(s.outbound)
}

// defaultPelletLayout fills every walkable, non-ghost-house cell with a
// pellet, matching the canonical maze's starting layout.
func defaultPelletLayout() [maze.Rows]uint32 {
	var arr [maze.Rows]uint32
	for r := int8(0); r < maze.Rows; r++ {
		for c := int8(0); c < maze.Cols; c++ {
			if maze.WallAt(r, c) || maze.InGhostHouse(r, c) {
				continue
			}
			arr[r] |= 1 << uint(c)
		}
	}
	return arr
}

// reverseAllGhostDirections flips every ghost's planned direction, used on
// super-pellet collection and mode transitions.
func (s *GameState) reverseAllGhostDirections() {
	for i := range s.Ghosts {
		s.Ghosts[i].Reverse()
	}
}
