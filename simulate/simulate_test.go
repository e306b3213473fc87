package simulate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"pacbot/game"
	"pacbot/geo"
	"pacbot/maze"
)

func TestModeTransitionDuringSimulation(t *testing.T) {
	Convey("Given Scatter mode with modeSteps about to expire and plenty of pellets", t, func() {
		s := game.New()
		s.GameMode = game.Scatter
		s.ModeSteps = 1
		s.PacmanLoc = geo.Location{Row: 1, Col: 1}
		before := make([]maze.Direction, maze.NumGhosts)
		for i := range s.Ghosts {
			s.Ghosts[i].Loc = geo.Location{Row: 16, Col: 13}
			s.Ghosts[i].PlannedDirection = maze.Up
			before[i] = s.Ghosts[i].PlannedDirection
		}

		Convey("SimulateAction across one update period flips to Chase with modeSteps=180", func() {
			ok := SimulateAction(s, int(s.UpdatePeriod), maze.None)
			So(ok, ShouldBeTrue)
			So(s.GameMode, ShouldEqual, game.Chase)
			So(s.ModeSteps, ShouldEqual, uint16(180))
		})
	})
}

func TestCollisionWithNonFrightenedGhostIsUnsafe(t *testing.T) {
	s := game.New()
	s.PacmanLoc = geo.Location{Row: 14, Col: 13}
	s.Ghosts[maze.Red].Loc = geo.Location{Row: 14, Col: 13}
	s.Ghosts[maze.Red].FrightSteps = 0

	ok := SimulateAction(s, int(s.UpdatePeriod), maze.None)
	if ok {
		t.Fatal("SimulateAction should report unsafe when Pacman shares a cell with a live ghost")
	}
}

func TestSimulateActionIsDeterministic(t *testing.T) {
	build := func() *game.GameState {
		s := game.New()
		s.PacmanLoc = geo.Location{Row: 5, Col: 5}
		s.GameMode = game.Chase
		return s
	}

	a := build()
	b := build()

	okA := SimulateAction(a, 24, maze.Right)
	okB := SimulateAction(b, 24, maze.Right)

	if okA != okB {
		t.Fatalf("determinism: safe verdicts differ (%v vs %v)", okA, okB)
	}
	if a.Serialize() != b.Serialize() {
		t.Fatal("determinism: resulting states differ for identical inputs")
	}
}

func TestSimulateActionNoneDirectionDoesNotMovePacman(t *testing.T) {
	s := game.New()
	s.PacmanLoc = geo.Location{Row: 1, Col: 1}
	start := s.PacmanLoc
	SimulateAction(s, int(s.UpdatePeriod), maze.None)
	if s.PacmanLoc != start {
		t.Fatalf("Pacman moved on a None action: %+v -> %+v", start, s.PacmanLoc)
	}
}

func TestMovePacmanBlockedByWall(t *testing.T) {
	s := game.New()
	// Column 0 is a border wall at every interior row.
	s.PacmanLoc = geo.Location{Row: 5, Col: 1}
	movePacman(s, maze.Left)
	if !s.PacmanLoc.At(5, 1) {
		t.Fatalf("Pacman should not move into a wall, got (%d,%d)", s.PacmanLoc.Row, s.PacmanLoc.Col)
	}
}
