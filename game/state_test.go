package game

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"pacbot/geo"
	"pacbot/maze"
)

func TestRoundTripDefaultState(t *testing.T) {
	Convey("Given a default GameState", t, func() {
		s := New()

		Convey("serialize then update should reproduce it byte-for-byte", func() {
			buf := s.Serialize()
			got := New()
			err := got.Update(buf[:], true)
			So(err, ShouldBeNil)
			So(got.Serialize(), ShouldResemble, buf)
		})
	})
}

func TestUpdateRejectsMalformedLength(t *testing.T) {
	s := New()
	err := s.Update([]byte{1, 2, 3}, true)
	if err != ErrMalformedUpdate {
		t.Fatalf("Update(short buffer) = %v, want ErrMalformedUpdate", err)
	}
}

func TestUpdateDroppedWhileLocked(t *testing.T) {
	s := New()
	s.CurrScore = 42
	s.Lock()
	buf := New().Serialize()
	if err := s.Update(buf[:], false); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if s.CurrScore != 42 {
		t.Fatalf("locked Update should have been dropped, CurrScore = %d", s.CurrScore)
	}
}

func TestSuperPelletImpliesPellet(t *testing.T) {
	s := New()
	for _, c := range maze.SuperPelletCorners {
		if !s.PelletAt(c.Row, c.Col) {
			t.Fatalf("super pellet corner (%d,%d) should start with a pellet", c.Row, c.Col)
		}
		if !s.SuperPelletAt(c.Row, c.Col) {
			t.Fatalf("(%d,%d) should report SuperPelletAt", c.Row, c.Col)
		}
	}
}

func TestCollectSuperPelletFrightensAndReversesAllGhosts(t *testing.T) {
	Convey("Given Pacman on a super pellet and all ghosts unfrightened", t, func() {
		s := New()
		corner := maze.SuperPelletCorners[0]
		before := [maze.NumGhosts]maze.Direction{}
		for i := range s.Ghosts {
			s.Ghosts[i].PlannedDirection = maze.Direction(i % 4)
			before[i] = s.Ghosts[i].PlannedDirection
		}
		startScore := s.CurrScore

		Convey("CollectPellet should clear the bit, award 50, fright and reverse every ghost", func() {
			s.CollectPellet(corner.Row, corner.Col)

			So(s.PelletAt(corner.Row, corner.Col), ShouldBeFalse)
			So(s.CurrScore, ShouldEqual, startScore+50)
			for i := range s.Ghosts {
				So(s.Ghosts[i].FrightSteps, ShouldEqual, FrightSteps)
				So(s.Ghosts[i].PlannedDirection, ShouldEqual, maze.Reverse(before[i]))
			}
		})
	})
}

func TestModeTransitionAtExpiry(t *testing.T) {
	Convey("Given Scatter mode about to expire with plenty of pellets", t, func() {
		s := New()
		s.GameMode = Scatter
		s.ModeSteps = 1
		before := make([]maze.Direction, maze.NumGhosts)
		for i := range s.Ghosts {
			s.Ghosts[i].PlannedDirection = maze.Up
			before[i] = s.Ghosts[i].PlannedDirection
		}

		Convey("StepMode should flip to Chase with modeSteps=180 and reverse ghosts", func() {
			s.StepMode()
			So(s.GameMode, ShouldEqual, Chase)
			So(s.ModeSteps, ShouldEqual, uint16(180))
			for i := range s.Ghosts {
				So(s.Ghosts[i].PlannedDirection, ShouldEqual, maze.Reverse(before[i]))
			}
		})
	})
}

func TestModeLocksToChaseWhenFewPelletsRemain(t *testing.T) {
	s := New()
	s.GameMode = Chase
	s.ModeSteps = 1
	for r := range s.PelletArr {
		s.PelletArr[r] = 0
	}
	// Leave exactly pelletLockThreshold pellets.
	s.PelletArr[0] = (1 << pelletLockThreshold) - 1

	s.StepMode()
	if s.GameMode != Chase {
		t.Fatalf("expected mode to stay Chase with <=%d pellets, got %v", pelletLockThreshold, s.GameMode)
	}
}

func TestNumPelletsMatchesPopcount(t *testing.T) {
	s := New()
	s.PelletArr = [maze.Rows]uint32{}
	s.PelletArr[0] = 0b1011
	if got := s.NumPellets(); got != 3 {
		t.Fatalf("NumPellets() = %d, want 3", got)
	}
}

func TestFruitSpawnsOnThresholdCrossing(t *testing.T) {
	s := New()
	total := s.NumPellets()
	if total <= fruitThresholdHigh {
		t.Skip("default maze too small to exercise the high fruit threshold")
	}
	// Drain pellets one at a time (skipping super pellets, which carry
	// extra side effects) until the count falls below fruitThresholdHigh.
	for r := int8(0); r < maze.Rows; r++ {
		for c := int8(0); c < maze.Cols; c++ {
			if s.NumPellets() < fruitThresholdHigh {
				goto crossed
			}
			if s.PelletAt(r, c) && !s.SuperPelletAt(r, c) {
				s.CollectPellet(r, c)
			}
		}
	}
crossed:
	if s.FruitSteps == 0 {
		t.Fatalf("expected fruit to spawn after crossing threshold %d", fruitThresholdHigh)
	}
	if !s.FruitLoc.At(maze.FruitSpawn.Row, maze.FruitSpawn.Col) {
		t.Fatalf("fruit should spawn at (%d,%d)", maze.FruitSpawn.Row, maze.FruitSpawn.Col)
	}
}

func TestLockedReportsTrueWhileAnotherGoroutineHoldsLock(t *testing.T) {
	s := New()
	s.Lock()
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		defer s.Unlock()
		close(held)
		// Hold the lock until the Locked() check below has run.
		<-release
	}()
	<-held
	defer close(release)
	if !s.Locked() {
		t.Fatal("Locked() should report true while another goroutine holds the lock")
	}
}

func TestSetConnectedAndConnectedAreConcurrencySafe(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetConnected(true)
		}()
		go func() {
			defer wg.Done()
			_ = s.Connected()
		}()
	}
	wg.Wait()
}

func TestEnqueueDequeueConcurrentSPSC(t *testing.T) {
	s := New()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(2)

	produced := make(chan struct{})
	go func() {
		defer wg.Done()
		defer close(produced)
		for i := 0; i < n; i++ {
			s.Enqueue(Action{Distance: uint8(i % 256)})
		}
	}()

	// Enqueue drops the oldest entry on overflow, so the consumer drains
	// until the producer is done and the queue is empty rather than
	// waiting for all n actions to arrive.
	received := 0
	go func() {
		defer wg.Done()
		for {
			if _, ok := s.Dequeue(); ok {
				received++
				continue
			}
			select {
			case <-produced:
				if s.OutboundLen() == 0 {
					return
				}
			default:
			}
		}
	}()

	wg.Wait()
	if received == 0 || received > n {
		t.Fatalf("received %d actions, want between 1 and %d", received, n)
	}
	if s.OutboundLen() != 0 {
		t.Fatalf("OutboundLen() = %d, want 0 after draining", s.OutboundLen())
	}
}

func TestCollectFruitAwardsScoreAndDespawns(t *testing.T) {
	s := New()
	s.FruitLoc = geo.Location{Row: maze.FruitSpawn.Row, Col: maze.FruitSpawn.Col}
	s.FruitSteps = 5
	before := s.CurrScore
	s.CollectFruit(maze.FruitSpawn.Row, maze.FruitSpawn.Col)
	if s.CurrScore != before+100 {
		t.Fatalf("CurrScore = %d, want %d", s.CurrScore, before+100)
	}
	if s.FruitSteps != 0 {
		t.Fatalf("FruitSteps = %d, want 0 after collection", s.FruitSteps)
	}
}
