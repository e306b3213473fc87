package game

import (
	"math/bits"

	"pacbot/geo"
	"pacbot/maze"
)

// WallAt reports whether (row, col) is a wall, delegating to the constant
// maze; GameState never tracks walls itself.
func (s *GameState) WallAt(row, col int8) bool {
	return maze.WallAt(row, col)
}

// PelletAt reports whether a pellet is currently present at (row, col).
func (s *GameState) PelletAt(row, col int8) bool {
	if !maze.InBounds(row, col) {
		return false
	}
	return s.PelletArr[row]>>uint(col)&1 == 1
}

// SuperPelletAt reports whether (row, col) is one of the four canonical
// super-pellet corners and the pellet there hasn't been collected yet.
func (s *GameState) SuperPelletAt(row, col int8) bool {
	for _, corner := range maze.SuperPelletCorners {
		if corner.Row == row && corner.Col == col {
			return s.PelletAt(row, col)
		}
	}
	return false
}

// FruitAt reports whether live fruit currently occupies (row, col).
func (s *GameState) FruitAt(row, col int8) bool {
	return s.FruitSteps > 0 && s.FruitLoc.At(row, col)
}

// NumPellets returns the total count of remaining pellets, including
// uncollected super pellets.
func (s *GameState) NumPellets() int {
	total := 0
	for _, row := range s.PelletArr {
		total += bits.OnesCount32(row)
	}
	return total
}

func (s *GameState) clearPellet(row, col int8) {
	s.PelletArr[row] &^= 1 << uint(col)
}

// CollectPellet applies the effect of Pacman occupying (row, col): if a
// pellet is there, clear it and award points; a super pellet additionally
// frightens and reverses every ghost, and a pellet-count threshold
// crossing spawns fruit or locks the mode to Chase.
func (s *GameState) CollectPellet(row, col int8) {
	if !s.PelletAt(row, col) {
		return
	}

	wasSuper := s.SuperPelletAt(row, col)
	before := s.NumPellets()
	s.clearPellet(row, col)
	after := s.NumPellets()

	if wasSuper {
		s.CurrScore += 50
		for i := range s.Ghosts {
			s.Ghosts[i].FrightSteps = FrightSteps
			s.Ghosts[i].Reverse()
		}
	} else {
		s.CurrScore += 10
	}

	if crossed(before, after, fruitThresholdHigh) || crossed(before, after, fruitThresholdLow) {
		s.spawnFruit()
	}

	if after <= pelletLockThreshold && s.GameMode == Scatter {
		s.GameMode = Chase
		s.ModeDuration = chaseDuration
		s.ModeSteps = chaseDuration
		s.reverseAllGhostDirections()
	}
}

// crossed reports whether the pellet count fell from at-or-above
// threshold to strictly below it between before and after.
func crossed(before, after, threshold int) bool {
	return before >= threshold && after < threshold
}

func (s *GameState) spawnFruit() {
	s.FruitLoc = geo.Location{Row: maze.FruitSpawn.Row, Col: maze.FruitSpawn.Col}
	s.FruitSteps = fruitLifeTicks
	s.FruitDuration = fruitLifeTicks
}

// CollectFruit applies the effect of Pacman occupying (row, col) with live
// fruit present: awards points and despawns it by zeroing the timer.
// Otherwise it ages live fruit's timer down by one, despawning on expiry.
func (s *GameState) CollectFruit(row, col int8) {
	if s.FruitSteps == 0 {
		return
	}
	if s.FruitLoc.At(row, col) {
		s.CurrScore += 100
		s.FruitSteps = 0
		return
	}
	s.FruitSteps--
	if s.FruitSteps == 0 {
		s.FruitLoc = geo.Sentinel()
	}
}
