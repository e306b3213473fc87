package game

// StepMode decrements the mode-step counter by one update period and
// applies the mode-transition table on expiry: Scatter always expires
// into Chase; Chase expires into Scatter only while more than
// pelletLockThreshold pellets remain, otherwise it holds in Chase. Every
// transition reverses every ghost's planned direction.
func (s *GameState) StepMode() {
	if s.GameMode == Paused {
		return
	}
	if s.ModeSteps > 0 {
		s.ModeSteps--
	}
	if s.ModeSteps != 0 {
		return
	}

	switch s.GameMode {
	case Scatter:
		s.GameMode = Chase
		s.ModeDuration = chaseDuration
		s.ModeSteps = chaseDuration
		s.reverseAllGhostDirections()
	case Chase:
		if s.NumPellets() > pelletLockThreshold {
			s.GameMode = Scatter
			s.ModeDuration = scatterDuration
			s.ModeSteps = scatterDuration
			s.reverseAllGhostDirections()
		} else {
			// Locked to Chase: hold a nonzero counter so this check
			// doesn't refire every single tick.
			s.ModeSteps = scatterDuration
		}
	}
}
