package game

import (
	"encoding/binary"
	"errors"

	"pacbot/geo"
	"pacbot/maze"
)

// FrameSize is the fixed byte length of a serialized GameState, per the
// arbiter's wire layout: 28 header/ghost/Pacman/fruit bytes plus 31 rows
// of a uint32 pellet bitmap (124 bytes).
const FrameSize = 28 + maze.Rows*4

// ErrMalformedUpdate is returned by Update when the input is not exactly
// FrameSize bytes; the caller's policy is to drop the message and keep the
// previous state.
var ErrMalformedUpdate = errors.New("game: malformed update frame")

// Serialize encodes the state into the fixed 152-byte big-endian layout
// described in the data model: header fields, four ghosts in R/P/C/O
// order, Pacman, fruit, and the pellet bitmap.
func (s *GameState) Serialize() [FrameSize]byte {
	var buf [FrameSize]byte

	binary.BigEndian.PutUint16(buf[0:2], s.CurrTicks)
	buf[2] = s.UpdatePeriod
	buf[3] = byte(s.GameMode)
	buf[4] = byte(s.ModeSteps)
	buf[5] = byte(s.ModeDuration)
	binary.BigEndian.PutUint16(buf[6:8], s.CurrScore)
	buf[8] = s.CurrLevel
	buf[9] = s.CurrLives

	for i := 0; i < int(maze.NumGhosts); i++ {
		off := 10 + i*3
		packed := s.Ghosts[i].Loc.Pack()
		buf[off] = packed[0]
		buf[off+1] = packed[1]
		buf[off+2] = s.Ghosts[i].auxByte()
	}

	pac := s.PacmanLoc.Pack()
	buf[22], buf[23] = pac[0], pac[1]

	fruit := s.FruitLoc.Pack()
	buf[24], buf[25] = fruit[0], fruit[1]

	buf[26] = s.FruitSteps
	buf[27] = s.FruitDuration

	for r := 0; r < maze.Rows; r++ {
		off := 28 + r*4
		binary.BigEndian.PutUint32(buf[off:off+4], s.PelletArr[r])
	}

	return buf
}

// Update overwrites the state from a wire frame produced by Serialize. It
// refuses to run if the state is locked unless override is true — the
// lock is honored by the inbound receiver, bypassed by snapshot restores
// inside the planner.
//
// The non-override path takes mu itself via TryLock rather than checking
// Locked() and then writing: that would leave a window between the check
// and the write where the decision loop could take the lock and read
// fields mid-mutation. TryLock makes "is it free, and if so claim it" one
// atomic step, so a frame is either fully applied under the lock or fully
// skipped. The override path does not touch mu at all: it writes under
// whatever lock its caller already holds, or none.
func (s *GameState) Update(data []byte, override bool) error {
	if len(data) != FrameSize {
		return ErrMalformedUpdate
	}

	if !override {
		if !s.mu.TryLock() {
			return nil
		}
		defer s.mu.Unlock()
	}

	s.CurrTicks = binary.BigEndian.Uint16(data[0:2])
	s.UpdatePeriod = data[2]
	s.GameMode = Mode(data[3])
	s.ModeSteps = uint16(data[4])
	s.ModeDuration = uint16(data[5])
	s.CurrScore = binary.BigEndian.Uint16(data[6:8])
	s.CurrLevel = data[8]
	s.CurrLives = data[9]

	for i := 0; i < int(maze.NumGhosts); i++ {
		off := 10 + i*3
		s.Ghosts[i].Color = maze.GhostColor(i)
		s.Ghosts[i].Loc = geo.Unpack([2]byte{data[off], data[off+1]})
		s.Ghosts[i].setAuxByte(data[off+2])
	}

	s.PacmanLoc = geo.Unpack([2]byte{data[22], data[23]})
	s.FruitLoc = geo.Unpack([2]byte{data[24], data[25]})
	s.FruitSteps = data[26]
	s.FruitDuration = data[27]

	for r := 0; r < maze.Rows; r++ {
		off := 28 + r*4
		s.PelletArr[r] = binary.BigEndian.Uint32(data[off : off+4])
	}

	return nil
}
