// Package mouse accumulates pointer reports between host polls. The host
// drains movement at its own cadence through the gate signal, so deltas pile
// up here and are clamped to what one frame can carry.
package mouse

import (
	"sync"

	"github.com/retrolink/x1bridge/internal/hid"
	"github.com/retrolink/x1bridge/internal/wire"
)

// State is the pending movement since the last frame was taken.
// Button bitfield: bit 0 = left, bit 1 = right.
type State struct {
	mu      sync.Mutex
	buttons uint8
	dx, dy  int
	pending bool
}

func NewState() *State {
	return &State{}
}

// Add folds one HID report into the pending state.
func (s *State) Add(r hid.MouseReport) {
	s.mu.Lock()
	s.buttons = r.Buttons & 0x03
	s.dx += int(r.DX)
	s.dy += int(r.DY)
	s.pending = true
	s.mu.Unlock()
}

// TakeFrame drains the accumulated movement into one 3-byte frame. Deltas
// beyond one byte stay pending for the next poll instead of being lost.
func (s *State) TakeFrame() (wire.MouseFrame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return wire.MouseFrame{}, false
	}
	dx := clamp8(s.dx)
	dy := clamp8(s.dy)
	s.dx -= int(dx)
	s.dy -= int(dy)
	s.pending = s.dx != 0 || s.dy != 0
	return wire.MouseFrame{s.buttons, uint8(dx), uint8(dy)}, true
}

func clamp8(v int) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}
