// Package mapper translates HID scan codes into host key/control values
// under the active keymap table and live modifier state.
package mapper

import (
	"github.com/retrolink/x1bridge/internal/hid"
	"github.com/retrolink/x1bridge/internal/keymap"
)

// ModifierState is the live control state of one host interface. Single
// writer: the mapping engine. The control byte uses negative logic (bit
// cleared means active) so it can go onto the wire unchanged.
type ModifierState struct {
	control      uint8
	modeB        bool
	optionSelect bool
}

func newModifierState() ModifierState {
	return ModifierState{control: keymap.CtrlNone}
}

// Control returns the current negative-logic control byte.
func (s *ModifierState) Control() uint8 {
	return s.control
}

// Snapshot is the synthetic control-only output sent on modifier changes:
// control byte in the high byte, zero data key.
func (s *ModifierState) Snapshot() uint16 {
	return uint16(s.control) << 8
}

func (s *ModifierState) activate(bit uint8) {
	s.control &^= bit
}

func (s *ModifierState) deactivate(bit uint8) {
	s.control |= bit
}

func (s *ModifierState) capsActive() bool {
	return s.control&keymap.CtrlCaps == 0
}

// syncCaps mirrors the HID caps lock state into the control byte. The HID
// side owns the toggle; the bridge only reflects it.
func (s *ModifierState) syncCaps(mod hid.Modifiers) {
	if mod.Has(hid.ModCaps) {
		s.activate(keymap.CtrlCaps)
	} else {
		s.deactivate(keymap.CtrlCaps)
	}
}

func (s *ModifierState) ModeB() bool {
	return s.modeB
}

func (s *ModifierState) OptionSelect() bool {
	return s.optionSelect
}
