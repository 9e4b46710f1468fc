// Package keymap holds the ordered mapping table that translates HID scan
// codes into X1-family key/control codes, its binary on-disk codec and the
// schema description consumed by external editors.
package keymap

import "github.com/retrolink/x1bridge/internal/hid"

// Layout is the keyboard-layout selector bitmask. An entry's Layout field must
// intersect the active selector to be a candidate; 0xFF matches any layout.
type Layout uint8

const (
	LayoutJIS Layout = 1 << iota
	LayoutUS
	LayoutAX

	LayoutAny Layout = 0xFF
)

// Machine is the host-model selector bitmask; 0xFF matches any model.
type Machine uint8

const (
	MachineX1 Machine = 1 << iota
	MachineX1Turbo
	MachineX1TurboZ

	MachineAny Machine = 0xFF
)

// Mode selects the wire framing for the produced message.
type Mode uint8

const (
	// ModeA is the 16-bit frame: control snapshot in the high byte, key code
	// in the low byte. One frame per key event.
	ModeA Mode = 0
	// ModeB is the 24-bit direct frame: a persistent bitmap of pressed keys.
	// Rows own bits; press ORs them in, release clears them.
	ModeB Mode = 1
)

// Entry flags.
const (
	// FlagCapsInvert inverts the incoming shift bit while caps lock is active,
	// for rows mapping alphabetic keys.
	FlagCapsInvert uint8 = 1 << iota
	// FlagModifier marks a tracked-modifier row (bare shift/ctrl fallback);
	// the table invariant places these rows last.
	FlagModifier
	// FlagTenKey marks numeric-pad rows; the TEN control bit accompanies them.
	FlagTenKey
)

// Host control byte bits, negative logic: bit cleared means active, matching
// the wire format. 0xFF is the all-inactive snapshot.
const (
	CtrlTen   uint8 = 1 << 0
	CtrlCtrl  uint8 = 1 << 1
	CtrlKana  uint8 = 1 << 2
	CtrlGraph uint8 = 1 << 3
	CtrlCaps  uint8 = 1 << 4
	CtrlShift uint8 = 1 << 5

	CtrlNone uint8 = 0xFF
)

// EntrySize is the fixed record size of the binary keymap file.
const EntrySize = 8

// Entry is one mapping rule. Rows are evaluated in table order; the first
// exact modifier match wins, loose matches OR their output together.
type Entry struct {
	SrcKey  uint8
	SrcMod  uint8 // hid.Modifiers truncated to the low byte (shift..ext)
	Layout  Layout
	Machine Machine
	Mode    Mode
	OutKey  uint8
	OutCtrl uint8
	Flags   uint8
}

// srcModRelevant are the modifier bits an exact match must account for.
const srcModRelevant = uint8(hid.ModShift | hid.ModCtrl | hid.ModGUI | hid.ModFunction)

// Matches reports whether the entry is a candidate for the event under the
// given selectors, and whether the modifier match is exact. mod is the
// (possibly caps-inverted) event modifier byte.
func (e Entry) Matches(key uint8, mod uint8, layout Layout, machine Machine) (candidate, exact bool) {
	if e.SrcKey != key {
		return false, false
	}
	if e.Machine&machine == 0 {
		return false, false
	}
	if e.Layout&layout == 0 {
		return false, false
	}
	if e.SrcMod == 0 {
		// A bare row only matches when nothing beyond caps lock is held.
		if mod&^uint8(hid.ModCaps) != 0 {
			return false, false
		}
		return true, true
	}
	if mod&e.SrcMod != e.SrcMod {
		return false, false
	}
	exact = mod&srcModRelevant == e.SrcMod&srcModRelevant
	return true, exact
}

// Output is the mapped 16-bit value: control bits in the high byte, key code
// in the low byte.
func (e Entry) Output() uint16 {
	return uint16(e.OutCtrl)<<8 | uint16(e.OutKey)
}

// BitmapBits are the bits a ModeB row owns inside the 24-bit direct frame.
func (e Entry) BitmapBits() uint32 {
	return uint32(e.OutCtrl)<<8 | uint32(e.OutKey)
}
