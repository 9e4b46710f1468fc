// Package hid defines the normalized input event model produced by HID source
// backends (PS/2 or Bluetooth). The bridge treats every backend as an opaque
// event source behind the Source interface.
package hid

import (
	"fmt"
	"strings"
)

// Modifiers is the bitset riding alongside a key code. Break marks a release
// event; everything else mirrors the state of the physical modifier keys at
// the time of the event.
type Modifiers uint16

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModCaps
	ModAlt
	ModAltGr
	ModGUI
	ModFunction
	ModExtended
	ModBreak
)

var modNames = []struct {
	mod  Modifiers
	name string
}{
	{ModShift, "shift"},
	{ModCtrl, "ctrl"},
	{ModCaps, "caps"},
	{ModAlt, "alt"},
	{ModAltGr, "altgr"},
	{ModGUI, "gui"},
	{ModFunction, "fn"},
	{ModExtended, "ext"},
	{ModBreak, "break"},
}

func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod == mod
}

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	parts := make([]string, 0, 4)
	for _, n := range modNames {
		if m&n.mod != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// ScanCode is one key press or release. Key 0 means "no event" so that
// non-blocking reads have a natural zero value. Immutable once read.
type ScanCode struct {
	Key uint8
	Mod Modifiers
}

func (s ScanCode) IsZero() bool {
	return s.Key == 0
}

// IsBreak reports whether this is a release event.
func (s ScanCode) IsBreak() bool {
	return s.Mod.Has(ModBreak)
}

func (s ScanCode) String() string {
	return fmt.Sprintf("key=0x%02x mod=%s", s.Key, s.Mod)
}

// MouseReport is one accumulated pointer notification pushed by a source
// backend: relative deltas plus a button bitfield (bit 0 = left, 1 = right).
type MouseReport struct {
	Buttons uint8
	DX, DY  int8
}
