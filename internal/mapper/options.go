package mapper

import (
	"go.uber.org/zap"

	"github.com/retrolink/x1bridge/internal/keymap"
)

// Option selection: the single key press consumed after the arming chord is
// interpreted as a one-byte option code (its scan code). Layout and machine
// changes are persisted; the write itself is deferred to the maintenance
// drain because storage I/O must not run inside the event path.

type optionAction struct {
	layout  keymap.Layout
	machine keymap.Machine
	modeB   bool
}

var optionCodes = map[uint8]optionAction{
	keymap.Scan1: {layout: keymap.LayoutJIS},
	keymap.Scan2: {layout: keymap.LayoutUS},
	keymap.Scan3: {layout: keymap.LayoutAX},
	keymap.ScanQ: {machine: keymap.MachineX1},
	keymap.ScanW: {machine: keymap.MachineX1Turbo},
	keymap.ScanE: {machine: keymap.MachineX1TurboZ},
	keymap.ScanB: {modeB: true},
}

// applyOption dispatches one option code. Unknown codes are no-ops.
func (e *Engine) applyOption(code uint8) {
	action, ok := optionCodes[code]
	if !ok {
		e.log.Debug("unknown option code", zap.Uint8("code", code))
		return
	}
	switch {
	case action.layout != 0:
		e.sel.Layout = action.layout
		e.deferred.Store(true)
		e.log.Info("layout selector switched", zap.Uint8("layout", uint8(action.layout)))
	case action.machine != 0:
		e.sel.Machine = action.machine
		e.deferred.Store(true)
		e.log.Info("machine selector switched", zap.Uint8("machine", uint8(action.machine)))
	case action.modeB:
		// Run-mode toggle, never persisted.
		e.state.modeB = !e.state.modeB
		e.log.Info("framing mode toggled", zap.Bool("modeB", e.state.modeB))
	}
}
