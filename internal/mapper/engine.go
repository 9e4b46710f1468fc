package mapper

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/retrolink/x1bridge/internal/hid"
	"github.com/retrolink/x1bridge/internal/keymap"
	"github.com/retrolink/x1bridge/internal/wire"
)

// Indicator is the slice of the activity-indicator collaborator the engine
// needs: a prompt while option-select is armed, cancelled on the next
// release. Fire-and-forget.
type Indicator interface {
	Prompt()
	CancelPrompt()
}

type nopIndicator struct{}

func (nopIndicator) Prompt()       {}
func (nopIndicator) CancelPrompt() {}

// Selectors are the active keyboard-layout and machine-model masks rows must
// intersect. Persisted through the non-volatile store.
type Selectors struct {
	Layout  keymap.Layout
	Machine keymap.Machine
}

func DefaultSelectors() Selectors {
	return Selectors{Layout: keymap.LayoutJIS, Machine: keymap.MachineX1}
}

// Config is the engine's fixed special-case configuration: the option-select
// arming chord and the dedicated mode-switch key.
type Config struct {
	ArmKey   uint8
	ArmMod   hid.Modifiers
	ModeBKey uint8
}

func DefaultConfig() Config {
	return Config{
		ArmKey:   keymap.ScanEscape,
		ArmMod:   hid.ModCtrl | hid.ModShift,
		ModeBKey: keymap.ScanScrollLck,
	}
}

// Engine is the key mapping engine. It owns the modifier state, the active
// table pointer and the running direct-mode bitmap; all of them have exactly
// one writer, the capture loop calling Map.
type Engine struct {
	log       *zap.Logger
	cfg       Config
	table     *keymap.Table
	sel       Selectors
	state     ModifierState
	bitmap    uint16
	indicator Indicator

	// deferred is read by the maintenance drain on the capture loop after
	// Map returns, hence the atomic.
	deferred atomic.Bool
}

func NewEngine(log *zap.Logger, cfg Config, table *keymap.Table, sel Selectors) *Engine {
	return &Engine{
		log:       log,
		cfg:       cfg,
		table:     table,
		sel:       sel,
		state:     newModifierState(),
		indicator: nopIndicator{},
	}
}

func (e *Engine) SetIndicator(ind Indicator) {
	e.indicator = ind
}

// SetTable replaces the active table wholesale. Caller must be the mapping
// thread; row count and pointer swap together.
func (e *Engine) SetTable(t *keymap.Table) {
	e.table = t
}

func (e *Engine) Table() *keymap.Table {
	return e.table
}

func (e *Engine) Selectors() Selectors {
	return e.sel
}

func (e *Engine) SetSelectors(sel Selectors) {
	e.sel = sel
}

func (e *Engine) State() *ModifierState {
	return &e.state
}

// TakeDeferred reports and clears the pending-persistence flag. The capture
// loop drains it between events, never mid-event.
func (e *Engine) TakeDeferred() bool {
	return e.deferred.Swap(false)
}

// Map translates one scan code. The second return is false when the event
// produced no transmission (unmapped key, consumed option command, pure
// state change).
func (e *Engine) Map(sc hid.ScanCode) (wire.Message, bool) {
	if sc.IsBreak() {
		return e.mapRelease(sc)
	}
	return e.mapPress(sc)
}

func (e *Engine) mapRelease(sc hid.ScanCode) (wire.Message, bool) {
	// Any release disarms a pending option-select and cancels its prompt.
	if e.state.optionSelect {
		e.state.optionSelect = false
		e.indicator.CancelPrompt()
	}
	e.state.syncCaps(sc.Mod)

	// Releases match by key alone: some sources clear the modifier bit in
	// the mask before reporting the release of the modifier key itself.
	if row, ok := e.modifierRow(sc.Key); ok {
		// Tracked modifier released: set its inactive bit and send a fresh
		// control snapshot so the host state never goes stale.
		e.state.deactivate(row.OutCtrl)
		return wire.Message{Value: uint32(e.state.Snapshot()), Mode: wire.FrameModeA}, true
	}
	if e.state.modeB {
		if row, ok := e.bitmapRow(sc.Key); ok {
			// Clear only the bits owned by this row, keep the rest of the
			// frame running.
			e.bitmap &^= uint16(row.BitmapBits())
			return e.bitmapMessage(), true
		}
	}
	return wire.Message{}, false
}

func (e *Engine) modifierRow(key uint8) (keymap.Entry, bool) {
	for i := 0; i < e.table.Len(); i++ {
		row := e.table.At(i)
		if row.Flags&keymap.FlagModifier != 0 && row.SrcKey == key {
			return row, true
		}
	}
	return keymap.Entry{}, false
}

func (e *Engine) bitmapRow(key uint8) (keymap.Entry, bool) {
	for i := 0; i < e.table.Len(); i++ {
		row := e.table.At(i)
		if row.Mode != keymap.ModeB || row.SrcKey != key {
			continue
		}
		if row.Machine&e.sel.Machine == 0 || row.Layout&e.sel.Layout == 0 {
			continue
		}
		return row, true
	}
	return keymap.Entry{}, false
}

func (e *Engine) mapPress(sc hid.ScanCode) (wire.Message, bool) {
	if e.state.optionSelect && !e.isArmChord(sc) {
		// The first press after arming is consumed as a configuration
		// command and never transmitted.
		e.state.optionSelect = false
		e.indicator.CancelPrompt()
		e.applyOption(sc.Key)
		return wire.Message{}, false
	}
	if e.isArmChord(sc) {
		e.state.optionSelect = true
		e.indicator.Prompt()
		return wire.Message{}, false
	}
	if sc.Key == e.cfg.ModeBKey {
		e.state.modeB = !e.state.modeB
		e.log.Info("framing mode switched", zap.Bool("modeB", e.state.modeB))
		return wire.Message{}, false
	}
	e.state.syncCaps(sc.Mod)

	row, loose, ok := e.findRow(sc.Key, sc.Mod)
	if !ok {
		return wire.Message{}, false
	}
	switch {
	case row.Flags&keymap.FlagModifier != 0:
		e.state.activate(row.OutCtrl)
		return wire.Message{Value: uint32(e.state.Snapshot()), Mode: wire.FrameModeA}, true
	case row.Mode == keymap.ModeB:
		e.bitmap |= uint16(row.BitmapBits())
		return e.bitmapMessage(), true
	}
	value := row.Output() | loose
	return wire.Message{Value: uint32(value), Mode: wire.FrameModeA}, true
}

func (e *Engine) isArmChord(sc hid.ScanCode) bool {
	return sc.Key == e.cfg.ArmKey && sc.Mod&e.cfg.ArmMod == e.cfg.ArmMod
}

// findRow scans the table in order. An exact match stops the scan; loose
// matches OR their output together and let the scan continue so later rows
// can contribute bits for otherwise unmapped combinations. The returned
// uint16 is the accumulated loose output excluding the winning row.
func (e *Engine) findRow(key uint8, mod hid.Modifiers) (keymap.Entry, uint16, bool) {
	activeMode := keymap.ModeA
	if e.state.modeB {
		activeMode = keymap.ModeB
	}
	evMod := uint8(mod) // break bit lives above the low byte

	var (
		best    keymap.Entry
		loose   uint16
		haveRow bool
	)
	for i := 0; i < e.table.Len(); i++ {
		row := e.table.At(i)
		if row.Flags&keymap.FlagModifier == 0 && row.Mode != activeMode {
			continue
		}
		effMod := evMod
		if row.Flags&keymap.FlagCapsInvert != 0 && e.state.capsActive() {
			effMod ^= uint8(hid.ModShift)
		}
		candidate, exact := row.Matches(key, effMod, e.sel.Layout, e.sel.Machine)
		if !candidate {
			continue
		}
		if exact {
			return row, loose, true
		}
		if !haveRow {
			best = row
			haveRow = true
			continue
		}
		loose |= row.Output()
	}
	return best, loose, haveRow
}

// bitmapMessage builds the 24-bit direct frame: control snapshot in the top
// byte, the running key bitmap below it.
func (e *Engine) bitmapMessage() wire.Message {
	return wire.Message{
		Value: uint32(e.state.Control())<<16 | uint32(e.bitmap),
		Mode:  wire.FrameModeB,
	}
}
