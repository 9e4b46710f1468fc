package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retrolink/x1bridge/internal/hid"
	"github.com/retrolink/x1bridge/internal/keymap"
	"github.com/retrolink/x1bridge/internal/wire"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(zap.NewNop(), DefaultConfig(), keymap.Default(), DefaultSelectors())
}

func TestMapLetterRows(t *testing.T) {
	tests := []struct {
		name string
		sc   hid.ScanCode
		want uint32
	}{
		{name: "plain a", sc: hid.ScanCode{Key: keymap.ScanA}, want: 0x0061},
		{name: "shifted A", sc: hid.ScanCode{Key: keymap.ScanA, Mod: hid.ModShift}, want: 0x0041},
		{name: "caps inverts to upper", sc: hid.ScanCode{Key: keymap.ScanA, Mod: hid.ModCaps}, want: 0x0041},
		{name: "caps plus shift back to lower", sc: hid.ScanCode{Key: keymap.ScanA, Mod: hid.ModCaps | hid.ModShift}, want: 0x0061},
		{name: "digit", sc: hid.ScanCode{Key: keymap.Scan1}, want: 0x0031},
		{name: "tenkey digit carries TEN", sc: hid.ScanCode{Key: keymap.ScanKP7}, want: 0x0137},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t)
			msg, ok := e.Map(tc.sc)
			require.True(t, ok)
			assert.Equal(t, tc.want, msg.Value)
			assert.Equal(t, wire.FrameModeA, msg.Mode)
		})
	}
}

func TestUnmappedKeyIsDropped(t *testing.T) {
	e := newTestEngine(t)
	_, ok := e.Map(hid.ScanCode{Key: 0xEE})
	assert.False(t, ok)
}

func TestModifierTracking(t *testing.T) {
	e := newTestEngine(t)

	// Press always clears the modifier's negative-logic bit, release always
	// sets it, regardless of table content beyond the fallback rows.
	msg, ok := e.Map(hid.ScanCode{Key: keymap.ScanLShift, Mod: hid.ModShift})
	require.True(t, ok)
	assert.Equal(t, uint32(keymap.CtrlNone&^keymap.CtrlShift)<<8, msg.Value)
	assert.Zero(t, e.State().Control()&keymap.CtrlShift)

	msg, ok = e.Map(hid.ScanCode{Key: keymap.ScanLShift, Mod: hid.ModBreak})
	require.True(t, ok)
	assert.Equal(t, uint32(keymap.CtrlNone)<<8, msg.Value)
	assert.NotZero(t, e.State().Control()&keymap.CtrlShift)
}

func TestCtrlModifierSnapshot(t *testing.T) {
	e := newTestEngine(t)
	msg, ok := e.Map(hid.ScanCode{Key: keymap.ScanLCtrl, Mod: hid.ModCtrl})
	require.True(t, ok)
	assert.Equal(t, uint32(keymap.CtrlNone&^keymap.CtrlCtrl)<<8, msg.Value)
}

func TestExactMatchNeverSkippedForLoose(t *testing.T) {
	table := keymap.New([]keymap.Entry{
		// Loose for shift+ctrl: only accounts for shift.
		{SrcKey: keymap.ScanA, SrcMod: uint8(hid.ModShift), Layout: keymap.LayoutAny, Machine: keymap.MachineAny, OutKey: 0x11},
		// Exact for shift+ctrl.
		{SrcKey: keymap.ScanA, SrcMod: uint8(hid.ModShift | hid.ModCtrl), Layout: keymap.LayoutAny, Machine: keymap.MachineAny, OutKey: 0x22},
	})
	e := NewEngine(zap.NewNop(), DefaultConfig(), table, DefaultSelectors())

	msg, ok := e.Map(hid.ScanCode{Key: keymap.ScanA, Mod: hid.ModShift | hid.ModCtrl})
	require.True(t, ok)
	assert.Equal(t, uint32(0x22), msg.Value)
}

func TestLooseMatchesAccumulate(t *testing.T) {
	table := keymap.New([]keymap.Entry{
		{SrcKey: keymap.ScanA, SrcMod: uint8(hid.ModShift), Layout: keymap.LayoutAny, Machine: keymap.MachineAny, OutKey: 0x0F},
		{SrcKey: keymap.ScanA, SrcMod: uint8(hid.ModCtrl), Layout: keymap.LayoutAny, Machine: keymap.MachineAny, OutKey: 0xF0},
	})
	e := NewEngine(zap.NewNop(), DefaultConfig(), table, DefaultSelectors())

	// Neither row is exact for shift+ctrl; their outputs OR together.
	msg, ok := e.Map(hid.ScanCode{Key: keymap.ScanA, Mod: hid.ModShift | hid.ModCtrl})
	require.True(t, ok)
	assert.Equal(t, uint32(0xFF), msg.Value)
}

func TestOptionSelectScenario(t *testing.T) {
	e := newTestEngine(t)

	// Arming chord produces no frame.
	_, ok := e.Map(hid.ScanCode{Key: keymap.ScanEscape, Mod: hid.ModCtrl | hid.ModShift})
	require.False(t, ok)
	assert.True(t, e.State().OptionSelect())

	// Next press is consumed as the option code: layout switch, no frame,
	// persistence deferred.
	_, ok = e.Map(hid.ScanCode{Key: keymap.Scan2})
	require.False(t, ok)
	assert.Equal(t, keymap.LayoutUS, e.Selectors().Layout)
	assert.True(t, e.TakeDeferred())
	assert.False(t, e.TakeDeferred())

	// Releasing the consumed key must not re-trigger selection.
	_, ok = e.Map(hid.ScanCode{Key: keymap.Scan2, Mod: hid.ModBreak})
	assert.False(t, ok)
	assert.Equal(t, keymap.LayoutUS, e.Selectors().Layout)

	// Subsequent presses map normally again (now under the US layout).
	msg, ok := e.Map(hid.ScanCode{Key: keymap.ScanA})
	require.True(t, ok)
	assert.Equal(t, uint32(0x0061), msg.Value)
}

func TestOptionSelectDisarmedByRelease(t *testing.T) {
	e := newTestEngine(t)
	_, _ = e.Map(hid.ScanCode{Key: keymap.ScanEscape, Mod: hid.ModCtrl | hid.ModShift})
	require.True(t, e.State().OptionSelect())

	// Any release disarms without consuming an option code.
	_, _ = e.Map(hid.ScanCode{Key: keymap.ScanEscape, Mod: hid.ModBreak})
	assert.False(t, e.State().OptionSelect())

	// The next press maps normally.
	msg, ok := e.Map(hid.ScanCode{Key: keymap.ScanA})
	require.True(t, ok)
	assert.Equal(t, uint32(0x0061), msg.Value)
}

func TestUnknownOptionCodeIsNoop(t *testing.T) {
	e := newTestEngine(t)
	before := e.Selectors()
	_, _ = e.Map(hid.ScanCode{Key: keymap.ScanEscape, Mod: hid.ModCtrl | hid.ModShift})
	_, ok := e.Map(hid.ScanCode{Key: keymap.ScanM})
	assert.False(t, ok)
	assert.Equal(t, before, e.Selectors())
	assert.False(t, e.TakeDeferred())
}

func TestMachineSelectorOption(t *testing.T) {
	e := newTestEngine(t)
	_, _ = e.Map(hid.ScanCode{Key: keymap.ScanEscape, Mod: hid.ModCtrl | hid.ModShift})
	_, _ = e.Map(hid.ScanCode{Key: keymap.ScanW})
	assert.Equal(t, keymap.MachineX1Turbo, e.Selectors().Machine)
	assert.True(t, e.TakeDeferred())
}

func TestDirectModeBitmapFrames(t *testing.T) {
	e := newTestEngine(t)
	e.SetSelectors(Selectors{Layout: keymap.LayoutJIS, Machine: keymap.MachineX1Turbo})

	// Dedicated mode-switch key flips to mode B without transmitting.
	_, ok := e.Map(hid.ScanCode{Key: keymap.ScanScrollLck})
	require.False(t, ok)
	require.True(t, e.State().ModeB())

	// Press space: its bit joins the running frame.
	msg, ok := e.Map(hid.ScanCode{Key: keymap.ScanSpace})
	require.True(t, ok)
	assert.Equal(t, wire.FrameModeB, msg.Mode)
	assert.Equal(t, uint32(keymap.CtrlNone)<<16|0x10, msg.Value)

	// Press Z: both bits present.
	msg, ok = e.Map(hid.ScanCode{Key: keymap.ScanZ})
	require.True(t, ok)
	assert.Equal(t, uint32(keymap.CtrlNone)<<16|0x30, msg.Value)

	// Release space: only its bit is cleared, Z stays.
	msg, ok = e.Map(hid.ScanCode{Key: keymap.ScanSpace, Mod: hid.ModBreak})
	require.True(t, ok)
	assert.Equal(t, uint32(keymap.CtrlNone)<<16|0x20, msg.Value)
}

func TestModeBGatesOrdinaryRows(t *testing.T) {
	e := newTestEngine(t)
	e.SetSelectors(Selectors{Layout: keymap.LayoutJIS, Machine: keymap.MachineX1Turbo})
	_, _ = e.Map(hid.ScanCode{Key: keymap.ScanScrollLck})
	require.True(t, e.State().ModeB())

	// 'a' has no direct-mode row; in mode B it is dropped.
	_, ok := e.Map(hid.ScanCode{Key: keymap.ScanA})
	assert.False(t, ok)

	// Modifier fallback rows still work in mode B.
	msg, ok := e.Map(hid.ScanCode{Key: keymap.ScanLShift, Mod: hid.ModShift})
	require.True(t, ok)
	assert.Equal(t, uint32(keymap.CtrlNone&^keymap.CtrlShift)<<8, msg.Value)
}

type recordingIndicator struct {
	prompts int
	cancels int
}

func (r *recordingIndicator) Prompt()       { r.prompts++ }
func (r *recordingIndicator) CancelPrompt() { r.cancels++ }

func TestPromptIndicatorLifecycle(t *testing.T) {
	e := newTestEngine(t)
	ind := &recordingIndicator{}
	e.SetIndicator(ind)

	_, _ = e.Map(hid.ScanCode{Key: keymap.ScanEscape, Mod: hid.ModCtrl | hid.ModShift})
	assert.Equal(t, 1, ind.prompts)

	_, _ = e.Map(hid.ScanCode{Key: keymap.ScanEscape, Mod: hid.ModBreak})
	assert.Equal(t, 1, ind.cancels)
}
