package hid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChanSourceNonBlockingRead(t *testing.T) {
	s := NewChanSource(4)
	assert.True(t, s.Read().IsZero())

	require.True(t, s.Push(ScanCode{Key: 0x1C}))
	sc := s.Read()
	assert.Equal(t, uint8(0x1C), sc.Key)
	assert.True(t, s.Read().IsZero())
}

func TestChanSourceDropsWhenFull(t *testing.T) {
	s := NewChanSource(1)
	assert.True(t, s.Push(ScanCode{Key: 1}))
	assert.False(t, s.Push(ScanCode{Key: 2}))
}

func TestReadBlockingCancel(t *testing.T) {
	s := NewChanSource(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := s.ReadBlocking(ctx)
	assert.False(t, ok)
}

func TestMouseCallback(t *testing.T) {
	s := NewChanSource(1)
	var got MouseReport
	s.OnMouse(func(r MouseReport) { got = r })
	s.PushMouse(MouseReport{Buttons: 1, DX: -3, DY: 7})
	assert.Equal(t, MouseReport{Buttons: 1, DX: -3, DY: 7}, got)
}

func TestModifierFormatting(t *testing.T) {
	assert.Equal(t, "none", Modifiers(0).String())
	assert.Equal(t, "shift+ctrl", (ModShift | ModCtrl).String())
	assert.Equal(t, "shift+break", (ModShift | ModBreak).String())

	sc := ScanCode{Key: 0x1C, Mod: ModShift}
	assert.Equal(t, "key=0x1c mod=shift", sc.String())
	assert.True(t, ScanCode{Key: 0x1C, Mod: ModBreak}.IsBreak())
}
