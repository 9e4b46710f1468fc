package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	table := Default()
	data := Encode(table)
	require.Equal(t, table.Len()*EntrySize, len(data))

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, table.Equal(decoded))

	// Serialization must be idempotent: encoding the decoded table yields
	// byte-identical output.
	assert.Equal(t, data, Encode(decoded))
}

func TestDecodeRejectsBadSizes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated record", data: make([]byte, EntrySize+3)},
		{name: "single byte", data: []byte{0x42}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			assert.ErrorIs(t, err, ErrShortRecord)
		})
	}
}

func TestDefaultTableInvariant(t *testing.T) {
	table := Default()
	require.NoError(t, table.Validate())

	// The default must carry fallback rows for the tracked modifiers.
	var modifierRows int
	for _, e := range table.Entries() {
		if e.Flags&FlagModifier != 0 {
			modifierRows++
		}
	}
	assert.GreaterOrEqual(t, modifierRows, 4)
}

func TestValidateRejectsDataAfterModifiers(t *testing.T) {
	table := New([]Entry{
		{SrcKey: ScanLShift, SrcMod: modShift, Layout: LayoutAny, Machine: MachineAny, OutCtrl: CtrlShift, Flags: FlagModifier},
		{SrcKey: ScanA, Layout: LayoutAny, Machine: MachineAny, OutKey: 'a'},
	})
	assert.Error(t, table.Validate())
}

func TestEntryMatching(t *testing.T) {
	row := Entry{SrcKey: ScanA, SrcMod: modShift, Layout: LayoutJIS, Machine: MachineAny, OutKey: 'A'}

	candidate, exact := row.Matches(ScanA, modShift, LayoutJIS, MachineX1)
	assert.True(t, candidate)
	assert.True(t, exact)

	// Extra relevant modifier bits demote the match to loose.
	candidate, exact = row.Matches(ScanA, modShift|modCtrl, LayoutJIS, MachineX1)
	assert.True(t, candidate)
	assert.False(t, exact)

	// Wrong layout selector excludes the row entirely.
	candidate, _ = row.Matches(ScanA, modShift, LayoutUS, MachineX1)
	assert.False(t, candidate)
}
