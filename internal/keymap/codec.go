package keymap

import (
	"errors"
	"fmt"
)

// The on-disk format is a flat array of EntrySize-byte records with no
// header; the row count is derived from the file size.

var ErrShortRecord = errors.New("keymap: data is not a multiple of the record size")

// Encode serializes the table to its binary form.
func Encode(t *Table) []byte {
	buf := make([]byte, 0, t.Len()*EntrySize)
	for _, e := range t.Entries() {
		buf = append(buf,
			e.SrcKey, e.SrcMod, uint8(e.Layout), uint8(e.Machine),
			uint8(e.Mode), e.OutKey, e.OutCtrl, e.Flags,
		)
	}
	return buf
}

// Decode parses a binary keymap. Zero-length data and sizes that are not a
// multiple of EntrySize are rejected; the caller decides the fallback.
func Decode(data []byte) (*Table, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("keymap: empty data: %w", ErrShortRecord)
	}
	if len(data)%EntrySize != 0 {
		return nil, fmt.Errorf("keymap: %d bytes: %w", len(data), ErrShortRecord)
	}
	entries := make([]Entry, 0, len(data)/EntrySize)
	for off := 0; off < len(data); off += EntrySize {
		rec := data[off : off+EntrySize]
		entries = append(entries, Entry{
			SrcKey:  rec[0],
			SrcMod:  rec[1],
			Layout:  Layout(rec[2]),
			Machine: Machine(rec[3]),
			Mode:    Mode(rec[4]),
			OutKey:  rec[5],
			OutCtrl: rec[6],
			Flags:   rec[7],
		})
	}
	return New(entries), nil
}
