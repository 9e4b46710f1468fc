package keymap

import "fmt"

// Table is an ordered sequence of entries. Row order is part of the contract:
// the mapping engine scans top to bottom and stops at the first exact match,
// so modifier-only fallback rows must come last.
type Table struct {
	entries []Entry
}

func New(entries []Entry) *Table {
	return &Table{entries: entries}
}

func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) Entries() []Entry {
	return t.entries
}

// At returns row i. Callers iterate 0..Len(); out of range panics like a
// slice index would.
func (t *Table) At(i int) Entry {
	return t.entries[i]
}

// Validate checks the modifiers-last invariant: no data row may follow a
// tracked-modifier row.
func (t *Table) Validate() error {
	seenModifier := false
	for i, e := range t.entries {
		if e.Flags&FlagModifier != 0 {
			seenModifier = true
			continue
		}
		if seenModifier {
			return fmt.Errorf("row %d: data row after modifier fallback rows", i)
		}
	}
	return nil
}

// Equal compares two tables row by row.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i, e := range t.entries {
		if e != other.entries[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy; the mapping engine replaces its table
// wholesale on reload, never in place.
func (t *Table) Clone() *Table {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return &Table{entries: entries}
}
