package vector

import (
	"fmt"

	"omibyte.io/isrgen/chip"
)

// Table is a finalized peripheral vector table. It is immutable and safe for
// concurrent reads.
type Table struct {
	variant chip.Variant
	stub    Handler
	entries []Entry
}

func (t *Table) Variant() chip.Variant {
	return t.variant
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Entry returns slot i.
func (t *Table) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of every slot in index order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the slot of a named line.
func (t *Table) Lookup(name string) (Entry, error) {
	line, err := t.variant.Lookup(name)
	if err != nil {
		return Entry{}, err
	}
	return t.entries[line.Index], nil
}

// Dispatch runs the handler of line i the way the processor would. It
// returns false when the slot is reserved or does not exist.
func (t *Table) Dispatch(i int) bool {
	e, ok := t.Entry(i)
	if !ok || e.Reserved() {
		return false
	}
	e.handler()
	return true
}

// IsDefault reports whether line i falls back to the default stub.
func (t *Table) IsDefault(i int) bool {
	e, ok := t.Entry(i)
	return ok && !e.Reserved() && !e.overridden
}

// Default returns the stub unbound lines resolve to.
func (t *Table) Default() Handler {
	return t.stub
}

// Words lays the table out as host-sized words: the handler address of every
// bound slot and 0 for reserved ones. A nil addr uses FuncAddress. A bound
// slot resolving to address 0 is an error, since 0 marks a reserved slot.
func (t *Table) Words(addr AddressFunc) ([]uint64, error) {
	if addr == nil {
		addr = FuncAddress
	}

	words := make([]uint64, len(t.entries))
	for i, e := range t.entries {
		if e.Reserved() {
			continue
		}
		if words[i] = addr(e.handler); words[i] == 0 {
			return nil, fmt.Errorf("%w: %s", ErrZeroAddress, e.Symbol())
		}
	}
	return words, nil
}

// Symbols returns the handler symbol of every slot, "" when reserved.
func (t *Table) Symbols() []string {
	symbols := make([]string, len(t.entries))
	for i, e := range t.entries {
		symbols[i] = e.Symbol()
	}
	return symbols
}

// Overridden returns the lines bound to application handlers.
func (t *Table) Overridden() []chip.Line {
	var lines []chip.Line
	for _, e := range t.entries {
		if e.Overridden() {
			lines = append(lines, e.line)
		}
	}
	return lines
}
