// Package vector builds the peripheral interrupt vector table of a chip
// variant.
//
// Every named line resolves to exactly one handler: the one the application
// bound to it, or the shared default stub. Reserved slots never hold a
// handler.
package vector

import (
	"errors"
	"reflect"

	"omibyte.io/isrgen/chip"
)

var (
	ErrNilHandler       = errors.New("nil interrupt handler")
	ErrDuplicateHandler = errors.New("interrupt handler defined more than once")
	ErrReservedSlot     = errors.New("interrupt slot is reserved")
	ErrIndexOutOfRange  = errors.New("interrupt index out of range")
	ErrFinalized        = errors.New("vector table already finalized")
	ErrZeroAddress      = errors.New("interrupt handler resolved to address zero")
)

// Handler is an interrupt service routine.
type Handler func()

// DefaultHandler is the shared stub for lines the application does not
// handle. It returns immediately.
func DefaultHandler() {}

// AddressFunc resolves the code address of a handler.
type AddressFunc func(Handler) uint64

// FuncAddress returns the entry address of h's code.
func FuncAddress(h Handler) uint64 {
	if h == nil {
		return 0
	}
	return uint64(reflect.ValueOf(h).Pointer())
}

type kind uint8

const (
	reserved kind = iota
	bound
)

// Entry is one slot of the table: either reserved or bound to a handler.
type Entry struct {
	kind       kind
	line       chip.Line
	handler    Handler
	overridden bool
}

func reservedEntry(line chip.Line) Entry {
	return Entry{kind: reserved, line: line}
}

func boundEntry(line chip.Line, h Handler, overridden bool) Entry {
	return Entry{kind: bound, line: line, handler: h, overridden: overridden}
}

// Line returns the interrupt line this slot serves.
func (e Entry) Line() chip.Line {
	return e.line
}

// Reserved reports whether the slot has no handler.
func (e Entry) Reserved() bool {
	return e.kind == reserved
}

// Handler returns the bound handler. ok is false for reserved slots.
func (e Entry) Handler() (h Handler, ok bool) {
	if e.kind != bound {
		return nil, false
	}
	return e.handler, true
}

// Overridden reports whether the application supplied the handler.
func (e Entry) Overridden() bool {
	return e.kind == bound && e.overridden
}

// Symbol returns the handler symbol of the slot, or "" when reserved.
func (e Entry) Symbol() string {
	if e.kind != bound {
		return ""
	}
	return e.line.Handler()
}

func (e Entry) String() string {
	switch {
	case e.kind == reserved:
		return e.line.String()
	case e.overridden:
		return e.line.String() + " (application)"
	default:
		return e.line.String() + " (default)"
	}
}
