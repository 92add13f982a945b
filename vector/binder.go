package vector

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/isrgen/chip"
)

// Overrides maps line names, or their handler symbols, to application
// handlers.
type Overrides map[string]Handler

// Option configures a Binder.
type Option func(*Binder)

// WithDefault replaces DefaultHandler as the fallback for unbound lines.
func WithDefault(h Handler) Option {
	return func(b *Binder) {
		if h != nil {
			b.stub = h
		}
	}
}

// Binder collects application handlers for a variant and produces the final
// table once. It is not safe for concurrent use.
type Binder struct {
	variant   chip.Variant
	stub      Handler
	handlers  []Handler
	finalized bool
}

// NewBinder starts a table for the variant.
func NewBinder(v chip.Variant, opts ...Option) (*Binder, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	b := &Binder{
		variant:  v,
		stub:     DefaultHandler,
		handlers: make([]Handler, v.Len()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Bind installs h for the line with the given name or handler symbol.
func (b *Binder) Bind(name string, h Handler) error {
	if b.finalized {
		return ErrFinalized
	}

	line, err := b.variant.Lookup(name)
	if err != nil {
		return err
	}
	return b.bind(line, h)
}

// BindIndex installs h for line i. Reserved slots cannot be bound.
func (b *Binder) BindIndex(i int, h Handler) error {
	if b.finalized {
		return ErrFinalized
	}

	line, ok := b.variant.Line(i)
	if !ok {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, b.variant.Len())
	}
	if line.Reserved() {
		return fmt.Errorf("%w: %s", ErrReservedSlot, line)
	}
	return b.bind(line, h)
}

func (b *Binder) bind(line chip.Line, h Handler) error {
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, line.Handler())
	}
	if b.handlers[line.Index] != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, line.Handler())
	}
	b.handlers[line.Index] = h
	return nil
}

// Apply binds every override in key order and reports all failures.
func (b *Binder) Apply(o Overrides) error {
	keys := maps.Keys(o)
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		if err := b.Bind(key, o[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Finalize resolves every unbound named line to the default stub and returns
// the table. The binder cannot be used afterwards.
func (b *Binder) Finalize() (*Table, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true

	t := &Table{
		variant: b.variant,
		stub:    b.stub,
		entries: make([]Entry, b.variant.Len()),
	}
	for _, line := range b.variant.Lines() {
		switch h := b.handlers[line.Index]; {
		case line.Reserved():
			t.entries[line.Index] = reservedEntry(line)
		case h != nil:
			t.entries[line.Index] = boundEntry(line, h, true)
		default:
			t.entries[line.Index] = boundEntry(line, b.stub, false)
		}
	}
	b.handlers = nil

	return t, nil
}

// Build binds the overrides and finalizes the table in one step.
func Build(v chip.Variant, o Overrides, opts ...Option) (*Table, error) {
	b, err := NewBinder(v, opts...)
	if err != nil {
		return nil, err
	}
	if err = b.Apply(o); err != nil {
		return nil, err
	}
	return b.Finalize()
}
