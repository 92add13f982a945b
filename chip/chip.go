// Package chip holds the authoritative peripheral interrupt layout of each
// supported chip variant.
//
// A variant's block is dense: slot i is hardware interrupt line i. Slots with
// no peripheral on the variant are reserved and carry no name.
package chip

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ReservedName marks a reserved slot in variant data.
const ReservedName = "reserved"

// HandlerSuffix is appended to a line name to form its handler symbol.
const HandlerSuffix = "_Handler"

// MaxLines bounds the peripheral block: Cortex-M NVICs have at most 496
// external interrupt lines.
const MaxLines = 496

var (
	ErrInvalidVariant  = errors.New("invalid chip variant")
	ErrVariantNotFound = errors.New("chip variant not found")
	ErrExtendsCycle    = errors.New("chip variants extend each other in a cycle")
	ErrConflictingLine = errors.New("conflicting interrupt names at one index")
	ErrUnknownLine     = errors.New("unknown interrupt line")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Line is a single peripheral interrupt line.
type Line struct {
	Name  string
	Index int
}

// Reserved reports whether the line has no peripheral assigned.
func (l Line) Reserved() bool {
	return len(l.Name) == 0
}

// Handler returns the handler symbol bound to this line, or an empty string
// for reserved lines.
func (l Line) Handler() string {
	if l.Reserved() {
		return ""
	}
	return l.Name + HandlerSuffix
}

func (l Line) String() string {
	if l.Reserved() {
		return fmt.Sprintf("%d:%s", l.Index, ReservedName)
	}
	return fmt.Sprintf("%d:%s", l.Index, l.Name)
}

// Interrupt is a sparse vendor interrupt description.
type Interrupt struct {
	Name    string
	Index   int
	Caption string
}

// Variant is the peripheral vector block of one chip variant.
type Variant struct {
	Name      string `yaml:"name"`
	Series    string `yaml:"series,omitempty"`
	Version   string `yaml:"version,omitempty"`
	Reference string `yaml:"reference,omitempty"`

	// Extends names a variant whose slots are copied before Count and Patch
	// are applied.
	Extends string         `yaml:"extends,omitempty"`
	Count   int            `yaml:"count,omitempty"`
	Slots   []string       `yaml:"lines,omitempty"`
	Patch   map[int]string `yaml:"patch,omitempty"`

	Captions map[int]string `yaml:"captions,omitempty"`
}

// Len returns the number of slots in the block.
func (v Variant) Len() int {
	return len(v.Slots)
}

// Line returns the line at index i.
func (v Variant) Line(i int) (Line, bool) {
	if i < 0 || i >= len(v.Slots) {
		return Line{}, false
	}
	return Line{Name: v.Slots[i], Index: i}, true
}

// Lines returns every slot of the block in index order.
func (v Variant) Lines() []Line {
	lines := make([]Line, len(v.Slots))
	for i, name := range v.Slots {
		lines[i] = Line{Name: name, Index: i}
	}
	return lines
}

// Named returns the non-reserved lines in index order.
func (v Variant) Named() []Line {
	var lines []Line
	for i, name := range v.Slots {
		if len(name) > 0 {
			lines = append(lines, Line{Name: name, Index: i})
		}
	}
	return lines
}

// Lookup finds a line by its name or its handler symbol.
func (v Variant) Lookup(name string) (Line, error) {
	name = strings.TrimSuffix(name, HandlerSuffix)
	if len(name) == 0 || isReserved(name) {
		return Line{}, fmt.Errorf("%w: %q", ErrUnknownLine, name)
	}
	if i := slices.Index(v.Slots, name); i >= 0 {
		return Line{Name: name, Index: i}, nil
	}
	return Line{}, fmt.Errorf("%w: %s has no line %q", ErrUnknownLine, v.Name, name)
}

// Caption returns the description of slot i, if any.
func (v Variant) Caption(i int) string {
	return v.Captions[i]
}

// Validate checks that the block is usable as a vector table.
func (v Variant) Validate() error {
	if !validVariantName(v.Name) {
		return fmt.Errorf("%w: bad variant name %q", ErrInvalidVariant, v.Name)
	}

	if len(v.Slots) == 0 {
		return fmt.Errorf("%w: %s has no interrupt lines", ErrInvalidVariant, v.Name)
	}

	if len(v.Slots) > MaxLines {
		return fmt.Errorf("%w: %s has %d lines, more than %d", ErrInvalidVariant, v.Name, len(v.Slots), MaxLines)
	}

	if v.Count != 0 && v.Count != len(v.Slots) {
		return fmt.Errorf("%w: %s declares %d lines but has %d", ErrInvalidVariant, v.Name, v.Count, len(v.Slots))
	}

	if len(v.Patch) > 0 || len(v.Extends) > 0 {
		return fmt.Errorf("%w: %s is not resolved", ErrInvalidVariant, v.Name)
	}

	seen := map[string]int{}
	for i, name := range v.Slots {
		if len(name) == 0 {
			continue
		}
		if !identifier.MatchString(name) {
			return fmt.Errorf("%w: %s line %d has bad name %q", ErrInvalidVariant, v.Name, i, name)
		}
		if j, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s names %q at both %d and %d", ErrInvalidVariant, v.Name, name, j, i)
		}
		seen[name] = i
	}

	for i := range v.Captions {
		if i < 0 || i >= len(v.Slots) {
			return fmt.Errorf("%w: %s has a caption for missing line %d", ErrInvalidVariant, v.Name, i)
		}
	}

	return nil
}

// resolve applies Extends, Count and Patch. base must already be resolved
// when Extends is set.
func (v Variant) resolve(base *Variant) (Variant, error) {
	out := v
	out.Slots = nil
	out.Captions = nil

	if base != nil {
		if len(v.Slots) > 0 {
			return Variant{}, fmt.Errorf("%w: %s both extends %s and lists lines", ErrInvalidVariant, v.Name, base.Name)
		}
		out.Slots = slices.Clone(base.Slots)
		out.Captions = maps.Clone(base.Captions)
		if len(out.Series) == 0 {
			out.Series = base.Series
		}
	} else {
		for _, name := range v.Slots {
			out.Slots = append(out.Slots, normalize(name))
		}
	}

	for i, caption := range v.Captions {
		if out.Captions == nil {
			out.Captions = map[int]string{}
		}
		out.Captions[i] = caption
	}

	if v.Count < 0 || v.Count > MaxLines {
		return Variant{}, fmt.Errorf("%w: %s declares %d lines", ErrInvalidVariant, v.Name, v.Count)
	}
	if v.Count > 0 {
		for len(out.Slots) < v.Count {
			out.Slots = append(out.Slots, "")
		}
		if base != nil && len(out.Slots) > v.Count {
			out.Slots = out.Slots[:v.Count]
			for i := range out.Captions {
				if i >= v.Count {
					delete(out.Captions, i)
				}
			}
		}
	}

	for i, name := range v.Patch {
		if i < 0 || i >= len(out.Slots) {
			return Variant{}, fmt.Errorf("%w: %s patches missing line %d", ErrInvalidVariant, v.Name, i)
		}
		out.Slots[i] = normalize(name)
		if _, ok := v.Captions[i]; !ok {
			delete(out.Captions, i)
		}
	}

	out.Extends = ""
	out.Patch = nil
	out.Count = len(out.Slots)
	return out, nil
}

// FromInterrupts builds a dense variant from a sparse vendor interrupt list.
// Holes, and slots up to count, are reserved.
func FromInterrupts(name string, irqs []Interrupt, count int) (Variant, error) {
	v := Variant{
		Name:     name,
		Captions: map[int]string{},
	}

	if count < 0 || count > MaxLines {
		return Variant{}, fmt.Errorf("%w: %s declares %d lines", ErrInvalidVariant, name, count)
	}

	size := count
	for _, irq := range irqs {
		if irq.Index < 0 || irq.Index >= MaxLines {
			return Variant{}, fmt.Errorf("%w: %s has index %d for %s out of range", ErrInvalidVariant, name, irq.Index, irq.Name)
		}
		if irq.Index+1 > size {
			size = irq.Index + 1
		}
	}

	v.Slots = make([]string, size)
	for _, irq := range irqs {
		irqName := normalize(irq.Name)
		if current := v.Slots[irq.Index]; len(current) > 0 && current != irqName {
			return Variant{}, fmt.Errorf("%w: %s index %d is both %s and %s", ErrConflictingLine, name, irq.Index, current, irqName)
		}
		v.Slots[irq.Index] = irqName
		if len(irq.Caption) > 0 {
			v.Captions[irq.Index] = irq.Caption
		}
	}

	if len(v.Captions) == 0 {
		v.Captions = nil
	}
	v.Count = len(v.Slots)

	return v, v.Validate()
}

func normalize(name string) string {
	name = strings.TrimSpace(name)
	if isReserved(name) {
		return ""
	}
	return strings.TrimSuffix(name, HandlerSuffix)
}

func isReserved(name string) bool {
	return strings.EqualFold(name, ReservedName)
}

func validVariantName(name string) bool {
	// Variant names may contain dashes, e.g. "nrf52-legacy".
	return identifier.MatchString(strings.ReplaceAll(name, "-", "_"))
}

