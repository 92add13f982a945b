// Package isr writes the link-time form of a peripheral vector table: weak
// handler declarations aliased to a shared default handler, and the ordered
// table referencing them.
package isr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"omibyte.io/isrgen/chip"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Generator interface {
	Generate(out string) error
}

// Format selects an artifact to generate.
type Format string

const (
	FormatAssembly Format = "asm"
	FormatHeader   Format = "h"
	FormatGo       Format = "go"
)

// AllFormats lists every supported format in generation order.
var AllFormats = []Format{FormatAssembly, FormatHeader, FormatGo}

// FileName returns the name of the file the format is written to.
func (f Format) FileName() string {
	switch f {
	case FormatAssembly:
		return "isr-vector.s"
	case FormatHeader:
		return "peripheral_interrupts.h"
	case FormatGo:
		return "interrupts.go"
	}
	return ""
}

// ParseFormats parses a comma separated format list.
func ParseFormats(s string) ([]Format, error) {
	var formats []Format
	for _, field := range strings.Split(s, ",") {
		field = strings.ToLower(strings.TrimSpace(field))
		switch Format(field) {
		case "":
			continue
		case FormatAssembly, FormatHeader, FormatGo:
			formats = append(formats, Format(field))
		case "s":
			formats = append(formats, FormatAssembly)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, field)
		}
	}
	return formats, nil
}

type Options struct {
	Formats []Format

	// DefaultHandler is the symbol unbound handlers alias. When empty the
	// assembly uses Default_Handler and the C header Dummy_Handler.
	DefaultHandler string

	// Package is the Go package name; the variant name by default.
	Package string
}

type generator struct {
	variant chip.Variant
	opts    Options
}

// NewGenerator returns a generator writing the requested formats for v.
func NewGenerator(v chip.Variant, opts Options) Generator {
	if len(opts.Formats) == 0 {
		opts.Formats = AllFormats
	}
	return &generator{
		variant: v,
		opts:    opts,
	}
}

// OutputDir returns the directory a variant's artifacts are written to.
func OutputDir(out string, v chip.Variant) string {
	return filepath.Join(out, "chip", strings.ToLower(v.Name))
}

func (g *generator) Generate(out string) error {
	if err := g.variant.Validate(); err != nil {
		return err
	}

	// Create the output directory for the chip
	outputDir := OutputDir(out, g.variant)
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return err
	}

	for _, format := range g.opts.Formats {
		var w strings.Builder
		var err error
		switch format {
		case FormatAssembly:
			err = WriteAssembly(&w, g.variant, g.opts.DefaultHandler)
		case FormatHeader:
			err = WriteHeader(&w, g.variant, g.opts.DefaultHandler)
		case FormatGo:
			err = WriteGo(&w, g.variant, g.opts.Package)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
		}
		if err != nil {
			return err
		}

		fname := filepath.Join(outputDir, format.FileName())
		if err = os.WriteFile(fname, []byte(w.String()), 0640); err != nil {
			return err
		}
	}

	return nil
}
