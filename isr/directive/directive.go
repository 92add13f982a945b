// Package directive finds interrupt handler overrides declared in Go source.
//
// A Go function takes over a vector slot with
//
//	//sigo:interrupt _RADIO_Handler RADIO_Handler
//	func _RADIO_Handler() { ... }
//
// or with a //go:linkname directive whose target is a handler symbol.
package directive

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/packages"

	"omibyte.io/isrgen/chip"
	"omibyte.io/isrgen/vector"
)

const (
	interruptPrefix = "//sigo:interrupt"
	linknamePrefix  = "//go:linkname"
)

var ErrMalformed = errors.New("malformed interrupt directive")

// Core exception handlers live in the core vector table, not the peripheral
// block.
var coreHandlers = []string{
	"Reset_Handler",
	"NMI_Handler",
	"HardFault_Handler",
	"MemoryManagement_Handler",
	"BusFault_Handler",
	"UsageFault_Handler",
	"SVC_Handler",
	"DebugMon_Handler",
	"PendSV_Handler",
	"SysTick_Handler",
}

type Directive struct {
	Func   string
	Symbol string
	Pos    token.Position
}

func (d Directive) String() string {
	return fmt.Sprintf("%s: %s -> %s", d.Pos, d.Func, d.Symbol)
}

// Scan collects every handler directive in the files, in source order.
func Scan(fset *token.FileSet, files ...*ast.File) ([]Directive, error) {
	var directives []Directive
	var errs []error
	for _, f := range files {
		for _, group := range f.Comments {
			for _, c := range group.List {
				d, ok, err := parse(c.Text)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", fset.Position(c.Slash), err))
					continue
				}
				if ok {
					d.Pos = fset.Position(c.Slash)
					directives = append(directives, d)
				}
			}
		}
	}
	return directives, errors.Join(errs...)
}

func parse(text string) (Directive, bool, error) {
	switch {
	case strings.HasPrefix(text, interruptPrefix+" "):
		fields := strings.Fields(strings.TrimPrefix(text, interruptPrefix))
		if len(fields) != 2 {
			return Directive{}, false, fmt.Errorf("%w: %q", ErrMalformed, text)
		}
		return Directive{Func: fields[0], Symbol: fields[1]}, true, nil
	case strings.HasPrefix(text, linknamePrefix+" "):
		fields := strings.Fields(strings.TrimPrefix(text, linknamePrefix))
		if len(fields) != 2 || !strings.HasSuffix(fields[1], chip.HandlerSuffix) {
			// Not a handler binding.
			return Directive{}, false, nil
		}
		return Directive{Func: fields[0], Symbol: fields[1]}, true, nil
	}
	return Directive{}, false, nil
}

// Overrides checks the directives against a variant and returns one
// placeholder handler per bound line. Core exception handlers are skipped.
func Overrides(v chip.Variant, directives []Directive) (vector.Overrides, error) {
	overrides := vector.Overrides{}
	first := map[string]Directive{}

	var errs []error
	for _, d := range directives {
		if slices.Contains(coreHandlers, d.Symbol) {
			continue
		}

		line, err := v.Lookup(d.Symbol)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Pos, err))
			continue
		}

		if prev, ok := first[line.Name]; ok {
			errs = append(errs, fmt.Errorf("%s: %w: %s also bound by %s at %s", d.Pos, vector.ErrDuplicateHandler, line.Handler(), prev.Func, prev.Pos))
			continue
		}
		first[line.Name] = d
		overrides[line.Name] = func() {}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return overrides, nil
}

// Load parses the packages matching patterns and scans them.
func Load(ctx context.Context, dir string, tags []string, patterns ...string) ([]Directive, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Fset:    token.NewFileSet(),
	}
	if len(tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, err
	}

	var directives []Directive
	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, pkgErr := range pkg.Errors {
			errs = append(errs, pkgErr)
		}
		found, err := Scan(cfg.Fset, pkg.Syntax...)
		if err != nil {
			errs = append(errs, err)
		}
		directives = append(directives, found...)
	})

	if len(errs) > 0 {
		return directives, errors.Join(errs...)
	}
	return directives, nil
}
