package isr

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/tools/imports"

	"omibyte.io/isrgen/chip"
)

// PackageName returns the Go package and build tag name for a variant.
func PackageName(v chip.Variant) string {
	return strings.ReplaceAll(strings.ToLower(v.Name), "-", "_")
}

func writePreamble(w io.Writer, tag string, pkg string) {
	// Write build tag
	fmt.Fprintf(w, "//go:build %s\n\n", tag)
	fmt.Fprintln(w, "// Code generated by isrgen. DO NOT EDIT.")
	fmt.Fprintln(w)

	// Write the package
	fmt.Fprintln(w, "package", pkg)
}

// WriteGo writes interrupt constants and the handler symbol table for a
// variant as a Go source file.
func WriteGo(w io.Writer, v chip.Variant, pkg string) error {
	if len(pkg) == 0 {
		pkg = PackageName(v)
	}

	var b strings.Builder
	writePreamble(&b, PackageName(v), pkg)

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "// Interrupt is a peripheral interrupt line number.")
	fmt.Fprintln(&b, "type Interrupt int16")
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "const (")
	for _, line := range v.Named() {
		comment := ""
		if caption := v.Caption(line.Index); len(caption) > 0 {
			comment = " // " + strings.Join(strings.Fields(caption), " ")
		}
		fmt.Fprintf(&b, "IRQ_%s Interrupt = %d%s\n", line.Name, line.Index, comment)
	}
	fmt.Fprintln(&b, ")")
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "// NumInterrupts is the length of the peripheral vector block.")
	fmt.Fprintf(&b, "const NumInterrupts = %d\n\n", v.Len())

	fmt.Fprintln(&b, "// Handlers holds the handler symbol of every line. Reserved lines are empty.")
	fmt.Fprintln(&b, "var Handlers = [NumInterrupts]string{")
	for _, line := range v.Lines() {
		if line.Reserved() {
			fmt.Fprintf(&b, "\"\", // %d: reserved\n", line.Index)
		} else {
			fmt.Fprintf(&b, "%q,\n", line.Handler())
		}
	}
	fmt.Fprintln(&b, "}")

	// Format the final output
	fname := PackageName(v) + "/" + FormatGo.FileName()
	buf, err := imports.Process(fname, []byte(b.String()), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return fmt.Errorf("error formatting %s: %v", fname, err)
	}

	_, err = w.Write(buf)
	return err
}
