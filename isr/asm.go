package isr

import (
	"fmt"
	"io"
	"strings"

	"omibyte.io/isrgen/chip"
)

const (
	defaultAsmHandler    = "Default_Handler"
	defaultHeaderHandler = "Dummy_Handler"
	forwardAsmHandler    = "Peripheral_Default_Handler"

	// PeripheralVectorSymbol labels the start of the peripheral block.
	PeripheralVectorSymbol = "__peripheral_vectors"
)

// WriteAssembly writes the GNU assembler form of the peripheral block. Weak
// handlers alias a default handler defined in the same file, since the
// assembler cannot alias an undefined symbol. When stub names another
// symbol, that local handler branches to it.
func WriteAssembly(w io.Writer, v chip.Variant, stub string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "// Peripheral interrupt vectors for %s", v.Name)
	if len(v.Version) > 0 {
		fmt.Fprintf(&b, " (version %s)", v.Version)
	}
	b.WriteString(".\n")
	if len(v.Reference) > 0 {
		fmt.Fprintf(&b, "// Reference: %s\n", v.Reference)
	}
	b.WriteString(".syntax unified\n\n")

	target := defaultAsmHandler
	if len(stub) == 0 || stub == defaultAsmHandler {
		b.WriteString(`// This is the default handler for interrupts, if triggered but not defined.
.section .text.Default_Handler
.global  Default_Handler
.type    Default_Handler, %function
Default_Handler:
    wfe
    b    Default_Handler
.size Default_Handler, .-Default_Handler

`)
	} else {
		target = forwardAsmHandler
		fmt.Fprintf(&b, `// Interrupts without a handler forward to %[2]s.
.section .text.%[1]s
.type    %[1]s, %%function
%[1]s:
    b    %[2]s
.size %[1]s, .-%[1]s

`, forwardAsmHandler, stub)
	}

	fmt.Fprintf(&b, `// Avoid the need for repeated .weak and .set instructions.
.macro IRQ handler
    .weak  \handler
    .set   \handler, %s
.endm

// Placed directly after the core exception vectors.
.section .isr_vector.peripheral, "a", %%progbits
.global  %s
%s:
`, target, PeripheralVectorSymbol, PeripheralVectorSymbol)

	for _, line := range v.Lines() {
		if line.Reserved() {
			fmt.Fprintf(&b, "    .long 0 /* %d: Reserved */\n", line.Index)
		} else {
			fmt.Fprintf(&b, "    .long %s /* %d */\n", line.Handler(), line.Index)
		}
	}
	fmt.Fprintf(&b, ".size %s, .-%s\n\n", PeripheralVectorSymbol, PeripheralVectorSymbol)

	// Create the weak bindings next
	for _, line := range v.Named() {
		comment := ""
		if caption := v.Caption(line.Index); len(caption) > 0 {
			comment = " /* " + sanitizeComment(caption) + " */"
		}
		fmt.Fprintf(&b, "    IRQ %s%s\n", line.Handler(), comment)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHeader writes the C preprocessor form: a vector list macro and a
// weak alias declaration macro. The compiler requires the alias target to be
// defined in the translation unit expanding the handler macro.
func WriteHeader(w io.Writer, v chip.Variant, stub string) error {
	if len(stub) == 0 {
		stub = defaultHeaderHandler
	}

	var b strings.Builder
	guard := "PERIPHERAL_INTERRUPTS_" + strings.ToUpper(strings.ReplaceAll(v.Name, "-", "_")) + "_H"

	fmt.Fprintf(&b, "// Peripheral interrupt vectors for %s.\n", v.Name)
	if len(v.Reference) > 0 {
		fmt.Fprintf(&b, "// Reference: %s\n", v.Reference)
	}
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)

	b.WriteString("#define PERIPHERAL_INTERRUPT_COUNT ")
	fmt.Fprintf(&b, "%d\n\n", v.Len())

	b.WriteString("#define PERIPHERAL_INTERRUPT_VECTORS \\\n")
	for i, line := range v.Lines() {
		sep := ", \\"
		if i == v.Len()-1 {
			sep = ""
		}
		if line.Reserved() {
			fmt.Fprintf(&b, "\t0 /* Reserved */%s\n", sep)
		} else {
			fmt.Fprintf(&b, "\t%s%s\n", line.Handler(), sep)
		}
	}
	b.WriteString("\n")

	named := v.Named()
	b.WriteString("#define PERIPHERAL_INTERRUPT_HANDLERS \\\n")
	for i, line := range named {
		sep := " \\"
		if i == len(named)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "\tvoid %s(void) __attribute__ ((weak, alias(\"%s\")));%s\n", line.Handler(), stub, sep)
	}

	fmt.Fprintf(&b, "\n#endif // %s\n", guard)

	_, err := io.WriteString(w, b.String())
	return err
}

func sanitizeComment(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.Join(strings.Fields(s), " ")
}
