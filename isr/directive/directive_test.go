package directive

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/isrgen/chip"
	"omibyte.io/isrgen/vector"
)

const board = `package board

import _ "unsafe"

//sigo:interrupt _RADIO_Handler RADIO_Handler
func _RADIO_Handler() {}

//sigo:interrupt _SysTick_Handler SysTick_Handler
func _SysTick_Handler() {}

//go:linkname uartHandler UART0_Handler
func uartHandler() {}

//go:linkname nanotime runtime.nanotime
func nanotime() int64
`

func parseFile(t *testing.T, fset *token.FileSet, name, src string) *ast.File {
	f, err := parser.ParseFile(fset, name, src, parser.ParseComments)
	require.NoError(t, err)
	return f
}

func nrf52(t *testing.T) chip.Variant {
	v, err := chip.Builtin().Find("nrf52")
	require.NoError(t, err)
	return v
}

func TestScan(t *testing.T) {
	fset := token.NewFileSet()
	directives, err := Scan(fset, parseFile(t, fset, "board.go", board))
	require.NoError(t, err)

	require.Len(t, directives, 3)
	assert.Equal(t, "_RADIO_Handler", directives[0].Func)
	assert.Equal(t, "RADIO_Handler", directives[0].Symbol)
	assert.Equal(t, 5, directives[0].Pos.Line)
	assert.Equal(t, "SysTick_Handler", directives[1].Symbol)
	assert.Equal(t, "uartHandler", directives[2].Func)
	assert.Equal(t, "UART0_Handler", directives[2].Symbol)
}

func TestScanMalformed(t *testing.T) {
	fset := token.NewFileSet()
	f := parseFile(t, fset, "bad.go", `package bad

//sigo:interrupt onlyone
func onlyone() {}
`)
	_, err := Scan(fset, f)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestOverrides(t *testing.T) {
	v := nrf52(t)
	fset := token.NewFileSet()
	directives, err := Scan(fset, parseFile(t, fset, "board.go", board))
	require.NoError(t, err)

	overrides, err := Overrides(v, directives)
	require.NoError(t, err)
	assert.Len(t, overrides, 2)

	table, err := vector.Build(v, overrides)
	require.NoError(t, err)
	assert.Equal(t, []chip.Line{{Name: "RADIO", Index: 1}, {Name: "UART0", Index: 2}}, table.Overridden())
	assert.True(t, table.IsDefault(0))
}

func TestOverridesDuplicate(t *testing.T) {
	fset := token.NewFileSet()
	a := parseFile(t, fset, "a.go", `package board

//sigo:interrupt radioA RADIO_Handler
func radioA() {}
`)
	b := parseFile(t, fset, "b.go", `package board

//go:linkname radioB RADIO_Handler
func radioB() {}
`)
	directives, err := Scan(fset, a, b)
	require.NoError(t, err)

	_, err = Overrides(nrf52(t), directives)
	assert.ErrorIs(t, err, vector.ErrDuplicateHandler)
	assert.ErrorContains(t, err, "a.go:3")
}

func TestOverridesUnknown(t *testing.T) {
	directives := []Directive{{Func: "f", Symbol: "USBD_Handler"}}

	_, err := Overrides(nrf52(t), directives)
	assert.ErrorIs(t, err, chip.ErrUnknownLine)

	v, err := chip.Builtin().Find("nrf52840")
	require.NoError(t, err)
	overrides, err := Overrides(v, directives)
	require.NoError(t, err)
	assert.Contains(t, overrides, "USBD")
}

func TestLoad(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	ctx := context.Background()
	dir := filepath.Join("testdata", "board")

	directives, err := Load(ctx, dir, nil, "./...")
	require.NoError(t, err)
	require.Len(t, directives, 1)
	assert.Equal(t, "_RADIO_Handler", directives[0].Func)
	assert.Equal(t, "RADIO_Handler", directives[0].Symbol)
	assert.Equal(t, "board.go", filepath.Base(directives[0].Pos.Filename))

	// Build tags select variant specific files.
	directives, err = Load(ctx, dir, []string{"nrf52840"}, "./...")
	require.NoError(t, err)
	var symbols []string
	for _, d := range directives {
		symbols = append(symbols, d.Symbol)
	}
	assert.ElementsMatch(t, []string{"RADIO_Handler", "USBD_Handler"}, symbols)

	v, err := chip.Builtin().Find("nrf52840")
	require.NoError(t, err)
	overrides, err := Overrides(v, directives)
	require.NoError(t, err)
	assert.Contains(t, overrides, "RADIO")
	assert.Contains(t, overrides, "USBD")

	_, err = Overrides(nrf52(t), directives)
	assert.ErrorIs(t, err, chip.ErrUnknownLine)
}
