package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/isrgen/chip"
)

const svdDevice = `<device>
  <name>tiny</name>
  <peripherals>
    <peripheral>
      <name>TIMER0</name>
      <interrupt><name>TIMER0</name><value>2</value></interrupt>
    </peripheral>
  </peripherals>
</device>
`

func TestImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tiny.svd")
	require.NoError(t, os.WriteFile(in, []byte(svdDevice), 0640))

	variants, err := importFile(in)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, []string{"", "", "TIMER0"}, variants[0].Slots)

	var buf bytes.Buffer
	require.NoError(t, chip.MarshalCatalog(&buf, variants...))
	out := filepath.Join(dir, "tiny.yaml")
	require.NoError(t, os.WriteFile(out, buf.Bytes(), 0640))

	catalog, names, err := loadCatalogFile(chip.Builtin(), out)
	require.NoError(t, err)
	assert.Equal(t, []string{"tiny"}, names)
	v, err := catalog.Find("tiny")
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())

	variantFiles = []string{out}
	defer func() { variantFiles = nil }()
	merged, err := loadCatalog()
	require.NoError(t, err)
	assert.Contains(t, merged.Names(), "tiny")
	assert.Contains(t, merged.Names(), "nrf52")
}

func TestLoadCatalogExtendsBuiltin(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lite.yaml")
	require.NoError(t, os.WriteFile(out, []byte(`variants:
  - name: nrf52-lite
    extends: nrf52
    count: 8
`), 0640))

	variantFiles = []string{out}
	defer func() { variantFiles = nil }()
	catalog, err := loadCatalog()
	require.NoError(t, err)

	v, err := catalog.Find("nrf52-lite")
	require.NoError(t, err)
	assert.Equal(t, 8, v.Len())
	assert.Equal(t, "RADIO", v.Slots[1])
}

func TestImportUnsupported(t *testing.T) {
	in := filepath.Join(t.TempDir(), "device.xml")
	require.NoError(t, os.WriteFile(in, []byte("<x/>"), 0640))

	_, err := importFile(in)
	assert.ErrorContains(t, err, "unsupported file type")
}
