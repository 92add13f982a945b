package svd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/isrgen/chip"
)

const device = `<?xml version="1.0" encoding="utf-8"?>
<device schemaVersion="1.1">
  <vendor>Nordic Semiconductor</vendor>
  <name>nrf52test</name>
  <version>1</version>
  <cpu>
    <name>CM4</name>
    <revision>r0p1</revision>
    <nvicPrioBits>3</nvicPrioBits>
    <deviceNumInterrupts>8</deviceNumInterrupts>
  </cpu>
  <peripherals>
    <peripheral>
      <name>CLOCK</name>
      <interrupt>
        <name>POWER_CLOCK</name>
        <value>0</value>
      </interrupt>
    </peripheral>
    <peripheral derivedFrom="CLOCK">
      <name>POWER</name>
      <interrupt>
        <name>POWER_CLOCK</name>
        <value>0</value>
      </interrupt>
    </peripheral>
    <peripheral>
      <name>RADIO</name>
      <interrupt>
        <name>RADIO</name>
        <description>2.4 GHz
          radio</description>
        <value>0x1</value>
      </interrupt>
    </peripheral>
    <peripheral>
      <name>GPIOTE</name>
      <interrupt>
        <name>GPIOTE</name>
        <value>6</value>
      </interrupt>
    </peripheral>
  </peripherals>
</device>
`

func TestVariant(t *testing.T) {
	assert := assert.New(t)

	def, err := Decode(strings.NewReader(device))
	require.NoError(t, err)

	v, err := Variant(def)
	require.NoError(t, err)

	assert.Equal("nrf52test", v.Name)
	assert.Equal("SVD Nordic Semiconductor nrf52test 1", v.Reference)
	// deviceNumInterrupts pads the block with trailing reserved lines.
	assert.Equal([]string{"POWER_CLOCK", "RADIO", "", "", "", "", "GPIOTE", ""}, v.Slots)
	assert.Equal("2.4 GHz radio", v.Caption(1))
}

func TestVariantConflict(t *testing.T) {
	def := &DeviceElement{
		Name: "bad",
		Peripherals: PeripheralsElement{Elements: []PeripheralElement{
			{Name: "A", Interrupts: []InterruptElement{{Name: "A", Value: 0}}},
			{Name: "B", Interrupts: []InterruptElement{{Name: "B", Value: 1}}},
		}},
	}
	v, err := Variant(def)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, v.Slots)

	def.Peripherals.Elements[1].Interrupts = append(def.Peripherals.Elements[1].Interrupts, InterruptElement{Name: "A", Value: 1})
	v, err = Variant(def)
	require.NoError(t, err, "the first declaration of a value wins")
	assert.Equal(t, "B", v.Slots[1])
}

func TestVariantBounds(t *testing.T) {
	tests := []struct {
		name  string
		count string
		value string
	}{
		{"negative interrupt count", "-4", "0"},
		{"huge interrupt count", "0x100000", "0"},
		{"huge value", "8", "0x7fffffff"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := strings.Replace(device, "<deviceNumInterrupts>8<", "<deviceNumInterrupts>"+tc.count+"<", 1)
			src = strings.Replace(src, "<value>6<", "<value>"+tc.value+"<", 1)

			def, err := Decode(strings.NewReader(src))
			require.NoError(t, err)

			_, err = Variant(def)
			assert.ErrorIs(t, err, chip.ErrInvalidVariant)
		})
	}
}
