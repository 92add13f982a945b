// Package atdf decodes the interrupt tables of Atmel/Microchip device files.
package atdf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"omibyte.io/isrgen/chip"
	"omibyte.io/isrgen/chip/types"
)

type ATDF struct {
	Devices DevicesElement `xml:"devices"`
}

type DevicesElement struct {
	Elements []DeviceElement `xml:"device"`
}

type DeviceElement struct {
	Name         string            `xml:"name,attr"`
	Architecture string            `xml:"architecture,attr"`
	Family       string            `xml:"family,attr"`
	Series       string            `xml:"series,attr"`
	Interrupts   InterruptsElement `xml:"interrupts"`
}

type InterruptsElement struct {
	Elements []InterruptElement `xml:"interrupt"`
}

type InterruptElement struct {
	Name             string        `xml:"name,attr"`
	Index            types.Integer `xml:"index,attr"`
	Caption          string        `xml:"caption,attr,omitempty"`
	AlternateCaption string        `xml:"alternate-caption,attr"`
}

// Decode reads a device file.
func Decode(r io.Reader) (*ATDF, error) {
	def := &ATDF{}
	if err := xml.NewDecoder(r).Decode(def); err != nil {
		return nil, fmt.Errorf("atdf: xml decode error: %w", err)
	}
	return def, nil
}

// Variant converts one device's interrupt list into a chip variant. Negative
// indices belong to the core exception table and are skipped.
func Variant(device DeviceElement) (chip.Variant, error) {
	var irqs []chip.Interrupt
	for _, irq := range device.Interrupts.Elements {
		if irq.Index < 0 {
			continue
		}
		caption := irq.Caption
		if len(caption) == 0 {
			caption = irq.AlternateCaption
		}
		irqs = append(irqs, chip.Interrupt{
			Name:    irq.Name,
			Index:   int(irq.Index),
			Caption: caption,
		})
	}

	v, err := chip.FromInterrupts(strings.ToLower(device.Name), irqs, 0)
	if err != nil {
		return chip.Variant{}, err
	}
	v.Series = strings.ToLower(device.Series)
	v.Reference = "ATDF " + device.Name
	return v, nil
}

// Variants converts every device in the file.
func Variants(def *ATDF) ([]chip.Variant, error) {
	var variants []chip.Variant
	for _, device := range def.Devices.Elements {
		v, err := Variant(device)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}
