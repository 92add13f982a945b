// Package svd decodes the interrupt lists of CMSIS System View Description
// files.
package svd

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"omibyte.io/isrgen/chip"
	"omibyte.io/isrgen/chip/types"
)

type DeviceElement struct {
	Name        string             `xml:"name"`
	Description string             `xml:"description"`
	Series      string             `xml:"series"`
	Version     string             `xml:"version"`
	Vendor      string             `xml:"vendor"`
	CPU         CPUElement         `xml:"cpu"`
	Peripherals PeripheralsElement `xml:"peripherals"`
}

type CPUElement struct {
	Name             string        `xml:"name"`
	Revision         string        `xml:"revision"`
	NVICPriorityBits types.Integer `xml:"nvicPrioBits"`
	// DeviceNumInterrupts is optional; when present it fixes the block
	// length, including trailing reserved lines.
	DeviceNumInterrupts types.Integer `xml:"deviceNumInterrupts"`
}

type PeripheralsElement struct {
	Elements []PeripheralElement `xml:"peripheral"`
}

type PeripheralElement struct {
	Name        string             `xml:"name"`
	Description string             `xml:"description"`
	Group       string             `xml:"groupName"`
	Interrupts  []InterruptElement `xml:"interrupt"`
	DerivedFrom string             `xml:"derivedFrom,attr"`
}

type InterruptElement struct {
	Name        string        `xml:"name"`
	Description string        `xml:"description"`
	Value       types.Integer `xml:"value"`
}

// Decode reads a device description.
func Decode(r io.Reader) (*DeviceElement, error) {
	def := &DeviceElement{}
	if err := xml.NewDecoder(r).Decode(def); err != nil {
		return nil, fmt.Errorf("svd: xml decode error: %w", err)
	}
	return def, nil
}

// Variant converts the device's interrupt list into a chip variant.
// Peripherals sharing an interrupt repeat the same name, so the first
// declaration of a value wins.
func Variant(def *DeviceElement) (chip.Variant, error) {
	var irqs []chip.Interrupt
	seen := map[types.Integer]struct{}{}
	for _, periph := range def.Peripherals.Elements {
		for _, irq := range periph.Interrupts {
			if _, ok := seen[irq.Value]; ok {
				continue
			}
			seen[irq.Value] = struct{}{}
			irqs = append(irqs, chip.Interrupt{
				Name:    irq.Name,
				Index:   int(irq.Value),
				Caption: strings.Join(strings.Fields(irq.Description), " "),
			})
		}
	}

	v, err := chip.FromInterrupts(strings.ToLower(def.Name), irqs, int(def.CPU.DeviceNumInterrupts))
	if err != nil {
		return chip.Variant{}, err
	}
	v.Series = strings.ToLower(def.Series)
	v.Version = def.Version
	v.Reference = strings.Join(strings.Fields("SVD "+def.Vendor+" "+def.Name+" "+def.Version), " ")
	return v, nil
}
