// Package types holds the scalar types shared by the vendor device
// description decoders.
package types

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Integer is a signed value written in decimal or with a 0x prefix.
type Integer int64

func (i *Integer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) (err error) {
	var v string
	if err = d.DecodeElement(&v, &start); err != nil {
		return err
	}
	return i.parse(v)
}

func (i *Integer) UnmarshalXMLAttr(attr xml.Attr) error {
	return i.parse(attr.Value)
}

func (i *Integer) parse(v string) error {
	v = strings.ReplaceAll(strings.TrimSpace(v), "X", "x")
	negative := strings.HasPrefix(v, "-")
	v = strings.TrimPrefix(v, "-")

	var value int64
	var err error
	if strings.HasPrefix(v, "0x") {
		value, err = strconv.ParseInt(strings.TrimPrefix(v, "0x"), 16, 64)
	} else {
		value, err = strconv.ParseInt(v, 10, 64)
	}
	if err != nil {
		return err
	}

	if negative {
		value = -value
	}
	*i = Integer(value)
	return nil
}
