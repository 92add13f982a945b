package types

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteger(t *testing.T) {
	tests := []struct {
		src  string
		want Integer
		ok   bool
	}{
		{`<v a="12">12</v>`, 12, true},
		{`<v a="0x1F">0x1F</v>`, 31, true},
		{`<v a="0X10">0X10</v>`, 16, true},
		{`<v a="-15">-15</v>`, -15, true},
		{`<v a="-0x2">-0x2</v>`, -2, true},
		{`<v a=" 7 "> 7 </v>`, 7, true},
		{`<v a="zz">zz</v>`, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			var elem struct {
				Attr Integer `xml:"a,attr"`
			}
			var body Integer

			err := xml.Unmarshal([]byte(tc.src), &elem)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, elem.Attr)

			assert.NoError(t, xml.Unmarshal([]byte(tc.src), &body))
			assert.Equal(t, tc.want, body)
		})
	}
}
