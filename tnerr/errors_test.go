package tnerr

import (
	"fmt"
	"io"
	"testing"

	"encoding/json"
	"encoding/xml"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	for _, tc := range []struct {
		err *Error

		error string
		xml   string
		json  string
	}{
		{
			err:   ShortRead([]byte{0xff, 0xfd, 0x28}, []byte{0xff, 0xfd}),
			error: "negotiation error tag:short-read Expected 3 but received only 2 bytes",
			xml:   "<error><kind>negotiation</kind><tag>short-read</tag><message>Expected 3 but received only 2 bytes</message><info><expected>fffd28</expected><received>fffd</received></info></error>",
			json:  "{\"kind\":\"negotiation\",\"tag\":\"short-read\",\"message\":\"Expected 3 but received only 2 bytes\",\"info\":{\"expected\":\"fffd28\",\"received\":\"fffd\"}}",
		},

		{
			err:   Mismatch([]byte{0xff, 0xfd, 0x28}, []byte{0xff, 0xfd, 0xfb}),
			error: "negotiation error tag:mismatch Expected fffd28 but received fffdfb",
			xml:   "<error><kind>negotiation</kind><tag>mismatch</tag><message>Expected fffd28 but received fffdfb</message><info><expected>fffd28</expected><received>fffdfb</received></info></error>",
			json:  "{\"kind\":\"negotiation\",\"tag\":\"mismatch\",\"message\":\"Expected fffd28 but received fffdfb\",\"info\":{\"expected\":\"fffd28\",\"received\":\"fffdfb\"}}",
		},

		{
			err:   UnknownOpcode(0x3e, 7),
			error: "datastream error tag:unknown-opcode opcode:0x3e offset:7",
			xml:   "<error><kind>datastream</kind><tag>unknown-opcode</tag><info><opcode>0x3e</opcode><offset>7</offset></info></error>",
			json:  "{\"kind\":\"datastream\",\"tag\":\"unknown-opcode\",\"info\":{\"opcode\":\"0x3e\",\"offset\":7}}",
		},

		{
			err:   TruncatedOrder(0x11, 4, 1),
			error: "datastream error tag:truncated-order opcode:0x11 offset:4 missing:1",
			xml:   "<error><kind>datastream</kind><tag>truncated-order</tag><info><opcode>0x11</opcode><offset>4</offset><missing>1</missing></info></error>",
			json:  "{\"kind\":\"datastream\",\"tag\":\"truncated-order\",\"info\":{\"opcode\":\"0x11\",\"offset\":4,\"missing\":1}}",
		},

		{
			err:   AddressOutOfRange(2000, 1920, WithOffset(1)),
			error: "geometry error tag:address-out-of-range offset:1 address 2000 outside 1920 position buffer",
			xml:   "<error><kind>geometry</kind><tag>address-out-of-range</tag><message>address 2000 outside 1920 position buffer</message><info><offset>1</offset></info></error>",
			json:  "{\"kind\":\"geometry\",\"tag\":\"address-out-of-range\",\"message\":\"address 2000 outside 1920 position buffer\",\"info\":{\"offset\":1}}",
		},

		{
			err:   Connection(io.ErrClosedPipe),
			error: "connection error tag:io io: read/write on closed pipe",
			xml:   "<error><kind>connection</kind><tag>io</tag><message>io: read/write on closed pipe</message></error>",
			json:  "{\"kind\":\"connection\",\"tag\":\"io\",\"message\":\"io: read/write on closed pipe\"}",
		},

		{
			err:   Rejected(WithMessage("device type rejected: INV-DEVICE-NAME")),
			error: "negotiation error tag:rejected device type rejected: INV-DEVICE-NAME",
			xml:   "<error><kind>negotiation</kind><tag>rejected</tag><message>device type rejected: INV-DEVICE-NAME</message></error>",
			json:  "{\"kind\":\"negotiation\",\"tag\":\"rejected\",\"message\":\"device type rejected: INV-DEVICE-NAME\"}",
		},
	} {
		t.Run(fmt.Sprintf("%v", tc.err), func(t *testing.T) {
			// confirm basic marshaling works for XML and JSON
			check := assert.New(t)
			bXML, _ := xml.Marshal(tc.err)
			bJSON, _ := json.Marshal(tc.err)
			check.Equal(tc.error, tc.err.Error())
			check.Equal(tc.json, string(bJSON))
			check.Equal(tc.xml, string(bXML))

			// unmarshal the marshaled text and marshal the new value
			// again, which must match the original expected output.
			ev := Error{}
			if check.NoError(xml.Unmarshal(bXML, &ev)) {
				evXML, _ := xml.Marshal(ev)
				check.Equal(tc.xml, string(evXML))
			}
			ev = Error{}
			if check.NoError(json.Unmarshal(bJSON, &ev)) {
				evJSON, _ := json.Marshal(ev)
				check.Equal(tc.json, string(evJSON))
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	a := assert.New(t)

	wrapped := errors.Wrap(Connection(io.EOF), "reading record")
	kind, ok := KindOf(wrapped)
	a.True(ok)
	a.Equal(KindConnection, kind)
	a.True(Is(wrapped, KindConnection))
	a.False(Is(wrapped, KindNegotiation))
	a.ErrorIs(wrapped, io.EOF)

	_, ok = KindOf(io.EOF)
	a.False(ok)
	a.False(Is(nil, KindConnection))
}

func TestKindText(t *testing.T) {
	a := assert.New(t)
	for _, k := range []Kind{KindConnection, KindNegotiation, KindDatastream, KindGeometry} {
		b, err := k.MarshalText()
		a.NoError(err)
		var got Kind
		a.NoError(got.UnmarshalText(b))
		a.Equal(k, got)
	}
	var k Kind
	a.Error(k.UnmarshalText([]byte("bogus")))
	a.Equal("Kind(42)", Kind(42).String())
}
