package datastream

import (
	"fmt"

	"github.com/andaru/tn3270/tnerr"
)

// Structured field IDs
const (
	SFReadPartition byte = 0x01
	SFEraseReset    byte = 0x03
	SFOutbound3270  byte = 0x40
	SFQueryReply    byte = 0x81
)

// Read Partition types
const (
	ReadPartitionQuery     byte = 0x02
	ReadPartitionQueryList byte = 0x03
)

// Query reply codes
const (
	QCodeSummary    byte = 0x80
	QCodeUsableArea byte = 0x81
)

// StructuredField is one length-prefixed structured field. On the wire
// the two byte length counts itself, the ID and the data.
type StructuredField struct {
	ID   byte
	Data []byte
}

func (sf StructuredField) String() string {
	return fmt.Sprintf("SF(%02x,% x)", sf.ID, sf.Data)
}

func (sf StructuredField) appendTo(b []byte) []byte {
	n := 3 + len(sf.Data)
	b = append(b, byte(n>>8), byte(n), sf.ID)
	return append(b, sf.Data...)
}

// IsQuery returns true for a Read Partition Query or Query List
// addressed to all partitions
func (sf StructuredField) IsQuery() bool {
	return sf.ID == SFReadPartition && len(sf.Data) >= 2 && sf.Data[0] == 0xFF &&
		(sf.Data[1] == ReadPartitionQuery || sf.Data[1] == ReadPartitionQueryList)
}

// decodeStructuredFields decodes b as a sequence of structured fields.
// base is the offset of b within the whole datastream. A length of zero
// means the field runs to the end of b.
func decodeStructuredFields(b []byte, base int) ([]StructuredField, error) {
	var fields []StructuredField
	for i := 0; i < len(b); {
		if len(b)-i < 3 {
			return nil, tnerr.Malformed(
				tnerr.WithOffset(base+i),
				tnerr.WithMessage(fmt.Sprintf("structured field needs 3 bytes, %d remain", len(b)-i)))
		}
		n := int(b[i])<<8 | int(b[i+1])
		switch {
		case n == 0:
			n = len(b) - i
		case n < 3:
			return nil, tnerr.Malformed(
				tnerr.WithOffset(base+i),
				tnerr.WithMessage(fmt.Sprintf("structured field length %d is too short", n)))
		case i+n > len(b):
			return nil, tnerr.TruncatedOrder(b[i+2], base+i, i+n-len(b),
				tnerr.WithMessage("structured field runs past the end of the datastream"))
		}
		fields = append(fields, StructuredField{ID: b[i+2], Data: append([]byte(nil), b[i+3:i+n]...)})
		i += n
	}
	return fields, nil
}

// Usable area reply constants: 12/14-bit addressing, pel units and a
// nominal character cell size
var (
	usableAreaFlags = []byte{0x01, 0x00}
	usableAreaXr    = []byte{0x00, 0x0a, 0x02, 0xe5}
	usableAreaYr    = []byte{0x00, 0x02, 0x00, 0x6f}
)

// QueryReply returns the query reply structured fields describing a
// terminal of geometry g: a Summary reply and a Usable Area reply. They
// are sent in an Input with AID AIDStructuredField.
func QueryReply(g Geometry) []StructuredField {
	summary := StructuredField{ID: SFQueryReply, Data: []byte{QCodeSummary, QCodeSummary, QCodeUsableArea}}

	size := g.Size()
	ua := []byte{QCodeUsableArea}
	ua = append(ua, usableAreaFlags...)
	ua = append(ua, byte(g.Cols>>8), byte(g.Cols), byte(g.Rows>>8), byte(g.Rows), 0x00)
	ua = append(ua, usableAreaXr...)
	ua = append(ua, usableAreaYr...)
	ua = append(ua, 0x09, 0x0c, byte(size>>8), byte(size))
	return []StructuredField{summary, {ID: SFQueryReply, Data: ua}}
}
