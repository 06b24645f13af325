package datastream

import (
	"fmt"
	"strings"

	"github.com/andaru/tn3270/tnerr"
)

// Datastream is a decoded host (outbound) datastream
type Datastream struct {
	Command Command
	// WCC is present for write commands
	WCC WCC
	// Orders follow the WCC of write commands
	Orders []Order
	// Fields are the structured fields of a Write Structured Field command
	Fields []StructuredField
}

func (ds Datastream) String() string {
	var b strings.Builder
	b.WriteString(ds.Command.String())
	if ds.Command.IsWrite() {
		b.WriteString(" " + ds.WCC.String())
	}
	for _, o := range ds.Orders {
		b.WriteString(" " + o.String())
	}
	for _, sf := range ds.Fields {
		b.WriteString(" " + sf.String())
	}
	return b.String()
}

// Input is a terminal (inbound) datastream
type Input struct {
	AID    AID
	Cursor int
	// Orders are the SBA and Text orders of modified fields, or the
	// whole buffer in response to Read Buffer
	Orders []Order
	// Fields are sent instead of cursor and orders with AIDStructuredField
	Fields []StructuredField
}

// Short returns true if in is sent as its AID alone
func (in Input) Short() bool {
	return in.AID.ShortRead() && len(in.Orders) == 0
}

func (in Input) String() string {
	if in.AID == AIDStructuredField {
		return fmt.Sprintf("%s %v", in.AID, in.Fields)
	}
	if in.Short() {
		return in.AID.String()
	}
	return fmt.Sprintf("%s cursor:%d %v", in.AID, in.Cursor, in.Orders)
}

// Codec encodes and decodes datastreams for a terminal geometry. Encoded
// buffer addresses use the geometry's address mode, and decoded
// addresses must lie within it.
type Codec struct {
	Geometry Geometry
}

// NewCodec returns a Codec for geometry g
func NewCodec(g Geometry) Codec { return Codec{Geometry: g} }

// Encode returns the wire form of ds. Command codes are written in the
// SNA form.
func (c Codec) Encode(ds Datastream) []byte {
	b := []byte{byte(ds.Command)}
	switch {
	case ds.Command.IsWrite():
		b = c.appendOrders(append(b, byte(ds.WCC)), ds.Orders)
	case ds.Command == CommandWriteStructuredField:
		for _, sf := range ds.Fields {
			b = sf.appendTo(b)
		}
	}
	return b
}

// Decode decodes a host datastream. Unknown command or order opcodes,
// truncated orders and addresses outside the geometry are errors; no
// partial Datastream is returned.
func (c Codec) Decode(b []byte) (Datastream, error) {
	if len(b) == 0 {
		return Datastream{}, tnerr.Malformed(tnerr.WithMessage("empty datastream"))
	}
	cmd, ok := LookupCommand(b[0])
	if !ok {
		return Datastream{}, tnerr.UnknownOpcode(b[0], 0, tnerr.WithMessage("unknown command"))
	}
	ds := Datastream{Command: cmd}
	var err error
	switch {
	case cmd.IsWrite():
		if len(b) < 2 {
			return Datastream{}, tnerr.TruncatedOrder(b[0], 0, 1, tnerr.WithMessage("write command without WCC"))
		}
		ds.WCC = WCC(b[1])
		ds.Orders, err = c.decodeOrders(b[2:], 2)
	case cmd == CommandWriteStructuredField:
		ds.Fields, err = decodeStructuredFields(b[1:], 1)
	case len(b) > 1:
		err = tnerr.Malformed(
			tnerr.WithOffset(1),
			tnerr.WithMessage(fmt.Sprintf("%d unexpected bytes after %s", len(b)-1, cmd)))
	}
	if err != nil {
		return Datastream{}, err
	}
	return ds, nil
}

// EncodeInput returns the wire form of a terminal datastream
func (c Codec) EncodeInput(in Input) []byte {
	b := []byte{byte(in.AID)}
	switch {
	case in.AID == AIDStructuredField:
		for _, sf := range in.Fields {
			b = sf.appendTo(b)
		}
	case in.Short():
	default:
		b = append(b, EncodeAddress(in.Cursor, c.Geometry.AddressMode())...)
		b = c.appendOrders(b, in.Orders)
	}
	return b
}

// DecodeInput decodes a terminal datastream
func (c Codec) DecodeInput(b []byte) (Input, error) {
	if len(b) == 0 {
		return Input{}, tnerr.Malformed(tnerr.WithMessage("empty input"))
	}
	in := Input{AID: AID(b[0])}
	if !in.AID.Known() {
		return Input{}, tnerr.UnknownOpcode(b[0], 0, tnerr.WithMessage("unknown AID"))
	}
	var err error
	switch {
	case in.AID == AIDStructuredField:
		in.Fields, err = decodeStructuredFields(b[1:], 1)
	case len(b) == 1:
		// short read
	case len(b) < 3:
		err = tnerr.TruncatedOrder(b[0], 0, 3-len(b), tnerr.WithMessage("input without cursor address"))
	default:
		in.Cursor = DecodeAddress(b[1], b[2])
		if err = c.Geometry.Check(in.Cursor, 1); err == nil {
			in.Orders, err = c.decodeOrders(b[3:], 3)
		}
	}
	if err != nil {
		return Input{}, err
	}
	return in, nil
}

func (c Codec) appendOrders(b []byte, orders []Order) []byte {
	mode := c.Geometry.AddressMode()
	for _, o := range orders {
		b = o.appendTo(b, mode)
	}
	return b
}

// decodeOrders decodes b as a sequence of orders and text. base is the
// offset of b within the whole datastream, for error reporting.
func (c Codec) decodeOrders(b []byte, base int) ([]Order, error) {
	var orders []Order
	for i := 0; i < len(b); {
		op := b[i]
		if IsTextByte(op) {
			j := i + 1
			for j < len(b) && IsTextByte(b[j]) {
				j++
			}
			orders = append(orders, Text{Data: append([]byte(nil), b[i:j]...)})
			i = j
			continue
		}
		n, ok := operandLen(op)
		if !ok {
			return nil, tnerr.UnknownOpcode(op, base+i)
		}
		if missing := i + 1 + n - len(b); missing > 0 {
			return nil, tnerr.TruncatedOrder(op, base+i, missing)
		}
		operands := b[i+1 : i+1+n]
		var order Order
		switch op {
		case OpStartField:
			order = StartField{Attr: DecodeFieldAttribute(operands[0])}
		case OpStartFieldExtended, OpModifyField:
			count := int(operands[0])
			if missing := i + 2 + 2*count - len(b); missing > 0 {
				return nil, tnerr.TruncatedOrder(op, base+i, missing)
			}
			var attrs []Attribute
			for k := 0; k < count; k++ {
				attrs = append(attrs, Attribute{Type: b[i+2+2*k], Value: b[i+3+2*k]})
			}
			if op == OpStartFieldExtended {
				order = StartFieldExtended{Attrs: attrs}
			} else {
				order = ModifyField{Attrs: attrs}
			}
			n += 2 * count
		case OpSetAttribute:
			order = SetAttribute{Attr: Attribute{Type: operands[0], Value: operands[1]}}
		case OpInsertCursor:
			order = InsertCursor{}
		case OpProgramTab:
			order = ProgramTab{}
		case OpGraphicEscape:
			order = GraphicEscape{Char: operands[0]}
		case OpSetBufferAddress, OpEraseUnprotectedToAddress, OpRepeatToAddress:
			addr := DecodeAddress(operands[0], operands[1])
			if err := c.Geometry.Check(addr, base+i+1); err != nil {
				return nil, err
			}
			switch op {
			case OpSetBufferAddress:
				order = SetBufferAddress{Address: addr}
			case OpEraseUnprotectedToAddress:
				order = EraseUnprotectedToAddress{Address: addr}
			default:
				ra := RepeatToAddress{Address: addr, Char: operands[2]}
				switch {
				case ra.Char == OpGraphicEscape:
					if i+1+n >= len(b) {
						return nil, tnerr.TruncatedOrder(op, base+i, 1)
					}
					ra.GraphicEscape, ra.Char = true, b[i+1+n]
					n++
				case !IsTextByte(ra.Char):
					return nil, tnerr.Malformed(
						tnerr.WithOpcode(op),
						tnerr.WithOffset(base+i),
						tnerr.WithMessage(fmt.Sprintf("repeat character %02x is not a text byte", ra.Char)))
				}
				order = ra
			}
		}
		orders = append(orders, order)
		i += 1 + n
	}
	return orders, nil
}
