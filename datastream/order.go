package datastream

import (
	"fmt"
	"strings"
)

// Order opcodes
const (
	OpStartField                byte = 0x1D
	OpStartFieldExtended        byte = 0x29
	OpSetBufferAddress          byte = 0x11
	OpSetAttribute              byte = 0x28
	OpModifyField               byte = 0x2C
	OpInsertCursor              byte = 0x13
	OpProgramTab                byte = 0x05
	OpRepeatToAddress           byte = 0x3C
	OpEraseUnprotectedToAddress byte = 0x12
	OpGraphicEscape             byte = 0x08
)

// Order is an instruction following a write command, or carried in
// terminal input. The set of Order types is closed: it is the order
// catalog plus Text.
type Order interface {
	// Opcode returns the order's opcode, or 0 for Text
	Opcode() byte
	String() string
	appendTo(b []byte, mode AddressMode) []byte
}

// StartField (SF) starts a field at the current address
type StartField struct {
	Attr FieldAttribute
}

func (StartField) Opcode() byte { return OpStartField }
func (o StartField) String() string { return "SF(" + o.Attr.String() + ")" }
func (o StartField) appendTo(b []byte, _ AddressMode) []byte {
	return append(b, OpStartField, o.Attr.Byte())
}

// StartFieldExtended (SFE) starts a field with extended attributes
type StartFieldExtended struct {
	Attrs []Attribute
}

func (StartFieldExtended) Opcode() byte { return OpStartFieldExtended }
func (o StartFieldExtended) String() string { return "SFE(" + attrList(o.Attrs) + ")" }
func (o StartFieldExtended) appendTo(b []byte, _ AddressMode) []byte {
	return appendAttrs(append(b, OpStartFieldExtended), o.Attrs)
}

// Field returns the basic field attribute of the order
func (o StartFieldExtended) Field() FieldAttribute {
	a, _ := FieldAttributeOf(o.Attrs)
	return a
}

// SetBufferAddress (SBA) moves the current address
type SetBufferAddress struct {
	Address int
}

func (SetBufferAddress) Opcode() byte { return OpSetBufferAddress }
func (o SetBufferAddress) String() string { return fmt.Sprintf("SBA(%d)", o.Address) }
func (o SetBufferAddress) appendTo(b []byte, mode AddressMode) []byte {
	return append(append(b, OpSetBufferAddress), EncodeAddress(o.Address, mode)...)
}

// SetAttribute (SA) sets a character attribute for following text
type SetAttribute struct {
	Attr Attribute
}

func (SetAttribute) Opcode() byte { return OpSetAttribute }
func (o SetAttribute) String() string { return "SA(" + o.Attr.String() + ")" }
func (o SetAttribute) appendTo(b []byte, _ AddressMode) []byte {
	return append(b, OpSetAttribute, o.Attr.Type, o.Attr.Value)
}

// ModifyField (MF) changes the attributes of the field at the current address
type ModifyField struct {
	Attrs []Attribute
}

func (ModifyField) Opcode() byte { return OpModifyField }
func (o ModifyField) String() string { return "MF(" + attrList(o.Attrs) + ")" }
func (o ModifyField) appendTo(b []byte, _ AddressMode) []byte {
	return appendAttrs(append(b, OpModifyField), o.Attrs)
}

// InsertCursor (IC) moves the cursor to the current address
type InsertCursor struct{}

func (InsertCursor) Opcode() byte   { return OpInsertCursor }
func (InsertCursor) String() string { return "IC" }
func (InsertCursor) appendTo(b []byte, _ AddressMode) []byte {
	return append(b, OpInsertCursor)
}

// ProgramTab (PT) advances the current address to the next unprotected field
type ProgramTab struct{}

func (ProgramTab) Opcode() byte   { return OpProgramTab }
func (ProgramTab) String() string { return "PT" }
func (ProgramTab) appendTo(b []byte, _ AddressMode) []byte {
	return append(b, OpProgramTab)
}

// RepeatToAddress (RA) fills from the current address up to, but not
// including, Address with Char
type RepeatToAddress struct {
	Address int
	Char    byte
	// GraphicEscape is set when Char is from the alternate character set
	GraphicEscape bool
}

func (RepeatToAddress) Opcode() byte { return OpRepeatToAddress }
func (o RepeatToAddress) String() string {
	if o.GraphicEscape {
		return fmt.Sprintf("RA(%d,GE %02x)", o.Address, o.Char)
	}
	return fmt.Sprintf("RA(%d,%02x)", o.Address, o.Char)
}
func (o RepeatToAddress) appendTo(b []byte, mode AddressMode) []byte {
	b = append(append(b, OpRepeatToAddress), EncodeAddress(o.Address, mode)...)
	if o.GraphicEscape {
		b = append(b, OpGraphicEscape)
	}
	return append(b, o.Char)
}

// EraseUnprotectedToAddress (EUA) nulls unprotected positions from the
// current address up to, but not including, Address
type EraseUnprotectedToAddress struct {
	Address int
}

func (EraseUnprotectedToAddress) Opcode() byte { return OpEraseUnprotectedToAddress }
func (o EraseUnprotectedToAddress) String() string { return fmt.Sprintf("EUA(%d)", o.Address) }
func (o EraseUnprotectedToAddress) appendTo(b []byte, mode AddressMode) []byte {
	return append(append(b, OpEraseUnprotectedToAddress), EncodeAddress(o.Address, mode)...)
}

// GraphicEscape (GE) writes one character from the alternate character set
type GraphicEscape struct {
	Char byte
}

func (GraphicEscape) Opcode() byte { return OpGraphicEscape }
func (o GraphicEscape) String() string { return fmt.Sprintf("GE(%02x)", o.Char) }
func (o GraphicEscape) appendTo(b []byte, _ AddressMode) []byte {
	return append(b, OpGraphicEscape, o.Char)
}

// Text is a run of EBCDIC character data written at the current address.
// Every byte must be a text byte (see IsTextByte).
type Text struct {
	Data []byte
}

// NewText returns a Text order carrying s encoded as EBCDIC
func NewText(s string) Text { return Text{Data: EncodeText(s)} }

func (Text) Opcode() byte { return 0 }
func (o Text) String() string { return fmt.Sprintf("Text(%q)", DecodeText(o.Data)) }
func (o Text) appendTo(b []byte, _ AddressMode) []byte {
	return append(b, o.Data...)
}

// IsTextByte returns true if b is character data rather than an order.
// Besides graphics, this includes the NUL, FF, CR, NL, EM, DUP, FM and
// SUB control characters.
func IsTextByte(b byte) bool {
	if b >= 0x40 {
		return true
	}
	switch b {
	case 0x00, 0x0C, 0x0D, 0x15, 0x19, 0x1C, 0x1E, 0x3F:
		return true
	}
	return false
}

// operandLen returns the fixed operand length of the order opcode op,
// and false for opcodes outside the catalog. SFE and MF carry a count
// byte followed by that many attribute pairs; their fixed length is 1.
func operandLen(op byte) (int, bool) {
	switch op {
	case OpInsertCursor, OpProgramTab:
		return 0, true
	case OpStartField, OpGraphicEscape, OpStartFieldExtended, OpModifyField:
		return 1, true
	case OpSetBufferAddress, OpSetAttribute, OpEraseUnprotectedToAddress:
		return 2, true
	case OpRepeatToAddress:
		return 3, true
	}
	return 0, false
}

func appendAttrs(b []byte, attrs []Attribute) []byte {
	b = append(b, byte(len(attrs)))
	for _, a := range attrs {
		b = append(b, a.Type, a.Value)
	}
	return b
}

func attrList(attrs []Attribute) string {
	s := make([]string, len(attrs))
	for i, a := range attrs {
		s[i] = a.String()
	}
	return strings.Join(s, ",")
}
