package datastream

import (
	"fmt"
	"strings"
)

// FieldAttribute is the six significant bits of a 3270 field attribute
type FieldAttribute byte

const (
	AttrProtected   FieldAttribute = 0x20
	AttrNumeric     FieldAttribute = 0x10
	AttrDisplayMask FieldAttribute = 0x0C
	AttrDetectable  FieldAttribute = 0x04
	AttrIntensified FieldAttribute = 0x08
	AttrHidden      FieldAttribute = 0x0C
	AttrModified    FieldAttribute = 0x01

	// AttrDefault is an unprotected, alphanumeric, normal intensity field
	AttrDefault FieldAttribute = 0x00
)

// DecodeFieldAttribute returns the attribute carried by wire byte b
func DecodeFieldAttribute(b byte) FieldAttribute { return FieldAttribute(b & 0x3F) }

// Byte returns the code table graphic encoding of a
func (a FieldAttribute) Byte() byte { return EncodeCode(byte(a)) }

func (a FieldAttribute) Protected() bool { return a&AttrProtected != 0 }
func (a FieldAttribute) Numeric() bool   { return a&AttrNumeric != 0 }
func (a FieldAttribute) Modified() bool  { return a&AttrModified != 0 }

// Autoskip returns true for protected numeric fields, which the cursor
// skips over when advancing
func (a FieldAttribute) Autoskip() bool { return a.Protected() && a.Numeric() }

func (a FieldAttribute) Intensified() bool { return a&AttrDisplayMask == AttrIntensified }
func (a FieldAttribute) Hidden() bool      { return a&AttrDisplayMask == AttrHidden }

// Detectable returns true if the field is light pen detectable
func (a FieldAttribute) Detectable() bool {
	d := a & AttrDisplayMask
	return d == AttrDetectable || d == AttrIntensified
}

// WithModified returns a with the modified data tag set or cleared
func (a FieldAttribute) WithModified(modified bool) FieldAttribute {
	if modified {
		return a | AttrModified
	}
	return a &^ AttrModified
}

func (a FieldAttribute) String() string {
	var flags []string
	if a.Protected() {
		flags = append(flags, "prot")
	}
	if a.Numeric() {
		flags = append(flags, "num")
	}
	switch {
	case a.Hidden():
		flags = append(flags, "hidden")
	case a.Intensified():
		flags = append(flags, "int")
	case a.Detectable():
		flags = append(flags, "det")
	}
	if a.Modified() {
		flags = append(flags, "mdt")
	}
	if len(flags) == 0 {
		return "default"
	}
	return strings.Join(flags, ",")
}

// Extended attribute types
const (
	XAField      byte = 0xC0
	XAHighlight  byte = 0x41
	XAColor      byte = 0x42
	XACharset    byte = 0x43
	XABackground byte = 0x45
	XAAll        byte = 0x00
)

// Extended highlighting values
const (
	HighlightDefault    byte = 0x00
	HighlightNormal     byte = 0xF0
	HighlightBlink      byte = 0xF1
	HighlightReverse    byte = 0xF2
	HighlightUnderscore byte = 0xF4
)

// Colour values
const (
	ColorDefault   byte = 0x00
	ColorBlue      byte = 0xF1
	ColorRed       byte = 0xF2
	ColorPink      byte = 0xF3
	ColorGreen     byte = 0xF4
	ColorTurquoise byte = 0xF5
	ColorYellow    byte = 0xF6
	ColorWhite     byte = 0xF7
)

// Attribute is an extended attribute type and value pair, as carried by
// the SFE, MF and SA orders
type Attribute struct {
	Type  byte
	Value byte
}

func (a Attribute) String() string {
	switch a.Type {
	case XAField:
		return "field=" + DecodeFieldAttribute(a.Value).String()
	case XAHighlight:
		return fmt.Sprintf("highlight=%02x", a.Value)
	case XAColor:
		return fmt.Sprintf("color=%02x", a.Value)
	}
	return fmt.Sprintf("%02x=%02x", a.Type, a.Value)
}

// FieldAttributeOf returns the basic field attribute in attrs, if present
func FieldAttributeOf(attrs []Attribute) (FieldAttribute, bool) {
	for _, a := range attrs {
		if a.Type == XAField {
			return DecodeFieldAttribute(a.Value), true
		}
	}
	return AttrDefault, false
}
