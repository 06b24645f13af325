package datastream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldAttribute(t *testing.T) {
	a := assert.New(t)
	attr := DecodeFieldAttribute(0x60)
	a.True(attr.Protected())
	a.False(attr.Numeric())
	a.Equal(byte(0x60), attr.Byte())

	attr = DecodeFieldAttribute(0xF0)
	a.True(attr.Autoskip())
	a.Equal("prot,num", attr.String())

	attr = DecodeFieldAttribute(0xC9)
	a.True(attr.Intensified())
	a.True(attr.Detectable())
	a.True(attr.Modified())
	a.False(attr.WithModified(false).Modified())
	a.Equal("int,mdt", attr.String())

	a.True(DecodeFieldAttribute(0x4C).Hidden())
	a.False(DecodeFieldAttribute(0x4C).Detectable())
	a.Equal("default", AttrDefault.String())

	got, ok := FieldAttributeOf([]Attribute{{XAColor, ColorBlue}, {XAField, 0xE0}})
	a.True(ok)
	a.True(got.Protected())
	_, ok = FieldAttributeOf(nil)
	a.False(ok)
}

func TestAID(t *testing.T) {
	a := assert.New(t)
	for n, want := range map[int]AID{1: 0xF1, 9: 0xF9, 10: 0x7A, 12: 0x7C, 13: 0xC1, 21: 0xC9, 22: 0x4A, 24: 0x4C} {
		got, ok := PF(n)
		a.True(ok)
		a.Equal(want, got, "PF%d", n)
	}
	_, ok := PF(25)
	a.False(ok)
	a.Equal("PF12", AIDPF12.String())
	a.Equal("AID(01)", AID(0x01).String())
	aid, ok := ParseAID("PA2")
	a.True(ok)
	a.Equal(AIDPA2, aid)
	a.True(AIDClear.ShortRead())
	a.False(AIDEnter.ShortRead())

	var u AID
	a.NoError(u.UnmarshalText([]byte("ENTER")))
	a.Equal(AIDEnter, u)
	a.Error(u.UnmarshalText([]byte("ANY")))
}

func TestCommandAndWCC(t *testing.T) {
	a := assert.New(t)
	a.True(CommandEraseWriteAlternate.IsErase())
	a.True(CommandWrite.IsWrite())
	a.False(CommandWrite.IsErase())
	a.True(CommandReadModifiedAll.IsRead())
	a.Equal("EAU", CommandEraseAllUnprotected.String())
	_, ok := LookupCommand(0x99)
	a.False(ok)

	wcc := WCC(0xC3)
	a.True(wcc.Reset())
	a.True(wcc.KeyboardRestore())
	a.True(wcc.ResetMDT())
	a.False(wcc.Alarm())
	a.False(wcc.StartPrinter())
	a.Equal("WCC(c3)[reset,restore,reset-mdt]", wcc.String())
}

func TestText(t *testing.T) {
	a := assert.New(t)
	a.Equal([]byte{0xC8, 0xC5, 0xD3, 0xD3, 0xD6, 0x40, 0xF1}, EncodeText("HELLO 1"))
	a.Equal("hello", DecodeText(EncodeText("hello")))
	a.Equal("A B", DecodeText([]byte{0xC1, 0x00, 0xC2}))
	a.Equal([]byte{Substitute}, EncodeText("€"))
	// tab and newline encode to 0x05 (PT) and 0x25, neither of them text
	a.Equal([]byte{0xC1, Substitute, 0xC2, Substitute, 0xC3}, EncodeText("A\tB\nC"))
	a.True(IsTextByte(0x00))
	a.True(IsTextByte(0x3F))
	a.False(IsTextByte(OpSetBufferAddress))
	a.Equal(`Text("HI")`, NewText("HI").String())
}
