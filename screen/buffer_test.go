package screen

import (
	"fmt"
	"strings"
	"testing"

	ds "github.com/andaru/tn3270/datastream"
	"github.com/andaru/tn3270/tnerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var model2 = ds.Geometry{Rows: 24, Cols: 80}

// login is a formatted screen with these fields:
//
//	0  protected intensified "USERID"
//	10 unprotected, cursor at 11
//	20 protected "PASSWORD"
//	30 unprotected hidden
//	40 autoskip, to the end of the buffer
var login = ds.Datastream{
	Command: ds.CommandEraseWrite,
	WCC:     0xC3,
	Orders: []ds.Order{
		ds.SetBufferAddress{Address: 0},
		ds.StartField{Attr: ds.AttrProtected | ds.AttrIntensified},
		ds.NewText("USERID"),
		ds.SetBufferAddress{Address: 10},
		ds.StartField{Attr: ds.AttrDefault},
		ds.InsertCursor{},
		ds.SetBufferAddress{Address: 20},
		ds.StartField{Attr: ds.AttrProtected},
		ds.NewText("PASSWORD"),
		ds.SetBufferAddress{Address: 30},
		ds.StartField{Attr: ds.AttrHidden},
		ds.SetBufferAddress{Address: 40},
		ds.StartField{Attr: ds.AttrProtected | ds.AttrNumeric},
	},
}

func apply(t *testing.T, b *Buffer, d ds.Datastream) Update {
	t.Helper()
	u, err := b.Apply(d)
	require.NoError(t, err)
	return u
}

func loginBuffer(t *testing.T) *Buffer {
	b := New(model2)
	apply(t, b, login)
	return b
}

func TestApplyLogin(t *testing.T) {
	a := assert.New(t)
	b := New(model2)
	b.locked = true
	u := apply(t, b, login)
	a.Equal(Update{Command: ds.CommandEraseWrite, WCC: 0xC3, Erased: true, Written: 19, Cursor: 11, Restored: true}, u)
	a.False(b.Locked())
	a.Equal(11, b.Cursor())
	a.True(b.Formatted())
	a.Equal(fmt.Sprintf("%-80s", " USERID              PASSWORD"), b.Row(0))
	a.Equal(strings.Repeat(" ", 80), b.Row(1))

	fields := b.Fields()
	require.Len(t, fields, 5)
	a.Equal(Field{Address: 0, Start: 1, Length: 9, Attr: ds.AttrProtected | ds.AttrIntensified}, fields[0])
	a.Equal(Field{Address: 10, Start: 11, Length: 9}, fields[1])
	a.Equal(Field{Address: 40, Start: 41, Length: 1879, Attr: ds.AttrProtected | ds.AttrNumeric}, fields[4])
	a.Equal("USERID   ", b.FieldText(fields[0]))
}

func TestFieldAt(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	for addr, want := range map[int]int{0: 0, 5: 0, 10: 10, 15: 10, 19: 10, 20: 20, 39: 30, 1919: 40} {
		f, ok := b.FieldAt(addr)
		a.True(ok)
		a.Equal(want, f.Address, "address %d", addr)
	}
	a.True(b.Attribute(5).Protected())
	a.False(b.Attribute(15).Protected())

	// the scan backwards wraps past address 0
	b = New(model2)
	apply(t, b, ds.Datastream{Command: ds.CommandEraseWrite, Orders: []ds.Order{
		ds.SetBufferAddress{Address: 100},
		ds.StartField{Attr: ds.AttrProtected},
	}})
	f, ok := b.FieldAt(50)
	a.True(ok)
	a.Equal(100, f.Address)
	a.Equal(1919, f.Length)
	a.True(f.Contains(50, model2.Size()))
	a.False(f.Contains(100, model2.Size()))

	_, ok = New(model2).FieldAt(50)
	a.False(ok)
	a.Equal(ds.AttrDefault, New(model2).Attribute(50))
}

func TestEraseIdempotent(t *testing.T) {
	a := assert.New(t)
	erase := ds.Datastream{Command: ds.CommandEraseWrite, WCC: ds.WCCKeyboardRestore}
	b := loginBuffer(t)
	a.NoError(b.Type("ALICE"))
	apply(t, b, erase)
	a.Equal(New(model2), b)
	apply(t, b, erase)
	a.Equal(New(model2), b)

	alt := ds.Datastream{Command: ds.CommandEraseWriteAlternate, WCC: ds.WCCKeyboardRestore}
	b = loginBuffer(t)
	apply(t, b, alt)
	a.Equal(New(model2), b)
}

func TestEraseBeforeOrders(t *testing.T) {
	b := loginBuffer(t)
	a := assert.New(t)
	a.NoError(b.MoveCursor(5, 5))
	u := apply(t, b, ds.Datastream{Command: ds.CommandEraseWrite, Orders: []ds.Order{ds.NewText("AB")}})
	a.True(u.Erased)
	a.Equal(0, u.Cursor)
	a.Equal(fmt.Sprintf("%-80s", "AB"), b.Row(0))
	a.False(b.Formatted())
}

func TestWriteStartsAtCursor(t *testing.T) {
	b := loginBuffer(t)
	apply(t, b, ds.Datastream{Command: ds.CommandWrite, Orders: []ds.Order{ds.NewText("BOB")}})
	assert.Equal(t, "BOB      ", b.FieldText(b.Fields()[1]))
	assert.Equal(t, 11, b.Cursor())
}

func TestApplyOrders(t *testing.T) {
	for _, tc := range []struct {
		name   string
		orders []ds.Order
		check  func(*assert.Assertions, *Buffer)
	}{
		{
			name:   "repeat to address",
			orders: []ds.Order{ds.SetBufferAddress{Address: 80}, ds.RepeatToAddress{Address: 160, Char: 0xE7}},
			check: func(a *assert.Assertions, b *Buffer) {
				a.Equal(strings.Repeat("X", 80), b.Row(1))
				a.Equal(strings.Repeat(" ", 80), b.Row(2))
			},
		},
		{
			name:   "repeat whole buffer",
			orders: []ds.Order{ds.SetBufferAddress{Address: 5}, ds.RepeatToAddress{Address: 5, Char: 0xE7}},
			check: func(a *assert.Assertions, b *Buffer) {
				a.Equal(strings.Repeat("X", 80), b.Row(0))
				a.Equal(strings.Repeat("X", 80), b.Row(23))
			},
		},
		{
			name: "program tab",
			orders: []ds.Order{
				ds.SetBufferAddress{Address: 0},
				ds.StartField{Attr: ds.AttrProtected},
				ds.SetBufferAddress{Address: 10},
				ds.StartField{},
				ds.SetBufferAddress{Address: 0},
				ds.ProgramTab{},
				ds.NewText("HI"),
			},
			check: func(a *assert.Assertions, b *Buffer) {
				a.Equal(byte(0xC8), b.Cell(11).Char)
				a.Equal(byte(0xC9), b.Cell(12).Char)
			},
		},
		{
			name: "program tab without unprotected field",
			orders: []ds.Order{
				ds.SetBufferAddress{Address: 100},
				ds.StartField{Attr: ds.AttrProtected},
				ds.ProgramTab{},
				ds.NewText("Z"),
			},
			check: func(a *assert.Assertions, b *Buffer) {
				a.Equal(byte(0xE9), b.Cell(0).Char)
			},
		},
		{
			name: "extended attributes",
			orders: []ds.Order{
				ds.StartFieldExtended{Attrs: []ds.Attribute{{Type: ds.XAField, Value: 0x60}, {Type: ds.XAColor, Value: ds.ColorRed}}},
				ds.SetAttribute{Attr: ds.Attribute{Type: ds.XAHighlight, Value: ds.HighlightReverse}},
				ds.NewText("A"),
				ds.SetAttribute{Attr: ds.Attribute{Type: ds.XAAll}},
				ds.NewText("B"),
				ds.SetBufferAddress{Address: 0},
				ds.ModifyField{Attrs: []ds.Attribute{{Type: ds.XAColor, Value: ds.ColorBlue}}},
				ds.GraphicEscape{Char: 0xAD},
			},
			check: func(a *assert.Assertions, b *Buffer) {
				a.Equal(Cell{Field: true, Attr: ds.AttrProtected, Color: ds.ColorBlue}, b.Cell(0))
				a.Equal(Cell{Char: 0xAD, GraphicEscape: true}, b.Cell(1))
				a.Equal(Cell{Char: 0xC2}, b.Cell(2))
				f, _ := b.FieldAt(2)
				a.Equal(ds.ColorBlue, f.Color)
			},
		},
		{
			name: "modify field off an attribute is ignored",
			orders: []ds.Order{
				ds.SetBufferAddress{Address: 3},
				ds.ModifyField{Attrs: []ds.Attribute{{Type: ds.XAField, Value: 0x60}}},
				ds.NewText("A"),
			},
			check: func(a *assert.Assertions, b *Buffer) {
				a.False(b.Cell(3).Field)
				a.Equal(byte(0xC1), b.Cell(3).Char)
			},
		},
		{
			name: "insert cursor",
			orders: []ds.Order{
				ds.SetBufferAddress{Address: 1919},
				ds.NewText("A"),
				ds.InsertCursor{},
			},
			check: func(a *assert.Assertions, b *Buffer) {
				a.Equal(0, b.Cursor())
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := New(model2)
			apply(t, b, ds.Datastream{Command: ds.CommandEraseWrite, Orders: tc.orders})
			tc.check(assert.New(t), b)
		})
	}
}

func TestEraseUnprotectedToAddress(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	a.NoError(b.Type("ALICE"))
	apply(t, b, ds.Datastream{Command: ds.CommandWrite, Orders: []ds.Order{
		ds.SetBufferAddress{Address: 0},
		ds.EraseUnprotectedToAddress{Address: 0},
	}})
	a.Equal(fmt.Sprintf("%-80s", " USERID              PASSWORD"), b.Row(0))
	a.Equal(byte(0), b.Cell(11).Char)
}

func TestEraseAllUnprotected(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	a.NoError(b.Type("ALICE"))
	b.Tab()
	a.NoError(b.Type("SECRET"))
	b.Transmitted()
	a.True(b.Locked())

	u := apply(t, b, ds.Datastream{Command: ds.CommandEraseAllUnprotected})
	a.True(u.Restored)
	a.False(b.Locked())
	a.Equal(11, b.Cursor())
	a.Equal(fmt.Sprintf("%-80s", " USERID              PASSWORD"), b.Row(0))
	for _, f := range b.Fields() {
		a.False(f.Attr.Modified())
	}
	b.SetAID(ds.AIDEnter)
	a.Equal(ds.Input{AID: ds.AIDEnter, Cursor: 11}, b.ReadModified(false))
}

func TestResetMDT(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	a.NoError(b.Type("ALICE"))
	apply(t, b, ds.Datastream{Command: ds.CommandWrite, WCC: ds.WCCResetMDT})
	b.SetAID(ds.AIDEnter)
	a.Empty(b.ReadModified(false).Orders)
}

func TestApplyGeometryViolation(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	before := b.String()
	_, err := b.Apply(ds.Datastream{Command: ds.CommandEraseWrite, Orders: []ds.Order{
		ds.NewText("A"),
		ds.SetBufferAddress{Address: 5000},
	}})
	a.True(tnerr.Is(err, tnerr.KindGeometry), "got %v", err)
	a.Equal(before, b.String())
}

func TestApplyNonWrite(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	before := b.String()
	for _, c := range []ds.Command{ds.CommandReadBuffer, ds.CommandReadModified, ds.CommandReadModifiedAll} {
		u := apply(t, b, ds.Datastream{Command: c})
		a.Equal(c, u.Command)
		a.False(u.Erased)
	}
	a.Equal(before, b.String())

	u := apply(t, b, ds.Datastream{
		Command: ds.CommandWriteStructuredField,
		Fields:  []ds.StructuredField{{ID: ds.SFEraseReset, Data: []byte{0x00}}},
	})
	a.True(u.Erased)
	a.False(b.Formatted())
}

func TestUpdateString(t *testing.T) {
	u := Update{Command: ds.CommandWrite, Cursor: 3, Alarm: true}
	assert.Equal(t, "W erased:false written:0 cursor:3 alarm:true restored:false", u.String())
}
