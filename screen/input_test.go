package screen

import (
	"testing"

	ds "github.com/andaru/tn3270/datastream"
	"github.com/andaru/tn3270/tnerr"
	"github.com/stretchr/testify/assert"
)

func TestTypeAndReadModified(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	a.NoError(b.Type("alice"))
	a.Equal(16, b.Cursor())
	f, _ := b.FieldAt(11)
	a.True(f.Attr.Modified())
	a.Equal("alice    ", b.FieldText(f))

	b.Tab()
	a.Equal(31, b.Cursor())
	a.NoError(b.Type("pw"))
	// hidden field contents are not displayed
	a.Equal(" USERID"+"    "+"alice"+"     "+"PASSWORD"+"  ", b.Row(0)[:31])
	a.Equal("  ", b.Row(0)[31:33])

	b.SetAID(ds.AIDEnter)
	a.Equal(ds.AIDEnter, b.AID())
	a.Equal(ds.Input{
		AID:    ds.AIDEnter,
		Cursor: 33,
		Orders: []ds.Order{
			ds.SetBufferAddress{Address: 11},
			ds.Text{Data: ds.EncodeText("alice")},
			ds.SetBufferAddress{Address: 31},
			ds.Text{Data: ds.EncodeText("pw")},
		},
	}, b.ReadModified(false))

	b.Transmitted()
	a.Equal(ds.AIDNone, b.AID())
	a.True(b.Locked())
	a.Equal(ErrLocked, b.Type("x"))
	a.Equal(ErrLocked, b.EraseEOF())
	apply(t, b, ds.Datastream{Command: ds.CommandWrite, WCC: ds.WCCKeyboardRestore})
	a.False(b.Locked())
	a.NoError(b.Type("x"))
}

func TestTypeProtected(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	a.NoError(b.MoveCursor(0, 2))
	a.Equal(ErrProtected, b.Type("x"))
	a.NoError(b.SetCursor(10))
	a.Equal(ErrProtected, b.Type("x"))
	a.Equal(ErrProtected, b.EraseEOF())
	a.NoError(b.SetCursor(22))
	a.Equal(ErrProtected, b.EraseEOF())
}

func TestTypeNumeric(t *testing.T) {
	a := assert.New(t)
	b := New(model2)
	apply(t, b, ds.Datastream{Command: ds.CommandEraseWrite, Orders: []ds.Order{
		ds.StartField{Attr: ds.AttrNumeric},
		ds.InsertCursor{},
		ds.SetBufferAddress{Address: 10},
		ds.StartField{Attr: ds.AttrProtected},
	}})
	a.Equal(ErrNumeric, b.Type("12a"))
	a.Equal(3, b.Cursor())
	a.Equal("12       ", b.FieldText(b.Fields()[0]))
}

func TestTypeAutoskip(t *testing.T) {
	a := assert.New(t)
	b := New(model2)
	apply(t, b, ds.Datastream{Command: ds.CommandEraseWrite, Orders: []ds.Order{
		ds.StartField{},
		ds.InsertCursor{},
		ds.SetBufferAddress{Address: 3},
		ds.StartField{Attr: ds.AttrProtected | ds.AttrNumeric},
		ds.SetBufferAddress{Address: 10},
		ds.StartField{},
		ds.SetBufferAddress{Address: 20},
		ds.StartField{Attr: ds.AttrProtected},
	}})
	a.NoError(b.Type("ab"))
	a.Equal(11, b.Cursor())
	a.NoError(b.Type("c"))
	a.Equal(12, b.Cursor())
}

func TestTypeUnformatted(t *testing.T) {
	a := assert.New(t)
	b := New(model2)
	a.NoError(b.MoveCursor(23, 78))
	a.NoError(b.Type("abc"))
	a.Equal(1, b.Cursor())
	a.Equal("a", b.Text(1918, 1)[:1])
	b.SetAID(ds.AIDEnter)
	in := b.ReadModified(false)
	a.Equal([]ds.Order{ds.Text{Data: ds.EncodeText("cab")}}, in.Orders)

	// control characters are not entered as orders
	a.NoError(b.Type("\t"))
	a.Equal(ds.Substitute, b.Cell(1).Char)
}

func TestTabbing(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	b.Tab()
	a.Equal(31, b.Cursor())
	b.Tab()
	a.Equal(11, b.Cursor())
	b.BackTab()
	a.Equal(31, b.Cursor())
	a.NoError(b.SetCursor(35))
	b.BackTab()
	a.Equal(31, b.Cursor())
	b.BackTab()
	a.Equal(11, b.Cursor())
	a.NoError(b.SetCursor(1000))
	b.Home()
	a.Equal(11, b.Cursor())

	b = New(model2)
	a.NoError(b.SetCursor(50))
	b.Tab()
	a.Equal(0, b.Cursor())
	a.NoError(b.SetCursor(50))
	b.BackTab()
	a.Equal(0, b.Cursor())
}

func TestEraseEOF(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	a.NoError(b.Type("abcdefghi"))
	a.NoError(b.SetCursor(14))
	a.NoError(b.EraseEOF())
	f, _ := b.FieldAt(11)
	a.Equal("abc      ", b.FieldText(f))
	a.True(f.Attr.Modified())

	b = New(model2)
	a.NoError(b.Type("abcdef"))
	a.NoError(b.SetCursor(2))
	a.NoError(b.EraseEOF())
	a.Equal("ab    ", b.Text(0, 6))
}

func TestCursorBounds(t *testing.T) {
	a := assert.New(t)
	b := New(model2)
	a.True(tnerr.Is(b.MoveCursor(24, 0), tnerr.KindGeometry))
	a.True(tnerr.Is(b.MoveCursor(0, 80), tnerr.KindGeometry))
	a.True(tnerr.Is(b.SetCursor(1920), tnerr.KindGeometry))
	a.True(tnerr.Is(b.SetCursor(-1), tnerr.KindGeometry))
	a.NoError(b.MoveCursor(23, 79))
	a.Equal(1919, b.Cursor())
}

func TestShortReadAndClear(t *testing.T) {
	a := assert.New(t)
	b := loginBuffer(t)
	a.NoError(b.Type("alice"))
	b.SetAID(ds.AIDPA1)
	a.Equal(ds.Input{AID: ds.AIDPA1}, b.ReadModified(false))
	a.Len(b.ReadModified(true).Orders, 2)

	b.SetAID(ds.AIDClear)
	a.Equal(ds.Input{AID: ds.AIDClear}, b.ReadModified(false))
	b.Transmitted()
	a.False(b.Formatted())
	a.Equal(0, b.Cursor())
	a.Equal(ds.AIDNone, b.AID())
}

func TestReadBuffer(t *testing.T) {
	a := assert.New(t)
	b := New(ds.Geometry{Rows: 2, Cols: 4})
	apply(t, b, ds.Datastream{Command: ds.CommandEraseWrite, Orders: []ds.Order{
		ds.StartField{Attr: ds.AttrProtected},
		ds.NewText("AB"),
		ds.GraphicEscape{Char: 0xAD},
		ds.StartField{},
		ds.InsertCursor{},
	}})
	b.SetAID(ds.AIDEnter)
	a.Equal(ds.Input{
		AID:    ds.AIDEnter,
		Cursor: 5,
		Orders: []ds.Order{
			ds.StartField{Attr: ds.AttrProtected},
			ds.Text{Data: []byte{0xC1, 0xC2}},
			ds.GraphicEscape{Char: 0xAD},
			ds.StartField{},
			ds.Text{Data: []byte{0x00, 0x00, 0x00}},
		},
	}, b.ReadBuffer())
	a.Equal(" AB"+string(ds.DecodeRune(0xAD))+"\n    ", b.String())
}

func TestReadSubstitutesOrderBytes(t *testing.T) {
	a := assert.New(t)
	b := New(ds.Geometry{Rows: 2, Cols: 4})
	// a repeat character the decoder would refuse, applied directly
	apply(t, b, ds.Datastream{Command: ds.CommandWrite, Orders: []ds.Order{
		ds.RepeatToAddress{Address: 4, Char: ds.OpInsertCursor},
	}})
	b.SetAID(ds.AIDEnter)

	in := b.ReadBuffer()
	a.Equal([]ds.Order{ds.Text{Data: []byte{0x3F, 0x3F, 0x3F, 0x3F, 0x00, 0x00, 0x00, 0x00}}}, in.Orders)
	codec := ds.NewCodec(b.Geometry())
	got, err := codec.DecodeInput(codec.EncodeInput(in))
	a.NoError(err)
	a.Equal(in, got)

	a.Equal([]ds.Order{ds.Text{Data: []byte{0x3F, 0x3F, 0x3F, 0x3F}}}, b.ReadModified(false).Orders)
}
