package screen

import (
	"fmt"
	"strings"

	"github.com/andaru/tn3270/datastream"
	"github.com/andaru/tn3270/tnerr"
	"github.com/pkg/errors"
)

// Local input errors
var (
	ErrProtected = errors.New("input to a protected position")
	ErrNumeric   = errors.New("non-numeric input to a numeric field")
	ErrLocked    = errors.New("keyboard locked")
)

// Cell is one buffer position. A cell holding a field attribute
// displays as a space and starts the field following it.
type Cell struct {
	// Char is the EBCDIC character; 0 is null
	Char byte
	// GraphicEscape marks Char as from the alternate character set
	GraphicEscape bool
	// Field is set for field attribute positions
	Field bool
	// Attr is the field attribute, for Field cells
	Attr datastream.FieldAttribute
	// Color and Highlight are extended attributes, 0 for the default
	Color     byte
	Highlight byte
}

// Buffer is a 3270 screen buffer
type Buffer struct {
	geometry datastream.Geometry
	cells    []Cell
	cursor   int
	aid      datastream.AID
	locked   bool
}

// New returns an erased Buffer of geometry g
func New(g datastream.Geometry) *Buffer {
	b := &Buffer{geometry: g, cells: make([]Cell, g.Size()), aid: datastream.AIDNone}
	return b
}

func (b *Buffer) Geometry() datastream.Geometry { return b.geometry }
func (b *Buffer) Cursor() int                   { return b.cursor }
func (b *Buffer) AID() datastream.AID           { return b.aid }

// Locked returns true while the keyboard is locked. The keyboard locks
// when input is sent and unlocks on a keyboard restore from the host.
func (b *Buffer) Locked() bool { return b.locked }

// SetAID records the AID of a local input action
func (b *Buffer) SetAID(aid datastream.AID) { b.aid = aid }

// ClearAID resets the AID to AIDNone
func (b *Buffer) ClearAID() { b.aid = datastream.AIDNone }

// Transmitted records that input carrying the current AID was sent to
// the host: a Clear erases the buffer, the AID is cleared and the
// keyboard locks until the host restores it.
func (b *Buffer) Transmitted() {
	if b.aid == datastream.AIDClear {
		b.Erase()
	}
	b.ClearAID()
	b.locked = true
}

// SetCursor moves the cursor to addr
func (b *Buffer) SetCursor(addr int) error {
	if err := b.geometry.Check(addr, 0); err != nil {
		return err
	}
	b.cursor = addr
	return nil
}

// MoveCursor moves the cursor to row and col, both zero based
func (b *Buffer) MoveCursor(row, col int) error {
	if row < 0 || row >= b.geometry.Rows || col < 0 || col >= b.geometry.Cols {
		return tnerr.AddressOutOfRange(row*b.geometry.Cols+col, b.geometry.Size(),
			tnerr.WithMessage(fmt.Sprintf("row %d col %d outside %s", row, col, b.geometry)))
	}
	b.cursor = row*b.geometry.Cols + col
	return nil
}

// Cell returns the cell at addr, which must be within the buffer
func (b *Buffer) Cell(addr int) Cell { return b.cells[addr] }

// Erase clears every cell to null with no fields, so the whole buffer
// is one unprotected unformatted area, and moves the cursor to 0
func (b *Buffer) Erase() {
	for i := range b.cells {
		b.cells[i] = Cell{}
	}
	b.cursor = 0
}

// Formatted returns true if the buffer contains at least one field
func (b *Buffer) Formatted() bool {
	for i := range b.cells {
		if b.cells[i].Field {
			return true
		}
	}
	return false
}

func (b *Buffer) wrap(addr int) int { return b.geometry.Wrap(addr) }

// fieldStart returns the address of the field attribute governing
// addr, scanning backwards with wraparound, or -1 if unformatted
func (b *Buffer) fieldStart(addr int) int {
	for i := 0; i < len(b.cells); i++ {
		if p := b.wrap(addr - i); b.cells[p].Field {
			return p
		}
	}
	return -1
}

// Attribute returns the effective field attribute of addr. Unformatted
// buffers are unprotected throughout.
func (b *Buffer) Attribute(addr int) datastream.FieldAttribute {
	if p := b.fieldStart(addr); p >= 0 {
		return b.cells[p].Attr
	}
	return datastream.AttrDefault
}

// Row returns the text of row i. Field attribute positions, nulls and
// the contents of hidden fields are shown as spaces.
func (b *Buffer) Row(i int) string {
	cols := b.geometry.Cols
	var builder strings.Builder
	for addr := i * cols; addr < (i+1)*cols; addr++ {
		c := b.cells[addr]
		if c.Field || c.Char == 0 || b.Attribute(addr).Hidden() {
			builder.WriteByte(' ')
			continue
		}
		builder.WriteRune(datastream.DecodeRune(c.Char))
	}
	return builder.String()
}

// String returns the buffer text, one line per row
func (b *Buffer) String() string {
	rows := make([]string, b.geometry.Rows)
	for i := range rows {
		rows[i] = b.Row(i)
	}
	return strings.Join(rows, "\n")
}

// Text returns the text of n positions starting at addr, wrapping at
// the end of the buffer. Nulls and field attributes read as spaces.
func (b *Buffer) Text(addr, n int) string {
	var builder strings.Builder
	for i := 0; i < n; i++ {
		c := b.cells[b.wrap(addr+i)]
		if c.Field || c.Char == 0 {
			builder.WriteByte(' ')
			continue
		}
		builder.WriteRune(datastream.DecodeRune(c.Char))
	}
	return builder.String()
}
