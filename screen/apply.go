package screen

import (
	"fmt"

	"github.com/andaru/tn3270/datastream"
)

// Update describes the effect of one host datastream on a Buffer
type Update struct {
	Command datastream.Command
	WCC     datastream.WCC
	// Erased is set when the buffer was cleared before orders applied
	Erased bool
	// Written is the number of positions written by orders
	Written int
	// Cursor is the cursor address after the update
	Cursor int
	// Alarm is set when the host asked for the audible alarm
	Alarm bool
	// Restored is set when the keyboard was unlocked
	Restored bool
	// Fields are the structured fields of a Write Structured Field
	Fields []datastream.StructuredField
}

func (u Update) String() string {
	return fmt.Sprintf("%s erased:%t written:%d cursor:%d alarm:%t restored:%t",
		u.Command, u.Erased, u.Written, u.Cursor, u.Alarm, u.Restored)
}

// Apply applies host datastream ds. An erase command clears the buffer
// and moves the cursor to 0 before any orders apply. Addresses are
// checked before the buffer is touched, so a failed Apply leaves the
// buffer unchanged.
func (b *Buffer) Apply(ds datastream.Datastream) (Update, error) {
	if err := b.check(ds.Orders); err != nil {
		return Update{}, err
	}
	u := Update{Command: ds.Command, WCC: ds.WCC, Fields: ds.Fields}
	switch {
	case ds.Command.IsWrite():
		addr := b.cursor
		if ds.Command.IsErase() {
			b.Erase()
			u.Erased = true
			addr = 0
		}
		if ds.WCC.ResetMDT() {
			b.resetMDT()
		}
		u.Written = b.applyOrders(addr, ds.Orders)
		if ds.WCC.KeyboardRestore() {
			b.restore()
			u.Restored = true
		}
		u.Alarm = ds.WCC.Alarm()
	case ds.Command == datastream.CommandEraseAllUnprotected:
		b.eraseAllUnprotected()
		b.restore()
		u.Restored = true
	case ds.Command == datastream.CommandWriteStructuredField:
		for _, sf := range ds.Fields {
			if sf.ID == datastream.SFEraseReset {
				b.Erase()
				u.Erased = true
			}
		}
	}
	u.Cursor = b.cursor
	return u, nil
}

func (b *Buffer) check(orders []datastream.Order) error {
	for _, o := range orders {
		var addr int
		switch o := o.(type) {
		case datastream.SetBufferAddress:
			addr = o.Address
		case datastream.RepeatToAddress:
			addr = o.Address
		case datastream.EraseUnprotectedToAddress:
			addr = o.Address
		default:
			continue
		}
		if err := b.geometry.Check(addr, 0); err != nil {
			return err
		}
	}
	return nil
}

// restore unlocks the keyboard and clears the AID
func (b *Buffer) restore() {
	b.locked = false
	b.ClearAID()
}

func (b *Buffer) resetMDT() {
	for i := range b.cells {
		if b.cells[i].Field {
			b.cells[i].Attr = b.cells[i].Attr.WithModified(false)
		}
	}
}

// applyOrders applies orders from buffer address addr and returns the
// number of positions written
func (b *Buffer) applyOrders(addr int, orders []datastream.Order) (written int) {
	// character attributes set by SA, applied to following text
	var color, highlight byte
	put := func(c Cell) {
		c.Color, c.Highlight = color, highlight
		b.cells[addr] = c
		addr = b.wrap(addr + 1)
		written++
	}
	fill := func(to int, f func(p int)) {
		for {
			f(addr)
			written++
			if addr = b.wrap(addr + 1); addr == to {
				return
			}
		}
	}
	for _, o := range orders {
		switch o := o.(type) {
		case datastream.Text:
			for _, c := range o.Data {
				put(Cell{Char: c})
			}
		case datastream.GraphicEscape:
			put(Cell{Char: o.Char, GraphicEscape: true})
		case datastream.StartField:
			b.cells[addr] = Cell{Field: true, Attr: o.Attr}
			addr = b.wrap(addr + 1)
			written++
		case datastream.StartFieldExtended:
			b.cells[addr] = extendedField(Cell{Field: true}, o.Attrs)
			addr = b.wrap(addr + 1)
			written++
		case datastream.ModifyField:
			if b.cells[addr].Field {
				b.cells[addr] = extendedField(b.cells[addr], o.Attrs)
				addr = b.wrap(addr + 1)
			}
		case datastream.SetAttribute:
			switch o.Attr.Type {
			case datastream.XAColor:
				color = o.Attr.Value
			case datastream.XAHighlight:
				highlight = o.Attr.Value
			case datastream.XAAll:
				color, highlight = 0, 0
			}
		case datastream.SetBufferAddress:
			addr = o.Address
		case datastream.InsertCursor:
			b.cursor = addr
		case datastream.ProgramTab:
			if next, ok := b.nextUnprotected(addr); ok {
				addr = next
			} else {
				addr = 0
			}
		case datastream.RepeatToAddress:
			cell := Cell{Char: o.Char, GraphicEscape: o.GraphicEscape, Color: color, Highlight: highlight}
			fill(o.Address, func(p int) { b.cells[p] = cell })
		case datastream.EraseUnprotectedToAddress:
			fill(o.Address, func(p int) {
				if !b.cells[p].Field && !b.Attribute(p).Protected() {
					b.cells[p].Char = 0
				}
			})
		}
	}
	return written
}

// extendedField returns c with the extended attributes attrs applied
func extendedField(c Cell, attrs []datastream.Attribute) Cell {
	for _, a := range attrs {
		switch a.Type {
		case datastream.XAField:
			c.Attr = datastream.DecodeFieldAttribute(a.Value)
		case datastream.XAColor:
			c.Color = a.Value
		case datastream.XAHighlight:
			c.Highlight = a.Value
		case datastream.XAAll:
			c.Color, c.Highlight = 0, 0
		}
	}
	return c
}

// eraseAllUnprotected nulls every unprotected data position, resets
// the MDT of unprotected fields and moves the cursor to the first
// unprotected field
func (b *Buffer) eraseAllUnprotected() {
	if !b.Formatted() {
		b.Erase()
		return
	}
	for _, f := range b.Fields() {
		if f.Attr.Protected() {
			continue
		}
		b.cells[f.Address].Attr = f.Attr.WithModified(false)
		for i := 0; i < f.Length; i++ {
			b.cells[b.wrap(f.Start+i)].Char = 0
		}
	}
	b.cursor = 0
	if starts := b.unprotectedStarts(); len(starts) > 0 {
		b.cursor = starts[0]
	}
}
