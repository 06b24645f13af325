package screen

import (
	"github.com/andaru/tn3270/datastream"
)

// Type enters text at the cursor as an operator would, setting the
// modified data tag of the field typed into and advancing the cursor.
// Typing stops at the first character that cannot be entered: one at a
// protected position, or a non-numeric character in a numeric field.
func (b *Buffer) Type(text string) error {
	if b.locked {
		return ErrLocked
	}
	for _, r := range text {
		pos := b.cursor
		if b.cells[pos].Field {
			return ErrProtected
		}
		p := b.fieldStart(pos)
		if p >= 0 {
			attr := b.cells[p].Attr
			if attr.Protected() {
				return ErrProtected
			}
			if attr.Numeric() && !numeric(r) {
				return ErrNumeric
			}
			b.cells[p].Attr = attr.WithModified(true)
		}
		c, ok := datastream.EncodeRune(r)
		if !ok || !datastream.IsTextByte(c) || c == 0 {
			c = datastream.Substitute
		}
		b.cells[pos].Char = c
		b.cells[pos].GraphicEscape = false
		b.advance()
	}
	return nil
}

func numeric(r rune) bool { return r >= '0' && r <= '9' || r == '.' || r == '-' }

// advance moves the cursor one position after typing. Landing on the
// attribute of an autoskip field tabs to the next unprotected field.
func (b *Buffer) advance() {
	next := b.wrap(b.cursor + 1)
	if c := b.cells[next]; c.Field {
		if c.Attr.Autoskip() {
			b.cursor = next
			b.Tab()
			return
		}
		next = b.wrap(next + 1)
	}
	b.cursor = next
}

// Tab moves the cursor to the start of the next unprotected field, or
// to 0 if there is none
func (b *Buffer) Tab() {
	next, ok := b.nextUnprotected(b.wrap(b.cursor + 1))
	if !ok {
		next = 0
	}
	b.cursor = next
}

// BackTab moves the cursor to the start of the current unprotected
// field, or if already there, to the start of the previous one
func (b *Buffer) BackTab() {
	starts := b.unprotectedStarts()
	if len(starts) == 0 {
		b.cursor = 0
		return
	}
	target := starts[len(starts)-1]
	for _, s := range starts {
		if s < b.cursor {
			target = s
		}
	}
	b.cursor = target
}

// Home moves the cursor to the start of the first unprotected field
func (b *Buffer) Home() {
	b.cursor = 0
	if starts := b.unprotectedStarts(); len(starts) > 0 {
		b.cursor = starts[0]
	}
}

// EraseEOF nulls the field containing the cursor from the cursor to
// the end of the field and sets its modified data tag. On an
// unformatted buffer it erases to the end of the buffer.
func (b *Buffer) EraseEOF() error {
	if b.locked {
		return ErrLocked
	}
	if b.cells[b.cursor].Field {
		return ErrProtected
	}
	f, ok := b.FieldAt(b.cursor)
	if !ok {
		for p := b.cursor; p < len(b.cells); p++ {
			b.cells[p].Char = 0
		}
		return nil
	}
	if f.Attr.Protected() {
		return ErrProtected
	}
	for p := b.cursor; f.Contains(p, len(b.cells)); p = b.wrap(p + 1) {
		b.cells[p].Char = 0
	}
	b.cells[f.Address].Attr = f.Attr.WithModified(true)
	return nil
}

// ReadModified returns the input for the current AID in response to
// Read Modified (all false) or Read Modified All (all true), or for an
// operator action. Short-read AIDs send nothing but the AID unless all
// is set. Only modified fields are sent, each as SBA to its start
// followed by its data with nulls suppressed; an unformatted buffer
// sends all of its non-null data.
func (b *Buffer) ReadModified(all bool) datastream.Input {
	in := datastream.Input{AID: b.aid, Cursor: b.cursor}
	if b.aid.ShortRead() && !all {
		return datastream.Input{AID: b.aid}
	}
	if !b.Formatted() {
		if data := b.nonNull(0, len(b.cells)); len(data) > 0 {
			in.Orders = append(in.Orders, datastream.Text{Data: data})
		}
		return in
	}
	for _, f := range b.Fields() {
		if !f.Attr.Modified() {
			continue
		}
		in.Orders = append(in.Orders, datastream.SetBufferAddress{Address: f.Start})
		if data := b.nonNull(f.Start, f.Length); len(data) > 0 {
			in.Orders = append(in.Orders, datastream.Text{Data: data})
		}
	}
	return in
}

// nonNull returns the non-null characters of n positions from addr
func (b *Buffer) nonNull(addr, n int) []byte {
	var data []byte
	for i := 0; i < n; i++ {
		if c := b.cells[b.wrap(addr+i)].Char; c != 0 {
			data = append(data, textByte(c))
		}
	}
	return data
}

// textByte returns c, or SUB if c would be read as an order
func textByte(c byte) byte {
	if !datastream.IsTextByte(c) {
		return datastream.Substitute
	}
	return c
}

// ReadBuffer returns the input for Read Buffer: the whole buffer from
// address 0, with each field attribute as an SF order. Characters that
// are not text bytes are sent as SUB.
func (b *Buffer) ReadBuffer() datastream.Input {
	in := datastream.Input{AID: b.aid, Cursor: b.cursor}
	var run []byte
	flush := func() {
		if len(run) > 0 {
			in.Orders = append(in.Orders, datastream.Text{Data: run})
			run = nil
		}
	}
	for _, c := range b.cells {
		switch {
		case c.Field:
			flush()
			in.Orders = append(in.Orders, datastream.StartField{Attr: c.Attr})
		case c.GraphicEscape:
			flush()
			in.Orders = append(in.Orders, datastream.GraphicEscape{Char: c.Char})
		default:
			run = append(run, textByte(c.Char))
		}
	}
	flush()
	return in
}
