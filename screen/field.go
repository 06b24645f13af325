package screen

import "github.com/andaru/tn3270/datastream"

// Field is a formatted field: an attribute position and the data
// positions following it up to the next attribute
type Field struct {
	// Address is the position of the field attribute
	Address int
	// Start is the first data position and Length the number of data
	// positions, which may wrap past the end of the buffer
	Start  int
	Length int
	Attr   datastream.FieldAttribute
	// extended attributes of the field, 0 for the default
	Color     byte
	Highlight byte
}

// Contains returns true if addr is one of f's data positions
func (f Field) Contains(addr, size int) bool {
	off := addr - f.Start
	if off < 0 {
		off += size
	}
	return off < f.Length
}

// FieldAt returns the field containing addr, which may be its attribute
// position. It returns false on an unformatted buffer.
func (b *Buffer) FieldAt(addr int) (Field, bool) {
	p := b.fieldStart(addr)
	if p < 0 {
		return Field{}, false
	}
	return b.field(p), true
}

func (b *Buffer) field(p int) Field {
	c := b.cells[p]
	f := Field{Address: p, Start: b.wrap(p + 1), Attr: c.Attr, Color: c.Color, Highlight: c.Highlight}
	for i := 1; i < len(b.cells); i++ {
		if b.cells[b.wrap(p+i)].Field {
			break
		}
		f.Length++
	}
	return f
}

// Fields returns every field in address order
func (b *Buffer) Fields() []Field {
	var fields []Field
	for p := range b.cells {
		if b.cells[p].Field {
			fields = append(fields, b.field(p))
		}
	}
	return fields
}

// FieldText returns the data of field f, with nulls as spaces
func (b *Buffer) FieldText(f Field) string { return b.Text(f.Start, f.Length) }

// nextUnprotected returns the first data position of the first
// unprotected field whose attribute is at or after from, wrapping, and
// false if there is none. Zero length fields are skipped.
func (b *Buffer) nextUnprotected(from int) (int, bool) {
	for i := 0; i < len(b.cells); i++ {
		p := b.wrap(from + i)
		c := b.cells[p]
		if c.Field && !c.Attr.Protected() && !b.cells[b.wrap(p+1)].Field {
			return b.wrap(p + 1), true
		}
	}
	return 0, false
}

// unprotectedStarts returns the first data position of each non-empty
// unprotected field, in address order
func (b *Buffer) unprotectedStarts() []int {
	var starts []int
	for _, f := range b.Fields() {
		if !f.Attr.Protected() && f.Length > 0 {
			starts = append(starts, f.Start)
		}
	}
	return starts
}
