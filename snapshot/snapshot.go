package snapshot

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/andaru/tn3270/screen"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

// Field is a field element of a snapshot
type Field struct {
	Address     int    `xml:"address,attr" json:"address"`
	Row         int    `xml:"row,attr" json:"row"`
	Col         int    `xml:"col,attr" json:"col"`
	Protected   bool   `xml:"protected,attr" json:"protected"`
	Numeric     bool   `xml:"numeric,attr" json:"numeric"`
	Intensified bool   `xml:"intensified,attr" json:"intensified"`
	Hidden      bool   `xml:"hidden,attr" json:"hidden"`
	Modified    bool   `xml:"modified,attr" json:"modified"`
	Text        string `xml:",chardata" json:"text"`
}

var (
	seScreen = xml.StartElement{Name: xml.Name{Local: "screen"}}
	seField  = xml.StartElement{Name: xml.Name{Local: "field"}}
)

// Fields returns the snapshot fields of b
func Fields(b *screen.Buffer) []Field {
	g := b.Geometry()
	if !b.Formatted() {
		return []Field{{Text: strings.TrimRight(b.Text(0, g.Size()), " ")}}
	}
	var fields []Field
	for _, f := range b.Fields() {
		row, col := g.Position(f.Address)
		sf := Field{
			Address:     f.Address,
			Row:         row,
			Col:         col,
			Protected:   f.Attr.Protected(),
			Numeric:     f.Attr.Numeric(),
			Intensified: f.Attr.Intensified(),
			Hidden:      f.Attr.Hidden(),
			Modified:    f.Attr.Modified(),
		}
		if !sf.Hidden {
			sf.Text = strings.TrimRight(b.FieldText(f), " ")
		}
		fields = append(fields, sf)
	}
	return fields
}

// Write writes the snapshot of b to w
func Write(w io.Writer, b *screen.Buffer) error {
	g := b.Geometry()
	se := seScreen
	se.Attr = []xml.Attr{
		{Name: xml.Name{Local: "rows"}, Value: strconv.Itoa(g.Rows)},
		{Name: xml.Name{Local: "cols"}, Value: strconv.Itoa(g.Cols)},
		{Name: xml.Name{Local: "cursor"}, Value: strconv.Itoa(b.Cursor())},
		{Name: xml.Name{Local: "aid"}, Value: b.AID().String()},
	}
	xe := xml.NewEncoder(w)
	err := xe.EncodeToken(se)
	for _, f := range Fields(b) {
		if err != nil {
			break
		}
		err = xe.EncodeElement(f, seField)
	}
	if err == nil {
		err = xe.EncodeToken(se.End())
	}
	if err == nil {
		err = xe.Flush()
	}
	return errors.Wrap(err, "snapshot")
}

// Parse parses a snapshot document
func Parse(r io.Reader) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	return doc, nil
}

// Find returns the field elements of doc selected by the XPath
// expression expr. Selected nodes other than field elements are
// ignored.
func Find(doc *xmlquery.Node, expr string) ([]Field, error) {
	xp, err := xpath.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid XPath expression %q", expr)
	}
	var fields []Field
	for _, n := range xmlquery.QuerySelectorAll(doc, xp) {
		if n.Type != xmlquery.ElementNode || n.Data != seField.Name.Local {
			continue
		}
		f, err := fieldOf(n)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// FindFields returns the fields of b selected by expr, evaluated
// against the snapshot of b
func FindFields(b *screen.Buffer, expr string) ([]Field, error) {
	var buf bytes.Buffer
	if err := Write(&buf, b); err != nil {
		return nil, err
	}
	doc, err := Parse(&buf)
	if err != nil {
		return nil, err
	}
	return Find(doc, expr)
}

func fieldOf(n *xmlquery.Node) (Field, error) {
	var f Field
	var err error
	for _, a := range []struct {
		name string
		i    *int
		b    *bool
	}{
		{name: "address", i: &f.Address},
		{name: "row", i: &f.Row},
		{name: "col", i: &f.Col},
		{name: "protected", b: &f.Protected},
		{name: "numeric", b: &f.Numeric},
		{name: "intensified", b: &f.Intensified},
		{name: "hidden", b: &f.Hidden},
		{name: "modified", b: &f.Modified},
	} {
		value := n.SelectAttr(a.name)
		if value == "" {
			continue
		}
		if a.i != nil {
			*a.i, err = strconv.Atoi(value)
		} else {
			*a.b, err = strconv.ParseBool(value)
		}
		if err != nil {
			return Field{}, errors.Wrapf(err, "field attribute %s", a.name)
		}
	}
	f.Text = n.InnerText()
	return f, nil
}
