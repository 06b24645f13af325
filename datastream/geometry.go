package datastream

import (
	"fmt"

	"github.com/andaru/tn3270/tnerr"
)

// Geometry is a screen size in rows and columns
type Geometry struct {
	Rows int `xml:"rows,attr" json:"rows" yaml:"rows"`
	Cols int `xml:"cols,attr" json:"cols" yaml:"cols"`
}

// DefaultGeometry is the 24x80 model 2 screen
var DefaultGeometry = Geometry{Rows: 24, Cols: 80}

// Size returns the number of addressable buffer positions
func (g Geometry) Size() int { return g.Rows * g.Cols }

// Valid returns true if g has a non-empty size addressable by a 14-bit address
func (g Geometry) Valid() bool { return g.Rows > 0 && g.Cols > 0 && g.Size() <= maxAddress14+1 }

// AddressMode returns the buffer address form an encoder must use for g
func (g Geometry) AddressMode() AddressMode {
	if g.Size() <= maxAddress12 {
		return Address12Bit
	}
	return Address14Bit
}

// Position returns the row and column of linear buffer address addr
func (g Geometry) Position(addr int) (row, col int) { return addr / g.Cols, addr % g.Cols }

// Address returns the linear buffer address of row and col. Positions
// past the end of a row wrap onto the next row; positions past the end
// of the buffer wrap to its start.
func (g Geometry) Address(row, col int) int { return g.Wrap(row*g.Cols + col) }

// Wrap returns addr reduced into [0, Size())
func (g Geometry) Wrap(addr int) int {
	size := g.Size()
	if size == 0 {
		return 0
	}
	if addr %= size; addr < 0 {
		addr += size
	}
	return addr
}

// Check returns a geometry violation error unless addr is within g.
// offset is the datastream position the address was decoded from.
func (g Geometry) Check(addr, offset int) error {
	if addr < 0 || addr >= g.Size() {
		return tnerr.AddressOutOfRange(addr, g.Size(), tnerr.WithOffset(offset))
	}
	return nil
}

func (g Geometry) String() string { return fmt.Sprintf("%dx%d", g.Rows, g.Cols) }

// AddressMode is a buffer address encoding
type AddressMode int

const (
	// Address12Bit encodes six bits in each byte through the code table
	Address12Bit AddressMode = iota
	// Address14Bit encodes the address in the low fourteen bits
	Address14Bit
)

func (m AddressMode) String() string {
	if m == Address14Bit {
		return "14-bit"
	}
	return "12-bit"
}

const (
	maxAddress12 = 0x0FFF
	maxAddress14 = 0x3FFF
)

// codeTable maps six bit values to the graphic bytes used for 12-bit
// addresses and field attributes
var codeTable = [64]byte{
	0x40, 0xC1, 0xC2, 0xC3, 0xC4, 0xC5, 0xC6, 0xC7,
	0xC8, 0xC9, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
	0x50, 0xD1, 0xD2, 0xD3, 0xD4, 0xD5, 0xD6, 0xD7,
	0xD8, 0xD9, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F,
	0x60, 0x61, 0xE2, 0xE3, 0xE4, 0xE5, 0xE6, 0xE7,
	0xE8, 0xE9, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F,
	0xF0, 0xF1, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7,
	0xF8, 0xF9, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F,
}

// EncodeCode returns the code table graphic for the low six bits of v
func EncodeCode(v byte) byte { return codeTable[v&0x3F] }

// EncodeAddress returns the two byte encoding of addr in the given mode.
// addr must be within the range of the mode.
func EncodeAddress(addr int, mode AddressMode) []byte {
	if mode == Address12Bit {
		return []byte{codeTable[(addr>>6)&0x3F], codeTable[addr&0x3F]}
	}
	return []byte{byte(addr>>8) & 0x3F, byte(addr)}
}

// DecodeAddress returns the linear address encoded by b0 and b1, in
// either form. The 14-bit form is used when the top two bits of b0 are
// clear.
func DecodeAddress(b0, b1 byte) int {
	if b0&0xC0 == 0 {
		return int(b0&0x3F)<<8 | int(b1)
	}
	return int(b0&0x3F)<<6 | int(b1&0x3F)
}
