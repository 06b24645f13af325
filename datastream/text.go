package datastream

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// code page 037, US/Canada EBCDIC
var ebcdic = charmap.CodePage037

// Substitute is the EBCDIC SUB character, used for runes with no encoding
const Substitute byte = 0x3F

// EncodeText returns s encoded as EBCDIC. Runes with no EBCDIC encoding,
// and control runes whose encoding is not a text byte, become SUB.
func EncodeText(s string) []byte {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		c, ok := ebcdic.EncodeRune(r)
		if !ok || !IsTextByte(c) {
			c = Substitute
		}
		b = append(b, c)
	}
	return b
}

// EncodeRune returns the EBCDIC byte for r
func EncodeRune(r rune) (byte, bool) { return ebcdic.EncodeRune(r) }

// DecodeText returns b decoded from EBCDIC. Control characters,
// including NUL, decode as spaces.
func DecodeText(b []byte) string {
	var builder strings.Builder
	builder.Grow(len(b))
	for _, c := range b {
		builder.WriteRune(DecodeRune(c))
	}
	return builder.String()
}

// DecodeRune returns the rune for EBCDIC byte c. Control characters
// decode as a space.
func DecodeRune(c byte) rune {
	if c < 0x40 {
		return ' '
	}
	return ebcdic.DecodeByte(c)
}
