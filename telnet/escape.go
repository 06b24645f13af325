package telnet

import (
	"bytes"

	"github.com/andaru/tn3270/tnerr"
)

// Escape returns b with every IAC byte doubled. b is returned unchanged
// if it contains no IAC.
func Escape(b []byte) []byte {
	count := bytes.Count(b, []byte{IAC})
	if count == 0 {
		return b
	}
	out := make([]byte, 0, len(b)+count)
	for _, c := range b {
		out = append(out, c)
		if c == IAC {
			out = append(out, IAC)
		}
	}
	return out
}

// Unescape collapses each doubled IAC in b to a single byte. A lone IAC
// (one followed by anything but IAC) is an error.
func Unescape(b []byte) ([]byte, error) {
	if bytes.IndexByte(b, IAC) < 0 {
		return b, nil
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == IAC {
			if i+1 >= len(b) || b[i+1] != IAC {
				return nil, tnerr.Malformed(
					tnerr.WithOffset(i),
					tnerr.WithMessage("unescaped IAC in data"))
			}
			i++
		}
		out = append(out, b[i])
	}
	return out, nil
}
