package telnet

import (
	"bytes"
	"io"

	"github.com/andaru/tn3270/tnerr"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Expect consumes exactly len(expected) bytes from r and returns an error
// unless they equal expected.
//
// If r ends early the error is a short-read *tnerr.Error
// ("Expected 3 but received only 2 bytes"); differing content is a
// mismatch ("Expected fffd28 but received fffdfb"). Any other read
// failure is returned as a connection-fatal *tnerr.Error.
func Expect(r io.Reader, expected ...byte) error {
	received := make([]byte, len(expected))
	n, err := io.ReadFull(r, received)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return tnerr.ShortRead(expected, received[:n])
	case err != nil:
		return tnerr.Connection(err)
	}
	if !bytes.Equal(expected, received) {
		return tnerr.Mismatch(expected, received)
	}
	if glog.V(9) {
		glog.Infof("telnet: matched % x", received)
	}
	return nil
}

// ReadByte reads a single byte from r, using io.ByteReader when available.
// EOF is returned as-is; other errors are connection-fatal.
func ReadByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		b, err := br.ReadByte()
		if err != nil && err != io.EOF {
			err = tnerr.Connection(err)
		}
		return b, err
	}
	var one [1]byte
	if _, err := io.ReadFull(r, one[:]); err != nil {
		if err != io.EOF {
			err = tnerr.Connection(err)
		}
		return 0, err
	}
	return one[0], nil
}
