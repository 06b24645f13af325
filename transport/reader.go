package transport

import (
	"bufio"
	"io"

	"github.com/andaru/tn3270/framing"
	"github.com/andaru/tn3270/tnerr"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Reader is a TN3270E record decoder.
//
// Records read from the source have their IAC EOR terminator removed and
// doubled IACs collapsed. Telnet commands seen in the stream are passed
// to the command callback given to NewReader, in stream order relative
// to the records around them.
type Reader struct {
	src       io.Reader
	onCommand func(command []byte)
	scanner   *bufio.Scanner
	bufsize   int
	records   int
}

// ReaderOption is a constructor option for a Reader
type ReaderOption func(*Reader)

// WithBufferSize sets the maximum record size the Reader accepts.
//
// Size has a floor of 16 bytes.
func WithBufferSize(size int) ReaderOption {
	return func(r *Reader) {
		if size < 16 {
			size = 16
		}
		r.bufsize = size
	}
}

const (
	readerBufsize = 64 * 1024
)

// NewReader returns a new Reader given the source io.Reader and a function
// to be called with each telnet command seen. onCommand may be nil, in
// which case commands are discarded.
func NewReader(source io.Reader, onCommand func(command []byte), opts ...ReaderOption) *Reader {
	if source == nil {
		panic("NewReader: source must be non-nil")
	}
	r := &Reader{src: source, onCommand: onCommand, bufsize: readerBufsize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// setup performs one time scanner setup
func (r *Reader) setup() {
	if r.scanner != nil {
		return
	}
	r.scanner = bufio.NewScanner(r.src)
	initial := 4096
	if r.bufsize < initial {
		initial = r.bufsize
	}
	r.scanner.Buffer(make([]byte, 0, initial), r.bufsize)
	r.scanner.Split(framing.SplitEOR(func() { r.records++ }, r.command))
}

func (r *Reader) command(c []byte) {
	if glog.V(2) {
		glog.Infof("transport: rx command % x", c)
	}
	if r.onCommand != nil {
		// the scanner reuses its buffer
		r.onCommand(append([]byte(nil), c...))
	}
}

// ReadRecord returns the next record split into header and data.
//
// A record too short to hold a header is a malformed-datastream error and
// the Reader remains usable. End of input, including input ending part way
// through a record, and any read failure are connection-fatal.
func (r *Reader) ReadRecord() (Header, []byte, error) {
	record, err := r.ReadRaw()
	if err != nil {
		return Header{}, nil, err
	}
	h, data, err := ParseHeader(record)
	if err != nil {
		return Header{}, nil, err
	}
	if glog.V(2) {
		glog.Infof("transport: rx %s, %d data bytes", h, len(data))
	}
	return h, data, nil
}

// ReadRaw returns the next record without interpreting a header
func (r *Reader) ReadRaw() ([]byte, error) {
	r.setup()
	if r.scanner.Scan() {
		// the scanner reuses its buffer
		return append([]byte(nil), r.scanner.Bytes()...), nil
	}
	err := r.scanner.Err()
	var bad framing.ErrBadRecord
	switch {
	case err == nil:
		err = tnerr.Connection(io.EOF)
	case errors.As(err, &bad):
		// the stream can't be resynchronised past a bad telnet command
		err = tnerr.Connection(err, tnerr.WithOffset(bad.Offset))
	case errors.Is(err, bufio.ErrTooLong):
		err = tnerr.Connection(err, tnerr.WithMessage("record exceeds the reader buffer"))
	default:
		if _, ok := tnerr.KindOf(err); !ok {
			err = tnerr.Connection(err)
		}
	}
	return nil, err
}

// Records returns the number of complete records read
func (r *Reader) Records() int { return r.records }
