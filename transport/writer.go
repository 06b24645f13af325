package transport

import (
	"io"
	"sync"

	"github.com/andaru/tn3270/telnet"
	"github.com/andaru/tn3270/tnerr"
	"github.com/golang/glog"
)

// Writer is a TN3270E record encoder.
//
// Writes are serialised, so replies sent from a receive loop do not
// interleave with input sent from another goroutine.
type Writer struct {
	mu  sync.Mutex
	dst io.WriteCloser
	seq uint16
}

// NewWriter returns a new Writer writing to the destination dst
func NewWriter(dst io.WriteCloser) *Writer { return &Writer{dst: dst} }

// WriteRecord writes header h and data as one record. IAC bytes in
// the header or data are doubled and the record is terminated by
// IAC EOR.
func (w *Writer) WriteRecord(h Header, data []byte) error {
	record := make([]byte, 0, HeaderLen+len(data))
	record = append(record, h.Bytes()...)
	record = append(record, data...)
	if glog.V(2) {
		glog.Infof("transport: tx %s, %d data bytes", h, len(data))
	}
	return w.WriteRaw(record)
}

// WriteData writes data as a 3270-DATA record carrying the next
// terminal sequence number
func (w *Writer) WriteData(data []byte) error {
	w.mu.Lock()
	h := Header{DataType: DataType3270, SeqNumber: w.seq}
	w.seq++
	w.mu.Unlock()
	return w.WriteRecord(h, data)
}

// WriteRaw writes record, which carries no TN3270E header
func (w *Writer) WriteRaw(record []byte) error {
	escaped := telnet.Escape(record)
	out := make([]byte, 0, len(escaped)+2)
	out = append(out, escaped...)
	return w.write(append(out, telnet.IAC, telnet.EOR))
}

// WriteCommand writes a telnet command verbatim
func (w *Writer) WriteCommand(command []byte) error {
	if glog.V(2) {
		glog.Infof("transport: tx command % x", command)
	}
	return w.write(command)
}

func (w *Writer) write(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, err := w.dst.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return tnerr.Connection(err)
	}
	return nil
}

// Close closes the underlying writer
func (w *Writer) Close() error { return w.dst.Close() }
