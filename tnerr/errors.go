package tnerr

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/pkg/errors"
)

// Kind represents the class of a protocol engine failure
type Kind int

const (
	// KindConnection is an I/O failure on the channel. The session is unusable.
	KindConnection Kind = iota
	// KindNegotiation is an expected-vs-actual byte sequence failure
	// during Telnet/TN3270E negotiation. The session is unusable.
	KindNegotiation
	// KindDatastream is a malformed 3270 datastream (unknown opcode or
	// truncated operand). The offending datastream is discarded.
	KindDatastream
	// KindGeometry is a decoded buffer address outside the negotiated grid
	KindGeometry
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindNegotiation:
		return "negotiation"
	case KindDatastream:
		return "datastream"
	case KindGeometry:
		return "geometry"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "connection":
		*k = KindConnection
	case "negotiation":
		*k = KindNegotiation
	case "datastream":
		*k = KindDatastream
	case "geometry":
		*k = KindGeometry
	default:
		return errors.New("unknown value")
	}
	return nil
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Error is a typed protocol engine error.
//
// Every failure surfaced by the telnet, negotiate, datastream, screen,
// transport and session packages is an *Error or wraps one, so callers
// can distinguish failure classes with KindOf or Is.
type Error struct {
	XMLName xml.Name   `xml:"error" json:"-"`
	Kind    Kind       `xml:"kind" json:"kind"`
	Tag     string     `xml:"tag" json:"tag"`
	Message string     `xml:"message,omitempty" json:"message,omitempty"`
	Info    *errorInfo `xml:"info,omitempty" json:"info,omitempty"`

	cause error
}

type errorInfo struct {
	Opcode   string `xml:"opcode,omitempty" json:"opcode,omitempty"`
	Offset   *int   `xml:"offset,omitempty" json:"offset,omitempty"`
	Missing  int    `xml:"missing,omitempty" json:"missing,omitempty"`
	Expected string `xml:"expected,omitempty" json:"expected,omitempty"`
	Received string `xml:"received,omitempty" json:"received,omitempty"`
}

func (e Error) Error() string {
	s := fmt.Sprintf("%s error tag:%s", e.Kind, e.Tag)
	if info := e.Info; info != nil {
		if info.Opcode != "" {
			s += " opcode:" + info.Opcode
		}
		if info.Offset != nil {
			s += fmt.Sprintf(" offset:%d", *info.Offset)
		}
		if info.Missing > 0 {
			s += fmt.Sprintf(" missing:%d", info.Missing)
		}
	}
	if e.Message != "" {
		s += " " + e.Message
	}
	return s
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error { return e.cause }

// Cause returns the underlying cause, for github.com/pkg/errors.Cause
func (e *Error) Cause() error { return e.cause }

func (e *Error) info() *errorInfo {
	if e.Info == nil {
		e.Info = &errorInfo{}
	}
	return e.Info
}

func newError(kind Kind, tag string, opts []Option) *Error {
	e := &Error{Kind: kind, Tag: tag}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ShortRead reports fewer bytes available than expected
func ShortRead(expected, received []byte, opts ...Option) *Error {
	e := &Error{
		Kind:    KindNegotiation,
		Tag:     "short-read",
		Message: fmt.Sprintf("Expected %d but received only %d bytes", len(expected), len(received)),
		Info:    &errorInfo{Expected: fmt.Sprintf("%x", expected), Received: fmt.Sprintf("%x", received)},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mismatch reports a same-length byte sequence with differing content
func Mismatch(expected, received []byte, opts ...Option) *Error {
	e := &Error{
		Kind:    KindNegotiation,
		Tag:     "mismatch",
		Message: fmt.Sprintf("Expected %x but received %x", expected, received),
		Info:    &errorInfo{Expected: fmt.Sprintf("%x", expected), Received: fmt.Sprintf("%x", received)},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Negotiation returns a negotiation failure with the given tag
func Negotiation(tag string, opts ...Option) *Error { return newError(KindNegotiation, tag, opts) }

// Rejected reports the server refusing a negotiation request
func Rejected(opts ...Option) *Error { return newError(KindNegotiation, "rejected", opts) }

// Unrequested reports the server confirming something that was never requested
func Unrequested(opts ...Option) *Error { return newError(KindNegotiation, "unrequested", opts) }

// Connection wraps an I/O failure on the channel as connection-fatal
func Connection(cause error, opts ...Option) *Error {
	e := &Error{Kind: KindConnection, Tag: "io", cause: cause}
	if cause != nil {
		e.Message = cause.Error()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UnknownOpcode reports a byte outside the Command/Order catalog
func UnknownOpcode(opcode byte, offset int, opts ...Option) *Error {
	e := &Error{Kind: KindDatastream, Tag: "unknown-opcode"}
	e.info().Opcode = fmt.Sprintf("0x%02x", opcode)
	e.info().Offset = &offset
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TruncatedOrder reports an Order whose declared operands run past the buffer
func TruncatedOrder(opcode byte, offset, missing int, opts ...Option) *Error {
	e := &Error{Kind: KindDatastream, Tag: "truncated-order"}
	e.info().Opcode = fmt.Sprintf("0x%02x", opcode)
	e.info().Offset = &offset
	e.info().Missing = missing
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Malformed reports any other malformed datastream condition
func Malformed(opts ...Option) *Error { return newError(KindDatastream, "malformed-datastream", opts) }

// AddressOutOfRange reports a decoded buffer address outside the grid
func AddressOutOfRange(address, size int, opts ...Option) *Error {
	e := &Error{
		Kind:    KindGeometry,
		Tag:     "address-out-of-range",
		Message: fmt.Sprintf("address %d outside %d position buffer", address, size),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is returns true if err is, or wraps, an *Error of the given kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
