package telnet

import (
	"fmt"
	"io"
	"strings"

	"github.com/andaru/tn3270/tnerr"
)

// MaxPayload is the longest sub-negotiation content ReadPayload accepts
const MaxPayload = 1024

// Subnegotiation is a payload framed by IAC SB <option> ... IAC SE
type Subnegotiation struct {
	Option  byte
	Payload []byte
}

// Bytes returns the wire encoding of s. IAC bytes in the payload are
// doubled, the framing bytes are not.
func (s Subnegotiation) Bytes() []byte {
	payload := Escape(s.Payload)
	b := make([]byte, 0, len(payload)+5)
	b = append(b, IAC, SB, s.Option)
	b = append(b, payload...)
	return append(b, IAC, SE)
}

func (s Subnegotiation) String() string {
	var builder strings.Builder
	builder.WriteString("IAC SB ")
	builder.WriteString(OptionName(s.Option))
	for _, c := range s.Payload {
		builder.WriteString(fmt.Sprintf(" %02x", c))
	}
	builder.WriteString(" IAC SE")
	return builder.String()
}

// ReadPayload reads sub-negotiation content from r up to and including
// the closing IAC SE. The returned content has doubled IACs collapsed.
//
// Input ending before IAC SE is a short-read, while IAC followed by any
// byte other than IAC or SE is a mismatch against the expected IAC SE.
func ReadPayload(r io.Reader) ([]byte, error) {
	var payload []byte
	for {
		b, err := ReadByte(r)
		if err == io.EOF {
			return nil, unterminated(payload, nil)
		} else if err != nil {
			return nil, err
		}
		if b != IAC {
			if len(payload) >= MaxPayload {
				return nil, tnerr.Negotiation("payload-too-long",
					tnerr.WithMessage(fmt.Sprintf("sub-negotiation payload exceeds %d bytes", MaxPayload)))
			}
			payload = append(payload, b)
			continue
		}
		next, err := ReadByte(r)
		if err == io.EOF {
			return nil, unterminated(payload, []byte{IAC})
		} else if err != nil {
			return nil, err
		}
		switch next {
		case SE:
			return payload, nil
		case IAC:
			payload = append(payload, IAC)
		default:
			return nil, tnerr.Mismatch([]byte{IAC, SE}, []byte{IAC, next})
		}
	}
}

// unterminated reports input ending after payload without the closing
// IAC SE; received holds the part of the terminator that did arrive
func unterminated(payload, received []byte) error {
	return tnerr.ShortRead([]byte{IAC, SE}, received, tnerr.WithMessage(
		fmt.Sprintf("sub-negotiation ended after %d payload bytes without IAC SE", len(payload))))
}
