package negotiate

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andaru/tn3270/datastream"
	"github.com/andaru/tn3270/telnet"
	"github.com/andaru/tn3270/tnerr"
	"github.com/golang/glog"
)

// TN3270E sub-negotiation bytes (RFC 2355, s8)
const (
	Connect    byte = 0x01
	DeviceType byte = 0x02
	Functions  byte = 0x03
	Is         byte = 0x04
	Reason     byte = 0x05
	Reject     byte = 0x06
	Request    byte = 0x07
	Send       byte = 0x08
)

// State is a Negotiator state
type State int

const (
	// StateStart waits for IAC DO TN3270E
	StateStart State = iota
	// StateAwaitSendDeviceType replies IAC WILL TN3270E and waits for SEND DEVICE-TYPE
	StateAwaitSendDeviceType
	// StateSentDeviceTypeRequest requests the device type and waits for DEVICE-TYPE IS
	StateSentDeviceTypeRequest
	// StateAwaitFunctions requests functions and waits for FUNCTIONS IS
	StateAwaitFunctions
	// StateNegotiated is the terminal success state
	StateNegotiated
	// StateFailed is the terminal failure state
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateAwaitSendDeviceType:
		return "AWAIT_SEND_DEVICE_TYPE"
	case StateSentDeviceTypeRequest:
		return "SENT_DEVICE_TYPE_REQUEST"
	case StateAwaitFunctions:
		return "AWAIT_FUNCTIONS"
	case StateNegotiated:
		return "NEGOTIATED"
	case StateFailed:
		return "FAILED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal returns true for StateNegotiated and StateFailed
func (s State) Terminal() bool { return s == StateNegotiated || s == StateFailed }

// Config is the terminal's negotiation request
type Config struct {
	// DeviceType is the requested device type; DefaultDeviceType if empty
	DeviceType string
	// LUName, if set, is requested with CONNECT
	LUName string
	// Functions are the TN3270E functions to request. May be empty.
	Functions FunctionSet
}

func (c Config) deviceType() string {
	if c.DeviceType == "" {
		return DefaultDeviceType
	}
	return c.DeviceType
}

// Validate returns an error if the device type or LU name is not
// printable 7-bit ASCII
func (c Config) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"device type", c.deviceType()},
		{"LU name", c.LUName},
	} {
		for i := 0; i < len(field.value); i++ {
			if ch := field.value[i]; ch <= 0x20 || ch >= 0x7F {
				return tnerr.Negotiation("invalid-config",
					tnerr.WithMessage(fmt.Sprintf("%s %q must be printable ASCII", field.name, field.value)))
			}
		}
	}
	return nil
}

// Result is the outcome of a successful negotiation
type Result struct {
	// DeviceType is the device type the server confirmed
	DeviceType string `xml:"device-type" json:"device-type"`
	// LUName is the LU the server connected the session to
	LUName string `xml:"lu-name" json:"lu-name"`
	// Functions is the confirmed function set; a subset of those requested
	Functions FunctionSet `xml:"functions>function" json:"functions"`
	// Geometry is the screen size of DeviceType, or of the requested
	// device type if the confirmed one is not in the device catalog
	Geometry datastream.Geometry `xml:"geometry" json:"geometry"`
}

// Negotiator is the client side TN3270E negotiation state machine.
//
// Each call to Step performs the action of the current state: it writes
// the state's reply (if any) and then reads and matches the server's next
// sub-negotiation. The Negotiator reads from r without buffering, so
// data following negotiation remains available on r.
type Negotiator struct {
	r      io.Reader
	w      io.Writer
	config Config
	state  State
	result Result
	err    error
}

// New returns a Negotiator in StateStart reading server bytes from r
// and writing replies to w
func New(r io.Reader, w io.Writer, config Config) *Negotiator {
	return &Negotiator{r: r, w: w, config: config}
}

// State returns the current state
func (n *Negotiator) State() State { return n.state }

// Err returns the failure which moved the Negotiator to StateFailed
func (n *Negotiator) Err() error { return n.err }

// Result returns the negotiated values. It is complete once the state
// is StateNegotiated.
func (n *Negotiator) Result() Result { return n.result }

// Run steps the Negotiator until it reaches a terminal state
func (n *Negotiator) Run() (Result, error) {
	for !n.state.Terminal() {
		n.Step()
	}
	if n.state == StateFailed {
		return Result{}, n.err
	}
	return n.result, nil
}

// Step performs one transition and returns the new state. It has no
// effect in a terminal state.
func (n *Negotiator) Step() State {
	var err error
	from := n.state
	switch n.state {
	case StateStart:
		if err = n.config.Validate(); err == nil {
			err = telnet.Expect(n.r, telnet.IAC, telnet.DO, telnet.OptTN3270E)
		}
	case StateAwaitSendDeviceType:
		if err = n.write(telnet.Command(telnet.WILL, telnet.OptTN3270E)); err == nil {
			err = n.expectSub(Send, DeviceType)
		}
	case StateSentDeviceTypeRequest:
		if err = n.write(n.deviceTypeRequest()); err == nil {
			err = n.readDeviceTypeIs()
		}
	case StateAwaitFunctions:
		request := append([]byte{Functions, Request}, n.config.Functions.Bytes()...)
		if err = n.write(subnegotiation(request)); err == nil {
			err = n.readFunctionsIs()
		}
	default:
		return n.state
	}
	if err != nil {
		n.state, n.err = StateFailed, err
	} else {
		n.state++
	}
	if glog.V(1) {
		if err != nil {
			glog.Infof("negotiate: %s -> %s: %v", from, n.state, err)
		} else {
			glog.Infof("negotiate: %s -> %s", from, n.state)
		}
	}
	return n.state
}

func (n *Negotiator) write(b []byte) error {
	if glog.V(9) {
		glog.Infof("negotiate: tx % x", b)
	}
	if _, err := n.w.Write(b); err != nil {
		return tnerr.Connection(err)
	}
	return nil
}

func subnegotiation(payload []byte) []byte {
	return telnet.Subnegotiation{Option: telnet.OptTN3270E, Payload: payload}.Bytes()
}

// expectSub matches IAC SB TN3270E <payload> IAC SE exactly
func (n *Negotiator) expectSub(payload ...byte) error {
	return telnet.Expect(n.r, subnegotiation(payload)...)
}

func (n *Negotiator) deviceTypeRequest() []byte {
	request := append([]byte{DeviceType, Request}, n.config.deviceType()...)
	if n.config.LUName != "" {
		request = append(append(request, Connect), n.config.LUName...)
	}
	return subnegotiation(request)
}

// readQualifier matches IAC SB TN3270E <kind> and returns the following
// byte, which must be one of allowed
func (n *Negotiator) readQualifier(kind byte, allowed ...byte) (byte, error) {
	prefix := []byte{telnet.IAC, telnet.SB, telnet.OptTN3270E, kind}
	if err := telnet.Expect(n.r, prefix...); err != nil {
		return 0, err
	}
	q, err := telnet.ReadByte(n.r)
	if err == io.EOF {
		return 0, tnerr.ShortRead(append(prefix, allowed[0]), prefix)
	} else if err != nil {
		return 0, err
	}
	if bytes.IndexByte(allowed, q) < 0 {
		return 0, tnerr.Mismatch(append(prefix, allowed[0]), append(prefix, q))
	}
	return q, nil
}

// readDeviceTypeIs reads DEVICE-TYPE IS <type> CONNECT <lu> or
// DEVICE-TYPE REJECT REASON <code>
func (n *Negotiator) readDeviceTypeIs() error {
	q, err := n.readQualifier(DeviceType, Is, Reject)
	if err != nil {
		return err
	}
	payload, err := telnet.ReadPayload(n.r)
	if err != nil {
		return err
	}
	if q == Reject {
		return rejection(payload)
	}
	i := bytes.IndexByte(payload, Connect)
	if i < 0 {
		return tnerr.Negotiation("missing-connect",
			tnerr.WithMessage(fmt.Sprintf("DEVICE-TYPE IS %q carries no CONNECT", payload)))
	}
	requested, _ := DeviceGeometry(n.config.deviceType())
	n.result.DeviceType = string(payload[:i])
	n.result.LUName = string(payload[i+1:])
	n.result.Geometry = requested
	if g, ok := DeviceGeometry(n.result.DeviceType); ok {
		n.result.Geometry = g
	}
	if !n.result.Geometry.Valid() {
		n.result.Geometry = datastream.DefaultGeometry
	}
	return nil
}

// readFunctionsIs reads FUNCTIONS IS <functions>. The confirmed set may
// be empty but may not include a function that was not requested.
func (n *Negotiator) readFunctionsIs() error {
	if _, err := n.readQualifier(Functions, Is); err != nil {
		return err
	}
	payload, err := telnet.ReadPayload(n.r)
	if err != nil {
		return err
	}
	confirmed, extra := functionSetOf(payload, n.config.Functions)
	if extra != nil {
		return tnerr.Unrequested(tnerr.WithMessage(
			fmt.Sprintf("server confirmed %s, requested %s", *extra, n.config.Functions)))
	}
	n.result.Functions = confirmed
	return nil
}

// Device type rejection reason codes (RFC 2355, s8.4)
var reasonNames = map[byte]string{
	0x00: "CONN-PARTNER",
	0x01: "DEVICE-IN-USE",
	0x02: "INV-ASSOCIATE",
	0x03: "INV-NAME",
	0x04: "INV-DEVICE-TYPE",
	0x05: "TYPE-NAME-ERROR",
	0x06: "UNKNOWN-ERROR",
	0x07: "UNSUPPORTED-REQ",
}

// rejection returns the error for a DEVICE-TYPE REJECT payload
func rejection(payload []byte) error {
	reason := "UNKNOWN-ERROR"
	if len(payload) == 2 && payload[0] == Reason {
		if name, ok := reasonNames[payload[1]]; ok {
			reason = name
		} else {
			reason = fmt.Sprintf("%02x", payload[1])
		}
	}
	return tnerr.Rejected(tnerr.WithMessage("device type rejected: " + reason))
}
