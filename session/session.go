package session

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/andaru/tn3270/datastream"
	"github.com/andaru/tn3270/negotiate"
	"github.com/andaru/tn3270/screen"
	"github.com/andaru/tn3270/tnerr"
	"github.com/andaru/tn3270/transport"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrNotEstablished is the cause of errors returned by Receive and
// SendInput outside of StatusEstablished
var ErrNotEstablished = errors.New("session not established")

// New returns a new TN3270E Session on the channel rw
func New(rw io.ReadWriteCloser, config Config) *Session {
	s := &Session{
		Config: &config,
		State:  &State{},
		rw:     rw,
		// the negotiator and the record reader share one buffered source,
		// so bytes read ahead during negotiation are not lost
		src: bufio.NewReader(rw),
	}
	var opts []transport.ReaderOption
	if config.MaxRecord > 0 {
		opts = append(opts, transport.WithBufferSize(config.MaxRecord))
	}
	s.reader = transport.NewReader(s.src, s.onCommand, opts...)
	s.writer = transport.NewWriter(rw)
	return s
}

// Run executes the Session s, using Handler h
func Run(s *Session, h Handler) {
	// perform telnet and TN3270E negotiation
	if _, err := s.Connect(); err == nil {
		h.OnEstablish(s)
		// call the message callback while the session remains established
		for s.Status() == StatusEstablished {
			h.OnMessage(s)
		}
	}
	if s.Status() == StatusError {
		h.OnError(s)
	}
	s.Close()
	h.OnClose(s)
}

// Session is a client TN3270E session: a negotiated channel, a record
// transport and the screen buffer the host writes to
type Session struct {
	Config *Config
	State  *State

	mu     sync.Mutex
	rw     io.ReadWriteCloser
	src    *bufio.Reader
	reader *transport.Reader
	writer *transport.Writer
	codec  datastream.Codec
	screen *screen.Buffer
	// cmdErr is a failure replying to a telnet command seen by the reader
	cmdErr error
	closed bool
}

// Handler is the Session handler interface.
//
// See Run() for usage.
type Handler interface {
	// OnEstablish is called once negotiation has completed
	OnEstablish(*Session)
	// OnMessage is called after the session is established and then
	// repeatedly while the session remains in StatusEstablished.
	// Implementations normally call Receive.
	OnMessage(*Session)
	// OnError is called once if the session moves to StatusError,
	// either instead of OnEstablish or after it
	OnError(*Session)
	// OnClose is called immediately after the channel is closed
	OnClose(*Session)
}

// Config contains Session configuration
type Config struct {
	// Negotiate is the terminal's negotiation request
	Negotiate negotiate.Config
	// MaxRecord is the largest record accepted from the host. The
	// transport default applies if zero.
	MaxRecord int
}

// State contains runtime Session state
type State struct {
	// Result holds the negotiated device type, LU and functions. It is
	// populated once the session is established.
	Result negotiate.Result
	// Status is the session status
	Status Status
	// Counters contains session counters
	Counters struct {
		// RxRecords is the number of records received after negotiation
		RxRecords int
		// TxRecords is the number of records sent after negotiation
		TxRecords int
	}

	// Opaque is user private data and is not used by the tn3270 libraries.
	Opaque interface{}

	errs []error
}

// Status is a Session's (present) state.
type Status int

const (
	// StatusInactive is the initial session state, indicating that
	// I/O has not yet been started.
	StatusInactive Status = iota
	// StatusNegotiating is set while telnet and TN3270E negotiation runs
	StatusNegotiating
	// StatusEstablished is set once negotiation succeeds. Otherwise
	// the session proceeds to StatusError.
	StatusEstablished

	// StatusError indicates the session has encountered a
	// connection-fatal or negotiation error.
	StatusError
	// StatusClosed indicates the session closed normally.
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusNegotiating:
		return "negotiating"
	case StatusEstablished:
		return "established"
	case StatusError:
		return "error"
	case StatusClosed:
		return "closed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Status returns the session status
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State.Status
}

func (s *Session) setStatus(status Status) {
	s.mu.Lock()
	s.State.Status = status
	s.mu.Unlock()
}

// Screen returns the screen buffer. It is nil until the session is
// established.
func (s *Session) Screen() *screen.Buffer { return s.screen }

// Connect performs telnet and TN3270E negotiation on the channel. On
// success the screen buffer is created for the negotiated geometry and
// the session is established. On failure the channel is closed and the
// session moves to StatusError.
func (s *Session) Connect() (negotiate.Result, error) {
	if status := s.Status(); status != StatusInactive {
		return negotiate.Result{}, tnerr.Negotiation("invalid-state",
			tnerr.WithMessage(fmt.Sprintf("cannot connect a session in status %s", status)))
	}
	s.setStatus(StatusNegotiating)
	result, err := negotiate.New(s.src, s.rw, s.Config.Negotiate).Run()
	if err != nil {
		s.fail(err)
		s.closeChannel()
		return negotiate.Result{}, err
	}
	s.State.Result = result
	s.screen = screen.New(result.Geometry)
	s.codec = datastream.NewCodec(result.Geometry)
	if glog.V(1) {
		glog.Infof("session: established device:%s lu:%s functions:%s geometry:%s",
			result.DeviceType, result.LUName, result.Functions, result.Geometry)
	}
	s.setStatus(StatusEstablished)
	return result, nil
}

// Receive reads records until a 3270-DATA record arrives, decodes it and
// applies it to the screen. Host read commands and query structured
// fields are answered before Receive returns, as are responses when the
// RESPONSES function was negotiated. Records of other data types are
// skipped.
//
// Malformed-datastream and geometry errors leave the session usable;
// connection-fatal errors move it to StatusError.
func (s *Session) Receive() (screen.Update, error) {
	if status := s.Status(); status != StatusEstablished {
		return screen.Update{}, tnerr.Connection(ErrNotEstablished,
			tnerr.WithMessage(fmt.Sprintf("session is %s", status)))
	}
	for {
		h, data, err := s.reader.ReadRecord()
		if err == nil && s.cmdErr != nil {
			err, s.cmdErr = s.cmdErr, nil
		}
		if err != nil {
			if tnerr.Is(err, tnerr.KindConnection) {
				s.fail(err)
			}
			return screen.Update{}, err
		}
		s.State.Counters.RxRecords++
		if h.DataType != transport.DataType3270 {
			if glog.V(1) {
				glog.Infof("session: skipping %s record", h)
			}
			continue
		}
		return s.receive(h, data)
	}
}

func (s *Session) receive(h transport.Header, data []byte) (screen.Update, error) {
	ds, err := s.codec.Decode(data)
	var u screen.Update
	if err == nil {
		u, err = s.screen.Apply(ds)
	}
	if rerr := s.respond(h, err == nil); rerr != nil {
		s.fail(rerr)
		return screen.Update{}, rerr
	}
	if err != nil {
		return screen.Update{}, err
	}
	if glog.V(2) {
		glog.Infof("session: applied %s", u)
	}
	return u, s.answer(ds)
}

// SendInput sends the modified fields of the screen with aid, as the
// operator pressing an attention key does. The keyboard locks until the
// host restores it. The encoded inbound datastream is returned.
func (s *Session) SendInput(aid datastream.AID) ([]byte, error) {
	if status := s.Status(); status != StatusEstablished {
		return nil, tnerr.Connection(ErrNotEstablished,
			tnerr.WithMessage(fmt.Sprintf("session is %s", status)))
	}
	if s.screen.Locked() {
		return nil, screen.ErrLocked
	}
	s.screen.SetAID(aid)
	b, err := s.send(s.screen.ReadModified(false))
	if err != nil {
		return nil, err
	}
	s.screen.Transmitted()
	return b, nil
}

// Close closes the Session. An in-flight Receive fails with a
// connection-fatal error.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.State.Status != StatusError {
		s.State.Status = StatusClosed
	}
	s.mu.Unlock()
	return s.closeChannel()
}

// closeChannel closes the channel once
func (s *Session) closeChannel() error {
	s.mu.Lock()
	closed := s.closed
	s.closed = true
	s.mu.Unlock()
	if closed {
		return nil
	}
	err := s.writer.Close()
	if err == io.ErrClosedPipe {
		err = nil
	}
	return err
}

// AddError adds an error to the session state
func (s *Session) AddError(errs ...error) (added int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, err := range errs {
		if err != nil {
			s.State.errs = append(s.State.errs, err)
			added++
		}
	}
	return added
}

// Errors returns all session errors
func (s *Session) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State.errs
}

// Run executes the session using Handler h
func (s *Session) Run(handler Handler) { Run(s, handler) }

// fail records a fatal error. A session already closed stays closed.
func (s *Session) fail(err error) {
	s.AddError(err)
	s.mu.Lock()
	if s.State.Status != StatusClosed {
		s.State.Status = StatusError
	}
	s.mu.Unlock()
}
