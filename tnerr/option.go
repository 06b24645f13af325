package tnerr

import "fmt"

// Option is an Error option function
type Option func(*Error)

func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }
func WithCause(err error) Option    { return func(e *Error) { e.cause = err } }
func WithOffset(offset int) Option  { return func(e *Error) { e.info().Offset = &offset } }
func WithOpcode(opcode byte) Option {
	return func(e *Error) { e.info().Opcode = fmt.Sprintf("0x%02x", opcode) }
}
