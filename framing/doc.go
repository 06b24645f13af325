/*
Package framing offers the TN3270E steady-state record decoder.

After negotiation, 3270 datastreams travel as telnet records terminated
by IAC EOR, with data bytes of value 0xFF doubled. SplitEOR returns a
bufio.SplitFunc for use with a *bufio.Scanner, yielding one un-escaped
record per token. It returns io.ErrUnexpectedEOF when input terminates
other than at the end of a record.
*/
package framing
