/*
Package tn3270 is a set of TN3270E (RFC 2355) terminal support libraries.

Doing the heavy lifting of telnet option negotiation, record framing,
3270 datastream decoding and encoding and screen buffer maintenance,
these libraries allow programs to drive IBM mainframe applications
as a 3270 terminal would.

The packages build on each other:

	telnet      telnet command bytes, IAC escaping, sub-negotiation framing
	framing     a bufio.SplitFunc splitting a telnet stream into IAC EOR records
	transport   TN3270E record Reader and Writer carrying the 5 byte header
	negotiate   the client TN3270E negotiation state machine
	datastream  3270 commands, orders, WCC, AIDs, buffer addresses and text
	screen      the terminal's screen buffer and local operator input
	session     a client Session tying the above to a network channel
	snapshot    XML export of a screen and XPath field search
	config      YAML and TOML terminal profiles
	tnerr       the typed error shared by all packages

See the session sub-directory for more information about Session objects
and Handler implementations.
*/
package tn3270
