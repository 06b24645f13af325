/*
Package telnet offers the Telnet byte framing primitives used by TN3270E.

Expect consumes an exact byte sequence from a reader, failing with a
short-read or mismatch *tnerr.Error carrying an expected-vs-actual
diagnostic. Any other I/O failure is reported as connection-fatal.

Escape and Unescape handle IAC doubling for data and sub-negotiation
payload content. Subnegotiation frames a payload between IAC SB <option>
and IAC SE; the framing bytes themselves are never doubled.
*/
package telnet
