/*
Package negotiate performs Telnet and TN3270E option negotiation.

A Negotiator is an explicit state machine driven over a duplex byte
channel. From StateStart it waits for the server's IAC DO TN3270E,
agrees to it, requests a device type (and optionally an LU) when asked,
then requests a set of TN3270E functions and records the set the
server confirms. Each step matches the server's bytes exactly; any
deviation, short read or I/O failure moves the Negotiator to
StateFailed and is returned as a *tnerr.Error. There is no partial
acceptance or renegotiation.

Negotiation has no timeout of its own. Callers wanting one set a
deadline on the channel or close it.
*/
package negotiate
