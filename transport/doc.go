/*
Package transport provides the TN3270E record layer.

Once TN3270E is negotiated, host and terminal exchange records. Each
record starts with a five byte TN3270E header, carries IAC-doubled data
and ends with IAC EOR. The Reader and Writer here remove and apply that
framing so the session layer deals only in headers and datastream bytes.

Telnet commands the host interleaves with records (IAC DO <option>,
IAC NOP, etc) are handed to a callback rather than mixed into data.
*/
package transport
