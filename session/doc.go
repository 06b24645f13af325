/*
Package session offers a client TN3270E Session implementation.

Terminal applications implement the Handler (session event)
interface, most importantly its OnMessage method.

Session implementation and execution overview

Sessions are created using the New function, providing the
channel (an io.ReadWriteCloser such as a net.Conn) along with a
session Config, or using Dial, which connects to the server
directly, through a SOCKS5 proxy or through the proxy named by
the environment, optionally with TLS.

Connect performs telnet and TN3270E negotiation. Once the session
is established it owns a screen.Buffer sized for the negotiated
device type. Each call to Receive reads host records until a
3270-DATA record arrives and applies it to the screen. Host reads
(Read Buffer, Read Modified, Read Modified All and Read Partition
queries) are answered from the screen before Receive returns, and
when the RESPONSES function was negotiated, positive and negative
responses are sent as the host requests them. Telnet options the
host offers or requests after negotiation are refused.

SendInput sends the screen's modified fields with an attention
identifier, after which the keyboard remains locked until the
host restores it.

Session execution

The Run function takes a base Session (as created by New or Dial)
and a custom Handler implementation. Run calls Handler methods, as
described in Handler documentation. Closing the Session from
another goroutine aborts a blocked Receive with a connection-fatal
error.
*/
package session
