package session

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"time"

	"github.com/andaru/tn3270/tnerr"
	"github.com/golang/glog"
	"golang.org/x/net/proxy"
)

// DialOptions configure Dial
type DialOptions struct {
	// Session is the configuration of the returned Session
	Session Config
	// TLS wraps the connection in TLS once connected
	TLS bool
	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool
	// Proxy is a SOCKS5 proxy URL (socks5://[user:pass@]host:port).
	// If empty, the ALL_PROXY and NO_PROXY environment variables apply.
	Proxy string
	// Timeout limits connection establishment, including any proxy
	// and TLS handshake. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Dial connects to the TN3270E server at addr (host:port) and returns
// a Session ready for Connect
func Dial(ctx context.Context, addr string, opts DialOptions) (*Session, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	dialer, err := opts.dialer()
	if err != nil {
		return nil, err
	}
	var conn net.Conn
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, tnerr.Connection(err)
	}
	if glog.V(1) {
		glog.Infof("session: connected to %s via %s", addr, conn.RemoteAddr())
	}
	if opts.TLS {
		host, _, serr := net.SplitHostPort(addr)
		if serr != nil {
			host = addr
		}
		tc := tls.Client(conn, &tls.Config{
			MinVersion:         tls.VersionTLS12,
			ServerName:         host,
			InsecureSkipVerify: opts.InsecureSkipVerify,
		})
		if err := tc.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, tnerr.Connection(err, tnerr.WithMessage("TLS handshake: "+err.Error()))
		}
		conn = tc
	}
	return New(conn, opts.Session), nil
}

func (opts DialOptions) dialer() (proxy.Dialer, error) {
	forward := &net.Dialer{Timeout: opts.Timeout}
	if opts.Proxy == "" {
		return proxy.FromEnvironmentUsing(forward), nil
	}
	u, err := url.Parse(opts.Proxy)
	if err != nil {
		return nil, tnerr.Connection(err, tnerr.WithMessage("invalid proxy URL: "+err.Error()))
	}
	d, err := proxy.FromURL(u, forward)
	if err != nil {
		return nil, tnerr.Connection(err)
	}
	return d, nil
}
