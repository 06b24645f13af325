// Command tn3270probe connects to a TN3270E server, negotiates a
// session and prints the first screen the host sends.
//
//	tn3270probe -addr mainframe.example.com:23 -device IBM-3278-2 -functions responses
//	tn3270probe -config terminal.yaml -xml -enter
//
// glog flags (-v, -logtostderr) enable protocol traces.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andaru/tn3270/config"
	"github.com/andaru/tn3270/datastream"
	"github.com/andaru/tn3270/negotiate"
	"github.com/andaru/tn3270/session"
	"github.com/andaru/tn3270/snapshot"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// EnvLogLevel names the log level when -log-level is not given
const EnvLogLevel = "TN3270_LOG_LEVEL"

type options struct {
	config    string
	addr      string
	device    string
	lu        string
	functions string
	tls       bool
	proxy     string
	timeout   time.Duration
	xml       bool
	enter     bool
	logLevel  string
	// set holds the names of flags given on the command line
	set map[string]bool
}

func main() {
	opts := options{set: map[string]bool{}}
	flag.StringVar(&opts.config, "config", "", "terminal profile (.yaml, .yml or .toml)")
	flag.StringVar(&opts.addr, "addr", "", "server address, host or host:port")
	flag.StringVar(&opts.device, "device", negotiate.DefaultDeviceType, "terminal device type")
	flag.StringVar(&opts.lu, "lu", "", "LU name to connect to")
	flag.StringVar(&opts.functions, "functions", "", "comma separated TN3270E functions to request")
	flag.BoolVar(&opts.tls, "tls", false, "connect with TLS")
	flag.StringVar(&opts.proxy, "proxy", "", "SOCKS5 proxy URL")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "connection timeout")
	flag.BoolVar(&opts.xml, "xml", false, "print screens as XML snapshots")
	flag.BoolVar(&opts.enter, "enter", false, "send ENTER and print the next screen")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error); default $"+EnvLogLevel)
	flag.Parse()
	flag.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	logger := newLogger(opts.logLevel)
	if err := run(context.Background(), opts, os.Stdout, logger); err != nil {
		logger.Fatal().Err(err).Msg("probe failed")
	}
}

func newLogger(level string) zerolog.Logger {
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "tn3270probe").Logger()
}

// profile returns the terminal profile: the -config file, or the
// defaults, overridden by any flags given
func profile(opts options) (config.Terminal, error) {
	term := config.Default()
	term.Timeout = opts.timeout.String()
	if opts.config != "" {
		var err error
		if term, err = config.Load(opts.config); err != nil {
			return config.Terminal{}, err
		}
	}
	if opts.set["addr"] || opts.config == "" {
		host, port, err := splitAddr(opts.addr, term.Port)
		if err != nil {
			return config.Terminal{}, err
		}
		term.Host, term.Port = host, port
	}
	if opts.set["device"] {
		term.DeviceType = opts.device
	}
	if opts.set["lu"] {
		term.LUName = opts.lu
	}
	if opts.set["functions"] {
		fs, err := negotiate.ParseFunctions(opts.functions)
		if err != nil {
			return config.Terminal{}, err
		}
		term.Functions = fs
	}
	if opts.set["tls"] {
		term.TLS = opts.tls
	}
	if opts.set["proxy"] {
		term.Proxy = opts.proxy
	}
	if opts.set["timeout"] {
		term.Timeout = opts.timeout.String()
	}
	return term, term.Validate()
}

func splitAddr(addr string, defaultPort int) (string, int, error) {
	if addr == "" {
		return "", 0, errors.New("-addr or -config is required")
	}
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		// no port given
		return addr, defaultPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, errors.Errorf("invalid port in %q", addr)
	}
	return host, port, nil
}

func run(ctx context.Context, opts options, out io.Writer, log zerolog.Logger) error {
	term, err := profile(opts)
	if err != nil {
		return err
	}
	dialOpts, err := term.DialOptions()
	if err != nil {
		return err
	}
	log.Debug().Str("addr", term.Addr()).Bool("tls", term.TLS).Str("proxy", term.Proxy).Msg("dialing")
	s, err := session.Dial(ctx, term.Addr(), dialOpts)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.Connect()
	if err != nil {
		return err
	}
	log.Info().
		Str("device", result.DeviceType).
		Str("lu", result.LUName).
		Stringer("functions", result.Functions).
		Stringer("geometry", result.Geometry).
		Msg("negotiated")

	if err := printScreen(s, out, opts.xml, log); err != nil {
		return err
	}
	if !opts.enter {
		return nil
	}
	b, err := s.SendInput(datastream.AIDEnter)
	if err != nil {
		return err
	}
	log.Debug().Hex("data", b).Msg("sent ENTER")
	return printScreen(s, out, opts.xml, log)
}

// printScreen receives until the host writes to the screen and then
// prints the screen
func printScreen(s *session.Session, out io.Writer, asXML bool, log zerolog.Logger) error {
	for {
		u, err := s.Receive()
		if err != nil {
			return err
		}
		log.Debug().Stringer("update", u).Msg("received")
		if u.Alarm {
			log.Info().Msg("alarm")
		}
		if u.Command.IsWrite() || u.Command == datastream.CommandEraseAllUnprotected {
			break
		}
	}
	if asXML {
		if err := snapshot.Write(out, s.Screen()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	}
	_, err := fmt.Fprintln(out, s.Screen().String())
	return err
}
