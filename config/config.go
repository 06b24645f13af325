// Package config loads terminal profiles from YAML or TOML files.
//
// A profile names the server to connect to and the terminal's
// negotiation request:
//
//	host: mainframe.example.com
//	port: 992
//	tls: true
//	device_type: IBM-3278-4-E
//	lu_name: TERM0001
//	functions: [responses, bind-image]
//	proxy: socks5://127.0.0.1:1080
//	timeout: 10s
package config

import (
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/andaru/tn3270/negotiate"
	"github.com/andaru/tn3270/session"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPort is the telnet port
const DefaultPort = 23

// Terminal is a terminal profile
type Terminal struct {
	Host               string                `yaml:"host" toml:"host"`
	Port               int                   `yaml:"port" toml:"port"`
	TLS                bool                  `yaml:"tls" toml:"tls"`
	InsecureSkipVerify bool                  `yaml:"insecure_skip_verify" toml:"insecure_skip_verify"`
	DeviceType         string                `yaml:"device_type" toml:"device_type"`
	LUName             string                `yaml:"lu_name" toml:"lu_name"`
	Functions          negotiate.FunctionSet `yaml:"functions" toml:"functions"`
	// Proxy is a SOCKS5 proxy URL
	Proxy string `yaml:"proxy" toml:"proxy"`
	// Timeout is a time.ParseDuration string limiting connection setup
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// Default returns a profile holding the default values
func Default() Terminal {
	return Terminal{Port: DefaultPort, DeviceType: negotiate.DefaultDeviceType}
}

// Load reads the profile at path. The format is chosen by the file
// extension: .yaml or .yml for YAML, .toml for TOML. Keys missing from
// the file keep their default values. The loaded profile is validated.
func Load(path string) (Terminal, error) {
	t := Default()
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		var b []byte
		if b, err = os.ReadFile(path); err == nil {
			err = yaml.Unmarshal(b, &t)
		}
	case ".toml":
		_, err = toml.DecodeFile(path, &t)
	default:
		return Terminal{}, errors.Errorf("load config %s: unsupported file extension %q", path, ext)
	}
	if err != nil {
		return Terminal{}, errors.Wrapf(err, "load config %s", path)
	}
	if err := t.Validate(); err != nil {
		return Terminal{}, errors.Wrapf(err, "load config %s", path)
	}
	return t, nil
}

// Validate returns the first problem found with t
func (t Terminal) Validate() error {
	if strings.TrimSpace(t.Host) == "" {
		return errors.New("host is required")
	}
	if t.Port < 1 || t.Port > 65535 {
		return errors.Errorf("port %d out of range", t.Port)
	}
	if _, err := t.timeout(); err != nil {
		return err
	}
	if t.Proxy != "" {
		u, err := url.Parse(t.Proxy)
		if err != nil {
			return errors.Wrap(err, "invalid proxy")
		}
		if u.Scheme != "socks5" && u.Scheme != "socks5h" {
			return errors.Errorf("proxy %q: scheme must be socks5 or socks5h", t.Proxy)
		}
	}
	return t.Negotiate().Validate()
}

func (t Terminal) timeout() (time.Duration, error) {
	if t.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.Timeout)
	if err != nil {
		return 0, errors.Wrap(err, "invalid timeout")
	}
	if d < 0 {
		return 0, errors.Errorf("timeout %s is negative", t.Timeout)
	}
	return d, nil
}

// Addr returns the host:port address of the server
func (t Terminal) Addr() string { return net.JoinHostPort(t.Host, strconv.Itoa(t.Port)) }

// Negotiate returns the negotiation request of t
func (t Terminal) Negotiate() negotiate.Config {
	return negotiate.Config{DeviceType: t.DeviceType, LUName: t.LUName, Functions: t.Functions}
}

// DialOptions returns the session.Dial options of t
func (t Terminal) DialOptions() (session.DialOptions, error) {
	timeout, err := t.timeout()
	if err != nil {
		return session.DialOptions{}, err
	}
	return session.DialOptions{
		Session:            session.Config{Negotiate: t.Negotiate()},
		TLS:                t.TLS,
		InsecureSkipVerify: t.InsecureSkipVerify,
		Proxy:              t.Proxy,
		Timeout:            timeout,
	}, nil
}
