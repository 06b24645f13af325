package negotiate

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Function is a TN3270E function code (RFC 2355, s10)
type Function byte

const (
	FunctionBindImage     Function = 0x00
	FunctionDataStreamCtl Function = 0x01
	FunctionResponses     Function = 0x02
	FunctionSCSCtlCodes   Function = 0x03
	FunctionSysReq        Function = 0x04
)

var functionNames = map[Function]string{
	FunctionBindImage:     "BIND-IMAGE",
	FunctionDataStreamCtl: "DATA-STREAM-CTL",
	FunctionResponses:     "RESPONSES",
	FunctionSCSCtlCodes:   "SCS-CTL-CODES",
	FunctionSysReq:        "SYSREQ",
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Function(%02x)", byte(f))
}

// ParseFunction returns the Function named s, ignoring case
func ParseFunction(s string) (Function, error) {
	for f, name := range functionNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return 0, errors.Errorf("unknown TN3270E function %q", s)
}

func (f Function) MarshalText() ([]byte, error) { return []byte(strings.ToLower(f.String())), nil }

func (f *Function) UnmarshalText(b []byte) (err error) {
	*f, err = ParseFunction(string(b))
	return err
}

// FunctionSet is an ordered set of TN3270E functions
type FunctionSet []Function

// ParseFunctions parses a comma separated list of function names. An
// empty string is the empty set.
func ParseFunctions(s string) (FunctionSet, error) {
	var fs FunctionSet
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		f, err := ParseFunction(name)
		if err != nil {
			return nil, err
		}
		fs = fs.Add(f)
	}
	return fs, nil
}

// Has returns true if f is in the set
func (fs FunctionSet) Has(f Function) bool {
	for _, have := range fs {
		if have == f {
			return true
		}
	}
	return false
}

// Add returns the set with f added, if not already present
func (fs FunctionSet) Add(f Function) FunctionSet {
	if fs.Has(f) {
		return fs
	}
	return append(fs, f)
}

// Bytes returns the function codes in order
func (fs FunctionSet) Bytes() []byte {
	b := make([]byte, len(fs))
	for i, f := range fs {
		b[i] = byte(f)
	}
	return b
}

func (fs FunctionSet) String() string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// functionSetOf returns the set of codes in b, and the first code that
// is not in allowed
func functionSetOf(b []byte, allowed FunctionSet) (FunctionSet, *Function) {
	var fs FunctionSet
	for _, c := range b {
		f := Function(c)
		if !allowed.Has(f) {
			return nil, &f
		}
		fs = fs.Add(f)
	}
	return fs, nil
}
