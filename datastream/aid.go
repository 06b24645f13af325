package datastream

import (
	"fmt"

	"github.com/pkg/errors"
)

// AID is an Attention Identifier: the key or action that caused the
// terminal to send input
type AID byte

const (
	AIDNone            AID = 0x60
	AIDEnter           AID = 0x7D
	AIDPF1             AID = 0xF1
	AIDPF2             AID = 0xF2
	AIDPF3             AID = 0xF3
	AIDPF4             AID = 0xF4
	AIDPF5             AID = 0xF5
	AIDPF6             AID = 0xF6
	AIDPF7             AID = 0xF7
	AIDPF8             AID = 0xF8
	AIDPF9             AID = 0xF9
	AIDPF10            AID = 0x7A
	AIDPF11            AID = 0x7B
	AIDPF12            AID = 0x7C
	AIDPF13            AID = 0xC1
	AIDPF14            AID = 0xC2
	AIDPF15            AID = 0xC3
	AIDPF16            AID = 0xC4
	AIDPF17            AID = 0xC5
	AIDPF18            AID = 0xC6
	AIDPF19            AID = 0xC7
	AIDPF20            AID = 0xC8
	AIDPF21            AID = 0xC9
	AIDPF22            AID = 0x4A
	AIDPF23            AID = 0x4B
	AIDPF24            AID = 0x4C
	AIDPA1             AID = 0x6C
	AIDPA2             AID = 0x6E
	AIDPA3             AID = 0x6B
	AIDClear           AID = 0x6D
	AIDSysReq          AID = 0xF0
	AIDStructuredField AID = 0x88
)

var pfKeys = [...]AID{
	AIDPF1, AIDPF2, AIDPF3, AIDPF4, AIDPF5, AIDPF6,
	AIDPF7, AIDPF8, AIDPF9, AIDPF10, AIDPF11, AIDPF12,
	AIDPF13, AIDPF14, AIDPF15, AIDPF16, AIDPF17, AIDPF18,
	AIDPF19, AIDPF20, AIDPF21, AIDPF22, AIDPF23, AIDPF24,
}

var aidNames = map[AID]string{
	AIDNone:            "NONE",
	AIDEnter:           "ENTER",
	AIDPA1:             "PA1",
	AIDPA2:             "PA2",
	AIDPA3:             "PA3",
	AIDClear:           "CLEAR",
	AIDSysReq:          "SYSREQ",
	AIDStructuredField: "SF",
}

func init() {
	for i, aid := range pfKeys {
		aidNames[aid] = fmt.Sprintf("PF%d", i+1)
	}
}

// PF returns the AID of program function key n (1 to 24)
func PF(n int) (AID, bool) {
	if n < 1 || n > len(pfKeys) {
		return AIDNone, false
	}
	return pfKeys[n-1], true
}

// ParseAID returns the AID named s, as returned by AID.String
func ParseAID(s string) (AID, bool) {
	for aid, name := range aidNames {
		if name == s {
			return aid, true
		}
	}
	return AIDNone, false
}

// ShortRead returns true for AIDs sent without cursor address or field data
func (a AID) ShortRead() bool {
	switch a {
	case AIDPA1, AIDPA2, AIDPA3, AIDClear:
		return true
	}
	return false
}

// Known returns true if a is in the AID catalog
func (a AID) Known() bool {
	_, ok := aidNames[a]
	return ok
}

func (a AID) String() string {
	if name, ok := aidNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AID(%02x)", byte(a))
}

func (a AID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AID) UnmarshalText(b []byte) error {
	aid, ok := ParseAID(string(b))
	if !ok {
		return errors.Errorf("unknown AID %q", b)
	}
	*a = aid
	return nil
}
