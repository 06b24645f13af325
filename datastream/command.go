package datastream

import (
	"fmt"
	"strings"
)

// Command is a 3270 command code. Values are the SNA form; the local
// (channel attached) form is accepted on decode.
type Command byte

const (
	CommandWrite                Command = 0xF1
	CommandEraseWrite           Command = 0xF5
	CommandEraseWriteAlternate  Command = 0x7E
	CommandReadBuffer           Command = 0xF2
	CommandReadModified         Command = 0xF6
	CommandReadModifiedAll      Command = 0x6E
	CommandEraseAllUnprotected  Command = 0x6F
	CommandWriteStructuredField Command = 0xF3
)

// localCommands maps local command codes to their SNA equivalents
var localCommands = map[byte]Command{
	0x01: CommandWrite,
	0x05: CommandEraseWrite,
	0x0D: CommandEraseWriteAlternate,
	0x02: CommandReadBuffer,
	0x06: CommandReadModified,
	0x0E: CommandReadModifiedAll,
	0x0F: CommandEraseAllUnprotected,
	0x11: CommandWriteStructuredField,
}

var commandNames = map[Command]string{
	CommandWrite:                "W",
	CommandEraseWrite:           "EW",
	CommandEraseWriteAlternate:  "EWA",
	CommandReadBuffer:           "RB",
	CommandReadModified:         "RM",
	CommandReadModifiedAll:      "RMA",
	CommandEraseAllUnprotected:  "EAU",
	CommandWriteStructuredField: "WSF",
}

// LookupCommand returns the Command for opcode b in either form
func LookupCommand(b byte) (Command, bool) {
	if c, ok := localCommands[b]; ok {
		return c, true
	}
	c := Command(b)
	_, ok := commandNames[c]
	return c, ok
}

// IsWrite returns true for commands followed by a WCC and orders
func (c Command) IsWrite() bool {
	return c == CommandWrite || c == CommandEraseWrite || c == CommandEraseWriteAlternate
}

// IsErase returns true for commands that clear the buffer before applying orders
func (c Command) IsErase() bool {
	return c == CommandEraseWrite || c == CommandEraseWriteAlternate
}

// IsRead returns true for commands asking the terminal to send input
func (c Command) IsRead() bool {
	return c == CommandReadBuffer || c == CommandReadModified || c == CommandReadModifiedAll
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%02x)", byte(c))
}

// WCC is a Write Control Character
type WCC byte

const (
	WCCReset           WCC = 0x40
	WCCStartPrinter    WCC = 0x08
	WCCAlarm           WCC = 0x04
	WCCKeyboardRestore WCC = 0x02
	WCCResetMDT        WCC = 0x01
)

func (w WCC) Reset() bool           { return w&WCCReset != 0 }
func (w WCC) StartPrinter() bool    { return w&WCCStartPrinter != 0 }
func (w WCC) Alarm() bool           { return w&WCCAlarm != 0 }
func (w WCC) KeyboardRestore() bool { return w&WCCKeyboardRestore != 0 }
func (w WCC) ResetMDT() bool        { return w&WCCResetMDT != 0 }

func (w WCC) String() string {
	var flags []string
	for _, f := range []struct {
		bit  WCC
		name string
	}{
		{WCCReset, "reset"},
		{WCCStartPrinter, "print"},
		{WCCAlarm, "alarm"},
		{WCCKeyboardRestore, "restore"},
		{WCCResetMDT, "reset-mdt"},
	} {
		if w&f.bit != 0 {
			flags = append(flags, f.name)
		}
	}
	return fmt.Sprintf("WCC(%02x)[%s]", byte(w), strings.Join(flags, ","))
}
