package telnet

import "fmt"

// Telnet commands (RFC 854, RFC 885)
const (
	IAC  byte = 0xFF // Interpret As Command
	DONT byte = 0xFE
	DO   byte = 0xFD
	WONT byte = 0xFC
	WILL byte = 0xFB
	SB   byte = 0xFA // Subnegotiation Begin
	GA   byte = 0xF9
	EL   byte = 0xF8
	EC   byte = 0xF7
	AYT  byte = 0xF6
	AO   byte = 0xF5
	IP   byte = 0xF4
	BRK  byte = 0xF3
	DM   byte = 0xF2
	NOP  byte = 0xF1
	SE   byte = 0xF0 // Subnegotiation End
	EOR  byte = 0xEF // End of Record
)

// Telnet options used by 3270 terminals
const (
	OptBinary       byte = 0x00
	OptTerminalType byte = 0x18
	OptEOR          byte = 0x19
	OptTN3270E      byte = 0x28
)

var commandNames = map[byte]string{
	IAC:  "IAC",
	DONT: "DONT",
	DO:   "DO",
	WONT: "WONT",
	WILL: "WILL",
	SB:   "SB",
	GA:   "GA",
	EL:   "EL",
	EC:   "EC",
	AYT:  "AYT",
	AO:   "AO",
	IP:   "IP",
	BRK:  "BRK",
	DM:   "DM",
	NOP:  "NOP",
	SE:   "SE",
	EOR:  "EOR",
}

var optionNames = map[byte]string{
	OptBinary:       "BINARY",
	OptTerminalType: "TERMINAL-TYPE",
	OptEOR:          "EOR",
	OptTN3270E:      "TN3270E",
}

// CommandName returns the mnemonic for a telnet command byte, or its hex value
func CommandName(b byte) string {
	if name, ok := commandNames[b]; ok {
		return name
	}
	return fmt.Sprintf("%02x", b)
}

// OptionName returns the mnemonic for a telnet option byte, or its hex value
func OptionName(b byte) string {
	if name, ok := optionNames[b]; ok {
		return name
	}
	return fmt.Sprintf("%02x", b)
}

// Command returns the three byte sequence IAC <verb> <option>
func Command(verb, option byte) []byte { return []byte{IAC, verb, option} }
