package framing

import (
	"bufio"
	"fmt"
	"io"

	"github.com/andaru/tn3270/telnet"
)

type ErrBadRecord struct {
	Message string
	Offset  int
}

func (e ErrBadRecord) Error() string {
	msg := "tn3270 bad record"
	if e.Message != "" {
		msg = msg + ": " + e.Message
	}
	if e.Offset < 1 {
		return msg
	}
	return fmt.Sprintf("%s at input offset %d", msg, e.Offset)
}

// SplitEOR returns a bufio.SplitFunc splitting a telnet stream into
// records terminated by IAC EOR. Each token is the record content with
// doubled IACs collapsed; the terminator is not included.
//
// endOfRecord, if non-nil, is called at the end of each record.
//
// onCommand, if non-nil, is called with every other telnet command in
// the stream (IAC NOP, IAC DO <option>, a whole IAC SB ... IAC SE, etc).
// Commands are removed from record data. A command seen between records
// is reported immediately, one seen inside a record is reported once the
// record is complete.
func SplitEOR(endOfRecord func(), onCommand func(command []byte)) bufio.SplitFunc {
	var consumed int
	deliver := func(cmds [][]byte) {
		if onCommand == nil {
			return
		}
		for _, c := range cmds {
			onCommand(c)
		}
	}
	return func(b []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(b) == 0 {
			return
		}
		record := make([]byte, 0, len(b))
		var commands [][]byte
		for i := 0; i < len(b); i++ {
			if b[i] != telnet.IAC {
				record = append(record, b[i])
				continue
			}
			if i+1 >= len(b) {
				break
			}
			var n int
			switch cmd := b[i+1]; {
			case cmd == telnet.IAC:
				record = append(record, telnet.IAC)
				i++
				continue
			case cmd == telnet.EOR:
				deliver(commands)
				if endOfRecord != nil {
					endOfRecord()
				}
				consumed += i + 2
				return i + 2, record, nil
			case cmd == telnet.DO || cmd == telnet.DONT || cmd == telnet.WILL || cmd == telnet.WONT:
				n = 3
			case cmd == telnet.SB:
				for j := i + 2; j+1 < len(b); j++ {
					if b[j] == telnet.IAC {
						if b[j+1] == telnet.SE {
							n = j + 2 - i
							break
						}
						j++
					}
				}
			case cmd >= telnet.SE:
				n = 2
			default:
				return 0, nil, ErrBadRecord{
					Message: fmt.Sprintf("invalid telnet command %02x", cmd),
					Offset:  consumed + i + 1,
				}
			}
			if n == 0 || i+n > len(b) {
				// command incomplete; ask for more data
				break
			}
			if i == 0 {
				deliver([][]byte{b[:n]})
				consumed += n
				return n, nil, nil
			}
			commands = append(commands, b[i:i+n])
			i += n - 1
		}
		if atEOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, nil, err
	}
}
