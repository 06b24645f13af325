package session

import (
	"github.com/andaru/tn3270/datastream"
	"github.com/andaru/tn3270/negotiate"
	"github.com/andaru/tn3270/telnet"
	"github.com/andaru/tn3270/transport"
	"github.com/golang/glog"
)

// answer replies to host read commands and to Read Partition
// structured fields
func (s *Session) answer(ds datastream.Datastream) error {
	var in datastream.Input
	switch ds.Command {
	case datastream.CommandReadBuffer:
		in = s.screen.ReadBuffer()
	case datastream.CommandReadModified:
		in = s.screen.ReadModified(false)
	case datastream.CommandReadModifiedAll:
		in = s.screen.ReadModified(true)
	case datastream.CommandWriteStructuredField:
		for _, sf := range ds.Fields {
			if sf.IsQuery() {
				in = datastream.Input{AID: datastream.AIDStructuredField, Fields: datastream.QueryReply(s.screen.Geometry())}
				break
			}
			// a Read Partition naming a read command is answered as that command
			if sf.ID == datastream.SFReadPartition && len(sf.Data) >= 2 {
				if cmd, ok := datastream.LookupCommand(sf.Data[1]); ok && cmd.IsRead() {
					return s.answer(datastream.Datastream{Command: cmd})
				}
			}
		}
		if in.AID != datastream.AIDStructuredField {
			return nil
		}
	default:
		return nil
	}
	_, err := s.send(in)
	return err
}

// send encodes in and writes it as a 3270-DATA record
func (s *Session) send(in datastream.Input) ([]byte, error) {
	b := s.codec.EncodeInput(in)
	if glog.V(2) {
		glog.Infof("session: sending %s", in)
	}
	if err := s.writer.WriteData(b); err != nil {
		s.fail(err)
		return nil, err
	}
	s.State.Counters.TxRecords++
	return b, nil
}

// respond sends a RESPONSE record for the 3270-DATA record with header
// h when RESPONSES was negotiated and the host asked for one
func (s *Session) respond(h transport.Header, ok bool) error {
	if !s.State.Result.Functions.Has(negotiate.FunctionResponses) {
		return nil
	}
	rh := transport.Header{DataType: transport.DataTypeResponse, SeqNumber: h.SeqNumber}
	var code byte
	switch {
	case ok && h.ResponseFlag == transport.ResponseAlways:
		rh.ResponseFlag, code = transport.PositiveResponse, transport.ResponseDeviceEnd
	case !ok && (h.ResponseFlag == transport.ResponseError || h.ResponseFlag == transport.ResponseAlways):
		rh.ResponseFlag, code = transport.NegativeResponse, transport.ResponseCommandReject
	default:
		return nil
	}
	if err := s.writer.WriteRecord(rh, []byte{code}); err != nil {
		return err
	}
	s.State.Counters.TxRecords++
	return nil
}

// onCommand refuses any option the host offers or requests once the
// session is running, other than TN3270E itself which is already agreed
func (s *Session) onCommand(c []byte) {
	if len(c) != 3 || c[2] == telnet.OptTN3270E {
		return
	}
	var reply byte
	switch c[1] {
	case telnet.DO:
		reply = telnet.WONT
	case telnet.WILL:
		reply = telnet.DONT
	default:
		return
	}
	if err := s.writer.WriteCommand(telnet.Command(reply, c[2])); err != nil && s.cmdErr == nil {
		s.cmdErr = err
	}
}
