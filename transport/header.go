package transport

import (
	"fmt"

	"github.com/andaru/tn3270/tnerr"
)

// HeaderLen is the length of an encoded TN3270E header
const HeaderLen = 5

// DataType identifies the content of a TN3270E record (RFC 2355, s8.1)
type DataType byte

const (
	DataType3270     DataType = 0x00
	DataTypeSCS      DataType = 0x01
	DataTypeResponse DataType = 0x02
	DataTypeBind     DataType = 0x03
	DataTypeUnbind   DataType = 0x04
	DataTypeNVT      DataType = 0x05
	DataTypeRequest  DataType = 0x06
	DataTypeSSCPLU   DataType = 0x07
	DataTypePrintEOJ DataType = 0x08
)

func (d DataType) String() string {
	switch d {
	case DataType3270:
		return "3270-DATA"
	case DataTypeSCS:
		return "SCS-DATA"
	case DataTypeResponse:
		return "RESPONSE"
	case DataTypeBind:
		return "BIND-IMAGE"
	case DataTypeUnbind:
		return "UNBIND"
	case DataTypeNVT:
		return "NVT-DATA"
	case DataTypeRequest:
		return "REQUEST"
	case DataTypeSSCPLU:
		return "SSCP-LU-DATA"
	case DataTypePrintEOJ:
		return "PRINT-EOJ"
	default:
		return fmt.Sprintf("DataType(%02x)", byte(d))
	}
}

// ResponseFlag is the response-flag header byte. For 3270-DATA and
// SCS-DATA records it states whether the host wants a response; for
// RESPONSE records it states whether the response is positive.
type ResponseFlag byte

const (
	ResponseNo     ResponseFlag = 0x00
	ResponseError  ResponseFlag = 0x01
	ResponseAlways ResponseFlag = 0x02

	PositiveResponse ResponseFlag = 0x00
	NegativeResponse ResponseFlag = 0x01
)

// Response codes carried as data in RESPONSE records
const (
	ResponseDeviceEnd             byte = 0x00 // positive
	ResponseCommandReject         byte = 0x00 // negative
	ResponseInterventionRequired  byte = 0x01
	ResponseOperationCheck        byte = 0x02
	ResponseComponentDisconnected byte = 0x03
)

// Header is the TN3270E record header
type Header struct {
	DataType     DataType
	RequestFlag  byte
	ResponseFlag ResponseFlag
	SeqNumber    uint16
}

// Bytes returns the five byte wire form of h (before IAC doubling)
func (h Header) Bytes() []byte {
	return []byte{
		byte(h.DataType),
		h.RequestFlag,
		byte(h.ResponseFlag),
		byte(h.SeqNumber >> 8),
		byte(h.SeqNumber),
	}
}

func (h Header) String() string {
	return fmt.Sprintf("%s req:%02x rsp:%02x seq:%d", h.DataType, h.RequestFlag, byte(h.ResponseFlag), h.SeqNumber)
}

// ParseHeader splits a record into its header and data
func ParseHeader(record []byte) (Header, []byte, error) {
	if len(record) < HeaderLen {
		return Header{}, nil, tnerr.Malformed(
			tnerr.WithOffset(len(record)),
			tnerr.WithMessage(fmt.Sprintf("record of %d bytes is shorter than the TN3270E header", len(record))))
	}
	h := Header{
		DataType:     DataType(record[0]),
		RequestFlag:  record[1],
		ResponseFlag: ResponseFlag(record[2]),
		SeqNumber:    uint16(record[3])<<8 | uint16(record[4]),
	}
	return h, record[HeaderLen:], nil
}
