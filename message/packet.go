package message

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/steamkit-go/cmframework/wire"
)

// JobIDNone mirrors wire.JobIDNone for callers that only import this package.
const JobIDNone = wire.JobIDNone

// Packet is a single decoded CM message: its type, whether it carries a
// Protobuf header, the parsed header (nil for Simple-header packets) and the
// raw message body.
type Packet struct {
	EMsg    EMsg
	IsProto bool
	Header  *wire.ProtoBufHeader
	Body    []byte
}

const (
	extendedHeaderSize    = 36
	extendedHeaderVersion = 2
	extendedHeaderCanary  = 0xEF
	simpleHeaderSize      = 4
)

// EncodeProto builds a Protobuf-header packet:
// [EMsg|ProtoMask u32LE][len(header) u32LE][header][body].
func EncodeProto(emsg EMsg, hdr *wire.ProtoBufHeader, body []byte) []byte {
	if hdr == nil {
		hdr = wire.NewProtoBufHeader()
	}
	hdrBytes := hdr.Marshal()

	buf := make([]byte, 0, 8+len(hdrBytes)+len(body))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(emsg)|ProtoMask)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(hdrBytes)))
	buf = append(buf, hdrBytes...)
	buf = append(buf, body...)
	return buf
}

// EncodeExtended builds a non-Protobuf packet using the 36-byte Extended
// header, with both job ids defaulted to the "no job" sentinel.
func EncodeExtended(emsg EMsg, steamID uint64, sessionID int32, body []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(emsg))
	buf.WriteByte(extendedHeaderSize)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(extendedHeaderVersion))
	_ = binary.Write(&buf, binary.LittleEndian, wire.JobIDNone)
	_ = binary.Write(&buf, binary.LittleEndian, wire.JobIDNone)
	buf.WriteByte(extendedHeaderCanary)
	_ = binary.Write(&buf, binary.LittleEndian, steamID)
	_ = binary.Write(&buf, binary.LittleEndian, sessionID)
	buf.Write(body)
	return buf.Bytes()
}

// Decode dispatches on the Protobuf mask bit of the leading EMsg field.
func Decode(data []byte) (*Packet, error) {
	if len(data) < 4 {
		return nil, errors.New("message: packet too short for EMsg")
	}
	rawEMsg := binary.LittleEndian.Uint32(data[0:4])
	if rawEMsg&ProtoMask != 0 {
		return decodeProto(rawEMsg&^ProtoMask, data[4:])
	}
	return decodeExtended(rawEMsg, data[4:])
}

// EncodeSimple builds a Simple-header packet: [EMsg u32LE][body]. Used only
// for the three encryption-handshake messages, which predate the
// Extended/Protobuf header shapes.
func EncodeSimple(emsg EMsg, body []byte) []byte {
	buf := make([]byte, 0, simpleHeaderSize+len(body))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(emsg))
	buf = append(buf, body...)
	return buf
}

// DecodeSimple parses a Simple-header packet: just the leading EMsg, with
// everything after it as the body. Header is nil.
func DecodeSimple(data []byte) (*Packet, error) {
	if len(data) < simpleHeaderSize {
		return nil, errors.New("message: simple header truncated")
	}
	rawEMsg := binary.LittleEndian.Uint32(data[0:4])
	return &Packet{EMsg: EMsg(rawEMsg), IsProto: false, Body: data[simpleHeaderSize:]}, nil
}

func decodeProto(rawEMsg uint32, rest []byte) (*Packet, error) {
	if len(rest) < 4 {
		return nil, errors.New("message: protobuf packet missing header length")
	}
	hdrLen := binary.LittleEndian.Uint32(rest[0:4])
	rest = rest[4:]
	if uint32(len(rest)) < hdrLen {
		return nil, fmt.Errorf("message: header length %d exceeds remaining %d bytes", hdrLen, len(rest))
	}
	hdr, err := wire.UnmarshalProtoBufHeader(rest[:hdrLen])
	if err != nil {
		return nil, fmt.Errorf("message: decoding protobuf header: %w", err)
	}
	return &Packet{EMsg: EMsg(rawEMsg), IsProto: true, Header: hdr, Body: rest[hdrLen:]}, nil
}

func decodeExtended(rawEMsg uint32, rest []byte) (*Packet, error) {
	if len(rest) < extendedHeaderSize-4 {
		return nil, errors.New("message: extended header truncated")
	}
	hdrSize := rest[0]
	if hdrSize != extendedHeaderSize {
		return nil, fmt.Errorf("message: unexpected header size %d", hdrSize)
	}
	version := binary.LittleEndian.Uint16(rest[1:3])
	if version != extendedHeaderVersion {
		return nil, fmt.Errorf("message: unexpected header version %d", version)
	}
	targetJobID := binary.LittleEndian.Uint64(rest[3:11])
	sourceJobID := binary.LittleEndian.Uint64(rest[11:19])
	canary := rest[19]
	if canary != extendedHeaderCanary {
		return nil, fmt.Errorf("message: unexpected canary byte 0x%02x", canary)
	}
	steamID := binary.LittleEndian.Uint64(rest[20:28])
	sessionID := int32(binary.LittleEndian.Uint32(rest[28:32]))
	body := rest[32:]

	hdr := wire.NewProtoBufHeader()
	hdr.JobIDTarget = targetJobID
	hdr.JobIDSource = sourceJobID
	hdr.SteamID = steamID
	hdr.ClientSessionID = sessionID
	return &Packet{EMsg: EMsg(rawEMsg), IsProto: false, Header: hdr, Body: body}, nil
}

// ExpandMulti recursively unpacks an EMsgMulti payload (gzip-compressed if
// SizeUnzipped indicates the body was zipped), returning every packet found
// inside, in order.
func ExpandMulti(pkt *Packet) ([]*Packet, error) {
	if pkt.EMsg != EMsgMulti {
		return []*Packet{pkt}, nil
	}
	multi, err := wire.UnmarshalMulti(pkt.Body)
	if err != nil {
		return nil, fmt.Errorf("message: decoding multi: %w", err)
	}

	body := multi.MessageBody
	if multi.SizeUnzipped > 0 {
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("message: gzip reader: %w", err)
		}
		unzipped, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("message: gzip read: %w", err)
		}
		body = unzipped
	}

	var out []*Packet
	for len(body) > 0 {
		if len(body) < 4 {
			return nil, io.ErrUnexpectedEOF
		}
		size := binary.LittleEndian.Uint32(body[:4])
		body = body[4:]
		if uint32(len(body)) < size {
			return nil, io.ErrUnexpectedEOF
		}
		sub, err := Decode(body[:size])
		if err != nil {
			return nil, err
		}
		expanded, err := ExpandMulti(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
		body = body[size:]
	}
	return out, nil
}
