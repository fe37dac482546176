package message

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/steamkit-go/cmframework/wire"
)

func TestEncodeDecodeProtoRoundTrip(t *testing.T) {
	hdr := wire.NewProtoBufHeader()
	hdr.SteamID = 0x110000100AABBCCD
	hdr.ClientSessionID = 3
	body := []byte("hello")

	data := EncodeProto(EMsgClientLogon, hdr, body)
	pkt, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !pkt.IsProto || pkt.EMsg != EMsgClientLogon {
		t.Fatalf("unexpected packet: %+v", pkt)
	}
	if !bytes.Equal(pkt.Body, body) {
		t.Errorf("body mismatch: %q", pkt.Body)
	}
	if pkt.Header.SteamID != hdr.SteamID || pkt.Header.ClientSessionID != hdr.ClientSessionID {
		t.Errorf("header mismatch: %+v", pkt.Header)
	}
}

func TestEncodeDecodeExtendedRoundTrip(t *testing.T) {
	body := []byte("payload")
	data := EncodeExtended(EMsgClientLogOff, 0x110000100AABBCCD, 5, body)
	pkt, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if pkt.IsProto {
		t.Fatal("expected non-proto packet")
	}
	if pkt.Header.SteamID != 0x110000100AABBCCD || pkt.Header.ClientSessionID != 5 {
		t.Errorf("header mismatch: %+v", pkt.Header)
	}
	if !bytes.Equal(pkt.Body, body) {
		t.Errorf("body mismatch: %q", pkt.Body)
	}
}

func TestEncodeDecodeSimpleRoundTrip(t *testing.T) {
	body := []byte{1, 2, 3, 4}
	data := EncodeSimple(EMsgChannelEncryptRequest, body)

	pkt, err := DecodeSimple(data)
	if err != nil {
		t.Fatal(err)
	}
	if pkt.IsProto || pkt.Header != nil {
		t.Fatalf("unexpected packet: %+v", pkt)
	}
	if pkt.EMsg != EMsgChannelEncryptRequest {
		t.Errorf("EMsg mismatch: got %s", pkt.EMsg)
	}
	if !bytes.Equal(pkt.Body, body) {
		t.Errorf("body mismatch: %q", pkt.Body)
	}
}

func TestDecodeSimpleTruncated(t *testing.T) {
	if _, err := DecodeSimple([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a packet shorter than the Simple header")
	}
}

func TestExpandMultiPlain(t *testing.T) {
	inner := EncodeProto(EMsgClientHeartBeat, nil, nil)
	var framed bytes.Buffer
	writeLenPrefixed(&framed, inner)

	multi := &wire.Multi{MessageBody: framed.Bytes()}
	outer := EncodeProto(EMsgMulti, nil, multi.Marshal())

	pkt, err := Decode(outer)
	if err != nil {
		t.Fatal(err)
	}
	expanded, err := ExpandMulti(pkt)
	if err != nil {
		t.Fatal(err)
	}
	if len(expanded) != 1 || expanded[0].EMsg != EMsgClientHeartBeat {
		t.Fatalf("unexpected expansion: %+v", expanded)
	}
}

func TestExpandMultiGzip(t *testing.T) {
	inner := EncodeProto(EMsgClientHeartBeat, nil, nil)
	var framed bytes.Buffer
	writeLenPrefixed(&framed, inner)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	if _, err := zw.Write(framed.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	multi := &wire.Multi{MessageBody: gz.Bytes(), SizeUnzipped: int32(framed.Len())}
	outer := EncodeProto(EMsgMulti, nil, multi.Marshal())

	pkt, err := Decode(outer)
	if err != nil {
		t.Fatal(err)
	}
	expanded, err := ExpandMulti(pkt)
	if err != nil {
		t.Fatal(err)
	}
	if len(expanded) != 1 || expanded[0].EMsg != EMsgClientHeartBeat {
		t.Fatalf("unexpected expansion: %+v", expanded)
	}
}

func writeLenPrefixed(buf *bytes.Buffer, data []byte) {
	var lenBytes [4]byte
	lenBytes[0] = byte(len(data))
	lenBytes[1] = byte(len(data) >> 8)
	lenBytes[2] = byte(len(data) >> 16)
	lenBytes[3] = byte(len(data) >> 24)
	buf.Write(lenBytes[:])
	buf.Write(data)
}
