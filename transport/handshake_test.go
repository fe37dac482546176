package transport

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/steamkit-go/cmframework/message"
)

func TestPerformEncryptionHandshake(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	defer serverSide.Close()

	client := &tcpConn{conn: clientSide}
	server := &tcpConn{conn: serverSide}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- runFakeServerHandshake(ctx, server)
	}()

	if err := PerformEncryptionHandshake(ctx, client); err != nil {
		t.Fatalf("PerformEncryptionHandshake: %v", err)
	}
	if err := <-serverErr; err != nil {
		t.Fatalf("fake server side: %v", err)
	}
}

// runFakeServerHandshake plays the CM server's side of the handshake: send
// ChannelEncryptRequest, read back ChannelEncryptResponse, reply with a
// successful ChannelEncryptResult. It doesn't validate the RSA-wrapped
// session key (no private key available here), only that the Simple-header
// framing on both sides round-trips correctly.
func runFakeServerHandshake(ctx context.Context, conn *tcpConn) error {
	var reqBody []byte
	reqBody = binary.LittleEndian.AppendUint32(reqBody, 1) // protocol version
	reqBody = binary.LittleEndian.AppendUint32(reqBody, 1) // universe
	reqBody = append(reqBody, make([]byte, 16)...)         // challenge
	req := message.EncodeSimple(message.EMsgChannelEncryptRequest, reqBody)
	if err := conn.Write(ctx, req); err != nil {
		return err
	}

	respData, err := conn.Read(ctx)
	if err != nil {
		return err
	}
	respPkt, err := message.DecodeSimple(respData)
	if err != nil {
		return err
	}
	if respPkt.EMsg != message.EMsgChannelEncryptResponse {
		return errUnexpectedHandshakeMsg(respPkt.EMsg)
	}

	resultBody := binary.LittleEndian.AppendUint32(nil, 1) // eresult OK
	result := message.EncodeSimple(message.EMsgChannelEncryptResult, resultBody)
	return conn.Write(ctx, result)
}

type errUnexpectedHandshakeMsg message.EMsg

func (e errUnexpectedHandshakeMsg) Error() string {
	return "transport test: unexpected handshake message " + message.EMsg(e).String()
}
