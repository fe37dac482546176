package transport

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/steamkit-go/cmframework/message"
)

// PerformEncryptionHandshake drives the ChannelEncryptRequest /
// ChannelEncryptResponse / ChannelEncryptResult exchange on a freshly dialed
// TCP connection and installs the resulting cipher on it. All three messages
// use the Simple header (bare EMsg, no job ids), predating the
// Extended/Protobuf header shapes the rest of the protocol uses.
func PerformEncryptionHandshake(ctx context.Context, conn *tcpConn) error {
	reqData, err := conn.Read(ctx)
	if err != nil {
		return fmt.Errorf("transport: reading ChannelEncryptRequest: %w", err)
	}
	pkt, err := message.DecodeSimple(reqData)
	if err != nil {
		return fmt.Errorf("transport: decoding ChannelEncryptRequest: %w", err)
	}
	if pkt.EMsg != message.EMsgChannelEncryptRequest {
		return fmt.Errorf("transport: expected ChannelEncryptRequest, got %s", pkt.EMsg)
	}

	var challenge []byte
	if len(pkt.Body) >= 24 {
		challenge = append([]byte{}, pkt.Body[8:24]...)
	}

	sessionKey := make([]byte, 32)
	if _, err := rand.Read(sessionKey); err != nil {
		return fmt.Errorf("transport: generating session key: %w", err)
	}

	encryptedBlob, err := EncryptSessionKey(sessionKey, challenge)
	if err != nil {
		return fmt.Errorf("transport: wrapping session key: %w", err)
	}

	crc := crc32.ChecksumIEEE(encryptedBlob)

	var body []byte
	body = binary.LittleEndian.AppendUint32(body, 1) // protocol version
	body = binary.LittleEndian.AppendUint32(body, uint32(len(encryptedBlob)))
	body = append(body, encryptedBlob...)
	body = binary.LittleEndian.AppendUint32(body, crc)
	body = binary.LittleEndian.AppendUint32(body, 0)
	resp := message.EncodeSimple(message.EMsgChannelEncryptResponse, body)

	if err := conn.Write(ctx, resp); err != nil {
		return fmt.Errorf("transport: sending ChannelEncryptResponse: %w", err)
	}

	resultData, err := conn.Read(ctx)
	if err != nil {
		return fmt.Errorf("transport: reading ChannelEncryptResult: %w", err)
	}
	resultPkt, err := message.DecodeSimple(resultData)
	if err != nil {
		return fmt.Errorf("transport: decoding ChannelEncryptResult: %w", err)
	}
	if resultPkt.EMsg != message.EMsgChannelEncryptResult {
		return fmt.Errorf("transport: expected ChannelEncryptResult, got %s", resultPkt.EMsg)
	}
	if len(resultPkt.Body) < 4 {
		return errShortHandshakeBody
	}
	eresult := binary.LittleEndian.Uint32(resultPkt.Body[0:4])
	if eresult != 1 {
		return fmt.Errorf("transport: ChannelEncryptResult eresult=%d", eresult)
	}

	cipher, err := NewChannelCipher(sessionKey, challenge != nil)
	if err != nil {
		return fmt.Errorf("transport: building channel cipher: %w", err)
	}
	conn.SetCipher(cipher)
	return nil
}
