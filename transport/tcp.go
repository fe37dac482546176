package transport

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
)

// tcpMagic is "VT01" as a little-endian uint32, the framing marker every
// packet on the raw TCP transport carries.
const tcpMagic = 0x31305456

type tcpConn struct {
	conn   net.Conn
	cipher *ChannelCipher
	mu     sync.Mutex
	addr   string
}

// DialTCP opens a bare (unencrypted at this layer) TCP connection to a CM
// server. Callers must drive PerformEncryptionHandshake afterwards before
// exchanging any application packets.
func DialTCP(ctx context.Context, addr string) (*tcpConn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dialing tcp %s: %w", addr, err)
	}
	return &tcpConn{conn: conn, addr: addr}, nil
}

// SetCipher installs the channel cipher negotiated by the encryption
// handshake; all writes/reads after this point are encrypted/decrypted.
func (t *tcpConn) SetCipher(c *ChannelCipher) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cipher = c
}

func (t *tcpConn) Write(ctx context.Context, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	payload := data
	if t.cipher != nil {
		var err error
		payload, err = t.cipher.Encrypt(payload)
		if err != nil {
			return fmt.Errorf("transport: encrypting outgoing packet: %w", err)
		}
	}

	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:8], tcpMagic)

	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(dl)
	}
	if _, err := t.conn.Write(header); err != nil {
		return err
	}
	_, err := t.conn.Write(payload)
	return err
}

func (t *tcpConn) Read(ctx context.Context) ([]byte, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(dl)
	}

	header := make([]byte, 8)
	if _, err := io.ReadFull(t.conn, header); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(header[0:4])
	magic := binary.LittleEndian.Uint32(header[4:8])
	if magic != tcpMagic {
		return nil, fmt.Errorf("transport: bad magic 0x%08x", magic)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(t.conn, payload); err != nil {
		return nil, err
	}

	t.mu.Lock()
	cipher := t.cipher
	t.mu.Unlock()

	if cipher != nil {
		plain, err := cipher.Decrypt(payload)
		if err != nil {
			return nil, fmt.Errorf("transport: decrypting incoming packet: %w", err)
		}
		return plain, nil
	}
	return payload, nil
}

func (t *tcpConn) Close() error {
	return t.conn.Close()
}

func (t *tcpConn) RemoteAddr() string {
	return t.addr
}

var errShortHandshakeBody = errors.New("transport: handshake body too short")
