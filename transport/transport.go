// Package transport implements the framed TCP and WebSocket byte-stream
// transports the CM protocol runs over, plus the channel-encryption cipher
// layered on top of either one.
package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
)

// Connection is a byte-stream transport: one call to Write sends exactly one
// framed message, one call to Read receives exactly one.
type Connection interface {
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context) ([]byte, error)
	Close() error
	RemoteAddr() string
}

type wsConn struct {
	conn *websocket.Conn
	addr string
}

// DialWebSocket connects to a CM server's WebSocket endpoint.
func DialWebSocket(ctx context.Context, httpClient *http.Client, host string) (Connection, error) {
	url := fmt.Sprintf("wss://%s/cmsocket/", host)
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPClient: httpClient})
	if err != nil {
		return nil, fmt.Errorf("transport: dialing websocket %s: %w", host, err)
	}
	conn.SetReadLimit(1 << 24)
	return &wsConn{conn: conn, addr: host}, nil
}

func (w *wsConn) Write(ctx context.Context, data []byte) error {
	return w.conn.Write(ctx, websocket.MessageBinary, data)
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.conn.Read(ctx)
	return data, err
}

func (w *wsConn) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "")
}

func (w *wsConn) RemoteAddr() string {
	return w.addr
}
