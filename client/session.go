package client

import (
	"context"
	"fmt"

	"github.com/steamkit-go/cmframework/connection"
	"github.com/steamkit-go/cmframework/message"
	"github.com/steamkit-go/cmframework/messageboard"
	"github.com/steamkit-go/cmframework/whiteboard"
	"github.com/steamkit-go/cmframework/wire"
)

// SessionInfo is the whiteboard slot the login driver publishes once
// CMsgClientLogonResponse reports success.
type SessionInfo struct {
	SteamID   uint64
	SessionID int32
	CellID    uint32
}

// IncomingPacket is the generic messageboard envelope every decoded packet
// (after EMsgMulti expansion) is broadcast as; modules subscribe to this
// and filter by Packet.EMsg.
type IncomingPacket struct {
	Packet *message.Packet
}

// AttachConnection installs the connection supervisor this client's core
// receive loop will read from, and records it on the client so modules can
// reach SendPacket/Connection.
func (c *Client) AttachConnection(conn *connection.Supervisor) {
	c.Connection = conn
}

// Connect dials the supervisor and starts the core receive loop that
// decodes incoming packets and publishes them on the messageboard. It
// returns once the initial connection attempt succeeds (or fails).
func (c *Client) Connect(ctx context.Context, cellID int32) error {
	if c.Connection == nil {
		return fmt.Errorf("client: no connection supervisor attached")
	}
	if err := c.Connection.Connect(ctx, cellID); err != nil {
		return err
	}
	c.LaunchFiber("receive-loop", func() { c.receiveLoop(ctx) })
	return nil
}

func (c *Client) receiveLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		data, err := c.Connection.Read(ctx)
		if err != nil {
			c.Logger.Warn("client: receive loop stopped", "error", err)
			return
		}

		pkt, err := message.Decode(data)
		if err != nil {
			c.Logger.Warn("client: failed to decode packet", "error", err)
			continue
		}
		expanded, err := message.ExpandMulti(pkt)
		if err != nil {
			c.Logger.Warn("client: failed to expand multi", "error", err)
			continue
		}
		for _, p := range expanded {
			messageboard.Send(c.Messageboard, IncomingPacket{Packet: p})
		}
	}
}

// SendPacket encodes body as a Protobuf-header packet for emsg, filling in
// the current session's steam ID and session ID if one has been
// established, and writes it to the connection.
func (c *Client) SendPacket(ctx context.Context, emsg message.EMsg, body []byte) error {
	return c.SendPacketWithHeader(ctx, emsg, wire.NewProtoBufHeader(), body)
}

// SendPacketWithHeader is SendPacket but lets the caller pre-populate
// header fields (job ids, target job name) before the session's steam/
// session IDs are merged in.
func (c *Client) SendPacketWithHeader(ctx context.Context, emsg message.EMsg, hdr *wire.ProtoBufHeader, body []byte) error {
	if session, ok := whiteboard.Get[SessionInfo](c.Whiteboard); ok {
		hdr.SteamID = session.SteamID
		hdr.ClientSessionID = session.SessionID
	}
	data := message.EncodeProto(emsg, hdr, body)
	return c.Connection.Write(ctx, data)
}

// SendExtendedPacket encodes body behind the legacy Extended header instead
// of a Protobuf one, for the handful of messages (e.g. SetIgnoreFriend) that
// still use it.
func (c *Client) SendExtendedPacket(ctx context.Context, emsg message.EMsg, body []byte) error {
	session, _ := whiteboard.Get[SessionInfo](c.Whiteboard)
	data := message.EncodeExtended(emsg, session.SteamID, session.SessionID, body)
	return c.Connection.Write(ctx, data)
}
