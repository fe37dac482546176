// Package friends tracks the local account's friends list and relays chat
// messages, mirroring the teacher's friends list/chat handling generalized
// onto the messageboard/whiteboard contract.
package friends

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/message"
	"github.com/steamkit-go/cmframework/messageboard"
	"github.com/steamkit-go/cmframework/steamid"
	"github.com/steamkit-go/cmframework/waiter"
	"github.com/steamkit-go/cmframework/wire"
)

// ChatEntryType identifies the kind of chat message.
type ChatEntryType int32

const (
	ChatEntryTypeChatMsg ChatEntryType = 1
	ChatEntryTypeTyping  ChatEntryType = 2
)

// Relationship is the relationship state between two Steam users.
type Relationship uint32

const (
	RelationshipNone             Relationship = 0
	RelationshipBlocked          Relationship = 1
	RelationshipRequestRecipient Relationship = 2
	RelationshipFriend           Relationship = 3
	RelationshipRequestInitiator Relationship = 4
	RelationshipIgnored          Relationship = 5
	RelationshipIgnoredFriend    Relationship = 6
)

// Message is an incoming chat message from a friend.
type Message struct {
	Sender             steamid.SteamID
	EntryType          ChatEntryType
	Text               string
	FromLimitedAccount bool
	ServerTimestamp    uint32
	Echo               bool
}

// RelationshipEvent is a change in relationship state with a Steam user.
type RelationshipEvent struct {
	SteamID      steamid.SteamID
	Relationship Relationship
	Incremental  bool
}

// Module implements client.Module.
type Module struct{}

// New constructs a friends Module factory.
func New() func() client.Module { return func() client.Module { return &Module{} } }

func (m *Module) Init(c *client.Client) error { return nil }

func (m *Module) Run(ctx context.Context, c *client.Client) {
	sub := messageboard.Subscribe[client.IncomingPacket](c.Messageboard)
	defer sub.Unsubscribe()

	for {
		for {
			env, ok := sub.Pop()
			if !ok {
				break
			}
			switch env.Packet.EMsg {
			case message.EMsgClientFriendsList:
				m.handleFriendsList(c, env.Packet)
			case message.EMsgClientFriendMsgIncoming, message.EMsgClientFriendMsgEchoToSender:
				m.handleFriendMsg(c, env.Packet)
			}
		}

		w := waiter.New(waiter.MessageboardItem(sub))
		if err := w.WaitTimeout(ctx, 0); err != nil {
			return
		}
	}
}

func (m *Module) handleFriendsList(c *client.Client, pkt *message.Packet) {
	list, err := wire.UnmarshalClientFriendsList(pkt.Body)
	if err != nil {
		c.Logger.Error("friends: failed to decode ClientFriendsList", "error", err)
		return
	}
	for _, f := range list.Friends {
		messageboard.Send(c.Messageboard, RelationshipEvent{
			SteamID:      steamid.FromSteamID64(f.SteamID),
			Relationship: Relationship(f.Relationship),
			Incremental:  list.Incremental,
		})
	}
}

func (m *Module) handleFriendMsg(c *client.Client, pkt *message.Packet) {
	msg, err := wire.UnmarshalClientFriendMsgIncoming(pkt.Body)
	if err != nil {
		c.Logger.Error("friends: failed to decode ClientFriendMsgIncoming", "error", err)
		return
	}
	messageboard.Send(c.Messageboard, Message{
		Sender:             steamid.FromSteamID64(msg.SteamIDFrom),
		EntryType:          ChatEntryType(msg.ChatEntryType),
		Text:               strings.TrimRight(string(msg.Message), "\x00"),
		FromLimitedAccount: msg.FromLimitedAccount,
		ServerTimestamp:    msg.ServerTimestamp,
		Echo:               pkt.EMsg == message.EMsgClientFriendMsgEchoToSender,
	})
}

// SendMessage sends a chat message to target.
func SendMessage(ctx context.Context, c *client.Client, target steamid.SteamID, text string) error {
	body := (&wire.ClientFriendMsg{
		SteamID:       target.ToSteamID64(),
		ChatEntryType: int32(ChatEntryTypeChatMsg),
		Message:       append([]byte(text), 0x00),
	}).Marshal()
	return c.SendPacket(ctx, message.EMsgClientFriendMsg, body)
}

// RemoveFriend removes target from the local account's friend list.
func RemoveFriend(ctx context.Context, c *client.Client, target steamid.SteamID) error {
	body := (&wire.ClientRemoveFriend{FriendID: target.ToSteamID64()}).Marshal()
	return c.SendPacket(ctx, message.EMsgClientRemoveFriend, body)
}

// AddFriend sends a friend request to target and waits for the server's
// response.
func AddFriend(ctx context.Context, c *client.Client, target steamid.SteamID) (*wire.ClientAddFriendResponse, error) {
	sub := messageboard.Subscribe[client.IncomingPacket](c.Messageboard)
	defer sub.Unsubscribe()

	body := (&wire.ClientAddFriend{SteamIDToAdd: target.ToSteamID64()}).Marshal()
	if err := c.SendPacket(ctx, message.EMsgClientAddFriend, body); err != nil {
		return nil, fmt.Errorf("friends: send AddFriend: %w", err)
	}

	ctx, cancelFn := context.WithTimeout(ctx, 30*time.Second)
	defer cancelFn()
	for {
		env, ok := sub.Pop()
		if ok {
			if env.Packet.EMsg != message.EMsgClientAddFriendResponse {
				continue
			}
			resp, err := wire.UnmarshalClientAddFriendResponse(env.Packet.Body)
			if err != nil {
				return nil, fmt.Errorf("friends: decode AddFriendResponse: %w", err)
			}
			if resp.Eresult != 1 {
				return resp, fmt.Errorf("friends: add friend failed: eresult=%d", resp.Eresult)
			}
			return resp, nil
		}

		w := waiter.New(waiter.MessageboardItem(sub))
		if err := w.WaitTimeout(ctx, 30*time.Second); err != nil {
			return nil, err
		}
	}
}

// IgnoreFriend blocks or unblocks target, using the legacy non-Protobuf
// SetIgnoreFriend wire format.
func IgnoreFriend(ctx context.Context, c *client.Client, self, target steamid.SteamID, ignore bool) error {
	sub := messageboard.Subscribe[client.IncomingPacket](c.Messageboard)
	defer sub.Unsubscribe()

	if err := c.SendExtendedPacket(ctx, message.EMsgClientSetIgnoreFriend, encodeIgnoreFriendBody(self, target, ignore)); err != nil {
		return fmt.Errorf("friends: send SetIgnoreFriend: %w", err)
	}

	ctx, cancelFn := context.WithTimeout(ctx, 30*time.Second)
	defer cancelFn()
	for {
		env, ok := sub.Pop()
		if ok {
			if env.Packet.EMsg != message.EMsgClientSetIgnoreFriendResponse {
				continue
			}
			result, err := decodeIgnoreFriendResponse(env.Packet.Body)
			if err != nil {
				return err
			}
			if result != 1 {
				return fmt.Errorf("friends: SetIgnoreFriend failed: eresult=%d", result)
			}
			return nil
		}

		w := waiter.New(waiter.MessageboardItem(sub))
		if err := w.WaitTimeout(ctx, 30*time.Second); err != nil {
			return err
		}
	}
}

// encodeIgnoreFriendBody builds the 17-byte non-proto body for
// EMsgClientSetIgnoreFriend: [MySteamId u64LE][FriendSteamId u64LE][Ignore byte].
func encodeIgnoreFriendBody(self, friend steamid.SteamID, ignore bool) []byte {
	buf := make([]byte, 17)
	binary.LittleEndian.PutUint64(buf[0:8], self.ToSteamID64())
	binary.LittleEndian.PutUint64(buf[8:16], friend.ToSteamID64())
	if ignore {
		buf[16] = 1
	}
	return buf
}

// decodeIgnoreFriendResponse parses the 12-byte non-proto response body for
// EMsgClientSetIgnoreFriendResponse: [FriendId u64LE][Result u32LE].
func decodeIgnoreFriendResponse(body []byte) (uint32, error) {
	if len(body) < 12 {
		return 0, fmt.Errorf("friends: SetIgnoreFriendResponse too short: %d bytes", len(body))
	}
	return binary.LittleEndian.Uint32(body[8:12]), nil
}
