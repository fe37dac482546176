// Package notifications relays trade-offer and new-inventory-item
// notifications pushed by the backend.
package notifications

import (
	"context"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/message"
	"github.com/steamkit-go/cmframework/messageboard"
	"github.com/steamkit-go/cmframework/waiter"
	"github.com/steamkit-go/cmframework/wire"
)

const userNotificationTypeTradeOffer uint32 = 1

// TradeNotification fires when the number of pending trade offers changes.
type TradeNotification struct {
	TradeOffersCount uint32
}

// ItemNotification fires when new inventory items arrive.
type ItemNotification struct {
	NewItemCount uint32
}

// Module implements client.Module.
type Module struct{}

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
			case message.EMsgClientUserNotifications:
				m.handleUserNotifications(c, env.Packet)
			case message.EMsgClientItemAnnouncements:
				m.handleItemAnnouncements(c, env.Packet)
			}
		}

		w := waiter.New(waiter.MessageboardItem(sub))
		if err := w.WaitTimeout(ctx, 0); err != nil {
			return
		}
	}
}

func (m *Module) handleUserNotifications(c *client.Client, pkt *message.Packet) {
	msg, err := wire.UnmarshalClientUserNotifications(pkt.Body)
	if err != nil {
		c.Logger.Error("notifications: failed to decode ClientUserNotifications", "error", err)
		return
	}
	for _, n := range msg.Notifications {
		if n.Type == userNotificationTypeTradeOffer {
			messageboard.Send(c.Messageboard, TradeNotification{TradeOffersCount: n.Count})
		}
	}
}

func (m *Module) handleItemAnnouncements(c *client.Client, pkt *message.Packet) {
	msg, err := wire.UnmarshalClientItemAnnouncements(pkt.Body)
	if err != nil {
		c.Logger.Error("notifications: failed to decode ClientItemAnnouncements", "error", err)
		return
	}
	messageboard.Send(c.Messageboard, ItemNotification{NewItemCount: msg.CountNewItems})
}
