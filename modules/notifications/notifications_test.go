package notifications

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/message"
	"github.com/steamkit-go/cmframework/messageboard"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.New("tester", t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestHandleUserNotificationsFiltersTradeOffers(t *testing.T) {
	c := newTestClient(t)
	sub := messageboard.Subscribe[TradeNotification](c.Messageboard)
	defer sub.Unsubscribe()

	var entryTrade []byte
	entryTrade = protowire.AppendTag(entryTrade, 1, protowire.VarintType)
	entryTrade = protowire.AppendVarint(entryTrade, uint64(userNotificationTypeTradeOffer))
	entryTrade = protowire.AppendTag(entryTrade, 2, protowire.VarintType)
	entryTrade = protowire.AppendVarint(entryTrade, 3)

	var entryOther []byte
	entryOther = protowire.AppendTag(entryOther, 1, protowire.VarintType)
	entryOther = protowire.AppendVarint(entryOther, 99)
	entryOther = protowire.AppendTag(entryOther, 2, protowire.VarintType)
	entryOther = protowire.AppendVarint(entryOther, 7)

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, entryTrade)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, entryOther)

	m := &Module{}
	m.handleUserNotifications(c, &message.Packet{EMsg: message.EMsgClientUserNotifications, Body: b})

	got, ok := sub.Pop()
	if !ok {
		t.Fatal("expected a TradeNotification")
	}
	if got.TradeOffersCount != 3 {
		t.Errorf("got %+v", got)
	}
	if _, ok := sub.Pop(); ok {
		t.Fatal("non-trade notification should not have been broadcast")
	}
}

func TestHandleItemAnnouncements(t *testing.T) {
	c := newTestClient(t)
	sub := messageboard.Subscribe[ItemNotification](c.Messageboard)
	defer sub.Unsubscribe()

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 2)

	m := &Module{}
	m.handleItemAnnouncements(c, &message.Packet{EMsg: message.EMsgClientItemAnnouncements, Body: b})

	got, ok := sub.Pop()
	if !ok || got.NewItemCount != 2 {
		t.Fatalf("got %+v, ok=%v", got, ok)
	}
}
