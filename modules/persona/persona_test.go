package persona

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

func TestStateString(t *testing.T) {
	if got := StateOnline.String(); got != "Online" {
		t.Errorf("got %q", got)
	}
	if got := State(99).String(); got == "" {
		t.Errorf("expected non-empty fallback for unknown state")
	}
}

func TestHandleBroadcastsPerFriend(t *testing.T) {
	c := newTestClient(t)
	sub := messageboard.Subscribe[StateEvent](c.Messageboard)
	defer sub.Unsubscribe()

	body := encodePersonaStateForTest(
		personaFriend{id: 1, state: 1, name: "alice"},
		personaFriend{id: 2, state: 0, name: "bob"},
	)

	m := &Module{}
	m.handle(c, &message.Packet{EMsg: message.EMsgClientPersonaState, Body: body})

	first, ok := sub.Pop()
	if !ok || first.PlayerName != "alice" || first.State != StateOnline {
		t.Fatalf("first event: %+v, ok=%v", first, ok)
	}
	second, ok := sub.Pop()
	if !ok || second.PlayerName != "bob" || second.State != StateOffline {
		t.Fatalf("second event: %+v, ok=%v", second, ok)
	}
}

type personaFriend struct {
	id    uint64
	state uint32
	name  string
}

// encodePersonaStateForTest builds CMsgClientPersonaState bytes the way a
// real CM would, since wire.ClientPersonaState has no Marshal (the client
// never sends this message, only receives it).
func encodePersonaStateForTest(friends ...personaFriend) []byte {
	var b []byte
	for _, f := range friends {
		var entry []byte
		entry = protowire.AppendTag(entry, 1, protowire.VarintType)
		entry = protowire.AppendVarint(entry, f.id)
		entry = protowire.AppendTag(entry, 2, protowire.VarintType)
		entry = protowire.AppendVarint(entry, uint64(f.state))
		entry = protowire.AppendTag(entry, 3, protowire.BytesType)
		entry = protowire.AppendString(entry, f.name)
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}
