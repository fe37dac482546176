package games

import (
	"context"
	"testing"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/connection"
)

func TestSetGamesPlayedWithoutConnectionFails(t *testing.T) {
	c, err := client.New("tester", t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.AttachConnection(connection.New(nil, nil, "websockets"))

	// No live socket: SendPacket should surface "not connected" rather than
	// panic, since nothing dialed a transport in this test.
	err = SetGamesPlayed(context.Background(), c, []uint32{440, 730})
	if err == nil {
		t.Fatal("expected an error with no live connection")
	}
}
