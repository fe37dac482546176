package connect

import (
	"testing"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/directory"
)

func TestInitAttachesConnection(t *testing.T) {
	c, err := client.New("tester", t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	factory := New(directory.New(nil), nil, "websockets", 0)
	m := factory()
	if err := m.Init(c); err != nil {
		t.Fatal(err)
	}
	if c.Connection == nil {
		t.Fatal("expected Init to attach a connection supervisor")
	}
}
