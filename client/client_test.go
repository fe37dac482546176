package client

import (
	"context"
	"reflect"
	"testing"
)

type stubModule struct {
	initCalled bool
	ran        chan struct{}
}

func (m *stubModule) Init(c *Client) error {
	m.initCalled = true
	return nil
}

func (m *stubModule) Run(ctx context.Context, c *Client) {
	close(m.ran)
	<-ctx.Done()
}

func TestCounterInvokesOnEmpty(t *testing.T) {
	called := make(chan struct{})
	c := &Counter{onEmpty: func() { close(called) }}
	c.Inc()
	c.Inc()
	c.Dec()
	select {
	case <-called:
		t.Fatal("onEmpty fired too early")
	default:
	}
	c.Dec()
	select {
	case <-called:
	default:
		t.Fatal("expected onEmpty to fire once count reached zero")
	}
}

func TestQuitEndsModuleTaskAndSignalsDone(t *testing.T) {
	dir := t.TempDir()
	c, err := New("tester", dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	m := &stubModule{ran: make(chan struct{})}
	c.modules[reflect.TypeOf(m)] = m
	c.tasks.onEmpty = func() { close(c.done) }

	go func() {
		<-m.ran
		c.Quit(false)
	}()

	ctx, cancelFn := context.WithCancel(context.Background())
	c.cancelFunc = cancelFn
	c.tasks.Inc()
	go func() {
		defer c.tasks.Dec()
		m.Run(ctx, c)
	}()

	<-c.done
	if c.QuitModeValue() != QuitModeQuit {
		t.Fatalf("expected QuitModeQuit, got %v", c.QuitModeValue())
	}
}

func TestAccountNameFromFile(t *testing.T) {
	cases := map[string]string{
		"Account-alice.json": "alice",
		"Account-.json":      "",
		"other.json":         "",
	}
	for filename, want := range cases {
		got, ok := accountNameFromFile(filename)
		if want == "" {
			if ok {
				t.Errorf("%s: expected no match", filename)
			}
			continue
		}
		if !ok || got != want {
			t.Errorf("%s: got %q, %v", filename, got, ok)
		}
	}
}
