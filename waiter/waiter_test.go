package waiter

import (
	"context"
	"testing"
	"time"

	"github.com/steamkit-go/cmframework/whiteboard"
)

type wakeSlot int

func TestWaitWakesOnWhiteboardSet(t *testing.T) {
	b := whiteboard.New()
	w := New(WhiteboardItem[wakeSlot](b))

	go func() {
		time.Sleep(10 * time.Millisecond)
		whiteboard.Set(b, wakeSlot(1))
	}()

	if err := w.WaitTimeout(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitTimeoutElapses(t *testing.T) {
	w := New()
	err := w.WaitTimeout(context.Background(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("expected nil error on plain timeout, got %v", err)
	}
}

func TestCancelWakesWaiter(t *testing.T) {
	w := New()
	go func() {
		time.Sleep(10 * time.Millisecond)
		w.Cancel()
	}()
	err := w.WaitTimeout(context.Background(), time.Second)
	if err != ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestResultWaiterDeliversOnce(t *testing.T) {
	r := NewResultWaiter[int]()
	w := New(r)

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Set(42)
	}()

	if err := w.WaitTimeout(context.Background(), time.Second); err != nil {
		t.Fatal(err)
	}
	v, ok := r.Get()
	if !ok || v != 42 {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestExecuteRunsEnqueuedClosures(t *testing.T) {
	e := NewExecute(4)
	w := New(e)
	ran := false

	go func() {
		time.Sleep(10 * time.Millisecond)
		e.Enqueue(func() { ran = true })
	}()

	if err := w.WaitTimeout(context.Background(), time.Second); err != nil {
		t.Fatal(err)
	}
	e.Run()
	if !ran {
		t.Fatal("expected enqueued closure to have run")
	}
}
