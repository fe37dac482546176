// Package waiter implements the aggregation primitive module tasks use to
// block on several heterogeneous wakeup sources at once: a connection
// status change, a whiteboard slot, a messageboard subscription, a pending
// result, or an enqueued closure.
package waiter

import (
	"context"
	"errors"
	"reflect"
	"time"
)

// ErrCancelled is returned by Wait/WaitTimeout when the Waiter's owning
// client has been cancelled.
var ErrCancelled = errors.New("waiter: cancelled")

// Item is one wakeup source registered with a Waiter.
type Item interface {
	// channel returns the receive end that becomes ready when this item has
	// something for the caller to act on.
	channel() reflect.Value
}

// Waiter blocks until any one of its registered Items becomes ready, or
// until it is cancelled. It implements cancel.Cancelable so a client's
// cancel.Registry can wake it on shutdown.
type Waiter struct {
	items    []Item
	cancelCh chan struct{}
}

func New(items ...Item) *Waiter {
	return &Waiter{items: items, cancelCh: make(chan struct{})}
}

// Add registers another item after construction (module Run loops that grow
// their waiter set lazily, e.g. after subscribing to a new messageboard
// topic).
func (w *Waiter) Add(item Item) {
	w.items = append(w.items, item)
}

// Cancel implements cancel.Cancelable.
func (w *Waiter) Cancel() {
	select {
	case <-w.cancelCh:
	default:
		close(w.cancelCh)
	}
}

// Wait blocks until an item is ready or the Waiter is cancelled.
func (w *Waiter) Wait() error {
	return w.WaitTimeout(context.Background(), 0)
}

// WaitTimeout blocks until an item is ready, the Waiter is cancelled, ctx is
// done, or the timeout (if positive) elapses; in the timeout case it returns
// nil with no error (a plain wakeup, matching the original's bool-returning
// wait(duration)).
func (w *Waiter) WaitTimeout(ctx context.Context, timeout time.Duration) error {
	cases := make([]reflect.SelectCase, 0, len(w.items)+2)
	for _, item := range w.items {
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: item.channel()})
	}
	cancelIdx := len(cases)
	cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(w.cancelCh)})

	ctxIdx := -1
	if ctx != nil && ctx.Done() != nil {
		ctxIdx = len(cases)
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())})
	}

	timeoutIdx := -1
	if timeout > 0 {
		timeoutIdx = len(cases)
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(time.After(timeout))})
	}

	chosen, _, _ := reflect.Select(cases)
	switch chosen {
	case cancelIdx:
		return ErrCancelled
	case ctxIdx:
		return ctx.Err()
	case timeoutIdx:
		return nil
	default:
		return nil
	}
}
