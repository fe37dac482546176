package waiter

import (
	"reflect"
	"sync"

	"github.com/steamkit-go/cmframework/messageboard"
	"github.com/steamkit-go/cmframework/whiteboard"
)

type chanItem struct {
	ch reflect.Value
}

func (c chanItem) channel() reflect.Value { return c.ch }

// ChanItem wraps an arbitrary receive-only channel as an Item, e.g. the
// connection supervisor's status-change notification channel.
func ChanItem(ch <-chan struct{}) Item {
	return chanItem{ch: reflect.ValueOf(ch)}
}

// WhiteboardItem wakes when T is next Set on b. Each call captures the
// current wait; callers that loop must call WhiteboardItem again for the
// next iteration, the same way the original recreates its waiter items per
// progress() tick.
func WhiteboardItem[T any](b *whiteboard.Board) Item {
	return ChanItem(whiteboard.WaitChan[T](b))
}

// MessageboardItem wakes when sub has at least one pending message.
func MessageboardItem[T any](sub *messageboard.Subscription[T]) Item {
	return ChanItem(sub.Chan())
}

// ResultWaiter delivers a single value of type T to exactly one waiter.
type ResultWaiter[T any] struct {
	once  sync.Once
	value T
	done  chan struct{}
}

func NewResultWaiter[T any]() *ResultWaiter[T] {
	return &ResultWaiter[T]{done: make(chan struct{})}
}

func (r *ResultWaiter[T]) channel() reflect.Value {
	return reflect.ValueOf((<-chan struct{})(r.done))
}

// Set delivers value to the waiter. Only the first call has effect.
func (r *ResultWaiter[T]) Set(value T) {
	r.once.Do(func() {
		r.value = value
		close(r.done)
	})
}

// Get returns the delivered value, if Set has already been called.
func (r *ResultWaiter[T]) Get() (T, bool) {
	select {
	case <-r.done:
		return r.value, true
	default:
		var zero T
		return zero, false
	}
}

// Execute lets another goroutine enqueue a closure to run on the task that
// owns this Waiter item, the substitute for the original's fiber-affine
// Execute primitive.
type Execute struct {
	queue chan func()
	ready chan struct{}
}

func NewExecute(buffer int) *Execute {
	return &Execute{queue: make(chan func(), buffer), ready: make(chan struct{}, 1)}
}

func (e *Execute) channel() reflect.Value {
	return reflect.ValueOf(e.ready)
}

// Enqueue schedules fn to run on the owning task the next time it drains
// this Execute item via Run.
func (e *Execute) Enqueue(fn func()) {
	e.queue <- fn
	select {
	case e.ready <- struct{}{}:
	default:
	}
}

// Run drains and executes every closure currently queued. Call it after a
// Waiter wakeup that was due to this Execute item becoming ready.
func (e *Execute) Run() {
	for {
		select {
		case fn := <-e.queue:
			fn()
		default:
			return
		}
	}
}
