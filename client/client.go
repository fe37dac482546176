// Package client implements the per-account Client: its whiteboard,
// messageboard, cancel registry, persistence, module host, and the process
// lifecycle (launch, quit modes, wait-for-all-clients shutdown).
package client

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/steamkit-go/cmframework/cancel"
	"github.com/steamkit-go/cmframework/connection"
	"github.com/steamkit-go/cmframework/datafile"
	"github.com/steamkit-go/cmframework/ioloop"
	"github.com/steamkit-go/cmframework/messageboard"
	"github.com/steamkit-go/cmframework/whiteboard"
)

// QuitMode is what a Client should do once its last module task exits.
type QuitMode int

const (
	QuitModeNone QuitMode = iota
	QuitModeRestart
	QuitModeQuit
)

// Module is one tenant of the module host: a unit of account-scoped
// behavior that runs on the client's own goroutine.
type Module interface {
	// Init runs synchronously, in module-registration order, before any
	// module's Run starts.
	Init(c *Client) error
	// Run runs asynchronously on its own goroutine until ctx is done or the
	// client is cancelled.
	Run(ctx context.Context, c *Client)
}

// Factory constructs a new Module instance for a Client.
type Factory func() Module

var (
	factoriesMu sync.Mutex
	factories   []namedFactory
)

type namedFactory struct {
	typ     reflect.Type
	factory Factory
}

// RegisterModule adds factory to the set every new Client instantiates.
// Call this from an init() func in the module's own package.
func RegisterModule[T Module](factory func() T) {
	var zero T
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories = append(factories, namedFactory{
		typ:     reflect.TypeOf(zero),
		factory: func() Module { return factory() },
	})
}

// Counter tracks live module tasks for a Client, invoking onEmpty the
// moment it drops from one to zero (the Go stand-in for the original's
// fiber-counter-driven teardown trigger).
type Counter struct {
	mu      sync.Mutex
	count   int
	onEmpty func()
}

func (c *Counter) Inc() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *Counter) Dec() {
	c.mu.Lock()
	c.count--
	empty := c.count == 0
	onEmpty := c.onEmpty
	c.mu.Unlock()
	if empty && onEmpty != nil {
		onEmpty()
	}
}

// Client is one logged-in (or logging-in) account's runtime state.
type Client struct {
	AccountName string

	Whiteboard   *whiteboard.Board
	Messageboard *messageboard.Board
	Cancel       *cancel.Registry
	DataFile     *datafile.File

	IOLoop     *ioloop.Loop
	Logger     *slog.Logger
	Connection *connection.Supervisor

	modulesMu sync.Mutex
	modules   map[reflect.Type]Module

	tasks  Counter
	quitMu sync.Mutex
	quit   QuitMode

	cancelFunc context.CancelFunc
	done       chan struct{}
}

// GetModule returns the running instance of the module registered for T.
func GetModule[T Module](c *Client) (T, bool) {
	var zero T
	c.modulesMu.Lock()
	defer c.modulesMu.Unlock()
	m, ok := c.modules[reflect.TypeOf(zero)]
	if !ok {
		var none T
		return none, false
	}
	return m.(T), true
}

// New constructs a Client for accountName, backed by a datafile at
// workDir/Account-<accountName>.json.
func New(accountName, workDir string, ioLoop *ioloop.Loop, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	df, err := datafile.Open(filepath.Join(workDir, fmt.Sprintf("Account-%s.json", accountName)))
	if err != nil {
		return nil, fmt.Errorf("client: opening account data file: %w", err)
	}

	c := &Client{
		AccountName:  accountName,
		Whiteboard:   whiteboard.New(),
		Messageboard: messageboard.New(),
		Cancel:       cancel.NewRegistry(),
		DataFile:     df,
		IOLoop:       ioLoop,
		Logger:       logger.With("account", accountName),
		modules:      make(map[reflect.Type]Module),
		done:         make(chan struct{}),
	}
	c.tasks.onEmpty = func() {
		close(c.done)
	}
	return c, nil
}

// Launch instantiates every registered module, runs their Init phase in
// registration order, then starts each module's Run on its own goroutine.
// Launch returns once every module task has exited (because the quit mode
// was set and the task count dropped to zero).
func (c *Client) Launch() error {
	factoriesMu.Lock()
	snapshot := make([]namedFactory, len(factories))
	copy(snapshot, factories)
	factoriesMu.Unlock()

	ctx, cancelFn := context.WithCancel(context.Background())
	c.cancelFunc = cancelFn

	c.modulesMu.Lock()
	modules := make([]Module, 0, len(snapshot))
	for _, nf := range snapshot {
		m := nf.factory()
		c.modules[reflect.TypeOf(m)] = m
		modules = append(modules, m)
	}
	c.modulesMu.Unlock()

	for _, m := range modules {
		if err := m.Init(c); err != nil {
			cancelFn()
			return fmt.Errorf("client: initializing module: %w", err)
		}
	}

	for _, m := range modules {
		c.tasks.Inc()
		go func(m Module) {
			defer c.tasks.Dec()
			m.Run(ctx, c)
		}(m)
	}

	<-c.done
	return nil
}

// Quit sets the client's quit mode and cancels every module task's context
// and waiter.
func (c *Client) Quit(restart bool) {
	c.quitMu.Lock()
	if restart {
		c.quit = QuitModeRestart
	} else {
		c.quit = QuitModeQuit
	}
	c.quitMu.Unlock()

	c.Cancel.Cancel()
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
}

// QuitModeValue returns the quit mode set by the most recent Quit call.
func (c *Client) QuitModeValue() QuitMode {
	c.quitMu.Lock()
	defer c.quitMu.Unlock()
	return c.quit
}

// LaunchFiber starts fn on its own goroutine, counted the same way module
// Run methods are, so WaitAll-style shutdown still waits for it.
func (c *Client) LaunchFiber(label string, fn func()) {
	c.tasks.Inc()
	go func() {
		defer c.tasks.Dec()
		defer func() {
			if r := recover(); r != nil {
				c.Logger.Error("client: fiber panicked", "label", label, "panic", r)
			}
		}()
		fn()
	}()
}
