package client

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/steamkit-go/cmframework/datafile"
	"github.com/steamkit-go/cmframework/ioloop"
)

// Info is a process-wide handle for one account: its name and (once
// launched) its running Client.
type Info struct {
	AccountName string

	mu     sync.Mutex
	client *Client
}

// Client returns the account's running Client, if launched.
func (i *Info) Client() (*Client, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.client, i.client != nil
}

func (i *Info) setClient(c *Client) {
	i.mu.Lock()
	i.client = c
	i.mu.Unlock()
}

// Registry is the process-wide, mutex-guarded set of known accounts.
type Registry struct {
	workDir string
	ioLoop  *ioloop.Loop
	logger  *slog.Logger

	mu    sync.Mutex
	infos map[string]*Info
	wg    sync.WaitGroup

	watcher *fsnotify.Watcher
}

const accountFilePrefix = "Account-"
const accountFileSuffix = ".json"

// NewRegistry scans workDir for Account-*.json files to seed the initial
// account set, and starts an fsnotify watch so accounts dropped in later are
// picked up without a restart.
func NewRegistry(workDir string, ioLoop *ioloop.Loop, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{workDir: workDir, ioLoop: ioLoop, logger: logger, infos: make(map[string]*Info)}

	entries, err := os.ReadDir(workDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("client: scanning %s: %w", workDir, err)
	}
	for _, e := range entries {
		if name, ok := accountNameFromFile(e.Name()); ok {
			r.find(name, true)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("client: fsnotify unavailable, account hot-reload disabled", "error", err)
		return r, nil
	}
	if err := watcher.Add(workDir); err != nil {
		logger.Warn("client: watching work dir failed, account hot-reload disabled", "error", err)
		watcher.Close()
		return r, nil
	}
	r.watcher = watcher
	go r.watchLoop()
	return r, nil
}

func accountNameFromFile(filename string) (string, bool) {
	if !strings.HasPrefix(filename, accountFilePrefix) || !strings.HasSuffix(filename, accountFileSuffix) {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(filename, accountFilePrefix), accountFileSuffix)
	if name == "" {
		return "", false
	}
	return name, true
}

func (r *Registry) watchLoop() {
	for event := range r.watcher.Events {
		if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
			continue
		}
		if name, ok := accountNameFromFile(filepath.Base(event.Name)); ok {
			if info, created := r.findOrCreate(name, true); created {
				r.LaunchAccount(info)
			}
		}
	}
}

// find returns the Info for name, creating it if create is true.
func (r *Registry) find(name string, create bool) *Info {
	info, _ := r.findOrCreate(name, create)
	return info
}

// findOrCreate returns the Info for name, creating it if create is true and
// it didn't already exist; created reports whether this call created it.
func (r *Registry) findOrCreate(name string, create bool) (info *Info, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info, ok := r.infos[name]; ok {
		return info, false
	}
	if !create {
		return nil, false
	}
	info = &Info{AccountName: name}
	r.infos[name] = info
	return info, true
}

// Find returns the Info for an already-known account, or nil.
func (r *Registry) Find(name string) *Info {
	return r.find(name, false)
}

// Create registers a new account and returns its Info.
func (r *Registry) Create(name string) *Info {
	return r.find(name, true)
}

// Infos returns every known account's Info.
func (r *Registry) Infos() []*Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Info, 0, len(r.infos))
	for _, info := range r.infos {
		out = append(out, info)
	}
	return out
}

// LaunchAccount spawns a goroutine running a fresh Client for info until its
// quit mode stops being "restart".
func (r *Registry) LaunchAccount(info *Info) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			c, err := New(info.AccountName, r.workDir, r.ioLoop, r.logger)
			if err != nil {
				r.logger.Error("client: failed to construct client", "account", info.AccountName, "error", err)
				return
			}
			info.setClient(c)

			if err := c.Launch(); err != nil {
				r.logger.Error("client: launch failed", "account", info.AccountName, "error", err)
				return
			}

			if c.QuitModeValue() != QuitModeRestart {
				return
			}
		}
	}()
}

// WaitAll blocks until every launched account's Client has stopped (quit
// mode Quit, not Restart).
func (r *Registry) WaitAll() {
	r.wg.Wait()
}

// QuitAll drives every running account's Client to quit (not restart).
func (r *Registry) QuitAll() {
	for _, info := range r.Infos() {
		if c, ok := info.Client(); ok {
			c.Quit(false)
		}
	}
}

// Close stops the account-file watcher, if any.
func (r *Registry) Close() error {
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}

// errAlreadySet short-circuits Update when MachineIdentity finds an
// existing id: Update treats any error as "reload and don't write", which
// is exactly what's wanted here (no write needed).
var errAlreadySet = errors.New("client: machine identity already set")

// MachineIdentity returns a stable per-install UUID persisted under
// workDir/MachineIdentity.json, standing in for the hardware fingerprint
// collaborator the spec places out of scope.
func MachineIdentity(workDir string) (string, error) {
	df, err := datafile.Open(filepath.Join(workDir, "MachineIdentity.json"))
	if err != nil {
		return "", err
	}

	var value string
	err = df.Update(func(current string) (string, error) {
		if v, ok := lookupMachineID(current); ok {
			value = v
			return current, errAlreadySet
		}
		value = uuid.NewString()
		return datafile.CreateItem(current, value, "machine_id")
	})
	if err != nil && !errors.Is(err, errAlreadySet) {
		return "", err
	}
	return value, nil
}

func lookupMachineID(document string) (string, bool) {
	v, ok := datafile.GetItem(gjson.Parse(document), "machine_id")
	if !ok {
		return "", false
	}
	return v.String(), true
}
