// Package settings implements typed settings persisted through a
// datafile.File. Values are read with Load and written with Persist; they
// are not published on a whiteboard.
package settings

import (
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/steamkit-go/cmframework/datafile"
)

// Setting is a single named, typed value backed by a datafile.File under
// the "settings" key.
type Setting[T any] struct {
	Name    string
	Default T
}

// Load reads the setting's current value from file, returning the default
// if unset.
func (s Setting[T]) Load(file *datafile.File) T {
	var value T
	file.Examine(func(root gjson.Result) {
		v, ok := datafile.GetItem(root, "settings", s.Name)
		if !ok {
			value = s.Default
			return
		}
		value = gjsonInto[T](v, s.Default)
	})
	return value
}

// Persist writes the setting's new value to file.
func (s Setting[T]) Persist(file *datafile.File, value T) error {
	return file.Update(func(current string) (string, error) {
		return datafile.CreateItem(current, value, "settings", s.Name)
	})
}

func gjsonInto[T any](v gjson.Result, fallback T) T {
	switch any(fallback).(type) {
	case bool:
		return any(v.Bool()).(T)
	case int64:
		return any(v.Int()).(T)
	case string:
		return any(v.String()).(T)
	default:
		return fallback
	}
}

// Registry records every Setting a process has registered, by name, and
// rejects registering a name again with a different type (see Use). It does
// not load, publish or iterate over the settings it records.
type Registry struct {
	mu       sync.Mutex
	settings map[string]any
}

func NewRegistry() *Registry {
	return &Registry{settings: make(map[string]any)}
}

// Use registers name, panicking on a duplicate registration with a
// different type the way the original asserts on a conflicting "use" call.
// Callers must pass a static string.
func Use[T any](r *Registry, setting Setting[T]) Setting[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.settings[setting.Name]; ok {
		if _, sameType := existing.(Setting[T]); !sameType {
			panic(fmt.Sprintf("settings: %q already registered with a different type", setting.Name))
		}
	}
	r.settings[setting.Name] = setting
	return setting
}
