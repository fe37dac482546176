// Package datafile implements the per-account and per-global-topic JSON
// persistence contract: shared-lock reads, exclusive-lock writes that are
// atomic on disk and reload from disk if the update function fails.
package datafile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// File is a single on-disk JSON document guarded by a shared/exclusive
// lock. The zero value is not usable; construct with Open.
type File struct {
	path string
	mu   sync.RWMutex
	data string // raw JSON text, "{}"-shaped
}

// Open loads path if it exists, or starts from an empty object.
func Open(path string) (*File, error) {
	f := &File{path: path, data: "{}"}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("datafile: reading %s: %w", path, err)
	}
	if !gjson.Valid(string(raw)) {
		return nil, fmt.Errorf("datafile: %s does not contain valid JSON", path)
	}
	f.data = string(raw)
	return f, nil
}

// Examine runs fn under a shared lock against the current in-memory
// document; it must not mutate anything fn is handed. Examine calls may
// nest (multiple readers), but calling Update from within an active Examine
// on the same goroutine deadlocks, the same way the original forbids it.
func (f *File) Examine(fn func(root gjson.Result)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn(gjson.Parse(f.data))
}

// Update runs fn under an exclusive lock, handing it the current document
// and expecting back the new document text. If fn returns an error, the
// in-memory document is reloaded from disk (discarding any partial change)
// and the error is returned. On success the new document is written to
// disk atomically (temp file + rename) before being adopted in memory.
func (f *File) Update(fn func(current string) (next string, err error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := fn(f.data)
	if err != nil {
		if reloadErr := f.reloadLocked(); reloadErr != nil {
			return fmt.Errorf("datafile: update failed (%w) and reload failed: %w", err, reloadErr)
		}
		return err
	}

	if err := f.writeAtomicLocked(next); err != nil {
		return fmt.Errorf("datafile: writing %s: %w", f.path, err)
	}
	f.data = next
	return nil
}

func (f *File) reloadLocked() error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.data = "{}"
			return nil
		}
		return err
	}
	f.data = string(raw)
	return nil
}

func (f *File) writeAtomicLocked(data string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, f.path)
}

// GetItem traverses path (a sequence of string keys) and returns the value
// found there, if any.
func GetItem(root gjson.Result, path ...string) (gjson.Result, bool) {
	cur := root
	for _, key := range path {
		cur = cur.Get(key)
		if !cur.Exists() {
			return gjson.Result{}, false
		}
	}
	return cur, true
}

// CreateItem sets value at path within current, creating intermediate
// objects as needed, and returns the updated document text.
func CreateItem(current string, value any, path ...string) (string, error) {
	dotted := joinPath(path)
	next, err := sjson.Set(current, dotted, value)
	if err != nil {
		return "", fmt.Errorf("datafile: setting %s: %w", dotted, err)
	}
	return next, nil
}

// EraseItem removes the value at path within current and returns the
// updated document text.
func EraseItem(current string, path ...string) (string, error) {
	dotted := joinPath(path)
	next, err := sjson.Delete(current, dotted)
	if err != nil {
		return "", fmt.Errorf("datafile: deleting %s: %w", dotted, err)
	}
	return next, nil
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
