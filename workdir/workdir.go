// Package workdir resolves and prepares this process's working directory:
// ~/.cmframework on POSIX, %LOCALAPPDATA%\cmframework on Windows, created
// with owner-only permissions if it doesn't already exist.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const dirName = "cmframework"

// Resolve returns the absolute path of this process's working directory,
// creating it (and any missing parents) with owner-only permissions if
// needed, and changes the process's current directory to it.
func Resolve() (string, error) {
	dir, err := locate()
	if err != nil {
		return "", err
	}

	oldMask := setUmask()
	defer restoreUmask(oldMask)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("workdir: creating %s: %w", dir, err)
	}
	if err := os.Chdir(dir); err != nil {
		return "", fmt.Errorf("workdir: changing to %s: %w", dir, err)
	}
	return dir, nil
}

func locate() (string, error) {
	if runtime.GOOS == "windows" {
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			return "", fmt.Errorf("workdir: LOCALAPPDATA is not set")
		}
		return filepath.Join(base, dirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("workdir: resolving home directory: %w", err)
	}
	return filepath.Join(home, "."+dirName), nil
}
