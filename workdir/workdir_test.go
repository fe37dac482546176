package workdir

import (
	"runtime"
	"testing"
)

func TestLocateUsesHomeOnPosix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix-only test")
	}
	dir, err := locate()
	if err != nil {
		t.Fatal(err)
	}
	if dir == "" {
		t.Fatal("expected non-empty directory")
	}
}
