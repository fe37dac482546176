package settings

import (
	"path/filepath"
	"testing"

	"github.com/steamkit-go/cmframework/datafile"
)

func TestLoadReturnsDefaultWhenUnset(t *testing.T) {
	dir := t.TempDir()
	f, err := datafile.Open(filepath.Join(dir, "Account-test.json"))
	if err != nil {
		t.Fatal(err)
	}
	s := Bool("auto-accept-friends", true)
	if got := s.Load(f); got != true {
		t.Fatalf("got %v", got)
	}
}

func TestPersistThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f, err := datafile.Open(filepath.Join(dir, "Account-test.json"))
	if err != nil {
		t.Fatal(err)
	}
	s := Integer("heartbeat-interval-seconds", 30)
	if err := s.Persist(f, 45); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(f); got != 45 {
		t.Fatalf("got %v", got)
	}
}

func TestUseRegistersSetting(t *testing.T) {
	r := NewRegistry()
	s := Use(r, String("nickname", ""))
	if s.Default != "" {
		t.Fatalf("unexpected default: %v", s.Default)
	}
}
