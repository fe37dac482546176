package datafile

import (
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

func TestUpdateThenExamineRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(filepath.Join(dir, "Account-test.json"))
	if err != nil {
		t.Fatal(err)
	}

	err = f.Update(func(current string) (string, error) {
		return CreateItem(current, "alice", "account", "name")
	})
	if err != nil {
		t.Fatal(err)
	}

	f.Examine(func(root gjson.Result) {
		v, ok := GetItem(root, "account", "name")
		if !ok || v.String() != "alice" {
			t.Fatalf("got %v, %v", v, ok)
		}
	})
}

func TestUpdateErrorReloadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AppInfo.json")
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.Update(func(current string) (string, error) {
		return CreateItem(current, 1, "version")
	}); err != nil {
		t.Fatal(err)
	}

	wantErr := errTest{}
	err = f.Update(func(current string) (string, error) {
		return "", wantErr
	})
	if err != wantErr {
		t.Fatalf("expected wantErr, got %v", err)
	}

	f.Examine(func(root gjson.Result) {
		v, ok := GetItem(root, "version")
		if !ok || v.Int() != 1 {
			t.Fatalf("expected reloaded document to keep prior value, got %v, %v", v, ok)
		}
	})
}

func TestEraseItem(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(filepath.Join(dir, "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Update(func(current string) (string, error) {
		return CreateItem(current, "v", "a", "b")
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.Update(func(current string) (string, error) {
		return EraseItem(current, "a", "b")
	}); err != nil {
		t.Fatal(err)
	}
	f.Examine(func(root gjson.Result) {
		if _, ok := GetItem(root, "a", "b"); ok {
			t.Fatal("expected item to be erased")
		}
	})
}

type errTest struct{}

func (errTest) Error() string { return "test error" }
