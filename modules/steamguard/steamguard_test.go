package steamguard

import (
	"testing"

	"github.com/steamkit-go/cmframework/whiteboard"
)

func TestAutoCodeEmptySecret(t *testing.T) {
	board := whiteboard.New()
	if AutoCode(board, "") {
		t.Fatal("expected AutoCode to report failure for an empty shared secret")
	}
	if _, ok := whiteboard.Get[Code](board); ok {
		t.Fatal("expected no code to be published")
	}
}

func TestAutoCodePublishesGeneratedCode(t *testing.T) {
	board := whiteboard.New()
	if !AutoCode(board, "t9MKLkm2D2GIG7bABTxjH7JIF/k=") {
		t.Fatal("expected AutoCode to succeed for a valid shared secret")
	}
	code, ok := whiteboard.Get[Code](board)
	if !ok || len(code.Value) != 5 {
		t.Fatalf("got code=%+v ok=%v, want a 5-character code", code, ok)
	}
}

func TestRegisterAccountAndClear(t *testing.T) {
	RegisterAccount("alice")
	defer Clear("alice")

	found := false
	for _, name := range AccountsNeedingCode() {
		if name == "alice" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected alice to be registered as needing a code")
	}

	Clear("alice")
	for _, name := range AccountsNeedingCode() {
		if name == "alice" {
			t.Fatal("expected alice to be cleared")
		}
	}
}
