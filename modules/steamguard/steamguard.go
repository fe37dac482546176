// Package steamguard tracks which accounts are currently blocked on a
// SteamGuard code and exposes the whiteboard slot the login driver reads
// the code from once one is supplied, either by the caller or generated
// locally from a maFile shared secret.
package steamguard

import (
	"sync"

	"github.com/steamkit-go/cmframework/steamtotp"
	"github.com/steamkit-go/cmframework/whiteboard"
)

// Code is the whiteboard slot holding the most recently supplied
// SteamGuard/two-factor code for a client. An empty Value means "none
// supplied yet".
type Code struct {
	Value string
}

// SetCode publishes code on the client's whiteboard for the login driver to
// pick up on its next retry.
func SetCode(board *whiteboard.Board, code string) {
	whiteboard.Set(board, Code{Value: code})
}

// registry is the process-wide set of accounts currently waiting on a
// SteamGuard code, mirroring the original's SteamGuard::registerAccount.
var (
	mu      sync.Mutex
	waiting = map[string]bool{}
)

// RegisterAccount marks accountName as needing a SteamGuard/two-factor code
// before it can log in.
func RegisterAccount(accountName string) {
	mu.Lock()
	waiting[accountName] = true
	mu.Unlock()
}

// Clear removes accountName from the waiting set once a code has been
// supplied and accepted.
func Clear(accountName string) {
	mu.Lock()
	delete(waiting, accountName)
	mu.Unlock()
}

// AccountsNeedingCode returns every account currently waiting on a code.
func AccountsNeedingCode() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(waiting))
	for name := range waiting {
		out = append(out, name)
	}
	return out
}

// AutoCode generates a SteamGuard code from sharedSecret and publishes it on
// board, so the login driver's next retry picks it up without requiring an
// external caller to supply one. Returns false if sharedSecret is empty or
// malformed.
func AutoCode(board *whiteboard.Board, sharedSecret string) bool {
	if sharedSecret == "" {
		return false
	}
	code, err := steamtotp.GenerateAuthCode(sharedSecret, 0)
	if err != nil {
		return false
	}
	SetCode(board, code)
	return true
}
