package connection

import (
	"testing"

	"github.com/steamkit-go/cmframework/directory"
)

func TestOrderCandidatesPrefersPrevious(t *testing.T) {
	s := &Supervisor{previousEndpoint: "b:1"}
	candidates := []directory.Server{{Addr: "a:1"}, {Addr: "b:1"}, {Addr: "c:1"}}

	ordered := s.orderCandidates(candidates)
	if len(ordered) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(ordered))
	}
	if ordered[0].Addr != "b:1" {
		t.Errorf("expected previous endpoint first, got %q", ordered[0].Addr)
	}
}

func TestStatusStringer(t *testing.T) {
	cases := map[Status]string{
		StatusConnecting: "Connecting",
		StatusConnected:  "Connected",
		StatusGotEOF:     "GotEOF",
		StatusError:      "Error",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("status %d: got %q, want %q", status, got, want)
		}
	}
}

func TestSetStatusClosesPreviousChannel(t *testing.T) {
	s := New(nil, nil, "netfilter")
	ch := s.StatusChan()
	s.setStatus(StatusConnected)
	select {
	case <-ch:
	default:
		t.Fatal("expected previous status channel to be closed")
	}
	if s.CurrentStatus() != StatusConnected {
		t.Fatal("expected status to be Connected")
	}
}
