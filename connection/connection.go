// Package connection supervises a single CM byte-stream connection: picking
// an endpoint, dialing and encrypting it, tracking its status, and
// reconnecting with backoff on failure.
package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/steamkit-go/cmframework/directory"
	"github.com/steamkit-go/cmframework/transport"
)

// Status is the connection supervisor's state machine position.
type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusGotEOF
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting"
	case StatusConnected:
		return "Connected"
	case StatusGotEOF:
		return "GotEOF"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// maxEndpointAttempts bounds how many random endpoints a single Connect
// call will try before giving up and reporting StatusError.
const maxEndpointAttempts = 100

// minRetryDelay is the floor spec.md requires between endpoint attempts: no
// retry loop tighter than 200ms.
const minRetryDelay = 200 * time.Millisecond

// Supervisor owns the active transport.Connection and drives reconnection.
type Supervisor struct {
	resolver      *directory.Resolver
	httpClient    *http.Client
	transportType string // "netfilter" or "websockets"

	mu               sync.Mutex
	conn             transport.Connection
	status           Status
	previousEndpoint string
	statusCh         chan struct{}
}

func New(resolver *directory.Resolver, httpClient *http.Client, transportType string) *Supervisor {
	return &Supervisor{
		resolver:      resolver,
		httpClient:    httpClient,
		transportType: transportType,
		status:        StatusConnecting,
		statusCh:      make(chan struct{}),
	}
}

// StatusChan returns a channel that closes the next time the status
// changes, for use as a waiter.ChanItem.
func (s *Supervisor) StatusChan() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCh
}

// CurrentStatus returns the current status.
func (s *Supervisor) CurrentStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Supervisor) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	ch := s.statusCh
	s.statusCh = make(chan struct{})
	s.mu.Unlock()
	close(ch)
}

// Connect resolves CM servers, tries the previous working endpoint first
// (if any), then up to maxEndpointAttempts random candidates, sleeping at
// least minRetryDelay between failures.
func (s *Supervisor) Connect(ctx context.Context, cellID int32) error {
	s.setStatus(StatusConnecting)

	servers, err := s.resolver.Resolve(ctx, cellID)
	if err != nil {
		s.setStatus(StatusError)
		return fmt.Errorf("connection: resolving CM servers: %w", err)
	}

	candidates := make([]directory.Server, 0, len(servers))
	for _, srv := range servers {
		if srv.Type == s.transportType {
			candidates = append(candidates, srv)
		}
	}
	if len(candidates) == 0 {
		s.setStatus(StatusError)
		return fmt.Errorf("connection: no servers of type %q", s.transportType)
	}

	ordered := s.orderCandidates(candidates)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = minRetryDelay
	bo.MaxInterval = 5 * time.Second

	var lastErr error
	attempts := len(ordered)
	if attempts > maxEndpointAttempts {
		attempts = maxEndpointAttempts
	}
	for i := 0; i < attempts; i++ {
		candidate := ordered[i%len(ordered)]
		conn, err := s.dial(ctx, candidate)
		if err == nil {
			s.mu.Lock()
			s.conn = conn
			s.previousEndpoint = candidate.Addr
			s.mu.Unlock()
			s.setStatus(StatusConnected)
			return nil
		}
		lastErr = err

		delay := bo.NextBackOff()
		if delay < minRetryDelay {
			delay = minRetryDelay
		}
		select {
		case <-ctx.Done():
			s.setStatus(StatusError)
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	s.setStatus(StatusError)
	return fmt.Errorf("connection: exhausted %d endpoint attempts: %w", attempts, lastErr)
}

// orderCandidates puts the previously successful endpoint first (if still
// present), then the rest shuffled.
func (s *Supervisor) orderCandidates(candidates []directory.Server) []directory.Server {
	s.mu.Lock()
	previous := s.previousEndpoint
	s.mu.Unlock()

	shuffled := make([]directory.Server, len(candidates))
	copy(shuffled, candidates)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	if previous == "" {
		return shuffled
	}
	ordered := make([]directory.Server, 0, len(shuffled))
	for _, c := range shuffled {
		if c.Addr == previous {
			ordered = append([]directory.Server{c}, ordered...)
		} else {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

func (s *Supervisor) dial(ctx context.Context, srv directory.Server) (transport.Connection, error) {
	if srv.Type == "websockets" {
		return transport.DialWebSocket(ctx, s.httpClient, srv.Addr)
	}
	tcpConn, err := transport.DialTCP(ctx, srv.Addr)
	if err != nil {
		return nil, err
	}
	if err := transport.PerformEncryptionHandshake(ctx, tcpConn); err != nil {
		_ = tcpConn.Close()
		return nil, err
	}
	return tcpConn, nil
}

// Write sends a single framed message on the current connection.
func (s *Supervisor) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("connection: not connected")
	}
	return conn.Write(ctx, data)
}

// Read receives a single framed message from the current connection. An
// io.EOF-class error transitions status to StatusGotEOF; any other read
// error transitions it to StatusError.
func (s *Supervisor) Read(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil, fmt.Errorf("connection: not connected")
	}
	data, err := conn.Read(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.setStatus(StatusGotEOF)
		} else {
			s.setStatus(StatusError)
		}
		return nil, err
	}
	return data, nil
}

// Close tears down the current connection.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}
