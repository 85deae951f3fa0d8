package claimclient

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is where a Session stands in the claim protocol.
type State int

const (
	// Idle: nothing claimed yet.
	Idle State = iota
	// Claimed: this worker holds the lease; the UI may lock to them.
	Claimed
	// Blocked: another worker holds the lease; show the holder.
	Blocked
	// Lost: the lease was taken over or reaped while claimed.
	Lost
	// Released: given back explicitly or on abandon.
	Released
)

func (s State) String() string {
	switch s {
	case Claimed:
		return "claimed"
	case Blocked:
		return "blocked"
	case Lost:
		return "lost"
	case Released:
		return "released"
	default:
		return "idle"
	}
}

// Session tracks one worker's claim on one lease. Safe for concurrent use.
type Session struct {
	client  *Client
	orderID string
	kind    string
	worker  string

	mu     sync.Mutex
	state  State
	holder string
	lease  Lease
}

// NewSession prepares a session without contacting the server.
func (c *Client) NewSession(orderID, kind, worker string) (*Session, error) {
	worker, err := checkWorker(worker)
	if err != nil {
		return nil, err
	}
	return &Session{client: c, orderID: orderID, kind: kind, worker: worker}, nil
}

// Open creates a session and claims once.
func (c *Client) Open(ctx context.Context, orderID, kind, worker string) (*Session, error) {
	s, err := c.NewSession(orderID, kind, worker)
	if err != nil {
		return nil, err
	}
	if err := s.Claim(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Claim tries the lease once. A conflict moves the session to Blocked and is
// not returned as an error; transport and validation failures are.
func (s *Session) Claim(ctx context.Context) error {
	lease, err := s.client.Claim(ctx, s.orderID, s.kind, s.worker)

	s.mu.Lock()
	defer s.mu.Unlock()

	var conflict *ConflictError
	switch {
	case err == nil:
		s.state, s.holder, s.lease = Claimed, s.worker, lease
		return nil
	case errors.As(err, &conflict):
		s.state, s.holder = Blocked, conflict.Holder
		return nil
	default:
		return err
	}
}

// Heartbeat extends the lease. If the server says another worker now holds
// it the session becomes Lost.
func (s *Session) Heartbeat(ctx context.Context) error {
	lease, err := s.client.Heartbeat(ctx, s.orderID, s.kind, s.worker)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
		s.lease = lease
		return nil
	case errors.Is(err, ErrNotHolder):
		s.state = Lost
		s.holder = ""
	}
	return err
}

// MarkReady completes the lease for this worker.
func (s *Session) MarkReady(ctx context.Context) error {
	lease, err := s.client.MarkReady(ctx, s.orderID, s.kind, s.worker)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.lease = lease
	s.mu.Unlock()
	return nil
}

// Release gives the lease back explicitly.
func (s *Session) Release(ctx context.Context) error {
	return s.release(ctx, ReasonManual)
}

// Abandon releases on a best-effort basis within timeout, as a page unload
// handler would. Errors are swallowed.
func (s *Session) Abandon(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = s.release(ctx, ReasonUnload)
}

func (s *Session) release(ctx context.Context, reason string) error {
	s.mu.Lock()
	claimed := s.state == Claimed
	s.mu.Unlock()
	if !claimed {
		return nil
	}

	if _, err := s.client.Release(ctx, s.orderID, s.kind, s.worker, reason); err != nil {
		return err
	}

	s.mu.Lock()
	s.state, s.holder = Released, ""
	s.mu.Unlock()
	return nil
}

// Refresh re-reads the lease to update the banner of a Blocked session.
func (s *Session) Refresh(ctx context.Context) error {
	lease, err := s.client.Lease(ctx, s.orderID, s.kind)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lease = lease
	if s.state == Blocked {
		s.holder = lease.ClaimedBy
	}
	if s.state == Claimed && lease.Status == "in_progress" && lease.ClaimedBy != s.worker {
		s.state, s.holder = Lost, lease.ClaimedBy
	}
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Holder is the worker shown in the banner; empty when nobody holds it.
func (s *Session) Holder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holder
}

// Locked reports whether this worker may edit.
func (s *Session) Locked() bool {
	return s.State() == Claimed
}

func (s *Session) Lease() Lease {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lease
}

func (s *Session) Worker() string {
	return s.worker
}
