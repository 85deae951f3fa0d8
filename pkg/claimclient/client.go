// Package claimclient is the worker-side half of the work-claim protocol.
//
// A worker opens a Session for one lease of one order. If the claim succeeds
// the session is Claimed and the caller may lock its editing UI to that
// worker. If someone else holds the lease the session is Blocked and carries
// the holder's identity for a "claimed by X" banner. Conflicts are never
// retried automatically. Abandon releases on a best-effort basis when the
// worker navigates away; the server's staleness bound covers lost releases.
//
// Only reads retry, briefly and with backoff. Writes are sent once.
package claimclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrConflict is wrapped by *ConflictError.
	ErrConflict = errors.New("lease held by another worker")

	// ErrNotHolder reports a lease-gated action by a worker without the lease.
	ErrNotHolder = errors.New("worker does not hold the lease")

	// ErrInvalidWorker is returned before any request for a blank worker id.
	ErrInvalidWorker = errors.New("worker id is required")
)

// ConflictError names who holds the lease.
type ConflictError struct {
	Holder string
	Status string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrConflict, e.Holder, e.Status)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// APIError is any other non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fulfillment api: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// Lease mirrors the server's lease representation.
type Lease struct {
	OrderID     string     `json:"orderId"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	OrderStatus string     `json:"orderStatus,omitempty"`
	ClaimedBy   string     `json:"claimedBy,omitempty"`
	ClaimedAt   *time.Time `json:"claimedAt,omitempty"`
	HeartbeatAt *time.Time `json:"heartbeatAt,omitempty"`
	ReleasedAt  *time.Time `json:"releasedAt,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// Order is the subset of the order view the protocol needs.
type Order struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PackingLease  Lease  `json:"packingLease"`
	DeliveryLease Lease  `json:"deliveryLease"`
}

const (
	KindPacking  = "packing"
	KindDelivery = "delivery"

	ReasonManual = "manual"
	ReasonUnload = "unload"
)

// Client talks to the fulfillment API.
type Client struct {
	baseURL     string
	http        *http.Client
	readRetries uint64
	readBackoff time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithReadRetry sets how often a failed read is retried and the first wait.
func WithReadRetry(retries uint64, initial time.Duration) Option {
	return func(c *Client) {
		c.readRetries = retries
		c.readBackoff = initial
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        http.DefaultClient,
		readRetries: 3,
		readBackoff: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type workerBody struct {
	WorkerID string `json:"workerId"`
	Reason   string `json:"reason,omitempty"`
}

type transitionBody struct {
	Status   string `json:"status"`
	WorkerID string `json:"workerId,omitempty"`
}

type releaseResult struct {
	Released bool  `json:"released"`
	Lease    Lease `json:"lease"`
}

type errorBody struct {
	Message string `json:"message"`
	Holder  string `json:"holder"`
	Status  string `json:"status"`
}

func leasePath(orderID, kind, action string) string {
	p := "/api/v1/orders/" + url.PathEscape(orderID) + "/leases/" + url.PathEscape(kind)
	if action != "" {
		p += "/" + action
	}
	return p
}

func checkWorker(worker string) (string, error) {
	worker = strings.TrimSpace(worker)
	if worker == "" {
		return "", ErrInvalidWorker
	}
	return worker, nil
}

// Claim asks for the lease. A *ConflictError means somebody else holds it.
func (c *Client) Claim(ctx context.Context, orderID, kind, worker string) (Lease, error) {
	worker, err := checkWorker(worker)
	if err != nil {
		return Lease{}, err
	}
	var lease Lease
	err = c.do(ctx, http.MethodPost, leasePath(orderID, kind, "claim"), workerBody{WorkerID: worker}, &lease)
	return lease, err
}

// Release gives the lease back. It reports false when the worker did not
// hold it, which is not an error.
func (c *Client) Release(ctx context.Context, orderID, kind, worker, reason string) (bool, error) {
	worker, err := checkWorker(worker)
	if err != nil {
		return false, err
	}
	var result releaseResult
	err = c.do(ctx, http.MethodPost, leasePath(orderID, kind, "release"),
		workerBody{WorkerID: worker, Reason: reason}, &result)
	return result.Released, err
}

// MarkReady completes the lease. ErrNotHolder when another worker holds it.
func (c *Client) MarkReady(ctx context.Context, orderID, kind, worker string) (Lease, error) {
	worker, err := checkWorker(worker)
	if err != nil {
		return Lease{}, err
	}
	var lease Lease
	err = c.do(ctx, http.MethodPost, leasePath(orderID, kind, "ready"), workerBody{WorkerID: worker}, &lease)
	return lease, err
}

// Heartbeat extends a held lease.
func (c *Client) Heartbeat(ctx context.Context, orderID, kind, worker string) (Lease, error) {
	worker, err := checkWorker(worker)
	if err != nil {
		return Lease{}, err
	}
	var lease Lease
	err = c.do(ctx, http.MethodPost, leasePath(orderID, kind, "heartbeat"), workerBody{WorkerID: worker}, &lease)
	return lease, err
}

// Transition moves the order to status. worker may be empty for ungated edges.
func (c *Client) Transition(ctx context.Context, orderID, status, worker string) (Order, error) {
	var o Order
	err := c.do(ctx, http.MethodPost, "/api/v1/orders/"+url.PathEscape(orderID)+"/status",
		transitionBody{Status: status, WorkerID: strings.TrimSpace(worker)}, &o)
	return o, err
}

// Lease reads a lease snapshot, retrying transient failures.
func (c *Client) Lease(ctx context.Context, orderID, kind string) (Lease, error) {
	var lease Lease
	err := c.read(ctx, leasePath(orderID, kind, ""), &lease)
	return lease, err
}

// Order reads the order view, retrying transient failures.
func (c *Client) Order(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := c.read(ctx, "/api/v1/orders/"+url.PathEscape(orderID), &o)
	return o, err
}

func (c *Client) read(ctx context.Context, path string, out any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.readBackoff
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.readRetries), ctx)
	return backoff.Retry(func() error {
		err := c.do(ctx, http.MethodGet, path, nil, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return backoff.Permanent(err)
		}
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotHolder) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, out)
	}

	var e errorBody
	_ = json.Unmarshal(data, &e)

	switch resp.StatusCode {
	case http.StatusConflict:
		if e.Holder != "" {
			return &ConflictError{Holder: e.Holder, Status: e.Status}
		}
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrNotHolder, e.Message)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: e.Message}
}
