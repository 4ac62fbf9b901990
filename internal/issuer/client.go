// Package issuer is the HTTP client for the verifiable credential issuer.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dghubble/sling"

	"faceid/pkg/platform/circuit"
	"faceid/pkg/platform/sentinel"
)

// CredentialType is the credential type requested for every enrollment.
const CredentialType = "FaceIdentityCredential"

// Error wraps issuer failures. Retryable is true for transport errors and 5xx.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("issuer %s", e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" [%d]", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// CredentialAttributes is the credential subject sent on issuance.
// Embedding is a digest of the vector, never the vector itself.
type CredentialAttributes struct {
	UserID    string `json:"user_id"`
	Embedding string `json:"embedding"`
	PublicKey string `json:"public_key"`
	DID       string `json:"did"`
	Metadata  string `json:"metadata"`
}

type createCredentialRequest struct {
	Type              string               `json:"type"`
	CredentialSubject CredentialAttributes `json:"credentialSubject"`
}

type createCredentialResponse struct {
	ID string `json:"id"`
}

type issuerErrorResponse struct {
	Message string `json:"message"`
}

// Client calls the issuer API under /v1/{issuerID}/claims.
type Client struct {
	base     *sling.Sling
	issuerID string
	logger   *slog.Logger

	breaker  *circuit.Breaker
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	openedAt time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.base = c.base.Client(hc)
	}
}

// WithLogger sets the logger used for circuit transitions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

// WithCooldown sets how long an open circuit rejects calls before probing.
func WithCooldown(d time.Duration) Option {
	return func(c *Client) {
		c.cooldown = d
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New builds an issuer client.
func New(baseURL, issuerID string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	base := baseURL
	if base != "" && base[len(base)-1] != '/' {
		base += "/"
	}
	c := &Client{
		base:     sling.New().Client(&http.Client{Timeout: timeout}).Base(base).Set("Accept", "application/json"),
		issuerID: issuerID,
		logger:   slog.Default(),
		breaker:  circuit.New("issuer"),
		cooldown: 30 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateCredential asks the issuer for a new credential and returns its id.
func (c *Client) CreateCredential(ctx context.Context, attrs CredentialAttributes) (string, error) {
	const op = "create credential"
	if err := c.allow(op); err != nil {
		return "", err
	}

	req, err := c.base.New().
		Post(c.claimsPath()).
		BodyJSON(createCredentialRequest{Type: CredentialType, CredentialSubject: attrs}).
		Request()
	if err != nil {
		return "", &Error{Op: op, Message: "build request", Underlying: err}
	}

	var (
		ok   createCredentialResponse
		fail issuerErrorResponse
	)
	resp, err := c.base.Do(req.WithContext(ctx), &ok, &fail)
	if err = c.observe(op, resp, err, fail.Message); err != nil {
		return "", err
	}
	if ok.ID == "" {
		return "", &Error{Op: op, StatusCode: resp.StatusCode, Message: "empty credential id"}
	}
	return ok.ID, nil
}

// RevokeCredential revokes a previously issued credential.
func (c *Client) RevokeCredential(ctx context.Context, credentialID string) error {
	const op = "revoke credential"
	if credentialID == "" {
		return &Error{Op: op, Message: "credential id is required"}
	}
	if err := c.allow(op); err != nil {
		return err
	}

	req, err := c.base.New().
		Post(c.claimsPath() + "/" + url.PathEscape(credentialID) + "/revoke").
		Request()
	if err != nil {
		return &Error{Op: op, Message: "build request", Underlying: err}
	}

	var fail issuerErrorResponse
	resp, err := c.base.Do(req.WithContext(ctx), nil, &fail)
	return c.observe(op, resp, err, fail.Message)
}

func (c *Client) claimsPath() string {
	return "v1/" + url.PathEscape(c.issuerID) + "/claims"
}

func (c *Client) allow(op string) error {
	if !c.breaker.IsOpen() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now().Sub(c.openedAt) >= c.cooldown {
		return nil
	}
	return &Error{Op: op, Message: "circuit open", Underlying: sentinel.ErrUnavailable, Retryable: true}
}

// observe converts the sling outcome into an *Error and feeds the breaker.
func (c *Client) observe(op string, resp *http.Response, callErr error, failMsg string) error {
	var err *Error
	switch {
	case callErr != nil && resp == nil:
		err = &Error{Op: op, Message: "call issuer", Underlying: callErr, Retryable: true}
		if errors.Is(callErr, context.DeadlineExceeded) {
			err.Underlying = errors.Join(sentinel.ErrTimeout, callErr)
		}
	case resp.StatusCode >= 500:
		err = &Error{Op: op, StatusCode: resp.StatusCode, Message: failMsg, Retryable: true}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		err = &Error{Op: op, StatusCode: resp.StatusCode, Message: failMsg}
	case callErr != nil:
		err = &Error{Op: op, StatusCode: resp.StatusCode, Message: "decode response", Underlying: callErr}
	}

	if err != nil && err.Retryable {
		_, change := c.breaker.RecordFailure()
		if c.breaker.IsOpen() {
			c.mu.Lock()
			c.openedAt = c.now()
			c.mu.Unlock()
		}
		if change.Opened {
			c.logger.Warn("issuer circuit opened", "breaker", c.breaker.Name(), "error", err)
		}
		return err
	}

	_, change := c.breaker.RecordSuccess()
	if change.Closed {
		c.logger.Info("issuer circuit closed", "breaker", c.breaker.Name())
	}
	if err != nil {
		return err
	}
	return nil
}
