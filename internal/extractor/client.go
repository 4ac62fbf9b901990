// Package extractor talks to the face embedding sidecar.
//
// The sidecar accepts POST /v1/embeddings with {"image": "<base64>"} and
// answers {"status": "success"|"no_face_found"|"too_many_people", "embedding": [...]}.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/sling"

	"faceid/pkg/vector"
)

const embeddingsPath = "v1/embeddings"

// Error wraps sidecar failures.
type Error struct {
	StatusCode int
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("extractor: %s: %v", e.Message, e.Underlying)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("extractor: %s (status %d)", e.Message, e.StatusCode)
	}
	return "extractor: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// ErrEmptyImage is returned before any network call for zero-length input.
var ErrEmptyImage = errors.New("image is empty")

type embeddingRequest struct {
	Image []byte `json:"image"`
}

type embeddingResponse struct {
	Status    string    `json:"status"`
	Embedding []float64 `json:"embedding"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client is an HTTP client for the embedding sidecar.
type Client struct {
	base *sling.Sling
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithTimeout bounds each extraction call.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// New builds a Client against baseURL.
func New(baseURL string, opts ...Option) *Client {
	o := clientOptions{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	}
	return &Client{
		base: sling.New().Client(hc).Base(ensureSlash(baseURL)).Set("Accept", "application/json"),
	}
}

// Extract runs face detection and returns the continuous embedding.
func (c *Client) Extract(ctx context.Context, image []byte) (Result, error) {
	if len(image) == 0 {
		return Result{}, ErrEmptyImage
	}

	req, err := c.base.New().Post(embeddingsPath).BodyJSON(embeddingRequest{Image: image}).Request()
	if err != nil {
		return Result{}, &Error{Message: "build request", Underlying: err}
	}

	var (
		ok   embeddingResponse
		fail errorResponse
	)
	resp, err := c.base.Do(req.WithContext(ctx), &ok, &fail)
	if err != nil {
		return Result{}, &Error{Message: "call sidecar", Underlying: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fail.Error
		if msg == "" {
			msg = "unexpected response"
		}
		return Result{}, &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	status, known := parseStatus(ok.Status)
	if !known {
		return Result{}, &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unknown status %q", ok.Status)}
	}
	switch status {
	case StatusNoFaceFound:
		return NoFaceFound(), nil
	case StatusTooManyPeople:
		return TooManyPeople(), nil
	}

	v, err := vector.ParseContinuous(ok.Embedding)
	if err != nil {
		return Result{}, &Error{StatusCode: resp.StatusCode, Message: "malformed embedding", Underlying: err}
	}
	return Success(v), nil
}

// ExtractDiscrete is Extract followed by discretization.
func (c *Client) ExtractDiscrete(ctx context.Context, image []byte) (DiscreteResult, error) {
	res, err := c.Extract(ctx, image)
	if err != nil {
		return DiscreteResult{}, err
	}
	return res.Discrete(), nil
}

func ensureSlash(u string) string {
	if u == "" || u[len(u)-1] == '/' {
		return u
	}
	return u + "/"
}
