package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"faceid/pkg/platform/circuit"
	"faceid/pkg/requestcontext"
)

// Publisher writes events to a Store without failing the caller. A run of
// store failures opens a circuit and events are dropped until the cooldown
// has passed.
type Publisher struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics

	breaker  *circuit.Breaker
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	openedAt time.Time
}

// Option configures the Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithBreaker sets the failure threshold and how long the circuit stays open.
func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(p *Publisher) {
		p.breaker = circuit.New("audit", circuit.WithFailureThreshold(threshold), circuit.WithSuccessThreshold(1))
		if cooldown > 0 {
			p.cooldown = cooldown
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func New(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:    store,
		logger:   slog.Default(),
		breaker:  circuit.New("audit", circuit.WithSuccessThreshold(1)),
		cooldown: time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit persists the event. Timestamp and RequestID are filled from ctx when
// unset.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil || p.store == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if !p.allow() {
		p.metrics.incDropped()
		return
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.incPersistFailure()
		p.logger.ErrorContext(ctx, "audit persist failed",
			"action", event.Action,
			"subject", event.Subject,
			"request_id", event.RequestID,
			"error", err,
		)
		_, change := p.breaker.RecordFailure()
		if p.breaker.IsOpen() {
			p.mu.Lock()
			p.openedAt = p.now()
			p.mu.Unlock()
		}
		if change.Opened {
			p.metrics.setBreakerOpen(true)
			p.logger.WarnContext(ctx, "audit circuit opened", "cooldown", p.cooldown)
		}
		return
	}

	_, change := p.breaker.RecordSuccess()
	if change.Closed {
		p.metrics.setBreakerOpen(false)
		p.logger.InfoContext(ctx, "audit circuit closed")
	}
	p.metrics.incEmitted(event.Action.Category())
}

// allow lets a probe through once the cooldown has passed.
func (p *Publisher) allow() bool {
	if !p.breaker.IsOpen() {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now().Sub(p.openedAt) >= p.cooldown
}

// Recent returns the newest events first.
func (p *Publisher) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return p.store.ListRecent(ctx, limit)
}
