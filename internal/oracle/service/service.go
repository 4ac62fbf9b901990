// Package service publishes feature-vector commitments to the oracle
// contract in two phases: submit, then finalize.
//
// Publish assumes a single-member committee and finalizes immediately after
// its own vote; a multi-member committee needs a delay or threshold policy
// before finalizing.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Oracle,Cache

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"faceid/internal/oracle/metrics"
	"faceid/pkg/requestcontext"
	"faceid/pkg/vector"
)

// Oracle is the ledger-side oracle contract.
type Oracle interface {
	Submitter() common.Address
	Submit(ctx context.Context, hash [32]byte, v vector.Discrete) error
	FinalizeRound(ctx context.Context, hash [32]byte) error
	IsOracleSubmitted(ctx context.Context, hash [32]byte, submitter common.Address) (bool, error)
	FeatureVector(ctx context.Context, hash [32]byte) (vector.Discrete, error)
}

// Cache remembers positive submission answers.
type Cache interface {
	IsSubmitted(ctx context.Context, hash [32]byte, submitter common.Address) (bool, error)
	MarkSubmitted(ctx context.Context, hash [32]byte, submitter common.Address) error
}

type Service struct {
	oracle  Oracle
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache sets the positive-answer cache. Without one every check goes to
// the ledger.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func New(oracle Oracle, opts ...Option) (*Service, error) {
	if oracle == nil {
		return nil, errors.New("oracle contract is required")
	}
	s := &Service{
		oracle: oracle,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submitter is the address votes are recorded under.
func (s *Service) Submitter() common.Address {
	return s.oracle.Submitter()
}

// IsSubmitted reports whether this service's submitter already voted for hash.
// Cache failures fall through to the ledger.
func (s *Service) IsSubmitted(ctx context.Context, hash [32]byte) (bool, error) {
	submitter := s.oracle.Submitter()
	if s.cache != nil {
		hit, err := s.cache.IsSubmitted(ctx, hash, submitter)
		if err != nil {
			s.metrics.IncrementCacheError()
			s.logger.WarnContext(ctx, "submission cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		} else if hit {
			s.metrics.IncrementCacheHit()
			return true, nil
		}
	}

	submitted, err := s.oracle.IsOracleSubmitted(ctx, hash, submitter)
	if err != nil {
		return false, err
	}
	if submitted && s.cache != nil {
		if err := s.cache.MarkSubmitted(ctx, hash, submitter); err != nil {
			s.metrics.IncrementCacheError()
			s.logger.WarnContext(ctx, "submission cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
	return submitted, nil
}

// Submit records this submitter's vote for hash and waits for the receipt.
// Callers must check IsSubmitted first.
func (s *Service) Submit(ctx context.Context, hash [32]byte, v vector.Discrete) error {
	err := s.oracle.Submit(ctx, hash, v)
	s.metrics.IncrementTransaction("submit", err)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "oracle vote submitted",
		"request_id", requestcontext.RequestID(ctx),
		"hash", hex.EncodeToString(hash[:]),
	)
	return nil
}

// FinalizeRound closes voting for hash. A second finalize is rejected by the
// ledger and returned as an error.
func (s *Service) FinalizeRound(ctx context.Context, hash [32]byte) error {
	err := s.oracle.FinalizeRound(ctx, hash)
	s.metrics.IncrementTransaction("finalize_round", err)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "oracle round finalized",
		"request_id", requestcontext.RequestID(ctx),
		"hash", hex.EncodeToString(hash[:]),
	)
	return nil
}

// Publish submits and finalizes hash unless this submitter already voted.
// It reports whether any transaction was sent.
func (s *Service) Publish(ctx context.Context, hash [32]byte, v vector.Discrete) (bool, error) {
	submitted, err := s.IsSubmitted(ctx, hash)
	if err != nil {
		return false, err
	}
	if submitted {
		return false, nil
	}
	if err := s.Submit(ctx, hash, v); err != nil {
		return false, err
	}
	if err := s.FinalizeRound(ctx, hash); err != nil {
		return true, err
	}
	if s.cache != nil {
		if err := s.cache.MarkSubmitted(ctx, hash, s.oracle.Submitter()); err != nil {
			s.metrics.IncrementCacheError()
		}
	}
	return true, nil
}

// FeatureVector reads the finalized vector for hash.
func (s *Service) FeatureVector(ctx context.Context, hash [32]byte) (vector.Discrete, error) {
	return s.oracle.FeatureVector(ctx, hash)
}
