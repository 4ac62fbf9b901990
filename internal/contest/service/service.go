// Package service runs contest creation, participant registration and
// winner scoring against the contest contract.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Extractor,Oracle,Ledger,Auditor

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"faceid/internal/contest/metrics"
	"faceid/internal/contest/models"
	"faceid/internal/extractor"
	"faceid/internal/ledger"
	dErrors "faceid/pkg/domain-errors"
	"faceid/pkg/platform/audit"
	"faceid/pkg/platform/sentinel"
	"faceid/pkg/requestcontext"
	"faceid/pkg/vector"
)

const defaultWinningPool = 100

// Store is the local participant cache.
type Store interface {
	SaveParticipant(ctx context.Context, p *models.Participant) (bool, error)
	ListParticipants(ctx context.Context, contestID uint64) ([]models.Participant, error)
	FindParticipant(ctx context.Context, contestID uint64, imageHash string) (*models.Participant, error)
}

// Extractor produces discretized embeddings.
type Extractor interface {
	ExtractDiscrete(ctx context.Context, image []byte) (extractor.DiscreteResult, error)
}

// Oracle publishes commitments before they are registered.
type Oracle interface {
	Submitter() common.Address
	Publish(ctx context.Context, hash [32]byte, v vector.Discrete) (bool, error)
}

// Ledger is the contest contract.
type Ledger interface {
	CreateContest(ctx context.Context, reference vector.Discrete, duration time.Duration) error
	Register(ctx context.Context, contestID uint64, hash [32]byte, reward common.Address, proof *ledger.Proof) error
	FinalizeContest(ctx context.Context, contestID uint64) error
	ContestInfo(ctx context.Context, contestID uint64) (ledger.ContestInfo, error)
	IsParticipantRegistered(ctx context.Context, contestID uint64, hash [32]byte) (bool, error)
	LatestContestID(ctx context.Context) (uint64, error)
	CalculateDistance(ctx context.Context, features, reference vector.Discrete) (uint64, error)
}

// Auditor records contest lifecycle events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	store          Store
	extractor      Extractor
	oracle         Oracle
	ledger         Ledger
	auditor        Auditor
	logger         *slog.Logger
	metrics        *metrics.Metrics
	winningPool    int64
	verifyDistance bool
	minDistance    uint64
	maxDistance    uint64
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

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithWinningPool sets the pool reported alongside the standings.
func WithWinningPool(pool int64) Option {
	return func(s *Service) {
		s.winningPool = pool
	}
}

// WithDistanceVerification cross-checks every local distance against the
// ledger's calculateDistance when scoring.
func WithDistanceVerification(enabled bool) Option {
	return func(s *Service) {
		s.verifyDistance = enabled
	}
}

func New(store Store, ext Extractor, oracle Oracle, contest Ledger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("participant store is required")
	}
	if ext == nil {
		return nil, errors.New("extractor is required")
	}
	if oracle == nil {
		return nil, errors.New("oracle is required")
	}
	if contest == nil {
		return nil, errors.New("contest contract is required")
	}
	s := &Service{
		store:       store,
		extractor:   ext,
		oracle:      oracle,
		ledger:      contest,
		logger:      slog.Default(),
		winningPool: defaultWinningPool,
		minDistance: vector.DefaultMinDistance,
		maxDistance: vector.DefaultMaxDistance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create opens a contest and returns its ledger id once confirmed.
func (s *Service) Create(ctx context.Context, reference vector.Discrete, duration time.Duration) (uint64, error) {
	if len(reference) != vector.Dimension {
		return 0, dErrors.New(dErrors.CodeBadRequest, "reference vector must have 128 components")
	}
	if duration <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "duration must be positive")
	}
	if err := s.ledger.CreateContest(ctx, reference, duration); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create contest")
	}
	id, err := s.ledger.LatestContestID(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read contest id")
	}
	s.logger.InfoContext(ctx, "contest created",
		"contest_id", id,
		"duration", duration.String(),
	)
	s.emit(ctx, audit.Event{
		Action:  audit.ActionContestCreated,
		Subject: strconv.FormatUint(id, 10),
		Detail:  map[string]string{"duration": duration.String()},
	})
	return id, nil
}

// Register binds an image commitment and its proof to the latest contest.
// The commitment goes through the oracle first so its vector is attestable
// regardless of the contest outcome.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResult, error) {
	requestID := requestcontext.RequestID(ctx)

	proof, err := ledger.ParseProof(req.Proof)
	if err != nil {
		return nil, s.failRegistration("invalid_proof", dErrors.Wrap(err, dErrors.CodeBadRequest, "proof is malformed"))
	}
	reward := s.oracle.Submitter()
	if req.RewardAddress != "" {
		if !common.IsHexAddress(req.RewardAddress) {
			return nil, s.failRegistration("invalid_reward_address", dErrors.New(dErrors.CodeBadRequest, "reward address is not a valid address"))
		}
		reward = common.HexToAddress(req.RewardAddress)
	}

	hash := models.ImageHash(sha3.Sum256(req.Image))
	res, err := s.extractor.ExtractDiscrete(ctx, req.Image)
	if err != nil {
		return nil, s.failRegistration("extract", dErrors.Wrap(err, dErrors.CodeInternal, "failed to process the image"))
	}
	switch res.Status() {
	case extractor.StatusNoFaceFound:
		return nil, s.failRegistration("no_face_found", dErrors.New(dErrors.CodeNoFaceFound, "no face found on the image"))
	case extractor.StatusTooManyPeople:
		return nil, s.failRegistration("too_many_people", dErrors.New(dErrors.CodeTooManyPeople, "more than one face found on the image"))
	}
	features, ok := res.Vector()
	if !ok {
		return nil, s.failRegistration("extract", dErrors.New(dErrors.CodeInternal, "extraction returned no vector"))
	}

	contestID, err := s.ledger.LatestContestID(ctx)
	if err != nil {
		return nil, s.failRegistration("ledger", dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve the current contest"))
	}

	published, err := s.oracle.Publish(ctx, hash, features)
	if err != nil {
		return nil, s.failRegistration("oracle", dErrors.Wrap(err, dErrors.CodeInternal, "failed to publish to the oracle"))
	}

	inserted, err := s.store.SaveParticipant(ctx, &models.Participant{
		ContestID:     contestID,
		ImageHash:     hash.Hex(),
		ImageContent:  req.Image,
		Name:          req.Name,
		RewardAddress: req.RewardAddress,
		Proof:         req.Proof,
		FeatureVector: features,
		CreatedAt:     requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, s.failRegistration("persist", dErrors.Wrap(err, dErrors.CodeInternal, "failed to save the participant"))
	}

	registered, err := s.ledger.IsParticipantRegistered(ctx, contestID, hash)
	if err != nil {
		return nil, s.failRegistration("ledger", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check registration"))
	}
	sent := false
	if !registered {
		if err := s.ledger.Register(ctx, contestID, hash, reward, proof); err != nil {
			return nil, s.failRegistration("register", dErrors.Wrap(err, dErrors.CodeInternal, "failed to register the participant"))
		}
		sent = true
	}

	s.metrics.IncrementRegistration("registered")
	s.emit(ctx, audit.Event{
		Action:  audit.ActionParticipantRegistered,
		Subject: hash.Hex(),
		Detail: map[string]string{
			"contest_id":     strconv.FormatUint(contestID, 10),
			"name":           req.Name,
			"reward_address": reward.Hex(),
			"register_sent":  strconv.FormatBool(sent),
		},
	})
	s.logger.InfoContext(ctx, "contest participant registered",
		"request_id", requestID,
		"contest_id", contestID,
		"hash", hash.Hex(),
		"oracle_published", published,
		"new_local_row", inserted,
		"register_sent", sent,
	)
	return &models.RegisterResult{
		ContestID:     contestID,
		Hash:          hash,
		FeatureVector: features,
		Published:     published,
		Registered:    sent,
	}, nil
}

func (s *Service) failRegistration(outcome string, err error) error {
	s.metrics.IncrementRegistration("failed_" + outcome)
	return err
}

// ChooseWinner scores every locally cached participant of the latest contest
// against the ledger's reference vector. The winner is reported only once
// the ledger has one.
func (s *Service) ChooseWinner(ctx context.Context) (*models.Standings, error) {
	start := time.Now()
	defer s.metrics.ObserveStandings(start)

	contestID, err := s.ledger.LatestContestID(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve the current contest")
	}

	var (
		info         ledger.ContestInfo
		participants []models.Participant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.ledger.ContestInfo(gctx, contestID)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.store.ListParticipants(gctx, contestID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contest state")
	}

	standings := &models.Standings{
		ContestID:    contestID,
		WinningPool:  s.winningPool,
		StartTime:    info.StartTime,
		Duration:     info.Duration,
		Participants: make([]models.Standing, 0, len(participants)),
	}
	for _, p := range participants {
		d, err := vector.DiscreteSquaredDistance(info.Reference, p.FeatureVector)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to score participant")
		}
		standings.Participants = append(standings.Participants, models.Standing{
			Name:       p.Name,
			Image:      p.ImageContent,
			Hash:       p.ImageHash,
			Distance:   d,
			Percentage: vector.SimilarityPercent(d, s.minDistance, s.maxDistance),
		})
	}

	if s.verifyDistance {
		s.verify(ctx, info.Reference, participants, standings.Participants)
	}

	if info.HasWinner() {
		winnerHash := hex.EncodeToString(info.Winner[:])
		p, err := s.store.FindParticipant(ctx, contestID, winnerHash)
		switch {
		case err == nil:
			standings.Winner = &models.Winner{Name: p.Name, ImageHash: winnerHash}
		case errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "ledger winner is not cached locally",
				"request_id", requestcontext.RequestID(ctx),
				"contest_id", contestID,
				"hash", winnerHash,
			)
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load the winner")
		}
	}
	return standings, nil
}

// verify compares local distances with the ledger's calculateDistance. It
// only logs; the ledger remains the authority on the winner.
func (s *Service) verify(ctx context.Context, reference vector.Discrete, participants []models.Participant, scored []models.Standing) {
	onLedger := make([]uint64, len(participants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, p := range participants {
		g.Go(func() error {
			d, err := s.ledger.CalculateDistance(gctx, p.FeatureVector, reference)
			if err != nil {
				return err
			}
			onLedger[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "distance verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return
	}
	for i, st := range scored {
		if onLedger[i] != st.Distance {
			s.metrics.IncrementDistanceMismatch()
			s.logger.ErrorContext(ctx, "local distance disagrees with ledger",
				"request_id", requestcontext.RequestID(ctx),
				"hash", st.Hash,
				"local", st.Distance,
				"ledger", onLedger[i],
			)
		}
	}
}

// Finalize closes the latest contest so the ledger records its winner.
func (s *Service) Finalize(ctx context.Context) (uint64, error) {
	contestID, err := s.ledger.LatestContestID(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve the current contest")
	}
	if err := s.ledger.FinalizeContest(ctx, contestID); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to finalize contest")
	}
	s.logger.InfoContext(ctx, "contest finalized", "contest_id", contestID)
	s.emit(ctx, audit.Event{Action: audit.ActionContestFinalized, Subject: strconv.FormatUint(contestID, 10)})
	return contestID, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor != nil {
		s.auditor.Emit(ctx, event)
	}
}
