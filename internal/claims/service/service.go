package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Extractor,Issuer,Auditor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"faceid/internal/claims/metrics"
	"faceid/internal/claims/models"
	"faceid/internal/claims/resolver"
	"faceid/internal/extractor"
	"faceid/internal/issuer"
	dErrors "faceid/pkg/domain-errors"
	"faceid/pkg/platform/audit"
	"faceid/pkg/requestcontext"
	"faceid/pkg/vector"
)

// Store is the claim persistence contract.
type Store interface {
	Create(ctx context.Context, claim *models.Claim) error
	All(ctx context.Context) ([]models.Claim, error)
	ListPending(ctx context.Context) ([]models.Claim, error)
	MarkIssued(ctx context.Context, id uuid.UUID, credentialID string, replacement *models.Replacement) error
	MarkPending(ctx context.Context, id uuid.UUID) error
}

// Extractor turns an image into a continuous embedding.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (extractor.Result, error)
}

// Issuer creates and revokes credentials.
type Issuer interface {
	CreateCredential(ctx context.Context, attrs issuer.CredentialAttributes) (string, error)
	RevokeCredential(ctx context.Context, credentialID string) error
}

// Auditor records identity changes. Emit must not block on failure.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

// stage names the enrollment step that failed, for logs and metrics.
type stage string

const (
	stageExtract stage = "extract"
	stageResolve stage = "resolve"
	stagePersist stage = "persist"
	stageIssue   stage = "issue"
	stageRecord  stage = "record"
)

// Service runs enrollment and face lookup against the claim set.
type Service struct {
	store     Store
	extractor Extractor
	issuer    Issuer
	auditor   Auditor
	logger    *slog.Logger
	metrics   *metrics.Metrics
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

// New constructs a Service.
func New(store Store, ext Extractor, iss Issuer, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("claim store is required")
	}
	if ext == nil {
		return nil, errors.New("extractor is required")
	}
	if iss == nil {
		return nil, errors.New("issuer is required")
	}
	s := &Service{
		store:     store,
		extractor: ext,
		issuer:    iss,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Enroll extracts the face, resolves it against existing claims, requests a
// credential and records it. A failed issuance leaves the row pending.
func (s *Service) Enroll(ctx context.Context, req models.EnrollRequest) (*models.EnrollResult, error) {
	start := time.Now()
	defer s.metrics.ObserveEnroll(start)

	v, err := s.extract(ctx, req.Image)
	if err != nil {
		return nil, s.fail(ctx, stageExtract, err)
	}

	claims, err := s.store.All(ctx)
	if err != nil {
		return nil, s.fail(ctx, stageResolve, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claims"))
	}
	resolved, err := resolver.Resolve(v, claims)
	if err != nil {
		return nil, s.fail(ctx, stageResolve, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve identity"))
	}

	isUpdate := resolved != nil
	var claimID uuid.UUID
	if isUpdate {
		claimID = resolved.ID
		if resolved.Submitted {
			s.revoke(ctx, resolved)
		}
	} else {
		now := requestcontext.Now(ctx)
		claim := &models.Claim{
			ID:        uuid.New(),
			UserID:    req.UserID,
			Vector:    v,
			Metadata:  req.Metadata,
			PublicKey: req.PublicKey,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.Create(ctx, claim); err != nil {
			return nil, s.fail(ctx, stagePersist, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save the claim"))
		}
		claimID = claim.ID
	}

	credentialID, err := s.issuer.CreateCredential(ctx, issuer.CredentialAttributes{
		UserID:    req.UserID,
		Embedding: EmbeddingDigest(v),
		PublicKey: req.PublicKey,
		DID:       req.DID,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return nil, s.fail(ctx, stageIssue, dErrors.Wrap(err, dErrors.CodeInternal, "failed to send data to the issuer"),
			"claim_id", claimID)
	}

	var replacement *models.Replacement
	if isUpdate {
		replacement = &models.Replacement{
			UserID:    req.UserID,
			Vector:    v,
			Metadata:  req.Metadata,
			PublicKey: req.PublicKey,
		}
	}
	if err := s.store.MarkIssued(ctx, claimID, credentialID, replacement); err != nil {
		return nil, s.fail(ctx, stageRecord, dErrors.Wrap(err, dErrors.CodeInternal, "failed while finalizing the request"),
			"claim_id", claimID, "credential_id", credentialID)
	}

	result := &models.EnrollResult{
		ClaimID:      claimID,
		CredentialID: credentialID,
		Vector:       v,
		Updated:      isUpdate,
	}
	outcome := "created"
	event := audit.Event{
		Action:  audit.ActionClaimEnrolled,
		Subject: claimID.String(),
		Detail:  map[string]string{"credential_id": credentialID, "user_id": req.UserID},
	}
	if isUpdate {
		result.PreviousUserID = resolved.UserID
		outcome = "replaced"
		event.Action = audit.ActionIdentityReplaced
		event.Detail["previous_user_id"] = resolved.UserID
		event.Detail["previous_credential_id"] = resolved.CredentialID
	}
	s.emit(ctx, event)
	s.metrics.IncrementEnrollment(outcome)
	s.logger.InfoContext(ctx, "claim enrolled",
		"request_id", requestcontext.RequestID(ctx),
		"claim_id", claimID,
		"outcome", outcome,
	)
	return result, nil
}

// revoke retires the credential of a claim about to be replaced. Failure does
// not stop the enrollment; the row is reset to pending either way so a failed
// re-issuance stays visible.
func (s *Service) revoke(ctx context.Context, claim *models.Claim) {
	event := audit.Event{
		Action:  audit.ActionCredentialRevoked,
		Subject: claim.ID.String(),
		Detail:  map[string]string{"credential_id": claim.CredentialID},
	}
	if err := s.issuer.RevokeCredential(ctx, claim.CredentialID); err != nil {
		s.metrics.IncrementRevokeFailure()
		s.logger.WarnContext(ctx, "failed to revoke credential",
			"request_id", requestcontext.RequestID(ctx),
			"claim_id", claim.ID,
			"credential_id", claim.CredentialID,
			"error", err,
		)
		event.Action = audit.ActionCredentialRevokeFailed
	}
	s.emit(ctx, event)
	if err := s.store.MarkPending(ctx, claim.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to mark claim pending",
			"request_id", requestcontext.RequestID(ctx),
			"claim_id", claim.ID,
			"error", err,
		)
	}
}

// LookupByFace returns the claim whose identity matches the face in image.
func (s *Service) LookupByFace(ctx context.Context, image []byte) (*models.Claim, error) {
	start := time.Now()
	defer s.metrics.ObserveLookup(start)

	v, err := s.extract(ctx, image)
	if err != nil {
		return nil, err
	}
	claims, err := s.store.All(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load claims")
	}
	resolved, err := resolver.Resolve(v, claims)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve identity")
	}
	if resolved == nil {
		return nil, dErrors.New(dErrors.CodeAccountDoesNotExist, "account does not exist")
	}
	return resolved, nil
}

// Pending lists claims whose credential was never confirmed.
func (s *Service) Pending(ctx context.Context) ([]models.Claim, error) {
	claims, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending claims")
	}
	return claims, nil
}

func (s *Service) extract(ctx context.Context, image []byte) (vector.Continuous, error) {
	res, err := s.extractor.Extract(ctx, image)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to process the image")
	}
	switch res.Status() {
	case extractor.StatusNoFaceFound:
		return nil, dErrors.New(dErrors.CodeNoFaceFound, "no face found on the image")
	case extractor.StatusTooManyPeople:
		return nil, dErrors.New(dErrors.CodeTooManyPeople, "more than one face found on the image")
	}
	v, ok := res.Vector()
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal, "extraction returned no vector")
	}
	return v, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor != nil {
		s.auditor.Emit(ctx, event)
	}
}

func (s *Service) fail(ctx context.Context, st stage, err error, attrs ...any) error {
	s.metrics.IncrementEnrollment("failed_" + string(st))
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		args := append([]any{"request_id", requestcontext.RequestID(ctx), "stage", string(st), "error", err}, attrs...)
		s.logger.ErrorContext(ctx, "enrollment failed", args...)
	}
	return err
}

// EmbeddingDigest is the sha256 hex of the canonical vector string; the
// issuer receives this instead of the raw vector.
func EmbeddingDigest(v vector.Continuous) string {
	sum := sha256.Sum256([]byte(v.String()))
	return hex.EncodeToString(sum[:])
}
