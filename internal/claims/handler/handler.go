package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"faceid/internal/claims/metrics"
	"faceid/internal/claims/models"
	dErrors "faceid/pkg/domain-errors"
	"faceid/pkg/platform/httputil"
	"faceid/pkg/requestcontext"
)

// Service defines the claims operations the handler needs.
type Service interface {
	Enroll(ctx context.Context, req models.EnrollRequest) (*models.EnrollResult, error)
	LookupByFace(ctx context.Context, image []byte) (*models.Claim, error)
}

// Handler wires the enrollment and lookup endpoints to the claims service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts claims endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/extract", h.HandleEnroll)
	r.Post("/pk-from-image", h.HandlePublicKeyFromImage)
}

// HandleEnroll handles POST /extract.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EnrollRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		h.metrics.IncrementRejection("extract", string(dErrors.CodeBadRequest))
		return
	}
	a := req.Data.Attributes

	result, err := h.service.Enroll(ctx, models.EnrollRequest{
		Image:     a.decoded,
		DID:       *a.DID,
		UserID:    *a.UserID,
		PublicKey: *a.PublicKey,
		Metadata:  *a.Metadata,
	})
	if err != nil {
		h.reject(ctx, w, "extract", err)
		return
	}

	h.logger.InfoContext(ctx, "face enrolled",
		"request_id", requestID,
		"user_id", *a.UserID,
		"updated", result.Updated,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromEnrollResult(result))
}

// HandlePublicKeyFromImage handles POST /pk-from-image.
func (h *Handler) HandlePublicKeyFromImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[PublicKeyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		h.metrics.IncrementRejection("pk-from-image", string(dErrors.CodeBadRequest))
		return
	}

	claim, err := h.service.LookupByFace(ctx, req.Data.Attributes.decoded)
	if err != nil {
		h.reject(ctx, w, "pk-from-image", err)
		return
	}

	h.logger.InfoContext(ctx, "public key resolved from face",
		"request_id", requestID,
		"user_id", claim.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromClaim(claim))
}

func (h *Handler) reject(ctx context.Context, w http.ResponseWriter, endpoint string, err error) {
	code := dErrors.CodeOf(err)
	h.metrics.IncrementRejection(endpoint, string(code))
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "request failed",
			"request_id", requestcontext.RequestID(ctx),
			"endpoint", endpoint,
			"error", err,
		)
	} else {
		h.logger.InfoContext(ctx, "request rejected",
			"request_id", requestcontext.RequestID(ctx),
			"endpoint", endpoint,
			"code", string(code),
		)
	}
	httputil.WriteError(w, err)
}
