package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"faceid/internal/contest/metrics"
	"faceid/internal/contest/models"
	dErrors "faceid/pkg/domain-errors"
	"faceid/pkg/platform/httputil"
	"faceid/pkg/requestcontext"
)

// Service defines the contest operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResult, error)
	ChooseWinner(ctx context.Context) (*models.Standings, error)
}

// Handler wires contest endpoints to the contest service.
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

// Register mounts contest endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/contest/register", h.HandleRegister)
	r.Get("/contest/winner", h.HandleWinner)
}

// HandleRegister handles POST /contest/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		h.metrics.IncrementRegistration("failed_bad_request")
		return
	}

	result, err := h.service.Register(ctx, models.RegisterRequest{
		Image:         req.image,
		Proof:         req.Proof,
		Name:          *req.Name,
		RewardAddress: req.RewardAddress,
	})
	if err != nil {
		h.logFailure(ctx, "contest registration failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "contest registration handled",
		"request_id", requestID,
		"contest_id", result.ContestID,
		"hash", result.Hash.Hex(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromRegisterResult(result))
}

// HandleWinner handles GET /contest/winner.
func (h *Handler) HandleWinner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	standings, err := h.service.ChooseWinner(ctx)
	if err != nil {
		h.logFailure(ctx, "contest scoring failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "contest standings computed",
		"request_id", requestID,
		"contest_id", standings.ContestID,
		"participants", len(standings.Participants),
		"has_winner", standings.Winner != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromStandings(standings))
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return
	}
	h.logger.InfoContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"code", string(dErrors.CodeOf(err)),
	)
}
