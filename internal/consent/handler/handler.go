package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"consentgate/internal/consent"
	"consentgate/internal/platform/metrics"
	"consentgate/internal/platform/middleware"
)

// Service defines the interface for consent flow operations.
type Service interface {
	Status(ctx context.Context, store consent.Store) (consent.State, consent.Decision)
	Accept(ctx context.Context, store consent.Store) error
	Decline(ctx context.Context, store consent.Store) error
	Cleared(ctx context.Context)
}

//go:generate mockgen -source=handler.go -destination=mocks/consent_mocks.go -package=mocks Service

// Handler handles the visitor-facing consent endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	metrics *metrics.Metrics
}

// New creates a new consent Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		metrics: m,
	}
}

// Register registers the consent routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	consentRouter := chi.NewRouter()
	consentRouter.Use(middleware.Recovery(h.logger))
	consentRouter.Use(middleware.RequestID)
	consentRouter.Use(middleware.Logger(h.logger))
	consentRouter.Use(middleware.Timeout(30 * time.Second))
	consentRouter.Use(middleware.Device)
	consentRouter.Use(middleware.LatencyMiddleware(h.metrics))
	consentRouter.Get("/", h.handleStatus)
	consentRouter.Post("/accept", h.handleAccept)
	consentRouter.Post("/decline", h.handleDecline)
	consentRouter.Delete("/", h.handleClear)

	r.Mount("/consent", consentRouter)
}

type statusResponse struct {
	Decision      string `json:"decision"`
	PromptVisible bool   `json:"prompt_visible"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := NewCookieStore(w, r)

	state, decision := h.service.Status(ctx, store)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statusResponse{
		Decision:      decisionLabel(decision),
		PromptVisible: state == consent.StateAwaitingDecision,
	}); err != nil {
		h.logger.ErrorContext(ctx, "failed to write status response",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}
}

// handleAccept records an accept decision. Activation failures are deliberate
// non-errors here: the decision is persisted first and the page must remain
// usable, so failures surface through the audit sink rather than the response.
func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := NewCookieStore(w, r)

	if err := h.service.Accept(ctx, store); err != nil {
		h.logger.WarnContext(ctx, "activation failed after accept",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDecline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := NewCookieStore(w, r)

	if err := h.service.Decline(ctx, store); err != nil {
		h.logger.WarnContext(ctx, "decline failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClear is the user-control reset: it expires the stored record so the
// next page load starts unset and shows the prompt again.
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := NewCookieStore(w, r)

	store.Clear()
	h.service.Cleared(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func decisionLabel(decision consent.Decision) string {
	if decision == consent.DecisionUnset {
		return "unset"
	}
	return decision.String()
}
