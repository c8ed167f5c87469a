package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"consentgate/internal/audit"
	"consentgate/internal/platform/middleware"
	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/secrets"
)

// operatorTokenTTL keeps operator tokens short-lived; a new one is a single
// request away.
const operatorTokenTTL = 15 * time.Minute

// TokenIssuer mints operator access tokens.
type TokenIssuer interface {
	GenerateOperatorToken(subject string, expiresIn time.Duration) (string, error)
}

// AdminHandler serves the operator surface: token exchange and the audit
// trail. It stays read-only with respect to visitor consent; clearing a
// decision is the visitor's own user-control operation.
type AdminHandler struct {
	logger             *slog.Logger
	publisher          *audit.Publisher
	issuer             TokenIssuer
	validator          middleware.JWTValidator
	operatorSecretHash string
}

func NewAdminHandler(
	publisher *audit.Publisher,
	issuer TokenIssuer,
	validator middleware.JWTValidator,
	operatorSecretHash string,
	logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		logger:             logger,
		publisher:          publisher,
		issuer:             issuer,
		validator:          validator,
		operatorSecretHash: operatorSecretHash,
	}
}

// Register registers the operator routes with the chi router.
func (h *AdminHandler) Register(r chi.Router) {
	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.Recovery(h.logger))
	adminRouter.Use(middleware.RequestID)
	adminRouter.Use(middleware.Logger(h.logger))
	adminRouter.Use(middleware.Timeout(10 * time.Second))
	adminRouter.Use(middleware.ContentTypeJSON)

	adminRouter.Post("/token", h.handleToken)
	adminRouter.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(h.validator, h.logger))
		protected.Get("/audit", h.handleAudit)
	})

	r.Mount("/admin", adminRouter)
}

type tokenRequest struct {
	Secret string `json:"secret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *AdminHandler) handleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.operatorSecretHash == "" {
		writeError(w, dErrors.New(dErrors.CodeUnavailable, "operator surface not configured"))
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid token request",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := secrets.Verify(req.Secret, h.operatorSecretHash); err != nil {
		h.logger.WarnContext(ctx, "operator secret rejected",
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid operator secret"))
		return
	}

	token, err := h.issuer.GenerateOperatorToken("operator", operatorTokenTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue operator token",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, dErrors.New(dErrors.CodeInternal, "failed to issue token"))
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(operatorTokenTTL.Seconds()),
	})
}

type auditEventResponse struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Device    string `json:"device,omitempty"`
}

func (h *AdminHandler) handleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.publisher.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, dErrors.New(dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	response := make([]auditEventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, auditEventResponse{
			ID:        event.ID,
			Timestamp: event.Timestamp.Format(time.RFC3339),
			Action:    event.Action,
			Decision:  event.Decision,
			Reason:    event.Reason,
			Detail:    event.Detail,
			Device:    event.Device,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": response})
}
