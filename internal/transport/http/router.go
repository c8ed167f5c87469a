package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	consentHandler "consentgate/internal/consent/handler"
)

// HealthChecker reports the health of a backing dependency, such as the
// redis bundle cache, so /healthz reflects more than process liveness.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter wires all public endpoints. The consent flow and the operator
// surface register their own sub-routers with their own middleware stacks so
// transport concerns remain isolated.
func NewRouter(consent *consentHandler.Handler, admin *AdminHandler, page *PageHandler, checks ...HealthChecker) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		for _, check := range checks {
			if err := check.Health(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	page.Register(r)
	consent.Register(r)
	admin.Register(r)

	return r
}
