package httptransport

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"consentgate/internal/consent"
	consentHandler "consentgate/internal/consent/handler"
	"consentgate/internal/platform/middleware"
)

// Flow is the slice of the consent service the page needs.
type Flow interface {
	Status(ctx context.Context, store consent.Store) (consent.State, consent.Decision)
}

// SnippetSource provides the bootstrap snippet once activation completed.
type SnippetSource interface {
	Snippet() (string, bool)
}

// PageHandler serves the demo page. The modal is rendered when the visitor's
// decision is unset; while it is open the underlying content is blurred and
// does not receive pointer events. Accepted visitors get the instrumentation
// bootstrap snippet injected once the activator reports it available.
type PageHandler struct {
	logger   *slog.Logger
	flow     Flow
	snippets SnippetSource
	tmpl     *template.Template
}

func NewPageHandler(flow Flow, snippets SnippetSource, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		logger:   logger,
		flow:     flow,
		snippets: snippets,
		tmpl:     template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// Register registers the page route with the chi router.
func (p *PageHandler) Register(r chi.Router) {
	pageRouter := chi.NewRouter()
	pageRouter.Use(middleware.Recovery(p.logger))
	pageRouter.Use(middleware.RequestID)
	pageRouter.Use(middleware.Logger(p.logger))
	pageRouter.Use(middleware.Timeout(30 * time.Second))
	pageRouter.Use(middleware.Device)
	pageRouter.Get("/", p.handlePage)

	r.Mount("/demo", pageRouter)
}

type pageData struct {
	PromptVisible bool
	Accepted      bool
	Snippet       template.HTML
}

func (p *PageHandler) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := consentHandler.NewCookieStore(w, r)

	state, decision := p.flow.Status(ctx, store)

	data := pageData{
		PromptVisible: state == consent.StateAwaitingDecision,
		Accepted:      decision == consent.DecisionAccepted,
	}
	if data.Accepted {
		if snippet, ok := p.snippets.Snippet(); ok {
			data.Snippet = template.HTML(snippet)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.Execute(w, data); err != nil {
		p.logger.ErrorContext(ctx, "failed to render page",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>consentgate demo</title>
<style>
  body { font-family: sans-serif; margin: 0; }
  main { padding: 2rem; }
  .blocked { filter: blur(4px); pointer-events: none; user-select: none; }
  .overlay { position: fixed; inset: 0; background: rgba(0,0,0,0.4); display: flex; align-items: center; justify-content: center; }
  .modal { background: white; border-radius: 8px; padding: 2rem; max-width: 28rem; }
  .modal .actions { margin-top: 1.5rem; display: flex; gap: 1rem; }
</style>
</head>
<body>
<main id="content"{{if .PromptVisible}} class="blocked"{{end}}>
  <h1>Demo page</h1>
  <p>This content is gated behind the tracking consent prompt.</p>
</main>
{{if .PromptVisible}}
<div class="overlay" id="consent-modal">
  <div class="modal" role="dialog" aria-modal="true">
    <h2>We value your privacy</h2>
    <p>We use analytics and session recording to improve this site. May we enable them?</p>
    <div class="actions">
      <button id="consent-accept">Accept</button>
      <button id="consent-decline">Decline</button>
    </div>
    <p><a href="/privacy">More information</a></p>
  </div>
</div>
<script>
  function decide(path) {
    fetch(path, {method: "POST"}).then(function () { location.reload(); });
  }
  document.getElementById("consent-accept").addEventListener("click", function () { decide("/consent/accept"); });
  document.getElementById("consent-decline").addEventListener("click", function () { decide("/consent/decline"); });
</script>
{{end}}
{{if .Snippet}}{{.Snippet}}{{end}}
</body>
</html>
`
