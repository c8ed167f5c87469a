package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/sentinel"
)

// maxBundleSize bounds how much of the remote runtime resource is read.
const maxBundleSize = 8 << 20

// HTTPLoader fetches the capability's runtime bundle from the vendor CDN,
// keyed by the API key. A BundleCache in front of the fetch keeps restarts
// cheap; cache failures are never fatal.
type HTTPLoader struct {
	client  *http.Client
	baseURL string
	cache   BundleCache
	logger  *slog.Logger
}

// NewHTTPLoader builds a loader against the given CDN base URL. The cache is
// optional.
func NewHTTPLoader(baseURL string, cache BundleCache, logger *slog.Logger) *HTTPLoader {
	return &HTTPLoader{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   cache,
		logger:  logger,
	}
}

func (l *HTTPLoader) Acquire(ctx context.Context, apiKey string) (Capability, error) {
	if apiKey == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "API key is required to acquire the runtime")
	}

	if l.cache != nil {
		bundle, err := l.cache.Get(ctx, apiKey)
		if err == nil {
			return NewRuntime(bundle), nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			l.logger.WarnContext(ctx, "runtime bundle cache read failed", "error", err)
		}
	}

	bundle, err := l.fetch(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, apiKey, bundle); err != nil {
			l.logger.WarnContext(ctx, "runtime bundle cache write failed", "error", err)
		}
	}
	return NewRuntime(bundle), nil
}

func (l *HTTPLoader) fetch(ctx context.Context, apiKey string) ([]byte, error) {
	url := l.baseURL + "/script/" + apiKey + ".js"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build runtime request")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable, "fetch runtime bundle")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable,
			fmt.Sprintf("runtime bundle fetch returned status %d", resp.StatusCode))
	}

	bundle, err := io.ReadAll(io.LimitReader(resp.Body, maxBundleSize))
	if err != nil {
		return nil, dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable, "read runtime bundle")
	}
	if len(bundle) == 0 {
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable, "runtime bundle is empty")
	}
	return bundle, nil
}

// Runtime is the acquired capability handle. It enforces the vendor ordering
// contract: the session-recording extension must be registered before the
// initialization call.
type Runtime struct {
	mu          sync.Mutex
	bundle      []byte
	replay      *ReplayOptions
	initialized bool
	apiKey      string
	opts        TrackingOptions
}

func NewRuntime(bundle []byte) *Runtime {
	return &Runtime{bundle: bundle}
}

func (r *Runtime) RegisterReplay(opts ReplayOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return fmt.Errorf("register session recording after initialization: %w", sentinel.ErrInvalidState)
	}
	r.replay = &opts
	return nil
}

func (r *Runtime) Initialize(_ context.Context, apiKey string, opts TrackingOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replay == nil {
		return fmt.Errorf("session recording extension not registered: %w", sentinel.ErrInvalidState)
	}
	if r.initialized {
		return fmt.Errorf("capability already initialized: %w", sentinel.ErrInvalidState)
	}
	r.apiKey = apiKey
	r.opts = opts
	r.initialized = true
	return nil
}

// Snippet renders the ordered browser bootstrap: the runtime bundle, the
// session-recording registration, then the initialization call.
func (r *Runtime) Snippet() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized || r.replay == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("<script>")
	b.Write(r.bundle)
	b.WriteString("</script>\n<script>\n")
	fmt.Fprintf(&b, "amplitude.add(window.sessionReplay.plugin({sampleRate: %g}));\n", r.replay.SampleRate)
	fmt.Fprintf(&b, "amplitude.init(%q, {autocapture: {attribution: %t, sessions: %t, pageViews: %t, formInteractions: %t, fileDownloads: %t, elementInteractions: %t, frustrationInteractions: %t}});\n",
		r.apiKey,
		r.opts.Attribution,
		r.opts.Sessions,
		r.opts.PageViews,
		r.opts.FormInteractions,
		r.opts.FileDownloads,
		r.opts.ElementInteractions,
		r.opts.FrustrationInteractions,
	)
	b.WriteString("</script>")
	return b.String()
}
