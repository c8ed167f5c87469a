package instrumentation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"consentgate/internal/platform/metrics"
	dErrors "consentgate/pkg/domain-errors"
)

// Activator performs at-most-once acquisition and configuration of the
// external capability. Activation is gated by the caller on a prior accepted
// consent decision; the activator itself only guarantees idempotence,
// ordering, and rollback on failure.
type Activator struct {
	loader  Loader
	logger  *slog.Logger
	metrics *metrics.Metrics
	sink    AuditSink
	tracer  trace.Tracer

	mu         sync.Mutex
	state      ActivationState
	capability Capability
}

func NewActivator(loader Loader, logger *slog.Logger, m *metrics.Metrics, sink AuditSink) *Activator {
	return &Activator{
		loader:  loader,
		logger:  logger,
		metrics: m,
		sink:    sink,
		tracer:  otel.Tracer("consentgate/instrumentation"),
	}
}

// State returns the current activation state.
func (a *Activator) State() ActivationState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Snippet returns the ordered browser bootstrap snippet once activation has
// completed, for page injection.
func (a *Activator) Snippet() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateActivated || a.capability == nil {
		return "", false
	}
	renderer, ok := a.capability.(SnippetRenderer)
	if !ok {
		return "", false
	}
	return renderer.Snippet(), true
}

// Activate acquires the runtime and configures it. Repeated calls after a
// successful or in-flight activation return immediately without side effects,
// so at most one acquisition is in flight at any time. On acquisition failure
// the state rolls back to StateNotActivated; there is no automatic retry, but
// a later explicit call may attempt again.
func (a *Activator) Activate(ctx context.Context, apiKey string, opts TrackingOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if apiKey == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "instrumentation API key is required")
	}

	a.mu.Lock()
	if a.state != StateNotActivated {
		state := a.state
		a.mu.Unlock()
		a.logger.DebugContext(ctx, "activation skipped", "state", state.String())
		return nil
	}
	a.state = StateActivating
	a.mu.Unlock()

	ctx, span := a.tracer.Start(ctx, "instrumentation.activate")
	defer span.End()

	if a.metrics != nil {
		a.metrics.IncrementActivationAttempts()
	}
	start := time.Now()

	capability, err := a.loader.Acquire(ctx, apiKey)
	if err != nil {
		return a.fail(ctx, span, err, "runtime acquisition failed")
	}

	// The session-recording extension must be registered before the
	// capability's initialization call.
	if err := capability.RegisterReplay(ReplayOptions{SampleRate: opts.SessionRecordingSampleRate}); err != nil {
		return a.fail(ctx, span, err, "session recording registration failed")
	}
	if err := capability.Initialize(ctx, apiKey, opts); err != nil {
		return a.fail(ctx, span, err, "capability initialization failed")
	}

	a.mu.Lock()
	a.state = StateActivated
	a.capability = capability
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.ObserveActivationDuration(float64(time.Since(start).Microseconds()) / 1000.0)
	}
	if a.sink != nil {
		a.sink.ActivationSucceeded(ctx, opts.EnabledCategories(), opts.SessionRecordingSampleRate)
	}
	return nil
}

func (a *Activator) fail(ctx context.Context, span trace.Span, cause error, message string) error {
	a.mu.Lock()
	a.state = StateNotActivated
	a.mu.Unlock()

	span.RecordError(cause)
	if a.metrics != nil {
		a.metrics.IncrementActivationFailures()
	}
	if a.sink != nil {
		a.sink.ActivationFailed(ctx, cause)
	}
	a.logger.ErrorContext(ctx, "instrumentation activation failed",
		"error", cause,
		"reason", message,
	)
	return dErrors.Wrap(cause, dErrors.CodeUnavailable, message)
}
