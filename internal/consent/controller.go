package consent

import (
	"context"
	"log/slog"
	"sync"

	"consentgate/internal/audit"
	"consentgate/internal/instrumentation"
	"consentgate/internal/platform/metrics"
	"consentgate/internal/platform/middleware"
)

// State is the controller's position in the consent flow for one page load.
type State int

const (
	StateAwaitingDecision State = iota
	StateResolvedAccepted
	StateResolvedDeclined
)

func (s State) String() string {
	switch s {
	case StateResolvedAccepted:
		return "resolved_accepted"
	case StateResolvedDeclined:
		return "resolved_declined"
	default:
		return "awaiting_decision"
	}
}

// Prompt is the modal presentation surface. It holds no consent logic and
// never touches the store; both operations are idempotent.
type Prompt interface {
	Show()
	Hide()
}

// Activator gates the external capability on an accepted decision. The
// instrumentation activator implements it; tests substitute a recorder.
type Activator interface {
	Activate(ctx context.Context, apiKey string, opts instrumentation.TrackingOptions) error
}

// AuditSink receives consent decision events.
type AuditSink interface {
	Emit(ctx context.Context, event audit.Event)
}

// Controller orchestrates store, prompt, and activator for one page load.
// Resolved states are terminal: a decision event arriving after resolution is
// a no-op, since the prompt is no longer shown.
type Controller struct {
	store     Store
	prompt    Prompt
	activator Activator
	apiKey    string
	opts      instrumentation.TrackingOptions
	logger    *slog.Logger
	metrics   *metrics.Metrics
	sink      AuditSink

	mu       sync.Mutex
	state    State
	decision Decision
	started  bool
}

func NewController(
	store Store,
	prompt Prompt,
	activator Activator,
	apiKey string,
	opts instrumentation.TrackingOptions,
	logger *slog.Logger,
	m *metrics.Metrics,
	sink AuditSink) *Controller {
	return &Controller{
		store:     store,
		prompt:    prompt,
		activator: activator,
		apiKey:    apiKey,
		opts:      opts,
		logger:    logger,
		metrics:   m,
		sink:      sink,
	}
}

// Start resolves the initial state from the store. A pre-existing accepted
// record triggers activation immediately without showing the prompt; a
// declined record leaves the controller idle; no record shows the prompt and
// waits. Storage failures are treated as no record: a local degraded mode,
// never fatal.
func (c *Controller) Start(ctx context.Context) State {
	c.mu.Lock()
	if c.started {
		state := c.state
		c.mu.Unlock()
		return state
	}
	c.started = true

	decision, err := c.store.Read(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "consent storage unavailable, treating decision as unset", "error", err)
		decision = DecisionUnset
	}
	c.decision = decision

	switch decision {
	case DecisionAccepted:
		c.state = StateResolvedAccepted
		c.mu.Unlock()
		// Activation failure is reported through the sink; the stored
		// decision stands and the page remains usable.
		_ = c.activate(ctx, audit.ReasonPriorConsent)
		return StateResolvedAccepted
	case DecisionDeclined:
		c.state = StateResolvedDeclined
		c.mu.Unlock()
		return StateResolvedDeclined
	default:
		c.state = StateAwaitingDecision
		c.prompt.Show()
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.IncrementPromptShown()
		}
		return StateAwaitingDecision
	}
}

// Accept records the visitor's accept decision and activates instrumentation.
// Persistence is attempted before activation begins, so a crash during
// activation never leaves consent unrecorded. A write failure downgrades to
// in-memory state for the current page load only.
func (c *Controller) Accept(ctx context.Context) error {
	if !c.resolve(ctx, DecisionAccepted, StateResolvedAccepted) {
		return nil
	}
	if c.metrics != nil {
		c.metrics.IncrementConsentDecision(DecisionAccepted.String())
	}
	c.emitDecision(ctx, audit.ActionConsentGranted, DecisionAccepted)
	return c.activate(ctx, audit.ReasonUserInitiated)
}

// Decline records the visitor's decline decision. No activation ever occurs
// on this path.
func (c *Controller) Decline(ctx context.Context) error {
	if !c.resolve(ctx, DecisionDeclined, StateResolvedDeclined) {
		return nil
	}
	if c.metrics != nil {
		c.metrics.IncrementConsentDecision(DecisionDeclined.String())
	}
	c.emitDecision(ctx, audit.ActionConsentDeclined, DecisionDeclined)
	return nil
}

// resolve performs the shared transition out of StateAwaitingDecision.
// It returns false when the controller is already resolved.
func (c *Controller) resolve(ctx context.Context, decision Decision, next State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAwaitingDecision {
		return false
	}
	if err := c.store.Write(ctx, decision); err != nil {
		c.logger.WarnContext(ctx, "consent write failed, decision kept in memory for this page load",
			"decision", decision.String(),
			"error", err,
		)
	}
	c.decision = decision
	c.prompt.Hide()
	c.state = next
	return true
}

func (c *Controller) activate(ctx context.Context, reason string) error {
	err := c.activator.Activate(ctx, c.apiKey, c.opts)
	if err != nil {
		c.logger.ErrorContext(ctx, "activation after consent failed",
			"reason", reason,
			"error", err,
		)
	}
	return err
}

func (c *Controller) emitDecision(ctx context.Context, action string, decision Decision) {
	if c.sink == nil {
		return
	}
	c.sink.Emit(ctx, audit.Event{
		Action:   action,
		Decision: decision.String(),
		Reason:   audit.ReasonUserInitiated,
		Device:   middleware.GetDevice(ctx),
	})
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Decision returns the in-memory decision, which may be ahead of durable
// storage in degraded mode.
func (c *Controller) Decision() Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decision
}

// PromptVisible derives modal visibility purely from state: visible only
// while a decision is awaited.
func (c *Controller) PromptVisible() bool {
	return c.State() == StateAwaitingDecision
}
