// Package service runs the consent flow for transport layers. Each request
// gets a fresh controller bound to the caller's store, which reproduces the
// per-page-load lifecycle of the browser flow: durable state lives in the
// store, activation state lives in the shared activator.
package service

import (
	"context"
	"log/slog"

	"consentgate/internal/audit"
	"consentgate/internal/consent"
	"consentgate/internal/instrumentation"
	"consentgate/internal/platform/metrics"
	"consentgate/internal/platform/middleware"
)

// Flow wires the per-request controllers to the process-wide activator,
// metrics, and audit sink.
type Flow struct {
	apiKey    string
	opts      instrumentation.TrackingOptions
	activator consent.Activator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	sink      consent.AuditSink
}

func New(
	apiKey string,
	opts instrumentation.TrackingOptions,
	activator consent.Activator,
	logger *slog.Logger,
	m *metrics.Metrics,
	sink consent.AuditSink) *Flow {
	return &Flow{
		apiKey:    apiKey,
		opts:      opts,
		activator: activator,
		logger:    logger,
		metrics:   m,
		sink:      sink,
	}
}

// nopPrompt stands in for the modal on the HTTP surface: the browser renders
// the modal from the state the page handler derives, so server-side show and
// hide have no work to do.
type nopPrompt struct{}

func (nopPrompt) Show() {}
func (nopPrompt) Hide() {}

func (f *Flow) controller(store consent.Store) *consent.Controller {
	return consent.NewController(store, nopPrompt{}, f.activator, f.apiKey, f.opts, f.logger, f.metrics, f.sink)
}

// Status resolves the visitor's current state. A pre-existing accepted record
// triggers (idempotent) activation, matching the page-load control flow.
func (f *Flow) Status(ctx context.Context, store consent.Store) (consent.State, consent.Decision) {
	c := f.controller(store)
	state := c.Start(ctx)
	return state, c.Decision()
}

// Accept records an accept decision for the visitor. Activation failures are
// reported through the audit sink; the recorded decision stands either way.
func (f *Flow) Accept(ctx context.Context, store consent.Store) error {
	c := f.controller(store)
	c.Start(ctx)
	return c.Accept(ctx)
}

// Decline records a decline decision for the visitor.
func (f *Flow) Decline(ctx context.Context, store consent.Store) error {
	c := f.controller(store)
	c.Start(ctx)
	return c.Decline(ctx)
}

// Cleared audits an external clearing of the stored record. The next page
// load starts from an unset decision and shows the prompt again.
func (f *Flow) Cleared(ctx context.Context) {
	if f.sink == nil {
		return
	}
	f.sink.Emit(ctx, audit.Event{
		Action: audit.ActionConsentCleared,
		Reason: audit.ReasonUserInitiated,
		Device: middleware.GetDevice(ctx),
	})
}
