package instrumentation

import "context"

// Capability is the narrow activation contract of the external
// analytics/session-recording runtime. It is injected rather than looked up
// from ambient globals so the activator is testable without a network-loaded
// dependency.
//
// The vendor contract requires RegisterReplay to happen before Initialize:
// the recording extension must be attached before the main capability starts.
type Capability interface {
	RegisterReplay(opts ReplayOptions) error
	Initialize(ctx context.Context, apiKey string, opts TrackingOptions) error
}

// Loader acquires the capability's runtime. Acquisition is the only
// asynchronous step in the bootstrap: a network fetch of the remote runtime
// resource keyed by the API key.
type Loader interface {
	Acquire(ctx context.Context, apiKey string) (Capability, error)
}

// SnippetRenderer is implemented by runtimes that can render an ordered
// browser bootstrap snippet for page injection.
type SnippetRenderer interface {
	Snippet() string
}

// AuditSink receives activation outcomes. The audit package adapts this onto
// its publisher; tests substitute a recording fake.
type AuditSink interface {
	ActivationSucceeded(ctx context.Context, categories []string, sampleRate float64)
	ActivationFailed(ctx context.Context, cause error)
}
