package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher captures structured audit events. It appends to a store, logs a
// human-readable notice per event, and optionally forwards events to a stream
// channel drained by a Worker. Emission never fails the caller's operation:
// store errors are logged and dropped.
type Publisher struct {
	store  Store
	stream chan<- Event
	logger *slog.Logger
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// WithStream forwards emitted events to the given channel. Sends are
// non-blocking: when the channel is full the event is still stored locally but
// not streamed.
func (p *Publisher) WithStream(stream chan<- Event) *Publisher {
	p.stream = stream
	return p
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "audit event dropped", "action", event.Action, "error", err)
	}

	if p.stream != nil {
		select {
		case p.stream <- event:
		default:
			p.logger.WarnContext(ctx, "audit stream full, event not forwarded", "action", event.Action)
		}
	}

	p.logger.InfoContext(ctx, "audit event",
		"action", event.Action,
		"decision", event.Decision,
		"reason", event.Reason,
		"detail", event.Detail,
		"device", event.Device,
	)
}

// List returns the recorded events for the operator surface.
func (p *Publisher) List(ctx context.Context) ([]Event, error) {
	return p.store.List(ctx)
}
