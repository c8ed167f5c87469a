package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// InstrumentationSink adapts the publisher onto the activator's audit port.
// On success it emits the three status notices: activation confirmed, the
// enabled tracking categories, and the effective sample rate.
type InstrumentationSink struct {
	publisher *Publisher
	logger    *slog.Logger
}

func NewInstrumentationSink(publisher *Publisher, logger *slog.Logger) *InstrumentationSink {
	return &InstrumentationSink{publisher: publisher, logger: logger}
}

func (s *InstrumentationSink) ActivationSucceeded(ctx context.Context, categories []string, sampleRate float64) {
	s.logger.InfoContext(ctx, "instrumentation activation confirmed")
	s.logger.InfoContext(ctx, "tracking categories enabled", "categories", strings.Join(categories, ", "))
	s.logger.InfoContext(ctx, "session recording enabled", "sample_rate", sampleRate)

	s.publisher.Emit(ctx, Event{
		Action: ActionActivationSucceeded,
		Detail: fmt.Sprintf("categories=[%s] sample_rate=%g", strings.Join(categories, ","), sampleRate),
	})
}

func (s *InstrumentationSink) ActivationFailed(ctx context.Context, cause error) {
	s.logger.ErrorContext(ctx, "instrumentation activation failed", "error", cause)

	s.publisher.Emit(ctx, Event{
		Action: ActionActivationFailed,
		Reason: ReasonAcquisitionFailure,
		Detail: cause.Error(),
	})
}
