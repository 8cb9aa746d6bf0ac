package events

import (
	"context"

	"go.uber.org/zap"
)

// Publisher defines the interface for publishing domain events
type Publisher interface {
	// Publish publishes an event to the message broker
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error

	// Close closes the publisher connection
	Close() error
}

// Emit wraps payload in a v1 event and publishes it. Publishing is best
// effort: a nil publisher is skipped and failures are only logged.
func Emit(ctx context.Context, publisher Publisher, exchange, eventName, service string, payload any) {
	if publisher == nil {
		return
	}

	headers := NewHeaders(service)
	event := NewEvent(eventName, EventVersionV1, payload, headers)

	if err := publisher.Publish(ctx, exchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", eventName),
			zap.String("exchange", exchange),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
	}
}
