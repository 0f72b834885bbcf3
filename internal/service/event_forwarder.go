package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/fieldreport-auth/internal/events"
)

// EventForwarder logs auth events and relays them to an external bus.
type EventForwarder struct {
	dispatcher events.Dispatcher
	publisher  events.Publisher
	logger     *zap.Logger
}

// NewEventForwarder creates the forwarder. A nil publisher only logs.
func NewEventForwarder(dispatcher events.Dispatcher, publisher events.Publisher, logger *zap.Logger) *EventForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventForwarder{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (f *EventForwarder) RegisterHandlers() {
	if f.dispatcher == nil {
		return
	}
	f.dispatcher.SubscribeAll(f.handle)
}

func (f *EventForwarder) handle(ctx context.Context, event events.Event) error {
	f.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	if f.publisher == nil {
		return nil
	}
	if err := f.publisher.Publish(ctx, event); err != nil {
		f.logger.Warn("forward event failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
	return nil
}
