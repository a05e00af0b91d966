package service

import (
	"context"

	"food-consult-bot/internal/pkg/logger"
	"food-consult-bot/pkg/events"
)

type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

// IPublisherService fans domain events out. Publishing never fails the caller.
type IPublisherService interface {
	Publish(ctx context.Context, event events.Event)
}

type publisherService struct {
	sink   EventSink
	logger logger.ILogger
}

// NewPublisherService works with a nil sink, dropping every event.
func NewPublisherService(sink EventSink, log logger.ILogger) IPublisherService {
	return &publisherService{
		sink:   sink,
		logger: log,
	}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Publish(ctx, event); err != nil {
		p.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
