package broker

import (
	"context"

	"storefront/models"
)

// Publisher emits order domain events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}

// EventPublisher publishes domain events through a Producer, keyed by order
// so every event of one order lands on the same partition.
type EventPublisher struct {
	producer *Producer
}

func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return ep.producer.PublishEvent(ctx, "order-"+event.OrderID, event)
}

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, *models.OrderPlacedEvent) error { return nil }
