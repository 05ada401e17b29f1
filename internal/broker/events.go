package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"catalog-service/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing index events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishListingIndex asks the index worker to upsert one document.
// Keyed by slug so rewrites of the same listing stay ordered.
func (ep *EventPublisher) PublishListingIndex(ctx context.Context, doc models.ListingDocument) error {
	event := models.ListingIndexEvent{
		BaseEvent: newBaseEvent(models.EventTypeListingIndex),
		Document:  doc,
	}
	return ep.producer.PublishEvent(ctx, doc.Slug, event)
}

// PublishListingDelete asks the index worker to drop one document.
func (ep *EventPublisher) PublishListingDelete(ctx context.Context, slug string) error {
	event := models.ListingDeleteEvent{
		BaseEvent: newBaseEvent(models.EventTypeListingDelete),
		Slug:      slug,
	}
	return ep.producer.PublishEvent(ctx, slug, event)
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// EventHandler handles incoming events
type EventHandler struct {
	onListingIndex  func(context.Context, *models.ListingIndexEvent) error
	onListingDelete func(context.Context, *models.ListingDeleteEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnListingIndex registers a handler for ListingIndex events
func (eh *EventHandler) OnListingIndex(handler func(context.Context, *models.ListingIndexEvent) error) {
	eh.onListingIndex = handler
}

// OnListingDelete registers a handler for ListingDelete events
func (eh *EventHandler) OnListingDelete(handler func(context.Context, *models.ListingDeleteEvent) error) {
	eh.onListingDelete = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeListingIndex:
		if eh.onListingIndex != nil {
			var event models.ListingIndexEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ListingIndex event: %w", err)
			}
			return eh.onListingIndex(ctx, &event)
		}

	case models.EventTypeListingDelete:
		if eh.onListingDelete != nil {
			var event models.ListingDeleteEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ListingDelete event: %w", err)
			}
			return eh.onListingDelete(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
