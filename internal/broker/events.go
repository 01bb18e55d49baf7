package broker

import (
	"context"
	"fmt"
	"time"

	"rewardplay-bot/internal/models"

	"github.com/google/uuid"
)

// EventPublisher publishes purchase lifecycle events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

func userKey(userID string) string {
	return fmt.Sprintf("user-%s", userID)
}

// PublishInvoiceIssued publishes InvoiceIssued event
func (ep *EventPublisher) PublishInvoiceIssued(ctx context.Context, event *models.InvoiceIssuedEvent) error {
	event.BaseEvent = newBaseEvent(models.EventTypeInvoiceIssued)
	return ep.producer.PublishEvent(ctx, userKey(event.UserID), event.EventType, event)
}

// PublishEntitlementGranted publishes EntitlementGranted event
func (ep *EventPublisher) PublishEntitlementGranted(ctx context.Context, event *models.EntitlementGrantedEvent) error {
	event.BaseEvent = newBaseEvent(models.EventTypeEntitlementGranted)
	return ep.producer.PublishEvent(ctx, userKey(event.UserID), event.EventType, event)
}

// PublishPurchaseDenied publishes PurchaseDenied event
func (ep *EventPublisher) PublishPurchaseDenied(ctx context.Context, event *models.PurchaseDeniedEvent) error {
	event.BaseEvent = newBaseEvent(models.EventTypePurchaseDenied)
	return ep.producer.PublishEvent(ctx, userKey(event.UserID), event.EventType, event)
}

// PublishPaymentProcessingFailed publishes PaymentProcessingFailed event
func (ep *EventPublisher) PublishPaymentProcessingFailed(ctx context.Context, event *models.PaymentProcessingFailedEvent) error {
	event.BaseEvent = newBaseEvent(models.EventTypePaymentProcessingError)
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("charge-%s", event.ChargeID), event.EventType, event)
}
