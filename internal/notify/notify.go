// Package notify publishes storefront events for out-of-process delivery
// (SMS, mail). Publishing is best effort: callers log failures and carry on.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	EventOTPRequested = "otp.requested"
	EventOrderPlaced  = "order.placed"
	EventOrderUpdated = "order.updated"
)

// Event is the message body written to the topic.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	Phone      string    `json:"phone,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType, userID, phone string, payload any, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Phone:      phone,
		OccurredAt: now,
		Payload:    payload,
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// OTPPayload carries the code to the SMS sender.
type OTPPayload struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// OrderPayload summarises an order for the mail sender.
type OrderPayload struct {
	OrderID        string  `json:"orderId"`
	Status         string  `json:"status"`
	TotalAmount    float64 `json:"totalAmount"`
	TrackingNumber string  `json:"trackingNumber,omitempty"`
}

// LogPublisher writes events to the process log. Used when no broker is
// configured. OTP codes are not logged.
type LogPublisher struct{}

// Publish logs the event.
func (LogPublisher) Publish(_ context.Context, event Event) error {
	if event.Type == EventOTPRequested {
		event.Payload = nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	log.Printf("notify: %s", body)
	return nil
}

// Close is a no-op.
func (LogPublisher) Close() error { return nil }
