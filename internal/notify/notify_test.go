package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ev := NewEvent(EventOrderPlaced, "u1", "9999999999", OrderPayload{OrderID: "o1", Status: "pending", TotalAmount: 200}, now)

	_, err := uuid.Parse(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, EventOrderPlaced, ev.Type)
	assert.Equal(t, now, ev.OccurredAt)

	body, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"orderId":"o1"`)
	assert.Contains(t, string(body), `"type":"order.placed"`)
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	ev := NewEvent(EventOTPRequested, "u1", "9999999999", OTPPayload{Code: "123456"}, time.Now())
	require.NoError(t, p.Publish(context.Background(), ev))
	require.NoError(t, p.Close())
}

func TestKafkaPublisherTimesOut(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "km-agri-events", "", "")
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := p.Publish(ctx, NewEvent(EventOrderUpdated, "u1", "", nil, time.Now()))
	assert.Error(t, err)
}
