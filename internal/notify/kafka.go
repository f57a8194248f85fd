package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const publishTimeout = 5 * time.Second

// Ensure KafkaPublisher satisfies the Publisher interface at compile time.
var _ Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher writes events to one topic, keyed by user id so a user's
// events stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a synchronous writer. When username is set the
// connection uses SASL/PLAIN over TLS.
func NewKafkaPublisher(brokers []string, topic, username, password string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	if username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: username, Password: password},
			TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return &KafkaPublisher{writer: w}
}

// Publish writes event, giving up after publishTimeout.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
