package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/popgames/platform/internal/domain"
	"github.com/segmentio/kafka-go"
)

// EventsTopic carries pop-up activity events (plays, opt-ins, config saves).
const EventsTopic = "popup.events"

// EventProducer publishes domain events to Kafka. When disabled it is a
// no-op, so callers never branch on whether eventing is configured.
type EventProducer struct {
	writer  *kafka.Writer
	logger  *slog.Logger
	enabled bool
}

// NewEventProducer creates a Kafka event producer. If brokers is empty or
// disabled, publishes are no-ops.
func NewEventProducer(brokers string, enabled bool, logger *slog.Logger) *EventProducer {
	if !enabled || brokers == "" {
		logger.Info("event producer disabled")
		return &EventProducer{enabled: false, logger: logger}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        EventsTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("event producer initialized", "brokers", brokers, "topic", EventsTopic)
	return &EventProducer{writer: w, logger: logger, enabled: true}
}

// Publish sends a domain event keyed by shop. Failures are logged and
// swallowed: eventing is observability, never part of the request outcome.
func (p *EventProducer) Publish(ctx context.Context, event domain.Event) {
	if !p.enabled {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event", "type", event.Type, "error", err)
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Shop),
		Value: value,
	}); err != nil {
		p.logger.Error("publish event", "type", event.Type, "error", err)
	}
}

// Close shuts down the Kafka writer.
func (p *EventProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
