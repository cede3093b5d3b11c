// Package events publishes marketplace domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "marketplace.events"

type Type string

const (
	InquiryCreated      Type = "inquiry.created"
	VerificationDecided Type = "verification.decided"
	PropertyReviewed    Type = "property.reviewed"
)

type Event struct {
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	TraceID    string      `json:"traceId,omitempty"`
	Payload    interface{} `json:"payload"`
}

func New(t Type, payload interface{}) Event {
	return Event{Type: t, OccurredAt: time.Now().UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// RabbitPublisher writes events to a durable topic exchange, routed by event type.
type RabbitPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func DialRabbit(url string, logger *slog.Logger) (*RabbitPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	logger.Info("connected to rabbitmq", "exchange", Exchange)
	return &RabbitPublisher{conn: conn, ch: ch, exchange: Exchange, logger: logger}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := encode(e)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.conn.IsClosed() {
		return fmt.Errorf("publish %s: connection closed", e.Type)
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, string(e.Type), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	p.logger.Debug("event published", "type", e.Type, "trace_id", e.TraceID)
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	if p.ch != nil {
		first = p.ch.Close()
		p.ch = nil
	}
	if err := p.conn.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

func encode(e Event) (amqp.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         string(e.Type),
		Body:         body,
		Headers:      amqp.Table{},
	}
	if e.TraceID != "" {
		msg.Headers["x-trace-id"] = e.TraceID
	}
	return msg, nil
}
