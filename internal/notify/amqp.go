package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange              = "shop.events"
	CheckoutCompletedRoutingKey = "checkout.completed.v1"
	publishTimeout              = 3 * time.Second
)

// amqpChannel is the part of *amqp.Channel the sink needs.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSink publishes events to a durable topic exchange.
type AMQPSink struct {
	ch amqpChannel
}

func NewAMQPSink(conn *amqp.Connection) (*AMQPSink, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return newAMQPSink(ch)
}

func newAMQPSink(ch amqpChannel) (*AMQPSink, error) {
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &AMQPSink{ch: ch}, nil
}

func (s *AMQPSink) Name() string { return "amqp" }

func (s *AMQPSink) Deliver(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Name, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return s.ch.PublishWithContext(pubCtx, EventsExchange, routingKey(e.Name), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
}

func routingKey(eventName string) string {
	if eventName == EventCheckoutCompleted {
		return CheckoutCompletedRoutingKey
	}
	return eventName + ".v1"
}

func (s *AMQPSink) Close() error {
	return s.ch.Close()
}
