package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"alfredoptarigan/resume-screener/internal/models"
)

const DefaultStatusExchange = "screening_updates"

// SessionEvent announces a screening session status change.
type SessionEvent struct {
	SessionID string               `json:"session_id"`
	Status    models.SessionStatus `json:"status"`
	FitCount  int                  `json:"fit_count"`
	Total     int                  `json:"total"`
	Error     string               `json:"error,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

type StatusPublisher interface {
	Publish(ctx context.Context, event SessionEvent) error
	Close() error
}

type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpPublisher struct {
	conn        *amqp.Connection
	openChannel func() (amqpChannel, error)
	exchange    string
}

// NewAMQPPublisher dials RabbitMQ and declares a topic exchange. Events are
// routed as "session.<id>".
func NewAMQPPublisher(url, exchange string) (StatusPublisher, error) {
	if exchange == "" {
		exchange = DefaultStatusExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &amqpPublisher{
		conn: conn,
		openChannel: func() (amqpChannel, error) {
			return conn.Channel()
		},
		exchange: exchange,
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event SessionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode session event: %w", err)
	}

	ch, err := p.openChannel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.Publish(
		p.exchange,
		"session."+event.SessionID,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	return nil
}

func (p *amqpPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

type nopPublisher struct{}

// NewNopPublisher is used when no broker is configured.
func NewNopPublisher() StatusPublisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, SessionEvent) error { return nil }
func (nopPublisher) Close() error                                 { return nil }
