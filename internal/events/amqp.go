package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPOutput publishes to a topic exchange, using the event topic as the
// routing key.
type AMQPOutput struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	timeout  time.Duration
}

func NewAMQPOutput(url, exchange string) (*AMQPOutput, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPOutput{conn: conn, ch: ch, exchange: exchange, timeout: 5 * time.Second}, nil
}

func (a *AMQPOutput) WriteMessage(topic string, msg []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch == nil {
		return fmt.Errorf("amqp channel is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	err := a.ch.PublishWithContext(ctx, a.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (a *AMQPOutput) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch != nil {
		_ = a.ch.Close()
		a.ch = nil
	}
	if a.conn != nil {
		err := a.conn.Close()
		a.conn = nil
		return err
	}
	return nil
}
