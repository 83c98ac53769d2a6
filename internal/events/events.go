// Package events publishes the cafe's order and menu changes to the
// configured sinks.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type OrderEvent struct {
	EventID      string          `json:"eventId"`
	EventType    string          `json:"eventType"`
	Timestamp    int64           `json:"timestamp"` // unix ms
	OrderID      string          `json:"orderId"`
	CustomerName string          `json:"customerName"`
	OldStatus    string          `json:"oldStatus,omitempty"`
	NewStatus    string          `json:"newStatus"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	ItemCount    int             `json:"itemCount"`
}

type MenuEvent struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	Timestamp int64           `json:"timestamp"`
	ItemID    int64           `json:"itemId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
}

// Publisher serializes cafe changes and hands them to a sink. Failures are
// logged and never returned to the caller.
type Publisher struct {
	sink   Sink
	logger zerolog.Logger
}

func NewPublisher(sink Sink, logger zerolog.Logger) *Publisher {
	if sink == nil {
		sink = NoopOutput{}
	}
	return &Publisher{sink: sink, logger: logger}
}

func (p *Publisher) OrderPlaced(order models.Order, at time.Time) {
	p.publish(models.TopicOrderPlaced, order.ID, OrderEvent{
		EventID:      uuid.NewString(),
		EventType:    models.EventPlaceOrder,
		Timestamp:    at.UnixMilli(),
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		NewStatus:    string(order.Status),
		TotalAmount:  order.Total,
		ItemCount:    order.ItemCount(),
	})
}

func (p *Publisher) StatusChanged(order models.Order, from models.OrderStatus, at time.Time) {
	p.publish(models.TopicOrderStatus, order.ID, OrderEvent{
		EventID:      uuid.NewString(),
		EventType:    models.EventUpdateStatus,
		Timestamp:    at.UnixMilli(),
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		OldStatus:    string(from),
		NewStatus:    string(order.Status),
		TotalAmount:  order.Total,
		ItemCount:    order.ItemCount(),
	})
}

func (p *Publisher) MenuChanged(eventType string, item models.MenuItem, at time.Time) {
	p.publish(models.TopicMenu, fmt.Sprint(item.ID), MenuEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: at.UnixMilli(),
		ItemID:    item.ID,
		Name:      item.Name,
		Category:  string(item.Category),
		Price:     item.Price,
	})
}

func (p *Publisher) publish(topic, key string, event interface{}) {
	msg, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("topic", topic).Msg("failed to serialize event")
		return
	}
	if ks, ok := p.sink.(keyedSink); ok {
		err = ks.WriteKeyedMessage(topic, key, msg)
	} else {
		err = p.sink.WriteMessage(topic, msg)
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("topic", topic).Str("key", key).Msg("failed to publish event")
	}
}

func (p *Publisher) Close() error {
	return p.sink.Close()
}

// Open builds the sink set named in cfg.Sinks. Already opened sinks are
// closed again if a later one fails.
func Open(cfg models.EventsConfig, logger zerolog.Logger) (Sink, error) {
	var sinks Multi
	for _, name := range cfg.Sinks {
		var (
			sink Sink
			err  error
		)
		switch name {
		case "", "none":
			continue
		case "console":
			sink = NewConsoleOutput(nil)
		case "json":
			sink = NewJSONOutput(cfg.OutputFolder)
		case "csv":
			sink = NewCSVOutput(cfg.OutputFolder)
		case "kafka":
			sink, err = NewKafkaOutput(cfg.KafkaBrokerList, logger)
		case "amqp":
			sink, err = NewAMQPOutput(cfg.AMQPURL, cfg.AMQPExchange)
		default:
			err = fmt.Errorf("unsupported event sink: %s", name)
		}
		if err != nil {
			sinks.Close()
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	switch len(sinks) {
	case 0:
		return NoopOutput{}, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}
