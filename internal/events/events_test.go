package events

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var at = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleOrder() models.Order {
	return models.Order{
		ID:           "o-1",
		CustomerName: "Alice",
		Status:       models.OrderStatusInProgress,
		Total:        decimal.RequireFromString("9.00"),
		Items: []models.CartItem{{
			MenuItem: models.MenuItem{ID: 2, Name: "Latte", Price: decimal.RequireFromString("4.50")},
			Quantity: 2,
		}},
		CreatedAt: at,
	}
}

type recordingSink struct {
	topics []string
	msgs   [][]byte
	err    error
	closed bool
}

func (r *recordingSink) WriteMessage(topic string, msg []byte) error {
	r.topics = append(r.topics, topic)
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}

func TestPublisher(t *testing.T) {
	t.Run("status change event", func(t *testing.T) {
		sink := &recordingSink{}
		p := NewPublisher(sink, zerolog.Nop())
		p.StatusChanged(sampleOrder(), models.OrderStatusPending, at)

		if len(sink.topics) != 1 || sink.topics[0] != models.TopicOrderStatus {
			t.Fatalf("expected one status event, got %v", sink.topics)
		}
		var ev OrderEvent
		if err := json.Unmarshal(sink.msgs[0], &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.OldStatus != "Pending" || ev.NewStatus != "In Progress" {
			t.Fatalf("unexpected statuses %s -> %s", ev.OldStatus, ev.NewStatus)
		}
		if ev.EventID == "" || ev.Timestamp != at.UnixMilli() || ev.ItemCount != 2 {
			t.Fatalf("unexpected event %+v", ev)
		}
		if !ev.TotalAmount.Equal(decimal.RequireFromString("9")) {
			t.Fatalf("expected total 9, got %s", ev.TotalAmount)
		}
	})

	t.Run("sink failures are swallowed and logged", func(t *testing.T) {
		var logs bytes.Buffer
		sink := &recordingSink{err: errors.New("broker down")}
		p := NewPublisher(sink, zerolog.New(&logs))
		p.OrderPlaced(sampleOrder(), at)
		if !strings.Contains(logs.String(), "broker down") {
			t.Fatalf("expected failure to be logged, got %q", logs.String())
		}
	})

	t.Run("menu event", func(t *testing.T) {
		sink := &recordingSink{}
		p := NewPublisher(sink, zerolog.Nop())
		p.MenuChanged(models.EventDeleteMenuItem, models.MenuItem{ID: 7, Name: "Chocolate Cake"}, at)
		if sink.topics[0] != models.TopicMenu {
			t.Fatalf("expected menu topic, got %s", sink.topics[0])
		}
	})
}

func TestJSONOutput(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir)
	p := NewPublisher(out, zerolog.Nop())
	p.OrderPlaced(sampleOrder(), at)
	p.StatusChanged(sampleOrder(), models.OrderStatusPending, at)
	p.StatusChanged(sampleOrder(), models.OrderStatusPending, at)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := filepath.Join(dir, models.TopicOrderStatus, "year=2025/month=03/day=01", "data.json")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("expected partition file: %v", err)
	}
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}

	if err := NewJSONOutput(dir).WriteMessage("x", []byte(`{"timestamp":0}`)); err == nil {
		t.Fatalf("expected error for missing timestamp")
	}
}

func TestCSVOutput(t *testing.T) {
	dir := t.TempDir()
	out := NewCSVOutput(dir)
	p := NewPublisher(out, zerolog.Nop())
	p.StatusChanged(sampleOrder(), models.OrderStatusPending, at)
	p.StatusChanged(sampleOrder(), models.OrderStatusPending, at)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := filepath.Join(dir, models.TopicOrderStatus, "year=2025/month=03/day=01", "data.csv")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("expected partition file: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected a header and 2 rows, got %d records", len(records))
	}
	col := -1
	for i, h := range records[0] {
		if h == "orderId" {
			col = i
		}
	}
	if col < 0 {
		t.Fatalf("expected an orderId column in %v", records[0])
	}
	for _, row := range records[1:] {
		if row[col] != "o-1" {
			t.Fatalf("expected orderId o-1, got %q", row[col])
		}
	}

	if err := NewCSVOutput(dir).WriteMessage("x", []byte(`{"timestamp":0}`)); err == nil {
		t.Fatalf("expected error for missing timestamp")
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleOutput(&buf)
	if err := c.WriteMessage("menu_events", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "[menu_events] {\"a\":1}\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestKafkaOutput(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != models.TopicOrderPlaced {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil || string(key) != "o-1" {
			return errors.New("expected order id as key")
		}
		return nil
	})

	out := newKafkaOutput(producer)
	NewPublisher(out, zerolog.Nop()).OrderPlaced(sampleOrder(), at)
	if err := out.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := out.WriteMessage("t", []byte("{}")); err == nil {
		t.Fatalf("expected error after close")
	}
}

func TestMulti(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{err: errors.New("nope")}
	m := Multi{a, b}
	err := m.WriteMessage("t", []byte("{}"))
	if err == nil || len(a.msgs) != 1 || len(b.msgs) != 1 {
		t.Fatalf("expected every sink to be written and the failure reported")
	}
	m.Close()
	if !a.closed || !b.closed {
		t.Fatalf("expected every sink closed")
	}
}

func TestOpen(t *testing.T) {
	sink, err := Open(models.EventsConfig{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := sink.(NoopOutput); !ok {
		t.Fatalf("expected noop sink, got %T", sink)
	}

	sink, err = Open(models.EventsConfig{Sinks: []string{"console", "json", "csv"}, OutputFolder: t.TempDir()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if m, ok := sink.(Multi); !ok || len(m) != 3 {
		t.Fatalf("expected three sinks, got %T", sink)
	}

	if _, err := Open(models.EventsConfig{Sinks: []string{"carrier-pigeon"}}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown sink")
	}
}
