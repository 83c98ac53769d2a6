package events

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Sink receives serialized events for a topic.
type Sink interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// keyedSink is implemented by sinks that can partition by a message key.
type keyedSink interface {
	WriteKeyedMessage(topic, key string, msg []byte) error
}

type NoopOutput struct{}

func (NoopOutput) WriteMessage(string, []byte) error { return nil }
func (NoopOutput) Close() error { return nil }

type ConsoleOutput struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{out: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// JSONOutput appends events as JSON lines under
// <basePath>/<topic>/year=YYYY/month=MM/day=DD/data.json.
type JSONOutput struct {
	mu       sync.Mutex
	basePath string
	files    map[string]*os.File
}

func NewJSONOutput(basePath string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	var header struct {
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(msg, &header); err != nil {
		return fmt.Errorf("invalid event payload: %w", err)
	}
	if header.Timestamp == 0 {
		return fmt.Errorf("invalid timestamp")
	}

	eventTime := time.UnixMilli(header.Timestamp).UTC()
	year, month, day := eventTime.Date()
	partitionPath := fmt.Sprintf("year=%d/month=%02d/day=%02d", year, month, day)
	fullPath := filepath.Join(j.basePath, topic, partitionPath)

	j.mu.Lock()
	defer j.mu.Unlock()

	fileKey := topic + "_" + partitionPath
	file, ok := j.files[fileKey]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		var err error
		file, err = os.OpenFile(filepath.Join(fullPath, "data.json"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open file for topic %s: %w", topic, err)
		}
		j.files[fileKey] = file
	}

	if _, err := file.Write(msg); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	_, err := file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	var result *multierror.Error
	for key, file := range j.files {
		if err := file.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		delete(j.files, key)
	}
	return result.ErrorOrNil()
}

// CSVOutput writes events as rows under
// <basePath>/<topic>/year=YYYY/month=MM/day=DD/data.csv. The first event of a
// file fixes its header from the event's sorted top-level keys.
type CSVOutput struct {
	mu       sync.Mutex
	basePath string
	files    map[string]*os.File
	writers  map[string]*csv.Writer
	headers  map[string][]string
}

func NewCSVOutput(basePath string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		files:    make(map[string]*os.File),
		writers:  make(map[string]*csv.Writer),
		headers:  make(map[string][]string),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&event); err != nil {
		return fmt.Errorf("invalid event payload: %w", err)
	}
	ts, ok := event["timestamp"].(json.Number)
	if !ok {
		return fmt.Errorf("invalid timestamp")
	}
	millis, err := ts.Int64()
	if err != nil || millis == 0 {
		return fmt.Errorf("invalid timestamp")
	}

	year, month, day := time.UnixMilli(millis).UTC().Date()
	partitionPath := fmt.Sprintf("year=%d/month=%02d/day=%02d", year, month, day)

	c.mu.Lock()
	defer c.mu.Unlock()

	fileKey := topic + "_" + partitionPath
	w, ok := c.writers[fileKey]
	if !ok {
		fullPath := filepath.Join(c.basePath, topic, partitionPath)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err := os.Create(filepath.Join(fullPath, "data.csv"))
		if err != nil {
			return fmt.Errorf("failed to open file for topic %s: %w", topic, err)
		}
		w = csv.NewWriter(file)
		headers := sortedFields(event)
		if err := w.Write(headers); err != nil {
			file.Close()
			return err
		}
		c.files[fileKey] = file
		c.writers[fileKey] = w
		c.headers[fileKey] = headers
	}

	headers := c.headers[fileKey]
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = csvCell(event[h])
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	w.Flush()
	return w.Error()
}

func (c *CSVOutput) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var result *multierror.Error
	for key, w := range c.writers {
		w.Flush()
		if err := w.Error(); err != nil {
			result = multierror.Append(result, err)
		}
		if err := c.files[key].Close(); err != nil {
			result = multierror.Append(result, err)
		}
		delete(c.writers, key)
		delete(c.files, key)
		delete(c.headers, key)
	}
	return result.ErrorOrNil()
}

func sortedFields(event map[string]interface{}) []string {
	fields := make([]string, 0, len(event))
	for k := range event {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// csvCell renders scalars as text and nested values as compact JSON.
func csvCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprint(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}

// Multi fans every message out to all sinks and reports every failure.
type Multi []Sink

func (m Multi) WriteMessage(topic string, msg []byte) error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.WriteMessage(topic, msg); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (m Multi) WriteKeyedMessage(topic, key string, msg []byte) error {
	var result *multierror.Error
	for _, s := range m {
		var err error
		if ks, ok := s.(keyedSink); ok {
			err = ks.WriteKeyedMessage(topic, key, msg)
		} else {
			err = s.WriteMessage(topic, msg)
		}
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (m Multi) Close() error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
