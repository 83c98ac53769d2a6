package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

type KafkaOutput struct {
	producer sarama.SyncProducer
}

func NewKafkaOutput(brokerList string, logger zerolog.Logger) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokers := strings.Split(brokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	logger.Info().Strs("brokers", brokers).Msg("kafka producer created")
	return newKafkaOutput(producer), nil
}

func newKafkaOutput(producer sarama.SyncProducer) *KafkaOutput {
	return &KafkaOutput{producer: producer}
}

func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	return k.WriteKeyedMessage(topic, "", msg)
}

// WriteKeyedMessage keys the message so every event of one order lands on
// the same partition.
func (k *KafkaOutput) WriteKeyedMessage(topic, key string, msg []byte) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}
	pm := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	}
	if key != "" {
		pm.Key = sarama.StringEncoder(key)
	}
	if _, _, err := k.producer.SendMessage(pm); err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
