package events

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const kafkaMaxAttempts = 16

// KafkaSink publishes every event envelope to a Kafka topic for off-chain
// consumers. Each message carries a fresh uuid key and the JSON envelope as
// its value.
type KafkaSink struct {
	writer *kafka.Writer

	timeout time.Duration
}

func NewKafkaSink(
	brokerEndpoint,
	topic string,
	tlsConfig *tls.Config,
	producerCreds *plain.Mechanism,
	timeout time.Duration,
) *KafkaSink {
	transport := &kafka.Transport{
		Dial: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		TLS: tlsConfig,
	}
	if producerCreds != nil {
		transport.SASL = producerCreds
	}

	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokerEndpoint),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			MaxAttempts:  kafkaMaxAttempts,
			BatchTimeout: timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			Transport:    transport,
		},
		timeout: timeout,
	}
}

func (s *KafkaSink) Publish(event *EventLog) error {
	value, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Event, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(uuid.New().String()),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to WriteMessages: %w", err)
	}

	return nil
}

func (s *KafkaSink) Close() error {
	if s.writer != nil {
		if err := s.writer.Close(); err != nil {
			return fmt.Errorf("failed to Close writer: %w", err)
		}
	}
	return nil
}
