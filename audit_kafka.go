package adminkit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
)

// KafkaAuditSink publishes audit entries to a Kafka topic, keyed by target
// id so per-entity append order survives partitioning. It is write-only;
// combine it with a queryable primary sink via MultiSink.
type KafkaAuditSink struct {
	producer *kafka.Producer
	topic    string
	timeout  time.Duration
}

// NewKafkaAuditSink creates a sink producing to the given topic.
func NewKafkaAuditSink(bootstrapServers, topic string) (*KafkaAuditSink, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": bootstrapServers})
	if err != nil {
		return nil, fmt.Errorf("adminkit: create kafka producer: %w", err)
	}
	return &KafkaAuditSink{
		producer: p,
		topic:    topic,
		timeout:  10 * time.Second,
	}, nil
}

// Append implements AuditSink. It waits for broker acknowledgement so a
// reported success means the entry is durable.
func (s *KafkaAuditSink) Append(ctx context.Context, entry *AuditLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("adminkit: marshal audit entry: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)

	if err := s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.topic, Partition: kafka.PartitionAny},
		Key:            []byte(entry.TargetID),
		Value:          payload,
	}, deliveryChan); err != nil {
		return fmt.Errorf("adminkit: produce audit entry: %w", err)
	}

	select {
	case e := <-deliveryChan:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("adminkit: unexpected kafka event type %T", e)
		}
		if msg.TopicPartition.Error != nil {
			return fmt.Errorf("adminkit: audit delivery failed: %w", msg.TopicPartition.Error)
		}
		return nil
	case <-time.After(s.timeout):
		return fmt.Errorf("adminkit: audit delivery timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes and closes the underlying producer.
func (s *KafkaAuditSink) Close() {
	s.producer.Flush(int((15 * time.Second).Milliseconds()))
	s.producer.Close()
}

// MultiSink fans one audit entry out to several sinks. The first sink is the
// primary: its error is returned to the orchestrator. Failures of secondary
// sinks are logged only, so a dead fan-out target cannot mark a committed
// mutation as unaudited.
type MultiSink struct {
	primary   AuditSink
	secondary []AuditSink
	log       logrus.FieldLogger
}

// NewMultiSink creates a MultiSink. The primary sink should be the queryable
// store; secondaries are best-effort fan-outs.
func NewMultiSink(primary AuditSink, secondary ...AuditSink) *MultiSink {
	return &MultiSink{
		primary:   primary,
		secondary: secondary,
		log:       logrus.StandardLogger(),
	}
}

// Append implements AuditSink.
func (m *MultiSink) Append(ctx context.Context, entry *AuditLogEntry) error {
	err := m.primary.Append(ctx, entry)
	for _, sink := range m.secondary {
		if serr := sink.Append(ctx, entry); serr != nil {
			m.log.WithFields(logrus.Fields{
				"action":    entry.Action,
				"target_id": entry.TargetID,
			}).WithError(serr).Warn("secondary audit sink append failed")
		}
	}
	return err
}

// AuditLog implements AuditQuerier when the primary sink supports reads.
func (m *MultiSink) AuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditLogEntry, error) {
	querier, ok := m.primary.(AuditQuerier)
	if !ok {
		return nil, NewError(ErrStorage, "primary audit sink does not support queries")
	}
	return querier.AuditLog(ctx, filter)
}
