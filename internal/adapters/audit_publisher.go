package adapters

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// AuditEvent records an administrative action on a record. Hard deletes are
// irreversible, so the event stream is the only durable trace of them.
type AuditEvent struct {
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	RecordID string    `json:"record_id"`
	ActorID  string    `json:"actor_id"`
	At       time.Time `json:"at"`
}

// AuditPublisher delivers audit events to an external sink.
type AuditPublisher interface {
	Publish(ctx context.Context, ev AuditEvent) error
	Close() error
}

// KafkaAuditPublisher writes audit events to a Kafka topic.
type KafkaAuditPublisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

var _ AuditPublisher = (*KafkaAuditPublisher)(nil)

func NewKafkaAuditPublisher(broker, topic string, logger *logrus.Logger) *KafkaAuditPublisher {
	return &KafkaAuditPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (p *KafkaAuditPublisher) Publish(ctx context.Context, ev AuditEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Entity + ":" + ev.RecordID),
		Value: value,
		Time:  ev.At,
	})
	if err != nil {
		p.logger.WithError(err).Error("kafka audit publish failed")
	}
	return err
}

func (p *KafkaAuditPublisher) Close() error {
	return p.writer.Close()
}

// MemoryAuditPublisher buffers events in memory. Used by tests and as the
// fallback when no broker is configured.
type MemoryAuditPublisher struct {
	mu     sync.Mutex
	events []AuditEvent
}

var _ AuditPublisher = (*MemoryAuditPublisher)(nil)

func NewMemoryAuditPublisher() *MemoryAuditPublisher {
	return &MemoryAuditPublisher{}
}

func (p *MemoryAuditPublisher) Publish(_ context.Context, ev AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryAuditPublisher) Events() []AuditEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]AuditEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MemoryAuditPublisher) Close() error { return nil }
