package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type Type string

const (
	TypeCreated Type = "qa_document.created"
	TypeUpdated Type = "qa_document.updated"
	TypeDeleted Type = "qa_document.deleted"
)

// Event describes a change to a QA document.
type Event struct {
	Type          Type      `json:"type"`
	DocumentID    string    `json:"documentId"`
	Tenant        string    `json:"tenant"`
	ContainerKind string    `json:"containerKind"`
	ContainerID   string    `json:"containerId"`
	Enabled       bool      `json:"enabled"`
	Timestamp     time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

// Kafka publishes events keyed by document ID, so that changes to a single
// document land on the same partition.
type Kafka struct {
	writer *kafka.Writer
}

func (k *Kafka) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.DocumentID),
		Value: value,
		Time:  event.Timestamp,
	})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Noop discards events. It is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, event Event) error { return nil }
func (Noop) Close() error                                  { return nil }
