package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/segmentio/kafka-go"
)

func TestEventJSON(t *testing.T) {
	e := Event{
		Type:          TypeCreated,
		DocumentID:    "d1",
		Tenant:        "acme",
		ContainerKind: "datasets",
		ContainerID:   "ds1",
		Enabled:       true,
		Timestamp:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"type":"qa_document.created","documentId":"d1","tenant":"acme","containerKind":"datasets","containerId":"ds1","enabled":true,"timestamp":"2024-01-01T00:00:00Z"}`
	if string(b) != expected {
		t.Errorf("expected %s, got %s", expected, b)
	}
}

func TestKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "qa_documents_test"
	conn, err := kafka.DialLeader(ctx, "tcp", "localhost:9092", topic, 0)
	if err != nil {
		t.Fatalf("failed to dial kafka: %v", err)
	}
	defer conn.Close()
	offset, err := conn.ReadLastOffset()
	if err != nil {
		t.Fatalf("failed to read offset: %v", err)
	}

	p := NewKafka([]string{"localhost:9092"}, topic)
	defer p.Close()
	expected := Event{Type: TypeDeleted, DocumentID: "d1", Tenant: "acme", ContainerKind: "apps", ContainerID: "a1", Timestamp: time.Now().UTC().Truncate(time.Millisecond)}
	if err = p.Publish(ctx, expected); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: []string{"localhost:9092"}, Topic: topic, Partition: 0})
	defer r.Close()
	if err = r.SetOffset(offset); err != nil {
		t.Fatalf("failed to set offset: %v", err)
	}
	msg, err := r.ReadMessage(ctx)
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	if string(msg.Key) != "d1" {
		t.Errorf("expected key d1, got %q", msg.Key)
	}
	var actual Event
	if err = json.Unmarshal(msg.Value, &actual); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Error(diff)
	}
}
