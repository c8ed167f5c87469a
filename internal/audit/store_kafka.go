package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"consentgate/pkg/platform/sentinel"
)

// producer is the slice of *kgo.Client the store depends on. Narrowing the
// dependency keeps the store testable with a stand-in producer.
type producer interface {
	ProduceSync(ctx context.Context, records ...*kgo.Record) kgo.ProduceResults
	Close()
}

// topicAdmin is the slice of *kadm.Client used to ensure the topic exists.
type topicAdmin interface {
	CreateTopics(ctx context.Context, partitions int32, replicationFactor int16, configs map[string]*string, topics ...string) (kadm.CreateTopicResponses, error)
}

// KafkaStore publishes audit events to a Kafka topic for downstream
// compliance consumers. It is a write-only sink: listing is served by the
// in-memory store that the publisher also appends to.
type KafkaStore struct {
	client producer
	topic  string
}

// NewKafkaStore connects to the brokers and ensures the topic exists.
func NewKafkaStore(ctx context.Context, brokers []string, topic string) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, kadm.NewClient(client), topic); err != nil {
		client.Close()
		return nil, err
	}

	return &KafkaStore{client: client, topic: topic}, nil
}

// ensureTopic creates the audit topic, tolerating a topic that already
// exists from a previous run.
func ensureTopic(ctx context.Context, admin topicAdmin, topic string) error {
	resp, err := admin.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, result := range resp.Sorted() {
		if result.Err != nil && !errors.Is(result.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %q: %w", result.Topic, result.Err)
		}
	}
	return nil
}

type kafkaPayload struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	VisitorID string `json:"visitor_id,omitempty"`
	Action    string `json:"action"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Device    string `json:"device,omitempty"`
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(kafkaPayload{
		ID:        event.ID,
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		VisitorID: event.VisitorID,
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		Detail:    event.Detail,
		Device:    event.Device,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Action),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (s *KafkaStore) List(_ context.Context) ([]Event, error) {
	return nil, sentinel.ErrUnavailable
}

// Close flushes and releases the underlying client.
func (s *KafkaStore) Close() {
	s.client.Close()
}
