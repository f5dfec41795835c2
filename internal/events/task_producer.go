package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// TaskProducer emits task-lifecycle events to Kafka. Publishing is
// best effort: callers log failures and move on, nothing is retried.
type TaskProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewTaskProducer(brokers []string, topic string) *TaskProducer {
	return &TaskProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			BatchSize:    1,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		topic: topic,
	}
}

func (p *TaskProducer) Publish(ctx context.Context, event *TaskEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: jsonData,
	})
	if err != nil {
		return fmt.Errorf("failed to send task event: %w", err)
	}

	return nil
}

func (p *TaskProducer) Close() error {
	return p.writer.Close()
}
