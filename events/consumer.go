package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Consumer is the read side of the event bus. Messages are consumed
// at most once by each group; there is no replay.
type Consumer interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// KafkaConsumer implements Consumer on a kafka.Reader.
type KafkaConsumer struct {
	reader *kafka.Reader
}

// NewKafkaConsumer creates a group consumer for one topic.
func NewKafkaConsumer(brokers []string, groupID, topic string) (*KafkaConsumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one broker")
	}
	if groupID == "" {
		return nil, fmt.Errorf("kafka consumer requires group id")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka consumer requires a topic")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	return &KafkaConsumer{reader: reader}, nil
}

// Next blocks until one message is available or ctx is done, and returns
// its payload.
func (c *KafkaConsumer) Next(ctx context.Context) ([]byte, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return nil, err
	}
	return msg.Value, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
