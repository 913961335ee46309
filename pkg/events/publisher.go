package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultTopic = "production-logs"

type (
	// Publisher streams persisted production events to downstream consumers.
	Publisher interface {
		Publish(ctx context.Context, kind string, userID string, payload any) error
		Close() error
	}

	Message struct {
		Kind       string    `json:"kind"`
		UserID     string    `json:"user_id"`
		Log        any       `json:"log"`
		OccurredAt time.Time `json:"occurred_at"`
	}

	messageWriter interface {
		WriteMessages(ctx context.Context, msgs ...kafka.Message) error
		Close() error
	}

	kafkaPublisher struct {
		writer messageWriter
		logger *zap.Logger
	}

	noopPublisher struct{}
)

// NewPublisher returns a Kafka publisher for a comma separated broker list,
// or a publisher that drops events when brokers is empty.
func NewPublisher(brokers string, topic string, logger *zap.Logger) Publisher {
	if strings.TrimSpace(brokers) == "" {
		logger.Info("kafka brokers not configured, production events will not be published")
		return noopPublisher{}
	}
	if topic == "" {
		topic = DefaultTopic
	}

	addrs := strings.Split(brokers, ",")
	for i := range addrs {
		addrs[i] = strings.TrimSpace(addrs[i])
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           2 * time.Second,
	}
	logger.Info("kafka producer configured", zap.Strings("brokers", addrs), zap.String("topic", topic))

	return &kafkaPublisher{writer: writer, logger: logger}
}

func (p *kafkaPublisher) Publish(ctx context.Context, kind string, userID string, payload any) error {
	value, err := json.Marshal(Message{
		Kind:       kind,
		UserID:     userID,
		Log:        payload,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(userID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(kind)},
		},
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

func (noopPublisher) Publish(context.Context, string, string, any) error { return nil }

func (noopPublisher) Close() error { return nil }
