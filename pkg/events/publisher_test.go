package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherKeysByUser(t *testing.T) {
	w := &captureWriter{}
	p := &kafkaPublisher{writer: w, logger: zap.NewNop()}

	err := p.Publish(context.Background(), "bottling", "user-1", map[string]int{"bottled_amount": 36})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, []byte("user-1"), msg.Key)
	assert.Equal(t, "kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("bottling"), msg.Headers[0].Value)

	var decoded struct {
		Kind   string         `json:"kind"`
		UserID string         `json:"user_id"`
		Log    map[string]int `json:"log"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "bottling", decoded.Kind)
	assert.Equal(t, 36, decoded.Log["bottled_amount"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPublisherWithoutBrokersIsNoop(t *testing.T) {
	p := NewPublisher("  ", "", zap.NewNop())
	_, ok := p.(noopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), "distillation", "u", nil))
	assert.NoError(t, p.Close())
}
