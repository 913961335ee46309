package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const ChangesChannel = "stillhouse:changes"

type (
	changeMessage struct {
		UserID     string `json:"user_id"`
		Collection string `json:"collection"`
	}

	redisFanout struct {
		client  *redis.Client
		channel string
		logger  *zap.Logger
	}
)

func NewRedisFanout(client *redis.Client, logger *zap.Logger) Fanout {
	return &redisFanout{
		client:  client,
		channel: ChangesChannel,
		logger:  logger,
	}
}

func (f *redisFanout) Publish(ctx context.Context, userID, collection string) error {
	payload, err := json.Marshal(changeMessage{UserID: userID, Collection: collection})
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, f.channel, payload).Err()
}

func (f *redisFanout) Listen(ctx context.Context, deliver func(userID, collection string)) error {
	pubsub := f.client.Subscribe(ctx, f.channel)
	defer pubsub.Close()

	// wait for the subscription to be confirmed before reading
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", f.channel, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var change changeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				f.logger.Warn("dropping malformed change message", zap.Error(err))
				continue
			}
			deliver(change.UserID, change.Collection)
		}
	}
}
