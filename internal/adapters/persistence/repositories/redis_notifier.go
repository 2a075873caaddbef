package repositories

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// DefaultSyncChannel is the pub/sub channel for change events
const DefaultSyncChannel = "hub:sync"

// RedisChangeNotifier shares change events between server instances
type RedisChangeNotifier struct {
	client  *redis.Client
	channel string
}

// NewRedisChangeNotifier creates a new Redis pub/sub notifier
func NewRedisChangeNotifier(client *redis.Client, channel string) *RedisChangeNotifier {
	if channel == "" {
		channel = DefaultSyncChannel
	}
	return &RedisChangeNotifier{client: client, channel: channel}
}

// Publish sends the event to every subscribed instance
func (n *RedisChangeNotifier) Publish(ctx context.Context, event ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channel, payload).Err()
}

// Subscribe relays channel messages until ctx is cancelled
func (n *RedisChangeNotifier) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	pubsub := n.client.Subscribe(ctx, n.channel)
	// Wait for the subscription to be confirmed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan ChangeEvent, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("⚠️ Dropping malformed change event: %v", err)
					continue
				}
				select {
				case out <- event:
				default:
				}
			}
		}
	}()

	return out, nil
}

// Close is a no-op; the client is owned by the caller
func (n *RedisChangeNotifier) Close() error {
	return nil
}
