package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// channelRulesChanged is the pub/sub channel carrying rule change events.
const channelRulesChanged = "rules:changed"

// ChangeNotifier broadcasts and receives rule change notifications over Redis
// pub/sub. Every API instance publishes on mutation and listens for changes
// made by its peers, so each instance's snapshot converges without polling.
type ChangeNotifier struct {
	client *redis.Client
}

// NewChangeNotifier creates a ChangeNotifier wrapping the given Redis client.
func NewChangeNotifier(client *redis.Client) *ChangeNotifier {
	return &ChangeNotifier{client: client}
}

// Publish broadcasts a change event ("created", "updated", "deactivated").
func (n *ChangeNotifier) Publish(ctx context.Context, event string) error {
	if err := n.client.Publish(ctx, channelRulesChanged, event).Err(); err != nil {
		return fmt.Errorf("publish rules change: %w", err)
	}
	return nil
}

// Listen subscribes to the change channel and invokes handler for every
// event. It blocks until ctx is cancelled.
func (n *ChangeNotifier) Listen(ctx context.Context, handler func(event string)) error {
	sub := n.client.Subscribe(ctx, channelRulesChanged)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handler(msg.Payload)
		}
	}
}
