package queue

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func documentEventsChannel(ownerID string) string {
	return "document:events:" + ownerID
}

var _ Broker = (*RedisBroker)(nil)

// RedisBroker shares the change feed between service instances over redis pub/sub.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (r *RedisBroker) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, documentEventsChannel(event.OwnerID), data).Err()
}

func (r *RedisBroker) Subscribe(ctx context.Context, ownerID string) (<-chan *Event, error) {
	pubsub := r.client.Subscribe(ctx, documentEventsChannel(ownerID))
	// wait for the subscription to be confirmed before returning
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to document events: %w", err)
	}

	out := make(chan *Event, subscriberBuffer)
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
				event := &Event{}
				if err := json.Unmarshal([]byte(msg.Payload), event); err != nil {
					logrus.Errorf("invalid document event on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- event:
				default:
					logrus.Warnf("dropping %s event for slow subscriber of %s", event.Kind, ownerID)
				}
			}
		}
	}()

	return out, nil
}

func (r *RedisBroker) Close() error {
	return nil
}
