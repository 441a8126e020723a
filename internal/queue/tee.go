package queue

import (
	"context"
	"errors"
)

var _ Broker = (*TeeBroker)(nil)

// TeeBroker subscribes through the primary broker and publishes to the primary
// broker and every extra publisher.
type TeeBroker struct {
	Broker
	extra []Publisher
}

func Tee(primary Broker, extra ...Publisher) *TeeBroker {
	return &TeeBroker{Broker: primary, extra: extra}
}

func (t *TeeBroker) Publish(ctx context.Context, event *Event) error {
	errs := []error{t.Broker.Publish(ctx, event)}
	for _, p := range t.extra {
		errs = append(errs, p.Publish(ctx, event))
	}

	return errors.Join(errs...)
}

func (t *TeeBroker) Close() error {
	errs := []error{t.Broker.Close()}
	for _, p := range t.extra {
		if c, ok := p.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
}
