package queue

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

const subscriberBuffer = 64

var _ Broker = (*MemoryBroker)(nil)

// MemoryBroker fans events out to the subscribers of this process.
// A subscriber that falls behind loses events rather than blocking publishers.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan *Event]struct{}
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[string]map[chan *Event]struct{}),
	}
}

func (m *MemoryBroker) Publish(ctx context.Context, event *Event) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for ch := range m.subs[event.OwnerID] {
		select {
		case ch <- event:
		default:
			logrus.Warnf("dropping %s event for slow subscriber of %s", event.Kind, event.OwnerID)
		}
	}

	return nil
}

func (m *MemoryBroker) Subscribe(ctx context.Context, ownerID string) (<-chan *Event, error) {
	ch := make(chan *Event, subscriberBuffer)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, nil
	}
	if m.subs[ownerID] == nil {
		m.subs[ownerID] = make(map[chan *Event]struct{})
	}
	m.subs[ownerID][ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.remove(ownerID, ch)
	}()

	return ch, nil
}

func (m *MemoryBroker) remove(ownerID string, ch chan *Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subs[ownerID][ch]; !ok {
		return
	}
	delete(m.subs[ownerID], ch)
	if len(m.subs[ownerID]) == 0 {
		delete(m.subs, ownerID)
	}
	close(ch)
}

func (m *MemoryBroker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ownerID, chans := range m.subs {
		for ch := range chans {
			close(ch)
		}
		delete(m.subs, ownerID)
	}
	m.closed = true

	return nil
}
