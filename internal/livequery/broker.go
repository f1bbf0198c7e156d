// Package livequery is the change-notification side of the store: every
// mutation publishes the names of the tables it touched, and subscribers
// re-run their queries when one of their tables fires. Delivery is
// at-least-once and coalescing; a slow subscriber sees fewer wakeups, never
// a blocked writer.
package livequery

import "sync"

type Broker struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*Subscription
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int64]*Subscription)}
}

type Subscription struct {
	id     int64
	broker *Broker
	tables map[string]struct{}

	// C fires after a write commits on one of the subscribed tables. The
	// channel carries no payload; the subscriber re-queries.
	C chan struct{}
}

// Subscribe registers interest in the given tables. With no tables the
// subscription fires on every write.
func (b *Broker) Subscribe(tables ...string) *Subscription {
	s := &Subscription{
		broker: b,
		tables: make(map[string]struct{}, len(tables)),
		C:      make(chan struct{}, 1),
	}
	for _, t := range tables {
		s.tables[t] = struct{}{}
	}

	b.mu.Lock()
	b.nextID++
	s.id = b.nextID
	b.subs[s.id] = s
	b.mu.Unlock()
	return s
}

// Publish wakes every subscription watching one of the tables. Writes commit
// first, then Publish runs; it never blocks the writer.
func (b *Broker) Publish(tables ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if !s.matches(tables) {
			continue
		}
		select {
		case s.C <- struct{}{}:
		default: // a wakeup is already pending, coalesce
		}
	}
}

func (b *Broker) Close(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s.id)
	b.mu.Unlock()
}

func (s *Subscription) Close() { s.broker.Close(s) }

func (s *Subscription) matches(tables []string) bool {
	if len(s.tables) == 0 {
		return true
	}
	for _, t := range tables {
		if _, ok := s.tables[t]; ok {
			return true
		}
	}
	return false
}

// Subscribers reports the current number of subscriptions, for metrics.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
