package broadcast

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

const subscriberBuffer = 100

// Hub is an in-memory implementation of [Publisher].
//
// Subscribers receive snapshots via buffered channels (buffer size 100).
// Snapshots are sent non-blocking; if a subscriber's buffer is full, the
// snapshot is dropped for that subscriber.
type Hub struct {
	mu          sync.RWMutex
	latest      map[string]Snapshot
	subscribers map[chan Snapshot]struct{}
	subMu       sync.RWMutex
	now         func() time.Time
}

// NewHub creates a new [Hub].
func NewHub() *Hub {
	return &Hub{
		latest:      make(map[string]Snapshot),
		subscribers: make(map[chan Snapshot]struct{}),
		now:         time.Now,
	}
}

// Publish encodes v, records it as the latest snapshot for topic and sends it
// to all subscribers.
//
// Returns an error if v cannot be encoded; nothing is published in that case.
func (h *Hub) Publish(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", topic, err)
	}

	h.mu.Lock()
	snap := Snapshot{
		Topic: topic,
		Seq:   h.latest[topic].Seq + 1,
		Data:  data,
		At:    h.now(),
	}
	h.latest[topic] = snap
	h.mu.Unlock()

	h.notifySubscribers(snap)
	return nil
}

// Latest returns a copy of the most recent snapshot of every topic, sorted by
// topic name.
func (h *Hub) Latest() []Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(h.latest))
	for _, s := range h.latest {
		snaps = append(snaps, s)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Topic < snaps[j].Topic })
	return snaps
}

// Subscribe creates a new subscription and returns a channel for receiving
// snapshots.
//
// Caller must call [Hub.Unsubscribe] when done to prevent resource leaks.
func (h *Hub) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, subscriberBuffer)

	h.subMu.Lock()
	h.subscribers[ch] = struct{}{}
	h.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (h *Hub) Unsubscribe(ch <-chan Snapshot) {
	h.subMu.Lock()
	defer h.subMu.Unlock()

	for subCh := range h.subscribers {
		if subCh == ch {
			delete(h.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the snapshot to all active subscribers without
// blocking.
func (h *Hub) notifySubscribers(snap Snapshot) {
	h.subMu.RLock()
	defer h.subMu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- snap:
		default:
			// subscriber is slow, drop the snapshot
		}
	}
}
