package broadcast

import (
	"encoding/json"
	"time"
)

// Snapshot is the encoded state of one topic at one point in time.
type Snapshot struct {
	// Topic names the store the state belongs to (e.g., "todos").
	Topic string `json:"topic"`

	// Seq increases by one for every snapshot published on the topic.
	Seq uint64 `json:"seq"`

	// Data is the JSON encoding of the state.
	Data json.RawMessage `json:"data"`

	// At is the publish time.
	At time.Time `json:"at"`
}

// Publisher defines publishing and subscribing to snapshots.
//
// Publisher implementations must be safe for concurrent access.
type Publisher interface {
	// Publish encodes v as the new snapshot for topic and delivers it to all
	// subscribers.
	Publish(topic string, v any) error

	// Latest returns the most recent snapshot of every topic, ordered by topic.
	Latest() []Snapshot

	// Subscribe returns a channel that receives snapshots.
	// The returned channel has a buffer; slow consumers may miss snapshots.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Snapshot

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Snapshot)
}
