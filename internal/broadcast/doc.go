// Package broadcast fans out state snapshots to streaming clients.
//
// Store callbacks run synchronously on the mutating goroutine and must not
// block; HTTP clients read at their own pace. [Hub] sits between the two: a
// callback publishes an encoded [Snapshot] and every subscribed client
// receives it on a buffered channel.
//
// The main components are:
//
//   - [Publisher]: Interface defining publish and subscription operations
//   - [Hub]: In-memory implementation of Publisher
//   - [Snapshot]: An encoded state value for one topic
//
// Sends are non-blocking: a slow subscriber misses snapshots rather than
// stalling the store. Because every snapshot carries the full state of its
// topic, a client that missed some still converges on the next one.
package broadcast
