package statebox

import "errors"

// ErrDuplicateKey is returned when a record is inserted into a [RecordSet]
// that already holds a record with the same key.
//
// The returned error wraps ErrDuplicateKey together with the offending key,
// so callers should test for it with [errors.Is].
var ErrDuplicateKey = errors.New("statebox: duplicate key")

// ErrReentrantMutation is returned by [Store.SetState] when the store uses
// [ReentrancyReject] and a notification pass is already in progress.
var ErrReentrantMutation = errors.New("statebox: mutation during notification")

// ErrNilUpdate is returned when a nil update function is passed to
// [Store.SetState].
var ErrNilUpdate = errors.New("statebox: nil update function")

// ErrQueuedUpdate wraps failures of updates that were queued during a
// notification pass and applied afterwards by the goroutine that owned the
// pass.
var ErrQueuedUpdate = errors.New("statebox: queued update failed")
