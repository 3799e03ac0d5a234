package statebox

// Observer receives store lifecycle events. Implementations must be cheap
// and must not mutate the store. Hooks run on the mutating goroutine after
// the store lock has been released.
//
// internal/metrics provides a Prometheus implementation.
type Observer interface {
	// MutationApplied is called after a new state has been installed.
	MutationApplied(store string)

	// MutationSkipped is called when an update returned the current state.
	MutationSkipped(store string)

	// MutationFailed is called when an update function returned an error.
	MutationFailed(store string)

	// MutationQueued is called when an update is deferred until the running
	// notification pass has finished.
	MutationQueued(store string)

	// MutationRejected is called when an update is refused with
	// ErrReentrantMutation.
	MutationRejected(store string)

	// Notified is called once per subscriber callback invocation.
	Notified(store string)
}

type nopObserver struct{}

func (nopObserver) MutationApplied(string)  {}
func (nopObserver) MutationSkipped(string)  {}
func (nopObserver) MutationFailed(string)   {}
func (nopObserver) MutationQueued(string)   {}
func (nopObserver) MutationRejected(string) {}
func (nopObserver) Notified(string)         {}
