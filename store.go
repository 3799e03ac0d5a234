package statebox

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

const defaultStoreName = "store"

// Store is an observable container for a single immutable state value.
//
// The state is replaced wholesale on every mutation: update functions
// receive the current value and return a new one, and the store never
// mutates a value it has handed out. Change is detected with ==, so S is
// normally a pointer to a state struct (identity comparison) or a small
// comparable value such as a struct of counters (value comparison). S must
// not be an interface type holding an incomparable dynamic value.
//
// A Store is safe for concurrent use. Mutations are serialised: while one
// goroutine is applying an update and notifying subscribers, any other
// [Store.SetState] call is handled according to the store's [Reentrancy]
// policy. Update functions, selectors and callbacks run without the store
// lock held, so they may call [Store.GetState], [Subscribe] and
// [Store.Unsubscribe].
type Store[S comparable] struct {
	name       string
	logger     *slog.Logger
	reentrancy Reentrancy
	observer   Observer

	mu     sync.Mutex
	state  S
	subs   []*subscriber[S]
	nextID uint64
	// busy is set while a goroutine owns the mutation pass.
	busy  bool
	queue []func(S) (S, error)
}

// subscriber is a registered selector/callback pair. notify reports whether
// the callback was invoked.
type subscriber[S any] struct {
	id      uint64
	removed atomic.Bool
	notify  func(prev, next S) bool
}

// Subscription identifies a registration made with [Subscribe],
// [SubscribeFunc] or [Store.Watch]. The zero value is valid and
// unsubscribing it is a no-op.
type Subscription struct {
	owner any
	id    uint64
}

// New creates a [Store] holding initial.
//
// Returns an error if any option is invalid.
//
// Example:
//
//	st, err := statebox.New(&State{},
//	    statebox.WithName("todos"),
//	    statebox.WithLogger(logger),
//	)
func New[S comparable](initial S, opts ...Option) (*Store[S], error) {
	cfg := &storeConfig{
		name:       defaultStoreName,
		reentrancy: ReentrancyQueue,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := cfg.observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &Store[S]{
		name:       cfg.name,
		logger:     logger,
		reentrancy: cfg.reentrancy,
		observer:   observer,
		state:      initial,
	}, nil
}

// Name returns the store name set with [WithName].
func (s *Store[S]) Name() string {
	return s.name
}

// GetState returns the current state.
//
// The returned value must be treated as read-only; change it only through
// [Store.SetState].
func (s *Store[S]) GetState() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Len returns the number of active subscriptions.
func (s *Store[S]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// SetState computes the next state with fn and installs it.
//
// If fn returns an error, the error is returned unchanged and the state is
// left as it was. If fn returns the current state, nothing happens. Otherwise
// the new state is installed and every subscription registered before the
// call is checked, in registration order, before SetState returns.
//
// When called while another mutation pass is running (from a subscriber
// callback, from fn itself, or from another goroutine), SetState either
// queues fn and returns nil ([ReentrancyQueue]) or returns
// [ErrReentrantMutation] ([ReentrancyReject]). Queued updates are applied by
// the goroutine owning the pass; their failures are logged and returned from
// that goroutine's SetState call wrapped in [ErrQueuedUpdate].
//
// The store cannot tell a callback on the mutating goroutine from a call on
// another goroutine, so a concurrent caller that arrives during a pass is
// handled by the same policy: with [ReentrancyQueue] it gets nil before its
// fn has run and the fn's error goes to the goroutine owning the pass; with
// [ReentrancyReject] it gets [ErrReentrantMutation]. Callers that need the
// outcome of their own update must serialise their mutations, as
// internal/server does with a mutex.
//
// A panic in fn, a selector or a callback propagates to the caller. State
// installed before the panic stays installed and any queued updates are
// discarded.
func (s *Store[S]) SetState(fn func(S) (S, error)) error {
	if fn == nil {
		return ErrNilUpdate
	}

	s.mu.Lock()
	if s.busy {
		if s.reentrancy == ReentrancyReject {
			s.mu.Unlock()
			s.observer.MutationRejected(s.name)
			return ErrReentrantMutation
		}
		s.queue = append(s.queue, fn)
		s.mu.Unlock()
		s.observer.MutationQueued(s.name)
		return nil
	}
	s.busy = true
	s.mu.Unlock()

	completed := false
	defer func() {
		if completed {
			return
		}
		s.mu.Lock()
		dropped := len(s.queue)
		s.queue = nil
		s.busy = false
		s.mu.Unlock()
		if dropped > 0 {
			s.logger.Warn("queued updates dropped after panic", "store", s.name, "dropped", dropped)
		}
	}()

	err := s.apply(fn)

	var failed []error
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.busy = false
			s.mu.Unlock()
			break
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if qerr := s.apply(next); qerr != nil {
			s.logger.Warn("queued update failed", "store", s.name, "error", qerr)
			failed = append(failed, qerr)
		}
	}
	completed = true

	if len(failed) > 0 {
		return errors.Join(err, fmt.Errorf("%w: %w", ErrQueuedUpdate, errors.Join(failed...)))
	}
	return err
}

// Update is [Store.SetState] for update functions that cannot fail.
//
// The only errors it can return are [ErrReentrantMutation] and failures of
// queued updates.
func (s *Store[S]) Update(fn func(S) S) error {
	if fn == nil {
		return ErrNilUpdate
	}
	return s.SetState(func(prev S) (S, error) {
		return fn(prev), nil
	})
}

// apply runs one update and notifies subscribers. The caller must own the
// mutation pass.
func (s *Store[S]) apply(fn func(S) (S, error)) error {
	s.mu.Lock()
	prev := s.state
	s.mu.Unlock()

	next, err := fn(prev)
	if err != nil {
		s.observer.MutationFailed(s.name)
		return err
	}
	if next == prev {
		s.observer.MutationSkipped(s.name)
		s.logger.Debug("state unchanged", "store", s.name)
		return nil
	}

	s.mu.Lock()
	s.state = next
	// snapshot so callbacks can subscribe and unsubscribe freely
	subs := make([]*subscriber[S], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.observer.MutationApplied(s.name)
	s.logger.Debug("state replaced", "store", s.name, "subscribers", len(subs))

	for _, sub := range subs {
		if sub.removed.Load() {
			continue
		}
		if sub.notify(prev, next) {
			s.observer.Notified(s.name)
		}
	}
	return nil
}

// Watch registers callback for every change of the root state.
func (s *Store[S]) Watch(callback func(next, prev S)) Subscription {
	return Subscribe(s, Identity[S](), callback)
}

// Unsubscribe removes a subscription. It is safe to call more than once, with
// the zero [Subscription], or with a subscription from another store.
//
// A subscription removed while a notification pass is running is not
// invoked for the rest of that pass.
func (s *Store[S]) Unsubscribe(sub Subscription) {
	if sub.owner != any(s) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.subs {
		if existing.id == sub.id {
			existing.removed.Store(true)
			// keep registration order for the remaining subscribers
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Subscribe registers callback to be called whenever the value produced by
// selector changes. Values are compared with ==.
//
// The selector runs on the state current at registration time to seed the
// comparison, and then once per applied mutation. callback receives the new
// and the previous selected value.
//
// Example:
//
//	sub := statebox.Subscribe(st, selectTotal, func(total, _ int) {
//	    fmt.Println("total:", total)
//	})
//	defer st.Unsubscribe(sub)
func Subscribe[S comparable, T comparable](st *Store[S], selector Selector[S, T], callback func(next, prev T)) Subscription {
	return SubscribeFunc(st, selector, func(a, b T) bool { return a == b }, callback)
}

// SubscribeFunc is like [Subscribe] but compares selected values with equal.
// Use it for selectors that return slices, maps or other values that are
// not comparable with ==.
func SubscribeFunc[S comparable, T any](st *Store[S], selector Selector[S, T], equal func(a, b T) bool, callback func(next, prev T)) Subscription {
	st.mu.Lock()
	defer st.mu.Unlock()

	last := selector(st.state)
	st.nextID++
	sub := &subscriber[S]{id: st.nextID}
	sub.notify = func(_, next S) bool {
		v := selector(next)
		if equal(last, v) {
			return false
		}
		prev := last
		last = v
		callback(v, prev)
		return true
	}
	st.subs = append(st.subs, sub)

	return Subscription{owner: st, id: sub.id}
}
