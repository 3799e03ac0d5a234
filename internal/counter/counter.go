// Package counter holds two independent counters and a derived total.
//
// It is the smallest useful example of selector-scoped notification: a
// subscriber of [SelectTotal] is not told about an increment of one counter
// that is cancelled out by a change of the other in the same update.
package counter

import (
	"fmt"

	"github.com/jpalmerr/statebox"
)

// State is the counter state. It is a small value type, so the store
// compares states by value.
type State struct {
	Count1 int `json:"count1"`
	Count2 int `json:"count2"`
}

// SelectCount1 selects the first counter.
func SelectCount1(s State) int { return s.Count1 }

// SelectCount2 selects the second counter.
func SelectCount2(s State) int { return s.Count2 }

// SelectTotal derives the sum of both counters.
var SelectTotal = statebox.Combine(SelectCount1, SelectCount2, func(a, b int) int {
	return a + b
})

// Store wraps a [statebox.Store] with the counter actions.
type Store struct {
	st *statebox.Store[State]
}

// New creates a counter store starting at initial.
func New(initial State, opts ...statebox.Option) (*Store, error) {
	st, err := statebox.New(initial, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{st: st}, nil
}

// Store returns the underlying store for subscriptions.
func (s *Store) Store() *statebox.Store[State] {
	return s.st
}

// State returns the current counter values.
func (s *Store) State() State {
	return s.st.GetState()
}

// Inc1 increments the first counter.
func (s *Store) Inc1() error {
	return s.st.Update(func(prev State) State {
		prev.Count1++
		return prev
	})
}

// Inc2 increments the second counter.
func (s *Store) Inc2() error {
	return s.st.Update(func(prev State) State {
		prev.Count2++
		return prev
	})
}

// Increment increments counter n, which must be 1 or 2.
func (s *Store) Increment(n int) error {
	switch n {
	case 1:
		return s.Inc1()
	case 2:
		return s.Inc2()
	default:
		return fmt.Errorf("unknown counter %d (expected 1 or 2)", n)
	}
}

// Set replaces both counters in a single update.
func (s *Store) Set(next State) error {
	return s.st.Update(func(State) State { return next })
}
