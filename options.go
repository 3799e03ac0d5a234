package statebox

import (
	"errors"
	"fmt"
	"log/slog"
)

// Reentrancy selects what [Store.SetState] does when it is called while a
// notification pass is running, either from a subscriber callback or from
// another goroutine.
type Reentrancy int

const (
	// ReentrancyQueue appends the update to the store's mutation queue. The
	// goroutine running the current pass applies queued updates in order
	// once every subscriber has seen the current state.
	ReentrancyQueue Reentrancy = iota

	// ReentrancyReject fails the call with [ErrReentrantMutation].
	ReentrancyReject
)

// String returns the policy name used in configuration files.
func (r Reentrancy) String() string {
	switch r {
	case ReentrancyQueue:
		return "queue"
	case ReentrancyReject:
		return "reject"
	default:
		return fmt.Sprintf("Reentrancy(%d)", int(r))
	}
}

// ParseReentrancy converts a policy name ("queue" or "reject") to a
// [Reentrancy] value. An empty name selects [ReentrancyQueue].
func ParseReentrancy(s string) (Reentrancy, error) {
	switch s {
	case "", "queue":
		return ReentrancyQueue, nil
	case "reject":
		return ReentrancyReject, nil
	default:
		return 0, fmt.Errorf("unknown reentrancy policy %q (expected 'queue' or 'reject')", s)
	}
}

// storeConfig holds mutable state during Store construction.
type storeConfig struct {
	name       string
	logger     *slog.Logger
	reentrancy Reentrancy
	observer   Observer
}

// Option is a function that configures a [Store] during construction.
//
// Option implements the functional options pattern. Options return an error
// if validation fails, which [New] passes back to the caller.
type Option func(*storeConfig) error

// WithName sets the store name used in log records and metric labels.
// Defaults to "store".
//
// Returns an error if the name is empty.
func WithName(name string) Option {
	return func(cfg *storeConfig) error {
		if name == "" {
			return errors.New("store name cannot be empty")
		}
		cfg.name = name
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the store.
//
// The store logs applied and skipped mutations at debug level and failures
// of queued updates at warn level. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithReentrancy sets the policy for mutations issued while subscribers are
// being notified. Defaults to [ReentrancyQueue].
func WithReentrancy(policy Reentrancy) Option {
	return func(cfg *storeConfig) error {
		if policy != ReentrancyQueue && policy != ReentrancyReject {
			return fmt.Errorf("invalid reentrancy policy: %d", int(policy))
		}
		cfg.reentrancy = policy
		return nil
	}
}

// WithObserver registers an [Observer] that is told about every mutation
// outcome and notification.
//
// Nil observers are silently ignored.
func WithObserver(o Observer) Option {
	return func(cfg *storeConfig) error {
		if o == nil {
			return nil
		}
		cfg.observer = o
		return nil
	}
}
