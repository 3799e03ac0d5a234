package config

import (
	"fmt"

	"github.com/jpalmerr/statebox"
	"github.com/jpalmerr/statebox/internal/counter"
	"github.com/jpalmerr/statebox/internal/todo"
)

// StoreOptions returns the statebox options implied by the configuration.
// extra options are appended after them.
func StoreOptions(cfg *Config, extra ...statebox.Option) []statebox.Option {
	opts := []statebox.Option{
		statebox.WithReentrancy(cfg.ReentrancyPolicy()),
	}
	return append(opts, extra...)
}

// BuildTodoStore creates a todo store seeded with the configured todos.
//
// Seeded todos get ids 1..n in file order.
func BuildTodoStore(cfg *Config, opts ...statebox.Option) (*todo.Store, error) {
	opts = append(StoreOptions(cfg, opts...), statebox.WithName("todos"))

	s, err := todo.New(opts...)
	if err != nil {
		return nil, err
	}

	for i, tc := range cfg.Todos {
		id, err := s.AddTodo(tc.Title)
		if err != nil {
			return nil, fmt.Errorf("todos[%d]: %w", i, err)
		}
		if tc.Done {
			if err := s.ToggleTodo(id); err != nil {
				return nil, fmt.Errorf("todos[%d]: %w", i, err)
			}
		}
	}

	return s, nil
}

// BuildCounterStore creates a counter store starting at the configured
// values.
func BuildCounterStore(cfg *Config, opts ...statebox.Option) (*counter.Store, error) {
	opts = append(StoreOptions(cfg, opts...), statebox.WithName("counters"))

	return counter.New(counter.State{
		Count1: cfg.Counters.Count1,
		Count2: cfg.Counters.Count2,
	}, opts...)
}
