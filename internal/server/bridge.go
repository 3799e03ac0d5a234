package server

import (
	"log/slog"

	"github.com/jpalmerr/statebox"
	"github.com/jpalmerr/statebox/internal/broadcast"
	"github.com/jpalmerr/statebox/internal/counter"
	"github.com/jpalmerr/statebox/internal/todo"
)

// Snapshot topics published by [Bridge].
const (
	TopicTodos    = "todos"
	TopicCounters = "counters"
)

// Bridge publishes the current todos and counters to hub, then republishes
// whenever either changes. The returned function removes the subscriptions.
//
// Publishing runs inside store callbacks and never blocks: the hub drops
// snapshots for slow clients.
func Bridge(todos *todo.Store, counters *counter.Store, hub broadcast.Publisher, logger *slog.Logger) (stop func()) {
	publish := func(topic string, v any) {
		if err := hub.Publish(topic, v); err != nil {
			logger.Error("failed to publish snapshot", "topic", topic, "error", err)
		}
	}

	publish(TopicTodos, todos.Todos())
	publish(TopicCounters, newCountersResponse(counters.State()))

	todoSub := statebox.Subscribe(todos.Store(), todo.SelectTodos, func(next, _ *todo.List) {
		out := make([]todo.Todo, 0, next.Len())
		for _, t := range next.All() {
			out = append(out, *t)
		}
		publish(TopicTodos, out)
	})
	counterSub := counters.Store().Watch(func(next, _ counter.State) {
		publish(TopicCounters, newCountersResponse(next))
	})

	return func() {
		todos.Store().Unsubscribe(todoSub)
		counters.Store().Unsubscribe(counterSub)
	}
}
