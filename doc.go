// Package statebox provides an in-process, observable state container with
// immutable keyed collections and selector-scoped change notification.
//
// statebox follows the "single immutable state, replaced on every update"
// model: a [Store] owns one state value, update functions return a new value
// instead of editing the old one, and subscribers are only told about the
// slice of state they selected, and only when that slice changed.
//
// # Quick Start
//
//	type State struct {
//	    Count1, Count2 int
//	}
//
//	st, _ := statebox.New(State{})
//
//	total := statebox.Combine(
//	    func(s State) int { return s.Count1 },
//	    func(s State) int { return s.Count2 },
//	    func(a, b int) int { return a + b },
//	)
//	sub := statebox.Subscribe(st, total, func(next, prev int) {
//	    fmt.Println("total", prev, "->", next)
//	})
//	defer st.Unsubscribe(sub)
//
//	st.Update(func(s State) State {
//	    s.Count1++
//	    return s
//	})
//
// # Keyed Collections
//
// [RecordSet] is an ordered collection of records with unique keys. Its
// operations return new sets and keep every untouched record identical, so
// a subscriber holding a *Todo can tell by pointer comparison whether that
// particular record changed:
//
//	todos, err := todos.Insert(&Todo{ID: 1, Title: "buy milk"})
//	todos = todos.UpdateByID(1, func(t *Todo) *Todo {
//	    cp := *t
//	    cp.Done = !cp.Done
//	    return &cp
//	})
//	todos = todos.RemoveByID(1)
//
// # Notification Semantics
//
// Subscribers are notified synchronously, in registration order, from the
// goroutine that applied the mutation. Mutations issued while a notification
// pass is running are queued and applied after it (the default) or rejected
// with [ErrReentrantMutation], see [WithReentrancy].
//
// # Architecture
//
// Besides the library, the module ships a demo service under internal/:
//
//   - internal/todo: todo list store and the Atoms-in-Atom variant
//   - internal/counter: two counters with a derived total
//   - internal/broadcast: fan-out of state snapshots to streaming clients
//   - internal/server: HTTP API, Server-Sent Events and /metrics
//   - internal/metrics: Prometheus [Observer]
//
// config loads the service's YAML file and cmd/statebox is the binary. The
// internal packages are not part of the public API.
package statebox
