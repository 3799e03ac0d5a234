package todo

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/jpalmerr/statebox"
)

// ErrEmptyTitle is returned when adding a todo without a title.
var ErrEmptyTitle = errors.New("todo title cannot be empty")

// Todo is a single todo item. Todos are immutable once stored; updates
// replace the *Todo.
type Todo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Key implements [statebox.Keyed].
func (t *Todo) Key() int { return t.ID }

// List is the ordered set of todos.
type List = statebox.RecordSet[int, *Todo]

// State is the todo store state.
type State struct {
	Todos *List
}

// SelectTodos selects the todo set. The set is replaced on every change to
// the list, so the result can be compared with ==.
func SelectTodos(s *State) *List { return s.Todos }

// SelectCount selects the number of todos.
func SelectCount(s *State) int { return s.Todos.Len() }

// SelectRemaining selects the number of todos not yet done.
func SelectRemaining(s *State) int {
	n := 0
	for _, t := range s.Todos.All() {
		if !t.Done {
			n++
		}
	}
	return n
}

// Store wraps a [statebox.Store] with the todo actions.
//
// IDs are allocated per store, starting at 1, with no gaps.
type Store struct {
	st     *statebox.Store[*State]
	nextID atomic.Int64
}

// New creates an empty todo store.
func New(opts ...statebox.Option) (*Store, error) {
	st, err := statebox.New(&State{}, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{st: st}, nil
}

// Store returns the underlying store for subscriptions.
func (s *Store) Store() *statebox.Store[*State] {
	return s.st
}

// State returns the current state.
func (s *Store) State() *State {
	return s.st.GetState()
}

// Todos returns a copy of the current todos in order.
func (s *Store) Todos() []Todo {
	list := s.st.GetState().Todos
	out := make([]Todo, 0, list.Len())
	for _, t := range list.All() {
		out = append(out, *t)
	}
	return out
}

// Get returns the todo with the given id.
func (s *Store) Get(id int) (Todo, bool) {
	t, ok := s.st.GetState().Todos.Get(id)
	if !ok {
		return Todo{}, false
	}
	return *t, true
}

// AddTodo appends a new, not yet done todo and returns its id.
//
// The id is allocated inside the update, so rejected or failed adds do not
// consume one. If the store queues the update, AddTodo returns 0 unless the
// queued update has already been applied; the todo, with its id, appears
// once the running notification pass has finished.
func (s *Store) AddTodo(title string) (int, error) {
	if strings.TrimSpace(title) == "" {
		return 0, ErrEmptyTitle
	}

	var assigned atomic.Int64
	err := s.st.SetState(func(prev *State) (*State, error) {
		// updates of one store never run concurrently
		id := int(s.nextID.Load()) + 1
		todos, err := prev.Todos.Insert(&Todo{ID: id, Title: title})
		if err != nil {
			return prev, err
		}
		s.nextID.Store(int64(id))
		assigned.Store(int64(id))
		return &State{Todos: todos}, nil
	})
	if err != nil {
		return 0, err
	}
	return int(assigned.Load()), nil
}

// ToggleTodo flips the done flag of the todo with the given id. Unknown ids
// are ignored.
func (s *Store) ToggleTodo(id int) error {
	return s.st.Update(func(prev *State) *State {
		todos := prev.Todos.UpdateByID(id, func(t *Todo) *Todo {
			return &Todo{ID: t.ID, Title: t.Title, Done: !t.Done}
		})
		if todos == prev.Todos {
			return prev
		}
		return &State{Todos: todos}
	})
}

// RemoveTodo removes the todo with the given id. Unknown ids are ignored.
func (s *Store) RemoveTodo(id int) error {
	return s.st.Update(func(prev *State) *State {
		todos := prev.Todos.RemoveByID(id)
		if todos == prev.Todos {
			return prev
		}
		return &State{Todos: todos}
	})
}
