package todo

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jpalmerr/statebox"
)

// Item is the state of a single todo atom.
type Item struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// TodoAtom is an independently observable todo. It embeds its own store, so
// subscribers of one atom never hear about changes to another.
type TodoAtom struct {
	*statebox.Store[Item]
	id uuid.UUID
}

// Key implements [statebox.Keyed].
func (a *TodoAtom) Key() uuid.UUID { return a.id }

// ID returns the atom's identifier.
func (a *TodoAtom) ID() uuid.UUID { return a.id }

// Item returns the atom's current value.
func (a *TodoAtom) Item() Item { return a.GetState() }

// Toggle flips the done flag.
func (a *TodoAtom) Toggle() error {
	return a.Update(func(prev Item) Item {
		prev.Done = !prev.Done
		return prev
	})
}

// Atoms is the ordered set of todo atoms.
type Atoms = statebox.RecordSet[uuid.UUID, *TodoAtom]

// AtomState is the list state. It only changes when atoms are added or
// removed.
type AtomState struct {
	Atoms *Atoms
}

// AtomList is a list of todo atoms.
type AtomList struct {
	st   *statebox.Store[*AtomState]
	opts []statebox.Option
}

// NewAtomList creates an empty atom list. opts apply to the list store and
// to every atom it creates.
func NewAtomList(opts ...statebox.Option) (*AtomList, error) {
	st, err := statebox.New(&AtomState{}, opts...)
	if err != nil {
		return nil, err
	}
	return &AtomList{st: st, opts: opts}, nil
}

// Store returns the list store for subscriptions.
func (l *AtomList) Store() *statebox.Store[*AtomState] {
	return l.st
}

// Atoms returns the current atoms in order.
func (l *AtomList) Atoms() []*TodoAtom {
	return l.st.GetState().Atoms.Values()
}

// Add creates a new atom and appends it to the list.
func (l *AtomList) Add(title string) (*TodoAtom, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	opts := append(append([]statebox.Option{}, l.opts...), statebox.WithName("todo-atom"))
	st, err := statebox.New(Item{Title: title}, opts...)
	if err != nil {
		return nil, err
	}
	atom := &TodoAtom{Store: st, id: uuid.New()}

	err = l.st.SetState(func(prev *AtomState) (*AtomState, error) {
		atoms, err := prev.Atoms.Insert(atom)
		if err != nil {
			return prev, err
		}
		return &AtomState{Atoms: atoms}, nil
	})
	if err != nil {
		return nil, err
	}
	return atom, nil
}

// Remove drops the atom with the given id from the list. Unknown ids are
// ignored.
func (l *AtomList) Remove(id uuid.UUID) error {
	return l.st.Update(func(prev *AtomState) *AtomState {
		atoms := prev.Atoms.RemoveByID(id)
		if atoms == prev.Atoms {
			return prev
		}
		return &AtomState{Atoms: atoms}
	})
}
