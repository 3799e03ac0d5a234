package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/statebox"
	"github.com/jpalmerr/statebox/internal/counter"
	"github.com/jpalmerr/statebox/internal/todo"
)

// demoCmd replays the store scenarios against fresh stores.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the store scenarios and print notifications",
	Long: `Run the todo, counter and atom scenarios against fresh in-memory stores.

Each subscriber notification is printed as it happens, which shows which
changes reach which subscribers. Use --verbose to also log every mutation.

Example:
  statebox demo
  statebox demo --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		return runDemo(cmd.OutOrStdout(), newLogger(level))
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().BoolP("verbose", "v", false, "log every store mutation")
}

func runDemo(w io.Writer, logger *slog.Logger) error {
	scenarios := []struct {
		name string
		run  func(io.Writer, *slog.Logger) error
	}{
		{"todos", demoTodos},
		{"counters", demoCounters},
		{"atoms", demoAtoms},
	}

	for _, sc := range scenarios {
		fmt.Fprintf(w, "== %s\n", sc.name)
		if err := sc.run(w, logger); err != nil {
			return fmt.Errorf("%s: %w", sc.name, err)
		}
	}
	return nil
}

func demoTodos(w io.Writer, logger *slog.Logger) error {
	s, err := todo.New(statebox.WithName("todos"), statebox.WithLogger(logger))
	if err != nil {
		return err
	}

	statebox.Subscribe(s.Store(), todo.SelectCount, func(next, prev int) {
		fmt.Fprintf(w, "  count: %d -> %d\n", prev, next)
	})
	statebox.Subscribe(s.Store(), todo.SelectRemaining, func(next, prev int) {
		fmt.Fprintf(w, "  remaining: %d -> %d\n", prev, next)
	})

	fmt.Fprintln(w, "add \"buy milk\"")
	id, err := s.AddTodo("buy milk")
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "toggle %d\n", id)
	if err := s.ToggleTodo(id); err != nil {
		return err
	}

	fmt.Fprintf(w, "remove %d\n", id)
	if err := s.RemoveTodo(id); err != nil {
		return err
	}

	fmt.Fprintf(w, "remove %d again\n", id)
	return s.RemoveTodo(id)
}

func demoCounters(w io.Writer, logger *slog.Logger) error {
	s, err := counter.New(counter.State{}, statebox.WithName("counters"), statebox.WithLogger(logger))
	if err != nil {
		return err
	}

	statebox.Subscribe(s.Store(), counter.SelectCount1, func(next, prev int) {
		fmt.Fprintf(w, "  count1: %d -> %d\n", prev, next)
	})
	statebox.Subscribe(s.Store(), counter.SelectTotal, func(next, prev int) {
		fmt.Fprintf(w, "  total: %d -> %d\n", prev, next)
	})

	fmt.Fprintln(w, "inc count1")
	if err := s.Inc1(); err != nil {
		return err
	}

	fmt.Fprintln(w, "inc count2")
	if err := s.Inc2(); err != nil {
		return err
	}

	// total stays at 2
	fmt.Fprintln(w, "set count1+1, count2-1")
	st := s.State()
	return s.Set(counter.State{Count1: st.Count1 + 1, Count2: st.Count2 - 1})
}

func demoAtoms(w io.Writer, logger *slog.Logger) error {
	list, err := todo.NewAtomList(statebox.WithName("atoms"), statebox.WithLogger(logger))
	if err != nil {
		return err
	}

	list.Store().Watch(func(next, prev *todo.AtomState) {
		fmt.Fprintf(w, "  list: %d -> %d atoms\n", prev.Atoms.Len(), next.Atoms.Len())
	})

	fmt.Fprintln(w, "add \"buy milk\", \"walk the dog\"")
	milk, err := list.Add("buy milk")
	if err != nil {
		return err
	}
	dog, err := list.Add("walk the dog")
	if err != nil {
		return err
	}

	for _, a := range []*todo.TodoAtom{milk, dog} {
		title := a.Item().Title
		a.Watch(func(next, _ todo.Item) {
			fmt.Fprintf(w, "  %s: done=%t\n", title, next.Done)
		})
	}

	fmt.Fprintln(w, "toggle \"walk the dog\"")
	if err := dog.Toggle(); err != nil {
		return err
	}

	fmt.Fprintln(w, "remove \"buy milk\"")
	return list.Remove(milk.ID())
}
