// Package todo implements a todo list on top of statebox.
//
// Two shapes are provided:
//
//   - [Store]: one state value holding a [statebox.RecordSet] of *Todo.
//     Toggling a todo replaces that record and the set; every other *Todo
//     keeps its identity, so per-item consumers can skip unchanged items by
//     pointer comparison.
//   - [AtomList]: the Atoms-in-Atom shape. The list holds one small store per
//     item, so toggling an item notifies only that item's subscribers and
//     leaves the list untouched.
package todo
