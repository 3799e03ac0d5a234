package statebox

import (
	"fmt"
	"iter"
)

// Keyed is implemented by records stored in a [RecordSet].
//
// Key must be stable for the lifetime of the record: updates replace the
// record's fields but never its key.
type Keyed[K comparable] interface {
	Key() K
}

// RecordSet is an ordered, immutable collection of uniquely keyed records.
//
// Every mutating operation returns a new *RecordSet and leaves the receiver
// untouched, so a *RecordSet can be shared freely between goroutines and
// compared by pointer to detect change. Records are normally pointers
// (for example *Todo); [RecordSet.UpdateByID] copies every unaffected element
// as-is, which keeps those pointers identical across the update.
//
// A nil *RecordSet is valid and behaves as the empty set.
//
// All operations are linear in the number of records. There is no index:
// lookups scan in insertion order. This is fine for the UI-sized
// collections the package targets but is a known limit for large sets.
type RecordSet[K comparable, R Keyed[K]] struct {
	records []R
}

// NewRecordSet creates a [RecordSet] holding records in the given order.
//
// Returns an error wrapping [ErrDuplicateKey] if two records share a key.
func NewRecordSet[K comparable, R Keyed[K]](records ...R) (*RecordSet[K, R], error) {
	seen := make(map[K]struct{}, len(records))
	for _, r := range records {
		k := r.Key()
		if _, exists := seen[k]; exists {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
	}

	cp := make([]R, len(records))
	copy(cp, records)
	return &RecordSet[K, R]{records: cp}, nil
}

// Len returns the number of records.
func (s *RecordSet[K, R]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// At returns the record at position i. It panics if i is out of range.
func (s *RecordSet[K, R]) At(i int) R {
	return s.records[i]
}

// Get returns the record with the given key.
func (s *RecordSet[K, R]) Get(id K) (R, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	var zero R
	return zero, false
}

// Has reports whether a record with the given key is present.
func (s *RecordSet[K, R]) Has(id K) bool {
	return s.indexOf(id) >= 0
}

// Values returns a copy of the records in order.
//
// The returned slice is a copy; modifying it does not affect the set.
func (s *RecordSet[K, R]) Values() []R {
	if s == nil {
		return []R{}
	}
	cp := make([]R, len(s.records))
	copy(cp, s.records)
	return cp
}

// All iterates over the records in order, yielding position and record.
func (s *RecordSet[K, R]) All() iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		if s == nil {
			return
		}
		for i, r := range s.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Insert returns a new set with r appended.
//
// If a record with the same key is already present, Insert returns the
// receiver and an error wrapping [ErrDuplicateKey]; the receiver is never
// modified.
func (s *RecordSet[K, R]) Insert(r R) (*RecordSet[K, R], error) {
	k := r.Key()
	if s.indexOf(k) >= 0 {
		return s, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
	}

	n := s.Len()
	next := make([]R, n, n+1)
	if s != nil {
		copy(next, s.records)
	}
	next = append(next, r)
	return &RecordSet[K, R]{records: next}, nil
}

// RemoveByID returns a new set without the record keyed by id.
//
// Removing a key that is not present is not an error: the receiver itself
// is returned, so pointer comparison reports no change.
func (s *RecordSet[K, R]) RemoveByID(id K) *RecordSet[K, R] {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}

	next := make([]R, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)
	return &RecordSet[K, R]{records: next}
}

// UpdateByID returns a new set where the record keyed by id is replaced by
// fn(old). All other records are carried over unchanged.
//
// If id is not present, fn is not called and the receiver is returned.
// UpdateByID panics if fn returns a record with a different key.
func (s *RecordSet[K, R]) UpdateByID(id K, fn func(R) R) *RecordSet[K, R] {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}

	updated := fn(s.records[i])
	if k := updated.Key(); k != id {
		panic(fmt.Sprintf("statebox: update changed record key from %v to %v", id, k))
	}

	next := make([]R, len(s.records))
	copy(next, s.records)
	next[i] = updated
	return &RecordSet[K, R]{records: next}
}

// Filter returns a new set holding the records for which keep returns true,
// in their original order.
func (s *RecordSet[K, R]) Filter(keep func(R) bool) *RecordSet[K, R] {
	next := make([]R, 0, s.Len())
	for _, r := range s.All() {
		if keep(r) {
			next = append(next, r)
		}
	}
	return &RecordSet[K, R]{records: next}
}

func (s *RecordSet[K, R]) indexOf(id K) int {
	if s == nil {
		return -1
	}
	for i, r := range s.records {
		if r.Key() == id {
			return i
		}
	}
	return -1
}
