// Package history implements a bounded undo/redo stack of immutable
// snapshots. Callers push a full copy of their state after every undoable
// change and restore whatever Undo or Redo hands back.
package history

// DefaultCapacity is the number of snapshots kept before the oldest is
// evicted.
const DefaultCapacity = 50

// Stack holds snapshots in push order with a cursor on the current one.
// A Stack always contains at least one snapshot.
type Stack[T any] struct {
	entries  []T
	cursor   int
	capacity int
	clone    func(T) T
}

// New returns a stack seeded with initial. clone is applied on the way in and
// on the way out so neither side can alias the stored snapshot; pass nil for
// value types that need no copying.
func New[T any](initial T, capacity int, clone func(T) T) *Stack[T] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Stack[T]{
		entries:  []T{clone(initial)},
		capacity: capacity,
		clone:    clone,
	}
}

// Push drops any redo entries past the cursor, appends v and moves the cursor
// onto it. The oldest entry is evicted once the stack exceeds its capacity.
func (s *Stack[T]) Push(v T) {
	s.entries = append(s.entries[:s.cursor+1], s.clone(v))
	if over := len(s.entries) - s.capacity; over > 0 {
		var zero T
		for i := 0; i < over; i++ {
			s.entries[i] = zero
		}
		s.entries = append(s.entries[:0], s.entries[over:]...)
	}
	s.cursor = len(s.entries) - 1
}

// Undo steps back one entry. ok is false at the oldest snapshot.
func (s *Stack[T]) Undo() (v T, ok bool) {
	if s.cursor == 0 {
		return v, false
	}
	s.cursor--
	return s.clone(s.entries[s.cursor]), true
}

// Redo steps forward one entry. ok is false at the newest snapshot.
func (s *Stack[T]) Redo() (v T, ok bool) {
	if s.cursor >= len(s.entries)-1 {
		return v, false
	}
	s.cursor++
	return s.clone(s.entries[s.cursor]), true
}

// Current returns a copy of the snapshot under the cursor.
func (s *Stack[T]) Current() T {
	return s.clone(s.entries[s.cursor])
}

// CanUndo reports whether Undo would move the cursor.
func (s *Stack[T]) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (s *Stack[T]) CanRedo() bool { return s.cursor < len(s.entries)-1 }

// Len is the number of stored snapshots.
func (s *Stack[T]) Len() int { return len(s.entries) }

// Cursor is the index of the current snapshot.
func (s *Stack[T]) Cursor() int { return s.cursor }

// Reset discards every snapshot and seeds the stack with v.
func (s *Stack[T]) Reset(v T) {
	s.entries = []T{s.clone(v)}
	s.cursor = 0
}
