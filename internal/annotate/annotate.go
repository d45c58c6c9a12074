// Package annotate stores the shapes drawn over the composite: boxes,
// arrows, lines and redaction (blur) regions. Each shape keeps the display
// index it was created with until the list is cleared.
package annotate

import (
	"slices"

	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/history"
)

// Kind tags the shape of an annotation. It doubles as the drawing tool.
type Kind int

const (
	Box Kind = iota
	Arrow
	Line
	Blur
)

// String returns the short lowercase name used in text output and flags.
func (k Kind) String() string {
	switch k {
	case Box:
		return "box"
	case Arrow:
		return "arrow"
	case Line:
		return "line"
	case Blur:
		return "blur"
	}
	return "unknown"
}

// Label is the human readable name shown in lists.
func (k Kind) Label() string {
	switch k {
	case Box:
		return "User annotation"
	case Arrow:
		return "Arrow annotation"
	case Line:
		return "Line annotation"
	case Blur:
		return "Blur box"
	}
	return "Annotation"
}

// Segmented reports whether the kind is defined by two endpoints.
func (k Kind) Segmented() bool { return k == Arrow || k == Line }

// ParseKind maps a kind name back to its value.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{Box, Arrow, Line, Blur} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// ID identifies an annotation internally. It is never shown to the user.
type ID uint64

// Annotation is one shape. Rect is always populated; for arrows and lines it
// is the bounding box of Seg.
type Annotation struct {
	ID    ID
	Index int
	Kind  Kind
	Rect  geometry.Rect
	Seg   geometry.Segment
	Note  string
}

// Item is an annotation together with its list label.
type Item struct {
	Annotation
	Label string
}

// Store owns the annotation list, the active tool and the undo history.
type Store struct {
	list     []Annotation
	hist     *history.Stack[[]Annotation]
	tool     Kind
	selected ID
	nextID   ID
	counter  int
	revision uint64
}

// Option configures a Store.
type Option func(*Store)

// WithHistory bounds the undo history to n snapshots. Values below one use
// history.DefaultCapacity.
func WithHistory(n int) Option {
	return func(s *Store) { s.hist = history.New[[]Annotation](nil, n, slices.Clone[[]Annotation]) }
}

// New returns an empty store with the box tool active.
func New(opts ...Option) *Store {
	s := &Store{tool: Box}
	for _, o := range opts {
		o(s)
	}
	if s.hist == nil {
		s.hist = history.New[[]Annotation](nil, history.DefaultCapacity, slices.Clone[[]Annotation])
	}
	return s
}

// Add appends a box annotation.
func (s *Store) Add(r geometry.Rect) ID {
	return s.add(Annotation{Kind: Box, Rect: r})
}

// AddBlur appends a redaction region.
func (s *Store) AddBlur(r geometry.Rect) ID {
	return s.add(Annotation{Kind: Blur, Rect: r})
}

// AddArrow appends an arrow pointing at the second endpoint.
func (s *Store) AddArrow(seg geometry.Segment) ID {
	return s.add(Annotation{Kind: Arrow, Seg: seg, Rect: seg.Bounds()})
}

// AddLine appends a plain segment.
func (s *Store) AddLine(seg geometry.Segment) ID {
	return s.add(Annotation{Kind: Line, Seg: seg, Rect: seg.Bounds()})
}

// AddKind dispatches to the constructor for k. Rectangle kinds take the
// bounds of seg.
func (s *Store) AddKind(k Kind, seg geometry.Segment) ID {
	switch k {
	case Arrow:
		return s.AddArrow(seg)
	case Line:
		return s.AddLine(seg)
	case Blur:
		return s.AddBlur(seg.Bounds())
	default:
		return s.Add(seg.Bounds())
	}
}

func (s *Store) add(a Annotation) ID {
	s.nextID++
	s.counter++
	a.ID = s.nextID
	a.Index = s.counter
	s.list = append(s.list, a)
	s.commit()
	return a.ID
}

// Remove deletes an annotation. Its index is not handed out again.
func (s *Store) Remove(id ID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.list = slices.Delete(s.list, i, i+1)
	if s.selected == id {
		s.selected = 0
	}
	s.commit()
	return true
}

// SetNote replaces an annotation note. Notes are not undoable.
func (s *Store) SetNote(id ID, note string) {
	if i := s.index(id); i >= 0 {
		s.list[i].Note = note
		s.revision++
	}
}

// Move translates an annotation without recording history.
func (s *Store) Move(id ID, dx, dy float64) {
	i := s.index(id)
	if i < 0 {
		return
	}
	a := &s.list[i]
	a.Rect = a.Rect.Translate(dx, dy)
	if a.Kind.Segmented() {
		a.Seg = a.Seg.Translate(dx, dy)
	}
	s.revision++
}

// CommitMove records the current state as one history entry.
func (s *Store) CommitMove() { s.commit() }

// UpdateRect replaces the rectangle of a box or blur annotation.
func (s *Store) UpdateRect(id ID, r geometry.Rect) {
	i := s.index(id)
	if i < 0 || s.list[i].Kind.Segmented() {
		return
	}
	s.list[i].Rect = r
	s.commit()
}

// Clear removes every annotation and restarts display indexes at 1. The
// clear itself is undoable.
func (s *Store) Clear() {
	s.list = nil
	s.selected = 0
	s.counter = 0
	s.commit()
}

// Reset empties the list, its history and the index counter.
func (s *Store) Reset() {
	s.list = nil
	s.selected = 0
	s.counter = 0
	s.tool = Box
	s.hist.Reset(nil)
	s.revision++
}

// SetTool chooses the kind created by the next drawing gesture.
func (s *Store) SetTool(k Kind) { s.tool = k }

// Tool is the active drawing tool.
func (s *Store) Tool() Kind { return s.tool }

// Select marks an annotation as selected. Unknown ids clear the selection.
func (s *Store) Select(id ID) {
	if s.index(id) < 0 {
		s.selected = 0
		return
	}
	s.selected = id
}

// Deselect clears the selection.
func (s *Store) Deselect() { s.selected = 0 }

// Selected returns the selected annotation.
func (s *Store) Selected() (Annotation, bool) {
	return s.Get(s.selected)
}

// Get looks up an annotation by id.
func (s *Store) Get(id ID) (Annotation, bool) {
	if i := s.index(id); i >= 0 {
		return s.list[i], true
	}
	return Annotation{}, false
}

// List returns a copy of the annotations in creation order.
func (s *Store) List() []Annotation { return slices.Clone(s.list) }

// Len is the number of annotations.
func (s *Store) Len() int { return len(s.list) }

// Unified projects the list into labelled items. Every consumer that needs
// to describe an annotation goes through this.
func (s *Store) Unified() []Item {
	return Unify(s.list)
}

// Unify labels a list of annotations.
func Unify(list []Annotation) []Item {
	items := make([]Item, len(list))
	for i, a := range list {
		items[i] = Item{Annotation: a, Label: a.Kind.Label()}
	}
	return items
}

// Undo restores the previous snapshot and clears the selection.
func (s *Store) Undo() bool {
	v, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restore(v)
	return true
}

// Redo re-applies the next snapshot and clears the selection.
func (s *Store) Redo() bool {
	v, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restore(v)
	return true
}

// CanUndo reports whether Undo would change the list.
func (s *Store) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would change the list.
func (s *Store) CanRedo() bool { return s.hist.CanRedo() }

// Revision changes whenever the rendered output could change.
func (s *Store) Revision() uint64 { return s.revision }

// restore swaps in a snapshot. The counter only moves forward so shapes
// added afterwards never repeat an index already on screen; after a Clear
// it stays at zero.
func (s *Store) restore(v []Annotation) {
	s.list = v
	s.selected = 0
	for _, a := range v {
		s.counter = max(s.counter, a.Index)
	}
	s.revision++
}

func (s *Store) commit() {
	s.hist.Push(s.list)
	s.revision++
}

func (s *Store) index(id ID) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(s.list, func(a Annotation) bool { return a.ID == id })
}
