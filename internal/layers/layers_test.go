package layers

import (
	"image"
	"slices"
	"testing"

	"github.com/example/snapnote/internal/geometry"
)

func blank(w, h int) *image.RGBA { return image.NewRGBA(image.Rect(0, 0, w, h)) }

func ids(ls []Layer) []ID {
	out := make([]ID, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestEmptyBounds(t *testing.T) {
	s := New()
	if got := s.Bounds(); got != (geometry.Size{}) {
		t.Fatalf("Bounds = %+v, want zero", got)
	}
}

func TestAddStaggersAndSelects(t *testing.T) {
	s := New()
	a := s.AddImage(blank(100, 200))
	if _, ok := s.Selected(); ok {
		t.Fatalf("first layer should not be selected")
	}
	if got := s.Bounds(); got != (geometry.Size{W: 100, H: 200}) {
		t.Fatalf("Bounds = %+v", got)
	}
	b := s.AddImage(blank(150, 100))
	sel, ok := s.Selected()
	if !ok || sel.ID != b {
		t.Fatalf("second layer should be selected, got %+v %v", sel, ok)
	}
	lb, _ := s.Get(b)
	if lb.X != DefaultStagger || lb.Y != DefaultStagger {
		t.Fatalf("second layer at (%v,%v), want stagger", lb.X, lb.Y)
	}
	if got := s.Bounds(); got != (geometry.Size{W: 170, H: 200}) {
		t.Fatalf("Bounds = %+v", got)
	}

	s.Remove(a)
	if got := s.Bounds(); got != (geometry.Size{W: 150 + DefaultStagger, H: 100 + DefaultStagger}) {
		t.Fatalf("Bounds after remove = %+v", got)
	}
}

func TestDisplayNumbersNeverReused(t *testing.T) {
	s := New()
	a := s.AddImage(blank(1, 1))
	s.AddImage(blank(1, 1))
	s.Remove(a)
	c := s.AddImage(blank(1, 1))
	l, _ := s.Get(c)
	if l.Number != 3 {
		t.Fatalf("Number = %d, want 3", l.Number)
	}
	s.Reset()
	d := s.AddImage(blank(1, 1))
	l, _ = s.Get(d)
	if l.Number != 4 {
		t.Fatalf("Number after reset = %d, want 4", l.Number)
	}
}

func TestRemoveClearsSelection(t *testing.T) {
	s := New()
	s.AddImage(blank(10, 10))
	b := s.AddImage(blank(10, 10))
	s.Remove(b)
	if _, ok := s.Selected(); ok {
		t.Fatalf("selection should be cleared")
	}
	if s.Remove(b) {
		t.Fatalf("removing twice should report false")
	}
}

func TestMoveClampsAndDefersHistory(t *testing.T) {
	s := New()
	a := s.AddImage(blank(10, 10))
	before := s.hist.Len()
	s.Move(a, -5, 30)
	s.Move(a, 12, -1)
	if s.hist.Len() != before {
		t.Fatalf("Move pushed history")
	}
	l, _ := s.Get(a)
	if l.X != 12 || l.Y != 0 {
		t.Fatalf("position = (%v,%v), want (12,0)", l.X, l.Y)
	}
	if got := s.Bounds(); got != (geometry.Size{W: 22, H: 10}) {
		t.Fatalf("Bounds = %+v", got)
	}
	s.CommitMove()
	if s.hist.Len() != before+1 {
		t.Fatalf("CommitMove should push one entry")
	}
	s.Undo()
	l, _ = s.Get(a)
	if l.X != 0 || l.Y != 0 {
		t.Fatalf("undo restored (%v,%v)", l.X, l.Y)
	}
}

func TestReorder(t *testing.T) {
	s := New()
	a := s.AddImage(blank(1, 1))
	b := s.AddImage(blank(1, 1))
	c := s.AddImage(blank(1, 1))
	n := s.hist.Len()
	s.Reorder(c, 0)
	if got := ids(s.Layers()); !slices.Equal(got, []ID{c, a, b}) {
		t.Fatalf("order = %v", got)
	}
	s.Reorder(a, 99)
	if got := ids(s.Layers()); !slices.Equal(got, []ID{c, b, a}) {
		t.Fatalf("order = %v", got)
	}
	s.Reorder(a, 2)
	s.Reorder(ID(42), 0)
	if s.hist.Len() != n+2 {
		t.Fatalf("history len %d, want %d", s.hist.Len(), n+2)
	}
}

func TestUndoRedoExact(t *testing.T) {
	s := New()
	s.AddImage(blank(100, 200))
	s.AddImage(blank(150, 100))
	post := s.Layers()
	if !s.Undo() {
		t.Fatalf("Undo failed")
	}
	if s.Len() != 1 || s.Bounds() != (geometry.Size{W: 100, H: 200}) {
		t.Fatalf("undo state: len %d bounds %+v", s.Len(), s.Bounds())
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("undo should clear selection")
	}
	if !s.Redo() {
		t.Fatalf("Redo failed")
	}
	if !slices.Equal(s.Layers(), post) {
		t.Fatalf("redo = %+v, want %+v", s.Layers(), post)
	}
	if s.CanRedo() {
		t.Fatalf("CanRedo at newest")
	}
	s.Undo()
	s.Undo()
	if s.CanUndo() {
		t.Fatalf("CanUndo at oldest")
	}
	if s.Undo() {
		t.Fatalf("Undo at oldest should be a no-op")
	}
}

func TestPendingPixels(t *testing.T) {
	s := New()
	id := s.Add(30, 40, nil)
	if s.Pixels(id) != nil {
		t.Fatalf("pixels should be pending")
	}
	rev := s.Revision()
	s.SetPixels(id, blank(30, 40))
	if s.Pixels(id) == nil || s.Revision() == rev {
		t.Fatalf("SetPixels did not attach pixels")
	}
	s.SetPixels(ID(999), blank(1, 1))
	if s.Pixels(ID(999)) != nil {
		t.Fatalf("unknown id received pixels")
	}
}

func TestNoteIsNotUndoable(t *testing.T) {
	s := New()
	a := s.AddImage(blank(1, 1))
	n := s.hist.Len()
	s.SetNote(a, "base")
	if s.hist.Len() != n {
		t.Fatalf("SetNote pushed history")
	}
	l, _ := s.Get(a)
	if l.Note != "base" {
		t.Fatalf("Note = %q", l.Note)
	}
}
