// Package layers keeps the ordered stack of positioned images that make up
// the composite canvas. Slice order is z-order: index 0 is drawn first.
package layers

import (
	"image"
	"slices"

	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/history"
)

// DefaultStagger is the diagonal offset applied to each new layer relative
// to the current top layer.
const DefaultStagger = 20

// ID identifies a layer for its whole lifetime, across undo and redo.
type ID uint64

// Layer is the metadata of one positioned image. Pixel data lives in the
// Store so snapshots stay small.
type Layer struct {
	ID     ID
	Number int
	Width  int
	Height int
	X      float64
	Y      float64
	Note   string
}

// Rect returns the layer footprint in composite space.
func (l Layer) Rect() geometry.Rect {
	return geometry.Rect{X: l.X, Y: l.Y, Width: float64(l.Width), Height: float64(l.Height)}
}

// Store owns the layer list, its pixels and its undo history.
type Store struct {
	list     []Layer
	pixels   map[ID]image.Image
	known    map[ID]bool
	hist     *history.Stack[[]Layer]
	selected ID
	nextID   ID
	counter  int
	stagger  float64
	bounds   geometry.Size
	revision uint64
}

// Option configures a Store.
type Option func(*Store)

// WithStagger overrides the offset between consecutively added layers.
func WithStagger(d float64) Option {
	return func(s *Store) { s.stagger = d }
}

// WithHistory sets the number of undo snapshots kept.
func WithHistory(n int) Option {
	return func(s *Store) { s.hist = history.New[[]Layer](nil, n, slices.Clone[[]Layer]) }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		pixels:  map[ID]image.Image{},
		known:   map[ID]bool{},
		stagger: DefaultStagger,
	}
	for _, o := range opts {
		o(s)
	}
	if s.hist == nil {
		s.hist = history.New[[]Layer](nil, history.DefaultCapacity, slices.Clone[[]Layer])
	}
	return s
}

// Add appends a layer of the given natural size. img may be nil while its
// pixels are still being decoded; SetPixels fills it in later.
//
// The first layer on an empty canvas lands at the origin and is not
// selected. Every later layer is offset from the current top layer and
// becomes the selection.
func (s *Store) Add(width, height int, img image.Image) ID {
	s.nextID++
	s.counter++
	l := Layer{ID: s.nextID, Number: s.counter, Width: width, Height: height}
	if n := len(s.list); n > 0 {
		top := s.list[n-1]
		l.X = top.X + s.stagger
		l.Y = top.Y + s.stagger
		s.selected = l.ID
	}
	s.known[l.ID] = true
	if img != nil {
		s.pixels[l.ID] = img
	}
	s.list = append(s.list, l)
	s.commit()
	return l.ID
}

// AddImage appends img using its bounds as the natural size.
func (s *Store) AddImage(img image.Image) ID {
	b := img.Bounds()
	return s.Add(b.Dx(), b.Dy(), img)
}

// SetPixels attaches decoded pixels to a layer created with nil pixels.
// Unknown ids are ignored. A removed layer still receives its pixels so an
// undo that restores it has something to draw.
func (s *Store) SetPixels(id ID, img image.Image) {
	if !s.known[id] || img == nil {
		return
	}
	s.pixels[id] = img
	s.revision++
}

// Pixels returns the decoded image of a layer, or nil while it is pending.
func (s *Store) Pixels(id ID) image.Image {
	return s.pixels[id]
}

// Remove deletes a layer. It reports false when id is not present.
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

// Move sets a layer position, clamped to the positive quadrant. It does not
// record history; call CommitMove when the gesture ends.
func (s *Store) Move(id ID, x, y float64) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.list[i].X = max(0, x)
	s.list[i].Y = max(0, y)
	s.touch()
}

// CommitMove records the current positions as one history entry.
func (s *Store) CommitMove() {
	s.commit()
}

// Reorder moves a layer to newIndex in the stack. Out of range indexes are
// clamped; a missing id or an unchanged index is a no-op.
func (s *Store) Reorder(id ID, newIndex int) {
	i := s.index(id)
	if i < 0 {
		return
	}
	newIndex = max(0, min(newIndex, len(s.list)-1))
	if newIndex == i {
		return
	}
	l := s.list[i]
	s.list = slices.Delete(s.list, i, i+1)
	s.list = slices.Insert(s.list, newIndex, l)
	s.commit()
}

// SetNote replaces a layer's note. Notes are not undoable.
func (s *Store) SetNote(id ID, note string) {
	if i := s.index(id); i >= 0 {
		s.list[i].Note = note
		s.revision++
	}
}

// Select marks id as the layer to drag. Unknown ids clear the selection.
func (s *Store) Select(id ID) {
	if s.index(id) < 0 {
		s.selected = 0
		return
	}
	s.selected = id
}

// Deselect clears the selection.
func (s *Store) Deselect() { s.selected = 0 }

// Selected returns the selected layer.
func (s *Store) Selected() (Layer, bool) {
	return s.Get(s.selected)
}

// Get looks up a layer by id.
func (s *Store) Get(id ID) (Layer, bool) {
	if i := s.index(id); i >= 0 {
		return s.list[i], true
	}
	return Layer{}, false
}

// Layers returns a copy of the stack in z-order.
func (s *Store) Layers() []Layer {
	return slices.Clone(s.list)
}

// Len is the number of layers.
func (s *Store) Len() int { return len(s.list) }

// Bounds is the canvas size needed to hold every layer.
func (s *Store) Bounds() geometry.Size { return s.bounds }

// Revision changes whenever anything that affects rendering changes.
func (s *Store) Revision() uint64 { return s.revision }

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

// CanUndo reports whether Undo would change anything.
func (s *Store) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Store) CanRedo() bool { return s.hist.CanRedo() }

// Reset empties the canvas and its history. Display numbers keep counting.
func (s *Store) Reset() {
	s.list = nil
	s.selected = 0
	s.pixels = map[ID]image.Image{}
	s.known = map[ID]bool{}
	s.hist.Reset(nil)
	s.touch()
}

func (s *Store) restore(v []Layer) {
	s.list = v
	s.selected = 0
	s.touch()
}

func (s *Store) commit() {
	s.hist.Push(s.list)
	s.touch()
}

func (s *Store) touch() {
	rects := make([]geometry.Rect, len(s.list))
	for i, l := range s.list {
		rects[i] = l.Rect()
	}
	s.bounds = geometry.Extent(rects)
	s.revision++
}

func (s *Store) index(id ID) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(s.list, func(l Layer) bool { return l.ID == id })
}
