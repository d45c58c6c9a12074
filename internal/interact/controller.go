// Package interact turns pointer, wheel and key events into edits on the
// layer and annotation stores.
package interact

import (
	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/layers"
	"github.com/example/snapnote/internal/viewport"
)

// DefaultMinDraw is the size a drawn shape must exceed to be kept.
const DefaultMinDraw = 5

// Mode is the controller state.
type Mode int

const (
	Idle Mode = iota
	Drawing
	Panning
	Moving
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Panning:
		return "panning"
	case Moving:
		return "moving"
	}
	return "unknown"
}

// Picker receives colour picking gestures in composite pixels.
type Picker interface {
	Hover(p geometry.Point)
	Pick(p geometry.Point)
}

// Undoer is one undo domain.
type Undoer interface {
	Undo() bool
	Redo() bool
}

// Undo tries each domain in order and stops at the first that moved.
func Undo(domains ...Undoer) bool {
	for _, d := range domains {
		if d.Undo() {
			return true
		}
	}
	return false
}

// Redo tries each domain in order and stops at the first that moved.
func Redo(domains ...Undoer) bool {
	for _, d := range domains {
		if d.Redo() {
			return true
		}
	}
	return false
}

// Draft is the shape being drawn, for previews.
type Draft struct {
	Kind annotate.Kind
	Seg  geometry.Segment
}

// Controller is the interaction state machine. It is not safe for
// concurrent use; events are expected from a single loop.
type Controller struct {
	layers  *layers.Store
	ann     *annotate.Store
	view    *viewport.Transform
	picker  Picker
	minDraw float64

	mode      Mode
	colorPick bool

	start   geometry.Point
	current geometry.Point
	shift   bool

	grab      geometry.Point
	panOrigin geometry.Point

	moveID     layers.ID
	moveOrigin geometry.Point
}

// Option configures a Controller.
type Option func(*Controller)

// WithPicker installs the colour picking callback.
func WithPicker(p Picker) Option {
	return func(c *Controller) { c.picker = p }
}

// WithMinDraw overrides the minimum kept shape size.
func WithMinDraw(v float64) Option {
	return func(c *Controller) { c.minDraw = v }
}

// New returns an idle controller acting on the given stores.
func New(l *layers.Store, a *annotate.Store, v *viewport.Transform, opts ...Option) *Controller {
	c := &Controller{layers: l, ann: a, view: v, minDraw: DefaultMinDraw}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Mode returns the current state.
func (c *Controller) Mode() Mode { return c.mode }

// ColorPick reports whether the eyedropper is active.
func (c *Controller) ColorPick() bool { return c.colorPick }

// SetColorPick turns the eyedropper on or off.
func (c *Controller) SetColorPick(on bool) { c.colorPick = on }

// Draft returns the in-progress shape while drawing.
func (c *Controller) Draft() (Draft, bool) {
	if c.mode != Drawing {
		return Draft{}, false
	}
	return Draft{Kind: c.ann.Tool(), Seg: c.segment()}, true
}

func (c *Controller) sync() {
	c.view.SetContent(c.layers.Bounds())
}

// PointerDown starts a gesture.
func (c *Controller) PointerDown(e PointerEvent) {
	c.sync()
	if e.Button == ButtonMiddle || (e.Button == ButtonLeft && e.Mods.Has(ModAlt)) {
		if c.mode != Idle {
			c.finish(e)
		}
		c.mode = Panning
		c.grab = geometry.Pt(e.X, e.Y)
		c.panOrigin = c.view.Pan()
		return
	}
	if e.Button != ButtonLeft || c.mode != Idle {
		return
	}
	if c.colorPick {
		if c.picker != nil {
			c.picker.Pick(c.view.ToPixel(e.X, e.Y))
		}
		return
	}
	if sel, ok := c.layers.Selected(); ok {
		if sel.Rect().Contains(c.view.Unclamped(e.X, e.Y)) {
			c.mode = Moving
			c.moveID = sel.ID
			c.moveOrigin = geometry.Pt(sel.X, sel.Y)
			c.grab = geometry.Pt(e.X, e.Y)
			return
		}
		c.layers.Deselect()
		return
	}
	p := c.view.ToPixel(e.X, e.Y)
	c.mode = Drawing
	c.start = p
	c.current = p
	c.shift = e.Mods.Has(ModShift)
}

// PointerMove updates the active gesture.
func (c *Controller) PointerMove(e PointerEvent) {
	c.sync()
	switch c.mode {
	case Panning:
		c.view.SetPan(geometry.Pt(c.panOrigin.X+e.X-c.grab.X, c.panOrigin.Y+e.Y-c.grab.Y))
	case Moving:
		s := c.view.Scale()
		c.layers.Move(c.moveID, c.moveOrigin.X+(e.X-c.grab.X)/s, c.moveOrigin.Y+(e.Y-c.grab.Y)/s)
	case Drawing:
		c.current = c.view.ToPixel(e.X, e.Y)
		c.shift = e.Mods.Has(ModShift)
	case Idle:
		if c.colorPick && c.picker != nil {
			c.picker.Hover(c.view.ToPixel(e.X, e.Y))
		}
	}
}

// PointerUp ends the active gesture, committing it.
func (c *Controller) PointerUp(e PointerEvent) {
	c.sync()
	c.finish(e)
}

// PointerLeave ends the active gesture as if the button had been released.
func (c *Controller) PointerLeave(e PointerEvent) {
	c.PointerUp(e)
}

func (c *Controller) finish(e PointerEvent) {
	switch c.mode {
	case Moving:
		c.layers.CommitMove()
	case Drawing:
		c.current = c.view.ToPixel(e.X, e.Y)
		c.shift = c.shift || e.Mods.Has(ModShift)
		c.commitDraw()
	}
	c.reset()
}

func (c *Controller) reset() {
	c.mode = Idle
	c.moveID = 0
	c.start = geometry.Point{}
	c.current = geometry.Point{}
	c.shift = false
}

func (c *Controller) segment() geometry.Segment {
	seg := geometry.Segment{X1: c.start.X, Y1: c.start.Y, X2: c.current.X, Y2: c.current.Y}
	if c.shift && c.ann.Tool().Segmented() {
		seg.X2, seg.Y2 = geometry.SnapToAxis(seg.X1, seg.Y1, seg.X2, seg.Y2)
	}
	return seg
}

func (c *Controller) commitDraw() {
	seg := c.segment()
	tool := c.ann.Tool()
	if tool.Segmented() {
		if seg.Length() <= c.minDraw {
			return
		}
	} else {
		r := seg.Bounds()
		if r.Width <= c.minDraw || r.Height <= c.minDraw {
			return
		}
	}
	c.ann.AddKind(tool, seg)
}

// Wheel pans, or zooms toward the cursor when a command modifier is held.
func (c *Controller) Wheel(e WheelEvent) {
	c.sync()
	c.view.Wheel(e.X, e.Y, e.DX, e.DY, e.Mods.Command(), e.Mods.Has(ModShift))
}

// Cancel abandons the active gesture without committing it.
func (c *Controller) Cancel() bool {
	switch c.mode {
	case Idle:
		return false
	case Moving:
		c.layers.Move(c.moveID, c.moveOrigin.X, c.moveOrigin.Y)
	case Panning:
		c.view.SetPan(c.panOrigin)
	}
	c.reset()
	return true
}

// Undo steps back the annotation history, or the layer history when
// annotations have nothing to undo.
func (c *Controller) Undo() bool { return Undo(c.ann, c.layers) }

// Redo is the inverse of Undo with the same domain order.
func (c *Controller) Redo() bool { return Redo(c.ann, c.layers) }

// Key handles a key press. It reports whether the key was consumed.
func (c *Controller) Key(e KeyEvent) bool {
	c.sync()
	if e.Key == KeyEscape {
		return c.escape()
	}
	if e.InTextField {
		return false
	}
	if e.Key == KeyRune && e.Mods.Command() && (e.Rune == 'z' || e.Rune == 'Z') {
		if e.Mods.Has(ModShift) {
			c.Redo()
		} else {
			c.Undo()
		}
		return true
	}
	switch e.Key {
	case KeyDelete, KeyBackspace:
		sel, ok := c.ann.Selected()
		if !ok {
			return false
		}
		c.ann.Remove(sel.ID)
		return true
	case KeyLeft, KeyRight, KeyUp, KeyDown:
		return c.nudge(e)
	case KeyRune:
		if e.Mods.Command() {
			return false
		}
		switch e.Rune {
		case '+', '=':
			c.view.ZoomIn()
		case '-':
			c.view.ZoomOut()
		case '0':
			c.view.ResetZoom()
		default:
			return false
		}
		return true
	}
	return false
}

func (c *Controller) escape() bool {
	if c.Cancel() {
		return true
	}
	switch {
	case c.colorPick:
		c.colorPick = false
	case c.ann.Tool() != annotate.Box:
		c.ann.SetTool(annotate.Box)
	default:
		if _, ok := c.layers.Selected(); ok {
			c.layers.Deselect()
			return true
		}
		if _, ok := c.ann.Selected(); ok {
			c.ann.Deselect()
			return true
		}
		return false
	}
	return true
}

func (c *Controller) nudge(e KeyEvent) bool {
	sel, ok := c.ann.Selected()
	if !ok || c.mode != Idle {
		return false
	}
	step := 1.0
	if e.Mods.Has(ModShift) {
		step = 10
	}
	var dx, dy float64
	switch e.Key {
	case KeyLeft:
		dx = -step
	case KeyRight:
		dx = step
	case KeyUp:
		dy = -step
	case KeyDown:
		dy = step
	}
	c.ann.Move(sel.ID, dx, dy)
	c.ann.CommitMove()
	return true
}
