// Package viewer is the interactive editor window. It translates shiny
// window events into controller events and paints the workspace composite
// with the in-progress shape, selection outlines and a status bar.
package viewer

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/interact"
	"github.com/example/snapnote/internal/source"
	"github.com/example/snapnote/internal/theme"
	"github.com/example/snapnote/internal/workspace"
)

const (
	defaultWidth   = 1024
	defaultHeight  = 720
	messageTimeout = 2 * time.Second
	captureTimeout = 30 * time.Second
)

// Viewer drives one workspace from a window.
type Viewer struct {
	ws      *workspace.Workspace
	theme   *theme.Theme
	output  string
	title   string
	capture source.ScreenshotOptions
	onClose func()

	width, height int
	message       string
	messageUntil  time.Time
	now           func() time.Time
	pointer       interact.PointerEvent

	editing    bool
	noteTarget noteTarget
	note       []rune
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(v *Viewer) { v.theme = t } }

// WithOutput sets the file written by the save shortcut.
func WithOutput(out string) Option { return func(v *Viewer) { v.output = out } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(v *Viewer) { v.title = title } }

// WithCaptureOptions tunes the capture shortcut.
func WithCaptureOptions(o source.ScreenshotOptions) Option {
	return func(v *Viewer) { v.capture = o }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(v *Viewer) { v.onClose = fn } }

// New returns a viewer for ws.
func New(ws *workspace.Workspace, opts ...Option) *Viewer {
	v := &Viewer{
		ws:     ws,
		theme:  theme.Default(),
		title:  "snapnote",
		width:  defaultWidth,
		height: defaultHeight,
		now:    time.Now,
	}
	for _, o := range opts {
		o(v)
	}
	v.resize(v.width, v.height)
	v.ws.View.Fit()
	return v
}

// decodedEvent carries a finished decode into the window's event queue.
type decodedEvent struct {
	result source.Result
}

// Run executes the UI loop using shiny's driver.
func (v *Viewer) Run() { driver.Main(v.Main) }

// Main runs the window until it is closed.
func (v *Viewer) Main(s screen.Screen) {
	if v.onClose != nil {
		defer v.onClose()
	}
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: v.width, Height: v.height, Title: v.title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case r, ok := <-v.ws.Results():
				if !ok {
					return
				}
				w.Send(decodedEvent{result: r})
			case <-done:
				return
			}
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			repaint, quit := v.handleLifecycle(e)
			if quit {
				return
			}
			if repaint {
				w.Send(paint.Event{})
			}
		case size.Event:
			v.resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			v.paint(s, w)
		case decodedEvent:
			v.applyDecoded(e.result)
			w.Send(paint.Event{})
		case mouse.Event:
			if v.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			repaint, quit := v.handleKey(e)
			if quit {
				return
			}
			if repaint {
				w.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

func (v *Viewer) resize(width, height int) {
	v.width, v.height = width, height
	c := canvasViewport(width, height)
	v.ws.View.SetViewport(float64(c.Min.X), float64(c.Min.Y), float64(c.Dx()), float64(c.Dy()))
}

func (v *Viewer) paint(s screen.Screen, w screen.Window) {
	b, err := s.NewBuffer(image.Point{v.width, v.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	drawFrame(b.RGBA(), v.frame())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func (v *Viewer) say(format string, args ...interface{}) {
	v.message = fmt.Sprintf(format, args...)
	v.messageUntil = v.now().Add(messageTimeout)
	log.Print(v.message)
}

func (v *Viewer) applyDecoded(r source.Result) {
	if err := v.ws.ApplyDecoded(r); err != nil {
		v.say("%v", err)
	}
}

// handleLifecycle commits any gesture in flight when the window loses focus.
func (v *Viewer) handleLifecycle(e lifecycle.Event) (repaint, quit bool) {
	if e.To == lifecycle.StageDead {
		return false, true
	}
	if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && v.ws.Controller.Mode() != interact.Idle {
		v.ws.Controller.PointerLeave(v.pointer)
		return true, false
	}
	return false, false
}

func (v *Viewer) handleMouse(e mouse.Event) bool {
	act, p, wheel := translateMouse(e)
	ctl := v.ws.Controller
	if act != actionWheel && act != actionIgnore {
		v.pointer = p
	}
	switch act {
	case actionPress:
		ctl.PointerDown(p)
	case actionMove:
		ctl.PointerMove(p)
		return ctl.Mode() != interact.Idle || ctl.ColorPick()
	case actionRelease:
		ctl.PointerUp(p)
	case actionWheel:
		ctl.Wheel(wheel)
	default:
		return false
	}
	return true
}

// frame snapshots the state drawFrame needs.
func (v *Viewer) frame() frameState {
	ws := v.ws
	comp := ws.Composite()
	if d, ok := ws.Controller.Draft(); ok {
		draft := image.NewRGBA(comp.Bounds())
		copy(draft.Pix, comp.Pix)
		rect := geometry.RectFromPoints(d.Seg.X1, d.Seg.Y1, d.Seg.X2, d.Seg.Y2)
		ws.Renderer().DrawShape(draft, d.Kind, rect, d.Seg)
		comp = draft
	}

	var sel []geometry.Rect
	if l, ok := ws.Layers.Selected(); ok {
		sel = append(sel, v.toClient(l.Rect()))
	}
	if a, ok := ws.Annotations.Selected(); ok {
		sel = append(sel, v.toClient(a.Rect))
	}

	st := frameState{
		width:     v.width,
		height:    v.height,
		theme:     v.theme,
		composite: comp,
		display:   ws.View.DisplayRect(),
		selection: sel,
		status:    v.status(),
		editing:   v.editing,
		note:      string(v.note),
	}
	if v.message != "" && v.now().Before(v.messageUntil) {
		st.message = v.message
	}
	return st
}

func (v *Viewer) toClient(r geometry.Rect) geometry.Rect {
	p := v.ws.View.ToClient(geometry.Pt(r.X, r.Y))
	s := v.ws.View.Scale()
	return geometry.Rect{X: p.X, Y: p.Y, Width: r.Width * s, Height: r.Height * s}
}

func (v *Viewer) status() string {
	ws := v.ws
	tool := ws.Annotations.Tool().String()
	if ws.Controller.ColorPick() {
		tool = "pick " + ws.HoverColor()
	}
	s := fmt.Sprintf("%s | zoom %d%% | %d images | %d annotations",
		tool, int(math.Round(ws.View.Zoom()*100)), ws.Layers.Len(), ws.Annotations.Len())
	if n := ws.Pending(); n > 0 {
		s += fmt.Sprintf(" | decoding %d", n)
	}
	return s
}

func (v *Viewer) captureScreen() {
	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()
	if _, err := v.ws.CaptureScreen(ctx, v.capture); err != nil {
		v.say("capture screenshot: %v", err)
		return
	}
	v.ws.View.Fit()
	v.say("captured screenshot")
}
