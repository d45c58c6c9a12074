// Package viewport converts between window (client) coordinates and
// composite-pixel coordinates under pan and zoom.
package viewport

import (
	"math"

	"github.com/example/snapnote/internal/geometry"
)

// Defaults used when a Config field is left zero.
const (
	DefaultPadding   = 14
	DefaultMaxHeight = 600
	DefaultMinZoom   = 0.5
	DefaultMaxZoom   = 5
	DefaultZoomStep  = 0.2
	WheelZoomFactor  = 0.01
)

// Config holds the fixed parameters of a Transform.
type Config struct {
	// Padding is the inset between the viewport edge and the composite.
	// Zero selects DefaultPadding and a negative value disables it.
	Padding float64
	// MaxHeight caps the displayed height at fit scale.
	MaxHeight float64
	MinZoom   float64
	MaxZoom   float64
	ZoomStep  float64
}

func (c Config) withDefaults() Config {
	if c.Padding < 0 {
		c.Padding = 0
	} else if c.Padding == 0 {
		c.Padding = DefaultPadding
	}
	if c.MaxHeight <= 0 {
		c.MaxHeight = DefaultMaxHeight
	}
	if c.MinZoom <= 0 {
		c.MinZoom = DefaultMinZoom
	}
	if c.MaxZoom <= 0 {
		c.MaxZoom = DefaultMaxZoom
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	if c.ZoomStep <= 0 {
		c.ZoomStep = DefaultZoomStep
	}
	return c
}

// Transform tracks zoom, pan and the fit scale for one viewport. The zero
// value is not usable; call New.
type Transform struct {
	cfg     Config
	origin  geometry.Point
	view    geometry.Size
	content geometry.Size
	zoom    float64
	pan     geometry.Point
}

// New returns a transform at zoom 1 with no pan.
func New(cfg Config) *Transform {
	return &Transform{cfg: cfg.withDefaults(), zoom: 1}
}

// Config returns the effective parameters.
func (t *Transform) Config() Config { return t.cfg }

// SetViewport sets the client-space position and size of the drawing area.
func (t *Transform) SetViewport(x, y, w, h float64) {
	t.origin = geometry.Pt(x, y)
	t.view = geometry.Size{W: w, H: h}
}

// SetContent sets the composite size being displayed.
func (t *Transform) SetContent(s geometry.Size) { t.content = s }

// Content is the composite size being displayed.
func (t *Transform) Content() geometry.Size { return t.content }

// inner is the viewport size minus padding on both sides.
func (t *Transform) inner() geometry.Size {
	return geometry.Size{
		W: max(0, t.view.W-2*t.cfg.Padding),
		H: max(0, t.view.H-2*t.cfg.Padding),
	}
}

// FitScale is the largest scale not above 1 at which the composite fits the
// viewport width and the maximum height.
func (t *Transform) FitScale() float64 {
	if t.content.W <= 0 || t.content.H <= 0 {
		return 1
	}
	s := t.cfg.MaxHeight / t.content.H
	if avail := t.inner().W; avail > 0 {
		s = math.Min(s, avail/t.content.W)
	}
	return math.Min(s, 1)
}

// Scale is the effective display scale, FitScale times Zoom.
func (t *Transform) Scale() float64 { return t.FitScale() * t.zoom }

// Zoom returns the user zoom factor.
func (t *Transform) Zoom() float64 { return t.zoom }

// Pan returns the pan offset in display pixels.
func (t *Transform) Pan() geometry.Point { return t.pan }

// SetPan replaces the pan offset.
func (t *Transform) SetPan(p geometry.Point) { t.pan = p }

// SetZoom sets the zoom factor, clamped to the configured range. The pan is
// left alone.
func (t *Transform) SetZoom(z float64) {
	t.zoom = geometry.Clamp(z, t.cfg.MinZoom, t.cfg.MaxZoom)
}

// ZoomIn raises the zoom by one step.
func (t *Transform) ZoomIn() { t.SetZoom(t.zoom + t.cfg.ZoomStep) }

// ZoomOut lowers the zoom by one step.
func (t *Transform) ZoomOut() { t.SetZoom(t.zoom - t.cfg.ZoomStep) }

// ResetZoom returns to zoom 1 and centres the composite.
func (t *Transform) ResetZoom() {
	t.zoom = 1
	t.CenterPan()
}

// Fit is an alias for ResetZoom used after loading content.
func (t *Transform) Fit() { t.ResetZoom() }

// ZoomAt changes the zoom by delta while keeping the composite point under
// the client position (cx, cy) fixed on screen.
func (t *Transform) ZoomAt(cx, cy, delta float64) {
	old := t.zoom
	t.SetZoom(old + delta)
	if old == 0 {
		return
	}
	ratio := t.zoom / old
	ax := cx - t.origin.X - t.cfg.Padding
	ay := cy - t.origin.Y - t.cfg.Padding
	t.pan = geometry.Pt(ax-(ax-t.pan.X)*ratio, ay-(ay-t.pan.Y)*ratio)
}

// Wheel applies a scroll gesture. With zoom set the vertical delta zooms
// toward the cursor. Otherwise the gesture pans; horizontal forces the
// vertical delta onto the x axis.
func (t *Transform) Wheel(cx, cy, dx, dy float64, zoom, horizontal bool) {
	switch {
	case zoom:
		t.ZoomAt(cx, cy, -dy*WheelZoomFactor)
	case horizontal:
		d := dy
		if d == 0 {
			d = dx
		}
		t.pan.X -= d
	default:
		t.pan.X -= dx
		t.pan.Y -= dy
	}
}

// CenterPan centres the composite in the viewport at fit scale. Content
// larger than the viewport is pinned to the top-left.
func (t *Transform) CenterPan() {
	s := t.FitScale()
	in := t.inner()
	t.pan = geometry.Pt(
		max(0, (in.W-t.content.W*s)/2),
		max(0, (in.H-t.content.H*s)/2),
	)
}

// ToPixel converts a client position into composite pixels, clamped to the
// composite bounds.
func (t *Transform) ToPixel(cx, cy float64) geometry.Point {
	p := t.Unclamped(cx, cy)
	return geometry.Pt(
		geometry.Clamp(p.X, 0, t.content.W),
		geometry.Clamp(p.Y, 0, t.content.H),
	)
}

// Unclamped converts a client position into composite pixels without
// clamping.
func (t *Transform) Unclamped(cx, cy float64) geometry.Point {
	s := t.Scale()
	return geometry.Pt(
		(cx-t.origin.X-t.cfg.Padding-t.pan.X)/s,
		(cy-t.origin.Y-t.cfg.Padding-t.pan.Y)/s,
	)
}

// ToClient is the inverse of ToPixel for points inside the composite.
func (t *Transform) ToClient(p geometry.Point) geometry.Point {
	s := t.Scale()
	return geometry.Pt(
		t.origin.X+t.cfg.Padding+t.pan.X+p.X*s,
		t.origin.Y+t.cfg.Padding+t.pan.Y+p.Y*s,
	)
}

// DisplayRect is the client-space rectangle covered by the composite.
func (t *Transform) DisplayRect() geometry.Rect {
	o := t.ToClient(geometry.Point{})
	s := t.Scale()
	return geometry.Rect{X: o.X, Y: o.Y, Width: t.content.W * s, Height: t.content.H * s}
}
