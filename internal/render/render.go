// Package render flattens layers and annotations into a single RGBA image.
// Redaction regions are pixelated in the output buffer itself, so exported
// images never carry the original pixels underneath them.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/layers"
)

// Badge and stroke defaults.
const (
	BadgeRadius = 14
	StrokeWidth = 3
	DashOn      = 8
	DashOff     = 4
	fillAlpha   = 0x20
)

var (
	// DefaultAnnotationColor is the orange used for shapes and their badges.
	DefaultAnnotationColor = color.RGBA{0xf9, 0x73, 0x16, 0xff}
	// DefaultLayerBadgeColor marks image layers.
	DefaultLayerBadgeColor = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
)

// Options controls what the renderer draws.
type Options struct {
	AnnotationColor color.RGBA
	LayerBadgeColor color.RGBA
	// ShowImageIDs draws a numbered badge on each layer when there is more
	// than one.
	ShowImageIDs  bool
	MosaicMinCell int
	BadgeRadius   float64
	StrokeWidth   float64
}

// DefaultOptions returns the stock renderer settings.
func DefaultOptions() Options {
	return Options{
		AnnotationColor: DefaultAnnotationColor,
		LayerBadgeColor: DefaultLayerBadgeColor,
		ShowImageIDs:    true,
		MosaicMinCell:   DefaultMosaicMinCell,
		BadgeRadius:     BadgeRadius,
		StrokeWidth:     StrokeWidth,
	}
}

// Scene is everything needed to produce one frame.
type Scene struct {
	Size   geometry.Size
	Layers []layers.Layer
	// Pixels returns a layer's decoded image, or nil while it is pending.
	Pixels func(layers.ID) image.Image
	Items  []annotate.Item
}

// Renderer draws scenes with fixed options. It holds no state between
// calls.
type Renderer struct {
	opts Options
}

// New returns a renderer. Zero option fields fall back to DefaultOptions.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.AnnotationColor == (color.RGBA{}) {
		opts.AnnotationColor = def.AnnotationColor
	}
	if opts.LayerBadgeColor == (color.RGBA{}) {
		opts.LayerBadgeColor = def.LayerBadgeColor
	}
	if opts.MosaicMinCell <= 0 {
		opts.MosaicMinCell = def.MosaicMinCell
	}
	if opts.BadgeRadius <= 0 {
		opts.BadgeRadius = def.BadgeRadius
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = def.StrokeWidth
	}
	return &Renderer{opts: opts}
}

// Options returns the renderer settings.
func (r *Renderer) Options() Options { return r.opts }

// Render produces the flattened composite. Pending layers are skipped and
// leave their footprint transparent.
func (r *Renderer) Render(sc Scene) *image.RGBA {
	w := int(math.Ceil(sc.Size.W))
	h := int(math.Ceil(sc.Size.H))
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	if dst.Bounds().Empty() {
		return dst
	}

	for _, l := range sc.Layers {
		var px image.Image
		if sc.Pixels != nil {
			px = sc.Pixels(l.ID)
		}
		if px == nil {
			continue
		}
		at := image.Pt(int(math.Round(l.X)), int(math.Round(l.Y)))
		b := px.Bounds()
		draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, px, b.Min, draw.Over)
	}

	if r.opts.ShowImageIDs && len(sc.Layers) > 1 {
		rad := r.opts.BadgeRadius
		for _, l := range sc.Layers {
			drawBadge(dst, l.X+rad+4, l.Y+rad+4, rad, l.Number, r.opts.LayerBadgeColor)
		}
	}

	for _, it := range sc.Items {
		if it.Kind != annotate.Blur {
			continue
		}
		Mosaic(dst, it.Rect.Image(), r.opts.MosaicMinCell)
	}
	for _, it := range sc.Items {
		if it.Kind != annotate.Blur {
			continue
		}
		bx, by := r.rectBadge(it.Rect, dst.Bounds())
		drawBadge(dst, bx, by, r.opts.BadgeRadius, it.Index, r.opts.AnnotationColor)
	}

	for _, it := range sc.Items {
		if it.Kind == annotate.Blur {
			continue
		}
		r.DrawShape(dst, it.Kind, it.Rect, it.Seg)
		bx, by := r.badgeAnchor(it.Annotation, dst.Bounds())
		drawBadge(dst, bx, by, r.opts.BadgeRadius, it.Index, r.opts.AnnotationColor)
	}
	return dst
}

// DrawShape draws one non-redaction shape. Blur regions are drawn as their
// outline only, which is what an in-progress redaction looks like.
func (r *Renderer) DrawShape(dst *image.RGBA, k annotate.Kind, rect geometry.Rect, seg geometry.Segment) {
	col := r.opts.AnnotationColor
	sw := r.opts.StrokeWidth
	switch k {
	case annotate.Box:
		ir := rect.Image()
		fillRect(dst, ir, withAlpha(col, fillAlpha))
		dashedRect(dst, ir, DashOn, DashOff, int(sw), col)
	case annotate.Blur:
		dashedRect(dst, rect.Image(), DashOn, DashOff, int(sw), col)
	case annotate.Arrow:
		strokeLine(dst, arrowShaft(seg, sw), sw, col)
		arrowHead(dst, seg, sw, col)
	case annotate.Line:
		strokeLine(dst, seg, sw, col)
	}
}

// badgeAnchor returns the badge centre for an annotation.
func (r *Renderer) badgeAnchor(a annotate.Annotation, canvas image.Rectangle) (float64, float64) {
	if a.Kind.Segmented() {
		return a.Seg.X1, a.Seg.Y1
	}
	return r.rectBadge(a.Rect, canvas)
}

// rectBadge places the badge just above the top-left corner, or just below
// it when that would leave the canvas.
func (r *Renderer) rectBadge(rect geometry.Rect, canvas image.Rectangle) (float64, float64) {
	rad := r.opts.BadgeRadius
	bx := rect.X + rad + 4
	by := rect.Y - 4
	if by-rad < float64(canvas.Min.Y) {
		by = rect.Y + rad + 4
	}
	return bx, by
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// PixelHex samples img at (x, y) and returns the colour as #rrggbb.
// Coordinates are floored and clamped into the image.
func PixelHex(img image.Image, x, y float64) string {
	b := img.Bounds()
	if b.Empty() {
		return "#000000"
	}
	px := min(max(b.Min.X, int(math.Floor(x))), b.Max.X-1)
	py := min(max(b.Min.Y, int(math.Floor(y))), b.Max.Y-1)
	c := color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
