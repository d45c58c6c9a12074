package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/snapnote/internal/geometry"
)

// fillPolygon rasterizes a closed polygon onto dst with anti-aliasing. The
// rasterizer only covers the polygon's bounding box clipped to dst.
func fillPolygon(dst *image.RGBA, pts []geometry.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	bounds := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	bounds = bounds.Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(pts[0].X)-ox, float32(pts[0].Y)-oy)
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X)-ox, float32(p.Y)-oy)
	}
	z.ClosePath()
	z.Draw(dst, bounds, image.NewUniform(col), image.Point{})
}

// fillCircle draws an anti-aliased disc centred at (cx, cy).
func fillCircle(dst *image.RGBA, cx, cy, r float64, col color.Color) {
	steps := max(16, int(math.Ceil(2*math.Pi*r/2)))
	pts := make([]geometry.Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(steps)
		pts[i] = geometry.Pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	fillPolygon(dst, pts, col)
}

// strokeLine draws a segment of the given width as a filled quad.
func strokeLine(dst *image.RGBA, s geometry.Segment, width float64, col color.Color) {
	dx, dy := s.X2-s.X1, s.Y2-s.Y1
	l := math.Hypot(dx, dy)
	if l == 0 {
		fillCircle(dst, s.X1, s.Y1, width/2, col)
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	fillPolygon(dst, []geometry.Point{
		{X: s.X1 + nx, Y: s.Y1 + ny},
		{X: s.X2 + nx, Y: s.Y2 + ny},
		{X: s.X2 - nx, Y: s.Y2 - ny},
		{X: s.X1 - nx, Y: s.Y1 - ny},
	}, col)
}

// arrowHead fills the triangular head of an arrow pointing at the second
// endpoint. The head size grows with the stroke width.
func arrowHead(dst *image.RGBA, s geometry.Segment, width float64, col color.Color) {
	angle := math.Atan2(s.Y2-s.Y1, s.X2-s.X1)
	size := 6 + width*3
	a1 := angle + math.Pi/6
	a2 := angle - math.Pi/6
	fillPolygon(dst, []geometry.Point{
		{X: s.X2, Y: s.Y2},
		{X: s.X2 - math.Cos(a1)*size, Y: s.Y2 - math.Sin(a1)*size},
		{X: s.X2 - math.Cos(a2)*size, Y: s.Y2 - math.Sin(a2)*size},
	}, col)
}

// arrowShaft shortens a segment so a thick stroke does not poke through the
// tip of its head.
func arrowShaft(s geometry.Segment, width float64) geometry.Segment {
	l := s.Length()
	cut := (6 + width*3) * math.Cos(math.Pi/6) * 0.8
	if l <= cut {
		return geometry.Segment{X1: s.X1, Y1: s.Y1, X2: s.X1, Y2: s.Y1}
	}
	k := (l - cut) / l
	return geometry.Segment{X1: s.X1, Y1: s.Y1, X2: s.X1 + (s.X2-s.X1)*k, Y2: s.Y1 + (s.Y2-s.Y1)*k}
}

// fillRect blends col over r.
func fillRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// dashedRect strokes the outline of r with dashes of length on separated by
// gaps of length off. The stroke is centred on the rectangle edge.
func dashedRect(dst *image.RGBA, r image.Rectangle, on, off, thick int, col color.Color) {
	if on <= 0 {
		on = 1
	}
	half := thick / 2
	period := on + max(off, 0)
	// top and bottom run left to right, left and right run top to bottom
	for x := r.Min.X; x < r.Max.X; x += period {
		end := min(x+on, r.Max.X)
		fillRect(dst, image.Rect(x, r.Min.Y-half, end, r.Min.Y-half+thick), col)
		fillRect(dst, image.Rect(x, r.Max.Y-half, end, r.Max.Y-half+thick), col)
	}
	for y := r.Min.Y; y < r.Max.Y; y += period {
		end := min(y+on, r.Max.Y)
		fillRect(dst, image.Rect(r.Min.X-half, y, r.Min.X-half+thick, end), col)
		fillRect(dst, image.Rect(r.Max.X-half, y, r.Max.X-half+thick, end), col)
	}
}

// withAlpha returns col with its alpha replaced, premultiplied.
func withAlpha(col color.RGBA, a uint8) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(col.R) * uint16(a) / 255),
		G: uint8(uint16(col.G) * uint16(a) / 255),
		B: uint8(uint16(col.B) * uint16(a) / 255),
		A: a,
	}
}

// contrastText picks black or white text for a fill colour.
func contrastText(col color.Color) color.Color {
	cr, cg, cb, _ := col.RGBA()
	brightness := 0.299*float64(cr>>8) + 0.587*float64(cg>>8) + 0.114*float64(cb>>8)
	if brightness < 160 {
		return color.White
	}
	return color.Black
}
