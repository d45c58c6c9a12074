// Package geometry holds the pure helpers shared by the layer, annotation and
// rendering code. Everything here works in composite-pixel space.
package geometry

import (
	"image"
	"math"
)

// Point is a position in composite-pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Rect is an axis aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Segment is a pair of endpoints used by line and arrow annotations.
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RectFromPoints returns the rectangle spanning the two corners in any order.
func RectFromPoints(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

// Bounds returns the axis aligned box spanning both endpoints.
func (s Segment) Bounds() Rect {
	return RectFromPoints(s.X1, s.Y1, s.X2, s.Y2)
}

// Length is the Euclidean distance between the endpoints.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// Translate shifts both endpoints.
func (s Segment) Translate(dx, dy float64) Segment {
	return Segment{X1: s.X1 + dx, Y1: s.Y1 + dy, X2: s.X2 + dx, Y2: s.Y2 + dy}
}

// Translate shifts the rectangle.
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside r. Edges are inclusive so a press on
// the border of a layer still grabs it.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Image converts r to integer pixel bounds, rounding outward.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())),
		int(math.Ceil(r.Bottom())),
	)
}

// Union returns the tight bounding box of the rectangles. An empty input
// yields the zero Rect.
func Union(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Extent returns the size of the canvas needed to hold every rectangle when
// the canvas origin is fixed at (0, 0). Rectangles are expected to have
// non-negative positions.
func Extent(rects []Rect) Size {
	var s Size
	for _, r := range rects {
		s.W = math.Max(s.W, r.Right())
		s.H = math.Max(s.H, r.Bottom())
	}
	return s
}

// SnapToAxis returns a new end point at the same distance from the start as
// (endX, endY) with its direction rounded to the nearest 45 degree step.
func SnapToAxis(startX, startY, endX, endY float64) (float64, float64) {
	dx := endX - startX
	dy := endY - startY
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return endX, endY
	}
	const step = math.Pi / 4
	angle := math.Round(math.Atan2(dy, dx)/step) * step
	return startX + dist*math.Cos(angle), startY + dist*math.Sin(angle)
}
