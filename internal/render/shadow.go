package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Shadow describes a soft drop shadow placed behind an exported composite.
// A zero Opacity disables it.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow is a shadow that suits most screenshots.
func DefaultShadow() Shadow {
	return Shadow{Radius: 16, Offset: image.Pt(10, 10), Opacity: 0.5}
}

// DropShadow returns img on a canvas grown to fit a blurred copy of its
// alpha, offset by s.Offset. The second result is where img's top-left
// corner landed. A disabled shadow returns img unchanged.
func DropShadow(img *image.RGBA, s Shadow) (*image.RGBA, image.Point) {
	b := img.Bounds()
	if b.Empty() || s.Opacity <= 0 {
		return img, image.Point{}
	}
	op := min(s.Opacity, 1)
	r := max(s.Radius, 0)

	footprint := b.Inset(-r).Add(s.Offset)
	canvas := b.Union(footprint)
	dst := image.NewRGBA(canvas.Sub(canvas.Min))

	mask := image.NewAlpha(image.Rect(0, 0, footprint.Dx(), footprint.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := float64(img.RGBAAt(x, y).A) * op
			mask.SetAlpha(x-b.Min.X+r, y-b.Min.Y+r, color.Alpha{A: uint8(a + 0.5)})
		}
	}
	if r > 1 {
		mask = soften(mask, r)
	}
	draw.DrawMask(dst, footprint.Sub(canvas.Min), image.Black, image.Point{}, mask, image.Point{}, draw.Over)

	at := b.Min.Sub(canvas.Min)
	draw.Draw(dst, b.Sub(canvas.Min), img, b.Min, draw.Over)
	return dst, at
}

// soften blurs m by shrinking it r times and scaling it back up.
func soften(m *image.Alpha, r int) *image.Alpha {
	b := m.Bounds()
	small := image.NewAlpha(image.Rect(0, 0, max(1, b.Dx()/r), max(1, b.Dy()/r)))
	xdraw.CatmullRom.Scale(small, small.Bounds(), m, b, xdraw.Src, nil)
	out := image.NewAlpha(b)
	xdraw.BiLinear.Scale(out, b, small, small.Bounds(), xdraw.Src, nil)
	return out
}
