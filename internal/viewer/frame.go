package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/theme"
)

const (
	statusHeight = 24
	checkerSize  = 8
)

var (
	statusFaceOnce sync.Once
	statusFace     font.Face = basicfont.Face7x13
)

func loadStatusFace() font.Face {
	statusFaceOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("parse status font: %v", err)
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 13, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("status face: %v", err)
			return
		}
		statusFace = face
	})
	return statusFace
}

// frameState is everything drawFrame needs. It is a value so the event loop
// can hand it over without sharing mutable state.
type frameState struct {
	width, height int
	theme         *theme.Theme
	composite     *image.RGBA
	// display is the client rectangle the composite is scaled into.
	display   geometry.Rect
	selection []geometry.Rect
	status    string
	message   string
	note      string
	editing   bool
}

// canvasViewport is the client area available to the composite.
func canvasViewport(width, height int) image.Rectangle {
	return image.Rect(0, 0, width, max(0, height-statusHeight))
}

func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Over)
}

func clientRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	)
}

// drawFrame paints one window frame into dst.
func drawFrame(dst *image.RGBA, st frameState) {
	th := st.theme
	if th == nil {
		th = theme.Default()
	}
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(th.Background), image.Point{}, draw.Src)

	canvas := canvasViewport(b.Dx(), b.Dy())
	if st.composite != nil && !st.composite.Bounds().Empty() {
		target := clientRect(st.display)
		vis := target.Intersect(canvas)
		if !vis.Empty() {
			drawCheckerboard(dst, vis, checkerSize, th.CheckerLight, th.CheckerDark)
			clip := dst.SubImage(vis).(*image.RGBA)
			xdraw.ApproxBiLinear.Scale(clip, target, st.composite, st.composite.Bounds(), draw.Over, nil)
		}
		for _, r := range st.selection {
			sel := clientRect(r).Inset(-2).Intersect(canvas)
			if !sel.Empty() {
				drawRect(dst, sel, th.Selection, 2)
			}
		}
	}

	bar := image.Rect(0, b.Dy()-statusHeight, b.Dx(), b.Dy())
	draw.Draw(dst, bar, image.NewUniform(th.StatusBar), image.Point{}, draw.Src)
	text := st.status
	if st.editing {
		text = "note: " + st.note + "|"
	} else if st.message != "" {
		text = st.message
	}
	face := loadStatusFace()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: face}
	m := face.Metrics()
	y := bar.Min.Y + (statusHeight+m.Ascent.Ceil()-m.Descent.Ceil())/2
	d.Dot = fixed.P(8, y)
	d.DrawString(text)
}
