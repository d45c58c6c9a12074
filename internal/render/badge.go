package render

import (
	"image"
	"image/color"
	"log"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	badgeFaces   = map[int]font.Face{}
	badgeFacesMu sync.Mutex
	badgeFont    *opentype.Font
	badgeFontErr error
	badgeOnce    sync.Once
)

// badgeFace returns a bold face for badge digits at px pixels, falling back
// to basicfont when the embedded font cannot be parsed.
func badgeFace(px int) font.Face {
	badgeOnce.Do(func() {
		badgeFont, badgeFontErr = opentype.Parse(gobold.TTF)
		if badgeFontErr != nil {
			log.Printf("parse badge font: %v", badgeFontErr)
		}
	})
	if badgeFont == nil {
		return basicfont.Face7x13
	}
	badgeFacesMu.Lock()
	defer badgeFacesMu.Unlock()
	if f, ok := badgeFaces[px]; ok {
		return f
	}
	f, err := opentype.NewFace(badgeFont, &opentype.FaceOptions{Size: float64(px), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("badge face: %v", err)
		return basicfont.Face7x13
	}
	badgeFaces[px] = f
	return f
}

// drawBadge draws a numbered disc of radius r centred at (cx, cy).
func drawBadge(dst *image.RGBA, cx, cy, r float64, num int, col color.Color) {
	fillCircle(dst, cx, cy, r, col)

	text := strconv.Itoa(num)
	face := badgeFace(int(r))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(contrastText(col)),
		Face: face,
	}
	w := d.MeasureString(text)
	m := face.Metrics()
	// centre the ascent box vertically on cy
	baseline := fixed.Int26_6(cy*64) + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(cx*64) - w/2, Y: baseline}
	d.DrawString(text)
}
