package render

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultMosaicMinCell is the smallest mosaic cell edge in pixels.
const DefaultMosaicMinCell = 6

// MosaicCell returns the cell edge used for a region of the given size: a
// tenth of the shorter side, never below minCell.
func MosaicCell(r image.Rectangle, minCell int) int {
	if minCell < 1 {
		minCell = 1
	}
	return max(minCell, min(r.Dx(), r.Dy())/10)
}

// Mosaic replaces the pixels of img inside r with cell averages. The region
// is clipped to the image first, so partially off-canvas regions are fine.
// Cells are aligned to the region's top-left corner; the last row and column
// may be narrower.
func Mosaic(img *image.RGBA, r image.Rectangle, minCell int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	cell := MosaicCell(r, minCell)
	for y0 := r.Min.Y; y0 < r.Max.Y; y0 += cell {
		for x0 := r.Min.X; x0 < r.Max.X; x0 += cell {
			c := image.Rect(x0, y0, min(x0+cell, r.Max.X), min(y0+cell, r.Max.Y))
			draw.Draw(img, c, image.NewUniform(averageRGBA(img, c)), image.Point{}, draw.Src)
		}
	}
}

// averageRGBA averages the premultiplied channels of img over r.
func averageRGBA(img *image.RGBA, r image.Rectangle) color.RGBA {
	var sr, sg, sb, sa, n uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			sr += uint64(img.Pix[i])
			sg += uint64(img.Pix[i+1])
			sb += uint64(img.Pix[i+2])
			sa += uint64(img.Pix[i+3])
			i += 4
			n++
		}
	}
	if n == 0 {
		return color.RGBA{}
	}
	return color.RGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: uint8(sa / n)}
}
