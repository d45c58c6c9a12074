// Package textblock renders markdown blocks describing the annotations and
// image layers of a composite, for pasting next to the exported image.
package textblock

import (
	"fmt"
	"math"
	"strings"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/layers"
)

// Options tweaks the annotation block.
type Options struct {
	// SkipDimensions omits the "Image dimensions" line.
	SkipDimensions bool
}

// round breaks ties towards positive infinity, so -2.5 becomes -2.
func round(v float64) int { return int(math.Floor(v + 0.5)) }

func noteSuffix(note string) string {
	if n := strings.TrimSpace(note); n != "" {
		return " — " + n
	}
	return ""
}

// Annotations lists every non-redaction annotation with its index, geometry
// and note. It returns "" when nothing but blur regions remain. A zero size
// suppresses the dimensions line.
func Annotations(items []annotate.Item, size geometry.Size, opts Options) string {
	var b strings.Builder
	n := 0
	for _, it := range items {
		if it.Kind == annotate.Blur {
			continue
		}
		if n == 0 {
			b.WriteString("\n## Annotations\n\n")
			if !opts.SkipDimensions && size != (geometry.Size{}) {
				fmt.Fprintf(&b, "Image dimensions: %d×%dpx\n\n", round(size.W), round(size.H))
			}
		}
		n++
		describe(&b, it.Annotation)
		b.WriteString(noteSuffix(it.Note))
		b.WriteByte('\n')
	}
	return b.String()
}

func describe(b *strings.Builder, a annotate.Annotation) {
	switch a.Kind {
	case annotate.Arrow, annotate.Line:
		fmt.Fprintf(b, "- **[%d]** %s from (%d,%d) to (%d,%d)", a.Index, a.Kind,
			round(a.Seg.X1), round(a.Seg.Y1), round(a.Seg.X2), round(a.Seg.Y2))
	default:
		fmt.Fprintf(b, "- **[%d]** at (x:%dpx y:%dpx w:%dpx h:%dpx)", a.Index,
			round(a.Rect.X), round(a.Rect.Y), round(a.Rect.Width), round(a.Rect.Height))
	}
}

// Images lists the image layers with their display number, size, position
// and note. The header carries the canvas size when it is known.
func Images(ls []layers.Layer, size geometry.Size) string {
	if len(ls) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n## Images")
	if size != (geometry.Size{}) {
		fmt.Fprintf(&b, " (canvas: %d×%dpx)", round(size.W), round(size.H))
	}
	b.WriteString("\n\n")
	for _, l := range ls {
		fmt.Fprintf(&b, "- **[Image %d]** %d×%dpx at (%d, %d)", l.Number, l.Width, l.Height, round(l.X), round(l.Y))
		b.WriteString(noteSuffix(l.Note))
		b.WriteByte('\n')
	}
	return b.String()
}
