package textblock

import (
	"strings"
	"testing"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/layers"
)

func item(index int, k annotate.Kind, note string) annotate.Item {
	a := annotate.Annotation{Index: index, Kind: k, Note: note, Rect: geometry.Rect{X: 10.4, Y: 20.6, Width: 100, Height: 50}}
	if k.Segmented() {
		a.Seg = geometry.Segment{X1: 1, Y1: 2, X2: 30.5, Y2: 40}
	}
	return annotate.Item{Annotation: a, Label: k.Label()}
}

func TestAnnotations(t *testing.T) {
	items := []annotate.Item{
		item(1, annotate.Box, "  header is misaligned "),
		item(2, annotate.Blur, "secret"),
		item(3, annotate.Arrow, ""),
		item(4, annotate.Line, "divider"),
	}
	got := Annotations(items, geometry.Size{W: 800, H: 600.4}, Options{})
	want := "\n## Annotations\n\n" +
		"Image dimensions: 800×600px\n\n" +
		"- **[1]** at (x:10px y:21px w:100px h:50px) — header is misaligned\n" +
		"- **[3]** arrow from (1,2) to (31,40)\n" +
		"- **[4]** line from (1,2) to (31,40) — divider\n"
	if got != want {
		t.Fatalf("Annotations =\n%q\nwant\n%q", got, want)
	}
}

func TestAnnotationsOnlyBlur(t *testing.T) {
	items := []annotate.Item{item(1, annotate.Blur, ""), item(2, annotate.Blur, "x")}
	if got := Annotations(items, geometry.Size{W: 10, H: 10}, Options{}); got != "" {
		t.Fatalf("Annotations = %q, want empty", got)
	}
	if got := Annotations(nil, geometry.Size{}, Options{}); got != "" {
		t.Fatalf("Annotations(nil) = %q", got)
	}
}

func TestAnnotationsSkipDimensions(t *testing.T) {
	got := Annotations([]annotate.Item{item(2, annotate.Box, "")}, geometry.Size{W: 5, H: 5}, Options{SkipDimensions: true})
	want := "\n## Annotations\n\n- **[2]** at (x:10px y:21px w:100px h:50px)\n"
	if got != want {
		t.Fatalf("Annotations = %q, want %q", got, want)
	}
}

func TestImages(t *testing.T) {
	ls := []layers.Layer{
		{Number: 1, Width: 100, Height: 200},
		{Number: 3, Width: 150, Height: 100, X: 20, Y: 20, Note: "after"},
	}
	got := Images(ls, geometry.Size{W: 170, H: 200})
	want := "\n## Images (canvas: 170×200px)\n\n" +
		"- **[Image 1]** 100×200px at (0, 0)\n" +
		"- **[Image 3]** 150×100px at (20, 20) — after\n"
	if got != want {
		t.Fatalf("Images =\n%q\nwant\n%q", got, want)
	}
	if got := Images(nil, geometry.Size{}); got != "" {
		t.Fatalf("Images(nil) = %q", got)
	}
}

func TestRoundHalvesUp(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want int
	}{
		{2.5, 3},
		{-2.5, -2},
		{-2.6, -3},
		{-0.5, 0},
		{10.4, 10},
	} {
		if got := round(tc.in); got != tc.want {
			t.Errorf("round(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestImagesNegativeHalfPosition(t *testing.T) {
	ls := []layers.Layer{{Number: 1, Width: 10, Height: 10, X: -4.5, Y: -0.5}}
	got := Images(ls, geometry.Size{W: 10, H: 10})
	want := "- **[Image 1]** 10×10px at (-4, 0)\n"
	if !strings.HasSuffix(got, want) {
		t.Fatalf("Images = %q, want suffix %q", got, want)
	}
}
