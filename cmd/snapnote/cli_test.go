package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/config"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func testRoot() *root {
	return &root{program: "snapnote", config: config.New()}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		name    string
		kind    annotate.Kind
		in      string
		want    shapeArg
		wantErr bool
	}{
		{"box", annotate.Box, "1,2,30,40", shapeArg{kind: annotate.Box, vals: [4]float64{1, 2, 30, 40}}, false},
		{"box note", annotate.Box, "1,2,30,40: login button ", shapeArg{kind: annotate.Box, vals: [4]float64{1, 2, 30, 40}, note: "login button"}, false},
		{"note with colon", annotate.Arrow, "0,0,5,5:a:b", shapeArg{kind: annotate.Arrow, vals: [4]float64{0, 0, 5, 5}, note: "a:b"}, false},
		{"zero width", annotate.Blur, "1,2,0,40", shapeArg{}, true},
		{"zero length line", annotate.Line, "1,1,1,1", shapeArg{kind: annotate.Line, vals: [4]float64{1, 1, 1, 1}}, false},
		{"too few", annotate.Box, "1,2,3", shapeArg{}, true},
		{"not a number", annotate.Box, "1,2,x,4", shapeArg{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseShape(tc.kind, tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPlacementAndNoteFlags(t *testing.T) {
	var ps []placement
	if err := (placementList{&ps}).Set("2=10.5,20"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(ps) != 1 || ps[0] != (placement{number: 2, x: 10.5, y: 20}) {
		t.Fatalf("placements = %+v", ps)
	}
	for _, bad := range []string{"2:10,20", "0=1,1", "x=1,1", "1=1"} {
		if err := (placementList{&ps}).Set(bad); err == nil {
			t.Errorf("Set(%q) succeeded", bad)
		}
	}
	var ns []layerNote
	if err := (layerNoteList{&ns}).Set("1= after the fix"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ns[0] != (layerNote{number: 1, text: "after the fix"}) {
		t.Fatalf("notes = %+v", ns)
	}
}

func TestShapeFlagsKeepOrder(t *testing.T) {
	c, err := parseComposeCmd([]string{"-arrow", "0,0,5,5", "-box", "1,1,4,4", "-line", "2,2,9,9", "a.png"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var kinds []annotate.Kind
	for _, s := range c.shapes {
		kinds = append(kinds, s.kind)
	}
	want := []annotate.Kind{annotate.Arrow, annotate.Box, annotate.Line}
	for i := range want {
		if i >= len(kinds) || kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestComposeRequiresInput(t *testing.T) {
	_, err := parseComposeCmd(nil, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "snapnote compose") {
		t.Fatalf("usage text = %q", uerr.Error())
	}
	if _, err := parseComposeCmd([]string{"-copy-text", "a.png"}, testRoot()); err == nil {
		t.Fatalf("-copy-text without -to-clipboard accepted")
	}
}

func TestComposeWritesStackedPNG(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	a := writePNG(t, dir, "a.png", 100, 200, red)
	b := writePNG(t, dir, "b.png", 150, 100, blue)
	out := filepath.Join(dir, "out.png")

	c, err := parseComposeCmd([]string{"-output", out, "-ids=false", "-blur", "0,150,40,40", a, b}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 170, 200) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := color.RGBAModel.Convert(img.At(50, 50)); got != blue {
		t.Fatalf("overlap pixel = %v, want top image", got)
	}
	if got := color.RGBAModel.Convert(img.At(160, 150)); got.(color.RGBA).A != 0 {
		t.Fatalf("uncovered pixel = %v", got)
	}
}

func TestComposePlacement(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 100, 200, color.RGBA{255, 0, 0, 255})
	b := writePNG(t, dir, "b.png", 150, 100, color.RGBA{0, 0, 255, 255})
	out := filepath.Join(dir, "out.png")

	c, err := parseComposeCmd([]string{"-output", out, "-at", "2=0,0", a, b}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 150 || cfg.Height != 200 {
		t.Fatalf("size = %dx%d, want 150x200", cfg.Width, cfg.Height)
	}

	c, err = parseComposeCmd([]string{"-output", out, "-at", "3=0,0", a, b}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "no image 3") {
		t.Fatalf("expected missing image error, got %v", err)
	}
}

func TestComposeShadow(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 40, 30, color.RGBA{255, 0, 0, 255})
	out := filepath.Join(dir, "out.png")
	c, err := parseComposeCmd([]string{"-output", out, "-shadow", a}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width <= 40 || cfg.Height <= 30 {
		t.Fatalf("shadow did not grow the canvas: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestComposeMissingFile(t *testing.T) {
	c, err := parseComposeCmd([]string{"-output", filepath.Join(t.TempDir(), "o.png"), "missing.png"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "add missing.png") {
		t.Fatalf("expected add error context, got %v", err)
	}
}

func TestTextPrintsBlocks(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 100, 200, color.RGBA{255, 255, 255, 255})
	b := writePNG(t, dir, "b.png", 150, 100, color.RGBA{255, 255, 255, 255})

	cmd, err := parseTextCmd([]string{"-meta", "-note", "2=after", "-box", "10,20,100,50:header", "-blur", "0,0,10,10", a, b}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	cmd.stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "\n## Annotations\n\n" +
		"Image dimensions: 170×200px\n\n" +
		"- **[1]** at (x:10px y:20px w:100px h:50px) — header\n" +
		"\n## Images (canvas: 170×200px)\n\n" +
		"- **[Image 1]** 100×200px at (0, 0)\n" +
		"- **[Image 2]** 150×100px at (20, 20) — after\n"
	if got := out.String(); got != want {
		t.Fatalf("text =\n%q\nwant\n%q", got, want)
	}
}

func TestTextOnlyBlurPrintsNothing(t *testing.T) {
	cmd, err := parseTextCmd([]string{"-blur", "0,0,10,10"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	cmd.stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRootUsage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SNAPNOTE_THEME", "")
	r := newRoot()
	var uerr *UsageError
	if err := r.Run([]string{"nope"}); !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if help := uerr.Error(); !strings.Contains(help, "compose") || !strings.Contains(help, "-theme") {
		t.Fatalf("help = %q", help)
	}
}
