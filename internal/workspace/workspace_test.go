package workspace

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/config"
	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/interact"
	"github.com/example/snapnote/internal/layers"
	"github.com/example/snapnote/internal/render"
	"github.com/example/snapnote/internal/viewport"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newWorkspace(t *testing.T, opts ...Option) *Workspace {
	t.Helper()
	w := New(opts...)
	t.Cleanup(w.Close)
	return w
}

func stubClipboard(t *testing.T) (*[]byte, *[]string) {
	t.Helper()
	var img []byte
	var texts []string
	prevPNG, prevText := writeClipboardPNG, writeClipboardText
	writeClipboardPNG = func(data []byte) error { img = data; return nil }
	writeClipboardText = func(s string) error { texts = append(texts, s); return nil }
	t.Cleanup(func() { writeClipboardPNG, writeClipboardText = prevPNG, prevText })
	return &img, &texts
}

func TestSingleImageWithBoxAndBlur(t *testing.T) {
	w := newWorkspace(t)
	w.AddImage(gradient(100, 200))
	if got := w.Layers.Bounds(); got != (geometry.Size{W: 100, H: 200}) {
		t.Fatalf("bounds = %+v", got)
	}

	box := geometry.Rect{X: 50, Y: 100, Width: 200, Height: 150}
	w.Annotations.Add(box)
	items := w.Annotations.Unified()
	if len(items) != 1 || items[0].Kind != annotate.Box || items[0].Index != 1 || items[0].Rect != box {
		t.Fatalf("unified = %+v", items)
	}

	w.Annotations.AddBlur(geometry.Rect{Width: 40, Height: 40})
	img := w.Composite()
	orig := gradient(100, 200)
	changed := false
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if img.RGBAAt(x, y) != orig.RGBAAt(x, y) {
				changed = true
			}
		}
	}
	if !changed {
		t.Fatalf("blur region was not redacted")
	}
	// the badge sits in the top-left corner; the far cell is clear of it
	want := img.RGBAAt(30, 30)
	for y := 30; y < 36; y++ {
		for x := 30; x < 36; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("cell at (30,30) not uniform: (%d,%d)=%v want %v", x, y, got, want)
			}
		}
	}

	text := w.AnnotationText()
	if strings.Contains(text, "[2]") {
		t.Fatalf("blur item leaked into text:\n%s", text)
	}
	if !strings.Contains(text, "- **[1]** at (x:50px y:100px w:200px h:150px)") {
		t.Fatalf("box item missing:\n%s", text)
	}
	if !strings.Contains(text, "Image dimensions: 100×200px") {
		t.Fatalf("dimensions missing:\n%s", text)
	}
}

func TestStaggerAndRemove(t *testing.T) {
	w := newWorkspace(t)
	first := w.AddImage(gradient(100, 200))
	second := w.AddImage(gradient(150, 100))
	l, _ := w.Layers.Get(second)
	if l.X != layers.DefaultStagger || l.Y != layers.DefaultStagger {
		t.Fatalf("second layer at (%v,%v)", l.X, l.Y)
	}
	w.Layers.Remove(first)
	want := geometry.Size{W: 150 + layers.DefaultStagger, H: 100 + layers.DefaultStagger}
	if got := w.Layers.Bounds(); got != want {
		t.Fatalf("bounds after remove = %+v, want %+v", got, want)
	}
	if got := w.Composite().Bounds(); got != image.Rect(0, 0, 170, 120) {
		t.Fatalf("composite bounds = %v", got)
	}
}

func TestAddImageDataDecodesAsync(t *testing.T) {
	w := newWorkspace(t)
	red := color.RGBA{R: 255, A: 255}
	id, err := w.AddImageData(encodePNG(t, solid(30, 20, red)))
	if err != nil {
		t.Fatalf("AddImageData: %v", err)
	}
	if w.Pending() != 1 || w.Layers.Bounds() != (geometry.Size{W: 30, H: 20}) {
		t.Fatalf("pending=%d bounds=%+v", w.Pending(), w.Layers.Bounds())
	}
	if w.Composite().RGBAAt(5, 5).A != 0 {
		t.Fatalf("pending layer should render transparent")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.WaitDecoded(ctx); err != nil {
		t.Fatalf("WaitDecoded: %v", err)
	}
	if w.Layers.Pixels(id) == nil || w.Pending() != 0 {
		t.Fatalf("pixels not attached")
	}
	if got := w.Composite().RGBAAt(5, 5); got != red {
		t.Fatalf("decoded pixel = %v", got)
	}
}

func TestFailedDecodeRemovesLayer(t *testing.T) {
	w := newWorkspace(t)
	data := encodePNG(t, gradient(40, 40))
	if _, err := w.AddImageData(data[:len(data)-20]); err != nil {
		t.Fatalf("AddImageData: %v", err)
	}
	if w.Layers.Len() != 1 {
		t.Fatalf("placeholder layer missing")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.WaitDecoded(ctx); err == nil {
		t.Fatalf("expected decode error")
	}
	if w.Layers.Len() != 0 || w.Layers.Bounds() != (geometry.Size{}) {
		t.Fatalf("failed layer should be removed, len=%d", w.Layers.Len())
	}
}

func TestAddImageDataRejectsUnknownFormat(t *testing.T) {
	w := newWorkspace(t)
	if _, err := w.AddImageData([]byte("plain text")); err == nil {
		t.Fatalf("expected error")
	}
	if w.Layers.Len() != 0 {
		t.Fatalf("no layer should be added")
	}
}

func TestCompositeCache(t *testing.T) {
	w := newWorkspace(t)
	w.AddImage(gradient(50, 50))
	a := w.Composite()
	if b := w.Composite(); a != b {
		t.Fatalf("unchanged workspace should reuse the composite")
	}
	w.Annotations.Add(geometry.Rect{X: 5, Y: 5, Width: 20, Height: 20})
	b := w.Composite()
	if a == b {
		t.Fatalf("annotation change should invalidate the cache")
	}
	w.SetShowImageIDs(false)
	if c := w.Composite(); c == b {
		t.Fatalf("toggle should invalidate the cache")
	}
}

func TestPromptTextImageMeta(t *testing.T) {
	w := newWorkspace(t)
	first := w.AddImage(gradient(10, 10))
	w.AddImage(gradient(10, 10))
	w.SetLayerNote(first, "before")
	w.Annotations.Add(geometry.Rect{Width: 6, Height: 6})

	if strings.Contains(w.PromptText(), "## Images") {
		t.Fatalf("image block should be off by default")
	}
	w.SetIncludeImageMeta(true)
	text := w.PromptText()
	if !strings.Contains(text, "## Annotations") || !strings.Contains(text, "- **[Image 1]** 10×10px at (0, 0) — before") {
		t.Fatalf("prompt text:\n%s", text)
	}
}

func TestUndoPolicy(t *testing.T) {
	w := newWorkspace(t)
	w.AddImage(gradient(10, 10))
	w.Annotations.Add(geometry.Rect{Width: 6, Height: 6})

	if ann, img := w.CanUndo(); !ann || !img {
		t.Fatalf("CanUndo = %v, %v", ann, img)
	}
	if !w.Undo() || w.Annotations.Len() != 0 || w.Layers.Len() != 1 {
		t.Fatalf("first undo should revert the annotation")
	}
	if !w.Undo() || w.Layers.Len() != 0 {
		t.Fatalf("second undo should revert the image")
	}
	if w.Undo() {
		t.Fatalf("nothing left to undo")
	}
	if !w.Redo() || w.Annotations.Len() != 1 {
		t.Fatalf("redo should restore the annotation first")
	}
	if ann, img := w.CanRedo(); ann || !img {
		t.Fatalf("CanRedo = %v, %v", ann, img)
	}
}

func TestColorPick(t *testing.T) {
	_, texts := stubClipboard(t)
	var picked string
	w := newWorkspace(t, WithPickCallback(func(hex string) { picked = hex }))
	w.AddImage(solid(100, 200, color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}))
	w.View.SetViewport(0, 0, 1000, 1000)
	w.Controller.SetColorPick(true)

	var x, y float64 = 5 + viewport.DefaultPadding, 5 + viewport.DefaultPadding
	w.Controller.PointerMove(interact.PointerEvent{X: x, Y: y})
	if w.HoverColor() != "#123456" {
		t.Fatalf("hover = %q", w.HoverColor())
	}
	w.Controller.PointerDown(interact.PointerEvent{X: x, Y: y, Button: interact.ButtonLeft})
	if picked != "#123456" || len(*texts) != 1 || (*texts)[0] != "#123456" {
		t.Fatalf("picked = %q, clipboard = %v", picked, *texts)
	}
	if w.Annotations.Len() != 0 {
		t.Fatalf("colour pick must not draw")
	}
}

func TestSaveAndCopy(t *testing.T) {
	img, texts := stubClipboard(t)
	dir := t.TempDir()
	cfg := config.New()
	cfg.SaveDir = dir
	w := newWorkspace(t, WithConfig(cfg))
	w.AddImage(gradient(12, 8))

	path, err := w.Save("")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, config.DefaultOutput) {
		t.Fatalf("path = %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil || decoded.Bounds().Dx() != 12 {
		t.Fatalf("saved image: %v %v", decoded, err)
	}

	if err := w.CopyImage(); err != nil || len(*img) == 0 {
		t.Fatalf("CopyImage: %v", err)
	}
	if ok, err := w.CopyText(); ok || err != nil {
		t.Fatalf("CopyText with no annotations = %v, %v", ok, err)
	}
	w.Annotations.AddLine(geometry.Segment{X1: 1, Y1: 1, X2: 10, Y2: 1})
	if ok, err := w.CopyText(); !ok || err != nil || !strings.Contains((*texts)[0], "line from (1,1) to (10,1)") {
		t.Fatalf("CopyText = %v, %v, %v", ok, err, *texts)
	}

	writeClipboardPNG = func([]byte) error { return errors.New("no display") }
	if err := w.CopyImage(); err == nil {
		t.Fatalf("expected clipboard error")
	}
}

func TestExportShadow(t *testing.T) {
	img, _ := stubClipboard(t)
	w := newWorkspace(t, WithExportShadow(render.Shadow{Radius: 4, Offset: image.Pt(6, 6), Opacity: 0.5}))
	w.AddImage(solid(20, 10, color.RGBA{G: 255, A: 255}))
	if err := w.CopyImage(); err != nil {
		t.Fatalf("CopyImage: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(*img))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 30 || cfg.Height != 20 {
		t.Fatalf("exported size = %dx%d, want 30x20", cfg.Width, cfg.Height)
	}
	if b := w.Composite().Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("composite grew to %v", b)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := config.New()
	cfg.Canvas.Stagger = 7
	cfg.Canvas.History = 3
	cfg.Render.ShowImageIDs = false
	cfg.Render.IncludeImageMeta = true
	w := newWorkspace(t, WithConfig(cfg))
	w.AddImage(gradient(5, 5))
	id := w.AddImage(gradient(5, 5))
	l, _ := w.Layers.Get(id)
	if l.X != 7 {
		t.Fatalf("stagger = %v", l.X)
	}
	if w.ShowImageIDs() || !w.IncludeImageMeta() {
		t.Fatalf("render toggles not applied")
	}
	for i := 0; i < 5; i++ {
		w.AddImage(gradient(5, 5))
	}
	undos := 0
	for w.Layers.Undo() {
		undos++
	}
	if undos != 2 {
		t.Fatalf("undo depth = %d, want 2 with history 3", undos)
	}
}

func TestReset(t *testing.T) {
	w := newWorkspace(t)
	w.AddImage(gradient(5, 5))
	w.Annotations.Add(geometry.Rect{Width: 6, Height: 6})
	w.Reset()
	if w.Layers.Len() != 0 || w.Annotations.Len() != 0 || w.Undo() {
		t.Fatalf("reset should clear stores and history")
	}
}
