// Package workspace owns one editing session: the layer and annotation
// stores, the view transform, the interaction controller and the cached
// composite. Every session is independent; nothing is shared at package
// level.
package workspace

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/clipboard"
	"github.com/example/snapnote/internal/config"
	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/history"
	"github.com/example/snapnote/internal/interact"
	"github.com/example/snapnote/internal/layers"
	"github.com/example/snapnote/internal/notify"
	"github.com/example/snapnote/internal/render"
	"github.com/example/snapnote/internal/source"
	"github.com/example/snapnote/internal/textblock"
	"github.com/example/snapnote/internal/viewport"
)

// Settings are the construction-time knobs of a workspace.
type Settings struct {
	Viewport       viewport.Config
	Render         render.Options
	Stagger        float64
	HistoryLimit   int
	MinDraw        float64
	IncludeMeta    bool
	DecodeWorkers  int
	DefaultOutput  string
	SaveDir        string
	Notifier       *notify.Notifier
	PickedCallback func(hex string)

	// ExportShadow is drawn behind saved and copied images only.
	ExportShadow render.Shadow
}

// DefaultSettings mirrors the stock editor behaviour.
func DefaultSettings() Settings {
	return Settings{
		Render:        render.DefaultOptions(),
		Stagger:       layers.DefaultStagger,
		HistoryLimit:  history.DefaultCapacity,
		MinDraw:       interact.DefaultMinDraw,
		DecodeWorkers: runtime.NumCPU(),
		DefaultOutput: config.DefaultOutput,
	}
}

// Option configures a Workspace.
type Option func(*Settings)

// WithConfig applies the canvas, render and output sections of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Settings) {
		if cfg == nil {
			return
		}
		c := cfg.Canvas
		s.Viewport = viewport.Config{
			Padding:   c.Padding,
			MaxHeight: c.MaxHeight,
			MinZoom:   c.MinZoom,
			MaxZoom:   c.MaxZoom,
			ZoomStep:  c.ZoomStep,
		}
		if c.Stagger > 0 {
			s.Stagger = c.Stagger
		}
		if c.History > 0 {
			s.HistoryLimit = c.History
		}
		if c.MinDraw > 0 {
			s.MinDraw = c.MinDraw
		}
		s.Render.ShowImageIDs = cfg.Render.ShowImageIDs
		if cfg.Render.AnnotationColor.A != 0 {
			s.Render.AnnotationColor = cfg.Render.AnnotationColor
		}
		if cfg.Render.MosaicMinCell > 0 {
			s.Render.MosaicMinCell = cfg.Render.MosaicMinCell
		}
		s.IncludeMeta = cfg.Render.IncludeImageMeta
		if cfg.Output != "" {
			s.DefaultOutput = cfg.Output
		}
		s.SaveDir = cfg.SaveDir
	}
}

// WithRender replaces the renderer options.
func WithRender(o render.Options) Option {
	return func(s *Settings) { s.Render = o }
}

// WithNotifier reports saves and copies through n.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Settings) { s.Notifier = n }
}

// WithPickCallback is called with the #rrggbb value of every colour pick,
// after it has been copied to the clipboard.
func WithPickCallback(fn func(hex string)) Option {
	return func(s *Settings) { s.PickedCallback = fn }
}

// WithExportShadow adds a drop shadow to exported images.
func WithExportShadow(sh render.Shadow) Option {
	return func(s *Settings) { s.ExportShadow = sh }
}

// WithSettings replaces all settings at once.
func WithSettings(set Settings) Option {
	return func(s *Settings) { *s = set }
}

// Workspace is one editing session. Like the controller it drives, it is
// meant to be used from a single event loop; only the decode queue runs on
// other goroutines and it reports back through Results.
type Workspace struct {
	settings Settings

	Layers      *layers.Store
	Annotations *annotate.Store
	View        *viewport.Transform
	Controller  *interact.Controller

	renderer    *render.Renderer
	queue       *source.Queue
	pending     map[layers.ID]bool
	includeMeta bool
	hoverHex    string

	cache      *image.RGBA
	cacheKey   cacheKey
	cacheValid bool
}

type cacheKey struct {
	layerRev uint64
	annRev   uint64
	showIDs  bool
}

// New builds a workspace. Call Close to stop its decode workers.
func New(opts ...Option) *Workspace {
	set := DefaultSettings()
	for _, o := range opts {
		o(&set)
	}
	w := &Workspace{
		settings:    set,
		Layers:      layers.New(layers.WithStagger(set.Stagger), layers.WithHistory(set.HistoryLimit)),
		Annotations: annotate.New(annotate.WithHistory(set.HistoryLimit)),
		View:        viewport.New(set.Viewport),
		renderer:    render.New(set.Render),
		queue:       source.NewQueue(set.DecodeWorkers),
		pending:     make(map[layers.ID]bool),
		includeMeta: set.IncludeMeta,
	}
	w.Controller = interact.New(w.Layers, w.Annotations, w.View,
		interact.WithPicker(w), interact.WithMinDraw(set.MinDraw))
	return w
}

// Close stops the decode queue. Pending layers stay pending.
func (w *Workspace) Close() {
	w.queue.Close()
}

// Settings returns the construction settings.
func (w *Workspace) Settings() Settings { return w.settings }

// AddImage adds a decoded image as a new top layer.
func (w *Workspace) AddImage(img image.Image) layers.ID {
	id := w.Layers.AddImage(source.ToRGBA(img))
	w.View.SetContent(w.Layers.Bounds())
	return id
}

// AddImageData adds an encoded image. Its dimensions are read immediately
// so the layer takes its place in the stack right away; the pixels follow
// through Results and ApplyDecoded.
func (w *Workspace) AddImageData(data []byte) (layers.ID, error) {
	width, height, err := source.DecodeConfig(data)
	if err != nil {
		return 0, err
	}
	id := w.Layers.Add(width, height, nil)
	w.pending[id] = true
	w.View.SetContent(w.Layers.Bounds())
	w.queue.Submit(id, data)
	return id, nil
}

// AddFile reads path and adds it through AddImageData.
func (w *Workspace) AddFile(path string) (layers.ID, error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return w.AddImageData(data)
}

// Results delivers completed decodes. Pass each one to ApplyDecoded.
func (w *Workspace) Results() <-chan source.Result { return w.queue.Results() }

// Pending reports how many layers are still waiting for pixels.
func (w *Workspace) Pending() int { return len(w.pending) }

// ApplyDecoded attaches decoded pixels to their layer. A failed decode
// removes the placeholder layer and returns the decode error.
func (w *Workspace) ApplyDecoded(r source.Result) error {
	delete(w.pending, r.LayerID)
	if r.Err != nil {
		w.Layers.Remove(r.LayerID)
		w.View.SetContent(w.Layers.Bounds())
		return fmt.Errorf("decode layer %d: %w", r.LayerID, r.Err)
	}
	w.Layers.SetPixels(r.LayerID, r.Image)
	return nil
}

// WaitDecoded applies results until no layer is pending. Decode failures
// are logged and the loop carries on; the first one is returned.
func (w *Workspace) WaitDecoded(ctx context.Context) error {
	var first error
	for len(w.pending) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-w.queue.Results():
			if !ok {
				return fmt.Errorf("decode queue closed with %d pending layers", len(w.pending))
			}
			if err := w.ApplyDecoded(r); err != nil {
				log.Printf("%v", err)
				if first == nil {
					first = err
				}
			}
		}
	}
	return first
}

// SetLayerNote attaches a note to a layer.
func (w *Workspace) SetLayerNote(id layers.ID, note string) { w.Layers.SetNote(id, note) }

// ShowImageIDs reports whether layer badges are drawn.
func (w *Workspace) ShowImageIDs() bool { return w.settings.Render.ShowImageIDs }

// SetShowImageIDs toggles layer badges.
func (w *Workspace) SetShowImageIDs(on bool) {
	if w.settings.Render.ShowImageIDs == on {
		return
	}
	w.settings.Render.ShowImageIDs = on
	w.renderer = render.New(w.settings.Render)
}

// IncludeImageMeta reports whether PromptText carries the image block.
func (w *Workspace) IncludeImageMeta() bool { return w.includeMeta }

// SetIncludeImageMeta toggles the image block in PromptText.
func (w *Workspace) SetIncludeImageMeta(on bool) { w.includeMeta = on }

// Renderer returns the renderer used for composites.
func (w *Workspace) Renderer() *render.Renderer { return w.renderer }

// Scene returns the current render input.
func (w *Workspace) Scene() render.Scene {
	return render.Scene{
		Size:   w.Layers.Bounds(),
		Layers: w.Layers.Layers(),
		Pixels: w.Layers.Pixels,
		Items:  w.Annotations.Unified(),
	}
}

// Composite returns the flattened image. The result is cached until a
// layer, annotation, decode or badge toggle changes it; callers must not
// modify it.
func (w *Workspace) Composite() *image.RGBA {
	key := cacheKey{
		layerRev: w.Layers.Revision(),
		annRev:   w.Annotations.Revision(),
		showIDs:  w.settings.Render.ShowImageIDs,
	}
	if w.cacheValid && key == w.cacheKey {
		return w.cache
	}
	w.cache = w.renderer.Render(w.Scene())
	w.cacheKey = key
	w.cacheValid = true
	return w.cache
}

// PNG encodes the composite, with the export shadow when one is set.
func (w *Workspace) PNG() ([]byte, error) {
	img, _ := render.DropShadow(w.Composite(), w.settings.ExportShadow)
	return render.EncodePNG(img)
}

// OutputPath resolves name against the configured save directory. An empty
// name means the default output file.
func (w *Workspace) OutputPath(name string) string {
	if name == "" {
		name = w.settings.DefaultOutput
	}
	if name == "" {
		name = config.DefaultOutput
	}
	if filepath.IsAbs(name) || w.settings.SaveDir == "" {
		return name
	}
	return filepath.Join(w.settings.SaveDir, name)
}

// Save writes the composite as PNG and returns the path written.
func (w *Workspace) Save(name string) (string, error) {
	data, err := w.PNG()
	if err != nil {
		return "", err
	}
	path := w.OutputPath(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	w.settings.Notifier.Save(path)
	return path, nil
}

var (
	writeClipboardPNG  = clipboard.WritePNG
	writeClipboardText = clipboard.WriteText
)

// CopyImage puts the composite on the clipboard as PNG.
func (w *Workspace) CopyImage() error {
	data, err := w.PNG()
	if err != nil {
		return err
	}
	if err := writeClipboardPNG(data); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	w.settings.Notifier.Copy("image")
	return nil
}

// CopyText puts PromptText on the clipboard. It reports false when there was
// nothing to copy.
func (w *Workspace) CopyText() (bool, error) {
	text := w.PromptText()
	if text == "" {
		return false, nil
	}
	if err := writeClipboardText(text); err != nil {
		return false, fmt.Errorf("copy text: %w", err)
	}
	w.settings.Notifier.Copy("annotation text")
	return true, nil
}

// PasteImage adds the clipboard image as a new layer.
func (w *Workspace) PasteImage() (layers.ID, error) {
	img, err := source.Clipboard()
	if err != nil {
		return 0, err
	}
	return w.AddImage(img), nil
}

// CaptureScreen adds a desktop screenshot as a new layer.
func (w *Workspace) CaptureScreen(ctx context.Context, opts source.ScreenshotOptions) (layers.ID, error) {
	img, err := source.Screenshot(ctx, opts)
	if err != nil {
		return 0, err
	}
	return w.AddImage(img), nil
}

// AnnotationText is the markdown block listing every non-blur annotation.
func (w *Workspace) AnnotationText() string {
	return textblock.Annotations(w.Annotations.Unified(), w.Layers.Bounds(), textblock.Options{})
}

// ImageMetaText is the markdown block listing the image layers.
func (w *Workspace) ImageMetaText() string {
	return textblock.Images(w.Layers.Layers(), w.Layers.Bounds())
}

// PromptText is the annotation block followed by the image block when image
// meta is enabled and the canvas holds more than one image.
func (w *Workspace) PromptText() string {
	text := w.AnnotationText()
	if w.includeMeta && w.Layers.Len() > 1 {
		text += w.ImageMetaText()
	}
	return text
}

// Undo reverts the most recent change, annotations first.
func (w *Workspace) Undo() bool { return w.Controller.Undo() }

// Redo reapplies the most recently undone change, annotations first.
func (w *Workspace) Redo() bool { return w.Controller.Redo() }

// CanUndo reports per domain whether an undo is available.
func (w *Workspace) CanUndo() (annotations, images bool) {
	return w.Annotations.CanUndo(), w.Layers.CanUndo()
}

// CanRedo reports per domain whether a redo is available.
func (w *Workspace) CanRedo() (annotations, images bool) {
	return w.Annotations.CanRedo(), w.Layers.CanRedo()
}

// HoverColor is the colour last sampled under the pointer in colour-pick
// mode.
func (w *Workspace) HoverColor() string { return w.hoverHex }

// Hover implements interact.Picker.
func (w *Workspace) Hover(p geometry.Point) {
	w.hoverHex = render.PixelHex(w.Composite(), p.X, p.Y)
}

// Pick implements interact.Picker. The colour goes to the clipboard and to
// the pick callback; a clipboard failure is logged.
func (w *Workspace) Pick(p geometry.Point) {
	hex := render.PixelHex(w.Composite(), p.X, p.Y)
	w.hoverHex = hex
	if err := writeClipboardText(hex); err != nil {
		log.Printf("copy color: %v", err)
	} else {
		w.settings.Notifier.Copy(hex)
	}
	if w.settings.PickedCallback != nil {
		w.settings.PickedCallback(hex)
	}
}

// Reset clears both stores and their histories.
func (w *Workspace) Reset() {
	w.Layers.Reset()
	w.Annotations.Reset()
	w.Controller.SetColorPick(false)
	w.View.SetContent(w.Layers.Bounds())
	w.View.ResetZoom()
}
