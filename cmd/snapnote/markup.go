package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/config"
	"github.com/example/snapnote/internal/geometry"
	"github.com/example/snapnote/internal/layers"
	"github.com/example/snapnote/internal/workspace"
)

// shapeArg is one annotation given on the command line.
type shapeArg struct {
	kind annotate.Kind
	vals [4]float64
	note string
}

// shapeList appends every occurrence of its flag to a list shared by all
// shape flags, so annotations are numbered in command line order.
type shapeList struct {
	kind annotate.Kind
	args *[]shapeArg
}

func (s shapeList) String() string { return "" }

func (s shapeList) Set(v string) error {
	a, err := parseShape(s.kind, v)
	if err != nil {
		return err
	}
	*s.args = append(*s.args, a)
	return nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func parseShape(k annotate.Kind, v string) (shapeArg, error) {
	coords, note, _ := strings.Cut(v, ":")
	vals, err := parseFloats(coords, 4)
	if err != nil {
		return shapeArg{}, fmt.Errorf("%s: %w", k, err)
	}
	arg := shapeArg{kind: k, note: strings.TrimSpace(note)}
	copy(arg.vals[:], vals)
	if !k.Segmented() && (arg.vals[2] == 0 || arg.vals[3] == 0) {
		return shapeArg{}, fmt.Errorf("%s: width and height must be non-zero", k)
	}
	return arg, nil
}

func (s shapeArg) apply(as *annotate.Store) annotate.ID {
	v := s.vals
	var id annotate.ID
	switch s.kind {
	case annotate.Arrow:
		id = as.AddArrow(geometry.Segment{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]})
	case annotate.Line:
		id = as.AddLine(geometry.Segment{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]})
	case annotate.Blur:
		id = as.AddBlur(geometry.RectFromPoints(v[0], v[1], v[0]+v[2], v[1]+v[3]))
	default:
		id = as.Add(geometry.RectFromPoints(v[0], v[1], v[0]+v[2], v[1]+v[3]))
	}
	if s.note != "" {
		as.SetNote(id, s.note)
	}
	return id
}

// placement moves image number to (x, y).
type placement struct {
	number int
	x, y   float64
}

type placementList struct{ list *[]placement }

func (p placementList) String() string { return "" }

func (p placementList) Set(v string) error {
	num, at, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected i=x,y, got %q", v)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 1 {
		return fmt.Errorf("invalid image number %q", num)
	}
	xy, err := parseFloats(at, 2)
	if err != nil {
		return err
	}
	*p.list = append(*p.list, placement{number: n, x: xy[0], y: xy[1]})
	return nil
}

// layerNote attaches text to image number.
type layerNote struct {
	number int
	text   string
}

type layerNoteList struct{ list *[]layerNote }

func (l layerNoteList) String() string { return "" }

func (l layerNoteList) Set(v string) error {
	num, text, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected i=text, got %q", v)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 1 {
		return fmt.Errorf("invalid image number %q", num)
	}
	*l.list = append(*l.list, layerNote{number: n, text: strings.TrimSpace(text)})
	return nil
}

// markup is the image and annotation input shared by compose and text.
type markup struct {
	shapes        []shapeArg
	placements    []placement
	notes         []layerNote
	showIDs       bool
	meta          bool
	fromClipboard bool
}

func (m *markup) register(fs *flag.FlagSet, cfg *config.Config) {
	if cfg == nil {
		cfg = config.New()
	}
	fs.Var(shapeList{annotate.Box, &m.shapes}, "box", "box annotation x,y,w,h[:note] (repeatable)")
	fs.Var(shapeList{annotate.Arrow, &m.shapes}, "arrow", "arrow x1,y1,x2,y2[:note] pointing at the second point (repeatable)")
	fs.Var(shapeList{annotate.Line, &m.shapes}, "line", "line x1,y1,x2,y2[:note] (repeatable)")
	fs.Var(shapeList{annotate.Blur, &m.shapes}, "blur", "pixelated region x,y,w,h (repeatable)")
	fs.Var(placementList{&m.placements}, "at", "place image i at x,y as i=x,y (repeatable)")
	fs.Var(layerNoteList{&m.notes}, "note", "attach a note to image i as i=text (repeatable)")
	fs.BoolVar(&m.showIDs, "ids", cfg.Render.ShowImageIDs, "draw image number badges when there are several images")
	fs.BoolVar(&m.meta, "meta", cfg.Render.IncludeImageMeta, "include the image list in the text block")
	fs.BoolVar(&m.fromClipboard, "from-clipboard", false, "add the clipboard image before the files")
	fs.BoolVar(&m.fromClipboard, "from-clip", false, "add the clipboard image before the files (alias)")
}

func layerByNumber(ws *workspace.Workspace, n int) (layers.Layer, bool) {
	for _, l := range ws.Layers.Layers() {
		if l.Number == n {
			return l, true
		}
	}
	return layers.Layer{}, false
}

// build loads every input into a new workspace and applies the markup. The
// caller owns the workspace and must Close it.
func (m *markup) build(ctx context.Context, r *root, files []string, extra ...workspace.Option) (*workspace.Workspace, error) {
	opts := []workspace.Option{}
	if r != nil {
		opts = append(opts, workspace.WithConfig(r.config), workspace.WithNotifier(r.notifier))
	}
	ws := workspace.New(append(opts, extra...)...)
	if err := m.load(ctx, ws, files); err != nil {
		ws.Close()
		return nil, err
	}
	return ws, nil
}

func (m *markup) load(ctx context.Context, ws *workspace.Workspace, files []string) error {
	if m.fromClipboard {
		if _, err := ws.PasteImage(); err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
	}
	for _, f := range files {
		if _, err := ws.AddFile(f); err != nil {
			return fmt.Errorf("add %s: %w", f, err)
		}
	}
	if err := ws.WaitDecoded(ctx); err != nil {
		return err
	}

	for _, p := range m.placements {
		l, ok := layerByNumber(ws, p.number)
		if !ok {
			return fmt.Errorf("-at: no image %d", p.number)
		}
		ws.Layers.Move(l.ID, p.x, p.y)
	}
	if len(m.placements) > 0 {
		ws.Layers.CommitMove()
	}
	for _, n := range m.notes {
		l, ok := layerByNumber(ws, n.number)
		if !ok {
			return fmt.Errorf("-note: no image %d", n.number)
		}
		ws.SetLayerNote(l.ID, n.text)
	}
	ws.Layers.Deselect()

	ws.SetShowImageIDs(m.showIDs)
	ws.SetIncludeImageMeta(m.meta)
	for _, s := range m.shapes {
		s.apply(ws.Annotations)
	}
	ws.Annotations.Deselect()
	return nil
}
