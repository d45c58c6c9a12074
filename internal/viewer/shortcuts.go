package viewer

import (
	"slices"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/layers"
)

// KeyShortcut identifies a key combination. Printing keys match on Rune,
// everything else on Code.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

const modMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

var shortcuts = map[KeyShortcut]string{
	{Rune: 's', Modifiers: key.ModControl}:                "save",
	{Rune: 'c', Modifiers: key.ModControl}:                "copy",
	{Rune: 'c', Modifiers: key.ModControl | key.ModShift}: "copy-text",
	{Rune: 'v', Modifiers: key.ModControl}:                "paste",
	{Rune: 'n', Modifiers: key.ModControl}:                "capture",
	{Rune: 'd', Modifiers: key.ModControl}:                "remove-layer",
	{Rune: 'l', Modifiers: key.ModControl}:                "clear",
	{Rune: 'q', Modifiers: key.ModControl}:                "quit",
	{Rune: 'q'}:                                          "quit",
	{Rune: 'b'}:                                          "tool-box",
	{Rune: 'a'}:                                          "tool-arrow",
	{Rune: 'l'}:                                          "tool-line",
	{Rune: 'r'}:                                          "tool-blur",
	{Rune: 'i'}:                                          "pick",
	{Rune: 'h'}:                                          "toggle-ids",
	{Rune: 'm'}:                                          "toggle-meta",
	{Code: key.CodeTab}:                                  "next-annotation",
	{Code: key.CodeTab, Modifiers: key.ModShift}:         "next-layer",
	{Code: key.CodeReturnEnter}:                          "edit-note",
	{Code: key.CodeUpArrow, Modifiers: key.ModControl}:   "raise-layer",
	{Code: key.CodeDownArrow, Modifiers: key.ModControl}: "lower-layer",
}

func byCode(c key.Code) bool {
	switch c {
	case key.CodeTab, key.CodeReturnEnter, key.CodeUpArrow, key.CodeDownArrow:
		return true
	}
	return false
}

// shortcutFor returns the action bound to a key press.
func shortcutFor(e key.Event) (string, bool) {
	if e.Direction == key.DirRelease {
		return "", false
	}
	sc := KeyShortcut{Modifiers: e.Modifiers & modMask}
	if byCode(e.Code) {
		sc.Code = e.Code
	} else {
		if e.Rune <= 0 {
			return "", false
		}
		sc.Rune = unicode.ToLower(e.Rune)
	}
	name, ok := shortcuts[sc]
	return name, ok
}

// handleKey routes a key press to the note editor, a shortcut or the
// controller, in that order.
func (v *Viewer) handleKey(e key.Event) (repaint, quit bool) {
	if e.Direction == key.DirRelease {
		return false, false
	}
	if v.editing {
		return v.editKey(e), false
	}
	if name, ok := shortcutFor(e); ok {
		if name == "quit" {
			return false, true
		}
		v.run(name)
		return true, false
	}
	k, ok := translateKey(e, false)
	if !ok {
		return false, false
	}
	return v.ws.Controller.Key(k), false
}

func (v *Viewer) run(name string) {
	ws := v.ws
	switch name {
	case "save":
		path, err := ws.Save(v.output)
		if err != nil {
			v.say("save: %v", err)
			return
		}
		v.say("saved %s", path)
	case "copy":
		if err := ws.CopyImage(); err != nil {
			v.say("%v", err)
			return
		}
		v.say("image copied to clipboard")
	case "copy-text":
		ok, err := ws.CopyText()
		switch {
		case err != nil:
			v.say("%v", err)
		case !ok:
			v.say("no annotations to copy")
		default:
			v.say("annotation text copied to clipboard")
		}
	case "paste":
		if _, err := ws.PasteImage(); err != nil {
			v.say("%v", err)
			return
		}
		ws.View.Fit()
		v.say("pasted image")
	case "capture":
		v.captureScreen()
	case "remove-layer":
		if l, ok := ws.Layers.Selected(); ok {
			ws.Layers.Remove(l.ID)
		}
	case "clear":
		ws.Annotations.Clear()
	case "tool-box":
		ws.Annotations.SetTool(annotate.Box)
	case "tool-arrow":
		ws.Annotations.SetTool(annotate.Arrow)
	case "tool-line":
		ws.Annotations.SetTool(annotate.Line)
	case "tool-blur":
		ws.Annotations.SetTool(annotate.Blur)
	case "pick":
		ws.Controller.SetColorPick(!ws.Controller.ColorPick())
	case "toggle-ids":
		ws.SetShowImageIDs(!ws.ShowImageIDs())
	case "toggle-meta":
		ws.SetIncludeImageMeta(!ws.IncludeImageMeta())
		if ws.IncludeImageMeta() {
			v.say("image meta included in copied text")
		} else {
			v.say("image meta excluded from copied text")
		}
	case "next-annotation":
		v.cycleAnnotation()
	case "next-layer":
		v.cycleLayer()
	case "edit-note":
		v.beginNote()
	case "raise-layer", "lower-layer":
		l, ok := ws.Layers.Selected()
		if !ok {
			return
		}
		i := slices.IndexFunc(ws.Layers.Layers(), func(x layers.Layer) bool { return x.ID == l.ID })
		if name == "raise-layer" {
			i++
		} else {
			i--
		}
		ws.Layers.Reorder(l.ID, i)
	}
}

func (v *Viewer) cycleAnnotation() {
	list := v.ws.Annotations.List()
	if len(list) == 0 {
		return
	}
	next := 0
	if cur, ok := v.ws.Annotations.Selected(); ok {
		i := slices.IndexFunc(list, func(a annotate.Annotation) bool { return a.ID == cur.ID })
		next = (i + 1) % len(list)
	}
	v.ws.Layers.Deselect()
	v.ws.Annotations.Select(list[next].ID)
}

func (v *Viewer) cycleLayer() {
	list := v.ws.Layers.Layers()
	if len(list) == 0 {
		return
	}
	next := 0
	if cur, ok := v.ws.Layers.Selected(); ok {
		i := slices.IndexFunc(list, func(l layers.Layer) bool { return l.ID == cur.ID })
		next = (i + 1) % len(list)
	}
	v.ws.Annotations.Deselect()
	v.ws.Layers.Select(list[next].ID)
}
