package viewer

import (
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/snapnote/internal/annotate"
	"github.com/example/snapnote/internal/layers"
)

// noteTarget is the annotation or layer whose note is being edited. Exactly
// one id is set.
type noteTarget struct {
	annotation annotate.ID
	layer      layers.ID
}

// beginNote opens the note editor on the selected annotation, or on the
// selected layer when no annotation is selected.
func (v *Viewer) beginNote() {
	if a, ok := v.ws.Annotations.Selected(); ok {
		v.noteTarget = noteTarget{annotation: a.ID}
		v.note = []rune(a.Note)
	} else if l, ok := v.ws.Layers.Selected(); ok {
		v.noteTarget = noteTarget{layer: l.ID}
		v.note = []rune(l.Note)
	} else {
		return
	}
	v.editing = true
}

// editKey feeds one key press to the note editor. Enter stores the note,
// Escape abandons it.
func (v *Viewer) editKey(e key.Event) bool {
	switch e.Code {
	case key.CodeEscape:
		v.editing = false
	case key.CodeReturnEnter:
		v.commitNote()
	case key.CodeDeleteBackspace:
		if n := len(v.note); n > 0 {
			v.note = v.note[:n-1]
		}
	default:
		if e.Modifiers&(key.ModControl|key.ModMeta) != 0 || e.Rune <= 0 || !unicode.IsPrint(e.Rune) {
			return false
		}
		v.note = append(v.note, e.Rune)
	}
	return true
}

func (v *Viewer) commitNote() {
	text := string(v.note)
	switch {
	case v.noteTarget.annotation != 0:
		v.ws.Annotations.SetNote(v.noteTarget.annotation, text)
	case v.noteTarget.layer != 0:
		v.ws.SetLayerNote(v.noteTarget.layer, text)
	}
	v.editing = false
	v.note = nil
}
