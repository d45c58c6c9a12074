package viewer

import (
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapnote/internal/interact"
)

// WheelStep is the scroll distance, in client pixels, of one wheel notch.
const WheelStep = 40

type pointerAction int

const (
	actionIgnore pointerAction = iota
	actionPress
	actionMove
	actionRelease
	actionWheel
)

func modifiers(m key.Modifiers) interact.Modifiers {
	var out interact.Modifiers
	if m&key.ModShift != 0 {
		out |= interact.ModShift
	}
	if m&key.ModControl != 0 {
		out |= interact.ModCtrl
	}
	if m&key.ModAlt != 0 {
		out |= interact.ModAlt
	}
	if m&key.ModMeta != 0 {
		out |= interact.ModMeta
	}
	return out
}

func button(b mouse.Button) interact.Button {
	switch b {
	case mouse.ButtonLeft:
		return interact.ButtonLeft
	case mouse.ButtonMiddle:
		return interact.ButtonMiddle
	case mouse.ButtonRight:
		return interact.ButtonRight
	}
	return interact.ButtonNone
}

// translateMouse maps a shiny mouse event onto the controller's pointer and
// wheel events. Only one of the returned events is meaningful, as selected
// by the action.
func translateMouse(e mouse.Event) (pointerAction, interact.PointerEvent, interact.WheelEvent) {
	x, y := float64(e.X), float64(e.Y)
	mods := modifiers(e.Modifiers)
	if e.Button.IsWheel() {
		if e.Direction == mouse.DirRelease {
			return actionIgnore, interact.PointerEvent{}, interact.WheelEvent{}
		}
		w := interact.WheelEvent{X: x, Y: y, Mods: mods}
		switch e.Button {
		case mouse.ButtonWheelUp:
			w.DY = -WheelStep
		case mouse.ButtonWheelDown:
			w.DY = WheelStep
		case mouse.ButtonWheelLeft:
			w.DX = -WheelStep
		case mouse.ButtonWheelRight:
			w.DX = WheelStep
		}
		return actionWheel, interact.PointerEvent{}, w
	}
	p := interact.PointerEvent{X: x, Y: y, Button: button(e.Button), Mods: mods}
	switch e.Direction {
	case mouse.DirPress:
		return actionPress, p, interact.WheelEvent{}
	case mouse.DirRelease:
		return actionRelease, p, interact.WheelEvent{}
	case mouse.DirNone:
		return actionMove, p, interact.WheelEvent{}
	}
	return actionIgnore, p, interact.WheelEvent{}
}

// translateKey maps a key press onto a controller key event. Releases are
// dropped.
func translateKey(e key.Event, inText bool) (interact.KeyEvent, bool) {
	if e.Direction == key.DirRelease {
		return interact.KeyEvent{}, false
	}
	k := interact.KeyEvent{Mods: modifiers(e.Modifiers), InTextField: inText}
	switch e.Code {
	case key.CodeEscape:
		k.Key = interact.KeyEscape
	case key.CodeDeleteForward:
		k.Key = interact.KeyDelete
	case key.CodeDeleteBackspace:
		k.Key = interact.KeyBackspace
	case key.CodeLeftArrow:
		k.Key = interact.KeyLeft
	case key.CodeRightArrow:
		k.Key = interact.KeyRight
	case key.CodeUpArrow:
		k.Key = interact.KeyUp
	case key.CodeDownArrow:
		k.Key = interact.KeyDown
	default:
		if e.Rune < 0 {
			return k, false
		}
		k.Key = interact.KeyRune
		k.Rune = e.Rune
	}
	return k, true
}
