package interact

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every bit of m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// Command reports whether the platform command modifier is held.
func (m Modifiers) Command() bool { return m&(ModCtrl|ModMeta) != 0 }

// PointerEvent is a press, motion or release in client coordinates.
type PointerEvent struct {
	X, Y   float64
	Button Button
	Mods   Modifiers
}

// WheelEvent is a scroll gesture at a client position.
type WheelEvent struct {
	X, Y   float64
	DX, DY float64
	Mods   Modifiers
}

// Key names the non-printing keys the controller understands. Printing keys
// arrive as KeyRune with the rune set.
type Key int

const (
	KeyUnknown Key = iota
	KeyRune
	KeyEscape
	KeyDelete
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeyEvent is a key press. InTextField is set by the host when focus is in a
// text input, which disables editing shortcuts.
type KeyEvent struct {
	Key         Key
	Rune        rune
	Mods        Modifiers
	InTextField bool
}
