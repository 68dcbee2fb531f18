package window

// KeyboardEvent is delivered to on_keyboard listeners for every key
// press and release. Mods reflects modifier state at the moment of the
// event, tracked independently of which key triggered it.
type KeyboardEvent struct {
	Key     Key
	Pressed bool
	Mods    Modifier
}

// MouseEventKind distinguishes the seven pointer event shapes the router
// synthesizes from raw GLFW callbacks.
type MouseEventKind int

const (
	MouseMove MouseEventKind = iota
	MouseButtonDown
	MouseButtonUp
	MouseWheel
	MouseDragStart
	MouseDrag
	MouseDragStop
)

// MouseEvent is delivered to on_mouse listeners. Fields not relevant to
// Kind are left zero (e.g. Button is zero for MouseMove/MouseWheel).
type MouseEvent struct {
	Kind   MouseEventKind
	X, Y   float64
	Button MouseButton
	Wheel  float32
	Mods   Modifier
}

// dragThresholdPixels is how far the pointer must move past its
// button-down position, while a button is held, before the router
// synthesizes a drag-start event instead of ordinary move events.
const dragThresholdPixels = 4.0
