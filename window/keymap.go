package window

import "github.com/go-gl/glfw/v3.3/glfw"

// keymap translates a GLFW key constant into this package's backend-neutral
// Key. Keys the table doesn't list (e.g. keypad keys, print screen) resolve
// to KeyUnknown.
var keymap = map[glfw.Key]Key{
	glfw.KeyGraveAccent: KeyGrave,
	glfw.Key0:           Key0,
	glfw.Key1:           Key1,
	glfw.Key2:           Key2,
	glfw.Key3:           Key3,
	glfw.Key4:           Key4,
	glfw.Key5:           Key5,
	glfw.Key6:           Key6,
	glfw.Key7:           Key7,
	glfw.Key8:           Key8,
	glfw.Key9:           Key9,
	glfw.KeyMinus:       KeyMinus,
	glfw.KeyEqual:       KeyEqual,
	glfw.KeyBackspace:   KeyBackspace,
	glfw.KeyTab:         KeyTab,
	glfw.KeyQ:           KeyQ,
	glfw.KeyW:           KeyW,
	glfw.KeyE:           KeyE,
	glfw.KeyR:           KeyR,
	glfw.KeyT:           KeyT,
	glfw.KeyY:           KeyY,
	glfw.KeyU:           KeyU,
	glfw.KeyI:           KeyI,
	glfw.KeyO:           KeyO,
	glfw.KeyP:           KeyP,
	glfw.KeyLeftBracket:  KeyLBracket,
	glfw.KeyRightBracket: KeyRBracket,
	glfw.KeyBackslash:    KeyBackslash,
	glfw.KeyCapsLock:     KeyCapsLock,
	glfw.KeyA:            KeyA,
	glfw.KeyS:            KeyS,
	glfw.KeyD:            KeyD,
	glfw.KeyF:            KeyF,
	glfw.KeyG:            KeyG,
	glfw.KeyH:            KeyH,
	glfw.KeyJ:            KeyJ,
	glfw.KeyK:            KeyK,
	glfw.KeyL:            KeyL,
	glfw.KeySemicolon:    KeySemicolon,
	glfw.KeyApostrophe:   KeyApostrophe,
	glfw.KeyEnter:        KeyEnter,
	glfw.KeyLeftShift:    KeyLShift,
	glfw.KeyZ:            KeyZ,
	glfw.KeyX:            KeyX,
	glfw.KeyC:            KeyC,
	glfw.KeyV:            KeyV,
	glfw.KeyB:            KeyB,
	glfw.KeyN:            KeyN,
	glfw.KeyM:            KeyM,
	glfw.KeyComma:        KeyComma,
	glfw.KeyPeriod:       KeyPeriod,
	glfw.KeySlash:        KeySlash,
	glfw.KeyRightShift:   KeyRShift,
	glfw.KeyLeftControl:  KeyLCtrl,
	glfw.KeyLeftAlt:      KeyLAlt,
	glfw.KeyLeftSuper:    KeyLSuper,
	glfw.KeySpace:        KeySpace,
	glfw.KeyRightSuper:   KeyRSuper,
	glfw.KeyRightAlt:     KeyRAlt,
	glfw.KeyRightControl: KeyRCtrl,
	glfw.KeyEscape:       KeyEscape,
	glfw.KeyF1:           KeyF1,
	glfw.KeyF2:           KeyF2,
	glfw.KeyF3:           KeyF3,
	glfw.KeyF4:           KeyF4,
	glfw.KeyF5:           KeyF5,
	glfw.KeyF6:           KeyF6,
	glfw.KeyF7:           KeyF7,
	glfw.KeyF8:           KeyF8,
	glfw.KeyF9:           KeyF9,
	glfw.KeyF10:          KeyF10,
	glfw.KeyF11:          KeyF11,
	glfw.KeyF12:          KeyF12,
	glfw.KeyInsert:       KeyInsert,
	glfw.KeyDelete:       KeyDelete,
	glfw.KeyHome:         KeyHome,
	glfw.KeyEnd:          KeyEnd,
	glfw.KeyPageUp:       KeyPageUp,
	glfw.KeyPageDown:     KeyPageDown,
	glfw.KeyUp:           KeyUp,
	glfw.KeyDown:         KeyDown,
	glfw.KeyLeft:         KeyLeft,
	glfw.KeyRight:        KeyRight,
}

// keyFrom returns the logical Key for a GLFW key constant, KeyUnknown if
// the table has no entry for it.
func keyFrom(k glfw.Key) Key {
	if mapped, ok := keymap[k]; ok {
		return mapped
	}
	return KeyUnknown
}

// modifierFrom translates GLFW's modifier bitmask into this package's
// Modifier bitmask.
func modifierFrom(mods glfw.ModifierKey) Modifier {
	var m Modifier
	if mods&glfw.ModShift != 0 {
		m |= ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= ModCtrl
	}
	if mods&glfw.ModAlt != 0 {
		m |= ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= ModSuper
	}
	if mods&glfw.ModCapsLock != 0 {
		m |= ModCapsLock
	}
	return m
}

func mouseButtonFrom(b glfw.MouseButton) MouseButton {
	switch b {
	case glfw.MouseButtonLeft:
		return MouseButtonLeft
	case glfw.MouseButtonRight:
		return MouseButtonRight
	case glfw.MouseButtonMiddle:
		return MouseButtonMiddle
	default:
		return MouseButtonUnknown
	}
}
