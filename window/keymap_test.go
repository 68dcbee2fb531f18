package window

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestKeyFromKnownAndUnknown(t *testing.T) {
	if got := keyFrom(glfw.KeyA); got != KeyA {
		t.Fatalf("keyFrom(KeyA) = %v, want KeyA", got)
	}
	if got := keyFrom(glfw.Key(9999)); got != KeyUnknown {
		t.Fatalf("keyFrom(unmapped) = %v, want KeyUnknown", got)
	}
}

func TestModifierFromCombinesBits(t *testing.T) {
	got := modifierFrom(glfw.ModShift | glfw.ModControl)
	if got&ModShift == 0 || got&ModCtrl == 0 {
		t.Fatalf("modifierFrom(Shift|Control) = %v, missing expected bits", got)
	}
	if got&ModAlt != 0 {
		t.Fatalf("modifierFrom(Shift|Control) = %v, unexpected Alt bit", got)
	}
}

func TestMouseButtonFromKnownAndUnknown(t *testing.T) {
	if got := mouseButtonFrom(glfw.MouseButtonMiddle); got != MouseButtonMiddle {
		t.Fatalf("mouseButtonFrom(Middle) = %v, want MouseButtonMiddle", got)
	}
	if got := mouseButtonFrom(glfw.MouseButton4); got != MouseButtonUnknown {
		t.Fatalf("mouseButtonFrom(Button4) = %v, want MouseButtonUnknown", got)
	}
}
