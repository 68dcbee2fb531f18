package rerr

import (
	"errors"
	"testing"

	"github.com/aurorarender/protocol/render/ids"
)

func TestErrorMessageWithObject(t *testing.T) {
	e := Wrap(StaleReference, ids.ID(7), "buffer not found", nil)
	want := "StaleReference(id=7): buffer not found"
	if got := e.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorMessageWithoutObject(t *testing.T) {
	e := New(DeviceInit, "no adapter found")
	want := "DeviceInit: no adapter found"
	if got := e.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("surface lost")
	e := Wrap(SwapchainLost, ids.None, "present failed", cause)
	if !errors.Is(e, cause) {
		t.Fatalf("errors.Is(e, cause) = false, want true")
	}
}
