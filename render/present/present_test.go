package present

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/manager"
	"github.com/aurorarender/protocol/render/recorder"
)

func TestNewWiresFrameSlotToZero(t *testing.T) {
	recorders := recorder.NewRegistry()
	canvas := ids.ID(1)
	recorders.Create(canvas, wgpu.Color{})

	p := New(nil, manager.New(), recorders, nil, canvas, nil, 0, 1, 1, 1, nil)
	if p.curSlot != 0 {
		t.Fatalf("curSlot = %d, want 0", p.curSlot)
	}
	if p.canvas != canvas {
		t.Fatalf("canvas = %d, want %d", p.canvas, canvas)
	}
}

func TestMaxFramesInFlightIsTwo(t *testing.T) {
	if MaxFramesInFlight != 2 {
		t.Fatalf("MaxFramesInFlight = %d, want 2", MaxFramesInFlight)
	}
}
