package recorder

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/batch"
	"github.com/aurorarender/protocol/render/ids"
)

func TestCreateStartsEveryImageDirty(t *testing.T) {
	r := NewRegistry()
	canvas := ids.ID(1)
	r.Create(canvas, wgpu.Color{R: 1, G: 1, B: 1, A: 1})

	if !r.IsDirty(canvas, 0) || !r.IsDirty(canvas, 1) {
		t.Fatal("freshly created canvas should start dirty on every image slot")
	}
}

func TestAppendMarksEveryImageDirty(t *testing.T) {
	r := NewRegistry()
	canvas := ids.ID(1)
	r.Create(canvas, wgpu.Color{})

	if err := r.Append(canvas, batch.Record{Command: batch.RecordDraw, VertexCount: 3}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if !r.IsDirty(canvas, 0) || !r.IsDirty(canvas, 1) {
		t.Fatal("Append() should mark every image slot dirty")
	}
}

func TestBackgroundColorReturnsCreateValue(t *testing.T) {
	r := NewRegistry()
	canvas := ids.ID(1)
	want := wgpu.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}
	r.Create(canvas, want)

	got, ok := r.BackgroundColor(canvas)
	if !ok || got != want {
		t.Fatalf("BackgroundColor() = %+v, %v, want %+v, true", got, ok, want)
	}
}

func TestAppendUnknownCanvasFails(t *testing.T) {
	r := NewRegistry()
	if err := r.Append(ids.ID(99), batch.Record{}); err == nil {
		t.Fatal("Append() on unknown canvas: want error, got nil")
	}
}

func TestAdvanceFrameIncrements(t *testing.T) {
	r := NewRegistry()
	if got := r.CurrentFrame(); got != 0 {
		t.Fatalf("CurrentFrame() = %d, want 0", got)
	}
	if got := r.AdvanceFrame(); got != 1 {
		t.Fatalf("AdvanceFrame() = %d, want 1", got)
	}
	if got := r.CurrentFrame(); got != 1 {
		t.Fatalf("CurrentFrame() = %d, want 1", got)
	}
}
