package dispatch

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/batch"
	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/manager"
	"github.com/aurorarender/protocol/render/recorder"
	"github.com/aurorarender/protocol/render/rerr"
)

func newTestDispatcher() (*Dispatcher, *manager.Manager, *recorder.Registry) {
	mgr := manager.New()
	recorders := recorder.NewRegistry()
	d := New(nil, mgr, recorders, nil, nil)
	return d, mgr, recorders
}

func TestApplyCreateCanvasRegistersRecorder(t *testing.T) {
	d, _, recorders := newTestDispatcher()
	counter := ids.NewCounter()
	b := batch.New(counter)
	bg := wgpu.Color{R: 1, G: 1, B: 1, A: 1}
	canvas := b.CreateCanvas(640, 480, false, bg)

	d.Apply(b)

	if !recorders.IsDirty(canvas, 0) {
		t.Fatal("freshly created canvas should start dirty, needing its first replay")
	}
	got, ok := recorders.BackgroundColor(canvas)
	if !ok || got != bg {
		t.Fatalf("BackgroundColor() = %+v, %v, want %+v, true", got, ok, bg)
	}
}

func TestApplyCreateMissingPayloadReturnsValidationError(t *testing.T) {
	d, _, _ := newTestDispatcher()
	req := batch.Request{Action: batch.ActionCreate, Object: batch.ObjectDat, ID: 1}
	err := d.applyOne(req)
	if err == nil {
		t.Fatal("applyOne with nil DatCreate payload: want error, got nil")
	}
	re, ok := err.(*rerr.Error)
	if !ok {
		t.Fatalf("error type = %T, want *rerr.Error", err)
	}
	if re.Kind != rerr.ValidationFailed {
		t.Fatalf("error kind = %v, want ValidationFailed", re.Kind)
	}
}

func TestApplySkipsBadRequestAndCallsOnError(t *testing.T) {
	mgr := manager.New()
	recorders := recorder.NewRegistry()
	var reported *rerr.Error
	d := New(nil, mgr, recorders, nil, func(re *rerr.Error) { reported = re })

	counter := ids.NewCounter()
	b := batch.New(counter)
	good := b.CreateCanvas(1, 1, false, wgpu.Color{})
	pipeline := b.CreatePipeline(0)
	b.BindDat(pipeline, 0, ids.ID(9999), 0) // no such dat: should fail and be skipped

	d.Apply(b)

	if reported == nil {
		t.Fatal("onError was never invoked for the invalid request")
	}
	if !recorders.IsDirty(good, 0) {
		t.Fatal("the valid canvas-create request should still have applied")
	}
}
