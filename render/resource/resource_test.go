package resource

import "testing"

func TestBufferConfigureRejectsAfterCreateState(t *testing.T) {
	b := NewBuffer(BufferVertex)
	if b.State() != Uninitialized {
		t.Fatalf("State() = %v, want Uninitialized", b.State())
	}
	if err := b.Configure(256, false, 1); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if b.State() != Configuring {
		t.Fatalf("State() = %v, want Configuring", b.State())
	}

	// simulate Create having happened without a device by forcing state.
	b.state = Created
	if err := b.Configure(512, false, 1); err == nil {
		t.Fatal("Configure() after Created: want WrongState error, got nil")
	}
}

func TestBufferConfigureDefaultsDupCountToOne(t *testing.T) {
	b := NewBuffer(BufferUniform)
	if err := b.Configure(64, false, 0); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if b.DupCount != 1 {
		t.Fatalf("DupCount = %d, want 1 when dupCount argument is 0", b.DupCount)
	}
}

func TestBufferCreateRequiresSize(t *testing.T) {
	b := NewBuffer(BufferUniform)
	if err := b.Create(nil, nil, nil); err == nil {
		t.Fatal("Create() with zero size: want error, got nil")
	}
}

func TestPipelineSetSlotAccumulatesAndDedupes(t *testing.T) {
	p := NewPipeline(PipelineRender)
	if err := p.SetSlot(Slot{Group: 0, Binding: 0}); err != nil {
		t.Fatalf("SetSlot() error = %v", err)
	}
	if err := p.SetSlot(Slot{Group: 1, Binding: 0}); err != nil {
		t.Fatalf("SetSlot() error = %v", err)
	}
	if err := p.SetSlot(Slot{Group: 0, Binding: 0}); err != nil {
		t.Fatalf("SetSlot() re-declare error = %v", err)
	}
	if len(p.Slots) != 2 {
		t.Fatalf("len(Slots) = %d, want 2 (re-declaration should replace, not append)", len(p.Slots))
	}
}

func TestPipelineDestroyRejectsDoubleDestroy(t *testing.T) {
	p := NewPipeline(PipelineCompute)
	if err := p.Destroy(); err != nil {
		t.Fatalf("first Destroy() error = %v", err)
	}
	if err := p.Destroy(); err == nil {
		t.Fatal("second Destroy(): want WrongState error, got nil")
	}
}
