package manager

import (
	"testing"

	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/resource"
)

type fakeObject struct {
	destroyed bool
}

func (f *fakeObject) State() resource.State { return resource.Created }
func (f *fakeObject) Destroy() error {
	f.destroyed = true
	return nil
}

func TestPutGetRoundTrip(t *testing.T) {
	m := New()
	obj := &fakeObject{}
	id := ids.ID(1)
	if err := m.Put(id, obj); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := m.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != obj {
		t.Fatal("Get() returned a different object than Put stored")
	}
}

func TestGetUnknownIDFails(t *testing.T) {
	m := New()
	if _, err := m.Get(ids.ID(42)); err == nil {
		t.Fatal("Get() on unknown id: want error, got nil")
	}
}

func TestTombstoneHidesFromGetButSweepDestroysLater(t *testing.T) {
	m := New()
	obj := &fakeObject{}
	id := ids.ID(1)
	_ = m.Put(id, obj)

	if err := m.Tombstone(id, 10); err != nil {
		t.Fatalf("Tombstone() error = %v", err)
	}
	if _, err := m.Get(id); err == nil {
		t.Fatal("Get() after Tombstone: want error, got nil")
	}

	if errs := m.Sweep(5); len(errs) != 0 {
		t.Fatalf("Sweep(5) before destroy frame: errs = %v", errs)
	}
	if obj.destroyed {
		t.Fatal("Sweep(5) destroyed an object tombstoned for a later frame")
	}

	if errs := m.Sweep(10); len(errs) != 0 {
		t.Fatalf("Sweep(10) errs = %v", errs)
	}
	if !obj.destroyed {
		t.Fatal("Sweep(10) did not destroy the tombstoned object")
	}
	if m.Len() != 0 {
		t.Fatalf("Len() after sweep = %d, want 0", m.Len())
	}
}
