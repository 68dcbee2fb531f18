package alloc

import "testing"

func TestAllocReusesFreedRegion(t *testing.T) {
	h := NewHeap(1024)
	r1, grew, err := h.Alloc(256, 16)
	if err != nil || grew {
		t.Fatalf("Alloc() = %+v, %v, %v", r1, grew, err)
	}
	h.Free(r1)

	r2, grew, err := h.Alloc(256, 16)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if grew {
		t.Fatal("Alloc() grew the heap when a freed region should have been reused")
	}
	if r2.Offset != r1.Offset {
		t.Fatalf("Alloc() offset = %d, want reused offset %d", r2.Offset, r1.Offset)
	}
}

func TestAllocGrowsByDoublingWhenExhausted(t *testing.T) {
	h := NewHeap(128)
	if _, _, err := h.Alloc(100, 1); err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	r2, grew, err := h.Alloc(64, 1)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	if !grew {
		t.Fatal("Alloc() should have grown the heap")
	}
	if r2.End() > h.Capacity() {
		t.Fatalf("region end %d exceeds capacity %d", r2.End(), h.Capacity())
	}
}

func TestFreeCoalescesAdjacentRegions(t *testing.T) {
	h := NewHeap(0)
	r1, _, err := h.Alloc(64, 1)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	r2, _, err := h.Alloc(64, 1)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	h.Free(r1)
	h.Free(r2)

	// the two freed regions are adjacent (r1 then r2) and must merge into
	// one 128-byte region, reusable as a single allocation.
	r3, grew, err := h.Alloc(128, 1)
	if err != nil {
		t.Fatalf("Alloc() after coalesce: error = %v", err)
	}
	if grew {
		t.Fatal("Alloc() grew the heap; coalesced free regions should have satisfied the request")
	}
	if r3.Offset != r1.Offset {
		t.Fatalf("Alloc() offset = %d, want %d", r3.Offset, r1.Offset)
	}
}

func TestAllocRejectsZeroSize(t *testing.T) {
	h := NewHeap(64)
	if _, _, err := h.Alloc(0, 1); err == nil {
		t.Fatal("Alloc(0, ...): want error, got nil")
	}
}
