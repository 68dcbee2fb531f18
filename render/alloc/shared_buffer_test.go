package alloc

import "testing"

func TestNewSharedBufferHasNilRawUntilAlloc(t *testing.T) {
	s := NewSharedBuffer(0, "test shared buffer")
	if s.Raw() != nil {
		t.Fatal("Raw() before any Alloc: want nil")
	}
	if s.Heap.Capacity() != 0 {
		t.Fatalf("Heap.Capacity() = %d, want 0", s.Heap.Capacity())
	}
}
