//go:build gpu

package device

import "testing"

// TestNewFallbackAdapter exercises real adapter/device acquisition. It is
// gated behind the gpu build tag because it needs a usable WebGPU backend
// (software fallback included) on the machine running the suite.
func TestNewFallbackAdapter(t *testing.T) {
	d, err := New(WithFallbackAdapter(true), WithMaxBindGroups(8))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Release()

	if d.Raw() == nil {
		t.Fatal("Raw() = nil")
	}
	if d.Queue() == nil {
		t.Fatal("Queue() = nil")
	}
	if d.Limits().MaxBindGroups != 8 {
		t.Fatalf("Limits().MaxBindGroups = %d, want 8", d.Limits().MaxBindGroups)
	}
}
