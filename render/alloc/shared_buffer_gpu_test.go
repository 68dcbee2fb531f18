//go:build gpu

package alloc

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/device"
)

// TestSharedBufferGrowsAndRecreatesBuffer exercises the real resize path: an
// Alloc past the initial buffer's capacity must recreate the backing
// wgpu.Buffer and return a region that fits the grown capacity. The copied
// contents are not read back. It is gated behind the gpu build tag since it
// needs a usable WebGPU backend.
func TestSharedBufferGrowsAndRecreatesBuffer(t *testing.T) {
	dev, err := device.New(device.WithFallbackAdapter(true))
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	defer dev.Release()

	s := NewSharedBuffer(wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst|wgpu.BufferUsageCopySrc, "test shared buffer")

	r1, err := s.Alloc(dev.Raw(), dev.Queue(), 64, 16)
	if err != nil {
		t.Fatalf("Alloc() error = %v", err)
	}
	dev.Queue().WriteBuffer(s.Raw(), r1.Offset, make([]byte, 64))
	firstRaw := s.Raw()

	// Force growth past the first region by requesting far more than the
	// initial capacity satisfies.
	r2, err := s.Alloc(dev.Raw(), dev.Queue(), s.Heap.Capacity()*4, 16)
	if err != nil {
		t.Fatalf("Alloc() (growth) error = %v", err)
	}
	if s.Raw() == firstRaw {
		t.Fatal("Raw() unchanged after a growth allocation: want a recreated buffer")
	}
	if r2.End() > s.Heap.Capacity() {
		t.Fatalf("region end %d exceeds capacity %d", r2.End(), s.Heap.Capacity())
	}
}
