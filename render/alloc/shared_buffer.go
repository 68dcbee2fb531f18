package alloc

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/rerr"
)

// SharedBuffer backs a Heap's byte ranges with one real wgpu.Buffer, shared
// by every Dat of the same (kind, mappable) pair. When the Heap's capacity
// grows past the current buffer's size, a larger buffer is created and the
// old contents are copied across via a command encoder before the old
// buffer is released, so existing Dats keep their data without needing to
// re-upload.
type SharedBuffer struct {
	Heap *Heap

	mu          sync.Mutex
	usage       wgpu.BufferUsage
	label       string
	raw         *wgpu.Buffer
	rawCapacity uint64
}

// NewSharedBuffer returns a SharedBuffer with an empty Heap; the backing
// wgpu.Buffer isn't created until the first Alloc.
func NewSharedBuffer(usage wgpu.BufferUsage, label string) *SharedBuffer {
	return &SharedBuffer{Heap: NewHeap(0), usage: usage, label: label}
}

// Raw returns the current backing wgpu.Buffer, nil until the first Alloc.
func (s *SharedBuffer) Raw() *wgpu.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Alloc reserves size bytes aligned to align from the Heap, growing (and,
// if the Heap's capacity outgrew the current buffer, recreating) the
// backing buffer so the returned Region is immediately writable through
// Raw().
func (s *SharedBuffer) Alloc(device *wgpu.Device, queue *wgpu.Queue, size, align uint64) (Region, error) {
	region, grew, err := s.Heap.Alloc(size, align)
	if err != nil {
		return Region{}, err
	}
	if grew || s.Raw() == nil {
		if err := s.resize(device, queue, s.Heap.Capacity()); err != nil {
			return Region{}, err
		}
	}
	return region, nil
}

// Free returns region to the Heap. The backing buffer is never shrunk.
func (s *SharedBuffer) Free(region Region) {
	s.Heap.Free(region)
}

func (s *SharedBuffer) resize(device *wgpu.Device, queue *wgpu.Queue, newCapacity uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            s.label,
		Size:             newCapacity,
		Usage:            s.usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return rerr.Wrap(rerr.OutOfMemory, 0, "grow shared buffer", err)
	}

	if s.raw != nil && s.rawCapacity > 0 {
		encoder, err := device.CreateCommandEncoder(nil)
		if err != nil {
			return rerr.Wrap(rerr.OutOfMemory, 0, "grow shared buffer: copy encoder", err)
		}
		encoder.CopyBufferToBuffer(s.raw, 0, newBuf, 0, s.rawCapacity)
		cmd, err := encoder.Finish(nil)
		if err != nil {
			return rerr.Wrap(rerr.OutOfMemory, 0, "grow shared buffer: finish copy", err)
		}
		queue.Submit(cmd)
		s.raw.Destroy()
		s.raw.Release()
	}

	s.raw = newBuf
	s.rawCapacity = newCapacity
	return nil
}
