package resource

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/alloc"
	"github.com/aurorarender/protocol/render/rerr"
)

// BufferKind distinguishes the buffer types a request can create, matching
// spec.md's Dat taxonomy (vertex, index, uniform, storage, indirect,
// staging).
type BufferKind int

const (
	BufferVertex BufferKind = iota
	BufferIndex
	BufferUniform
	BufferStorage
	BufferIndirect
	BufferStaging
)

// BufferUsage returns the wgpu.BufferUsage flags a (kind, mappable) pair's
// shared buffer must be created with, shared between Buffer.Create and
// whatever owns the shared buffer pool (render/dispatch).
func BufferUsage(kind BufferKind, mappable bool) wgpu.BufferUsage {
	var usage wgpu.BufferUsage
	switch kind {
	case BufferVertex:
		usage = wgpu.BufferUsageVertex
	case BufferIndex:
		usage = wgpu.BufferUsageIndex
	case BufferUniform:
		usage = wgpu.BufferUsageUniform
	case BufferStorage:
		usage = wgpu.BufferUsageStorage
	case BufferIndirect:
		usage = wgpu.BufferUsageIndirect | wgpu.BufferUsageStorage
	case BufferStaging:
		usage = wgpu.BufferUsageMapWrite
	}
	usage |= wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	if mappable && kind != BufferStaging {
		usage |= wgpu.BufferUsageMapWrite
	}
	return usage
}

// Buffer is a logical GPU buffer view (a Dat): one byte range, or when
// duplicated one byte range per swapchain image, suballocated from the
// shared buffer its (Kind, Mappable) pair owns rather than a dedicated
// wgpu.Buffer of its own. Duplicating a Buffer across DupCount copies lets
// a write targeting a still-in-flight image's copy avoid racing that
// image's queued commands.
type Buffer struct {
	lifecycle

	Kind     BufferKind
	Size     uint64
	Mappable bool
	DupCount uint32

	shared  *alloc.SharedBuffer
	regions []alloc.Region
}

// NewBuffer allocates a Buffer object in the Uninitialized state.
func NewBuffer(kind BufferKind) *Buffer {
	return &Buffer{Kind: kind}
}

// Configure sets the buffer's declared size, mappability and duplication
// count. dupCount of 0 or 1 both mean "not duplicated": one shared region
// reused across every swapchain image. It may be called repeatedly before
// Create.
func (b *Buffer) Configure(size uint64, mappable bool, dupCount uint32) error {
	if err := b.beginConfigure("Buffer"); err != nil {
		return err
	}
	if dupCount == 0 {
		dupCount = 1
	}
	b.Size = size
	b.Mappable = mappable
	b.DupCount = dupCount
	return nil
}

// Create suballocates DupCount copies of Size bytes from shared, growing
// (and, if needed, recreating) its backing wgpu.Buffer so every copy is
// immediately writable.
func (b *Buffer) Create(device *wgpu.Device, queue *wgpu.Queue, shared *alloc.SharedBuffer) error {
	if b.Size == 0 {
		return rerr.New(rerr.ValidationFailed, "Buffer: size must be set before create")
	}
	dupCount := b.DupCount
	if dupCount == 0 {
		dupCount = 1
	}
	b.shared = shared
	b.regions = make([]alloc.Region, dupCount)
	for i := range b.regions {
		region, err := shared.Alloc(device, queue, b.Size, 16)
		if err != nil {
			return err
		}
		b.regions[i] = region
	}
	return b.markCreated("Buffer")
}

// Raw returns the shared wgpu.Buffer backing every copy of this Buffer;
// nil until Create succeeds.
func (b *Buffer) Raw() *wgpu.Buffer {
	if b.shared == nil {
		return nil
	}
	return b.shared.Raw()
}

// Region returns the byte range for copy index (imageIndex % DupCount), so
// an undeduplicated Buffer (DupCount 1) always returns its single region
// regardless of which swapchain image is current.
func (b *Buffer) Region(imageIndex uint32) alloc.Region {
	if len(b.regions) == 0 {
		return alloc.Region{}
	}
	return b.regions[imageIndex%uint32(len(b.regions))]
}

func (b *Buffer) Destroy() error {
	if err := b.markDestroyed("Buffer"); err != nil {
		return err
	}
	if b.shared != nil {
		for _, r := range b.regions {
			b.shared.Free(r)
		}
	}
	return nil
}
