// package alloc implements the shared-buffer suballocator: one real
// wgpu.Buffer per (kind, mappable) pair, carved into byte ranges handed out
// to Dat/Tex-backed requests, so many small GPU objects don't each demand
// their own backing allocation.
//
// Unlike a dense index allocator whose indices are never merged, freed byte
// ranges here must coalesce with their neighbours or a buffer fragmented by
// many small alloc/free cycles would spuriously run out of room.
package alloc

import (
	"sort"
	"sync"

	"github.com/aurorarender/protocol/render/rerr"
)

// Region is a byte range suballocated from a shared buffer.
type Region struct {
	Offset uint64
	Size   uint64
}

// End returns the exclusive end offset of the region.
func (r Region) End() uint64 { return r.Offset + r.Size }

// Heap is a free-list suballocator over a single logical buffer of Capacity
// bytes. Capacity grows by doubling when no free region is large enough.
type Heap struct {
	mu       sync.Mutex
	capacity uint64
	free     []Region // kept sorted by Offset, non-overlapping
}

// NewHeap creates a Heap with the given initial capacity.
func NewHeap(initialCapacity uint64) *Heap {
	h := &Heap{capacity: initialCapacity}
	if initialCapacity > 0 {
		h.free = []Region{{Offset: 0, Size: initialCapacity}}
	}
	return h
}

// Capacity returns the current logical buffer size. Callers must resize (or
// recreate) the backing wgpu.Buffer to at least this size after any Alloc
// that grows the heap.
func (h *Heap) Capacity() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.capacity
}

// Alloc reserves size bytes, aligned to align (rounded up to a power of two
// boundary), returning the assigned Region. grew reports whether the heap's
// Capacity increased, telling the caller it must grow the backing buffer
// before the region can be written to.
func (h *Heap) Alloc(size, align uint64) (region Region, grew bool, err error) {
	if size == 0 {
		return Region{}, false, rerr.New(rerr.ValidationFailed, "alloc: size must be > 0")
	}
	if align == 0 {
		align = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, f := range h.free {
		start := alignUp(f.Offset, align)
		padding := start - f.Offset
		if f.Size < padding+size {
			continue
		}
		remaining := f.Size - padding - size
		h.removeFree(i)
		if padding > 0 {
			h.insertFree(Region{Offset: f.Offset, Size: padding})
		}
		if remaining > 0 {
			h.insertFree(Region{Offset: start + size, Size: remaining})
		}
		return Region{Offset: start, Size: size}, false, nil
	}

	// No free region large enough: grow by doubling until size fits, then
	// retry allocation from the newly extended tail.
	oldCapacity := h.capacity
	newCapacity := h.capacity
	if newCapacity == 0 {
		newCapacity = size
	}
	for newCapacity-oldCapacity < size || alignUp(oldCapacity, align)+size > newCapacity {
		if newCapacity == 0 {
			newCapacity = size
			break
		}
		newCapacity *= 2
	}
	start := alignUp(oldCapacity, align)
	padding := start - oldCapacity
	tailSize := newCapacity - start - size
	if padding > 0 {
		h.insertFree(Region{Offset: oldCapacity, Size: padding})
	}
	if tailSize > 0 {
		h.insertFree(Region{Offset: start + size, Size: tailSize})
	}
	h.capacity = newCapacity
	return Region{Offset: start, Size: size}, true, nil
}

// Free returns a region to the free list, coalescing it with adjacent free
// regions so long-running alloc/free traffic doesn't fragment the heap.
func (h *Heap) Free(region Region) {
	if region.Size == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.insertFree(region)
}

// insertFree inserts region into the sorted free list and merges it with
// any directly adjacent neighbours. Caller must hold h.mu.
func (h *Heap) insertFree(region Region) {
	idx := sort.Search(len(h.free), func(i int) bool { return h.free[i].Offset >= region.Offset })
	h.free = append(h.free, Region{})
	copy(h.free[idx+1:], h.free[idx:])
	h.free[idx] = region

	// Merge with the following neighbour first so indices stay valid.
	if idx+1 < len(h.free) && h.free[idx].End() == h.free[idx+1].Offset {
		h.free[idx].Size += h.free[idx+1].Size
		h.free = append(h.free[:idx+1], h.free[idx+2:]...)
	}
	if idx > 0 && h.free[idx-1].End() == h.free[idx].Offset {
		h.free[idx-1].Size += h.free[idx].Size
		h.free = append(h.free[:idx], h.free[idx+1:]...)
	}
}

// removeFree deletes the free region at index i. Caller must hold h.mu.
func (h *Heap) removeFree(i int) {
	h.free = append(h.free[:i], h.free[i+1:]...)
}

func alignUp(v, align uint64) uint64 {
	if align <= 1 {
		return v
	}
	rem := v % align
	if rem == 0 {
		return v
	}
	return v + (align - rem)
}
