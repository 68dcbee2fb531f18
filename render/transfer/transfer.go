// package transfer is the L3 transfer engine: it gets CPU-side bytes onto
// the GPU through whichever of the three paths a write fits.
//
//   - Direct: queue.WriteBuffer/WriteTexture for small, occasional writes.
//   - Staged: a mapped staging buffer filled on the CPU then copied GPU-side,
//     for writes too big or too frequent for the direct path.
//   - Deferred: a write queued against a specific swapchain image index,
//     applied only once that image comes back around in Drain, for data
//     that must not disturb a frame still in flight on that image.
package transfer

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/rerr"
)

// Write is a single buffer write, direct or deferred.
type Write struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// Engine batches buffer writes and drains per-image deferred writes.
type Engine struct {
	queue *wgpu.Queue

	mu       sync.Mutex
	deferred map[uint32][]Write // keyed by swapchain image index
}

// New returns a transfer Engine bound to the device's default queue.
func New(queue *wgpu.Queue) *Engine {
	return &Engine{queue: queue, deferred: make(map[uint32][]Write)}
}

// WriteDirect submits writes to the queue immediately. Used for small
// updates (uniforms, push-constant-sized payloads) where the overhead of
// staging isn't worth it.
func (e *Engine) WriteDirect(writes []Write) {
	for _, w := range writes {
		if w.Buffer == nil {
			continue
		}
		e.queue.WriteBuffer(w.Buffer, w.Offset, w.Data)
	}
}

// WriteStaged copies data into a short-lived mapped staging buffer, then
// copies it into dst via a command encoder, for uploads too large or too
// frequent to route through WriteDirect's internal copy.
func (e *Engine) WriteStaged(device *wgpu.Device, dst *wgpu.Buffer, dstOffset uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	staging, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "transfer staging buffer",
		Contents: data,
		Usage:    wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return rerr.Wrap(rerr.TransferFailed, 0, "create staging buffer", err)
	}
	defer staging.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return rerr.Wrap(rerr.TransferFailed, 0, "create staging encoder", err)
	}
	encoder.CopyBufferToBuffer(staging, 0, dst, dstOffset, uint64(len(data)))

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return rerr.Wrap(rerr.TransferFailed, 0, "finish staging encoder", err)
	}
	e.queue.Submit(cmd)
	return nil
}

// Defer queues a write to apply only once imageIndex's swapchain image is
// next acquired, so a write destined for a resource an in-flight frame
// still reads doesn't race that frame's commands.
func (e *Engine) Defer(imageIndex uint32, w Write) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deferred[imageIndex] = append(e.deferred[imageIndex], w)
}

// Drain applies and clears every write deferred against imageIndex. The
// presenter calls this once per frame, right after acquiring that image,
// before recording any draw commands against it.
func (e *Engine) Drain(imageIndex uint32) {
	e.mu.Lock()
	writes := e.deferred[imageIndex]
	delete(e.deferred, imageIndex)
	e.mu.Unlock()

	e.WriteDirect(writes)
}
