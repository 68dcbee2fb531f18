// package recorder is the L4 recorder: per-canvas ordered command lists
// that get replayed into a wgpu.RenderPassEncoder once per frame, plus the
// dirty bitmask that tells the presenter which canvases need re-recording
// before the next submit.
package recorder

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/batch"
	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/manager"
	"github.com/aurorarender/protocol/render/resource"
	"github.com/aurorarender/protocol/render/rerr"
)

// Canvas is one presentation target's replayable command list.
//
// DirtyMask is a bitset with one bit per swapchain image index: bit i set
// means that image's last-presented content no longer matches Commands and
// needs a fresh clear+replay before it's shown again. A clean image is left
// untouched (LoadOpLoad) by the presenter, reusing its previous contents
// instead of re-walking Commands.
type Canvas struct {
	ID              ids.ID
	Commands        []batch.Record
	DirtyMask       uint64
	BackgroundColor wgpu.Color
}

// allDirty marks every swapchain image's slot as needing a fresh replay.
const allDirty = ^uint64(0)

func dirtyBit(imageIndex uint32) uint64 {
	return uint64(1) << (imageIndex % 64)
}

// Registry owns every canvas's command list and the process-wide frame
// counter requests reference when tombstoning objects for deferred
// destruction.
type Registry struct {
	mu      sync.Mutex
	canvas  map[ids.ID]*Canvas
	frame   uint64
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{canvas: make(map[ids.ID]*Canvas)}
}

// Create registers a new canvas with an empty command list and the given
// clear color, every swapchain image slot starting dirty so its first
// presentation always clears and replays.
func (r *Registry) Create(id ids.ID, backgroundColor wgpu.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canvas[id] = &Canvas{ID: id, DirtyMask: allDirty, BackgroundColor: backgroundColor}
}

// Resize marks every swapchain image slot dirty so the presenter re-records
// each of them against the new extent before its next submit.
func (r *Registry) Resize(id ids.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvas[id]
	if !ok {
		return rerr.Wrap(rerr.StaleReference, id, "resize: canvas not found", nil)
	}
	c.DirtyMask = allDirty
	return nil
}

// Append adds a command to a canvas's replay list and marks every
// swapchain image slot dirty, since the list every image's prior replay
// reflected is now stale.
func (r *Registry) Append(id ids.ID, cmd batch.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvas[id]
	if !ok {
		return rerr.Wrap(rerr.StaleReference, id, "record: canvas not found", nil)
	}
	c.Commands = append(c.Commands, cmd)
	c.DirtyMask = allDirty
	return nil
}

// IsDirty reports whether imageIndex's swapchain image no longer reflects
// id's current command list (false for an unknown canvas). The presenter
// consults this before Replay to skip
// re-recording (and re-clearing) an image whose prior contents are still
// valid.
func (r *Registry) IsDirty(id ids.ID, imageIndex uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvas[id]
	return ok && c.DirtyMask&dirtyBit(imageIndex) != 0
}

// BackgroundColor returns the clear color id was created with.
func (r *Registry) BackgroundColor(id ids.ID) (wgpu.Color, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvas[id]
	if !ok {
		return wgpu.Color{}, false
	}
	return c.BackgroundColor, true
}

// CurrentFrame returns the frame number the registry is currently on, used
// by the dispatcher to stamp tombstoned objects.
func (r *Registry) CurrentFrame() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// AdvanceFrame increments the frame counter; the presenter calls this once
// per submitted frame.
func (r *Registry) AdvanceFrame() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame++
	return r.frame
}

// Replay encodes id's command list into pass, resolving each command's
// pipeline and buffer references through mgr, and clears imageIndex's dirty
// bit on success. Callers should only invoke Replay when IsDirty(id,
// imageIndex) is true; an up-to-date image's contents are left alone by the
// presenter instead. A command referencing a stale ID is skipped with an
// error collected into the returned slice rather than aborting the pass.
func (r *Registry) Replay(id ids.ID, imageIndex uint32, pass *wgpu.RenderPassEncoder, mgr *manager.Manager) []error {
	r.mu.Lock()
	c, ok := r.canvas[id]
	r.mu.Unlock()
	if !ok {
		return []error{rerr.Wrap(rerr.StaleReference, id, "replay: canvas not found", nil)}
	}

	var errs []error

	for _, cmd := range c.Commands {
		obj, err := mgr.Get(cmd.Pipe)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pipe, ok := obj.(*resource.Pipeline)
		if !ok {
			errs = append(errs, rerr.Wrap(rerr.ValidationFailed, cmd.Pipe, "replay: object is not a pipeline", nil))
			continue
		}
		if pipe.Render() == nil {
			errs = append(errs, rerr.Wrap(rerr.WrongState, cmd.Pipe, "replay: pipeline has no render pipeline created", nil))
			continue
		}
		pass.SetPipeline(pipe.Render())

		switch cmd.Command {
		case batch.RecordViewport:
			pass.SetViewport(cmd.ViewportOffset[0], cmd.ViewportOffset[1], cmd.ViewportShape[0], cmd.ViewportShape[1], 0, 1)
		case batch.RecordPush:
			if len(cmd.PushData) > 0 {
				pass.SetPushConstants(wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 0, cmd.PushData)
			}
		case batch.RecordDraw:
			if pipe.VertexBuffer != nil {
				pass.SetVertexBuffer(0, pipe.VertexBuffer, pipe.VertexBufferOffset, wgpu.WholeSize)
			}
			pass.Draw(cmd.VertexCount, cmd.InstanceCount, cmd.FirstVertex, cmd.FirstInstance)
		case batch.RecordDrawIndexed:
			if pipe.VertexBuffer != nil {
				pass.SetVertexBuffer(0, pipe.VertexBuffer, pipe.VertexBufferOffset, wgpu.WholeSize)
			}
			if pipe.IndexBuffer != nil {
				pass.SetIndexBuffer(pipe.IndexBuffer, wgpu.IndexFormatUint32, pipe.IndexBufferOffset, wgpu.WholeSize)
			}
			pass.DrawIndexed(cmd.IndexCount, cmd.InstanceCount, cmd.FirstIndex, cmd.VertexOffset, cmd.FirstInstance)
		case batch.RecordDrawIndirect:
			indirectObj, err := mgr.Get(cmd.IndirectDat)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			indirectBuf, ok := indirectObj.(*resource.Buffer)
			if !ok {
				errs = append(errs, rerr.Wrap(rerr.ValidationFailed, cmd.IndirectDat, "replay: indirect object is not a buffer", nil))
				continue
			}
			pass.DrawIndirect(indirectBuf.Raw(), indirectBuf.Region(imageIndex).Offset)
		case batch.RecordDrawIndexedIndirect:
			indirectObj, err := mgr.Get(cmd.IndirectDat)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			indirectBuf, ok := indirectObj.(*resource.Buffer)
			if !ok {
				errs = append(errs, rerr.Wrap(rerr.ValidationFailed, cmd.IndirectDat, "replay: indirect object is not a buffer", nil))
				continue
			}
			pass.DrawIndexedIndirect(indirectBuf.Raw(), indirectBuf.Region(imageIndex).Offset)
		}
	}

	r.mu.Lock()
	c.DirtyMask &^= dirtyBit(imageIndex)
	r.mu.Unlock()
	return errs
}
