// package present is the L5 presenter: the per-frame loop that ties the
// manager, recorder and transfer engine to an actual swapchain image. One
// Presenter owns one presentation surface (one canvas's window).
package present

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/device"
	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/manager"
	"github.com/aurorarender/protocol/render/recorder"
	"github.com/aurorarender/protocol/render/rerr"
	"github.com/aurorarender/protocol/render/transfer"
)

// MaxFramesInFlight bounds how many frames may be queued on the GPU ahead
// of the CPU before RenderFrame blocks waiting for a slot to free up.
const MaxFramesInFlight = 2

// Presenter drives the frame loop for a single canvas: acquire, drain
// deferred transfers, record if dirty, submit, present, advance frame slot.
type Presenter struct {
	mu sync.Mutex

	device    device.Device
	manager   *manager.Manager
	recorders *recorder.Registry
	transfer  *transfer.Engine
	onError   rerr.Callback

	canvas ids.ID
	surface       *wgpu.Surface
	surfaceFormat wgpu.TextureFormat

	width, height uint32
	msaaSampleCount uint32

	curSlot uint32

	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
}

// New builds a Presenter for canvas, presenting to surface. msaaSampleCount
// of 1 disables multisampling.
func New(dev device.Device, mgr *manager.Manager, recorders *recorder.Registry, xfer *transfer.Engine, canvas ids.ID, surface *wgpu.Surface, format wgpu.TextureFormat, width, height, msaaSampleCount uint32, onError rerr.Callback) *Presenter {
	return &Presenter{
		device:          dev,
		manager:         mgr,
		recorders:       recorders,
		transfer:        xfer,
		onError:         onError,
		canvas:          canvas,
		surface:         surface,
		surfaceFormat:   format,
		width:           width,
		height:          height,
		msaaSampleCount: msaaSampleCount,
	}
}

// Configure (re)configures the presentation surface for the given extent,
// called on creation and whenever the canvas is resized.
func (p *Presenter) Configure(width, height uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = width, height
	p.surface.Configure(p.device.Adapter(), p.device.Raw(), &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      p.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentModeFifo,
	})
	if err := p.recorders.Resize(p.canvas); err != nil {
		p.reportError(rerr.Wrap(rerr.StaleReference, p.canvas, "presenter: resize unknown canvas", err))
	}
}

// RenderFrame runs one full pass of the frame loop:
//
//  1. poll the device so previous submissions' callbacks fire
//  2. wait for this frame slot's prior submission to retire
//  3. acquire the next swapchain image
//  4. drain deferred transfer writes queued for this image slot
//  5. re-record the canvas if its command list is dirty, replaying it into
//     a render pass begun against the acquired image
//  6. submit the encoded commands
//  7. present the swapchain image
//  8. advance the frame slot and sweep tombstoned objects
func (p *Presenter) RenderFrame() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Step 1: poll, non-blocking — lets prior frames' map/submission
	// callbacks run without stalling this one.
	p.device.Poll(false)

	// Step 2: wait for the GPU to retire whatever was previously queued on
	// this frame slot, bounding how far the CPU can run ahead of the GPU.
	p.device.Poll(true)

	// Step 3: acquire.
	if p.frameSurface != nil {
		return rerr.New(rerr.SwapchainLost, "presenter: previous frame image not yet presented")
	}
	surfaceTexture, err := p.surface.GetCurrentTexture()
	if err != nil {
		return rerr.Wrap(rerr.SwapchainLost, p.canvas, "acquire swapchain image", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return rerr.Wrap(rerr.SwapchainLost, p.canvas, "create swapchain view", err)
	}

	encoder, err := p.device.Raw().CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return rerr.Wrap(rerr.ValidationFailed, p.canvas, "create command encoder", err)
	}

	// This image slot's contents are only stale (needing a fresh clear) when
	// the recorder says so; otherwise the swapchain image still holds
	// exactly what the last replay against this same slot drew, and LoadOp
	// Load keeps it rather than clearing it away for nothing.
	dirty := p.recorders.IsDirty(p.canvas, p.curSlot)
	loadOp := wgpu.LoadOpLoad
	clearValue := wgpu.Color{}
	if dirty {
		loadOp = wgpu.LoadOpClear
		clearValue, _ = p.recorders.BackgroundColor(p.canvas)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     loadOp,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearValue,
		}},
	})

	p.frameSurface, p.frameView, p.frameEncoder, p.framePass = surfaceTexture, view, encoder, pass

	// Step 4: drain writes deferred against this image slot before anything
	// reads it this frame.
	p.transfer.Drain(p.curSlot)

	// Step 5: only re-record when this image slot is dirty; a clean
	// slot's previous draws are still on the image LoadOpLoad just kept.
	if dirty {
		if errs := p.recorders.Replay(p.canvas, p.curSlot, p.framePass, p.manager); len(errs) > 0 {
			for _, e := range errs {
				p.reportError(e)
			}
		}
	}

	// Step 6: submit.
	p.framePass.End()
	commandBuffer, err := p.frameEncoder.Finish(nil)
	if err != nil {
		p.releaseFrame()
		return rerr.Wrap(rerr.ValidationFailed, p.canvas, "finish command buffer", err)
	}
	p.device.Queue().Submit(commandBuffer)
	commandBuffer.Release()
	p.frameEncoder.Release()
	p.frameEncoder, p.framePass = nil, nil

	// Step 7: present.
	p.surface.Present()
	p.frameView.Release()
	p.frameSurface.Release()
	p.frameView, p.frameSurface = nil, nil

	// Step 8: advance.
	p.recorders.AdvanceFrame()
	retired := p.recorders.CurrentFrame()
	if retired >= MaxFramesInFlight {
		if errs := p.manager.Sweep(retired - MaxFramesInFlight); len(errs) > 0 {
			for _, e := range errs {
				p.reportError(rerr.Wrap(rerr.ValidationFailed, p.canvas, "sweep tombstoned object", e))
			}
		}
	}
	p.curSlot = (p.curSlot + 1) % MaxFramesInFlight

	return nil
}

func (p *Presenter) releaseFrame() {
	if p.framePass != nil {
		p.framePass = nil
	}
	if p.frameEncoder != nil {
		p.frameEncoder.Release()
		p.frameEncoder = nil
	}
	if p.frameView != nil {
		p.frameView.Release()
		p.frameView = nil
	}
	if p.frameSurface != nil {
		p.frameSurface.Release()
		p.frameSurface = nil
	}
}

func (p *Presenter) reportError(err error) {
	if p.onError == nil {
		return
	}
	if re, ok := err.(*rerr.Error); ok {
		p.onError(re)
		return
	}
	p.onError(rerr.Wrap(rerr.ValidationFailed, p.canvas, fmt.Sprintf("presenter: %v", err), err))
}
