// package dispatch applies a batch.Batch to the manager, recorder and
// transfer engine: the L4 step between accumulating requests and the
// presenter actually drawing with them.
package dispatch

import (
	"fmt"
	"log"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/alloc"
	"github.com/aurorarender/protocol/render/batch"
	"github.com/aurorarender/protocol/render/device"
	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/manager"
	"github.com/aurorarender/protocol/render/recorder"
	"github.com/aurorarender/protocol/render/resource"
	"github.com/aurorarender/protocol/render/rerr"
	"github.com/aurorarender/protocol/render/transfer"
)

// Dispatcher walks a Batch's requests in order, applying each to the
// manager/recorder/transfer it was built with. A single request's failure
// is logged and skipped rather than aborting the whole batch, so one bad
// reference doesn't take down everything queued alongside it.
type Dispatcher struct {
	device    device.Device
	manager   *manager.Manager
	recorders *recorder.Registry
	transfer  *transfer.Engine
	onError   rerr.Callback

	sharedBuffers map[sharedBufferKey]*alloc.SharedBuffer
}

// sharedBufferKey identifies the pool a Dat's shared wgpu.Buffer is drawn
// from: every Dat of the same kind and mappability is suballocated out of
// one growing buffer instead of owning a dedicated one.
type sharedBufferKey struct {
	kind     resource.BufferKind
	mappable bool
}

// New builds a Dispatcher wired to the given layers.
func New(dev device.Device, mgr *manager.Manager, recorders *recorder.Registry, xfer *transfer.Engine, onError rerr.Callback) *Dispatcher {
	return &Dispatcher{
		device:        dev,
		manager:       mgr,
		recorders:     recorders,
		transfer:      xfer,
		onError:       onError,
		sharedBuffers: make(map[sharedBufferKey]*alloc.SharedBuffer),
	}
}

// sharedBufferFor returns the pool backing Dats of the given kind and
// mappability, lazily creating it on first use.
func (d *Dispatcher) sharedBufferFor(kind resource.BufferKind, mappable bool) *alloc.SharedBuffer {
	key := sharedBufferKey{kind: kind, mappable: mappable}
	s, ok := d.sharedBuffers[key]
	if !ok {
		s = alloc.NewSharedBuffer(resource.BufferUsage(kind, mappable), fmt.Sprintf("dat pool kind=%d mappable=%v", kind, mappable))
		d.sharedBuffers[key] = s
	}
	return s
}

// Apply applies every request in b in order, then frees b. It never
// retains b past the call, matching the batch layer's explicit ownership
// contract.
func (d *Dispatcher) Apply(b *batch.Batch) {
	defer b.Free()
	for _, req := range b.Requests() {
		if err := d.applyOne(req); err != nil {
			log.Printf("dispatch: skipping request (action=%v object=%v id=%d): %v", req.Action, req.Object, req.ID, err)
			if d.onError != nil {
				if re, ok := err.(*rerr.Error); ok {
					d.onError(re)
				} else {
					d.onError(rerr.Wrap(rerr.ValidationFailed, req.ID, "request failed", err))
				}
			}
		}
	}
}

func (d *Dispatcher) applyOne(req batch.Request) error {
	switch req.Action {
	case batch.ActionCreate:
		return d.applyCreate(req)
	case batch.ActionDelete:
		return d.manager.Tombstone(req.ID, d.recorders.CurrentFrame())
	case batch.ActionResize:
		return d.applyResize(req)
	case batch.ActionUpload:
		return d.applyUpload(req)
	case batch.ActionSet:
		return d.applySet(req)
	case batch.ActionBind:
		return d.applyBind(req)
	case batch.ActionRecord:
		return d.applyRecord(req)
	default:
		return rerr.Newf(rerr.ValidationFailed, "dispatch: unhandled action %v", req.Action)
	}
}

func (d *Dispatcher) applyCreate(req batch.Request) error {
	switch req.Object {
	case batch.ObjectCanvas:
		if req.CanvasCreate == nil {
			return rerr.New(rerr.ValidationFailed, "create canvas: missing payload")
		}
		d.recorders.Create(req.ID, req.CanvasCreate.BackgroundColor)
		return nil
	case batch.ObjectDat:
		if req.DatCreate == nil {
			return rerr.New(rerr.ValidationFailed, "create dat: missing payload")
		}
		kind := resource.BufferKind(req.DatCreate.Type)
		buf := resource.NewBuffer(kind)
		if err := buf.Configure(req.DatCreate.Size, req.DatCreate.Mappable, req.DatCreate.DupCount); err != nil {
			return err
		}
		shared := d.sharedBufferFor(kind, req.DatCreate.Mappable)
		if err := buf.Create(d.device.Raw(), d.device.Queue(), shared); err != nil {
			return err
		}
		return d.manager.Put(req.ID, buf)
	case batch.ObjectTex:
		if req.TexCreate == nil {
			return rerr.New(rerr.ValidationFailed, "create tex: missing payload")
		}
		tex := resource.NewTexture()
		if err := tex.Configure(req.TexCreate.Width, req.TexCreate.Height, req.TexCreate.Format); err != nil {
			return err
		}
		if err := tex.Create(d.device.Raw(), "tex", false); err != nil {
			return err
		}
		return d.manager.Put(req.ID, tex)
	case batch.ObjectSampler:
		s := resource.NewSampler()
		if err := s.Create(d.device.Raw(), "sampler"); err != nil {
			return err
		}
		return d.manager.Put(req.ID, s)
	case batch.ObjectShader:
		if req.ShaderCreate == nil {
			return rerr.New(rerr.ValidationFailed, "create shader: missing payload")
		}
		sh := resource.NewShader(resource.ShaderStage(req.ShaderCreate.Stage))
		if err := sh.Configure(req.ShaderCreate.Code, ""); err != nil {
			return err
		}
		if err := sh.Create(d.device.Raw(), "shader"); err != nil {
			return err
		}
		return d.manager.Put(req.ID, sh)
	case batch.ObjectPipeline:
		if req.PipelineCreate == nil {
			return rerr.New(rerr.ValidationFailed, "create pipeline: missing payload")
		}
		p := resource.NewPipeline(resource.PipelineKind(req.PipelineCreate.Kind))
		return d.manager.Put(req.ID, p)
	default:
		return rerr.Newf(rerr.ValidationFailed, "dispatch: create unsupported for object %v", req.Object)
	}
}

func (d *Dispatcher) applyResize(req batch.Request) error {
	if req.Resize == nil {
		return rerr.New(rerr.ValidationFailed, "resize: missing payload")
	}
	if req.Object == batch.ObjectCanvas {
		return d.recorders.Resize(req.ID)
	}
	return rerr.Newf(rerr.ValidationFailed, "dispatch: resize unsupported for object %v", req.Object)
}

func (d *Dispatcher) applyUpload(req batch.Request) error {
	if req.Upload == nil {
		return rerr.New(rerr.ValidationFailed, "upload: missing payload")
	}
	obj, err := d.manager.Get(req.ID)
	if err != nil {
		return err
	}
	switch o := obj.(type) {
	case *resource.Buffer:
		if o.DupCount <= 1 {
			region := o.Region(0)
			d.transfer.WriteDirect([]transfer.Write{{Buffer: o.Raw(), Offset: region.Offset + req.Upload.Offset, Data: req.Upload.Data}})
			return nil
		}
		// A duplicated Dat has one copy per swapchain image; defer the
		// write to each copy so it lands before that image is next
		// acquired instead of racing a draw still in flight against it.
		for i := uint32(0); i < o.DupCount; i++ {
			region := o.Region(i)
			d.transfer.Defer(i, transfer.Write{Buffer: o.Raw(), Offset: region.Offset + req.Upload.Offset, Data: req.Upload.Data})
		}
		return nil
	case *resource.Texture:
		return o.Upload(d.device.Queue(), req.Upload.Data)
	default:
		return rerr.Wrap(rerr.ValidationFailed, req.ID, "upload: object does not accept byte uploads", nil)
	}
}

func (d *Dispatcher) applySet(req batch.Request) error {
	obj, err := d.manager.Get(req.ID)
	if err != nil {
		return err
	}
	p, ok := obj.(*resource.Pipeline)
	if !ok {
		return rerr.Wrap(rerr.ValidationFailed, req.ID, "set: object is not a pipeline", nil)
	}
	switch req.Object {
	case batch.ObjectSlot:
		if req.SetSlot == nil {
			return rerr.New(rerr.ValidationFailed, "set slot: missing payload")
		}
		return p.SetSlot(resource.Slot{Group: req.SetSlot.Group, Binding: req.SetSlot.Binding, Kind: req.SetSlot.Kind, Stage: req.SetSlot.Stage})
	case batch.ObjectVertex:
		if req.SetVertex == nil {
			return rerr.New(rerr.ValidationFailed, "set vertex: missing payload")
		}
		return p.SetVertex(req.SetVertex.Binding, req.SetVertex.Stride, req.SetVertex.StepMode)
	case batch.ObjectAttr:
		if req.SetAttr == nil {
			return rerr.New(rerr.ValidationFailed, "set attr: missing payload")
		}
		return p.SetAttr(req.SetAttr.Binding, req.SetAttr.Location, req.SetAttr.Format, req.SetAttr.Offset)
	case batch.ObjectPrimitive:
		if req.SetPrimitive == nil {
			return rerr.New(rerr.ValidationFailed, "set primitive: missing payload")
		}
		p.Topology = req.SetPrimitive.Topology
		return nil
	case batch.ObjectDepth:
		if req.SetDepth == nil {
			return rerr.New(rerr.ValidationFailed, "set depth: missing payload")
		}
		p.DepthTest = req.SetDepth.Enabled
		p.DepthWrite = req.SetDepth.Enabled
		return nil
	case batch.ObjectBlend:
		if req.SetBlend == nil {
			return rerr.New(rerr.ValidationFailed, "set blend: missing payload")
		}
		if req.SetBlend.Enabled {
			p.BlendState = &wgpu.BlendState{
				Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
				Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
			}
		} else {
			p.BlendState = nil
		}
		return nil
	case batch.ObjectCull:
		if req.SetCull == nil {
			return rerr.New(rerr.ValidationFailed, "set cull: missing payload")
		}
		p.CullMode = req.SetCull.Mode
		return nil
	case batch.ObjectFront:
		if req.SetFront == nil {
			return rerr.New(rerr.ValidationFailed, "set front: missing payload")
		}
		p.FrontFace = req.SetFront.Face
		return nil
	case batch.ObjectShader:
		shaderObj, err := d.manager.Get(req.BindDat.Dat)
		if err != nil {
			return err
		}
		sh, ok := shaderObj.(*resource.Shader)
		if !ok {
			return rerr.Wrap(rerr.ValidationFailed, req.BindDat.Dat, "set shader: object is not a shader", nil)
		}
		switch resource.ShaderStage(req.Tag) {
		case resource.ShaderStageVertex:
			p.VertexShader = sh
		case resource.ShaderStageFragment:
			p.FragmentShader = sh
		case resource.ShaderStageCompute:
			p.ComputeShader = sh
		}
		return nil
	default:
		return rerr.Newf(rerr.ValidationFailed, "dispatch: set unsupported for object %v", req.Object)
	}
}

func (d *Dispatcher) applyBind(req batch.Request) error {
	pipeObj, err := d.manager.Get(req.ID)
	if err != nil {
		return err
	}
	p, ok := pipeObj.(*resource.Pipeline)
	if !ok {
		return rerr.Wrap(rerr.ValidationFailed, req.ID, "bind: target is not a pipeline", nil)
	}

	switch req.Object {
	case batch.ObjectBindVertex:
		if req.BindVertex == nil {
			return rerr.New(rerr.ValidationFailed, "bind vertex: missing payload")
		}
		buf, err := d.getBuffer(req.BindVertex.Dat)
		if err != nil {
			return err
		}
		p.VertexBuffer, p.VertexBufferOffset = buf.Raw(), buf.Region(0).Offset+req.BindVertex.Offset
		return nil
	case batch.ObjectBindIndex:
		if req.BindIndex == nil {
			return rerr.New(rerr.ValidationFailed, "bind index: missing payload")
		}
		buf, err := d.getBuffer(req.BindIndex.Dat)
		if err != nil {
			return err
		}
		p.IndexBuffer, p.IndexBufferOffset = buf.Raw(), buf.Region(0).Offset+req.BindIndex.Offset
		return nil
	case batch.ObjectBindDat, batch.ObjectBindTex:
		// Descriptor-slot bindings only validate that the referenced
		// object exists, so a stale ID fails here; the binding itself is
		// not stored, and no wgpu.BindGroup is built from it at record
		// time or later.
		var ref ids.ID
		if req.Object == batch.ObjectBindDat {
			ref = req.BindDat.Dat
		} else {
			ref = req.BindTex.Tex
		}
		_, err := d.manager.Get(ref)
		return err
	default:
		return rerr.Newf(rerr.ValidationFailed, "dispatch: bind unsupported for object %v", req.Object)
	}
}

func (d *Dispatcher) getBuffer(id ids.ID) (*resource.Buffer, error) {
	obj, err := d.manager.Get(id)
	if err != nil {
		return nil, err
	}
	buf, ok := obj.(*resource.Buffer)
	if !ok {
		return nil, rerr.Wrap(rerr.ValidationFailed, id, "bind: object is not a buffer", nil)
	}
	return buf, nil
}

func (d *Dispatcher) applyRecord(req batch.Request) error {
	if req.Record == nil {
		return rerr.New(rerr.ValidationFailed, "record: missing payload")
	}
	return d.recorders.Append(req.ID, *req.Record)
}
