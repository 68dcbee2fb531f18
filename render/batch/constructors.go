package batch

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/ids"
)

// Batch accumulates Requests in submission order. A Batch is built with the
// typed constructor methods below, never by appending Request values
// directly, so every request carries a freshly assigned ID from the given
// Counter when it creates an object.
type Batch struct {
	counter  *ids.Counter
	requests []Request
}

// New returns an empty Batch whose create-requests draw IDs from counter.
func New(counter *ids.Counter) *Batch {
	return &Batch{counter: counter}
}

// Requests returns the accumulated requests in submission order.
func (b *Batch) Requests() []Request { return b.requests }

// Len reports how many requests are accumulated.
func (b *Batch) Len() int { return len(b.requests) }

// Free releases every request payload's backing arrays. Dispatch calls this
// once a Batch has been fully applied; callers must not reuse a Batch after
// Free.
func (b *Batch) Free() {
	for i := range b.requests {
		if u := b.requests[i].Upload; u != nil {
			u.Data = nil
		}
		if r := b.requests[i].Record; r != nil {
			r.PushData = nil
		}
	}
	b.requests = nil
}

func (b *Batch) append(r Request) ids.ID {
	b.requests = append(b.requests, r)
	return r.ID
}

// CreateCanvas appends a request creating a presentation canvas of the
// given size and clear color, returning its assigned ID.
func (b *Batch) CreateCanvas(width, height uint32, offscreen bool, backgroundColor wgpu.Color) ids.ID {
	id := b.counter.Next()
	return b.append(Request{
		Action: ActionCreate, Object: ObjectCanvas, ID: id,
		CanvasCreate: &CanvasCreate{Width: width, Height: height, Offscreen: offscreen, BackgroundColor: backgroundColor},
	})
}

// CreateDat appends a request creating a buffer (Dat) of the given type and
// byte size, returning its assigned ID. mappable marks the buffer for
// direct CPU writes; dupCount duplicates it once per swapchain image (0 or
// 1 both mean "not duplicated").
func (b *Batch) CreateDat(bufType BufferType, size uint64, mappable bool, dupCount uint32) ids.ID {
	id := b.counter.Next()
	return b.append(Request{
		Action: ActionCreate, Object: ObjectDat, ID: id,
		DatCreate: &DatCreate{Type: bufType, Size: size, Mappable: mappable, DupCount: dupCount},
	})
}

// CreateTex appends a request creating a texture (Tex) of the given shape
// and format, returning its assigned ID.
func (b *Batch) CreateTex(width, height uint32, format wgpu.TextureFormat) ids.ID {
	id := b.counter.Next()
	return b.append(Request{
		Action: ActionCreate, Object: ObjectTex, ID: id,
		TexCreate: &TexCreate{Width: width, Height: height, Depth: 1, Format: format},
	})
}

// CreateSampler appends a request creating a sampler, returning its
// assigned ID.
func (b *Batch) CreateSampler(mag, min wgpu.FilterMode, address wgpu.AddressMode) ids.ID {
	id := b.counter.Next()
	return b.append(Request{
		Action: ActionCreate, Object: ObjectSampler, ID: id,
		SamplerCreate: &SamplerCreate{MagFilter: mag, MinFilter: min, AddressMode: address},
	})
}

// CreateShader appends a request creating a shader module from WGSL source,
// returning its assigned ID.
func (b *Batch) CreateShader(stage int, code string) ids.ID {
	id := b.counter.Next()
	return b.append(Request{
		Action: ActionCreate, Object: ObjectShader, ID: id,
		ShaderCreate: &ShaderCreate{Stage: stage, Code: code},
	})
}

// CreatePipeline appends a request creating a render or compute pipeline,
// returning its assigned ID. Slots, shaders and fixed-function state are
// attached to the returned ID by subsequent Set*/Bind* requests.
func (b *Batch) CreatePipeline(kind int) ids.ID {
	id := b.counter.Next()
	return b.append(Request{
		Action: ActionCreate, Object: ObjectPipeline, ID: id,
		PipelineCreate: &PipelineCreate{Kind: int32(kind)},
	})
}

// Delete appends a request destroying the object with the given ID.
func (b *Batch) Delete(object Object, id ids.ID) {
	b.append(Request{Action: ActionDelete, Object: object, ID: id, Delete: &Delete{}})
}

// Resize appends a request resizing a canvas or tex.
func (b *Batch) Resize(object Object, id ids.ID, width, height uint32) {
	b.append(Request{
		Action: ActionResize, Object: object, ID: id,
		Resize: &Resize{Width: width, Height: height},
	})
}

// Upload appends a direct upload request copying data to the object
// starting at offset. data is retained by the Batch until Free.
func (b *Batch) Upload(object Object, id ids.ID, offset uint64, data []byte) {
	b.append(Request{
		Action: ActionUpload, Object: object, ID: id,
		Upload: &Upload{Offset: offset, Data: data},
	})
}

// SetSlot appends a request declaring one descriptor binding a pipeline
// expects.
func (b *Batch) SetSlot(pipeline ids.ID, group, binding uint32, kind wgpu.BindingType, stage wgpu.ShaderStage) {
	b.append(Request{
		Action: ActionSet, Object: ObjectSlot, ID: pipeline,
		SetSlot: &SetSlot{Group: group, Binding: binding, Kind: kind, Stage: stage},
	})
}

// SetPush appends a request declaring a pipeline's push-constant range.
func (b *Batch) SetPush(pipeline ids.ID, stage wgpu.ShaderStage, offset, size uint32) {
	b.append(Request{
		Action: ActionSet, Object: ObjectPush, ID: pipeline,
		SetPush: &SetPush{Stage: stage, Offset: offset, Size: size},
	})
}

// SetVertex appends a request declaring one vertex buffer binding's stride
// and step mode.
func (b *Batch) SetVertex(pipeline ids.ID, binding uint32, stride uint64, stepMode wgpu.VertexStepMode) {
	b.append(Request{
		Action: ActionSet, Object: ObjectVertex, ID: pipeline,
		SetVertex: &SetVertex{Binding: binding, Stride: stride, StepMode: stepMode},
	})
}

// SetAttr appends a request declaring one vertex attribute read out of a
// binding already declared by a SetVertex request.
func (b *Batch) SetAttr(pipeline ids.ID, binding, location uint32, format wgpu.VertexFormat, offset uint64) {
	b.append(Request{
		Action: ActionSet, Object: ObjectAttr, ID: pipeline,
		SetAttr: &SetAttr{Binding: binding, Location: location, Format: format, Offset: offset},
	})
}

// SetShader attaches a previously created shader module to a pipeline's
// vertex, fragment or compute stage (stage matches resource.ShaderStage).
func (b *Batch) SetShader(pipeline ids.ID, stage int, shader ids.ID) {
	b.append(Request{
		Action: ActionSet, Object: ObjectShader, ID: pipeline, Tag: stage,
		BindDat: &BindDat{Dat: shader},
	})
}

// SetPrimitive appends a request setting a pipeline's primitive topology.
func (b *Batch) SetPrimitive(pipeline ids.ID, topology wgpu.PrimitiveTopology) {
	b.append(Request{
		Action: ActionSet, Object: ObjectPrimitive, ID: pipeline,
		SetPrimitive: &SetPrimitive{Topology: topology},
	})
}

// SetDepth appends a request toggling a pipeline's depth test.
func (b *Batch) SetDepth(pipeline ids.ID, enabled bool) {
	b.append(Request{
		Action: ActionSet, Object: ObjectDepth, ID: pipeline,
		SetDepth: &SetDepth{Enabled: enabled},
	})
}

// SetBlend appends a request toggling a pipeline's blend state.
func (b *Batch) SetBlend(pipeline ids.ID, enabled bool) {
	b.append(Request{
		Action: ActionSet, Object: ObjectBlend, ID: pipeline,
		SetBlend: &SetBlend{Enabled: enabled},
	})
}

// SetCull appends a request setting a pipeline's cull mode.
func (b *Batch) SetCull(pipeline ids.ID, mode wgpu.CullMode) {
	b.append(Request{
		Action: ActionSet, Object: ObjectCull, ID: pipeline,
		SetCull: &SetCull{Mode: mode},
	})
}

// SetFront appends a request setting a pipeline's front-face winding.
func (b *Batch) SetFront(pipeline ids.ID, face wgpu.FrontFace) {
	b.append(Request{
		Action: ActionSet, Object: ObjectFront, ID: pipeline,
		SetFront: &SetFront{Face: face},
	})
}

// BindVertex appends a request binding a Dat as a pipeline's vertex buffer.
func (b *Batch) BindVertex(pipeline ids.ID, binding uint32, dat ids.ID, offset uint64) {
	b.append(Request{
		Action: ActionBind, Object: ObjectBindVertex, ID: pipeline,
		BindVertex: &BindVertex{Binding: binding, Dat: dat, Offset: offset},
	})
}

// BindIndex appends a request binding a Dat as a pipeline's index buffer.
func (b *Batch) BindIndex(pipeline ids.ID, dat ids.ID, offset uint64) {
	b.append(Request{
		Action: ActionBind, Object: ObjectBindIndex, ID: pipeline,
		BindIndex: &BindIndex{Dat: dat, Offset: offset},
	})
}

// BindDat appends a request binding a Dat to a pipeline's descriptor slot.
func (b *Batch) BindDat(pipeline ids.ID, slot uint32, dat ids.ID, offset uint64) {
	b.append(Request{
		Action: ActionBind, Object: ObjectBindDat, ID: pipeline,
		BindDat: &BindDat{Slot: slot, Dat: dat, Offset: offset},
	})
}

// BindTex appends a request binding a Tex+Sampler pair to a pipeline's
// descriptor slot.
func (b *Batch) BindTex(pipeline ids.ID, slot uint32, tex, sampler ids.ID) {
	b.append(Request{
		Action: ActionBind, Object: ObjectBindTex, ID: pipeline,
		BindTex: &BindTex{Slot: slot, Tex: tex, Sampler: sampler},
	})
}

// Record appends a command to a canvas's replay list.
func (b *Batch) Record(canvas ids.ID, cmd Record) {
	c := cmd
	b.append(Request{
		Action: ActionRecord, Object: ObjectRecord, ID: canvas,
		Record: &c,
	})
}
