package resource

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/rerr"
)

// PipelineKind distinguishes a render pipeline (vertex+fragment) from a
// compute pipeline (single compute shader).
type PipelineKind int

const (
	PipelineRender PipelineKind = iota
	PipelineCompute
)

// Slot is one declared binding within a bind group a pipeline will be
// dispatched against. Pipelines accumulate slots through SetSlot requests
// rather than inferring a layout by parsing shader source.
type Slot struct {
	Group   uint32
	Binding uint32
	Kind    wgpu.BindingType
	Stage   wgpu.ShaderStage
}

// VertexBinding is one vertex buffer slot's layout: its stride, step mode,
// and the attributes read out of it, accumulated through SetVertex/SetAttr
// requests rather than inferred from shader source.
type VertexBinding struct {
	Binding    uint32
	Stride     uint64
	StepMode   wgpu.VertexStepMode
	Attributes []wgpu.VertexAttribute
}

// Pipeline accumulates shader and slot configuration before the backing
// wgpu.RenderPipeline or wgpu.ComputePipeline is created.
type Pipeline struct {
	lifecycle

	Kind PipelineKind

	VertexShader, FragmentShader, ComputeShader *Shader
	Slots                                       []Slot
	VertexBindings                               []VertexBinding

	// VertexBuffer and IndexBuffer hold the most recently bound Dat for
	// this pipeline's draw commands, set by BindVertex/BindIndex requests.
	VertexBuffer, IndexBuffer             *wgpu.Buffer
	VertexBufferOffset, IndexBufferOffset uint64

	Topology    wgpu.PrimitiveTopology
	CullMode    wgpu.CullMode
	FrontFace   wgpu.FrontFace
	WriteMask   wgpu.ColorWriteMask
	BlendState  *wgpu.BlendState
	DepthTest   bool
	DepthWrite  bool
	SampleCount uint32

	layout  *wgpu.PipelineLayout
	render  *wgpu.RenderPipeline
	compute *wgpu.ComputePipeline
}

// NewPipeline allocates a Pipeline object with the teacher's defaults:
// triangle list topology, no culling, CCW front face, depth test+write on,
// straight alpha blending disabled by default.
func NewPipeline(kind PipelineKind) *Pipeline {
	return &Pipeline{
		Kind:        kind,
		Topology:    wgpu.PrimitiveTopologyTriangleList,
		CullMode:    wgpu.CullModeNone,
		FrontFace:   wgpu.FrontFaceCCW,
		WriteMask:   wgpu.ColorWriteMaskAll,
		DepthTest:   true,
		DepthWrite:  true,
		SampleCount: 1,
	}
}

// SetSlot declares one binding a bind group at the given group index must
// provide. Repeated calls accumulate slots; duplicates (same group+binding)
// replace the prior declaration.
func (p *Pipeline) SetSlot(slot Slot) error {
	if err := p.beginConfigure("Pipeline"); err != nil {
		return err
	}
	for i, s := range p.Slots {
		if s.Group == slot.Group && s.Binding == slot.Binding {
			p.Slots[i] = slot
			return nil
		}
	}
	p.Slots = append(p.Slots, slot)
	return nil
}

// SetVertex declares one vertex buffer binding's stride and step mode.
// Repeated calls for the same binding replace the prior declaration but
// keep its accumulated attributes.
func (p *Pipeline) SetVertex(binding uint32, stride uint64, stepMode wgpu.VertexStepMode) error {
	if err := p.beginConfigure("Pipeline"); err != nil {
		return err
	}
	for i := range p.VertexBindings {
		if p.VertexBindings[i].Binding == binding {
			p.VertexBindings[i].Stride = stride
			p.VertexBindings[i].StepMode = stepMode
			return nil
		}
	}
	p.VertexBindings = append(p.VertexBindings, VertexBinding{Binding: binding, Stride: stride, StepMode: stepMode})
	return nil
}

// SetAttr declares one vertex attribute read out of binding's buffer.
// SetVertex must declare the binding first.
func (p *Pipeline) SetAttr(binding, location uint32, format wgpu.VertexFormat, offset uint64) error {
	if err := p.beginConfigure("Pipeline"); err != nil {
		return err
	}
	for i := range p.VertexBindings {
		if p.VertexBindings[i].Binding == binding {
			attr := wgpu.VertexAttribute{Format: format, Offset: offset, ShaderLocation: location}
			for j, a := range p.VertexBindings[i].Attributes {
				if a.ShaderLocation == location {
					p.VertexBindings[i].Attributes[j] = attr
					return nil
				}
			}
			p.VertexBindings[i].Attributes = append(p.VertexBindings[i].Attributes, attr)
			return nil
		}
	}
	return rerr.Newf(rerr.ValidationFailed, "Pipeline: set attr: binding %d not declared by SetVertex", binding)
}

// vertexBufferLayouts builds the wgpu.VertexBufferLayout list CreateRenderPipeline
// needs from the accumulated VertexBindings, ordered by ascending binding index.
func (p *Pipeline) vertexBufferLayouts() []wgpu.VertexBufferLayout {
	if len(p.VertexBindings) == 0 {
		return nil
	}
	sorted := make([]VertexBinding, len(p.VertexBindings))
	copy(sorted, p.VertexBindings)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Binding < sorted[j-1].Binding; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	layouts := make([]wgpu.VertexBufferLayout, len(sorted))
	for i, vb := range sorted {
		stepMode := vb.StepMode
		if stepMode == 0 {
			stepMode = wgpu.VertexStepModeVertex
		}
		layouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: vb.Stride,
			StepMode:    stepMode,
			Attributes:  vb.Attributes,
		}
	}
	return layouts
}

// layoutEntries groups Slots into per-group wgpu.BindGroupLayoutEntry
// lists keyed by group index, and returns the highest group index seen.
func (p *Pipeline) layoutEntries() (map[uint32][]wgpu.BindGroupLayoutEntry, uint32) {
	groups := make(map[uint32][]wgpu.BindGroupLayoutEntry)
	var maxGroup uint32
	for _, s := range p.Slots {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    s.Binding,
			Visibility: s.Stage,
		}
		switch s.Kind {
		case wgpu.BindingTypeBuffer:
			entry.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}
		case wgpu.BindingTypeSampler:
			entry.Sampler = wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}
		case wgpu.BindingTypeTexture:
			entry.Texture = wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D}
		}
		groups[s.Group] = append(groups[s.Group], entry)
		if s.Group > maxGroup {
			maxGroup = s.Group
		}
	}
	return groups, maxGroup
}

// Create builds the pipeline layout and the render or compute pipeline from
// the accumulated shaders/slots. surfaceFormat and sampleCount are only
// consulted for PipelineRender.
func (p *Pipeline) Create(device *wgpu.Device, label string, surfaceFormat wgpu.TextureFormat, msaaSampleCount uint32) error {
	groups, maxGroup := p.layoutEntries()
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, entries := range groups {
		layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   label,
			Entries: entries,
		})
		if err != nil {
			return rerr.Wrap(rerr.ValidationFailed, 0, "create bind group layout", err)
		}
		bindGroupLayouts[g] = layout
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return rerr.Wrap(rerr.ValidationFailed, 0, "create pipeline layout", err)
	}
	p.layout = layout

	switch p.Kind {
	case PipelineRender:
		return p.createRender(device, label, surfaceFormat, msaaSampleCount)
	case PipelineCompute:
		return p.createCompute(device, label)
	default:
		return rerr.New(rerr.ValidationFailed, "Pipeline: unknown kind")
	}
}

func (p *Pipeline) createRender(device *wgpu.Device, label string, surfaceFormat wgpu.TextureFormat, msaaSampleCount uint32) error {
	if p.VertexShader == nil || p.FragmentShader == nil {
		return rerr.New(rerr.ValidationFailed, "Pipeline: render pipeline requires vertex and fragment shaders")
	}
	colorTarget := wgpu.ColorTargetState{Format: surfaceFormat, WriteMask: p.WriteMask}
	if p.BlendState != nil {
		colorTarget.Blend = p.BlendState
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTest {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     p.VertexShader.Raw(),
			EntryPoint: p.VertexShader.EntryPoint,
			Buffers:    p.vertexBufferLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.FragmentShader.Raw(),
			EntryPoint: p.FragmentShader.EntryPoint,
			Targets:    []wgpu.ColorTargetState{colorTarget},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology,
			FrontFace: p.FrontFace,
			CullMode:  p.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: msaaSampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWrite,
			DepthCompare:      depthCompare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return rerr.Wrap(rerr.ValidationFailed, 0, "create render pipeline", err)
	}
	p.render = created
	return p.markCreated("Pipeline")
}

func (p *Pipeline) createCompute(device *wgpu.Device, label string) error {
	if p.ComputeShader == nil {
		return rerr.New(rerr.ValidationFailed, "Pipeline: compute pipeline requires a compute shader")
	}
	created, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  label,
		Layout: p.layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     p.ComputeShader.Raw(),
			EntryPoint: p.ComputeShader.EntryPoint,
		},
	})
	if err != nil {
		return rerr.Wrap(rerr.ValidationFailed, 0, "create compute pipeline", err)
	}
	p.compute = created
	return p.markCreated("Pipeline")
}

// Render returns the underlying render pipeline, nil for compute pipelines
// or before Create succeeds.
func (p *Pipeline) Render() *wgpu.RenderPipeline { return p.render }

// Compute returns the underlying compute pipeline, nil for render pipelines
// or before Create succeeds.
func (p *Pipeline) Compute() *wgpu.ComputePipeline { return p.compute }

func (p *Pipeline) Destroy() error {
	if err := p.markDestroyed("Pipeline"); err != nil {
		return err
	}
	if p.render != nil {
		p.render.Release()
	}
	if p.compute != nil {
		p.compute.Release()
	}
	if p.layout != nil {
		p.layout.Release()
	}
	return nil
}
