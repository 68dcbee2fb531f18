// package batch implements the request stream: a typed, appendable list of
// operations (create/delete/resize/bind/record/upload/set) a caller
// accumulates into one Batch and hands to the dispatcher as a unit.
package batch

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/ids"
)

// Action is the kind of operation a Request performs, mirroring the real
// datoviz request-protocol action enum. The underlying type is fixed-width
// so a Request's header round-trips through encoding/binary in Encode/Decode.
type Action int32

const (
	ActionNone Action = iota
	ActionCreate
	ActionDelete
	ActionResize
	ActionUpdate
	ActionBind
	ActionRecord
	ActionUpload
	ActionSet
)

// Object names which kind of protocol object a Request targets.
type Object int32

const (
	ObjectNone Object = iota
	ObjectCanvas
	ObjectDat
	ObjectTex
	ObjectSampler
	ObjectShader
	ObjectPipeline
	ObjectSlot
	ObjectPush
	ObjectVertex
	ObjectAttr
	ObjectBindVertex
	ObjectBindIndex
	ObjectBindDat
	ObjectBindTex
	ObjectPrimitive
	ObjectDepth
	ObjectBlend
	ObjectCull
	ObjectFront
	ObjectRecord
)

// BufferType matches render/resource.BufferKind's ordering; kept as a
// distinct type here since the wire/request vocabulary is independent of
// the object wrapper package.
type BufferType int32

const (
	BufferVertex BufferType = iota
	BufferIndex
	BufferUniform
	BufferStorage
	BufferIndirect
	BufferStaging
)

// Request is one operation in a Batch. Exactly one of the payload fields is
// non-nil, selected by Action/Object; the payload shape matches the
// action it performs.
type Request struct {
	Action Action
	Object Object
	ID     ids.ID
	Tag    int

	CanvasCreate   *CanvasCreate
	DatCreate      *DatCreate
	TexCreate      *TexCreate
	SamplerCreate  *SamplerCreate
	ShaderCreate   *ShaderCreate
	PipelineCreate *PipelineCreate
	Delete         *Delete
	Resize         *Resize
	Upload         *Upload
	SetSlot        *SetSlot
	SetPush        *SetPush
	SetVertex      *SetVertex
	SetAttr        *SetAttr
	SetPrimitive   *SetPrimitive
	SetDepth       *SetDepth
	SetBlend       *SetBlend
	SetCull        *SetCull
	SetFront       *SetFront
	BindVertex     *BindVertex
	BindIndex      *BindIndex
	BindDat        *BindDat
	BindTex        *BindTex
	Record         *Record
}

type CanvasCreate struct {
	Width, Height   uint32
	Offscreen       bool
	BackgroundColor wgpu.Color
}

// DatCreate describes a Dat to allocate. Mappable adds MapWrite usage to
// the shared buffer the Dat is drawn from (mappable and non-mappable Dats
// are pooled separately); uploads take the same queue-write path either way.
// DupCount duplicates the Dat once per swapchain image so an update
// targeting a still-in-flight image's copy doesn't race that image's
// queued commands; 0 and 1 both mean "not duplicated".
type DatCreate struct {
	Type     BufferType
	Size     uint64
	Mappable bool
	DupCount uint32
}

type TexCreate struct {
	Width, Height, Depth uint32
	Format               wgpu.TextureFormat
}

type SamplerCreate struct {
	MagFilter, MinFilter wgpu.FilterMode
	AddressMode          wgpu.AddressMode
}

type ShaderCreate struct {
	Stage int
	Code  string
}

type PipelineCreate struct {
	Kind int32 // resource.PipelineKind, duplicated to avoid an import cycle
}

type Delete struct{}

type Resize struct {
	Width, Height uint32
}

// Upload carries the payload for a direct (in-memory) upload; Data is owned
// by the Batch until Free is called.
type Upload struct {
	Offset uint64
	Data   []byte
}

type SetSlot struct {
	Group, Binding uint32
	Kind           wgpu.BindingType
	Stage          wgpu.ShaderStage
}

type SetPush struct {
	Stage  wgpu.ShaderStage
	Offset uint32
	Size   uint32
}

// SetVertex declares one vertex buffer binding's stride and step mode.
type SetVertex struct {
	Binding  uint32
	Stride   uint64
	StepMode wgpu.VertexStepMode
}

// SetAttr declares one vertex attribute read out of a binding already
// declared by a SetVertex request.
type SetAttr struct {
	Binding  uint32
	Location uint32
	Format   wgpu.VertexFormat
	Offset   uint64
}

type SetPrimitive struct {
	Topology wgpu.PrimitiveTopology
}

type SetDepth struct {
	Enabled bool
}

type SetBlend struct {
	Enabled bool
}

type SetCull struct {
	Mode wgpu.CullMode
}

type SetFront struct {
	Face wgpu.FrontFace
}

type BindVertex struct {
	Binding uint32
	Dat     ids.ID
	Offset  uint64
}

type BindIndex struct {
	Dat    ids.ID
	Offset uint64
}

type BindDat struct {
	Slot   uint32
	Dat    ids.ID
	Offset uint64
}

type BindTex struct {
	Slot    uint32
	Tex     ids.ID
	Sampler ids.ID
}

// RecordCommandType mirrors the recorder's command kinds for requests that
// append to a canvas's replay list.
type RecordCommandType int32

const (
	RecordDraw RecordCommandType = iota
	RecordDrawIndexed
	RecordDrawIndirect
	RecordDrawIndexedIndirect
	RecordViewport
	RecordPush
)

type Record struct {
	Command RecordCommandType
	Pipe    ids.ID

	FirstVertex, VertexCount     uint32
	FirstIndex, IndexCount       uint32
	VertexOffset                 int32
	FirstInstance, InstanceCount uint32

	IndirectDat ids.ID
	DrawCount   uint32

	ViewportOffset, ViewportShape [2]float32

	PushData []byte
}
