package batch

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/rerr"
)

// payloadTag identifies which Request payload field is populated, so Decode
// knows which struct to read back without relying on Action/Object alone
// (several Set* actions share ObjectPipeline as their target object type).
type payloadTag uint8

const (
	tagNone payloadTag = iota
	tagCanvasCreate
	tagDatCreate
	tagTexCreate
	tagSamplerCreate
	tagShaderCreate
	tagPipelineCreate
	tagDelete
	tagResize
	tagUpload
	tagSetSlot
	tagSetPush
	tagSetVertex
	tagSetAttr
	tagSetPrimitive
	tagSetDepth
	tagSetBlend
	tagSetCull
	tagSetFront
	tagBindVertex
	tagBindIndex
	tagBindDat
	tagBindTex
	tagRecord
)

// Encode writes the batch as a binary trace: a capacity/count header
// matching DvzBatch's layout, followed by each request in order. The trace
// is meant for replay/debugging, not wire compatibility across versions.
func Encode(w io.Writer, b *Batch) error {
	header := struct {
		Capacity uint32
		Count    uint32
	}{Capacity: uint32(cap(b.requests)), Count: uint32(len(b.requests))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return rerr.Wrap(rerr.ValidationFailed, 0, "encode batch header", err)
	}
	for i := range b.requests {
		if err := encodeRequest(w, &b.requests[i]); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a trace written by Encode into a fresh Batch drawing IDs
// from counter (the IDs embedded in the trace are preserved verbatim;
// counter only affects requests appended to the Batch afterward).
func Decode(r io.Reader, counter *ids.Counter) (*Batch, error) {
	var header struct {
		Capacity uint32
		Count    uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, rerr.Wrap(rerr.ValidationFailed, 0, "decode batch header", err)
	}
	b := &Batch{counter: counter, requests: make([]Request, 0, header.Capacity)}
	for i := uint32(0); i < header.Count; i++ {
		req, err := decodeRequest(r)
		if err != nil {
			return nil, err
		}
		b.requests = append(b.requests, req)
	}
	return b, nil
}

// recordFixed mirrors Record minus its variable-length PushData field, so
// it can pass through binary.Write/Read directly.
type recordFixed struct {
	Command RecordCommandType
	Pipe    ids.ID

	FirstVertex, VertexCount     uint32
	FirstIndex, IndexCount       uint32
	VertexOffset                 int32
	FirstInstance, InstanceCount uint32

	IndirectDat ids.ID
	DrawCount   uint32

	ViewportOffset, ViewportShape [2]float32
}

func recordFixedOf(r *Record) recordFixed {
	return recordFixed{
		Command: r.Command, Pipe: r.Pipe,
		FirstVertex: r.FirstVertex, VertexCount: r.VertexCount,
		FirstIndex: r.FirstIndex, IndexCount: r.IndexCount,
		VertexOffset:  r.VertexOffset,
		FirstInstance: r.FirstInstance, InstanceCount: r.InstanceCount,
		IndirectDat: r.IndirectDat, DrawCount: r.DrawCount,
		ViewportOffset: r.ViewportOffset, ViewportShape: r.ViewportShape,
	}
}

type requestHeader struct {
	Action Action
	Object Object
	ID     ids.ID
	Tag    int32
	Kind   payloadTag
}

func encodeRequest(w io.Writer, r *Request) error {
	kind, payload := classify(r)
	hdr := requestHeader{Action: r.Action, Object: r.Object, ID: r.ID, Tag: int32(r.Tag), Kind: kind}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return rerr.Wrap(rerr.ValidationFailed, 0, "encode request header", err)
	}

	switch kind {
	case tagNone, tagDelete:
		return nil
	case tagShaderCreate:
		if err := binary.Write(w, binary.LittleEndian, int32(r.ShaderCreate.Stage)); err != nil {
			return rerr.Wrap(rerr.ValidationFailed, 0, "encode shader stage", err)
		}
		return writeBytes(w, []byte(r.ShaderCreate.Code))
	case tagUpload:
		if err := binary.Write(w, binary.LittleEndian, r.Upload.Offset); err != nil {
			return rerr.Wrap(rerr.ValidationFailed, 0, "encode upload offset", err)
		}
		return writeBytes(w, r.Upload.Data)
	case tagRecord:
		if err := binary.Write(w, binary.LittleEndian, recordFixedOf(r.Record)); err != nil {
			return rerr.Wrap(rerr.ValidationFailed, 0, "encode record", err)
		}
		return writeBytes(w, r.Record.PushData)
	default:
		return writeVarPayload(w, payload)
	}
}

func decodeRequest(r io.Reader) (Request, error) {
	var hdr requestHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return Request{}, rerr.Wrap(rerr.ValidationFailed, 0, "decode request header", err)
	}
	req := Request{Action: hdr.Action, Object: hdr.Object, ID: hdr.ID, Tag: int(hdr.Tag)}
	if err := fillPayload(r, hdr.Kind, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// classify picks the single non-nil payload field (Requests are built so
// exactly one is set) and returns its tag plus a pointer suitable for
// binary.Write. Payloads encodeRequest writes itself (shader, upload,
// record, and the field-less Delete) return a nil pointer; a request with
// no payload at all returns (tagNone, nil).
func classify(r *Request) (payloadTag, any) {
	switch {
	case r.CanvasCreate != nil:
		return tagCanvasCreate, r.CanvasCreate
	case r.DatCreate != nil:
		return tagDatCreate, r.DatCreate
	case r.TexCreate != nil:
		return tagTexCreate, r.TexCreate
	case r.SamplerCreate != nil:
		return tagSamplerCreate, r.SamplerCreate
	case r.ShaderCreate != nil:
		return tagShaderCreate, nil // variable-length, handled specially by encodeRequest
	case r.PipelineCreate != nil:
		return tagPipelineCreate, r.PipelineCreate
	case r.Resize != nil:
		return tagResize, r.Resize
	case r.Upload != nil:
		return tagUpload, nil // variable-length
	case r.SetSlot != nil:
		return tagSetSlot, r.SetSlot
	case r.SetPush != nil:
		return tagSetPush, r.SetPush
	case r.SetVertex != nil:
		return tagSetVertex, r.SetVertex
	case r.SetAttr != nil:
		return tagSetAttr, r.SetAttr
	case r.SetPrimitive != nil:
		return tagSetPrimitive, r.SetPrimitive
	case r.SetDepth != nil:
		return tagSetDepth, r.SetDepth
	case r.SetBlend != nil:
		return tagSetBlend, r.SetBlend
	case r.SetCull != nil:
		return tagSetCull, r.SetCull
	case r.SetFront != nil:
		return tagSetFront, r.SetFront
	case r.BindVertex != nil:
		return tagBindVertex, r.BindVertex
	case r.BindIndex != nil:
		return tagBindIndex, r.BindIndex
	case r.BindDat != nil:
		return tagBindDat, r.BindDat
	case r.BindTex != nil:
		return tagBindTex, r.BindTex
	case r.Record != nil:
		return tagRecord, nil // variable-length (PushData)
	case r.Delete != nil:
		return tagDelete, nil
	default:
		return tagNone, nil
	}
}

// writeVarPayload writes the fixed-width payload structs classify() returns
// a pointer for; the variable-length kinds are written by encodeRequest.
func writeVarPayload(w io.Writer, payload any) error {
	switch p := payload.(type) {
	case *CanvasCreate, *DatCreate, *TexCreate, *SamplerCreate, *PipelineCreate,
		*Resize, *SetSlot, *SetPush, *SetVertex, *SetAttr, *SetPrimitive, *SetDepth, *SetBlend, *SetCull, *SetFront,
		*BindVertex, *BindIndex, *BindDat, *BindTex:
		if err := binary.Write(w, binary.LittleEndian, p); err != nil {
			return rerr.Wrap(rerr.ValidationFailed, 0, "encode request payload", err)
		}
		return nil
	default:
		return nil
	}
}

func writeBytes(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func fillPayload(r io.Reader, kind payloadTag, req *Request) error {
	switch kind {
	case tagNone:
		return nil
	case tagCanvasCreate:
		req.CanvasCreate = &CanvasCreate{}
		return binary.Read(r, binary.LittleEndian, req.CanvasCreate)
	case tagDatCreate:
		req.DatCreate = &DatCreate{}
		return binary.Read(r, binary.LittleEndian, req.DatCreate)
	case tagTexCreate:
		req.TexCreate = &TexCreate{}
		return binary.Read(r, binary.LittleEndian, req.TexCreate)
	case tagSamplerCreate:
		req.SamplerCreate = &SamplerCreate{}
		return binary.Read(r, binary.LittleEndian, req.SamplerCreate)
	case tagShaderCreate:
		var stage int32
		if err := binary.Read(r, binary.LittleEndian, &stage); err != nil {
			return err
		}
		code, err := readBytes(r)
		if err != nil {
			return err
		}
		req.ShaderCreate = &ShaderCreate{Stage: int(stage), Code: string(code)}
		return nil
	case tagPipelineCreate:
		req.PipelineCreate = &PipelineCreate{}
		return binary.Read(r, binary.LittleEndian, req.PipelineCreate)
	case tagDelete:
		req.Delete = &Delete{}
		return nil
	case tagResize:
		req.Resize = &Resize{}
		return binary.Read(r, binary.LittleEndian, req.Resize)
	case tagUpload:
		var offset uint64
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return err
		}
		data, err := readBytes(r)
		if err != nil {
			return err
		}
		req.Upload = &Upload{Offset: offset, Data: data}
		return nil
	case tagSetSlot:
		req.SetSlot = &SetSlot{}
		return binary.Read(r, binary.LittleEndian, req.SetSlot)
	case tagSetPush:
		req.SetPush = &SetPush{}
		return binary.Read(r, binary.LittleEndian, req.SetPush)
	case tagSetVertex:
		req.SetVertex = &SetVertex{}
		return binary.Read(r, binary.LittleEndian, req.SetVertex)
	case tagSetAttr:
		req.SetAttr = &SetAttr{}
		return binary.Read(r, binary.LittleEndian, req.SetAttr)
	case tagSetPrimitive:
		req.SetPrimitive = &SetPrimitive{}
		return binary.Read(r, binary.LittleEndian, req.SetPrimitive)
	case tagSetDepth:
		req.SetDepth = &SetDepth{}
		return binary.Read(r, binary.LittleEndian, req.SetDepth)
	case tagSetBlend:
		req.SetBlend = &SetBlend{}
		return binary.Read(r, binary.LittleEndian, req.SetBlend)
	case tagSetCull:
		req.SetCull = &SetCull{}
		return binary.Read(r, binary.LittleEndian, req.SetCull)
	case tagSetFront:
		req.SetFront = &SetFront{}
		return binary.Read(r, binary.LittleEndian, req.SetFront)
	case tagBindVertex:
		req.BindVertex = &BindVertex{}
		return binary.Read(r, binary.LittleEndian, req.BindVertex)
	case tagBindIndex:
		req.BindIndex = &BindIndex{}
		return binary.Read(r, binary.LittleEndian, req.BindIndex)
	case tagBindDat:
		req.BindDat = &BindDat{}
		return binary.Read(r, binary.LittleEndian, req.BindDat)
	case tagBindTex:
		req.BindTex = &BindTex{}
		return binary.Read(r, binary.LittleEndian, req.BindTex)
	case tagRecord:
		var fixed recordFixed
		if err := binary.Read(r, binary.LittleEndian, &fixed); err != nil {
			return err
		}
		push, err := readBytes(r)
		if err != nil {
			return err
		}
		req.Record = &Record{
			Command: fixed.Command, Pipe: fixed.Pipe,
			FirstVertex: fixed.FirstVertex, VertexCount: fixed.VertexCount,
			FirstIndex: fixed.FirstIndex, IndexCount: fixed.IndexCount,
			VertexOffset:  fixed.VertexOffset,
			FirstInstance: fixed.FirstInstance, InstanceCount: fixed.InstanceCount,
			IndirectDat: fixed.IndirectDat, DrawCount: fixed.DrawCount,
			ViewportOffset: fixed.ViewportOffset, ViewportShape: fixed.ViewportShape,
			PushData: push,
		}
		return nil
	default:
		return rerr.Newf(rerr.ValidationFailed, "decode: unknown payload tag %d", kind)
	}
}

// EncodeBytes is a convenience wrapper returning the trace as a []byte.
func EncodeBytes(b *Batch) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
