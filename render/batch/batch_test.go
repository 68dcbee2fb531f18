package batch

import (
	"bytes"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/ids"
)

func TestCreateDatAssignsSequentialIDs(t *testing.T) {
	b := New(ids.NewCounter())
	id1 := b.CreateDat(BufferVertex, 1024, false, 0)
	id2 := b.CreateDat(BufferIndex, 512, false, 0)

	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", id1, id2)
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}

func TestFreeClearsPayloads(t *testing.T) {
	b := New(ids.NewCounter())
	id := b.CreateDat(BufferUniform, 64, false, 0)
	b.Upload(ObjectDat, id, 0, []byte("hello"))
	b.Free()

	if b.Requests() != nil {
		t.Fatalf("Requests() after Free() = %v, want nil", b.Requests())
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := New(ids.NewCounter())
	canvas := b.CreateCanvas(800, 600, false, wgpu.Color{R: 1, G: 1, B: 1, A: 1})
	dat := b.CreateDat(BufferVertex, 4096, false, 0)
	b.Upload(ObjectDat, dat, 0, []byte{1, 2, 3, 4})
	shader := b.CreateShader(0, "@vertex fn main() {}")
	b.SetPrimitive(shader, 0)
	b.Record(canvas, Record{Command: RecordDraw, Pipe: shader, VertexCount: 3, InstanceCount: 1})

	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := Decode(&buf, ids.NewCounter())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if decoded.Len() != b.Len() {
		t.Fatalf("Len() after round trip = %d, want %d", decoded.Len(), b.Len())
	}

	reqs := decoded.Requests()
	if reqs[0].CanvasCreate == nil || reqs[0].CanvasCreate.Width != 800 {
		t.Fatalf("request 0 CanvasCreate = %+v", reqs[0].CanvasCreate)
	}
	if reqs[1].DatCreate == nil || reqs[1].DatCreate.Size != 4096 {
		t.Fatalf("request 1 DatCreate = %+v", reqs[1].DatCreate)
	}
	if reqs[2].Upload == nil || !bytes.Equal(reqs[2].Upload.Data, []byte{1, 2, 3, 4}) {
		t.Fatalf("request 2 Upload = %+v", reqs[2].Upload)
	}
	if reqs[3].ShaderCreate == nil || reqs[3].ShaderCreate.Code != "@vertex fn main() {}" {
		t.Fatalf("request 3 ShaderCreate = %+v", reqs[3].ShaderCreate)
	}
	if reqs[5].Record == nil || reqs[5].Record.VertexCount != 3 {
		t.Fatalf("request 5 Record = %+v", reqs[5].Record)
	}
}

func TestSetVertexAndSetAttrAppendRequests(t *testing.T) {
	b := New(ids.NewCounter())
	pipeline := b.CreatePipeline(0)
	b.SetVertex(pipeline, 0, 24, wgpu.VertexStepModeVertex)
	b.SetAttr(pipeline, 0, 0, wgpu.VertexFormatFloat32x3, 0)
	b.SetAttr(pipeline, 0, 1, wgpu.VertexFormatFloat32x3, 12)

	reqs := b.Requests()
	if reqs[1].SetVertex == nil || reqs[1].SetVertex.Stride != 24 {
		t.Fatalf("request 1 SetVertex = %+v", reqs[1].SetVertex)
	}
	if reqs[2].SetAttr == nil || reqs[2].SetAttr.Location != 0 {
		t.Fatalf("request 2 SetAttr = %+v", reqs[2].SetAttr)
	}
	if reqs[3].SetAttr == nil || reqs[3].SetAttr.Offset != 12 {
		t.Fatalf("request 3 SetAttr = %+v", reqs[3].SetAttr)
	}
}
