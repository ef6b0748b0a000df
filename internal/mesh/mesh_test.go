package mesh

import (
	"errors"
	"testing"

	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/gpu/gputest"
)

func quad() *geometry.Geometry {
	return geometry.New(geometry.Data{
		Position: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		UV:       []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	})
}

func TestUploadIsIdempotent(t *testing.T) {
	ctx := gputest.New()
	m := New(geometry.NewTriangle(), geometry.DefaultPrimitive())

	if err := m.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := m.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	if ctx.Calls.BufferCreates != 1 || ctx.Calls.BufferWrites != 1 {
		t.Errorf("expected 1 create and 1 write, got %+v", ctx.Calls)
	}
	if m.VertexBuffer().Size() != 9*4 {
		t.Errorf("vertex buffer should be exactly 36 bytes, got %d", m.VertexBuffer().Size())
	}
	if m.IndexBuffer() != nil {
		t.Error("non-indexed mesh should not have an index buffer")
	}
}

func TestForcedUploadAfterGeometryChange(t *testing.T) {
	ctx := gputest.New()
	m := New(geometry.NewTriangle(), geometry.DefaultPrimitive())
	if err := m.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	m.SetGeometry(quad())
	if err := m.Upload(ctx, true); err != nil {
		t.Fatal(err)
	}

	// triangle: 1 create + 1 write, quad: 2 creates + 2 writes
	if ctx.Calls.BufferCreates != 3 || ctx.Calls.BufferWrites != 3 {
		t.Errorf("expected a second create/write cycle, got %+v", ctx.Calls)
	}
	if ctx.Calls.BufferDeletes != 1 {
		t.Errorf("old vertex buffer should be deleted, got %d deletes", ctx.Calls.BufferDeletes)
	}
	if m.IndexBuffer().Size() != 6*2 {
		t.Errorf("index buffer should hold 6 uint16, got %d bytes", m.IndexBuffer().Size())
	}
	// stride is position + uv = 20 bytes
	if m.VertexBuffer().Size() != 4*20 {
		t.Errorf("unexpected vertex buffer size %d", m.VertexBuffer().Size())
	}
}

func TestUpdateBufferBeforeUploadIsNoop(t *testing.T) {
	ctx := gputest.New()
	m := New(geometry.NewTriangle(), geometry.DefaultPrimitive())

	m.UpdateBuffer(ctx, BufferUpdate{VertexData: []float32{1, 2, 3}})

	if ctx.Calls.BufferWrites != 0 {
		t.Error("no write should happen before upload")
	}
}

func TestUpdateBufferWritesInPlace(t *testing.T) {
	ctx := gputest.New()
	m := New(geometry.NewTriangle(), geometry.DefaultPrimitive())
	if err := m.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	m.UpdateBuffer(ctx, BufferUpdate{VertexData: []float32{7, 8, 9}, VertexOffset: 12})

	buf := m.VertexBuffer().(*gputest.Buffer)
	got := gpu.Float32Bytes([]float32{7, 8, 9})
	for i, b := range got {
		if buf.Data[12+i] != b {
			t.Fatalf("byte %d not updated", 12+i)
		}
	}
	if ctx.Calls.BufferCreates != 1 {
		t.Error("update must not reallocate")
	}
}

func TestUpdateBufferSkipsOutOfRangeShortIndices(t *testing.T) {
	ctx := gputest.New()
	m := New(quad(), geometry.DefaultPrimitive())
	if err := m.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}
	writes := ctx.Calls.BufferWrites

	m.UpdateBuffer(ctx, BufferUpdate{IndexData: []uint32{0, 70000, 2}})

	if ctx.Calls.BufferWrites != writes {
		t.Error("an index that does not fit 16 bits must not be written")
	}
	buf := m.IndexBuffer().(*gputest.Buffer)
	if got := gpu.Uint16Bytes([]uint16{0, 1, 2}); string(buf.Data[:6]) != string(got) {
		t.Errorf("index buffer changed to %v", buf.Data[:6])
	}
}

func TestUpdateBufferOverflowPanics(t *testing.T) {
	ctx := gputest.New()
	m := New(geometry.NewTriangle(), geometry.DefaultPrimitive())
	if err := m.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic on overflow")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, gpu.ErrBufferOverflow) {
			t.Errorf("panic should wrap ErrBufferOverflow, got %v", r)
		}
	}()
	m.UpdateBuffer(ctx, BufferUpdate{VertexData: []float32{1, 2, 3}, VertexOffset: 32})
}

func TestDefinesComeFromGeometry(t *testing.T) {
	m := New(quad(), geometry.DefaultPrimitive())
	if m.Defines()["HAS_TEXCOORD"] != true {
		t.Error("quad with uv should define HAS_TEXCOORD")
	}
	if New(quad(), geometry.DefaultPrimitive()).ID() == m.ID() {
		t.Error("mesh ids should be unique")
	}
}
