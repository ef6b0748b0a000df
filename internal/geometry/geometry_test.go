package geometry

import (
	"testing"

	"iengine/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLayoutIsDeterministic(t *testing.T) {
	pos := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	nrm := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}
	uv := []float32{0, 0, 1, 0, 0, 1}

	// Go map iteration order is random, build the map in different orders many times.
	var first VertexLayout
	for i := 0; i < 50; i++ {
		data := map[string][]float32{}
		if i%2 == 0 {
			data[AttrTexCoord] = uv
			data[AttrNormal] = nrm
			data[AttrPosition] = pos
		} else {
			data[AttrPosition] = pos
			data[AttrNormal] = nrm
			data[AttrTexCoord] = uv
		}
		layout := BuildVertexLayout(CanonicalAttributes, data)
		if i == 0 {
			first = layout
			continue
		}
		if layout.Key() != first.Key() {
			t.Fatalf("layout changed between builds: %s vs %s", layout.Key(), first.Key())
		}
	}

	if first.ArrayStride != 32 {
		t.Errorf("expected stride 32, got %d", first.ArrayStride)
	}
	wantOffsets := []uint64{0, 12, 24}
	wantLocations := []uint32{0, 1, 2}
	for i, a := range first.Attributes {
		if a.Offset != wantOffsets[i] {
			t.Errorf("attribute %s offset %d, want %d", a.Name, a.Offset, wantOffsets[i])
		}
		if a.ShaderLocation != wantLocations[i] {
			t.Errorf("attribute %s location %d, want %d", a.Name, a.ShaderLocation, wantLocations[i])
		}
	}
}

func TestLayoutSkipsAbsentAttributes(t *testing.T) {
	data := map[string][]float32{
		AttrPosition: {0, 0, 0},
		AttrColor0:   {1, 0, 0, 1},
		AttrNormal:   {},
	}
	layout := BuildVertexLayout(CanonicalAttributes, data)

	if len(layout.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(layout.Attributes))
	}
	if layout.Attributes[1].Name != AttrColor0 || layout.Attributes[1].Offset != 12 || layout.Attributes[1].ShaderLocation != 3 {
		t.Errorf("unexpected color attribute %+v", layout.Attributes[1])
	}
	if layout.ArrayStride != 28 {
		t.Errorf("expected stride 28, got %d", layout.ArrayStride)
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	const n = 5
	d := Data{
		Position: make([]float32, n*3),
		Normal:   make([]float32, n*3),
		UV:       make([]float32, n*2),
	}
	for i := range d.Position {
		d.Position[i] = float32(i)
		d.Normal[i] = float32(100 + i)
	}
	for i := range d.UV {
		d.UV[i] = float32(1000 + i)
	}

	g := New(d)
	buf := g.Interleave()

	if len(buf) != n*8 {
		t.Fatalf("expected %d floats, got %d", n*8, len(buf))
	}
	for v := 0; v < n; v++ {
		row := buf[v*8 : v*8+8]
		for c := 0; c < 3; c++ {
			if row[c] != d.Position[v*3+c] {
				t.Errorf("vertex %d position[%d] = %v, want %v", v, c, row[c], d.Position[v*3+c])
			}
			if row[3+c] != d.Normal[v*3+c] {
				t.Errorf("vertex %d normal[%d] = %v, want %v", v, c, row[3+c], d.Normal[v*3+c])
			}
		}
		for c := 0; c < 2; c++ {
			if row[6+c] != d.UV[v*2+c] {
				t.Errorf("vertex %d uv[%d] = %v, want %v", v, c, row[6+c], d.UV[v*2+c])
			}
		}
	}
}

func TestShortIndicesReportTruncation(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	ix := NewIndices([]uint32{0, 1, 65536 + 2})
	if ix.Is32() {
		t.Fatal("3 indices should stay 16-bit")
	}
	if got := ix.Uint16()[2]; got != 2 {
		t.Errorf("truncated index %d, want 2", got)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
	if f := logs.All()[0].ContextMap()["truncated"]; f != int64(1) {
		t.Errorf("truncated field %v, want 1", f)
	}

	NewIndices([]uint32{0, 1, 2})
	if logs.Len() != 1 {
		t.Error("in-range indices must not warn")
	}
}

func TestIndexWidth(t *testing.T) {
	small := make([]uint32, MaxUint16Indices)
	if New(Data{Position: []float32{0, 0, 0}, Indices: small}).Indices().Is32() {
		t.Error("65535 indices should be stored as 16-bit")
	}

	large := make([]uint32, MaxUint16Indices+1)
	ix := New(Data{Position: []float32{0, 0, 0}, Indices: large}).Indices()
	if !ix.Is32() {
		t.Error("65536 indices should be stored as 32-bit")
	}
	if len(ix.Bytes()) != (MaxUint16Indices+1)*4 {
		t.Errorf("unexpected byte length %d", len(ix.Bytes()))
	}
}

func TestBoundingBox(t *testing.T) {
	g := New(Data{Position: []float32{
		-1, 2, 3,
		4, -5, 6,
		0, 0, -7,
	}})

	box := g.BoundingBox()
	if box.Min != (mgl32.Vec3{-1, -5, -7}) {
		t.Errorf("unexpected min %v", box.Min)
	}
	if box.Max != (mgl32.Vec3{4, 2, 6}) {
		t.Errorf("unexpected max %v", box.Max)
	}
	if g.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", g.VertexCount())
	}
}

func TestDefinesFollowLayout(t *testing.T) {
	g := New(Data{
		Position: []float32{0, 0, 0},
		Normal:   []float32{0, 1, 0},
		Tangent:  []float32{1, 0, 0},
	})

	defines := g.Defines()
	if defines["HAS_NORMAL"] != true || defines["HAS_TANGENT"] != true {
		t.Errorf("missing defines: %v", defines)
	}
	if _, ok := defines["HAS_TEXCOORD"]; ok {
		t.Error("HAS_TEXCOORD should be absent without uv data")
	}
	if len(defines) != 2 {
		t.Errorf("expected 2 defines, got %v", defines)
	}
}

func TestFormatInfo(t *testing.T) {
	if Float32x3.ByteSize() != 12 || Float32x3.GLType() != GLFloat {
		t.Error("float32x3 should be 12 bytes of GL_FLOAT")
	}
	if Unorm8x4.ByteSize() != 4 || !Unorm8x4.Normalized() || Unorm8x4.GLType() != GLUnsignedByte {
		t.Error("unorm8x4 should be 4 normalized unsigned bytes")
	}
	if Float16x2.GLType() != GLHalfFloat {
		t.Error("float16 should map to GL_HALF_FLOAT")
	}
	if Sint32x4.String() != "sint32x4" {
		t.Errorf("unexpected name %s", Sint32x4.String())
	}
}

func TestShapes(t *testing.T) {
	tri := NewTriangle()
	if tri.VertexCount() != 3 || tri.HasIndices() {
		t.Error("triangle should be 3 non-indexed vertices")
	}
	if tri.Layout().ArrayStride != 12 {
		t.Errorf("triangle stride should be 12, got %d", tri.Layout().ArrayStride)
	}

	cube := NewCube(2)
	if cube.VertexCount() != 24 || cube.IndexCount() != 36 {
		t.Errorf("cube should have 24 vertices and 36 indices, got %d/%d", cube.VertexCount(), cube.IndexCount())
	}
	if cube.BoundingBox().Max != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("cube extent should be size/2, got %v", cube.BoundingBox().Max)
	}

	plane := NewPlane(4, 1)
	if plane.VertexCount() != 16 || plane.IndexCount() != 54 {
		t.Errorf("unexpected plane counts %d/%d", plane.VertexCount(), plane.IndexCount())
	}
	if plane.BoundingBox().Max.Y() != 0 {
		t.Error("plane should be flat")
	}

	terrain := NewTerrain(TerrainOptions{GridSize: 8, Spacing: 1, Amplitude: 5, Seed: 42})
	if terrain.VertexCount() != 64 {
		t.Errorf("unexpected terrain vertex count %d", terrain.VertexCount())
	}
}
