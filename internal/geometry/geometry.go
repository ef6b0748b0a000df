package geometry

import (
	"encoding/binary"
	"math"

	"iengine/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// MaxUint16Indices is the largest index count still stored as 16-bit.
const MaxUint16Indices = 65535

// Data is the raw input of a geometry. Position is required, the other
// arrays are optional. Position length must be a multiple of 3.
type Data struct {
	Position  []float32
	Normal    []float32
	UV        []float32
	Color0    []float32
	Color1    []float32
	Tangent   []float32
	Bitangent []float32
	Indices   []uint32
}

// FromFloat64 narrows a float64 array, nil stays nil.
func FromFloat64(src []float64) []float32 {
	if src == nil {
		return nil
	}
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = float32(v)
	}
	return out
}

// Indices holds either 16-bit or 32-bit indices, never both.
type Indices struct {
	u16 []uint16
	u32 []uint32
}

// NewIndices picks the narrowest width that can address the data.
// Width is chosen by index count. Values that do not fit a 16-bit index
// are truncated and reported.
func NewIndices(src []uint32) Indices {
	if len(src) == 0 {
		return Indices{}
	}
	if len(src) > MaxUint16Indices {
		return Indices{u32: append([]uint32(nil), src...)}
	}
	u16 := make([]uint16, len(src))
	truncated := 0
	for i, v := range src {
		if v > math.MaxUint16 {
			truncated++
		}
		u16[i] = uint16(v)
	}
	if truncated > 0 {
		logger.Log.Warn("Index values exceed 16-bit range and were truncated",
			zap.Int("count", len(src)),
			zap.Int("truncated", truncated))
	}
	return Indices{u16: u16}
}

func (ix Indices) Len() int {
	if ix.u32 != nil {
		return len(ix.u32)
	}
	return len(ix.u16)
}

func (ix Indices) Is32() bool       { return ix.u32 != nil }
func (ix Indices) Uint16() []uint16 { return ix.u16 }
func (ix Indices) Uint32() []uint32 { return ix.u32 }

// ElementSize is the byte size of one index.
func (ix Indices) ElementSize() int {
	if ix.Is32() {
		return 4
	}
	return 2
}

// Bytes returns the little-endian index data.
func (ix Indices) Bytes() []byte {
	if ix.Is32() {
		out := make([]byte, len(ix.u32)*4)
		for i, v := range ix.u32 {
			binary.LittleEndian.PutUint32(out[i*4:], v)
		}
		return out
	}
	out := make([]byte, len(ix.u16)*2)
	for i, v := range ix.u16 {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

// BoundingBox is an axis aligned box.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Geometry is immutable after New. Accessors hand out the stored slices,
// callers must not write to them.
type Geometry struct {
	attrs       map[string][]float32
	indices     Indices
	vertexCount int
	bbox        BoundingBox
	layout      VertexLayout
}

// New builds a geometry and computes its bounding box.
func New(d Data) *Geometry {
	g := &Geometry{
		attrs:       make(map[string][]float32, len(CanonicalAttributes)),
		indices:     NewIndices(d.Indices),
		vertexCount: len(d.Position) / 3,
	}

	set := func(name string, v []float32) {
		if len(v) > 0 {
			g.attrs[name] = v
		}
	}
	set(AttrPosition, d.Position)
	set(AttrNormal, d.Normal)
	set(AttrTexCoord, d.UV)
	set(AttrColor0, d.Color0)
	set(AttrColor1, d.Color1)
	set(AttrTangent, d.Tangent)
	set(AttrBitangent, d.Bitangent)

	g.bbox = computeBoundingBox(d.Position)
	g.layout = BuildVertexLayout(CanonicalAttributes, g.attrs)
	return g
}

func computeBoundingBox(pos []float32) BoundingBox {
	inf := float32(math.Inf(1))
	box := BoundingBox{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
	for i := 0; i+2 < len(pos); i += 3 {
		for c := 0; c < 3; c++ {
			v := pos[i+c]
			if v < box.Min[c] {
				box.Min[c] = v
			}
			if v > box.Max[c] {
				box.Max[c] = v
			}
		}
	}
	return box
}

func (g *Geometry) Position() []float32  { return g.attrs[AttrPosition] }
func (g *Geometry) Normal() []float32    { return g.attrs[AttrNormal] }
func (g *Geometry) UV() []float32        { return g.attrs[AttrTexCoord] }
func (g *Geometry) Color0() []float32    { return g.attrs[AttrColor0] }
func (g *Geometry) Color1() []float32    { return g.attrs[AttrColor1] }
func (g *Geometry) Tangent() []float32   { return g.attrs[AttrTangent] }
func (g *Geometry) Bitangent() []float32 { return g.attrs[AttrBitangent] }

func (g *Geometry) Indices() Indices         { return g.indices }
func (g *Geometry) HasIndices() bool         { return g.indices.Len() > 0 }
func (g *Geometry) IndexCount() int          { return g.indices.Len() }
func (g *Geometry) VertexCount() int         { return g.vertexCount }
func (g *Geometry) BoundingBox() BoundingBox { return g.bbox }
func (g *Geometry) Layout() VertexLayout     { return g.layout }

// AttributeData returns the present attribute arrays keyed by attribute name.
func (g *Geometry) AttributeData() map[string][]float32 {
	return g.attrs
}

// Interleave packs the geometry into its layout.
func (g *Geometry) Interleave() []float32 {
	return BuildInterleavedBuffer(g.layout, g.attrs, g.vertexCount)
}

var attributeDefines = map[string]string{
	AttrNormal:    "HAS_NORMAL",
	AttrTexCoord:  "HAS_TEXCOORD",
	AttrColor0:    "HAS_COLOR0",
	AttrColor1:    "HAS_COLOR1",
	AttrTangent:   "HAS_TANGENT",
	AttrBitangent: "HAS_BITANGENT",
}

// Defines returns one HAS_* flag per optional attribute in the layout.
func (g *Geometry) Defines() map[string]any {
	defines := make(map[string]any)
	for _, a := range g.layout.Attributes {
		if name, ok := attributeDefines[a.Name]; ok {
			defines[name] = true
		}
	}
	return defines
}
