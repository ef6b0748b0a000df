package geometry

import (
	"strconv"
	"strings"
)

// Canonical attribute names, also used as GLSL attribute names.
const (
	AttrPosition  = "aPosition"
	AttrNormal    = "aNormal"
	AttrTexCoord  = "aTexCoord"
	AttrColor0    = "aColor0"
	AttrColor1    = "aColor1"
	AttrTangent   = "aTangent"
	AttrBitangent = "aBitangent"
)

// AttributeDesc is one entry of an attribute order.
type AttributeDesc struct {
	Name           string
	Format         VertexFormat
	ShaderLocation uint32
}

// CanonicalAttributes is the fixed order every geometry is laid out in.
var CanonicalAttributes = []AttributeDesc{
	{AttrPosition, Float32x3, 0},
	{AttrNormal, Float32x3, 1},
	{AttrTexCoord, Float32x2, 2},
	{AttrColor0, Float32x4, 3},
	{AttrColor1, Float32x4, 4},
	{AttrTangent, Float32x3, 5},
	{AttrBitangent, Float32x3, 6},
}

// Attribute is a placed attribute inside an interleaved vertex.
type Attribute struct {
	Name           string
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexLayout describes one interleaved vertex buffer.
type VertexLayout struct {
	Attributes  []Attribute
	ArrayStride uint64
}

// BuildVertexLayout places the attributes of order that have data, in order,
// with no padding between them.
func BuildVertexLayout(order []AttributeDesc, data map[string][]float32) VertexLayout {
	var layout VertexLayout
	var offset uint64

	for _, desc := range order {
		if len(data[desc.Name]) == 0 {
			continue
		}
		layout.Attributes = append(layout.Attributes, Attribute{
			Name:           desc.Name,
			Format:         desc.Format,
			Offset:         offset,
			ShaderLocation: desc.ShaderLocation,
		})
		offset += uint64(desc.Format.ByteSize())
	}
	layout.ArrayStride = offset
	return layout
}

// Has reports whether the layout carries the named attribute.
func (l VertexLayout) Has(name string) bool {
	for _, a := range l.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}

// FloatsPerVertex is the stride expressed in float32 slots.
func (l VertexLayout) FloatsPerVertex() int {
	return int(l.ArrayStride / 4)
}

// Key serializes the layout for pipeline cache keys.
func (l VertexLayout) Key() string {
	var sb strings.Builder
	for i, a := range l.Attributes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Name)
		sb.WriteByte(':')
		sb.WriteString(a.Format.String())
		sb.WriteByte('@')
		sb.WriteString(strconv.FormatUint(a.Offset, 10))
		sb.WriteByte('#')
		sb.WriteString(strconv.FormatUint(uint64(a.ShaderLocation), 10))
	}
	sb.WriteString("/")
	sb.WriteString(strconv.FormatUint(l.ArrayStride, 10))
	return sb.String()
}

// BuildInterleavedBuffer packs per attribute arrays into one float32 buffer
// following the layout order. Missing trailing components are left zero.
func BuildInterleavedBuffer(layout VertexLayout, data map[string][]float32, vertexCount int) []float32 {
	perVertex := layout.FloatsPerVertex()
	out := make([]float32, 0, vertexCount*perVertex)

	for v := 0; v < vertexCount; v++ {
		for _, a := range layout.Attributes {
			src := data[a.Name]
			n := a.Format.Components()
			start := v * n
			for c := 0; c < n; c++ {
				if start+c < len(src) {
					out = append(out, src[start+c])
				} else {
					out = append(out, 0)
				}
			}
		}
	}
	return out
}
