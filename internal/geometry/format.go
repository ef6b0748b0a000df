package geometry

// VertexFormat mirrors the WebGPU vertex format set.
type VertexFormat int

const (
	Uint8x2 VertexFormat = iota
	Uint8x4
	Sint8x2
	Sint8x4
	Unorm8x2
	Unorm8x4
	Snorm8x2
	Snorm8x4
	Uint16x2
	Uint16x4
	Sint16x2
	Sint16x4
	Unorm16x2
	Unorm16x4
	Snorm16x2
	Snorm16x4
	Float16x2
	Float16x4
	Float32
	Float32x2
	Float32x3
	Float32x4
	Uint32
	Uint32x2
	Uint32x3
	Uint32x4
	Sint32
	Sint32x2
	Sint32x3
	Sint32x4
)

// GL component type enums.
const (
	GLByte          uint32 = 0x1400
	GLUnsignedByte  uint32 = 0x1401
	GLShort         uint32 = 0x1402
	GLUnsignedShort uint32 = 0x1403
	GLInt           uint32 = 0x1404
	GLUnsignedInt   uint32 = 0x1405
	GLFloat         uint32 = 0x1406
	GLHalfFloat     uint32 = 0x140B
)

// FormatInfo describes the memory shape of a vertex format.
type FormatInfo struct {
	Name       string
	Components int
	ByteSize   int
	Normalized bool
	GLType     uint32
}

var formatInfo = [...]FormatInfo{
	Uint8x2:   {"uint8x2", 2, 2, false, GLUnsignedByte},
	Uint8x4:   {"uint8x4", 4, 4, false, GLUnsignedByte},
	Sint8x2:   {"sint8x2", 2, 2, false, GLByte},
	Sint8x4:   {"sint8x4", 4, 4, false, GLByte},
	Unorm8x2:  {"unorm8x2", 2, 2, true, GLUnsignedByte},
	Unorm8x4:  {"unorm8x4", 4, 4, true, GLUnsignedByte},
	Snorm8x2:  {"snorm8x2", 2, 2, true, GLByte},
	Snorm8x4:  {"snorm8x4", 4, 4, true, GLByte},
	Uint16x2:  {"uint16x2", 2, 4, false, GLUnsignedShort},
	Uint16x4:  {"uint16x4", 4, 8, false, GLUnsignedShort},
	Sint16x2:  {"sint16x2", 2, 4, false, GLShort},
	Sint16x4:  {"sint16x4", 4, 8, false, GLShort},
	Unorm16x2: {"unorm16x2", 2, 4, true, GLUnsignedShort},
	Unorm16x4: {"unorm16x4", 4, 8, true, GLUnsignedShort},
	Snorm16x2: {"snorm16x2", 2, 4, true, GLShort},
	Snorm16x4: {"snorm16x4", 4, 8, true, GLShort},
	Float16x2: {"float16x2", 2, 4, false, GLHalfFloat},
	Float16x4: {"float16x4", 4, 8, false, GLHalfFloat},
	Float32:   {"float32", 1, 4, false, GLFloat},
	Float32x2: {"float32x2", 2, 8, false, GLFloat},
	Float32x3: {"float32x3", 3, 12, false, GLFloat},
	Float32x4: {"float32x4", 4, 16, false, GLFloat},
	Uint32:    {"uint32", 1, 4, false, GLUnsignedInt},
	Uint32x2:  {"uint32x2", 2, 8, false, GLUnsignedInt},
	Uint32x3:  {"uint32x3", 3, 12, false, GLUnsignedInt},
	Uint32x4:  {"uint32x4", 4, 16, false, GLUnsignedInt},
	Sint32:    {"sint32", 1, 4, false, GLInt},
	Sint32x2:  {"sint32x2", 2, 8, false, GLInt},
	Sint32x3:  {"sint32x3", 3, 12, false, GLInt},
	Sint32x4:  {"sint32x4", 4, 16, false, GLInt},
}

// Info returns the format description.
func (f VertexFormat) Info() FormatInfo {
	if f < 0 || int(f) >= len(formatInfo) {
		return FormatInfo{Name: "unknown"}
	}
	return formatInfo[f]
}

func (f VertexFormat) ByteSize() int    { return f.Info().ByteSize }
func (f VertexFormat) Components() int  { return f.Info().Components }
func (f VertexFormat) Normalized() bool { return f.Info().Normalized }
func (f VertexFormat) GLType() uint32   { return f.Info().GLType }
func (f VertexFormat) String() string   { return f.Info().Name }
