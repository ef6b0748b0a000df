package opengl

import (
	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/pipeline"
)

// GL enum values used by this package. They match the values exported by
// github.com/go-gl/gl so an API implementation can pass them through.
const (
	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005

	NEVER    = 0x0200
	LESS     = 0x0201
	EQUAL    = 0x0202
	LEQUAL   = 0x0203
	GREATER  = 0x0204
	NOTEQUAL = 0x0205
	GEQUAL   = 0x0206
	ALWAYS   = 0x0207

	ZERO                     = 0
	ONE                      = 1
	SRC_COLOR                = 0x0300
	ONE_MINUS_SRC_COLOR      = 0x0301
	SRC_ALPHA                = 0x0302
	ONE_MINUS_SRC_ALPHA      = 0x0303
	DST_ALPHA                = 0x0304
	ONE_MINUS_DST_ALPHA      = 0x0305
	DST_COLOR                = 0x0306
	ONE_MINUS_DST_COLOR      = 0x0307
	CONSTANT_COLOR           = 0x8001
	ONE_MINUS_CONSTANT_COLOR = 0x8002

	FUNC_ADD              = 0x8006
	MIN                   = 0x8007
	MAX                   = 0x8008
	FUNC_SUBTRACT         = 0x800A
	FUNC_REVERSE_SUBTRACT = 0x800B

	KEEP      = 0x1E00
	REPLACE   = 0x1E01
	INCR      = 0x1E02
	DECR      = 0x1E03
	INVERT    = 0x150A
	INCR_WRAP = 0x8507
	DECR_WRAP = 0x8508

	FRONT          = 0x0404
	BACK           = 0x0405
	FRONT_AND_BACK = 0x0408
	CW             = 0x0900
	CCW            = 0x0901

	CULL_FACE                = 0x0B44
	DEPTH_TEST               = 0x0B71
	STENCIL_TEST             = 0x0B90
	BLEND                    = 0x0BE2
	SCISSOR_TEST             = 0x0C11
	POLYGON_OFFSET_FILL      = 0x8037
	SAMPLE_ALPHA_TO_COVERAGE = 0x809E

	DEPTH_BUFFER_BIT   = 0x00000100
	STENCIL_BUFFER_BIT = 0x00000400
	COLOR_BUFFER_BIT   = 0x00004000

	BYTE           = 0x1400
	UNSIGNED_BYTE  = 0x1401
	SHORT          = 0x1402
	UNSIGNED_SHORT = 0x1403
	INT            = 0x1404
	UNSIGNED_INT   = 0x1405
	FLOAT          = 0x1406

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	COPY_WRITE_BUFFER    = 0x8F37
	STATIC_DRAW          = 0x88E4
	DYNAMIC_DRAW         = 0x88E8

	TEXTURE_2D         = 0x0DE1
	TEXTURE0           = 0x84C0
	TEXTURE_MAG_FILTER = 0x2800
	TEXTURE_MIN_FILTER = 0x2801
	TEXTURE_WRAP_S     = 0x2802
	TEXTURE_WRAP_T     = 0x2803

	NEAREST                = 0x2600
	LINEAR                 = 0x2601
	NEAREST_MIPMAP_NEAREST = 0x2700
	LINEAR_MIPMAP_NEAREST  = 0x2701
	NEAREST_MIPMAP_LINEAR  = 0x2702
	LINEAR_MIPMAP_LINEAR   = 0x2703
	REPEAT                 = 0x2901
	CLAMP_TO_EDGE          = 0x812F
	MIRRORED_REPEAT        = 0x8370

	FRAGMENT_SHADER = 0x8B30
	VERTEX_SHADER   = 0x8B31
	COMPILE_STATUS  = 0x8B81
	LINK_STATUS     = 0x8B82
	INFO_LOG_LENGTH = 0x8B84

	VERSION                          = 0x1F02
	MAX_TEXTURE_SIZE                 = 0x0D33
	MAX_COMBINED_TEXTURE_IMAGE_UNITS = 0x8B4D
)

func glTopology(t geometry.Topology) uint32 {
	switch t {
	case geometry.Points:
		return POINTS
	case geometry.Lines:
		return LINES
	case geometry.LineStrip:
		return LINE_STRIP
	case geometry.TriangleStrip:
		return TRIANGLE_STRIP
	}
	return TRIANGLES
}

func glCompare(f pipeline.CompareFunc) uint32 {
	return [...]uint32{NEVER, LESS, EQUAL, LEQUAL, GREATER, NOTEQUAL, GEQUAL, ALWAYS}[f]
}

func glBlendFactor(f pipeline.BlendFactor) uint32 {
	return [...]uint32{
		ZERO, ONE,
		SRC_COLOR, ONE_MINUS_SRC_COLOR,
		SRC_ALPHA, ONE_MINUS_SRC_ALPHA,
		DST_COLOR, ONE_MINUS_DST_COLOR,
		DST_ALPHA, ONE_MINUS_DST_ALPHA,
		CONSTANT_COLOR, ONE_MINUS_CONSTANT_COLOR,
	}[f]
}

func glBlendOp(op pipeline.BlendOperation) uint32 {
	return [...]uint32{FUNC_ADD, FUNC_SUBTRACT, FUNC_REVERSE_SUBTRACT, MIN, MAX}[op]
}

func glStencilOp(op pipeline.StencilOperation) uint32 {
	return [...]uint32{KEEP, ZERO, REPLACE, INCR, DECR, INVERT, INCR_WRAP, DECR_WRAP}[op]
}

func glFace(f pipeline.Face) uint32 {
	return [...]uint32{BACK, FRONT, FRONT_AND_BACK}[f]
}

func glFrontFace(f pipeline.FrontFace) uint32 {
	if f == pipeline.FrontCW {
		return CW
	}
	return CCW
}

func glWrap(w gpu.WrapMode) int32 {
	switch w {
	case gpu.WrapClampToEdge:
		return CLAMP_TO_EDGE
	case gpu.WrapMirroredRepeat:
		return MIRRORED_REPEAT
	}
	return REPEAT
}

func glMinFilter(f gpu.MinFilter) int32 {
	return [...]int32{
		NEAREST, LINEAR,
		NEAREST_MIPMAP_NEAREST, LINEAR_MIPMAP_NEAREST,
		NEAREST_MIPMAP_LINEAR, LINEAR_MIPMAP_LINEAR,
	}[f]
}

func glMagFilter(f gpu.MagFilter) int32 {
	if f == gpu.MagNearest {
		return NEAREST
	}
	return LINEAR
}
