package pipeline

import (
	"fmt"
	"strings"

	"iengine/internal/geometry"
)

type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendConstant
	BlendOneMinusConstant
)

type BlendOperation int

const (
	BlendOpAdd BlendOperation = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

type StencilOperation int

const (
	StencilKeep StencilOperation = iota
	StencilZero
	StencilReplace
	StencilIncr
	StencilDecr
	StencilInvert
	StencilIncrWrap
	StencilDecrWrap
)

type Face int

const (
	FaceBack Face = iota
	FaceFront
	FaceFrontAndBack
)

type FrontFace int

const (
	FrontCCW FrontFace = iota
	FrontCW
)

type Rect struct {
	X, Y, Width, Height int
}

type StencilFunc struct {
	Func CompareFunc
	Ref  int
	Mask uint32
}

type StencilOp struct {
	Fail, ZFail, ZPass StencilOperation
}

type BlendFunc struct {
	SrcRGB, DstRGB     BlendFactor
	SrcAlpha, DstAlpha BlendFactor
}

type PolygonOffset struct {
	Factor, Units float32
}

// RenderState is a partial snapshot of fixed function state. Nil fields
// are left as they are when the state is applied.
type RenderState struct {
	DepthTest  *bool
	DepthWrite *bool
	DepthFunc  *CompareFunc

	StencilTest *bool
	StencilFunc *StencilFunc
	StencilOp   *StencilOp

	Blend         *bool
	BlendFunc     *BlendFunc
	BlendEquation *BlendOperation
	BlendColor    *[4]float32

	CullFace  *bool
	CullMode  *Face
	FrontFace *FrontFace
	ColorMask *[4]bool

	Viewport        *Rect
	Scissor         *Rect
	PolygonOffset   *PolygonOffset
	AlphaToCoverage *bool
}

// Ptr returns a pointer to v, for filling RenderState literals.
func Ptr[T any](v T) *T { return &v }

// FromPrimitive returns the depth and cull state a primitive asks for.
func FromPrimitive(p geometry.Primitive) RenderState {
	s := RenderState{
		DepthTest:  Ptr(p.DepthTest),
		DepthWrite: Ptr(p.DepthWrite),
		CullFace:   Ptr(p.CullFace != geometry.CullNone),
	}
	switch p.CullFace {
	case geometry.CullFront:
		s.CullMode = Ptr(FaceFront)
	case geometry.CullBack:
		s.CullMode = Ptr(FaceBack)
	}
	return s
}

// Merge returns base with every field present in over replacing it.
func Merge(base, over RenderState) RenderState {
	out := base
	pick(&out.DepthTest, over.DepthTest)
	pick(&out.DepthWrite, over.DepthWrite)
	pick(&out.DepthFunc, over.DepthFunc)
	pick(&out.StencilTest, over.StencilTest)
	pick(&out.StencilFunc, over.StencilFunc)
	pick(&out.StencilOp, over.StencilOp)
	pick(&out.Blend, over.Blend)
	pick(&out.BlendFunc, over.BlendFunc)
	pick(&out.BlendEquation, over.BlendEquation)
	pick(&out.BlendColor, over.BlendColor)
	pick(&out.CullFace, over.CullFace)
	pick(&out.CullMode, over.CullMode)
	pick(&out.FrontFace, over.FrontFace)
	pick(&out.ColorMask, over.ColorMask)
	pick(&out.Viewport, over.Viewport)
	pick(&out.Scissor, over.Scissor)
	pick(&out.PolygonOffset, over.PolygonOffset)
	pick(&out.AlphaToCoverage, over.AlphaToCoverage)
	return out
}

func pick[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

// Key serializes the present fields in a fixed order.
func (s RenderState) Key() string {
	var parts []string
	add := func(name string, present bool, v func() any) {
		if present {
			parts = append(parts, fmt.Sprintf("%s=%v", name, v()))
		}
	}
	add("depthTest", s.DepthTest != nil, func() any { return *s.DepthTest })
	add("depthWrite", s.DepthWrite != nil, func() any { return *s.DepthWrite })
	add("depthFunc", s.DepthFunc != nil, func() any { return *s.DepthFunc })
	add("stencilTest", s.StencilTest != nil, func() any { return *s.StencilTest })
	add("stencilFunc", s.StencilFunc != nil, func() any { return *s.StencilFunc })
	add("stencilOp", s.StencilOp != nil, func() any { return *s.StencilOp })
	add("blend", s.Blend != nil, func() any { return *s.Blend })
	add("blendFunc", s.BlendFunc != nil, func() any { return *s.BlendFunc })
	add("blendEquation", s.BlendEquation != nil, func() any { return *s.BlendEquation })
	add("blendColor", s.BlendColor != nil, func() any { return *s.BlendColor })
	add("cullFace", s.CullFace != nil, func() any { return *s.CullFace })
	add("cullMode", s.CullMode != nil, func() any { return *s.CullMode })
	add("frontFace", s.FrontFace != nil, func() any { return *s.FrontFace })
	add("colorMask", s.ColorMask != nil, func() any { return *s.ColorMask })
	add("viewport", s.Viewport != nil, func() any { return *s.Viewport })
	add("scissor", s.Scissor != nil, func() any { return *s.Scissor })
	add("polygonOffset", s.PolygonOffset != nil, func() any { return *s.PolygonOffset })
	add("alphaToCoverage", s.AlphaToCoverage != nil, func() any { return *s.AlphaToCoverage })
	return strings.Join(parts, ",")
}

// Key identifies a pipeline by everything baked into it.
func Key(topology geometry.Topology, layout geometry.VertexLayout, shaderID string, state RenderState) string {
	return strings.Join([]string{topology.String(), layout.Key(), shaderID, state.Key()}, "|")
}
