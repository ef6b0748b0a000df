package webgpu

import (
	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/pipeline"

	"github.com/cogentcore/webgpu/wgpu"
)

var topologies = map[geometry.Topology]wgpu.PrimitiveTopology{
	geometry.Triangles:     wgpu.PrimitiveTopologyTriangleList,
	geometry.TriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
	geometry.Lines:         wgpu.PrimitiveTopologyLineList,
	geometry.LineStrip:     wgpu.PrimitiveTopologyLineStrip,
	geometry.Points:        wgpu.PrimitiveTopologyPointList,
}

func topology(t geometry.Topology) wgpu.PrimitiveTopology {
	if v, ok := topologies[t]; ok {
		return v
	}
	return wgpu.PrimitiveTopologyTriangleList
}

var vertexFormats = map[geometry.VertexFormat]wgpu.VertexFormat{
	geometry.Uint8x2:   wgpu.VertexFormatUint8x2,
	geometry.Uint8x4:   wgpu.VertexFormatUint8x4,
	geometry.Sint8x2:   wgpu.VertexFormatSint8x2,
	geometry.Sint8x4:   wgpu.VertexFormatSint8x4,
	geometry.Unorm8x2:  wgpu.VertexFormatUnorm8x2,
	geometry.Unorm8x4:  wgpu.VertexFormatUnorm8x4,
	geometry.Snorm8x2:  wgpu.VertexFormatSnorm8x2,
	geometry.Snorm8x4:  wgpu.VertexFormatSnorm8x4,
	geometry.Uint16x2:  wgpu.VertexFormatUint16x2,
	geometry.Uint16x4:  wgpu.VertexFormatUint16x4,
	geometry.Sint16x2:  wgpu.VertexFormatSint16x2,
	geometry.Sint16x4:  wgpu.VertexFormatSint16x4,
	geometry.Unorm16x2: wgpu.VertexFormatUnorm16x2,
	geometry.Unorm16x4: wgpu.VertexFormatUnorm16x4,
	geometry.Snorm16x2: wgpu.VertexFormatSnorm16x2,
	geometry.Snorm16x4: wgpu.VertexFormatSnorm16x4,
	geometry.Float16x2: wgpu.VertexFormatFloat16x2,
	geometry.Float16x4: wgpu.VertexFormatFloat16x4,
	geometry.Float32:   wgpu.VertexFormatFloat32,
	geometry.Float32x2: wgpu.VertexFormatFloat32x2,
	geometry.Float32x3: wgpu.VertexFormatFloat32x3,
	geometry.Float32x4: wgpu.VertexFormatFloat32x4,
	geometry.Uint32:    wgpu.VertexFormatUint32,
	geometry.Uint32x2:  wgpu.VertexFormatUint32x2,
	geometry.Uint32x3:  wgpu.VertexFormatUint32x3,
	geometry.Uint32x4:  wgpu.VertexFormatUint32x4,
	geometry.Sint32:    wgpu.VertexFormatSint32,
	geometry.Sint32x2:  wgpu.VertexFormatSint32x2,
	geometry.Sint32x3:  wgpu.VertexFormatSint32x3,
	geometry.Sint32x4:  wgpu.VertexFormatSint32x4,
}

var compareFuncs = map[pipeline.CompareFunc]wgpu.CompareFunction{
	pipeline.CompareNever:        wgpu.CompareFunctionNever,
	pipeline.CompareLess:         wgpu.CompareFunctionLess,
	pipeline.CompareEqual:        wgpu.CompareFunctionEqual,
	pipeline.CompareLessEqual:    wgpu.CompareFunctionLessEqual,
	pipeline.CompareGreater:      wgpu.CompareFunctionGreater,
	pipeline.CompareNotEqual:     wgpu.CompareFunctionNotEqual,
	pipeline.CompareGreaterEqual: wgpu.CompareFunctionGreaterEqual,
	pipeline.CompareAlways:       wgpu.CompareFunctionAlways,
}

var blendFactors = map[pipeline.BlendFactor]wgpu.BlendFactor{
	pipeline.BlendZero:             wgpu.BlendFactorZero,
	pipeline.BlendOne:              wgpu.BlendFactorOne,
	pipeline.BlendSrcColor:         wgpu.BlendFactorSrc,
	pipeline.BlendOneMinusSrcColor: wgpu.BlendFactorOneMinusSrc,
	pipeline.BlendSrcAlpha:         wgpu.BlendFactorSrcAlpha,
	pipeline.BlendOneMinusSrcAlpha: wgpu.BlendFactorOneMinusSrcAlpha,
	pipeline.BlendDstColor:         wgpu.BlendFactorDst,
	pipeline.BlendOneMinusDstColor: wgpu.BlendFactorOneMinusDst,
	pipeline.BlendDstAlpha:         wgpu.BlendFactorDstAlpha,
	pipeline.BlendOneMinusDstAlpha: wgpu.BlendFactorOneMinusDstAlpha,
	pipeline.BlendConstant:         wgpu.BlendFactorConstant,
	pipeline.BlendOneMinusConstant: wgpu.BlendFactorOneMinusConstant,
}

var blendOps = map[pipeline.BlendOperation]wgpu.BlendOperation{
	pipeline.BlendOpAdd:             wgpu.BlendOperationAdd,
	pipeline.BlendOpSubtract:        wgpu.BlendOperationSubtract,
	pipeline.BlendOpReverseSubtract: wgpu.BlendOperationReverseSubtract,
	pipeline.BlendOpMin:             wgpu.BlendOperationMin,
	pipeline.BlendOpMax:             wgpu.BlendOperationMax,
}

var stencilOps = map[pipeline.StencilOperation]wgpu.StencilOperation{
	pipeline.StencilKeep:     wgpu.StencilOperationKeep,
	pipeline.StencilZero:     wgpu.StencilOperationZero,
	pipeline.StencilReplace:  wgpu.StencilOperationReplace,
	pipeline.StencilIncr:     wgpu.StencilOperationIncrementClamp,
	pipeline.StencilDecr:     wgpu.StencilOperationDecrementClamp,
	pipeline.StencilInvert:   wgpu.StencilOperationInvert,
	pipeline.StencilIncrWrap: wgpu.StencilOperationIncrementWrap,
	pipeline.StencilDecrWrap: wgpu.StencilOperationDecrementWrap,
}

var addressModes = map[gpu.WrapMode]wgpu.AddressMode{
	gpu.WrapRepeat:         wgpu.AddressModeRepeat,
	gpu.WrapClampToEdge:    wgpu.AddressModeClampToEdge,
	gpu.WrapMirroredRepeat: wgpu.AddressModeMirrorRepeat,
}

func magFilter(f gpu.MagFilter) wgpu.FilterMode {
	if f == gpu.MagNearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

// minFilter splits a GL style minification filter into the WebGPU
// min and mipmap filters.
func minFilter(f gpu.MinFilter) (wgpu.FilterMode, wgpu.MipmapFilterMode) {
	switch f {
	case gpu.MinNearest, gpu.MinNearestMipmapNearest:
		return wgpu.FilterModeNearest, wgpu.MipmapFilterModeNearest
	case gpu.MinLinearMipmapNearest:
		return wgpu.FilterModeLinear, wgpu.MipmapFilterModeNearest
	case gpu.MinNearestMipmapLinear:
		return wgpu.FilterModeNearest, wgpu.MipmapFilterModeLinear
	}
	return wgpu.FilterModeLinear, wgpu.MipmapFilterModeLinear
}

func powerPreference(p string) wgpu.PowerPreference {
	switch p {
	case "high-performance":
		return wgpu.PowerPreferenceHighPerformance
	case "low-power":
		return wgpu.PowerPreferenceLowPower
	}
	return wgpu.PowerPreferenceUndefined
}

// cullMode resolves the cull face flag and mode. CullFace false, or a
// front-and-back mode WebGPU cannot express, culls nothing.
func cullMode(s pipeline.RenderState) wgpu.CullMode {
	if s.CullFace == nil || !*s.CullFace {
		return wgpu.CullModeNone
	}
	face := pipeline.FaceBack
	if s.CullMode != nil {
		face = *s.CullMode
	}
	switch face {
	case pipeline.FaceBack:
		return wgpu.CullModeBack
	case pipeline.FaceFront:
		return wgpu.CullModeFront
	}
	return wgpu.CullModeNone
}

func frontFace(s pipeline.RenderState) wgpu.FrontFace {
	if s.FrontFace != nil && *s.FrontFace == pipeline.FrontCW {
		return wgpu.FrontFaceCW
	}
	return wgpu.FrontFaceCCW
}

func colorWriteMask(s pipeline.RenderState) wgpu.ColorWriteMask {
	if s.ColorMask == nil {
		return wgpu.ColorWriteMaskAll
	}
	var m wgpu.ColorWriteMask
	bits := [4]wgpu.ColorWriteMask{wgpu.ColorWriteMaskRed, wgpu.ColorWriteMaskGreen, wgpu.ColorWriteMaskBlue, wgpu.ColorWriteMaskAlpha}
	for i, on := range *s.ColorMask {
		if on {
			m |= bits[i]
		}
	}
	return m
}

// blendState is nil when blending is off, otherwise the configured
// factors with the equation applied to both color and alpha.
func blendState(s pipeline.RenderState) *wgpu.BlendState {
	if s.Blend == nil || !*s.Blend {
		return nil
	}
	f := pipeline.BlendFunc{
		SrcRGB:   pipeline.BlendOne,
		DstRGB:   pipeline.BlendZero,
		SrcAlpha: pipeline.BlendOne,
		DstAlpha: pipeline.BlendZero,
	}
	if s.BlendFunc != nil {
		f = *s.BlendFunc
	}
	op := wgpu.BlendOperationAdd
	if s.BlendEquation != nil {
		op = blendOps[*s.BlendEquation]
	}
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			Operation: op,
			SrcFactor: blendFactors[f.SrcRGB],
			DstFactor: blendFactors[f.DstRGB],
		},
		Alpha: wgpu.BlendComponent{
			Operation: op,
			SrcFactor: blendFactors[f.SrcAlpha],
			DstFactor: blendFactors[f.DstAlpha],
		},
	}
}

// depthStencil builds the depth attachment state. A disabled depth test
// compares Always. Stencil fields are only honoured when format has a
// stencil aspect.
func depthStencil(s pipeline.RenderState, format wgpu.TextureFormat) *wgpu.DepthStencilState {
	compare := wgpu.CompareFunctionLess
	if s.DepthFunc != nil {
		compare = compareFuncs[*s.DepthFunc]
	}
	if s.DepthTest != nil && !*s.DepthTest {
		compare = wgpu.CompareFunctionAlways
	}
	write := s.DepthWrite == nil || *s.DepthWrite

	face := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	var readMask, writeMask uint32 = 0xFFFFFFFF, 0xFFFFFFFF
	if format == wgpu.TextureFormatDepth24PlusStencil8 && s.StencilTest != nil && *s.StencilTest {
		if s.StencilFunc != nil {
			face.Compare = compareFuncs[s.StencilFunc.Func]
			readMask = s.StencilFunc.Mask
		}
		if s.StencilOp != nil {
			face.FailOp = stencilOps[s.StencilOp.Fail]
			face.DepthFailOp = stencilOps[s.StencilOp.ZFail]
			face.PassOp = stencilOps[s.StencilOp.ZPass]
		}
	}

	ds := &wgpu.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront:      face,
		StencilBack:       face,
		StencilReadMask:   readMask,
		StencilWriteMask:  writeMask,
	}
	if po := s.PolygonOffset; po != nil {
		ds.DepthBias = int32(po.Units)
		ds.DepthBiasSlopeScale = po.Factor
	}
	return ds
}
