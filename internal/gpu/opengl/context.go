package opengl

import (
	"fmt"

	"iengine/internal/gpu"
	"iengine/internal/logger"
	"iengine/internal/pipeline"
	"iengine/internal/shader"

	"go.uber.org/zap"
)

type glBuffer struct {
	id   uint32
	kind gpu.BufferKind
	size int
}

func (b *glBuffer) Size() int { return b.size }

type glTexture struct {
	id     uint32
	width  int
	height int
	mipmap bool
}

func (t *glTexture) Width() int  { return t.width }
func (t *glTexture) Height() int { return t.height }

// Context is the OpenGL gpu.Context. GL state is global, so a Context
// must only be used from the thread that owns the GL context.
type Context struct {
	api    API
	caps   gpu.Caps
	legacy bool

	vao            uint32
	enabled        map[uint32]bool
	currentProgram uint32
}

// NewContext initializes GL function pointers and queries limits. The
// GL context must be current.
func NewContext(api API, legacy bool) (*Context, error) {
	if err := api.Init(); err != nil {
		return nil, fmt.Errorf("OpenGL initialization failed: %w", err)
	}

	ctx := &Context{
		api:    api,
		legacy: legacy,
		caps: gpu.Caps{
			RequiresRecreateOnResize: false,
			MaxTextureUnits:          int(api.GetInteger(MAX_COMBINED_TEXTURE_IMAGE_UNITS)),
			MaxTextureSize:           int(api.GetInteger(MAX_TEXTURE_SIZE)),
		},
		enabled: make(map[uint32]bool),
	}
	// core profile needs a bound vertex array object for attribute setup,
	// 2.1 contexts have none
	if !legacy {
		ctx.vao = api.GenVertexArray()
		api.BindVertexArray(ctx.vao)
	}

	logger.Log.Info("OpenGL context initialized",
		zap.String("version", api.GetString(VERSION)),
		zap.Int("maxTextureUnits", ctx.caps.MaxTextureUnits),
		zap.Int("maxTextureSize", ctx.caps.MaxTextureSize))
	return ctx, nil
}

func (ctx *Context) API() API             { return ctx.api }
func (ctx *Context) Backend() gpu.Backend { return gpu.BackendOpenGL }
func (ctx *Context) Caps() gpu.Caps       { return ctx.caps }

// Target is the shader dialect programs are compiled from.
func (ctx *Context) Target() shader.Target {
	if ctx.legacy {
		return shader.TargetGLSLLegacy
	}
	return shader.TargetGLSL
}

// uploadTarget is the binding point used for buffer uploads. The copy
// target leaves the draw bindings alone but needs GL 3.1.
func (ctx *Context) uploadTarget() uint32 {
	if ctx.legacy {
		return ARRAY_BUFFER
	}
	return COPY_WRITE_BUFFER
}

func (ctx *Context) CreateBuffer(kind gpu.BufferKind, size int, label string) (gpu.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer %q: invalid size %d", label, size)
	}
	usage := uint32(STATIC_DRAW)
	if kind == gpu.BufferUniform {
		usage = DYNAMIC_DRAW
	}
	id := ctx.api.GenBuffer()
	ctx.api.BindBuffer(ctx.uploadTarget(), id)
	ctx.api.BufferData(ctx.uploadTarget(), size, nil, usage)
	return &glBuffer{id: id, kind: kind, size: size}, nil
}

func (ctx *Context) WriteBuffer(buf gpu.Buffer, offset int, data []byte) error {
	if err := gpu.CheckWrite(buf, offset, len(data)); err != nil {
		return err
	}
	b := buf.(*glBuffer)
	ctx.api.BindBuffer(ctx.uploadTarget(), b.id)
	ctx.api.BufferSubData(ctx.uploadTarget(), offset, data)
	return nil
}

func (ctx *Context) DeleteBuffer(buf gpu.Buffer) {
	if b, ok := buf.(*glBuffer); ok && b.id != 0 {
		ctx.api.DeleteBuffer(b.id)
		b.id = 0
	}
}

func (ctx *Context) CreateTexture(desc gpu.TextureDescriptor) (gpu.TextureHandle, error) {
	if limit := ctx.caps.MaxTextureSize; limit > 0 && (desc.Width > limit || desc.Height > limit) {
		return nil, fmt.Errorf("texture %q: %dx%d exceeds max size %d", desc.Label, desc.Width, desc.Height, limit)
	}
	id := ctx.api.GenTexture()
	ctx.api.BindTexture(TEXTURE_2D, id)
	ctx.api.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, glWrap(desc.WrapS))
	ctx.api.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, glWrap(desc.WrapT))
	ctx.api.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, glMinFilter(desc.MinFilter))
	ctx.api.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, glMagFilter(desc.MagFilter))
	return &glTexture{
		id:     id,
		width:  desc.Width,
		height: desc.Height,
		mipmap: desc.MinFilter.UsesMipmaps(),
	}, nil
}

// WriteTexture respecifies the image, so a size change needs no new object.
func (ctx *Context) WriteTexture(tex gpu.TextureHandle, width, height int, rgba []byte) error {
	if len(rgba) != width*height*4 {
		return fmt.Errorf("texture data is %d bytes, want %d", len(rgba), width*height*4)
	}
	t := tex.(*glTexture)
	ctx.api.BindTexture(TEXTURE_2D, t.id)
	ctx.api.TexImage2D(TEXTURE_2D, int32(width), int32(height), rgba)
	if t.mipmap {
		ctx.api.GenerateMipmap(TEXTURE_2D)
	}
	t.width, t.height = width, height
	return nil
}

func (ctx *Context) DeleteTexture(tex gpu.TextureHandle) {
	if t, ok := tex.(*glTexture); ok && t.id != 0 {
		ctx.api.DeleteTexture(t.id)
		t.id = 0
	}
}

// BindTexture binds tex to texture unit.
func (ctx *Context) BindTexture(unit int, tex gpu.TextureHandle) {
	ctx.api.ActiveTexture(TEXTURE0 + uint32(unit))
	ctx.api.BindTexture(TEXTURE_2D, tex.(*glTexture).id)
}

func (ctx *Context) useProgram(id uint32) {
	if ctx.currentProgram != id {
		ctx.api.UseProgram(id)
		ctx.currentProgram = id
	}
}

// ApplyState sets the present fields of s and leaves the rest untouched.
func (ctx *Context) ApplyState(s pipeline.RenderState) {
	api := ctx.api
	toggle := func(capability uint32, on *bool) {
		if on == nil {
			return
		}
		if *on {
			api.Enable(capability)
		} else {
			api.Disable(capability)
		}
	}

	toggle(DEPTH_TEST, s.DepthTest)
	if s.DepthWrite != nil {
		api.DepthMask(*s.DepthWrite)
	}
	if s.DepthFunc != nil {
		api.DepthFunc(glCompare(*s.DepthFunc))
	}

	toggle(STENCIL_TEST, s.StencilTest)
	if f := s.StencilFunc; f != nil {
		api.StencilFunc(glCompare(f.Func), int32(f.Ref), f.Mask)
	}
	if op := s.StencilOp; op != nil {
		api.StencilOp(glStencilOp(op.Fail), glStencilOp(op.ZFail), glStencilOp(op.ZPass))
	}

	toggle(BLEND, s.Blend)
	if f := s.BlendFunc; f != nil {
		api.BlendFuncSeparate(glBlendFactor(f.SrcRGB), glBlendFactor(f.DstRGB), glBlendFactor(f.SrcAlpha), glBlendFactor(f.DstAlpha))
	}
	if s.BlendEquation != nil {
		api.BlendEquation(glBlendOp(*s.BlendEquation))
	}
	if c := s.BlendColor; c != nil {
		api.BlendColor(c[0], c[1], c[2], c[3])
	}

	toggle(CULL_FACE, s.CullFace)
	if s.CullMode != nil {
		api.CullFace(glFace(*s.CullMode))
	}
	if s.FrontFace != nil {
		api.FrontFace(glFrontFace(*s.FrontFace))
	}
	if m := s.ColorMask; m != nil {
		api.ColorMask(m[0], m[1], m[2], m[3])
	}

	if v := s.Viewport; v != nil {
		api.Viewport(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height))
	}
	if sc := s.Scissor; sc != nil {
		api.Enable(SCISSOR_TEST)
		api.Scissor(int32(sc.X), int32(sc.Y), int32(sc.Width), int32(sc.Height))
	}
	if po := s.PolygonOffset; po != nil {
		api.Enable(POLYGON_OFFSET_FILL)
		api.PolygonOffset(po.Factor, po.Units)
	}
	toggle(SAMPLE_ALPHA_TO_COVERAGE, s.AlphaToCoverage)
}

// SetViewport sets the GL viewport.
func (ctx *Context) SetViewport(x, y, width, height int) {
	ctx.api.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// Clear clears color, depth and stencil. With a region set the clear is
// limited to it with a scissor.
func (ctx *Context) Clear(color [4]float32, region *pipeline.Rect) {
	api := ctx.api
	if region != nil {
		api.Enable(SCISSOR_TEST)
		api.Scissor(int32(region.X), int32(region.Y), int32(region.Width), int32(region.Height))
	}
	// depth writes must be on for the depth clear to land
	api.DepthMask(true)
	api.ClearColor(color[0], color[1], color[2], color[3])
	api.Clear(COLOR_BUFFER_BIT | DEPTH_BUFFER_BIT | STENCIL_BUFFER_BIT)
	if region != nil {
		api.Disable(SCISSOR_TEST)
	}
}

func (ctx *Context) Flush() { ctx.api.Flush() }

// Destroy releases the objects owned by the context itself.
func (ctx *Context) Destroy() {
	if ctx.vao != 0 {
		ctx.api.BindVertexArray(0)
		ctx.api.DeleteVertexArray(ctx.vao)
		ctx.vao = 0
	}
	ctx.currentProgram = 0
}
