package webgpu

import (
	"errors"
	"fmt"

	"iengine/internal/gpu"
	"iengine/internal/logger"
	"iengine/internal/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// MaxTextureUnits is the number of sampled-texture slots in the largest
// built-in bind group layout.
const MaxTextureUnits = 5

type Buffer struct {
	buf  *wgpu.Buffer
	kind gpu.BufferKind
	size int
}

func (b *Buffer) Size() int         { return b.size }
func (b *Buffer) Raw() *wgpu.Buffer { return b.buf }

// Texture bundles the GPU texture with the view and sampler a bind group
// needs.
type Texture struct {
	tex     *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
	width   int
	height  int
}

func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

// ContextOptions are the device and surface settings read at creation.
type ContextOptions struct {
	PowerPreference string
	Stencil         bool
}

// Context owns the WebGPU device and the configured surface. It is not
// safe for concurrent use.
type Context struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	config      *wgpu.SurfaceConfiguration
	depthFormat wgpu.TextureFormat
	depth       *wgpu.Texture
	depthView   *wgpu.TextureView

	caps gpu.Caps
}

var _ gpu.Context = (*Context)(nil)

// NewContext creates the instance, surface, adapter and device, then
// configures the surface at width x height.
func NewContext(desc *wgpu.SurfaceDescriptor, width, height int, opts ContextOptions) (*Context, error) {
	if desc == nil {
		return nil, errors.New("webgpu: nil surface descriptor")
	}

	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(desc)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   powerPreference(opts.PowerPreference),
	})
	if err != nil {
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "iengine device"})
	if err != nil {
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	capabilities := surface.GetCapabilities(adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		device.Release()
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, errors.New("webgpu: surface reports no usable format")
	}

	depthFormat := wgpu.TextureFormatDepth24Plus
	if opts.Stencil {
		depthFormat = wgpu.TextureFormatDepth24PlusStencil8
	}

	ctx := &Context{
		instance: instance,
		surface:  surface,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		config: &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      capabilities.Formats[0],
			PresentMode: wgpu.PresentModeFifo,
			AlphaMode:   capabilities.AlphaModes[0],
		},
		depthFormat: depthFormat,
		caps: gpu.Caps{
			RequiresRecreateOnResize: true,
			MaxTextureUnits:          MaxTextureUnits,
			MaxTextureSize:           int(wgpu.DefaultLimits().MaxTextureDimension2D),
		},
	}
	if err := ctx.Configure(width, height); err != nil {
		ctx.Destroy()
		return nil, err
	}

	logger.Log.Info("WebGPU context created",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("maxTextureSize", ctx.caps.MaxTextureSize))
	return ctx, nil
}

func (ctx *Context) Backend() gpu.Backend              { return gpu.BackendWebGPU }
func (ctx *Context) Caps() gpu.Caps                    { return ctx.caps }
func (ctx *Context) Target() shader.Target             { return shader.TargetWGSL }
func (ctx *Context) Device() *wgpu.Device              { return ctx.device }
func (ctx *Context) SurfaceFormat() wgpu.TextureFormat { return ctx.config.Format }
func (ctx *Context) DepthFormat() wgpu.TextureFormat   { return ctx.depthFormat }

// Size is the configured surface size in pixels.
func (ctx *Context) Size() (int, int) {
	return int(ctx.config.Width), int(ctx.config.Height)
}

// Configure (re)configures the surface and recreates the depth texture.
func (ctx *Context) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("webgpu: invalid surface size %dx%d", width, height)
	}
	ctx.config.Width = uint32(width)
	ctx.config.Height = uint32(height)
	ctx.surface.Configure(ctx.adapter, ctx.device, ctx.config)

	ctx.releaseDepth()
	depth, err := ctx.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        ctx.depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	view, err := depth.CreateView(nil)
	if err != nil {
		depth.Release()
		return fmt.Errorf("create depth view: %w", err)
	}
	ctx.depth, ctx.depthView = depth, view
	return nil
}

func (ctx *Context) releaseDepth() {
	if ctx.depthView != nil {
		ctx.depthView.Release()
		ctx.depthView = nil
	}
	if ctx.depth != nil {
		ctx.depth.Release()
		ctx.depth = nil
	}
}

var bufferUsage = map[gpu.BufferKind]wgpu.BufferUsage{
	gpu.BufferVertex:  wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	gpu.BufferIndex:   wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	gpu.BufferUniform: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
}

// CreateBuffer allocates size bytes rounded up to the 4 byte copy
// alignment. Size reports the requested size.
func (ctx *Context) CreateBuffer(kind gpu.BufferKind, size int, label string) (gpu.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer %q: invalid size %d", label, size)
	}
	buf, err := ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(align4(size)),
		Usage: bufferUsage[kind],
	})
	if err != nil {
		return nil, fmt.Errorf("buffer %q: %w", label, err)
	}
	return &Buffer{buf: buf, kind: kind, size: size}, nil
}

func (ctx *Context) WriteBuffer(buf gpu.Buffer, offset int, data []byte) error {
	b, ok := buf.(*Buffer)
	if !ok || b.buf == nil {
		return errors.New("webgpu: not a live webgpu buffer")
	}
	if err := gpu.CheckWrite(b, offset, len(data)); err != nil {
		return err
	}
	if offset%4 != 0 {
		return fmt.Errorf("webgpu: buffer write offset %d is not 4 byte aligned", offset)
	}
	if len(data)%4 != 0 {
		padded := make([]byte, align4(len(data)))
		copy(padded, data)
		data = padded
	}
	ctx.queue.WriteBuffer(b.buf, uint64(offset), data)
	return nil
}

func (ctx *Context) DeleteBuffer(buf gpu.Buffer) {
	if b, ok := buf.(*Buffer); ok && b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

// CreateTexture creates an RGBA8 texture with its view and a sampler
// built from the wrap and filter modes.
func (ctx *Context) CreateTexture(desc gpu.TextureDescriptor) (gpu.TextureHandle, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("texture %q: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if limit := ctx.caps.MaxTextureSize; desc.Width > limit || desc.Height > limit {
		return nil, fmt.Errorf("texture %q: %dx%d exceeds max size %d", desc.Label, desc.Width, desc.Height, limit)
	}

	tex, err := ctx.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", desc.Label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("texture %q view: %w", desc.Label, err)
	}

	minF, mipF := minFilter(desc.MinFilter)
	sampler, err := ctx.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  addressModes[desc.WrapS],
		AddressModeV:  addressModes[desc.WrapT],
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     magFilter(desc.MagFilter),
		MinFilter:     minF,
		MipmapFilter:  mipF,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, fmt.Errorf("texture %q sampler: %w", desc.Label, err)
	}

	return &Texture{tex: tex, view: view, sampler: sampler, width: desc.Width, height: desc.Height}, nil
}

// WriteTexture replaces the pixels. WebGPU textures are immutable in
// size, so width and height must match the texture.
func (ctx *Context) WriteTexture(handle gpu.TextureHandle, width, height int, rgba []byte) error {
	t, ok := handle.(*Texture)
	if !ok || t.tex == nil {
		return errors.New("webgpu: not a live webgpu texture")
	}
	if width != t.width || height != t.height {
		return fmt.Errorf("webgpu: write of %dx%d into a %dx%d texture", width, height, t.width, t.height)
	}
	if len(rgba) != width*height*4 {
		return fmt.Errorf("webgpu: %d bytes for a %dx%d RGBA texture", len(rgba), width, height)
	}

	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}
	ctx.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		rgba,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(width * 4),
			RowsPerImage: uint32(height),
		},
		&size,
	)
	return nil
}

func (ctx *Context) DeleteTexture(handle gpu.TextureHandle) {
	t, ok := handle.(*Texture)
	if !ok {
		return
	}
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

// CreateBindGroup binds uniforms and the role textures in the order the
// program's bindings list them.
func (ctx *Context) CreateBindGroup(p *Program, uniforms *Buffer, textures map[string]*Texture) (*wgpu.BindGroup, error) {
	entries := make([]wgpu.BindGroupEntry, 0, len(p.bindings))
	for _, b := range p.bindings {
		switch b.Kind {
		case shader.BindingUniform:
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: b.Index,
				Buffer:  uniforms.buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		case shader.BindingTexture, shader.BindingSampler:
			t, ok := textures[b.Role]
			if !ok || t.view == nil {
				return nil, fmt.Errorf("binding %d: no texture for role %q", b.Index, b.Role)
			}
			if b.Kind == shader.BindingTexture {
				entries = append(entries, wgpu.BindGroupEntry{Binding: b.Index, TextureView: t.view})
			} else {
				entries = append(entries, wgpu.BindGroupEntry{Binding: b.Index, Sampler: t.sampler})
			}
		}
	}

	bg, err := ctx.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.variant,
		Layout:  p.bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group for %s: %w", p.variant, err)
	}
	return bg, nil
}

// Frame is an acquired surface image with an open render pass.
type Frame struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	Pass    *wgpu.RenderPassEncoder
}

// BeginFrame acquires the next surface image. A non-nil clear color
// clears color and depth, nil loads the previous contents.
func (ctx *Context) BeginFrame(clear *[4]float32) (*Frame, error) {
	surfaceTexture, err := ctx.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("create surface view: %w", err)
	}
	encoder, err := ctx.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	color := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpLoad,
		StoreOp: wgpu.StoreOpStore,
	}
	depth := &wgpu.RenderPassDepthStencilAttachment{
		View:            ctx.depthView,
		DepthLoadOp:     wgpu.LoadOpLoad,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: 1.0,
	}
	if clear != nil {
		color.LoadOp = wgpu.LoadOpClear
		color.ClearValue = wgpu.Color{
			R: float64(clear[0]),
			G: float64(clear[1]),
			B: float64(clear[2]),
			A: float64(clear[3]),
		}
		depth.DepthLoadOp = wgpu.LoadOpClear
	}
	if ctx.depthFormat == wgpu.TextureFormatDepth24PlusStencil8 {
		depth.StencilLoadOp = wgpu.LoadOpClear
		depth.StencilStoreOp = wgpu.StoreOpStore
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments:       []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: depth,
	})
	return &Frame{texture: surfaceTexture, view: view, encoder: encoder, Pass: pass}, nil
}

// EndFrame ends the pass, submits the command buffer and presents.
func (ctx *Context) EndFrame(f *Frame) error {
	defer func() {
		f.view.Release()
		f.texture.Release()
	}()

	f.Pass.End()
	cmd, err := f.encoder.Finish(nil)
	f.encoder.Release()
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	ctx.queue.Submit(cmd)
	cmd.Release()
	ctx.surface.Present()
	return nil
}

// Destroy releases the depth target and the device chain.
func (ctx *Context) Destroy() {
	ctx.releaseDepth()
	if ctx.queue != nil {
		ctx.queue.Release()
		ctx.queue = nil
	}
	if ctx.device != nil {
		ctx.device.Release()
		ctx.device = nil
	}
	if ctx.adapter != nil {
		ctx.adapter.Release()
		ctx.adapter = nil
	}
	if ctx.surface != nil {
		ctx.surface.Release()
		ctx.surface = nil
	}
	if ctx.instance != nil {
		ctx.instance.Release()
		ctx.instance = nil
	}
}
