package webgpu

import (
	"fmt"

	"iengine/internal/camera"
	"iengine/internal/gpu"
	"iengine/internal/light"
	"iengine/internal/logger"
	"iengine/internal/material"
	"iengine/internal/pipeline"
	"iengine/internal/renderer"
	"iengine/internal/scene"
	"iengine/internal/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

type state int

const (
	stateUninitialized state = iota
	stateInitialized
	stateRendering
)

type drawKey struct {
	mesh     uint64
	material material.Material
	layer    scene.Layer
}

// drawIdleRenders is how many Render calls a drawable may miss before
// its uniform buffer and bind group are released.
const drawIdleRenders = 120

// drawResources is the uniform buffer and bind group of one drawable.
// The bind group is rebuilt when the program or a texture changes.
type drawResources struct {
	program   *Program
	uniforms  *Buffer
	bindGroup *wgpu.BindGroup
	textures  map[string]*Texture
	lastUsed  uint64
}

func (d *drawResources) release(ctx *Context) {
	if d.bindGroup != nil {
		d.bindGroup.Release()
		d.bindGroup = nil
	}
	ctx.DeleteBuffer(d.uniforms)
}

// Renderer draws scenes through WebGPU. Every Render acquires a surface
// image, records one pass, then submits and presents explicitly.
type Renderer struct {
	desc *wgpu.SurfaceDescriptor
	lib  *shader.Library

	ctx       *Context
	pipelines *pipeline.Cache[*Pipeline]
	draws     map[drawKey]*drawResources
	clear     *clearQuad
	frame     *Frame
	renders   uint64

	state      state
	surface    renderer.Surface
	opts       renderer.Options
	clearColor renderer.Color
	viewport   *renderer.Viewport
	width      int
	height     int
	camera     camera.Camera
	stats      renderer.FrameStats
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer returns an uninitialized renderer for the surface desc
// describes, usually from wgpuglfw.GetSurfaceDescriptor.
func NewRenderer(desc *wgpu.SurfaceDescriptor, lib *shader.Library) *Renderer {
	return &Renderer{
		desc:      desc,
		lib:       lib,
		pipelines: pipeline.NewCache[*Pipeline](),
		draws:     make(map[drawKey]*drawResources),
	}
}

func (rend *Renderer) Initialize(surface renderer.Surface, opts renderer.Options) error {
	if surface == nil || rend.desc == nil {
		return renderer.ErrNoSurface
	}
	width, height := renderer.DrawableSize(surface)
	ctx, err := NewContext(rend.desc, width, height, ContextOptions{
		PowerPreference: opts.PowerPreference,
		Stencil:         opts.Stencil,
	})
	if err != nil {
		return err
	}

	rend.ctx = ctx
	rend.surface = surface
	rend.opts = opts
	rend.clearColor = opts.ClearColor
	rend.width, rend.height = width, height
	rend.state = stateInitialized

	logger.Log.Info("WebGPU renderer initialized",
		zap.Int("width", width),
		zap.Int("height", height))
	return nil
}

func (rend *Renderer) IsInitialized() bool        { return rend.state != stateUninitialized }
func (rend *Renderer) Backend() gpu.Backend       { return gpu.BackendWebGPU }
func (rend *Renderer) Stats() renderer.FrameStats { return rend.stats }
func (rend *Renderer) WebGPU() *Context           { return rend.ctx }

func (rend *Renderer) Context() gpu.Context {
	if rend.ctx == nil {
		return nil
	}
	return rend.ctx
}

// Resize reconfigures the surface when the drawable size changed.
func (rend *Renderer) Resize() {
	if rend.state == stateUninitialized {
		return
	}
	w, h := renderer.DrawableSize(rend.surface)
	if w != rend.width || h != rend.height {
		if err := rend.ctx.Configure(w, h); err != nil {
			logger.Log.Error("Surface reconfigure failed", zap.Error(err))
			return
		}
		rend.width, rend.height = w, h
	}
	if rend.camera != nil {
		renderer.UpdateAspect(rend.camera, rend.width, rend.height)
	}
}

// SetViewport limits drawing and clearing to vp. Nil restores the full drawable.
func (rend *Renderer) SetViewport(vp *renderer.Viewport) {
	if vp != nil {
		v := *vp
		vp = &v
	}
	rend.viewport = vp
	if rend.frame != nil {
		rend.applyViewport(rend.frame.Pass)
	}
}

// SetClearColor changes the clear color. Nil restores the configured one.
func (rend *Renderer) SetClearColor(c *renderer.Color) {
	if c == nil {
		rend.clearColor = rend.opts.ClearColor
		return
	}
	rend.clearColor = *c
}

// Clear clears the viewport, or the whole surface without one. Outside
// Render it records and presents a frame of its own.
func (rend *Renderer) Clear() {
	if rend.state == stateUninitialized {
		logger.Log.Warn("Clear called before Initialize")
		return
	}
	if rend.frame != nil {
		if err := rend.clearRegion(rend.frame.Pass, rend.activeRect()); err != nil {
			logger.Log.Error("Clear failed", zap.Error(err))
		}
		return
	}

	frame, err := rend.beginFrame(true)
	if err != nil {
		logger.Log.Error("Clear failed", zap.Error(err))
		return
	}
	if err := rend.endFrame(frame); err != nil {
		logger.Log.Error("Clear failed", zap.Error(err))
	}
}

func (rend *Renderer) Render(s scene.Scene, opts renderer.RenderOptions) {
	if rend.state == stateUninitialized {
		logger.Log.Warn("Render called before Initialize")
		return
	}
	rend.stats = renderer.FrameStats{}

	cam := s.ActiveCamera()
	if cam == nil {
		logger.Log.Error("Scene has no active camera, frame skipped")
		return
	}
	if cam != rend.camera {
		rend.camera = cam
		renderer.UpdateAspect(cam, rend.width, rend.height)
	}

	frame := renderer.Collect(s)
	rend.stats.Renderables = len(frame.Renderables)
	rend.stats.Lights = len(frame.Lights)
	if len(frame.Renderables) == 0 {
		logger.Log.Warn("Nothing to render")
		return
	}

	rend.state = stateRendering
	defer func() { rend.state = stateInitialized }()
	rend.renders++

	f, err := rend.beginFrame(!opts.SkipClear)
	if err != nil {
		logger.Log.Error("Frame skipped", zap.Error(err))
		return
	}
	for _, r := range frame.Renderables {
		if err := rend.draw(f.Pass, r, cam, frame.Lights); err != nil {
			rend.stats.Skipped++
			renderer.LogSkipped(r, err)
			continue
		}
		rend.stats.Draws++
	}
	if err := rend.endFrame(f); err != nil {
		logger.Log.Error("Submit failed", zap.Error(err))
	}

	if n := evictIdle(rend.draws, rend.renders, func(res *drawResources) { res.release(rend.ctx) }); n > 0 {
		logger.Log.Debug("Released idle draw resources", zap.Int("count", n))
	}
}

// evictIdle drops the entries not used within the last drawIdleRenders
// renders and returns how many were released.
func evictIdle(draws map[drawKey]*drawResources, now uint64, release func(*drawResources)) int {
	n := 0
	for key, res := range draws {
		if now-res.lastUsed > drawIdleRenders {
			release(res)
			delete(draws, key)
			n++
		}
	}
	return n
}

// beginFrame opens a pass. A full-surface clear uses the load op, a
// viewport clear draws the clear quad.
func (rend *Renderer) beginFrame(clear bool) (*Frame, error) {
	var loadClear *[4]float32
	if clear && rend.viewport == nil {
		c := rend.clearColor
		loadClear = &[4]float32{c.R, c.G, c.B, c.A}
	}
	f, err := rend.ctx.BeginFrame(loadClear)
	if err != nil {
		return nil, err
	}
	rend.frame = f
	rend.applyViewport(f.Pass)

	if clear && rend.viewport != nil {
		if err := rend.clearRegion(f.Pass, rend.activeRect()); err != nil {
			logger.Log.Error("Viewport clear failed", zap.Error(err))
		}
	}
	return f, nil
}

func (rend *Renderer) endFrame(f *Frame) error {
	rend.frame = nil
	return rend.ctx.EndFrame(f)
}

func (rend *Renderer) applyViewport(pass *wgpu.RenderPassEncoder) {
	r := rend.activeRect()
	pass.SetViewport(float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 0, 1)
}

// activeRect is the viewport in attachment coordinates, or the whole
// surface when none is set.
func (rend *Renderer) activeRect() scissorRect {
	if rend.viewport == nil {
		return scissorRect{0, 0, uint32(rend.width), uint32(rend.height)}
	}
	return scissorFor(*rend.viewport, rend.width, rend.height)
}

func (rend *Renderer) clearRegion(pass *wgpu.RenderPassEncoder, rect scissorRect) error {
	if rend.clear == nil {
		q, err := newClearQuad(rend.ctx)
		if err != nil {
			return err
		}
		rend.clear = q
	}
	c := rend.clearColor
	return rend.clear.draw(rend.ctx, pass, [4]float32{c.R, c.G, c.B, c.A}, rect)
}

func (rend *Renderer) draw(pass *wgpu.RenderPassEncoder, r scene.Renderable, cam camera.Camera, lights []*light.Light) error {
	m := r.Mesh
	if err := m.Upload(rend.ctx, false); err != nil {
		return fmt.Errorf("upload mesh: %w", err)
	}

	prog, _, err := r.Material.Shader(rend.ctx, rend.lib, shader.Options{Defines: renderer.MeshDefines(m)})
	if err != nil {
		return err
	}

	topology := m.Primitive().Topology
	layout := m.Layout()
	rs := pipeline.Merge(pipeline.FromPrimitive(m.Primitive()), r.Material.RenderState())
	key := pipeline.Key(topology, layout, prog.ID(), rs)
	pl, created, err := rend.pipelines.GetOrCreate(key, func() (*Pipeline, error) {
		return rend.ctx.CreatePipeline(prog, topology, layout, rs)
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	if created {
		rend.stats.PipelinesCreated++
	}

	samplers := renderer.Samplers(r.Material)
	if limit := rend.ctx.Caps().MaxTextureUnits; len(samplers) > limit {
		return fmt.Errorf("material needs %d texture units, device has %d", len(samplers), limit)
	}
	textures := make(map[string]*Texture, len(samplers))
	for _, smp := range samplers {
		if err := smp.Texture.Upload(rend.ctx, false); err != nil {
			return fmt.Errorf("upload texture %s: %w", smp.Role, err)
		}
		t, ok := smp.Texture.Handle().(*Texture)
		if !ok {
			return fmt.Errorf("texture %s was not uploaded to this device", smp.Role)
		}
		textures[smp.Role] = t
	}

	res, err := rend.resources(drawKey{m.ID(), r.Material, r.Layer}, pl.program, textures)
	if err != nil {
		return err
	}

	values := r.Material.Uniforms(cam, r.World, lights)
	toClipSpace(values)
	data, skipped := PackUniforms(pl.program.uniforms, values)
	if len(skipped) > 0 {
		logger.Log.Debug("Uniforms with unexpected types left zero",
			zap.String("material", r.Material.Name()),
			zap.Strings("uniforms", skipped))
	}
	if err := rend.ctx.WriteBuffer(res.uniforms, 0, data); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}

	pass.SetPipeline(pl.raw)
	pass.SetBindGroup(0, res.bindGroup, nil)
	return pl.Draw(pass, m)
}

// resources returns the uniform buffer and bind group of a drawable,
// creating or rebuilding them as needed.
func (rend *Renderer) resources(key drawKey, prog *Program, textures map[string]*Texture) (*drawResources, error) {
	res, ok := rend.draws[key]
	if ok && res.program == prog && sameTextures(res.textures, textures) {
		res.lastUsed = rend.renders
		return res, nil
	}
	if ok {
		res.release(rend.ctx)
		delete(rend.draws, key)
	}

	buf, err := rend.ctx.CreateBuffer(gpu.BufferUniform, prog.uniforms.Size, prog.variant+"-uniforms")
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	uniforms := buf.(*Buffer)
	bg, err := rend.ctx.CreateBindGroup(prog, uniforms, textures)
	if err != nil {
		rend.ctx.DeleteBuffer(uniforms)
		return nil, err
	}

	res = &drawResources{program: prog, uniforms: uniforms, bindGroup: bg, textures: textures, lastUsed: rend.renders}
	rend.draws[key] = res
	return res, nil
}

func sameTextures(a, b map[string]*Texture) bool {
	if len(a) != len(b) {
		return false
	}
	for role, t := range a {
		if b[role] != t {
			return false
		}
	}
	return true
}

// Destroy releases pipelines, per drawable resources and the device.
// Programs stay owned by their materials and meshes by the caller.
func (rend *Renderer) Destroy() error {
	if rend.state == stateUninitialized {
		return renderer.ErrNotInitialized
	}
	for key, res := range rend.draws {
		res.release(rend.ctx)
		delete(rend.draws, key)
	}
	rend.pipelines.Clear(func(pl *Pipeline) { pl.Release() })
	if rend.clear != nil {
		rend.clear.release(rend.ctx)
		rend.clear = nil
	}
	rend.ctx.Destroy()
	rend.ctx = nil
	rend.camera = nil
	rend.state = stateUninitialized
	return nil
}

// scissorRect is a rectangle in attachment coordinates, origin top left.
type scissorRect struct {
	X, Y, Width, Height uint32
}

// scissorFor converts a bottom-left origin viewport to attachment
// coordinates, clamped to the surface.
func scissorFor(vp renderer.Viewport, width, height int) scissorRect {
	x0 := clamp(vp.X, 0, width)
	x1 := clamp(vp.X+vp.Width, 0, width)
	top := height - (vp.Y + vp.Height)
	y0 := clamp(top, 0, height)
	y1 := clamp(height-vp.Y, 0, height)
	return scissorRect{uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0)}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
