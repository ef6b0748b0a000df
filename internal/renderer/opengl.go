package renderer

import (
	"fmt"

	"iengine/internal/camera"
	"iengine/internal/gpu"
	"iengine/internal/gpu/opengl"
	"iengine/internal/light"
	"iengine/internal/logger"
	"iengine/internal/material"
	"iengine/internal/pipeline"
	"iengine/internal/scene"
	"iengine/internal/shader"

	"go.uber.org/zap"
)

type state int

const (
	stateUninitialized state = iota
	stateInitialized
	stateRendering
)

// OpenGL renders through an OpenGL context.
type OpenGL struct {
	api opengl.API
	lib *shader.Library

	ctx       *opengl.Context
	pipelines *pipeline.Cache[*opengl.Pipeline]

	state      state
	surface    Surface
	opts       Options
	clearColor Color
	viewport   *Viewport
	width      int
	height     int
	camera     camera.Camera
	stats      FrameStats
}

var _ Renderer = (*OpenGL)(nil)

// NewOpenGL returns an uninitialized renderer. The GL context must be
// current on the calling thread before Initialize.
func NewOpenGL(api opengl.API, lib *shader.Library) *OpenGL {
	return &OpenGL{
		api:       api,
		lib:       lib,
		pipelines: pipeline.NewCache[*opengl.Pipeline](),
	}
}

func (rend *OpenGL) Initialize(surface Surface, opts Options) error {
	if surface == nil {
		return ErrNoSurface
	}
	ctx, err := opengl.NewContext(rend.api, opts.LegacyGL)
	if err != nil {
		return err
	}

	rend.ctx = ctx
	rend.surface = surface
	rend.opts = opts
	rend.clearColor = opts.ClearColor
	rend.state = stateInitialized
	rend.Resize()

	logger.Log.Info("OpenGL renderer initialized",
		zap.Int("width", rend.width),
		zap.Int("height", rend.height),
		zap.String("target", ctx.Target().String()))
	return nil
}

func (rend *OpenGL) IsInitialized() bool  { return rend.state != stateUninitialized }
func (rend *OpenGL) Backend() gpu.Backend { return gpu.BackendOpenGL }
func (rend *OpenGL) Stats() FrameStats    { return rend.stats }

// Context is the GL device, nil before Initialize.
func (rend *OpenGL) Context() gpu.Context {
	if rend.ctx == nil {
		return nil
	}
	return rend.ctx
}

// GL exposes the concrete context for callers that compile programs directly.
func (rend *OpenGL) GL() *opengl.Context { return rend.ctx }

func (rend *OpenGL) Resize() {
	if rend.state == stateUninitialized {
		return
	}
	rend.width, rend.height = DrawableSize(rend.surface)
	rend.applyViewport()
	if rend.camera != nil {
		UpdateAspect(rend.camera, rend.width, rend.height)
	}
}

func (rend *OpenGL) applyViewport() {
	if vp := rend.viewport; vp != nil {
		rend.ctx.SetViewport(vp.X, vp.Y, vp.Width, vp.Height)
		return
	}
	rend.ctx.SetViewport(0, 0, rend.width, rend.height)
}

// SetViewport limits drawing and clearing to vp. Nil restores the full drawable.
func (rend *OpenGL) SetViewport(vp *Viewport) {
	if vp != nil {
		v := *vp
		vp = &v
	}
	rend.viewport = vp
	if rend.state != stateUninitialized {
		rend.applyViewport()
	}
}

// SetClearColor changes the clear color. Nil restores the configured one.
func (rend *OpenGL) SetClearColor(c *Color) {
	if c == nil {
		rend.clearColor = rend.opts.ClearColor
		return
	}
	rend.clearColor = *c
}

func (rend *OpenGL) Clear() {
	if rend.state == stateUninitialized {
		logger.Log.Warn("Clear called before Initialize")
		return
	}
	var region *pipeline.Rect
	if vp := rend.viewport; vp != nil {
		region = &pipeline.Rect{X: vp.X, Y: vp.Y, Width: vp.Width, Height: vp.Height}
	}
	c := rend.clearColor
	rend.ctx.Clear([4]float32{c.R, c.G, c.B, c.A}, region)
}

func (rend *OpenGL) Render(s scene.Scene, opts RenderOptions) {
	if rend.state == stateUninitialized {
		logger.Log.Warn("Render called before Initialize")
		return
	}
	rend.stats = FrameStats{}

	cam := s.ActiveCamera()
	if cam == nil {
		logger.Log.Error("Scene has no active camera, frame skipped")
		return
	}
	if cam != rend.camera {
		rend.camera = cam
		UpdateAspect(cam, rend.width, rend.height)
	}

	frame := Collect(s)
	rend.stats.Renderables = len(frame.Renderables)
	rend.stats.Lights = len(frame.Lights)
	if len(frame.Renderables) == 0 {
		logger.Log.Warn("Nothing to render")
		return
	}

	rend.state = stateRendering
	defer func() { rend.state = stateInitialized }()

	if !opts.SkipClear {
		rend.Clear()
	}
	for _, r := range frame.Renderables {
		if err := rend.draw(r, cam, frame.Lights); err != nil {
			rend.stats.Skipped++
			LogSkipped(r, err)
			continue
		}
		rend.stats.Draws++
	}
	rend.ctx.Flush()
}

func (rend *OpenGL) draw(r scene.Renderable, cam camera.Camera, lights []*light.Light) error {
	m := r.Mesh
	if err := m.Upload(rend.ctx, false); err != nil {
		return fmt.Errorf("upload mesh: %w", err)
	}

	prog, _, err := r.Material.Shader(rend.ctx, rend.lib, shader.Options{Defines: MeshDefines(m)})
	if err != nil {
		return err
	}

	topology := m.Primitive().Topology
	layout := m.Layout()
	rs := pipeline.Merge(pipeline.FromPrimitive(m.Primitive()), r.Material.RenderState())
	key := pipeline.Key(topology, layout, prog.ID(), rs)
	pl, created, err := rend.pipelines.GetOrCreate(key, func() (*opengl.Pipeline, error) {
		return rend.ctx.CreatePipeline(prog, topology, layout, rs)
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	if created {
		rend.stats.PipelinesCreated++
	}
	pl.Bind()

	uniforms := r.Material.Uniforms(cam, r.World, lights)

	samplers := Samplers(r.Material)
	if limit := rend.ctx.Caps().MaxTextureUnits; len(samplers) > limit {
		return fmt.Errorf("material needs %d texture units, device has %d", len(samplers), limit)
	}
	for unit, smp := range samplers {
		if err := smp.Texture.Upload(rend.ctx, false); err != nil {
			return fmt.Errorf("upload texture %s: %w", smp.Role, err)
		}
		rend.ctx.BindTexture(unit, smp.Texture.Handle())
		uniforms[smp.Role] = int32(unit)
	}

	cache := pl.Program().Uniforms()
	for name, value := range uniforms {
		cache.Set(material.GLName(name), value)
	}
	return pl.Draw(m)
}

// Destroy drops cached pipelines and the context objects. Programs stay
// owned by their materials and meshes by the caller.
func (rend *OpenGL) Destroy() error {
	if rend.state == stateUninitialized {
		return ErrNotInitialized
	}
	rend.pipelines.Clear(nil)
	rend.ctx.Destroy()
	rend.ctx = nil
	rend.camera = nil
	rend.state = stateUninitialized
	return nil
}
