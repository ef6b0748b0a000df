package renderer

import (
	"errors"

	"iengine/internal/config"
	"iengine/internal/gpu"
	"iengine/internal/scene"
)

var (
	// ErrNotInitialized is returned by operations that need a device.
	ErrNotInitialized = errors.New("renderer not initialized")
	// ErrUnknownBackend is returned for a backend name with no implementation.
	ErrUnknownBackend = errors.New("unknown renderer backend")
	// ErrNoSurface is returned by Initialize without a drawing surface.
	ErrNoSurface = errors.New("renderer needs a drawing surface")
)

// Renderer draws scenes through one graphics backend. All methods must
// be called from the thread that owns the surface.
type Renderer interface {
	Initialize(surface Surface, opts Options) error
	IsInitialized() bool
	Resize()
	Render(s scene.Scene, opts RenderOptions)
	Clear()
	SetViewport(vp *Viewport)
	SetClearColor(c *Color)
	Backend() gpu.Backend
	Context() gpu.Context
	Stats() FrameStats
	Destroy() error
}

// Surface is the window the renderer draws into. *glfw.Window satisfies it.
type Surface interface {
	GetSize() (width, height int)
	GetContentScale() (x, y float32)
}

type Color struct {
	R, G, B, A float32
}

// Viewport is a pixel rectangle of the drawable, origin bottom left.
type Viewport struct {
	X, Y, Width, Height int
}

type Options struct {
	ClearColor      Color
	LegacyGL        bool
	Antialias       bool
	Depth           bool
	Stencil         bool
	PowerPreference string
}

// OptionsFromConfig maps the context section of cfg onto renderer options.
func OptionsFromConfig(cfg config.Config) Options {
	c := cfg.ClearColor
	return Options{
		ClearColor:      Color{c[0], c[1], c[2], c[3]},
		LegacyGL:        cfg.LegacyGL,
		Antialias:       cfg.Context.Antialias,
		Depth:           cfg.Context.Depth,
		Stencil:         cfg.Context.Stencil,
		PowerPreference: cfg.Context.PowerPreference,
	}
}

type RenderOptions struct {
	SkipClear bool
}

// FrameStats describes the last rendered frame.
type FrameStats struct {
	Draws            int
	Skipped          int
	Renderables      int
	Lights           int
	PipelinesCreated int
}
