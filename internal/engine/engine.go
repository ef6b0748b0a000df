package engine

import (
	"fmt"
	"runtime"

	"iengine/internal/camera"
	"iengine/internal/config"
	"iengine/internal/logger"
	"iengine/internal/renderer"
	"iengine/internal/rendergraph"
	"iengine/internal/scene"
	"iengine/internal/shader"
	"iengine/internal/texture"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine owns the window, the renderer and the frame loop. Every method
// must be called from the goroutine that called Open.
type Engine struct {
	cfg      config.Config
	window   *glfw.Window
	lib      *shader.Library
	renderer renderer.Renderer
	graph    *rendergraph.Graph
	loader   *texture.Loader
	textures *texture.Manager

	scene    scene.Scene
	onUpdate func(deltaTime float64)
	resized  bool

	// EnableCameraInput turns WASD and right-drag mouse look on the
	// active perspective camera on or off.
	EnableCameraInput bool

	lastX, lastY float64
	firstMouse   bool
}

// New sets up logging from cfg. Nothing is created until Open.
func New(cfg config.Config) *Engine {
	logger.Init(cfg.Development)
	logger.SetLevel(cfg.LogLevel)
	logger.Log.Info("iengine initializing...", zap.String("backend", cfg.Backend))

	loader := texture.NewLoader(cfg.TextureWorkers, cfg.MaxTextureSize)
	return &Engine{
		cfg:               cfg,
		lib:               shader.NewLibrary(),
		graph:             rendergraph.Default(),
		loader:            loader,
		textures:          texture.NewManager(loader),
		EnableCameraInput: true,
		firstMouse:        true,
	}
}

func (e *Engine) Library() *shader.Library     { return e.lib }
func (e *Engine) Graph() *rendergraph.Graph    { return e.graph }
func (e *Engine) Textures() *texture.Manager   { return e.textures }
func (e *Engine) Renderer() renderer.Renderer  { return e.renderer }
func (e *Engine) Window() *glfw.Window         { return e.window }
func (e *Engine) SetScene(s scene.Scene)       { e.scene = s }
func (e *Engine) SetOnUpdate(fn func(float64)) { e.onUpdate = fn }

// Open creates the window and initializes the renderer for the configured
// backend. It locks the calling goroutine to its OS thread.
func (e *Engine) Open() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize glfw: %w", err)
	}

	windowHints(e.cfg)
	w := e.cfg.Window
	window, err := glfw.CreateWindow(w.Width, w.Height, w.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	e.window = window

	if e.cfg.Backend == config.BackendOpenGL {
		window.MakeContextCurrent()
		glfw.SwapInterval(1)
	}

	rend, err := NewRenderer(e.cfg, window, e.lib)
	if err != nil {
		e.closeWindow()
		return err
	}
	if err := rend.Initialize(window, renderer.OptionsFromConfig(e.cfg)); err != nil {
		e.closeWindow()
		return fmt.Errorf("initialize %s renderer: %w", e.cfg.Backend, err)
	}
	e.renderer = rend

	if w.DarkTitleBar {
		c := e.cfg.ClearColor
		setTitleBarColor(window, c[0], c[1], c[2])
	}

	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetCursorPosCallback(e.mouseCallback)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		e.resized = true
	})
	return nil
}

// Run drives the frame loop until the window is closed, then releases
// everything the engine owns.
func (e *Engine) Run() error {
	if e.renderer == nil {
		return renderer.ErrNotInitialized
	}

	lastTime := glfw.GetTime()
	for !e.window.ShouldClose() {
		now := glfw.GetTime()
		deltaTime := now - lastTime
		lastTime = now

		if e.resized {
			e.renderer.Resize()
			e.resized = false
		}
		if e.EnableCameraInput {
			e.processKeyboard(float32(deltaTime))
		}
		if e.onUpdate != nil {
			e.onUpdate(deltaTime)
		}

		e.loader.Poll()
		if e.scene != nil {
			e.graph.Execute(e.renderer, e.scene)
		}

		if e.cfg.Backend == config.BackendOpenGL {
			e.window.SwapBuffers()
		}
		glfw.PollEvents()
	}
	return e.Close()
}

// Close tears down the renderer, the texture pool and the window.
func (e *Engine) Close() error {
	var err error
	if e.renderer != nil {
		e.textures.LogStats()
		e.textures.Clear(e.renderer.Context())
		err = multierr.Append(err, e.renderer.Destroy())
		e.renderer = nil
	}
	e.loader.Close()
	e.closeWindow()
	logger.Sync()
	return err
}

func (e *Engine) closeWindow() {
	if e.window == nil {
		return
	}
	e.window.Destroy()
	e.window = nil
	glfw.Terminate()
}

func (e *Engine) activePerspective() *camera.Perspective {
	if e.scene == nil {
		return nil
	}
	p, _ := e.scene.ActiveCamera().(*camera.Perspective)
	return p
}

func (e *Engine) processKeyboard(deltaTime float32) {
	cam := e.activePerspective()
	if cam == nil {
		return
	}
	var forward, right float32
	if e.window.GetKey(glfw.KeyW) == glfw.Press {
		forward++
	}
	if e.window.GetKey(glfw.KeyS) == glfw.Press {
		forward--
	}
	if e.window.GetKey(glfw.KeyD) == glfw.Press {
		right++
	}
	if e.window.GetKey(glfw.KeyA) == glfw.Press {
		right--
	}
	if forward != 0 || right != 0 {
		cam.Move(forward, right, deltaTime)
	}
}

// mouseCallback turns the camera while the right button is held.
func (e *Engine) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	cam := e.activePerspective()
	if cam == nil || !e.EnableCameraInput ||
		w.GetAttrib(glfw.Focused) != glfw.True || w.GetMouseButton(glfw.MouseButtonRight) != glfw.Press {
		e.firstMouse = true
		return
	}
	if e.firstMouse {
		e.lastX, e.lastY = xpos, ypos
		e.firstMouse = false
		return
	}

	xoffset := xpos - e.lastX
	yoffset := e.lastY - ypos // y grows downwards on screen
	e.lastX, e.lastY = xpos, ypos

	cam.ProcessMouseMovement(float32(xoffset), float32(yoffset), true)
}
