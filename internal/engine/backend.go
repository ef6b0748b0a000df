package engine

import (
	"fmt"

	"iengine/internal/config"
	"iengine/internal/gpu/opengl/glapi"
	"iengine/internal/gpu/webgpu"
	"iengine/internal/renderer"
	"iengine/internal/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// NewRenderer builds the renderer named by cfg.Backend. The window must
// have been created with the hints from windowHints for the same backend.
func NewRenderer(cfg config.Config, window *glfw.Window, lib *shader.Library) (renderer.Renderer, error) {
	switch cfg.Backend {
	case config.BackendOpenGL:
		return renderer.NewOpenGL(glapi.New(), lib), nil
	case config.BackendWebGPU:
		var desc *wgpu.SurfaceDescriptor
		if window != nil {
			desc = wgpuglfw.GetSurfaceDescriptor(window)
		}
		return webgpu.NewRenderer(desc, lib), nil
	}
	return nil, fmt.Errorf("%w: %q", renderer.ErrUnknownBackend, cfg.Backend)
}

// windowHints prepares glfw for the backend. WebGPU owns the surface, so
// no client API context is created for it.
func windowHints(cfg config.Config) {
	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	if cfg.Backend == config.BackendWebGPU {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
		return
	}

	if cfg.Context.Depth {
		glfw.WindowHint(glfw.DepthBits, 24)
	} else {
		glfw.WindowHint(glfw.DepthBits, 0)
	}
	if cfg.Context.Stencil {
		glfw.WindowHint(glfw.StencilBits, 8)
	}
	if cfg.Context.Antialias {
		glfw.WindowHint(glfw.Samples, 4)
	}

	if cfg.LegacyGL {
		glfw.WindowHint(glfw.ContextVersionMajor, 2)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		return
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
}
