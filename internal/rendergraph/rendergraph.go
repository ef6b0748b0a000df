// Package rendergraph sequences named passes over one frame.
package rendergraph

import (
	"iengine/internal/logger"
	"iengine/internal/renderer"
	"iengine/internal/scene"

	"go.uber.org/zap"
)

const (
	PassForward     = "forward"
	PassPostProcess = "postprocess"
)

// Pass is one step of a frame.
type Pass interface {
	Name() string
	Execute(r renderer.Renderer, s scene.Scene)
}

// PassFunc adapts a function to Pass.
type PassFunc struct {
	PassName string
	Fn       func(r renderer.Renderer, s scene.Scene)
}

func (p PassFunc) Name() string { return p.PassName }

func (p PassFunc) Execute(r renderer.Renderer, s scene.Scene) {
	if p.Fn != nil {
		p.Fn(r, s)
	}
}

type entry struct {
	pass    Pass
	enabled bool
}

// Graph is an ordered list of passes. There are no dependencies between
// passes, they run in registration order.
type Graph struct {
	entries []entry
}

func New() *Graph { return &Graph{} }

// Default is the forward pass followed by the post-process placeholder.
func Default() *Graph {
	g := New()
	g.Add(NewForward())
	g.Add(NewPostProcess())
	return g
}

// Add appends an enabled pass. A pass with a name already present
// replaces it in place.
func (g *Graph) Add(p Pass) {
	for i := range g.entries {
		if g.entries[i].pass.Name() == p.Name() {
			g.entries[i].pass = p
			return
		}
	}
	g.entries = append(g.entries, entry{pass: p, enabled: true})
}

// Enable toggles the named pass. It reports false for unknown names.
func (g *Graph) Enable(name string, enabled bool) bool {
	for i := range g.entries {
		if g.entries[i].pass.Name() == name {
			g.entries[i].enabled = enabled
			return true
		}
	}
	logger.Log.Warn("Unknown render pass", zap.String("pass", name))
	return false
}

// Enabled reports whether the named pass exists and is enabled.
func (g *Graph) Enabled(name string) bool {
	for _, e := range g.entries {
		if e.pass.Name() == name {
			return e.enabled
		}
	}
	return false
}

// Passes returns the pass names in execution order.
func (g *Graph) Passes() []string {
	names := make([]string, len(g.entries))
	for i, e := range g.entries {
		names[i] = e.pass.Name()
	}
	return names
}

// Execute runs every enabled pass in order.
func (g *Graph) Execute(r renderer.Renderer, s scene.Scene) {
	for _, e := range g.entries {
		if e.enabled {
			e.pass.Execute(r, s)
		}
	}
}

// NewForward renders the whole scene with clearing.
func NewForward() Pass {
	return PassFunc{PassName: PassForward, Fn: func(r renderer.Renderer, s scene.Scene) {
		r.Render(s, renderer.RenderOptions{})
	}}
}

// NewPostProcess is the extension point after the forward pass. It draws nothing.
func NewPostProcess() Pass {
	return PassFunc{PassName: PassPostProcess}
}
