package scene

import (
	"iengine/internal/camera"
	"iengine/internal/light"
	"iengine/internal/material"
	"iengine/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Layer groups renderables. Lower layers are submitted first by providers
// that sort, the renderer itself keeps provider order.
type Layer int

const (
	LayerOpaque Layer = iota
	LayerTransparent
	LayerOverlay
	LayerUI
	LayerCustom0
)

// Renderable is one draw: a mesh with a material at a world transform.
type Renderable struct {
	Mesh     *mesh.Mesh
	Material material.Material
	Layer    Layer
	World    mgl32.Mat4
}

// Provider contributes renderables and lights to a frame.
type Provider interface {
	Renderables() []Renderable
	Lights() []*light.Light
}

// Scene is what the renderer draws.
type Scene interface {
	Providers() []Provider
	ActiveCamera() camera.Camera
}

// Simple is a flat scene: nodes, lights and extra providers.
type Simple struct {
	Camera camera.Camera
	Nodes  []*Node
	Lamps  []*light.Light
	Extra  []Provider
}

func NewSimple(cam camera.Camera) *Simple {
	return &Simple{Camera: cam}
}

func (s *Simple) Add(n *Node) *Node {
	s.Nodes = append(s.Nodes, n)
	return n
}

func (s *Simple) AddLight(l *light.Light) {
	s.Lamps = append(s.Lamps, l)
}

func (s *Simple) ActiveCamera() camera.Camera { return s.Camera }

// Providers returns the scene's own nodes first, then the extra providers.
func (s *Simple) Providers() []Provider {
	return append([]Provider{nodeProvider{s}}, s.Extra...)
}

type nodeProvider struct{ s *Simple }

func (p nodeProvider) Renderables() []Renderable {
	out := make([]Renderable, 0, len(p.s.Nodes))
	for _, n := range p.s.Nodes {
		if n.Visible {
			out = append(out, n.Renderable())
		}
	}
	return out
}

func (p nodeProvider) Lights() []*light.Light { return p.s.Lamps }

// List is a Provider over fixed slices.
type List struct {
	Items []Renderable
	Lamps []*light.Light
}

func (l List) Renderables() []Renderable { return l.Items }
func (l List) Lights() []*light.Light    { return l.Lamps }
