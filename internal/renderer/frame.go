package renderer

import (
	"math"
	"sort"

	"iengine/internal/camera"
	"iengine/internal/light"
	"iengine/internal/logger"
	"iengine/internal/material"
	"iengine/internal/mesh"
	"iengine/internal/scene"
	"iengine/internal/shader"
	"iengine/internal/texture"

	"go.uber.org/zap"
)

// Frame is the deduplicated work of one Render call.
type Frame struct {
	Renderables []scene.Renderable
	Lights      []*light.Light
}

type drawKey struct {
	mesh     uint64
	material material.Material
	layer    scene.Layer
}

// Collect walks the providers in order. Renderables are deduplicated by
// mesh, material and layer, lights by their structural key. The first
// occurrence wins in both cases.
func Collect(s scene.Scene) Frame {
	var f Frame
	seen := make(map[drawKey]bool)
	var lights []*light.Light

	for _, p := range s.Providers() {
		for _, r := range p.Renderables() {
			if r.Mesh == nil || r.Material == nil {
				logger.Log.Warn("Renderable without mesh or material ignored")
				continue
			}
			k := drawKey{r.Mesh.ID(), r.Material, r.Layer}
			if seen[k] {
				continue
			}
			seen[k] = true
			f.Renderables = append(f.Renderables, r)
		}
		lights = append(lights, p.Lights()...)
	}
	f.Lights = light.Dedup(lights)
	return f
}

// DrawableSize converts the surface size to pixels. The device pixel
// ratio is the floored content scale, and neither it nor the result goes
// below 1.
func DrawableSize(s Surface) (int, int) {
	w, h := s.GetSize()
	sx, _ := s.GetContentScale()
	dpr := math.Max(1, math.Floor(float64(sx)))
	return max(1, int(math.Floor(float64(w)*dpr))), max(1, int(math.Floor(float64(h)*dpr)))
}

// UpdateAspect feeds the drawable aspect ratio to cameras that follow it.
func UpdateAspect(cam camera.Camera, width, height int) {
	if as, ok := cam.(camera.AspectSetter); ok && height > 0 {
		as.SetAspect(float32(width) / float32(height))
	}
}

// MeshDefines are the variant defines contributed by the geometry.
func MeshDefines(m *mesh.Mesh) shader.Defines {
	return shader.Defines(m.Defines())
}

// Sampler is a texture bound under a material role.
type Sampler struct {
	Role    string
	Texture *texture.Texture
}

// Samplers lists the material textures sorted by role so texture unit
// assignment is stable between frames.
func Samplers(m material.Material) []Sampler {
	textures := m.Textures()
	out := make([]Sampler, 0, len(textures))
	for role, tex := range textures {
		if tex != nil {
			out = append(out, Sampler{role, tex})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out
}

// LogSkipped reports a drawable dropped from the frame.
func LogSkipped(r scene.Renderable, err error) {
	logger.Log.Error("Drawable skipped",
		zap.String("material", r.Material.Name()),
		zap.Uint64("mesh", r.Mesh.ID()),
		zap.Error(err))
}
