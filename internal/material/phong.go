package material

import (
	"iengine/internal/camera"
	"iengine/internal/gpu"
	"iengine/internal/light"
	"iengine/internal/shader"
	"iengine/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
)

// Phong is a Blinn-Phong material lit by one directional light.
type Phong struct {
	shared
	DiffuseColor  mgl32.Vec4
	SpecularColor mgl32.Vec3
	Shininess     float32
	DiffuseMap    *texture.Texture

	defaults map[texture.Kind]*texture.Texture
}

func NewPhong(name string) *Phong {
	return &Phong{
		shared:        shared{common: newCommon(name)},
		DiffuseColor:  mgl32.Vec4{1, 1, 1, 1},
		SpecularColor: mgl32.Vec3{1, 1, 1},
		Shininess:     32,
		defaults:      make(map[texture.Kind]*texture.Texture),
	}
}

func (p *Phong) Kind() Kind         { return KindPhong }
func (p *Phong) ShaderName() string { return shader.BasePhong }

func (p *Phong) SetDiffuseColor(r, g, b float32) {
	p.DiffuseColor = mgl32.Vec4{r, g, b, p.DiffuseColor.W()}
}

func (p *Phong) SetSpecularColor(r, g, b float32) {
	p.SpecularColor = mgl32.Vec3{r, g, b}
}

func (p *Phong) Defines() shader.Defines {
	d := shader.Defines{}
	if p.DiffuseMap != nil {
		d["HAS_DIFFUSEMAP"] = true
	}
	return d
}

func (p *Phong) Uniforms(cam camera.Camera, world mgl32.Mat4, lights []*light.Light) Uniforms {
	u := transformUniforms(cam, world)
	lightUniforms(u, cam, lights)
	u["baseColor"] = p.DiffuseColor
	u["specularColor"] = p.SpecularColor
	u["shininess"] = p.Shininess
	return u
}

func (p *Phong) Textures() map[string]*texture.Texture {
	return map[string]*texture.Texture{
		shader.RoleDiffuse: solidOr(p.DiffuseMap, p.defaults, texture.KindDiffuse),
	}
}

func (p *Phong) Shader(c ShaderCompiler, lib *shader.Library, opts shader.Options) (gpu.Program, *shader.Variant, error) {
	return resolveShader(p, c, lib, opts)
}
