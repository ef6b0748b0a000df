package material

import (
	"iengine/internal/camera"
	"iengine/internal/gpu"
	"iengine/internal/light"
	"iengine/internal/shader"
	"iengine/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
)

// Base is an unlit single color material.
type Base struct {
	shared
	Color     mgl32.Vec4
	Wireframe bool
}

func NewBase(name string, color mgl32.Vec4) *Base {
	return &Base{shared: shared{common: newCommon(name)}, Color: color}
}

// NewWireframe returns a Base drawn with the translucent wireframe shader.
func NewWireframe(name string, color mgl32.Vec4) *Base {
	b := NewBase(name, color)
	b.Wireframe = true
	b.common.Transparent = true
	return b
}

func (b *Base) Kind() Kind { return KindBase }

func (b *Base) ShaderName() string {
	if b.Wireframe {
		return shader.BaseWireframe
	}
	return shader.BaseMaterial
}

func (b *Base) Defines() shader.Defines { return shader.Defines{} }

func (b *Base) Uniforms(cam camera.Camera, world mgl32.Mat4, _ []*light.Light) Uniforms {
	u := transformUniforms(cam, world)
	u["baseColor"] = b.Color
	return u
}

func (b *Base) Textures() map[string]*texture.Texture { return nil }

func (b *Base) Shader(c ShaderCompiler, lib *shader.Library, opts shader.Options) (gpu.Program, *shader.Variant, error) {
	return resolveShader(b, c, lib, opts)
}
