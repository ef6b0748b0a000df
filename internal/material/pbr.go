package material

import (
	"iengine/internal/camera"
	"iengine/internal/gpu"
	"iengine/internal/light"
	"iengine/internal/shader"
	"iengine/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
)

// PBR is a metallic-roughness material. Unset maps are bound as 1x1
// defaults so every variant samples the same five slots.
type PBR struct {
	shared
	BaseColor         mgl32.Vec4
	Metallic          float32
	Roughness         float32
	NormalScale       float32
	AOStrength        float32
	Emissive          mgl32.Vec3
	EmissiveIntensity float32

	BaseColorMap         *texture.Texture
	MetallicRoughnessMap *texture.Texture
	NormalMap            *texture.Texture
	AOMap                *texture.Texture
	EmissiveMap          *texture.Texture

	defaults map[texture.Kind]*texture.Texture
}

func NewPBR(name string) *PBR {
	return &PBR{
		shared:            shared{common: newCommon(name)},
		BaseColor:         mgl32.Vec4{1, 1, 1, 1},
		Metallic:          0,
		Roughness:         1,
		NormalScale:       1,
		AOStrength:        1,
		EmissiveIntensity: 1,
		defaults:          make(map[texture.Kind]*texture.Texture),
	}
}

func (m *PBR) Kind() Kind         { return KindPBR }
func (m *PBR) ShaderName() string { return shader.BasePBR }

func (m *PBR) SetBaseColor(r, g, b float32) {
	m.BaseColor = mgl32.Vec4{r, g, b, m.BaseColor.W()}
}

// Preset materials for easy use

func (m *PBR) SetMetallicMaterial(r, g, b, roughness float32) {
	m.SetBaseColor(r, g, b)
	m.Metallic, m.Roughness = 1, roughness
}

func (m *PBR) SetPlasticMaterial(r, g, b, roughness float32) {
	m.SetBaseColor(r, g, b)
	m.Metallic, m.Roughness = 0, roughness
}

func (m *PBR) SetPolishedMetal(r, g, b float32) { m.SetMetallicMaterial(r, g, b, 0.1) }
func (m *PBR) SetRoughMetal(r, g, b float32)    { m.SetMetallicMaterial(r, g, b, 0.8) }
func (m *PBR) SetMatte(r, g, b float32)         { m.SetPlasticMaterial(r, g, b, 0.9) }

// SetGlass makes a smooth transparent dielectric.
func (m *PBR) SetGlass(r, g, b, alpha float32) {
	m.SetPlasticMaterial(r, g, b, 0.05)
	m.BaseColor[3] = alpha
	m.common.Transparent = true
	m.common.DepthWrite = false
}

func (m *PBR) Defines() shader.Defines {
	d := shader.Defines{}
	if m.BaseColorMap != nil {
		d["HAS_BASECOLORMAP"] = true
	}
	if m.MetallicRoughnessMap != nil {
		d["HAS_METALLICROUGHNESSMAP"] = true
	}
	if m.NormalMap != nil {
		d["HAS_NORMALMAP"] = true
	}
	if m.AOMap != nil {
		d["HAS_AOMAP"] = true
	}
	if m.EmissiveMap != nil {
		d["HAS_EMISSIVEMAP"] = true
	}
	return d
}

func (m *PBR) Uniforms(cam camera.Camera, world mgl32.Mat4, lights []*light.Light) Uniforms {
	u := transformUniforms(cam, world)
	lightUniforms(u, cam, lights)

	normalScale := m.NormalScale
	if m.NormalMap == nil {
		normalScale = 0
	}
	u["baseColor"] = m.BaseColor
	u["metallic"] = m.Metallic
	u["roughness"] = m.Roughness
	u["normalScale"] = normalScale
	u["aoStrength"] = m.AOStrength
	u["emissive"] = m.Emissive.Mul(m.EmissiveIntensity)
	u["emissiveIntensity"] = m.EmissiveIntensity
	return u
}

func (m *PBR) Textures() map[string]*texture.Texture {
	return map[string]*texture.Texture{
		shader.RoleBaseColor:         solidOr(m.BaseColorMap, m.defaults, texture.KindBaseColor),
		shader.RoleMetallicRoughness: solidOr(m.MetallicRoughnessMap, m.defaults, texture.KindMetallicRoughness),
		shader.RoleNormal:            solidOr(m.NormalMap, m.defaults, texture.KindNormal),
		shader.RoleOcclusion:         solidOr(m.AOMap, m.defaults, texture.KindOcclusion),
		shader.RoleEmissive:          solidOr(m.EmissiveMap, m.defaults, texture.KindEmissive),
	}
}

func (m *PBR) Shader(c ShaderCompiler, lib *shader.Library, opts shader.Options) (gpu.Program, *shader.Variant, error) {
	return resolveShader(m, c, lib, opts)
}
