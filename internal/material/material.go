package material

import (
	"fmt"
	"unicode"

	"iengine/internal/camera"
	"iengine/internal/gpu"
	"iengine/internal/light"
	"iengine/internal/logger"
	"iengine/internal/pipeline"
	"iengine/internal/shader"
	"iengine/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type Kind int

const (
	KindBase Kind = iota
	KindPhong
	KindPBR
)

func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindPhong:
		return "phong"
	case KindPBR:
		return "pbr"
	}
	return "unknown"
}

// Uniforms maps unprefixed uniform keys to mgl32 values or float32.
type Uniforms map[string]any

// GLName returns the GLSL uniform name for key, "baseColor" -> "uBaseColor".
func GLName(key string) string {
	if key == "" {
		return key
	}
	r := []rune(key)
	r[0] = unicode.ToUpper(r[0])
	return "u" + string(r)
}

// ShaderCompiler turns a preprocessed variant into a backend program.
type ShaderCompiler interface {
	Target() shader.Target
	CompileProgram(v *shader.Variant) (gpu.Program, error)
}

// Material is implemented by *Base, *Phong and *PBR.
type Material interface {
	Kind() Kind
	Name() string
	ShaderName() string
	Common() *Common
	Defines() shader.Defines
	Uniforms(cam camera.Camera, world mgl32.Mat4, lights []*light.Light) Uniforms
	Textures() map[string]*texture.Texture
	RenderState() pipeline.RenderState
	Shader(c ShaderCompiler, lib *shader.Library, opts shader.Options) (gpu.Program, *shader.Variant, error)
}

// Common is the state every material kind shares.
type Common struct {
	name        string
	DepthTest   bool
	DepthWrite  bool
	DepthFunc   pipeline.CompareFunc
	Transparent bool
	DoubleSided bool

	programs map[string]gpu.Program
}

func newCommon(name string) Common {
	return Common{
		name:       name,
		DepthTest:  true,
		DepthWrite: true,
		DepthFunc:  pipeline.CompareLessEqual,
	}
}

// shared is embedded by every material kind.
type shared struct {
	common Common
}

func (s *shared) Common() *Common                   { return &s.common }
func (s *shared) Name() string                      { return s.common.name }
func (s *shared) RenderState() pipeline.RenderState { return s.common.RenderState() }

// RenderState derives blend, cull and depth state from the common flags.
func (c *Common) RenderState() pipeline.RenderState {
	s := pipeline.RenderState{
		DepthTest:  pipeline.Ptr(c.DepthTest),
		DepthWrite: pipeline.Ptr(c.DepthWrite),
		DepthFunc:  pipeline.Ptr(c.DepthFunc),
		Blend:      pipeline.Ptr(c.Transparent),
		CullFace:   pipeline.Ptr(!c.DoubleSided),
	}
	if c.Transparent {
		s.BlendFunc = &pipeline.BlendFunc{
			SrcRGB:   pipeline.BlendSrcAlpha,
			DstRGB:   pipeline.BlendOneMinusSrcAlpha,
			SrcAlpha: pipeline.BlendOne,
			DstAlpha: pipeline.BlendZero,
		}
	}
	if !c.DoubleSided {
		s.CullMode = pipeline.Ptr(pipeline.FaceBack)
	}
	return s
}

// ProgramCount is the number of programs compiled for this material.
func (c *Common) ProgramCount() int { return len(c.programs) }

// ReleasePrograms frees every program compiled for this material.
func (c *Common) ReleasePrograms() {
	for key, p := range c.programs {
		p.Release()
		delete(c.programs, key)
	}
}

// resolveShader fetches the variant for m and compiles it once per
// variant key for this material instance.
func resolveShader(m Material, c ShaderCompiler, lib *shader.Library, opts shader.Options) (gpu.Program, *shader.Variant, error) {
	opts.Defines = shader.Merge(opts.Defines, m.Defines())

	v, err := lib.GetVariant(m.ShaderName(), c.Target(), opts)
	if err != nil {
		return nil, nil, fmt.Errorf("material %q: %w", m.Name(), err)
	}
	if v == nil {
		return nil, nil, fmt.Errorf("material %q: shader %q is not registered", m.Name(), m.ShaderName())
	}
	if v.Placeholder {
		return nil, v, fmt.Errorf("material %q: shader %q has no %s implementation", m.Name(), m.ShaderName(), c.Target())
	}

	common := m.Common()
	if p, ok := common.programs[v.Key]; ok {
		return p, v, nil
	}

	p, err := c.CompileProgram(v)
	if err != nil {
		return nil, v, fmt.Errorf("material %q: %w", m.Name(), err)
	}
	if common.programs == nil {
		common.programs = make(map[string]gpu.Program)
	}
	common.programs[v.Key] = p

	logger.Log.Debug("Material program compiled",
		zap.String("material", m.Name()),
		zap.String("variant", v.Key),
		zap.String("program", p.ID()))
	return p, v, nil
}

// transformUniforms fills the matrices every material needs.
func transformUniforms(cam camera.Camera, world mgl32.Mat4) Uniforms {
	modelView := cam.ViewMatrix().Mul4(world)
	return Uniforms{
		"modelViewMatrix":  modelView,
		"projectionMatrix": cam.ProjectionMatrix(),
	}
}

// lightUniforms adds the normal matrix, camera position and the first
// ambient and directional lights. The light direction is moved to view
// space, where lit shaders do their shading.
func lightUniforms(u Uniforms, cam camera.Camera, lights []*light.Light) {
	view := cam.ViewMatrix()
	modelView := u["modelViewMatrix"].(mgl32.Mat4)
	u["normalMatrix"] = modelView.Mat3().Inv().Transpose()
	u["cameraPos"] = cam.Position()

	ambient := mgl32.Vec3{}
	if a := light.First(lights, light.Ambient); a != nil {
		ambient = a.Color.Mul(a.Intensity)
	}
	u["ambientColor"] = ambient

	dir := mgl32.Vec3{0, -1, 0}
	color := mgl32.Vec3{1, 1, 1}
	intensity := float32(10)
	if d := light.First(lights, light.Directional); d != nil {
		dir, color, intensity = d.Direction, d.Color, d.Intensity
	}
	u["lightDir"] = view.Mat3().Mul3x1(dir)
	u["lightColor"] = color
	u["lightIntensity"] = intensity
}

// solidOr returns tex or the material's 1x1 default for kind.
func solidOr(tex *texture.Texture, defaults map[texture.Kind]*texture.Texture, kind texture.Kind) *texture.Texture {
	if tex != nil {
		return tex
	}
	d, ok := defaults[kind]
	if !ok {
		d = texture.NewSolid(kind)
		defaults[kind] = d
	}
	return d
}
