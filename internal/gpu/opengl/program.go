package opengl

import (
	"errors"
	"fmt"

	"iengine/internal/gpu"
	"iengine/internal/logger"
	"iengine/internal/shader"

	"go.uber.org/zap"
)

// Program is a linked GL program with its uniform location cache.
type Program struct {
	api      API
	id       uint32
	variant  string
	uniforms *UniformCache
}

func (p *Program) ID() string              { return fmt.Sprintf("gl-program-%d", p.id) }
func (p *Program) Handle() uint32          { return p.id }
func (p *Program) Variant() string         { return p.variant }
func (p *Program) Uniforms() *UniformCache { return p.uniforms }

// Release deletes the GL program. Releasing twice is a no-op.
func (p *Program) Release() {
	if p.id == 0 {
		return
	}
	p.api.DeleteProgram(p.id)
	p.id = 0
	p.uniforms.Clear()
}

// CompileProgram compiles and links both stages of a preprocessed variant.
func (ctx *Context) CompileProgram(v *shader.Variant) (gpu.Program, error) {
	if v == nil || v.Placeholder {
		return nil, errors.New("no GLSL source to compile")
	}

	vs, err := genShader(ctx.api, v.Vertex, VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Key, err)
	}
	fs, err := genShader(ctx.api, v.Fragment, FRAGMENT_SHADER)
	if err != nil {
		ctx.api.DeleteShader(vs)
		return nil, fmt.Errorf("%s: %w", v.Key, err)
	}

	id, err := genShaderProgram(ctx.api, vs, fs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Key, err)
	}

	logger.Log.Debug("Shader program linked", zap.String("variant", v.Key), zap.Uint32("program", id))
	return &Program{
		api:      ctx.api,
		id:       id,
		variant:  v.Key,
		uniforms: NewUniformCache(ctx.api, id),
	}, nil
}

func genShader(api API, source string, shaderType uint32) (uint32, error) {
	sh := api.CreateShader(shaderType)
	api.ShaderSource(sh, source)
	api.CompileShader(sh)

	if api.GetShaderi(sh, COMPILE_STATUS) == 0 {
		log := api.GetShaderInfoLog(sh)
		api.DeleteShader(sh)

		stage := "vertex"
		if shaderType == FRAGMENT_SHADER {
			stage = "fragment"
		}
		logger.Log.Error("Failed to compile", zap.String("stage", stage), zap.String("log", log))
		return 0, fmt.Errorf("compile %s shader: %s", stage, log)
	}
	return sh, nil
}

func genShaderProgram(api API, vertexShader, fragmentShader uint32) (uint32, error) {
	program := api.CreateProgram()
	api.AttachShader(program, vertexShader)
	api.AttachShader(program, fragmentShader)
	api.LinkProgram(program)

	api.DetachShader(program, vertexShader)
	api.DeleteShader(vertexShader)
	api.DetachShader(program, fragmentShader)
	api.DeleteShader(fragmentShader)

	if api.GetProgrami(program, LINK_STATUS) == 0 {
		log := api.GetProgramInfoLog(program)
		api.DeleteProgram(program)
		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("link program: %s", log)
	}
	return program, nil
}
