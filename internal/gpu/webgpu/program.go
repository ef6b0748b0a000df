package webgpu

import (
	"errors"
	"fmt"
	"sync/atomic"

	"iengine/internal/gpu"
	"iengine/internal/logger"
	"iengine/internal/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

var nextProgramID atomic.Uint64

// Program is a WGSL module with the bind group and pipeline layouts its
// bindings describe.
type Program struct {
	id       uint64
	variant  string
	module   *wgpu.ShaderModule
	bindings []shader.Binding
	uniforms shader.UniformLayout

	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
}

func (p *Program) ID() string                          { return fmt.Sprintf("wgpu-program-%d", p.id) }
func (p *Program) Variant() string                     { return p.variant }
func (p *Program) UniformLayout() shader.UniformLayout { return p.uniforms }

// Release frees the module and layouts. Releasing twice is a no-op.
func (p *Program) Release() {
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

// CompileProgram validates the WGSL with naga, then creates the module
// and the layouts for the variant's bind group.
func (ctx *Context) CompileProgram(v *shader.Variant) (gpu.Program, error) {
	if v == nil || v.Placeholder {
		return nil, errors.New("no WGSL source to compile")
	}
	if roles := textureRoles(v.Bindings); len(roles) > ctx.caps.MaxTextureUnits {
		return nil, fmt.Errorf("%s: %d textures exceed %d bind group slots", v.Key, len(roles), ctx.caps.MaxTextureUnits)
	}
	if err := shader.ValidateWGSL(v.Code); err != nil {
		logger.Log.Error("Failed to compile", zap.String("variant", v.Key), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", v.Key, err)
	}

	module, err := ctx.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: v.Key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: v.Code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create shader module: %w", v.Key, err)
	}

	p := &Program{
		id:       nextProgramID.Add(1),
		variant:  v.Key,
		module:   module,
		bindings: v.Bindings,
		uniforms: shader.Layout(v.Uniforms),
	}

	p.bindGroupLayout, err = ctx.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   v.Key,
		Entries: bindGroupLayoutEntries(v.Bindings, p.uniforms.Size),
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("%s: create bind group layout: %w", v.Key, err)
	}

	p.pipelineLayout, err = ctx.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            v.Key,
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.bindGroupLayout},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("%s: create pipeline layout: %w", v.Key, err)
	}

	logger.Log.Debug("Shader module created", zap.String("variant", v.Key), zap.String("program", p.ID()))
	return p, nil
}
