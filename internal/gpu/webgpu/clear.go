package webgpu

import (
	"fmt"

	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/pipeline"
	"iengine/internal/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

const clearQuadWGSL = `
struct Params {
    color : vec4<f32>,
};

@group(0) @binding(0) var<uniform> params : Params;

@vertex
fn vs_main(@builtin(vertex_index) index : u32) -> @builtin(position) vec4<f32> {
    var corners = array<vec2<f32>, 3>(
        vec2<f32>(-1.0, -1.0),
        vec2<f32>(3.0, -1.0),
        vec2<f32>(-1.0, 3.0),
    );
    return vec4<f32>(corners[index], 1.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return params.color;
}
`

var clearQuadVariant = &shader.Variant{
	Name:     "clear_quad",
	Target:   shader.TargetWGSL,
	Key:      "clear_quad__webgpu",
	Code:     clearQuadWGSL,
	Uniforms: []shader.UniformField{{Name: "color", Type: shader.TypeVec4}},
	Bindings: shader.MapBindings(),
}

// clearQuad fills a scissored region with a color and resets depth to the
// far plane. WebGPU load ops always clear the whole attachment, so a
// viewport clear is drawn instead.
type clearQuad struct {
	program   *Program
	pipeline  *Pipeline
	uniforms  *Buffer
	bindGroup *wgpu.BindGroup
}

func newClearQuad(ctx *Context) (*clearQuad, error) {
	p, err := ctx.CompileProgram(clearQuadVariant)
	if err != nil {
		return nil, fmt.Errorf("clear quad: %w", err)
	}
	prog := p.(*Program)

	state := pipeline.RenderState{
		DepthTest:  pipeline.Ptr(false),
		DepthWrite: pipeline.Ptr(true),
		CullFace:   pipeline.Ptr(false),
	}
	pl, err := ctx.CreatePipeline(prog, geometry.Triangles, geometry.VertexLayout{}, state)
	if err != nil {
		prog.Release()
		return nil, fmt.Errorf("clear quad: %w", err)
	}

	buf, err := ctx.CreateBuffer(gpu.BufferUniform, prog.uniforms.Size, "clear-quad-uniforms")
	if err != nil {
		pl.Release()
		prog.Release()
		return nil, fmt.Errorf("clear quad: %w", err)
	}
	uniforms := buf.(*Buffer)

	bg, err := ctx.CreateBindGroup(prog, uniforms, nil)
	if err != nil {
		ctx.DeleteBuffer(uniforms)
		pl.Release()
		prog.Release()
		return nil, fmt.Errorf("clear quad: %w", err)
	}

	return &clearQuad{program: prog, pipeline: pl, uniforms: uniforms, bindGroup: bg}, nil
}

// draw clears rect of the current pass and restores the full scissor.
func (q *clearQuad) draw(ctx *Context, pass *wgpu.RenderPassEncoder, color [4]float32, rect scissorRect) error {
	if err := ctx.WriteBuffer(q.uniforms, 0, gpu.Float32Bytes(color[:])); err != nil {
		return err
	}
	pass.SetScissorRect(rect.X, rect.Y, rect.Width, rect.Height)
	pass.SetPipeline(q.pipeline.raw)
	pass.SetBindGroup(0, q.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)

	w, h := ctx.Size()
	pass.SetScissorRect(0, 0, uint32(w), uint32(h))
	return nil
}

func (q *clearQuad) release(ctx *Context) {
	q.bindGroup.Release()
	ctx.DeleteBuffer(q.uniforms)
	q.pipeline.Release()
	q.program.Release()
}
