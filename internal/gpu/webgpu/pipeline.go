package webgpu

import (
	"errors"
	"fmt"

	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/mesh"
	"iengine/internal/pipeline"

	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline is an immutable render pipeline built for one program,
// topology, vertex layout and render state.
type Pipeline struct {
	program *Program
	raw     *wgpu.RenderPipeline
}

func (pl *Pipeline) Program() *Program         { return pl.program }
func (pl *Pipeline) Raw() *wgpu.RenderPipeline { return pl.raw }

func (pl *Pipeline) Release() {
	if pl.raw != nil {
		pl.raw.Release()
		pl.raw = nil
	}
}

// CreatePipeline bakes state into a render pipeline targeting the surface
// format and the context's depth format.
func (ctx *Context) CreatePipeline(p gpu.Program, topo geometry.Topology, layout geometry.VertexLayout, state pipeline.RenderState) (*Pipeline, error) {
	prog, ok := p.(*Program)
	if !ok || prog.module == nil {
		return nil, errors.New("not a live WGSL program")
	}

	var buffers []wgpu.VertexBufferLayout
	if len(layout.Attributes) > 0 {
		buffers = []wgpu.VertexBufferLayout{vertexBufferLayout(layout)}
	}

	raw, err := ctx.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  prog.variant,
		Layout: prog.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     prog.module,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     prog.module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    ctx.config.Format,
				Blend:     blendState(state),
				WriteMask: colorWriteMask(state),
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology(topo),
			FrontFace: frontFace(state),
			CullMode:  cullMode(state),
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: state.AlphaToCoverage != nil && *state.AlphaToCoverage,
		},
		DepthStencil: depthStencil(state, ctx.depthFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create render pipeline: %w", prog.variant, err)
	}
	return &Pipeline{program: prog, raw: raw}, nil
}

// Draw records the mesh into pass. The pipeline and bind group must
// already be set.
func (pl *Pipeline) Draw(pass *wgpu.RenderPassEncoder, m *mesh.Mesh) error {
	vb, ok := m.VertexBuffer().(*Buffer)
	if !ok || vb.buf == nil {
		return fmt.Errorf("mesh %d has no vertex buffer", m.ID())
	}
	pass.SetVertexBuffer(0, vb.buf, 0, wgpu.WholeSize)

	g := m.Geometry()
	if g.HasIndices() {
		ib, ok := m.IndexBuffer().(*Buffer)
		if !ok || ib.buf == nil {
			return fmt.Errorf("mesh %d has no index buffer", m.ID())
		}
		format := wgpu.IndexFormatUint16
		if g.Indices().Is32() {
			format = wgpu.IndexFormatUint32
		}
		pass.SetIndexBuffer(ib.buf, format, 0, uint64(ib.size))
		pass.DrawIndexed(uint32(g.IndexCount()), 1, 0, 0, 0)
		return nil
	}

	pass.Draw(uint32(g.VertexCount()), 1, 0, 0)
	return nil
}
