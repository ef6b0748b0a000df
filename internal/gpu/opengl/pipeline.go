package opengl

import (
	"errors"
	"fmt"

	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/mesh"
	"iengine/internal/pipeline"
)

type attribBinding struct {
	location   uint32
	size       int32
	xtype      uint32
	normalized bool
	offset     int
}

// Pipeline is the GL equivalent of a render pipeline: a program, the
// attribute bindings resolved against it and the state applied on bind.
type Pipeline struct {
	ctx      *Context
	program  *Program
	topology uint32
	stride   int32
	state    pipeline.RenderState
	attribs  []attribBinding
}

// CreatePipeline resolves the layout attributes against the program.
// Attributes the program does not consume are skipped.
func (ctx *Context) CreatePipeline(p gpu.Program, topology geometry.Topology, layout geometry.VertexLayout, state pipeline.RenderState) (*Pipeline, error) {
	prog, ok := p.(*Program)
	if !ok || prog.id == 0 {
		return nil, errors.New("pipeline needs a live OpenGL program")
	}

	pl := &Pipeline{
		ctx:      ctx,
		program:  prog,
		topology: glTopology(topology),
		stride:   int32(layout.ArrayStride),
		state:    state,
	}
	for _, a := range layout.Attributes {
		loc := ctx.api.GetAttribLocation(prog.id, a.Name)
		if loc < 0 {
			continue
		}
		info := a.Format.Info()
		pl.attribs = append(pl.attribs, attribBinding{
			location:   uint32(loc),
			size:       int32(info.Components),
			xtype:      info.GLType,
			normalized: info.Normalized,
			offset:     int(a.Offset),
		})
	}
	return pl, nil
}

func (pl *Pipeline) Program() *Program { return pl.program }

// Bind makes the program current and applies the pipeline state.
func (pl *Pipeline) Bind() {
	pl.ctx.useProgram(pl.program.id)
	pl.ctx.ApplyState(pl.state)
}

// Draw issues one draw call for m with the bound pipeline. Indexed meshes
// use DrawElements, others DrawArrays over every vertex.
func (pl *Pipeline) Draw(m *mesh.Mesh) error {
	vb, ok := m.VertexBuffer().(*glBuffer)
	if !ok || vb.id == 0 {
		return fmt.Errorf("mesh %d has no vertex buffer", m.ID())
	}

	api := pl.ctx.api
	api.BindBuffer(ARRAY_BUFFER, vb.id)

	used := make(map[uint32]bool, len(pl.attribs))
	for _, a := range pl.attribs {
		api.EnableVertexAttribArray(a.location)
		api.VertexAttribPointer(a.location, a.size, a.xtype, a.normalized, pl.stride, a.offset)
		used[a.location] = true
	}
	for loc := range pl.ctx.enabled {
		if !used[loc] {
			api.DisableVertexAttribArray(loc)
			delete(pl.ctx.enabled, loc)
		}
	}
	for loc := range used {
		pl.ctx.enabled[loc] = true
	}

	g := m.Geometry()
	if g.HasIndices() {
		ib, ok := m.IndexBuffer().(*glBuffer)
		if !ok || ib.id == 0 {
			return fmt.Errorf("mesh %d has no index buffer", m.ID())
		}
		xtype := uint32(UNSIGNED_SHORT)
		if g.Indices().Is32() {
			xtype = UNSIGNED_INT
		}
		api.BindBuffer(ELEMENT_ARRAY_BUFFER, ib.id)
		api.DrawElements(pl.topology, int32(g.IndexCount()), xtype, 0)
		return nil
	}

	api.DrawArrays(pl.topology, 0, int32(g.VertexCount()))
	return nil
}
