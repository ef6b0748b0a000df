package mesh

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/logger"

	"go.uber.org/zap"
)

var nextID atomic.Uint64

// Mesh couples a geometry with its primitive state and owns the GPU buffers
// built from it.
type Mesh struct {
	id        uint64
	Name      string
	geometry  *geometry.Geometry
	primitive geometry.Primitive

	vertexBuffer gpu.Buffer
	indexBuffer  gpu.Buffer
	uploaded     bool
}

func New(g *geometry.Geometry, p geometry.Primitive) *Mesh {
	return &Mesh{
		id:        nextID.Add(1),
		geometry:  g,
		primitive: p,
	}
}

// ID is unique within the process.
func (m *Mesh) ID() uint64 { return m.id }

func (m *Mesh) Geometry() *geometry.Geometry  { return m.geometry }
func (m *Mesh) Primitive() geometry.Primitive { return m.primitive }
func (m *Mesh) Layout() geometry.VertexLayout { return m.geometry.Layout() }
func (m *Mesh) Defines() map[string]any       { return m.geometry.Defines() }
func (m *Mesh) Uploaded() bool                { return m.uploaded }
func (m *Mesh) VertexBuffer() gpu.Buffer      { return m.vertexBuffer }
func (m *Mesh) IndexBuffer() gpu.Buffer       { return m.indexBuffer }

// SetGeometry swaps the geometry. The next Upload rebuilds the buffers.
func (m *Mesh) SetGeometry(g *geometry.Geometry) {
	m.geometry = g
	m.uploaded = false
}

// SetPrimitive changes topology or depth/cull state.
func (m *Mesh) SetPrimitive(p geometry.Primitive) {
	m.primitive = p
}

// Upload creates the vertex and index buffers. It does nothing when the
// mesh is already uploaded unless force is set.
func (m *Mesh) Upload(ctx gpu.Context, force bool) error {
	if m.uploaded && !force {
		return nil
	}

	vertices := m.geometry.Interleave()
	m.Release(ctx)

	label := fmt.Sprintf("mesh-%d", m.id)
	vb, err := ctx.CreateBuffer(gpu.BufferVertex, len(vertices)*4, label+"-vertices")
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	m.vertexBuffer = vb
	if err := ctx.WriteBuffer(vb, 0, gpu.Float32Bytes(vertices)); err != nil {
		return fmt.Errorf("write vertex buffer: %w", err)
	}

	if m.geometry.HasIndices() {
		indices := m.geometry.Indices().Bytes()
		ib, err := ctx.CreateBuffer(gpu.BufferIndex, len(indices), label+"-indices")
		if err != nil {
			return fmt.Errorf("create index buffer: %w", err)
		}
		m.indexBuffer = ib
		if err := ctx.WriteBuffer(ib, 0, indices); err != nil {
			return fmt.Errorf("write index buffer: %w", err)
		}
	}

	m.uploaded = true
	logger.Log.Debug("Mesh uploaded",
		zap.Uint64("mesh", m.id),
		zap.Int("vertices", m.geometry.VertexCount()),
		zap.Int("indices", m.geometry.IndexCount()))
	return nil
}

// BufferUpdate is a partial write into existing buffers. Offsets are in bytes.
type BufferUpdate struct {
	VertexData   []float32
	VertexOffset int
	IndexData    []uint32
	IndexOffset  int
}

// UpdateBuffer writes sub ranges without reallocating. Writing before the
// first upload is a no-op with a warning. Writing past the end of a buffer
// is a programmer error and panics.
func (m *Mesh) UpdateBuffer(ctx gpu.Context, u BufferUpdate) {
	if !m.uploaded {
		logger.Log.Warn("UpdateBuffer called before upload", zap.Uint64("mesh", m.id))
		return
	}

	if len(u.VertexData) > 0 {
		mustWrite(ctx, m.vertexBuffer, u.VertexOffset, gpu.Float32Bytes(u.VertexData))
	}

	if len(u.IndexData) > 0 {
		if m.indexBuffer == nil {
			logger.Log.Warn("UpdateBuffer index data on a non-indexed mesh", zap.Uint64("mesh", m.id))
			return
		}
		var data []byte
		if m.geometry.Indices().Is32() {
			data = gpu.Uint32Bytes(u.IndexData)
		} else {
			narrow := make([]uint16, len(u.IndexData))
			for i, v := range u.IndexData {
				if v > math.MaxUint16 {
					logger.Log.Warn("Index update exceeds 16-bit range, skipped",
						zap.Uint64("mesh", m.id),
						zap.Uint32("index", v))
					return
				}
				narrow[i] = uint16(v)
			}
			data = gpu.Uint16Bytes(narrow)
		}
		mustWrite(ctx, m.indexBuffer, u.IndexOffset, data)
	}
}

func mustWrite(ctx gpu.Context, buf gpu.Buffer, offset int, data []byte) {
	if err := gpu.CheckWrite(buf, offset, len(data)); err != nil {
		panic(fmt.Errorf("mesh buffer update at %d+%d of %d: %w", offset, len(data), buf.Size(), err))
	}
	if err := ctx.WriteBuffer(buf, offset, data); err != nil {
		if errors.Is(err, gpu.ErrBufferOverflow) {
			panic(err)
		}
		logger.Log.Error("Mesh buffer update failed", zap.Error(err))
	}
}

// Release deletes the GPU buffers. The mesh can be uploaded again.
func (m *Mesh) Release(ctx gpu.Context) {
	if m.vertexBuffer != nil {
		ctx.DeleteBuffer(m.vertexBuffer)
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		ctx.DeleteBuffer(m.indexBuffer)
		m.indexBuffer = nil
	}
	m.uploaded = false
}
