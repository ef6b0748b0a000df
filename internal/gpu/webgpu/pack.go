package webgpu

import (
	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/linmath"
)

// PackUniforms writes values into a buffer laid out by l. Fields with no
// value, or a value of the wrong shape, stay zero. It reports the names
// that could not be packed.
func PackUniforms(l shader.UniformLayout, values map[string]any) ([]byte, []string) {
	out := make([]byte, l.Size)
	var skipped []string
	for _, f := range l.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		floats, ok := uniformFloats(f.Type, v)
		if !ok {
			skipped = append(skipped, f.Name)
			continue
		}
		copy(out[f.Offset:], gpu.Float32Bytes(floats))
	}
	return out, skipped
}

// uniformFloats flattens v into the WGSL uniform layout of t. mat3x3
// columns are padded to four floats.
func uniformFloats(t shader.UniformType, v any) ([]float32, bool) {
	switch t {
	case shader.TypeF32:
		switch x := v.(type) {
		case float32:
			return []float32{x}, true
		case float64:
			return []float32{float32(x)}, true
		case int32:
			return []float32{float32(x)}, true
		case int:
			return []float32{float32(x)}, true
		case bool:
			if x {
				return []float32{1}, true
			}
			return []float32{0}, true
		}
	case shader.TypeVec2:
		if x, ok := v.(mgl32.Vec2); ok {
			return x[:], true
		}
	case shader.TypeVec3:
		if x, ok := v.(mgl32.Vec3); ok {
			return x[:], true
		}
	case shader.TypeVec4:
		switch x := v.(type) {
		case mgl32.Vec4:
			return x[:], true
		case [4]float32:
			return x[:], true
		}
	case shader.TypeMat3:
		if x, ok := v.(mgl32.Mat3); ok {
			return []float32{
				x[0], x[1], x[2], 0,
				x[3], x[4], x[5], 0,
				x[6], x[7], x[8], 0,
			}, true
		}
	case shader.TypeMat4:
		switch x := v.(type) {
		case mgl32.Mat4:
			return x[:], true
		case linmath.Mat4x4:
			out := make([]float32, 0, 16)
			for _, col := range x {
				out = append(out, col[:]...)
			}
			return out, true
		}
	}
	return nil, false
}

// vertexBufferLayout describes the single interleaved vertex buffer.
func vertexBufferLayout(l geometry.VertexLayout) wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 0, len(l.Attributes))
	for _, a := range l.Attributes {
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         vertexFormats[a.Format],
			Offset:         a.Offset,
			ShaderLocation: a.ShaderLocation,
		})
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: l.ArrayStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}
}

// bindGroupLayoutEntries maps the variant bindings onto layout entries.
// The uniform block is visible to both stages, textures and samplers to
// the fragment stage only.
func bindGroupLayoutEntries(bindings []shader.Binding, uniformSize int) []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(bindings))
	for _, b := range bindings {
		e := wgpu.BindGroupLayoutEntry{Binding: b.Index}
		switch b.Kind {
		case shader.BindingUniform:
			e.Visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
			e.Buffer = wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(uniformSize),
			}
		case shader.BindingTexture:
			e.Visibility = wgpu.ShaderStageFragment
			e.Texture = wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			}
		case shader.BindingSampler:
			e.Visibility = wgpu.ShaderStageFragment
			e.Sampler = wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}
		}
		entries = append(entries, e)
	}
	return entries
}

// textureRoles lists the material roles of the texture entries in
// binding order.
func textureRoles(bindings []shader.Binding) []string {
	var roles []string
	for _, b := range bindings {
		if b.Kind == shader.BindingTexture {
			roles = append(roles, b.Role)
		}
	}
	return roles
}

func align4(n int) int {
	return (n + 3) &^ 3
}
