package webgpu

import (
	"iengine/internal/camera"
	"iengine/internal/material"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/linmath"
)

// depthZeroToOne maps OpenGL clip depth [-w, w] onto WebGPU's [0, w]:
// z' = 0.5z + 0.5w.
var depthZeroToOne = func() linmath.Mat4x4 {
	var t, m linmath.Mat4x4
	t.Translate(0, 0, 0.5)
	m.ScaleAniso(&t, 1, 1, 0.5)
	return m
}()

// clipProjection converts a projection built with OpenGL conventions to
// WebGPU clip space.
func clipProjection(proj mgl32.Mat4) linmath.Mat4x4 {
	p := camera.ToLinmath(proj)
	var out linmath.Mat4x4
	out.Mult(&depthZeroToOne, &p)
	return out
}

// toClipSpace rewrites the projection uniform for this backend.
func toClipSpace(u material.Uniforms) {
	if p, ok := u["projectionMatrix"].(mgl32.Mat4); ok {
		u["projectionMatrix"] = clipProjection(p)
	}
}
