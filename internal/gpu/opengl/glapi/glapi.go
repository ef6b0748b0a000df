// Package glapi binds opengl.API to the OpenGL 4.1 core profile through
// go-gl. Every call must happen on the thread owning the GL context.
package glapi

import (
	"strings"
	"unsafe"

	"iengine/internal/gpu/opengl"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type API struct{}

var _ opengl.API = API{}

func New() API { return API{} }

func (API) Init() error { return gl.Init() }

func (API) GetString(name uint32) string { return gl.GoStr(gl.GetString(name)) }

func (API) GetInteger(pname uint32) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

func (API) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (API) DeleteBuffer(id uint32)       { gl.DeleteBuffers(1, &id) }
func (API) BindBuffer(target, id uint32) { gl.BindBuffer(target, id) }

func (API) BufferData(target uint32, size int, data []byte, usage uint32) {
	gl.BufferData(target, size, ptr(data), usage)
}

func (API) BufferSubData(target uint32, offset int, data []byte) {
	gl.BufferSubData(target, offset, len(data), ptr(data))
}

func (API) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (API) DeleteVertexArray(id uint32)           { gl.DeleteVertexArrays(1, &id) }
func (API) BindVertexArray(id uint32)             { gl.BindVertexArray(id) }
func (API) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (API) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (API) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(offset))
}

func (API) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (API) DeleteTexture(id uint32)                         { gl.DeleteTextures(1, &id) }
func (API) ActiveTexture(unit uint32)                       { gl.ActiveTexture(unit) }
func (API) BindTexture(target, id uint32)                   { gl.BindTexture(target, id) }
func (API) TexParameteri(target, pname uint32, param int32) { gl.TexParameteri(target, pname, param) }
func (API) GenerateMipmap(target uint32)                    { gl.GenerateMipmap(target) }

func (API) TexImage2D(target uint32, width, height int32, rgba []byte) {
	gl.TexImage2D(target, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr(rgba))
}

func (API) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (API) ShaderSource(shader uint32, source string) {
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
}

func (API) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (API) GetShaderi(shader, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (API) GetShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (API) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }
func (API) CreateProgram() uint32               { return gl.CreateProgram() }
func (API) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (API) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }
func (API) LinkProgram(program uint32)          { gl.LinkProgram(program) }

func (API) GetProgrami(program, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (API) GetProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (API) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (API) UseProgram(program uint32)    { gl.UseProgram(program) }

func (API) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (API) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (API) Uniform1i(location, v int32)                  { gl.Uniform1i(location, v) }
func (API) Uniform1f(location int32, v float32)          { gl.Uniform1f(location, v) }
func (API) Uniform2f(location int32, x, y float32)       { gl.Uniform2f(location, x, y) }
func (API) Uniform3f(location int32, x, y, z float32)    { gl.Uniform3f(location, x, y, z) }
func (API) Uniform4f(location int32, x, y, z, w float32) { gl.Uniform4f(location, x, y, z, w) }

func (API) UniformMatrix3fv(location int32, m [9]float32) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (API) UniformMatrix4fv(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (API) Enable(capability uint32)                     { gl.Enable(capability) }
func (API) Disable(capability uint32)                    { gl.Disable(capability) }
func (API) DepthFunc(f uint32)                           { gl.DepthFunc(f) }
func (API) DepthMask(flag bool)                          { gl.DepthMask(flag) }
func (API) StencilFunc(f uint32, ref int32, mask uint32) { gl.StencilFunc(f, ref, mask) }
func (API) StencilOp(fail, zfail, zpass uint32)          { gl.StencilOp(fail, zfail, zpass) }
func (API) BlendEquation(mode uint32)                    { gl.BlendEquation(mode) }
func (API) BlendColor(r, g, b, a float32)                { gl.BlendColor(r, g, b, a) }
func (API) CullFace(mode uint32)                         { gl.CullFace(mode) }
func (API) FrontFace(mode uint32)                        { gl.FrontFace(mode) }
func (API) ColorMask(r, g, b, a bool)                    { gl.ColorMask(r, g, b, a) }
func (API) Viewport(x, y, width, height int32)           { gl.Viewport(x, y, width, height) }
func (API) Scissor(x, y, width, height int32)            { gl.Scissor(x, y, width, height) }
func (API) PolygonOffset(factor, units float32)          { gl.PolygonOffset(factor, units) }

func (API) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	gl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (API) ClearColor(r, g, b, a float32)              { gl.ClearColor(r, g, b, a) }
func (API) Clear(mask uint32)                          { gl.Clear(mask) }
func (API) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (API) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(offset))
}

func (API) Flush() { gl.Flush() }
