package opengl

// API is the GL function surface used by the backend. Slices replace raw
// pointers so implementations stay free of unsafe code at the call site.
type API interface {
	Init() error
	GetString(name uint32) string
	GetInteger(pname uint32) int32

	GenBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target, id uint32)
	BufferData(target uint32, size int, data []byte, usage uint32)
	BufferSubData(target uint32, offset int, data []byte)

	GenVertexArray() uint32
	DeleteVertexArray(id uint32)
	BindVertexArray(id uint32)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)

	GenTexture() uint32
	DeleteTexture(id uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, id uint32)
	TexImage2D(target uint32, width, height int32, rgba []byte)
	TexParameteri(target, pname uint32, param int32)
	GenerateMipmap(target uint32)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderi(shader, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgrami(program, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	GetAttribLocation(program uint32, name string) int32
	GetUniformLocation(program uint32, name string) int32

	Uniform1i(location, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix3fv(location int32, m [9]float32)
	UniformMatrix4fv(location int32, m [16]float32)

	Enable(capability uint32)
	Disable(capability uint32)
	DepthFunc(f uint32)
	DepthMask(flag bool)
	StencilFunc(f uint32, ref int32, mask uint32)
	StencilOp(fail, zfail, zpass uint32)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32)
	BlendEquation(mode uint32)
	BlendColor(r, g, b, a float32)
	CullFace(mode uint32)
	FrontFace(mode uint32)
	ColorMask(r, g, b, a bool)
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	PolygonOffset(factor, units float32)

	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)
	Flush()
}
