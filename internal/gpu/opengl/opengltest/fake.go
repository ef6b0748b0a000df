// Package opengltest provides a recording opengl.API for tests.
package opengltest

import (
	"errors"

	"iengine/internal/gpu/opengl"
)

// Draw is one recorded draw call.
type Draw struct {
	Mode    uint32
	Program uint32
	Count   int32
	Indexed bool
}

// Counters tracks the calls tests usually assert on.
type Counters struct {
	Clears          int
	DrawArrays      int
	DrawElements    int
	ProgramsCreated int
	ProgramsDeleted int
	BuffersCreated  int
	BuffersDeleted  int
	TexturesCreated int
	TexturesDeleted int
	TextureUploads  int
	UseProgram      int
	ActiveTexture   int
	UniformLookups  int
}

// FakeAPI implements opengl.API in memory. Shaders compile and link
// unless CompileError or LinkError is set.
type FakeAPI struct {
	Calls Counters
	Log   []string
	Draws []Draw

	// Uniforms holds the last value set per program and uniform name.
	Uniforms map[uint32]map[string]any
	// Buffers holds buffer contents by object name.
	Buffers map[uint32][]byte
	// Enabled tracks capabilities toggled with Enable and Disable.
	Enabled map[uint32]bool
	// BufferTargets counts BindBuffer calls per target.
	BufferTargets map[uint32]int

	ClearValue   [4]float32
	ViewportRect [4]int32
	ScissorRect  [4]int32
	// BoundTextures maps texture units to texture names.
	BoundTextures map[uint32]uint32
	ActiveUnit    uint32

	CompileError string
	LinkError    string
	InitError    error
	// MissingAttribs and MissingUniforms are reported as not active in
	// every program.
	MissingAttribs  map[string]bool
	MissingUniforms map[string]bool

	Integers map[uint32]int32

	nextID       uint32
	program      uint32
	bound        map[uint32]uint32
	uniformLoc   map[uint32]map[string]int32
	uniformName  map[uint32]map[int32]string
	attribLoc    map[uint32]map[string]int32
	shaderSource map[uint32]string
}

var _ opengl.API = (*FakeAPI)(nil)

func New() *FakeAPI {
	return &FakeAPI{
		Uniforms:        make(map[uint32]map[string]any),
		Buffers:         make(map[uint32][]byte),
		Enabled:         make(map[uint32]bool),
		BufferTargets:   make(map[uint32]int),
		MissingAttribs:  make(map[string]bool),
		MissingUniforms: make(map[string]bool),
		Integers: map[uint32]int32{
			opengl.MAX_COMBINED_TEXTURE_IMAGE_UNITS: 16,
			opengl.MAX_TEXTURE_SIZE:                 4096,
		},
		bound:         make(map[uint32]uint32),
		uniformLoc:    make(map[uint32]map[string]int32),
		uniformName:   make(map[uint32]map[int32]string),
		attribLoc:     make(map[uint32]map[string]int32),
		shaderSource:  make(map[uint32]string),
		BoundTextures: make(map[uint32]uint32),
	}
}

func (f *FakeAPI) record(name string) { f.Log = append(f.Log, name) }

func (f *FakeAPI) id() uint32 {
	f.nextID++
	return f.nextID
}

// Uniform returns the last value set for name in program.
func (f *FakeAPI) Uniform(program uint32, name string) (any, bool) {
	v, ok := f.Uniforms[program][name]
	return v, ok
}

// Source returns the source given to a shader object.
func (f *FakeAPI) Source(shader uint32) string { return f.shaderSource[shader] }

func (f *FakeAPI) Init() error {
	f.record("Init")
	return f.InitError
}

func (f *FakeAPI) GetString(name uint32) string {
	if name == opengl.VERSION {
		return "4.1 fake"
	}
	return ""
}

func (f *FakeAPI) GetInteger(pname uint32) int32 { return f.Integers[pname] }

func (f *FakeAPI) GenBuffer() uint32 {
	f.Calls.BuffersCreated++
	f.record("GenBuffer")
	return f.id()
}

func (f *FakeAPI) DeleteBuffer(id uint32) {
	f.Calls.BuffersDeleted++
	f.record("DeleteBuffer")
	delete(f.Buffers, id)
}

func (f *FakeAPI) BindBuffer(target, id uint32) {
	f.BufferTargets[target]++
	f.bound[target] = id
}

func (f *FakeAPI) BufferData(target uint32, size int, data []byte, usage uint32) {
	buf := make([]byte, size)
	copy(buf, data)
	f.Buffers[f.bound[target]] = buf
}

func (f *FakeAPI) BufferSubData(target uint32, offset int, data []byte) {
	copy(f.Buffers[f.bound[target]][offset:], data)
}

func (f *FakeAPI) GenVertexArray() uint32 {
	f.record("GenVertexArray")
	return f.id()
}

func (f *FakeAPI) DeleteVertexArray(id uint32)       {}
func (f *FakeAPI) BindVertexArray(id uint32)         {}
func (f *FakeAPI) EnableVertexAttribArray(i uint32)  { f.record("EnableVertexAttribArray") }
func (f *FakeAPI) DisableVertexAttribArray(i uint32) { f.record("DisableVertexAttribArray") }

func (f *FakeAPI) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	f.record("VertexAttribPointer")
}

func (f *FakeAPI) GenTexture() uint32 {
	f.Calls.TexturesCreated++
	f.record("GenTexture")
	return f.id()
}

func (f *FakeAPI) DeleteTexture(id uint32) {
	f.Calls.TexturesDeleted++
	f.record("DeleteTexture")
}

func (f *FakeAPI) ActiveTexture(unit uint32) {
	f.Calls.ActiveTexture++
	f.ActiveUnit = unit - opengl.TEXTURE0
}

func (f *FakeAPI) BindTexture(target, id uint32) { f.BoundTextures[f.ActiveUnit] = id }

func (f *FakeAPI) TexImage2D(target uint32, width, height int32, rgba []byte) {
	f.Calls.TextureUploads++
	f.record("TexImage2D")
}

func (f *FakeAPI) TexParameteri(target, pname uint32, param int32) {}
func (f *FakeAPI) GenerateMipmap(target uint32)                    { f.record("GenerateMipmap") }

func (f *FakeAPI) CreateShader(xtype uint32) uint32 { return f.id() }

func (f *FakeAPI) ShaderSource(shader uint32, source string) { f.shaderSource[shader] = source }
func (f *FakeAPI) CompileShader(shader uint32)               { f.record("CompileShader") }

func (f *FakeAPI) GetShaderi(shader, pname uint32) int32 {
	if pname == opengl.COMPILE_STATUS && f.CompileError != "" {
		return 0
	}
	return 1
}

func (f *FakeAPI) GetShaderInfoLog(shader uint32) string { return f.CompileError }
func (f *FakeAPI) DeleteShader(shader uint32)            { delete(f.shaderSource, shader) }

func (f *FakeAPI) CreateProgram() uint32 {
	f.Calls.ProgramsCreated++
	f.record("CreateProgram")
	return f.id()
}

func (f *FakeAPI) AttachShader(program, shader uint32) {}
func (f *FakeAPI) DetachShader(program, shader uint32) {}
func (f *FakeAPI) LinkProgram(program uint32)          { f.record("LinkProgram") }

func (f *FakeAPI) GetProgrami(program, pname uint32) int32 {
	if pname == opengl.LINK_STATUS && f.LinkError != "" {
		return 0
	}
	return 1
}

func (f *FakeAPI) GetProgramInfoLog(program uint32) string { return f.LinkError }

func (f *FakeAPI) DeleteProgram(program uint32) {
	f.Calls.ProgramsDeleted++
	f.record("DeleteProgram")
	delete(f.Uniforms, program)
}

func (f *FakeAPI) UseProgram(program uint32) {
	f.Calls.UseProgram++
	f.program = program
}

func (f *FakeAPI) GetAttribLocation(program uint32, name string) int32 {
	if f.MissingAttribs[name] {
		return -1
	}
	return assign(f.attribLoc, program, name, nil)
}

func (f *FakeAPI) GetUniformLocation(program uint32, name string) int32 {
	f.Calls.UniformLookups++
	if f.MissingUniforms[name] {
		return -1
	}
	return assign(f.uniformLoc, program, name, f.uniformName)
}

func assign(locs map[uint32]map[string]int32, program uint32, name string, names map[uint32]map[int32]string) int32 {
	m, ok := locs[program]
	if !ok {
		m = make(map[string]int32)
		locs[program] = m
	}
	if loc, ok := m[name]; ok {
		return loc
	}
	loc := int32(len(m))
	m[name] = loc
	if names != nil {
		if names[program] == nil {
			names[program] = make(map[int32]string)
		}
		names[program][loc] = name
	}
	return loc
}

func (f *FakeAPI) setUniform(loc int32, v any) {
	name, ok := f.uniformName[f.program][loc]
	if !ok {
		panic(errors.New("uniform set without a location lookup on the current program"))
	}
	if f.Uniforms[f.program] == nil {
		f.Uniforms[f.program] = make(map[string]any)
	}
	f.Uniforms[f.program][name] = v
}

func (f *FakeAPI) Uniform1i(loc, v int32)                    { f.setUniform(loc, v) }
func (f *FakeAPI) Uniform1f(loc int32, v float32)            { f.setUniform(loc, v) }
func (f *FakeAPI) Uniform2f(loc int32, x, y float32)         { f.setUniform(loc, [2]float32{x, y}) }
func (f *FakeAPI) Uniform3f(loc int32, x, y, z float32)      { f.setUniform(loc, [3]float32{x, y, z}) }
func (f *FakeAPI) Uniform4f(loc int32, x, y, z, w float32)   { f.setUniform(loc, [4]float32{x, y, z, w}) }
func (f *FakeAPI) UniformMatrix3fv(loc int32, m [9]float32)  { f.setUniform(loc, m) }
func (f *FakeAPI) UniformMatrix4fv(loc int32, m [16]float32) { f.setUniform(loc, m) }

func (f *FakeAPI) Enable(capability uint32)  { f.Enabled[capability] = true }
func (f *FakeAPI) Disable(capability uint32) { f.Enabled[capability] = false }

func (f *FakeAPI) DepthFunc(fn uint32)                                         {}
func (f *FakeAPI) DepthMask(flag bool)                                         {}
func (f *FakeAPI) StencilFunc(fn uint32, ref int32, mask uint32)               {}
func (f *FakeAPI) StencilOp(fail, zfail, zpass uint32)                         {}
func (f *FakeAPI) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) { f.record("BlendFuncSeparate") }
func (f *FakeAPI) BlendEquation(mode uint32)                                   {}
func (f *FakeAPI) BlendColor(r, g, b, a float32)                               {}
func (f *FakeAPI) CullFace(mode uint32)                                        {}
func (f *FakeAPI) FrontFace(mode uint32)                                       {}
func (f *FakeAPI) ColorMask(r, g, b, a bool)                                   {}
func (f *FakeAPI) Viewport(x, y, width, height int32)                          { f.ViewportRect = [4]int32{x, y, width, height} }
func (f *FakeAPI) Scissor(x, y, width, height int32)                           { f.ScissorRect = [4]int32{x, y, width, height} }
func (f *FakeAPI) PolygonOffset(factor, units float32)                         {}

func (f *FakeAPI) ClearColor(r, g, b, a float32) { f.ClearValue = [4]float32{r, g, b, a} }

func (f *FakeAPI) Clear(mask uint32) {
	f.Calls.Clears++
	f.record("Clear")
}

func (f *FakeAPI) DrawArrays(mode uint32, first, count int32) {
	f.Calls.DrawArrays++
	f.record("DrawArrays")
	f.Draws = append(f.Draws, Draw{Mode: mode, Program: f.program, Count: count})
}

func (f *FakeAPI) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	f.Calls.DrawElements++
	f.record("DrawElements")
	f.Draws = append(f.Draws, Draw{Mode: mode, Program: f.program, Count: count, Indexed: true})
}

func (f *FakeAPI) Flush() {}
