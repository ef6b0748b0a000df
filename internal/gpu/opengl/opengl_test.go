package opengl_test

import (
	"errors"
	"strings"
	"testing"

	"iengine/internal/geometry"
	"iengine/internal/gpu"
	"iengine/internal/gpu/opengl"
	"iengine/internal/gpu/opengl/opengltest"
	"iengine/internal/mesh"
	"iengine/internal/pipeline"
	"iengine/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
)

func newContext(t *testing.T) (*opengl.Context, *opengltest.FakeAPI) {
	t.Helper()
	api := opengltest.New()
	ctx, err := opengl.NewContext(api, false)
	if err != nil {
		t.Fatal(err)
	}
	return ctx, api
}

func baseVariant(t *testing.T) *shader.Variant {
	t.Helper()
	lib := shader.NewLibrary()
	shader.RegisterBuiltins(lib)
	v, err := lib.GetVariant(shader.BaseMaterial, shader.TargetGLSL, shader.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestContextCaps(t *testing.T) {
	ctx, _ := newContext(t)

	caps := ctx.Caps()
	if caps.MaxTextureUnits != 16 || caps.MaxTextureSize != 4096 || caps.RequiresRecreateOnResize {
		t.Errorf("unexpected caps %+v", caps)
	}
	if ctx.Target() != shader.TargetGLSL {
		t.Errorf("desktop context should compile GLSL, got %s", ctx.Target())
	}
}

func TestInitFailure(t *testing.T) {
	api := opengltest.New()
	api.InitError = errors.New("no context")
	if _, err := opengl.NewContext(api, true); err == nil {
		t.Fatal("expected init error")
	}
}

func TestCompileProgram(t *testing.T) {
	ctx, api := newContext(t)

	p, err := ctx.CompileProgram(baseVariant(t))
	if err != nil {
		t.Fatal(err)
	}
	prog := p.(*opengl.Program)
	if !strings.HasPrefix(p.ID(), "gl-program-") {
		t.Errorf("unexpected program id %q", p.ID())
	}

	api.UseProgram(prog.Handle())
	if !prog.Uniforms().Set("uBaseColor", mgl32.Vec4{1, 0, 0, 1}) {
		t.Fatal("vec4 uniform should be accepted")
	}
	if v, _ := api.Uniform(prog.Handle(), "uBaseColor"); v != [4]float32{1, 0, 0, 1} {
		t.Errorf("uniform value %v", v)
	}
	if prog.Uniforms().Set("uBaseColor", "red") {
		t.Error("unsupported types should be rejected")
	}

	p.Release()
	p.Release()
	if api.Calls.ProgramsDeleted != 1 {
		t.Errorf("expected a single delete, got %d", api.Calls.ProgramsDeleted)
	}
}

func TestCompileErrorCarriesLog(t *testing.T) {
	ctx, api := newContext(t)
	api.CompileError = "0:3: syntax error"

	_, err := ctx.CompileProgram(baseVariant(t))
	if err == nil || !strings.Contains(err.Error(), "syntax error") {
		t.Fatalf("expected compile log in error, got %v", err)
	}
	if api.Calls.ProgramsCreated != 0 {
		t.Error("no program should be created after a compile failure")
	}
}

func TestLinkError(t *testing.T) {
	ctx, api := newContext(t)
	api.LinkError = "varying mismatch"

	if _, err := ctx.CompileProgram(baseVariant(t)); err == nil || !strings.Contains(err.Error(), "varying mismatch") {
		t.Fatalf("expected link log in error, got %v", err)
	}
	if api.Calls.ProgramsDeleted != 1 {
		t.Error("failed program should be deleted")
	}
}

func TestPlaceholderIsNotCompiled(t *testing.T) {
	ctx, _ := newContext(t)
	if _, err := ctx.CompileProgram(&shader.Variant{Placeholder: true}); err == nil {
		t.Fatal("placeholder variant should not compile")
	}
}

func TestWriteBufferBounds(t *testing.T) {
	ctx, api := newContext(t)

	buf, err := ctx.CreateBuffer(gpu.BufferVertex, 8, "test")
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.WriteBuffer(buf, 4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := ctx.WriteBuffer(buf, 6, []byte{1, 2, 3, 4}); !errors.Is(err, gpu.ErrBufferOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}

	var data []byte
	for _, d := range api.Buffers {
		data = d
	}
	if len(data) != 8 || data[4] != 1 || data[7] != 4 {
		t.Errorf("unexpected buffer contents %v", data)
	}
}

func TestLegacyContextAvoidsCoreOnlyCalls(t *testing.T) {
	api := opengltest.New()
	ctx, err := opengl.NewContext(api, true)
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Target() != shader.TargetGLSLLegacy {
		t.Errorf("legacy context should compile legacy GLSL, got %s", ctx.Target())
	}

	buf, err := ctx.CreateBuffer(gpu.BufferVertex, 4, "legacy")
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.WriteBuffer(buf, 0, []byte{9, 8, 7, 6}); err != nil {
		t.Fatal(err)
	}

	for _, call := range api.Log {
		if call == "GenVertexArray" {
			t.Error("vertex array objects need GL 3.0")
		}
	}
	if n := api.BufferTargets[opengl.COPY_WRITE_BUFFER]; n != 0 {
		t.Errorf("copy write target used %d times on a 2.1 context", n)
	}
	for _, d := range api.Buffers {
		if len(d) != 4 || d[0] != 9 || d[3] != 6 {
			t.Errorf("unexpected buffer contents %v", d)
		}
	}
}

func TestCoreContextBindsVertexArray(t *testing.T) {
	_, api := newContext(t)

	found := false
	for _, call := range api.Log {
		if call == "GenVertexArray" {
			found = true
		}
	}
	if !found {
		t.Error("core profile context needs a vertex array object")
	}
}

func TestTextureResizeInPlace(t *testing.T) {
	ctx, api := newContext(t)

	tex, err := ctx.CreateTexture(gpu.TextureDescriptor{Width: 1, Height: 1, MinFilter: gpu.MinLinearMipmapLinear})
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.WriteTexture(tex, 2, 2, make([]byte, 16)); err != nil {
		t.Fatal(err)
	}
	if api.Calls.TexturesCreated != 1 || tex.Width() != 2 {
		t.Errorf("resize should respecify the same texture, got %+v", api.Calls)
	}
	if api.Log[len(api.Log)-1] != "GenerateMipmap" {
		t.Error("mipmapped filter should regenerate mipmaps")
	}
	if err := ctx.WriteTexture(tex, 2, 2, make([]byte, 3)); err == nil {
		t.Error("short pixel data should be rejected")
	}

	if _, err := ctx.CreateTexture(gpu.TextureDescriptor{Width: 8192, Height: 1}); err == nil {
		t.Error("oversized texture should be rejected")
	}
}

func TestApplyStateOnlyTouchesPresentFields(t *testing.T) {
	ctx, api := newContext(t)

	ctx.ApplyState(pipeline.RenderState{
		Blend:    pipeline.Ptr(true),
		CullFace: pipeline.Ptr(false),
	})
	if !api.Enabled[opengl.BLEND] || api.Enabled[opengl.CULL_FACE] {
		t.Errorf("unexpected capabilities %v", api.Enabled)
	}
	if _, touched := api.Enabled[opengl.DEPTH_TEST]; touched {
		t.Error("absent depth test must be left alone")
	}
}

func uploaded(t *testing.T, ctx *opengl.Context, g *geometry.Geometry) *mesh.Mesh {
	t.Helper()
	m := mesh.New(g, geometry.DefaultPrimitive())
	if err := m.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPipelineDraws(t *testing.T) {
	ctx, api := newContext(t)
	p, err := ctx.CompileProgram(baseVariant(t))
	if err != nil {
		t.Fatal(err)
	}

	tri := uploaded(t, ctx, geometry.NewTriangle())
	pl, err := ctx.CreatePipeline(p, geometry.Triangles, tri.Layout(), pipeline.FromPrimitive(tri.Primitive()))
	if err != nil {
		t.Fatal(err)
	}
	pl.Bind()
	if err := pl.Draw(tri); err != nil {
		t.Fatal(err)
	}

	cube := uploaded(t, ctx, geometry.NewCube(1))
	pl2, err := ctx.CreatePipeline(p, geometry.Triangles, cube.Layout(), pipeline.RenderState{})
	if err != nil {
		t.Fatal(err)
	}
	pl2.Bind()
	if err := pl2.Draw(cube); err != nil {
		t.Fatal(err)
	}

	if len(api.Draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(api.Draws))
	}
	if d := api.Draws[0]; d.Indexed || d.Count != 3 || d.Mode != opengl.TRIANGLES {
		t.Errorf("unexpected triangle draw %+v", d)
	}
	if d := api.Draws[1]; !d.Indexed || d.Count != 36 {
		t.Errorf("unexpected cube draw %+v", d)
	}
	if api.Calls.UseProgram != 1 {
		t.Errorf("program should only be bound once, got %d", api.Calls.UseProgram)
	}
}

func TestPipelineSkipsInactiveAttributes(t *testing.T) {
	ctx, api := newContext(t)
	api.MissingAttribs[geometry.AttrNormal] = true
	api.MissingAttribs[geometry.AttrTexCoord] = true

	p, err := ctx.CompileProgram(baseVariant(t))
	if err != nil {
		t.Fatal(err)
	}
	cube := uploaded(t, ctx, geometry.NewCube(1))
	pl, err := ctx.CreatePipeline(p, geometry.Triangles, cube.Layout(), pipeline.RenderState{})
	if err != nil {
		t.Fatal(err)
	}
	pl.Bind()
	if err := pl.Draw(cube); err != nil {
		t.Fatal(err)
	}

	n := 0
	for _, call := range api.Log {
		if call == "VertexAttribPointer" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("only the position attribute should be bound, got %d", n)
	}
}

func TestDrawWithoutUploadFails(t *testing.T) {
	ctx, _ := newContext(t)
	p, err := ctx.CompileProgram(baseVariant(t))
	if err != nil {
		t.Fatal(err)
	}
	m := mesh.New(geometry.NewTriangle(), geometry.DefaultPrimitive())
	pl, err := ctx.CreatePipeline(p, geometry.Triangles, m.Layout(), pipeline.RenderState{})
	if err != nil {
		t.Fatal(err)
	}
	if err := pl.Draw(m); err == nil {
		t.Error("drawing a mesh without buffers should fail")
	}
}

func TestUniformLocationsAreCached(t *testing.T) {
	ctx, api := newContext(t)
	p, err := ctx.CompileProgram(baseVariant(t))
	if err != nil {
		t.Fatal(err)
	}
	prog := p.(*opengl.Program)
	api.UseProgram(prog.Handle())
	api.MissingUniforms["uGone"] = true

	before := api.Calls.UniformLookups
	prog.Uniforms().Set("uExposure", float32(1))
	prog.Uniforms().Set("uExposure", float32(2))
	if n := api.Calls.UniformLookups - before; n != 1 {
		t.Errorf("expected one location lookup, got %d", n)
	}
	if v, _ := api.Uniform(prog.Handle(), "uExposure"); v != float32(2) {
		t.Errorf("last value should win, got %v", v)
	}

	if prog.Uniforms().Set("uGone", float32(1)) || prog.Uniforms().Set("uGone", float32(1)) {
		t.Error("inactive uniforms should be reported")
	}
	if n := api.Calls.UniformLookups - before; n != 2 {
		t.Errorf("missing locations should be cached too, got %d lookups", n)
	}

	prog.Uniforms().Clear()
	prog.Uniforms().Set("uExposure", float32(3))
	if n := api.Calls.UniformLookups - before; n != 3 {
		t.Errorf("Clear should drop cached locations, got %d lookups", n)
	}
}
