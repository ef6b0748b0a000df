package renderer

import (
	"errors"
	"testing"

	"iengine/internal/camera"
	"iengine/internal/geometry"
	"iengine/internal/gpu/opengl"
	"iengine/internal/gpu/opengl/opengltest"
	"iengine/internal/light"
	"iengine/internal/material"
	"iengine/internal/mesh"
	"iengine/internal/scene"
	"iengine/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeSurface struct {
	w, h   int
	sx, sy float32
}

func (s *fakeSurface) GetSize() (int, int)                 { return s.w, s.h }
func (s *fakeSurface) GetContentScale() (float32, float32) { return s.sx, s.sy }

func newRenderer(t *testing.T) (*OpenGL, *opengltest.FakeAPI) {
	t.Helper()
	api := opengltest.New()
	lib := shader.NewLibrary()
	shader.RegisterBuiltins(lib)

	rend := NewOpenGL(api, lib)
	if err := rend.Initialize(&fakeSurface{w: 800, h: 600, sx: 1, sy: 1}, Options{}); err != nil {
		t.Fatal(err)
	}
	return rend, api
}

func lookingCamera() *camera.Perspective {
	cam := camera.NewPerspective(45, 4.0/3.0, 0.1, 100)
	cam.SetPosition(mgl32.Vec3{0, 0, 5})
	cam.LookAt(mgl32.Vec3{0, 0, 0})
	return cam
}

func TestRenderBeforeInitialize(t *testing.T) {
	api := opengltest.New()
	rend := NewOpenGL(api, shader.NewLibrary())

	rend.Render(scene.NewSimple(lookingCamera()), RenderOptions{})
	if len(api.Log) != 0 {
		t.Errorf("no GL calls expected before Initialize, got %v", api.Log)
	}
	if rend.IsInitialized() {
		t.Error("renderer should not report initialized")
	}
	if err := rend.Destroy(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestInitializeWithoutSurface(t *testing.T) {
	rend := NewOpenGL(opengltest.New(), shader.NewLibrary())
	if err := rend.Initialize(nil, Options{}); !errors.Is(err, ErrNoSurface) {
		t.Errorf("expected ErrNoSurface, got %v", err)
	}
}

func TestNoCameraSkipsFrame(t *testing.T) {
	rend, api := newRenderer(t)

	s := scene.NewSimple(nil)
	s.Add(scene.NewNode("tri", mesh.New(geometry.NewTriangle(), geometry.DefaultPrimitive()), material.NewBase("red", mgl32.Vec4{1, 0, 0, 1})))
	rend.Render(s, RenderOptions{})

	if api.Calls.Clears != 0 || len(api.Draws) != 0 {
		t.Errorf("expected no clear and no draw, got %d clears %d draws", api.Calls.Clears, len(api.Draws))
	}
}

func TestEmptySceneDoesNotClear(t *testing.T) {
	rend, api := newRenderer(t)
	rend.Render(scene.NewSimple(lookingCamera()), RenderOptions{})
	if api.Calls.Clears != 0 {
		t.Error("empty frame should not clear")
	}
}

func TestDedupRenderables(t *testing.T) {
	rend, api := newRenderer(t)

	m := mesh.New(geometry.NewTriangle(), geometry.DefaultPrimitive())
	mat := material.NewBase("red", mgl32.Vec4{1, 0, 0, 1})
	world := mgl32.Ident4()

	s := scene.NewSimple(lookingCamera())
	s.Extra = []scene.Provider{scene.List{Items: []scene.Renderable{
		{Mesh: m, Material: mat, Layer: scene.LayerOpaque, World: world},
		{Mesh: m, Material: mat, Layer: scene.LayerOpaque, World: world},
		{Mesh: m, Material: mat, Layer: scene.LayerTransparent, World: world},
	}}}
	rend.Render(s, RenderOptions{})

	if len(api.Draws) != 2 {
		t.Errorf("expected 2 draws, got %d", len(api.Draws))
	}
	if st := rend.Stats(); st.Draws != 2 || st.Renderables != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestCollectDedupsLights(t *testing.T) {
	sun := light.NewDirectional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 2)
	twin := light.NewDirectional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 2)

	s := scene.NewSimple(lookingCamera())
	s.AddLight(sun)
	s.Extra = []scene.Provider{scene.List{Lamps: []*light.Light{twin, light.NewAmbient(mgl32.Vec3{1, 1, 1}, 0.1)}}}

	f := Collect(s)
	if len(f.Lights) != 2 || f.Lights[0] != sun {
		t.Errorf("expected the first directional and the ambient light, got %d", len(f.Lights))
	}
}

func TestRenderTriangleEndToEnd(t *testing.T) {
	rend, api := newRenderer(t)

	s := scene.NewSimple(lookingCamera())
	s.Add(scene.NewNode("tri", mesh.New(geometry.NewTriangle(), geometry.DefaultPrimitive()), material.NewBase("red", mgl32.Vec4{1, 0, 0, 1})))
	s.AddLight(light.NewDirectional(mgl32.Vec3{0, -1, -1}, mgl32.Vec3{1, 1, 1}, 1))
	rend.Render(s, RenderOptions{})

	if api.Calls.Clears != 1 {
		t.Errorf("expected 1 clear, got %d", api.Calls.Clears)
	}
	if api.Calls.DrawArrays != 1 || api.Calls.DrawElements != 0 {
		t.Fatalf("expected a single DrawArrays, got %+v", api.Calls)
	}
	d := api.Draws[0]
	if d.Count != 3 || d.Mode != opengl.TRIANGLES {
		t.Errorf("unexpected draw %+v", d)
	}

	color, ok := api.Uniform(d.Program, "uBaseColor")
	if !ok || color != [4]float32{1, 0, 0, 1} {
		t.Errorf("baseColor uniform %v", color)
	}
	mv, ok := api.Uniform(d.Program, "uModelViewMatrix")
	if !ok {
		t.Fatal("modelViewMatrix not set")
	}
	m := mgl32.Mat4(mv.([16]float32))
	if !m.Col(3).ApproxEqualThreshold(mgl32.Vec4{0, 0, -5, 1}, 1e-4) {
		t.Errorf("model view translation %v, want (0,0,-5)", m.Col(3))
	}
}

func TestPipelinesAreCached(t *testing.T) {
	rend, api := newRenderer(t)

	s := scene.NewSimple(lookingCamera())
	s.Add(scene.NewNode("cube", mesh.New(geometry.NewCube(1), geometry.DefaultPrimitive()), material.NewPhong("phong")))

	rend.Render(s, RenderOptions{})
	if rend.Stats().PipelinesCreated != 1 {
		t.Errorf("first frame should create a pipeline, got %+v", rend.Stats())
	}
	rend.Render(s, RenderOptions{SkipClear: true})
	if rend.Stats().PipelinesCreated != 0 {
		t.Errorf("second frame should reuse the pipeline, got %+v", rend.Stats())
	}
	if api.Calls.ProgramsCreated != 1 || api.Calls.DrawElements != 2 {
		t.Errorf("unexpected calls %+v", api.Calls)
	}
	if api.Calls.Clears != 1 {
		t.Errorf("SkipClear should suppress the clear, got %d clears", api.Calls.Clears)
	}
}

func TestTextureUnitsExhausted(t *testing.T) {
	api := opengltest.New()
	api.Integers[opengl.MAX_COMBINED_TEXTURE_IMAGE_UNITS] = 2
	lib := shader.NewLibrary()
	shader.RegisterBuiltins(lib)
	rend := NewOpenGL(api, lib)
	if err := rend.Initialize(&fakeSurface{w: 64, h: 64, sx: 1}, Options{}); err != nil {
		t.Fatal(err)
	}

	s := scene.NewSimple(lookingCamera())
	s.Add(scene.NewNode("cube", mesh.New(geometry.NewCube(1), geometry.DefaultPrimitive()), material.NewPBR("pbr")))
	rend.Render(s, RenderOptions{})

	if len(api.Draws) != 0 || rend.Stats().Skipped != 1 {
		t.Errorf("drawable should be skipped, got %d draws, stats %+v", len(api.Draws), rend.Stats())
	}
}

func TestFailedDrawableDoesNotStopFrame(t *testing.T) {
	api := opengltest.New()
	api.Integers[opengl.MAX_COMBINED_TEXTURE_IMAGE_UNITS] = 2
	lib := shader.NewLibrary()
	shader.RegisterBuiltins(lib)
	rend := NewOpenGL(api, lib)
	if err := rend.Initialize(&fakeSurface{w: 64, h: 64, sx: 1}, Options{}); err != nil {
		t.Fatal(err)
	}

	s := scene.NewSimple(lookingCamera())
	s.Add(scene.NewNode("cube", mesh.New(geometry.NewCube(1), geometry.DefaultPrimitive()), material.NewPBR("pbr")))
	s.Add(scene.NewNode("tri", mesh.New(geometry.NewTriangle(), geometry.DefaultPrimitive()), material.NewBase("red", mgl32.Vec4{1, 0, 0, 1})))
	rend.Render(s, RenderOptions{})

	st := rend.Stats()
	if st.Skipped != 1 || st.Draws != 1 {
		t.Errorf("want one skipped and one drawn, got %+v", st)
	}
	if len(api.Draws) != 1 {
		t.Fatalf("expected the triangle to be drawn, got %d draws", len(api.Draws))
	}
	if api.Draws[0].Count != 3 {
		t.Errorf("drew %d vertices, want the 3 of the triangle", api.Draws[0].Count)
	}
}

func TestPBRBindsSequentialUnits(t *testing.T) {
	rend, api := newRenderer(t)

	s := scene.NewSimple(lookingCamera())
	s.Add(scene.NewNode("cube", mesh.New(geometry.NewCube(1), geometry.DefaultPrimitive()), material.NewPBR("pbr")))
	rend.Render(s, RenderOptions{})

	if len(api.Draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(api.Draws))
	}
	if len(api.BoundTextures) != 5 {
		t.Errorf("expected 5 texture units, got %v", api.BoundTextures)
	}
	// roles sorted: aoMap, baseColorMap, emissiveMap, metallicRoughnessMap, normalMap
	if u, _ := api.Uniform(api.Draws[0].Program, "uNormalMap"); u != int32(4) {
		t.Errorf("normal map unit %v, want 4", u)
	}
}

func TestResizeUsesFlooredPixelRatio(t *testing.T) {
	rend, api := newRenderer(t)
	surface := &fakeSurface{w: 100, h: 50, sx: 2.5, sy: 2.5}
	rend.surface = surface

	cam := lookingCamera()
	s := scene.NewSimple(cam)
	rend.Render(s, RenderOptions{})
	rend.Resize()

	if api.ViewportRect != [4]int32{0, 0, 200, 100} {
		t.Errorf("viewport %v, want 200x100", api.ViewportRect)
	}
	if cam.AspectRatio != 2 {
		t.Errorf("camera aspect %v, want 2", cam.AspectRatio)
	}

	surface.w, surface.h, surface.sx = 0, 0, 0.5
	if w, h := DrawableSize(surface); w != 1 || h != 1 {
		t.Errorf("drawable size %dx%d, want 1x1", w, h)
	}
}

func TestViewportScopedClear(t *testing.T) {
	rend, api := newRenderer(t)
	rend.SetViewport(&Viewport{X: 10, Y: 20, Width: 30, Height: 40})
	rend.SetClearColor(&Color{0.5, 0, 0, 1})
	rend.Clear()

	if api.ScissorRect != [4]int32{10, 20, 30, 40} {
		t.Errorf("clear should be scissored to the viewport, got %v", api.ScissorRect)
	}
	if api.Enabled[opengl.SCISSOR_TEST] {
		t.Error("scissor test should be disabled after the clear")
	}
	if api.ClearValue != [4]float32{0.5, 0, 0, 1} {
		t.Errorf("clear color %v", api.ClearValue)
	}
}
