package shader

import (
	"errors"
	"strings"
	"testing"
)

func newBuiltinLibrary() *Library {
	lib := NewLibrary()
	RegisterBuiltins(lib)
	return lib
}

func TestGetVariantCachesPreprocessedSource(t *testing.T) {
	lib := newBuiltinLibrary()

	for _, target := range []Target{TargetGLSL, TargetWGSL} {
		before := lib.PreprocessCount()
		a, err := lib.GetVariant(BasePBR, target, Options{Defines: Defines{"HAS_NORMAL": true}})
		if err != nil {
			t.Fatal(err)
		}
		b, err := lib.GetVariant(BasePBR, target, Options{Defines: Defines{"HAS_NORMAL": true}})
		if err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Errorf("%s: expected the cached variant", target)
		}
		if a.Vertex != b.Vertex || a.Fragment != b.Fragment || a.Code != b.Code {
			t.Errorf("%s: sources differ between calls", target)
		}
		if n := lib.PreprocessCount() - before; n != 1 {
			t.Errorf("%s: expected 1 preprocess, got %d", target, n)
		}
	}
}

func TestVariantKey(t *testing.T) {
	lib := newBuiltinLibrary()
	v, err := lib.GetVariant(BasePBR, TargetWGSL, Options{Defines: Defines{"HAS_TEXCOORD": true, "HAS_NORMAL": true}})
	if err != nil {
		t.Fatal(err)
	}
	want := "base_pbr__HAS_NORMAL=true;HAS_TEXCOORD=true__webgpu"
	if v.Key != want {
		t.Errorf("key %q, want %q", v.Key, want)
	}

	v, err = lib.GetVariant(BaseMaterial, TargetGLSL, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if v.Key != "base_material__opengl" {
		t.Errorf("unexpected key without defines %q", v.Key)
	}
}

func TestDefineOverridePolicy(t *testing.T) {
	lib := NewLibrary()
	lib.Register("s", Variants{
		Defaults: Defines{"MODE": 1},
		GLSL:     &Source{Vertex: "void main() {}", Fragment: "void main() {}"},
	})

	v, err := lib.GetVariant("s", TargetGLSL, Options{Defines: Defines{"MODE": 2}})
	if err != nil {
		t.Fatal(err)
	}
	if v.Defines["MODE"] != 2 {
		t.Errorf("caller define should win by default, got %v", v.Defines["MODE"])
	}

	keep := false
	v, err = lib.GetVariant("s", TargetGLSL, Options{Defines: Defines{"MODE": 2}, OverrideDefaultDefines: &keep})
	if err != nil {
		t.Fatal(err)
	}
	if v.Defines["MODE"] != 1 {
		t.Errorf("registered default should win, got %v", v.Defines["MODE"])
	}
	if !strings.Contains(v.Vertex, "#define MODE 1\n") {
		t.Errorf("define not injected:\n%s", v.Vertex)
	}
}

func TestMissingAndPlaceholderVariants(t *testing.T) {
	lib := NewLibrary()
	v, err := lib.GetVariant("nope", TargetGLSL, Options{})
	if v != nil || err != nil {
		t.Errorf("unregistered name should give nil, nil; got %v, %v", v, err)
	}

	lib.Register("gl_only", Variants{GLSL: &Source{Vertex: "void main() {}", Fragment: "void main() {}"}})
	v, err = lib.GetVariant("gl_only", TargetWGSL, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if v == nil || !v.Placeholder || v.Code != "" {
		t.Errorf("expected an empty placeholder, got %+v", v)
	}

	lib.Register("half", Variants{GLSL: &Source{Vertex: "void main() {}"}})
	_, err = lib.GetVariant("half", TargetGLSL, Options{})
	if !errors.Is(err, ErrIncompleteSource) {
		t.Errorf("expected ErrIncompleteSource, got %v", err)
	}
}

func TestRegisterInvalidatesCache(t *testing.T) {
	lib := NewLibrary()
	lib.Register("s", Variants{GLSL: &Source{Vertex: "void main() {}", Fragment: "void main() { gl_FragColor = vec4(1.0); }"}})
	if _, err := lib.GetVariant("s", TargetGLSL, Options{}); err != nil {
		t.Fatal(err)
	}

	lib.Register("s", Variants{GLSL: &Source{Vertex: "void main() {}", Fragment: "void main() { gl_FragColor = vec4(0.5); }"}})
	v, err := lib.GetVariant("s", TargetGLSL, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(v.Fragment, "0.5") {
		t.Error("re-registration should replace the cached variant")
	}
	if lib.PreprocessCount() != 2 {
		t.Errorf("expected 2 preprocesses, got %d", lib.PreprocessCount())
	}

	lib.Unregister("s")
	if v, _ := lib.GetVariant("s", TargetGLSL, Options{}); v != nil {
		t.Error("unregistered shader should not resolve")
	}
}

func TestPreprocessGLSLDesktop(t *testing.T) {
	src := `
attribute vec3 aPosition;
varying vec2 vUV;
void main() {}`
	out := PreprocessGLSL(src, StageVertex, Defines{"HAS_NORMAL": true, "SKIPPED": false, "COUNT": 4}, false)

	if !strings.HasPrefix(out, "#version 330 core\n") {
		t.Fatalf("missing version header:\n%s", out)
	}
	if !strings.Contains(out, "#define HAS_NORMAL\n") || !strings.Contains(out, "#define COUNT 4\n") {
		t.Errorf("defines not injected:\n%s", out)
	}
	if strings.Contains(out, "SKIPPED") {
		t.Error("false defines must be omitted")
	}
	if !strings.Contains(out, "in vec3 aPosition;") || !strings.Contains(out, "out vec2 vUV;") {
		t.Errorf("attribute/varying not rewritten:\n%s", out)
	}
}

func TestPreprocessGLSLFragment(t *testing.T) {
	src := `varying vec2 vUV;
uniform sampler2D uMap;
void main() {
    gl_FragColor = texture2D(uMap, vUV);
}`
	out := PreprocessGLSL(src, StageFragment, nil, false)

	for _, want := range []string{"in vec2 vUV;", "out vec4 outColor;\nvoid main() {", "outColor = texture(uMap, vUV);"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gl_FragColor") || strings.Contains(out, "precision") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPreprocessGLSLLegacy(t *testing.T) {
	src := "  precision mediump float;\nvarying vec2 vUV;\nvoid main() { gl_FragColor = texture2D(uMap, vUV); }"
	out := PreprocessGLSL(src, StageFragment, Defines{"HAS_TEXCOORD": true}, true)

	want := "#version 120\n#define HAS_TEXCOORD\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("unexpected legacy output:\n%s", out)
	}
	if strings.Contains(out, "precision") {
		t.Errorf("GLSL 1.20 rejects precision statements:\n%s", out)
	}
	if !strings.Contains(out, "varying vec2 vUV;") || !strings.Contains(out, "gl_FragColor") {
		t.Error("legacy output must keep GLSL 1.x syntax")
	}
}

func TestPreprocessGLSLLegacyBuiltins(t *testing.T) {
	lib := NewLibrary()
	RegisterBuiltins(lib)
	v, err := lib.GetVariant(BasePhong, TargetGLSLLegacy, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, stage := range []string{v.Vertex, v.Fragment} {
		if !strings.HasPrefix(stage, legacyVersion+"\n") || strings.Contains(stage, "precision") {
			t.Errorf("legacy builtin not GLSL 1.20 ready:\n%s", stage)
		}
	}
}

func TestPreprocessGLSLKeepsExistingVersion(t *testing.T) {
	src := "#version 300 es\nvoid main() {}"
	out := PreprocessGLSL(src, StageFragment, Defines{"A": true}, false)

	want := "#version 300 es\nprecision mediump float;\n#define A\nvoid main() {}"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestPreprocessWGSLBlocks(t *testing.T) {
	src := `struct VertexInput {
    @location(0) aPosition : vec3<f32>,
    @define HAS_NORMAL {
    @location(1) aNormal : vec3<f32>,
    }
};
@define HAS_UV {
fn uv() -> vec2<f32> { return vec2<f32>(0.0); }
}
@define MARKER
fn main() {}
`
	out := PreprocessWGSL(src, Defines{"HAS_NORMAL": true, "HAS_UV": false})

	if !strings.Contains(out, "@location(1) aNormal") {
		t.Error("truthy block should be kept")
	}
	if strings.Contains(out, "fn uv") {
		t.Error("false block should be stripped")
	}
	if strings.Contains(out, "@define") {
		t.Errorf("define markers left behind:\n%s", out)
	}
	if !strings.Contains(out, "fn main() {}") {
		t.Error("code after markers must survive")
	}

	absent := PreprocessWGSL(src, nil)
	if strings.Contains(absent, "aNormal") {
		t.Error("absent define should strip its block")
	}
}

func TestBuiltinWGSLStripsUnsetAttributes(t *testing.T) {
	lib := newBuiltinLibrary()
	v, err := lib.GetVariant(BasePBR, TargetWGSL, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(v.Code, "aNormal") || strings.Contains(v.Code, "@define") {
		t.Errorf("position-only variant should not reference normals:\n%s", v.Code)
	}
	if len(v.Bindings) != 11 || v.Bindings[9].Role != RoleEmissive || v.Bindings[10].Kind != BindingSampler {
		t.Errorf("unexpected PBR bindings %+v", v.Bindings)
	}
}

func TestUniformLayout(t *testing.T) {
	l := Layout(pbrUniforms)

	offsets := map[string]int{}
	for _, f := range l.Fields {
		offsets[f.Name] = f.Offset
	}
	want := map[string]int{
		"normalMatrix": 128,
		"cameraPos":    176,
		"metallic":     188,
		"baseColor":    192,
		"emissive":     224,
		"ambientColor": 256,
		"lightColor":   272,
	}
	for name, off := range want {
		if offsets[name] != off {
			t.Errorf("%s at %d, want %d", name, offsets[name], off)
		}
	}
	if l.Size != 288 {
		t.Errorf("struct size %d, want 288", l.Size)
	}

	if Layout(unlitUniforms).Size != 144 {
		t.Errorf("unlit struct size %d, want 144", Layout(unlitUniforms).Size)
	}
}
