package pipeline

import (
	"errors"
	"strings"
	"testing"

	"iengine/internal/geometry"
)

func TestRenderStateKeyOnlyPresentFields(t *testing.T) {
	var empty RenderState
	if empty.Key() != "" {
		t.Errorf("empty state should have an empty key, got %q", empty.Key())
	}

	s := RenderState{
		CullFace:  Ptr(true),
		DepthTest: Ptr(true),
		BlendFunc: &BlendFunc{SrcRGB: BlendSrcAlpha, DstRGB: BlendOneMinusSrcAlpha, SrcAlpha: BlendOne, DstAlpha: BlendZero},
	}
	key := s.Key()
	if !strings.HasPrefix(key, "depthTest=true,blendFunc=") || !strings.HasSuffix(key, "cullFace=true") {
		t.Errorf("unexpected key order %q", key)
	}
	if strings.Contains(key, "depthWrite") {
		t.Error("absent fields must not be serialized")
	}
}

func TestMergeOverridesPresentFields(t *testing.T) {
	base := FromPrimitive(geometry.DefaultPrimitive())
	over := RenderState{CullFace: Ptr(false), DepthFunc: Ptr(CompareLessEqual)}

	m := Merge(base, over)
	if *m.CullFace || *m.DepthFunc != CompareLessEqual {
		t.Error("present fields should override")
	}
	if !*m.DepthTest || !*m.DepthWrite || *m.CullMode != FaceBack {
		t.Error("absent fields should keep the base value")
	}
}

func TestPipelineKeyJoinsParts(t *testing.T) {
	g := geometry.NewTriangle()
	key := Key(geometry.Triangles, g.Layout(), "base_material__opengl", RenderState{DepthTest: Ptr(true)})

	parts := strings.Split(key, "|")
	if len(parts) != 4 {
		t.Fatalf("expected 4 parts, got %q", key)
	}
	if parts[0] != "triangle-list" || parts[2] != "base_material__opengl" || parts[3] != "depthTest=true" {
		t.Errorf("unexpected key %q", key)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := NewCache[int]()
	builds := 0
	build := func() (int, error) {
		builds++
		return 7, nil
	}

	v, created, err := c.GetOrCreate("a", build)
	if err != nil || !created || v != 7 {
		t.Fatalf("first call: v=%d created=%v err=%v", v, created, err)
	}
	v, created, _ = c.GetOrCreate("a", build)
	if created || v != 7 || builds != 1 {
		t.Errorf("second call should hit the cache, builds=%d", builds)
	}

	boom := errors.New("boom")
	if _, _, err := c.GetOrCreate("b", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("failed builds must not be cached, len=%d", c.Len())
	}

	released := 0
	c.Clear(func(int) { released++ })
	if released != 1 || c.Len() != 0 {
		t.Errorf("clear should release every entry, released=%d", released)
	}
}
