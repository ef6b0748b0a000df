package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"iengine/internal/gpu"
	"iengine/internal/gpu/gputest"
)

func TestNewTextureUsesPlaceholder(t *testing.T) {
	tex := New(WithName("albedo"))

	if tex.Width() != 2 || tex.Height() != 2 {
		t.Fatalf("expected 2x2 placeholder, got %dx%d", tex.Width(), tex.Height())
	}
	want := []byte{
		255, 255, 255, 255, 192, 192, 192, 255,
		192, 192, 192, 255, 255, 255, 255, 255,
	}
	if !bytes.Equal(tex.Pixels(), want) {
		t.Errorf("unexpected placeholder pixels %v", tex.Pixels())
	}
	if tex.WrapS() != gpu.WrapRepeat || tex.WrapT() != gpu.WrapRepeat {
		t.Error("default wrap should be repeat")
	}
	if !tex.NeedsUpdate() || !tex.IsPlaceholder() {
		t.Error("new texture should be a dirty placeholder")
	}
}

func TestSolidDefaults(t *testing.T) {
	cases := map[Kind][4]uint8{
		KindBaseColor:         {255, 255, 255, 255},
		KindMetallicRoughness: {0, 128, 0, 255},
		KindNormal:            {128, 128, 255, 255},
		KindOcclusion:         {255, 255, 255, 255},
		KindEmissive:          {0, 0, 0, 255},
	}
	for kind, want := range cases {
		tex := NewSolid(kind)
		if tex.Width() != 1 || tex.Height() != 1 {
			t.Errorf("kind %d should be 1x1", kind)
		}
		if !bytes.Equal(tex.Pixels(), want[:]) {
			t.Errorf("kind %d pixels %v, want %v", kind, tex.Pixels(), want)
		}
	}
}

func TestUploadWritesOnlyWhenDirty(t *testing.T) {
	ctx := gputest.New()
	tex := New()

	if err := tex.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := tex.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}
	if ctx.Calls.TextureCreates != 1 || ctx.Calls.TextureWrites != 1 {
		t.Errorf("expected 1 create and 1 write, got %+v", ctx.Calls)
	}
	if tex.NeedsUpdate() {
		t.Error("needsUpdate should be cleared after upload")
	}

	tex.SetPixels(2, 2, make([]byte, 16))
	if err := tex.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}
	if ctx.Calls.TextureCreates != 1 || ctx.Calls.TextureWrites != 2 {
		t.Errorf("same size update should only rewrite pixels, got %+v", ctx.Calls)
	}
}

func TestResizeWithoutForceKeepsObject(t *testing.T) {
	ctx := gputest.New()
	tex := New()
	if err := tex.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	tex.SetPixels(4, 4, make([]byte, 64))
	if err := tex.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	if ctx.Calls.TextureCreates != 1 || ctx.Calls.TextureDeletes != 0 {
		t.Errorf("resizable backend should respecify in place, got %+v", ctx.Calls)
	}
	if tex.Handle().Width() != 4 {
		t.Errorf("handle should report new width, got %d", tex.Handle().Width())
	}
}

func TestResizeRecreatesWhenForced(t *testing.T) {
	ctx := gputest.New()
	tex := New()
	if err := tex.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	tex.SetPixels(4, 4, make([]byte, 64))
	if err := tex.Upload(ctx, true); err != nil {
		t.Fatal(err)
	}

	if ctx.Calls.TextureCreates != 2 || ctx.Calls.TextureDeletes != 1 {
		t.Errorf("forced resize should recreate, got %+v", ctx.Calls)
	}
	// deletion precedes replacement
	log := ctx.Log
	if log[len(log)-3] != "DeleteTexture" || log[len(log)-2] != "CreateTexture" {
		t.Errorf("unexpected call order %v", log)
	}
}

func TestResizeRecreatesOnImmutableBackend(t *testing.T) {
	ctx := gputest.NewRecreating()
	tex := New()
	if err := tex.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	tex.SetPixels(8, 4, make([]byte, 8*4*4))
	if err := tex.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}

	if ctx.Calls.TextureCreates != 2 || ctx.Calls.TextureDeletes != 1 {
		t.Errorf("immutable backend must recreate on resize, got %+v", ctx.Calls)
	}
}

func TestInvalidPixelsFallBackToPlaceholder(t *testing.T) {
	tex := New()
	tex.SetPixels(4, 4, make([]byte, 10))

	if !tex.IsPlaceholder() || tex.Width() != 2 {
		t.Error("invalid pixel data should restore the placeholder")
	}
}

func TestToRGBAScalesDown(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	dst := ToRGBA(src, 16)

	if dst.Rect.Dx() != 16 || dst.Rect.Dy() != 8 {
		t.Errorf("expected 16x8, got %dx%d", dst.Rect.Dx(), dst.Rect.Dy())
	}
	if dst.Stride != 16*4 {
		t.Errorf("stride should be tight, got %d", dst.Stride)
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderAppliesOnPoll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brick.png")
	writePNG(t, path, 4, 2)

	loader := NewLoader(2, 0)
	defer loader.Close()

	tex := New(WithName("brick"))
	loader.Load(tex, path)
	loader.Wait()

	if !tex.IsPlaceholder() {
		t.Fatal("texture must not change before Poll")
	}
	if n := loader.Poll(); n != 1 {
		t.Fatalf("expected 1 applied decode, got %d", n)
	}
	if tex.Width() != 4 || tex.Height() != 2 || tex.IsPlaceholder() {
		t.Errorf("unexpected texture state %dx%d", tex.Width(), tex.Height())
	}
	if tex.Pixels()[0] != 10 || tex.Pixels()[2] != 30 {
		t.Errorf("unexpected pixel data %v", tex.Pixels()[:4])
	}
	if loader.Pending() != 0 {
		t.Errorf("expected no pending loads, got %d", loader.Pending())
	}
}

func TestLoaderKeepsPlaceholderOnFailure(t *testing.T) {
	loader := NewLoader(1, 0)
	defer loader.Close()

	tex := New()
	loader.Load(tex, filepath.Join(t.TempDir(), "missing.png"))
	loader.Wait()

	if n := loader.Poll(); n != 0 {
		t.Errorf("failed decode should not be applied, got %d", n)
	}
	if !tex.IsPlaceholder() {
		t.Error("placeholder should be kept on failure")
	}
}

func TestManagerRefCounting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stone.png")
	writePNG(t, path, 2, 2)

	loader := NewLoader(1, 0)
	defer loader.Close()
	mgr := NewManager(loader)
	ctx := gputest.New()

	a := mgr.Acquire(path)
	b := mgr.Acquire(path)
	if a != b {
		t.Fatal("same path should return the same texture")
	}
	if mgr.RefCount(path) != 2 {
		t.Errorf("expected 2 refs, got %d", mgr.RefCount(path))
	}

	stats := mgr.Stats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 || stats.ActiveTextures != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if err := a.Upload(ctx, false); err != nil {
		t.Fatal(err)
	}
	mgr.Release(ctx, path)
	if ctx.Calls.TextureDeletes != 0 {
		t.Error("texture should survive while referenced")
	}
	mgr.Release(ctx, path)
	if ctx.Calls.TextureDeletes != 1 {
		t.Error("last release should free the GPU texture")
	}
	if mgr.Stats().ActiveTextures != 0 {
		t.Error("released texture should leave the cache")
	}
	loader.Wait()
}
