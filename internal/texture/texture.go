package texture

import (
	"fmt"
	"image"

	"iengine/internal/gpu"
	"iengine/internal/logger"

	"go.uber.org/zap"
)

// Kind is the material slot a texture feeds. It picks the 1x1 default.
type Kind int

const (
	KindCustom Kind = iota
	KindBaseColor
	KindMetallicRoughness
	KindNormal
	KindOcclusion
	KindEmissive
	KindDiffuse
)

var solidPixels = map[Kind][4]uint8{
	KindBaseColor:         {255, 255, 255, 255},
	KindDiffuse:           {255, 255, 255, 255},
	KindMetallicRoughness: {0, 128, 0, 255},
	KindNormal:            {128, 128, 255, 255},
	KindOcclusion:         {255, 255, 255, 255},
	KindEmissive:          {0, 0, 0, 255},
}

// SolidColor returns the 1x1 default pixel of a kind.
func SolidColor(k Kind) [4]uint8 {
	if c, ok := solidPixels[k]; ok {
		return c
	}
	return [4]uint8{255, 255, 255, 255}
}

// 2x2 checkerboard shown until real pixels arrive
var placeholderPixels = []byte{
	255, 255, 255, 255, 192, 192, 192, 255,
	192, 192, 192, 255, 255, 255, 255, 255,
}

// Texture is the host side of a GPU texture. It always has pixels: the
// checkerboard placeholder stands in until an image is set.
type Texture struct {
	Name string
	Kind Kind

	width       int
	height      int
	pixels      []byte
	placeholder bool

	wrapS     gpu.WrapMode
	wrapT     gpu.WrapMode
	minFilter gpu.MinFilter
	magFilter gpu.MagFilter

	needsUpdate  bool
	samplerDirty bool

	handle    gpu.TextureHandle
	gpuWidth  int
	gpuHeight int
}

type Option func(*Texture)

func WithName(name string) Option {
	return func(t *Texture) { t.Name = name }
}

func WithKind(k Kind) Option {
	return func(t *Texture) { t.Kind = k }
}

func WithWrap(s, t gpu.WrapMode) Option {
	return func(tex *Texture) {
		tex.wrapS = s
		tex.wrapT = t
	}
}

func WithFilter(minFilter gpu.MinFilter, magFilter gpu.MagFilter) Option {
	return func(t *Texture) {
		t.minFilter = minFilter
		t.magFilter = magFilter
	}
}

func WithImage(img image.Image) Option {
	return func(t *Texture) { t.SetImage(img) }
}

// New returns a 2x2 placeholder texture with repeat wrapping and linear filtering.
func New(opts ...Option) *Texture {
	t := &Texture{
		wrapS:     gpu.WrapRepeat,
		wrapT:     gpu.WrapRepeat,
		minFilter: gpu.MinLinear,
		magFilter: gpu.MagLinear,
	}
	t.usePlaceholder()
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewSolid returns the 1x1 default texture for a material slot.
func NewSolid(k Kind, opts ...Option) *Texture {
	t := New(append([]Option{WithKind(k)}, opts...)...)
	c := SolidColor(k)
	t.SetPixels(1, 1, c[:])
	return t
}

func (t *Texture) usePlaceholder() {
	t.width, t.height = 2, 2
	t.pixels = placeholderPixels
	t.placeholder = true
	t.needsUpdate = true
}

// SetImage converts img to tight RGBA. A nil image restores the placeholder.
func (t *Texture) SetImage(img image.Image) {
	if img == nil {
		t.usePlaceholder()
		return
	}
	rgba := ToRGBA(img, 0)
	t.SetPixels(rgba.Rect.Dx(), rgba.Rect.Dy(), rgba.Pix)
}

// SetPixels replaces the pixel data. rgba must hold w*h*4 bytes.
func (t *Texture) SetPixels(w, h int, rgba []byte) {
	if w <= 0 || h <= 0 || len(rgba) != w*h*4 {
		logger.Log.Warn("Invalid texture pixels, using placeholder",
			zap.String("texture", t.Name),
			zap.Int("width", w),
			zap.Int("height", h),
			zap.Int("bytes", len(rgba)))
		t.usePlaceholder()
		return
	}
	t.width, t.height = w, h
	t.pixels = rgba
	t.placeholder = false
	t.needsUpdate = true
}

func (t *Texture) SetWrap(s, wt gpu.WrapMode) {
	t.wrapS, t.wrapT = s, wt
	t.samplerDirty = true
	t.needsUpdate = true
}

func (t *Texture) SetFilter(minFilter gpu.MinFilter, magFilter gpu.MagFilter) {
	t.minFilter, t.magFilter = minFilter, magFilter
	t.samplerDirty = true
	t.needsUpdate = true
}

func (t *Texture) Width() int                { return t.width }
func (t *Texture) Height() int               { return t.height }
func (t *Texture) Pixels() []byte            { return t.pixels }
func (t *Texture) IsPlaceholder() bool       { return t.placeholder }
func (t *Texture) NeedsUpdate() bool         { return t.needsUpdate }
func (t *Texture) Handle() gpu.TextureHandle { return t.handle }
func (t *Texture) WrapS() gpu.WrapMode       { return t.wrapS }
func (t *Texture) WrapT() gpu.WrapMode       { return t.wrapT }
func (t *Texture) MinFilter() gpu.MinFilter  { return t.minFilter }
func (t *Texture) MagFilter() gpu.MagFilter  { return t.magFilter }

// Descriptor describes the GPU object for the current pixels.
func (t *Texture) Descriptor() gpu.TextureDescriptor {
	return gpu.TextureDescriptor{
		Label:     t.Name,
		Width:     t.width,
		Height:    t.height,
		WrapS:     t.wrapS,
		WrapT:     t.wrapT,
		MinFilter: t.minFilter,
		MagFilter: t.magFilter,
	}
}

// Upload makes the GPU texture current. The GPU object is recreated when
// its size changed and either force is set or the backend cannot resize
// textures in place. Pixels are written whenever the texture is dirty.
func (t *Texture) Upload(ctx gpu.Context, force bool) error {
	if len(t.pixels) == 0 {
		t.usePlaceholder()
	}

	if t.handle != nil {
		resized := t.width != t.gpuWidth || t.height != t.gpuHeight
		if t.samplerDirty || (resized && (force || ctx.Caps().RequiresRecreateOnResize)) {
			ctx.DeleteTexture(t.handle)
			t.handle = nil
		}
	}

	if t.handle == nil {
		h, err := ctx.CreateTexture(t.Descriptor())
		if err != nil {
			return fmt.Errorf("create texture %q: %w", t.Name, err)
		}
		t.handle = h
		t.gpuWidth, t.gpuHeight = t.width, t.height
		t.samplerDirty = false
		t.needsUpdate = true
	}

	if t.needsUpdate {
		if err := ctx.WriteTexture(t.handle, t.width, t.height, t.pixels); err != nil {
			return fmt.Errorf("write texture %q: %w", t.Name, err)
		}
		t.gpuWidth, t.gpuHeight = t.width, t.height
		t.needsUpdate = false
	}
	return nil
}

// Release deletes the GPU object. Host pixels are kept.
func (t *Texture) Release(ctx gpu.Context) {
	if t.handle == nil {
		return
	}
	ctx.DeleteTexture(t.handle)
	t.handle = nil
	t.needsUpdate = true
}
