package gpu

import "errors"

// ErrBufferOverflow is returned when a write does not fit the allocation.
var ErrBufferOverflow = errors.New("write exceeds buffer size")

// Backend identifies the graphics API behind a context.
type Backend int

const (
	BackendOpenGL Backend = iota
	BackendWebGPU
)

func (b Backend) String() string {
	switch b {
	case BackendOpenGL:
		return "opengl"
	case BackendWebGPU:
		return "webgpu"
	}
	return "unknown"
}

// Caps are the device capabilities the upload layer and renderer consult.
type Caps struct {
	// Textures must be recreated, not re-specified, when their size changes.
	RequiresRecreateOnResize bool
	MaxTextureUnits          int
	MaxTextureSize           int
}

type BufferKind int

const (
	BufferVertex BufferKind = iota
	BufferIndex
	BufferUniform
)

type Buffer interface {
	Size() int
}

type TextureHandle interface {
	Width() int
	Height() int
}

type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

type MinFilter int

const (
	MinNearest MinFilter = iota
	MinLinear
	MinNearestMipmapNearest
	MinLinearMipmapNearest
	MinNearestMipmapLinear
	MinLinearMipmapLinear
)

// UsesMipmaps reports whether the filter samples a mip chain.
func (f MinFilter) UsesMipmaps() bool {
	return f >= MinNearestMipmapNearest
}

type MagFilter int

const (
	MagNearest MagFilter = iota
	MagLinear
)

type TextureDescriptor struct {
	Label     string
	Width     int
	Height    int
	WrapS     WrapMode
	WrapT     WrapMode
	MinFilter MinFilter
	MagFilter MagFilter
}

// Context is the device wrapper used by the resource upload layer.
// All methods must be called from the render thread.
type Context interface {
	Backend() Backend
	Caps() Caps

	CreateBuffer(kind BufferKind, size int, label string) (Buffer, error)
	// WriteBuffer never resizes, writes past Size return ErrBufferOverflow.
	WriteBuffer(buf Buffer, offset int, data []byte) error
	DeleteBuffer(buf Buffer)

	CreateTexture(desc TextureDescriptor) (TextureHandle, error)
	WriteTexture(tex TextureHandle, width, height int, rgba []byte) error
	DeleteTexture(tex TextureHandle)
}

// CheckWrite validates a sub write against a buffer.
func CheckWrite(buf Buffer, offset, n int) error {
	if offset < 0 || offset+n > buf.Size() {
		return ErrBufferOverflow
	}
	return nil
}

// Program is a compiled shader variant. ID is stable for the life of the
// program and is used as the shader identity in pipeline keys.
type Program interface {
	ID() string
	Release()
}
