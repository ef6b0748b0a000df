// Package gputest provides a recording gpu.Context for tests.
package gputest

import (
	"fmt"

	"iengine/internal/gpu"
)

type Buffer struct {
	ID    int
	Kind  gpu.BufferKind
	Label string
	Data  []byte
}

func (b *Buffer) Size() int { return len(b.Data) }

type Texture struct {
	ID     int
	Desc   gpu.TextureDescriptor
	W, H   int
	Pixels []byte
}

func (t *Texture) Width() int  { return t.W }
func (t *Texture) Height() int { return t.H }

// Counters tracks every call made against the context.
type Counters struct {
	BufferCreates  int
	BufferWrites   int
	BufferDeletes  int
	TextureCreates int
	TextureWrites  int
	TextureDeletes int
}

// Context records calls and keeps buffer contents in memory.
type Context struct {
	Kind         gpu.Backend
	Capabilities gpu.Caps
	Calls        Counters

	// Log is the ordered list of call names.
	Log []string

	nextID int
}

var _ gpu.Context = (*Context)(nil)

// New returns a fake with OpenGL style capabilities.
func New() *Context {
	return &Context{
		Kind: gpu.BackendOpenGL,
		Capabilities: gpu.Caps{
			MaxTextureUnits: 16,
			MaxTextureSize:  4096,
		},
	}
}

// NewRecreating returns a fake that requires texture recreation on resize.
func NewRecreating() *Context {
	c := New()
	c.Kind = gpu.BackendWebGPU
	c.Capabilities.RequiresRecreateOnResize = true
	return c
}

func (c *Context) Backend() gpu.Backend { return c.Kind }
func (c *Context) Caps() gpu.Caps       { return c.Capabilities }

func (c *Context) record(name string) {
	c.Log = append(c.Log, name)
}

func (c *Context) CreateBuffer(kind gpu.BufferKind, size int, label string) (gpu.Buffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative buffer size %d", size)
	}
	c.nextID++
	c.Calls.BufferCreates++
	c.record("CreateBuffer")
	return &Buffer{ID: c.nextID, Kind: kind, Label: label, Data: make([]byte, size)}, nil
}

func (c *Context) WriteBuffer(buf gpu.Buffer, offset int, data []byte) error {
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("foreign buffer %T", buf)
	}
	if err := gpu.CheckWrite(b, offset, len(data)); err != nil {
		return err
	}
	c.Calls.BufferWrites++
	c.record("WriteBuffer")
	copy(b.Data[offset:], data)
	return nil
}

func (c *Context) DeleteBuffer(buf gpu.Buffer) {
	if buf == nil {
		return
	}
	c.Calls.BufferDeletes++
	c.record("DeleteBuffer")
}

func (c *Context) CreateTexture(desc gpu.TextureDescriptor) (gpu.TextureHandle, error) {
	c.nextID++
	c.Calls.TextureCreates++
	c.record("CreateTexture")
	return &Texture{ID: c.nextID, Desc: desc, W: desc.Width, H: desc.Height}, nil
}

func (c *Context) WriteTexture(tex gpu.TextureHandle, width, height int, rgba []byte) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("foreign texture %T", tex)
	}
	if len(rgba) != width*height*4 {
		return fmt.Errorf("pixel data is %d bytes, want %d", len(rgba), width*height*4)
	}
	c.Calls.TextureWrites++
	c.record("WriteTexture")
	t.W, t.H = width, height
	t.Pixels = append(t.Pixels[:0], rgba...)
	return nil
}

func (c *Context) DeleteTexture(tex gpu.TextureHandle) {
	if tex == nil {
		return
	}
	c.Calls.TextureDeletes++
	c.record("DeleteTexture")
}
