package texture

import (
	"image"
	"sync"

	"iengine/internal/logger"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

type decoded struct {
	tex  *Texture
	path string
	img  *image.RGBA
	err  error
}

// Loader decodes image files on a worker pool. Decoded pixels are only
// handed to textures by Poll, which runs on the render thread.
type Loader struct {
	pool    pond.Pool
	maxSize int

	wg      sync.WaitGroup
	mu      sync.Mutex
	done    []decoded
	pending int
}

// NewLoader starts a pool with the given number of decode workers.
// Images larger than maxSize are scaled down, 0 keeps full size.
func NewLoader(workers, maxSize int) *Loader {
	if workers < 1 {
		workers = 1
	}
	return &Loader{
		pool:    pond.NewPool(workers),
		maxSize: maxSize,
	}
}

// Load schedules the decode of path into tex. The texture keeps whatever
// it shows now, usually the placeholder, until Poll applies the result.
func (l *Loader) Load(tex *Texture, path string) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	l.wg.Add(1)
	l.pool.Submit(func() {
		defer l.wg.Done()
		img, err := DecodeFile(path, l.maxSize)

		l.mu.Lock()
		l.done = append(l.done, decoded{tex: tex, path: path, img: img, err: err})
		l.mu.Unlock()
	})
}

// Poll applies finished decodes and returns how many were applied.
// Failed decodes are logged and leave the placeholder in place.
func (l *Loader) Poll() int {
	l.mu.Lock()
	batch := l.done
	l.done = nil
	l.pending -= len(batch)
	l.mu.Unlock()

	applied := 0
	for _, d := range batch {
		if d.err != nil {
			logger.Log.Error("Texture decode failed", zap.String("path", d.path), zap.Error(d.err))
			continue
		}
		d.tex.SetPixels(d.img.Rect.Dx(), d.img.Rect.Dy(), d.img.Pix)
		applied++

		logger.Log.Info("Texture loaded",
			zap.String("path", d.path),
			zap.Int("width", d.img.Rect.Dx()),
			zap.Int("height", d.img.Rect.Dy()))
	}
	return applied
}

// Pending is the number of loads not yet applied by Poll.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Wait blocks until every submitted decode has finished. Results still
// need a Poll to be applied.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close stops the pool after running queued decodes.
func (l *Loader) Close() {
	l.pool.StopAndWait()
}
