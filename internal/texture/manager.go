package texture

import (
	"sync"

	"iengine/internal/gpu"
	"iengine/internal/logger"

	"go.uber.org/zap"
)

// Stats provides debugging and profiling information
type Stats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

type entry struct {
	tex  *Texture
	refs int
}

// Manager shares textures by file path and counts references to them.
// Loading is delegated to a Loader, so Acquire never blocks on disk.
type Manager struct {
	loader *Loader
	cache  map[string]*entry
	mu     sync.RWMutex
	stats  Stats
}

func NewManager(loader *Loader) *Manager {
	return &Manager{
		loader: loader,
		cache:  make(map[string]*entry),
	}
}

// Acquire returns the texture for path, creating a placeholder texture and
// scheduling its decode on a cache miss.
func (m *Manager) Acquire(path string, opts ...Option) *Texture {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.cache[path]; ok {
		e.refs++
		m.stats.CacheHits++

		logger.Log.Debug("Texture cache hit",
			zap.String("path", path),
			zap.Int("refCount", e.refs))
		return e.tex
	}

	m.stats.CacheMisses++
	tex := New(append([]Option{WithName(path)}, opts...)...)
	m.cache[path] = &entry{tex: tex, refs: 1}
	m.stats.TotalTextures++

	if m.loader != nil {
		m.loader.Load(tex, path)
	}
	return tex
}

// Release drops one reference. The GPU object is freed when the last
// reference goes away.
func (m *Manager) Release(ctx gpu.Context, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.cache[path]
	if !ok {
		logger.Log.Warn("Attempted to release unknown texture", zap.String("path", path))
		return
	}

	e.refs--
	if e.refs > 0 {
		return
	}
	if ctx != nil {
		e.tex.Release(ctx)
	}
	delete(m.cache, path)

	logger.Log.Info("Texture freed", zap.String("path", path))
}

// RefCount returns the number of live references to path.
func (m *Manager) RefCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.cache[path]; ok {
		return e.refs
	}
	return 0
}

func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := m.stats
	stats.ActiveTextures = len(m.cache)
	return stats
}

// LogStats logs current texture statistics
func (m *Manager) LogStats() {
	stats := m.Stats()
	hitRate := 0.0
	if total := stats.CacheHits + stats.CacheMisses; total > 0 {
		hitRate = float64(stats.CacheHits) / float64(total)
	}
	logger.Log.Info("Texture Manager Stats",
		zap.Int("totalTextures", stats.TotalTextures),
		zap.Int("activeTextures", stats.ActiveTextures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Float64("hitRate", hitRate))
}

// Clear releases every texture regardless of reference counts.
func (m *Manager) Clear(ctx gpu.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx != nil {
		for _, e := range m.cache {
			e.tex.Release(ctx)
		}
	}
	m.cache = make(map[string]*entry)
	logger.Log.Info("Texture manager cleared")
}
