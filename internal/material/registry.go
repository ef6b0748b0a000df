package material

import (
	"fmt"
	"sort"
	"sync"

	"iengine/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Factory builds a material of one kind with the given name.
type Factory func(name string) Material

// Registry shares materials by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	materials map[string]Material
}

// NewRegistry returns a registry with the base, phong and pbr factories.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		materials: make(map[string]Material),
	}
	r.RegisterFactory(KindBase.String(), func(name string) Material { return NewBase(name, mgl32.Vec4{1, 1, 1, 1}) })
	r.RegisterFactory(KindPhong.String(), func(name string) Material { return NewPhong(name) })
	r.RegisterFactory(KindPBR.String(), func(name string) Material { return NewPBR(name) })
	return r
}

func (r *Registry) RegisterFactory(kind string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
}

// Add stores m under its name, replacing any material with that name.
func (r *Registry) Add(m Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materials[m.Name()] = m
}

func (r *Registry) Get(name string) (Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.materials[name]
	return m, ok
}

// GetOrCreate returns the material called name, creating it with the
// factory for kind when it does not exist yet.
func (r *Registry) GetOrCreate(kind, name string) (Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.materials[name]; ok {
		return m, nil
	}
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown material kind %q", kind)
	}
	m := f(name)
	r.materials[name] = m

	logger.Log.Debug("Material created", zap.String("kind", kind), zap.String("name", name))
	return m, nil
}

// Remove drops the material and releases its compiled programs.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.materials[name]
	if !ok {
		return
	}
	m.Common().ReleasePrograms()
	delete(r.materials, name)
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.materials))
	for n := range r.materials {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
