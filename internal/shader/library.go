package shader

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"iengine/internal/logger"

	"go.uber.org/zap"
)

// ErrIncompleteSource is returned when a registration lacks the sources
// the requested target needs.
var ErrIncompleteSource = errors.New("incomplete shader source")

// Defines are preprocessor macros. Values are bool, numbers or strings.
type Defines map[string]any

// Merge returns a new map with the entries of each map applied in order,
// later maps win.
func Merge(maps ...Defines) Defines {
	out := Defines{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Key is the canonical "k=v;k=v" form with keys sorted.
func (d Defines) Key() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%s=%v", k, d[k])
	}
	return sb.String()
}

// Target selects the source dialect a variant is produced for.
type Target int

const (
	TargetGLSL Target = iota
	TargetGLSLLegacy
	TargetWGSL
)

func (t Target) String() string {
	switch t {
	case TargetGLSL:
		return "opengl"
	case TargetGLSLLegacy:
		return "opengl-legacy"
	case TargetWGSL:
		return "webgpu"
	}
	return "unknown"
}

// Source is one dialect of a shader. GLSL uses Vertex and Fragment, WGSL
// uses Code with vs_main and fs_main entry points plus the uniform struct
// and bind group description.
type Source struct {
	Vertex   string
	Fragment string
	Code     string

	Uniforms []UniformField
	Bindings []Binding
}

// Variants holds every dialect registered under one logical name.
// A nil dialect means the shader is not implemented for that backend.
type Variants struct {
	Defaults Defines
	GLSL     *Source
	WGSL     *Source
}

// Variant is a preprocessed shader ready for compilation.
type Variant struct {
	Name   string
	Target Target
	Key    string

	Vertex   string
	Fragment string
	Code     string

	Defines  Defines
	Uniforms []UniformField
	Bindings []Binding

	// Placeholder is set when the target has no implementation. All sources are empty.
	Placeholder bool
}

// Options control define merging in GetVariant.
type Options struct {
	Defines Defines
	// OverrideDefaultDefines lets caller defines win over registered
	// defaults. Nil means true.
	OverrideDefaultDefines *bool
}

// Library stores registered shaders and caches their preprocessed variants.
type Library struct {
	mu          sync.Mutex
	shaders     map[string]Variants
	cache       map[string]*Variant
	preprocessN int
}

func NewLibrary() *Library {
	return &Library{
		shaders: make(map[string]Variants),
		cache:   make(map[string]*Variant),
	}
}

// Register stores v under name, replacing any earlier registration and
// dropping its cached variants.
func (l *Library) Register(name string, v Variants) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.shaders[name] = v
	l.dropCached(name)
}

func (l *Library) Unregister(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.shaders, name)
	l.dropCached(name)
}

func (l *Library) dropCached(name string) {
	for k, v := range l.cache {
		if v.Name == name {
			delete(l.cache, k)
		}
	}
}

// ClearCache drops every cached variant. Registrations are kept.
func (l *Library) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Variant)
}

// Names returns the registered shader names, sorted.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.shaders))
	for n := range l.shaders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PreprocessCount is the number of cache misses served so far.
func (l *Library) PreprocessCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.preprocessN
}

// VariantKey builds the cache key for name, merged defines and target.
func VariantKey(name string, defines Defines, target Target) string {
	if len(defines) == 0 {
		return name + "__" + target.String()
	}
	return name + "__" + defines.Key() + "__" + target.String()
}

// GetVariant returns the preprocessed shader for name on target.
// It returns nil, nil when name was never registered.
func (l *Library) GetVariant(name string, target Target, opts Options) (*Variant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reg, ok := l.shaders[name]
	if !ok {
		return nil, nil
	}

	src := reg.GLSL
	if target == TargetWGSL {
		src = reg.WGSL
	}
	if src == nil {
		return &Variant{Name: name, Target: target, Placeholder: true}, nil
	}

	override := opts.OverrideDefaultDefines == nil || *opts.OverrideDefaultDefines
	var merged Defines
	if override {
		merged = Merge(reg.Defaults, opts.Defines)
	} else {
		merged = Merge(opts.Defines, reg.Defaults)
	}

	key := VariantKey(name, merged, target)
	if v, ok := l.cache[key]; ok {
		return v, nil
	}

	v := &Variant{
		Name:    name,
		Target:  target,
		Key:     key,
		Defines: merged,
	}

	if target == TargetWGSL {
		if strings.TrimSpace(src.Code) == "" {
			return &Variant{Name: name, Target: target, Placeholder: true}, nil
		}
		v.Code = PreprocessWGSL(src.Code, merged)
		v.Uniforms = src.Uniforms
		v.Bindings = src.Bindings
	} else {
		if strings.TrimSpace(src.Vertex) == "" || strings.TrimSpace(src.Fragment) == "" {
			return nil, fmt.Errorf("%w: %s needs a vertex and a fragment stage", ErrIncompleteSource, name)
		}
		legacy := target == TargetGLSLLegacy
		v.Vertex = PreprocessGLSL(src.Vertex, StageVertex, merged, legacy)
		v.Fragment = PreprocessGLSL(src.Fragment, StageFragment, merged, legacy)
	}

	l.preprocessN++
	l.cache[key] = v

	logger.Log.Debug("Shader variant preprocessed",
		zap.String("shader", name),
		zap.String("key", key))
	return v, nil
}
