package opengl

import (
	"github.com/go-gl/mathgl/mgl32"
)

// UniformCache caches uniform locations to avoid repeated GetUniformLocation calls
type UniformCache struct {
	api       API
	locations map[string]int32
	program   uint32
}

// NewUniformCache creates a new uniform cache for a shader program
func NewUniformCache(api API, program uint32) *UniformCache {
	return &UniformCache{
		api:       api,
		locations: make(map[string]int32),
		program:   program,
	}
}

// GetLocation returns the cached uniform location or fetches and caches it.
// Missing uniforms are cached as -1.
func (uc *UniformCache) GetLocation(name string) int32 {
	if loc, exists := uc.locations[name]; exists {
		return loc
	}

	loc := uc.api.GetUniformLocation(uc.program, name)
	uc.locations[name] = loc
	return loc
}

// Set uploads value with the setter matching its Go type. It reports
// false when the type is not supported or the program has no such uniform.
func (uc *UniformCache) Set(name string, value any) bool {
	loc := uc.GetLocation(name)
	if loc == -1 {
		return false
	}

	switch v := value.(type) {
	case float32:
		uc.api.Uniform1f(loc, v)
	case float64:
		uc.api.Uniform1f(loc, float32(v))
	case int32:
		uc.api.Uniform1i(loc, v)
	case int:
		uc.api.Uniform1i(loc, int32(v))
	case bool:
		var i int32
		if v {
			i = 1
		}
		uc.api.Uniform1i(loc, i)
	case mgl32.Vec2:
		uc.api.Uniform2f(loc, v[0], v[1])
	case mgl32.Vec3:
		uc.api.Uniform3f(loc, v[0], v[1], v[2])
	case mgl32.Vec4:
		uc.api.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case mgl32.Mat3:
		uc.api.UniformMatrix3fv(loc, v)
	case mgl32.Mat4:
		uc.api.UniformMatrix4fv(loc, v)
	default:
		return false
	}
	return true
}

// Clear clears the cache (call when shader program changes)
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
}
