package light

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Kind int

const (
	Ambient Kind = iota
	Directional
	Point
	Spot
)

func (k Kind) String() string {
	switch k {
	case Ambient:
		return "ambient"
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	}
	return "unknown"
}

// Light is a plain value light. Only the fields of its Kind are meaningful.
type Light struct {
	Kind      Kind
	Color     mgl32.Vec3
	Intensity float32

	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Range     float32
	Angle     float32 // spot cone half angle, radians

	CastShadow bool
	ShadowBias float32
}

var defaultDirection = mgl32.Vec3{0, -1, 0}

func NewAmbient(color mgl32.Vec3, intensity float32) *Light {
	return &Light{Kind: Ambient, Color: color, Intensity: intensity}
}

// NewDirectional creates a directional light (like the sun). A zero
// direction points straight down.
func NewDirectional(direction, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Kind:      Directional,
		Direction: normalizeOr(direction, defaultDirection),
		Color:     color,
		Intensity: intensity,
	}
}

func NewPoint(position, color mgl32.Vec3, intensity, rng float32) *Light {
	return &Light{
		Kind:      Point,
		Position:  position,
		Color:     color,
		Intensity: intensity,
		Range:     rng,
	}
}

// NewSpot creates a spot light with a pi/6 cone and a range of 100.
func NewSpot(position, direction, color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Kind:      Spot,
		Position:  position,
		Direction: normalizeOr(direction, defaultDirection),
		Color:     color,
		Intensity: intensity,
		Range:     100,
		Angle:     math.Pi / 6,
	}
}

// NewSunlight creates a warm directional light
func NewSunlight(direction mgl32.Vec3) *Light {
	return NewDirectional(direction, mgl32.Vec3{1.0, 0.95, 0.8}, 1.2)
}

func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return fallback
	}
	return v.Normalize()
}

// Key is the structural identity used to drop duplicate lights.
func (l *Light) Key() string {
	return fmt.Sprintf("%s|%v|%g|%v|%v|%g|%g|%t|%g",
		l.Kind, l.Color, l.Intensity, l.Position, l.Direction,
		l.Range, l.Angle, l.CastShadow, l.ShadowBias)
}

// Dedup removes nil lights and lights structurally equal to an earlier
// one. Order is preserved.
func Dedup(lights []*Light) []*Light {
	seen := make(map[string]struct{}, len(lights))
	out := make([]*Light, 0, len(lights))
	for _, l := range lights {
		if l == nil {
			continue
		}
		k := l.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}

// First returns the first light of kind k, or nil.
func First(lights []*Light, k Kind) *Light {
	for _, l := range lights {
		if l != nil && l.Kind == k {
			return l
		}
	}
	return nil
}
