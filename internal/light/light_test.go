package light

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDirectionalNormalizes(t *testing.T) {
	l := NewDirectional(mgl32.Vec3{0, -4, 0}, mgl32.Vec3{1, 1, 1}, 2)
	if !l.Direction.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("direction not normalized: %v", l.Direction)
	}

	l = NewDirectional(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 2)
	if l.Direction != defaultDirection {
		t.Errorf("zero direction should fall back, got %v", l.Direction)
	}
}

func TestSpotDefaults(t *testing.T) {
	l := NewSpot(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	if l.Range != 100 || math.Abs(float64(l.Angle)-math.Pi/6) > 1e-6 {
		t.Errorf("unexpected spot defaults range=%g angle=%g", l.Range, l.Angle)
	}
}

func TestDedupByStructure(t *testing.T) {
	a := NewDirectional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 10)
	b := NewDirectional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 10)
	c := NewAmbient(mgl32.Vec3{0.2, 0.2, 0.2}, 1)

	out := Dedup([]*Light{a, nil, b, c})
	if len(out) != 2 || out[0] != a || out[1] != c {
		t.Errorf("unexpected dedup result %v", out)
	}
}

func TestFirst(t *testing.T) {
	amb := NewAmbient(mgl32.Vec3{1, 1, 1}, 1)
	d1 := NewSunlight(mgl32.Vec3{1, -1, 0})
	d2 := NewDirectional(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)

	lights := []*Light{amb, d1, d2}
	if First(lights, Directional) != d1 {
		t.Error("expected the first directional light")
	}
	if First(lights, Spot) != nil {
		t.Error("expected nil for a missing kind")
	}
}
