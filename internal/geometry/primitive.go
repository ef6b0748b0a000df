package geometry

// Topology is the primitive assembly mode.
type Topology int

const (
	Triangles Topology = iota
	TriangleStrip
	Lines
	LineStrip
	Points
)

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangle-list"
	case TriangleStrip:
		return "triangle-strip"
	case Lines:
		return "line-list"
	case LineStrip:
		return "line-strip"
	case Points:
		return "point-list"
	}
	return "unknown"
}

type CullFace int

const (
	CullBack CullFace = iota
	CullFront
	CullNone
)

// Primitive is the per mesh assembly and depth state.
type Primitive struct {
	Topology   Topology
	DepthTest  bool
	DepthWrite bool
	CullFace   CullFace
}

// DefaultPrimitive draws depth tested back-face culled triangles.
func DefaultPrimitive() Primitive {
	return Primitive{
		Topology:   Triangles,
		DepthTest:  true,
		DepthWrite: true,
		CullFace:   CullBack,
	}
}
