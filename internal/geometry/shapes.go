package geometry

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// NewTriangle returns a single position-only triangle in the XY plane.
func NewTriangle() *Geometry {
	return New(Data{
		Position: []float32{
			0, 1, 0,
			-1, -1, 0,
			1, -1, 0,
		},
	})
}

// cube faces: normal, then the four corners in winding order
var cubeFaces = [6]struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}{
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}, {1, -1, -1}}},
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, -1}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
}

var quadUV = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// NewCube returns an indexed cube centered on the origin with per face
// normals and UVs. 24 vertices, 36 indices.
func NewCube(size float32) *Geometry {
	half := size / 2
	d := Data{
		Position: make([]float32, 0, 24*3),
		Normal:   make([]float32, 0, 24*3),
		UV:       make([]float32, 0, 24*2),
		Indices:  make([]uint32, 0, 36),
	}

	for f, face := range cubeFaces {
		for i, c := range face.corners {
			p := c.Mul(half)
			d.Position = append(d.Position, p.X(), p.Y(), p.Z())
			d.Normal = append(d.Normal, face.normal.X(), face.normal.Y(), face.normal.Z())
			d.UV = append(d.UV, quadUV[i][0], quadUV[i][1])
		}
		base := uint32(f * 4)
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return New(d)
}

// NewPlane returns a flat grid on the XZ plane with gridSize*gridSize vertices.
func NewPlane(gridSize int, gridSpacing float32) *Geometry {
	return NewTerrain(TerrainOptions{GridSize: gridSize, Spacing: gridSpacing})
}

// TerrainOptions configures NewTerrain. A zero Amplitude gives a flat plane.
type TerrainOptions struct {
	GridSize  int
	Spacing   float32
	Amplitude float32
	Frequency float64
	Seed      int64
}

// NewTerrain builds a perlin height field with smooth normals.
func NewTerrain(opts TerrainOptions) *Geometry {
	n := opts.GridSize
	if n < 2 {
		n = 2
	}
	freq := opts.Frequency
	if freq == 0 {
		freq = 0.1
	}

	var noise *perlin.Perlin
	if opts.Amplitude != 0 {
		noise = perlin.NewPerlin(2, 2, 3, opts.Seed)
	}
	height := func(x, z int) float32 {
		if noise == nil {
			return 0
		}
		return float32(noise.Noise2D(float64(x)*freq, float64(z)*freq)) * opts.Amplitude
	}

	d := Data{
		Position: make([]float32, 0, n*n*3),
		Normal:   make([]float32, 0, n*n*3),
		UV:       make([]float32, 0, n*n*2),
		Indices:  make([]uint32, 0, (n-1)*(n-1)*6),
	}

	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			d.Position = append(d.Position, float32(x)*opts.Spacing, height(x, z), float32(z)*opts.Spacing)

			// central differences over the height field
			dx := height(x+1, z) - height(x-1, z)
			dz := height(x, z+1) - height(x, z-1)
			normal := mgl32.Vec3{-dx, 2 * opts.Spacing, -dz}
			if normal.Len() > 0 {
				normal = normal.Normalize()
			} else {
				normal = mgl32.Vec3{0, 1, 0}
			}
			d.Normal = append(d.Normal, normal.X(), normal.Y(), normal.Z())
			d.UV = append(d.UV, float32(x)/float32(n-1), float32(z)/float32(n-1))
		}
	}

	for x := 0; x < n-1; x++ {
		for z := 0; z < n-1; z++ {
			topLeft := uint32(x*n + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*n + z)
			bottomRight := bottomLeft + 1

			d.Indices = append(d.Indices, topLeft, topRight, bottomRight, topLeft, bottomRight, bottomLeft)
		}
	}
	return New(d)
}
