package scene

import (
	"iengine/internal/material"
	"iengine/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Node places a mesh in the world with a TRS transform.
type Node struct {
	Name     string
	Mesh     *mesh.Mesh
	Material material.Material
	Layer    Layer
	Visible  bool

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	world mgl32.Mat4
}

func NewNode(name string, m *mesh.Mesh, mat material.Material) *Node {
	n := &Node{
		Name:     name,
		Mesh:     m,
		Material: mat,
		Visible:  true,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
	n.updateWorld()
	return n
}

// Rotate applies rotations in degrees around X, then Y, then Z.
func (n *Node) Rotate(angleX, angleY, angleZ float32) {
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	n.Rotation = n.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	n.updateWorld()
}

func (n *Node) SetPosition(x, y, z float32) {
	n.Position = mgl32.Vec3{x, y, z}
	n.updateWorld()
}

func (n *Node) SetScale(x, y, z float32) {
	n.Scale = mgl32.Vec3{x, y, z}
	n.updateWorld()
}

// World returns translation * rotation * scale.
func (n *Node) World() mgl32.Mat4 { return n.world }

func (n *Node) updateWorld() {
	scaleMatrix := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	rotationMatrix := n.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	n.world = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
}

func (n *Node) Renderable() Renderable {
	return Renderable{Mesh: n.Mesh, Material: n.Material, Layer: n.Layer, World: n.world}
}
