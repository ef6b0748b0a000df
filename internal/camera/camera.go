package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/linmath"
)

// Camera is what the renderer needs from a camera.
type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	Position() mgl32.Vec3
}

// AspectSetter is implemented by cameras whose projection follows the
// drawable aspect ratio.
type AspectSetter interface {
	SetAspect(aspect float32)
}

type Perspective struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	position   mgl32.Vec3
	Front      mgl32.Vec3
	Up         mgl32.Vec3
	Right      mgl32.Vec3
	projection mgl32.Mat4
	Pitch      float32
	Yaw        float32

	// COLD DATA - Configuration and input handling
	WorldUp     mgl32.Vec3
	Speed       float32
	Sensitivity float32
	Fov         float32 // degrees
	Near        float32
	Far         float32
	AspectRatio float32
	InvertMouse bool
}

// NewPerspective returns a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	c := &Perspective{
		Front:       mgl32.Vec3{0, 0, -1},
		Up:          mgl32.Vec3{0, 1, 0},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         -90.0,
		Speed:       70,
		Sensitivity: 0.1,
		Fov:         fov,
		Near:        near,
		Far:         far,
		AspectRatio: aspect,
	}
	c.updateCameraVectors()
	c.UpdateProjection()
	return c
}

func (c *Perspective) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Perspective) SetAspect(aspect float32) {
	c.AspectRatio = aspect
	c.UpdateProjection()
}

func (c *Perspective) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Perspective) SetPosition(p mgl32.Vec3) { c.position = p }
func (c *Perspective) Position() mgl32.Vec3     { return c.position }

func (c *Perspective) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.Front), c.Up)
}

func (c *Perspective) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// LookAt turns the camera towards target, keeping yaw and pitch in sync.
func (c *Perspective) LookAt(target mgl32.Vec3) {
	direction := target.Sub(c.position)
	if direction.Len() == 0 {
		return
	}
	direction = direction.Normalize()
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(direction.Z()), float64(direction.X()))))
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(direction.Y(), -1, 1)))))
	c.updateCameraVectors()
}

// Move translates the camera along its basis. forward and right are in
// [-1, 1].
func (c *Perspective) Move(forward, right, deltaTime float32) {
	velocity := c.Speed * deltaTime
	c.position = c.position.Add(c.Front.Mul(forward * velocity))
	c.position = c.position.Add(c.Right.Mul(right * velocity))
}

func (c *Perspective) ProcessMouseMovement(xoffset, yoffset float32, constrainPitch bool) {
	xoffset *= c.Sensitivity
	yoffset *= c.Sensitivity

	c.Yaw += xoffset
	if c.InvertMouse {
		c.Pitch -= yoffset
	} else {
		c.Pitch += yoffset
	}
	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89.0, 89.0)
	}
	c.updateCameraVectors()
}

func (c *Perspective) updateCameraVectors() {
	yawRad := float64(mgl32.DegToRad(c.Yaw))
	pitchRad := float64(mgl32.DegToRad(c.Pitch))

	front := mgl32.Vec3{
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// Orthographic is a box projection camera looking at Target.
type Orthographic struct {
	Left, Right, Bottom, Top float32
	Near, Far                float32

	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
}

func NewOrthographic(left, right, bottom, top, near, far float32) *Orthographic {
	return &Orthographic{
		Left:   left,
		Right:  right,
		Bottom: bottom,
		Top:    top,
		Near:   near,
		Far:    far,
		Eye:    mgl32.Vec3{0, 0, 1},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
	}
}

func (o *Orthographic) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(o.Eye, o.Target, o.Up)
}

func (o *Orthographic) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Ortho(o.Left, o.Right, o.Bottom, o.Top, o.Near, o.Far)
}

func (o *Orthographic) Position() mgl32.Vec3 { return o.Eye }

// SetAspect widens or narrows the horizontal extent around its center.
func (o *Orthographic) SetAspect(aspect float32) {
	halfH := (o.Top - o.Bottom) / 2
	cx := (o.Left + o.Right) / 2
	o.Left = cx - halfH*aspect
	o.Right = cx + halfH*aspect
}

// ToLinmath converts a column-major mgl32 matrix to linmath, keeping the
// column order.
func ToLinmath(m mgl32.Mat4) linmath.Mat4x4 {
	var out linmath.Mat4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[i*4+j]
		}
	}
	return out
}
