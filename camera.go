package transformlab

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// World space is right-handed: +X right, +Y up, +Z from the screen toward
// the viewer. worldUp is the fixed up vector used for every look-at and
// strafe computation.
var worldUp = mgl32.Vec3{0, 1, 0}

type ProjectionKind int

const (
	Perspective ProjectionKind = iota
	Orthographic
)

func (k ProjectionKind) String() string {
	if k == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Parameter bounds. Pitch stays short of ±90° so the front vector never
// becomes collinear with worldUp.
var (
	pitchMax = mgl32.DegToRad(89.0)
	pitchMin = mgl32.DegToRad(-89.0)
	fovMax   = mgl32.DegToRad(90.0)
	fovMin   = mgl32.DegToRad(1.0)
)

const orthoHalfHeightMin = 0.1

// Camera holds the orientation, position and projection parameters of one
// viewpoint. Yaw is the angle in the horizontal plane measured from +X
// toward -Z (so yaw=0 faces +X and yaw=-90° faces -Z); pitch is the angle
// above the horizontal plane. There is no roll.
//
// All mutations clamp their parameters, so a Camera never holds an invalid
// state. Near < Far is a construction-time precondition.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32 // radians
	Pitch    float32 // radians, always within [-89°, 89°]

	Projection      ProjectionKind
	Fov             float32 // vertical field of view, radians, within (1°, 90°]
	OrthoHalfHeight float32 // half of the visible height, >= 0.1
	Near, Far       float32

	// Teaching toggles: a disabled matrix degenerates to identity so the
	// effect of skipping that transform can be observed.
	ViewEnabled       bool
	ProjectionEnabled bool
}

// Front returns the unit direction vector the camera looks along.
// sin(yaw) contributes to z and cos(yaw) to x because yaw is measured in
// the XZ plane; cos(pitch) scales both while sin(pitch) lifts y.
func (c *Camera) Front() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	front := mgl32.Vec3{
		float32(cy * cp),
		float32(sp),
		float32(sy * cp),
	}
	return front.Normalize()
}

// Right returns the unit vector pointing to the camera's right in the
// horizontal plane. Used to turn strafe input into world-space motion.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Front().Cross(worldUp).Normalize()
}

// ViewMatrix returns the world-to-camera transform, or identity while the
// view toggle is off.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	if !c.ViewEnabled {
		return mgl32.Ident4()
	}
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), worldUp)
}

// ProjectionMatrix returns the camera-to-clip transform for the given
// aspect ratio (width/height), or identity while the projection toggle is
// off. The orthographic box spans [-w,w]x[-h,h] with w = h*aspect; near
// and far are passed as positive distances, matching the -Z viewing
// convention.
func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if !c.ProjectionEnabled {
		return mgl32.Ident4()
	}
	switch c.Projection {
	case Orthographic:
		h := c.OrthoHalfHeight
		w := h * aspect
		return mgl32.Ortho(-w, w, -h, h, c.Near, c.Far)
	default:
		return mgl32.Perspective(c.Fov, aspect, c.Near, c.Far)
	}
}

// FrustumModel returns inverse(view) * inverse(projection): the model
// matrix that carries the canonical clip cube (corners at ±1) onto the
// camera's frustum in world space. The projection matrix maps the frustum
// to the clip cube, so its inverse maps the cube back to camera space, and
// the inverse view carries camera space to world space. Both inverses
// exist for every reachable parameter combination: the view matrix is
// orthonormal-affine and the projection is non-degenerate under the
// clamped ranges.
func (c *Camera) FrustumModel(aspect float32) mgl32.Mat4 {
	return c.ViewMatrix().Inv().Mul4(c.ProjectionMatrix(aspect).Inv())
}

// clipCubeCorners enumerates the canonical clip cube: first the z=-1 loop,
// then the z=+1 loop, counter-clockwise from (-1,-1).
var clipCubeCorners = [8]mgl32.Vec3{
	{-1, -1, -1},
	{1, -1, -1},
	{1, 1, -1},
	{-1, 1, -1},
	{-1, -1, 1},
	{1, -1, 1},
	{1, 1, 1},
	{-1, 1, 1},
}

// FrustumCorners returns the world-space positions of the 8 clip-cube
// corners under FrustumModel, with the homogeneous divide applied after
// the inverse projection (a perspective inverse lands corners at w != 1).
func (c *Camera) FrustumCorners(aspect float32) [8]mgl32.Vec3 {
	projInv := c.ProjectionMatrix(aspect).Inv()
	viewInv := c.ViewMatrix().Inv()

	var corners [8]mgl32.Vec3
	for i, corner := range clipCubeCorners {
		p := projInv.Mul4x1(corner.Vec4(1))
		p = p.Mul(1 / p.W())
		corners[i] = viewInv.Mul4x1(p).Vec3()
	}
	return corners
}

// MouseLook applies a mouse delta in screen pixels to yaw and pitch.
// The pitch delta is negated because screen-space Y grows downward while
// pitch grows upward. Pitch is clamped so the view never flips over the
// poles.
func (c *Camera) MouseLook(dx, dy, sensitivity float32) {
	c.Yaw += mgl32.DegToRad(dx * sensitivity)
	c.Pitch += mgl32.DegToRad(-dy * sensitivity)

	if c.Pitch > pitchMax {
		c.Pitch = pitchMax
	}
	if c.Pitch < pitchMin {
		c.Pitch = pitchMin
	}
}

// AdjustZoom applies a scroll-wheel delta to the projection parameter of
// the current kind: field of view for perspective, half-height for
// orthographic. Scrolling up (positive delta) zooms in.
func (c *Camera) AdjustZoom(delta float32) {
	switch c.Projection {
	case Orthographic:
		c.OrthoHalfHeight -= delta / 10
		if c.OrthoHalfHeight < orthoHalfHeightMin {
			c.OrthoHalfHeight = orthoHalfHeightMin
		}
	default:
		c.Fov = mgl32.Clamp(c.Fov-mgl32.DegToRad(delta), fovMin, fovMax)
	}
}

type MoveDirection int

const (
	MoveForward MoveDirection = iota
	MoveBackward
	MoveLeft
	MoveRight
)

// Move advances the camera position along its front or right vector by
// step world units. Movement ignores the view/projection toggles: a
// camera can be flown around even while its transforms are disabled.
func (c *Camera) Move(dir MoveDirection, step float32) {
	switch dir {
	case MoveForward:
		c.Position = c.Position.Add(c.Front().Mul(step))
	case MoveBackward:
		c.Position = c.Position.Sub(c.Front().Mul(step))
	case MoveLeft:
		c.Position = c.Position.Sub(c.Right().Mul(step))
	case MoveRight:
		c.Position = c.Position.Add(c.Right().Mul(step))
	}
}
