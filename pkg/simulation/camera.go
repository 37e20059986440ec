package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/geometry"
)

const maxPitch = 89 * math.Pi / 180

// Camera is a free-flying perspective camera. Yaw 0 and pitch 0 look down -Z with +Y up.
type Camera struct {
	Position   mgl32.Vec3
	Yaw, Pitch float32 // radians
	FovY       float32 // degrees
	Near, Far  float32
}

// NewCamera returns a camera placed above and in front of the world, looking at its center.
func NewCamera() *Camera {
	c := &Camera{
		Position: mgl32.Vec3{0, 100, 300},
		FovY:     45,
		Near:     0.1,
		Far:      2000,
	}
	c.LookAt(mgl32.Vec3{0, 0, 0})
	return c
}

// LookAt turns the camera toward target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	c.Pitch = clampPitch(float32(math.Asin(float64(dir.Y()))))
	c.Yaw = float32(math.Atan2(float64(dir.X()), float64(-dir.Z())))
}

// Forward returns the unit vector the camera looks along.
func (c *Camera) Forward() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	sp, cp := math.Sincos(float64(c.Pitch))
	return mgl32.Vec3{float32(cp * sy), float32(sp), float32(-cp * cy)}
}

// Right returns the horizontal unit vector to the right of the view direction.
func (c *Camera) Right() mgl32.Vec3 {
	sy, cy := math.Sincos(float64(c.Yaw))
	return mgl32.Vec3{float32(cy), 0, float32(sy)}
}

// Move translates the camera relative to its orientation. up is along world +Y.
func (c *Camera) Move(forward, right, up float32) {
	c.Position = c.Position.
		Add(c.Forward().Mul(forward)).
		Add(c.Right().Mul(right)).
		Add(mgl32.Vec3{0, up, 0})
}

// Rotate turns the camera. Pitch stops short of straight up or down.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = clampPitch(c.Pitch + dPitch)
}

func clampPitch(p float32) float32 {
	return mgl32.Clamp(p, -maxPitch, maxPitch)
}

// ViewProjection returns the combined projection * view matrix for a viewport.
func (c *Camera) ViewProjection(width, height int) mgl32.Mat4 {
	aspect := float32(width) / float32(max(height, 1))
	proj := mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
	view := mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// Projection maps world points to pixels for one frame.
type Projection struct {
	vp            mgl32.Mat4
	width, height float32
}

// Projection freezes the camera for a frame of the given size.
func (c *Camera) Projection(width, height int) Projection {
	return Projection{vp: c.ViewProjection(width, height), width: float32(width), height: float32(height)}
}

// Project returns the pixel coordinates of p and its distance along the view axis.
// ok is false when p is behind the camera or outside the depth range.
func (pr Projection) Project(p geometry.Vector3) (x, y, depth float32, ok bool) {
	clip := pr.vp.Mul4x1(mgl32.Vec4{p.X, p.Y, p.Z, 1})
	w := clip.W()
	if w <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}
	x = (ndc.X() + 1) / 2 * pr.width
	y = (1 - ndc.Y()) / 2 * pr.height
	return x, y, w, true
}
