package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is an orbit camera around a fixed target. Only its orientation and
// distance ever change; it carries no per-frame scene state.
type Camera struct {
	Target   r3.Vec
	Yaw      float64 // radians around the vertical axis
	Pitch    float64 // radians above the horizontal plane
	Distance float64

	FovY float64
	Near float64
	Far  float64
}

// NewCamera returns an orbit camera looking at the origin from a distance
// suitable for a network spanning roughly size world units
func NewCamera(size float64) *Camera {
	return &Camera{
		Yaw:      math.Pi / 4,
		Pitch:    math.Pi / 8,
		Distance: size * 1.6,
		FovY:     math.Pi / 4,
		Near:     0.1,
		Far:      size * 20,
	}
}

// Orbit rotates the camera around the target. Pitch is clamped short of the
// poles so the up vector never degenerates.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch

	limit := math.Pi/2 - 0.01
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// Zoom scales the orbit distance; factor > 1 moves away from the target
func (c *Camera) Zoom(factor float64) {
	c.Distance *= factor
	if c.Distance < c.Near*4 {
		c.Distance = c.Near * 4
	}
}

// Eye returns the camera position in world space
func (c *Camera) Eye() r3.Vec {
	cp := math.Cos(c.Pitch)
	return r3.Add(c.Target, r3.Vec{
		X: c.Distance * cp * math.Sin(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * cp * math.Cos(c.Yaw),
	})
}

// ViewProjection returns the combined camera matrix for the given aspect ratio
func (c *Camera) ViewProjection(aspect float64) Mat4 {
	view := LookAt(c.Eye(), c.Target, r3.Vec{Y: 1})
	proj := Perspective(c.FovY, aspect, c.Near, c.Far)
	return Mul(proj, view)
}
