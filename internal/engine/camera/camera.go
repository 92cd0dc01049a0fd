// Package camera provides the damped orbit camera for the product view.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/pkg/math"
)

// Pose is an orbit position around a target. Angles are in radians.
type Pose struct {
	Target   math.Vec3
	Yaw      float32 // Horizontal angle around Y
	Pitch    float32 // Vertical angle above the target
	Distance float32
}

// OrbitCamera orbits around a target point. Input moves the goal pose and
// Update eases the current pose towards it.
type OrbitCamera struct {
	// Pose restored by Reset
	Home Pose

	current Pose
	goal    Pose

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32 // Radians per pixel
	ZoomSensitivity float32 // Fraction of distance per wheel step
	PanSensitivity  float32 // Fraction of distance per pixel

	// Damping is the per-second convergence rate. Zero snaps immediately.
	Damping float32

	FOV       float32 // Vertical, radians
	Near, Far float32
	aspect    float32
}

// NewOrbitCamera creates a camera resting at home.
func NewOrbitCamera(home Pose) *OrbitCamera {
	c := &OrbitCamera{
		Home:            home,
		MinDistance:     0.5,
		MaxDistance:     50,
		MinPitch:        -1.4,
		MaxPitch:        1.4,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		PanSensitivity:  0.0015,
		Damping:         8,
		FOV:             0.785398,
		Near:            0.05,
		Far:             100,
		aspect:          1,
	}
	c.Reset()
	return c
}

// FromConfig builds a camera from degrees-based settings.
func FromConfig(cfg config.CameraConfig) *OrbitCamera {
	home := Pose{
		Target:   math.V3(cfg.Target),
		Yaw:      radians(cfg.Yaw),
		Pitch:    radians(cfg.Pitch),
		Distance: cfg.Distance,
	}
	c := NewOrbitCamera(home)
	c.MinDistance = cfg.MinDistance
	c.MaxDistance = cfg.MaxDistance
	c.MinPitch = radians(cfg.MinPitch)
	c.MaxPitch = radians(cfg.MaxPitch)
	c.Damping = cfg.Damping
	if cfg.RotateSpeed > 0 {
		c.DragSensitivity = radians(cfg.RotateSpeed)
	}
	if cfg.ZoomSpeed > 0 {
		c.ZoomSensitivity = cfg.ZoomSpeed / 4
	}
	if cfg.FOV > 0 {
		c.FOV = radians(cfg.FOV)
	}
	c.Far = cfg.MaxDistance * 4
	c.Reset()
	return c
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Reset snaps both the current and goal pose to Home, discarding any
// in-flight easing.
func (c *OrbitCamera) Reset() {
	c.goal = c.clamp(c.Home)
	c.current = c.goal
}

// Current returns the pose used for rendering.
func (c *OrbitCamera) Current() Pose { return c.current }

// Goal returns the pose the camera is easing towards.
func (c *OrbitCamera) Goal() Pose { return c.goal }

// Settled reports whether the current pose has reached the goal.
func (c *OrbitCamera) Settled() bool {
	return c.current == c.goal
}

// Update advances easing by dt seconds.
func (c *OrbitCamera) Update(dt float32) {
	if c.Damping <= 0 || dt <= 0 {
		if c.Damping <= 0 {
			c.current = c.goal
		}
		return
	}
	t := 1 - math32.Exp(-c.Damping*dt)
	c.current.Target = c.current.Target.Lerp(c.goal.Target, t)
	c.current.Yaw += (c.goal.Yaw - c.current.Yaw) * t
	c.current.Pitch += (c.goal.Pitch - c.current.Pitch) * t
	c.current.Distance += (c.goal.Distance - c.current.Distance) * t

	// Snap when the remaining motion is invisible.
	if c.current.Target.Distance(c.goal.Target) < 1e-4 &&
		math32.Abs(c.current.Yaw-c.goal.Yaw) < 1e-4 &&
		math32.Abs(c.current.Pitch-c.goal.Pitch) < 1e-4 &&
		math32.Abs(c.current.Distance-c.goal.Distance) < 1e-4 {
		c.current = c.goal
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return orbitPosition(c.current)
}

func orbitPosition(p Pose) math.Vec3 {
	sp, cp := math32.Sincos(p.Pitch)
	sy, cy := math32.Sincos(p.Yaw)
	return math.Vec3{
		X: p.Target.X + p.Distance*cp*sy,
		Y: p.Target.Y + p.Distance*sp,
		Z: p.Target.Z + p.Distance*cp*cy,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.current.Target, up)
}

// SetAspect updates the projection aspect ratio from a viewport size.
func (c *OrbitCamera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
}

// Aspect returns the projection aspect ratio.
func (c *OrbitCamera) Aspect() float32 { return c.aspect }

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV, c.aspect, c.Near, c.Far)
}

// HandleDrag rotates the goal pose from a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.goal.Yaw -= deltaX * c.DragSensitivity
	c.goal.Pitch += deltaY * c.DragSensitivity
	c.goal = c.clamp(c.goal)
}

// HandleZoom moves the goal distance from a wheel delta. Positive zooms in.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.goal.Distance -= delta * c.goal.Distance * c.ZoomSensitivity
	c.goal = c.clamp(c.goal)
}

// HandlePan shifts the goal target in the view plane.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	speed := c.goal.Distance * c.PanSensitivity
	sy, cy := math32.Sincos(c.goal.Yaw)
	right := math.Vec3{X: cy, Z: -sy}
	c.goal.Target = c.goal.Target.Add(right.Scale(-deltaX * speed))
	c.goal.Target.Y += deltaY * speed
}

func (c *OrbitCamera) clamp(p Pose) Pose {
	if p.Distance < c.MinDistance {
		p.Distance = c.MinDistance
	}
	if p.Distance > c.MaxDistance {
		p.Distance = c.MaxDistance
	}
	if p.Pitch < c.MinPitch {
		p.Pitch = c.MinPitch
	}
	if p.Pitch > c.MaxPitch {
		p.Pitch = c.MaxPitch
	}
	return p
}
