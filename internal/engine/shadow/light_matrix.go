package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/plush-configurator/pkg/math"
)

// Radius returns the half-diagonal of the box.
func Radius(b math.Box3) float32 {
	return b.Size().Length() / 2
}

// DirectionalLightMatrix computes the view-projection for the shadow map.
// lightDir is the normalized direction towards the light; bounds is the
// region that must be covered. Empty bounds yield a unit region at the origin.
func DirectionalLightMatrix(lightDir math.Vec3, bounds math.Box3) math.Mat4 {
	if bounds.IsEmpty() {
		bounds = math.Box3{Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}}
	}
	center := bounds.Center()
	radius := Radius(bounds)
	if radius < 0.01 {
		radius = 0.01
	}

	// Far enough to see the whole region from outside it.
	lightDistance := radius * 2
	lightPos := center.Add(lightDir.Scale(lightDistance))

	up := math.Vec3{X: 0, Y: 1, Z: 0}
	if math32.Abs(lightDir.Y) > 0.99 {
		up = math.Vec3{X: 0, Y: 0, Z: 1}
	}
	view := math.LookAt(lightPos, center, up)

	// Padding avoids clipping at the border texels.
	halfSize := radius * 1.1
	far := lightDistance + halfSize
	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, 0.01, far)

	return proj.Mul(view)
}
