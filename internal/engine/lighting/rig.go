// Package lighting describes the studio light rig used for the product view.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/pkg/math"
)

// Directional is a light at infinity.
type Directional struct {
	Direction math.Vec3 // Unit vector pointing towards the light
	Color     [3]float32
	Intensity float32
}

// Radiance returns color scaled by intensity.
func (d Directional) Radiance() [3]float32 {
	return [3]float32{d.Color[0] * d.Intensity, d.Color[1] * d.Intensity, d.Color[2] * d.Intensity}
}

// Rig is an ambient term plus a shadow-casting key light and a fill light.
type Rig struct {
	Ambient [3]float32
	Key     Directional
	Fill    Directional
}

// SunDirection converts longitude/latitude angles to a light direction vector.
// Longitude is rotation around the Y axis, latitude is elevation from the
// horizon, both in degrees. The result points towards the light.
func SunDirection(longitude, latitude int32) math.Vec3 {
	lon := float32(longitude) * math32.Pi / 180
	lat := float32(latitude) * math32.Pi / 180

	sinLat, cosLat := math32.Sincos(lat)
	sinLon, cosLon := math32.Sincos(lon)
	return math.Vec3{X: cosLat * sinLon, Y: sinLat, Z: cosLat * cosLon}
}

// FromConfig builds the rig. The fill light mirrors the key around the
// vertical axis at a lower elevation.
func FromConfig(cfg config.LightingConfig) Rig {
	white := [3]float32{1, 1, 1}
	return Rig{
		Ambient: [3]float32{cfg.Ambient, cfg.Ambient, cfg.Ambient},
		Key: Directional{
			Direction: SunDirection(cfg.SunLongitude, cfg.SunLatitude),
			Color:     white,
			Intensity: cfg.SunIntensity,
		},
		Fill: Directional{
			Direction: SunDirection(cfg.SunLongitude+180, cfg.SunLatitude/2),
			Color:     [3]float32{0.85, 0.9, 1},
			Intensity: cfg.Fill,
		},
	}
}
