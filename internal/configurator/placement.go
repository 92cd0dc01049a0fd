package configurator

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/plush-configurator/internal/catalog"
	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	"github.com/Faultbox/plush-configurator/pkg/math"
)

// Placement positions an accessory on a form.
type Placement struct {
	Position math.Vec3
	Yaw      float32 // Radians
	Scale    float32
}

// Placements holds per-form accessory placements.
type Placements map[catalog.Form]map[catalog.Accessory]Placement

// PlacementsFromConfig converts the config table. Unknown names are skipped;
// Validate reports them.
func PlacementsFromConfig(t config.PlacementTable) Placements {
	out := make(Placements)
	for formName, accs := range t {
		f := catalog.ParseForm(formName)
		if !f.Valid() {
			continue
		}
		m := make(map[catalog.Accessory]Placement, len(accs))
		for accName, p := range accs {
			a := catalog.ParseAccessory(accName)
			if !a.Valid() {
				continue
			}
			scale := p.Scale
			if scale == 0 {
				scale = 1
			}
			m[a] = Placement{
				Position: math.V3(p.Position),
				Yaw:      p.Yaw * math32.Pi / 180,
				Scale:    scale,
			}
		}
		out[f] = m
	}
	return out
}

// Lookup returns the placement of a on f.
func (p Placements) Lookup(f catalog.Form, a catalog.Accessory) (Placement, bool) {
	pl, ok := p[f][a]
	return pl, ok
}

// Apply writes the placement into the node transform.
func (pl Placement) Apply(n *scene.Node) {
	n.Position = pl.Position
	n.Rotation = math.QuatFromAxisAngle(math.Vec3{Y: 1}, pl.Yaw)
	n.SetUniformScale(pl.Scale)
}
