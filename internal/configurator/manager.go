// Package configurator is the scene manager of the product view. It owns the
// scene root, the variant and accessory registries, the orbit camera and the
// light rig, and exposes the operations the controls call.
//
// All methods must be called from the main loop goroutine. Operations that
// reference a variant or accessory that has not loaded yet do nothing.
package configurator

import (
	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/catalog"
	"github.com/Faultbox/plush-configurator/internal/engine/camera"
	"github.com/Faultbox/plush-configurator/internal/engine/lighting"
	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	"github.com/Faultbox/plush-configurator/internal/logger"
)

// Drawer renders the scene. The GL renderer implements it; tests use a fake.
type Drawer interface {
	Draw(root *scene.Node, cam *camera.OrbitCamera, rig lighting.Rig)
	Resize(width, height int)
}

// Options configures a Manager.
type Options struct {
	Palette           *catalog.Palette
	Exemption         Exemption
	Placements        Placements
	ExclusiveHeadwear bool
	Camera            *camera.OrbitCamera
	Rig               lighting.Rig
	Drawer            Drawer // Optional
}

// Manager owns the product scene.
type Manager struct {
	root   *scene.Node
	camera *camera.OrbitCamera
	rig    lighting.Rig
	drawer Drawer

	palette    *catalog.Palette
	exemption  Exemption
	placements Placements
	exclusive  bool

	variants    map[catalog.Form]*scene.Node
	accessories map[catalog.Accessory]*scene.Node
	active      catalog.Form

	log *zap.Logger
}

// New creates an empty scene.
func New(opts Options) *Manager {
	palette := opts.Palette
	if palette == nil {
		palette = catalog.NewPalette()
	}
	return &Manager{
		root:        scene.NewNode("product"),
		camera:      opts.Camera,
		rig:         opts.Rig,
		drawer:      opts.Drawer,
		palette:     palette,
		exemption:   opts.Exemption,
		placements:  opts.Placements,
		exclusive:   opts.ExclusiveHeadwear,
		variants:    make(map[catalog.Form]*scene.Node),
		accessories: make(map[catalog.Accessory]*scene.Node),
		log:         logger.Named("scene"),
	}
}

// Root returns the scene root.
func (m *Manager) Root() *scene.Node { return m.root }

// Camera returns the orbit camera.
func (m *Manager) Camera() *camera.OrbitCamera { return m.camera }

// Rig returns the light rig.
func (m *Manager) Rig() lighting.Rig { return m.rig }

// Active returns the visible form, if any.
func (m *Manager) Active() (catalog.Form, bool) {
	return m.active, m.active != catalog.FormUnknown
}

// Variant returns the registered variant for f, or nil.
func (m *Manager) Variant(f catalog.Form) *scene.Node { return m.variants[f] }

// Accessory returns the registered accessory node for a, or nil.
func (m *Manager) Accessory(a catalog.Accessory) *scene.Node { return m.accessories[a] }

// RegisterVariant adds a loaded form to the scene, hidden. Only the first
// registration per form is kept.
func (m *Manager) RegisterVariant(f catalog.Form, n *scene.Node) bool {
	if !f.Valid() || n == nil {
		return false
	}
	if _, dup := m.variants[f]; dup {
		m.log.Warn("duplicate variant ignored", zap.Stringer("form", f))
		return false
	}
	n.Visible = false
	m.variants[f] = n
	m.root.Add(n)
	m.log.Debug("variant registered", zap.Stringer("form", f))
	return true
}

// RegisterAccessory adds a loaded accessory to the scene, hidden and placed
// for the active form. Only the first registration per accessory is kept.
func (m *Manager) RegisterAccessory(a catalog.Accessory, n *scene.Node) bool {
	if !a.Valid() || n == nil {
		return false
	}
	if _, dup := m.accessories[a]; dup {
		m.log.Warn("duplicate accessory ignored", zap.Stringer("accessory", a))
		return false
	}
	n.Visible = false
	m.accessories[a] = n
	m.root.Add(n)
	m.place(a, n)
	m.log.Debug("accessory registered", zap.Stringer("accessory", a))
	return true
}

// SwitchForm shows the variant registered for f and hides the previous one.
// Accessory placements are re-applied for f.
func (m *Manager) SwitchForm(f catalog.Form) {
	next, ok := m.variants[f]
	if !ok {
		m.log.Debug("switch to unloaded form ignored", zap.Stringer("form", f))
		return
	}
	if prev, ok := m.variants[m.active]; ok && prev != next {
		prev.Visible = false
	}
	next.Visible = true
	m.active = f

	for a, n := range m.accessories {
		m.place(a, n)
	}
}

// place applies the placement of a on the active form. Without one the node
// returns to the identity transform, so the pose never depends on the
// previous form.
func (m *Manager) place(a catalog.Accessory, n *scene.Node) {
	pl, ok := m.placements.Lookup(m.active, a)
	if !ok {
		n.ResetTransform()
		return
	}
	pl.Apply(n)
}

// Recolor sets the fur or eye color of the active variant. Fur paints every
// surface the exemption rule does not exempt; eyes paints the exempt eye
// targets only.
func (m *Manager) Recolor(ch catalog.Channel, id catalog.ColorID) {
	v, ok := m.variants[m.active]
	if !ok {
		return
	}
	sw, ok := m.palette.Lookup(ch, id)
	if !ok {
		m.log.Debug("unknown color ignored", zap.Stringer("channel", ch), zap.Stringer("color", id))
		return
	}

	var match func(*scene.Surface) bool
	switch ch {
	case catalog.ChannelFur:
		match = func(s *scene.Surface) bool { return !m.exemption.Exempt(s) }
	case catalog.ChannelEyes:
		match = m.exemption.EyeTarget
	default:
		return
	}

	rgba := sw.RGBA()
	v.EachSurface(func(s *scene.Surface) {
		if match(s) {
			s.SetColor(rgba, sw.Texture)
		}
	})
}

// SetAccessoryVisible shows or hides an accessory. Showing a member of an
// exclusive group hides the other members first.
func (m *Manager) SetAccessoryVisible(a catalog.Accessory, visible bool) {
	n, ok := m.accessories[a]
	if !ok {
		return
	}
	if visible && m.exclusive {
		for _, other := range a.Group().Members() {
			if other == a {
				continue
			}
			if on, ok := m.accessories[other]; ok {
				on.Visible = false
			}
		}
	}
	n.Visible = visible
}

// AccessoryVisible reports whether a is loaded and shown.
func (m *Manager) AccessoryVisible(a catalog.Accessory) bool {
	n, ok := m.accessories[a]
	return ok && n.Visible
}

// RecolorAccessory paints every surface of the accessory with a tint.
func (m *Manager) RecolorAccessory(a catalog.Accessory, id catalog.ColorID) {
	n, ok := m.accessories[a]
	if !ok {
		return
	}
	sw, ok := m.palette.Lookup(catalog.ChannelTint, id)
	if !ok {
		return
	}
	rgba := sw.RGBA()
	n.EachSurface(func(s *scene.Surface) {
		s.SetColor(rgba, sw.Texture)
	})
}

// ResetCamera returns the camera to its home pose.
func (m *Manager) ResetCamera() {
	if m.camera != nil {
		m.camera.Reset()
	}
}

// Resize updates the camera aspect and the drawer's output size.
func (m *Manager) Resize(width, height int) {
	if m.camera != nil {
		m.camera.SetAspect(width, height)
	}
	if m.drawer != nil {
		m.drawer.Resize(width, height)
	}
}

// Frame advances camera damping by dt seconds and draws.
func (m *Manager) Frame(dt float32) {
	if m.camera != nil {
		m.camera.Update(dt)
	}
	if m.drawer != nil {
		m.drawer.Draw(m.root, m.camera, m.rig)
	}
}
