package configurator

import (
	"testing"

	"github.com/Faultbox/plush-configurator/internal/catalog"
	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/internal/engine/camera"
	"github.com/Faultbox/plush-configurator/internal/engine/lighting"
	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	"github.com/Faultbox/plush-configurator/pkg/math"
)

type fakeDrawer struct {
	draws         int
	width, height int
	lastRoot      *scene.Node
}

func (d *fakeDrawer) Draw(root *scene.Node, _ *camera.OrbitCamera, _ lighting.Rig) {
	d.draws++
	d.lastRoot = root
}

func (d *fakeDrawer) Resize(w, h int) {
	d.width, d.height = w, h
}

var triangle = scene.NewMesh("tri", [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, nil, nil)

// catTemplate builds a model with a body, two eyes and a nose. All body
// parts share one material the way decoded files do.
func catTemplate() *scene.Node {
	fur := &scene.Material{Name: "Fur", BaseColor: [4]float32{0.5, 0.5, 0.5, 1}}
	exempt := &scene.Material{Name: "Exempt", BaseColor: [4]float32{0, 0, 0, 1}}

	root := scene.NewNode("cat")
	body := scene.NewNode("Body")
	body.Surfaces = []*scene.Surface{scene.NewSurface("Body", triangle, fur)}
	tail := scene.NewNode("Tail")
	tail.Surfaces = []*scene.Surface{scene.NewSurface("Tail", triangle, fur)}
	eyeL := scene.NewNode("Eye_L")
	eyeL.Surfaces = []*scene.Surface{scene.NewSurface("Eye_L", triangle, exempt)}
	eyeR := scene.NewNode("Eye_R")
	eyeR.Surfaces = []*scene.Surface{scene.NewSurface("Eye_R", triangle, exempt)}
	nose := scene.NewNode("Nose")
	nose.Surfaces = []*scene.Surface{scene.NewSurface("Nose", triangle, exempt)}
	root.Add(body)
	body.Add(tail)
	root.Add(eyeL)
	root.Add(eyeR)
	root.Add(nose)
	return root
}

func accessoryTemplate(name string) *scene.Node {
	n := scene.NewNode(name)
	part := scene.NewNode(name + "_mesh")
	part.Surfaces = []*scene.Surface{
		scene.NewSurface("Knit", triangle, &scene.Material{Name: "Knit"}),
		scene.NewSurface("Eyelet", triangle, &scene.Material{Name: "Exempt"}),
	}
	n.Add(part)
	return n
}

func testPalette(t *testing.T) *catalog.Palette {
	t.Helper()
	p, err := config.Default().Palette.Build()
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	return p
}

func newManager(t *testing.T, mode string) (*Manager, *fakeDrawer) {
	t.Helper()
	cfg := config.Default()
	cfg.Exemption.Mode = mode
	ex, err := NewExemption(cfg.Exemption)
	if err != nil {
		t.Fatalf("NewExemption: %v", err)
	}
	d := &fakeDrawer{}
	m := New(Options{
		Palette:           testPalette(t),
		Exemption:         ex,
		Placements:        PlacementsFromConfig(cfg.Placements),
		ExclusiveHeadwear: cfg.Accessories.ExclusiveHeadwear,
		Camera:            camera.FromConfig(cfg.Camera),
		Rig:               lighting.FromConfig(cfg.Lighting),
		Drawer:            d,
	})
	return m, d
}

func registerAll(m *Manager) {
	for _, f := range catalog.Forms() {
		m.RegisterVariant(f, catTemplate())
	}
	for _, a := range catalog.Accessories() {
		m.RegisterAccessory(a, accessoryTemplate(a.String()))
	}
}

func swatch(t *testing.T, m *Manager, ch catalog.Channel, id catalog.ColorID) [4]float32 {
	t.Helper()
	sw, ok := m.palette.Lookup(ch, id)
	if !ok {
		t.Fatalf("no swatch %s/%s", ch, id)
	}
	return sw.RGBA()
}

func colorOf(n *scene.Node, name string) [4]float32 {
	return n.Find(name).Surfaces[0].Material().BaseColor
}

func visibleVariants(m *Manager) []catalog.Form {
	var out []catalog.Form
	for _, f := range catalog.Forms() {
		if v := m.Variant(f); v != nil && v.Visible {
			out = append(out, f)
		}
	}
	return out
}

func TestRegisterHidesAndKeepsFirst(t *testing.T) {
	m, _ := newManager(t, "name")
	first := catTemplate()
	if !m.RegisterVariant(catalog.FormSitting, first) {
		t.Fatal("first registration rejected")
	}
	if first.Visible {
		t.Error("registered variant should start hidden")
	}
	if m.RegisterVariant(catalog.FormSitting, catTemplate()) {
		t.Error("duplicate registration accepted")
	}
	if m.Variant(catalog.FormSitting) != first {
		t.Error("duplicate replaced the first registration")
	}
	if m.RegisterVariant(catalog.FormUnknown, catTemplate()) {
		t.Error("unknown form accepted")
	}
	if len(m.Root().Children) != 1 {
		t.Errorf("root has %d children, want 1", len(m.Root().Children))
	}
}

func TestSwitchFormIdempotent(t *testing.T) {
	for _, f := range catalog.Forms() {
		t.Run(f.String(), func(t *testing.T) {
			m, _ := newManager(t, "name")
			registerAll(m)

			m.SwitchForm(f)
			m.SwitchForm(f)

			got := visibleVariants(m)
			if len(got) != 1 || got[0] != f {
				t.Errorf("visible = %v, want [%s]", got, f)
			}
			if a, ok := m.Active(); !ok || a != f {
				t.Errorf("Active() = %s, %v", a, ok)
			}
		})
	}
}

func TestSwitchFormHidesPrevious(t *testing.T) {
	m, _ := newManager(t, "name")
	registerAll(m)

	m.SwitchForm(catalog.FormSitting)
	m.SwitchForm(catalog.FormLying)
	got := visibleVariants(m)
	if len(got) != 1 || got[0] != catalog.FormLying {
		t.Errorf("visible = %v, want [lying]", got)
	}
}

func TestSwitchFormUnloadedIsNoop(t *testing.T) {
	m, _ := newManager(t, "name")
	m.RegisterVariant(catalog.FormSitting, catTemplate())
	m.SwitchForm(catalog.FormSitting)

	m.SwitchForm(catalog.FormStanding)
	m.SwitchForm(catalog.FormUnknown)

	if a, _ := m.Active(); a != catalog.FormSitting {
		t.Errorf("active = %s, want sitting", a)
	}
	if !m.Variant(catalog.FormSitting).Visible {
		t.Error("sitting should stay visible")
	}
}

func TestSwitchFormPlacesAccessories(t *testing.T) {
	m, _ := newManager(t, "name")
	registerAll(m)

	for _, f := range catalog.Forms() {
		m.SwitchForm(f)
		for _, a := range catalog.Accessories() {
			want, ok := m.placements.Lookup(f, a)
			if !ok {
				t.Fatalf("no placement for %s/%s", f, a)
			}
			n := m.Accessory(a)
			if n.Position != want.Position || n.Scale.X != want.Scale {
				t.Errorf("%s/%s: position %v scale %v, want %v %v", f, a, n.Position, n.Scale.X, want.Position, want.Scale)
			}
		}
	}
}

func TestMissingPlacementResetsTransform(t *testing.T) {
	for _, from := range []catalog.Form{catalog.FormSitting, catalog.FormStanding} {
		t.Run(from.String(), func(t *testing.T) {
			m, _ := newManager(t, "name")
			delete(m.placements[catalog.FormLying], catalog.AccessoryHat)
			registerAll(m)

			m.SwitchForm(from)
			hat := m.Accessory(catalog.AccessoryHat)
			if want, _ := m.placements.Lookup(from, catalog.AccessoryHat); hat.Position != want.Position {
				t.Fatalf("hat on %s at %v, want %v", from, hat.Position, want.Position)
			}

			m.SwitchForm(catalog.FormLying)
			if hat.Position != (math.Vec3{}) || hat.Scale != (math.Vec3{X: 1, Y: 1, Z: 1}) || hat.Rotation != math.QuatIdentity() {
				t.Errorf("hat after %s -> lying: position %v scale %v rotation %v", from, hat.Position, hat.Scale, hat.Rotation)
			}
		})
	}
}

func TestRegisterAccessoryAfterSwitchIsPlaced(t *testing.T) {
	m, _ := newManager(t, "name")
	m.RegisterVariant(catalog.FormStanding, catTemplate())
	m.SwitchForm(catalog.FormStanding)

	hat := accessoryTemplate("hat")
	m.RegisterAccessory(catalog.AccessoryHat, hat)

	want, _ := m.placements.Lookup(catalog.FormStanding, catalog.AccessoryHat)
	if hat.Position != want.Position {
		t.Errorf("hat at %v, want %v", hat.Position, want.Position)
	}
	if hat.Visible {
		t.Error("registered accessory should start hidden")
	}
}

func TestRecolorRespectsExemption(t *testing.T) {
	for _, mode := range []string{"name", "material"} {
		t.Run(mode, func(t *testing.T) {
			m, _ := newManager(t, mode)
			registerAll(m)
			m.SwitchForm(catalog.FormSitting)
			v := m.Variant(catalog.FormSitting)

			eyeBefore := colorOf(v, "Eye_L")
			noseBefore := colorOf(v, "Nose")

			m.Recolor(catalog.ChannelFur, catalog.ColorWhite)
			white := swatch(t, m, catalog.ChannelFur, catalog.ColorWhite)
			for _, name := range []string{"Body", "Tail"} {
				if got := colorOf(v, name); got != white {
					t.Errorf("%s = %v, want white %v", name, got, white)
				}
			}
			if colorOf(v, "Eye_L") != eyeBefore || colorOf(v, "Nose") != noseBefore {
				t.Error("fur recolor touched an exempt surface")
			}

			m.Recolor(catalog.ChannelEyes, catalog.ColorBlue)
			blue := swatch(t, m, catalog.ChannelEyes, catalog.ColorBlue)
			for _, name := range []string{"Eye_L", "Eye_R"} {
				if got := colorOf(v, name); got != blue {
					t.Errorf("%s = %v, want blue %v", name, got, blue)
				}
			}
			if colorOf(v, "Body") != white || colorOf(v, "Tail") != white {
				t.Error("eye recolor touched a fur surface")
			}
			if colorOf(v, "Nose") != noseBefore {
				t.Error("eye recolor touched the nose")
			}
		})
	}
}

func TestRecolorEyesWithoutTargets(t *testing.T) {
	cfg := config.Default().Exemption
	cfg.EyeTargets = nil
	ex, err := NewExemption(cfg)
	if err != nil {
		t.Fatal(err)
	}
	m := New(Options{Palette: testPalette(t), Exemption: ex})
	m.RegisterVariant(catalog.FormSitting, catTemplate())
	m.SwitchForm(catalog.FormSitting)

	m.Recolor(catalog.ChannelEyes, catalog.ColorAmber)
	amber := swatch(t, m, catalog.ChannelEyes, catalog.ColorAmber)
	if got := colorOf(m.Variant(catalog.FormSitting), "Nose"); got != amber {
		t.Errorf("nose = %v, want amber when no eye targets are set", got)
	}
}

func TestRecolorNoops(t *testing.T) {
	m, _ := newManager(t, "name")
	tmpl := catTemplate()
	m.RegisterVariant(catalog.FormSitting, tmpl)
	before := colorOf(tmpl, "Body")

	// No active variant.
	m.Recolor(catalog.ChannelFur, catalog.ColorWhite)
	if colorOf(tmpl, "Body") != before {
		t.Error("recolor without an active variant changed colors")
	}

	m.SwitchForm(catalog.FormSitting)
	m.Recolor(catalog.ChannelFur, catalog.ColorUnknown)
	m.Recolor(catalog.ChannelFur, catalog.ColorBlue) // Not a fur color
	m.Recolor(catalog.ChannelUnknown, catalog.ColorWhite)
	if colorOf(tmpl, "Body") != before {
		t.Error("unknown color or channel changed colors")
	}
	if tmpl.Find("Body").Surfaces[0].OwnsMaterial() {
		t.Error("no-op recolor copied a material")
	}
}

func TestRecolorRoundTrip(t *testing.T) {
	direct, _ := newManager(t, "name")
	registerAll(direct)
	direct.SwitchForm(catalog.FormSitting)
	direct.Recolor(catalog.ChannelFur, catalog.ColorBlack)

	round, _ := newManager(t, "name")
	registerAll(round)
	round.SwitchForm(catalog.FormSitting)
	round.Recolor(catalog.ChannelFur, catalog.ColorBlack)
	round.Recolor(catalog.ChannelFur, catalog.ColorGinger)
	round.Recolor(catalog.ChannelFur, catalog.ColorBlack)

	a := direct.Variant(catalog.FormSitting)
	b := round.Variant(catalog.FormSitting)
	for _, name := range []string{"Body", "Tail", "Eye_L", "Nose"} {
		if colorOf(a, name) != colorOf(b, name) {
			t.Errorf("%s: round trip %v, direct %v", name, colorOf(b, name), colorOf(a, name))
		}
	}
}

func TestRecolorLeavesSiblingInstances(t *testing.T) {
	tmpl := catTemplate()
	sitting := tmpl.Clone()
	standing := tmpl.Clone()

	m, _ := newManager(t, "name")
	m.RegisterVariant(catalog.FormSitting, sitting)
	m.RegisterVariant(catalog.FormStanding, standing)
	m.SwitchForm(catalog.FormSitting)

	before := colorOf(standing, "Body")
	m.Recolor(catalog.ChannelFur, catalog.ColorCream)

	if colorOf(standing, "Body") != before {
		t.Error("recolor leaked into a sibling instance")
	}
	if colorOf(tmpl, "Body") != before {
		t.Error("recolor leaked into the template")
	}
	if colorOf(sitting, "Body") == before {
		t.Error("active instance not recolored")
	}
}

func TestHeadwearExclusive(t *testing.T) {
	for _, a := range catalog.GroupHeadwear.Members() {
		t.Run(a.String(), func(t *testing.T) {
			m, _ := newManager(t, "name")
			registerAll(m)
			for _, other := range catalog.GroupHeadwear.Members() {
				m.SetAccessoryVisible(other, true)
			}
			m.SetAccessoryVisible(catalog.AccessoryScarf, true)

			m.SetAccessoryVisible(a, true)

			for _, other := range catalog.GroupHeadwear.Members() {
				if got := m.AccessoryVisible(other); got != (other == a) {
					t.Errorf("%s visible = %v", other, got)
				}
			}
			if !m.AccessoryVisible(catalog.AccessoryScarf) {
				t.Error("scarf is not headwear and should stay visible")
			}
		})
	}
}

func TestAccessoriesIndependentWithoutExclusivity(t *testing.T) {
	m := New(Options{Palette: testPalette(t)})
	registerAll(m)
	m.SetAccessoryVisible(catalog.AccessoryHat, true)
	m.SetAccessoryVisible(catalog.AccessoryCrown, true)
	if !m.AccessoryVisible(catalog.AccessoryHat) || !m.AccessoryVisible(catalog.AccessoryCrown) {
		t.Error("both headwear pieces should be visible when exclusivity is off")
	}
}

func TestSetAccessoryVisibleUnloaded(t *testing.T) {
	m, _ := newManager(t, "name")
	m.SetAccessoryVisible(catalog.AccessoryBow, true)
	if m.AccessoryVisible(catalog.AccessoryBow) {
		t.Error("unloaded accessory reported visible")
	}
}

func TestRecolorAccessoryIgnoresExemption(t *testing.T) {
	m, _ := newManager(t, "material")
	registerAll(m)
	m.RecolorAccessory(catalog.AccessoryScarf, catalog.ColorGold)

	gold := swatch(t, m, catalog.ChannelTint, catalog.ColorGold)
	m.Accessory(catalog.AccessoryScarf).EachSurface(func(s *scene.Surface) {
		if s.Material().BaseColor != gold {
			t.Errorf("%s = %v, want gold", s.Name, s.Material().BaseColor)
		}
	})

	// Fur colors are not tints.
	m.RecolorAccessory(catalog.AccessoryScarf, catalog.ColorGinger)
	m.RecolorAccessory(catalog.AccessoryHat+10, catalog.ColorRed)
	m.Accessory(catalog.AccessoryScarf).EachSurface(func(s *scene.Surface) {
		if s.Material().BaseColor != gold {
			t.Errorf("%s changed by an invalid tint", s.Name)
		}
	})
}

func TestFrameAndResize(t *testing.T) {
	m, d := newManager(t, "name")
	m.Resize(800, 400)
	if d.width != 800 || d.height != 400 {
		t.Errorf("drawer size = %dx%d", d.width, d.height)
	}
	if m.Camera().Aspect() != 2 {
		t.Errorf("aspect = %v, want 2", m.Camera().Aspect())
	}

	m.Camera().HandleDrag(100, 0)
	goal := m.Camera().Goal()
	for i := 0; i < 3; i++ {
		m.Frame(1.0 / 60)
	}
	if d.draws != 3 || d.lastRoot != m.Root() {
		t.Errorf("draws = %d", d.draws)
	}
	if m.Camera().Current().Yaw == m.Camera().Home.Yaw {
		t.Error("frame did not advance damping")
	}
	if m.Camera().Goal() != goal {
		t.Error("frame changed the goal pose")
	}

	m.ResetCamera()
	if m.Camera().Goal() != m.Camera().Home {
		t.Error("ResetCamera did not restore the home pose")
	}
}

func TestNewExemption(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ExemptionConfig
		wantErr bool
		mode    ExemptionMode
	}{
		{"name", config.ExemptionConfig{Mode: "name", Substrings: []string{"eye"}}, false, ExemptByName},
		{"empty mode defaults to name", config.ExemptionConfig{Substrings: []string{"eye"}}, false, ExemptByName},
		{"material", config.ExemptionConfig{Mode: "Material", Sentinel: "Exempt"}, false, ExemptByMaterial},
		{"name without substrings", config.ExemptionConfig{Mode: "name", Substrings: []string{" "}}, true, 0},
		{"material without sentinel", config.ExemptionConfig{Mode: "material"}, true, 0},
		{"unknown", config.ExemptionConfig{Mode: "tag"}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewExemption(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && e.Mode() != tt.mode {
				t.Errorf("mode = %v, want %v", e.Mode(), tt.mode)
			}
		})
	}
}

func TestExemptByNameIsCaseInsensitive(t *testing.T) {
	e, err := NewExemption(config.ExemptionConfig{Mode: "name", Substrings: []string{"EYE", "nose"}})
	if err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]bool{
		"Eye_L": true, "left_eye": true, "NoseTip": true, "Body": false, "Ear": false,
	} {
		s := scene.NewSurface(name, triangle, nil)
		if got := e.Exempt(s); got != want {
			t.Errorf("Exempt(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestPlacementsFromConfig(t *testing.T) {
	p := PlacementsFromConfig(config.PlacementTable{
		"sitting": {
			"hat":  {Position: [3]float32{0, 2, 0}, Yaw: 90},
			"cape": {Position: [3]float32{1, 1, 1}},
		},
		"flying": {"hat": {}},
	})
	if len(p) != 1 {
		t.Errorf("forms = %d, want 1", len(p))
	}
	hat, ok := p.Lookup(catalog.FormSitting, catalog.AccessoryHat)
	if !ok {
		t.Fatal("missing hat placement")
	}
	if hat.Scale != 1 {
		t.Errorf("zero scale should default to 1, got %v", hat.Scale)
	}
	if d := hat.Yaw - 1.5707964; d > 1e-5 || d < -1e-5 {
		t.Errorf("yaw = %v rad", hat.Yaw)
	}
	if _, ok := p.Lookup(catalog.FormStanding, catalog.AccessoryHat); ok {
		t.Error("unexpected standing placement")
	}
}
