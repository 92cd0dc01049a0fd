package model

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	pmath "github.com/Faultbox/plush-configurator/pkg/math"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b pmath.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func loadFixture(t *testing.T) *scene.Node {
	t.Helper()
	root, err := Load(filepath.Join("testdata", "cat_triangle.gltf"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return root
}

func TestLoadHierarchy(t *testing.T) {
	root := loadFixture(t)

	if root.Name != "cat_triangle" {
		t.Errorf("root name = %q, want file stem", root.Name)
	}
	cat := root.Find("Cat")
	if cat == nil {
		t.Fatal("missing Cat node")
	}
	if cat.Scale != (pmath.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Cat scale = %v", cat.Scale)
	}
	eye := root.Find("Eye_L")
	if eye == nil {
		t.Fatal("missing Eye_L node")
	}
	if eye.Position != (pmath.Vec3{Y: 1, Z: 0.5}) {
		t.Errorf("Eye_L translation = %v", eye.Position)
	}
	if len(eye.Surfaces) != 1 || eye.Surfaces[0].Name != "Eye_L" {
		t.Fatalf("Eye_L surfaces = %+v", eye.Surfaces)
	}
}

func TestLoadMaterialsAndGeometry(t *testing.T) {
	root := loadFixture(t)
	body := root.Find("Body").Surfaces[0]
	eye := root.Find("Eye_L").Surfaces[0]

	if body.Material().Name != "Fur" {
		t.Errorf("body material = %q", body.Material().Name)
	}
	if eye.Material().Name != "Exempt" {
		t.Errorf("eye material = %q", eye.Material().Name)
	}
	if !near(body.Material().Roughness, 0.9) {
		t.Errorf("body roughness = %v", body.Material().Roughness)
	}
	if c := body.Material().BaseColor; !near(c[0], 0.8) || !near(c[3], 1) {
		t.Errorf("body color = %v", c)
	}

	m := body.Mesh
	if len(m.Positions) != 3 || len(m.Indices) != 3 {
		t.Fatalf("mesh has %d positions and %d indices", len(m.Positions), len(m.Indices))
	}
	if m.Positions[2] != [3]float32{0, 4, 0} {
		t.Errorf("third vertex = %v", m.Positions[2])
	}
	if len(m.Normals) != 3 {
		t.Errorf("normals should be generated, got %d", len(m.Normals))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "missing.gltf")); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := Load(filepath.Join("testdata", "broken.gltf")); err == nil {
		t.Error("expected error for malformed JSON")
	}

	empty := filepath.Join(t.TempDir(), "empty.gltf")
	if err := os.WriteFile(empty, []byte(`{"asset":{"version":"2.0"},"scenes":[{"nodes":[0]}],"nodes":[{"name":"Lonely"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("expected ErrNoGeometry, got %v", err)
	}
}

func TestNormalizeGround(t *testing.T) {
	root := loadFixture(t)
	if err := Normalize(root, NormalizeOptions{TargetSize: 2, Anchor: AnchorGround}); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	b := root.Bounds()
	if !near(b.MaxDim(), 2) {
		t.Errorf("max dimension = %v, want 2", b.MaxDim())
	}
	if !near(b.Min.Y, 0) {
		t.Errorf("lowest point = %v, want 0", b.Min.Y)
	}
	c := b.Center()
	if !near(c.X, 0) || !near(c.Z, 0) {
		t.Errorf("horizontal center = (%v, %v), want origin", c.X, c.Z)
	}
}

func TestNormalizeCenter(t *testing.T) {
	root := loadFixture(t)
	if err := Normalize(root, NormalizeOptions{TargetSize: 0.5, Anchor: AnchorCenter}); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	b := root.Bounds()
	if !near(b.MaxDim(), 0.5) {
		t.Errorf("max dimension = %v, want 0.5", b.MaxDim())
	}
	if !nearVec(b.Center(), pmath.Vec3{}) {
		t.Errorf("center = %v, want origin", b.Center())
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	root := loadFixture(t)
	opts := NormalizeOptions{TargetSize: 3, Anchor: AnchorGround}
	_ = Normalize(root, opts)
	first := root.Bounds()
	_ = Normalize(root, opts)
	second := root.Bounds()
	if !nearVec(first.Min, second.Min) || !nearVec(first.Max, second.Max) {
		t.Errorf("second Normalize changed bounds: %+v vs %+v", first, second)
	}
}

func TestNormalizeEnablesShadows(t *testing.T) {
	root := loadFixture(t)
	_ = Normalize(root, NormalizeOptions{TargetSize: 1})

	root.EachSurface(func(s *scene.Surface) {
		if !s.CastShadow || !s.ReceiveShadow {
			t.Errorf("surface %q shadows = %v/%v", s.Name, s.CastShadow, s.ReceiveShadow)
		}
	})
}

func TestNormalizeDegenerate(t *testing.T) {
	n := scene.NewNode("empty")
	if err := Normalize(n, NormalizeOptions{TargetSize: 1}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestParseAnchor(t *testing.T) {
	tests := map[string]Anchor{
		"ground":  AnchorGround,
		"Ground ": AnchorGround,
		"center":  AnchorCenter,
		"":        AnchorCenter,
	}
	for in, want := range tests {
		if got := ParseAnchor(in); got != want {
			t.Errorf("ParseAnchor(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	q := pmath.QuatFromAxisAngle(pmath.Vec3{Y: 1}, 0.7)
	want := pmath.FromTRS(pmath.Vec3{X: 1, Y: 2, Z: 3}, q, pmath.Vec3{X: 2, Y: 2, Z: 2})

	var m [16]float64
	for i, v := range want {
		m[i] = float64(v)
	}
	pos, rot, scale := decompose(m)
	got := pmath.FromTRS(pos, rot, scale)
	for i := range want {
		if !near(got[i], want[i]) {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}
