package scene

import (
	"testing"

	"github.com/Faultbox/plush-configurator/pkg/math"
)

func unitQuad() *Mesh {
	return NewMesh("quad",
		[][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		nil, nil,
		[]uint32{0, 1, 2, 0, 2, 3})
}

func TestNewMeshBoundsAndNormals(t *testing.T) {
	m := unitQuad()

	b := m.Bounds()
	if b.Min != (math.Vec3{}) || b.Max != (math.Vec3{X: 1, Y: 1}) {
		t.Errorf("Bounds = %+v", b)
	}
	if len(m.Normals) != 4 {
		t.Fatalf("expected generated normals, got %d", len(m.Normals))
	}
	for i, n := range m.Normals {
		if n != [3]float32{0, 0, 1} {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d", m.TriangleCount())
	}
}

func TestNewMeshWithoutIndices(t *testing.T) {
	m := NewMesh("tri", [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, nil, nil)
	if len(m.Indices) != 3 || m.Indices[2] != 2 {
		t.Errorf("Indices = %v", m.Indices)
	}
}

func TestSurfaceCloneOnFirstWrite(t *testing.T) {
	shared := &Material{Name: "Fur", BaseColor: [4]float32{1, 0, 0, 1}}
	a := NewSurface("body", unitQuad(), shared)
	b := NewSurface("tail", unitQuad(), shared)

	if a.OwnsMaterial() {
		t.Fatal("new surface should not own a shared material")
	}

	white := [4]float32{1, 1, 1, 1}
	a.SetColor(white, "fur.png")

	if !a.OwnsMaterial() {
		t.Error("surface should own its material after a write")
	}
	if a.Material() == shared {
		t.Error("write should have copied the material")
	}
	if a.Material().Name != "Fur" {
		t.Errorf("copy should keep the material name, got %q", a.Material().Name)
	}
	if shared.BaseColor != [4]float32{1, 0, 0, 1} || shared.Texture != "" {
		t.Errorf("shared material changed: %+v", shared)
	}
	if b.Material() != shared {
		t.Error("sibling surface should still use the shared material")
	}

	owned := a.Material()
	a.SetColor([4]float32{0, 0, 0, 1}, "")
	if a.Material() != owned {
		t.Error("second write should reuse the owned copy")
	}
}

func TestNodeTransforms(t *testing.T) {
	root := NewNode("root")
	root.Position = math.Vec3{X: 10}
	child := NewNode("child")
	child.SetUniformScale(2)
	root.Add(child)

	got := child.World().TransformVec3(math.Vec3{X: 1, Y: 1, Z: 1})
	if got != (math.Vec3{X: 12, Y: 2, Z: 2}) {
		t.Errorf("World point = %v", got)
	}
	if child.Parent() != root {
		t.Error("Parent not set")
	}

	other := NewNode("other")
	other.Add(child)
	if len(root.Children) != 0 {
		t.Error("Add should detach from the previous parent")
	}
}

func TestBoundsIncludeOwnTransform(t *testing.T) {
	n := NewNode("model")
	n.Surfaces = append(n.Surfaces, NewSurface("quad", unitQuad(), nil))
	n.Position = math.Vec3{Y: 5}
	n.SetUniformScale(3)

	b := n.Bounds()
	if b.Min != (math.Vec3{Y: 5}) || b.Max != (math.Vec3{X: 3, Y: 8}) {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestVisibleWorldBoundsSkipsHidden(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	a.Surfaces = []*Surface{NewSurface("q", unitQuad(), nil)}
	b := NewNode("b")
	b.Position = math.Vec3{X: 100}
	b.Surfaces = []*Surface{NewSurface("q", unitQuad(), nil)}
	b.Visible = false
	root.Add(a)
	root.Add(b)

	box := root.VisibleWorldBounds()
	if box.Max.X != 1 {
		t.Errorf("hidden node should not contribute, Max = %v", box.Max)
	}
	if root.Bounds().Max.X != 101 {
		t.Errorf("Bounds should include hidden nodes, Max = %v", root.Bounds().Max)
	}
}

func TestCloneSharesMeshesAndMaterials(t *testing.T) {
	mat := &Material{Name: "Fur"}
	src := NewNode("cat")
	body := NewNode("body")
	body.Surfaces = []*Surface{NewSurface("body", unitQuad(), mat)}
	src.Add(body)

	dup := src.Clone()
	dupBody := dup.Find("body")
	if dupBody == nil {
		t.Fatal("clone lost a child")
	}
	if dupBody.Parent() != dup {
		t.Error("cloned child should point at the cloned parent")
	}
	if dupBody.Surfaces[0] == body.Surfaces[0] {
		t.Error("surfaces should be copied")
	}
	if dupBody.Surfaces[0].Mesh != body.Surfaces[0].Mesh {
		t.Error("meshes should be shared")
	}
	if dupBody.Surfaces[0].Material() != mat {
		t.Error("materials should be shared until written")
	}

	dupBody.Surfaces[0].SetColor([4]float32{0, 1, 0, 1}, "")
	if body.Surfaces[0].Material().BaseColor == [4]float32{0, 1, 0, 1} {
		t.Error("recoloring a clone changed the original")
	}
}

func TestWalkVisibleAndEachSurface(t *testing.T) {
	root := NewNode("root")
	hidden := NewNode("hidden")
	hidden.Visible = false
	hidden.Surfaces = []*Surface{NewSurface("h", unitQuad(), nil)}
	shown := NewNode("shown")
	shown.Surfaces = []*Surface{NewSurface("s", unitQuad(), nil)}
	root.Add(hidden)
	root.Add(shown)

	var visited []string
	root.WalkVisible(math.Identity(), func(n *Node, _ math.Mat4) {
		visited = append(visited, n.Name)
	})
	if len(visited) != 2 || visited[1] != "shown" {
		t.Errorf("WalkVisible visited %v", visited)
	}

	count := 0
	root.EachSurface(func(*Surface) { count++ })
	if count != 2 {
		t.Errorf("EachSurface visited %d surfaces, want 2", count)
	}
}
