package scene

import "github.com/Faultbox/plush-configurator/pkg/math"

// Mesh is indexed triangle geometry. Meshes are immutable after creation and
// shared between every instance of a loaded model.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32

	bounds math.Box3
}

// NewMesh builds a mesh and computes its bounds. Missing normals are
// generated by averaging face normals; missing indices draw the positions
// as a plain triangle list.
func NewMesh(name string, positions, normals [][3]float32, uvs [][2]float32, indices []uint32) *Mesh {
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	m := &Mesh{
		Name:      name,
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Indices:   indices,
		bounds:    math.EmptyBox(),
	}
	for _, p := range positions {
		m.bounds = m.bounds.Extend(math.V3(p))
	}
	if len(m.Normals) != len(m.Positions) {
		m.Normals = smoothNormals(positions, indices)
	}
	return m
}

// Bounds returns the mesh bounds in its own space.
func (m *Mesh) Bounds() math.Box3 {
	return m.bounds
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func smoothNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	acc := make([]math.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
			continue
		}
		pa, pb, pc := math.V3(positions[a]), math.V3(positions[b]), math.V3(positions[c])
		// Area weighted
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	out := make([][3]float32, len(positions))
	for i, n := range acc {
		n = n.Normalize()
		if n == (math.Vec3{}) {
			n = math.Vec3{Y: 1}
		}
		out[i] = n.Arr()
	}
	return out
}
