package scene

// Material is the surface appearance record. Materials decoded from one
// file are shared by every surface and instance that references them until
// a surface takes its own copy on first write.
type Material struct {
	Name      string
	BaseColor [4]float32 // Linear RGBA
	Roughness float32
	Metalness float32
	Texture   string // Base color image path, empty for none
}

// DefaultMaterial returns a neutral white material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		BaseColor: [4]float32{1, 1, 1, 1},
		Roughness: 0.8,
	}
}

// Clone returns an independent copy.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Surface is one drawable piece of a node: a mesh and its material.
type Surface struct {
	Name          string
	Mesh          *Mesh
	CastShadow    bool
	ReceiveShadow bool

	material     *Material
	ownsMaterial bool
}

// NewSurface creates a surface that references mat without owning it.
func NewSurface(name string, mesh *Mesh, mat *Material) *Surface {
	if mat == nil {
		mat = DefaultMaterial()
	}
	return &Surface{Name: name, Mesh: mesh, material: mat}
}

// Material returns the material currently used for drawing.
func (s *Surface) Material() *Material {
	return s.material
}

// OwnsMaterial reports whether the surface holds a private material copy.
func (s *Surface) OwnsMaterial() bool {
	return s.ownsMaterial
}

// SetColor sets the base color and texture. The shared material is copied
// before the first write so other surfaces and instances are unaffected.
func (s *Surface) SetColor(rgba [4]float32, texture string) {
	if !s.ownsMaterial {
		s.material = s.material.Clone()
		s.ownsMaterial = true
	}
	s.material.BaseColor = rgba
	s.material.Texture = texture
}

func (s *Surface) clone() *Surface {
	return &Surface{
		Name:          s.Name,
		Mesh:          s.Mesh,
		CastShadow:    s.CastShadow,
		ReceiveShadow: s.ReceiveShadow,
		material:      s.material,
	}
}
