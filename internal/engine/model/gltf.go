// Package model decodes glTF 2.0 files into scene graphs and normalizes
// their size and placement.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/plush-configurator/internal/engine/scene"
	"github.com/Faultbox/plush-configurator/pkg/math"
)

// maxDepth bounds node recursion for malformed files with cycles.
const maxDepth = 64

// ErrNoGeometry is returned for files without a single triangle primitive.
var ErrNoGeometry = errors.New("model has no triangle geometry")

// Load opens a .gltf or .glb file and decodes its default scene.
func Load(path string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	root, err := Decode(doc, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	root.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return root, nil
}

// Decode converts the default scene of doc into a node tree. Relative image
// URIs are resolved against baseDir.
func Decode(doc *gltf.Document, baseDir string) (*scene.Node, error) {
	d := &decoder{
		doc:       doc,
		baseDir:   baseDir,
		materials: make(map[int]*scene.Material),
		meshes:    make(map[primitiveKey]*scene.Mesh),
	}

	root := scene.NewNode("model")
	for _, idx := range d.rootNodes() {
		n, err := d.node(idx, 0)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	if d.surfaces == 0 {
		return nil, ErrNoGeometry
	}
	return root, nil
}

type decoder struct {
	doc       *gltf.Document
	baseDir   string
	materials map[int]*scene.Material
	meshes    map[primitiveKey]*scene.Mesh
	surfaces  int
}

type primitiveKey struct {
	mesh      uint32
	primitive int
}

// rootNodes returns the node list of the default scene. Files without
// scenes fall back to every node that is nobody's child.
func (d *decoder) rootNodes() []uint32 {
	if len(d.doc.Scenes) > 0 {
		idx := 0
		if d.doc.Scene != nil && int(*d.doc.Scene) < len(d.doc.Scenes) {
			idx = int(*d.doc.Scene)
		}
		return d.doc.Scenes[idx].Nodes
	}
	child := make(map[uint32]bool)
	for _, n := range d.doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []uint32
	for i := range d.doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func (d *decoder) node(idx uint32, depth int) (*scene.Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("node hierarchy deeper than %d", maxDepth)
	}
	if int(idx) >= len(d.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	src := d.doc.Nodes[idx]

	n := scene.NewNode(src.Name)
	if m := src.MatrixOrDefault(); m != gltf.DefaultMatrix {
		n.Position, n.Rotation, n.Scale = decompose(m)
	} else {
		t, r, s := src.TranslationOrDefault(), src.RotationOrDefault(), src.ScaleOrDefault()
		n.Position = math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
		n.Rotation = math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
		n.Scale = math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}
	}

	if src.Mesh != nil {
		if err := d.attachMesh(n, *src.Mesh); err != nil {
			return nil, err
		}
	}

	for _, c := range src.Children {
		child, err := d.node(c, depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func (d *decoder) attachMesh(n *scene.Node, meshIdx uint32) error {
	if int(meshIdx) >= len(d.doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", meshIdx)
	}
	src := d.doc.Meshes[meshIdx]

	name := n.Name
	if name == "" {
		name = src.Name
	}

	for pi, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		mesh, err := d.mesh(meshIdx, pi, src.Name)
		if err != nil {
			return err
		}
		if mesh == nil {
			continue
		}
		surf := scene.NewSurface(name, mesh, d.material(prim.Material))
		n.Surfaces = append(n.Surfaces, surf)
		d.surfaces++
	}
	return nil
}

func (d *decoder) mesh(meshIdx uint32, primIdx int, name string) (*scene.Mesh, error) {
	key := primitiveKey{mesh: meshIdx, primitive: primIdx}
	if m, ok := d.meshes[key]; ok {
		return m, nil
	}
	prim := d.doc.Meshes[meshIdx].Primitives[primIdx]

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	positions, err := modeler.ReadPosition(d.doc, d.doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("mesh %q positions: %w", name, err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(d.doc, d.doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("mesh %q normals: %w", name, err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(d.doc, d.doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("mesh %q uvs: %w", name, err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(d.doc, d.doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, fmt.Errorf("mesh %q indices: %w", name, err)
		}
	}

	m := scene.NewMesh(name, positions, normals, uvs, indices)
	d.meshes[key] = m
	return m, nil
}

// material returns the shared material for index idx. Primitives without a
// material share one default material.
func (d *decoder) material(idx *uint32) *scene.Material {
	key := -1
	if idx != nil && int(*idx) < len(d.doc.Materials) {
		key = int(*idx)
	}
	if m, ok := d.materials[key]; ok {
		return m
	}

	m := scene.DefaultMaterial()
	if key >= 0 {
		src := d.doc.Materials[key]
		m.Name = src.Name
		if pbr := src.PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			m.BaseColor = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
			m.Metalness = float32(pbr.MetallicFactorOrDefault())
			m.Roughness = float32(pbr.RoughnessFactorOrDefault())
			if pbr.BaseColorTexture != nil {
				m.Texture = d.imagePath(pbr.BaseColorTexture.Index)
			}
		}
	}
	d.materials[key] = m
	return m
}

// imagePath resolves a texture to an external file. Embedded images are not
// supported and resolve to "".
func (d *decoder) imagePath(texIdx uint32) string {
	if int(texIdx) >= len(d.doc.Textures) {
		return ""
	}
	src := d.doc.Textures[texIdx].Source
	if src == nil || int(*src) >= len(d.doc.Images) {
		return ""
	}
	uri := d.doc.Images[*src].URI
	if uri == "" || strings.HasPrefix(uri, "data:") {
		return ""
	}
	if filepath.IsAbs(uri) {
		return uri
	}
	return filepath.Join(d.baseDir, filepath.FromSlash(uri))
}

// decompose splits a column-major TRS matrix. Shear is discarded.
func decompose(m [16]float64) (math.Vec3, math.Quat, math.Vec3) {
	var f [16]float32
	for i, v := range m {
		f[i] = float32(v)
	}
	t := math.Vec3{X: f[12], Y: f[13], Z: f[14]}
	sx := math.Vec3{X: f[0], Y: f[1], Z: f[2]}.Length()
	sy := math.Vec3{X: f[4], Y: f[5], Z: f[6]}.Length()
	sz := math.Vec3{X: f[8], Y: f[9], Z: f[10]}.Length()
	if sx == 0 || sy == 0 || sz == 0 {
		return t, math.QuatIdentity(), math.Vec3{X: sx, Y: sy, Z: sz}
	}

	// Rotation matrix rows/cols with scale removed.
	r00, r10, r20 := f[0]/sx, f[1]/sx, f[2]/sx
	r01, r11, r21 := f[4]/sy, f[5]/sy, f[6]/sy
	r02, r12, r22 := f[8]/sz, f[9]/sz, f[10]/sz

	var q math.Quat
	trace := r00 + r11 + r22
	switch {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q = math.Quat{W: s / 4, X: (r21 - r12) / s, Y: (r02 - r20) / s, Z: (r10 - r01) / s}
	case r00 > r11 && r00 > r22:
		s := math32.Sqrt(1+r00-r11-r22) * 2
		q = math.Quat{W: (r21 - r12) / s, X: s / 4, Y: (r01 + r10) / s, Z: (r02 + r20) / s}
	case r11 > r22:
		s := math32.Sqrt(1+r11-r00-r22) * 2
		q = math.Quat{W: (r02 - r20) / s, X: (r01 + r10) / s, Y: s / 4, Z: (r12 + r21) / s}
	default:
		s := math32.Sqrt(1+r22-r00-r11) * 2
		q = math.Quat{W: (r10 - r01) / s, X: (r02 + r20) / s, Y: (r12 + r21) / s, Z: s / 4}
	}
	return t, q.Normalize(), math.Vec3{X: sx, Y: sy, Z: sz}
}
