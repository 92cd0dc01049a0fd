// Package scene is the in-memory scene graph: a tree of transformed nodes
// carrying drawable surfaces. It has no GPU state; the renderer package
// uploads meshes lazily when it first meets them.
package scene

import "github.com/Faultbox/plush-configurator/pkg/math"

// Node is a transform in the scene tree. An invisible node hides its whole
// subtree.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Visible  bool

	Surfaces []*Surface
	Children []*Node

	parent *Node
}

// NewNode returns a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Visible:  true,
	}
}

// Parent returns the node's parent, nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Add attaches child, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child if it is a direct child of n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// SetUniformScale sets the same scale on every axis.
func (n *Node) SetUniformScale(s float32) {
	n.Scale = math.Vec3{X: s, Y: s, Z: s}
}

// ResetTransform restores the identity transform.
func (n *Node) ResetTransform() {
	n.Position = math.Vec3{}
	n.Rotation = math.QuatIdentity()
	n.Scale = math.Vec3{X: 1, Y: 1, Z: 1}
}

// Local returns the node transform relative to its parent.
func (n *Node) Local() math.Mat4 {
	return math.FromTRS(n.Position, n.Rotation, n.Scale)
}

// World returns the node transform relative to the root.
func (n *Node) World() math.Mat4 {
	if n.parent == nil {
		return n.Local()
	}
	return n.parent.World().Mul(n.Local())
}

// Walk visits n and its descendants depth-first with their accumulated
// transforms. Returning false from visit skips that node's children.
func (n *Node) Walk(parent math.Mat4, visit func(node *Node, world math.Mat4) bool) {
	world := parent.Mul(n.Local())
	if !visit(n, world) {
		return
	}
	for _, c := range n.Children {
		c.Walk(world, visit)
	}
}

// WalkVisible is Walk restricted to visible subtrees.
func (n *Node) WalkVisible(parent math.Mat4, visit func(node *Node, world math.Mat4)) {
	n.Walk(parent, func(node *Node, world math.Mat4) bool {
		if !node.Visible {
			return false
		}
		visit(node, world)
		return true
	})
}

// EachSurface calls fn for every surface in the subtree, visible or not.
func (n *Node) EachSurface(fn func(s *Surface)) {
	for _, s := range n.Surfaces {
		fn(s)
	}
	for _, c := range n.Children {
		c.EachSurface(fn)
	}
}

// Bounds returns the subtree bounds in the parent's space, that is with n's
// own transform applied. Invisible descendants are included.
func (n *Node) Bounds() math.Box3 {
	box := math.EmptyBox()
	n.Walk(math.Identity(), func(node *Node, world math.Mat4) bool {
		for _, s := range node.Surfaces {
			if s.Mesh != nil {
				box = box.Union(s.Mesh.Bounds().Transform(world))
			}
		}
		return true
	})
	return box
}

// VisibleWorldBounds returns the world-space bounds of visible geometry.
func (n *Node) VisibleWorldBounds() math.Box3 {
	box := math.EmptyBox()
	start := math.Identity()
	if n.parent != nil {
		start = n.parent.World()
	}
	n.WalkVisible(start, func(node *Node, world math.Mat4) {
		for _, s := range node.Surfaces {
			if s.Mesh != nil {
				box = box.Union(s.Mesh.Bounds().Transform(world))
			}
		}
	})
	return box
}

// Find returns the first node named name in the subtree.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Clone copies the subtree. Meshes and materials are shared with the
// original; each cloned surface copies its material on first write.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:     n.Name,
		Position: n.Position,
		Rotation: n.Rotation,
		Scale:    n.Scale,
		Visible:  n.Visible,
	}
	for _, s := range n.Surfaces {
		c.Surfaces = append(c.Surfaces, s.clone())
	}
	for _, child := range n.Children {
		cc := child.Clone()
		cc.parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}
