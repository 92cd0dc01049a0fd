package model

import (
	"errors"
	"strings"

	"github.com/Faultbox/plush-configurator/internal/engine/scene"
)

// Anchor selects where a normalized model sits vertically.
type Anchor int

const (
	// AnchorCenter puts the bounding box center on the origin.
	AnchorCenter Anchor = iota
	// AnchorGround puts the lowest point on y = 0, centered on X and Z.
	AnchorGround
)

// ParseAnchor maps "ground" to AnchorGround and everything else to
// AnchorCenter.
func ParseAnchor(s string) Anchor {
	if strings.EqualFold(strings.TrimSpace(s), "ground") {
		return AnchorGround
	}
	return AnchorCenter
}

// NormalizeOptions controls Normalize.
type NormalizeOptions struct {
	TargetSize float32 // Largest bounding dimension after scaling
	Anchor     Anchor
}

// ErrDegenerate is returned for models whose bounds have no extent.
var ErrDegenerate = errors.New("model bounds are empty")

// Normalize rewrites the root transform of n so the model's largest
// dimension equals opts.TargetSize and it is placed per opts.Anchor. Every
// surface is set to cast and receive shadows.
func Normalize(n *scene.Node, opts NormalizeOptions) error {
	n.ResetTransform()
	b := n.Bounds()
	if b.IsEmpty() || b.MaxDim() <= 0 || opts.TargetSize <= 0 {
		return ErrDegenerate
	}

	s := opts.TargetSize / b.MaxDim()
	c := b.Center()
	n.SetUniformScale(s)
	n.Position.X = -c.X * s
	n.Position.Z = -c.Z * s
	switch opts.Anchor {
	case AnchorGround:
		n.Position.Y = -b.Min.Y * s
	default:
		n.Position.Y = -c.Y * s
	}

	EnableShadows(n)
	return nil
}

// EnableShadows marks every surface in the subtree as shadow casting and
// receiving.
func EnableShadows(n *scene.Node) {
	n.EachSurface(func(s *scene.Surface) {
		s.CastShadow = true
		s.ReceiveShadow = true
	})
}
