package tree

import "github.com/chazu/xylem/pkg/geom"

// Node is one vertex of the support forest. A node owns its children,
// which sit exactly one layer above it; the parent pointer is a back
// reference, never ownership.
type Node struct {
	Position geom.Point
	Radius   geom.Coord
	Layer    int

	// DistanceToTop is the number of layers to the contact point at
	// the top of this branch.
	DistanceToTop int

	// SkinDirection picks the orientation of the sheared tip polygon.
	SkinDirection bool

	// RoofLayers is how many layers below the contact become support
	// roof; zero when the mesh has no roof.
	RoofLayers int

	// ToBuildPlate records whether this branch can still route down
	// to the build plate.
	ToBuildPlate bool

	Children []*Node
	Parent   *Node

	// merged holds peers fused into this node on its layer; pruning
	// uses it to take fused branches down together.
	merged []*Node

	// pruned marks nodes removed from their layer by mid-air pruning.
	pruned bool
}

// IsRoof reports whether the node lies within its mesh's roof band:
// within RoofLayers layers of a contact along its ancestry.
func (n *Node) IsRoof() bool {
	return n.DistanceToTop < n.RoofLayers
}

// Adopt transfers child to n, updating its back reference.
func (n *Node) Adopt(child *Node) {
	n.Children = append(n.Children, child)
	child.Parent = n
}

// Absorb merges a same-layer peer into n: the larger radius, roof
// band, and distance-to-top win, and the peer's children and merged
// set transfer over.
func (n *Node) Absorb(other *Node) {
	if other == nil || other == n {
		return
	}
	if other.Radius > n.Radius {
		n.Radius = other.Radius
	}
	if other.DistanceToTop > n.DistanceToTop {
		n.DistanceToTop = other.DistanceToTop
	}
	if other.RoofLayers > n.RoofLayers {
		n.RoofLayers = other.RoofLayers
	}
	for _, child := range other.Children {
		n.Adopt(child)
	}
	other.Children = nil
	n.merged = append(n.merged, other)
	n.merged = append(n.merged, other.merged...)
	other.merged = nil
}
