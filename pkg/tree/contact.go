package tree

import (
	"math"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/slicedata"
)

// gridRotation tilts the contact grid; 22 degrees covers diagonal
// features better than an axis-aligned grid.
const gridRotation = 22.0 / 180.0 * math.Pi

// generateContactPoints seeds contact nodes under every overhang of
// the mesh, batched by layer into g.layers. Each overhang part
// receives at least one contact.
func (g *Generator) generateContactPoints(mesh *slicedata.SliceMeshStorage) int {
	gridPoints := geom.RotatedGrid(mesh.BoundingBox, g.params.PointSpread, gridRotation)

	roofLayers := 0
	if mesh.Settings.Bool("support_roof_enable") {
		roofLayers = roundDivide(mesh.Settings.Coord("support_roof_height"), g.params.LayerHeight)
	}

	zGapLayers := g.params.ZGapLayers()
	halfOverhang := g.params.HalfOverhangDistance()
	added := 0
	for layer := 1; layer < len(mesh.OverhangAreas)-zGapLayers; layer++ {
		overhang := mesh.OverhangAreas[layer+zGapLayers]
		if overhang.Empty() {
			continue
		}
		skinDirection := (layer+zGapLayers)%2 == 1

		for _, part := range overhang {
			if len(part) < 3 {
				continue
			}
			bounds := part.Bounds()
			bounds.Expand(halfOverhang)
			placed := false
			for _, candidate := range gridPoints {
				if !bounds.Contains(candidate) {
					continue
				}
				// Points just off the overhang are pulled onto it, so
				// constant surfaces whose grid points straddle part
				// boundaries still get contacts.
				moved, ok := part.MoveInside(candidate, halfOverhang)
				if !ok {
					continue
				}
				if !(geom.Polygons{part}).Inside(moved, true) {
					continue
				}
				if g.volumes.Collision(0, layer).Inside(moved, true) {
					continue
				}
				if g.insertContact(moved, layer, skinDirection, roofLayers) {
					added++
				}
				placed = true
			}
			if !placed {
				// Nothing hit this part, so force one contact at its
				// centre to keep loose parts supported.
				candidate := bounds.Middle()
				moved, ok := part.MoveInside(candidate, -1)
				if !ok {
					continue
				}
				if g.insertContact(moved, layer, skinDirection, roofLayers) {
					added++
				}
			}
		}
	}
	return added
}

// insertContact places one contact node, merging with any node already
// on that position of the layer.
func (g *Generator) insertContact(pos geom.Point, layer int, skinDirection bool, roofLayers int) bool {
	node := &Node{
		Position:      pos,
		Radius:        g.params.BranchRadius,
		Layer:         layer,
		SkinDirection: skinDirection,
		RoofLayers:    roofLayers,
		ToBuildPlate:  true,
	}
	return g.insertNode(node)
}
