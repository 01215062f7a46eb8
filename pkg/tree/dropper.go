package tree

import (
	"github.com/chazu/xylem/pkg/geom"
)

// moveSlack is the extra reach granted on top of the per-layer move
// limit when escaping an avoidance area, absorbing the rounding error
// of the radius sampling.
const moveSlack geom.Coord = 100

// dropNodes propagates the forest downward, one layer at a time, from
// the highest seeded layer to layer 1. Each iteration writes the layer
// below.
func (g *Generator) dropNodes() {
	top := -1
	for z := len(g.layers) - 1; z >= 0; z-- {
		if len(g.LayerNodes(z)) > 0 {
			top = z
			break
		}
	}
	for z := top; z >= 1; z-- {
		g.processLayer(z)
		g.report(StageDropDown, top-z+1, top)
	}
}

// processLayer drops every node on layer z one layer down, then
// merges, moves, and prunes the dropped set before committing it to
// layer z-1.
func (g *Generator) processLayer(z int) {
	nodes := g.LayerNodes(z)
	if len(nodes) == 0 {
		return
	}

	// Drop one layer: each node is replaced by a grown copy below,
	// adopting the original as its only child.
	dropped := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		next := &Node{
			Position:      n.Position,
			Radius:        n.Radius + g.params.RadiusIncrement,
			Layer:         z - 1,
			DistanceToTop: n.DistanceToTop + 1,
			SkinDirection: n.SkinDirection,
			RoofLayers:    n.RoofLayers,
			ToBuildPlate:  n.ToBuildPlate,
		}
		next.Adopt(n)
		dropped = append(dropped, next)
	}

	deleted := make(map[*Node]bool)
	var unsupported []*Node

	// Buildplate-only mode: a node stuck inside its avoidance area
	// with no escape within reach can never come down, so the whole
	// branch goes.
	if !g.params.CanSupportOnModel {
		for _, n := range dropped {
			avoid := g.volumes.Avoidance(n.Radius, z-1)
			if !avoid.Inside(n.Position, false) {
				continue
			}
			escape, ok := avoid.ClosestPoint(n.Position)
			if !ok || escape.Sub(n.Position).Size() > float64(g.params.MaxMove) {
				deleted[n] = true
				unsupported = append(unsupported, n)
			}
		}
	}

	groups := g.groupNodes(dropped, deleted, z-1)
	for groupIndex, group := range groups {
		positions := make([]geom.Point, 0, len(group))
		for _, n := range group {
			positions = append(positions, n.Position)
		}
		mst := NewMinimumSpanningTree(positions)
		g.mergeGroup(group, mst, deleted)
		g.moveGroup(group, groupIndex, z-1, mst, deleted, &unsupported)
	}

	g.prune(unsupported)
}

// groupNodes splits the dropped nodes by the connected part of the
// zero-radius avoidance area they sit in. Group 0 holds the nodes
// outside every part; those head for the build plate. Ties go to the
// nearest part, then the smallest part index.
func (g *Generator) groupNodes(dropped []*Node, deleted map[*Node]bool, layer int) [][]*Node {
	parts := g.volumes.Avoidance(0, layer).SplitIntoParts()
	groups := make([][]*Node, len(parts)+1)
	for _, n := range dropped {
		if deleted[n] {
			continue
		}
		index := 0
		for i, part := range parts {
			if part.Inside(n.Position, true) {
				// A node on a border can touch several parts at once;
				// the smallest part index wins.
				index = i + 1
				break
			}
		}
		groups[index] = append(groups[index], n)
	}
	return groups
}

// mergeGroup fuses nearby nodes along the group's minimum spanning
// tree: leaf pairs meet at their midpoint, hubs swallow every
// neighbour within reach.
func (g *Generator) mergeGroup(group []*Node, mst *MinimumSpanningTree, deleted map[*Node]bool) {
	if len(group) < 2 {
		return
	}
	byPos := make(map[geom.Point]*Node, len(group))
	for _, n := range group {
		byPos[n.Position] = n
	}

	maxMove := float64(g.params.MaxMove)
	for _, n := range group {
		if deleted[n] {
			continue
		}
		neighbours := mst.Adjacent(n.Position)
		if len(neighbours) == 1 {
			other := byPos[neighbours[0]]
			if other == nil || other == n || deleted[other] {
				continue
			}
			if neighbours[0].Sub(n.Position).Size() < maxMove && len(mst.Adjacent(neighbours[0])) == 1 {
				// Two lone nodes close together become one at the
				// midpoint.
				n.Position = n.Position.Add(neighbours[0]).Div(2)
				n.Absorb(other)
				deleted[other] = true
			}
			continue
		}
		for _, pos := range neighbours {
			other := byPos[pos]
			if other == nil || other == n || deleted[other] {
				continue
			}
			if pos.Sub(n.Position).Size() < maxMove {
				n.Absorb(other)
				deleted[other] = true
			}
		}
	}
}

// moveGroup relocates each surviving node of the group and commits it
// to its new layer. Nodes that cannot reach a feasible position are
// queued for pruning.
func (g *Generator) moveGroup(group []*Node, groupIndex, layer int, mst *MinimumSpanningTree, deleted map[*Node]bool, unsupported *[]*Node) {
	maxMove := float64(g.params.MaxMove)
	for _, n := range group {
		if deleted[n] {
			continue
		}
		pos := n.Position

		// A node buried deeper in the model than its own radius would
		// be erased entirely by the X/Y clearance. When branches may
		// rest on the model the layer above becomes the branch root;
		// otherwise the branch is unsupportable.
		if groupIndex > 0 {
			collision := g.volumes.Collision(0, layer)
			if collision.Inside(pos, false) {
				border, ok := collision.ClosestPoint(pos)
				if !ok || border.Sub(pos).Size() >= float64(n.Radius) {
					deleted[n] = true
					if g.params.CanSupportOnModel {
						g.restOnModel(n)
					} else {
						*unsupported = append(*unsupported, n)
					}
					continue
				}
			}
		}

		next := pos
		neighbours := mst.Adjacent(pos)
		collapsing := len(neighbours) == 1 && neighbours[0].Sub(pos).Size() < maxMove
		if len(neighbours) > 0 && !collapsing {
			// Drift towards the mean of the neighbours so branches
			// converge instead of dropping straight down.
			sum := geom.Point{}
			for _, nb := range neighbours {
				sum = sum.Add(nb.Sub(pos))
			}
			if sum.Size() <= maxMove {
				next = pos.Add(sum)
			} else {
				next = pos.Add(geom.Normal(sum, g.params.MaxMove))
			}
		}

		limit := g.params.MaxMove
		if groupIndex == 0 {
			slack := g.params.MaxMove + g.params.RadiusSampleResolution + moveSlack
			avoid := g.volumes.Avoidance(n.Radius, layer)
			if moved, ok := avoid.MoveOutside(next, g.params.RadiusSampleResolution+moveSlack, slack); ok {
				next = moved
			}
			// The escape is measured from the drifted position, so the
			// overall step may spend the drift and the slack.
			limit = g.params.MaxMove + slack
		} else {
			next = g.pullInside(n, next, layer)
		}

		if next.Sub(pos).Size() > float64(limit)+2 {
			deleted[n] = true
			*unsupported = append(*unsupported, n)
			continue
		}

		n.ToBuildPlate = !g.volumes.Avoidance(n.Radius, layer).Inside(next, false)
		n.Position = next
		g.insertNode(n)
	}
}

// pullInside steers an interior node towards the middle of the
// internal guide region, one bounded step at a time, so branches stop
// hugging the model walls.
func (g *Generator) pullInside(n *Node, next geom.Point, layer int) geom.Point {
	internal := g.volumes.InternalModel(n.Radius, layer)
	closest, ok := internal.ClosestPoint(next)
	if !ok {
		return next
	}
	pos := n.Position
	depth := pos.Sub(closest).Size() + float64(g.params.MaxMove)

	// Probe both sides of the border for the direction that leads into
	// the guide region. A region too small to hold the target depth
	// applies no pull, leaving the node at its drifted position.
	target := next
	for _, dir := range []geom.Point{closest.Sub(next), next.Sub(closest)} {
		if dir == (geom.Point{}) {
			continue
		}
		candidate := closest.Add(geom.Normal(dir, geom.Coord(depth)))
		if internal.Inside(candidate, true) {
			target = candidate
			break
		}
	}

	diff := target.Sub(pos)
	if diff.Size() > float64(g.params.MaxMove) {
		diff = geom.Normal(diff, g.params.MaxMove)
	}
	return pos.Add(diff)
}

// restOnModel discards a node whose layer is solid model, leaving its
// children in place as branch roots standing on the model surface.
func (g *Generator) restOnModel(n *Node) {
	for _, child := range n.Children {
		child.Parent = nil
	}
	n.Children = nil
}

// prune removes every queued subtree from the forest, following
// merged-neighbour links so fused branches come down together.
func (g *Generator) prune(unsupported []*Node) {
	for len(unsupported) > 0 {
		n := unsupported[0]
		unsupported = unsupported[1:]
		unsupported = g.pruneSubtree(n, unsupported)
	}
}

func (g *Generator) pruneSubtree(n *Node, queue []*Node) []*Node {
	if n == nil || n.pruned {
		return queue
	}
	n.pruned = true
	g.removeFromLayer(n)
	queue = append(queue, n.merged...)
	for _, child := range n.Children {
		queue = g.pruneSubtree(child, queue)
	}
	return queue
}
