package tree

import (
	"sort"

	"github.com/chazu/xylem/pkg/geom"
)

// MinimumSpanningTree connects a set of layer positions with minimal
// total edge length. Edge ties are broken by lexicographic order of
// the endpoint coordinates so rebuilds are deterministic. The naive
// quadratic construction is fine for the node counts one layer holds.
type MinimumSpanningTree struct {
	adjacency map[geom.Point][]geom.Point
}

type mstEdge struct {
	a, b    geom.Point
	weight2 int64
}

// NewMinimumSpanningTree builds the tree over the given positions.
func NewMinimumSpanningTree(positions []geom.Point) *MinimumSpanningTree {
	mst := &MinimumSpanningTree{adjacency: make(map[geom.Point][]geom.Point, len(positions))}
	if len(positions) == 0 {
		return mst
	}

	// Deduplicate and order the vertices so candidate edges enumerate
	// identically regardless of input order.
	vertices := make([]geom.Point, 0, len(positions))
	seen := make(map[geom.Point]bool, len(positions))
	for _, p := range positions {
		if !seen[p] {
			seen[p] = true
			vertices = append(vertices, p)
		}
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i].Less(vertices[j]) })

	for _, p := range vertices {
		mst.adjacency[p] = nil
	}
	if len(vertices) == 1 {
		return mst
	}

	// Prim's algorithm: grow from the first vertex, always taking the
	// cheapest edge into the tree, ties by endpoint order.
	inTree := map[geom.Point]bool{vertices[0]: true}
	best := make(map[geom.Point]mstEdge, len(vertices))
	for _, p := range vertices[1:] {
		best[p] = mstEdge{a: vertices[0], b: p, weight2: p.Sub(vertices[0]).Size2()}
	}
	for len(inTree) < len(vertices) {
		var pick mstEdge
		picked := false
		for _, p := range vertices {
			if inTree[p] {
				continue
			}
			edge := best[p]
			if !picked || edge.weight2 < pick.weight2 ||
				(edge.weight2 == pick.weight2 && lessEdge(edge, pick)) {
				pick = edge
				picked = true
			}
		}
		mst.adjacency[pick.a] = append(mst.adjacency[pick.a], pick.b)
		mst.adjacency[pick.b] = append(mst.adjacency[pick.b], pick.a)
		inTree[pick.b] = true
		for _, p := range vertices {
			if inTree[p] {
				continue
			}
			if w2 := p.Sub(pick.b).Size2(); w2 < best[p].weight2 {
				best[p] = mstEdge{a: pick.b, b: p, weight2: w2}
			}
		}
	}
	return mst
}

func lessEdge(e, f mstEdge) bool {
	if e.a != f.a {
		return e.a.Less(f.a)
	}
	return e.b.Less(f.b)
}

// Adjacent returns the tree neighbours of the given position.
func (m *MinimumSpanningTree) Adjacent(p geom.Point) []geom.Point {
	return m.adjacency[p]
}
