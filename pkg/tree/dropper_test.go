package tree

import (
	"testing"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/slicedata"
)

// checkForest verifies the structural invariants of the forest: child
// layers one above their parent, monotone radius towards the root,
// bounded per-layer movement, and unique positions per layer.
func checkForest(t *testing.T, g *Generator, layers int, maxStep float64) {
	t.Helper()
	for z := 0; z < layers; z++ {
		seen := make(map[geom.Point]bool)
		for _, n := range g.LayerNodes(z) {
			if seen[n.Position] {
				t.Errorf("layer %d has two nodes at %v", z, n.Position)
			}
			seen[n.Position] = true
			for _, child := range n.Children {
				if child.Layer != n.Layer+1 {
					t.Errorf("child layer %d under parent layer %d", child.Layer, n.Layer)
				}
				if child.Radius > n.Radius {
					t.Errorf("child radius %d exceeds parent radius %d", child.Radius, n.Radius)
				}
				if d := child.Position.Sub(n.Position).Size(); d > maxStep {
					t.Errorf("step of %f between layers %d and %d exceeds %f", d, child.Layer, n.Layer, maxStep)
				}
				if child.Parent != n {
					t.Error("child does not point back at its parent")
				}
			}
		}
	}
}

func generateFor(t *testing.T, storage *slicedata.SliceDataStorage) *Generator {
	t.Helper()
	g := NewGenerator(storage)
	g.GenerateSupportAreas(storage)
	return g
}

func TestSinglePillar(t *testing.T) {
	mesh := testMesh(12)
	mesh.OverhangAreas[10] = geom.Polygons{disc(0, 0, 5000)}
	mesh.BoundingBox = mesh.OverhangAreas[10].Bounds()
	storage := testStorage(mesh)
	g := generateFor(t, storage)

	if !storage.Support.Generated {
		t.Fatal("support should be marked generated")
	}
	contacts := g.LayerNodes(8)
	if len(contacts) == 0 {
		t.Fatal("no contacts seeded")
	}
	roots := g.LayerNodes(0)
	if len(roots) == 0 {
		t.Fatal("no roots reached the build plate")
	}
	if len(roots) >= len(contacts) {
		t.Errorf("%d roots from %d contacts, want convergence", len(roots), len(contacts))
	}
	for _, root := range roots {
		// Movement never leaves the convex hull of the contacts.
		if root.Position.Size() > 5100 {
			t.Errorf("root %v strayed outside the overhang footprint", root.Position)
		}
		if root.DistanceToTop != 8 {
			t.Errorf("root distance to top = %d, want 8", root.DistanceToTop)
		}
		wantRadius := g.params.BranchRadius + 8*g.params.RadiusIncrement
		if root.Radius != wantRadius {
			t.Errorf("root radius = %d, want %d", root.Radius, wantRadius)
		}
	}
	checkForest(t, g, 12, 2*float64(g.params.MaxMove)+702)

	if storage.Support.MaxFilledLayer != 8 {
		t.Errorf("max filled layer = %d, want 8", storage.Support.MaxFilledLayer)
	}
	part := storage.Support.Layers[0].InfillParts
	if len(part) == 0 {
		t.Fatal("layer 0 has no support infill")
	}
	if part[0].LineWidth != 400 || part[0].WallCount != 1 {
		t.Errorf("part hints = (%d, %d), want (400, 1)", part[0].LineWidth, part[0].WallCount)
	}
}

func TestTwoOverhangsMerge(t *testing.T) {
	mesh := testMesh(22)
	mesh.OverhangAreas[20] = geom.Polygons{disc(-8000, 0, 2000), disc(8000, 0, 2000)}
	mesh.BoundingBox = mesh.OverhangAreas[20].Bounds()
	storage := testStorage(mesh)
	g := generateFor(t, storage)

	roots := g.LayerNodes(0)
	if len(roots) != 1 {
		t.Fatalf("%d roots at the build plate, want the branches fused into 1", len(roots))
	}
	root := roots[0]
	if abs(root.Position.X) > 5000 || abs(root.Position.Y) > 2500 {
		t.Errorf("fused root at %v, want near the middle", root.Position)
	}
	checkForest(t, g, 22, 2*float64(g.params.MaxMove)+702)
}

func TestMidAirPrune(t *testing.T) {
	mesh := testMesh(22)
	mesh.OverhangAreas[20] = geom.Polygons{disc(0, 0, 1500)}
	for z := 0; z <= 5; z++ {
		mesh.Outlines[z] = geom.Polygons{csquare(0, 0, 20000)}
	}
	mesh.BoundingBox = geom.AABB{Min: geom.Point{X: -20000, Y: -20000}, Max: geom.Point{X: 20000, Y: 20000}}
	storage := testStorage(mesh)
	storage.Settings["support_type"] = "buildplate"
	g := generateFor(t, storage)

	// The slab is too wide to escape sideways, so the whole branch is
	// unsupportable: nothing may remain, not even the contact.
	for z := 0; z < 22; z++ {
		if nodes := g.LayerNodes(z); len(nodes) != 0 {
			t.Errorf("layer %d still holds %d nodes after pruning", z, len(nodes))
		}
	}
	for z, layer := range storage.Support.Layers {
		if len(layer.InfillParts) != 0 {
			t.Errorf("layer %d still has support infill", z)
		}
	}
	if storage.Support.MaxFilledLayer != -1 {
		t.Errorf("max filled layer = %d, want -1", storage.Support.MaxFilledLayer)
	}
}

func TestInteriorBranchRestsOnModel(t *testing.T) {
	mesh := testMesh(16)
	// A cup: solid floor for three layers, then walls with a cavity.
	for z := 0; z <= 2; z++ {
		mesh.Outlines[z] = geom.Polygons{csquare(0, 0, 10000)}
	}
	for z := 3; z <= 14; z++ {
		mesh.Outlines[z] = geom.Polygons{csquare(0, 0, 10000), hole(csquare(0, 0, 7000))}
	}
	mesh.OverhangAreas[12] = geom.Polygons{disc(0, 0, 3000)}
	mesh.BoundingBox = geom.AABB{Min: geom.Point{X: -10000, Y: -10000}, Max: geom.Point{X: 10000, Y: 10000}}
	storage := testStorage(mesh)
	g := generateFor(t, storage)

	for z := 0; z <= 2; z++ {
		if nodes := g.LayerNodes(z); len(nodes) != 0 {
			t.Errorf("layer %d inside the floor holds %d nodes", z, len(nodes))
		}
	}
	var roots []*Node
	for z := 3; z < 16; z++ {
		for _, n := range g.LayerNodes(z) {
			if n.Parent == nil {
				roots = append(roots, n)
			}
		}
	}
	if len(roots) == 0 {
		t.Fatal("no branch came to rest on the model")
	}
	for _, root := range roots {
		if root.Layer == 0 {
			t.Error("interior branch should not reach the build plate")
		}
		below := g.volumes.Collision(0, root.Layer-1)
		if !below.Inside(root.Position, true) {
			t.Errorf("root at layer %d position %v is not standing on the model", root.Layer, root.Position)
		}
	}
}

func TestStraightDropWithoutMovement(t *testing.T) {
	mesh := testMesh(12)
	mesh.OverhangAreas[10] = geom.Polygons{disc(3000, -2000, 600)}
	mesh.BoundingBox = geom.AABB{Min: geom.Point{X: -10000, Y: -10000}, Max: geom.Point{X: 10000, Y: 10000}}
	storage := testStorage(mesh)
	storage.Settings["support_tree_angle"] = 0.0 // move limit 0
	storage.Settings["support_tree_branch_distance"] = 30000
	g := generateFor(t, storage)

	roots := g.LayerNodes(0)
	if len(roots) != 1 {
		t.Fatalf("%d roots, want the single fallback contact dropped straight", len(roots))
	}
	node := roots[0]
	for node != nil {
		if node.Position != roots[0].Position {
			t.Errorf("node at layer %d drifted to %v with a zero move limit", node.Layer, node.Position)
		}
		if len(node.Children) > 1 {
			t.Errorf("node at layer %d has %d children, want a bare chain", node.Layer, len(node.Children))
		}
		if len(node.Children) == 0 {
			break
		}
		node = node.Children[0]
	}
	if node == nil || node.Layer != 8 {
		t.Error("the chain should end at the contact layer")
	}
	checkForest(t, g, 12, 1)
}

func abs(c geom.Coord) geom.Coord {
	if c < 0 {
		return -c
	}
	return c
}
