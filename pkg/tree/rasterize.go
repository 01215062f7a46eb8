package tree

import (
	"math"
	"sync"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/slicedata"
)

// circleResolution is the number of vertices in a branch circle.
const circleResolution = 10

// floorOffset keeps a small gap between support infill and the support
// floor below it.
const floorOffset geom.Coord = 10

// drawCircles stamps every live node into its layer and assembles the
// final support, roof, and floor regions on the storage. Layers are
// independent, so they rasterize in parallel.
func (g *Generator) drawCircles(storage *slicedata.SliceDataStorage) {
	branchCircle := geom.Circle(g.params.BranchRadius, circleResolution)
	zBottomLayers := roundUpDivide(g.params.BottomDistance, g.params.LayerHeight)

	var mu sync.Mutex
	done := 0
	var wg sync.WaitGroup
	for layer := range storage.Support.Layers {
		wg.Add(1)
		go func(layer int) {
			defer wg.Done()
			filled := g.rasterizeLayer(storage, layer, branchCircle, zBottomLayers)
			mu.Lock()
			if filled && layer > storage.Support.MaxFilledLayer {
				storage.Support.MaxFilledLayer = layer
			}
			done++
			g.report(StageAreas, done, len(storage.Support.Layers))
			mu.Unlock()
		}(layer)
	}
	wg.Wait()
}

func (g *Generator) rasterizeLayer(storage *slicedata.SliceDataStorage, layer int, branchCircle geom.Polygon, zBottomLayers int) bool {
	var supportStamps, roofStamps geom.Polygons
	for _, n := range g.LayerNodes(layer) {
		stamp := g.nodeStamp(n, branchCircle)
		if n.IsRoof() {
			roofStamps = append(roofStamps, stamp)
		} else {
			supportStamps = append(supportStamps, stamp)
		}
	}
	if len(supportStamps) == 0 && len(roofStamps) == 0 {
		return false
	}

	support := supportStamps.Union(nil)
	roof := roofStamps.Union(nil)
	support = support.Difference(roof)

	// Clear the band just above the model so the support keeps its
	// vertical distance to surfaces below.
	zCollision := layer - zBottomLayers + 1
	if zCollision < 0 {
		zCollision = 0
	}
	if zCollision < g.volumes.LayerCount() {
		clearance := g.volumes.Collision(0, zCollision)
		support = support.Difference(clearance)
		roof = roof.Difference(clearance)
	}

	// Deviate at most a quarter line width so the layers still stack.
	if tolerance := g.params.LineWidth / 4; tolerance > 0 {
		support = support.Simplify(tolerance)
	} else {
		support = support.Smooth()
	}

	var floor geom.Polygons
	if g.params.BottomEnable && !support.Empty() {
		floor = g.floorFor(support, layer, zBottomLayers)
		if !floor.Empty() {
			support = support.Difference(floor.Offset(floorOffset))
		}
	}

	out := &storage.Support.Layers[layer]
	out.Roof = roof
	out.Bottom = floor
	for _, part := range support.SplitIntoParts() {
		out.InfillParts = append(out.InfillParts, slicedata.SupportInfillPart{
			Outline:   part,
			LineWidth: g.params.LineWidth,
			WallCount: g.params.WallCount,
		})
	}
	return len(out.InfillParts) > 0 || !roof.Empty()
}

// nodeStamp returns the polygon a node deposits: a sheared, shrunken
// circle within the tip layers, the full grown circle below them.
func (g *Generator) nodeStamp(n *Node, branchCircle geom.Polygon) geom.Polygon {
	tipLayers := g.params.TipLayers()
	stamp := make(geom.Polygon, 0, len(branchCircle))
	for _, corner := range branchCircle {
		x := float64(corner.X)
		y := float64(corner.Y)
		var sx, sy float64
		if tipLayers > 0 && n.DistanceToTop < tipLayers {
			// In the tip the circle collapses towards a line; the
			// shear orientation alternates with the skin direction so
			// the thin stamp crosses the skin lines above.
			scale := float64(n.DistanceToTop+1) / float64(tipLayers)
			grow := 0.5 + scale/2
			shrink := 0.5 - scale/2
			if n.SkinDirection {
				sx = x*grow + y*shrink
				sy = x*shrink + y*grow
			} else {
				sx = x*grow - y*shrink
				sy = -x*shrink + y*grow
			}
		} else {
			scale := float64(n.Radius) / float64(g.params.BranchRadius)
			sx = x * scale
			sy = y * scale
		}
		stamp = append(stamp, n.Position.Add(geom.Point{
			X: geom.Coord(math.Round(sx)),
			Y: geom.Coord(math.Round(sy)),
		}))
	}
	return stamp
}

// floorFor samples the model outlines in a window below the support
// and collects the overlap that must become support floor.
func (g *Generator) floorFor(support geom.Polygons, layer, zBottomLayers int) geom.Polygons {
	bottomLayers := roundUpDivide(g.params.BottomHeight, g.params.LayerHeight)
	if bottomLayers <= 0 {
		return nil
	}
	skip := roundUpDivide(g.params.InterfaceSkipHeight, g.params.LayerHeight)
	if skip < 1 {
		skip = 1
	}
	var floor geom.Polygons
	sampleAt := func(below int) {
		sample := layer - below - zBottomLayers
		if sample < 0 {
			sample = 0
		}
		floor = floor.Union(support.Intersection(g.volumes.outline(sample)))
	}
	for below := 0; below < bottomLayers; below += skip {
		sampleAt(below)
	}
	// One more sample at the full bottom height.
	sampleAt(bottomLayers)
	return floor
}
