package tree

import (
	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/slicedata"
)

// Stage identifies a phase of the generation run for progress
// reporting.
type Stage int

const (
	StageCollision Stage = iota
	StageDropDown
	StageAreas
)

// ProgressFunc receives progress at stage boundaries.
type ProgressFunc func(stage Stage, done, total int)

// Generator owns the support forest for one generation run.
type Generator struct {
	params  TreeParams
	volumes *ModelVolumes

	// layers holds the forest nodes per layer in insertion order;
	// byPos indexes them by position for duplicate resolution.
	layers [][]*Node
	byPos  []map[geom.Point]*Node

	// Progress, when set, is called at stage boundaries.
	Progress ProgressFunc
}

// NewGenerator prepares a generator for the given storage, reading the
// mesh-group settings and capturing the model volumes.
func NewGenerator(storage *slicedata.SliceDataStorage) *Generator {
	params := ParamsFromSettings(storage.Settings)
	count := storage.LayerCount()
	g := &Generator{
		params:  params,
		volumes: NewModelVolumes(params, storage),
		layers:  make([][]*Node, count),
		byPos:   make([]map[geom.Point]*Node, count),
	}
	for i := range g.byPos {
		g.byPos[i] = make(map[geom.Point]*Node)
	}
	return g
}

// Params returns the configuration snapshot of this run.
func (g *Generator) Params() TreeParams {
	return g.params
}

// Volumes returns the keep-out volume provider of this run.
func (g *Generator) Volumes() *ModelVolumes {
	return g.volumes
}

// Generate runs tree support generation for the storage if any mesh
// has it enabled. Results land in storage.Support.
func Generate(storage *slicedata.SliceDataStorage) {
	enabled := storage.Settings.Bool("support_tree_enable")
	for _, mesh := range storage.Meshes {
		enabled = enabled || mesh.Settings.Bool("support_tree_enable")
	}
	if !enabled {
		return
	}
	NewGenerator(storage).GenerateSupportAreas(storage)
}

// GenerateSupportAreas runs the full pipeline: precompute the keep-out
// volumes, seed contact points, drop the forest to the build plate,
// and rasterize it into per-layer support areas. The Generated flag is
// set only when at least one contact node existed.
func (g *Generator) GenerateSupportAreas(storage *slicedata.SliceDataStorage) {
	layerCount := storage.LayerCount()
	storage.PrepareSupport(layerCount)
	if layerCount == 0 {
		return
	}

	g.volumes.Precompute(g.params.MaxBucket(layerCount), func(done, total int) {
		g.report(StageCollision, done, total)
	})

	contacts := 0
	for _, mesh := range storage.Meshes {
		if !mesh.Settings.Bool("support_tree_enable") && !storage.Settings.Bool("support_tree_enable") {
			continue
		}
		contacts += g.generateContactPoints(mesh)
	}
	if contacts == 0 {
		return
	}

	g.dropNodes()
	g.drawCircles(storage)
	storage.Support.Generated = true
}

func (g *Generator) report(stage Stage, done, total int) {
	if g.Progress != nil {
		g.Progress(stage, done, total)
	}
}

// insertNode adds a node to its layer, fusing it into any node already
// on the same position. It reports whether the node was inserted as a
// new entry.
func (g *Generator) insertNode(n *Node) bool {
	if n.Layer < 0 || n.Layer >= len(g.layers) {
		return false
	}
	if existing, ok := g.byPos[n.Layer][n.Position]; ok && !existing.pruned {
		existing.Absorb(n)
		return false
	}
	g.layers[n.Layer] = append(g.layers[n.Layer], n)
	g.byPos[n.Layer][n.Position] = n
	return true
}

// removeFromLayer unregisters a node from its layer.
func (g *Generator) removeFromLayer(n *Node) {
	if n.Layer < 0 || n.Layer >= len(g.layers) {
		return
	}
	if g.byPos[n.Layer][n.Position] == n {
		delete(g.byPos[n.Layer], n.Position)
	}
}

// LayerNodes returns the live nodes on the given layer in insertion
// order.
func (g *Generator) LayerNodes(layer int) []*Node {
	if layer < 0 || layer >= len(g.layers) {
		return nil
	}
	var out []*Node
	for _, n := range g.layers[layer] {
		if !n.pruned {
			out = append(out, n)
		}
	}
	return out
}
