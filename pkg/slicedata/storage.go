package slicedata

import "github.com/chazu/xylem/pkg/geom"

// SupportInfillPart is one connected region of support on a layer,
// together with its rasterization hints.
type SupportInfillPart struct {
	Outline   geom.Polygons
	LineWidth geom.Coord
	WallCount int
}

// SupportLayer holds the generated support regions for one layer.
type SupportLayer struct {
	InfillParts []SupportInfillPart
	Roof        geom.Polygons
	Bottom      geom.Polygons
}

// SupportStorage is the generator's output surface.
type SupportStorage struct {
	Layers []SupportLayer

	// MaxFilledLayer is the highest layer index holding any support.
	// -1 when nothing was generated.
	MaxFilledLayer int

	// Generated is set once a run seeded at least one contact node,
	// even if pruning later removed every branch.
	Generated bool
}

// SliceMeshStorage is one sliced model: its outlines and overhang areas
// per layer, and the per-mesh settings.
type SliceMeshStorage struct {
	Settings Settings

	// Outlines holds the model outline per layer.
	Outlines []geom.Polygons

	// OverhangAreas holds the overhanging regions per layer, as
	// computed by the slicer from the support angle.
	OverhangAreas []geom.Polygons

	// BoundingBox is the planar bounding box of the whole mesh.
	BoundingBox geom.AABB

	// ExtruderNr is the extruder this mesh prints with.
	ExtruderNr int
}

// ExtruderTrain is one extruder and its settings.
type ExtruderTrain struct {
	Nr       int
	Settings Settings
}

// SliceDataStorage carries the slicer inputs and receives the support
// output.
type SliceDataStorage struct {
	// Settings holds the mesh-group settings.
	Settings Settings

	Meshes    []*SliceMeshStorage
	Extruders []ExtruderTrain

	// MachineMin and MachineMax are the planar machine bounds.
	MachineMin, MachineMax geom.Point

	Support SupportStorage
}

// LayerCount returns the number of layers in the tallest mesh.
func (s *SliceDataStorage) LayerCount() int {
	n := 0
	for _, mesh := range s.Meshes {
		if len(mesh.Outlines) > n {
			n = len(mesh.Outlines)
		}
	}
	return n
}

// LayerOutlines returns the union of all model outlines on the given
// layer. Support and other helper structures are not included.
func (s *SliceDataStorage) LayerOutlines(layer int) geom.Polygons {
	var out geom.Polygons
	for _, mesh := range s.Meshes {
		if layer < 0 || layer >= len(mesh.Outlines) {
			continue
		}
		out = out.Union(mesh.Outlines[layer])
	}
	return out
}

// ExtrudersUsed reports, per extruder, whether any mesh prints with it.
func (s *SliceDataStorage) ExtrudersUsed() []bool {
	used := make([]bool, len(s.Extruders))
	for _, mesh := range s.Meshes {
		if mesh.ExtruderNr >= 0 && mesh.ExtruderNr < len(used) {
			used[mesh.ExtruderNr] = true
		}
	}
	return used
}

// PrepareSupport sizes the support output for the given layer count,
// discarding any previous result.
func (s *SliceDataStorage) PrepareSupport(layers int) {
	s.Support = SupportStorage{
		Layers:         make([]SupportLayer, layers),
		MaxFilledLayer: -1,
	}
}
