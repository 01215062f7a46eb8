package tree

import (
	"math"

	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/slicedata"
)

// testSettings is the baseline configuration used across the tests:
// layer height 200, branch radius 1000 growing 50 per layer, a move
// limit of 2000 per layer, and X/Y clearance of 800.
func testSettings() slicedata.Settings {
	return slicedata.Settings{
		"support_tree_enable":                true,
		"support_tree_branch_diameter":       2000,
		"support_tree_collision_resolution":  500,
		"layer_height":                       200,
		"support_xy_distance":                800,
		"support_tree_angle":                 math.Atan(10.0), // move limit 2000
		"support_tree_branch_diameter_angle": math.Atan(0.25), // radius increment 50
		"support_tree_branch_distance":       2000,
		"support_top_distance":               200,
		"support_angle":                      math.Pi / 3,
		"support_type":                       "everywhere",
		"machine_shape":                      "rectangular",
		"adhesion_type":                      "none",
		"support_line_width":                 400,
		"support_tree_wall_count":            1,
	}
}

func testStorage(meshes ...*slicedata.SliceMeshStorage) *slicedata.SliceDataStorage {
	return &slicedata.SliceDataStorage{
		Settings:   testSettings(),
		Meshes:     meshes,
		MachineMin: geom.Point{X: -100000, Y: -100000},
		MachineMax: geom.Point{X: 100000, Y: 100000},
	}
}

func testMesh(layers int) *slicedata.SliceMeshStorage {
	return &slicedata.SliceMeshStorage{
		Settings:      slicedata.Settings{"support_tree_enable": true},
		Outlines:      make([]geom.Polygons, layers),
		OverhangAreas: make([]geom.Polygons, layers),
	}
}

// csquare returns a counterclockwise square centred on (cx, cy).
func csquare(cx, cy, half geom.Coord) geom.Polygon {
	return geom.Polygon{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}
}

// disc returns a circle approximation centred on (cx, cy).
func disc(cx, cy, radius geom.Coord) geom.Polygon {
	c := geom.Circle(radius, 16)
	out := make(geom.Polygon, len(c))
	for i, p := range c {
		out[i] = p.Add(geom.Point{X: cx, Y: cy})
	}
	return out
}

func hole(p geom.Polygon) geom.Polygon {
	out := make(geom.Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}
