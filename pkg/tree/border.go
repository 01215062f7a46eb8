package tree

import (
	"github.com/chazu/xylem/pkg/geom"
	"github.com/chazu/xylem/pkg/slicedata"
)

// ellipseResolution is the number of vertices approximating an
// elliptical build plate.
const ellipseResolution = 50

// machineFrame is how far beyond the printable area the border
// collision extends: 1 m, so nothing routes around the machine.
const machineFrame geom.Coord = 1000000

// MachineBorder assembles the permanent collision polygon for the
// build volume: the printable outline, shrunk by the platform adhesion
// reserve and the extra skirt lines of other used extruders, framed so
// that everything outside it counts as occupied.
func MachineBorder(storage *slicedata.SliceDataStorage, params TreeParams) geom.Polygons {
	var outline geom.Polygon
	switch params.BuildPlate {
	case EllipticPlate:
		size := storage.MachineMax.Sub(storage.MachineMin)
		middle := geom.Point{
			X: (storage.MachineMin.X + storage.MachineMax.X) / 2,
			Y: (storage.MachineMin.Y + storage.MachineMax.Y) / 2,
		}
		ellipse := geom.Ellipse(size.X/2, size.Y/2, ellipseResolution)
		outline = make(geom.Polygon, len(ellipse))
		for i, p := range ellipse {
			outline[i] = p.Add(middle)
		}
	default:
		outline = geom.Polygon{
			storage.MachineMin,
			{X: storage.MachineMax.X, Y: storage.MachineMin.Y},
			storage.MachineMax,
			{X: storage.MachineMin.X, Y: storage.MachineMax.Y},
		}
	}

	reserve := params.AdhesionReserve() + extraSkirtLineWidth(storage)
	inset := geom.Polygons{outline}.Offset(-reserve)

	// Union a 1 m outward expansion with the reversed inset outline:
	// the interior of the print area stays free while everything
	// outside it, machine included, reads as collision.
	border := inset.Offset(machineFrame)
	for _, p := range inset {
		border = append(border, reversed(p))
	}
	return border
}

// extraSkirtLineWidth sums the width of the auxiliary skirt or brim
// line each used extruder other than the adhesion extruder lays down.
func extraSkirtLineWidth(storage *slicedata.SliceDataStorage) geom.Coord {
	adhesionExtruder := storage.Settings.Int("adhesion_extruder_nr")
	used := storage.ExtrudersUsed()
	var extra geom.Coord
	for _, extruder := range storage.Extruders {
		if extruder.Nr == adhesionExtruder || extruder.Nr >= len(used) || !used[extruder.Nr] {
			continue
		}
		width := float64(extruder.Settings.Coord("skirt_brim_line_width"))
		factor := extruder.Settings.Float("initial_layer_line_width_factor")
		extra += geom.Coord(width * factor)
	}
	return extra
}

func reversed(p geom.Polygon) geom.Polygon {
	out := make(geom.Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}
