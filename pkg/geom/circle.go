package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// Circle approximates a circle of the given radius by a regular polygon
// with the given number of sides, counterclockwise, centred on the
// origin.
func Circle(radius Coord, sides int) Polygon {
	out := make(Polygon, 0, sides)
	for _, v := range sdf.Nagon(sides, float64(radius)) {
		out = append(out, Point{Coord(math.Round(v.X)), Coord(math.Round(v.Y))})
	}
	return out
}

// Ellipse approximates an axis-aligned ellipse with the given semi-axes
// by a polygon with the given number of sides, centred on the origin.
func Ellipse(rx, ry Coord, sides int) Polygon {
	out := make(Polygon, 0, sides)
	for _, v := range sdf.Nagon(sides, 1.0) {
		out = append(out, Point{
			Coord(math.Round(v.X * float64(rx))),
			Coord(math.Round(v.Y * float64(ry))),
		})
	}
	return out
}
