package geom

import "math"

// RotatedGrid returns grid points with the given spacing, rotated by
// angle radians about the centre of bounds. Only points falling inside
// bounds are returned. The grid is anchored to the centre so the same
// bounds always produce the same points.
func RotatedGrid(bounds AABB, spacing Coord, angle float64) []Point {
	if spacing <= 0 || bounds.Empty() {
		return nil
	}
	centre := bounds.Middle()
	size := bounds.Size()

	// Half-extents of the bounds after rotation; the unrotated grid has
	// to cover this larger box so the rotated grid covers the original.
	sin, cos := math.Sincos(angle)
	rx := Coord(math.Ceil((float64(size.X)*math.Abs(cos) + float64(size.Y)*math.Abs(sin)) / 2))
	ry := Coord(math.Ceil((float64(size.X)*math.Abs(sin) + float64(size.Y)*math.Abs(cos)) / 2))

	var points []Point
	for x := -rx; x <= rx; x += spacing {
		for y := -ry; y <= ry; y += spacing {
			pt := Rotate(Point{x, y}, angle).Add(centre)
			if bounds.Contains(pt) {
				points = append(points, pt)
			}
		}
	}
	return points
}
