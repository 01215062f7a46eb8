package geom

import "math"

// AABB is an axis-aligned bounding box. The zero value from NewAABB is
// empty and contains nothing.
type AABB struct {
	Min, Max Point
}

// NewAABB returns an empty bounding box.
func NewAABB() AABB {
	return AABB{
		Min: Point{math.MaxInt64, math.MaxInt64},
		Max: Point{math.MinInt64, math.MinInt64},
	}
}

// Include grows the box to contain p.
func (b *AABB) Include(p Point) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
}

// Expand grows the box by d on every side.
func (b *AABB) Expand(d Coord) {
	b.Min.X -= d
	b.Min.Y -= d
	b.Max.X += d
	b.Max.Y += d
}

// Contains reports whether p lies inside the box, borders included.
func (b AABB) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Middle returns the centre of the box.
func (b AABB) Middle() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() Point {
	return b.Max.Sub(b.Min)
}
