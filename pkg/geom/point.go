package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Coord is a planar coordinate in micrometres.
type Coord = int64

// Point is a position or displacement on a layer.
type Point struct {
	X, Y Coord
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Div returns p scaled down by n using integer division.
func (p Point) Div(n Coord) Point {
	return Point{p.X / n, p.Y / n}
}

// Size2 returns the squared length of p as a vector.
func (p Point) Size2() int64 {
	return p.X*p.X + p.Y*p.Y
}

// Size returns the length of p as a vector.
func (p Point) Size() float64 {
	return math.Sqrt(float64(p.Size2()))
}

// Less orders points lexicographically by X, then Y.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

func fromVec(v r2.Vec) Point {
	return Point{Coord(math.Round(v.X)), Coord(math.Round(v.Y))}
}

// Normal returns p scaled to the requested length. The zero vector is
// returned unchanged.
func Normal(p Point, length Coord) Point {
	size := p.Size()
	if size == 0 {
		return p
	}
	return fromVec(r2.Scale(float64(length)/size, p.vec()))
}

// Rotate returns p rotated counterclockwise by angle radians about the
// origin.
func Rotate(p Point, angle float64) Point {
	return fromVec(r2.Rotate(p.vec(), angle, r2.Vec{}))
}
