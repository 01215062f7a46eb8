package geom

import "math"

// closestOnSegment projects p onto the segment a-b.
func closestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	length2 := ab.Size2()
	if length2 == 0 {
		return a
	}
	ap := p.Sub(a)
	t := float64(ap.X*ab.X+ap.Y*ab.Y) / float64(length2)
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return Point{
		a.X + Coord(math.Round(t*float64(ab.X))),
		a.Y + Coord(math.Round(t*float64(ab.Y))),
	}
}

// ClosestPoint returns the point on the borders of ps closest to p. The
// second return value is false when the set has no borders. Ties keep
// the first candidate in polygon order, so results are deterministic.
func (ps Polygons) ClosestPoint(p Point) (Point, bool) {
	best := Point{}
	bestDist2 := int64(math.MaxInt64)
	found := false
	for _, poly := range ps {
		if len(poly) < 2 {
			continue
		}
		for i := range poly {
			a := poly[i]
			b := poly[(i+1)%len(poly)]
			candidate := closestOnSegment(p, a, b)
			if d2 := candidate.Sub(p).Size2(); d2 < bestDist2 {
				bestDist2 = d2
				best = candidate
				found = true
			}
		}
	}
	return best, found
}

// ClosestPoint returns the point on the polygon's border closest to p.
func (p Polygon) ClosestPoint(pt Point) (Point, bool) {
	return Polygons{p}.ClosestPoint(pt)
}

// nudge probes the eight compass directions around a border point for
// one that lands on the wanted side of the border.
func (ps Polygons) nudge(border Point, by Coord, want bool) Point {
	if by <= 0 {
		return border
	}
	for _, dir := range []Point{{by, 0}, {-by, 0}, {0, by}, {0, -by}, {by, by}, {-by, -by}, {by, -by}, {-by, by}} {
		candidate := border.Add(dir)
		if ps.Inside(candidate, want) == want {
			return candidate
		}
	}
	return border
}

// MoveInside returns p moved onto the given polygon if p lies within
// maxDist of its border, leaving points already inside untouched. When
// maxDist is negative the move is unconditional. The second return
// value reports whether the result is on or inside the polygon.
func (p Polygon) MoveInside(pt Point, maxDist Coord) (Point, bool) {
	set := Polygons{p}
	if set.Inside(pt, true) {
		return pt, true
	}
	border, ok := set.ClosestPoint(pt)
	if !ok {
		return pt, false
	}
	if maxDist >= 0 && border.Sub(pt).Size() > float64(maxDist) {
		return pt, false
	}
	return border, true
}

// MoveOutside returns p moved out of the filled region of ps, clear of
// the border by the preferred distance, provided the escape is within
// maxDist. Points already outside are returned unchanged. The second
// return value reports whether the result is outside.
func (ps Polygons) MoveOutside(pt Point, preferred, maxDist Coord) (Point, bool) {
	if !ps.Inside(pt, false) {
		return pt, true
	}
	border, ok := ps.ClosestPoint(pt)
	if !ok {
		return pt, false
	}
	if border.Sub(pt).Size() > float64(maxDist) {
		return pt, false
	}
	out := ps.nudge(border, preferred, false)
	return out, !ps.Inside(out, true)
}
