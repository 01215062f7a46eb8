package geom

import (
	clipper "github.com/ctessum/go.clipper"
)

// smoothTolerance removes the sub-micrometre spurs that insetting
// generates.
const smoothTolerance = 5

// Polygon is a closed loop of vertices. Counterclockwise loops enclose
// area; clockwise loops are holes.
type Polygon []Point

// Polygons is a set of polygons, possibly with holes.
type Polygons []Polygon

// Bounds returns the bounding box of the polygon.
func (p Polygon) Bounds() AABB {
	box := NewAABB()
	for _, pt := range p {
		box.Include(pt)
	}
	return box
}

// Bounds returns the bounding box of all polygons in the set.
func (ps Polygons) Bounds() AABB {
	box := NewAABB()
	for _, p := range ps {
		for _, pt := range p {
			box.Include(pt)
		}
	}
	return box
}

// Empty reports whether the set contains no vertices.
func (ps Polygons) Empty() bool {
	for _, p := range ps {
		if len(p) > 0 {
			return false
		}
	}
	return true
}

func (p Polygon) path() clipper.Path {
	path := make(clipper.Path, len(p))
	for i, pt := range p {
		path[i] = &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)}
	}
	return path
}

func (ps Polygons) paths() clipper.Paths {
	paths := make(clipper.Paths, 0, len(ps))
	for _, p := range ps {
		if len(p) >= 3 {
			paths = append(paths, p.path())
		}
	}
	return paths
}

func fromPath(path clipper.Path) Polygon {
	p := make(Polygon, len(path))
	for i, pt := range path {
		p[i] = Point{Coord(pt.X), Coord(pt.Y)}
	}
	return p
}

func fromPaths(paths clipper.Paths) Polygons {
	ps := make(Polygons, len(paths))
	for i, path := range paths {
		ps[i] = fromPath(path)
	}
	return ps
}

func execute(op clipper.ClipType, subject, clip Polygons) Polygons {
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(subject.paths(), clipper.PtSubject, true)
	c.AddPaths(clip.paths(), clipper.PtClip, true)
	solution, ok := c.Execute1(op, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		// Degenerate input is treated as an empty region.
		return nil
	}
	return fromPaths(solution)
}

// Union returns the union of the two sets.
func (ps Polygons) Union(other Polygons) Polygons {
	return execute(clipper.CtUnion, ps, other)
}

// Difference returns ps minus other.
func (ps Polygons) Difference(other Polygons) Polygons {
	return execute(clipper.CtDifference, ps, other)
}

// Intersection returns the overlap of the two sets.
func (ps Polygons) Intersection(other Polygons) Polygons {
	return execute(clipper.CtIntersection, ps, other)
}

// Offset returns the Minkowski offset of the set by delta, with round
// joins. Negative deltas inset.
func (ps Polygons) Offset(delta Coord) Polygons {
	paths := ps.paths()
	if len(paths) == 0 {
		return nil
	}
	co := clipper.NewClipperOffset()
	co.AddPaths(paths, clipper.JtRound, clipper.EtClosedPolygon)
	return fromPaths(co.Execute(float64(delta)))
}

// Inside reports whether p lies within the filled region of the set,
// holes excluded. Points exactly on a border report borderResult.
func (ps Polygons) Inside(p Point, borderResult bool) bool {
	pt := &clipper.IntPoint{X: clipper.CInt(p.X), Y: clipper.CInt(p.Y)}
	crossings := 0
	for _, poly := range ps {
		if len(poly) < 3 {
			continue
		}
		switch clipper.PointInPolygon(pt, poly.path()) {
		case -1:
			return borderResult
		case 1:
			crossings++
		}
	}
	return crossings%2 == 1
}

// Area returns the signed area of the set in square micrometres. Holes
// count negatively.
func (ps Polygons) Area() float64 {
	return clipper.AreaCombined(ps.paths())
}

// Simplify removes vertices that deviate from the outline by less than
// tolerance.
func (ps Polygons) Simplify(tolerance Coord) Polygons {
	paths := ps.paths()
	if len(paths) == 0 {
		return nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	cleaned := c.CleanPolygons(paths, float64(tolerance))
	out := make(Polygons, 0, len(cleaned))
	for _, path := range cleaned {
		if len(path) >= 3 {
			out = append(out, fromPath(path))
		}
	}
	return out
}

// Smooth removes the micro-segments left behind by insetting.
func (ps Polygons) Smooth() Polygons {
	return ps.Simplify(smoothTolerance)
}

// SplitIntoParts partitions the set into connected parts. Each part is
// one outer boundary together with its holes.
func (ps Polygons) SplitIntoParts() []Polygons {
	paths := ps.paths()
	if len(paths) == 0 {
		return nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(paths, clipper.PtSubject, true)
	tree, ok := c.Execute2(clipper.CtUnion, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	var parts []Polygons
	for _, outer := range tree.Childs() {
		parts = gatherParts(outer, parts)
	}
	return parts
}

// gatherParts collects the part rooted at outer, then recurses into any
// islands nested inside its holes.
func gatherParts(outer *clipper.PolyNode, parts []Polygons) []Polygons {
	part := Polygons{fromPath(outer.Contour())}
	var islands []*clipper.PolyNode
	for _, hole := range outer.Childs() {
		part = append(part, fromPath(hole.Contour()))
		islands = append(islands, hole.Childs()...)
	}
	parts = append(parts, part)
	for _, island := range islands {
		parts = gatherParts(island, parts)
	}
	return parts
}
