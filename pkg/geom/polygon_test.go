package geom

import (
	"math"
	"testing"
)

// square returns a counterclockwise square from (x0,y0) to (x1,y1).
func square(x0, y0, x1, y1 Coord) Polygon {
	return Polygon{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func TestUnionDisjoint(t *testing.T) {
	a := Polygons{square(0, 0, 1000, 1000)}
	b := Polygons{square(5000, 0, 6000, 1000)}
	u := a.Union(b)
	if len(u) != 2 {
		t.Fatalf("union of disjoint squares has %d polygons, want 2", len(u))
	}
	wantArea := 2e6
	if got := u.Area(); math.Abs(got-wantArea) > 1 {
		t.Errorf("union area = %f, want %f", got, wantArea)
	}
}

func TestUnionOverlapping(t *testing.T) {
	a := Polygons{square(0, 0, 1000, 1000)}
	b := Polygons{square(500, 0, 1500, 1000)}
	u := a.Union(b)
	if len(u) != 1 {
		t.Fatalf("union of overlapping squares has %d polygons, want 1", len(u))
	}
	wantArea := 1.5e6
	if got := u.Area(); math.Abs(got-wantArea) > 1 {
		t.Errorf("union area = %f, want %f", got, wantArea)
	}
}

func TestDifferenceCutsHole(t *testing.T) {
	outer := Polygons{square(0, 0, 3000, 3000)}
	inner := Polygons{square(1000, 1000, 2000, 2000)}
	d := outer.Difference(inner)
	if len(d) != 2 {
		t.Fatalf("difference has %d polygons, want outer plus hole", len(d))
	}
	wantArea := 9e6 - 1e6
	if got := d.Area(); math.Abs(got-wantArea) > 1 {
		t.Errorf("difference area = %f, want %f", got, wantArea)
	}
	if d.Inside(Point{1500, 1500}, false) {
		t.Error("hole interior should not be inside")
	}
	if !d.Inside(Point{500, 500}, false) {
		t.Error("remaining ring should be inside")
	}
}

func TestIntersection(t *testing.T) {
	a := Polygons{square(0, 0, 2000, 2000)}
	b := Polygons{square(1000, 1000, 3000, 3000)}
	got := a.Intersection(b).Area()
	if math.Abs(got-1e6) > 1 {
		t.Errorf("intersection area = %f, want %f", got, 1e6)
	}
}

func TestOffsetGrows(t *testing.T) {
	a := Polygons{square(0, 0, 1000, 1000)}
	grown := a.Offset(500)
	if grown.Empty() {
		t.Fatal("offset result is empty")
	}
	for _, p := range []Point{{-400, 500}, {1400, 500}, {500, -400}, {500, 1400}} {
		if !grown.Inside(p, true) {
			t.Errorf("point %v should be inside the grown square", p)
		}
	}
	// Round joins stay within the offset radius of the corner.
	if grown.Inside(Point{-450, -450}, false) {
		t.Error("round join should not reach the full square corner")
	}
	if got := grown.Area(); got <= 1e6 {
		t.Errorf("grown area = %f, want > original area", got)
	}
}

func TestOffsetNegativeShrinks(t *testing.T) {
	a := Polygons{square(0, 0, 1000, 1000)}
	shrunk := a.Offset(-200)
	if shrunk.Empty() {
		t.Fatal("inset result is empty")
	}
	if !shrunk.Inside(Point{500, 500}, false) {
		t.Error("centre should remain inside after inset")
	}
	if shrunk.Inside(Point{100, 100}, false) {
		t.Error("point near the border should be outside after inset")
	}
	// Insetting past the half-width annihilates the polygon.
	if got := a.Offset(-600); !got.Empty() {
		t.Errorf("inset past half-width = %v, want empty", got)
	}
}

func TestInsideBorder(t *testing.T) {
	a := Polygons{square(0, 0, 1000, 1000)}
	border := Point{0, 500}
	if a.Inside(border, false) {
		t.Error("border point should report false when borderResult is false")
	}
	if !a.Inside(border, true) {
		t.Error("border point should report true when borderResult is true")
	}
}

func TestSplitIntoParts(t *testing.T) {
	ps := Polygons{
		square(0, 0, 1000, 1000),
		square(5000, 0, 6000, 1000),
		square(5200, 200, 5800, 800).reverse(), // hole in the second part
	}
	parts := ps.SplitIntoParts()
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	holes := 0
	for _, part := range parts {
		if len(part) == 2 {
			holes++
		}
	}
	if holes != 1 {
		t.Errorf("got %d parts with a hole, want 1", holes)
	}
}

func TestSimplifyDropsMicroSegments(t *testing.T) {
	p := Polygon{{0, 0}, {500, 2}, {1000, 0}, {1000, 1000}, {0, 1000}}
	got := Polygons{p}.Smooth()
	if len(got) != 1 {
		t.Fatalf("smooth produced %d polygons, want 1", len(got))
	}
	if len(got[0]) >= len(p) {
		t.Errorf("smooth kept %d vertices, want fewer than %d", len(got[0]), len(p))
	}
}

func (p Polygon) reverse() Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}
