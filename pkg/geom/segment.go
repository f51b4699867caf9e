package geom

import "math"

// Segment is a straight line segment from Source to Target.
type Segment struct {
	Source Point
	Target Point
}

// Seg returns the segment (x0, y0)–(x1, y1).
func Seg(x0, y0, x1, y1 float64) Segment {
	return Segment{Source: Pt(x0, y0), Target: Pt(x1, y1)}
}

// Vector returns Target−Source.
func (s Segment) Vector() Vec2 {
	return s.Target.Sub(s.Source)
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.Source.Distance(s.Target)
}

// Midpoint returns the point halfway between Source and Target.
func (s Segment) Midpoint() Point {
	return s.Source.Midpoint(s.Target)
}

// Degenerate reports whether the segment is shorter than eps or has a
// non-finite coordinate. Degenerate segments take no part in bundling.
func (s Segment) Degenerate(eps float64) bool {
	if !Finite(s.Source) || !Finite(s.Target) {
		return true
	}
	l := s.Length()
	return math.IsNaN(l) || l < eps
}

// Project returns the orthogonal projection of p onto the infinite line
// through s. If s has (near) zero length, Source is returned.
func (s Segment) Project(p Point) Point {
	d := s.Vector()
	l2 := d.Hypot2()
	if l2 < 1e-10 {
		return s.Source
	}
	r := p.Sub(s.Source).Dot(d) / l2
	return s.Source.Translate(d.Mul(r))
}
