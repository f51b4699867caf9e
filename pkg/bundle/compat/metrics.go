package compat

import (
	"math"

	"github.com/matzehuels/edgebundle/pkg/geom"
)

// edgeData caches the per-edge quantities every pair metric needs.
type edgeData struct {
	seg    geom.Segment
	vec    geom.Vec2
	length float64
	mid    geom.Point
}

func newEdgeData(s geom.Segment) edgeData {
	return edgeData{
		seg:    s,
		vec:    s.Vector(),
		length: s.Length(),
		mid:    s.Midpoint(),
	}
}

// Angle returns |cos θ| for the angle θ between p and q.
func Angle(p, q geom.Segment, eps float64) float64 {
	return angle(newEdgeData(p), newEdgeData(q), eps)
}

// Scale returns the length compatibility of p and q.
func Scale(p, q geom.Segment, eps float64) float64 {
	return scale(newEdgeData(p), newEdgeData(q), eps)
}

// Position returns the midpoint-distance compatibility of p and q.
func Position(p, q geom.Segment) float64 {
	return position(newEdgeData(p), newEdgeData(q))
}

// Visibility returns the symmetric visibility compatibility of p and q.
func Visibility(p, q geom.Segment, eps float64) float64 {
	return visibility(newEdgeData(p), newEdgeData(q), eps)
}

func angle(p, q edgeData, eps float64) float64 {
	denom := p.length * q.length
	if denom < eps {
		denom = eps
	}
	c := math.Abs(p.vec.Dot(q.vec)) / denom
	if c > 1 {
		return 1
	}
	return c
}

func scale(p, q edgeData, eps float64) float64 {
	lmin := math.Min(p.length, q.length)
	lmax := math.Max(p.length, q.length)
	if lmin < eps {
		return 0
	}
	lavg := (p.length + q.length) / 2
	return 2 / (lavg/lmin + lmax/lavg)
}

func position(p, q edgeData) float64 {
	lavg := (p.length + q.length) / 2
	d := p.mid.Distance(q.mid)
	if lavg+d == 0 {
		return 0
	}
	return lavg / (lavg + d)
}

func visibility(p, q edgeData, eps float64) float64 {
	return math.Min(directedVisibility(p, q, eps), directedVisibility(q, p, eps))
}

// directedVisibility projects q's endpoints onto the line through p and
// measures how far the projected interval is centred on p.
func directedVisibility(p, q edgeData, eps float64) float64 {
	i0 := p.seg.Project(q.seg.Source)
	i1 := p.seg.Project(q.seg.Target)

	span := i0.Distance(i1)
	if span < eps {
		return 0
	}
	v := 1 - 2*p.mid.Distance(i0.Midpoint(i1))/span
	if v < 0 {
		return 0
	}
	return v
}

// cheap returns the product of the three inexpensive factors, in the fixed
// order the final score uses.
func cheap(p, q edgeData, eps float64) float64 {
	return angle(p, q, eps) * scale(p, q, eps) * position(p, q)
}
