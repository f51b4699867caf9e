// Package subdivide owns the control-point polylines that the force
// simulation bends.
//
// Every edge starts as the two-point polyline [source, target]. Between
// simulation cycles the polylines are refined, either by resampling each to
// a fixed number of interior points evenly spaced along its current arc
// length ([Manager.Subdivide]) or by inserting a midpoint into every
// segment ([Manager.InsertMidpoints]). Both operations are uniform: after
// either call every polyline has the same number of points.
//
// Endpoints are copied from the input segments and never recomputed, so
// they survive any number of refinements bit for bit.
package subdivide

import (
	"math"

	"github.com/matzehuels/edgebundle/pkg/geom"
)

// Manager holds one polyline per edge.
//
// Manager is not safe for concurrent mutation. The force simulator reads
// polylines concurrently and writes them only between iterations.
type Manager struct {
	segs  []geom.Segment
	lines [][]geom.Point
}

// New returns a Manager with every polyline initialised to its endpoints.
func New(segs []geom.Segment) *Manager {
	m := &Manager{segs: segs, lines: make([][]geom.Point, len(segs))}
	m.Initialize()
	return m
}

// Initialize resets every polyline to [source, target].
func (m *Manager) Initialize() {
	for i, s := range m.segs {
		m.lines[i] = []geom.Point{s.Source, s.Target}
	}
}

// Len returns the number of edges.
func (m *Manager) Len() int { return len(m.lines) }

// Interior returns the number of interior points per polyline.
func (m *Manager) Interior() int {
	if len(m.lines) == 0 {
		return 0
	}
	return len(m.lines[0]) - 2
}

// Polyline returns the current points of edge i. The slice is live state
// and must not be retained across refinements.
func (m *Manager) Polyline(i int) []geom.Point {
	return m.lines[i]
}

// Points returns every polyline. The outer and inner slices are live state.
func (m *Manager) Points() [][]geom.Point {
	return m.lines
}

// Subdivide resamples every polyline to p interior points spaced evenly
// along its arc length. p < 1 is treated as 1.
func (m *Manager) Subdivide(p int) {
	if p < 1 {
		p = 1
	}
	for i, line := range m.lines {
		m.lines[i] = resample(m.segs[i], line, p)
	}
}

// InsertMidpoints adds a point halfway between every pair of consecutive
// points, growing n points to 2n−1.
func (m *Manager) InsertMidpoints() {
	for i, line := range m.lines {
		out := make([]geom.Point, 0, 2*len(line)-1)
		for k := 0; k < len(line)-1; k++ {
			out = append(out, line[k], line[k].Midpoint(line[k+1]))
		}
		out = append(out, line[len(line)-1])
		m.lines[i] = out
	}
}

// resample walks line and emits p interior points at equal arc-length steps.
func resample(seg geom.Segment, line []geom.Point, p int) []geom.Point {
	out := make([]geom.Point, p+2)
	out[0] = seg.Source
	out[p+1] = seg.Target

	cum := make([]float64, len(line))
	for k := 1; k < len(line); k++ {
		cum[k] = cum[k-1] + line[k-1].Distance(line[k])
	}
	total := cum[len(cum)-1]

	if math.IsNaN(total) || math.IsInf(total, 0) || total < 1e-12 {
		// Zero-length or non-finite: fall back to the straight chord.
		for s := 1; s <= p; s++ {
			out[s] = seg.Source.Lerp(seg.Target, float64(s)/float64(p+1))
		}
		return out
	}

	step := total / float64(p+1)
	k := 0
	for s := 1; s <= p; s++ {
		t := step * float64(s)
		for k < len(line)-2 && cum[k+1] < t {
			k++
		}
		seglen := cum[k+1] - cum[k]
		if seglen <= 0 {
			out[s] = line[k]
			continue
		}
		frac := (t - cum[k]) / seglen
		if frac > 1 {
			frac = 1
		}
		out[s] = line[k].Lerp(line[k+1], frac)
	}
	return out
}
