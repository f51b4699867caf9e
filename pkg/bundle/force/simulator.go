// Package force runs the force-directed simulation that bends edge
// polylines toward their compatible neighbours.
//
// Each iteration computes a displacement for every interior control point
// from a frozen snapshot of all polylines, then commits every displacement
// at once. Spring forces keep a polyline smooth; electrostatic forces pull
// point k of an edge toward point k of each compatible partner, scaled by
// the pair's compatibility and the partner's weight.
package force

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/edgebundle/pkg/bundle/compat"
	"github.com/matzehuels/edgebundle/pkg/bundle/subdivide"
	"github.com/matzehuels/edgebundle/pkg/geom"
)

// Option configures a Simulator.
type Option func(*Simulator)

// WithWorkers bounds the goroutines used per iteration. Zero or negative
// means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.workers = n }
}

// WithProgress registers fn to be called after every completed cycle.
func WithProgress(fn func(Cycle)) Option {
	return func(s *Simulator) { s.progress = fn }
}

// Simulator moves the control points of a set of edges.
type Simulator struct {
	segs     []geom.Segment
	matrix   *compat.Matrix
	weights  []float64
	params   Params
	workers  int
	progress func(Cycle)

	// active is false for degenerate edges, which never move.
	active []bool
	// springs holds K/|e_i| per edge; it is divided by P+1 per cycle.
	springs []float64
}

// New returns a Simulator for segs. matrix must have been computed for the
// same segs and weights must be nil or hold one entry per edge.
func New(segs []geom.Segment, matrix *compat.Matrix, weights []float64, p Params, opts ...Option) *Simulator {
	s := &Simulator{
		segs:    segs,
		matrix:  matrix,
		weights: weights,
		params:  p,
		active:  make([]bool, len(segs)),
		springs: make([]float64, len(segs)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers <= 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	for i, seg := range segs {
		if seg.Degenerate(p.Eps) {
			continue
		}
		s.active[i] = true
		s.springs[i] = p.K / math.Max(seg.Length(), p.Eps)
	}
	return s
}

// Run executes the full schedule and returns the final polylines together
// with the cycles that ran. The polylines are subdivided before the first
// cycle and between cycles, never after the last one.
func (s *Simulator) Run(ctx context.Context) (*subdivide.Manager, []Cycle, error) {
	m := subdivide.New(s.segs)
	m.Subdivide(max(s.params.Subdivisions, 1))

	sched := Schedule(s.params)
	if len(s.segs) == 0 {
		return m, sched, nil
	}

	for c, cycle := range sched {
		forces := newBuffer(m.Len(), m.Interior()+2)
		for it := 0; it < cycle.Iterations; it++ {
			if err := ctx.Err(); err != nil {
				return nil, sched[:c], err
			}
			if err := s.iterate(ctx, m.Points(), forces, cycle); err != nil {
				return nil, sched[:c], err
			}
		}
		if s.progress != nil {
			s.progress(cycle)
		}
		if c < len(sched)-1 {
			s.refine(m, sched[c+1].Subdivisions)
		}
	}
	return m, sched, nil
}

func (s *Simulator) refine(m *subdivide.Manager, next int) {
	if s.params.Midpoint {
		m.InsertMidpoints()
		return
	}
	m.Subdivide(next)
}

// iterate computes displacements from lines into forces, then commits them.
// Nothing in lines is written until every edge has been computed.
func (s *Simulator) iterate(ctx context.Context, lines [][]geom.Point, forces [][]geom.Vec2, cycle Cycle) error {
	n := len(lines)
	workers := min(s.workers, n)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := w; i < n; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				s.edgeForces(i, lines, forces[i], cycle)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, line := range lines {
		if !s.active[i] {
			continue
		}
		for k := 1; k < len(line)-1; k++ {
			line[k] = line[k].Translate(forces[i][k])
		}
	}
	return nil
}

// edgeForces fills out with the displacement of every interior point of
// edge i. Partners are summed in index order so the result does not depend
// on scheduling.
func (s *Simulator) edgeForces(i int, lines [][]geom.Point, out []geom.Vec2, cycle Cycle) {
	if !s.active[i] {
		return
	}
	line := lines[i]
	kP := s.springs[i] / float64(len(line)-1)
	partners := s.matrix.Partners(i)
	eps := s.params.Eps

	for k := 1; k < len(line)-1; k++ {
		p := line[k]
		spring := line[k-1].Sub(p).Add(line[k+1].Sub(p)).Mul(kP)

		var electro geom.Vec2
		for _, e := range partners {
			d := lines[e.J][k].Sub(p)
			dist := math.Max(d.Hypot(), eps)
			electro = electro.Add(d.Mul(e.Score * s.weight(e.J) / dist))
		}

		out[k] = spring.Add(electro.Mul(s.params.E)).Mul(cycle.Step)
	}
}

func (s *Simulator) weight(j int) float64 {
	if s.weights == nil {
		return 1
	}
	return s.weights[j]
}

func newBuffer(n, points int) [][]geom.Vec2 {
	buf := make([][]geom.Vec2, n)
	flat := make([]geom.Vec2, n*points)
	for i := range buf {
		buf[i] = flat[i*points : (i+1)*points : (i+1)*points]
	}
	return buf
}
