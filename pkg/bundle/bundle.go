package bundle

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/edgebundle/pkg/bundle/compat"
	"github.com/matzehuels/edgebundle/pkg/bundle/force"
	"github.com/matzehuels/edgebundle/pkg/bundle/table"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/geom"
)

// uniformSpread is the weight range below which all weights count as equal.
const uniformSpread = 1e-8

// Result is the output of a bundling run.
type Result struct {
	Table  *table.Table
	Compat compat.Stats
	Cycles []force.Cycle
}

// Option configures a single Bundle call.
type Option func(*options)

type options struct {
	logger    *log.Logger
	workers   int
	prefilter bool
	progress  func(force.Cycle)
}

// WithLogger sends debug output to l. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers bounds parallelism. 1 runs sequentially; zero or negative
// means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithoutPrefilter evaluates visibility for every pair. The output is the
// same; only the amount of work changes.
func WithoutPrefilter() Option {
	return func(o *options) { o.prefilter = false }
}

// WithProgress calls fn after each simulation cycle.
func WithProgress(fn func(force.Cycle)) Option {
	return func(o *options) { o.progress = fn }
}

// Bundle bends edges toward their compatible neighbours.
//
// The configuration is validated before any work is done. Edge weights must
// be finite and non-negative; coordinates may be anything, with degenerate
// edges passing through as straight lines. The returned table holds one
// group per input edge in input order.
func Bundle(ctx context.Context, edges []Edge, cfg Config, opts ...Option) (*Result, error) {
	o := options{prefilter: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	weights, err := NormalizeWeights(edges)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return &Result{Table: &table.Table{Rows: []table.Row{}}}, nil
	}

	segs := make([]geom.Segment, len(edges))
	for i, e := range edges {
		segs[i] = e.Segment()
	}

	start := time.Now()
	matrix, stats, err := compat.Compute(ctx, segs, compat.Options{
		Threshold: cfg.CompatibilityThreshold,
		Eps:       cfg.Eps,
		Workers:   o.workers,
		Prefilter: o.prefilter,
	})
	if err != nil {
		return nil, canceled(err)
	}
	o.logger.Debug("compatibility computed",
		"edges", len(edges),
		"pairs", stats.Pairs,
		"candidates", stats.Candidates,
		"compatible", stats.Compatible,
		"elapsed", time.Since(start))

	simOpts := []force.Option{
		force.WithWorkers(o.workers),
		force.WithProgress(func(c force.Cycle) {
			o.logger.Debug("cycle done", "cycle", c.Index+1, "iterations", c.Iterations, "step", c.Step, "subdivisions", c.Subdivisions)
			if o.progress != nil {
				o.progress(c)
			}
		}),
	}

	start = time.Now()
	polylines, cycles, err := force.New(segs, matrix, weights, cfg.params(), simOpts...).Run(ctx)
	if err != nil {
		return nil, canceled(err)
	}
	o.logger.Debug("simulation finished", "cycles", len(cycles), "elapsed", time.Since(start))

	return &Result{
		Table:  table.Assemble(polylines.Points()),
		Compat: stats,
		Cycles: cycles,
	}, nil
}

// NormalizeWeights validates edge weights and maps them onto [0.5, 1.5].
// When all weights are equal (within 1e-8) every edge gets weight 1.
func NormalizeWeights(edges []Edge) ([]float64, error) {
	if len(edges) == 0 {
		return nil, nil
	}
	lo, hi := edges[0].Weight, edges[0].Weight
	for i, e := range edges {
		if err := errs.ValidateWeight(i, e.Weight); err != nil {
			return nil, err
		}
		lo = min(lo, e.Weight)
		hi = max(hi, e.Weight)
	}

	out := make([]float64, len(edges))
	spread := hi - lo
	for i, e := range edges {
		if spread < uniformSpread {
			out[i] = 1
			continue
		}
		out[i] = 0.5 + (e.Weight-lo)/spread
	}
	return out, nil
}

func canceled(err error) error {
	return errs.Wrap(errs.ErrCodeCanceled, err, "bundling aborted")
}
