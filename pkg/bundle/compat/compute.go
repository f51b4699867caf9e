package compat

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/edgebundle/pkg/geom"
)

// Options controls [Compute].
type Options struct {
	// Threshold is the minimum score a pair needs to be materialised.
	Threshold float64

	// Eps is the length below which an edge is degenerate and the floor
	// used for divisions.
	Eps float64

	// Workers bounds the number of goroutines. Zero or negative means
	// GOMAXPROCS.
	Workers int

	// Prefilter skips visibility for pairs whose cheap product is already
	// below Threshold.
	Prefilter bool
}

// DefaultOptions returns the options used by the bundling defaults.
func DefaultOptions() Options {
	return Options{
		Threshold: 0.6,
		Eps:       1e-8,
		Prefilter: true,
	}
}

// Stats summarises a Compute run.
type Stats struct {
	Pairs      int // unordered pairs considered, n(n-1)/2
	Candidates int // pairs whose visibility was evaluated
	Compatible int // pairs materialised in the matrix
}

type candidate struct {
	j     int
	cheap float64
}

// Compute scores every unordered pair of segs and returns those reaching
// opts.Threshold.
func Compute(ctx context.Context, segs []geom.Segment, opts Options) (*Matrix, Stats, error) {
	n := len(segs)
	stats := Stats{Pairs: n * (n - 1) / 2}
	if n == 0 {
		return newMatrix(0, nil), stats, nil
	}

	data := make([]edgeData, n)
	active := make([]bool, n)
	for i, s := range segs {
		data[i] = newEdgeData(s)
		active[i] = !s.Degenerate(opts.Eps)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Phase 1: cheap factors for every pair, row by row.
	candidates := make([][]candidate, n)
	err := forEachRow(ctx, n, workers, func(i int) {
		if !active[i] {
			return
		}
		var row []candidate
		for j := i + 1; j < n; j++ {
			if !active[j] {
				continue
			}
			c := cheap(data[i], data[j], opts.Eps)
			if opts.Prefilter && c < opts.Threshold {
				continue
			}
			row = append(row, candidate{j: j, cheap: c})
		}
		candidates[i] = row
	})
	if err != nil {
		return nil, Stats{}, err
	}
	for _, row := range candidates {
		stats.Candidates += len(row)
	}

	// Phase 2: visibility for the survivors only.
	rows := make([][]Entry, n)
	err = forEachRow(ctx, n, workers, func(i int) {
		var row []Entry
		for _, c := range candidates[i] {
			score := c.cheap * visibility(data[i], data[c.j], opts.Eps)
			if score > 0 && score >= opts.Threshold {
				row = append(row, Entry{J: c.j, Score: score})
			}
		}
		rows[i] = row
	})
	if err != nil {
		return nil, Stats{}, err
	}

	m := newMatrix(n, rows)
	stats.Compatible = m.Pairs()
	return m, stats, nil
}

// forEachRow runs fn for every row index using up to workers goroutines.
// Rows are dealt out round-robin so the short rows at the bottom of the
// triangle balance the long ones at the top. Each fn call must only write
// state owned by its row.
func forEachRow(ctx context.Context, n, workers int, fn func(i int)) error {
	if workers > n {
		workers = n
	}
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := w; i < n; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// A worker may finish its rows just as the parent is cancelled.
	return ctx.Err()
}
