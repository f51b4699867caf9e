// Package pipeline runs bundling with result caching.
//
// The CLI and the HTTP service both go through a [Runner], so a table
// bundled once is served from the cache on every later request for the same
// edges and parameters, whichever entry point computed it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, edges, pipeline.Options{
//	    Config: bundle.DefaultConfig(),
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Stats.Rows, res.CacheInfo.Hit)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/bundle/force"
	"github.com/matzehuels/edgebundle/pkg/bundle/table"
	"github.com/matzehuels/edgebundle/pkg/cache"
)

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Config  bundle.Config `json:"config"`
	Refresh bool          `json:"refresh,omitempty"` // skip the cache read, still write

	// Runtime options (not serialized)
	Workers  int               `json:"-"`
	Logger   *log.Logger       `json:"-"`
	Progress func(force.Cycle) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Table     *table.Table
	Cycles    []force.Cycle
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics. On a cache hit the compatibility counts
// are those of the run that filled the cache; Duration is always local.
type Stats struct {
	Edges      int           `json:"edges"`
	Rows       int           `json:"rows"`
	Pairs      int           `json:"pairs"`
	Candidates int           `json:"candidates"`
	Compatible int           `json:"compatible"`
	Duration   time.Duration `json:"duration_ns"`
}

// CacheInfo reports whether the table came from the cache.
type CacheInfo struct {
	Hit bool
	Key string
}

// ValidateAndSetDefaults fills unset config fields and validates the result.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.Config = o.Config.WithDefaults()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// BundleKeyOpts returns cache key options for the configuration.
func (o *Options) BundleKeyOpts() cache.BundleKeyOpts {
	c := o.Config
	return cache.BundleKeyOpts{
		K:                      c.K,
		E:                      c.E,
		Cycles:                 c.Cycles,
		Subdivisions:           c.Subdivisions,
		Step:                   c.Step,
		StepRate:               c.StepRate,
		SubdivisionRate:        c.SubdivisionRate,
		Iterations:             c.Iterations,
		IterationRate:          c.IterationRate,
		CompatibilityThreshold: c.CompatibilityThreshold,
		Eps:                    c.Eps,
		Subdivision:            c.Subdivision,
	}
}
