package pipeline

import (
	"bytes"
	"context"
	"encoding/gob"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/bundle/compat"
	"github.com/matzehuels/edgebundle/pkg/bundle/force"
	"github.com/matzehuels/edgebundle/pkg/bundle/table"
	"github.com/matzehuels/edgebundle/pkg/cache"
	"github.com/matzehuels/edgebundle/pkg/observability"
)

const keyTypeBundle = "bundle"

// Runner executes bundling with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// entry is the cached form of a run.
type entry struct {
	Table  *table.Table
	Compat compat.Stats
	Cycles []force.Cycle
}

// Execute bundles edges, serving the table from the cache when possible.
// Cache failures are logged and reported through hooks but never fail the
// run.
func (r *Runner) Execute(ctx context.Context, edges []bundle.Edge, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Bundle()
	start := time.Now()
	hooks.OnBundleStart(ctx, len(edges))

	key := r.Keyer.BundleKey(cache.Digest(edges), opts.BundleKeyOpts())

	if !opts.Refresh {
		if e, ok := r.lookup(ctx, key); ok {
			res := newResult(edges, e, time.Since(start))
			res.CacheInfo = CacheInfo{Hit: true, Key: key}
			r.Logger.Info("bundled edges (cached)", "edges", len(edges), "rows", res.Stats.Rows)
			hooks.OnBundleComplete(ctx, len(edges), res.Stats.Rows, res.Stats.Duration, nil)
			return res, nil
		}
	}

	bopts := []bundle.Option{
		bundle.WithLogger(opts.Logger),
		bundle.WithWorkers(opts.Workers),
	}
	if opts.Progress != nil {
		bopts = append(bopts, bundle.WithProgress(opts.Progress))
	}
	out, err := bundle.Bundle(ctx, edges, opts.Config, bopts...)
	if err != nil {
		hooks.OnBundleComplete(ctx, len(edges), 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnCompatibility(ctx, out.Compat.Pairs, out.Compat.Candidates, out.Compat.Compatible)

	e := entry{Table: out.Table, Compat: out.Compat, Cycles: out.Cycles}
	r.store(ctx, key, e)

	res := newResult(edges, e, time.Since(start))
	res.CacheInfo = CacheInfo{Key: key}
	r.Logger.Info("bundled edges",
		"edges", len(edges),
		"rows", res.Stats.Rows,
		"compatible", res.Stats.Compatible,
		"duration", res.Stats.Duration)
	hooks.OnBundleComplete(ctx, len(edges), res.Stats.Rows, res.Stats.Duration, nil)
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (entry, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		hooks.OnCacheError(ctx, keyTypeBundle, "get", err)
		return entry{}, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyTypeBundle)
		return entry{}, false
	}
	var e entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil || e.Table == nil {
		// Unreadable entries are recomputed and overwritten.
		r.Logger.Debug("discarding unreadable cache entry", "key", key, "err", err)
		hooks.OnCacheMiss(ctx, keyTypeBundle)
		return entry{}, false
	}
	hooks.OnCacheHit(ctx, keyTypeBundle)
	return e, true
}

func (r *Runner) store(ctx context.Context, key string, e entry) {
	hooks := observability.Cache()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		r.Logger.Warn("cache encode failed", "err", err)
		hooks.OnCacheError(ctx, keyTypeBundle, "encode", err)
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLBundle); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		hooks.OnCacheError(ctx, keyTypeBundle, "set", err)
		return
	}
	hooks.OnCacheSet(ctx, keyTypeBundle, buf.Len())
}

func newResult(edges []bundle.Edge, e entry, d time.Duration) *Result {
	return &Result{
		Table:  e.Table,
		Cycles: e.Cycles,
		Stats: Stats{
			Edges:      len(edges),
			Rows:       e.Table.Len(),
			Pairs:      e.Compat.Pairs,
			Candidates: e.Compat.Candidates,
			Compatible: e.Compat.Compatible,
			Duration:   d,
		},
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
