package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/bundle/force"
	"github.com/matzehuels/edgebundle/pkg/bundle/table"
	edgeio "github.com/matzehuels/edgebundle/pkg/io"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// bundleOpts holds the command-line flags for the bundle command.
type bundleOpts struct {
	output     string        // output file; stdout when empty
	format     string        // csv or json; guessed from output when empty
	configPath string        // TOML file applied before individual flags
	workers    int           // goroutines for the engine, 0 = GOMAXPROCS
	timeout    time.Duration // abort the run after this long, 0 = never
	noCache    bool
	refresh    bool
	quiet      bool // no spinner or summary
}

func (c *CLI) bundleCommand() *cobra.Command {
	var opts bundleOpts
	params := bundle.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "bundle [edges.csv|edges.json]",
		Short: "Bundle an edge list and write the polyline table",
		Long: `Bundle reads straight edges (CSV with x,y,xend,yend[,weight] columns or a
JSON array), runs the force-directed simulation and writes one row per
polyline point with its x, y, index and group.

Parameters come from the defaults, then --config, then individual flags.
Results are cached under the user cache directory; identical edges and
parameters are served from there.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			applyConfigFlags(cmd, &cfg, params)
			return c.runBundle(cmd.Context(), args[0], cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: csv (default), json")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML parameter file")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker goroutines (default GOMAXPROCS)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort after this duration (e.g. 30s)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	bindConfigFlags(cmd, &params)

	return cmd
}

// bindConfigFlags registers one flag per tunable, defaulting to params.
func bindConfigFlags(cmd *cobra.Command, params *bundle.Config) {
	f := cmd.Flags()
	f.Float64Var(&params.K, "k", params.K, "spring constant")
	f.Float64Var(&params.E, "e", params.E, "electrostatic constant")
	f.IntVar(&params.Cycles, "cycles", params.Cycles, "simulation cycles")
	f.IntVar(&params.Subdivisions, "subdivisions", params.Subdivisions, "interior points in the first cycle")
	f.Float64Var(&params.Step, "step", params.Step, "initial step size")
	f.Float64Var(&params.StepRate, "step-rate", params.StepRate, "step multiplier per cycle")
	f.Float64Var(&params.SubdivisionRate, "subdivision-rate", params.SubdivisionRate, "subdivision growth per cycle")
	f.IntVar(&params.Iterations, "iterations", params.Iterations, "iterations in the first cycle")
	f.Float64Var(&params.IterationRate, "iteration-rate", params.IterationRate, "iteration multiplier per cycle")
	f.Float64Var(&params.CompatibilityThreshold, "threshold", params.CompatibilityThreshold, "minimum compatibility score")
	f.Float64Var(&params.Eps, "eps", params.Eps, "distance floor")
	f.StringVar(&params.Subdivision, "subdivision-mode", params.Subdivision, "arclength or midpoint")
}

// applyConfigFlags copies every explicitly set flag from params into cfg.
func applyConfigFlags(cmd *cobra.Command, cfg *bundle.Config, params bundle.Config) {
	overrides := []struct {
		flag string
		set  func()
	}{
		{"k", func() { cfg.K = params.K }},
		{"e", func() { cfg.E = params.E }},
		{"cycles", func() { cfg.Cycles = params.Cycles }},
		{"subdivisions", func() { cfg.Subdivisions = params.Subdivisions }},
		{"step", func() { cfg.Step = params.Step }},
		{"step-rate", func() { cfg.StepRate = params.StepRate }},
		{"subdivision-rate", func() { cfg.SubdivisionRate = params.SubdivisionRate }},
		{"iterations", func() { cfg.Iterations = params.Iterations }},
		{"iteration-rate", func() { cfg.IterationRate = params.IterationRate }},
		{"threshold", func() { cfg.CompatibilityThreshold = params.CompatibilityThreshold }},
		{"eps", func() { cfg.Eps = params.Eps }},
		{"subdivision-mode", func() { cfg.Subdivision = params.Subdivision }},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			o.set()
		}
	}
}

// loadConfig returns the defaults, or the file at path decoded over them.
func loadConfig(path string) (bundle.Config, error) {
	if path == "" {
		return bundle.DefaultConfig(), nil
	}
	return bundle.LoadConfig(path)
}

func (c *CLI) runBundle(ctx context.Context, path string, cfg bundle.Config, opts *bundleOpts) error {
	format := opts.format
	if format == "" {
		format = edgeio.FormatCSV
		if opts.output != "" {
			format = edgeio.FormatFromPath(opts.output)
		}
	}
	if err := edgeio.ValidateFormat(format); err != nil {
		return err
	}

	edges, err := edgeio.ImportEdges(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("read edges", "path", path, "edges", len(edges))

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	flags := cacheFlags{backend: backendFile}
	if opts.noCache {
		flags.backend = backendNone
	}
	runner, err := c.newRunner(ctx, &flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var spin *Spinner
	if !opts.quiet {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Bundling %d edges", len(edges)))
		spin.Start()
	}

	res, err := runner.Execute(ctx, edges, pipeline.Options{
		Config:  cfg,
		Refresh: opts.refresh,
		Workers: opts.workers,
		Progress: func(cy force.Cycle) {
			if spin != nil {
				spin.SetMessage(cycleMessage(cy, cfg.Cycles))
			}
		},
	})
	if err != nil {
		if spin != nil {
			spin.StopWithError("Bundling failed")
		}
		return err
	}
	if spin != nil {
		spin.Stop()
	}

	if err := c.writeTable(res.Table, opts.output, format); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Bundled %d edges into %d rows", res.Stats.Edges, res.Stats.Rows))
	if !opts.quiet {
		printSuccess("Bundled %s edges", StyleNumber.Render(fmt.Sprint(res.Stats.Edges)))
		printStats(res.Stats, res.CacheInfo.Hit)
		if opts.output != "" {
			printFile(opts.output)
		}
	}
	return nil
}

func (c *CLI) writeTable(t *table.Table, path, format string) error {
	if path == "" {
		return edgeio.WriteTable(t, c.stdout, format)
	}
	if format == edgeio.FormatFromPath(path) {
		return edgeio.ExportTable(t, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := edgeio.WriteTable(t, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// cycleMessage describes a running cycle; a polyline carries its interior
// points plus both endpoints.
func cycleMessage(cy force.Cycle, cycles int) string {
	return fmt.Sprintf("Cycle %d/%d · %d points per edge", cy.Index+1, cycles, cy.Subdivisions+2)
}
