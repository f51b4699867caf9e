package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/internal/server"
	"github.com/matzehuels/edgebundle/pkg/cache"
	"github.com/matzehuels/edgebundle/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	cfg := server.Config{}
	flags := cacheFlags{backend: backendMemory}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve bundling over HTTP",
		Long: `Serve starts the HTTP service:

  POST /v1/bundle  {"edges": [...], "config": {...}}
  GET  /healthz

Results are cached in memory by default; use --cache redis or --cache mongo
to share them between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cfg, &flags)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", server.DefaultTimeout, "per-request bundling deadline")
	cmd.Flags().IntVar(&cfg.MaxEdges, "max-edges", server.DefaultMaxEdges, "largest accepted edge list")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "worker goroutines per request (default GOMAXPROCS)")
	addCacheFlags(cmd, &flags)

	return cmd
}

// addCacheFlags registers the backend selection flags.
func addCacheFlags(cmd *cobra.Command, f *cacheFlags) {
	cmd.Flags().StringVar(&f.backend, "cache", f.backend, "cache backend: file, memory, redis, mongo, none")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "redis URL (redis://host:6379/0)")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "", "MongoDB URI (mongodb://host:27017)")
	cmd.Flags().StringVar(&f.mongoDB, "mongo-db", cache.DefaultMongoDatabase, "MongoDB database")
	cmd.Flags().StringVar(&f.namespace, "namespace", "", "key prefix shared by cooperating instances")
	cmd.Flags().IntVar(&f.entries, "cache-entries", cache.DefaultMemoryEntries, "memory cache capacity")
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, flags *cacheFlags) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	runner, err := c.newRunner(connectCtx, flags)
	cancel()
	if err != nil {
		return err
	}
	defer runner.Close()

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetBundleHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	printInfo("Serving on %s", StyleHighlight.Render(cfg.Addr))
	printDetail("cache: %s", flags.backend)
	return server.New(runner, c.Logger, cfg).ListenAndServe(ctx)
}
